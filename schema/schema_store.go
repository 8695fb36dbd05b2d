package schema

import "time"

// RenderRecord represents a row from the burnrate_renders table.
type RenderRecord struct {
	RenderID    int64
	Panel       string
	Short       string
	Long        string
	Threshold   float64
	RangeStart  time.Time
	RangeEnd    time.Time
	StepSeconds float64
	ShortStatus QueryStatus
	LongStatus  QueryStatus
	Points      int32
	RenderedAt  time.Time
}

// SampleRecord represents a row from the burnrate_samples table.
// Series is the chart label of the column, Value is nil for absent samples.
type SampleRecord struct {
	RenderID  int64
	Timestamp time.Time
	Series    string
	Value     *float64
}
