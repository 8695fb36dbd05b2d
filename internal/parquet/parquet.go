// Package parquet provides data structures and functions for exporting burn rate
// panels and render history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/burnrate-dev/burnrate/schema"
	"github.com/parquet-go/parquet-go"
)

// Render represents a single recorded panel render with metadata.
// This struct maps to the burnrate_renders database table.
type Render struct {
	// RenderID is the unique identifier for this render
	RenderID int64 `parquet:"render_id,snappy"`

	// Panel is the configured panel name (empty for ad-hoc queries)
	Panel string `parquet:"panel,snappy"`

	// ShortQuery and LongQuery are the PromQL expressions of both windows
	ShortQuery string `parquet:"short_query,snappy"`
	LongQuery  string `parquet:"long_query,snappy"`

	// Threshold is the constant burn rate threshold
	Threshold float64 `parquet:"threshold,snappy"`

	// RangeStart and RangeEnd bound the queried time range
	RangeStart time.Time `parquet:"range_start,snappy"`
	RangeEnd   time.Time `parquet:"range_end,snappy"`

	// StepSeconds is the query resolution
	StepSeconds float64 `parquet:"step_seconds,snappy"`

	// ShortStatus and LongStatus are the terminal query statuses
	ShortStatus string `parquet:"short_status,snappy"`
	LongStatus  string `parquet:"long_status,snappy"`

	// Points is the length of the shared time axis
	Points int32 `parquet:"points,snappy"`

	// RenderedAt is when the panel was rendered
	RenderedAt time.Time `parquet:"rendered_at,snappy"`
}

// Sample represents one matrix cell of a rendered panel.
// This struct maps to the burnrate_samples database table.
type Sample struct {
	// RenderID references the parent render (0 for unrecorded panels)
	RenderID int64 `parquet:"render_id,snappy"`

	// Timestamp is the time axis value
	Timestamp time.Time `parquet:"timestamp,snappy"`

	// Series is the chart label of the column
	Series string `parquet:"series,snappy"`

	// Value is the sample value (nullable for absent samples)
	Value *float64 `parquet:"value,optional,snappy"`
}

// writeRows writes rows using struct schema inference.
func writeRows[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// writeRowsToFile creates outputPath and writes rows to it.
func writeRowsToFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return writeRows(file, rows)
}

// WriteRendersParquet writes a slice of Render structs to a Parquet file.
func WriteRendersParquet(data []Render, outputPath string) error {
	return writeRowsToFile(data, outputPath)
}

// WriteSamplesParquet writes a slice of Sample structs to a Parquet file.
func WriteSamplesParquet(data []Sample, outputPath string) error {
	return writeRowsToFile(data, outputPath)
}

// WriteSamples writes a slice of Sample structs to w.
func WriteSamples(w io.Writer, data []Sample) error {
	return writeRows(w, data)
}

// ConvertRenderRecords converts schema.RenderRecord to Render for Parquet export.
func ConvertRenderRecords(records []schema.RenderRecord) []Render {
	result := make([]Render, len(records))
	for i, record := range records {
		result[i] = Render{
			RenderID:    record.RenderID,
			Panel:       record.Panel,
			ShortQuery:  record.Short,
			LongQuery:   record.Long,
			Threshold:   record.Threshold,
			RangeStart:  record.RangeStart,
			RangeEnd:    record.RangeEnd,
			StepSeconds: record.StepSeconds,
			ShortStatus: string(record.ShortStatus),
			LongStatus:  string(record.LongStatus),
			Points:      record.Points,
			RenderedAt:  record.RenderedAt,
		}
	}
	return result
}

// ConvertSampleRecords converts schema.SampleRecord to Sample for Parquet export.
func ConvertSampleRecords(records []schema.SampleRecord) []Sample {
	result := make([]Sample, len(records))
	for i, record := range records {
		result[i] = Sample{
			RenderID:  record.RenderID,
			Timestamp: record.Timestamp,
			Series:    record.Series,
			Value:     record.Value,
		}
	}
	return result
}
