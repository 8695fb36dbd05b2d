// Package schema has models and constants for all parts of burnrate.
package schema

// AlignedSeries is one value column of an AlignedData.
type AlignedSeries struct {
	Role   QueryRole         `json:"role"`
	Labels map[string]string `json:"labels,omitempty"`
	Values []*float64        `json:"values"` // nil entries mark absent samples
}

// AlignedData is a set of series sharing one time axis.
// Times holds unix seconds in strictly ascending order and every series has len(Times) values.
type AlignedData struct {
	Times  []float64       `json:"times"`
	Series []AlignedSeries `json:"series"`
}

// Len returns the length of the shared time axis.
func (a AlignedData) Len() int {
	return len(a.Times)
}

// Matrix returns the column-major data matrix with the time axis as column 0.
// Columns are never nil so that an empty axis encodes as [] rather than null.
func (a AlignedData) Matrix() [][]*float64 {
	out := make([][]*float64, 0, len(a.Series)+1)
	xs := make([]*float64, len(a.Times))
	for i := range a.Times {
		xs[i] = Float64Ptr(a.Times[i])
	}
	out = append(out, xs)
	for _, s := range a.Series {
		col := make([]*float64, len(s.Values))
		copy(col, s.Values)
		out = append(out, col)
	}
	return out
}

// CursorSync groups charts whose cursors move together.
type CursorSync struct {
	Key string `json:"key"`
}

// Cursor is the cursor configuration handed through to the chart.
type Cursor struct {
	Sync *CursorSync `json:"sync,omitempty"`
}

// Interval is a closed time interval in unix seconds.
type Interval struct {
	From float64 `json:"from"`
	To   float64 `json:"to"`
}

// GapMaskSpec describes the gap policy attached to a series.
// Neighbouring samples further apart than MaxDelta seconds are not connected.
type GapMaskSpec struct {
	From     float64 `json:"from"`
	To       float64 `json:"to"`
	MaxDelta float64 `json:"max_delta"`
}

// SeriesOptions configures one chart series. The entry for the time axis is empty.
type SeriesOptions struct {
	Role    QueryRole    `json:"role,omitempty"`
	Label   string       `json:"label,omitempty"`
	Stroke  string       `json:"stroke,omitempty"`
	Min     *float64     `json:"min,omitempty"`
	GapMask *GapMaskSpec `json:"gap_mask,omitempty"`
	Gaps    []Interval   `json:"gaps,omitempty"`
}

// Scale bounds one chart axis.
type Scale struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// ChartOptions is the renderer-facing chart configuration.
type ChartOptions struct {
	Title   string           `json:"title"`
	Width   int              `json:"width"`
	Height  int              `json:"height"`
	Padding [4]int           `json:"padding"`
	Cursor  Cursor           `json:"cursor"`
	Series  []SeriesOptions  `json:"series"`
	Scales  map[string]Scale `json:"scales"`
}

// QueryState reports the outcome of one range query.
type QueryState struct {
	Role     QueryRole   `json:"role"`
	Query    string      `json:"query"`
	Status   QueryStatus `json:"status"`
	Error    string      `json:"error,omitempty"`
	Warnings []string    `json:"warnings,omitempty"`
}

// Chart is a configured chart plus its data matrix.
type Chart struct {
	Options     ChartOptions `json:"options"`
	Data        [][]*float64 `json:"data"`
	StepSeconds float64      `json:"step_seconds"`
	Queries     []QueryState `json:"queries"`
}

// Empty reports whether the chart has no data rows.
func (c *Chart) Empty() bool {
	return len(c.Data) == 0 || len(c.Data[0]) == 0
}

// PanelView is what a renderer draws for a panel: either a loading indicator or a chart.
type PanelView struct {
	Title   string      `json:"title"`
	Loading bool        `json:"loading"`
	Pending []QueryRole `json:"pending,omitempty"`
	Chart   *Chart      `json:"chart,omitempty"`
}

// PanelProps are the inputs of a burn rate panel. From and To are unix milliseconds.
type PanelProps struct {
	Name      string  `json:"name,omitempty"`
	Title     string  `json:"title,omitempty"`
	Short     string  `json:"short"`
	Long      string  `json:"long"`
	Threshold float64 `json:"threshold"`
	From      int64   `json:"from"`
	To        int64   `json:"to"`
	Cursor    Cursor  `json:"cursor"`
}

// FromSeconds returns the range start in unix seconds.
func (p PanelProps) FromSeconds() float64 {
	return float64(p.From) / 1000
}

// ToSeconds returns the range end in unix seconds.
func (p PanelProps) ToSeconds() float64 {
	return float64(p.To) / 1000
}
