package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/burnrate-dev/burnrate/internal/contract"
	"github.com/burnrate-dev/burnrate/schema"
)

// chartPadding is the top, right, bottom, left padding inside the chart.
var chartPadding = [4]int{15, 0, 0, 0}

// DeriveInput is everything a panel view depends on.
type DeriveInput struct {
	Props          schema.PanelProps
	Short          QueryResult
	Long           QueryResult
	ContainerWidth int
	Layout         schema.Layout
}

// Derive computes the panel view from query results and container width.
// It is pure: the same input always produces the same view.
func Derive(in DeriveInput) schema.PanelView {
	title := in.Props.Title
	if title == "" {
		title = schema.DefaultTitle
	}

	var pending []schema.QueryRole
	for _, r := range []QueryResult{in.Short, in.Long} {
		if !r.Status.Terminal() {
			pending = append(pending, r.Role)
		}
	}
	if len(pending) > 0 {
		return schema.PanelView{Title: title, Loading: true, Pending: pending}
	}

	var sets []schema.AlignedData
	for _, r := range []QueryResult{in.Short, in.Long} {
		if r.Status != schema.SuccessStatus {
			continue
		}
		if aligned := ConvertAlignedData(r.Matrix, r.Role); aligned != nil {
			sets = append(sets, *aligned)
		}
	}
	merged := WithThreshold(MergeAlignedData(sets), in.Props.Threshold)

	from, to := in.Props.FromSeconds(), in.Props.ToSeconds()
	mask := SeriesGaps(from, to)
	options := schema.ChartOptions{
		Title:   title,
		Width:   in.Layout.ChartWidth(in.ContainerWidth),
		Height:  in.Layout.Height,
		Padding: chartPadding,
		Cursor:  in.Props.Cursor,
		Scales: map[string]schema.Scale{
			"x": {Min: schema.Float64Ptr(from), Max: schema.Float64Ptr(to)},
		},
	}

	chart := &schema.Chart{
		StepSeconds: stepSeconds(from, to),
		Queries:     []schema.QueryState{in.Short.State(), in.Long.State()},
	}
	if merged.Len() == 0 {
		options.Series = emptySeries(mask)
		chart.Data = [][]*float64{{}, {}, {}, {}}
	} else {
		options.Series = chartSeries(merged, mask)
		chart.Data = merged.Matrix()
	}
	chart.Options = options

	return schema.PanelView{Title: title, Chart: chart}
}

// emptySeries is the series configuration of a chart without data.
func emptySeries(mask GapMask) []schema.SeriesOptions {
	return []schema.SeriesOptions{
		{},
		roleOptions(schema.ShortRole, string(schema.ShortRole), mask),
		roleOptions(schema.LongRole, string(schema.LongRole), mask),
		roleOptions(schema.ThresholdRole, string(schema.ThresholdRole), mask),
	}
}

// chartSeries configures one series per data column, preceded by the time axis.
func chartSeries(data schema.AlignedData, mask GapMask) []schema.SeriesOptions {
	perRole := make(map[schema.QueryRole]int)
	for _, s := range data.Series {
		perRole[s.Role]++
	}

	series := make([]schema.SeriesOptions, 0, len(data.Series)+1)
	series = append(series, schema.SeriesOptions{})
	for _, s := range data.Series {
		label := string(s.Role)
		if perRole[s.Role] > 1 && len(s.Labels) > 0 {
			label = fmt.Sprintf("%s %s", s.Role, formatLabels(s.Labels))
		}
		opts := roleOptions(s.Role, label, mask)
		if opts.GapMask != nil {
			opts.Gaps = mask.Intervals(data.Times, s.Values)
		}
		series = append(series, opts)
	}
	return series
}

// roleOptions styles a series by the query it came from.
func roleOptions(role schema.QueryRole, label string, mask GapMask) schema.SeriesOptions {
	switch role {
	case schema.ShortRole:
		return schema.SeriesOptions{Role: role, Label: label, Stroke: schema.HexColor(schema.Reds[1]), Min: schema.Float64Ptr(0), GapMask: mask.Spec()}
	case schema.LongRole:
		return schema.SeriesOptions{Role: role, Label: label, Stroke: schema.HexColor(schema.Reds[2]), Min: schema.Float64Ptr(0), GapMask: mask.Spec()}
	default:
		return schema.SeriesOptions{Role: role, Label: label, Stroke: schema.HexColor(schema.Blues[0])}
	}
}

// formatLabels renders a label set like {a="1", b="2"}.
func formatLabels(labels map[string]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%q", k, labels[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Panel runs the short and long queries of one burn rate panel.
type Panel struct {
	props   schema.PanelProps
	layout  schema.Layout
	step    time.Duration
	short   *RangeQuery
	long    *RangeQuery
	updates chan struct{}
	once    sync.Once
}

// NewPanel creates a panel whose queries are not dispatched yet.
func NewPanel(client contract.QueryClient, props schema.PanelProps, layout schema.Layout) *Panel {
	start, end := time.UnixMilli(props.From), time.UnixMilli(props.To)
	step := Step(start, end)
	return &Panel{
		props:   props,
		layout:  layout,
		step:    step,
		short:   NewRangeQuery(client, schema.ShortRole, props.Short, start, end, step),
		long:    NewRangeQuery(client, schema.LongRole, props.Long, start, end, step),
		updates: make(chan struct{}, 2),
	}
}

// Start dispatches both queries concurrently.
// Updates receives one notification per query completion and is closed after both.
// Calling Start more than once has no effect.
func (p *Panel) Start(ctx context.Context) {
	p.once.Do(func() { p.start(ctx) })
}

func (p *Panel) start(ctx context.Context) {
	p.short.Dispatch(ctx)
	p.long.Dispatch(ctx)
	go func() {
		defer close(p.updates)
		pending := []<-chan struct{}{p.short.Done(), p.long.Done()}
		for len(pending) > 0 {
			select {
			case <-pending[0]:
				pending = pending[1:]
			case <-pending[len(pending)-1]:
				pending = pending[:len(pending)-1]
			}
			p.updates <- struct{}{}
		}
	}()
}

// Updates returns the notification channel of query completions.
func (p *Panel) Updates() <-chan struct{} {
	return p.updates
}

// Wait blocks until both queries are terminal or ctx ends.
func (p *Panel) Wait(ctx context.Context) error {
	for _, done := range []<-chan struct{}{p.short.Done(), p.long.Done()} {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// View derives the current view for a container width.
func (p *Panel) View(containerWidth int) schema.PanelView {
	return Derive(p.Input(containerWidth))
}

// Input snapshots the current derivation input.
func (p *Panel) Input(containerWidth int) DeriveInput {
	return DeriveInput{
		Props:          p.props,
		Short:          p.short.Result(),
		Long:           p.long.Result(),
		ContainerWidth: containerWidth,
		Layout:         p.layout,
	}
}

// Props returns the panel inputs.
func (p *Panel) Props() schema.PanelProps {
	return p.props
}

// Step returns the query resolution used by both queries.
func (p *Panel) Step() time.Duration {
	return p.step
}
