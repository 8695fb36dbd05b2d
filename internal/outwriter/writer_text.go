package outwriter

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/burnrate-dev/burnrate/internal/contract"
	"github.com/burnrate-dev/burnrate/schema"
	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// axisLabelWidth is the space asciigraph needs for its y-axis labels.
const axisLabelWidth = 10

// writeTextPanel prints the panel as a terminal line chart plus a summary table.
func writeTextPanel(w io.Writer, view schema.PanelView, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if view.Loading {
		_, err := fmt.Fprintf(w, "⏳ %s: waiting for %v\n", view.Title, view.Pending)
		return err
	}
	chart := view.Chart

	if _, err := fmt.Fprintf(w, "🔥 %s (step %s)\n", view.Title, time.Duration(chart.StepSeconds*float64(time.Second))); err != nil {
		return err
	}
	for _, q := range chart.Queries {
		if q.Status == schema.ErrorStatus {
			if _, err := fmt.Fprintf(w, "⚠️  %s query failed: %s\n", q.Role, q.Error); err != nil {
				return err
			}
		}
	}

	if chart.Empty() {
		if _, err := fmt.Fprintln(w, "No data in range"); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintln(w, plotChart(chart, cfg)); err != nil {
			return err
		}
	}

	if err := writeSummaryTable(w, chart, cfg, fmtFloat); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Panel rendered in %v. Prometheus: %s\n", duration, cfg.PrometheusURL); err != nil {
		return err
	}
	return nil
}

// plotChart draws every data column with asciigraph.
func plotChart(chart *schema.Chart, cfg *contract.Config) string {
	times := chart.Data[0]
	axis := make([]float64, len(times))
	for i, t := range times {
		axis[i] = schema.ValueOrNaN(t)
	}

	var data [][]float64
	var colors []asciigraph.AnsiColor
	var legends []string
	for i := 1; i < len(chart.Data) && i < len(chart.Options.Series); i++ {
		opts := chart.Options.Series[i]
		data = append(data, denseColumn(axis, chart.Data[i], opts.GapMask))
		colors = append(colors, roleColor(opts.Role))
		legends = append(legends, opts.Label)
	}

	options := []asciigraph.Option{
		asciigraph.Height(chart.Options.Height),
		asciigraph.Width(max(chart.Options.Width-axisLabelWidth, 10)),
		asciigraph.LowerBound(0),
		asciigraph.Precision(uint(cfg.Precision)),
		asciigraph.SeriesLegends(legends...),
	}
	if cfg.UseColors {
		options = append(options, asciigraph.SeriesColors(colors...))
	}
	return asciigraph.PlotMany(data, options...)
}

// denseColumn fills alignment holes inside connected stretches and leaves NaN in gaps.
func denseColumn(times []float64, col []*float64, mask *schema.GapMaskSpec) []float64 {
	out := make([]float64, len(col))
	prev := -1
	for i := range col {
		out[i] = math.NaN()
		if col[i] != nil {
			out[i] = *col[i]
			prev = i
			continue
		}
		if prev < 0 {
			continue
		}
		next := -1
		for j := i + 1; j < len(col); j++ {
			if col[j] != nil {
				next = j
				break
			}
		}
		if next >= 0 && mask.Connected(times[prev], times[next]) {
			out[i] = *col[prev]
		}
	}
	return out
}

// roleColor maps a series role to the terminal palette.
func roleColor(role schema.QueryRole) asciigraph.AnsiColor {
	switch role {
	case schema.ShortRole:
		return asciigraph.Red
	case schema.LongRole:
		return asciigraph.DarkRed
	default:
		return asciigraph.Blue
	}
}

// writeSummaryTable prints one row per series with its latest value and burn label.
func writeSummaryTable(w io.Writer, chart *schema.Chart, cfg *contract.Config, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Series", "Query", "Status", "Latest", "Burn"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	queries := make(map[schema.QueryRole]schema.QueryState, len(chart.Queries))
	for _, q := range chart.Queries {
		queries[q.Role] = q
	}

	threshold, hasThreshold := thresholdValue(chart)
	labelFn := func(l schema.BurnLabel) string { return string(l) }
	if cfg.UseColors {
		labelFn = contract.GetColorLabel
	}

	var data [][]string
	for i := 1; i < len(chart.Options.Series); i++ {
		opts := chart.Options.Series[i]
		if opts.Role == schema.ThresholdRole {
			continue
		}
		var latest float64
		var ok bool
		if !chart.Empty() && i < len(chart.Data) {
			latest, ok = schema.LastValue(chart.Data[i])
		}
		latestStr := "-"
		if ok {
			latestStr = fmtFloat(latest)
		}
		label := schema.NoDataLabel
		if hasThreshold {
			label = contract.GetBurnLabel(latest, ok, threshold)
		}
		q := queries[opts.Role]
		data = append(data, []string{opts.Label, q.Query, string(q.Status), latestStr, labelFn(label)})
	}
	// Failed or empty queries still get a row.
	for _, q := range chart.Queries {
		if !chart.Empty() && !hasColumn(chart, q.Role) {
			data = append(data, []string{string(q.Role), q.Query, string(q.Status), "-", labelFn(schema.NoDataLabel)})
		}
	}
	if hasThreshold {
		data = append(data, []string{string(schema.ThresholdRole), "", "", fmtFloat(threshold), ""})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// thresholdValue returns the constant of the threshold column.
func thresholdValue(chart *schema.Chart) (float64, bool) {
	if chart.Empty() {
		return 0, false
	}
	for i, s := range chart.Options.Series {
		if s.Role == schema.ThresholdRole && i < len(chart.Data) {
			return schema.LastValue(chart.Data[i])
		}
	}
	return 0, false
}

// hasColumn reports whether the chart has a data column of the given role.
func hasColumn(chart *schema.Chart, role schema.QueryRole) bool {
	for i, s := range chart.Options.Series {
		if i > 0 && s.Role == role {
			return true
		}
	}
	return false
}
