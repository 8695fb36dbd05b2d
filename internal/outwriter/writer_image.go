package outwriter

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	svg "github.com/ajstarks/svgo"
	"github.com/burnrate-dev/burnrate/schema"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// minImageWidth keeps very narrow containers drawable.
const minImageWidth = 120

// headlineHeight is the space above the plot reserved for the title.
const headlineHeight = 24

// imageWidth returns the drawable width for a chart.
func imageWidth(c *schema.Chart) int {
	return max(c.Options.Width, minImageWidth)
}

// xRange returns the x scale of the chart in unix seconds.
func xRange(c *schema.Chart) (float64, float64) {
	x := c.Options.Scales["x"]
	lo, hi := 0.0, 1.0
	if x.Min != nil {
		lo = *x.Min
	}
	if x.Max != nil {
		hi = *x.Max
	}
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

// yMax returns the top of the y scale; the bottom is always zero.
func yMax(c *schema.Chart) float64 {
	top := 0.0
	for i := 1; i < len(c.Data); i++ {
		for _, v := range c.Data[i] {
			if v != nil && *v > top {
				top = *v
			}
		}
	}
	if top <= 0 {
		return 1
	}
	return top * 1.1
}

// timeTick formats a unix-seconds tick for the x axis.
func timeTick(v any) string {
	if f, ok := v.(float64); ok {
		return unixTime(f).Format("01-02 15:04")
	}
	return ""
}

// writePNGPanel renders the chart as a PNG image with go-chart.
// Each connected run of a series is drawn as its own line so gaps stay open.
func writePNGPanel(w io.Writer, view schema.PanelView) error {
	if view.Loading {
		return errStillLoading(view)
	}
	c := view.Chart
	lo, hi := xRange(c)

	var series []chart.Series
	if !c.Empty() {
		times := make([]float64, len(c.Data[0]))
		for i, t := range c.Data[0] {
			times[i] = schema.ValueOrNaN(t)
		}
		for i := 1; i < len(c.Data) && i < len(c.Options.Series); i++ {
			opts := c.Options.Series[i]
			style := chart.Style{
				StrokeColor: drawing.ColorFromHex(strings.TrimPrefix(opts.Stroke, "#")),
				StrokeWidth: 1.5,
			}
			if opts.Role == schema.ThresholdRole {
				style.StrokeDashArray = []float64{5, 5}
			}
			for j, seg := range schema.Segments(times, c.Data[i], opts.GapMask) {
				xs, ys := make([]float64, 0, 2), make([]float64, 0, 2)
				for _, p := range seg {
					xs = append(xs, p.T)
					ys = append(ys, p.V)
				}
				segStyle := style
				// Pad to at least two X values for go-chart
				if len(xs) == 1 {
					xs = append(xs, xs[0])
					ys = append(ys, ys[0])
					segStyle.DotWidth = 2
					segStyle.DotColor = style.StrokeColor
				}
				name := ""
				if j == 0 {
					name = opts.Label
				}
				series = append(series, chart.ContinuousSeries{Name: name, XValues: xs, YValues: ys, Style: segStyle})
			}
		}
	}
	if len(series) == 0 {
		// go-chart needs one visible series to draw the axes.
		series = append(series, chart.ContinuousSeries{
			XValues: []float64{lo, hi},
			YValues: []float64{0, 0},
			Style:   chart.Style{StrokeColor: drawing.ColorTransparent, StrokeWidth: 1},
		})
	}

	ch := chart.Chart{
		Title:      view.Title,
		Width:      imageWidth(c),
		Height:     c.Options.Height + headlineHeight,
		Background: chart.Style{Padding: chart.Box{Top: headlineHeight + c.Options.Padding[0], Left: 16, Right: 12, Bottom: 16}},
		XAxis: chart.XAxis{
			ValueFormatter: timeTick,
			Range:          &chart.ContinuousRange{Min: lo, Max: hi},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: yMax(c)},
		},
		Series: series,
	}
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render png: %w", err)
	}
	return nil
}

// writeSVGPanel renders the chart as an SVG image with svgo.
func writeSVGPanel(w io.Writer, view schema.PanelView, fmtFloat func(float64) string) error {
	if view.Loading {
		return errStillLoading(view)
	}
	c := view.Chart
	width := imageWidth(c)
	plotTop := headlineHeight + c.Options.Padding[0]
	height := plotTop + c.Options.Height
	lo, hi := xRange(c)
	top := yMax(c)

	px := func(t float64) int {
		return int(math.Round((t - lo) / (hi - lo) * float64(width)))
	}
	py := func(v float64) int {
		return plotTop + c.Options.Height - int(math.Round(v/top*float64(c.Options.Height)))
	}

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#ffffff")
	canvas.Text(4, 16, view.Title, "fill:#212121;font-size:14px;font-family:sans-serif;font-weight:bold")

	// Axes
	canvas.Line(0, py(0), width, py(0), "stroke:#9e9e9e;stroke-width:1")
	canvas.Text(4, plotTop+10, fmtFloat(top), "fill:#757575;font-size:10px;font-family:sans-serif")
	canvas.Text(4, height-2, unixTime(lo).Format(time.DateTime), "fill:#757575;font-size:10px;font-family:sans-serif")

	if c.Empty() {
		canvas.Text(width/2, plotTop+c.Options.Height/2, "No data", "fill:#757575;font-size:12px;font-family:sans-serif;text-anchor:middle")
		canvas.End()
		return nil
	}

	times := make([]float64, len(c.Data[0]))
	for i, t := range c.Data[0] {
		times[i] = schema.ValueOrNaN(t)
	}
	for i := 1; i < len(c.Data) && i < len(c.Options.Series); i++ {
		opts := c.Options.Series[i]
		style := fmt.Sprintf("fill:none;stroke:%s;stroke-width:1.5", opts.Stroke)
		if opts.Role == schema.ThresholdRole {
			style += ";stroke-dasharray:5,5"
		}
		for _, seg := range schema.Segments(times, c.Data[i], opts.GapMask) {
			if len(seg) == 1 {
				canvas.Circle(px(seg[0].T), py(seg[0].V), 2, fmt.Sprintf("fill:%s", opts.Stroke))
				continue
			}
			xs, ys := make([]int, len(seg)), make([]int, len(seg))
			for k, p := range seg {
				xs[k], ys[k] = px(p.T), py(p.V)
			}
			canvas.Polyline(xs, ys, style)
		}
	}
	canvas.End()
	return nil
}
