package schema

// Layout holds the fixed spacing around a chart.
type Layout struct {
	Margin  int
	Padding int
	Height  int
}

// Inset is the horizontal space taken by margins and padding on both sides.
func (l Layout) Inset() int {
	return 2*l.Margin + 2*l.Padding
}

// ChartWidth returns the chart width for a container, clamped at zero.
func (l Layout) ChartWidth(containerWidth int) int {
	return max(containerWidth-l.Inset(), 0)
}

var (
	// WebLayout is used by the HTML page and the image renderers.
	WebLayout = Layout{Margin: 10, Padding: 15, Height: ChartHeight}

	// TerminalLayout is used by the text renderer and the TUI; units are cells.
	TerminalLayout = Layout{Margin: 1, Padding: 2, Height: TerminalChartHeight}
)

// LayoutFor returns the chart layout that an output format draws with.
func LayoutFor(mode OutputMode) Layout {
	if mode == TextOut {
		return TerminalLayout
	}
	return WebLayout
}
