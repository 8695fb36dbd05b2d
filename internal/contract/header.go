package contract

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/burnrate-dev/burnrate/schema"
)

// LogPanelHeader prints a concise, 2-line header before a panel is queried.
// It goes to stderr so that data formats on stdout stay clean.
func LogPanelHeader(props schema.PanelProps, step time.Duration) {
	writePanelHeader(os.Stderr, props, step)
}

func writePanelHeader(w io.Writer, props schema.PanelProps, step time.Duration) {
	name := props.Name
	if name == "" {
		name = "ad-hoc"
	}

	// Line 1: which panel and its threshold
	_, _ = fmt.Fprintf(w, "🔎 Panel: %s (threshold: %g)\n", name, props.Threshold)

	// Line 2: the queried range and resolution
	_, _ = fmt.Fprintf(w, "📅 Range: %s → %s (step %s)\n",
		time.UnixMilli(props.From).UTC().Format(DateTimeFormat),
		time.UnixMilli(props.To).UTC().Format(DateTimeFormat),
		step)
}
