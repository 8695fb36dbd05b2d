package contract

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/burnrate-dev/burnrate/schema"
)

// PanelRequest holds per-request overrides coming from the HTTP server or MCP tools.
// Empty fields fall back to the configured values.
type PanelRequest struct {
	Panel     string
	Title     string
	Short     string
	Long      string
	Threshold *float64
	Start     string
	End       string
	Window    string
}

// panelOverrides are explicit values layered over a panel definition.
// Empty strings and a nil threshold leave the underlying value alone.
type panelOverrides struct {
	title     string
	short     string
	long      string
	threshold *float64
}

// over returns o with every field that top sets replaced.
func (o panelOverrides) over(top panelOverrides) panelOverrides {
	if top.title != "" {
		o.title = top.title
	}
	if top.short != "" {
		o.short = top.short
	}
	if top.long != "" {
		o.long = top.long
	}
	if top.threshold != nil {
		o.threshold = top.threshold
	}
	return o
}

// configOverrides collects the panel values given on the command line, env or config file.
func configOverrides(cfg *Config) panelOverrides {
	o := panelOverrides{title: cfg.Title, short: cfg.Short, long: cfg.Long}
	if cfg.ThresholdSet {
		threshold := cfg.Threshold
		o.threshold = &threshold
	}
	return o
}

// ResolvePanel builds panel props from the validated config alone.
func ResolvePanel(cfg *Config) (schema.PanelProps, error) {
	return buildProps(cfg, cfg.PanelName, configOverrides(cfg), cfg.StartTime, cfg.EndTime)
}

// ResolvePanelRequest applies request overrides on top of the config.
// A request naming a panel starts from that panel's definition and ignores the
// configured queries and threshold; only the request's own fields override it.
func ResolvePanelRequest(cfg *Config, req PanelRequest, now time.Time) (schema.PanelProps, error) {
	start, end := cfg.StartTime, cfg.EndTime
	if req.Start != "" || req.End != "" || req.Window != "" {
		window := cfg.Window
		if req.Window != "" {
			w, err := ParseWindowDuration(req.Window)
			if err != nil {
				return schema.PanelProps{}, fmt.Errorf("invalid window: %w", err)
			}
			window = w
		}
		var err error
		start, end, err = ResolveTimeRange(req.Start, req.End, window, now)
		if err != nil {
			return schema.PanelProps{}, err
		}
	}

	requested := panelOverrides{
		title:     req.Title,
		short:     strings.TrimSpace(req.Short),
		long:      strings.TrimSpace(req.Long),
		threshold: req.Threshold,
	}
	if name := strings.TrimSpace(req.Panel); name != "" {
		return buildProps(cfg, name, requested, start, end)
	}
	return buildProps(cfg, cfg.PanelName, configOverrides(cfg).over(requested), start, end)
}

// buildProps layers explicit values over a named panel definition, or over the
// configured threshold when no panel is named.
func buildProps(cfg *Config, name string, o panelOverrides, start, end time.Time) (schema.PanelProps, error) {
	props := schema.PanelProps{
		Name:      name,
		Threshold: cfg.Threshold,
		From:      start.UnixMilli(),
		To:        end.UnixMilli(),
		Cursor:    cfg.Cursor,
	}

	if name != "" {
		def, ok := cfg.Panels[name]
		if !ok {
			return schema.PanelProps{}, fmt.Errorf("unknown panel %q", name)
		}
		props.Title = def.Title
		props.Short = def.Short
		props.Long = def.Long
		props.Threshold = def.Threshold
	}

	if o.title != "" {
		props.Title = o.title
	}
	if o.short != "" {
		props.Short = o.short
	}
	if o.long != "" {
		props.Long = o.long
	}
	if o.threshold != nil {
		props.Threshold = *o.threshold
	}
	if props.Title == "" {
		props.Title = schema.DefaultTitle
	}

	if props.Short == "" || props.Long == "" {
		return schema.PanelProps{}, fmt.Errorf("both short and long queries are required (use --short/--long or --panel)")
	}
	if props.Threshold < 0 {
		return schema.PanelProps{}, fmt.Errorf("threshold cannot be negative (received %g)", props.Threshold)
	}
	if props.From >= props.To {
		return schema.PanelProps{}, fmt.Errorf("start time must be before end time")
	}
	return props, nil
}

// PanelNames returns the configured panel names in sorted order.
func PanelNames(cfg *Config) []string {
	names := make([]string, 0, len(cfg.Panels))
	for name := range cfg.Panels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
