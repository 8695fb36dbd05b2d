package core

import (
	"context"
	"os"
	"time"

	"github.com/burnrate-dev/burnrate/internal/contract"
	"github.com/burnrate-dev/burnrate/internal/outwriter"
	"github.com/burnrate-dev/burnrate/internal/prom"
	"github.com/burnrate-dev/burnrate/schema"
)

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\033[H\033[2J"

// SlideProps moves the panel range so that it ends at now, keeping its span.
func SlideProps(props schema.PanelProps, now time.Time) schema.PanelProps {
	span := props.To - props.From
	props.To = now.UnixMilli()
	props.From = props.To - span
	return props
}

// WatchPanel redraws a panel on every query completion and width change until ctx ends.
// With a positive refresh the range slides forward and both queries are dispatched again.
func WatchPanel(ctx context.Context, client contract.QueryClient, props schema.PanelProps, timeout, refresh time.Duration, vp *Viewport, draw func(schema.PanelView) error) error {
	widths, unsubscribe := vp.Subscribe()
	defer unsubscribe()

	var ticks <-chan time.Time
	if refresh > 0 {
		ticker := time.NewTicker(refresh)
		defer ticker.Stop()
		ticks = ticker.C
	}

	for {
		panel := NewPanel(client, props, schema.TerminalLayout)
		queryCtx, cancel := context.WithTimeout(ctx, timeout)
		panel.Start(queryCtx)

		if err := watchOnce(ctx, panel, vp, widths, ticks, draw); err != nil {
			cancel()
			return err
		}
		cancel()
		if ctx.Err() != nil {
			return nil
		}
		props = SlideProps(props, time.Now())
	}
}

// watchOnce draws one panel until ctx ends or the next refresh tick.
func watchOnce(ctx context.Context, panel *Panel, vp *Viewport, widths <-chan int, ticks <-chan time.Time, draw func(schema.PanelView) error) error {
	if err := draw(panel.View(vp.Width())); err != nil {
		return err
	}
	updates := panel.Updates()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticks:
			return nil
		case _, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
		case _, ok := <-widths:
			if !ok {
				widths = nil
				continue
			}
		}
		if err := draw(panel.View(vp.Width())); err != nil {
			return err
		}
	}
}

// ExecuteBurnrateWatchPlain redraws the text panel in place without the interactive UI.
// It is used when stdout is not a terminal or the TUI is disabled.
func ExecuteBurnrateWatchPlain(ctx context.Context, cfg *contract.Config) error {
	props, err := contract.ResolvePanel(cfg)
	if err != nil {
		return err
	}
	client, err := prom.NewClient(cfg.PrometheusURL, cfg.QueryTimeout)
	if err != nil {
		return err
	}

	textCfg := cfg.Clone()
	textCfg.Output = schema.TextOut

	vp := NewViewport(ContainerWidth(textCfg))
	defer vp.Close()
	if cfg.Width == 0 {
		go WatchTerminal(ctx, vp, int(os.Stdout.Fd()))
	}

	start := time.Now()
	interactive := TerminalWidth(int(os.Stdout.Fd()), 0) > 0
	return WatchPanel(ctx, client, props, cfg.QueryTimeout, cfg.Refresh, vp, func(view schema.PanelView) error {
		if interactive {
			_, _ = os.Stdout.WriteString(clearScreen)
		}
		return outwriter.WritePanel(os.Stdout, view, textCfg, time.Since(start))
	})
}
