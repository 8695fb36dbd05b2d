// Package core has core logic for burn rate panels: querying, alignment and derivation.
package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/burnrate-dev/burnrate/internal/contract"
	"github.com/burnrate-dev/burnrate/internal/outwriter"
	"github.com/burnrate-dev/burnrate/internal/prom"
	"github.com/burnrate-dev/burnrate/schema"
)

// ExecutorFunc defines the function signature for executing different panel modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error

// terminalFallbackWidth is used when the terminal size cannot be read.
const terminalFallbackWidth = 80

// ExecuteBurnratePanel queries one panel, waits for both windows and prints it.
// It serves as the main entry point for the 'panel' mode.
func ExecuteBurnratePanel(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	start := time.Now()

	props, err := contract.ResolvePanel(cfg)
	if err != nil {
		return err
	}
	client, err := prom.NewClient(cfg.PrometheusURL, cfg.QueryTimeout)
	if err != nil {
		return err
	}

	panel := NewPanel(client, props, schema.LayoutFor(cfg.Output))
	if cfg.Output == schema.TextOut {
		contract.LogPanelHeader(props, panel.Step())
	}
	view, err := RunPanel(ctx, panel, cfg.QueryTimeout, ContainerWidth(cfg))
	if err != nil {
		return err
	}

	if cfg.Record {
		if _, err := RecordView(mgr, panel, view, time.Now()); err != nil {
			contract.LogWarn("Could not record panel", err)
		}
	}

	duration := time.Since(start)
	return outwriter.PrintPanel(view, cfg, duration)
}

// RunPanel dispatches both queries, waits until they are terminal and derives the view.
// Queries that outlive timeout end in the error state rather than leaving the panel loading.
func RunPanel(ctx context.Context, panel *Panel, timeout time.Duration, containerWidth int) (schema.PanelView, error) {
	queryCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	panel.Start(queryCtx)
	if err := panel.Wait(ctx); err != nil {
		return schema.PanelView{}, fmt.Errorf("panel interrupted: %w", err)
	}
	return panel.View(containerWidth), nil
}

// ContainerWidth returns the width a one-shot render lays out against.
func ContainerWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	if cfg.Output == schema.TextOut {
		return TerminalWidth(int(os.Stdout.Fd()), terminalFallbackWidth)
	}
	return schema.DefaultContainerWidth
}

// RecordView stores a rendered panel and its samples in the history store.
// Loading views are not recorded.
func RecordView(mgr contract.HistoryManager, panel *Panel, view schema.PanelView, renderedAt time.Time) (int64, error) {
	if mgr == nil || view.Loading || view.Chart == nil {
		return 0, nil
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return 0, nil
	}

	props := panel.Props()
	record := schema.RenderRecord{
		Panel:       props.Name,
		Short:       props.Short,
		Long:        props.Long,
		Threshold:   props.Threshold,
		RangeStart:  time.UnixMilli(props.From).UTC(),
		RangeEnd:    time.UnixMilli(props.To).UTC(),
		StepSeconds: view.Chart.StepSeconds,
		Points:      int32(len(view.Chart.Data[0])),
		RenderedAt:  renderedAt.UTC(),
	}
	for _, q := range view.Chart.Queries {
		switch q.Role {
		case schema.ShortRole:
			record.ShortStatus = q.Status
		case schema.LongRole:
			record.LongStatus = q.Status
		}
	}

	renderID, err := store.RecordRender(record)
	if err != nil {
		return 0, err
	}
	if err := store.RecordSamples(renderID, outwriter.SampleRecords(view.Chart, renderID)); err != nil {
		return renderID, err
	}
	return renderID, nil
}
