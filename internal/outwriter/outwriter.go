// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/burnrate-dev/burnrate/internal/contract"
	"github.com/burnrate-dev/burnrate/schema"
)

// PrintPanel outputs the panel view, dispatching based on the output format configured.
func PrintPanel(view schema.PanelView, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WritePanel(w, view, cfg, duration)
	}, fmt.Sprintf("Wrote %s panel", cfg.Output))
}

// WritePanel writes the panel view to w in the configured output format.
func WritePanel(w io.Writer, view schema.PanelView, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtCell := createFormatters(cfg.Precision)

	var err error
	switch cfg.Output {
	case schema.JSONOut:
		err = writeJSON(w, view)
	case schema.CSVOut:
		err = writeCSVPanel(w, view, fmtCell)
	case schema.ParquetOut:
		err = writeParquetPanel(w, view)
	case schema.HTMLOut:
		err = WriteHTMLPanel(w, view)
	case schema.PNGOut:
		err = writePNGPanel(w, view)
	case schema.SVGOut:
		err = writeSVGPanel(w, view, fmtFloat)
	default:
		// Default to the human-readable chart and table
		err = writeTextPanel(w, view, cfg, fmtFloat, duration)
	}
	if err != nil {
		return fmt.Errorf("error writing %s output: %w", cfg.Output, err)
	}
	return nil
}
