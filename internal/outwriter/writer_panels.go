package outwriter

import (
	"fmt"
	"io"

	"github.com/burnrate-dev/burnrate/internal/contract"
	"github.com/burnrate-dev/burnrate/schema"
	"github.com/olekukonko/tablewriter"
)

// PrintPanelDefinitions lists the configured named panels.
func PrintPanelDefinitions(cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WritePanelDefinitions(w, cfg)
	}, "Wrote panel list")
}

// WritePanelDefinitions writes the configured named panels to w.
func WritePanelDefinitions(w io.Writer, cfg *contract.Config) error {
	names := contract.PanelNames(cfg)
	defs := make([]contract.PanelDefinition, 0, len(names))
	for _, name := range names {
		defs = append(defs, cfg.Panels[name])
	}

	if cfg.Output == schema.JSONOut {
		return writeJSON(w, defs)
	}

	if len(defs) == 0 {
		_, err := fmt.Fprintln(w, "No panels configured. Add a 'panels' list to .burnrate.yaml")
		return err
	}

	fmtFloat, _ := createFormatters(cfg.Precision)
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Name", "Title", "Short", "Long", "Threshold"})
	var data [][]string
	for _, def := range defs {
		data = append(data, []string{def.Name, def.Title, def.Short, def.Long, fmtFloat(def.Threshold)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
