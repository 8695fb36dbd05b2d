package outwriter

import (
	"fmt"
	"io"
	"sort"

	"github.com/burnrate-dev/burnrate/internal/contract"
	"github.com/burnrate-dev/burnrate/schema"
)

// statusTimeFormat is the display format of history timestamps.
const statusTimeFormat = "2006-01-02 15:04:05"

// PrintHistoryStatus outputs the history status as JSON or plain text.
func PrintHistoryStatus(status schema.HistoryStatus, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteHistoryStatus(w, status, cfg)
	}, "Wrote history status")
}

// WriteHistoryStatus writes the history status to w.
func WriteHistoryStatus(w io.Writer, status schema.HistoryStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeJSON(w, status)
	}

	lines := []string{
		fmt.Sprintf("History Backend: %s", status.Backend),
		fmt.Sprintf("Connected: %t", status.Connected),
	}
	if status.Connected {
		lines = append(lines,
			fmt.Sprintf("Schema Version: %d", status.SchemaVersion),
			fmt.Sprintf("Total Renders: %d", status.TotalRenders),
		)
		if status.TotalRenders > 0 {
			lines = append(lines,
				fmt.Sprintf("Last Render ID: %d", status.LastRenderID),
				fmt.Sprintf("Last Render: %s", status.LastRenderTime.Format(statusTimeFormat)),
				fmt.Sprintf("Oldest Render: %s", status.OldestRenderTime.Format(statusTimeFormat)),
				fmt.Sprintf("Total Samples: %d", status.TotalSamples),
			)
		}
		lines = append(lines, "Table Sizes:")
		tables := make([]string, 0, len(status.TableSizes))
		for table := range status.TableSizes {
			tables = append(tables, table)
		}
		sort.Strings(tables)
		for _, table := range tables {
			lines = append(lines, fmt.Sprintf("  %s: %d rows", table, status.TableSizes[table]))
		}
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
