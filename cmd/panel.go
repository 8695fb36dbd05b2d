package cmd

import (
	"github.com/burnrate-dev/burnrate/core"
	"github.com/burnrate-dev/burnrate/internal/contract"
	"github.com/spf13/cobra"
)

// panelCmd renders one burn rate panel.
var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Render a burn rate chart for a short and a long window.",
	Long: `Query the short and long burn rate windows over one range and render them on a shared time axis.

Both queries run concurrently with the same step. Their samples are merged on the
union of timestamps, a constant threshold row is added, and gaps longer than the
expected scrape spacing break the lines instead of being bridged.

The chart width is the container width minus the layout margins. In text mode the
container is the terminal; for image and HTML output it is --width or 500 pixels.

Examples:
  # Chart a named panel from .burnrate.yaml
  burnrate panel --panel checkout

  # Chart explicit queries over the last 6 hours
  burnrate panel --short 'slo:burnrate5m' --long 'slo:burnrate1h' --threshold 14.4 --window '6 hours'

  # Export the aligned data for a notebook
  burnrate panel --panel checkout --output parquet --output-file checkout.parquet

  # Write a standalone uPlot page
  burnrate panel --panel checkout --output html --output-file checkout.html`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBurnratePanel(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot render panel", err)
		}
	},
}
