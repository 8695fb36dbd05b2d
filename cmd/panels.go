package cmd

import (
	"github.com/burnrate-dev/burnrate/internal/contract"
	"github.com/burnrate-dev/burnrate/internal/outwriter"
	"github.com/spf13/cobra"
)

// panelsCmd lists the named panels of the config file.
var panelsCmd = &cobra.Command{
	Use:   "panels",
	Short: "List the named panels from the config file.",
	Long: `Print every panel defined under 'panels' in .burnrate.yaml.

Example config:
  panels:
    - name: checkout
      title: Checkout availability
      short: slo:burnrate5m{service="checkout"}
      long: slo:burnrate1h{service="checkout"}
      threshold: 14.4`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := outwriter.PrintPanelDefinitions(cfg); err != nil {
			contract.LogFatal("Cannot list panels", err)
		}
	},
}
