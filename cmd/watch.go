package cmd

import (
	"os"

	"github.com/burnrate-dev/burnrate/core"
	"github.com/burnrate-dev/burnrate/internal/contract"
	"github.com/burnrate-dev/burnrate/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// watchCmd keeps a panel on screen and re-runs it on demand or on a timer.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep a burn rate chart on screen and refresh it.",
	Long: `Show a burn rate panel in the terminal and keep it current.

The chart shows a spinner while either query is pending and follows the terminal
width as it is resized. Each refresh slides the range so that it ends now.

Keys:
  r - refresh now
  q - quit

When stdout is not a terminal, or with --plain, the text chart is redrawn in place instead.

Examples:
  # Watch a named panel and refresh every 30 seconds
  burnrate watch --panel checkout --refresh 30s

  # Plain redraws for a tmux pane
  burnrate watch --panel checkout --refresh 1m --plain`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		run := tui.ExecuteBurnrateWatch
		if viper.GetBool("plain") || !term.IsTerminal(int(os.Stdout.Fd())) {
			run = core.ExecuteBurnrateWatchPlain
		}
		if err := run(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot watch panel", err)
		}
	},
}
