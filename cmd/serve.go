package cmd

import (
	"github.com/burnrate-dev/burnrate/internal/contract"
	"github.com/burnrate-dev/burnrate/internal/server"
	"github.com/spf13/cobra"
)

// serveCmd serves panels over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve burn rate panels over HTTP.",
	Long: `Start an HTTP server that renders panels on request.

Routes:
  GET /api/v1/burnrate  - panel view as JSON (202 while still loading after --wait)
  GET /api/v1/panels    - configured named panels
  GET /burnrate         - standalone uPlot page
  GET /healthz          - liveness probe

Query parameters override the configured panel: panel, title, short, long,
threshold, start, end, window and width.

Examples:
  # Serve on the default address
  burnrate serve

  # Record every completed render
  burnrate serve --listen :8080 --record`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := server.StartServer(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Server failed", err)
		}
	},
}
