package cmd

import (
	"github.com/burnrate-dev/burnrate/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Burnrate MCP server",
	Long:  `Launch an MCP server that allows AI agents to fetch burn rate panels via standard tools.`,
	// Text headers go to stderr, so stdio stays clean for the protocol.
	PreRunE: sharedSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, historyManager)
	},
}
