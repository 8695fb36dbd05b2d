// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/burnrate-dev/burnrate/internal/contract"
	"github.com/burnrate-dev/burnrate/internal/prom"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Burnrate MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, client contract.QueryClient, mgr contract.HistoryManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Burnrate Panel Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		client:  client,
		mgr:     mgr,
	}

	// --- 1. Tool: get_burnrate_panel ---
	s.AddTool(mcp.NewTool("get_burnrate_panel",
		mcp.WithDescription("Query the short and long burn rate windows and return the aligned chart data with its threshold row and gap mask."),
		mcp.WithString("panel", mcp.Description("Name of a configured panel. Explicit queries override its definition.")),
		mcp.WithString("short", mcp.Description("PromQL expression for the short burn rate window.")),
		mcp.WithString("long", mcp.Description("PromQL expression for the long burn rate window.")),
		mcp.WithNumber("threshold", mcp.Description("Constant threshold line drawn across the range.")),
		mcp.WithString("start", mcp.Description("Range start (RFC3339, date or relative like '6 hours ago').")),
		mcp.WithString("end", mcp.Description("Range end (RFC3339, date or 'now').")),
		mcp.WithString("window", mcp.Description("Range length when start is omitted (e.g., '6 hours', '7d').")),
		mcp.WithNumber("width", mcp.Description("Container width in pixels. Defaults to the configured width.")),
	), h.handleGetBurnratePanel)

	// --- 2. Tool: list_panels ---
	s.AddTool(mcp.NewTool("list_panels",
		mcp.WithDescription("List the named burn rate panels from the configuration file."),
	), h.handleListPanels)

	return s
}

// StartMCPServer starts the Burnrate MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.HistoryManager) error {
	client, err := prom.NewClient(baseCfg.PrometheusURL, baseCfg.QueryTimeout)
	if err != nil {
		return err
	}
	s := NewMCPServer(baseCfg, client, mgr)
	return server.ServeStdio(s)
}
