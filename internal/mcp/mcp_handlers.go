package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/burnrate-dev/burnrate/core"
	"github.com/burnrate-dev/burnrate/internal/contract"
	"github.com/burnrate-dev/burnrate/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	client  contract.QueryClient
	mgr     contract.HistoryManager
}

// panelRequest maps tool arguments onto panel overrides.
func panelRequest(request mcp.CallToolRequest) contract.PanelRequest {
	req := contract.PanelRequest{
		Panel:  request.GetString("panel", ""),
		Short:  request.GetString("short", ""),
		Long:   request.GetString("long", ""),
		Start:  request.GetString("start", ""),
		End:    request.GetString("end", ""),
		Window: request.GetString("window", ""),
	}
	if _, ok := request.GetArguments()["threshold"]; ok {
		threshold := request.GetFloat("threshold", 0)
		req.Threshold = &threshold
	}
	return req
}

func (h *toolHandler) handleGetBurnratePanel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.Output = schema.JSONOut
	if w := request.GetInt("width", 0); w > 0 {
		cfg.Width = w
	}

	props, err := contract.ResolvePanelRequest(cfg, panelRequest(request), time.Now())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid panel parameters: %v", err)), nil
	}

	panel := core.NewPanel(h.client, props, schema.LayoutFor(cfg.Output))
	view, err := core.RunPanel(ctx, panel, cfg.QueryTimeout, core.ContainerWidth(cfg))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("panel failed: %v", err)), nil
	}

	if cfg.Record {
		if _, err := core.RecordView(h.mgr, panel, view, time.Now()); err != nil {
			contract.LogWarn("Could not record panel", err)
		}
	}

	jsonData, _ := json.MarshalIndent(view, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListPanels(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names := contract.PanelNames(h.baseCfg)
	defs := make([]contract.PanelDefinition, 0, len(names))
	for _, name := range names {
		defs = append(defs, h.baseCfg.Panels[name])
	}

	jsonData, _ := json.MarshalIndent(defs, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
