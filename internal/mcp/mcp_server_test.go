package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/burnrate-dev/burnrate/internal/contract"
	mcp_internal "github.com/burnrate-dev/burnrate/internal/mcp"
	"github.com/burnrate-dev/burnrate/internal/prom"
	"github.com/burnrate-dev/burnrate/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/prometheus/common/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig() *contract.Config {
	return &contract.Config{
		QueryTimeout: 5 * time.Second,
		StartTime:    time.Unix(0, 0),
		EndTime:      time.Unix(600, 0),
		Window:       10 * time.Minute,
		Width:        500,
		Panels: map[string]contract.PanelDefinition{
			"checkout": {Name: "checkout", Short: "rate(checkout_errors[5m])", Long: "rate(checkout_errors[1h])", Threshold: 14.4},
			"api":      {Name: "api", Short: "rate(api_errors[5m])", Long: "rate(api_errors[1h])", Threshold: 6},
		},
	}
}

func callTool(t *testing.T, cfg *contract.Config, client contract.QueryClient, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(cfg, client, nil)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestGetBurnratePanel(t *testing.T) {
	client := &prom.MockQueryClient{}
	matrix := model.Matrix{&model.SampleStream{Values: []model.SamplePair{{Timestamp: 60000, Value: 2}}}}
	client.On("QueryRange", mock.Anything, "rate(checkout_errors[5m])", mock.Anything, mock.Anything, mock.Anything).Return(matrix, nil, nil)
	client.On("QueryRange", mock.Anything, "rate(checkout_errors[1h])", mock.Anything, mock.Anything, mock.Anything).Return(model.Matrix{}, nil, nil)

	res := callTool(t, testConfig(), client, "get_burnrate_panel", map[string]any{
		"panel":     "checkout",
		"threshold": 1.0,
		"width":     300.0,
	})
	require.False(t, res.IsError, resultText(t, res))

	var view schema.PanelView
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &view))
	assert.False(t, view.Loading)
	require.NotNil(t, view.Chart)
	assert.Equal(t, 250, view.Chart.Options.Width)
	require.Len(t, view.Chart.Data, 3, "time, short and threshold columns")
	assert.Equal(t, 1.0, *view.Chart.Data[2][0])
	client.AssertNumberOfCalls(t, "QueryRange", 2)
}

func TestGetBurnratePanelQueryError(t *testing.T) {
	client := &prom.MockQueryClient{}
	client.On("QueryRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil, errors.New("bad_data"))

	res := callTool(t, testConfig(), client, "get_burnrate_panel", map[string]any{"short": "a", "long": "b"})
	require.False(t, res.IsError, "failed queries are reported in the view")

	var view schema.PanelView
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &view))
	require.NotNil(t, view.Chart)
	require.Len(t, view.Chart.Queries, 2)
	assert.Equal(t, schema.ErrorStatus, view.Chart.Queries[0].Status)
	assert.Equal(t, "bad_data", view.Chart.Queries[0].Error)
}

func TestGetBurnratePanelValidationErrors(t *testing.T) {
	client := &prom.MockQueryClient{}

	tests := []struct {
		name     string
		args     map[string]any
		contains string
	}{
		{"missing queries", map[string]any{}, "both short and long queries are required"},
		{"unknown panel", map[string]any{"panel": "nope"}, `unknown panel "nope"`},
		{"negative threshold", map[string]any{"short": "a", "long": "b", "threshold": -1.0}, "threshold cannot be negative"},
		{"invalid window", map[string]any{"short": "a", "long": "b", "window": "soon"}, "invalid window"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, testConfig(), client, "get_burnrate_panel", tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, resultText(t, res), tt.contains)
		})
	}
	client.AssertNotCalled(t, "QueryRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListPanels(t *testing.T) {
	res := callTool(t, testConfig(), &prom.MockQueryClient{}, "list_panels", nil)
	require.False(t, res.IsError)

	var defs []contract.PanelDefinition
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &defs))
	require.Len(t, defs, 2)
	assert.Equal(t, "api", defs[0].Name)
	assert.Equal(t, "checkout", defs[1].Name)
	assert.Equal(t, 14.4, defs[1].Threshold)
}
