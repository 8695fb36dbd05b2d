// Package prom has the Prometheus range query client.
package prom

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/burnrate-dev/burnrate/internal/contract"
	"github.com/prometheus/client_golang/api"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
)

// Client implements the QueryClient interface on top of the Prometheus HTTP API.
type Client struct {
	api v1.API
}

var _ contract.QueryClient = &Client{} // Compile-time check

// NewClient creates a new client for the Prometheus-compatible server at address.
// A positive timeout bounds every HTTP request.
func NewClient(address string, timeout time.Duration) (*Client, error) {
	httpClient := &http.Client{Timeout: timeout}
	client, err := api.NewClient(api.Config{
		Address: address,
		Client:  httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus client for %q: %w", address, err)
	}
	return &Client{api: v1.NewAPI(client)}, nil
}

// QueryRange implements the QueryClient interface.
func (c *Client) QueryRange(ctx context.Context, query string, start, end time.Time, step time.Duration) (model.Matrix, v1.Warnings, error) {
	rangeQuery := v1.Range{
		Start: start,
		End:   end,
		Step:  step,
	}

	result, warnings, err := c.api.QueryRange(ctx, query, rangeQuery)
	if err != nil {
		return nil, warnings, fmt.Errorf("prometheus query range failed: %w", err)
	}
	if result == nil {
		return nil, warnings, nil
	}

	matrixVal, ok := result.(model.Matrix)
	if !ok {
		return nil, warnings, fmt.Errorf("unexpected result type %s for range query %q", result.Type(), query)
	}
	return matrixVal, warnings, nil
}
