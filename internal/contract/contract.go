// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/burnrate-dev/burnrate/schema"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
)

// QueryClient defines the range query operation the panel needs from a metrics backend.
// This allows the panel logic to be tested without a running Prometheus.
type QueryClient interface {
	// QueryRange evaluates query over [start, end] at the given resolution step.
	QueryRange(ctx context.Context, query string, start, end time.Time, step time.Duration) (model.Matrix, v1.Warnings, error)
}

// HistoryManager defines the interface for reaching the history store.
// This allows the persistence layer to be mocked for testing.
type HistoryManager interface {
	GetHistoryStore() HistoryStore
}

// HistoryStore defines the interface for recording rendered panels.
type HistoryStore interface {
	// RecordRender stores one rendered panel and returns its unique ID.
	RecordRender(record schema.RenderRecord) (int64, error)

	// RecordSamples stores the matrix rows of a rendered panel.
	RecordSamples(renderID int64, samples []schema.SampleRecord) error

	// GetStatus returns status information about the history store.
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRenders returns every recorded render ordered by ID.
	GetAllRenders() ([]schema.RenderRecord, error)

	// GetAllSamples returns every recorded sample ordered by render and time.
	GetAllSamples() ([]schema.SampleRecord, error)

	// Clear removes all recorded renders and samples.
	Clear() error

	// Close closes the underlying connection.
	Close() error
}
