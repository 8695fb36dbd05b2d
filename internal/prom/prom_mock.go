package prom

import (
	"context"
	"time"

	"github.com/burnrate-dev/burnrate/internal/contract"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
	"github.com/stretchr/testify/mock"
)

// MockQueryClient is a mock implementation of QueryClient for testing.
type MockQueryClient struct {
	mock.Mock
}

var _ contract.QueryClient = &MockQueryClient{} // Compile-time check

// QueryRange implements the QueryClient interface.
func (m *MockQueryClient) QueryRange(ctx context.Context, query string, start, end time.Time, step time.Duration) (model.Matrix, v1.Warnings, error) {
	ret := m.Called(ctx, query, start, end, step)
	matrix, _ := ret.Get(0).(model.Matrix)
	warnings, _ := ret.Get(1).(v1.Warnings)
	return matrix, warnings, ret.Error(2)
}
