package history

import (
	"github.com/burnrate-dev/burnrate/internal/contract"
	"github.com/burnrate-dev/burnrate/schema"
	"github.com/stretchr/testify/mock"
)

// MockHistoryManager is a mock implementation of HistoryManager for testing.
type MockHistoryManager struct {
	mock.Mock
}

var _ contract.HistoryManager = &MockHistoryManager{} // Compile-time check

// GetHistoryStore implements the HistoryManager interface.
func (m *MockHistoryManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// RecordRender implements the HistoryStore interface.
func (m *MockHistoryStore) RecordRender(record schema.RenderRecord) (int64, error) {
	args := m.Called(record)
	return args.Get(0).(int64), args.Error(1)
}

// RecordSamples implements the HistoryStore interface.
func (m *MockHistoryStore) RecordSamples(renderID int64, samples []schema.SampleRecord) error {
	args := m.Called(renderID, samples)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllRenders implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRenders() ([]schema.RenderRecord, error) {
	args := m.Called()
	renders, _ := args.Get(0).([]schema.RenderRecord)
	return renders, args.Error(1)
}

// GetAllSamples implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllSamples() ([]schema.SampleRecord, error) {
	args := m.Called()
	samples, _ := args.Get(0).([]schema.SampleRecord)
	return samples, args.Error(1)
}

// Clear implements the HistoryStore interface.
func (m *MockHistoryStore) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
