package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/burnrate-dev/burnrate/internal/contract"
	"github.com/burnrate-dev/burnrate/internal/history"
	"github.com/burnrate-dev/burnrate/internal/prom"
	"github.com/burnrate-dev/burnrate/schema"
	"github.com/prometheus/common/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	shortQuery = "rate(errors[5m])"
	longQuery  = "rate(errors[1h])"
)

func testConfig() *contract.Config {
	return &contract.Config{
		QueryTimeout: 5 * time.Second,
		Wait:         5 * time.Second,
		StartTime:    time.Unix(0, 0),
		EndTime:      time.Unix(600, 0),
		Window:       10 * time.Minute,
		Short:        shortQuery,
		Long:         longQuery,
		Threshold:    0.5,
		ThresholdSet: true,
		Panels: map[string]contract.PanelDefinition{
			"checkout": {Name: "checkout", Short: "s", Long: "l", Threshold: 14.4},
		},
	}
}

func sampleMatrix() model.Matrix {
	return model.Matrix{&model.SampleStream{Values: []model.SamplePair{
		{Timestamp: 0, Value: 1},
		{Timestamp: 60000, Value: 2},
	}}}
}

func serve(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) schema.PanelView {
	t.Helper()
	var view schema.PanelView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	return view
}

func TestHealthz(t *testing.T) {
	s := NewServer(testConfig(), &prom.MockQueryClient{}, nil)
	rec := serve(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPanelJSON(t *testing.T) {
	client := &prom.MockQueryClient{}
	client.On("QueryRange", mock.Anything, shortQuery, mock.Anything, mock.Anything, mock.Anything).Return(sampleMatrix(), nil, nil)
	client.On("QueryRange", mock.Anything, longQuery, mock.Anything, mock.Anything, mock.Anything).Return(sampleMatrix(), nil, nil)

	rec := serve(t, NewServer(testConfig(), client, nil), "/api/v1/burnrate?width=800")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	view := decodeView(t, rec)
	assert.False(t, view.Loading)
	require.NotNil(t, view.Chart)
	assert.Equal(t, 750, view.Chart.Options.Width)
	require.Len(t, view.Chart.Data, 4)
	assert.Equal(t, 0.5, *view.Chart.Data[3][1])
}

func TestPanelJSONNamedPanel(t *testing.T) {
	client := &prom.MockQueryClient{}
	client.On("QueryRange", mock.Anything, "s", mock.Anything, mock.Anything, mock.Anything).Return(sampleMatrix(), nil, nil)
	client.On("QueryRange", mock.Anything, "l", mock.Anything, mock.Anything, mock.Anything).Return(sampleMatrix(), nil, nil)

	rec := serve(t, NewServer(testConfig(), client, nil), "/api/v1/burnrate?panel=checkout")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	view := decodeView(t, rec)
	require.NotNil(t, view.Chart)
	require.Len(t, view.Chart.Data, 4)
	assert.Equal(t, 14.4, *view.Chart.Data[3][1])
	client.AssertExpectations(t)
}

func TestPanelJSONEmpty(t *testing.T) {
	client := &prom.MockQueryClient{}
	client.On("QueryRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(model.Matrix{}, nil, nil)

	rec := serve(t, NewServer(testConfig(), client, nil), "/api/v1/burnrate")
	require.Equal(t, http.StatusOK, rec.Code)

	var raw struct {
		Chart struct {
			Data json.RawMessage `json:"data"`
		} `json:"chart"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.JSONEq(t, `[[],[],[],[]]`, string(raw.Chart.Data))
}

func TestPanelJSONStillLoading(t *testing.T) {
	release := make(chan time.Time)
	t.Cleanup(func() { close(release) })

	client := &prom.MockQueryClient{}
	client.On("QueryRange", mock.Anything, shortQuery, mock.Anything, mock.Anything, mock.Anything).Return(sampleMatrix(), nil, nil)
	client.On("QueryRange", mock.Anything, longQuery, mock.Anything, mock.Anything, mock.Anything).WaitUntil(release).Return(sampleMatrix(), nil, nil)

	cfg := testConfig()
	cfg.Wait = 20 * time.Millisecond
	rec := serve(t, NewServer(cfg, client, nil), "/api/v1/burnrate")
	require.Equal(t, http.StatusAccepted, rec.Code)

	view := decodeView(t, rec)
	assert.True(t, view.Loading)
	assert.Nil(t, view.Chart)
	assert.Equal(t, []schema.QueryRole{schema.LongRole}, view.Pending)
}

func TestPanelJSONBadRequest(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		contains string
	}{
		{"bad threshold", "/api/v1/burnrate?threshold=abc", "invalid threshold"},
		{"bad width", "/api/v1/burnrate?width=-3", "invalid width"},
		{"unknown panel", "/api/v1/burnrate?panel=nope", "unknown panel"},
		{"inverted range", "/api/v1/burnrate?start=2024-01-02T00:00:00Z&end=2024-01-01T00:00:00Z", "must be before end time"},
	}
	s := NewServer(testConfig(), &prom.MockQueryClient{}, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, s, tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.contains)
		})
	}
}

func TestPanelPage(t *testing.T) {
	client := &prom.MockQueryClient{}
	client.On("QueryRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil, errors.New("unavailable"))

	rec := serve(t, NewServer(testConfig(), client, nil), "/burnrate?title=Checkout")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<title>Checkout</title>")
	assert.Contains(t, rec.Body.String(), "short query failed: unavailable")
}

func TestPanelsList(t *testing.T) {
	rec := serve(t, NewServer(testConfig(), &prom.MockQueryClient{}, nil), "/api/v1/panels")
	require.Equal(t, http.StatusOK, rec.Code)

	var defs []contract.PanelDefinition
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &defs))
	require.Len(t, defs, 1)
	assert.Equal(t, "checkout", defs[0].Name)
}

func TestPanelRecordsHistory(t *testing.T) {
	client := &prom.MockQueryClient{}
	client.On("QueryRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(sampleMatrix(), nil, nil)

	store := &history.MockHistoryStore{}
	store.On("RecordRender", mock.AnythingOfType("schema.RenderRecord")).Return(int64(3), nil)
	store.On("RecordSamples", int64(3), mock.Anything).Return(nil)
	mgr := &history.MockHistoryManager{}
	mgr.On("GetHistoryStore").Return(store)

	cfg := testConfig()
	cfg.Record = true
	rec := serve(t, NewServer(cfg, client, mgr), "/api/v1/burnrate")
	require.Equal(t, http.StatusOK, rec.Code)

	store.AssertExpectations(t)
	record := store.Calls[0].Arguments.Get(0).(schema.RenderRecord)
	assert.Equal(t, shortQuery, record.Short)
	assert.Equal(t, schema.SuccessStatus, record.LongStatus)
	assert.Equal(t, int32(2), record.Points)
}

func TestRunShutsDown(t *testing.T) {
	cfg := testConfig()
	cfg.ListenAddr = "127.0.0.1:0"
	s := NewServer(cfg, &prom.MockQueryClient{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * shutdownTimeout):
		t.Fatal("server did not shut down")
	}
}
