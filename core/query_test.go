package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/burnrate-dev/burnrate/internal/prom"
	"github.com/burnrate-dev/burnrate/schema"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	testStart = time.Unix(0, 0)
	testEnd   = time.Unix(60, 0)
)

func waitDone(t *testing.T, q *RangeQuery) {
	t.Helper()
	select {
	case <-q.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("query did not finish")
	}
}

func TestRangeQuerySuccess(t *testing.T) {
	client := &prom.MockQueryClient{}
	matrix := model.Matrix{stream(nil, [2]float64{0, 1})}
	client.On("QueryRange", mock.Anything, "rate(x[5m])", testStart, testEnd, 5*time.Second).
		Return(matrix, v1.Warnings{"partial"}, nil).Once()

	q := NewRangeQuery(client, schema.ShortRole, "rate(x[5m])", testStart, testEnd, 5*time.Second)
	assert.Equal(t, schema.PendingStatus, q.Status())
	assert.Equal(t, schema.ShortRole, q.Role())

	q.Dispatch(context.Background())
	q.Dispatch(context.Background())
	waitDone(t, q)

	result := q.Result()
	assert.Equal(t, schema.SuccessStatus, result.Status)
	assert.Equal(t, matrix, result.Matrix)
	assert.Equal(t, []string{"partial"}, result.Warnings)
	assert.NoError(t, result.Err)

	state := result.State()
	assert.Equal(t, "rate(x[5m])", state.Query)
	assert.Empty(t, state.Error)
	client.AssertExpectations(t)
}

func TestRangeQueryError(t *testing.T) {
	client := &prom.MockQueryClient{}
	client.On("QueryRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil, errors.New("bad_data: parse error"))

	q := NewRangeQuery(client, schema.LongRole, "rate(", testStart, testEnd, 5*time.Second)
	q.Dispatch(context.Background())
	waitDone(t, q)

	result := q.Result()
	assert.Equal(t, schema.ErrorStatus, result.Status)
	assert.Nil(t, result.Matrix)
	require.Error(t, result.Err)
	assert.Equal(t, "bad_data: parse error", result.State().Error)
}

func TestRangeQueryCanceled(t *testing.T) {
	client := &prom.MockQueryClient{}
	client.On("QueryRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(model.Matrix{}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	q := NewRangeQuery(client, schema.ShortRole, "up", testStart, testEnd, 5*time.Second)
	q.Dispatch(ctx)
	waitDone(t, q)

	assert.Equal(t, schema.ErrorStatus, q.Status())
	assert.ErrorIs(t, q.Result().Err, context.Canceled)
}
