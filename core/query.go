package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/burnrate-dev/burnrate/internal/contract"
	"github.com/burnrate-dev/burnrate/schema"
	"github.com/prometheus/common/model"
)

// QueryResult is the observable state of one range query.
type QueryResult struct {
	Role     schema.QueryRole
	Query    string
	Status   schema.QueryStatus
	Matrix   model.Matrix
	Err      error
	Warnings []string
}

// State converts the result into its wire form.
func (r QueryResult) State() schema.QueryState {
	state := schema.QueryState{
		Role:     r.Role,
		Query:    r.Query,
		Status:   r.Status,
		Warnings: r.Warnings,
	}
	if r.Err != nil {
		state.Error = r.Err.Error()
	}
	return state
}

// RangeQuery tracks one range query from dispatch to its terminal state.
// The status moves from pending to success or error exactly once.
type RangeQuery struct {
	client contract.QueryClient
	role   schema.QueryRole
	query  string
	start  time.Time
	end    time.Time
	step   time.Duration

	mu     sync.Mutex
	result QueryResult
	once   sync.Once
	done   chan struct{}
}

// NewRangeQuery creates a pending query over [start, end] at the given step.
func NewRangeQuery(client contract.QueryClient, role schema.QueryRole, query string, start, end time.Time, step time.Duration) *RangeQuery {
	return &RangeQuery{
		client: client,
		role:   role,
		query:  query,
		start:  start,
		end:    end,
		step:   step,
		result: QueryResult{Role: role, Query: query, Status: schema.PendingStatus},
		done:   make(chan struct{}),
	}
}

// Dispatch runs the query on its own goroutine. Calling it more than once has no effect.
func (q *RangeQuery) Dispatch(ctx context.Context) {
	q.once.Do(func() {
		go q.run(ctx)
	})
}

func (q *RangeQuery) run(ctx context.Context) {
	matrix, warnings, err := q.client.QueryRange(ctx, q.query, q.start, q.end, q.step)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	for _, w := range warnings {
		contract.LogWarn(fmt.Sprintf("%s query %q", q.role, q.query), errors.New(w))
	}

	q.mu.Lock()
	q.result.Warnings = append([]string(nil), warnings...)
	if err != nil {
		q.result.Status = schema.ErrorStatus
		q.result.Err = err
	} else {
		q.result.Status = schema.SuccessStatus
		q.result.Matrix = matrix
	}
	q.mu.Unlock()
	close(q.done)
}

// Result returns a snapshot of the current state.
func (q *RangeQuery) Result() QueryResult {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.result
}

// Status returns the current status.
func (q *RangeQuery) Status() schema.QueryStatus {
	return q.Result().Status
}

// Done is closed once the query reaches a terminal state.
func (q *RangeQuery) Done() <-chan struct{} {
	return q.done
}

// Role returns which window the query belongs to.
func (q *RangeQuery) Role() schema.QueryRole {
	return q.role
}
