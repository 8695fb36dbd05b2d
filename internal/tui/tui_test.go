package tui

import (
	"testing"
	"time"

	"github.com/burnrate-dev/burnrate/internal/contract"
	"github.com/burnrate-dev/burnrate/internal/prom"
	"github.com/burnrate-dev/burnrate/schema"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/common/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testModel(t *testing.T) (Model, *prom.MockQueryClient) {
	t.Helper()
	client := &prom.MockQueryClient{}
	client.On("QueryRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(model.Matrix{&model.SampleStream{Values: []model.SamplePair{{Timestamp: 0, Value: 0.5}}}}, nil, nil)

	cfg := &contract.Config{QueryTimeout: time.Second, Precision: 2}
	props := schema.PanelProps{Title: "Checkout", Short: "s", Long: "l", Threshold: 1, From: 0, To: 60000}
	m := NewModel(client, cfg, props)
	m.now = func() time.Time { return time.UnixMilli(120000) }
	return m, client
}

// step applies msg and returns the updated model and command.
func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	updated, ok := next.(Model)
	require.True(t, ok)
	return updated, cmd
}

// runUntilDone feeds panel notifications back into the model until both queries are terminal.
func runUntilDone(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for i := 0; i < 3 && cmd != nil; i++ {
		msg := cmd()
		update, ok := msg.(panelUpdateMsg)
		require.True(t, ok, "unexpected message %T", msg)
		m, cmd = step(t, m, update)
		if update.done {
			break
		}
	}
	return m
}

func TestModelLoadsPanel(t *testing.T) {
	m, client := testModel(t)
	assert.True(t, m.CurrentView().Loading)
	assert.Contains(t, m.View(), "Waiting for short, long")

	m, _ = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m, cmd := step(t, m, refreshMsg{})
	assert.Equal(t, 1, m.gen)
	assert.Equal(t, int64(0), m.props.From, "the first dispatch keeps the configured range")

	m = runUntilDone(t, m, cmd)
	view := m.CurrentView()
	require.False(t, view.Loading)
	assert.Equal(t, 94, view.Chart.Options.Width)
	assert.Contains(t, m.View(), "Checkout")
	assert.Nil(t, m.cancel)
	client.AssertNumberOfCalls(t, "QueryRange", 2)
}

func TestModelRefreshSlidesRange(t *testing.T) {
	m, client := testModel(t)
	m, cmd := step(t, m, refreshMsg{})
	m = runUntilDone(t, m, cmd)

	m, cmd = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.Equal(t, 2, m.gen)
	assert.Equal(t, int64(60000), m.props.From)
	assert.Equal(t, int64(120000), m.props.To)

	runUntilDone(t, m, cmd)
	client.AssertNumberOfCalls(t, "QueryRange", 4)
}

func TestModelIgnoresStaleGenerations(t *testing.T) {
	m, _ := testModel(t)
	m, cmd := step(t, m, refreshMsg{})
	m = runUntilDone(t, m, cmd)

	_, cmd = step(t, m, panelUpdateMsg{gen: 99, done: true})
	assert.Nil(t, cmd)
	_, cmd = step(t, m, autoRefreshMsg{gen: 99})
	assert.Nil(t, cmd)
}

func TestModelAutoRefreshSchedulesTick(t *testing.T) {
	m, _ := testModel(t)
	m.cfg.Refresh = time.Millisecond
	m, cmd := step(t, m, refreshMsg{})
	// Two completions, then the closed update channel.
	for i := 0; i < 3; i++ {
		m, cmd = step(t, m, cmd())
	}
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, autoRefreshMsg{gen: 1}, msg)
}

func TestModelQuit(t *testing.T) {
	m, _ := testModel(t)
	_, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModelFixedWidth(t *testing.T) {
	m, _ := testModel(t)
	m.cfg.Width = 60
	m = NewModel(m.client, m.cfg, m.props)
	m, _ = step(t, m, tea.WindowSizeMsg{Width: 200, Height: 40})
	assert.Equal(t, 60, m.width)
}
