// Package tui has the interactive terminal view of a burn rate panel.
package tui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/burnrate-dev/burnrate/core"
	"github.com/burnrate-dev/burnrate/internal/contract"
	"github.com/burnrate-dev/burnrate/internal/outwriter"
	"github.com/burnrate-dev/burnrate/internal/prom"
	"github.com/burnrate-dev/burnrate/schema"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// refreshMsg dispatches both queries again over a range ending now.
type refreshMsg struct{}

// autoRefreshMsg is a scheduled refresh; stale generations are ignored.
type autoRefreshMsg struct {
	gen int
}

// panelUpdateMsg reports that a query of panel generation gen finished.
// done is set once both queries are terminal.
type panelUpdateMsg struct {
	gen  int
	done bool
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	barStyle   = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)
	chartStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))
	loadingStyle = lipgloss.NewStyle().Padding(2, 4)
)

// Model is the bubbletea model of the watch command.
type Model struct {
	client contract.QueryClient
	cfg    *contract.Config
	props  schema.PanelProps
	now    func() time.Time

	panel   *core.Panel
	gen     int
	cancel  context.CancelFunc
	started time.Time
	elapsed time.Duration

	width   int
	height  int
	spinner spinner.Model
}

// NewModel creates a model for props. Queries start with the first Update.
func NewModel(client contract.QueryClient, cfg *contract.Config, props schema.PanelProps) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		client:  client,
		cfg:     cfg,
		props:   props,
		now:     time.Now,
		width:   cfg.Width,
		spinner: s,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, func() tea.Msg { return refreshMsg{} })
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if m.cfg.Width == 0 {
			m.width = msg.Width
		}
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.stop()
			return m, tea.Quit
		case "r":
			return m.refresh(m.now())
		}
		return m, nil

	case refreshMsg:
		return m.refresh(m.now())

	case autoRefreshMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		return m.refresh(m.now())

	case panelUpdateMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if !msg.done {
			return m, waitForUpdate(m.panel, m.gen)
		}
		m.elapsed = m.now().Sub(m.started)
		m.stop()
		if m.cfg.Refresh > 0 {
			gen := m.gen
			return m, tea.Tick(m.cfg.Refresh, func(time.Time) tea.Msg { return autoRefreshMsg{gen: gen} })
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// refresh slides the range to now and dispatches a new panel generation.
func (m Model) refresh(now time.Time) (tea.Model, tea.Cmd) {
	m.stop()
	if m.panel != nil {
		m.props = core.SlideProps(m.props, now)
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.QueryTimeout)
	m.cancel = cancel
	m.gen++
	m.started = now
	m.elapsed = 0
	m.panel = core.NewPanel(m.client, m.props, schema.TerminalLayout)
	m.panel.Start(ctx)
	return m, waitForUpdate(m.panel, m.gen)
}

// stop releases the query context of the current generation.
func (m *Model) stop() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// waitForUpdate turns the next panel notification into a message.
func waitForUpdate(panel *core.Panel, gen int) tea.Cmd {
	return func() tea.Msg {
		_, ok := <-panel.Updates()
		return panelUpdateMsg{gen: gen, done: !ok}
	}
}

// CurrentView derives the panel view for the current terminal width.
func (m Model) CurrentView() schema.PanelView {
	if m.panel == nil {
		return schema.PanelView{Title: m.props.Title, Loading: true, Pending: []schema.QueryRole{schema.ShortRole, schema.LongRole}}
	}
	return m.panel.View(m.width)
}

// View implements tea.Model.
func (m Model) View() string {
	view := m.CurrentView()

	var s strings.Builder
	s.WriteString(titleStyle.Render("🔥 " + view.Title))
	s.WriteString("\n")

	if view.Loading {
		pending := make([]string, len(view.Pending))
		for i, role := range view.Pending {
			pending[i] = string(role)
		}
		s.WriteString(loadingStyle.Render(fmt.Sprintf("%s Waiting for %s", m.spinner.View(), strings.Join(pending, ", "))))
	} else {
		var buf bytes.Buffer
		textCfg := m.cfg.Clone()
		textCfg.Output = schema.TextOut
		if err := outwriter.WritePanel(&buf, view, textCfg, m.elapsed); err != nil {
			s.WriteString(err.Error())
		} else {
			s.WriteString(chartStyle.Render(strings.TrimRight(buf.String(), "\n")))
		}
	}
	s.WriteString("\n")

	help := "  r: refresh | q: quit"
	if m.cfg.Refresh > 0 {
		help += fmt.Sprintf(" | auto refresh every %s", m.cfg.Refresh)
	}
	s.WriteString(barStyle.Width(max(m.width, 0)).Render(help))
	return s.String()
}

// ExecuteBurnrateWatch resolves the configured panel and runs the interactive view.
func ExecuteBurnrateWatch(ctx context.Context, cfg *contract.Config) error {
	props, err := contract.ResolvePanel(cfg)
	if err != nil {
		return err
	}
	client, err := prom.NewClient(cfg.PrometheusURL, cfg.QueryTimeout)
	if err != nil {
		return err
	}
	return Run(ctx, client, cfg, props)
}

// Run starts the interactive program and blocks until the user quits or ctx ends.
func Run(ctx context.Context, client contract.QueryClient, cfg *contract.Config, props schema.PanelProps) error {
	p := tea.NewProgram(NewModel(client, cfg, props), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if m, ok := final.(Model); ok {
		m.stop()
	}
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
