package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fleet-dashboard/internal/model"
	"fleet-dashboard/internal/service"
)

// Panel is the part of service.FleetPanel the terminal view drives.
type Panel interface {
	View() model.FleetView
	Changes() <-chan struct{}
	Refresh(ctx context.Context) (model.FleetSnapshot, error)
	Dispatch(ctx context.Context, name string, action model.Action) error
	DispatchAll(ctx context.Context, action model.Action) ([]model.DispatchResult, error)
	OpenLog(ctx context.Context, name string) error
	CloseLog()
	DismissError()
}

type changedMsg struct{}

type actionDoneMsg struct {
	label string
	err   error
}

type Model struct {
	ctx   context.Context
	panel Panel
	keys  KeyMap
	theme Theme
	title string

	spinner spinner.Model
	logView viewport.Model
	help    help.Model

	view     model.FleetView
	selected int
	status   string
	width    int
	height   int
	quitting bool
}

func NewModel(ctx context.Context, panel Panel, title string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(DefaultTheme.HeaderForeground)

	return Model{
		ctx:     ctx,
		panel:   panel,
		keys:    DefaultKeyMap,
		theme:   DefaultTheme,
		title:   title,
		spinner: s,
		logView: viewport.New(80, 20),
		help:    help.New(),
		view:    panel.View(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForChange(m.panel.Changes()))
}

func waitForChange(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return changedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.logView.Width = max(msg.Width-4, 20)
		m.logView.Height = max(msg.Height-6, 5)
		return m, nil

	case changedMsg:
		m.setView(m.panel.View())
		return m, waitForChange(m.panel.Changes())

	case actionDoneMsg:
		m.status = msg.label
		if msg.err != nil {
			m.status = msg.label + ": " + msg.err.Error()
		}
		m.setView(m.panel.View())
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) setView(view model.FleetView) {
	prev := m.view.Modal
	m.view = view
	if view.Modal.Visible && (!prev.Visible || prev.Node != view.Modal.Node || prev.Content != view.Modal.Content) {
		m.logView.SetContent(view.Modal.Content)
		m.logView.GotoTop()
	}
	if m.selected >= len(view.Rows) {
		m.selected = max(len(view.Rows)-1, 0)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.view.Modal.Visible {
		if key.Matches(msg, m.keys.Close) {
			m.panel.CloseLog()
			m.view = m.panel.View()
			return m, nil
		}
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.view.Rows)-1 {
			m.selected++
		}
		return m, nil
	case key.Matches(msg, m.keys.Dismiss):
		m.panel.DismissError()
		m.view = m.panel.View()
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh()
	case key.Matches(msg, m.keys.Log):
		if name, ok := m.selectedName(); ok {
			return m, m.openLog(name)
		}
		return m, nil
	}

	if action, all, ok := m.keys.action(msg); ok {
		if all {
			return m, m.dispatchAll(action)
		}
		if name, ok := m.selectedName(); ok {
			return m, m.dispatch(name, action)
		}
	}
	return m, nil
}

func (m Model) selectedName() (string, bool) {
	if m.selected < 0 || m.selected >= len(m.view.Rows) {
		return "", false
	}
	return m.view.Rows[m.selected].Name, true
}

func (m Model) refresh() tea.Cmd {
	panel, ctx := m.panel, m.ctx
	return func() tea.Msg {
		_, err := panel.Refresh(ctx)
		if errors.Is(err, service.ErrStaleCycle) {
			err = nil
		}
		return actionDoneMsg{label: "refreshed", err: err}
	}
}

func (m Model) dispatch(name string, action model.Action) tea.Cmd {
	panel, ctx := m.panel, m.ctx
	return func() tea.Msg {
		err := panel.Dispatch(ctx, name, action)
		return actionDoneMsg{label: fmt.Sprintf("%s → %s", action, name), err: err}
	}
}

func (m Model) dispatchAll(action model.Action) tea.Cmd {
	panel, ctx := m.panel, m.ctx
	return func() tea.Msg {
		results, err := panel.DispatchAll(ctx, action)
		if err != nil {
			return actionDoneMsg{label: action.String() + " all", err: err}
		}
		failed := 0
		for _, r := range results {
			if !r.Success {
				failed++
			}
		}
		return actionDoneMsg{label: fmt.Sprintf("%s → %d nodes, %d failed", action, len(results), failed)}
	}
}

func (m Model) openLog(name string) tea.Cmd {
	panel, ctx := m.panel, m.ctx
	return func() tea.Msg {
		err := panel.OpenLog(ctx, name)
		if errors.Is(err, service.ErrModalSuperseded) {
			err = nil
		}
		return actionDoneMsg{label: "log " + name, err: err}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	header := lipgloss.NewStyle().Bold(true).Foreground(m.theme.HeaderForeground).Render(m.title)
	b.WriteString(header + "  " + RenderOverall(m.view.Overall, m.theme) + "\n")

	if e := m.view.LastError; e != nil {
		line := e.Message
		if e.Details != "" {
			line += ": " + e.Details
		}
		b.WriteString(lipgloss.NewStyle().Foreground(m.theme.ErrorForeground).Render(line+" (e to dismiss)") + "\n")
	}

	if m.view.Modal.Visible {
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(m.theme.BorderColor).
			Padding(0, 1)
		title := lipgloss.NewStyle().Bold(true).Render("log: " + m.view.Modal.Node)
		b.WriteString(box.Render(title + "\n" + m.logView.View()))
		b.WriteString("\n" + m.help.ShortHelpView([]key.Binding{m.keys.Up, m.keys.Down, m.keys.Close}))
		return b.String()
	}

	if len(m.view.Rows) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(m.theme.FaintText).Render("no nodes") + "\n")
	} else {
		b.WriteString(RenderTable(m.view.Rows, m.theme, TableOptions{
			Selected: m.selected + 1,
			Busy:     m.spinner.View(),
			Width:    m.width,
		}) + "\n")
	}

	if len(m.view.Routers) > 0 {
		b.WriteString(RenderRouters(m.view.Routers, m.theme, m.width) + "\n")
	}
	if len(m.view.Logs) > 0 {
		b.WriteString(RenderLogs(m.view.Logs, m.theme, m.width) + "\n")
	}

	if m.status != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(m.theme.FaintText).Render(m.status) + "\n")
	}
	b.WriteString(m.help.ShortHelpView(m.keys.help()))
	return b.String()
}
