// Package dashboard renders the interactive terminal view. It repaints
// from system snapshots on its own cadence and never triggers probes
// itself; the only refreshes it starts are explicit user requests.
package dashboard

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wakeboard/wakeboard/internal/scheduler"
	"github.com/wakeboard/wakeboard/internal/system"
)

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	sched    *scheduler.Scheduler
	feed     *Feed
	interval time.Duration

	selected int
	width    int
	height   int
	quitting bool
}

// renderTickMsg signals a periodic repaint from the latest snapshots.
type renderTickMsg time.Time

// actionDoneMsg reports a finished action invocation. The outcome has
// already been posted to the feed; the message just forces a repaint.
type actionDoneMsg struct {
	name string
	err  error
}

// refreshDoneMsg reports a completed manual refresh round.
type refreshDoneMsg struct{}

// NewModel creates a dashboard over the given scheduler. The interval is
// the repaint cadence, independent of the probe cadence.
func NewModel(sched *scheduler.Scheduler, interval time.Duration) Model {
	return Model{
		sched:    sched,
		feed:     NewFeed(),
		interval: interval,
	}
}

// Feed returns the notification feed so callers can route their own
// notices into the dashboard.
func (m Model) Feed() *Feed {
	return m.feed
}

// Init starts the repaint timer.
func (m Model) Init() tea.Cmd {
	return m.renderTickCmd()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case renderTickMsg:
		m.clampSelection()
		return m, m.renderTickCmd()

	case actionDoneMsg, refreshDoneMsg:
		// State already changed; the repaint happens on return.
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.render()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "j", "down":
		if m.selected < len(m.sched.Systems())-1 {
			m.selected++
		}

	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}

	case "r":
		return m, m.refreshCmd()

	case "x":
		m.feed.Dismiss()

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(msg.String()[0] - '1')
		return m, m.invokeCmd(idx)
	}

	return m, nil
}

// invokeCmd runs the selected system's idx-th action off the UI loop.
// The action list is resolved at keypress time, against current state.
func (m Model) invokeCmd(idx int) tea.Cmd {
	systems := m.sched.Systems()
	if m.selected < 0 || m.selected >= len(systems) {
		return nil
	}
	actions := systems[m.selected].Actions()
	if idx < 0 || idx >= len(actions) {
		return nil
	}
	action := actions[idx]

	return func() tea.Msg {
		err := action.Invoke(m.feed)
		return actionDoneMsg{name: action.Name, err: err}
	}
}

// refreshCmd runs one synchronous refresh round off the UI loop.
func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		m.sched.RefreshAll(context.Background())
		return refreshDoneMsg{}
	}
}

func (m Model) renderTickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return renderTickMsg(t)
	})
}

func (m *Model) clampSelection() {
	if n := len(m.sched.Systems()); m.selected >= n && n > 0 {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// SelectedSystem returns the currently selected system, or nil when the
// list is empty.
func (m Model) SelectedSystem() *system.System {
	systems := m.sched.Systems()
	if m.selected < 0 || m.selected >= len(systems) {
		return nil
	}
	return systems[m.selected]
}
