// Package tui is the interactive terminal front end: it sends key presses
// to the session controller and redraws on every published event.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vburojevic/pomo/internal/domain"
	"github.com/vburojevic/pomo/internal/events"
	"github.com/vburojevic/pomo/internal/output"
	"github.com/vburojevic/pomo/internal/session"
)

// Controller is the subset of session.Controller the UI drives
type Controller interface {
	StartWork() error
	StartBreak() error
	Pause() error
	Resume() error
	ForceEnd() error
	Snapshot() session.Snapshot
}

type eventMsg events.Event

type streamClosedMsg struct{}

// Model is the bubbletea model for `pomo ui`
type Model struct {
	ctrl     Controller
	events   <-chan events.Event
	keys     keyMap
	help     help.Model
	progress progress.Model

	snap     session.Snapshot
	lastEnd  string
	warning  string
	err      error
	quitting bool
}

// New creates a model reading events from ch
func New(ctrl Controller, ch <-chan events.Event) Model {
	return Model{
		ctrl:     ctrl,
		events:   ch,
		keys:     defaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		snap:     ctrl.Snapshot(),
	}
}

func waitForEvent(ch <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg(e)
	}
}

// Init starts listening for events
func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// Update handles key presses, window resizes and published events
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		width := msg.Width - 4
		if width > 60 {
			width = 60
		}
		if width < 10 {
			width = 10
		}
		m.progress.Width = width
		m.help.Width = msg.Width
		return m, nil

	case eventMsg:
		m.applyEvent(events.Event(msg))
		return m, waitForEvent(m.events)

	case streamClosedMsg:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var err error
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Work):
		err = m.ctrl.StartWork()
	case key.Matches(msg, m.keys.Break):
		err = m.ctrl.StartBreak()
	case key.Matches(msg, m.keys.Pause):
		err = m.ctrl.Pause()
	case key.Matches(msg, m.keys.Resume):
		err = m.ctrl.Resume()
	case key.Matches(msg, m.keys.End):
		err = m.ctrl.ForceEnd()
	default:
		return m, nil
	}
	m.err = err
	m.snap = m.ctrl.Snapshot()
	return m, nil
}

func (m *Model) applyEvent(e events.Event) {
	switch e.Name {
	case domain.EventSessionStart:
		m.warning = ""
		m.lastEnd = ""
		m.err = nil
	case domain.EventSessionEnd:
		m.lastEnd = output.FormatEvent(e)
	case domain.EventWarning:
		m.warning = output.FormatEvent(e)
	}
	m.snap = m.ctrl.Snapshot()
}

// View renders the current snapshot
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("pomo"))
	b.WriteString("  ")
	b.WriteString(stateLabel(m.snap))
	if m.snap.Paused {
		b.WriteString(" ")
		b.WriteString(pausedStyle.Render("PAUSED"))
	}
	b.WriteString("\n")

	if m.snap.State.Active() {
		b.WriteString(clockStyle.Render(output.FormatClock(m.snap.RemainingSeconds())))
		b.WriteString("\n")
		b.WriteString(m.progress.ViewAs(m.snap.Progress))
		b.WriteString("\n")
	} else {
		b.WriteString(clockStyle.Render("--:--"))
		b.WriteString("\n")
	}

	t := m.snap.Totals
	b.WriteString(statsStyle.Render(fmt.Sprintf("work %d · breaks %d · cancelled %d · focus %s",
		t.CompletedWork, t.CompletedBreaks, t.Cancelled, output.FormatClock(t.FocusSeconds))))
	b.WriteString("\n")

	if m.lastEnd != "" {
		b.WriteString("\n" + m.lastEnd + "\n")
	}
	if m.warning != "" {
		b.WriteString("\n" + warningStyle.Render(m.warning) + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func stateLabel(s session.Snapshot) string {
	switch s.State {
	case domain.StateWork:
		return workStyle.Render(fmt.Sprintf("%s #%d", s.State, s.Session))
	case domain.StateBreak:
		return breakStyle.Render(fmt.Sprintf("%s #%d", s.State, s.Session))
	}
	return idleStyle.Render(s.State.String())
}
