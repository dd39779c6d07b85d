package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/panecast/panecast/internal/session"
)

type sessionEventMsg session.Event

type eventsClosedMsg struct{}

type runDoneMsg struct{ err error }

// StatusModel is the Bubble Tea model showing the live session
// lifecycle: current state, peer, retry count and the last error.
type StatusModel struct {
	role      string
	spinner   spinner.Model
	state     session.State
	localName string
	remoteID  string
	retries   int
	lastErr   error
	events    <-chan session.Event
	runErr    error
}

// NewStatusModel creates the status display fed by session events.
func NewStatusModel(role string, events <-chan session.Event) StatusModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	return StatusModel{
		role:    role,
		spinner: sp,
		state:   session.StateIdle,
		events:  events,
	}
}

func (m StatusModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForEvent())
}

func (m StatusModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return eventsClosedMsg{}
		}
		return sessionEventMsg(ev)
	}
}

func (m StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sessionEventMsg:
		ev := session.Event(msg)
		m.state = ev.State
		if ev.LocalName != "" {
			m.localName = ev.LocalName
		}
		if ev.RemoteID != "" {
			m.remoteID = ev.RemoteID
		}
		if ev.Err != nil {
			m.lastErr = ev.Err
		}
		if ev.Kind == session.EventDisconnected {
			m.retries++
			m.remoteID = ""
		}
		if ev.Kind == session.EventStreamStarted {
			m.lastErr = nil
		}
		return m, m.waitForEvent()

	case eventsClosedMsg:
		return m, tea.Quit

	case runDoneMsg:
		m.runErr = msg.err
		return m, tea.Quit
	}

	return m, nil
}

func (m StatusModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(fmt.Sprintf("panecast %s", m.role)))
	b.WriteString("\n")

	icon := m.spinner.View()
	if m.state == session.StateStreaming {
		icon = SuccessStyle.Render(IconStream)
	}
	b.WriteString(fmt.Sprintf("%s %s\n", icon, StateStyle.Render(m.state.String())))

	if m.localName != "" {
		b.WriteString(MutedStyle.Render(fmt.Sprintf("  signed in as %s\n", m.localName)))
	}
	if m.remoteID != "" {
		b.WriteString(fmt.Sprintf("%s peer %s\n", IconPeer, BoldStyle.Render(m.remoteID)))
	}
	if m.retries > 0 {
		b.WriteString(MutedStyle.Render(fmt.Sprintf("  reconnects: %d\n", m.retries)))
	}
	if m.lastErr != nil {
		b.WriteString(fmt.Sprintf("%s %s\n", IconWarning, WarningStyle.Render(m.lastErr.Error())))
	}

	b.WriteString(MutedStyle.Render("\npress q to quit"))
	return b.String()
}

// RunStatus blocks on the status display until the user quits or the
// session loop finishes. The session's terminal error, if any, is
// returned so the command can surface it.
func RunStatus(role string, events <-chan session.Event, done <-chan error) error {
	p := tea.NewProgram(NewStatusModel(role, events))

	go func() {
		if done == nil {
			return
		}
		err := <-done
		p.Send(runDoneMsg{err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return err
	}

	if m, ok := final.(StatusModel); ok {
		return m.runErr
	}
	return nil
}
