package main

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/brkerd/video-to-ascii-mrd/engine"
)

// frameMsg carries one rendered character grid from the engine.
type frameMsg struct {
	grid string
}

// logMsg carries one log line from the publisher subscription.
type logMsg struct {
	line string
}

// engineDoneMsg signals that the engine's run loop returned.
type engineDoneMsg struct {
	err error
}

// model is the bubbletea model for the player. The engine runs in its own
// goroutine and delivers frames as messages; the model only forwards input
// and displays the latest grid plus a one-line status bar.
type model struct {
	eng    *engine.Engine
	keymap map[string]string
	grid   string
	status string
	runErr error
}

func newModel(eng *engine.Engine, keymap map[string]string) *model {
	return &model{
		eng:    eng,
		keymap: keymap,
	}
}

// Init implements tea.Model. The engine drives itself; nothing to start.
func (m *model) Init() tea.Cmd {
	return nil
}

// Update handles key presses, resizes, frames, and engine shutdown.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch s := msg.String(); s {
		case "q", "ctrl+c", "esc":
			m.eng.Stop()

			return m, tea.Quit

		case "i":
			m.eng.RequestIdle()

		default:
			if path, ok := m.keymap[s]; ok {
				m.eng.Enqueue(path)
			}
		}

	case tea.WindowSizeMsg:
		// One row stays reserved for the status bar.
		m.eng.SetSize(msg.Width, msg.Height-1)

	case frameMsg:
		m.grid = msg.grid

	case logMsg:
		m.status = msg.line

	case engineDoneMsg:
		m.runErr = msg.err

		return m, tea.Quit
	}

	return m, nil
}

// View renders the latest frame grid with the status bar below it.
func (m *model) View() tea.View {
	var sb strings.Builder

	sb.WriteString(m.grid)
	sb.WriteString(m.statusLine())

	v := tea.NewView(sb.String())
	v.AltScreen = true

	return v
}

func (m *model) statusLine() string {
	state := m.eng.State().String()

	if current := m.eng.CurrentVideo(); current != "" {
		state = fmt.Sprintf("%s %s", state, current)
	}

	if m.status == "" {
		return state
	}

	return fmt.Sprintf("%s | %s", state, m.status)
}
