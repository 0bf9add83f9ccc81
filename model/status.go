package model

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/medlink/medlink-tui/session"
	"github.com/medlink/medlink-tui/style"
)

// StatusModel renders the bottom status line: active role, view mode,
// selection count, and the in-flight submission indicator. It is driven
// entirely by SetState; no messages are consumed here.
type StatusModel struct {
	role      session.Role
	view      session.ViewMode
	keyword   string
	selected  int
	pending   bool
	lastError bool
}

// NewStatus returns a zero-value StatusModel.
func NewStatus() StatusModel {
	return StatusModel{role: session.RoleDoctor}
}

// SetState mirrors the latest session snapshot.
func (m *StatusModel) SetState(s session.State) {
	m.role = s.Role
	m.view = s.View
	m.keyword = s.Keyword
	m.selected = len(s.Selection)
	m.pending = s.Pending()
	m.lastError = s.LastError != ""
}

// Init satisfies tea.Model.
func (m StatusModel) Init() tea.Cmd {
	return nil
}

// Update satisfies tea.Model.
func (m StatusModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the status line:
//
//	role: doctor · live · 2 selected · sending…
func (m StatusModel) View() string {
	var parts []string

	parts = append(parts, "role: "+string(m.role))

	if m.view == session.ViewSearch {
		parts = append(parts, fmt.Sprintf("search %q", m.keyword))
	} else {
		parts = append(parts, "live")
	}

	if m.selected > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", m.selected))
	}

	line := style.StatusBar.Render(strings.Join(parts, " · "))
	if m.pending {
		line += style.StatusPending.Render(" · sending…")
	}
	return line
}
