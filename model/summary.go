package model

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/medlink/medlink-tui/markdown"
	"github.com/medlink/medlink-tui/style"
)

// SummaryModel renders the last generated conversation summary in a
// bordered panel below the thread. The summary text lives in session.State;
// this model only mirrors it for display. It disappears on its own when a
// new submission invalidates the summary.
type SummaryModel struct {
	text  string
	width int
}

// NewSummary returns an empty SummaryModel.
func NewSummary() SummaryModel {
	return SummaryModel{width: 80}
}

// SetText replaces the displayed summary. Empty text hides the panel.
func (m *SummaryModel) SetText(text string) {
	m.text = text
}

// SetWidth resizes the panel.
func (m *SummaryModel) SetWidth(w int) {
	m.width = w
}

// HasSummary reports whether there is anything to show.
func (m SummaryModel) HasSummary() bool {
	return m.text != ""
}

// Init satisfies tea.Model.
func (m SummaryModel) Init() tea.Cmd {
	return nil
}

// Update satisfies tea.Model.
func (m SummaryModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the bordered summary panel.
func (m SummaryModel) View() string {
	if m.text == "" {
		return ""
	}
	inner := m.width - 6
	if inner < 20 {
		inner = 20
	}
	body := style.SummaryTitle.Render("Summary") + "\n" +
		markdown.RenderWidth(m.text, inner)
	return style.SummaryBorder.Width(m.width - 2).Render(body)
}
