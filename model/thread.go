package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/medlink/medlink-tui/markdown"
	"github.com/medlink/medlink-tui/session"
	"github.com/medlink/medlink-tui/style"
)

// ThreadModel is a scrollable viewport over the displayed feed. It owns the
// selection cursor; the selection set itself lives in session.State and is
// mirrored here read-only for rendering.
type ThreadModel struct {
	vp        viewport.Model
	feed      []session.Message
	selection map[int64]bool
	view      session.ViewMode
	keyword   string
	cursor    int // index into feed, -1 when the feed is empty
	width     int
	height    int
}

// NewThread constructs a ThreadModel sized to width x height.
func NewThread(width, height int) ThreadModel {
	vp := viewport.New(width, height)
	vp.SetContent("")
	return ThreadModel{
		vp:     vp,
		cursor: -1,
		width:  width,
		height: height,
	}
}

// SetState mirrors the latest session snapshot into the thread. The cursor
// is clamped to the new feed; a previously empty feed
// places it on the last (newest) message.
func (m *ThreadModel) SetState(s session.State) {
	atTail := m.cursor == len(m.feed)-1
	m.feed = s.Feed()
	m.selection = s.Selection
	m.view = s.View
	m.keyword = s.Keyword

	switch {
	case len(m.feed) == 0:
		m.cursor = -1
	case m.cursor < 0 || atTail || m.cursor >= len(m.feed):
		m.cursor = len(m.feed) - 1
	}
	m.refresh()
}

// SetSize resizes the underlying viewport.
func (m *ThreadModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.vp.Width = width
	m.vp.Height = height
	m.refresh()
}

// CursorUp moves the selection cursor towards older messages.
func (m *ThreadModel) CursorUp() {
	if m.cursor > 0 {
		m.cursor--
		m.refresh()
	}
}

// CursorDown moves the selection cursor towards newer messages.
func (m *ThreadModel) CursorDown() {
	if m.cursor < len(m.feed)-1 {
		m.cursor++
		m.refresh()
	}
}

// CursorHome moves the cursor to the oldest message.
func (m *ThreadModel) CursorHome() {
	if len(m.feed) > 0 {
		m.cursor = 0
		m.refresh()
	}
}

// CursorEnd moves the cursor to the newest message.
func (m *ThreadModel) CursorEnd() {
	if len(m.feed) > 0 {
		m.cursor = len(m.feed) - 1
		m.refresh()
	}
}

// CursorID returns the id of the message under the cursor.
func (m ThreadModel) CursorID() (int64, bool) {
	if m.cursor < 0 || m.cursor >= len(m.feed) {
		return 0, false
	}
	return m.feed[m.cursor].ID, true
}

// Init satisfies tea.Model.
func (m ThreadModel) Init() tea.Cmd {
	return nil
}

// Update forwards scroll events to the viewport. It satisfies tea.Model so
// callers can type-assert the return value.
func (m ThreadModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(message)
	return m, cmd
}

// View returns the rendered viewport content.
func (m ThreadModel) View() string {
	return m.vp.View()
}

// refresh re-renders the feed into the viewport and follows the tail when
// the cursor sits on the newest message.
func (m *ThreadModel) refresh() {
	m.vp.SetContent(m.renderAll())
	if m.cursor == len(m.feed)-1 {
		m.vp.GotoBottom()
	}
}

// renderAll builds the full thread content, with a header line in search
// view.
func (m *ThreadModel) renderAll() string {
	var sb strings.Builder
	if m.view == session.ViewSearch {
		sb.WriteString(style.SearchHeader.Render(
			fmt.Sprintf("Search “%s” — %d match(es)", m.keyword, len(m.feed))))
		sb.WriteString(style.Hint.Render("  esc to return to the conversation"))
		sb.WriteString("\n\n")
	}
	if len(m.feed) == 0 {
		if m.view == session.ViewSearch {
			sb.WriteString(style.Faint.Render("  No matching messages."))
		} else {
			sb.WriteString(style.Faint.Render("  No messages yet. Type below to get started."))
		}
		return sb.String()
	}
	for i, message := range m.feed {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.renderMessage(i, message))
	}
	return sb.String()
}

// renderMessage converts a single message to its display block:
//
//	› [x] Doctor 14:02
//	      take two tablets daily
//	      ↳ patient-friendly rendering of the instruction
func (m *ThreadModel) renderMessage(idx int, message session.Message) string {
	cursor := "  "
	if idx == m.cursor {
		cursor = style.CursorMark.Render("›") + " "
	}
	mark := style.Faint.Render("[ ]")
	if m.selection[message.ID] {
		mark = style.SelectedMark.Render("[x]")
	}
	label := roleLabel(message.Role)
	ts := style.MsgTime.Render(shortTime(message.Timestamp))

	var sb strings.Builder
	sb.WriteString(cursor + mark + " " + label + " " + ts + "\n")
	sb.WriteString(indent(message.OriginalText))
	if message.TranslatedText != "" {
		sb.WriteString("\n")
		sb.WriteString(indent(style.Translated.Render("↳ ") + markdown.Render(message.TranslatedText)))
	}
	sb.WriteString("\n")
	return sb.String()
}

func roleLabel(r session.Role) string {
	if r == session.RolePatient {
		return style.PatientLabel.Render("Patient")
	}
	return style.DoctorLabel.Render("Doctor")
}

// shortTime renders an ISO-8601 timestamp as HH:MM, falling back to the raw
// string when it does not parse.
func shortTime(ts string) string {
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t.Local().Format("15:04")
	}
	return ts
}

// indent prefixes every line with six spaces to align under the header.
func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "      " + l
	}
	return strings.Join(lines, "\n")
}
