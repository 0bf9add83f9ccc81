package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/medlink/medlink-tui/model"
	"github.com/medlink/medlink-tui/msg"
	"github.com/medlink/medlink-tui/session"
	"github.com/medlink/medlink-tui/style"
)

// slashCommands feeds the input's Tab autocomplete.
var slashCommands = []string{
	"/audio", "/clear", "/help", "/quit", "/role", "/search",
	"/summarize", "/unselect",
}

// Model is the root Bubble Tea model. It holds the latest session snapshot
// (pushed via msg.StateChanged), never the store itself; every state change
// flows controller → store → subscription → Update.
type Model struct {
	thread  model.ThreadModel
	input   model.InputModel
	search  model.InputModel
	status  model.StatusModel
	summary model.SummaryModel

	ctrl  *session.Controller
	state session.State

	keys        KeyMap
	focus       Focus
	notice      string
	width       int
	height      int
	confirmQuit bool
}

// New builds the root model around a controller and the store's initial
// snapshot.
func New(ctrl *session.Controller, initial session.State) Model {
	input := model.NewInput("Type a message, or / for commands…", "❯ ")
	input.SetCommands(slashCommands)
	search := model.NewInput("Keyword…", "search ❯ ")
	status := model.NewStatus()
	status.SetState(initial)

	return Model{
		thread:  model.NewThread(80, 20),
		input:   input,
		search:  search,
		status:  status,
		summary: model.NewSummary(),
		ctrl:    ctrl,
		state:   initial,
		keys:    DefaultKeyMap(),
		focus:   FocusMessage,
		width:   80,
		height:  24,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadMessages(), m.input.Focus(), tea.WindowSize())
}

func (m Model) Update(rawMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := rawMsg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		m.thread.SetSize(v.Width, m.threadHeight())
		m.input.SetWidth(v.Width)
		m.search.SetWidth(v.Width)
		m.summary.SetWidth(v.Width)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(v)
	case msg.StateChanged:
		m.state = v.State
		m.thread.SetState(v.State)
		m.status.SetState(v.State)
		m.summary.SetText(v.State.Summary)
		m.thread.SetSize(m.width, m.threadHeight())
		return m, nil
	case msg.Notice:
		m.notice = v.Text
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmQuit {
		if key.Matches(k, m.keys.Cancel) {
			return m, tea.Quit
		}
		m.confirmQuit = false
		return m, nil
	}
	m.notice = ""

	// Bindings that work regardless of focus.
	switch {
	case key.Matches(k, m.keys.QuitEOF):
		return m, tea.Quit
	case key.Matches(k, m.keys.ToggleRole):
		return m, m.setRole(otherRole(m.state.Role))
	case key.Matches(k, m.keys.Summarize):
		return m, m.summarize()
	case key.Matches(k, m.keys.ClearSelection):
		return m, m.clearSelection()
	case key.Matches(k, m.keys.Reload):
		return m, m.loadMessages()
	case key.Matches(k, m.keys.FocusSearch):
		return m.focusSearch()
	}

	switch m.focus {
	case FocusMessage:
		return m.handleMessageKey(k)
	case FocusSearch:
		return m.handleSearchKey(k)
	case FocusThread:
		return m.handleThreadKey(k)
	}
	return m, nil
}

func (m Model) handleMessageKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, m.keys.Cancel):
		if m.input.Value() == "" {
			m.confirmQuit = true
			return m, nil
		}
		m.input.Reset()
		return m, nil
	case key.Matches(k, m.keys.Escape):
		m.input.Blur()
		m.focus = FocusThread
		return m, nil
	case key.Matches(k, m.keys.Submit):
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		if strings.HasPrefix(text, "/") {
			m.input.Submit(text)
			return m.handleCommand(text)
		}
		// Advisory gate: the submit control is disabled while a
		// submission is outstanding.
		if m.state.Pending() {
			return m, nil
		}
		m.input.Submit(text)
		return m, m.submitText(text)
	case key.Matches(k, m.keys.PageUp), key.Matches(k, m.keys.PageDown):
		updated, cmd := m.thread.Update(k)
		if t, ok := updated.(model.ThreadModel); ok {
			m.thread = t
		}
		return m, cmd
	}
	updated, cmd := m.input.Update(k)
	if inp, ok := updated.(model.InputModel); ok {
		m.input = inp
	}
	return m, cmd
}

func (m Model) handleSearchKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, m.keys.Cancel), key.Matches(k, m.keys.Escape):
		// Leave search: restore the live feed and the composer.
		m.search.Reset()
		m.focus = FocusMessage
		return m, tea.Batch(m.clearSearch(), m.input.Focus())
	case key.Matches(k, m.keys.Submit):
		keyword := m.search.Value()
		m.search.Submit(keyword)
		m.search.Blur()
		m.focus = FocusThread
		return m, m.runSearch(keyword)
	}
	updated, cmd := m.search.Update(k)
	if inp, ok := updated.(model.InputModel); ok {
		m.search = inp
	}
	return m, cmd
}

func (m Model) handleThreadKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, m.keys.Cancel):
		m.confirmQuit = true
		return m, nil
	case key.Matches(k, m.keys.Escape):
		m.focus = FocusMessage
		return m, m.input.Focus()
	case key.Matches(k, m.keys.CursorUp):
		m.thread.CursorUp()
		return m, nil
	case key.Matches(k, m.keys.CursorDown):
		m.thread.CursorDown()
		return m, nil
	case key.Matches(k, m.keys.CursorHome):
		m.thread.CursorHome()
		return m, nil
	case key.Matches(k, m.keys.CursorEnd):
		m.thread.CursorEnd()
		return m, nil
	case key.Matches(k, m.keys.ToggleSelect):
		if id, ok := m.thread.CursorID(); ok {
			return m, m.toggleSelection(id)
		}
		return m, nil
	case key.Matches(k, m.keys.PageUp), key.Matches(k, m.keys.PageDown):
		updated, cmd := m.thread.Update(k)
		if t, ok := updated.(model.ThreadModel); ok {
			m.thread = t
		}
		return m, cmd
	}
	switch k.String() {
	case "/":
		return m.focusSearch()
	case "i":
		m.focus = FocusMessage
		return m, m.input.Focus()
	case "s":
		return m, m.summarize()
	case "c":
		return m, m.clearSelection()
	case "r":
		return m, m.loadMessages()
	}
	return m, nil
}

func (m Model) focusSearch() (Model, tea.Cmd) {
	m.input.Blur()
	m.focus = FocusSearch
	return m, m.search.Focus()
}

// handleCommand dispatches slash commands typed into the composer.
func (m Model) handleCommand(text string) (Model, tea.Cmd) {
	parts := strings.SplitN(text, " ", 2)
	cmd := parts[0]
	arg := ""
	if len(parts) > 1 {
		arg = strings.TrimSpace(parts[1])
	}

	switch cmd {
	case "/quit", "/exit":
		return m, tea.Quit
	case "/help":
		m.notice = helpText()
		return m, nil
	case "/audio":
		if arg == "" {
			m.notice = "Usage: /audio <path-to-recording>"
			return m, nil
		}
		if m.state.Pending() {
			return m, nil
		}
		return m, m.submitAudio(arg)
	case "/role":
		switch session.Role(arg) {
		case session.RoleDoctor, session.RolePatient:
			return m, m.setRole(session.Role(arg))
		case "":
			return m, m.setRole(otherRole(m.state.Role))
		default:
			m.notice = "Usage: /role doctor|patient"
			return m, nil
		}
	case "/search":
		return m, m.runSearch(arg)
	case "/clear":
		return m, m.clearSearch()
	case "/summarize":
		if len(m.state.Selection) == 0 {
			m.notice = "Select messages first (esc, then space to select)."
			return m, nil
		}
		return m, m.summarize()
	case "/unselect":
		return m, m.clearSelection()
	default:
		m.notice = fmt.Sprintf("Unknown command %s — try /help", cmd)
		return m, nil
	}
}

func (m Model) View() string {
	var sections []string
	sections = append(sections, m.headerView())
	if m.state.LastError != "" {
		sections = append(sections, style.ErrorBanner.Render(m.state.LastError))
	}
	if m.notice != "" {
		sections = append(sections, style.Faint.Render(" "+m.notice))
	}
	sections = append(sections, m.thread.View())
	if m.summary.HasSummary() {
		sections = append(sections, m.summary.View())
	}
	sections = append(sections, m.status.View())
	switch m.focus {
	case FocusSearch:
		sections = append(sections, m.search.View())
	default:
		sections = append(sections, m.input.View())
	}
	if m.confirmQuit {
		sections = append(sections, "\n  Press Ctrl+C again to quit, or any key to cancel.")
	}
	return strings.Join(sections, "\n")
}

// headerView renders the title bar with the active role highlighted.
func (m Model) headerView() string {
	doctor := style.RoleIdle.Render("Doctor")
	patient := style.RoleIdle.Render("Patient")
	if m.state.Role == session.RolePatient {
		patient = style.RoleActive.Render("Patient")
	} else {
		doctor = style.RoleActive.Render("Doctor")
	}
	return style.Title.Render(" MedLink") +
		style.Faint.Render(" · ") + doctor +
		style.Faint.Render(" ⇄ ") + patient
}

// threadHeight calculates available lines for the thread viewport.
func (m Model) threadHeight() int {
	reserved := 3 // header + status + input
	if m.state.LastError != "" {
		reserved++
	}
	if m.notice != "" {
		reserved += countLines(m.notice)
	}
	if m.summary.HasSummary() {
		reserved += countLines(m.summary.View())
	}
	h := m.height - reserved
	if h < 5 {
		h = 5
	}
	return h
}

// countLines returns the number of lines in a rendered string.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

// -- controller commands --
//
// Controller methods block until their transition is committed; running
// them inside tea.Cmd goroutines keeps the UI loop free. State comes back
// through the store subscription, so these return no message.

func (m Model) loadMessages() tea.Cmd {
	c := m.ctrl
	return func() tea.Msg {
		c.LoadMessages()
		return nil
	}
}

func (m Model) submitText(text string) tea.Cmd {
	c := m.ctrl
	return func() tea.Msg {
		c.SubmitText(text)
		return nil
	}
}

func (m Model) submitAudio(path string) tea.Cmd {
	c := m.ctrl
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return msg.Notice{Text: fmt.Sprintf("Cannot read audio file: %v", err)}
		}
		c.SubmitAudio(data)
		return nil
	}
}

func (m Model) runSearch(keyword string) tea.Cmd {
	c := m.ctrl
	return func() tea.Msg {
		c.Search(keyword)
		return nil
	}
}

func (m Model) clearSearch() tea.Cmd {
	c := m.ctrl
	return func() tea.Msg {
		c.ClearSearch()
		return nil
	}
}

func (m Model) toggleSelection(id int64) tea.Cmd {
	c := m.ctrl
	return func() tea.Msg {
		c.ToggleSelection(id)
		return nil
	}
}

func (m Model) clearSelection() tea.Cmd {
	c := m.ctrl
	return func() tea.Msg {
		c.ClearSelection()
		return nil
	}
}

func (m Model) summarize() tea.Cmd {
	c := m.ctrl
	return func() tea.Msg {
		c.Summarize()
		return nil
	}
}

func (m Model) setRole(role session.Role) tea.Cmd {
	c := m.ctrl
	return func() tea.Msg {
		c.SetRole(role)
		return nil
	}
}

func otherRole(r session.Role) session.Role {
	if r == session.RoleDoctor {
		return session.RolePatient
	}
	return session.RoleDoctor
}

func helpText() string {
	return `Commands: /audio <path>  /role doctor|patient  /search <kw>  /clear  /summarize  /unselect  /quit
Keys: ctrl+f search · ctrl+r switch role · ctrl+s summarize · ctrl+x unselect · ctrl+l reload · esc browse thread (space selects)`
}
