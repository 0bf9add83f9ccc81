package session

import (
	"strings"
	"sync/atomic"
)

// Transport issues the remote operations the controller depends on. The
// concrete implementation lives in the client package; tests substitute a
// fake. Errors are already human-readable (the client prefers the
// server-supplied message over a generic status string).
type Transport interface {
	ListMessages() ([]Message, error)
	SubmitText(role Role, text string) (Message, error)
	SubmitAudio(role Role, audio []byte) (Message, error)
	Search(keyword string) ([]Message, error)
	Summarize(ids []int64) (string, error)
}

// User-visible failure strings. Submission and audio failures keep the
// original frontend wording.
const (
	errLoadFailed      = "Failed to load messages"
	errSubmitFailed    = "Error sending message. Make sure backend is running."
	errSearchFailed    = "Search failed"
	errSummarizeFailed = "Failed to generate summary"
)

// Controller exposes the operations a UI may invoke. Every operation
// validates input, drives the Transport, and commits a deterministic
// transition to the Store on completion. Methods block until the transition
// is committed and are safe for concurrent use; callers typically run them
// inside tea.Cmd goroutines.
//
// View-affecting operations (load, search) are tagged with a generation
// counter; a completion whose generation is stale commits nothing, so rapid
// interleaved loads and searches cannot overwrite a newer view with an older
// response. Submissions append in completion order, not call order.
type Controller struct {
	store   *Store
	tp      Transport
	viewGen atomic.Uint64
}

// NewController wires a Controller to its store and transport.
func NewController(store *Store, tp Transport) *Controller {
	return &Controller{store: store, tp: tp}
}

// LoadMessages fetches the full history and switches to the live view.
// Triggered at mount and by clearing a search. On failure the feed is left
// unchanged.
func (c *Controller) LoadMessages() {
	gen := c.viewGen.Add(1)
	c.store.apply(clearError)
	msgs, err := c.tp.ListMessages()
	if err != nil {
		c.commitView(gen, fail(errLoadFailed))
		return
	}
	c.commitView(gen, func(s State) State {
		s.View = ViewLive
		s.Keyword = ""
		s.Live = msgs
		s.Results = nil
		return s
	})
}

// SubmitText sends a text message attributed to the current role. Blank
// input (after trimming) is a no-op: no request, no state change. The
// in-flight count is restored on every path, success or failure.
func (c *Controller) SubmitText(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	role := c.store.State().Role
	c.store.apply(beginSubmit)
	defer c.store.apply(endSubmit)

	m, err := c.tp.SubmitText(role, text)
	if err != nil {
		c.store.apply(fail(errSubmitFailed))
		return
	}
	c.store.apply(appendLive(m))
}

// SubmitAudio uploads a recorded audio blob; the backend transcribes and
// translates it. An empty blob is a no-op.
func (c *Controller) SubmitAudio(audio []byte) {
	if len(audio) == 0 {
		return
	}
	role := c.store.State().Role
	c.store.apply(beginSubmit)
	defer c.store.apply(endSubmit)

	m, err := c.tp.SubmitAudio(role, audio)
	if err != nil {
		c.store.apply(fail("Error: " + err.Error()))
		return
	}
	c.store.apply(appendLive(m))
}

// Search replaces the displayed feed with messages matching keyword. An
// empty keyword degrades to LoadMessages — back to the live view without
// issuing a search request. On failure the feed is left unchanged.
func (c *Controller) Search(keyword string) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		c.LoadMessages()
		return
	}
	gen := c.viewGen.Add(1)
	c.store.apply(clearError)
	msgs, err := c.tp.Search(keyword)
	if err != nil {
		c.commitView(gen, fail(errSearchFailed))
		return
	}
	c.commitView(gen, func(s State) State {
		s.View = ViewSearch
		s.Keyword = keyword
		s.Results = msgs
		return s
	})
}

// ClearSearch restores the live feed by re-fetching it.
func (c *Controller) ClearSearch() { c.LoadMessages() }

// ToggleSelection flips membership of id in the summarization set.
// Double-toggle is a no-op. No network call.
func (c *Controller) ToggleSelection(id int64) {
	c.store.apply(func(s State) State {
		s.LastError = ""
		sel := make(map[int64]bool, len(s.Selection)+1)
		for k, v := range s.Selection {
			sel[k] = v
		}
		if sel[id] {
			delete(sel, id)
		} else {
			sel[id] = true
		}
		s.Selection = sel
		return s
	})
}

// ClearSelection empties the summarization set.
func (c *Controller) ClearSelection() {
	c.store.apply(func(s State) State {
		s.LastError = ""
		s.Selection = make(map[int64]bool)
		return s
	})
}

// Summarize asks the backend to summarize the selected messages. An empty
// selection is a no-op. The selection is kept afterwards so the user can
// refine it.
func (c *Controller) Summarize() {
	ids := c.store.State().SelectedIDs()
	if len(ids) == 0 {
		return
	}
	c.store.apply(clearError)
	summary, err := c.tp.Summarize(ids)
	if err != nil {
		c.store.apply(fail(errSummarizeFailed))
		return
	}
	if summary == "" {
		return
	}
	c.store.apply(func(s State) State {
		s.Summary = summary
		return s
	})
}

// SetRole selects the role attributed to the next submission. Feed,
// selection, and summary are untouched.
func (c *Controller) SetRole(role Role) {
	c.store.apply(func(s State) State {
		s.LastError = ""
		s.Role = role
		return s
	})
}

// commitView applies t only if gen is still the newest view generation;
// stale completions are discarded.
func (c *Controller) commitView(gen uint64, t Transition) {
	c.store.apply(func(s State) State {
		if gen != c.viewGen.Load() {
			return s
		}
		return t(s)
	})
}

// -- shared transitions --

func clearError(s State) State {
	s.LastError = ""
	return s
}

func fail(message string) Transition {
	return func(s State) State {
		s.LastError = message
		return s
	}
}

func beginSubmit(s State) State {
	s.LastError = ""
	s.InFlight++
	return s
}

func endSubmit(s State) State {
	if s.InFlight > 0 {
		s.InFlight--
	}
	return s
}

// appendLive appends a server-confirmed message to the live history and
// invalidates the summary. Appends never target the displayed search
// results: a message submitted while searching shows up once the live view
// is restored. A zero id means the payload was malformed; degrade to a
// no-op rather than surfacing an error.
func appendLive(m Message) Transition {
	return func(s State) State {
		if m.ID == 0 {
			return s
		}
		s.Live = append(append([]Message(nil), s.Live...), m)
		s.Summary = ""
		return s
	}
}
