// Package session holds the console's conversation state: the message feed,
// the search-result view, the summarization selection, and the bookkeeping
// for in-flight backend calls. All mutation goes through the Store; the
// Controller drives the backend and commits transitions.
package session

import "sort"

// Role identifies which conversational party is attributed to a message.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// ViewMode selects what the displayed feed contains.
type ViewMode int

const (
	ViewLive   ViewMode = iota // full message history plus local appends
	ViewSearch                 // last search result set, replaces live display
)

func (v ViewMode) String() string {
	switch v {
	case ViewLive:
		return "live"
	case ViewSearch:
		return "search"
	default:
		return "unknown"
	}
}

// Message is a single conversation entry. Immutable once created; the id is
// server-assigned and never reused.
type Message struct {
	ID             int64  `json:"id"`
	Role           Role   `json:"role"`
	OriginalText   string `json:"original_text"`
	TranslatedText string `json:"translated_text,omitempty"`
	Timestamp      string `json:"timestamp"`
}

// State is the single mutable aggregate behind the console UI.
//
// Live is the full server-confirmed history plus optimistic local appends;
// Results is the last search result set. The displayed feed is one or the
// other depending on View — successful submissions always land in Live,
// never in Results, so a search view cannot swallow new messages.
type State struct {
	Live      []Message
	Results   []Message
	View      ViewMode
	Keyword   string // active search keyword, "" outside search view
	Selection map[int64]bool
	InFlight  int // outstanding text/audio submissions
	LastError string
	Role      Role // attributed to the next submission
	Summary   string
}

// NewState returns the initial aggregate: live view, doctor role, nothing
// selected, nothing in flight.
func NewState() State {
	return State{
		View:      ViewLive,
		Role:      RoleDoctor,
		Selection: make(map[int64]bool),
	}
}

// Feed returns the currently displayed message sequence.
func (s State) Feed() []Message {
	if s.View == ViewSearch {
		return s.Results
	}
	return s.Live
}

// Pending reports whether any text/audio submission is outstanding.
func (s State) Pending() bool { return s.InFlight > 0 }

// Selected reports whether the message id is part of the summarization set.
func (s State) Selected(id int64) bool { return s.Selection[id] }

// SelectedIDs returns the selection as a sorted slice for a deterministic
// wire order.
func (s State) SelectedIDs() []int64 {
	ids := make([]int64, 0, len(s.Selection))
	for id, selected := range s.Selection {
		if !selected {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// clone deep-copies the mutable slices and map so snapshots handed to
// subscribers cannot alias store-internal state.
func (s State) clone() State {
	out := s
	out.Live = append([]Message(nil), s.Live...)
	out.Results = append([]Message(nil), s.Results...)
	out.Selection = make(map[int64]bool, len(s.Selection))
	for id, v := range s.Selection {
		out.Selection[id] = v
	}
	return out
}
