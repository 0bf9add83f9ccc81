package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medlink/medlink-tui/session"
)

func feedState(msgs ...session.Message) session.State {
	s := session.NewState()
	s.Live = msgs
	return s
}

func TestThreadCursorFollowsTail(t *testing.T) {
	m := NewThread(80, 20)
	m.SetState(feedState(
		session.Message{ID: 1, Role: session.RoleDoctor, OriginalText: "one", Timestamp: "t"},
		session.Message{ID: 2, Role: session.RoleDoctor, OriginalText: "two", Timestamp: "t"},
	))

	id, ok := m.CursorID()
	assert.True(t, ok)
	assert.Equal(t, int64(2), id, "cursor starts on the newest message")

	// Appending while at the tail keeps following it.
	m.SetState(feedState(
		session.Message{ID: 1, Role: session.RoleDoctor, OriginalText: "one", Timestamp: "t"},
		session.Message{ID: 2, Role: session.RoleDoctor, OriginalText: "two", Timestamp: "t"},
		session.Message{ID: 3, Role: session.RoleDoctor, OriginalText: "three", Timestamp: "t"},
	))
	id, _ = m.CursorID()
	assert.Equal(t, int64(3), id)
}

func TestThreadCursorStaysPutOffTail(t *testing.T) {
	m := NewThread(80, 20)
	m.SetState(feedState(
		session.Message{ID: 1, Role: session.RoleDoctor, OriginalText: "one", Timestamp: "t"},
		session.Message{ID: 2, Role: session.RoleDoctor, OriginalText: "two", Timestamp: "t"},
	))
	m.CursorUp()

	m.SetState(feedState(
		session.Message{ID: 1, Role: session.RoleDoctor, OriginalText: "one", Timestamp: "t"},
		session.Message{ID: 2, Role: session.RoleDoctor, OriginalText: "two", Timestamp: "t"},
		session.Message{ID: 3, Role: session.RoleDoctor, OriginalText: "three", Timestamp: "t"},
	))
	id, _ := m.CursorID()
	assert.Equal(t, int64(1), id, "off-tail cursor keeps its position on append")
}

func TestThreadCursorBounds(t *testing.T) {
	m := NewThread(80, 20)

	_, ok := m.CursorID()
	assert.False(t, ok, "no cursor on an empty feed")

	m.SetState(feedState(session.Message{ID: 1, Role: session.RoleDoctor, OriginalText: "only", Timestamp: "t"}))
	m.CursorUp()
	m.CursorUp()
	id, _ := m.CursorID()
	assert.Equal(t, int64(1), id)

	m.CursorDown()
	m.CursorDown()
	id, _ = m.CursorID()
	assert.Equal(t, int64(1), id)
}

func TestThreadRendersSelectionMarks(t *testing.T) {
	m := NewThread(80, 20)
	s := feedState(
		session.Message{ID: 1, Role: session.RoleDoctor, OriginalText: "selected", Timestamp: "t"},
		session.Message{ID: 2, Role: session.RolePatient, OriginalText: "unselected", Timestamp: "t"},
	)
	s.Selection[1] = true
	m.SetState(s)

	content := m.renderAll()
	assert.Contains(t, content, "[x]")
	assert.Contains(t, content, "[ ]")
}

func TestThreadSearchHeaderShowsKeywordAndCount(t *testing.T) {
	m := NewThread(80, 20)
	s := session.NewState()
	s.View = session.ViewSearch
	s.Keyword = "cabeza"
	s.Results = []session.Message{
		{ID: 2, Role: session.RolePatient, OriginalText: "me duele la cabeza", Timestamp: "t"},
	}
	m.SetState(s)

	content := m.renderAll()
	assert.Contains(t, content, "cabeza")
	assert.Contains(t, content, "1 match(es)")
}

func TestThreadEmptyStates(t *testing.T) {
	m := NewThread(80, 20)
	m.SetState(session.NewState())
	assert.Contains(t, m.renderAll(), "No messages yet")

	s := session.NewState()
	s.View = session.ViewSearch
	s.Keyword = "zzz"
	m.SetState(s)
	assert.Contains(t, m.renderAll(), "No matching messages")
}

func TestShortTime(t *testing.T) {
	assert.Equal(t, "raw-value", shortTime("raw-value"))
	got := shortTime("2026-09-01T14:02:00Z")
	assert.Len(t, got, 5)
	assert.Contains(t, got, ":")
}

func TestIndent(t *testing.T) {
	out := indent("a\nb")
	for _, line := range strings.Split(out, "\n") {
		assert.True(t, strings.HasPrefix(line, "      "))
	}
}
