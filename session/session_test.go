package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeedFollowsViewMode(t *testing.T) {
	s := NewState()
	s.Live = []Message{{ID: 1}, {ID: 2}}
	s.Results = []Message{{ID: 2}}

	s.View = ViewLive
	assert.Len(t, s.Feed(), 2)

	s.View = ViewSearch
	assert.Len(t, s.Feed(), 1)
}

func TestPendingReflectsInFlightCount(t *testing.T) {
	s := NewState()
	assert.False(t, s.Pending())
	s.InFlight = 2
	assert.True(t, s.Pending())
}

func TestSelectedIDsSortedAscending(t *testing.T) {
	s := NewState()
	s.Selection = map[int64]bool{9: true, 1: true, 4: true}
	assert.Equal(t, []int64{1, 4, 9}, s.SelectedIDs())
}

func TestSelectedIDsSkipsFalseEntries(t *testing.T) {
	s := NewState()
	s.Selection = map[int64]bool{1: true, 2: false}
	assert.Equal(t, []int64{1}, s.SelectedIDs())
	assert.True(t, s.Selected(1))
	assert.False(t, s.Selected(2))
}

func TestCloneDeepCopiesSlicesAndSelection(t *testing.T) {
	s := NewState()
	s.Live = []Message{{ID: 1, OriginalText: "a"}}
	s.Results = []Message{{ID: 1, OriginalText: "a"}}
	s.Selection[1] = true

	c := s.clone()
	c.Live[0].OriginalText = "b"
	c.Results[0].OriginalText = "b"
	delete(c.Selection, 1)

	assert.Equal(t, "a", s.Live[0].OriginalText)
	assert.Equal(t, "a", s.Results[0].OriginalText)
	assert.True(t, s.Selected(1))
}

func TestViewModeString(t *testing.T) {
	assert.Equal(t, "live", ViewLive.String())
	assert.Equal(t, "search", ViewSearch.String())
}
