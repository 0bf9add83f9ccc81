package session

import "sync"

// Transition is a total function of the prior state; it must not mutate its
// argument's slices or map in place — copy-on-write and return the new state.
type Transition func(State) State

// Listener receives a post-commit snapshot of the state.
type Listener func(State)

// Store is the authoritative holder of the session aggregate. One writer
// (the Controller), many readers. Mutation happens only through apply, which
// commits a transition atomically and notifies subscribers in commit order.
type Store struct {
	mu      sync.Mutex
	state   State
	subs    map[int]Listener
	nextSub int
}

// NewStore creates a Store holding the initial state.
func NewStore() *Store {
	return &Store{
		state: NewState(),
		subs:  make(map[int]Listener),
	}
}

// State returns a snapshot of the current aggregate. The snapshot is
// isolated: mutating it does not affect the store.
func (st *Store) State() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state.clone()
}

// Subscribe registers a listener for state changes and returns its
// unsubscribe function. Listeners are invoked with the lock held so
// notifications arrive in commit order; they must not call back into the
// store (enqueue and return, as with tea.Program.Send).
func (st *Store) Subscribe(fn Listener) func() {
	st.mu.Lock()
	defer st.mu.Unlock()
	id := st.nextSub
	st.nextSub++
	st.subs[id] = fn
	return func() {
		st.mu.Lock()
		defer st.mu.Unlock()
		delete(st.subs, id)
	}
}

// apply commits a transition and notifies subscribers with the new snapshot.
// No transition is ever partially applied: the aggregate is replaced in one
// assignment.
func (st *Store) apply(t Transition) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.state = t(st.state)
	if len(st.subs) == 0 {
		return
	}
	snap := st.state.clone()
	for _, fn := range st.subs {
		fn(snap)
	}
}
