// Package msg defines the tea.Msg types dispatched within the console. It
// imports only the session domain, never client or model, to avoid import
// cycles.
package msg

import "github.com/medlink/medlink-tui/session"

// StateChanged carries a post-commit snapshot of the session aggregate.
// The store subscription forwards these through tea.Program.Send, so the
// Update loop sees every transition in commit order.
type StateChanged struct {
	State session.State
}

// Notice is a local, UI-only message (file read problems, help text). It is
// distinct from session.State.LastError, which only ever holds transport
// failures.
type Notice struct {
	Text string
}
