package app

// Focus identifies which surface owns the keyboard.
type Focus int

const (
	FocusMessage Focus = iota // composing a text message
	FocusSearch               // typing a search keyword
	FocusThread               // browsing the thread, toggling selection
)

func (f Focus) String() string {
	switch f {
	case FocusMessage:
		return "message"
	case FocusSearch:
		return "search"
	case FocusThread:
		return "thread"
	default:
		return "unknown"
	}
}
