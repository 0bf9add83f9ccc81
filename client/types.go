package client

import (
	"encoding/json"

	"github.com/medlink/medlink-tui/session"
)

// TransportError is the uniform failure shape for every backend operation.
// Message is human-readable: the server-supplied error field when one was
// present, else a generic "Server error: <status>" string, else the
// transport-level failure. Status is the HTTP status for non-2xx responses
// and zero for network or decode failures.
type TransportError struct {
	Message string
	Status  int
}

func (e *TransportError) Error() string { return e.Message }

// FromServer reports whether the failure originated from a non-2xx response
// rather than a network/decode problem.
func (e *TransportError) FromServer() bool { return e.Status != 0 }

// translateRequest for POST /api/translate/.
type translateRequest struct {
	Role session.Role `json:"role"`
	Text string       `json:"text"`
}

// searchRequest for POST /api/search/.
type searchRequest struct {
	Keyword string `json:"keyword"`
}

// summarizeRequest for POST /api/summarize/.
type summarizeRequest struct {
	MessageIDs []int64 `json:"message_ids"`
}

// summarizeResponse from POST /api/summarize/.
type summarizeResponse struct {
	Summary string `json:"summary"`
}

// audioResponse from POST /api/audio/. The transcription comes back under
// its own field name; it becomes the message's original text.
type audioResponse struct {
	ID              int64        `json:"id"`
	Role            session.Role `json:"role"`
	TranscribedText string       `json:"transcribed_text"`
	TranslatedText  string       `json:"translated_text"`
	Timestamp       string       `json:"timestamp"`
}

// messagesResponse from GET /api/messages/ and POST /api/search/. Messages
// is kept raw so a missing or non-array field degrades to an empty feed
// instead of a decode failure.
type messagesResponse struct {
	Messages json.RawMessage `json:"messages"`
}

// errorResponse is the backend's non-2xx body shape.
type errorResponse struct {
	Error string `json:"error"`
}
