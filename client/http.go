// Package client talks to the translation backend. It normalizes every
// failure into *TransportError and never retries; retry policy belongs to
// callers.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/medlink/medlink-tui/session"
)

// audioFilename is the form filename the backend expects for uploads.
const audioFilename = "recording.webm"

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// ListMessages fetches the full message history. A payload whose messages
// field is missing or not an array yields an empty slice, not an error.
func (c *Client) ListMessages() ([]session.Message, error) {
	resp, err := c.get("/api/messages/")
	if err != nil {
		return nil, netError("list messages", err)
	}
	defer resp.Body.Close()
	if !is2xx(resp.StatusCode) {
		return nil, serverError(resp.StatusCode)
	}
	return decodeMessages(resp.Body)
}

// SubmitText sends a text message for translation. The server assigns the
// id and timestamp and is authoritative for the stored role.
func (c *Client) SubmitText(role session.Role, text string) (session.Message, error) {
	resp, err := c.postJSON("/api/translate/", translateRequest{Role: role, Text: text})
	if err != nil {
		return session.Message{}, netError("submit text", err)
	}
	defer resp.Body.Close()
	if !is2xx(resp.StatusCode) {
		return session.Message{}, serverError(resp.StatusCode)
	}
	var m session.Message
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return session.Message{}, decodeError("translate", err)
	}
	return m, nil
}

// SubmitAudio uploads recorded audio for transcription and translation.
// Non-2xx bodies are parsed for a server-supplied error message on this
// path, since transcription failures carry useful detail.
func (c *Client) SubmitAudio(role session.Role, audio []byte) (session.Message, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("audio", audioFilename)
	if err != nil {
		return session.Message{}, netError("encode audio", err)
	}
	if _, err := fw.Write(audio); err != nil {
		return session.Message{}, netError("encode audio", err)
	}
	if err := w.WriteField("role", string(role)); err != nil {
		return session.Message{}, netError("encode audio", err)
	}
	if err := w.Close(); err != nil {
		return session.Message{}, netError("encode audio", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/api/audio/", &buf)
	if err != nil {
		return session.Message{}, netError("submit audio", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	setRequestID(req)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return session.Message{}, netError("submit audio", err)
	}
	defer resp.Body.Close()
	if !is2xx(resp.StatusCode) {
		return session.Message{}, parseError(resp)
	}
	var payload audioResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return session.Message{}, decodeError("audio", err)
	}
	return session.Message{
		ID:             payload.ID,
		Role:           payload.Role,
		OriginalText:   payload.TranscribedText,
		TranslatedText: payload.TranslatedText,
		Timestamp:      payload.Timestamp,
	}, nil
}

// Search returns the messages matching keyword. Malformed payloads degrade
// to an empty result set, same as ListMessages.
func (c *Client) Search(keyword string) ([]session.Message, error) {
	resp, err := c.postJSON("/api/search/", searchRequest{Keyword: keyword})
	if err != nil {
		return nil, netError("search", err)
	}
	defer resp.Body.Close()
	if !is2xx(resp.StatusCode) {
		return nil, serverError(resp.StatusCode)
	}
	return decodeMessages(resp.Body)
}

// Summarize asks the backend to summarize the given message ids.
func (c *Client) Summarize(ids []int64) (string, error) {
	resp, err := c.postJSON("/api/summarize/", summarizeRequest{MessageIDs: ids})
	if err != nil {
		return "", netError("summarize", err)
	}
	defer resp.Body.Close()
	if !is2xx(resp.StatusCode) {
		return "", serverError(resp.StatusCode)
	}
	var payload summarizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", decodeError("summarize", err)
	}
	return payload.Summary, nil
}

func (c *Client) get(path string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	setRequestID(req)
	return c.HTTPClient.Do(req)
}

func (c *Client) postJSON(path string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	req, err := http.NewRequest(http.MethodPost, c.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	setRequestID(req)
	return c.HTTPClient.Do(req)
}

// setRequestID tags the request for backend log correlation.
func setRequestID(req *http.Request) {
	req.Header.Set("X-Request-ID", uuid.NewString())
}

// decodeMessages decodes a {messages: [...]} body. A body that is not JSON
// at all is a transport failure; a messages field that is absent or not an
// array is treated as an empty feed.
func decodeMessages(r io.Reader) ([]session.Message, error) {
	var payload messagesResponse
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, decodeError("messages", err)
	}
	if len(payload.Messages) == 0 {
		return nil, nil
	}
	var msgs []session.Message
	if err := json.Unmarshal(payload.Messages, &msgs); err != nil {
		return nil, nil
	}
	return msgs, nil
}

func is2xx(status int) bool { return status >= 200 && status < 300 }

func netError(op string, err error) *TransportError {
	return &TransportError{Message: fmt.Sprintf("%s: %v", op, err)}
}

func decodeError(op string, err error) *TransportError {
	return &TransportError{Message: fmt.Sprintf("decode %s: %v", op, err)}
}

func serverError(status int) *TransportError {
	return &TransportError{Message: fmt.Sprintf("Server error: %d", status), Status: status}
}

// parseError prefers the backend's error field over the generic status
// string.
func parseError(resp *http.Response) *TransportError {
	body, _ := io.ReadAll(resp.Body)
	var apiErr errorResponse
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
		return &TransportError{Message: apiErr.Error, Status: resp.StatusCode}
	}
	return serverError(resp.StatusCode)
}
