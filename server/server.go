package server

import (
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/medlink/medlink-tui/session"
)

// Server exposes the conversation API consumed by the TUI client.
type Server struct {
	store      *Store
	translator Translator
}

// New builds a Server around a message store and a translator.
func New(store *Store, translator Translator) *Server {
	return &Server{store: store, translator: translator}
}

// Register mounts the API routes on an echo instance.
func (s *Server) Register(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/messages/", s.ListMessages)
	api.POST("/translate/", s.Translate)
	api.POST("/audio/", s.Audio)
	api.POST("/search/", s.SearchMessages)
	api.POST("/summarize/", s.Summarize)
}

type translateRequest struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type searchRequest struct {
	Keyword string `json:"keyword"`
}

type summarizeRequest struct {
	MessageIDs []int64 `json:"message_ids"`
}

// ListMessages returns the full conversation history.
// GET /api/messages/
func (s *Server) ListMessages(c echo.Context) error {
	msgs, err := s.store.List(c.Request().Context())
	if err != nil {
		log.Printf("ERROR: failed to list messages: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load messages"})
	}
	if msgs == nil {
		msgs = []session.Message{}
	}
	return c.JSON(http.StatusOK, map[string]any{"messages": msgs})
}

// Translate stores a text message with its translation and returns the
// stored message.
// POST /api/translate/
func (s *Server) Translate(c echo.Context) error {
	var req translateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Text is required"})
	}
	role := normalizeRole(req.Role)

	ctx := c.Request().Context()
	translated, err := s.translator.Translate(ctx, role, req.Text)
	if err != nil {
		log.Printf("ERROR: translation failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "translation failed"})
	}
	msg, err := s.store.Insert(ctx, string(role), req.Text, translated)
	if err != nil {
		log.Printf("ERROR: failed to store message: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to store message"})
	}
	return c.JSON(http.StatusOK, msg)
}

// Audio transcribes an uploaded recording, translates it, and stores it.
// POST /api/audio/ (multipart: "audio" file, "role" field)
func (s *Server) Audio(c echo.Context) error {
	file, err := c.FormFile("audio")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Audio file is required"})
	}
	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Audio file is required"})
	}
	defer src.Close()
	audio, err := io.ReadAll(src)
	if err != nil || len(audio) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Audio file is required"})
	}
	role := normalizeRole(c.FormValue("role"))

	ctx := c.Request().Context()
	transcribed, err := s.translator.Transcribe(ctx, audio)
	if err != nil {
		log.Printf("ERROR: transcription failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "transcription failed"})
	}
	translated, err := s.translator.Translate(ctx, role, transcribed)
	if err != nil {
		log.Printf("ERROR: translation failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "translation failed"})
	}
	msg, err := s.store.Insert(ctx, string(role), transcribed, translated)
	if err != nil {
		log.Printf("ERROR: failed to store message: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to store message"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"id":               msg.ID,
		"role":             msg.Role,
		"transcribed_text": msg.OriginalText,
		"translated_text":  msg.TranslatedText,
		"timestamp":        msg.Timestamp,
	})
}

// SearchMessages returns messages matching a keyword.
// POST /api/search/
func (s *Server) SearchMessages(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	msgs, err := s.store.Search(c.Request().Context(), req.Keyword)
	if err != nil {
		log.Printf("ERROR: search failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "search failed"})
	}
	if msgs == nil {
		msgs = []session.Message{}
	}
	return c.JSON(http.StatusOK, map[string]any{"messages": msgs})
}

// Summarize generates a summary of the selected messages.
// POST /api/summarize/
func (s *Server) Summarize(c echo.Context) error {
	var req summarizeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if len(req.MessageIDs) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No messages selected"})
	}
	ctx := c.Request().Context()
	msgs, err := s.store.GetByIDs(ctx, req.MessageIDs)
	if err != nil {
		log.Printf("ERROR: failed to fetch messages: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch messages"})
	}
	summary, err := s.translator.Summarize(ctx, msgs)
	if err != nil {
		log.Printf("ERROR: summarization failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "summarization failed"})
	}
	return c.JSON(http.StatusOK, map[string]string{"summary": summary})
}

func normalizeRole(role string) session.Role {
	if session.Role(role) == session.RolePatient {
		return session.RolePatient
	}
	return session.RoleDoctor
}
