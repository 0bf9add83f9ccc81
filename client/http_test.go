package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medlink/medlink-tui/session"
)

func TestListMessagesDecodesFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/messages/", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Write([]byte(`{"messages":[
			{"id":1,"role":"doctor","original_text":"hi","translated_text":"hola","timestamp":"2026-09-01T10:00:00Z"},
			{"id":2,"role":"patient","original_text":"hola","timestamp":"2026-09-01T10:01:00Z"}
		]}`))
	}))
	defer srv.Close()

	msgs, err := New(srv.URL).ListMessages()
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, int64(1), msgs[0].ID)
	assert.Equal(t, session.RoleDoctor, msgs[0].Role)
	assert.Equal(t, "hola", msgs[0].TranslatedText)
	assert.Empty(t, msgs[1].TranslatedText)
}

func TestListMessagesMissingFieldYieldsEmptyFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	msgs, err := New(srv.URL).ListMessages()
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestListMessagesNonArrayFieldYieldsEmptyFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"messages":"oops"}`))
	}))
	defer srv.Close()

	msgs, err := New(srv.URL).ListMessages()
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestListMessagesNonJSONBodyIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>proxy error</html>`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListMessages()
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.False(t, terr.FromServer())
}

func TestListMessagesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListMessages()
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "Server error: 502", terr.Message)
	assert.Equal(t, http.StatusBadGateway, terr.Status)
	assert.True(t, terr.FromServer())
}

func TestListMessagesNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := New(srv.URL).ListMessages()
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.False(t, terr.FromServer())
}

func TestSubmitTextSendsRoleAndText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/translate/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req struct {
			Role string `json:"role"`
			Text string `json:"text"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "patient", req.Role)
		assert.Equal(t, "me duele", req.Text)

		w.Write([]byte(`{"id":7,"role":"patient","original_text":"me duele","translated_text":"it hurts","timestamp":"2026-09-01T10:00:00Z"}`))
	}))
	defer srv.Close()

	m, err := New(srv.URL).SubmitText(session.RolePatient, "me duele")
	require.NoError(t, err)
	assert.Equal(t, int64(7), m.ID)
	assert.Equal(t, "it hurts", m.TranslatedText)
}

func TestSubmitTextServerErrorIsGeneric(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"translation failed"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).SubmitText(session.RoleDoctor, "hello")
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "Server error: 500", terr.Message)
}

func TestSubmitAudioMultipartShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/audio/", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "doctor", r.FormValue("role"))
		file, header, err := r.FormFile("audio")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "recording.webm", header.Filename)

		w.Write([]byte(`{"id":3,"role":"doctor","transcribed_text":"take two","translated_text":"toma dos","timestamp":"2026-09-01T10:00:00Z"}`))
	}))
	defer srv.Close()

	m, err := New(srv.URL).SubmitAudio(session.RoleDoctor, []byte{0xde, 0xad})
	require.NoError(t, err)
	assert.Equal(t, int64(3), m.ID)
	assert.Equal(t, "take two", m.OriginalText)
	assert.Equal(t, "toma dos", m.TranslatedText)
}

func TestSubmitAudioPrefersServerErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Audio file is required"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).SubmitAudio(session.RoleDoctor, []byte{1})
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "Audio file is required", terr.Message)
	assert.Equal(t, http.StatusBadRequest, terr.Status)
}

func TestSubmitAudioFallsBackToStatusString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).SubmitAudio(session.RoleDoctor, []byte{1})
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "Server error: 400", terr.Message)
}

func TestSearchSendsKeyword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/search/", r.URL.Path)
		var req struct {
			Keyword string `json:"keyword"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "cabeza", req.Keyword)
		w.Write([]byte(`{"messages":[{"id":2,"role":"patient","original_text":"cabeza","timestamp":"t"}]}`))
	}))
	defer srv.Close()

	msgs, err := New(srv.URL).Search("cabeza")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, int64(2), msgs[0].ID)
}

func TestSummarizeSendsIDsAndDecodesSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/summarize/", r.URL.Path)
		var req struct {
			MessageIDs []int64 `json:"message_ids"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []int64{1, 3}, req.MessageIDs)
		w.Write([]byte(`{"summary":"Patient reports headache."}`))
	}))
	defer srv.Close()

	summary, err := New(srv.URL).Summarize([]int64{1, 3})
	require.NoError(t, err)
	assert.Equal(t, "Patient reports headache.", summary)
}

func TestTransportErrorMessage(t *testing.T) {
	err := &TransportError{Message: "Server error: 503", Status: 503}
	assert.Equal(t, "Server error: 503", err.Error())
	assert.True(t, err.FromServer())

	netErr := netError("list messages", errors.New("dial tcp: refused"))
	assert.False(t, netErr.FromServer())
	assert.Contains(t, netErr.Error(), "refused")
}
