package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/medlink/medlink-tui/session"
)

// Translator converts between the doctor's and the patient's languages.
// Doctor messages are translated into the patient language and vice versa.
type Translator interface {
	Translate(ctx context.Context, role session.Role, text string) (string, error)
	Transcribe(ctx context.Context, audio []byte) (string, error)
	Summarize(ctx context.Context, messages []session.Message) (string, error)
}

// NewTranslatorFromEnv returns an OpenAI-backed translator when
// OPENAI_API_KEY is set, otherwise the offline canned translator.
func NewTranslatorFromEnv() Translator {
	if os.Getenv("OPENAI_API_KEY") != "" {
		return NewOpenAITranslator()
	}
	return CannedTranslator{}
}

// CannedTranslator is a deterministic offline translator for development
// and tests. It tags text with the target language instead of translating.
type CannedTranslator struct{}

func (CannedTranslator) Translate(_ context.Context, role session.Role, text string) (string, error) {
	target := "es"
	if role == session.RolePatient {
		target = "en"
	}
	return fmt.Sprintf("[%s] %s", target, text), nil
}

func (CannedTranslator) Transcribe(_ context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", errors.New("empty audio")
	}
	return fmt.Sprintf("(transcribed %d bytes)", len(audio)), nil
}

func (CannedTranslator) Summarize(_ context.Context, messages []session.Message) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Summary of %d message(s):\n", len(messages))
	for _, m := range messages {
		fmt.Fprintf(&b, "- %s: %s\n", m.Role, m.OriginalText)
	}
	return b.String(), nil
}

// OpenAITranslator uses the OpenAI API for translation, Whisper
// transcription, and summarization. Credentials and model names come
// from the environment.
type OpenAITranslator struct {
	client    *openai.Client
	chatModel string
}

// NewOpenAITranslator reads OPENAI_API_KEY and OPENAI_MODEL from the
// environment and falls back to a default chat model.
func NewOpenAITranslator() *OpenAITranslator {
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAITranslator{
		client:    openai.NewClient(os.Getenv("OPENAI_API_KEY")),
		chatModel: model,
	}
}

func (t *OpenAITranslator) Translate(ctx context.Context, role session.Role, text string) (string, error) {
	direction := "from English to Spanish"
	if role == session.RolePatient {
		direction = "from Spanish to English"
	}
	return t.chat(ctx,
		"You are a medical interpreter. Translate the following message "+direction+
			". Reply with the translation only.",
		text)
}

func (t *OpenAITranslator) Transcribe(ctx context.Context, audio []byte) (string, error) {
	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: "recording.webm",
		Reader:   bytes.NewReader(audio),
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (t *OpenAITranslator) Summarize(ctx context.Context, messages []session.Message) (string, error) {
	var b strings.Builder
	for _, m := range messages {
		fmt.Fprintf(&b, "%s: %s\n", m.Role, m.OriginalText)
	}
	return t.chat(ctx,
		"Summarize this doctor-patient conversation as short clinical notes.",
		b.String())
}

func (t *OpenAITranslator) chat(ctx context.Context, system, user string) (string, error) {
	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: t.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}
