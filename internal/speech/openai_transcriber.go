package speech

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// transcriptionClient is the part of *openai.Client the transcriber uses
type transcriptionClient interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// OpenAITranscriber implements Transcriber with the OpenAI audio API
type OpenAITranscriber struct {
	client   transcriptionClient
	model    string
	language string
}

// NewOpenAITranscriber creates a Whisper-backed transcriber
func NewOpenAITranscriber(config *Config) *OpenAITranscriber {
	return newOpenAITranscriber(openai.NewClient(config.OpenAIKey), config)
}

func newOpenAITranscriber(client transcriptionClient, config *Config) *OpenAITranscriber {
	model := config.TranscribeModel
	if model == "" {
		model = openai.Whisper1
	}
	return &OpenAITranscriber{
		client:   client,
		model:    model,
		language: config.Language,
	}
}

// Transcribe sends audioFile to the transcription endpoint
func (t *OpenAITranscriber) Transcribe(ctx context.Context, audioFile string) (string, error) {
	if err := ValidateAudioFile(audioFile); err != nil {
		return "", err
	}

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: audioFile,
		Language: t.language,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI transcription error: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}

// Name returns the provider name
func (t *OpenAITranscriber) Name() string {
	return "openai"
}
