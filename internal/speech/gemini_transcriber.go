package speech

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

const transcribePrompt = "Transcribe the speech in this recording verbatim. " +
	"Reply with the transcript only, without quotes or commentary. " +
	"Reply with an empty message if nobody speaks."

// contentGenerator is the part of *genai.Models the transcriber uses
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiTranscriber implements Transcriber with a Gemini multimodal model
type GeminiTranscriber struct {
	models contentGenerator
	model  string
}

// NewGeminiTranscriber creates a Gemini-backed transcriber
func NewGeminiTranscriber(ctx context.Context, config *Config) (*GeminiTranscriber, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiTranscriber{models: client.Models, model: config.GeminiModel}, nil
}

// Transcribe uploads audioFile inline and asks the model for a transcript
func (t *GeminiTranscriber) Transcribe(ctx context.Context, audioFile string) (string, error) {
	if err := ValidateAudioFile(audioFile); err != nil {
		return "", err
	}

	data, err := os.ReadFile(audioFile)
	if err != nil {
		return "", fmt.Errorf("failed to read audio file: %w", err)
	}

	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{Data: data, MIMEType: MIMEType(audioFile)}},
			{Text: transcribePrompt},
		},
	}}

	resp, err := t.models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("Gemini transcription error: %w", err)
	}

	text := strings.Trim(strings.TrimSpace(responseText(resp)), `"`)
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}

// Name returns the provider name
func (t *GeminiTranscriber) Name() string {
	return "gemini"
}

// responseText joins the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}
