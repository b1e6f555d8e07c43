package speech

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

func writeRecording(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("RIFF....WAVE"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

type fakeTranscriptionClient struct {
	text     string
	err      error
	requests []openai.AudioRequest
}

func (f *fakeTranscriptionClient) CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return openai.AudioResponse{}, f.err
	}
	return openai.AudioResponse{Text: f.text}, nil
}

func TestNewTranscriber(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr string
	}{
		{name: "nil config uses defaults", config: nil, wantErr: "OpenAI API key is required"},
		{name: "openai without key", config: &Config{Transcriber: "openai"}, wantErr: "OpenAI API key is required"},
		{name: "gemini without key", config: &Config{Transcriber: "gemini"}, wantErr: "Gemini API key is required"},
		{name: "unknown", config: &Config{Transcriber: "vosk"}, wantErr: "unknown transcriber: vosk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTranscriber(context.Background(), tt.config)
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("NewTranscriber() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	tr, err := NewTranscriber(context.Background(), &Config{Transcriber: "openai", OpenAIKey: "k"})
	if err != nil {
		t.Fatalf("NewTranscriber() unexpected error: %v", err)
	}
	if tr.Name() != "openai" {
		t.Errorf("Name() = %v, want openai", tr.Name())
	}
}

func TestOpenAITranscriber_Transcribe(t *testing.T) {
	client := &fakeTranscriptionClient{text: "  Hello.  "}
	tr := newOpenAITranscriber(client, &Config{Language: "en"})
	path := writeRecording(t, "attempt.wav")

	got, err := tr.Transcribe(context.Background(), path)
	if err != nil {
		t.Fatalf("Transcribe() error: %v", err)
	}
	if got != "Hello." {
		t.Errorf("Transcribe() = %q, want %q", got, "Hello.")
	}

	req := client.requests[0]
	if req.Model != openai.Whisper1 {
		t.Errorf("Model = %q, want %q", req.Model, openai.Whisper1)
	}
	if req.FilePath != path || req.Language != "en" {
		t.Errorf("unexpected request %+v", req)
	}
}

func TestOpenAITranscriber_Errors(t *testing.T) {
	path := writeRecording(t, "attempt.wav")

	tr := newOpenAITranscriber(&fakeTranscriptionClient{text: "   "}, &Config{})
	if _, err := tr.Transcribe(context.Background(), path); !errors.Is(err, ErrNoSpeech) {
		t.Errorf("expected ErrNoSpeech, got %v", err)
	}

	apiErr := errors.New("rate limited")
	tr = newOpenAITranscriber(&fakeTranscriptionClient{err: apiErr}, &Config{})
	if _, err := tr.Transcribe(context.Background(), path); !errors.Is(err, apiErr) {
		t.Errorf("expected wrapped api error, got %v", err)
	}

	client := &fakeTranscriptionClient{text: "hello"}
	tr = newOpenAITranscriber(client, &Config{})
	if _, err := tr.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Error("expected error for missing file")
	}
	if len(client.requests) != 0 {
		t.Error("invalid files must not reach the API")
	}
}

type fakeGenerator struct {
	resp     *genai.GenerateContentResponse
	err      error
	model    string
	contents []*genai.Content
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestGeminiTranscriber_Transcribe(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse(`"hello `, `there"`)}
	tr := &GeminiTranscriber{models: gen, model: "gemini-2.5-flash"}
	path := writeRecording(t, "attempt.mp3")

	got, err := tr.Transcribe(context.Background(), path)
	if err != nil {
		t.Fatalf("Transcribe() error: %v", err)
	}
	if got != "hello there" {
		t.Errorf("Transcribe() = %q, want %q", got, "hello there")
	}
	if gen.model != "gemini-2.5-flash" {
		t.Errorf("model = %q", gen.model)
	}

	parts := gen.contents[0].Parts
	if len(parts) != 2 || parts[0].InlineData == nil {
		t.Fatalf("expected inline audio and prompt, got %+v", parts)
	}
	if parts[0].InlineData.MIMEType != "audio/mpeg" {
		t.Errorf("MIMEType = %q", parts[0].InlineData.MIMEType)
	}
	if !strings.Contains(parts[1].Text, "Transcribe") {
		t.Errorf("prompt = %q", parts[1].Text)
	}
	if tr.Name() != "gemini" {
		t.Errorf("Name() = %q", tr.Name())
	}
}

func TestGeminiTranscriber_Errors(t *testing.T) {
	path := writeRecording(t, "attempt.wav")

	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{name: "no candidates", gen: &fakeGenerator{resp: &genai.GenerateContentResponse{}}},
		{name: "nil response", gen: &fakeGenerator{}},
		{name: "blank text", gen: &fakeGenerator{resp: textResponse("  ")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &GeminiTranscriber{models: tt.gen, model: "m"}
			if _, err := tr.Transcribe(context.Background(), path); !errors.Is(err, ErrNoSpeech) {
				t.Errorf("expected ErrNoSpeech, got %v", err)
			}
		})
	}

	apiErr := errors.New("quota")
	tr := &GeminiTranscriber{models: &fakeGenerator{err: apiErr}, model: "m"}
	if _, err := tr.Transcribe(context.Background(), path); !errors.Is(err, apiErr) {
		t.Errorf("expected wrapped api error, got %v", err)
	}
}
