package phonetic

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/swarsense/internal/align"
	"codeberg.org/snonux/swarsense/internal/phoneme"
)

type fakeChat struct {
	reply    string
	err      error
	requests []openai.ChatCompletionRequest
}

func (f *fakeChat) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	if f.reply == "" {
		return openai.ChatCompletionResponse{}, nil
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.reply}},
		},
	}, nil
}

func helloRequest() Request {
	target := phoneme.ParseSequence("HH AH0 L OW1")
	spoken := phoneme.ParseSequence("HH EH0 L OW1")
	return Request{
		Target:         "hello",
		Spoken:         "hallo",
		TargetPhonemes: target,
		SpokenPhonemes: spoken,
		Differences:    align.Score(target, spoken).Differences(),
	}
}

func TestNewExplainer(t *testing.T) {
	e := NewExplainer("test-api-key")

	if e == nil {
		t.Fatal("NewExplainer returned nil")
	}
	if e.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", e.apiKey)
	}
	if e.client == nil {
		t.Error("OpenAI client not initialized")
	}
}

func TestExplain_NoAPIKey(t *testing.T) {
	_, err := NewExplainer("").Explain(context.Background(), helloRequest())
	if err == nil || err.Error() != "OpenAI API key not configured" {
		t.Errorf("Expected 'OpenAI API key not configured' error, got: %v", err)
	}
}

func TestExplain(t *testing.T) {
	chat := &fakeChat{reply: "  Relax the jaw for the schwa.  "}
	e := NewExplainer("k")
	e.client = chat

	got, err := e.Explain(context.Background(), helloRequest())
	if err != nil {
		t.Fatalf("Explain() error: %v", err)
	}
	if got != "Relax the jaw for the schwa." {
		t.Errorf("Explain() = %q", got)
	}

	prompt := chat.requests[0].Messages[1].Content
	for _, want := range []string{"'hello'", "HH AH0 L OW1", "/hʌloʊ/", "said EH0 instead of AH0"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestExplain_Errors(t *testing.T) {
	e := NewExplainer("k")

	e.client = &fakeChat{err: errors.New("rate limit")}
	if _, err := e.Explain(context.Background(), helloRequest()); err == nil || !strings.Contains(err.Error(), "rate limit") {
		t.Errorf("expected wrapped API error, got %v", err)
	}

	e.client = &fakeChat{}
	if _, err := e.Explain(context.Background(), helloRequest()); err == nil || err.Error() != "no response from OpenAI" {
		t.Errorf("expected empty response error, got %v", err)
	}
}

func TestUserPrompt(t *testing.T) {
	req := Request{
		Target:         "practice",
		Spoken:         "pracs",
		TargetPhonemes: phoneme.ParseSequence("P R AE1 K T IH0 S"),
		SpokenPhonemes: phoneme.ParseSequence("P R AE1 K S"),
		Differences: []align.EditOp{
			{Kind: align.Delete, Target: "T"},
			{Kind: align.Delete, Target: "IH0"},
			{Kind: align.Insert, Spoken: "Z"},
		},
	}

	prompt := userPrompt(req)
	for _, want := range []string{"left out T", "left out IH0", "added Z"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	req.Differences = nil
	if !strings.Contains(userPrompt(req), "stress or rhythm") {
		t.Error("matching attempt should ask for a stress tip")
	}
}

func TestExplain_Integration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	got, err := NewExplainer(apiKey).Explain(context.Background(), helloRequest())
	if err != nil {
		t.Fatalf("Explain failed: %v", err)
	}
	if len(got) < 20 {
		t.Errorf("advice seems too short: %q", got)
	}
	t.Logf("Advice for 'hello':\n%s", got)
}
