package phonetic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/swarsense/internal/align"
	"codeberg.org/snonux/swarsense/internal/phoneme"
)

const systemPrompt = "You are an English pronunciation coach helping language learners. " +
	"You receive ARPABET phoneme sequences from the CMU Pronouncing Dictionary. " +
	"Explain each difference in terms of tongue, lip and jaw position and give familiar example words. " +
	"Be concise: at most one short paragraph per difference."

// Request describes one attempt to pronounce a word
type Request struct {
	Target         string
	Spoken         string
	TargetPhonemes phoneme.Sequence
	SpokenPhonemes phoneme.Sequence
	Differences    []align.EditOp
}

// chatClient is the part of *openai.Client the explainer uses
type chatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Explainer fetches articulation advice from OpenAI
type Explainer struct {
	apiKey  string
	model   string
	timeout time.Duration
	client  chatClient
}

// NewExplainer creates a new explainer
func NewExplainer(apiKey string) *Explainer {
	return &Explainer{
		apiKey:  apiKey,
		model:   openai.GPT4o,
		timeout: 30 * time.Second,
		client:  openai.NewClient(apiKey),
	}
}

// Explain returns advice for the differences in req
func (e *Explainer) Explain(ctx context.Context, req Request) (string, error) {
	if e.apiKey == "" {
		return "", fmt.Errorf("OpenAI API key not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(req)},
		},
		Temperature: 0.3,
		MaxTokens:   400,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func userPrompt(req Request) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Target word '%s': %s %s\n", req.Target, req.TargetPhonemes, req.TargetPhonemes.IPA())
	fmt.Fprintf(&sb, "The learner said '%s': %s %s\n", req.Spoken, req.SpokenPhonemes, req.SpokenPhonemes.IPA())

	if len(req.Differences) == 0 {
		sb.WriteString("The phonemes match. Give one tip on stress or rhythm for this word.")
		return sb.String()
	}

	sb.WriteString("Differences:\n")
	for _, op := range req.Differences {
		switch op.Kind {
		case align.Replace:
			fmt.Fprintf(&sb, "- said %s instead of %s\n", op.Spoken, op.Target)
		case align.Delete:
			fmt.Fprintf(&sb, "- left out %s\n", op.Target)
		case align.Insert:
			fmt.Fprintf(&sb, "- added %s\n", op.Spoken)
		}
	}
	sb.WriteString("Explain how to produce the target sounds correctly.")
	return sb.String()
}
