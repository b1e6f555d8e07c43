package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// modelClient is the part of *openai.Client the lister uses
type modelClient interface {
	ListModels(ctx context.Context) (openai.ModelsList, error)
}

// Catalog groups model IDs by purpose
type Catalog struct {
	Transcription []string
	Speech        []string
	Chat          []string
}

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client modelClient
}

// NewLister creates a new model lister
func NewLister(apiKey string) *Lister {
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClient(apiKey),
	}
}

// Catalog fetches and categorizes the available models
func (l *Lister) Catalog(ctx context.Context) (Catalog, error) {
	if l.apiKey == "" {
		return Catalog{}, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .swarsense.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to list models: %w", err)
	}

	var c Catalog
	for _, model := range models.Models {
		id := model.ID
		switch {
		case strings.Contains(id, "whisper") || strings.Contains(id, "transcribe"):
			c.Transcription = append(c.Transcription, id)
		case strings.Contains(id, "tts") || strings.Contains(id, "audio"):
			c.Speech = append(c.Speech, id)
		case strings.HasPrefix(id, "gpt-4") || strings.HasPrefix(id, "gpt-3.5"):
			c.Chat = append(c.Chat, id)
		}
	}

	sort.Strings(c.Transcription)
	sort.Strings(c.Speech)
	sort.Strings(c.Chat)
	return c, nil
}

// ListAvailableModels prints the categorized models to w
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	c, err := l.Catalog(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Available OpenAI Models:")
	printSection(w, "Speech-to-Text (transcription) Models:", c.Transcription)
	printSection(w, "Text-to-Speech (TTS) Models:", c.Speech)

	const maxChat = 10
	chat := c.Chat
	if len(chat) > maxChat {
		chat = chat[:maxChat]
	}
	printSection(w, "Chat Models (for pronunciation advice):", chat)
	if len(c.Chat) > maxChat {
		fmt.Fprintf(w, "  ... and %d more models\n", len(c.Chat)-maxChat)
	}
	return nil
}

func printSection(w io.Writer, title string, ids []string) {
	fmt.Fprintf(w, "\n%s\n", title)
	if len(ids) == 0 {
		fmt.Fprintln(w, "  No models found")
		return
	}
	for _, id := range ids {
		fmt.Fprintf(w, "  %s\n", id)
	}
}
