package speech

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoSpeech is returned when a recording transcribes to nothing.
var ErrNoSpeech = errors.New("no speech detected")

// Transcriber turns a recording into text.
type Transcriber interface {
	// Transcribe returns the text spoken in audioFile
	Transcribe(ctx context.Context, audioFile string) (string, error)

	// Name returns the provider name
	Name() string
}

// NewTranscriber creates the transcriber selected by config.Transcriber
func NewTranscriber(ctx context.Context, config *Config) (Transcriber, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Transcriber {
	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAITranscriber(config), nil
	case "gemini":
		if config.GeminiKey == "" {
			return nil, fmt.Errorf("Gemini API key is required")
		}
		return NewGeminiTranscriber(ctx, config)
	default:
		return nil, fmt.Errorf("unknown transcriber: %s", config.Transcriber)
	}
}
