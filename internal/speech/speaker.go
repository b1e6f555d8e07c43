package speech

import (
	"context"
	"fmt"
	"log/slog"
)

// Speaker renders text into an audio file.
type Speaker interface {
	// Speak synthesizes text and writes the audio to outputFile
	Speak(ctx context.Context, text string, outputFile string) error

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Config holds the configuration for all speech providers
type Config struct {
	Transcriber  string // "openai" or "gemini"
	Speaker      string // "openai" or "espeak"
	OutputFormat string // "mp3" or "wav"
	Language     string // ISO-639-1 hint for transcription

	// OpenAI settings
	OpenAIKey         string
	OpenAIModel       string  // "tts-1", "tts-1-hd" or "gpt-4o-mini-tts"
	OpenAIVoice       string  // "alloy", "echo", "nova", ...
	OpenAISpeed       float64 // 0.25 to 4.0
	OpenAIInstruction string  // Voice instructions for gpt-4o-mini-tts
	TranscribeModel   string  // "whisper-1"

	// Gemini settings
	GeminiKey   string
	GeminiModel string

	// espeak-ng settings
	ESpeakVoice string

	CacheDir    string
	EnableCache bool
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Transcriber:       "openai",
		Speaker:           "openai",
		OutputFormat:      "mp3",
		Language:          "en",
		OpenAIModel:       "gpt-4o-mini-tts",
		OpenAIVoice:       "alloy",
		OpenAISpeed:       0.9,
		OpenAIInstruction: "Pronounce the English word slowly and clearly in General American, as a pronunciation teacher would.",
		TranscribeModel:   "whisper-1",
		GeminiModel:       "gemini-2.5-flash",
		ESpeakVoice:       "en-us",
	}
}

// NewSpeaker creates the speaker selected by config.Speaker
func NewSpeaker(config *Config) (Speaker, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Speaker {
	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAISpeaker(config)
	case "espeak":
		cfg := DefaultESpeakConfig()
		if config.ESpeakVoice != "" {
			cfg.Voice = config.ESpeakVoice
		}
		return NewESpeakSpeaker(cfg)
	default:
		return nil, fmt.Errorf("unknown speaker: %s", config.Speaker)
	}
}

// SpeakerWithFallback wraps a primary speaker with a fallback option
type SpeakerWithFallback struct {
	primary  Speaker
	fallback Speaker
}

// NewSpeakerWithFallback creates a speaker that falls back to secondary if primary fails
func NewSpeakerWithFallback(primary, fallback Speaker) Speaker {
	return &SpeakerWithFallback{
		primary:  primary,
		fallback: fallback,
	}
}

// Speak tries the primary speaker first, falls back to secondary on error
func (s *SpeakerWithFallback) Speak(ctx context.Context, text string, outputFile string) error {
	err := s.primary.Speak(ctx, text, outputFile)
	if err == nil {
		return nil
	}

	slog.Warn("primary speaker failed, falling back",
		"primary", s.primary.Name(),
		"fallback", s.fallback.Name(),
		"error", err)

	if ferr := s.fallback.Speak(ctx, text, outputFile); ferr != nil {
		return fmt.Errorf("primary (%s): %v; fallback (%s): %w",
			s.primary.Name(), err, s.fallback.Name(), ferr)
	}
	return nil
}

// Name returns the provider name
func (s *SpeakerWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", s.primary.Name(), s.fallback.Name())
}

// IsAvailable checks if at least one speaker is available
func (s *SpeakerWithFallback) IsAvailable() error {
	primaryErr := s.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := s.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both speakers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}
