package speech

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// speechClient is the part of *openai.Client the speaker uses
type speechClient interface {
	CreateSpeech(ctx context.Context, request openai.CreateSpeechRequest) (openai.RawResponse, error)
}

// OpenAISpeaker implements Speaker for OpenAI TTS
type OpenAISpeaker struct {
	client      speechClient
	config      *Config
	cacheDir    string
	enableCache bool
}

// NewOpenAISpeaker creates a new OpenAI TTS speaker
func NewOpenAISpeaker(config *Config) (*OpenAISpeaker, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	return newOpenAISpeaker(openai.NewClient(config.OpenAIKey), config)
}

func newOpenAISpeaker(client speechClient, config *Config) (*OpenAISpeaker, error) {
	s := &OpenAISpeaker{
		client:      client,
		config:      config,
		cacheDir:    config.CacheDir,
		enableCache: config.EnableCache && config.CacheDir != "",
	}

	if s.enableCache {
		if err := os.MkdirAll(s.cacheDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}
	return s, nil
}

// Speak generates audio using OpenAI TTS
func (s *OpenAISpeaker) Speak(ctx context.Context, text string, outputFile string) error {
	if err := ValidateText(text); err != nil {
		return err
	}
	text = cleanText(text)

	req := openai.CreateSpeechRequest{
		Model: openai.SpeechModel(s.config.OpenAIModel),
		Input: text,
		Voice: openai.SpeechVoice(s.config.OpenAIVoice),
		Speed: s.config.OpenAISpeed,
	}
	if s.supportsInstructions() {
		req.Instructions = s.config.OpenAIInstruction
	}

	switch strings.ToLower(filepath.Ext(outputFile)) {
	case ".mp3":
		req.ResponseFormat = openai.SpeechResponseFormatMp3
	case ".wav":
		req.ResponseFormat = openai.SpeechResponseFormatWav
	case ".opus":
		req.ResponseFormat = openai.SpeechResponseFormatOpus
	case ".aac":
		req.ResponseFormat = openai.SpeechResponseFormatAac
	case ".flac":
		req.ResponseFormat = openai.SpeechResponseFormatFlac
	default:
		req.ResponseFormat = openai.SpeechResponseFormatMp3
		outputFile += ".mp3"
	}

	if s.enableCache {
		cacheFile := s.cacheFilePath(text, req.ResponseFormat)
		if _, err := os.Stat(cacheFile); err == nil {
			slog.Debug("tts cache hit", "text", text, "file", cacheFile)
			return copyFile(cacheFile, outputFile)
		}
	}

	slog.Debug("openai tts request",
		"model", s.config.OpenAIModel,
		"voice", s.config.OpenAIVoice,
		"speed", s.config.OpenAISpeed,
		"input", text)

	response, err := s.client.CreateSpeech(ctx, req)
	if err != nil {
		if strings.Contains(err.Error(), "does not have access to model") && s.supportsInstructions() {
			return fmt.Errorf("OpenAI TTS API error: %w\nNote: The %s model requires access. Try using --openai-model tts-1-hd instead", err, s.config.OpenAIModel)
		}
		return fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	defer response.Close()

	if err := ensureDir(outputFile); err != nil {
		return err
	}

	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	written, err := io.Copy(out, response)
	if err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	if written == 0 {
		return fmt.Errorf("no audio data received from OpenAI")
	}

	if s.enableCache {
		if err := copyFile(outputFile, s.cacheFilePath(text, req.ResponseFormat)); err != nil {
			slog.Warn("failed to cache tts output", "error", err)
		}
	}
	return nil
}

// Name returns the provider name
func (s *OpenAISpeaker) Name() string {
	return "openai"
}

// IsAvailable checks that an API key is configured. It does not call the API.
func (s *OpenAISpeaker) IsAvailable() error {
	if s.config.OpenAIKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}
	return nil
}

func (s *OpenAISpeaker) supportsInstructions() bool {
	return s.config.OpenAIInstruction != "" &&
		(s.config.OpenAIModel == "gpt-4o-mini-tts" || s.config.OpenAIModel == "gpt-4o-mini-audio-preview")
}

// cacheFilePath derives a cache location from the text, voice settings and format
func (s *OpenAISpeaker) cacheFilePath(text string, format openai.SpeechResponseFormat) string {
	h := md5.New()
	h.Write([]byte(text))
	h.Write([]byte(s.config.OpenAIModel))
	h.Write([]byte(s.config.OpenAIVoice))
	h.Write([]byte(fmt.Sprintf("%.2f", s.config.OpenAISpeed)))
	if s.supportsInstructions() {
		h.Write([]byte(s.config.OpenAIInstruction))
	}
	hash := hex.EncodeToString(h.Sum(nil))

	// First 2 chars as subdirectory to keep directories small
	return filepath.Join(s.cacheDir, hash[:2], hash[2:]+"."+string(format))
}

// ClearCache removes all cached audio files
func (s *OpenAISpeaker) ClearCache() error {
	if s.cacheDir == "" {
		return nil
	}
	return os.RemoveAll(s.cacheDir)
}

// CacheStats returns the number and total size of cached files
func (s *OpenAISpeaker) CacheStats() (fileCount int, totalSize int64, err error) {
	if !s.enableCache {
		return 0, 0, nil
	}

	err = filepath.Walk(s.cacheDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			fileCount++
			totalSize += info.Size()
		}
		return nil
	})
	return fileCount, totalSize, err
}

func copyFile(src, dst string) error {
	if err := ensureDir(dst); err != nil {
		return err
	}

	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destination.Close()

	_, err = io.Copy(destination, source)
	return err
}
