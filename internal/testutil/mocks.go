package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"codeberg.org/snonux/swarsense/internal/phonetic"
)

// MockTranscriber mocks a speech-to-text provider. Transcripts and Errors are
// keyed by the base name of the audio file.
type MockTranscriber struct {
	Transcripts map[string]string
	Errors      map[string]error
	Calls       []string

	mu sync.Mutex
}

// Transcribe mocks transcribing a recording
func (m *MockTranscriber) Transcribe(ctx context.Context, audioFile string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := filepath.Base(audioFile)
	m.Calls = append(m.Calls, fmt.Sprintf("TRANSCRIBE %s", key))

	if err, ok := m.Errors[key]; ok {
		return "", err
	}
	if text, ok := m.Transcripts[key]; ok {
		return text, nil
	}
	return "", fmt.Errorf("no mock transcript for %s", key)
}

// Name returns the mock provider name
func (m *MockTranscriber) Name() string {
	return "mock"
}

// MockSpeaker mocks a text-to-speech provider. Successful calls write Audio
// (or GenerateAudioData) to the output file.
type MockSpeaker struct {
	Audio        []byte
	Errors       map[string]error
	AvailableErr error
	Calls        []string

	mu sync.Mutex
}

// Speak mocks speech synthesis
func (m *MockSpeaker) Speak(ctx context.Context, text string, outputFile string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, fmt.Sprintf("SPEAK %s -> %s", text, filepath.Base(outputFile)))

	if err, ok := m.Errors[text]; ok {
		return err
	}

	data := m.Audio
	if data == nil {
		data = (&TestDataGenerator{}).GenerateAudioData()
	}
	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return err
	}
	return os.WriteFile(outputFile, data, 0644)
}

// Name returns the mock provider name
func (m *MockSpeaker) Name() string {
	return "mock"
}

// IsAvailable returns AvailableErr
func (m *MockSpeaker) IsAvailable() error {
	return m.AvailableErr
}

// MockExplainer mocks the articulation advice service
type MockExplainer struct {
	Advice   string
	Err      error
	Requests []phonetic.Request

	mu sync.Mutex
}

// Explain mocks fetching advice
func (m *MockExplainer) Explain(ctx context.Context, req phonetic.Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return "", m.Err
	}
	if m.Advice != "" {
		return m.Advice, nil
	}
	return fmt.Sprintf("mock advice for %s", req.Target), nil
}

// TestDataGenerator generates test data
type TestDataGenerator struct{}

// GenerateAudioData generates mock audio data
func (g *TestDataGenerator) GenerateAudioData() []byte {
	// Simple mock MP3 header
	return []byte{0xFF, 0xFB, 0x90, 0x00, 0x00, 0x00, 0x00, 0x00}
}

// GenerateWAVData generates a minimal WAV header
func (g *TestDataGenerator) GenerateWAVData() []byte {
	return []byte("RIFF\x24\x00\x00\x00WAVEfmt ")
}
