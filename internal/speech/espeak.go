package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// ESpeakConfig holds configuration for espeak-ng audio generation
type ESpeakConfig struct {
	Voice     string // Voice variant (e.g., "en-us", "en-gb", "en-us+f3")
	Speed     int    // Speech speed in words per minute (default: 140)
	Pitch     int    // Pitch adjustment, 0 to 99 (default: 50)
	Amplitude int    // Volume/amplitude, 0 to 200 (default: 100)
	WordGap   int    // Gap between words in 10ms units (default: 0)
}

// DefaultESpeakConfig returns the default configuration for an American English voice
func DefaultESpeakConfig() *ESpeakConfig {
	return &ESpeakConfig{
		Voice:     "en-us",
		Speed:     140,
		Pitch:     50,
		Amplitude: 100,
	}
}

// ESpeakSpeaker implements Speaker for the espeak-ng engine
type ESpeakSpeaker struct {
	config *ESpeakConfig
}

// NewESpeakSpeaker creates a new espeak-ng speaker
func NewESpeakSpeaker(config *ESpeakConfig) (*ESpeakSpeaker, error) {
	if err := checkESpeakInstalled(); err != nil {
		return nil, err
	}
	if config == nil {
		config = DefaultESpeakConfig()
	}
	return &ESpeakSpeaker{config: config}, nil
}

// Speak renders text with espeak-ng. A .wav output is written directly, any
// other extension is converted to MP3 with ffmpeg.
func (s *ESpeakSpeaker) Speak(ctx context.Context, text string, outputFile string) error {
	if err := ValidateText(text); err != nil {
		return err
	}

	if strings.ToLower(filepath.Ext(outputFile)) == ".wav" {
		return s.generateWAV(ctx, text, outputFile)
	}
	if strings.ToLower(filepath.Ext(outputFile)) != ".mp3" {
		outputFile += ".mp3"
	}

	tempWAV := strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + "_temp.wav"
	if err := s.generateWAV(ctx, text, tempWAV); err != nil {
		return err
	}
	defer os.Remove(tempWAV)

	return convertWAVToMP3(ctx, tempWAV, outputFile)
}

// Name returns the provider name
func (s *ESpeakSpeaker) Name() string {
	return "espeak-ng"
}

// IsAvailable checks if espeak-ng is installed
func (s *ESpeakSpeaker) IsAvailable() error {
	return checkESpeakInstalled()
}

func (s *ESpeakSpeaker) generateWAV(ctx context.Context, text, outputFile string) error {
	if err := ensureDir(outputFile); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, "espeak-ng", s.args(text, outputFile)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("espeak-ng failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

// args builds the espeak-ng command line
func (s *ESpeakSpeaker) args(text, outputFile string) []string {
	args := []string{
		"-v", s.config.Voice,
		"-s", strconv.Itoa(clamp(s.config.Speed, 80, 450)),
		"-p", strconv.Itoa(clamp(s.config.Pitch, 0, 99)),
		"-a", strconv.Itoa(clamp(s.config.Amplitude, 0, 200)),
	}
	if s.config.WordGap > 0 {
		args = append(args, "-g", strconv.Itoa(s.config.WordGap))
	}
	return append(args, "-w", outputFile, text)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

// checkESpeakInstalled verifies that espeak-ng is available on the system
func checkESpeakInstalled() error {
	if _, err := exec.LookPath("espeak-ng"); err != nil {
		return fmt.Errorf("espeak-ng is not installed or not in PATH: %w", err)
	}
	return nil
}

// convertWAVToMP3 converts a WAV file to MP3 using ffmpeg
func convertWAVToMP3(ctx context.Context, wavFile, mp3File string) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg is not installed or not in PATH: %w", err)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", "-i", wavFile, "-acodec", "mp3", "-y", mp3File)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg conversion failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

func ensureDir(file string) error {
	dir := filepath.Dir(file)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}
