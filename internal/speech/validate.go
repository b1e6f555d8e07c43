package speech

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// supportedAudio lists the recording formats the transcription APIs accept.
var supportedAudio = map[string]string{
	".flac": "audio/flac",
	".m4a":  "audio/mp4",
	".mp3":  "audio/mpeg",
	".mp4":  "audio/mp4",
	".mpeg": "audio/mpeg",
	".mpga": "audio/mpeg",
	".ogg":  "audio/ogg",
	".wav":  "audio/wav",
	".webm": "audio/webm",
}

// ValidateText checks that text has at least one letter to pronounce
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}

	for _, r := range text {
		if unicode.IsLetter(r) {
			return nil
		}
	}
	return fmt.Errorf("text must contain letters")
}

// ValidateAudioFile checks that path is a non-empty recording in a supported format
func ValidateAudioFile(path string) error {
	if _, ok := supportedAudio[strings.ToLower(filepath.Ext(path))]; !ok {
		return fmt.Errorf("unsupported audio format: %s", filepath.Base(path))
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to read audio file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("audio path is a directory: %s", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("audio file is empty: %s", path)
	}
	return nil
}

// MIMEType returns the MIME type for an audio file name, or "" if unsupported
func MIMEType(path string) string {
	return supportedAudio[strings.ToLower(filepath.Ext(path))]
}

// cleanText strips punctuation that should not be spoken
func cleanText(text string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		switch {
		case r == '-':
			return ' '
		case r == '\'':
			return r
		case unicode.IsPunct(r):
			return -1
		}
		return r
	}, text))
}
