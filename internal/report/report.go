// Package report writes practice results as a YAML document.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"codeberg.org/snonux/swarsense/internal/practice"
)

// Document is the YAML layout of a report.
type Document struct {
	GeneratedAt time.Time    `yaml:"generated_at"`
	Summary     SummaryDTO   `yaml:"summary"`
	Attempts    []AttemptDTO `yaml:"attempts"`
}

// SummaryDTO is the YAML layout of the session statistics.
type SummaryDTO struct {
	Total    int     `yaml:"total"`
	Scored   int     `yaml:"scored"`
	Failed   int     `yaml:"failed"`
	Correct  int     `yaml:"correct"`
	Average  float64 `yaml:"average"`
	Best     int     `yaml:"best"`
	Worst    int     `yaml:"worst"`
	Duration string  `yaml:"duration"`
}

// AttemptDTO is the YAML layout of one scored attempt.
type AttemptDTO struct {
	ID             string   `yaml:"id"`
	Target         string   `yaml:"target"`
	Spoken         string   `yaml:"spoken"`
	Transcript     string   `yaml:"transcript,omitempty"`
	TargetPhonemes string   `yaml:"target_phonemes,omitempty"`
	SpokenPhonemes string   `yaml:"spoken_phonemes,omitempty"`
	Score          int      `yaml:"score"`
	Bucket         string   `yaml:"bucket"`
	Correct        bool     `yaml:"correct"`
	Error          string   `yaml:"error,omitempty"`
	Tips           []string `yaml:"tips"`
}

// Build converts attempts and stats into a Document.
func Build(attempts []practice.Attempt, stats practice.Stats, now time.Time) Document {
	doc := Document{
		GeneratedAt: now.UTC(),
		Summary: SummaryDTO{
			Total:    stats.Total,
			Scored:   stats.Scored,
			Failed:   stats.Failed,
			Correct:  stats.Correct,
			Average:  stats.Average,
			Best:     stats.Best,
			Worst:    stats.Worst,
			Duration: stats.Duration.Round(time.Second).String(),
		},
		Attempts: make([]AttemptDTO, 0, len(attempts)),
	}

	for _, a := range attempts {
		doc.Attempts = append(doc.Attempts, AttemptDTO{
			ID:             a.ID,
			Target:         a.Target,
			Spoken:         a.Spoken,
			Transcript:     a.Transcript,
			TargetPhonemes: a.TargetPhonemes.String(),
			SpokenPhonemes: a.SpokenPhonemes.String(),
			Score:          a.Score(),
			Bucket:         a.Feedback.Bucket,
			Correct:        a.IsCorrect,
			Error:          a.Result.Err,
			Tips:           a.Feedback.Tips,
		})
	}
	return doc
}

// Write encodes a report for attempts and stats to w.
func Write(w io.Writer, attempts []practice.Attempt, stats practice.Stats) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Build(attempts, stats, time.Now())); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}

// WriteFile writes a report to path, creating parent directories.
func WriteFile(path string, attempts []practice.Attempt, stats practice.Stats) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := Write(f, attempts, stats); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
