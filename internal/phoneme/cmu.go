package phoneme

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
)

// errSkipLine signals that a line should be skipped (comment, empty, etc.).
var errSkipLine = errors.New("skip line")

// CMUStats holds parser statistics, logged by LoadCMU.
type CMUStats struct {
	TotalLines   int
	CommentLines int
	ParsedLines  int
	UniqueWords  int
}

// CMUDict is a parsed CMU Pronouncing Dictionary. It is immutable after
// parsing and safe for concurrent use.
type CMUDict struct {
	entries map[string][]string
	words   []string
	Stats   CMUStats
}

type cmuVariant struct {
	index    int
	phonemes string
}

// LoadCMU parses the CMU dictionary file at path.
func LoadCMU(path string) (*CMUDict, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()

	dict, err := ParseCMU(f)
	if err != nil {
		return nil, fmt.Errorf("parse dictionary %s: %w", path, err)
	}

	slog.Info("loaded pronouncing dictionary",
		"path", path,
		"words", dict.Stats.UniqueWords,
		"entries", dict.Stats.ParsedLines,
		"comments", dict.Stats.CommentLines,
		"lines", dict.Stats.TotalLines)
	return dict, nil
}

// ParseCMU reads CMU dictionary lines from r. Both the classic
// "WORD  PH1 PH2" layout and the lower-case "word PH1 PH2 # comment" layout
// are accepted. Alternate pronunciations ("WORD(2)") are ordered by their
// variant index so the first variant is always the preferred one.
func ParseCMU(r io.Reader) (*CMUDict, error) {
	variants := make(map[string][]cmuVariant)
	var stats CMUStats

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		stats.TotalLines++
		line := scanner.Text()

		word, v, err := parseCMULine(line)
		if errors.Is(err, errSkipLine) {
			if isCMUComment(line) {
				stats.CommentLines++
			}
			continue
		}

		stats.ParsedLines++
		variants[word] = append(variants[word], v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %w", err)
	}

	dict := &CMUDict{
		entries: make(map[string][]string, len(variants)),
		words:   make([]string, 0, len(variants)),
	}
	for word, vs := range variants {
		slices.SortStableFunc(vs, func(a, b cmuVariant) int { return a.index - b.index })
		phones := make([]string, len(vs))
		for i, v := range vs {
			phones[i] = v.phonemes
		}
		dict.entries[word] = phones
		dict.words = append(dict.words, word)
	}
	slices.Sort(dict.words)

	stats.UniqueWords = len(dict.entries)
	dict.Stats = stats
	return dict, nil
}

// Pronunciations returns the variants of word in preference order.
func (d *CMUDict) Pronunciations(word string) ([]string, error) {
	if d == nil {
		return nil, ErrDictionaryUnavailable
	}
	return slices.Clone(d.entries[Normalize(word)]), nil
}

// Words returns every dictionary word in sorted order.
func (d *CMUDict) Words() []string {
	if d == nil {
		return nil
	}
	return slices.Clone(d.words)
}

// Len returns the number of distinct words.
func (d *CMUDict) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

func isCMUComment(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, ";;;") || strings.HasPrefix(trimmed, "#")
}

// parseCMULine parses a single dictionary line into the normalized word and
// its pronunciation variant.
func parseCMULine(line string) (string, cmuVariant, error) {
	if isCMUComment(line) {
		return "", cmuVariant{}, errSkipLine
	}
	if idx := strings.Index(line, " #"); idx >= 0 {
		line = line[:idx]
	}

	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", cmuVariant{}, errSkipLine
	}

	word, index := parseWordAndVariant(fields[0])
	if word == "" {
		return "", cmuVariant{}, errSkipLine
	}
	return word, cmuVariant{index: index, phonemes: strings.Join(fields[1:], " ")}, nil
}

// parseWordAndVariant splits a raw entry like "HOUSE(2)" into the normalized
// word and a zero based variant index.
func parseWordAndVariant(raw string) (string, int) {
	idx := strings.IndexByte(raw, '(')
	if idx == -1 || !strings.HasSuffix(raw, ")") {
		return Normalize(raw), 0
	}

	n, err := strconv.Atoi(raw[idx+1 : len(raw)-1])
	if err != nil || n < 1 {
		return Normalize(raw), 0
	}
	return Normalize(raw[:idx]), n - 1
}
