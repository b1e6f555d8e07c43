package batch

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"codeberg.org/snonux/swarsense/internal/practice"
)

// PairsFile holds the pairs read from a batch file and the line numbers that
// were skipped because they were not in "target = spoken" form.
type PairsFile struct {
	Pairs   []practice.Pair
	Skipped []int
}

// ReadPairsFile reads word pairs from a file.
// Supported lines:
// - "target = spoken": compare spoken against target
// - "# comment" and blank lines: ignored
// Anything else, including a bare word, is skipped.
func ReadPairsFile(filename string) (PairsFile, error) {
	f, err := os.Open(filename)
	if err != nil {
		return PairsFile{}, fmt.Errorf("failed to read batch file: %w", err)
	}
	defer f.Close()

	pf, err := ReadPairs(f)
	if err != nil {
		return PairsFile{}, fmt.Errorf("failed to read batch file %s: %w", filename, err)
	}
	return pf, nil
}

// ReadPairs parses pairs from r. See ReadPairsFile for the format.
func ReadPairs(r io.Reader) (PairsFile, error) {
	var pf PairsFile

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		target, spoken, ok := strings.Cut(line, "=")
		target = strings.TrimSpace(target)
		spoken = strings.TrimSpace(spoken)
		if !ok || target == "" || spoken == "" {
			slog.Warn("skipping batch line", "line", lineNo, "content", line)
			pf.Skipped = append(pf.Skipped, lineNo)
			continue
		}

		pf.Pairs = append(pf.Pairs, practice.Pair{Target: target, Spoken: spoken})
	}
	if err := scanner.Err(); err != nil {
		return PairsFile{}, err
	}
	return pf, nil
}
