package phoneme

import (
	"sort"
	"strings"
	"unicode"

	"github.com/antzucaro/matchr"
)

// minSuggestScore is the Jaro-Winkler floor for dictionary suggestions.
const minSuggestScore = 0.80

// TranscriptWords lower-cases a speech transcript and splits it into words,
// dropping punctuation. Apostrophes inside words are kept ("don't").
func TranscriptWords(transcript string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' {
			return unicode.ToLower(r)
		}
		return ' '
	}, transcript)

	fields := strings.Fields(cleaned)
	words := fields[:0]
	for _, f := range fields {
		if w := strings.Trim(f, "'"); w != "" {
			words = append(words, w)
		}
	}
	return words
}

// ClosestWord picks the word from a multi-word transcript that the speaker
// most likely meant as target. Words sharing a Double Metaphone code with
// the target are preferred; ties are broken by Jaro-Winkler similarity and
// then by position. It reports false when the transcript holds no words.
func ClosestWord(transcript, target string) (string, bool) {
	words := TranscriptWords(transcript)
	switch len(words) {
	case 0:
		return "", false
	case 1:
		return words[0], true
	}

	target = Normalize(target)
	targetCodes := metaphoneCodes(target)

	best := words[0]
	bestPhonetic := false
	bestScore := -1.0
	for _, w := range words {
		if w == target {
			return w, true
		}
		phonetic := codesOverlap(metaphoneCodes(w), targetCodes)
		score := matchr.JaroWinkler(w, target, false)

		switch {
		case phonetic && !bestPhonetic:
			best, bestPhonetic, bestScore = w, true, score
		case phonetic == bestPhonetic && score > bestScore:
			best, bestScore = w, score
		}
	}
	return best, true
}

// Suggest returns up to n dictionary words that sound like word, best first.
// Only words sharing a Double Metaphone code and scoring at least 0.80
// Jaro-Winkler similarity qualify.
func Suggest(dict WordLister, word string, n int) []string {
	word = Normalize(word)
	if dict == nil || word == "" || n <= 0 {
		return nil
	}
	codes := metaphoneCodes(word)
	if len(codes) == 0 {
		return nil
	}

	type candidate struct {
		word  string
		score float64
	}
	var candidates []candidate
	for _, w := range dict.Words() {
		if w == word || !codesOverlap(metaphoneCodes(w), codes) {
			continue
		}
		if score := matchr.JaroWinkler(word, w, false); score >= minSuggestScore {
			candidates = append(candidates, candidate{word: w, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.word
	}
	return out
}

// metaphoneCodes returns the non-empty Double Metaphone codes of word.
func metaphoneCodes(word string) map[string]struct{} {
	codes := make(map[string]struct{}, 2)
	p, s := matchr.DoubleMetaphone(word)
	if p != "" {
		codes[p] = struct{}{}
	}
	if s != "" {
		codes[s] = struct{}{}
	}
	return codes
}

func codesOverlap(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for code := range a {
		if _, ok := b[code]; ok {
			return true
		}
	}
	return false
}
