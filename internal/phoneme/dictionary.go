package phoneme

import (
	"errors"
	"slices"
)

// ErrDictionaryUnavailable is returned by dictionaries that cannot be queried,
// for example when no dictionary file was loaded.
var ErrDictionaryUnavailable = errors.New("pronunciation dictionary unavailable")

// Dictionary is a read-only word to pronunciation-variants source. Variants
// are returned in preference order, each as a whitespace separated ARPABET
// string. A word without entries yields an empty slice and a nil error.
//
// Implementations must be safe for concurrent reads.
type Dictionary interface {
	Pronunciations(word string) ([]string, error)
}

// WordLister is implemented by dictionaries that can enumerate their words.
type WordLister interface {
	Words() []string
}

// MapDictionary is an in-memory Dictionary keyed by lower-cased word.
type MapDictionary map[string][]string

// Pronunciations returns the variants stored for word.
func (m MapDictionary) Pronunciations(word string) ([]string, error) {
	if m == nil {
		return nil, ErrDictionaryUnavailable
	}
	return slices.Clone(m[Normalize(word)]), nil
}

// Words returns all keys in sorted order.
func (m MapDictionary) Words() []string {
	words := make([]string, 0, len(m))
	for w := range m {
		words = append(words, w)
	}
	slices.Sort(words)
	return words
}
