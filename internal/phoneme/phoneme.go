package phoneme

import "strings"

// Token is a single ARPABET phoneme symbol such as "HH" or "AH0". The stress
// digit is part of the token. Tokens compare by exact string equality.
type Token string

// Sequence is an ordered pronunciation. A valid pronunciation is never empty.
type Sequence []Token

// ParseSequence splits a whitespace separated pronunciation into tokens,
// preserving order.
func ParseSequence(s string) Sequence {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	seq := make(Sequence, len(fields))
	for i, f := range fields {
		seq[i] = Token(f)
	}
	return seq
}

// String joins the tokens with single spaces, the CMU dictionary notation.
func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, t := range s {
		parts[i] = string(t)
	}
	return strings.Join(parts, " ")
}

// Equal reports whether both sequences hold the same tokens in the same order.
func (s Sequence) Equal(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// WithoutStress returns a copy of s with trailing stress digits removed.
func (s Sequence) WithoutStress() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	for i, t := range s {
		out[i] = Token(StripStress(string(t)))
	}
	return out
}

// StripStress removes the trailing stress marker (0, 1, 2) from an ARPABET phoneme.
func StripStress(phoneme string) string {
	if len(phoneme) == 0 {
		return phoneme
	}
	last := phoneme[len(phoneme)-1]
	if last == '0' || last == '1' || last == '2' {
		return phoneme[:len(phoneme)-1]
	}
	return phoneme
}

// Normalize lower-cases and trims a word the way dictionary keys are stored.
func Normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
