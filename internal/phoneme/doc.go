// Package phoneme resolves English words to ARPABET phoneme sequences using a
// pronunciation dictionary such as the CMU Pronouncing Dictionary. It provides
// the dictionary parser, a cached lookup adapter, IPA rendering for display
// and phonetic helpers for picking words out of speech transcripts.
package phoneme
