// Package phonetic asks an OpenAI chat model for articulation advice about a
// mispronounced English word, given the expected and the spoken phonemes.
package phonetic
