// Package models lists the OpenAI models relevant to pronunciation practice:
// transcription, speech synthesis and the chat models used for advice.
package models
