// Package speech connects the coach to external audio services: transcribers
// that turn a recording into text and speakers that render a word into an
// audio file. OpenAI, Gemini and espeak-ng backends are provided, plus
// fallback and circuit-breaker wrappers.
package speech
