// Package practice runs pronunciation attempts end to end. A Coach looks up
// both words, scores the spoken pronunciation against the target and formats
// feedback. With a transcriber it scores recordings, with a speaker it renders
// the correct pronunciation, and with an explainer it adds articulation advice.
// A Session keeps the recent attempts and running statistics in memory.
package practice
