// Package batch reads files of word pairs for bulk pronunciation scoring.
package batch
