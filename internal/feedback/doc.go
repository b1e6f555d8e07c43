// Package feedback turns an alignment result into a performance bucket and a
// list of short, human-readable tips.
package feedback
