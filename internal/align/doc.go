// Package align compares two phoneme sequences. It finds matching blocks with
// greedy longest-match (Ratcliff/Obershelp) alignment, derives a similarity
// ratio and a 0-100 score from them, and produces an edit script describing
// how the target pronunciation turns into the spoken one.
//
// Everything in this package is a pure function of its inputs: identical
// sequences always yield identical results and any number of comparisons may
// run concurrently.
package align
