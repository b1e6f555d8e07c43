// Package processor contains the command logic of swarsense. It loads the
// pronunciation dictionary, builds the practice coach with the configured
// speech providers, and prints scores, tips, and reports for each
// subcommand. This package serves as the main coordinator between all
// other components.
package processor
