package phoneme

import (
	"errors"
	"fmt"
)

// ErrNotFound is the sentinel wrapped by every NotFoundError.
var ErrNotFound = errors.New("pronunciation not found")

// NotFoundError reports a word that has no pronunciation in the dictionary.
type NotFoundError struct {
	Word string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no pronunciation found for '%s'", e.Word)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
