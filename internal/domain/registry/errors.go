package registry

import (
	"errors"
	"fmt"
)

// ErrRegistry indicates the model registry could not be used.
var ErrRegistry = errors.New("invalid model registry")

// Error describes one offending registry entry.
type Error struct {
	// Index is the zero-based position of the entry, or -1 for document-level problems.
	Index  int
	Name   string
	Reason string
}

func (e *Error) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("registry: %s", e.Reason)
	case e.Name == "":
		return fmt.Sprintf("registry entry %d: %s", e.Index, e.Reason)
	default:
		return fmt.Sprintf("registry entry %d (%q): %s", e.Index, e.Name, e.Reason)
	}
}

// Unwrap lets errors.Is match ErrRegistry.
func (e *Error) Unwrap() error { return ErrRegistry }
