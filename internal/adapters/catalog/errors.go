package catalog

import "errors"

var (
	// ErrNotFound indicates the catalog holds no matching entry.
	ErrNotFound = errors.New("catalog entry not found")
	// ErrClosed indicates use of a closed catalog.
	ErrClosed = errors.New("catalog closed")
)
