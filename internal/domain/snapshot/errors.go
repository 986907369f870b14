package snapshot

import "errors"

var (
	// ErrSerialize indicates the snapshot could not be encoded.
	ErrSerialize = errors.New("serialize snapshot")
	// ErrPersist indicates the snapshot could not be written.
	ErrPersist = errors.New("persist snapshot")
	// ErrNotFound indicates no snapshot exists where one was expected.
	ErrNotFound = errors.New("snapshot not found")
	// ErrDigestMismatch indicates a snapshot no longer matches its recorded digest.
	ErrDigestMismatch = errors.New("snapshot digest mismatch")
)
