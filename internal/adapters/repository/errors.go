package repository

import "errors"

// Sentinel kinds for leaderboard errors.
var (
	ErrNotFound     = errors.New("model not found")
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
	ErrDuplicate    = errors.New("duplicate model in ranking")
)
