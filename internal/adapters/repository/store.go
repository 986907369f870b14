// Package repository holds the read-side ranking of the last published snapshot.
package repository

import (
	"context"

	"github.com/okian/aigi/internal/domain/model"
)

// Entry represents a leaderboard row.
type Entry struct {
	Rank              int
	Name              string
	Tier              model.Tier
	ModelScore        model.Value
	IntelligenceScore model.Value
	AdoptionScore     model.Value
	MomentumScore     model.Value
}

// Store provides read/write access to the ranking state.
type Store interface {
	// Replace publishes a new ranking built from entries. Ranks on input are ignored.
	Replace(ctx context.Context, entries []Entry) error

	// Rank returns the current rank and scores for a model.
	// Returns ErrNotFound if the model is unknown.
	Rank(ctx context.Context, name string) (Entry, error)

	// TopN returns the top-N entries ordered by model score desc, then name asc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of models in the ranking.
	Count(ctx context.Context) int
}
