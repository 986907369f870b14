package repository

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/okian/aigi/pkg/metrics"
)

// In-memory Store backed by an immutable view.
//
// Ordering: model score DESC, then name ASC. Models without a score sort
// after every scored model. Each Replace builds a fresh view and swaps it in
// atomically, so readers never lock.

const defaultMaxLimit = 1000

type view struct {
	ordered []Entry
	byName  map[string]int
}

// ViewStore implements Store.
type ViewStore struct {
	current  atomic.Pointer[view]
	maxLimit int
}

// NewViewStore constructs an empty store.
func NewViewStore(opts ...Option) *ViewStore {
	s := &ViewStore{maxLimit: defaultMaxLimit}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(&view{byName: map[string]int{}})
	return s
}

// less returns true if a should appear before b.
func less(a, b Entry) bool {
	as, aok := a.ModelScore.Get()
	bs, bok := b.ModelScore.Get()
	if aok != bok {
		return aok
	}
	if aok && as != bs {
		return as > bs
	}
	return a.Name < b.Name
}

// Replace implements Store.Replace.
func (s *ViewStore) Replace(ctx context.Context, entries []Entry) error {
	ordered := make([]Entry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool { return less(ordered[i], ordered[j]) })
	assignRanksWithTies(ordered)

	byName := make(map[string]int, len(ordered))
	for i, e := range ordered {
		if _, dup := byName[e.Name]; dup {
			metrics.RecordErrorByComponent("repository", "duplicate")
			return fmt.Errorf("%w: %q", ErrDuplicate, e.Name)
		}
		byName[e.Name] = i
	}

	s.current.Store(&view{ordered: ordered, byName: byName})
	metrics.UpdateStoreRecords(len(ordered))
	metrics.IncrementStorePublish()
	return nil
}

// Rank implements Store.Rank.
func (s *ViewStore) Rank(ctx context.Context, name string) (Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	v := s.current.Load()
	i, ok := v.byName[name]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Entry{}, ErrNotFound
	}
	return v.ordered[i], nil
}

// TopN implements Store.TopN.
func (s *ViewStore) TopN(ctx context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if n < 1 || n > s.maxLimit {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	v := s.current.Load()
	n = min(n, len(v.ordered))
	out := make([]Entry, n)
	copy(out, v.ordered[:n])
	return out, nil
}

// Count implements Store.Count.
func (s *ViewStore) Count(ctx context.Context) int {
	return len(s.current.Load().ordered)
}

// assignRanksWithTies assigns ranks with proper tie handling.
// Models with the same score share a rank and the next distinct score
// takes the next consecutive rank. Unscored models share the last rank.
func assignRanksWithTies(entries []Entry) {
	currentRank := 0
	for i := range entries {
		if i == 0 || entries[i].ModelScore != entries[i-1].ModelScore {
			currentRank++
		}
		entries[i].Rank = currentRank
	}
}
