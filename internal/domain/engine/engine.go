// Package engine composes one scoring run: merge, deltas, normalization,
// pillar and model scores, then the tier rollup.
package engine

import (
	"github.com/okian/aigi/internal/domain/cis"
	"github.com/okian/aigi/internal/domain/delta"
	"github.com/okian/aigi/internal/domain/feed"
	"github.com/okian/aigi/internal/domain/merge"
	"github.com/okian/aigi/internal/domain/model"
	"github.com/okian/aigi/internal/domain/normalize"
	"github.com/okian/aigi/internal/domain/scoring"
)

// Option applies a configuration option to a run.
type Option func(*options)

type options struct {
	previousFromCurrent bool
	scorerOpts          []scoring.Option
}

// WithPreviousFromCurrent fills missing previous-epoch values with current
// ones before deltas are computed.
func WithPreviousFromCurrent(enabled bool) Option {
	return func(o *options) {
		o.previousFromCurrent = enabled
	}
}

// WithScorerOptions forwards options to the scorer.
func WithScorerOptions(opts ...scoring.Option) Option {
	return func(o *options) {
		o.scorerOpts = append(o.scorerOpts, opts...)
	}
}

// Result is the outcome of one run.
type Result struct {
	Table *model.Table
	CIS   float64
	Tiers []cis.TierContribution
	Merge merge.Stats
	// Missing counts rows without a raw value, per scored column.
	Missing map[model.Column]int
	// Backfilled counts previous values copied from current ones.
	Backfilled int
}

// Run scores specs against set. It is deterministic and has no side effects.
func Run(specs []model.Spec, set *feed.Set, w scoring.Weights, opts ...Option) Result {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	table, st := merge.Merge(specs, set)
	res := Result{Table: table, Merge: st}
	if o.previousFromCurrent {
		res.Backfilled = merge.PreviousFromCurrent(table)
	}

	delta.Compute(table)

	res.Missing = make(map[model.Column]int, model.NumColumns)
	for _, c := range model.Columns() {
		res.Missing[c] = table.MissingCount(c)
	}

	normalize.All(table)
	scoring.NewScorer(w, o.scorerOpts...).Score(table)
	res.CIS, res.Tiers = cis.Aggregate(table, w)
	return res
}
