// Package scoring turns normalized metric columns into pillar scores and a
// single model score.
package scoring

import (
	"github.com/okian/aigi/internal/domain/model"
)

// pillarScale maps a weighted sum of [0, 1] values onto [0, 100].
const pillarScale = 100

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithRedistribution renormalizes over present inputs instead of letting
// missing inputs contribute 0. A pillar with no present column, or a model
// with no present pillar, is then missing.
func WithRedistribution(enabled bool) Option {
	return func(s *Scorer) {
		s.redistribute = enabled
	}
}

// Scorer computes pillar and model scores from normalized columns.
type Scorer struct {
	weights      Weights
	redistribute bool
}

// NewScorer creates a scorer over validated weights.
func NewScorer(w Weights, opts ...Option) *Scorer {
	s := &Scorer{weights: w}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Weights returns the scorer's weights.
func (s *Scorer) Weights() Weights { return s.weights }

// Pillar returns 100 × Σ weight × norm over p's columns of r.
func (s *Scorer) Pillar(r *model.Record, p model.Pillar) model.Value {
	var sum, present float64
	seen := false
	for _, e := range s.weights.pillars[p] {
		n, ok := r.Norm[e.col].Get()
		if !ok {
			continue
		}
		sum += e.w * n
		present += e.w
		seen = true
	}
	if s.redistribute {
		if !seen || present == 0 {
			return model.Missing
		}
		sum /= present
	}
	return model.Some(pillarScale * sum)
}

// Model blends the pillar scores of r, skipping missing pillars.
func (s *Scorer) Model(r *model.Record) model.Value {
	var sum, present float64
	seen := false
	for _, p := range model.Pillars() {
		v, ok := r.Pillar(p).Get()
		if !ok {
			continue
		}
		w := s.weights.Pillar(p)
		sum += w * v
		present += w
		seen = true
	}
	if s.redistribute {
		if !seen || present == 0 {
			return model.Missing
		}
		sum /= present
	}
	return model.Some(sum)
}

// Score fills the pillar scores and model score of every record in t.
func (s *Scorer) Score(t *model.Table) {
	for _, r := range t.Records() {
		for _, p := range model.Pillars() {
			r.SetPillar(p, s.Pillar(r, p))
		}
		r.ModelScore = s.Model(r)
	}
}
