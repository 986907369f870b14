// Package cis rolls model scores up into the Composite Intelligence Score.
package cis

import (
	"github.com/okian/aigi/internal/domain/model"
	"github.com/okian/aigi/internal/domain/scoring"
)

// TierContribution is one tier's share of the CIS.
type TierContribution struct {
	Tier    model.Tier `json:"tier"`
	Weight  float64    `json:"weight"`
	Members int        `json:"members"`
	// Mean is the average model score over members; missing scores count as 0.
	Mean         float64 `json:"mean"`
	Contribution float64 `json:"contribution"`
}

// Aggregate computes Σ tier_weight × mean(model_score) over tiers A, B, C.
// A tier with no members contributes 0 and its weight is lost. A member whose
// model score is missing adds 0 but still counts toward the tier size.
func Aggregate(t *model.Table, w scoring.Weights) (float64, []TierContribution) {
	sums := make(map[model.Tier]float64, 3)
	counts := make(map[model.Tier]int, 3)
	for _, r := range t.Records() {
		counts[r.Tier]++
		sums[r.Tier] += r.ModelScore.Or(0)
	}

	total := 0.0
	out := make([]TierContribution, 0, 3)
	for _, tier := range model.Tiers() {
		tc := TierContribution{Tier: tier, Weight: w.Tier(tier), Members: counts[tier]}
		if tc.Members > 0 {
			tc.Mean = sums[tier] / float64(tc.Members)
			tc.Contribution = tc.Weight * tc.Mean
		}
		total += tc.Contribution
		out = append(out, tc)
	}
	return total, out
}
