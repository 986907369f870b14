package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/okian/aigi/internal/domain/model"
)

// SumTolerance is the permitted deviation of a weight table's sum from 1.
const SumTolerance = 1e-9

// Tables is the raw, name-keyed form of the five weight tables as they
// appear in configuration.
type Tables struct {
	Intelligence map[string]float64 `json:"intelligence"`
	Adoption     map[string]float64 `json:"adoption"`
	Momentum     map[string]float64 `json:"momentum"`
	Tier         map[string]float64 `json:"tier"`
	ModelScore   map[string]float64 `json:"model_score"`
}

// Weights is a validated, immutable set of weight tables.
type Weights struct {
	pillars [3][]weighted
	tier    map[model.Tier]float64
	blend   [3]float64
}

type weighted struct {
	col model.Column
	w   float64
}

// PillarColumns returns the scored columns that feed pillar p, in canonical order.
func PillarColumns(p model.Pillar) []model.Column {
	switch p {
	case model.Intelligence:
		return []model.Column{model.Arena, model.MMLU, model.GSM8K, model.HumanEval, model.Multimodal, model.Robustness}
	case model.Adoption:
		return []model.Column{model.Downloads, model.GitHubGrowth, model.CitationVelocity, model.ReleaseFrequency}
	case model.Momentum:
		return []model.Column{model.EloDelta, model.BenchmarkDelta, model.DownloadGrowth, model.CitationGrowth}
	}
	return nil
}

// DefaultTables returns the published default weights.
func DefaultTables() Tables {
	return Tables{
		Intelligence: map[string]float64{
			"arena": 0.30, "mmlu": 0.20, "gsm8k": 0.10,
			"humaneval": 0.15, "multimodal": 0.15, "robustness": 0.10,
		},
		Adoption: map[string]float64{
			"downloads": 0.40, "github_growth": 0.20,
			"citation_velocity": 0.20, "release_frequency": 0.20,
		},
		Momentum: map[string]float64{
			"elo_delta": 0.30, "benchmark_delta": 0.30,
			"download_growth": 0.25, "citation_growth": 0.15,
		},
		Tier:       map[string]float64{"A": 0.50, "B": 0.35, "C": 0.15},
		ModelScore: map[string]float64{"intelligence": 0.5, "adoption": 0.3, "momentum": 0.2},
	}
}

// DefaultWeights returns the validated default weights.
func DefaultWeights() Weights {
	w, err := NewWeights(DefaultTables())
	if err != nil {
		panic(err)
	}
	return w
}

// NewWeights validates t. Every table must name exactly its expected keys,
// hold finite non-negative weights and sum to 1 within SumTolerance.
func NewWeights(t Tables) (Weights, error) {
	var w Weights
	for _, p := range model.Pillars() {
		cols := PillarColumns(p)
		keys := make([]string, len(cols))
		for i, c := range cols {
			keys[i] = c.String()
		}
		tbl := pillarTable(t, p)
		if err := checkTable(p.String(), tbl, keys); err != nil {
			return Weights{}, err
		}
		w.pillars[p] = make([]weighted, len(cols))
		for i, c := range cols {
			w.pillars[p][i] = weighted{col: c, w: tbl[c.String()]}
		}
	}

	tierKeys := make([]string, 0, 3)
	for _, tr := range model.Tiers() {
		tierKeys = append(tierKeys, string(tr))
	}
	if err := checkTable("tier", t.Tier, tierKeys); err != nil {
		return Weights{}, err
	}
	w.tier = make(map[model.Tier]float64, len(tierKeys))
	for _, tr := range model.Tiers() {
		w.tier[tr] = t.Tier[string(tr)]
	}

	blendKeys := make([]string, 0, 3)
	for _, p := range model.Pillars() {
		blendKeys = append(blendKeys, p.String())
	}
	if err := checkTable("model_score", t.ModelScore, blendKeys); err != nil {
		return Weights{}, err
	}
	for _, p := range model.Pillars() {
		w.blend[p] = t.ModelScore[p.String()]
	}
	return w, nil
}

func pillarTable(t Tables, p model.Pillar) map[string]float64 {
	switch p {
	case model.Intelligence:
		return t.Intelligence
	case model.Adoption:
		return t.Adoption
	default:
		return t.Momentum
	}
}

func checkTable(name string, tbl map[string]float64, keys []string) error {
	want := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		want[k] = struct{}{}
	}
	var missing, extra []string
	for _, k := range keys {
		if _, ok := tbl[k]; !ok {
			missing = append(missing, k)
		}
	}
	for k := range tbl {
		if _, ok := want[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s: missing %s", ErrInvalidWeights, name, strings.Join(missing, ", "))
	}
	if len(extra) > 0 {
		return fmt.Errorf("%w: %s: unexpected %s", ErrInvalidWeights, name, strings.Join(extra, ", "))
	}

	sum := 0.0
	for _, k := range keys {
		v := tbl[k]
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s.%s = %v", ErrInvalidWeights, name, k, v)
		}
		sum += v
	}
	if math.Abs(sum-1) > SumTolerance {
		return fmt.Errorf("%w: %s sums to %v, want 1", ErrInvalidWeights, name, sum)
	}
	return nil
}

// Tier returns the weight of tier t.
func (w Weights) Tier(t model.Tier) float64 { return w.tier[t] }

// Pillar returns the model-score weight of pillar p.
func (w Weights) Pillar(p model.Pillar) float64 {
	if p < 0 || int(p) >= len(w.blend) {
		return 0
	}
	return w.blend[p]
}

// Tables returns a copy of the weights in their name-keyed form.
func (w Weights) Tables() Tables {
	out := Tables{Tier: map[string]float64{}, ModelScore: map[string]float64{}}
	for _, p := range model.Pillars() {
		m := make(map[string]float64, len(w.pillars[p]))
		for _, e := range w.pillars[p] {
			m[e.col.String()] = e.w
		}
		switch p {
		case model.Intelligence:
			out.Intelligence = m
		case model.Adoption:
			out.Adoption = m
		case model.Momentum:
			out.Momentum = m
		}
		out.ModelScore[p.String()] = w.blend[p]
	}
	for t, v := range w.tier {
		out.Tier[string(t)] = v
	}
	return out
}
