// Package mockfeeds writes a deterministic registry and feed directory for
// local runs and tests.
package mockfeeds

import (
	"github.com/okian/aigi/internal/domain/feed"
	"github.com/okian/aigi/internal/domain/model"
)

// models holds the registry entries of the mock data set, in registry order.
var models = []model.Spec{
	{Name: "gpt-4", Tier: model.TierA, Attributes: map[string]any{"provider": "openai"}},
	{Name: "claude-3-opus", Tier: model.TierA, Attributes: map[string]any{"provider": "anthropic"}},
	{Name: "llama-3-70b", Tier: model.TierB, Attributes: map[string]any{"provider": "meta", "hf_repo": "meta-llama/Meta-Llama-3-70B"}},
	{Name: "mistral-large", Tier: model.TierB, Attributes: map[string]any{"provider": "mistral"}},
	{Name: "gemini-1.5-pro", Tier: model.TierA, Attributes: map[string]any{"provider": "google"}},
}

// current and previous hold one value per model, aligned with models.
var current = map[model.Column][]float64{
	model.Arena:            {1250, 1240, 1180, 1150, 1220},
	model.MMLU:             {86.4, 85.9, 82.1, 80.5, 84.0},
	model.GSM8K:            {92.0, 91.5, 88.0, 86.5, 90.0},
	model.HumanEval:        {85.0, 84.0, 80.0, 78.0, 83.0},
	model.Multimodal:       {75.0, 80.0, 70.0, 68.0, 82.0},
	model.Robustness:       {88.0, 89.0, 85.0, 84.0, 87.0},
	model.Downloads:        {15.2, 10.5, 45.0, 22.0, 18.3},
	model.GitHubGrowth:     {1200, 800, 5000, 2300, 950},
	model.CitationVelocity: {450, 380, 1200, 210, 670},
	model.ReleaseFrequency: {4, 3, 6, 5, 2},
}

var previous = map[model.Column][]float64{
	model.Arena:            {1190, 1180, 1120, 1090, 1160},
	model.MMLU:             {82.0, 81.5, 78.0, 76.0, 80.0},
	model.GSM8K:            {87.0, 86.5, 83.0, 81.5, 85.0},
	model.HumanEval:        {80.0, 79.0, 75.0, 73.0, 78.0},
	model.Downloads:        {14.0, 9.8, 42.0, 20.0, 17.0},
	model.CitationVelocity: {420, 350, 1100, 190, 620},
}

// Models returns a copy of the mock registry.
func Models() []model.Spec {
	out := make([]model.Spec, len(models))
	copy(out, models)
	return out
}

// Feeds returns the full current and previous feed set.
func Feeds() *feed.Set {
	set, _ := feed.NewSet()
	for _, src := range feed.Sources() {
		f, ok := Feed(src)
		if !ok {
			continue
		}
		_ = set.Add(f)
	}
	return set
}

// Feed returns the mock feed for src.
func Feed(src feed.Source) (feed.Feed, bool) {
	table := current
	if src.Previous {
		table = previous
	}
	vals, ok := table[src.Column]
	if !ok {
		return feed.Feed{}, false
	}
	f := feed.Feed{Source: src, Rows: make([]feed.Row, len(models))}
	for i, m := range models {
		f.Rows[i] = feed.Row{Model: m.Name, Value: model.Some(vals[i])}
	}
	return f, true
}
