package model

import "fmt"

// Column identifies a scored metric column. The first ten are fed directly by
// metric feeds; the last four are momentum deltas derived from them.
type Column int

const (
	Arena Column = iota
	MMLU
	GSM8K
	HumanEval
	Multimodal
	Robustness
	Downloads
	GitHubGrowth
	CitationVelocity
	ReleaseFrequency
	EloDelta
	BenchmarkDelta
	DownloadGrowth
	CitationGrowth

	// NumColumns is the number of scored columns.
	NumColumns = int(CitationGrowth) + 1
	numRaw     = int(ReleaseFrequency) + 1
)

var columnNames = [NumColumns]string{
	"arena",
	"mmlu",
	"gsm8k",
	"humaneval",
	"multimodal",
	"robustness",
	"downloads",
	"github_growth",
	"citation_velocity",
	"release_frequency",
	"elo_delta",
	"benchmark_delta",
	"download_growth",
	"citation_growth",
}

func (c Column) String() string {
	if c < 0 || int(c) >= NumColumns {
		return fmt.Sprintf("column(%d)", int(c))
	}
	return columnNames[c]
}

// Raw reports whether the column is supplied by a metric feed.
func (c Column) Raw() bool { return c >= 0 && int(c) < numRaw }

// HasPrevious reports whether a previous-epoch feed exists for the column.
func (c Column) HasPrevious() bool {
	switch c {
	case Arena, MMLU, GSM8K, HumanEval, Downloads, CitationVelocity:
		return true
	}
	return false
}

// ParseColumn resolves a column by its snake_case name.
func ParseColumn(name string) (Column, bool) {
	for i, n := range columnNames {
		if n == name {
			return Column(i), true
		}
	}
	return 0, false
}

// Columns returns every scored column in canonical order.
func Columns() []Column {
	out := make([]Column, NumColumns)
	for i := range out {
		out[i] = Column(i)
	}
	return out
}

// RawColumns returns the feed-backed columns in canonical order.
func RawColumns() []Column {
	out := make([]Column, numRaw)
	for i := range out {
		out[i] = Column(i)
	}
	return out
}

// Pillar is one of the three intermediate aggregates of a model score.
type Pillar int

const (
	Intelligence Pillar = iota
	Adoption
	Momentum
)

var pillarNames = [...]string{"intelligence", "adoption", "momentum"}

func (p Pillar) String() string {
	if p < 0 || int(p) >= len(pillarNames) {
		return fmt.Sprintf("pillar(%d)", int(p))
	}
	return pillarNames[p]
}

// Pillars returns all pillars in canonical order.
func Pillars() []Pillar { return []Pillar{Intelligence, Adoption, Momentum} }

// Tier is a coarse model-importance bucket.
type Tier string

const (
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
)

// Tiers returns the valid tiers in canonical order.
func Tiers() []Tier { return []Tier{TierA, TierB, TierC} }

// Valid reports whether t is one of A, B or C.
func (t Tier) Valid() bool {
	switch t {
	case TierA, TierB, TierC:
		return true
	}
	return false
}
