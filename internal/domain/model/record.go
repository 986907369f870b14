package model

// Spec is a registry entry. Attributes carries opaque passthrough fields
// (paper ids, repo ids) that only fetchers care about.
type Spec struct {
	Name       string
	Tier       Tier
	Attributes map[string]any
}

// Record is the merged per-model row for a single pipeline run.
type Record struct {
	Name       string
	Tier       Tier
	Attributes map[string]any

	// Current-epoch metrics.
	Arena            Value
	MMLU             Value
	GSM8K            Value
	HumanEval        Value
	Multimodal       Value
	Robustness       Value
	Downloads        Value
	GitHubGrowth     Value
	CitationVelocity Value
	ReleaseFrequency Value

	// Previous-epoch metrics.
	PrevArena            Value
	PrevMMLU             Value
	PrevGSM8K            Value
	PrevHumanEval        Value
	PrevDownloads        Value
	PrevCitationVelocity Value

	// Derived.
	Benchmark      Value
	PrevBenchmark  Value
	EloDelta       Value
	BenchmarkDelta Value
	DownloadGrowth Value
	CitationGrowth Value

	// Norm holds the min-max normalized counterpart of each scored column.
	Norm [NumColumns]Value

	IntelligenceScore Value
	AdoptionScore     Value
	MomentumScore     Value
	ModelScore        Value
}

// NewRecord starts a row from a registry entry with every metric missing.
func NewRecord(s Spec) *Record {
	return &Record{Name: s.Name, Tier: s.Tier, Attributes: s.Attributes}
}

func (r *Record) current(c Column) *Value {
	switch c {
	case Arena:
		return &r.Arena
	case MMLU:
		return &r.MMLU
	case GSM8K:
		return &r.GSM8K
	case HumanEval:
		return &r.HumanEval
	case Multimodal:
		return &r.Multimodal
	case Robustness:
		return &r.Robustness
	case Downloads:
		return &r.Downloads
	case GitHubGrowth:
		return &r.GitHubGrowth
	case CitationVelocity:
		return &r.CitationVelocity
	case ReleaseFrequency:
		return &r.ReleaseFrequency
	case EloDelta:
		return &r.EloDelta
	case BenchmarkDelta:
		return &r.BenchmarkDelta
	case DownloadGrowth:
		return &r.DownloadGrowth
	case CitationGrowth:
		return &r.CitationGrowth
	}
	return nil
}

func (r *Record) previous(c Column) *Value {
	switch c {
	case Arena:
		return &r.PrevArena
	case MMLU:
		return &r.PrevMMLU
	case GSM8K:
		return &r.PrevGSM8K
	case HumanEval:
		return &r.PrevHumanEval
	case Downloads:
		return &r.PrevDownloads
	case CitationVelocity:
		return &r.PrevCitationVelocity
	}
	return nil
}

// Column returns the raw (pre-normalization) value of a scored column.
func (r *Record) Column(c Column) Value {
	if p := r.current(c); p != nil {
		return *p
	}
	return Missing
}

// SetColumn stores a current-epoch or derived value. It reports false for an
// unknown column.
func (r *Record) SetColumn(c Column, v Value) bool {
	p := r.current(c)
	if p == nil {
		return false
	}
	*p = v
	return true
}

// Previous returns the previous-epoch value of a column.
func (r *Record) Previous(c Column) Value {
	if p := r.previous(c); p != nil {
		return *p
	}
	return Missing
}

// SetPrevious stores a previous-epoch value. It reports false when the column
// has no previous-epoch counterpart.
func (r *Record) SetPrevious(c Column, v Value) bool {
	p := r.previous(c)
	if p == nil {
		return false
	}
	*p = v
	return true
}

// Pillar returns a pillar score.
func (r *Record) Pillar(p Pillar) Value {
	switch p {
	case Intelligence:
		return r.IntelligenceScore
	case Adoption:
		return r.AdoptionScore
	case Momentum:
		return r.MomentumScore
	}
	return Missing
}

// SetPillar stores a pillar score.
func (r *Record) SetPillar(p Pillar, v Value) {
	switch p {
	case Intelligence:
		r.IntelligenceScore = v
	case Adoption:
		r.AdoptionScore = v
	case Momentum:
		r.MomentumScore = v
	}
}
