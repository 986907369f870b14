// Package delta derives the benchmark composite and the four momentum deltas.
package delta

import "github.com/okian/aigi/internal/domain/model"

// Compute fills the derived fields of every record. A derived value is
// present only when all of its operands are.
func Compute(t *model.Table) {
	for _, r := range t.Records() {
		Record(r)
	}
}

// Record fills the derived fields of r.
func Record(r *model.Record) {
	r.Benchmark = model.Mean(r.MMLU, r.GSM8K, r.HumanEval)
	r.PrevBenchmark = model.Mean(r.PrevMMLU, r.PrevGSM8K, r.PrevHumanEval)
	r.EloDelta = model.Sub(r.Arena, r.PrevArena)
	r.BenchmarkDelta = model.Sub(r.Benchmark, r.PrevBenchmark)
	r.DownloadGrowth = model.Sub(r.Downloads, r.PrevDownloads)
	r.CitationGrowth = model.Sub(r.CitationVelocity, r.PrevCitationVelocity)
}
