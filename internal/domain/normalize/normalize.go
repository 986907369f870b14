// Package normalize rescales metric columns onto [0, 1].
package normalize

import "github.com/okian/aigi/internal/domain/model"

// MinMax maps each present value to (x - min) / (max - min) over the present
// values of vals. When every present value is equal they all map to 0.
// Missing values stay missing.
func MinMax(vals []model.Value) []model.Value {
	out := make([]model.Value, len(vals))
	var (
		lo, hi float64
		seen   bool
	)
	for _, v := range vals {
		x, ok := v.Get()
		if !ok {
			continue
		}
		if !seen {
			lo, hi, seen = x, x, true
			continue
		}
		lo = min(lo, x)
		hi = max(hi, x)
	}
	if !seen {
		return out
	}
	span := hi - lo
	for i, v := range vals {
		x, ok := v.Get()
		if !ok {
			continue
		}
		if span == 0 {
			out[i] = model.Some(0)
			continue
		}
		out[i] = model.Some((x - lo) / span)
	}
	return out
}

// All normalizes every scored column of t in place.
func All(t *model.Table) {
	for _, c := range model.Columns() {
		t.SetNorm(c, MinMax(t.ColumnValues(c)))
	}
}
