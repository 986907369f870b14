// Package merge left-joins metric feeds onto the model registry.
package merge

import (
	"github.com/okian/aigi/internal/domain/feed"
	"github.com/okian/aigi/internal/domain/model"
)

// Stats counts feed rows that did not land in the table.
type Stats struct {
	// Unknown counts rows naming a model that is not in the registry, per feed.
	Unknown map[feed.Source]int
	// Duplicates counts repeated rows for the same model within a feed.
	// The first occurrence wins.
	Duplicates map[feed.Source]int
}

// Dropped returns the total number of rows not merged.
func (s Stats) Dropped() int {
	n := 0
	for _, v := range s.Unknown {
		n += v
	}
	for _, v := range s.Duplicates {
		n += v
	}
	return n
}

// Merge builds one record per registry entry, in registry order, and joins
// every feed in set onto it by model name. Models absent from a feed keep an
// explicit missing value. specs must have unique names.
func Merge(specs []model.Spec, set *feed.Set) (*model.Table, Stats) {
	t := model.NewTable(len(specs))
	for _, s := range specs {
		t.Add(model.NewRecord(s))
	}

	st := Stats{
		Unknown:    make(map[feed.Source]int),
		Duplicates: make(map[feed.Source]int),
	}
	for _, f := range set.Feeds() {
		seen := make(map[string]struct{}, len(f.Rows))
		for _, row := range f.Rows {
			r, ok := t.Get(row.Model)
			if !ok {
				st.Unknown[f.Source]++
				continue
			}
			if _, dup := seen[row.Model]; dup {
				st.Duplicates[f.Source]++
				continue
			}
			seen[row.Model] = struct{}{}
			if f.Source.Previous {
				r.SetPrevious(f.Source.Column, row.Value)
			} else {
				r.SetColumn(f.Source.Column, row.Value)
			}
		}
	}
	return t, st
}

// PreviousFromCurrent fills every previous-epoch value that is missing with
// the current value of the same metric. It is an opt-in stand-in for runs
// that have no previous-epoch feeds and makes every delta zero.
func PreviousFromCurrent(t *model.Table) int {
	n := 0
	for _, r := range t.Records() {
		for _, c := range model.RawColumns() {
			if !c.HasPrevious() || r.Previous(c).Present() {
				continue
			}
			if v := r.Column(c); v.Present() {
				r.SetPrevious(c, v)
				n++
			}
		}
	}
	return n
}
