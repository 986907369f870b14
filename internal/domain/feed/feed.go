// Package feed defines the metric feed contract consumed by the engine:
// one mapping from model name to value or missing, per metric and epoch.
package feed

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/okian/aigi/internal/domain/model"
)

const previousPrefix = "prev_"

// Source identifies a feed: a raw column and whether it is the previous epoch.
type Source struct {
	Column   model.Column
	Previous bool
}

func (s Source) String() string {
	if s.Previous {
		return previousPrefix + s.Column.String()
	}
	return s.Column.String()
}

// ParseSource resolves a feed name such as "arena" or "prev_downloads".
func ParseSource(name string) (Source, error) {
	prev := strings.HasPrefix(name, previousPrefix)
	c, ok := model.ParseColumn(strings.TrimPrefix(name, previousPrefix))
	if !ok || !c.Raw() || (prev && !c.HasPrevious()) {
		return Source{}, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}
	return Source{Column: c, Previous: prev}, nil
}

// Sources lists every recognised feed: the ten current metrics followed by
// the six previous-epoch metrics.
func Sources() []Source {
	out := make([]Source, 0, 16)
	for _, c := range model.RawColumns() {
		out = append(out, Source{Column: c})
	}
	for _, c := range model.RawColumns() {
		if c.HasPrevious() {
			out = append(out, Source{Column: c, Previous: true})
		}
	}
	return out
}

// Row is one model's entry in a feed.
type Row struct {
	Model string
	Value model.Value
}

// Feed is one metric's values. Rows keep source order; a model may repeat.
type Feed struct {
	Source Source
	Rows   []Row
}

// FromMap builds a feed from an unordered mapping. Rows are sorted by model
// name so the result is deterministic.
func FromMap(src Source, m map[string]model.Value) Feed {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	f := Feed{Source: src, Rows: make([]Row, 0, len(names))}
	for _, n := range names {
		f.Rows = append(f.Rows, Row{Model: n, Value: m[n]})
	}
	return f
}

// Set is the collection of feeds for one run, at most one per source.
type Set struct {
	feeds map[Source]Feed
}

// NewSet builds a set. Supplying a source twice is an error.
func NewSet(feeds ...Feed) (*Set, error) {
	s := &Set{feeds: make(map[Source]Feed, len(feeds))}
	for _, f := range feeds {
		if err := s.Add(f); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add inserts a feed.
func (s *Set) Add(f Feed) error {
	if s.feeds == nil {
		s.feeds = make(map[Source]Feed)
	}
	if _, ok := s.feeds[f.Source]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSource, f.Source)
	}
	s.feeds[f.Source] = f
	return nil
}

// Get returns the feed for src.
func (s *Set) Get(src Source) (Feed, bool) {
	if s == nil {
		return Feed{}, false
	}
	f, ok := s.feeds[src]
	return f, ok
}

// Len returns the number of feeds present.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.feeds)
}

// Feeds returns the present feeds in Sources order.
func (s *Set) Feeds() []Feed {
	var out []Feed
	for _, src := range Sources() {
		if f, ok := s.Get(src); ok {
			out = append(out, f)
		}
	}
	return out
}

type wireRow struct {
	Model string      `json:"model"`
	Value model.Value `json:"value"`
}

// MarshalJSON encodes the set as {"<source>": [{"model":..., "value":...}]}.
func (s *Set) MarshalJSON() ([]byte, error) {
	out := make(map[string][]wireRow, s.Len())
	for _, f := range s.Feeds() {
		rows := make([]wireRow, len(f.Rows))
		for i, r := range f.Rows {
			rows[i] = wireRow{Model: r.Model, Value: r.Value}
		}
		out[f.Source.String()] = rows
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (s *Set) UnmarshalJSON(b []byte) error {
	var in map[string][]wireRow
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	s.feeds = make(map[Source]Feed, len(in))
	for name, rows := range in {
		src, err := ParseSource(name)
		if err != nil {
			return err
		}
		f := Feed{Source: src, Rows: make([]Row, len(rows))}
		for i, r := range rows {
			f.Rows[i] = Row{Model: r.Model, Value: r.Value}
		}
		s.feeds[src] = f
	}
	return nil
}
