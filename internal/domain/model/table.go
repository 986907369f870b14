package model

// Table is the ordered set of records for one run, keyed by model name.
// Iteration order is registry order.
type Table struct {
	records []*Record
	index   map[string]int
}

// NewTable returns an empty table sized for n records.
func NewTable(n int) *Table {
	return &Table{
		records: make([]*Record, 0, n),
		index:   make(map[string]int, n),
	}
}

// Add appends r. It reports false when a record with the same name exists.
func (t *Table) Add(r *Record) bool {
	if _, ok := t.index[r.Name]; ok {
		return false
	}
	t.index[r.Name] = len(t.records)
	t.records = append(t.records, r)
	return true
}

// Get looks a record up by model name.
func (t *Table) Get(name string) (*Record, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.records[i], true
}

// Records returns the rows in registry order.
func (t *Table) Records() []*Record { return t.records }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.records) }

// ColumnValues returns the raw values of c for every row, in table order.
func (t *Table) ColumnValues(c Column) []Value {
	out := make([]Value, len(t.records))
	for i, r := range t.records {
		out[i] = r.Column(c)
	}
	return out
}

// SetNorm stores normalized values of c, aligned with table order.
func (t *Table) SetNorm(c Column, vals []Value) {
	for i, r := range t.records {
		if i < len(vals) {
			r.Norm[c] = vals[i]
		}
	}
}

// MissingCount returns how many rows lack a raw value for c.
func (t *Table) MissingCount(c Column) int {
	n := 0
	for _, r := range t.records {
		if !r.Column(c).Present() {
			n++
		}
	}
	return n
}
