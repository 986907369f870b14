package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/okian/aigi/internal/domain/model"
)

// KeyColumn is the identifier column of tabular feeds.
const KeyColumn = "model"

type field struct {
	key string
	raw json.RawMessage
}

// Decode parses a feed document. Two shapes are accepted:
//
//	{"gpt-4": 1250, "claude-3-opus": 1240}
//	[{"model": "gpt-4", "elo": 1250, "votes": 31000}, ...]
//
// A key repeated in the object shape keeps its first position and its last
// value. In the tabular shape the first non-key column, in document order, is the
// value column and the rest are discarded. Values that are not finite numbers
// become missing. Rows without a string model are skipped.
func Decode(src Source, data []byte) (Feed, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Feed{}, fmt.Errorf("%w %s: empty document", ErrDecode, src)
	}
	var (
		f   Feed
		err error
	)
	switch trimmed[0] {
	case '{':
		f, err = decodeObject(src, trimmed)
	case '[':
		f, err = decodeTable(src, trimmed)
	default:
		err = fmt.Errorf("expected object or array")
	}
	if err != nil {
		return Feed{}, fmt.Errorf("%w %s: %v", ErrDecode, src, err)
	}
	return f, nil
}

func decodeObject(src Source, data []byte) (Feed, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	fields, err := readObject(dec)
	if err != nil {
		return Feed{}, err
	}
	if err := expectEOF(dec); err != nil {
		return Feed{}, err
	}
	f := Feed{Source: src, Rows: make([]Row, 0, len(fields))}
	at := make(map[string]int, len(fields))
	for _, fl := range fields {
		if i, dup := at[fl.key]; dup {
			f.Rows[i].Value = coerce(fl.raw)
			continue
		}
		at[fl.key] = len(f.Rows)
		f.Rows = append(f.Rows, Row{Model: fl.key, Value: coerce(fl.raw)})
	}
	return f, nil
}

func decodeTable(src Source, data []byte) (Feed, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return Feed{}, err
	}
	var rows [][]field
	for dec.More() {
		r, err := readObject(dec)
		if err != nil {
			return Feed{}, fmt.Errorf("row %d: %w", len(rows), err)
		}
		rows = append(rows, r)
	}
	if _, err := dec.Token(); err != nil {
		return Feed{}, err
	}
	if err := expectEOF(dec); err != nil {
		return Feed{}, err
	}

	col := valueColumn(rows)
	f := Feed{Source: src, Rows: make([]Row, 0, len(rows))}
	for _, r := range rows {
		var (
			name string
			ok   bool
			val  = model.Missing
		)
		for _, fl := range r {
			switch fl.key {
			case KeyColumn:
				ok = json.Unmarshal(fl.raw, &name) == nil
			case col:
				val = coerce(fl.raw)
			}
		}
		if !ok {
			continue
		}
		f.Rows = append(f.Rows, Row{Model: name, Value: val})
	}
	return f, nil
}

// valueColumn returns the first non-key column across all rows.
func valueColumn(rows [][]field) string {
	for _, r := range rows {
		for _, fl := range r {
			if fl.key != KeyColumn {
				return fl.key
			}
		}
	}
	return ""
}

func readObject(dec *json.Decoder) ([]field, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}
	var out []field
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := kt.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		out = append(out, field{key: key, raw: raw})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

func expectEOF(dec *json.Decoder) error {
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("trailing data after document")
	}
	return nil
}

// coerce maps a raw JSON value to a metric value. Only numbers survive.
func coerce(raw json.RawMessage) model.Value {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return model.Missing
	}
	switch raw[0] {
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		v, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return model.Missing
		}
		return model.Some(v)
	}
	return model.Missing
}
