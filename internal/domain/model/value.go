// Package model contains domain models passed between pipeline stages.
package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Value is an optional metric scalar. The zero value is missing.
// A present Value is always finite.
type Value struct {
	v  float64
	ok bool
}

// Missing is the absent value.
var Missing = Value{}

// Some wraps a finite number. NaN and ±Inf collapse to Missing.
func Some(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Missing
	}
	return Value{v: v, ok: true}
}

// Get returns the number and whether it is present.
func (v Value) Get() (float64, bool) { return v.v, v.ok }

// Present reports whether the value exists.
func (v Value) Present() bool { return v.ok }

// Or returns the number, or def when missing.
func (v Value) Or(def float64) float64 {
	if !v.ok {
		return def
	}
	return v.v
}

func (v Value) String() string {
	if !v.ok {
		return "missing"
	}
	return strconv.FormatFloat(v.v, 'g', -1, 64)
}

// MarshalJSON encodes missing as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.ok {
		return []byte("null"), nil
	}
	return json.Marshal(v.v)
}

// UnmarshalJSON accepts a number or null.
func (v *Value) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*v = Missing
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*v = Some(f)
	return nil
}

// Sub returns a-b when both are present.
func Sub(a, b Value) Value {
	if !a.ok || !b.ok {
		return Missing
	}
	return Some(a.v - b.v)
}

// Mean returns the arithmetic mean when every operand is present.
func Mean(vals ...Value) Value {
	if len(vals) == 0 {
		return Missing
	}
	var sum float64
	for _, v := range vals {
		if !v.ok {
			return Missing
		}
		sum += v.v
	}
	return Some(sum / float64(len(vals)))
}
