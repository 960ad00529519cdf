package model

import (
	"encoding/json"
	"math"
	"strconv"
)

// NullFloat is a float that may carry the "no data" marker.
// It is distinct from zero: a missing income-tax total is not zero income tax.
type NullFloat struct {
	Float float64
	Valid bool
}

// Some wraps a present value. Non-finite values become the no-data marker
// since JSON cannot carry them.
func Some(v float64) NullFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NullFloat{}
	}
	return NullFloat{Float: v, Valid: true}
}

// NoData is the absent marker.
func NoData() NullFloat { return NullFloat{} }

// NullFrom converts an optional wire field.
func NullFrom(p *float64) NullFloat {
	if p == nil {
		return NullFloat{}
	}
	return Some(*p)
}

// Or returns the value, or def when absent.
func (n NullFloat) Or(def float64) float64 {
	if !n.Valid {
		return def
	}
	return n.Float
}

func (n NullFloat) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Float, 'f', -1, 64)
}

func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float)
}

func (n *NullFloat) UnmarshalJSON(b []byte) error {
	var p *float64
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*n = NullFrom(p)
	return nil
}
