package model

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// NumDeciles is the number of wealth bands the dashboard configures.
// Result maps are not assumed to carry exactly this many labels.
const NumDeciles = 10

// Decile is a 1-based wealth band label (1 = poorest).
type Decile int

func (d Decile) String() string { return strconv.Itoa(int(d)) }

// ParseDecile parses a wire label. The service groups agents on a float column,
// so "3", "3.0" and the display form "D3" are all accepted.
func ParseDecile(s string) (Decile, error) {
	t := strings.TrimSpace(s)
	t = strings.TrimPrefix(strings.TrimPrefix(t, "D"), "d")
	f, err := strconv.ParseFloat(t, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("decile label %q is not a number", s)
	}
	if f != math.Trunc(f) || f < 1 {
		return 0, fmt.Errorf("decile label %q is not a positive integer", s)
	}
	return Decile(f), nil
}

// SortDeciles sorts labels numerically in place and returns the slice.
func SortDeciles(ds []Decile) []Decile {
	sort.Slice(ds, func(i, j int) bool { return ds[i] < ds[j] })
	return ds
}

// DecileMap is a decile-keyed amount (wealth, tax collected, transition percentage).
// A nil map means the field was absent from the snapshot.
type DecileMap map[Decile]float64

// Labels returns the map's labels sorted numerically.
func (m DecileMap) Labels() []Decile {
	out := make([]Decile, 0, len(m))
	for d := range m {
		out = append(out, d)
	}
	return SortDeciles(out)
}

// ValueOr returns the amount for d, or def when d is absent.
func (m DecileMap) ValueOr(d Decile, def float64) float64 {
	if v, ok := m[d]; ok {
		return v
	}
	return def
}

// UnmarshalJSON decodes a string-keyed object. Null values are dropped so that
// they fall under the same default as a missing key.
func (m *DecileMap) UnmarshalJSON(b []byte) error {
	var raw map[string]*float64
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil {
		*m = nil
		return nil
	}
	out := make(DecileMap, len(raw))
	for k, v := range raw {
		d, err := ParseDecile(k)
		if err != nil {
			return err
		}
		if v == nil {
			continue
		}
		out[d] = *v
	}
	*m = out
	return nil
}

// MarshalJSON writes string keys, matching the service's wire shape.
func (m DecileMap) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	raw := make(map[string]float64, len(m))
	for d, v := range m {
		raw[d.String()] = v
	}
	return json.Marshal(raw)
}

// TransitionMatrix maps origin decile -> destination decile -> percent of agents (0-100).
type TransitionMatrix map[Decile]DecileMap

// Rows returns the origin labels sorted numerically.
func (t TransitionMatrix) Rows() []Decile {
	out := make([]Decile, 0, len(t))
	for d := range t {
		out = append(out, d)
	}
	return SortDeciles(out)
}

func (t *TransitionMatrix) UnmarshalJSON(b []byte) error {
	var raw map[string]DecileMap
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil {
		*t = nil
		return nil
	}
	out := make(TransitionMatrix, len(raw))
	for k, row := range raw {
		d, err := ParseDecile(k)
		if err != nil {
			return err
		}
		if row == nil {
			row = DecileMap{}
		}
		out[d] = row
	}
	*t = out
	return nil
}

func (t TransitionMatrix) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("null"), nil
	}
	raw := make(map[string]DecileMap, len(t))
	for d, row := range t {
		raw[d.String()] = row
	}
	return json.Marshal(raw)
}
