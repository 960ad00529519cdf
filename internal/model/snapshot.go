package model

import (
	"encoding/json"
	"fmt"
	"math"
)

// Snapshot is one time step of a simulation result.
// Optional scalars are pointers so that an absent field is distinguishable from zero.
type Snapshot struct {
	Time int `json:"time"`

	WealthByDecile DecileMap `json:"wealth_by_decile,omitempty"`
	TotalWealth    *float64  `json:"total_wealth,omitempty"`
	Population     *float64  `json:"population,omitempty"`
	GiniIndex      *float64  `json:"gini_index,omitempty"`

	StateCollections *float64 `json:"state_collections,omitempty"`

	WealthShareFirstDecile *float64 `json:"wealth_share_1st_decile,omitempty"`
	WealthShareTenthDecile *float64 `json:"wealth_share_10th_decile,omitempty"`
	WealthShareBottom50    *float64 `json:"wealth_share_bottom_50,omitempty"`

	WealthRatio90to10 *float64 `json:"wealth_ratio_90_10,omitempty"`
	WealthRatio90to50 *float64 `json:"wealth_ratio_90_50,omitempty"`

	GiniOverallWealth *float64 `json:"gini_overall_wealth,omitempty"`
	GiniOverallIncome *float64 `json:"gini_overall_income,omitempty"`

	WealthTaxByDecile      DecileMap `json:"wealth_tax_by_decile,omitempty"`
	CgTaxByDecile          DecileMap `json:"cg_tax_by_decile,omitempty"`
	IncomeTaxByDecile      DecileMap `json:"tax_per_decile_income,omitempty"`
	InheritanceTaxByDecile DecileMap `json:"inheritance_tax_by_decile,omitempty"`

	TotalWealthTaxCollected      *float64 `json:"total_wealth_tax_collected,omitempty"`
	TotalCgTaxCollected          *float64 `json:"total_cg_tax,omitempty"`
	TotalIncomeTaxCollected      *float64 `json:"total_income_tax_collected,omitempty"`
	TotalInheritanceTaxCollected *float64 `json:"total_inheritance_tax,omitempty"`

	TaxShareWealth      *float64 `json:"tax_share_wealth,omitempty"`
	TaxShareCg          *float64 `json:"tax_share_cg,omitempty"`
	TaxShareIncome      *float64 `json:"tax_share_income,omitempty"`
	TaxShareInheritance *float64 `json:"tax_share_inheritance,omitempty"`

	TransitionMatrix *TransitionBlock `json:"decile_transition_matrix,omitempty"`
	DecileCutoffs    *CutoffBlock     `json:"decile_cutoffs,omitempty"`
}

// TransitionBlock wraps the per-step transition matrix as the service nests it.
type TransitionBlock struct {
	Time   *int             `json:"time,omitempty"`
	Matrix TransitionMatrix `json:"matrix"`
}

// CutoffBlock wraps the per-step decile wealth bands.
type CutoffBlock struct {
	Time    *int     `json:"time,omitempty"`
	Cutoffs []Cutoff `json:"cutoffs"`
}

// Cutoff is the wealth range [Lower, Upper] that maps to one decile.
type Cutoff struct {
	Decile int     `json:"decile"`
	Lower  float64 `json:"lower"`
	Upper  float64 `json:"upper"`
}

// Matrix returns the transition matrix, or nil when the snapshot has none.
func (s *Snapshot) Matrix() TransitionMatrix {
	if s.TransitionMatrix == nil {
		return nil
	}
	return s.TransitionMatrix.Matrix
}

// Cutoffs returns the cutoff bands, or nil when the snapshot has none.
func (s *Snapshot) Cutoffs() []Cutoff {
	if s.DecileCutoffs == nil {
		return nil
	}
	return s.DecileCutoffs.Cutoffs
}

// snapshotAliases carries the alternate field names some service builds emit.
type snapshotAliases struct {
	Time json.RawMessage `json:"time"`

	WealthShareFirstDecile       *float64  `json:"wealth_share_first_decile"`
	WealthShareTenthDecile       *float64  `json:"wealth_share_tenth_decile"`
	TotalCgTaxCollected          *float64  `json:"total_cg_tax_collected"`
	TotalInheritanceTaxCollected *float64  `json:"total_inheritance_tax_collected"`
	IncomeTaxByDecile            DecileMap `json:"income_tax_by_decile"`
}

// DecodeSnapshots parses a service response body into snapshots.
// Non-finite number tokens are read as absent values. Every element must be an
// object with an integer time; anything else is a *MalformedInputError.
func DecodeSnapshots(body []byte) ([]Snapshot, error) {
	clean := SanitizeNonFinite(body)

	var elems []json.RawMessage
	if err := json.Unmarshal(clean, &elems); err != nil {
		return nil, &MalformedInputError{Index: -1, Reason: "response is not a JSON array", Err: err}
	}

	out := make([]Snapshot, 0, len(elems))
	for i, raw := range elems {
		s, err := decodeSnapshot(i, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func decodeSnapshot(i int, raw json.RawMessage) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return Snapshot{}, &MalformedInputError{Index: i, Reason: "cannot decode snapshot", Err: err}
	}
	var alt snapshotAliases
	if err := json.Unmarshal(raw, &alt); err != nil {
		return Snapshot{}, &MalformedInputError{Index: i, Reason: "cannot decode snapshot", Err: err}
	}

	t, err := parseTime(alt.Time)
	if err != nil {
		return Snapshot{}, &MalformedInputError{Index: i, Field: "time", Reason: err.Error()}
	}
	s.Time = t

	if s.WealthShareFirstDecile == nil {
		s.WealthShareFirstDecile = alt.WealthShareFirstDecile
	}
	if s.WealthShareTenthDecile == nil {
		s.WealthShareTenthDecile = alt.WealthShareTenthDecile
	}
	if s.TotalCgTaxCollected == nil {
		s.TotalCgTaxCollected = alt.TotalCgTaxCollected
	}
	if s.TotalInheritanceTaxCollected == nil {
		s.TotalInheritanceTaxCollected = alt.TotalInheritanceTaxCollected
	}
	if s.IncomeTaxByDecile == nil {
		s.IncomeTaxByDecile = alt.IncomeTaxByDecile
	}
	return s, nil
}

func parseTime(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, fmt.Errorf("missing")
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, fmt.Errorf("not a number: %s", raw)
	}
	if f != math.Trunc(f) || f < 0 {
		return 0, fmt.Errorf("not a non-negative integer: %s", raw)
	}
	return int(f), nil
}
