// Package params holds the editable simulation parameters behind the control panel.
//
// Edits are coerced, never rejected loudly: input that does not parse as a number
// leaves the field untouched. Range validation is deferred to the simulation service.
package params

import (
	"math"
	"strconv"
	"strings"
	"sync"

	"wealth-dashboard/internal/model"
)

// ScalarField names a single-valued parameter by its wire name.
type ScalarField string

const (
	TotalPopulation    ScalarField = "total_population"
	NumTimeSteps       ScalarField = "num_time_steps"
	InheritanceTaxRate ScalarField = "inheritance_tax_rate"
	WealthTaxRate      ScalarField = "wealth_tax"
	CapitalGainsTax    ScalarField = "cg_tax"
)

// DecileField names a decile-indexed vector parameter by its wire name.
type DecileField string

const (
	WealthPerDecile  DecileField = "wealth_per_decile"
	BirthRate        DecileField = "birth_rate"
	DeathRate        DecileField = "death_rate"
	NetMigration     DecileField = "net_migration"
	RateOfReturn     DecileField = "rate_of_return"
	SavingsRate      DecileField = "savings_rate"
	WageBandLow      DecileField = "wage_band_low"
	WageBandHigh     DecileField = "wage_band_high"
	UnemploymentRate DecileField = "unemployment_rate"
)

// Model is the current editable configuration. It is safe for concurrent use.
type Model struct {
	mu  sync.RWMutex
	cfg model.SimulationConfig
}

// New creates a model seeded with a copy of base.
func New(base model.SimulationConfig) *Model {
	return &Model{cfg: base.Clone()}
}

// NewDefault creates a model seeded with Default().
func NewDefault() *Model {
	return New(Default())
}

// SetScalar coerces raw to a number and stores it in field.
// Empty, non-numeric or non-finite input is a no-op, as is a non-integral
// value for the integer fields. The resulting config is returned either way.
func (m *Model) SetScalar(field ScalarField, raw string) model.SimulationConfig {
	v, ok := parseNumber(raw)
	if !ok {
		return m.Config()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	switch field {
	case TotalPopulation, NumTimeSteps:
		if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
			break
		}
		if field == TotalPopulation {
			m.cfg.TotalPopulation = int(v)
		} else {
			m.cfg.NumTimeSteps = int(v)
		}
	case InheritanceTaxRate:
		m.cfg.InheritanceTaxRate = v
	case WealthTaxRate:
		m.cfg.WealthTaxRate = v
	case CapitalGainsTax:
		m.cfg.CapitalGainsTax = v
	}
	return m.cfg.Clone()
}

// SetDecileValue replaces element index of the field's vector.
// An index outside [0, NumDeciles), an unknown field or non-numeric input is a no-op.
func (m *Model) SetDecileValue(field DecileField, index int, raw string) model.SimulationConfig {
	v, ok := parseNumber(raw)
	if !ok || index < 0 || index >= model.NumDeciles {
		return m.Config()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	vec := m.vector(field)
	if vec == nil || index >= len(*vec) {
		return m.cfg.Clone()
	}
	// Copy before writing so previously returned configs never change underneath a caller.
	next := append([]float64(nil), (*vec)...)
	next[index] = v
	*vec = next
	return m.cfg.Clone()
}

// Replace swaps in a whole configuration, e.g. one loaded from a parameters file.
func (m *Model) Replace(cfg model.SimulationConfig) model.SimulationConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg.Clone()
	return m.cfg.Clone()
}

// Config returns a copy of the current configuration.
func (m *Model) Config() model.SimulationConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg.Clone()
}

// ToPayload returns the configuration in the shape the simulation client submits.
// It has no side effects.
func (m *Model) ToPayload() model.SimulationConfig {
	return m.Config()
}

func (m *Model) vector(field DecileField) *[]float64 {
	for _, v := range m.cfg.Vectors() {
		if v.Name == string(field) {
			return v.Values
		}
	}
	return nil
}

func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
