package model

import "fmt"

// SimulationConfig is the payload POSTed to the simulation service.
// Units:
// - rates and tax rates: fractions, nominally 0..1
// - wealth and wage bands: currency units per agent
// - every vector is indexed by decile-1 (index 0 = poorest band)
type SimulationConfig struct {
	TotalPopulation    int     `json:"total_population" yaml:"total_population"`
	NumTimeSteps       int     `json:"num_time_steps" yaml:"num_time_steps"`
	InheritanceTaxRate float64 `json:"inheritance_tax_rate" yaml:"inheritance_tax_rate"`
	WealthTaxRate      float64 `json:"wealth_tax" yaml:"wealth_tax"`
	CapitalGainsTax    float64 `json:"cg_tax" yaml:"cg_tax"`

	WealthPerDecile  []float64 `json:"wealth_per_decile" yaml:"wealth_per_decile"`
	BirthRate        []float64 `json:"birth_rate" yaml:"birth_rate"`
	DeathRate        []float64 `json:"death_rate" yaml:"death_rate"`
	NetMigration     []float64 `json:"net_migration" yaml:"net_migration"`
	RateOfReturn     []float64 `json:"rate_of_return" yaml:"rate_of_return"`
	SavingsRate      []float64 `json:"savings_rate" yaml:"savings_rate"`
	WageBandLow      []float64 `json:"wage_band_low" yaml:"wage_band_low"`
	WageBandHigh     []float64 `json:"wage_band_high" yaml:"wage_band_high"`
	UnemploymentRate []float64 `json:"unemployment_rate" yaml:"unemployment_rate"`
}

// Vectors returns the decile vectors keyed by wire name, in payload order.
// The slices alias the config's storage.
func (c *SimulationConfig) Vectors() []NamedVector {
	return []NamedVector{
		{"wealth_per_decile", &c.WealthPerDecile},
		{"birth_rate", &c.BirthRate},
		{"death_rate", &c.DeathRate},
		{"net_migration", &c.NetMigration},
		{"rate_of_return", &c.RateOfReturn},
		{"savings_rate", &c.SavingsRate},
		{"wage_band_low", &c.WageBandLow},
		{"wage_band_high", &c.WageBandHigh},
		{"unemployment_rate", &c.UnemploymentRate},
	}
}

// NamedVector points at one decile vector of a config.
type NamedVector struct {
	Name   string
	Values *[]float64
}

// Clone returns a deep copy.
func (c SimulationConfig) Clone() SimulationConfig {
	out := c
	src := c.Vectors()
	for i, v := range out.Vectors() {
		*v.Values = append([]float64(nil), *src[i].Values...)
	}
	return out
}

// Validate checks shape only: every decile vector must have NumDeciles entries.
// Value ranges are left to the simulation service, and wage_band_low <= wage_band_high
// is a data-quality assumption rather than a rule.
func (c *SimulationConfig) Validate() error {
	if c == nil {
		return &ValidationError{Field: "config", Reason: "is nil"}
	}
	for _, v := range c.Vectors() {
		if n := len(*v.Values); n != NumDeciles {
			return &ValidationError{
				Field:  v.Name,
				Reason: fmt.Sprintf("has %d values, want %d", n, NumDeciles),
			}
		}
	}
	return nil
}
