package params

import "wealth-dashboard/internal/model"

// Default returns the control panel's starting configuration.
func Default() model.SimulationConfig {
	return model.SimulationConfig{
		TotalPopulation:    1000,
		NumTimeSteps:       10,
		InheritanceTaxRate: 0.2,
		WealthTaxRate:      0.05,
		CapitalGainsTax:    0.2,

		WealthPerDecile:  []float64{10, 2024, 4070, 7000, 11351, 19632, 36300, 74983, 226172, 2400547},
		BirthRate:        []float64{0.09, 0.08, 0.07, 0.065, 0.05, 0.048, 0.04, 0.03, 0.025, 0.02},
		DeathRate:        []float64{0.025, 0.02, 0.018, 0.014, 0.012, 0.011, 0.008, 0.007, 0.006, 0.005},
		NetMigration:     []float64{0.05, 0.04, 0.035, 0.0325, 0.025, 0.024, 0.02, 0.015, 0.011, 0.01},
		RateOfReturn:     []float64{0.07, 0.08, 0.09, 0.1, 0.11, 0.12, 0.13, 0.14, 0.15, 0.16},
		SavingsRate:      []float64{0, 0, 0.02, 0.05, 0.08, 0.12, 0.15, 0.2, 0.3, 0.6},
		WageBandLow:      []float64{0, 18001, 28501, 42001, 62001, 95771, 149759, 240001, 417432, 852669},
		WageBandHigh:     []float64{18000, 28500, 42000, 62000, 95770, 149758, 240000, 417431, 852668, 5000000},
		UnemploymentRate: []float64{0.58, 0.53, 0.47, 0.41, 0.34, 0.28, 0.22, 0.16, 0.1, 0.05},
	}
}

// FieldInfo describes one editable parameter for a UI.
type FieldInfo struct {
	Name   string  `json:"name"`
	Label  string  `json:"label"`
	Kind   string  `json:"kind"` // "int", "float", "decile_vector"
	Step   float64 `json:"step,omitempty"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max,omitempty"`
	Length int     `json:"length,omitempty"`
}

// Fields lists every parameter with the bar-chart ranges the control panel uses.
// Min/Max are display hints only.
func Fields() []FieldInfo {
	return []FieldInfo{
		{Name: string(TotalPopulation), Label: "Total Population", Kind: "int", Step: 1},
		{Name: string(NumTimeSteps), Label: "Time Steps", Kind: "int", Step: 1},
		{Name: string(InheritanceTaxRate), Label: "Inheritance Tax Rate", Kind: "float", Step: 0.01},
		{Name: string(WealthTaxRate), Label: "Wealth Tax Rate", Kind: "float", Step: 0.01},
		{Name: string(CapitalGainsTax), Label: "Capital Gains Tax Rate", Kind: "float", Step: 0.01},

		decileField(WealthPerDecile, "Wealth per Decile", 0, 20000, 100),
		decileField(BirthRate, "Birth Rate per Decile", 0, 0.2, 0.01),
		decileField(DeathRate, "Death Rate per Decile", 0, 0.1, 0.01),
		decileField(NetMigration, "Net Migration per Decile", 0, 0.1, 0.01),
		decileField(RateOfReturn, "Rate of Return per Decile", 0, 0.3, 0.01),
		decileField(SavingsRate, "Savings Rate per Decile", 0, 1, 0.01),
		decileField(WageBandLow, "Wage Band Low", 0, 3000, 100),
		decileField(WageBandHigh, "Wage Band High", 0, 10000, 100),
		decileField(UnemploymentRate, "Unemployment Rate per Decile", 0, 1, 0.01),
	}
}

func decileField(f DecileField, label string, min, max, step float64) FieldInfo {
	return FieldInfo{
		Name:   string(f),
		Label:  label,
		Kind:   "decile_vector",
		Min:    min,
		Max:    max,
		Step:   step,
		Length: model.NumDeciles,
	}
}

// IsScalar reports whether name is a known scalar field.
func IsScalar(name string) bool {
	switch ScalarField(name) {
	case TotalPopulation, NumTimeSteps, InheritanceTaxRate, WealthTaxRate, CapitalGainsTax:
		return true
	}
	return false
}

// IsDecile reports whether name is a known decile vector field.
func IsDecile(name string) bool {
	for _, f := range Fields() {
		if f.Kind == "decile_vector" && f.Name == name {
			return true
		}
	}
	return false
}
