package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tenOf(v float64) []float64 {
	out := make([]float64, NumDeciles)
	for i := range out {
		out[i] = v
	}
	return out
}

func fullConfig() SimulationConfig {
	return SimulationConfig{
		TotalPopulation:  1000,
		NumTimeSteps:     10,
		WealthPerDecile:  tenOf(100),
		BirthRate:        tenOf(0.05),
		DeathRate:        tenOf(0.01),
		NetMigration:     tenOf(0.02),
		RateOfReturn:     tenOf(0.1),
		SavingsRate:      tenOf(0.2),
		WageBandLow:      tenOf(1000),
		WageBandHigh:     tenOf(2000),
		UnemploymentRate: tenOf(0.1),
	}
}

func TestSimulationConfig_Validate_VectorLength(t *testing.T) {
	c := fullConfig()
	require.NoError(t, c.Validate())

	c.SavingsRate = c.SavingsRate[:9]
	err := c.Validate()

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "savings_rate", vErr.Field)
}

func TestSimulationConfig_Validate_IgnoresValueRanges(t *testing.T) {
	// Range checks belong to the simulation service.
	c := fullConfig()
	c.TotalPopulation = -5
	c.WealthTaxRate = 3
	c.WageBandLow[0] = 5000
	assert.NoError(t, c.Validate())
}

func TestSimulationConfig_Clone_IsDeep(t *testing.T) {
	c := fullConfig()
	cp := c.Clone()
	cp.BirthRate[0] = 99

	assert.Equal(t, 0.05, c.BirthRate[0])
	assert.Equal(t, c.TotalPopulation, cp.TotalPopulation)
}
