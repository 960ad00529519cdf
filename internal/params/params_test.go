package params

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsStructurallyValid(t *testing.T) {
	c := Default()
	assert.NoError(t, c.Validate())
}

func TestSetScalar_CoercesNumbers(t *testing.T) {
	m := NewDefault()

	got := m.SetScalar(WealthTaxRate, " 0.12 ")
	assert.Equal(t, 0.12, got.WealthTaxRate)

	got = m.SetScalar(TotalPopulation, "2500")
	assert.Equal(t, 2500, got.TotalPopulation)

	// Out-of-range values pass through; the service validates them.
	got = m.SetScalar(TotalPopulation, "-3")
	assert.Equal(t, -3, got.TotalPopulation)
}

func TestSetScalar_NonNumericIsNoOp(t *testing.T) {
	tests := []struct {
		name  string
		field ScalarField
		raw   string
	}{
		{"text", WealthTaxRate, "abc"},
		{"empty", InheritanceTaxRate, ""},
		{"blank", CapitalGainsTax, "   "},
		{"nan", WealthTaxRate, "NaN"},
		{"inf", WealthTaxRate, "Inf"},
		{"fractional population", TotalPopulation, "12.5"},
		{"fractional steps", NumTimeSteps, "3.2"},
		{"unknown field", ScalarField("gdp"), "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewDefault()
			before := m.Config()

			got := m.SetScalar(tt.field, tt.raw)

			assert.Equal(t, before, got)
			assert.Equal(t, before, m.Config())
		})
	}
}

func TestSetDecileValue_ReplacesExactlyOne(t *testing.T) {
	m := NewDefault()
	before := m.Config()

	got := m.SetDecileValue(SavingsRate, 3, "0.5")

	require.Len(t, got.SavingsRate, 10)
	for i := range got.SavingsRate {
		if i == 3 {
			assert.Equal(t, 0.5, got.SavingsRate[i])
			continue
		}
		assert.Equal(t, before.SavingsRate[i], got.SavingsRate[i], "index %d", i)
	}
	assert.Equal(t, before.BirthRate, got.BirthRate)
}

func TestSetDecileValue_OutOfRangeIndexIsNoOp(t *testing.T) {
	for _, idx := range []int{-1, 10, 42} {
		m := NewDefault()
		before := m.Config()

		got := m.SetDecileValue(BirthRate, idx, "0.3")

		assert.Equal(t, before, got, "index %d", idx)
	}
}

func TestSetDecileValue_NonNumericIsNoOp(t *testing.T) {
	m := NewDefault()
	before := m.Config()

	got := m.SetDecileValue(DeathRate, 0, "lots")

	assert.Equal(t, before, got)
}

func TestSetDecileValue_EarlierConfigsAreNotMutated(t *testing.T) {
	m := NewDefault()
	first := m.SetDecileValue(WageBandHigh, 0, "1")

	m.SetDecileValue(WageBandHigh, 0, "2")

	assert.Equal(t, 1.0, first.WageBandHigh[0])
}

func TestToPayload_WireNames(t *testing.T) {
	m := NewDefault()

	raw, err := json.Marshal(m.ToPayload())
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, f := range Fields() {
		assert.Contains(t, fields, f.Name)
	}
	assert.Len(t, fields, len(Fields()))
}

func TestToPayload_ReturnsCopy(t *testing.T) {
	m := NewDefault()
	p := m.ToPayload()
	p.BirthRate[0] = 42

	assert.NotEqual(t, 42.0, m.Config().BirthRate[0])
}

func TestFieldPredicates(t *testing.T) {
	assert.True(t, IsScalar("cg_tax"))
	assert.False(t, IsScalar("birth_rate"))
	assert.True(t, IsDecile("birth_rate"))
	assert.False(t, IsDecile("cg_tax"))
}
