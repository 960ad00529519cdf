package derive

import (
	"testing"

	"wealth-dashboard/internal/model"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) []model.Snapshot {
	t.Helper()
	snaps, err := model.DecodeSnapshots([]byte(body))
	require.NoError(t, err)
	return snaps
}

func values(pts []Point) []any {
	out := make([]any, len(pts))
	for i, p := range pts {
		if p.Value.Valid {
			out[i] = p.Value.Float
		} else {
			out[i] = nil
		}
	}
	return out
}

func TestDerive_TimeAxisKeepsInputOrder(t *testing.T) {
	snaps := decode(t, `[{"time": 2}, {"time": 0}, {"time": 1}]`)

	set := New(Options{}).Derive(snaps)

	assert.Equal(t, []int{2, 0, 1}, set.Time)
	for name, pts := range set.Scalars {
		assert.Len(t, pts, 3, name)
	}
	assert.Len(t, set.Matrices, 3)
	assert.Len(t, set.Cutoffs, 3)
}

func TestDerive_MissingKnownDecileDefaultsToZero(t *testing.T) {
	// GIVEN decile 2 only in the first snapshot
	snaps := decode(t, `[
		{"time": 0, "wealth_by_decile": {"1": 10, "2": 20}},
		{"time": 1, "wealth_by_decile": {"1": 15}}
	]`)

	// WHEN deriving
	set := New(Options{}).Derive(snaps)

	// THEN decile 2 is zero-filled at time 1
	d1, ok := set.Decile(Wealth, 1)
	require.True(t, ok)
	d2, ok := set.Decile(Wealth, 2)
	require.True(t, ok)
	assert.Equal(t, []any{10.0, 15.0}, values(d1))
	assert.Equal(t, []any{20.0, 0.0}, values(d2))
}

func TestDerive_AllFiveDecileCategoriesZeroFill(t *testing.T) {
	snaps := decode(t, `[
		{"time": 0,
		 "wealth_by_decile": {"1": 1},
		 "wealth_tax_by_decile": {"1": 2},
		 "cg_tax_by_decile": {"1": 3},
		 "tax_per_decile_income": {"1": 4},
		 "inheritance_tax_by_decile": {"1": 5}},
		{"time": 1}
	]`)

	set := New(Options{}).Derive(snaps)

	for _, c := range Categories() {
		pts, ok := set.Decile(c, 1)
		require.True(t, ok, c)
		assert.Equal(t, 0.0, pts[1].Value.Float, c)
		assert.True(t, pts[1].Value.Valid, c)
	}
}

func TestDerive_LateDecileIgnoredByDefault(t *testing.T) {
	snaps := decode(t, `[
		{"time": 0, "wealth_by_decile": {"1": 10}},
		{"time": 1, "wealth_by_decile": {"1": 11, "10": 90}}
	]`)

	first := New(Options{}).Derive(snaps)
	union := New(Options{Labels: LabelsFromAllSnapshots}).Derive(snaps)

	_, ok := first.Decile(Wealth, 10)
	assert.False(t, ok)

	d10, ok := union.Decile(Wealth, 10)
	require.True(t, ok)
	assert.Equal(t, []any{0.0, 90.0}, values(d10))
	assert.Len(t, union.Deciles[Wealth], 2)
}

func TestDerive_DecileLabelsSortNumerically(t *testing.T) {
	snaps := decode(t, `[{"time": 0, "wealth_by_decile": {"10.0": 1, "2.0": 1, "1.0": 1}}]`)

	set := New(Options{}).Derive(snaps)

	var got []model.Decile
	for _, ds := range set.Deciles[Wealth] {
		got = append(got, ds.Decile)
	}
	assert.Equal(t, []model.Decile{1, 2, 10}, got)
}

func TestDerive_IncomeTaxTotalIsNoDataButWealthTaxTotalIsZero(t *testing.T) {
	snaps := decode(t, `[{"time": 0}]`)

	set := New(Options{}).Derive(snaps)

	income := set.Scalar(TotalIncomeTaxCollected)[0].Value
	wealth := set.Scalar(TotalWealthTaxCollected)[0].Value
	assert.False(t, income.Valid)
	assert.True(t, wealth.Valid)
	assert.Equal(t, 0.0, wealth.Float)
	assert.NotEqual(t, income, wealth)
}

func TestDerive_DefaultPolicyForAbsentFields(t *testing.T) {
	set := New(Options{}).Derive(decode(t, `[{"time": 0}]`))

	for _, p := range Policies() {
		v := set.Scalar(p.Name)[0].Value
		switch p.Default {
		case Zero:
			assert.Equal(t, model.Some(0), v, p.Name)
		case NoData:
			assert.Equal(t, model.NoData(), v, p.Name)
		}
	}
}

func TestDerive_PresentValuesPassThrough(t *testing.T) {
	snaps := decode(t, `[{
		"time": 0,
		"total_income_tax_collected": 12.5,
		"gini_overall_income": 0,
		"wealth_ratio_90_10": 42,
		"tax_share_wealth": 1.7
	}]`)

	set := New(Options{}).Derive(snaps)

	assert.Equal(t, model.Some(12.5), set.Scalar(TotalIncomeTaxCollected)[0].Value)
	assert.Equal(t, model.Some(0), set.Scalar(GiniOverallIncome)[0].Value)
	assert.Equal(t, model.Some(42), set.Scalar(WealthRatio90to10)[0].Value)
	// Display ranges never clamp.
	assert.Equal(t, model.Some(1.7), set.Scalar(TaxShareWealth)[0].Value)
}

func TestDerive_NonFiniteRatioIsNoData(t *testing.T) {
	set := New(Options{}).Derive(decode(t, `[{"time": 0, "wealth_ratio_90_10": Infinity}]`))

	assert.False(t, set.Scalar(WealthRatio90to10)[0].Value.Valid)
}

func TestDerive_ComputedShares(t *testing.T) {
	snaps := decode(t, `[
		{"time": 0, "total_wealth": 100,
		 "wealth_by_decile": {"1": 5, "2": 5, "3": 5, "4": 5, "5": 10, "10": 40}},
		{"time": 1, "wealth_by_decile": {"1": 2, "2": 3}}
	]`)

	set := New(Options{}).Derive(snaps)

	assert.Equal(t, []any{0.05, 0.0}, values(set.Scalar(ComputedShareFirstDecile)))
	assert.Equal(t, []any{0.4, 0.0}, values(set.Scalar(ComputedShareTenthDecile)))
	// Without a total the bottom-50 sum is divided by 1.
	assert.Equal(t, []any{0.3, 5.0}, values(set.Scalar(ComputedShareBottom50)))
}

func TestDerive_MatricesSizedPerStep(t *testing.T) {
	snaps := decode(t, `[
		{"time": 0, "decile_transition_matrix": {"time": 0, "matrix": {
			"1": {"1": 80, "2": 20},
			"2": {"1": 10, "2": 90}}}},
		{"time": 1, "decile_transition_matrix": {"time": 1, "matrix": {
			"1": {"1": 70, "2": 20, "3": 10},
			"2": {"2": 100},
			"3": {"3": 100}}}},
		{"time": 2}
	]`)

	set := New(Options{}).Derive(snaps)

	require.Len(t, set.Matrices, 3)
	assert.Equal(t, []model.Decile{1, 2}, set.Matrices[0].Rows)
	assert.Equal(t, [][]float64{{80, 20}, {10, 90}}, set.Matrices[0].Cells)

	m1 := set.Matrices[1]
	assert.Equal(t, []model.Decile{1, 2, 3}, m1.Rows)
	assert.Equal(t, []model.Decile{1, 2, 3}, m1.Cols)
	assert.Equal(t, []float64{0, 100, 0}, m1.Cells[1])

	assert.Empty(t, set.Matrices[2].Rows)
	assert.Empty(t, set.Matrices[2].Cells)
	assert.Equal(t, 2, set.Matrices[2].Time)
}

func TestDerive_ColumnsComeFromFirstRow(t *testing.T) {
	snaps := decode(t, `[{"time": 0, "decile_transition_matrix": {"matrix": {
		"1": {"1": 100},
		"2": {"1": 40, "2": 60}}}}]`)

	m := New(Options{}).Derive(snaps).Matrices[0]

	assert.Equal(t, []model.Decile{1}, m.Cols)
	assert.Equal(t, [][]float64{{100}, {40}}, m.Cells)
}

func TestDerive_CutoffsPassThroughOrEmpty(t *testing.T) {
	snaps := decode(t, `[
		{"time": 0, "decile_cutoffs": {"time": 0, "cutoffs": [
			{"decile": 2, "lower": 10, "upper": 20},
			{"decile": 1, "lower": 0, "upper": 10}]}},
		{"time": 1}
	]`)

	set := New(Options{}).Derive(snaps)

	assert.Equal(t, []model.Cutoff{
		{Decile: 2, Lower: 10, Upper: 20},
		{Decile: 1, Lower: 0, Upper: 10},
	}, set.Cutoffs[0].Bands)
	assert.NotNil(t, set.Cutoffs[1].Bands)
	assert.Empty(t, set.Cutoffs[1].Bands)
}

func TestDerive_EmptyInput(t *testing.T) {
	set := New(Options{}).Derive(nil)

	assert.Empty(t, set.Time)
	assert.Empty(t, set.Matrices)
	assert.Empty(t, set.Cutoffs)
	for _, pts := range set.Scalars {
		assert.Empty(t, pts)
	}
	for _, c := range Categories() {
		assert.Empty(t, set.Deciles[c])
	}
}

func TestDerive_IsPure(t *testing.T) {
	body := `[
		{"time": 0, "total_wealth": 50, "wealth_by_decile": {"1": 10, "2": 20},
		 "decile_transition_matrix": {"matrix": {"1": {"1": 100}}},
		 "decile_cutoffs": {"cutoffs": [{"decile": 1, "lower": 0, "upper": 5}]}},
		{"time": 1, "wealth_by_decile": {"1": 15}, "total_income_tax_collected": 3}
	]`
	snaps := decode(t, body)
	before := decode(t, body)
	e := New(Options{})

	a := e.Derive(snaps)
	b := e.Derive(snaps)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("Derive not deterministic (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(before, snaps); diff != "" {
		t.Errorf("Derive mutated its input (-before +after):\n%s", diff)
	}
}

func TestDisplayRange(t *testing.T) {
	r, ok := DisplayRange(WealthShareBottom50)
	assert.True(t, ok)
	assert.Equal(t, Range{Min: 0, Max: 1}, r)

	r, ok = DisplayRange(TaxShareIncome)
	assert.True(t, ok)
	assert.Equal(t, Range{Min: 0, Max: 0.8}, r)

	_, ok = DisplayRange(GiniOverallWealth)
	assert.False(t, ok)
}

func TestParseLabelPolicy(t *testing.T) {
	p, err := ParseLabelPolicy("")
	require.NoError(t, err)
	assert.Equal(t, LabelsFromFirstSnapshot, p)

	p, err = ParseLabelPolicy("all_snapshots")
	require.NoError(t, err)
	assert.Equal(t, LabelsFromAllSnapshots, p)

	_, err = ParseLabelPolicy("latest")
	assert.Error(t, err)
}
