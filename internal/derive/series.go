package derive

import "wealth-dashboard/internal/model"

// SeriesName identifies one scalar series in a SeriesSet.
type SeriesName string

const (
	TotalWealth SeriesName = "totalWealth"

	WealthShareFirstDecile SeriesName = "wealthShareFirstDecile"
	WealthShareTenthDecile SeriesName = "wealthShareTenthDecile"
	WealthShareBottom50    SeriesName = "wealthShareBottom50"

	WealthRatio90to10 SeriesName = "wealthRatio90to10"
	WealthRatio90to50 SeriesName = "wealthRatio90to50"

	GiniOverallWealth SeriesName = "giniOverallWealth"
	GiniOverallIncome SeriesName = "giniOverallIncome"

	TotalWealthTaxCollected      SeriesName = "totalWealthTaxCollected"
	TotalCgTaxCollected          SeriesName = "totalCgTaxCollected"
	TotalIncomeTaxCollected      SeriesName = "totalIncomeTaxCollected"
	TotalInheritanceTaxCollected SeriesName = "totalInheritanceTaxCollected"

	TaxShareWealth      SeriesName = "taxShareWealth"
	TaxShareCg          SeriesName = "taxShareCg"
	TaxShareIncome      SeriesName = "taxShareIncome"
	TaxShareInheritance SeriesName = "taxShareInheritance"

	GiniIndex        SeriesName = "giniIndex"
	Population       SeriesName = "population"
	StateCollections SeriesName = "stateCollections"

	// Shares recomputed from wealth_by_decile and total_wealth.
	ComputedShareFirstDecile SeriesName = "computedShareFirstDecile"
	ComputedShareTenthDecile SeriesName = "computedShareTenthDecile"
	ComputedShareBottom50    SeriesName = "computedShareBottom50"
)

// Category is a decile-keyed quantity with one series per decile.
type Category string

const (
	Wealth         Category = "wealth"
	WealthTax      Category = "wealthTax"
	CgTax          Category = "cgTax"
	IncomeTax      Category = "incomeTax"
	InheritanceTax Category = "inheritanceTax"
)

// Categories lists the decile categories in display order.
func Categories() []Category {
	return []Category{Wealth, WealthTax, CgTax, IncomeTax, InheritanceTax}
}

// Point is one (time, value) pair. Value carries the no-data marker where the
// default policy says so.
type Point struct {
	Time  int             `json:"time"`
	Value model.NullFloat `json:"value"`
}

// DecileSeries is one decile's values across all time steps.
type DecileSeries struct {
	Decile model.Decile `json:"decile"`
	Points []Point      `json:"points"`
}

// Matrix is one time step's transition matrix. Cells[i][j] is the percentage
// (0-100) of agents moving from Rows[i] to Cols[j].
type Matrix struct {
	Time  int            `json:"time"`
	Rows  []model.Decile `json:"rows"`
	Cols  []model.Decile `json:"cols"`
	Cells [][]float64    `json:"cells"`
}

// CutoffSet is one time step's decile wealth bands.
type CutoffSet struct {
	Time  int            `json:"time"`
	Bands []model.Cutoff `json:"bands"`
}

// SeriesSet is everything the dashboard plots for one result sequence.
// Matrices and Cutoffs hold exactly one entry per snapshot.
type SeriesSet struct {
	Time     []int                         `json:"time"`
	Scalars  map[SeriesName][]Point        `json:"scalars"`
	Deciles  map[Category][]DecileSeries   `json:"deciles"`
	Matrices []Matrix                      `json:"matrices"`
	Cutoffs  []CutoffSet                   `json:"cutoffs"`
}

// Scalar returns a scalar series, or nil when name is unknown.
func (s *SeriesSet) Scalar(name SeriesName) []Point {
	if s == nil {
		return nil
	}
	return s.Scalars[name]
}

// Decile returns the series for decile d of category c.
func (s *SeriesSet) Decile(c Category, d model.Decile) ([]Point, bool) {
	if s == nil {
		return nil, false
	}
	for _, ds := range s.Deciles[c] {
		if ds.Decile == d {
			return ds.Points, true
		}
	}
	return nil, false
}

// Range is a display range. It is a contract with the presentation layer,
// not a clamp: values outside it are kept as-is.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

var (
	wealthShareRange = Range{Min: 0, Max: 1}
	taxShareRange    = Range{Min: 0, Max: 0.8}
)

// DisplayRange returns the fixed y-range for share series.
func DisplayRange(name SeriesName) (Range, bool) {
	switch name {
	case WealthShareFirstDecile, WealthShareTenthDecile, WealthShareBottom50,
		ComputedShareFirstDecile, ComputedShareTenthDecile, ComputedShareBottom50:
		return wealthShareRange, true
	case TaxShareWealth, TaxShareCg, TaxShareIncome, TaxShareInheritance:
		return taxShareRange, true
	}
	return Range{}, false
}
