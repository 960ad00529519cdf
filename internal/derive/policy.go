package derive

import "wealth-dashboard/internal/model"

// Default says what an absent field turns into.
type Default int

const (
	// Zero fills an absent value with 0.
	Zero Default = iota
	// NoData keeps the absent value as the no-data marker; present values pass through.
	NoData
)

func (d Default) String() string {
	if d == Zero {
		return "zero"
	}
	return "no-data"
}

// Policy binds a scalar series to its snapshot field and its absent-value default.
type Policy struct {
	Name    SeriesName
	Field   string // wire name
	Default Default
	get     func(*model.Snapshot) *float64
}

// The income-tax total is deliberately NoData while the other tax totals are Zero:
// dashboards read a missing income-tax figure as "not computed".
var policies = []Policy{
	{TotalWealth, "total_wealth", NoData, func(s *model.Snapshot) *float64 { return s.TotalWealth }},

	{WealthShareFirstDecile, "wealth_share_1st_decile", Zero, func(s *model.Snapshot) *float64 { return s.WealthShareFirstDecile }},
	{WealthShareTenthDecile, "wealth_share_10th_decile", Zero, func(s *model.Snapshot) *float64 { return s.WealthShareTenthDecile }},
	{WealthShareBottom50, "wealth_share_bottom_50", Zero, func(s *model.Snapshot) *float64 { return s.WealthShareBottom50 }},

	{WealthRatio90to10, "wealth_ratio_90_10", NoData, func(s *model.Snapshot) *float64 { return s.WealthRatio90to10 }},
	{WealthRatio90to50, "wealth_ratio_90_50", NoData, func(s *model.Snapshot) *float64 { return s.WealthRatio90to50 }},

	{GiniOverallWealth, "gini_overall_wealth", NoData, func(s *model.Snapshot) *float64 { return s.GiniOverallWealth }},
	{GiniOverallIncome, "gini_overall_income", NoData, func(s *model.Snapshot) *float64 { return s.GiniOverallIncome }},

	{TotalWealthTaxCollected, "total_wealth_tax_collected", Zero, func(s *model.Snapshot) *float64 { return s.TotalWealthTaxCollected }},
	{TotalCgTaxCollected, "total_cg_tax", Zero, func(s *model.Snapshot) *float64 { return s.TotalCgTaxCollected }},
	{TotalIncomeTaxCollected, "total_income_tax_collected", NoData, func(s *model.Snapshot) *float64 { return s.TotalIncomeTaxCollected }},
	{TotalInheritanceTaxCollected, "total_inheritance_tax", Zero, func(s *model.Snapshot) *float64 { return s.TotalInheritanceTaxCollected }},

	{TaxShareWealth, "tax_share_wealth", Zero, func(s *model.Snapshot) *float64 { return s.TaxShareWealth }},
	{TaxShareCg, "tax_share_cg", Zero, func(s *model.Snapshot) *float64 { return s.TaxShareCg }},
	{TaxShareIncome, "tax_share_income", Zero, func(s *model.Snapshot) *float64 { return s.TaxShareIncome }},
	{TaxShareInheritance, "tax_share_inheritance", Zero, func(s *model.Snapshot) *float64 { return s.TaxShareInheritance }},

	{GiniIndex, "gini_index", NoData, func(s *model.Snapshot) *float64 { return s.GiniIndex }},
	{Population, "population", NoData, func(s *model.Snapshot) *float64 { return s.Population }},
	{StateCollections, "state_collections", NoData, func(s *model.Snapshot) *float64 { return s.StateCollections }},
}

// Policies returns the scalar default-policy table in derivation order.
func Policies() []Policy {
	return append([]Policy(nil), policies...)
}

// Value applies the policy to one snapshot.
func (p Policy) Value(s *model.Snapshot) model.NullFloat {
	v := model.NullFrom(p.get(s))
	if !v.Valid && p.Default == Zero {
		return model.Some(0)
	}
	return v
}

// decileSource binds a decile category to its snapshot map. Absent keys of a
// known label always default to 0.
type decileSource struct {
	Category Category
	Field    string
	get      func(*model.Snapshot) model.DecileMap
}

var decileSources = []decileSource{
	{Wealth, "wealth_by_decile", func(s *model.Snapshot) model.DecileMap { return s.WealthByDecile }},
	{WealthTax, "wealth_tax_by_decile", func(s *model.Snapshot) model.DecileMap { return s.WealthTaxByDecile }},
	{CgTax, "cg_tax_by_decile", func(s *model.Snapshot) model.DecileMap { return s.CgTaxByDecile }},
	{IncomeTax, "tax_per_decile_income", func(s *model.Snapshot) model.DecileMap { return s.IncomeTaxByDecile }},
	{InheritanceTax, "inheritance_tax_by_decile", func(s *model.Snapshot) model.DecileMap { return s.InheritanceTaxByDecile }},
}
