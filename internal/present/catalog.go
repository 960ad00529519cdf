// Package present maps derived series onto chart descriptors, PNG renderings
// and CSV exports.
package present

import (
	_ "embed"
	"fmt"

	"wealth-dashboard/internal/derive"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Catalog is the static chart specification the adapter looks charts up in.
type Catalog struct {
	DecilePalette []string    `yaml:"decile_palette"`
	Charts        []ChartSpec `yaml:"charts"`
	Heatmap       HeatmapSpec `yaml:"heatmap"`
	Cutoffs       CutoffSpec  `yaml:"cutoffs"`
}

// ChartSpec describes one line chart. Exactly one of Traces or Deciles is set.
type ChartSpec struct {
	ID      string          `yaml:"id"`
	Title   string          `yaml:"title"`
	XTitle  string          `yaml:"x_title"`
	YTitle  string          `yaml:"y_title"`
	YRange  *derive.Range   `yaml:"y_range,omitempty"`
	Deciles derive.Category `yaml:"deciles,omitempty"`
	Traces  []TraceSpec     `yaml:"traces,omitempty"`
}

type TraceSpec struct {
	Series derive.SeriesName `yaml:"series"`
	Name   string            `yaml:"name"`
	Color  string            `yaml:"color"`
}

type HeatmapSpec struct {
	Title      string `yaml:"title"`
	StepTitle  string `yaml:"step_title"`
	XTitle     string `yaml:"x_title"`
	YTitle     string `yaml:"y_title"`
	Colorscale string `yaml:"colorscale"`
	CellFormat string `yaml:"cell_format"`
}

type CutoffSpec struct {
	Title     string `yaml:"title"`
	StepTitle string `yaml:"step_title"`
	XTitle    string `yaml:"x_title"`
	YTitle    string `yaml:"y_title"`
}

// DefaultCatalog parses the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

// ParseCatalog parses and validates a catalog document.
func ParseCatalog(b []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("failed to parse chart catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that chart ids are unique and every chart has exactly one source.
func (c *Catalog) Validate() error {
	if len(c.DecilePalette) == 0 {
		return fmt.Errorf("chart catalog: decile_palette is empty")
	}
	seen := make(map[string]bool, len(c.Charts))
	for _, ch := range c.Charts {
		if ch.ID == "" {
			return fmt.Errorf("chart catalog: chart %q has no id", ch.Title)
		}
		if seen[ch.ID] {
			return fmt.Errorf("chart catalog: duplicate chart id %q", ch.ID)
		}
		seen[ch.ID] = true
		if (ch.Deciles == "") == (len(ch.Traces) == 0) {
			return fmt.Errorf("chart catalog: chart %q needs either traces or deciles", ch.ID)
		}
		if ch.YRange != nil && ch.YRange.Min >= ch.YRange.Max {
			return fmt.Errorf("chart catalog: chart %q has empty y_range", ch.ID)
		}
	}
	return nil
}

// Chart returns the catalog entry with the given id.
func (c *Catalog) Chart(id string) (ChartSpec, bool) {
	for _, ch := range c.Charts {
		if ch.ID == id {
			return ch, true
		}
	}
	return ChartSpec{}, false
}
