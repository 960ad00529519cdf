package present

import (
	"fmt"
	"math"

	"wealth-dashboard/internal/derive"
	"wealth-dashboard/internal/model"
)

// Dashboard is everything needed to draw one result.
type Dashboard struct {
	Charts       []ChartDescriptor   `json:"charts"`
	Heatmaps     []HeatmapDescriptor `json:"heatmaps"`
	CutoffCharts []CutoffChart       `json:"cutoffCharts"`
}

// ChartDescriptor is a renderable line chart. Every trace shares X.
type ChartDescriptor struct {
	ID     string        `json:"id"`
	Title  string        `json:"title"`
	XTitle string        `json:"xTitle"`
	YTitle string        `json:"yTitle"`
	YRange *derive.Range `json:"yRange,omitempty"`
	X      []int         `json:"x"`
	Traces []Trace       `json:"traces"`
}

// Trace is one line. A Y entry without a value is drawn as a gap.
type Trace struct {
	Name  string            `json:"name"`
	Color string            `json:"color,omitempty"`
	Y     []model.NullFloat `json:"y"`
}

// HeatmapDescriptor is one step's transition matrix.
type HeatmapDescriptor struct {
	Time       int         `json:"time"`
	Title      string      `json:"title"`
	Subtitle   string      `json:"subtitle"`
	XTitle     string      `json:"xTitle"`
	YTitle     string      `json:"yTitle"`
	Colorscale string      `json:"colorscale"`
	X          []string    `json:"x"`
	Y          []string    `json:"y"`
	Z          [][]float64 `json:"z"`
	Text       [][]string  `json:"text"`
}

// CutoffChart is one step's decile wealth bands, richest decile on top.
type CutoffChart struct {
	Time     int          `json:"time"`
	Title    string       `json:"title"`
	Subtitle string       `json:"subtitle"`
	XTitle   string       `json:"xTitle"`
	YTitle   string       `json:"yTitle"`
	Bands    []CutoffBand `json:"bands"`
}

type CutoffBand struct {
	Name   string  `json:"name"`
	Decile int     `json:"decile"`
	Y      int     `json:"y"`
	Lower  float64 `json:"lower"`
	Upper  float64 `json:"upper"`
	Label  string  `json:"label"`
}

// Adapter looks up chart specs and formats derived data. It does no math
// beyond label formatting.
type Adapter struct {
	catalog *Catalog
}

// NewAdapter creates an adapter over catalog.
func NewAdapter(catalog *Catalog) *Adapter {
	return &Adapter{catalog: catalog}
}

// Catalog returns the adapter's catalog.
func (a *Adapter) Catalog() *Catalog { return a.catalog }

// Build produces descriptors for every catalog chart plus one heatmap and
// one cutoff chart per time step.
func (a *Adapter) Build(set *derive.SeriesSet) *Dashboard {
	d := &Dashboard{
		Charts:       make([]ChartDescriptor, 0, len(a.catalog.Charts)),
		Heatmaps:     make([]HeatmapDescriptor, 0, len(set.Matrices)),
		CutoffCharts: make([]CutoffChart, 0, len(set.Cutoffs)),
	}
	for _, spec := range a.catalog.Charts {
		d.Charts = append(d.Charts, a.chart(spec, set))
	}
	for _, m := range set.Matrices {
		d.Heatmaps = append(d.Heatmaps, a.heatmap(m))
	}
	for _, c := range set.Cutoffs {
		d.CutoffCharts = append(d.CutoffCharts, a.cutoffChart(c))
	}
	return d
}

// Chart builds the descriptor for one catalog chart.
func (a *Adapter) Chart(id string, set *derive.SeriesSet) (ChartDescriptor, bool) {
	spec, ok := a.catalog.Chart(id)
	if !ok {
		return ChartDescriptor{}, false
	}
	return a.chart(spec, set), true
}

func (a *Adapter) chart(spec ChartSpec, set *derive.SeriesSet) ChartDescriptor {
	cd := ChartDescriptor{
		ID:     spec.ID,
		Title:  spec.Title,
		XTitle: spec.XTitle,
		YTitle: spec.YTitle,
		YRange: yRange(spec),
		X:      append([]int{}, set.Time...),
		Traces: []Trace{},
	}

	if spec.Deciles != "" {
		for i, ds := range set.Deciles[spec.Deciles] {
			cd.Traces = append(cd.Traces, Trace{
				Name:  fmt.Sprintf("Decile %d", ds.Decile),
				Color: a.catalog.DecilePalette[i%len(a.catalog.DecilePalette)],
				Y:     pointValues(ds.Points),
			})
		}
		return cd
	}

	for _, ts := range spec.Traces {
		cd.Traces = append(cd.Traces, Trace{
			Name:  ts.Name,
			Color: ts.Color,
			Y:     pointValues(set.Scalar(ts.Series)),
		})
	}
	return cd
}

// yRange prefers the catalog range, then the display range every trace agrees on.
func yRange(spec ChartSpec) *derive.Range {
	if spec.YRange != nil {
		r := *spec.YRange
		return &r
	}
	if len(spec.Traces) == 0 {
		return nil
	}
	first, ok := derive.DisplayRange(spec.Traces[0].Series)
	if !ok {
		return nil
	}
	for _, ts := range spec.Traces[1:] {
		if r, ok := derive.DisplayRange(ts.Series); !ok || r != first {
			return nil
		}
	}
	return &first
}

func pointValues(pts []derive.Point) []model.NullFloat {
	out := make([]model.NullFloat, len(pts))
	for i, p := range pts {
		out[i] = p.Value
	}
	return out
}

func (a *Adapter) heatmap(m derive.Matrix) HeatmapDescriptor {
	spec := a.catalog.Heatmap
	h := HeatmapDescriptor{
		Time:       m.Time,
		Title:      spec.Title,
		Subtitle:   fmt.Sprintf(spec.StepTitle, m.Time),
		XTitle:     spec.XTitle,
		YTitle:     spec.YTitle,
		Colorscale: spec.Colorscale,
		X:          decileLabels(m.Cols),
		Y:          decileLabels(m.Rows),
		Z:          make([][]float64, len(m.Cells)),
		Text:       make([][]string, len(m.Cells)),
	}
	for i, row := range m.Cells {
		h.Z[i] = append([]float64{}, row...)
		text := make([]string, len(row))
		for j, v := range row {
			text[j] = fmt.Sprintf(spec.CellFormat, v)
		}
		h.Text[i] = text
	}
	return h
}

func (a *Adapter) cutoffChart(c derive.CutoffSet) CutoffChart {
	spec := a.catalog.Cutoffs
	cc := CutoffChart{
		Time:     c.Time,
		Title:    spec.Title,
		Subtitle: fmt.Sprintf(spec.StepTitle, c.Time),
		XTitle:   spec.XTitle,
		YTitle:   spec.YTitle,
		Bands:    make([]CutoffBand, 0, len(c.Bands)),
	}
	for _, b := range c.Bands {
		cc.Bands = append(cc.Bands, CutoffBand{
			Name:   fmt.Sprintf("Decile %d", b.Decile),
			Decile: b.Decile,
			Y:      model.NumDeciles - b.Decile + 1,
			Lower:  b.Lower,
			Upper:  b.Upper,
			Label:  fmt.Sprintf("%d–%d", roundHalfUp(b.Lower), roundHalfUp(b.Upper)),
		})
	}
	return cc
}

func decileLabels(ds []model.Decile) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.String()
	}
	return out
}

func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
