// Package derive turns a simulation result sequence into the series, matrices
// and cutoff bands the dashboard plots.
//
// Derivation is pure: the same snapshots always yield the same SeriesSet, and
// missing optional fields never fail a run. Every absent value is resolved by
// the policy table in policy.go.
package derive

import (
	"fmt"

	"wealth-dashboard/internal/model"
)

// LabelPolicy decides which decile labels get a series.
type LabelPolicy int

const (
	// LabelsFromFirstSnapshot uses the labels of the first snapshot's map only.
	// A decile that first appears later is not picked up. This matches what
	// existing dashboards display.
	LabelsFromFirstSnapshot LabelPolicy = iota
	// LabelsFromAllSnapshots uses the union of labels across the sequence.
	LabelsFromAllSnapshots
)

func (p LabelPolicy) String() string {
	switch p {
	case LabelsFromFirstSnapshot:
		return "first_snapshot"
	case LabelsFromAllSnapshots:
		return "all_snapshots"
	default:
		return fmt.Sprintf("LabelPolicy(%d)", int(p))
	}
}

// ParseLabelPolicy parses the config form of a label policy. Empty means the default.
func ParseLabelPolicy(s string) (LabelPolicy, error) {
	switch s {
	case "", "first_snapshot":
		return LabelsFromFirstSnapshot, nil
	case "all_snapshots":
		return LabelsFromAllSnapshots, nil
	}
	return 0, fmt.Errorf("unknown decile label policy %q (want first_snapshot or all_snapshots)", s)
}

// Options configures an Engine.
type Options struct {
	Labels LabelPolicy
}

// Engine derives SeriesSets. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	opts Options
}

// New creates an Engine.
func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Derive builds the SeriesSet for snaps. The snapshots are not modified and
// their order is trusted as the time order.
func (e *Engine) Derive(snaps []model.Snapshot) *SeriesSet {
	set := &SeriesSet{
		Time:     make([]int, len(snaps)),
		Scalars:  make(map[SeriesName][]Point, len(policies)+3),
		Deciles:  make(map[Category][]DecileSeries, len(decileSources)),
		Matrices: make([]Matrix, len(snaps)),
		Cutoffs:  make([]CutoffSet, len(snaps)),
	}
	for i := range snaps {
		set.Time[i] = snaps[i].Time
	}

	for _, p := range policies {
		pts := make([]Point, len(snaps))
		for i := range snaps {
			pts[i] = Point{Time: snaps[i].Time, Value: p.Value(&snaps[i])}
		}
		set.Scalars[p.Name] = pts
	}

	first, tenth, bottom := computedShares(snaps)
	set.Scalars[ComputedShareFirstDecile] = first
	set.Scalars[ComputedShareTenthDecile] = tenth
	set.Scalars[ComputedShareBottom50] = bottom

	for _, src := range decileSources {
		set.Deciles[src.Category] = e.decileSeries(snaps, src)
	}

	for i := range snaps {
		set.Matrices[i] = buildMatrix(snaps[i].Time, snaps[i].Matrix())
		set.Cutoffs[i] = buildCutoffs(snaps[i].Time, snaps[i].Cutoffs())
	}
	return set
}

func (e *Engine) decileSeries(snaps []model.Snapshot, src decileSource) []DecileSeries {
	labels := e.knownLabels(snaps, src)
	out := make([]DecileSeries, 0, len(labels))
	for _, d := range labels {
		pts := make([]Point, len(snaps))
		for i := range snaps {
			pts[i] = Point{Time: snaps[i].Time, Value: model.Some(src.get(&snaps[i]).ValueOr(d, 0))}
		}
		out = append(out, DecileSeries{Decile: d, Points: pts})
	}
	return out
}

func (e *Engine) knownLabels(snaps []model.Snapshot, src decileSource) []model.Decile {
	if len(snaps) == 0 {
		return nil
	}
	if e.opts.Labels != LabelsFromAllSnapshots {
		return src.get(&snaps[0]).Labels()
	}
	seen := make(map[model.Decile]bool)
	var labels []model.Decile
	for i := range snaps {
		for d := range src.get(&snaps[i]) {
			if !seen[d] {
				seen[d] = true
				labels = append(labels, d)
			}
		}
	}
	return model.SortDeciles(labels)
}

// computedShares recomputes the headline wealth shares from the per-decile
// wealth map, for results that carry wealth_by_decile but no share fields.
func computedShares(snaps []model.Snapshot) (first, tenth, bottom []Point) {
	first = make([]Point, len(snaps))
	tenth = make([]Point, len(snaps))
	bottom = make([]Point, len(snaps))
	for i := range snaps {
		s := &snaps[i]
		total := model.NullFrom(s.TotalWealth).Or(0)

		first[i] = Point{Time: s.Time, Value: model.Some(shareOf(s.WealthByDecile, 1, total))}
		tenth[i] = Point{Time: s.Time, Value: model.Some(shareOf(s.WealthByDecile, model.NumDeciles, total))}

		var sum float64
		for d := model.Decile(1); d <= 5; d++ {
			sum += s.WealthByDecile.ValueOr(d, 0)
		}
		denom := total
		if denom == 0 {
			denom = 1
		}
		bottom[i] = Point{Time: s.Time, Value: model.Some(sum / denom)}
	}
	return first, tenth, bottom
}

func shareOf(m model.DecileMap, d model.Decile, total float64) float64 {
	w := m.ValueOr(d, 0)
	if w == 0 || total == 0 {
		return 0
	}
	return w / total
}

// buildMatrix lays out one step's transition matrix. Rows are the matrix's own
// origin labels and columns come from the first row, so the shape may differ
// between steps.
func buildMatrix(t int, tm model.TransitionMatrix) Matrix {
	rows := tm.Rows()
	m := Matrix{Time: t, Rows: rows, Cols: []model.Decile{}, Cells: make([][]float64, len(rows))}
	if len(rows) == 0 {
		return m
	}
	m.Cols = tm[rows[0]].Labels()
	for i, r := range rows {
		cells := make([]float64, len(m.Cols))
		for j, c := range m.Cols {
			cells[j] = tm[r].ValueOr(c, 0)
		}
		m.Cells[i] = cells
	}
	return m
}

func buildCutoffs(t int, cutoffs []model.Cutoff) CutoffSet {
	bands := make([]model.Cutoff, len(cutoffs))
	copy(bands, cutoffs)
	return CutoffSet{Time: t, Bands: bands}
}
