package present

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	charts "github.com/vicanso/go-charts/v2"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultWidth  = 900
	DefaultHeight = 500

	// maxRenderWorkers bounds concurrent PNG renders in RenderAll.
	maxRenderWorkers = 4
)

// Renderer draws line-chart descriptors as PNG images.
// Series colors come from the light theme palette; descriptor colors are for
// interactive front ends.
type Renderer struct {
	Width  int
	Height int
	Log    logrus.FieldLogger
}

// NewRenderer creates a Renderer. Non-positive sizes fall back to the defaults.
func NewRenderer(width, height int, log logrus.FieldLogger) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Renderer{Width: width, Height: height, Log: log}
}

// ErrNothingToRender is returned for charts with no time steps or no values at all.
var ErrNothingToRender = errors.New("chart has no data to render")

// Render draws one chart. Missing values are drawn as gaps.
func (r *Renderer) Render(cd ChartDescriptor) ([]byte, error) {
	if len(cd.X) == 0 || !hasValues(cd.Traces) {
		return nil, fmt.Errorf("render %s: %w", cd.ID, ErrNothingToRender)
	}

	xLabels := make([]string, len(cd.X))
	for i, t := range cd.X {
		xLabels[i] = strconv.Itoa(t)
	}

	values := make([][]float64, len(cd.Traces))
	names := make([]string, len(cd.Traces))
	for i, tr := range cd.Traces {
		row := make([]float64, len(cd.X))
		for j := range row {
			row[j] = charts.GetNullValue()
			if j < len(tr.Y) && tr.Y[j].Valid {
				row[j] = tr.Y[j].Float
			}
		}
		values[i] = row
		names[i] = tr.Name
	}

	seriesList := charts.NewSeriesListDataFromValues(values, charts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = names[i]
	}

	yAxis := charts.YAxisOption{DivideCount: 5}
	if cd.YRange != nil {
		yMin, yMax := cd.YRange.Min, cd.YRange.Max
		yAxis.Min = &yMin
		yAxis.Max = &yMax
	}

	split := len(xLabels)
	if split > 10 {
		split = 10
	}

	painter, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc(cd.Title, cd.YTitle),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: xLabels, BoundaryGap: charts.FalseFlag(), SplitNumber: split}),
		charts.YAxisOptionFunc(yAxis),
		charts.LegendOptionFunc(charts.LegendOption{Data: names, Top: charts.PositionTop}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(r.Width),
		charts.HeightOptionFunc(r.Height),
	)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", cd.ID, err)
	}
	return painter.Bytes()
}

func hasValues(traces []Trace) bool {
	for _, tr := range traces {
		for _, v := range tr.Y {
			if v.Valid {
				return true
			}
		}
	}
	return false
}

// Rendered is one chart's PNG.
type Rendered struct {
	ID  string
	PNG []byte
}

// RenderAll renders every chart concurrently and returns them in input order.
// Charts with nothing to plot are skipped. The first render error cancels the rest.
func (r *Renderer) RenderAll(ctx context.Context, cds []ChartDescriptor) ([]Rendered, error) {
	out := make([]*Rendered, len(cds))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxRenderWorkers)

	for i := range cds {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			png, err := r.Render(cds[i])
			if err != nil {
				if errors.Is(err, ErrNothingToRender) {
					r.Log.WithField("chart", cds[i].ID).Debug("skipping empty chart")
					return nil
				}
				return err
			}
			out[i] = &Rendered{ID: cds[i].ID, PNG: png}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rendered := make([]Rendered, 0, len(out))
	for _, o := range out {
		if o != nil {
			rendered = append(rendered, *o)
		}
	}
	return rendered, nil
}
