package present

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"wealth-dashboard/internal/derive"
	"wealth-dashboard/internal/model"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func sampleSet(t *testing.T) *derive.SeriesSet {
	t.Helper()
	snaps, err := model.DecodeSnapshots([]byte(`[
		{"time": 0, "total_wealth": 100, "wealth_share_1st_decile": 0.02,
		 "wealth_by_decile": {"1": 2, "2": 98},
		 "decile_transition_matrix": {"matrix": {"1": {"1": 87.54, "2": 12.46}, "2": {"1": 5, "2": 95}}},
		 "decile_cutoffs": {"cutoffs": [{"decile": 1, "lower": 0, "upper": 10.5}, {"decile": 10, "lower": 990.4, "upper": 5000}]}},
		{"time": 1, "total_wealth": 110, "total_income_tax_collected": 7,
		 "wealth_by_decile": {"1": 3}}
	]`))
	require.NoError(t, err)
	return derive.New(derive.Options{}).Derive(snaps)
}

func mustCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := DefaultCatalog()
	require.NoError(t, err)
	return c
}

func TestDefaultCatalog_CoversEverySeries(t *testing.T) {
	c := mustCatalog(t)

	plotted := make(map[derive.SeriesName]bool)
	categories := make(map[derive.Category]bool)
	for _, ch := range c.Charts {
		for _, tr := range ch.Traces {
			plotted[tr.Series] = true
		}
		if ch.Deciles != "" {
			categories[ch.Deciles] = true
		}
	}

	for _, p := range derive.Policies() {
		assert.True(t, plotted[p.Name], "series %s has no chart", p.Name)
	}
	assert.True(t, plotted[derive.ComputedShareBottom50])
	for _, cat := range derive.Categories() {
		assert.True(t, categories[cat], "category %s has no chart", cat)
	}
}

func TestParseCatalog_Rejects(t *testing.T) {
	tests := map[string]string{
		"duplicate id": `
decile_palette: [red]
charts:
  - {id: a, deciles: wealth}
  - {id: a, deciles: wealth}`,
		"no source": `
decile_palette: [red]
charts:
  - {id: a}`,
		"both sources": `
decile_palette: [red]
charts:
  - {id: a, deciles: wealth, traces: [{series: totalWealth}]}`,
		"empty range": `
decile_palette: [red]
charts:
  - {id: a, deciles: wealth, y_range: {min: 1, max: 1}}`,
		"no palette": `
charts:
  - {id: a, deciles: wealth}`,
		"not yaml": `charts: [`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestBuild_ChartsFollowCatalog(t *testing.T) {
	c := mustCatalog(t)
	d := NewAdapter(c).Build(sampleSet(t))

	require.Len(t, d.Charts, len(c.Charts))
	for i, cd := range d.Charts {
		assert.Equal(t, c.Charts[i].ID, cd.ID)
		assert.Equal(t, []int{0, 1}, cd.X)
	}
}

func TestChart_DecileTraces(t *testing.T) {
	cd, ok := NewAdapter(mustCatalog(t)).Chart("wealth_by_decile", sampleSet(t))
	require.True(t, ok)

	require.Len(t, cd.Traces, 2)
	assert.Equal(t, "Decile 1", cd.Traces[0].Name)
	assert.Equal(t, "Decile 2", cd.Traces[1].Name)
	assert.Equal(t, []model.NullFloat{model.Some(98), model.Some(0)}, cd.Traces[1].Y)
	assert.NotEqual(t, cd.Traces[0].Color, cd.Traces[1].Color)
}

func TestChart_NoDataStaysNull(t *testing.T) {
	cd, ok := NewAdapter(mustCatalog(t)).Chart("total_income_tax", sampleSet(t))
	require.True(t, ok)

	require.Len(t, cd.Traces, 1)
	assert.Equal(t, []model.NullFloat{model.NoData(), model.Some(7)}, cd.Traces[0].Y)
}

func TestChart_YRange(t *testing.T) {
	a := NewAdapter(mustCatalog(t))
	set := sampleSet(t)

	// catalog range
	cd, _ := a.Chart("gini", set)
	require.NotNil(t, cd.YRange)
	assert.Equal(t, derive.Range{Min: 0, Max: 1}, *cd.YRange)

	// display-range contract
	cd, _ = a.Chart("tax_share_composition", set)
	require.NotNil(t, cd.YRange)
	assert.Equal(t, derive.Range{Min: 0, Max: 0.8}, *cd.YRange)

	cd, _ = a.Chart("computed_wealth_share", set)
	require.NotNil(t, cd.YRange)
	assert.Equal(t, derive.Range{Min: 0, Max: 1}, *cd.YRange)

	cd, _ = a.Chart("wealth_ratios", set)
	assert.Nil(t, cd.YRange)

	_, ok := a.Chart("nope", set)
	assert.False(t, ok)
}

func TestBuild_Heatmaps(t *testing.T) {
	d := NewAdapter(mustCatalog(t)).Build(sampleSet(t))

	require.Len(t, d.Heatmaps, 2)
	h := d.Heatmaps[0]
	assert.Equal(t, "Final Decile", h.XTitle)
	assert.Equal(t, "Original Decile", h.YTitle)
	assert.Equal(t, "YlGnBu", h.Colorscale)
	assert.Equal(t, "Transition Matrix - Time Step 0", h.Subtitle)
	assert.Equal(t, []string{"1", "2"}, h.X)
	assert.Equal(t, [][]string{{"87.5%", "12.5%"}, {"5.0%", "95.0%"}}, h.Text)

	assert.Empty(t, d.Heatmaps[1].Z)
}

func TestBuild_CutoffBands(t *testing.T) {
	d := NewAdapter(mustCatalog(t)).Build(sampleSet(t))

	require.Len(t, d.CutoffCharts, 2)
	bands := d.CutoffCharts[0].Bands
	require.Len(t, bands, 2)
	assert.Equal(t, 10, bands[0].Y)
	assert.Equal(t, "0–11", bands[0].Label)
	assert.Equal(t, 1, bands[1].Y)
	assert.Equal(t, "990–5000", bands[1].Label)
	assert.Equal(t, "Decile 10", bands[1].Name)

	assert.NotNil(t, d.CutoffCharts[1].Bands)
	assert.Empty(t, d.CutoffCharts[1].Bands)
}

func TestRender_ProducesPNG(t *testing.T) {
	cd, ok := NewAdapter(mustCatalog(t)).Chart("total_wealth", sampleSet(t))
	require.True(t, ok)
	log, _ := test.NewNullLogger()

	png, err := NewRenderer(400, 300, log).Render(cd)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestRender_NothingToPlot(t *testing.T) {
	log, _ := test.NewNullLogger()
	r := NewRenderer(0, 0, log)

	_, err := r.Render(ChartDescriptor{ID: "empty", X: []int{0}, Traces: []Trace{{Name: "x", Y: []model.NullFloat{model.NoData()}}}})

	assert.True(t, errors.Is(err, ErrNothingToRender))
	assert.Equal(t, DefaultWidth, r.Width)
}

func TestRenderAll_SkipsEmptyAndKeepsOrder(t *testing.T) {
	a := NewAdapter(mustCatalog(t))
	set := sampleSet(t)
	wealth, _ := a.Chart("total_wealth", set)
	ratios, _ := a.Chart("wealth_ratios", set) // no ratio data
	shares, _ := a.Chart("wealth_share", set)
	log, _ := test.NewNullLogger()

	out, err := NewRenderer(400, 300, log).RenderAll(context.Background(), []ChartDescriptor{wealth, ratios, shares})

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "total_wealth", out[0].ID)
	assert.Equal(t, "wealth_share", out[1].ID)
}

func TestChartCache_Expiry(t *testing.T) {
	c := NewChartCache(time.Minute)
	defer c.Close()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	key := CacheKey("run", "gini", 900, 500)
	c.Set(key, []byte("png"))

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, []byte("png"), got)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(key)
	assert.False(t, ok)

	c.evictExpired()
	assert.Equal(t, 0, c.Len())
}

func TestChartCache_KeysAndClose(t *testing.T) {
	assert.NotEqual(t, CacheKey("a", "gini", 900, 500), CacheKey("b", "gini", 900, 500))
	assert.NotEqual(t, CacheKey("a", "gini", 900, 500), CacheKey("a", "gini", 800, 500))

	c := NewChartCache(0)
	c.Set("k", []byte{1})
	c.Clear()
	assert.Equal(t, 0, c.Len())
	c.Close()
	c.Close()

	var nilCache *ChartCache
	_, ok := nilCache.Get("k")
	assert.False(t, ok)
}

func TestWriteSeriesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSeriesCSV(&buf, sampleSet(t)))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	header := rows[0]
	col := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		t.Fatalf("column %s missing from %v", name, header)
		return -1
	}
	assert.Equal(t, "time", header[0])
	assert.Equal(t, "", rows[1][col("totalIncomeTaxCollected")])
	assert.Equal(t, "7.000000", rows[2][col("totalIncomeTaxCollected")])
	assert.Equal(t, "0.000000", rows[1][col("totalWealthTaxCollected")])
	assert.Equal(t, "0.000000", rows[2][col("wealth_d2")])
}

func TestWriteMatricesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMatricesCSV(&buf, sampleSet(t)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "time,from_decile,to_decile,percent", lines[0])
	assert.Equal(t, "0,1,2,12.460000", lines[2])
}

func TestWriteCSVFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	set := sampleSet(t)

	require.NoError(t, WriteSeriesCSVFile(filepath.Join(dir, "series.csv"), set))
	require.NoError(t, WriteMatricesCSVFile(filepath.Join(dir, "matrices.csv"), set))

	_, err := os.Stat(filepath.Join(dir, "series.csv"))
	assert.NoError(t, err)
}
