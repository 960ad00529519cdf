package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"wealth-dashboard/internal/api/models"
	"wealth-dashboard/internal/dashboard"
	"wealth-dashboard/internal/present"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// maxChartSize bounds the PNG dimensions a client may request.
const maxChartSize = 4000

// ResultsHandler serves the last published result: derived series, chart
// descriptors, PNG renderings and CSV exports.
type ResultsHandler struct {
	dash     *dashboard.Dashboard
	renderer *present.Renderer
	cache    *present.ChartCache
	log      logrus.FieldLogger
}

// NewResultsHandler creates a new results handler. cache may be nil.
func NewResultsHandler(dash *dashboard.Dashboard, renderer *present.Renderer, cache *present.ChartCache, log logrus.FieldLogger) *ResultsHandler {
	return &ResultsHandler{dash: dash, renderer: renderer, cache: cache, log: log}
}

func (h *ResultsHandler) result(c *gin.Context) (*dashboard.Result, bool) {
	res, ok := h.dash.Result()
	if !ok {
		c.JSON(http.StatusNotFound, models.NewError("NO_RESULTS", "No simulation has completed yet."))
		return nil, false
	}
	return res, true
}

// GetResults handles GET /api/v1/results
func (h *ResultsHandler) GetResults(c *gin.Context) {
	res, ok := h.result(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.ResultsResponse{
		RunID:       res.RunID,
		CompletedAt: res.CompletedAt,
		Config:      res.Config,
		Series:      res.Series,
	})
}

// ListCharts handles GET /api/v1/charts
func (h *ResultsHandler) ListCharts(c *gin.Context) {
	res, ok := h.result(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.ChartsResponse{RunID: res.RunID, Dashboard: res.Dashboard})
}

// GetChartPNG handles GET /api/v1/charts/:id/png?width=&height=
func (h *ResultsHandler) GetChartPNG(c *gin.Context) {
	res, ok := h.result(c)
	if !ok {
		return
	}

	width, err := sizeParam(c, "width", h.renderer.Width)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewError("INVALID_SIZE", err.Error()))
		return
	}
	height, err := sizeParam(c, "height", h.renderer.Height)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewError("INVALID_SIZE", err.Error()))
		return
	}

	id := c.Param("id")
	cd, ok := h.dash.Adapter().Chart(id, res.Series)
	if !ok {
		c.JSON(http.StatusNotFound, models.NewError("UNKNOWN_CHART", "unknown chart: "+id))
		return
	}

	key := present.CacheKey(res.RunID, id, width, height)
	if png, ok := h.cache.Get(key); ok {
		c.Data(http.StatusOK, "image/png", png)
		return
	}

	r := *h.renderer
	r.Width, r.Height = width, height
	png, err := r.Render(cd)
	if err != nil {
		if errors.Is(err, present.ErrNothingToRender) {
			c.JSON(http.StatusUnprocessableEntity, models.NewError("NO_DATA", "This chart has no data for the current result."))
			return
		}
		h.log.WithError(err).WithField("chart", id).Error("chart render failed")
		c.JSON(http.StatusInternalServerError, models.NewError("RENDER_ERROR", err.Error()))
		return
	}
	h.cache.Set(key, png)
	c.Data(http.StatusOK, "image/png", png)
}

// ExportSeriesCSV handles GET /api/v1/export/series.csv
func (h *ResultsHandler) ExportSeriesCSV(c *gin.Context) {
	res, ok := h.result(c)
	if !ok {
		return
	}
	h.writeCSV(c, fmt.Sprintf("series-%s.csv", res.RunID), func() error {
		return present.WriteSeriesCSV(c.Writer, res.Series)
	})
}

// ExportMatricesCSV handles GET /api/v1/export/matrices.csv
func (h *ResultsHandler) ExportMatricesCSV(c *gin.Context) {
	res, ok := h.result(c)
	if !ok {
		return
	}
	h.writeCSV(c, fmt.Sprintf("matrices-%s.csv", res.RunID), func() error {
		return present.WriteMatricesCSV(c.Writer, res.Series)
	})
}

func (h *ResultsHandler) writeCSV(c *gin.Context, filename string, write func() error) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)
	if err := write(); err != nil {
		// Headers are already sent; all we can do is log.
		h.log.WithError(err).WithField("file", filename).Error("csv export failed")
		_ = c.Error(err)
	}
}

func sizeParam(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 || v > maxChartSize {
		return 0, fmt.Errorf("%s must be an integer between 1 and %d", name, maxChartSize)
	}
	return v, nil
}
