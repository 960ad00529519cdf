package handlers

import (
	"errors"
	"net/http"

	"wealth-dashboard/internal/api/models"
	"wealth-dashboard/internal/dashboard"
	"wealth-dashboard/internal/data"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SimulationHandler runs simulations and reports the dashboard state
type SimulationHandler struct {
	dash *dashboard.Dashboard
	log  logrus.FieldLogger
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(dash *dashboard.Dashboard, log logrus.FieldLogger) *SimulationHandler {
	return &SimulationHandler{dash: dash, log: log}
}

// RunSimulation handles POST /api/v1/simulate
func (h *SimulationHandler) RunSimulation(c *gin.Context) {
	st, err := h.dash.Run(c.Request.Context())
	if err != nil {
		h.respondRunError(c, st, err)
		return
	}

	c.JSON(http.StatusOK, models.SimulationResponse{
		RunID:     st.RunID,
		Status:    string(st.Status),
		Snapshots: len(st.Result.Snapshots),
		Dashboard: st.Result.Dashboard,
	})
}

func (h *SimulationHandler) respondRunError(c *gin.Context, st dashboard.State, err error) {
	switch {
	case errors.Is(err, dashboard.ErrSuperseded):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "SUPERSEDED",
				Message: "A newer simulation run replaced this one.",
				Details: map[string]interface{}{"current_run_id": st.RunID},
			},
		})
	case data.IsSimulationFailure(err):
		details := map[string]interface{}{"run_id": st.RunID}
		var sErr *data.ServiceError
		if errors.As(err, &sErr) {
			details["service_status"] = sErr.StatusCode
			details["service_code"] = sErr.Code
		}
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "SIMULATION_FAILED",
				Message: dashboard.FailureMessage,
				Details: details,
			},
		})
	default:
		h.log.WithError(err).Error("unexpected simulation error")
		c.JSON(http.StatusInternalServerError, models.NewError("INTERNAL_ERROR", dashboard.FailureMessage))
	}
}

// GetState handles GET /api/v1/state
func (h *SimulationHandler) GetState(c *gin.Context) {
	st := h.dash.State()
	resp := models.StateResponse{
		Status:    string(st.Status),
		RunID:     st.RunID,
		Error:     st.Error,
		HasResult: st.Result != nil,
	}
	if !st.StartedAt.IsZero() {
		resp.StartedAt = &st.StartedAt
	}
	if !st.FinishedAt.IsZero() {
		resp.FinishedAt = &st.FinishedAt
	}
	if st.Result != nil {
		resp.ResultRun = st.Result.RunID
	}
	c.JSON(http.StatusOK, resp)
}
