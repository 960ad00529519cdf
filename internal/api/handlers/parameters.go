package handlers

import (
	"net/http"
	"strconv"

	"wealth-dashboard/internal/api/models"
	"wealth-dashboard/internal/params"

	"github.com/gin-gonic/gin"
)

// ParametersHandler handles the editable simulation parameters
type ParametersHandler struct {
	params *params.Model
}

// NewParametersHandler creates a new parameters handler
func NewParametersHandler(p *params.Model) *ParametersHandler {
	return &ParametersHandler{params: p}
}

// GetParameters handles GET /api/v1/parameters
func (h *ParametersHandler) GetParameters(c *gin.Context) {
	c.JSON(http.StatusOK, models.ParametersResponse{Parameters: h.params.Config()})
}

// ListFields handles GET /api/v1/parameters/fields
func (h *ParametersHandler) ListFields(c *gin.Context) {
	c.JSON(http.StatusOK, models.FieldsResponse{Fields: params.Fields()})
}

// SetScalar handles PUT /api/v1/parameters/scalar/:field
//
// Input that does not coerce to a number leaves the field unchanged; the
// response always carries the resulting configuration.
func (h *ParametersHandler) SetScalar(c *gin.Context) {
	field := c.Param("field")
	if !params.IsScalar(field) {
		c.JSON(http.StatusNotFound, models.NewError("UNKNOWN_FIELD", "unknown scalar field: "+field))
		return
	}

	var req models.SetValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewError("INVALID_REQUEST", err.Error()))
		return
	}

	cfg := h.params.SetScalar(params.ScalarField(field), req.Raw())
	c.JSON(http.StatusOK, models.ParametersResponse{Parameters: cfg})
}

// SetDecileValue handles PUT /api/v1/parameters/decile/:field/:index
//
// An index outside 0..9 is a no-op, like unparseable input.
func (h *ParametersHandler) SetDecileValue(c *gin.Context) {
	field := c.Param("field")
	if !params.IsDecile(field) {
		c.JSON(http.StatusNotFound, models.NewError("UNKNOWN_FIELD", "unknown decile field: "+field))
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewError("INVALID_INDEX", "index must be an integer"))
		return
	}

	var req models.SetValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewError("INVALID_REQUEST", err.Error()))
		return
	}

	cfg := h.params.SetDecileValue(params.DecileField(field), index, req.Raw())
	c.JSON(http.StatusOK, models.ParametersResponse{Parameters: cfg})
}
