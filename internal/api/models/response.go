package models

import (
	"time"

	"wealth-dashboard/internal/derive"
	"wealth-dashboard/internal/model"
	"wealth-dashboard/internal/params"
	"wealth-dashboard/internal/present"
)

// ParametersResponse carries the current editable configuration.
type ParametersResponse struct {
	Parameters model.SimulationConfig `json:"parameters"`
}

// FieldsResponse lists the editable fields.
type FieldsResponse struct {
	Fields []params.FieldInfo `json:"fields"`
}

// StateResponse mirrors the dashboard state.
type StateResponse struct {
	Status     string     `json:"status"`
	RunID      string     `json:"run_id,omitempty"`
	Error      string     `json:"error,omitempty"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	HasResult  bool       `json:"has_result"`
	ResultRun  string     `json:"result_run_id,omitempty"`
}

// SimulationResponse is returned by a successful run.
type SimulationResponse struct {
	RunID     string             `json:"run_id"`
	Status    string             `json:"status"`
	Snapshots int                `json:"snapshots"`
	Dashboard *present.Dashboard `json:"dashboard"`
}

// ResultsResponse is the last published result's derived data.
type ResultsResponse struct {
	RunID       string                 `json:"run_id"`
	CompletedAt time.Time              `json:"completed_at"`
	Config      model.SimulationConfig `json:"config"`
	Series      *derive.SeriesSet      `json:"series"`
}

// ChartsResponse is the last published result's chart descriptors.
type ChartsResponse struct {
	RunID     string             `json:"run_id"`
	Dashboard *present.Dashboard `json:"dashboard"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// NewError builds an ErrorResponse.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}
