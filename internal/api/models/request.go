package models

import (
	"encoding/json"
	"strings"
)

// SetValueRequest is the body of the parameter edit endpoints.
// Value may be a JSON string ("0.12") or a bare number (0.12); either way it
// is handed to the parameter model as text and coerced there.
type SetValueRequest struct {
	Value json.RawMessage `json:"value" binding:"required"`
}

// Raw returns the value as the text a form field would hold.
func (r SetValueRequest) Raw() string {
	var s string
	if err := json.Unmarshal(r.Value, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(r.Value))
}
