package model

import "fmt"

// ValidationError reports a structurally invalid configuration field.
// User edits never produce one: range checks are left to the simulation service.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// MalformedInputError reports a result sequence that cannot be derived from,
// e.g. a snapshot without a time value. Index is -1 when the whole document is bad.
type MalformedInputError struct {
	Index  int
	Field  string
	Reason string
	Err    error
}

func (e *MalformedInputError) Error() string {
	msg := e.Reason
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Index >= 0 {
		msg = fmt.Sprintf("snapshot %d: %s", e.Index, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return "malformed simulation result: " + msg
}

func (e *MalformedInputError) Unwrap() error { return e.Err }
