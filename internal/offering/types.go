package offering

import (
	"fmt"
	"strings"
)

// Request is one inbound job request. It is transient and never persisted.
type Request struct {
	OfferingID string         `json:"offering_id"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// StringParam returns the named parameter as a trimmed string. Non-string
// scalars are rendered with fmt; ok is false when the parameter is absent or
// blank.
func (r Request) StringParam(key string) (string, bool) {
	raw, present := r.Parameters[key]
	if !present || raw == nil {
		return "", false
	}
	var value string
	switch v := raw.(type) {
	case string:
		value = v
	default:
		value = fmt.Sprintf("%v", v)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

// ValidationResult reports whether a request may proceed to paid work.
// Reason is present whenever Valid is false.
type ValidationResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// Accept returns a passing validation result.
func Accept() ValidationResult {
	return ValidationResult{Valid: true}
}

// Reject returns a failing validation result with the given reason.
func Reject(reason string) ValidationResult {
	return ValidationResult{Valid: false, Reason: reason}
}

// ExecutionResult is the outcome of one execute call. Deliverable is the
// primary human-readable channel and is always populated, even on failure.
type ExecutionResult struct {
	Deliverable string         `json:"deliverable"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// Failed reports whether the execution carries an error.
func (r ExecutionResult) Failed() bool {
	return strings.TrimSpace(r.Error) != ""
}
