// Package audit records every served prediction request. Audit writes
// are observational: a sink failure is logged by the caller and never
// fails the prediction that produced it.
package audit

import (
	"context"
	"encoding/json"
	"time"
)

// Outcome classifies how a prediction request ended.
type Outcome string

const (
	// OutcomeServed means a prediction was computed and returned.
	OutcomeServed Outcome = "served"
	// OutcomeRejected means the request failed validation or scoring.
	OutcomeRejected Outcome = "rejected"
	// OutcomeUnavailable means no trained model was loaded.
	OutcomeUnavailable Outcome = "unavailable"
)

// Record is one audit row, one per scored (or refused) employee record.
type Record struct {
	Time         time.Time       `json:"time"`
	EmployeeID   string          `json:"employee_id"`
	ModelVersion string          `json:"model_version,omitempty"`
	Input        json.RawMessage `json:"input,omitempty"`
	Probability  float64         `json:"probability"`
	Class        int             `json:"predicted_class"`
	Outcome      Outcome         `json:"outcome"`
	Error        string          `json:"error,omitempty"`
}

// Sink is a destination for audit records.
type Sink interface {
	Write(ctx context.Context, rec Record) error
	Close() error
}
