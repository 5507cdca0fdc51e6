// Package interactions stores one audit record per answered question.
package interactions

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Record is written once per /ask and never updated.
type Record struct {
	ID          string          `json:"id"`
	Timestamp   time.Time       `json:"timestamp"`
	RemoteAddr  string          `json:"remote_addr"`
	Question    string          `json:"question"`
	Answer      string          `json:"response"`
	Model       string          `json:"model_used"`
	DurationMS  int64           `json:"duration_ms"`
	Diagnostics json.RawMessage `json:"diagnostics,omitempty"`
}

// NewRecord stamps a record with a fresh id and the current UTC time.
// Diagnostics that fail to marshal are dropped rather than failing the record.
func NewRecord(remoteAddr, question, answer, model string, duration time.Duration, diagnostics interface{}) Record {
	r := Record{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC(),
		RemoteAddr: remoteAddr,
		Question:   question,
		Answer:     answer,
		Model:      model,
		DurationMS: duration.Milliseconds(),
	}
	if diagnostics != nil {
		if raw, err := json.Marshal(diagnostics); err == nil {
			r.Diagnostics = raw
		}
	}
	return r
}

// Sink is one append-only store of records.
type Sink interface {
	Name() string
	Write(ctx context.Context, r Record) error
}

// Reader is implemented by sinks that can serve history.
type Reader interface {
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]Record, error)
}
