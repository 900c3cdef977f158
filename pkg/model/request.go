package model

import (
	"time"

	"github.com/flightops/skymarshal/pkg/config"
)

// RequestRecord is the persisted row representing a pending or completed
// orchestration request.
type RequestRecord struct {
	RequestID string               `json:"request_id"`
	Status    config.RequestStatus `json:"status"`
	Prompt    string               `json:"prompt"`
	SessionID string               `json:"session_id,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
	TTL       time.Time            `json:"ttl"`

	// Populated on status=complete.
	Assessment       *ArbitratorOutput `json:"assessment,omitempty"`
	ExecutionTimeMS  int64             `json:"execution_time_ms,omitempty"`

	// Populated on status=error.
	Error     string            `json:"error,omitempty"`
	ErrorCode config.ErrorCode  `json:"error_code,omitempty"`
}

// SessionInteraction is one append-only entry in a session's history.
type SessionInteraction struct {
	TimestampMS     int64  `json:"timestamp"`
	RequestID       string `json:"request_id"`
	Prompt          string `json:"prompt"`
	Response        string `json:"response"`
	Status          config.RequestStatus `json:"status"`
	ExecutionTimeMS int64  `json:"execution_time_ms"`
	ErrorMessage    string `json:"error_message,omitempty"`
}

// SessionRecord is the persisted, append-only interaction history for a
// session.
type SessionRecord struct {
	SessionID    string                `json:"session_id"`
	Interactions []SessionInteraction  `json:"interactions"` // sorted by TimestampMS descending
	TTL          time.Time             `json:"ttl"`
}
