package api

import (
	"time"

	"github.com/flightops/skymarshal/pkg/config"
	"github.com/flightops/skymarshal/pkg/model"
	"github.com/flightops/skymarshal/pkg/queue"
)

// InvokeResponse is returned by POST /invoke (202 Accepted,
// the client then polls /status/{request_id}).
type InvokeResponse struct {
	Status    string `json:"status"`
	RequestID string `json:"request_id"`
	PollURL   string `json:"poll_url"`
}

// StatusResponse is returned by GET /status/{request_id}.
type StatusResponse struct {
	RequestID string               `json:"request_id"`
	Status    config.RequestStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`

	// Populated when Status == complete.
	Assessment      *model.ArbitratorOutput `json:"assessment,omitempty"`
	SessionID       string                  `json:"session_id,omitempty"`
	ExecutionTimeMS int64                   `json:"execution_time_ms,omitempty"`

	// Populated when Status == error.
	Error     string           `json:"error,omitempty"`
	ErrorCode config.ErrorCode `json:"error_code,omitempty"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status     string            `json:"status"`
	Version    string            `json:"version"`
	WorkerPool queue.PoolHealth  `json:"worker_pool"`
}

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error     string           `json:"error"`
	ErrorCode config.ErrorCode `json:"error_code,omitempty"`
}
