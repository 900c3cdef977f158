// Package queue provides the background dispatch infrastructure for the
// async request surface: a bounded worker pool that runs
// each orchestration job to completion independently of the HTTP request
// that triggered it, decoupling client-facing latency from the
// orchestration's own wall-clock budget.
package queue

import (
	"context"
	"errors"
	"time"

	"github.com/flightops/skymarshal/pkg/config"
	"github.com/flightops/skymarshal/pkg/model"
)

// ErrAtCapacity indicates the job channel's buffer is full: every worker
// is busy and no further job can be queued without blocking the caller.
var ErrAtCapacity = errors.New("queue: at capacity")

// Job is one dispatched orchestration request.
type Job struct {
	RequestID string
	Prompt    string
	SessionID string // optional
	CreatedAt time.Time
}

// Executor runs a single Job to completion. Implementations must never
// panic past Execute's return (the worker also recovers defensively, but
// the contract is that Execute owns its own error handling, matching
// the safe-run wrapper's "never throws" discipline one layer up).
type Executor interface {
	Execute(ctx context.Context, job Job) ExecutionResult
}

// ExecutionResult is the terminal outcome of one job (the // background-job contract: complete with assessment, or error with a
// code).
type ExecutionResult struct {
	Status config.RequestStatus

	// Populated when Status == complete.
	Assessment      *model.ArbitratorOutput
	ExecutionTimeMS int64

	// Populated when Status == error.
	ErrorCode config.ErrorCode
	Error     string
}

// WorkerStatus is a worker's current activity state.
type WorkerStatus string

const (
	WorkerStatusIdle    WorkerStatus = "idle"
	WorkerStatusWorking WorkerStatus = "working"
)

// WorkerHealth reports one worker's current state, for the health endpoint.
type WorkerHealth struct {
	ID                string       `json:"id"`
	Status            WorkerStatus `json:"status"`
	CurrentRequestID  string       `json:"current_request_id,omitempty"`
	JobsProcessed     int          `json:"jobs_processed"`
	LastActivity      time.Time    `json:"last_activity"`
}

// PoolHealth reports the worker pool's aggregate state.
type PoolHealth struct {
	TotalWorkers  int            `json:"total_workers"`
	ActiveWorkers int            `json:"active_workers"`
	QueueDepth    int            `json:"queue_depth"`
	QueueCapacity int            `json:"queue_capacity"`
	Workers       []WorkerHealth `json:"workers"`
}
