package queue

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/flightops/skymarshal/pkg/config"
)

// defaultJobTimeout bounds a single job's execution when no explicit
// budget is configured. It is deliberately longer than any individual
// agent timeout (up to ten minutes for a full three-phase
// orchestration run) to give the executor room to complete phase 1,
// phase 2, and arbitration without being cut off by the queue layer
// itself.
const defaultJobTimeout = 10 * time.Minute

// worker pulls jobs off a shared channel and runs them one at a time,
// recovering defensively from panics so a single bad job cannot kill the
// goroutine and shrink the pool (the "never throws" discipline,
// carried up from the agent runtime to the dispatch layer).
type worker struct {
	id         string
	jobCh      <-chan Job
	jobTimeout time.Duration
	executor   Executor

	mu            sync.Mutex
	status        WorkerStatus
	currentReqID  string
	jobsProcessed int
	lastActivity  time.Time
}

func newWorker(id string, jobCh <-chan Job, jobTimeout time.Duration, executor Executor) *worker {
	return &worker{
		id:         id,
		jobCh:      jobCh,
		jobTimeout: jobTimeout,
		executor:   executor,
		status:     WorkerStatusIdle,
	}
}

func (w *worker) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-w.jobCh:
			if !ok {
				return
			}
			w.process(ctx, job)
		}
	}
}

func (w *worker) process(ctx context.Context, job Job) {
	w.setWorking(job.RequestID)
	defer w.setIdle()

	jobCtx, cancel := context.WithTimeout(ctx, w.jobTimeout)
	defer cancel()

	result := w.executeSafely(jobCtx, job)
	slog.Info("queue: job finished", "worker", w.id, "request_id", job.RequestID, "status", result.Status)
}

// executeSafely recovers from a panicking Executor so the worker
// goroutine survives; pkg/agent's SafeRun plays the same role one layer
// down, per agent rather than per job.
func (w *worker) executeSafely(ctx context.Context, job Job) (result ExecutionResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("queue: job panicked", "worker", w.id, "request_id", job.RequestID, "panic", r)
			result = ExecutionResult{Status: config.RequestStatusError, ErrorCode: config.ErrorCodeInternalError, Error: "internal error during orchestration"}
		}
	}()
	return w.executor.Execute(ctx, job)
}

func (w *worker) setWorking(requestID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status = WorkerStatusWorking
	w.currentReqID = requestID
	w.lastActivity = time.Now()
}

func (w *worker) setIdle() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status = WorkerStatusIdle
	w.currentReqID = ""
	w.jobsProcessed++
	w.lastActivity = time.Now()
}

func (w *worker) health() WorkerHealth {
	w.mu.Lock()
	defer w.mu.Unlock()
	return WorkerHealth{
		ID:               w.id,
		Status:           w.status,
		CurrentRequestID: w.currentReqID,
		JobsProcessed:    w.jobsProcessed,
		LastActivity:     w.lastActivity,
	}
}
