package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// WorkerPool fans jobs out to a fixed number of worker goroutines over a
// buffered channel. Jobs are pushed directly onto an in-process channel:
// the request record is the durable state, so there is nothing to poll
// for.
type WorkerPool struct {
	size       int
	jobCh      chan Job
	jobTimeout time.Duration
	executor   Executor
	workers    []*worker
	wg         sync.WaitGroup

	mu      sync.Mutex
	started bool
}

// NewWorkerPool constructs a pool with the given worker count and job
// buffer capacity. executor runs every dispatched job to completion,
// bounded per job by jobTimeout (zero means the built-in ten-minute
// budget).
func NewWorkerPool(size, bufferCapacity int, jobTimeout time.Duration, executor Executor) *WorkerPool {
	if size < 1 {
		size = 1
	}
	if bufferCapacity < size {
		bufferCapacity = size
	}
	if jobTimeout <= 0 {
		jobTimeout = defaultJobTimeout
	}
	return &WorkerPool{
		size:       size,
		jobCh:      make(chan Job, bufferCapacity),
		jobTimeout: jobTimeout,
		executor:   executor,
	}
}

// Start spawns the worker goroutines. Safe to call once; subsequent calls
// are no-ops.
func (p *WorkerPool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		slog.Warn("queue: worker pool already started, ignoring duplicate Start call")
		return
	}
	p.started = true

	slog.Info("queue: starting worker pool", "worker_count", p.size)
	for i := 0; i < p.size; i++ {
		w := newWorker(fmt.Sprintf("worker-%d", i), p.jobCh, p.jobTimeout, p.executor)
		p.workers = append(p.workers, w)
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			w.run(ctx)
		}()
	}
}

// Stop closes the job channel and waits for every in-flight job to drain
// (pool shutdown must not abandon a job mid-orchestration; it waits
// instead of cancelling).
func (p *WorkerPool) Stop() {
	close(p.jobCh)
	p.wg.Wait()
	slog.Info("queue: worker pool stopped")
}

// Submit enqueues a job without blocking. Returns ErrAtCapacity if the
// buffer is full — every worker is saturated and the caller (the async
// HTTP surface) should surface a 503 rather than block the request.
func (p *WorkerPool) Submit(job Job) error {
	select {
	case p.jobCh <- job:
		return nil
	default:
		return ErrAtCapacity
	}
}

// Health reports the pool's current aggregate state.
func (p *WorkerPool) Health() PoolHealth {
	h := PoolHealth{
		TotalWorkers:  len(p.workers),
		QueueDepth:    len(p.jobCh),
		QueueCapacity: cap(p.jobCh),
	}
	for _, w := range p.workers {
		wh := w.health()
		if wh.Status == WorkerStatusWorking {
			h.ActiveWorkers++
		}
		h.Workers = append(h.Workers, wh)
	}
	return h
}
