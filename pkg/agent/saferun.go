package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flightops/skymarshal/pkg/config"
	"github.com/flightops/skymarshal/pkg/model"
)

// safeRunResult carries an Agent.Invoke outcome across the goroutine
// boundary.
type safeRunResult struct {
	resp *model.AgentResponse
	err  error
}

// SafeRun invokes one agent with per-agent timeout enforcement and
// exception isolation: it never panics and never returns
// a Go error — every outcome, including timeout and panic, is encoded
// into a model.AgentResponse with a classified Status.
func SafeRun(
	ctx context.Context,
	a *Agent,
	safetyAgents map[config.AgentName]bool,
	disruption model.DisruptionContext,
	phase model.Phase,
	revision *RevisionInput,
) model.AgentResponse {
	timeout := a.cfg.EffectiveTimeout()
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	resultCh := make(chan safeRunResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resultCh <- safeRunResult{err: fmt.Errorf("agent %s panicked: %v", a.Name, r)}
			}
		}()
		resp, err := a.Invoke(runCtx, disruption, phase, revision)
		resultCh <- safeRunResult{resp: resp, err: err}
	}()

	isSafety := safetyAgents[a.Name]

	select {
	case result := <-resultCh:
		duration := time.Since(start).Seconds()
		if result.err != nil {
			return classifyError(a.Name, timeout, duration, isSafety, result.err)
		}
		result.resp.DurationSec = duration
		return *result.resp

	case <-runCtx.Done():
		duration := time.Since(start).Seconds()
		return classifyError(a.Name, timeout, duration, isSafety, runCtx.Err())
	}
}

// classifyError maps a run failure (timeout, cancellation, panic, provider
// error) into a non-success AgentResponse.
func classifyError(name config.AgentName, threshold time.Duration, duration float64, isSafety bool, err error) model.AgentResponse {
	resp := model.AgentResponse{
		AgentName:   name,
		Timestamp:   time.Now().UTC(),
		DurationSec: duration,
		Error:       err.Error(),
		ErrorType:   fmt.Sprintf("%T", err),
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		resp.Status = model.AgentResponseTimeout
		resp.TimeoutThreshold = threshold
	default:
		resp.Status = model.AgentResponseError
	}

	if isSafety && resp.Status != model.AgentResponseSuccess {
		resp.IsSafetyCritical = true
	}
	return resp
}
