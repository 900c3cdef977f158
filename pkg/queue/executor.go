package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/flightops/skymarshal/pkg/config"
	"github.com/flightops/skymarshal/pkg/extractor"
	"github.com/flightops/skymarshal/pkg/model"
	"github.com/flightops/skymarshal/pkg/orchestrator"
	"github.com/flightops/skymarshal/pkg/report"
	"github.com/flightops/skymarshal/pkg/store"
)

// defaultSessionTTL is a new session's retention window, counted from its
// first appended interaction, when no explicit TTL is configured. Later
// appends do not extend it.
const defaultSessionTTL = 30 * 24 * time.Hour

// OrchestrationExecutor wires extraction, flight lookup, the three-phase
// orchestrator, and report generation into a single Executor runnable by
// the worker pool: the background job a POST /invoke request dispatches.
type OrchestrationExecutor struct {
	extractor    *extractor.Extractor
	store        *store.Client
	orchestrator *orchestrator.Orchestrator
	sessionTTL   time.Duration
}

// NewOrchestrationExecutor constructs an OrchestrationExecutor.
// sessionTTL governs session-history retention; zero means the built-in
// thirty-day default.
func NewOrchestrationExecutor(ext *extractor.Extractor, st *store.Client, orch *orchestrator.Orchestrator, sessionTTL time.Duration) *OrchestrationExecutor {
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	return &OrchestrationExecutor{extractor: ext, store: st, orchestrator: orch, sessionTTL: sessionTTL}
}

// Execute runs one job end to end: extract flight identity, resolve the
// flight record, run the orchestration pipeline, generate the decision
// report, and persist the terminal outcome. It never returns a Go
// error; every failure mode is captured in
// the returned ExecutionResult and in the persisted request record, per
// the "never throws past this boundary" discipline the rest of this
// system follows.
func (e *OrchestrationExecutor) Execute(ctx context.Context, job Job) ExecutionResult {
	start := time.Now()

	result := e.run(ctx, job)
	result.ExecutionTimeMS = time.Since(start).Milliseconds()

	// The job context may already be past its deadline here; the terminal
	// status write must still land, so persistence runs on its own bound.
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	if err := e.persist(persistCtx, job, result); err != nil {
		slog.Error("queue: failed to persist job outcome", "request_id", job.RequestID, "error", err)
	}

	return result
}

// run executes the job and classifies the outcome. A failure caused by
// the job context's deadline expiring is reported as TIMEOUT regardless
// of which stage it surfaced in (the ten-minute background-job
// budget maps to error_code=TIMEOUT, not to the stage's own code).
func (e *OrchestrationExecutor) run(ctx context.Context, job Job) ExecutionResult {
	result := e.orchestrate(ctx, job)
	if result.Status == config.RequestStatusError && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		result.ErrorCode = config.ErrorCodeTimeout
		result.Error = "orchestration exceeded the background-job time budget: " + result.Error
	}
	return result
}

func (e *OrchestrationExecutor) orchestrate(ctx context.Context, job Job) ExecutionResult {
	info, err := e.extractor.Extract(ctx, job.Prompt)
	if err != nil {
		return ExecutionResult{
			Status:    config.RequestStatusError,
			ErrorCode: config.ErrorCodeExtractionFailed,
			Error:     err.Error(),
		}
	}

	flight, err := e.store.GetFlight(ctx, info.FlightNumber, info.Date)
	if err != nil {
		if store.IsNotFound(err) {
			return ExecutionResult{
				Status:    config.RequestStatusError,
				ErrorCode: config.ErrorCodeExtractionFailed,
				Error:     fmt.Sprintf("no flight record found for %s on %s", info.FlightNumber, info.Date),
			}
		}
		return ExecutionResult{
			Status:    config.RequestStatusError,
			ErrorCode: config.ErrorCodeProcessingError,
			Error:     err.Error(),
		}
	}

	disruption := model.DisruptionContext{
		FlightID:           flight.FlightID,
		FlightNumber:       flight.FlightNumber,
		Date:               flight.Date,
		DepartureAirport:   flight.DepartureAirport,
		ArrivalAirport:     flight.ArrivalAirport,
		ScheduledDeparture: flight.ScheduledDeparture.Format(time.RFC3339),
		AircraftID:         flight.AircraftID,
		DelayHours:         parseDelayHours(info.DisruptionEvent + " " + job.Prompt),
		DisruptionType:     report.ClassifyEventText(info.DisruptionEvent),
		DisruptionEvent:    info.DisruptionEvent,
	}

	if v := orchestrator.ValidateDisruptionPayload(disruption); !v.IsValid {
		slog.Warn("queue: disruption context incomplete, agents proceed with reduced data",
			"request_id", job.RequestID, "missing_fields", v.MissingFields)
	}

	runResult, err := e.orchestrator.Run(ctx, disruption)
	if err != nil {
		return ExecutionResult{
			Status:    config.RequestStatusError,
			ErrorCode: config.ErrorCodeProcessingError,
			Error:     err.Error(),
		}
	}

	if runResult.SafetyHalted {
		return ExecutionResult{
			Status:    config.RequestStatusError,
			ErrorCode: config.ErrorCodeSafetyHalt,
			Error:     fmt.Sprintf("safety-critical agent(s) failed: %v", runResult.SafetyFailures),
		}
	}

	decisionReport := report.Generate(runResult.Output, job.RequestID, disruption.FlightNumber, disruption.DisruptionType)
	runResult.Output.DecisionReport = &decisionReport

	return ExecutionResult{Status: config.RequestStatusComplete, Assessment: runResult.Output}
}

// delayPattern matches "2-hour delay", "2 hour delay", "delayed by 3.5
// hours", "delay of 6 hours" and similar phrasings.
var delayPattern = regexp.MustCompile(`(?i)(?:delay(?:ed)?(?:\s+(?:by|of))?\s+(\d+(?:\.\d+)?)[\s-]*hours?)|(?:(\d+(?:\.\d+)?)[\s-]*hours?\s+delay)`)

// parseDelayHours pulls an explicit delay duration out of the disruption
// narrative, if one was stated. Zero means no delay was mentioned, not a
// zero-hour delay; downstream per-agent validation treats it as absent.
func parseDelayHours(text string) float64 {
	m := delayPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	num := m[1]
	if num == "" {
		num = m[2]
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return 0
	}
	return v
}

// persist writes the terminal request status and, when the job belongs to
// a session, appends the interaction to that session's history.
func (e *OrchestrationExecutor) persist(ctx context.Context, job Job, result ExecutionResult) error {
	var persistErr error

	switch result.Status {
	case config.RequestStatusComplete:
		persistErr = e.store.CompleteRequest(ctx, job.RequestID, result.Assessment, result.ExecutionTimeMS)
	default:
		persistErr = e.store.ErrorRequest(ctx, job.RequestID, result.ErrorCode, result.Error)
	}
	if persistErr != nil {
		return persistErr
	}

	if job.SessionID == "" {
		return nil
	}

	response := result.Error
	if result.Status == config.RequestStatusComplete && result.Assessment != nil {
		if raw, err := json.Marshal(result.Assessment); err == nil {
			response = string(raw)
		}
	}

	return e.store.AppendInteraction(ctx, job.SessionID, time.Now().UTC().Add(e.sessionTTL), model.SessionInteraction{
		TimestampMS:     job.CreatedAt.UnixMilli(),
		RequestID:       job.RequestID,
		Prompt:          job.Prompt,
		Response:        response,
		Status:          result.Status,
		ExecutionTimeMS: result.ExecutionTimeMS,
		ErrorMessage:    result.Error,
	})
}
