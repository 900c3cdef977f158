package model

import (
	"time"

	"github.com/flightops/skymarshal/pkg/config"
)

// AgentResponseStatus is the per-invocation outcome recorded by the
// safe-run wrapper.
type AgentResponseStatus string

const (
	AgentResponseSuccess AgentResponseStatus = "success"
	AgentResponseTimeout AgentResponseStatus = "timeout"
	AgentResponseError   AgentResponseStatus = "error"
)

// AgentResponse is produced exactly once per agent per phase.
// It is immutable once constructed.
type AgentResponse struct {
	AgentName   config.AgentName     `json:"agent_name"`
	Recommendation string            `json:"recommendation"`
	Confidence  float64              `json:"confidence"`
	Reasoning   string               `json:"reasoning"`

	// BindingConstraints is required (possibly empty) for safety agents,
	// and absent (nil) for business agents; the agent runtime normalizes it.
	BindingConstraints []string `json:"binding_constraints,omitempty"`

	DataSources []string             `json:"data_sources"`
	Timestamp   time.Time            `json:"timestamp"`
	Status      AgentResponseStatus  `json:"status"`
	DurationSec float64              `json:"duration_seconds"`

	// Error is present iff Status != success.
	Error string `json:"error,omitempty"`

	// ErrorType is the Go error's dynamic type name, for errors produced by
	// exception isolation.
	ErrorType string `json:"error_type,omitempty"`

	// TimeoutThreshold records the configured timeout that was exceeded,
	// only set when Status == timeout.
	TimeoutThreshold time.Duration `json:"timeout_threshold,omitempty"`

	// IsSafetyCritical is true when this response belongs to a safety agent
	// and Status != success.
	IsSafetyCritical bool `json:"is_safety_critical,omitempty"`

	// ExtractedFlightInfo carries forward the extractor output.
	ExtractedFlightInfo *FlightInfo `json:"extracted_flight_info,omitempty"`
}

// Phase identifies which orchestration phase a Collation belongs to.
type Phase string

const (
	PhaseInitial  Phase = "initial"
	PhaseRevision Phase = "revision"
)

// Collation is the complete set of seven AgentResponses produced in a
// single phase. The key set always equals AllAgentNames; a
// missing agent is represented by a non-success AgentResponse, never by
// absence from the map.
type Collation struct {
	Phase       Phase                                   `json:"phase"`
	Responses   map[config.AgentName]AgentResponse       `json:"responses"`
	Timestamp   time.Time                                `json:"timestamp"`
	DurationSec float64                                  `json:"duration_seconds"`
}

// Successful returns the subset of responses with Status == success.
func (c Collation) Successful() map[config.AgentName]AgentResponse {
	out := make(map[config.AgentName]AgentResponse)
	for name, resp := range c.Responses {
		if resp.Status == AgentResponseSuccess {
			out[name] = resp
		}
	}
	return out
}

// Failed returns the subset of responses with Status != success.
func (c Collation) Failed() map[config.AgentName]AgentResponse {
	out := make(map[config.AgentName]AgentResponse)
	for name, resp := range c.Responses {
		if resp.Status != AgentResponseSuccess {
			out[name] = resp
		}
	}
	return out
}

// CountByStatus tallies responses per status value.
func (c Collation) CountByStatus() map[AgentResponseStatus]int {
	counts := make(map[AgentResponseStatus]int)
	for _, resp := range c.Responses {
		counts[resp.Status]++
	}
	return counts
}

// SafetyFailures returns the names of safety-category agents whose
// response status is not success, in canonical order.
func (c Collation) SafetyFailures(safetyAgents []config.AgentName) []config.AgentName {
	var failed []config.AgentName
	for _, name := range safetyAgents {
		if resp, ok := c.Responses[name]; ok && resp.Status != AgentResponseSuccess {
			failed = append(failed, name)
		}
	}
	return failed
}
