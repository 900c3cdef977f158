// Package orchestrator implements the three-phase decision pipeline: a
// parallel fan-out to all seven specialist agents, a
// safety-halt short-circuit, a revision round fed by peer views, and the
// handoff into arbitration.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/flightops/skymarshal/pkg/agent"
	"github.com/flightops/skymarshal/pkg/arbitrator"
	"github.com/flightops/skymarshal/pkg/config"
	"github.com/flightops/skymarshal/pkg/llm"
	"github.com/flightops/skymarshal/pkg/model"
	"github.com/flightops/skymarshal/pkg/tools"
)

// Orchestrator binds one Agent per registered specialist and drives them
// through both phases before handing the revision-phase collation to the
// arbitrator.
type Orchestrator struct {
	agents       map[config.AgentName]*agent.Agent
	registry     *config.AgentRegistry
	safetyAgents []config.AgentName
	safetySet    map[config.AgentName]bool
	arb          *arbitrator.Arbitrator
}

// New constructs an Orchestrator. Every agent shares the same LLM
// provider and tool registry; only the authorized-tool subset and
// category differ per agent, per AgentConfig.
func New(registry *config.AgentRegistry, provider *config.LLMProviderConfig, client llm.Client, toolRegistry *tools.Registry, arb *arbitrator.Arbitrator) *Orchestrator {
	agents := make(map[config.AgentName]*agent.Agent, len(config.AllAgentNames))
	for _, name := range config.AllAgentNames {
		cfg, err := registry.Get(name)
		if err != nil {
			continue
		}
		agents[name] = agent.New(name, cfg, provider, client, toolRegistry)
	}

	safety := registry.SafetyAgents()
	safetySet := make(map[config.AgentName]bool, len(safety))
	for _, n := range safety {
		safetySet[n] = true
	}

	return &Orchestrator{agents: agents, registry: registry, safetyAgents: safety, safetySet: safetySet, arb: arb}
}

// Result is the outcome of a full orchestration run. Revision and Output
// are nil when the run halted on a safety-critical Phase-1 failure.
type Result struct {
	Initial        model.Collation
	Revision       *model.Collation
	SafetyHalted   bool
	SafetyFailures []config.AgentName
	Warnings       map[config.AgentName][]string
	Output         *model.ArbitratorOutput
}

// Run executes Phase 1, checks the safety-halt condition, executes Phase
// 2, and arbitrates. It never returns a Go error for a safety
// halt — that is an expected, modeled outcome, not a failure — only for an
// unrecoverable arbitration failure.
func (o *Orchestrator) Run(ctx context.Context, disruption model.DisruptionContext) (*Result, error) {
	warnings := ValidateAgentInputs(o.registry, disruption)
	for name, missing := range warnings {
		slog.Warn("orchestrator: agent invoked with incomplete required fields", "agent", name, "missing_fields", missing)
	}

	flightInfo := &model.FlightInfo{
		FlightNumber:    disruption.FlightNumber,
		Date:            disruption.Date,
		DisruptionEvent: disruption.DisruptionEvent,
	}

	initial := o.runPhase(ctx, disruption, model.PhaseInitial, flightInfo, nil)

	failures := initial.SafetyFailures(o.safetyAgents)
	if len(failures) > 0 {
		slog.Error("orchestrator: safety-critical agent failure, halting before revision phase", "agents", failures)
		return &Result{Initial: initial, SafetyHalted: true, SafetyFailures: failures, Warnings: warnings}, nil
	}

	revisionByAgent := make(map[config.AgentName]*agent.RevisionInput, len(config.AllAgentNames))
	for _, name := range config.AllAgentNames {
		peers := model.BuildPeerView(initial, name)
		in := &agent.RevisionInput{Peers: peers}
		if resp, ok := initial.Responses[name]; ok && resp.Status == model.AgentResponseSuccess {
			own := resp
			in.Own = &own
			_, _, justification := agent.ClassifyPeerView(name, resp.Recommendation, peers)
			in.Hint = justification
		}
		revisionByAgent[name] = in
	}

	revision := o.runPhase(ctx, disruption, model.PhaseRevision, flightInfo, revisionByAgent)

	output, err := o.arb.Arbitrate(ctx, disruption, revision.Responses, o.safetyAgents)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: arbitration failed: %w", err)
	}

	return &Result{Initial: initial, Revision: &revision, Output: output, Warnings: warnings}, nil
}

// runPhase fans out to every registered agent concurrently via
// agent.SafeRun and collects the results behind a WaitGroup barrier:
// each phase fully completes before the next step runs.
func (o *Orchestrator) runPhase(
	ctx context.Context,
	disruption model.DisruptionContext,
	phase model.Phase,
	flightInfo *model.FlightInfo,
	revisionByAgent map[config.AgentName]*agent.RevisionInput,
) model.Collation {
	start := time.Now()

	var wg sync.WaitGroup
	var mu sync.Mutex
	responses := make(map[config.AgentName]model.AgentResponse, len(o.agents))

	for name, a := range o.agents {
		wg.Add(1)
		go func(name config.AgentName, a *agent.Agent) {
			defer wg.Done()
			resp := agent.SafeRun(ctx, a, o.safetySet, disruption, phase, revisionByAgent[name])
			resp.ExtractedFlightInfo = flightInfo
			mu.Lock()
			responses[name] = resp
			mu.Unlock()
		}(name, a)
	}
	wg.Wait()

	return model.Collation{
		Phase:       phase,
		Responses:   responses,
		Timestamp:   time.Now().UTC(),
		DurationSec: time.Since(start).Seconds(),
	}
}
