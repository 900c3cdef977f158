package orchestrator

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightops/skymarshal/pkg/arbitrator"
	"github.com/flightops/skymarshal/pkg/config"
	"github.com/flightops/skymarshal/pkg/llm"
	"github.com/flightops/skymarshal/pkg/model"
	"github.com/flightops/skymarshal/pkg/tools"
)

// fakeAgentClient answers every agent's tool-loop turn with zero tool
// calls (so the loop breaks immediately) and every structured-output turn
// with a fixed approving response. Agents named in slowAgents get their
// structured-output call delayed by delay (agents are identified by their
// own name appearing in the system prompt, set via agent.Agent.systemPrompt).
type fakeAgentClient struct {
	slowAgents []string
	delay      time.Duration
}

func (c *fakeAgentClient) Generate(ctx context.Context, input *llm.GenerateInput) (<-chan llm.Chunk, error) {
	ch := make(chan llm.Chunk, 2)
	isSlow := false
	if len(input.Messages) > 0 {
		for _, name := range c.slowAgents {
			if strings.Contains(input.Messages[0].Content, name) {
				isSlow = true
				break
			}
		}
	}
	go func() {
		defer close(ch)
		if input.ResponseSchema != "" {
			if isSlow {
				select {
				case <-time.After(c.delay):
				case <-ctx.Done():
					return
				}
			}
			ch <- llm.Chunk{Kind: llm.ChunkToolCall, ToolCall: &llm.ToolCall{
				ID: "t", Name: "emit_structured_response",
				Arguments: `{"recommendation":"approved","confidence":0.9,"reasoning":"within limits","binding_constraints":[]}`,
			}}
		}
		ch <- llm.Chunk{Kind: llm.ChunkDone}
	}()
	return ch, nil
}

func (c *fakeAgentClient) Close() error { return nil }

type fakeArbClient struct{}

const fakeArbOutput = `{
	"solution_options": [{
		"solution_id": "opt-1", "title": "proceed", "confidence": 0.9, "estimated_duration": "3h",
		"safety_compliance": "compliant", "financial_impact": {"total_cost": 5000},
		"passenger_impact": {"affected": 10, "delay_hours": 3, "cancelled": false, "reprotection_options": []},
		"network_impact": {"downstream_flights": 0, "connection_misses": 0}
	}],
	"conflict_resolutions": [],
	"final_decision": "proceed", "recommendations": ["notify ops"], "justification": "best option",
	"reasoning": "deterministic scoring", "confidence": 0.9
}`

func (c *fakeArbClient) Generate(ctx context.Context, input *llm.GenerateInput) (<-chan llm.Chunk, error) {
	ch := make(chan llm.Chunk, 2)
	go func() {
		defer close(ch)
		ch <- llm.Chunk{Kind: llm.ChunkToolCall, ToolCall: &llm.ToolCall{ID: "a", Name: "emit_structured_response", Arguments: fakeArbOutput}}
		ch <- llm.Chunk{Kind: llm.ChunkDone}
	}()
	return ch, nil
}

func (c *fakeArbClient) Close() error { return nil }

func testDisruption() model.DisruptionContext {
	return model.DisruptionContext{
		FlightID: "1", FlightNumber: "EY123", DepartureAirport: "AUH", ArrivalAirport: "JFK",
		ScheduledDeparture: "2026-01-20T10:00:00Z", AircraftID: "A6-ABC", DelayHours: 3, DisruptionType: "mechanical",
	}
}

func TestRunHappyPathProducesArbitratorOutput(t *testing.T) {
	registry := config.NewAgentRegistry(config.BuiltinAgents())
	provider := &config.LLMProviderConfig{MaxOutputTokens: 100}
	agentClient := &fakeAgentClient{}
	arb := arbitrator.New(&fakeArbClient{}, provider, config.DefaultScoringWeights(), arbitrator.NoopKnowledgeBase{}, 3, time.Second)

	o := New(registry, provider, agentClient, tools.NewRegistry(), arb)
	result, err := o.Run(context.Background(), testDisruption())
	require.NoError(t, err)

	assert.False(t, result.SafetyHalted)
	require.NotNil(t, result.Revision)
	require.NotNil(t, result.Output)
	assert.Len(t, result.Initial.Responses, len(config.AllAgentNames))
	assert.Len(t, result.Revision.Responses, len(config.AllAgentNames))
	require.NotNil(t, result.Output.RecommendedSolutionID)
	assert.Equal(t, "opt-1", *result.Output.RecommendedSolutionID)
}

func TestRunHaltsOnSafetyAgentTimeout(t *testing.T) {
	agents := config.BuiltinAgents()
	short := 20 * time.Millisecond
	agents[config.AgentCrewCompliance].Timeout = &short
	registry := config.NewAgentRegistry(agents)

	provider := &config.LLMProviderConfig{MaxOutputTokens: 100}
	agentClient := &fakeAgentClient{slowAgents: []string{string(config.AgentCrewCompliance)}, delay: 200 * time.Millisecond}
	arb := arbitrator.New(&fakeArbClient{}, provider, config.DefaultScoringWeights(), arbitrator.NoopKnowledgeBase{}, 3, time.Second)

	o := New(registry, provider, agentClient, tools.NewRegistry(), arb)
	result, err := o.Run(context.Background(), testDisruption())
	require.NoError(t, err)

	assert.True(t, result.SafetyHalted)
	assert.Contains(t, result.SafetyFailures, config.AgentCrewCompliance)
	assert.Nil(t, result.Revision)
	assert.Nil(t, result.Output)
}

func TestRunContinuesWhenBusinessAgentsTimeOut(t *testing.T) {
	agents := config.BuiltinAgents()
	short := 20 * time.Millisecond
	business := []config.AgentName{config.AgentNetwork, config.AgentCargo, config.AgentFinance}
	slow := make([]string, 0, len(business))
	for _, n := range business {
		agents[n].Timeout = &short
		slow = append(slow, string(n))
	}
	registry := config.NewAgentRegistry(agents)

	provider := &config.LLMProviderConfig{MaxOutputTokens: 100}
	agentClient := &fakeAgentClient{slowAgents: slow, delay: 200 * time.Millisecond}
	arb := arbitrator.New(&fakeArbClient{}, provider, config.DefaultScoringWeights(), arbitrator.NoopKnowledgeBase{}, 3, time.Second)

	o := New(registry, provider, agentClient, tools.NewRegistry(), arb)
	result, err := o.Run(context.Background(), testDisruption())
	require.NoError(t, err)

	assert.False(t, result.SafetyHalted)
	require.NotNil(t, result.Revision)
	require.NotNil(t, result.Output)

	counts := result.Initial.CountByStatus()
	assert.Equal(t, 4, counts[model.AgentResponseSuccess])
	assert.Equal(t, 3, counts[model.AgentResponseTimeout])

	for _, n := range business {
		resp := result.Initial.Responses[n]
		assert.Equal(t, model.AgentResponseTimeout, resp.Status)
		assert.False(t, resp.IsSafetyCritical)
		assert.Zero(t, resp.Confidence)
	}
	require.NotNil(t, result.Output.RecommendedSolutionID)
}
