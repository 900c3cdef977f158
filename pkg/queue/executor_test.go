package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/flightops/skymarshal/pkg/config"
	"github.com/flightops/skymarshal/pkg/extractor"
	"github.com/flightops/skymarshal/pkg/llm"
)

// stubLLMClient emits a single tool_call chunk whose arguments are fixed
// JSON, enough to drive the extractor's structured-output contract
// without touching a real provider.
type stubLLMClient struct {
	toolArgs string
}

func (s *stubLLMClient) Generate(ctx context.Context, input *llm.GenerateInput) (<-chan llm.Chunk, error) {
	ch := make(chan llm.Chunk, 2)
	ch <- llm.Chunk{Kind: llm.ChunkToolCall, ToolCall: &llm.ToolCall{Name: "emit_structured_response", Arguments: s.toolArgs}}
	ch <- llm.Chunk{Kind: llm.ChunkDone}
	close(ch)
	return ch, nil
}

func (s *stubLLMClient) Close() error { return nil }

func newTestExtractor(toolArgs string) *extractor.Extractor {
	clock := func() time.Time { return time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC) }
	return extractor.New(&stubLLMClient{toolArgs: toolArgs}, &config.LLMProviderConfig{
		Type: config.LLMProviderTypeAnthropic, Model: "test-model", APIKeyEnv: "UNUSED",
	}, 5*time.Second, clock)
}

// run is exercised directly (rather than Execute) so these cases don't
// need a store or orchestrator: each failure mode returns before either
// dependency is touched.

func TestOrchestrationExecutorInvalidExtractionIsSurfacedAsError(t *testing.T) {
	exec := NewOrchestrationExecutor(newTestExtractor(`{}`), nil, nil, 0)
	result := exec.run(context.Background(), Job{RequestID: "req-1", Prompt: "flight delayed"})
	assert.Equal(t, config.RequestStatusError, result.Status)
	assert.Equal(t, config.ErrorCodeExtractionFailed, result.ErrorCode)
}

func TestOrchestrationExecutorEmptyPromptIsSurfacedAsError(t *testing.T) {
	exec := NewOrchestrationExecutor(newTestExtractor(`{}`), nil, nil, 0)
	result := exec.run(context.Background(), Job{RequestID: "req-2", Prompt: ""})
	assert.Equal(t, config.RequestStatusError, result.Status)
	assert.Equal(t, config.ErrorCodeExtractionFailed, result.ErrorCode)
}

func TestOrchestrationExecutorExpiredJobContextMapsToTimeout(t *testing.T) {
	exec := NewOrchestrationExecutor(newTestExtractor(`{}`), nil, nil, 0)
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	result := exec.run(ctx, Job{RequestID: "req-3", Prompt: "flight delayed"})
	assert.Equal(t, config.RequestStatusError, result.Status)
	assert.Equal(t, config.ErrorCodeTimeout, result.ErrorCode)
}

func TestParseDelayHours(t *testing.T) {
	cases := []struct {
		text string
		want float64
	}{
		{"Flight EY123 has 2-hour delay causing LHR curfew risk", 2},
		{"delayed by 3.5 hours due to crew shortage", 3.5},
		{"a delay of 6 hours is expected", 6},
		{"6 hour delay after hydraulic fault", 6},
		{"hydraulic fault on stand", 0},
		{"delayed indefinitely", 0},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.want, parseDelayHours(tc.text))
		})
	}
}
