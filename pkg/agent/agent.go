// Package agent implements the per-specialist agent runtime and its
// safe-run wrapper: a bounded tool-using LLM loop that always terminates
// in a classified, non-throwing model.AgentResponse.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flightops/skymarshal/pkg/config"
	"github.com/flightops/skymarshal/pkg/llm"
	"github.com/flightops/skymarshal/pkg/model"
	"github.com/flightops/skymarshal/pkg/tools"
)

// maxToolIterations bounds the tool-calling loop so a confused or
// misbehaving model can never hang an agent invocation with the timeout
// as the only guard.
const maxToolIterations = 6

// Agent runs one specialist's reasoning loop: it is handed only the tools
// its AgentConfig authorizes, and always emits a structured final response
// via the synthetic schema tool call.
type Agent struct {
	Name     config.AgentName
	cfg      *config.AgentConfig
	provider *config.LLMProviderConfig
	client   llm.Client
	registry *tools.Registry
}

// New constructs an Agent bound to its static config, LLM provider, and
// the shared tool registry (only the subset named by cfg.AuthorizedTools
// is ever visible to it, via registry.DefinitionsFor).
func New(name config.AgentName, cfg *config.AgentConfig, provider *config.LLMProviderConfig, client llm.Client, registry *tools.Registry) *Agent {
	return &Agent{Name: name, cfg: cfg, provider: provider, client: client, registry: registry}
}

// RevisionInput carries everything a Phase-2 invocation sees beyond the
// disruption itself: the agent's own Phase-1 response, the
// distilled peer view built from the other agents' successful Phase-1
// responses, and the advisory ClassifyPeerView hint. Nil in Phase 1.
type RevisionInput struct {
	Own   *model.AgentResponse
	Peers []model.PeerViewEntry
	Hint  string
}

// Invoke runs the agent's reasoning loop for one phase. revision is nil
// in Phase 1 (initial); in Phase 2 it carries the agent's own Phase-1
// response and the peer view.
func (a *Agent) Invoke(ctx context.Context, disruption model.DisruptionContext, phase model.Phase, revision *RevisionInput) (*model.AgentResponse, error) {
	messages := []llm.ConversationMessage{
		{Role: llm.RoleSystem, Content: a.systemPrompt()},
		{Role: llm.RoleUser, Content: a.userPrompt(disruption, phase, revision)},
	}

	defs := a.registry.DefinitionsFor(a.cfg.AuthorizedTools)
	toolDefs := make([]llm.ToolDefinition, 0, len(defs))
	for _, d := range defs {
		toolDefs = append(toolDefs, llm.ToolDefinition{Name: d.Name, Description: d.Description, ParametersSchema: d.ParametersSchema})
	}

	usedTools := make(map[string]bool)

	for iter := 0; iter < maxToolIterations; iter++ {
		ch, err := a.client.Generate(ctx, &llm.GenerateInput{
			Provider: a.provider,
			Messages: messages,
			Tools:    toolDefs,
		})
		if err != nil {
			return nil, err
		}

		_, toolCalls, err := drainToolTurn(ctx, ch)
		if err != nil {
			return nil, err
		}
		if len(toolCalls) == 0 {
			break
		}

		assistantMsg := llm.ConversationMessage{Role: llm.RoleAssistant, ToolCalls: toolCalls}
		messages = append(messages, assistantMsg)

		for _, tc := range toolCalls {
			usedTools[tc.Name] = true
			result := a.registry.Execute(ctx, tools.Call{ID: tc.ID, Name: tc.Name, Arguments: json.RawMessage(tc.Arguments)})
			messages = append(messages, llm.ConversationMessage{
				Role:       llm.RoleTool,
				Content:    result.Content,
				ToolCallID: result.CallID,
				ToolName:   result.Name,
				IsError:    result.IsError,
			})
		}
	}

	// Final turn: force the structured response via the synthetic schema tool.
	ch, err := a.client.Generate(ctx, &llm.GenerateInput{
		Provider:       a.provider,
		Messages:       messages,
		ResponseSchema: responseSchema(a.cfg.Category),
	})
	if err != nil {
		return nil, err
	}
	_, toolArgs, err := llm.CollectText(ch, a.cfg.EffectiveTimeout())
	if err != nil {
		return nil, err
	}
	if toolArgs == "" {
		return nil, errors.New("agent: model produced no structured response")
	}

	var raw rawResponse
	if err := json.Unmarshal([]byte(toolArgs), &raw); err != nil {
		return nil, fmt.Errorf("agent: failed to decode structured response: %w", err)
	}

	dataSources := make([]string, 0, len(usedTools))
	for name := range usedTools {
		dataSources = append(dataSources, name)
	}

	return normalize(a.Name, a.cfg.Category, raw, dataSources), nil
}

// rawResponse is the wire shape of the agent's final structured-output
// tool call, before category-based normalization.
type rawResponse struct {
	Recommendation     string   `json:"recommendation"`
	Confidence         float64  `json:"confidence"`
	Reasoning          string   `json:"reasoning"`
	BindingConstraints []string `json:"binding_constraints"`
}

// normalize applies 's binding_constraints normalization: safety
// agents always carry a non-nil (possibly empty) slice; business agents
// never carry the field.
func normalize(name config.AgentName, category config.AgentCategory, raw rawResponse, dataSources []string) *model.AgentResponse {
	resp := &model.AgentResponse{
		AgentName:      name,
		Recommendation: raw.Recommendation,
		Confidence:     raw.Confidence,
		Reasoning:      raw.Reasoning,
		DataSources:    dataSources,
		Timestamp:      time.Now().UTC(),
		Status:         model.AgentResponseSuccess,
	}
	if category == config.AgentCategorySafety {
		if raw.BindingConstraints == nil {
			resp.BindingConstraints = []string{}
		} else {
			resp.BindingConstraints = raw.BindingConstraints
		}
	}
	return resp
}

func responseSchema(category config.AgentCategory) string {
	base := `{
		"type": "object",
		"properties": {
			"recommendation": {"type": "string", "description": "concise recommendation"},
			"confidence": {"type": "number", "minimum": 0, "maximum": 1},
			"reasoning": {"type": "string", "description": "grounded justification referencing tool results"}%s
		},
		"required": ["recommendation", "confidence", "reasoning"%s]
	}`
	if category == config.AgentCategorySafety {
		constraints := `,
			"binding_constraints": {
				"type": "array",
				"items": {"type": "string"},
				"description": "safety constraints that must be satisfied by any recovery option; empty if none"
			}`
		return fmt.Sprintf(base, constraints, `, "binding_constraints"`)
	}
	return fmt.Sprintf(base, "", "")
}

func (a *Agent) systemPrompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are the %s specialist agent in an airline disruption decision system. ", a.Name)
	fmt.Fprintf(&b, "%s ", a.cfg.Description)
	if a.cfg.Category == config.AgentCategorySafety {
		b.WriteString("You are a safety-category agent: you MUST populate binding_constraints with every " +
			"hard constraint a recovery option must satisfy (an empty list if none apply). ")
	} else {
		b.WriteString("You are a business-category agent: your assessment is advisory and feeds the " +
			"arbitrator's composite score, not a hard constraint. ")
	}
	b.WriteString("Use only the tools you have been given to ground your recommendation in real data; " +
		"do not speculate about data you have not retrieved. ")
	if a.cfg.CustomInstructions != "" {
		b.WriteString(a.cfg.CustomInstructions)
	}
	return b.String()
}

func (a *Agent) userPrompt(disruption model.DisruptionContext, phase model.Phase, revision *RevisionInput) string {
	disruptionJSON, _ := json.Marshal(disruption)
	var b strings.Builder
	fmt.Fprintf(&b, "Disruption: %s\n", disruptionJSON)
	if phase == model.PhaseInitial || revision == nil {
		b.WriteString("This is your initial assessment. Produce your recommendation via the structured response.")
		return b.String()
	}
	b.WriteString("\nThis is the revision round.\n")
	if revision.Own != nil {
		ownJSON, _ := json.Marshal(struct {
			Recommendation     string   `json:"recommendation"`
			Confidence         float64  `json:"confidence"`
			Reasoning          string   `json:"reasoning"`
			BindingConstraints []string `json:"binding_constraints,omitempty"`
		}{revision.Own.Recommendation, revision.Own.Confidence, revision.Own.Reasoning, revision.Own.BindingConstraints})
		fmt.Fprintf(&b, "\nYour Phase 1 response:\n%s\n", ownJSON)
	}
	peersJSON, _ := json.Marshal(revision.Peers)
	fmt.Fprintf(&b, "\nPeer findings from Phase 1:\n%s\n", peersJSON)
	if revision.Hint != "" {
		fmt.Fprintf(&b, "\nAdvisory hint (not binding): %s\n", revision.Hint)
	}
	b.WriteString("Decide one of REVISE, CONFIRM, or STRENGTHEN for your Phase 1 recommendation, justify that decision in your reasoning, then produce your final response via the structured response.")
	return b.String()
}

// drainToolTurn consumes one Generate stream, collecting text and any tool
// calls made during the turn (unlike llm.CollectText, which only retains
// the first tool call — agents may request several tools per turn).
func drainToolTurn(ctx context.Context, ch <-chan llm.Chunk) (text string, calls []llm.ToolCall, err error) {
	for {
		select {
		case chunk, ok := <-ch:
			if !ok {
				return text, calls, nil
			}
			switch chunk.Kind {
			case llm.ChunkText:
				text += chunk.Text
			case llm.ChunkToolCall:
				calls = append(calls, *chunk.ToolCall)
			case llm.ChunkError:
				return text, calls, chunk.Err
			case llm.ChunkDone:
				return text, calls, nil
			}
		case <-ctx.Done():
			return text, calls, ctx.Err()
		}
	}
}
