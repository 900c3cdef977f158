package arbitrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/flightops/skymarshal/pkg/config"
	"github.com/flightops/skymarshal/pkg/llm"
	"github.com/flightops/skymarshal/pkg/model"
)

// Arbitrator runs Phase 3: it asks the LLM to synthesize
// candidate recovery solutions and an accompanying conflict/decision
// narrative from the revision-phase collation, then overwrites every
// candidate's dimension and composite scores with the deterministic
// formulas in scoring.go before picking a recommendation.
type Arbitrator struct {
	client   llm.Client
	provider *config.LLMProviderConfig
	weights  config.ScoringWeights
	kb       KnowledgeBase
	maxKB    int
	timeout  time.Duration
}

// New constructs an Arbitrator. kb may be NoopKnowledgeBase{} when no
// retrieval backend is configured.
func New(client llm.Client, provider *config.LLMProviderConfig, weights config.ScoringWeights, kb KnowledgeBase, maxKB int, timeout time.Duration) *Arbitrator {
	if kb == nil {
		kb = NoopKnowledgeBase{}
	}
	return &Arbitrator{client: client, provider: provider, weights: weights, kb: kb, maxKB: maxKB, timeout: timeout}
}

// rawArbitratorOutput is the wire shape of the arbitrator's structured-output
// call: everything except the deterministic scores, which are computed
// from the raw impact fields after decoding; dimension scores are
// computed deterministically, never trusted from the model.
type rawArbitratorOutput struct {
	SolutionOptions []struct {
		SolutionID        string                 `json:"solution_id"`
		Title             string                 `json:"title"`
		Confidence        float64                `json:"confidence"`
		EstimatedDuration string                 `json:"estimated_duration"`
		SafetyCompliance  string                 `json:"safety_compliance"`
		FinancialImpact   model.FinancialImpact  `json:"financial_impact"`
		PassengerImpact   model.PassengerImpact  `json:"passenger_impact"`
		NetworkImpact     model.NetworkImpact    `json:"network_impact"`
	} `json:"solution_options"`
	ConflictResolutions []model.ConflictResolution `json:"conflict_resolutions"`
	FinalDecision       string                     `json:"final_decision"`
	Recommendations     []string                   `json:"recommendations"`
	Justification       string                     `json:"justification"`
	Reasoning           string                     `json:"reasoning"`
	Confidence          float64                    `json:"confidence"`
}

// Arbitrate produces the final ArbitratorOutput from the revision-phase
// collation. responses must be the Phase 2 (revision)
// collation's Responses map; safetyAgents is the registry's canonical
// safety-agent list.
func (ar *Arbitrator) Arbitrate(ctx context.Context, disruption model.DisruptionContext, responses map[config.AgentName]model.AgentResponse, safetyAgents []config.AgentName) (*model.ArbitratorOutput, error) {
	overrides := aggregateSafetyOverrides(responses, safetyAgents)
	constraints := make([]string, 0, len(overrides))
	for _, o := range overrides {
		constraints = append(constraints, o.BindingConstraint)
	}

	guidance, err := ar.queryKnowledgeBase(ctx, disruption, constraints)
	if err != nil {
		slog.Warn("arbitrator: knowledge base query failed, continuing without guidance", "error", err)
	}

	ch, err := ar.client.Generate(ctx, &llm.GenerateInput{
		Provider:       ar.provider,
		Messages:       ar.buildMessages(disruption, responses, constraints, guidance),
		ResponseSchema: arbitratorSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("arbitrator: generate failed: %w", err)
	}
	_, toolArgs, err := llm.CollectText(ch, ar.timeout)
	if err != nil {
		return nil, fmt.Errorf("arbitrator: stream failed: %w", err)
	}
	if toolArgs == "" {
		return nil, fmt.Errorf("arbitrator: model produced no structured response")
	}

	var raw rawArbitratorOutput
	if err := json.Unmarshal([]byte(toolArgs), &raw); err != nil {
		return nil, fmt.Errorf("arbitrator: failed to decode structured response: %w", err)
	}

	solutions := make([]model.RecoverySolution, 0, len(raw.SolutionOptions))
	for _, s := range raw.SolutionOptions {
		safety := CalculateSafetyScore(constraints, s.SafetyCompliance)
		cost := CalculateCostScore(s.FinancialImpact.TotalCost)
		passenger := CalculatePassengerScore(s.PassengerImpact)
		network := CalculateNetworkScore(s.NetworkImpact)
		solutions = append(solutions, model.RecoverySolution{
			SolutionID:        s.SolutionID,
			Title:             s.Title,
			SafetyScore:       safety,
			CostScore:         cost,
			PassengerScore:    passenger,
			NetworkScore:      network,
			CompositeScore:    CalculateCompositeScore(safety, cost, passenger, network, ar.weights),
			Confidence:        s.Confidence,
			EstimatedDuration: s.EstimatedDuration,
			SafetyCompliance:  s.SafetyCompliance,
			FinancialImpact:   s.FinancialImpact,
			PassengerImpact:   s.PassengerImpact,
			NetworkImpact:     s.NetworkImpact,
		})
	}

	recommended := selectRecommendation(solutions)

	return &model.ArbitratorOutput{
		RecommendedSolutionID: recommended,
		SolutionOptions:       solutions,
		ConflictsIdentified:   len(raw.ConflictResolutions),
		ConflictResolutions:   raw.ConflictResolutions,
		SafetyOverrides:       overrides,
		FinalDecision:         raw.FinalDecision,
		Recommendations:       raw.Recommendations,
		Justification:         raw.Justification,
		Reasoning:             raw.Reasoning,
		Confidence:            raw.Confidence,
		Timestamp:             time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// aggregateSafetyOverrides collects every non-empty binding constraint from
// every successful safety-agent response (binding constraints
// from safety agents are non-negotiable, not just advisory input).
func aggregateSafetyOverrides(responses map[config.AgentName]model.AgentResponse, safetyAgents []config.AgentName) []model.SafetyOverride {
	var overrides []model.SafetyOverride
	for _, name := range safetyAgents {
		resp, ok := responses[name]
		if !ok || resp.Status != model.AgentResponseSuccess {
			continue
		}
		for _, c := range resp.BindingConstraints {
			if c == "" {
				continue
			}
			overrides = append(overrides, model.SafetyOverride{SafetyAgent: string(name), BindingConstraint: c})
		}
	}
	return overrides
}

// selectRecommendation applies the tie-break rule: the highest
// composite score among solutions that are not flat safety violations
// (SafetyScore > 0); ties break on higher safety score, then lower total
// cost, then higher passenger score, then the lexicographically smallest
// solution ID for full determinism.
func selectRecommendation(solutions []model.RecoverySolution) *string {
	eligible := make([]model.RecoverySolution, 0, len(solutions))
	for _, s := range solutions {
		if s.SafetyScore > 0 {
			eligible = append(eligible, s)
		}
	}
	if len(eligible) == 0 {
		return nil
	}
	sort.Slice(eligible, func(i, j int) bool {
		a, b := eligible[i], eligible[j]
		if a.CompositeScore != b.CompositeScore {
			return a.CompositeScore > b.CompositeScore
		}
		if a.SafetyScore != b.SafetyScore {
			return a.SafetyScore > b.SafetyScore
		}
		if a.FinancialImpact.TotalCost != b.FinancialImpact.TotalCost {
			return a.FinancialImpact.TotalCost < b.FinancialImpact.TotalCost
		}
		if a.PassengerScore != b.PassengerScore {
			return a.PassengerScore > b.PassengerScore
		}
		return a.SolutionID < b.SolutionID
	})
	id := eligible[0].SolutionID
	return &id
}

func (ar *Arbitrator) queryKnowledgeBase(ctx context.Context, disruption model.DisruptionContext, constraints []string) (string, error) {
	scenario := fmt.Sprintf("%s disruption on %s (%s -> %s), delay %.1fh", disruption.DisruptionType, disruption.FlightNumber, disruption.DepartureAirport, disruption.ArrivalAirport, disruption.DelayHours)
	return ar.kb.Query(ctx, scenario, constraints, ar.maxKB)
}

func (ar *Arbitrator) buildMessages(disruption model.DisruptionContext, responses map[config.AgentName]model.AgentResponse, constraints []string, guidance string) []llm.ConversationMessage {
	var b strings.Builder
	b.WriteString("You are the arbitrator synthesizing the final disruption recovery decision from seven specialist agents' findings. ")
	b.WriteString("Propose 2-4 candidate recovery solutions grounded in the agents' reasoning below. For each candidate, report its raw ")
	b.WriteString("financial, passenger, and network impact figures and a safety_compliance narrative describing margin against the binding ")
	b.WriteString("constraints; do not compute or report scores yourself, they are derived deterministically downstream. ")
	b.WriteString("Also identify conflicts between agent recommendations (timing_mismatch, resource_contention, constraint_vs_preference) and how each was resolved.")

	disruptionJSON, _ := json.Marshal(disruption)
	responsesJSON, _ := json.Marshal(responses)

	var u strings.Builder
	fmt.Fprintf(&u, "Disruption: %s\n\nAgent findings (revision phase): %s\n", disruptionJSON, responsesJSON)
	if len(constraints) > 0 {
		fmt.Fprintf(&u, "\nBinding constraints every candidate must be judged against:\n- %s\n", strings.Join(constraints, "\n- "))
	}
	if guidance != "" {
		fmt.Fprintf(&u, "\nRelevant operational guidance:\n%s\n", guidance)
	}
	u.WriteString("\nProduce the structured response now.")

	return []llm.ConversationMessage{
		{Role: llm.RoleSystem, Content: b.String()},
		{Role: llm.RoleUser, Content: u.String()},
	}
}

const arbitratorSchema = `{
	"type": "object",
	"properties": {
		"solution_options": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"solution_id": {"type": "string"},
					"title": {"type": "string"},
					"confidence": {"type": "number", "minimum": 0, "maximum": 1},
					"estimated_duration": {"type": "string"},
					"safety_compliance": {"type": "string"},
					"financial_impact": {
						"type": "object",
						"properties": {"total_cost": {"type": "number"}},
						"required": ["total_cost"]
					},
					"passenger_impact": {
						"type": "object",
						"properties": {
							"affected": {"type": "integer"},
							"delay_hours": {"type": "number"},
							"cancelled": {"type": "boolean"},
							"reprotection_options": {"type": "array", "items": {"type": "string"}}
						},
						"required": ["affected", "delay_hours", "cancelled", "reprotection_options"]
					},
					"network_impact": {
						"type": "object",
						"properties": {
							"downstream_flights": {"type": "integer"},
							"connection_misses": {"type": "integer"}
						},
						"required": ["downstream_flights", "connection_misses"]
					}
				},
				"required": ["solution_id", "title", "confidence", "estimated_duration", "safety_compliance", "financial_impact", "passenger_impact", "network_impact"]
			}
		},
		"conflict_resolutions": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"conflict_type": {"type": "string", "enum": ["timing_mismatch", "resource_contention", "constraint_vs_preference"]},
					"conflict_description": {"type": "string"},
					"resolution": {"type": "string"},
					"rationale": {"type": "string"}
				},
				"required": ["conflict_type", "conflict_description", "resolution", "rationale"]
			}
		},
		"final_decision": {"type": "string"},
		"recommendations": {"type": "array", "items": {"type": "string"}},
		"justification": {"type": "string"},
		"reasoning": {"type": "string"},
		"confidence": {"type": "number", "minimum": 0, "maximum": 1}
	},
	"required": ["solution_options", "conflict_resolutions", "final_decision", "recommendations", "justification", "reasoning", "confidence"]
}`
