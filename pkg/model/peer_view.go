package model

import "github.com/flightops/skymarshal/pkg/config"

// peerRecommendationMaxLen bounds how much of a peer's recommendation
// text is carried into the revision-phase prompt.
const peerRecommendationMaxLen = 200

// PeerViewEntry is the distilled, per-peer record an agent sees during the
// revision phase. Only successful Phase-1 peers are included.
type PeerViewEntry struct {
	AgentName          config.AgentName `json:"agent_name"`
	Recommendation     string           `json:"recommendation"`
	Confidence         float64          `json:"confidence"`
	BindingConstraints []string         `json:"binding_constraints,omitempty"`
}

// BuildPeerView constructs the Phase-2 peer view for self (the agent about
// to revise) from an initial Collation: every other agent's successful
// response, truncated and stripped to the peer-view shape. A peer whose
// Phase-1 status is not success is excluded.
func BuildPeerView(initial Collation, self config.AgentName) []PeerViewEntry {
	var peers []PeerViewEntry
	for _, name := range config.AllAgentNames {
		if name == self {
			continue
		}
		resp, ok := initial.Responses[name]
		if !ok || resp.Status != AgentResponseSuccess {
			continue
		}
		peers = append(peers, PeerViewEntry{
			AgentName:          name,
			Recommendation:     truncate(resp.Recommendation, peerRecommendationMaxLen),
			Confidence:         resp.Confidence,
			BindingConstraints: resp.BindingConstraints,
		})
	}
	return peers
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// RevisionDecision is the advisory classification an agent may use when
// reasoning about a peer's output during revision. It is advisory only
// and never overrides the agent's own final JSON output.
type RevisionDecision string

const (
	RevisionRevise    RevisionDecision = "REVISE"
	RevisionConfirm   RevisionDecision = "CONFIRM"
	RevisionStrengthen RevisionDecision = "STRENGTHEN"
)
