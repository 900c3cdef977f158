package agent

import (
	"fmt"
	"strings"

	"github.com/flightops/skymarshal/pkg/config"
	"github.com/flightops/skymarshal/pkg/model"
)

// RevisionReason is the advisory classification explaining a
// RevisionDecision.
type RevisionReason string

const (
	ReasonNewTimingInfo   RevisionReason = "new_timing_information"
	ReasonNewConstraints  RevisionReason = "new_constraints"
	ReasonSafetyConcern   RevisionReason = "safety_concern"
	ReasonOperationalChange RevisionReason = "operational_change"
	ReasonNoNewInfo       RevisionReason = "no_new_information"
	ReasonAlreadyConsidered RevisionReason = "already_considered"
	ReasonReinforcingData RevisionReason = "reinforcing_data"
)

// agentDomainKeywords maps each agent to the vocabulary of its domain,
// lower-cased for case-insensitive matching.
var agentDomainKeywords = map[config.AgentName][]string{
	config.AgentCrewCompliance: {
		"crew", "fdp", "flight duty period", "rest", "duty", "hours",
		"pilot", "captain", "first officer", "cabin crew", "fatigue",
		"qualification", "type rating", "recency", "medical certificate",
	},
	config.AgentMaintenance: {
		"maintenance", "aircraft", "mel", "airworthiness", "inspection",
		"repair", "work order", "technician", "defect", "serviceability",
		"registration", "tail number", "component", "system",
	},
	config.AgentRegulatory: {
		"regulatory", "regulation", "compliance", "curfew", "slot",
		"weather", "notam", "restriction", "authority", "permit",
		"easa", "gcaa", "faa", "caa", "approval",
	},
	config.AgentNetwork: {
		"network", "propagation", "connection", "rotation", "aircraft swap",
		"downstream", "upstream", "schedule", "delay impact", "ripple effect",
		"fleet", "utilization", "positioning",
	},
	config.AgentGuestExperience: {
		"passenger", "guest", "booking", "rebooking", "compensation",
		"vip", "elite", "frequent flyer", "baggage", "mishandled",
		"customer", "satisfaction", "service recovery",
	},
	config.AgentCargo: {
		"cargo", "shipment", "freight", "cold chain", "perishable",
		"temperature", "hazardous", "dangerous goods", "loading",
		"weight", "balance", "commodity",
	},
	config.AgentFinance: {
		"cost", "revenue", "financial", "expense", "compensation",
		"refund", "rebooking cost", "operational cost", "fuel",
		"crew cost", "passenger revenue", "cargo revenue",
	},
}

var universalKeywords = []string{
	"delay", "hour", "hours", "time", "cannot", "must",
	"required", "safety", "risk", "violation",
}

var timingKeywords = []string{"delay", "delayed", "postpone", "reschedule", "schedule change"}

var constraintKeywords = []string{"cannot", "must", "required", "constraint", "limit", "restriction"}

var safetyKeywords = []string{"safety", "unsafe", "risk", "hazard", "violation", "compliance"}

var agreementPositiveKeywords = []string{"approved", "proceed", "acceptable", "within limits", "compliant", "ok"}

var agreementNegativeKeywords = []string{
	"cannot", "requires change", "violation", "exceeds", "insufficient",
	"requires_crew_change", "requires crew change", "crew change required",
	"cannot_proceed", "cannot proceed", "requires_inspection", "requires inspection",
	"delay required", "delay requires", "crew duty limits", "fdp limit", "exceeded",
}

func containsAny(text string, keywords []string) []string {
	var found []string
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			found = append(found, kw)
		}
	}
	return found
}

func checkAgreement(text1, text2 string) bool {
	pos1 := len(containsAny(text1, agreementPositiveKeywords)) > 0
	pos2 := len(containsAny(text2, agreementPositiveKeywords)) > 0
	neg1 := len(containsAny(text1, agreementNegativeKeywords)) > 0
	neg2 := len(containsAny(text2, agreementNegativeKeywords)) > 0
	return (pos1 && pos2) || (neg1 && neg2)
}

// timingSensitiveAgents are the agents for which new timing information
// from a peer forces REVISE before the reinforcing check is even
// considered.
var timingSensitiveAgents = map[config.AgentName]bool{
	config.AgentCrewCompliance: true,
	config.AgentMaintenance:    true,
	config.AgentNetwork:       true,
}

var safetySensitiveAgents = map[config.AgentName]bool{
	config.AgentCrewCompliance: true,
	config.AgentMaintenance:    true,
	config.AgentRegulatory:    true,
}

// ClassifyPeerView runs the advisory revision heuristic over the full peer
// set for self, producing a decision/reason/justification triple that is
// surfaced to the LLM as a hint in the revision-phase prompt. This never
// overrides the agent's own JSON output.
func ClassifyPeerView(self config.AgentName, initialRecommendation string, peers []model.PeerViewEntry) (model.RevisionDecision, RevisionReason, string) {
	domainKeywords := agentDomainKeywords[self]

	type finding struct {
		agent model.PeerViewEntry
	}
	var relevant []finding
	for _, p := range peers {
		combined := strings.ToLower(p.Recommendation)
		domainFound := containsAny(combined, domainKeywords)
		universalFound := containsAny(combined, universalKeywords)
		if len(domainFound) > 0 || len(universalFound) > 0 {
			relevant = append(relevant, finding{agent: p})
		}
	}

	hasNewTiming := false
	hasNewConstraints := false
	hasSafetyConcerns := false
	hasReinforcing := false
	initialLower := strings.ToLower(initialRecommendation)
	for _, p := range peers {
		rec := strings.ToLower(p.Recommendation)
		if len(containsAny(rec, timingKeywords)) > 0 {
			hasNewTiming = true
		}
		if len(containsAny(rec, constraintKeywords)) > 0 {
			hasNewConstraints = true
		}
		if len(containsAny(rec, safetyKeywords)) > 0 {
			hasSafetyConcerns = true
		}
		if checkAgreement(initialLower, rec) {
			hasReinforcing = true
		}
	}

	switch {
	case len(relevant) == 0:
		return model.RevisionConfirm, ReasonNoNewInfo, fmt.Sprintf(
			"No relevant information found in other agents' recommendations that affects %s domain. Initial recommendation remains valid.", self)

	case hasNewTiming && timingSensitiveAgents[self]:
		return model.RevisionRevise, ReasonNewTimingInfo, fmt.Sprintf(
			"Other agents provided new timing information (delays, schedule changes) that affects %s calculations. Revision needed to recalculate based on updated timing.", self)

	case hasNewConstraints:
		return model.RevisionRevise, ReasonNewConstraints, fmt.Sprintf(
			"Other agents identified new operational constraints that may affect %s assessment. Revision needed to incorporate these constraints.", self)

	case hasSafetyConcerns && safetySensitiveAgents[self]:
		return model.RevisionRevise, ReasonSafetyConcern, fmt.Sprintf(
			"Other agents raised safety concerns that require %s to re-evaluate initial recommendation with additional safety considerations.", self)

	case hasReinforcing && len(relevant) > 0:
		return model.RevisionStrengthen, ReasonReinforcingData, fmt.Sprintf(
			"Other agents' findings (%d agents) support and reinforce %s initial recommendation. Strengthening assessment with additional supporting evidence.", len(relevant), self)

	case len(relevant) > 0:
		return model.RevisionRevise, ReasonOperationalChange, fmt.Sprintf(
			"Other agents provided relevant operational information (%d agents) that may affect %s assessment. Revision needed to evaluate impact.", len(relevant), self)

	default:
		return model.RevisionConfirm, ReasonAlreadyConsidered, fmt.Sprintf(
			"Other agents' findings were already considered in %s initial analysis. No new information warrants revision.", self)
	}
}
