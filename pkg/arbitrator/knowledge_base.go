package arbitrator

import "context"

// KnowledgeBase is the arbitrator's optional retrieval-augmentation
// source. Every implementation must degrade gracefully: a failed or
// empty lookup is logged by the caller and never aborts arbitration.
type KnowledgeBase interface {
	// Query returns freeform guidance text relevant to the disruption
	// scenario and the aggregated binding constraints, or an error if the
	// backing retrieval service is unavailable. Callers must treat a
	// non-nil error as "no guidance available", not as a fatal condition.
	Query(ctx context.Context, disruptionScenario string, bindingConstraints []string, maxResults int) (string, error)
}

// NoopKnowledgeBase is the default KnowledgeBase: it always returns
// empty guidance, for deployments with no retrieval backend configured.
type NoopKnowledgeBase struct{}

// Query always returns an empty result with no error.
func (NoopKnowledgeBase) Query(ctx context.Context, disruptionScenario string, bindingConstraints []string, maxResults int) (string, error) {
	return "", nil
}
