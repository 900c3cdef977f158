package config

import "time"

// Defaults holds system-wide tunables that are not specific to any single
// agent or LLM provider.
type Defaults struct {
	// SafetyAgentTimeout is the per-invocation timeout for safety agents
	// (crew_compliance, maintenance, regulatory).
	SafetyAgentTimeout time.Duration `yaml:"safety_agent_timeout"`

	// BusinessAgentTimeout is the per-invocation timeout for business agents
	// (network, guest_experience, cargo, finance).
	BusinessAgentTimeout time.Duration `yaml:"business_agent_timeout"`

	// ExtractorTimeout bounds the flight-info extraction LLM call.
	ExtractorTimeout time.Duration `yaml:"extractor_timeout"`

	// BackgroundJobTimeout bounds a full orchestration run dispatched from
	// the async surface.
	BackgroundJobTimeout time.Duration `yaml:"background_job_timeout"`

	// RequestTTL is how long a request record remains valid after creation.
	RequestTTL time.Duration `yaml:"request_ttl"`

	// SessionTTL is how long a session record remains valid after creation.
	SessionTTL time.Duration `yaml:"session_ttl"`

	// SessionHistoryLimit is loaded from configuration but is not passed to
	// the store; store.GetSession applies its own default of 50 when called
	// without a positive limit.
	SessionHistoryLimit int `yaml:"session_history_limit"`

	// KnowledgeBaseMaxRetrievals is the maximum number of results the
	// arbitrator requests from its single knowledge-base query per decision.
	KnowledgeBaseMaxRetrievals int `yaml:"knowledge_base_max_retrievals"`

	// ScoringWeights are the composite-score weights; must sum to 1.0.
	ScoringWeights ScoringWeights `yaml:"scoring_weights"`
}

// ScoringWeights are the dimension weights used by the arbitrator's
// composite score: 0.4 safety + 0.2 cost + 0.2 passenger + 0.2 network.
type ScoringWeights struct {
	Safety    float64 `yaml:"safety"`
	Cost      float64 `yaml:"cost"`
	Passenger float64 `yaml:"passenger"`
	Network   float64 `yaml:"network"`
}

// DefaultScoringWeights returns the canonical weights.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{Safety: 0.4, Cost: 0.2, Passenger: 0.2, Network: 0.2}
}

// NewDefaults returns the built-in system defaults, used as the base that
// user-supplied YAML overrides via mergo (see merge.go).
func NewDefaults() *Defaults {
	return &Defaults{
		SafetyAgentTimeout:         60 * time.Second,
		BusinessAgentTimeout:       45 * time.Second,
		ExtractorTimeout:           60 * time.Second,
		BackgroundJobTimeout:       10 * time.Minute,
		RequestTTL:                 1 * time.Hour,
		SessionTTL:                 30 * 24 * time.Hour,
		SessionHistoryLimit:        50,
		KnowledgeBaseMaxRetrievals: 3,
		ScoringWeights:             DefaultScoringWeights(),
	}
}

// BuiltinAgents returns the built-in agent registry entries for the seven
// specialist agents. This is the registry the system ships
// with; operators may override individual fields via agents.yaml.
func BuiltinAgents() map[AgentName]*AgentConfig {
	return map[AgentName]*AgentConfig{
		AgentCrewCompliance: {
			Category:        AgentCategorySafety,
			Description:     "Evaluates crew duty/rest compliance for the disrupted flight.",
			AuthorizedTools: []string{"get_flight", "get_crew_roster", "get_crew_members"},
			RequiredFields:  []string{"flight_id", "delay_hours"},
		},
		AgentMaintenance: {
			Category:        AgentCategorySafety,
			Description:     "Evaluates aircraft airworthiness and maintenance work order status.",
			AuthorizedTools: []string{"get_flight", "get_maintenance_work_orders", "get_aircraft_availability"},
			RequiredFields:  []string{"aircraft_id", "flight_id"},
		},
		AgentRegulatory: {
			Category:        AgentCategorySafety,
			Description:     "Evaluates curfew, slot, and regulatory constraints on recovery options.",
			AuthorizedTools: []string{"get_flight", "get_crew_roster", "get_maintenance_work_orders", "get_weather"},
			RequiredFields:  []string{"departure_airport", "arrival_airport", "scheduled_departure"},
		},
		AgentNetwork: {
			Category:        AgentCategoryBusiness,
			Description:     "Evaluates downstream network and connection impact of recovery options.",
			AuthorizedTools: []string{"get_flight", "get_aircraft_availability", "get_bookings"},
			RequiredFields:  []string{"flight_id", "aircraft_id", "delay_hours"},
		},
		AgentGuestExperience: {
			Category:        AgentCategoryBusiness,
			Description:     "Evaluates passenger impact: reprotection, baggage, and service recovery.",
			AuthorizedTools: []string{"get_flight", "get_bookings", "get_baggage", "get_passengers"},
			RequiredFields:  []string{"flight_id", "delay_hours"},
		},
		AgentCargo: {
			Category:        AgentCategoryBusiness,
			Description:     "Evaluates cargo shipment and commitment impact of recovery options.",
			AuthorizedTools: []string{"get_flight", "get_cargo_shipments", "get_cargo_flight_assignments"},
			RequiredFields:  []string{"flight_id", "delay_hours"},
		},
		AgentFinance: {
			Category:        AgentCategoryBusiness,
			Description:     "Evaluates total cost exposure across recovery options.",
			AuthorizedTools: []string{"get_flight", "get_bookings", "get_cargo_flight_assignments", "get_maintenance_work_orders"},
			RequiredFields:  []string{"flight_id", "delay_hours"},
		},
	}
}
