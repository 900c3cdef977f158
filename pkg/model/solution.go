package model

// FinancialImpact carries the cost dimension's raw inputs.
type FinancialImpact struct {
	TotalCost float64 `json:"total_cost"`
}

// PassengerImpact carries the passenger dimension's raw inputs.
type PassengerImpact struct {
	Affected            int      `json:"affected"`
	DelayHours          float64  `json:"delay_hours"`
	Cancelled           bool     `json:"cancelled"`
	ReprotectionOptions []string `json:"reprotection_options"`
}

// NetworkImpact carries the network dimension's raw inputs.
type NetworkImpact struct {
	DownstreamFlights int `json:"downstream_flights"`
	ConnectionMisses  int `json:"connection_misses"`
}

// RecoverySolution is a candidate recovery option produced by the
// arbitrator.
type RecoverySolution struct {
	SolutionID        string  `json:"solution_id"`
	Title             string  `json:"title"`
	SafetyScore       float64 `json:"safety_score"`
	CostScore         float64 `json:"cost_score"`
	PassengerScore    float64 `json:"passenger_score"`
	NetworkScore      float64 `json:"network_score"`
	CompositeScore    float64 `json:"composite_score"`
	Confidence        float64 `json:"confidence"`
	EstimatedDuration string  `json:"estimated_duration"`
	SafetyCompliance  string  `json:"safety_compliance"`

	FinancialImpact FinancialImpact `json:"financial_impact"`
	PassengerImpact PassengerImpact `json:"passenger_impact"`
	NetworkImpact   NetworkImpact   `json:"network_impact"`
}

// ConflictType classifies a disagreement between agent recommendations.
type ConflictType string

const (
	ConflictTimingMismatch        ConflictType = "timing_mismatch"
	ConflictResourceContention    ConflictType = "resource_contention"
	ConflictConstraintVsPreference ConflictType = "constraint_vs_preference"
)

// ConflictResolution documents how the arbitrator resolved one identified
// conflict between agent recommendations.
type ConflictResolution struct {
	ConflictType        ConflictType `json:"conflict_type"`
	ConflictDescription string       `json:"conflict_description"`
	Resolution          string       `json:"resolution"`
	Rationale           string       `json:"rationale"`
}

// ImpactCategory enumerates the report's impact-assessment categories.
type ImpactCategory string

const (
	ImpactSafety    ImpactCategory = "safety"
	ImpactPassenger ImpactCategory = "passenger"
	ImpactFinancial ImpactCategory = "financial"
	ImpactNetwork   ImpactCategory = "network"
)

// ImpactSeverity enumerates the severity bands.
type ImpactSeverity string

const (
	SeverityLow    ImpactSeverity = "low"
	SeverityMedium ImpactSeverity = "medium"
	SeverityHigh   ImpactSeverity = "high"
)

// ImpactAssessment summarizes a recovery solution's effect in one category.
type ImpactAssessment struct {
	Category        ImpactCategory `json:"category"`
	Severity        ImpactSeverity `json:"severity"`
	Description     string         `json:"description"`
	AffectedCount   int            `json:"affected_count"`
	EstimatedCost   float64        `json:"estimated_cost"`
	MitigationSteps []string       `json:"mitigation_steps"`
}

// SafetyOverride records one binding constraint emitted by a successful
// safety agent. The arbitrator records every such constraint, whether or
// not it eliminated a candidate solution.
type SafetyOverride struct {
	SafetyAgent       string `json:"safety_agent"`
	BindingConstraint string `json:"binding_constraint"`
}

// ArbitratorOutput is the arbitrator's final decision.
type ArbitratorOutput struct {
	RecommendedSolutionID *string               `json:"recommended_solution_id"`
	SolutionOptions       []RecoverySolution     `json:"solution_options"`
	ConflictsIdentified   int                    `json:"conflicts_identified"`
	ConflictResolutions   []ConflictResolution   `json:"conflict_resolutions"`
	SafetyOverrides       []SafetyOverride       `json:"safety_overrides"`
	FinalDecision         string                 `json:"final_decision"`
	Recommendations       []string               `json:"recommendations"`
	Justification         string                 `json:"justification"`
	Reasoning             string                 `json:"reasoning"`
	Confidence            float64                `json:"confidence"`
	Timestamp             string                 `json:"timestamp"`

	// DecisionReport is attached by the report generator once it has been
	// generated from this output; nil until then.
	DecisionReport *DecisionReport `json:"decision_report,omitempty"`
}

// DecisionReport is the audit-ready report assembled by pkg/report.
type DecisionReport struct {
	ReportID       string `json:"report_id"` // "RPT-" + disruption_id
	DisruptionID   string `json:"disruption_id"`
	FlightNumber   string `json:"flight_number"`
	DisruptionType string `json:"disruption_type"`
	Timestamp      string `json:"timestamp"`

	ExecutiveSummary      string               `json:"executive_summary"`
	SolutionOptions       []RecoverySolution   `json:"solution_options"`
	RecommendedSolutionID *string              `json:"recommended_solution_id"`
	ImpactAssessments     []ImpactAssessment   `json:"impact_assessments"`
	ConflictResolutions   []ConflictResolution `json:"conflict_resolutions"`
	SolutionComparison    []string             `json:"solution_comparison"`
	ConflictAnalysis      ConflictAnalysis     `json:"conflict_analysis"`
	RecommendationsSummary string             `json:"recommendations_summary"`

	Confidence    float64 `json:"confidence"`
	Justification string  `json:"justification"`
	Reasoning     string  `json:"reasoning"`
}

// ConflictAnalysis aggregates conflict counts and resolution summaries.
type ConflictAnalysis struct {
	CountsByType map[ConflictType]int `json:"counts_by_type"`
	Summaries    []string             `json:"summaries"`
}

// Completeness reports which required DecisionReport sections are populated.
type Completeness struct {
	HasExecutiveSummary  bool `json:"has_executive_summary"`
	HasSolutionOptions   bool `json:"has_solution_options"`
	HasImpactAssessments bool `json:"has_impact_assessments"`
	HasConflictAnalysis  bool `json:"has_conflict_analysis"`
	HasRecommendations   bool `json:"has_recommendations"`
}

// Validate returns the completeness booleans for r.
func (r DecisionReport) Validate() Completeness {
	return Completeness{
		HasExecutiveSummary:  r.ExecutiveSummary != "",
		HasSolutionOptions:   len(r.SolutionOptions) > 0,
		HasImpactAssessments: len(r.ImpactAssessments) > 0,
		HasConflictAnalysis:  r.ConflictAnalysis.CountsByType != nil,
		HasRecommendations:   r.RecommendationsSummary != "",
	}
}
