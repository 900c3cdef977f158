// Package report assembles the audit-ready DecisionReport from an
// arbitrator output. It adds no new facts: everything in
// a DecisionReport is derived, deterministically, from the
// model.ArbitratorOutput and the disruption context the orchestrator
// already resolved.
package report

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/flightops/skymarshal/pkg/model"
)

// maxRecommendationsSummary bounds how many recommendations are echoed
// in the textual summary.
const maxRecommendationsSummary = 5

// Generate builds a DecisionReport from an arbitrator output.
// disruptionID identifies the originating request/disruption; flightNumber
// and disruptionType, when non-empty, are used verbatim instead of being
// inferred from the narrative text.
func Generate(output *model.ArbitratorOutput, disruptionID, flightNumber, disruptionType string) model.DecisionReport {
	if flightNumber == "" {
		flightNumber = extractFlightNumber(output)
	}
	if disruptionType == "" {
		disruptionType = classifyDisruptionType(output)
	}

	recommended, ok := findRecommended(output)

	return model.DecisionReport{
		ReportID:                "RPT-" + disruptionID,
		DisruptionID:            disruptionID,
		FlightNumber:            flightNumber,
		DisruptionType:          disruptionType,
		Timestamp:               output.Timestamp,
		ExecutiveSummary:        executiveSummary(output, flightNumber, disruptionType, recommended, ok),
		SolutionOptions:         output.SolutionOptions,
		RecommendedSolutionID:   output.RecommendedSolutionID,
		ImpactAssessments:       impactAssessments(recommended, ok),
		ConflictResolutions:     output.ConflictResolutions,
		SolutionComparison:      solutionComparison(output.SolutionOptions),
		ConflictAnalysis:        conflictAnalysis(output.ConflictResolutions),
		RecommendationsSummary:  recommendationsSummary(output.Recommendations),
		Confidence:              output.Confidence,
		Justification:           output.Justification,
		Reasoning:               output.Reasoning,
	}
}

var flightNumberPattern = regexp.MustCompile(`[A-Z]{2}\d{3,4}`)

func extractFlightNumber(output *model.ArbitratorOutput) string {
	text := output.Reasoning + " " + output.Justification
	if m := flightNumberPattern.FindString(text); m != "" {
		return m
	}
	return "UNKNOWN"
}

// classifyDisruptionType keyword-classifies the decision narrative into
// crew/maintenance/weather/regulatory/other.
func classifyDisruptionType(output *model.ArbitratorOutput) string {
	return ClassifyEventText(output.Reasoning + " " + output.Justification)
}

// ClassifyEventText buckets a free-text disruption narrative into
// crew/maintenance/weather/regulatory/other. Exposed so the dispatch
// layer can classify the extracted disruption event with the same
// keyword table the report uses.
func ClassifyEventText(text string) string {
	text = strings.ToLower(text)
	switch {
	case strings.Contains(text, "crew") || strings.Contains(text, "fdp") || strings.Contains(text, "duty"):
		return "crew"
	case strings.Contains(text, "maintenance") || strings.Contains(text, "aircraft") || strings.Contains(text, "mechanical"):
		return "maintenance"
	case strings.Contains(text, "weather"):
		return "weather"
	case strings.Contains(text, "regulatory") || strings.Contains(text, "curfew") || strings.Contains(text, "slot"):
		return "regulatory"
	default:
		return "other"
	}
}

func findRecommended(output *model.ArbitratorOutput) (model.RecoverySolution, bool) {
	if output.RecommendedSolutionID == nil {
		return model.RecoverySolution{}, false
	}
	for _, s := range output.SolutionOptions {
		if s.SolutionID == *output.RecommendedSolutionID {
			return s, true
		}
	}
	return model.RecoverySolution{}, false
}

func executiveSummary(output *model.ArbitratorOutput, flightNumber, disruptionType string, recommended model.RecoverySolution, haveRecommended bool) string {
	parts := []string{
		fmt.Sprintf("Flight %s experienced a %s disruption.", flightNumber, disruptionType),
		fmt.Sprintf("The arbitrator analyzed the situation and generated %d solution options.", len(output.SolutionOptions)),
	}
	if haveRecommended {
		parts = append(parts, fmt.Sprintf(
			"The recommended solution is '%s' (composite score: %.1f/100).",
			recommended.Title, recommended.CompositeScore,
		))
	}
	parts = append(parts, fmt.Sprintf("Decision confidence: %.0f%%.", output.Confidence*100))
	return strings.Join(parts, " ")
}

// impactAssessments derives one ImpactAssessment per category from the
// recommended solution's dimension data. When no solution was
// recommended (arbitrator impasse), no assessments are produced: there is
// nothing to assess an impact against.
func impactAssessments(recommended model.RecoverySolution, ok bool) []model.ImpactAssessment {
	if !ok {
		return nil
	}

	safetySeverity := model.SeverityHigh
	switch {
	case recommended.SafetyScore >= 90:
		safetySeverity = model.SeverityLow
	case recommended.SafetyScore >= 70:
		safetySeverity = model.SeverityMedium
	}

	pax := recommended.PassengerImpact
	passengerSeverity := model.SeverityLow
	switch {
	case pax.Cancelled:
		passengerSeverity = model.SeverityHigh
	case pax.DelayHours > 4:
		passengerSeverity = model.SeverityMedium
	}

	fin := recommended.FinancialImpact
	financialSeverity := model.SeverityLow
	switch {
	case fin.TotalCost > 150000:
		financialSeverity = model.SeverityHigh
	case fin.TotalCost > 50000:
		financialSeverity = model.SeverityMedium
	}

	net := recommended.NetworkImpact
	networkSeverity := model.SeverityLow
	switch {
	case net.DownstreamFlights > 5:
		networkSeverity = model.SeverityHigh
	case net.DownstreamFlights > 2:
		networkSeverity = model.SeverityMedium
	}

	return []model.ImpactAssessment{
		{
			Category:      model.ImpactSafety,
			Severity:      safetySeverity,
			Description:   recommended.SafetyCompliance,
			AffectedCount: 0,
			EstimatedCost: 0,
		},
		{
			Category:      model.ImpactPassenger,
			Severity:      passengerSeverity,
			Description:   fmt.Sprintf("%d passengers affected, %.1f hour delay", pax.Affected, pax.DelayHours),
			AffectedCount: pax.Affected,
			EstimatedCost: 0,
		},
		{
			Category:      model.ImpactFinancial,
			Severity:      financialSeverity,
			Description:   fmt.Sprintf("Total cost: $%.0f", fin.TotalCost),
			AffectedCount: 0,
			EstimatedCost: fin.TotalCost,
		},
		{
			Category:      model.ImpactNetwork,
			Severity:      networkSeverity,
			Description:   fmt.Sprintf("%d downstream flights affected, %d connection misses", net.DownstreamFlights, net.ConnectionMisses),
			AffectedCount: net.DownstreamFlights,
			EstimatedCost: 0,
		},
	}
}

// solutionComparison renders one line per solution plus, when at least two
// candidates exist, trade-off sentences from a pairwise comparison of the
// top two. SolutionOptions arrives in raw emission order, so the top two
// are selected here by ranking a copy with the arbitrator's tie-break
// ordering; the rendered per-solution lines keep the original order.
func solutionComparison(solutions []model.RecoverySolution) []string {
	if len(solutions) == 0 {
		return nil
	}

	lines := make([]string, 0, len(solutions)+2)
	for _, s := range solutions {
		lines = append(lines, fmt.Sprintf(
			"%s: composite %.1f (safety %.1f, cost %.1f, passenger %.1f, network %.1f), %s, confidence %.0f%%",
			s.Title, s.CompositeScore, s.SafetyScore, s.CostScore, s.PassengerScore, s.NetworkScore,
			s.EstimatedDuration, s.Confidence*100,
		))
	}

	if ranked := rankByComposite(solutions); len(ranked) >= 2 {
		a, b := ranked[0], ranked[1]
		if a.SafetyScore > b.SafetyScore && a.CostScore < b.CostScore {
			lines = append(lines, fmt.Sprintf("%s prioritizes safety over cost compared to %s", a.Title, b.Title))
		}
		if a.PassengerScore > b.PassengerScore && a.NetworkScore < b.NetworkScore {
			lines = append(lines, fmt.Sprintf("%s minimizes passenger impact at the expense of network disruption", a.Title))
		}
	}

	return lines
}

// rankByComposite returns a copy of solutions sorted best-first with the
// same ordering the arbitrator uses to pick its recommendation: composite
// score, then safety score, then lower cost, then passenger score, then
// solution ID for determinism.
func rankByComposite(solutions []model.RecoverySolution) []model.RecoverySolution {
	ranked := make([]model.RecoverySolution, len(solutions))
	copy(ranked, solutions)
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
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
	return ranked
}

// conflictAnalysis counts conflicts by type and renders one resolution
// summary line per resolution. Counts are derived from
// ConflictResolutions, never from ArbitratorOutput.ConflictsIdentified,
// so the two can never disagree.
func conflictAnalysis(resolutions []model.ConflictResolution) model.ConflictAnalysis {
	counts := make(map[model.ConflictType]int, len(resolutions))
	summaries := make([]string, 0, len(resolutions))
	for _, r := range resolutions {
		counts[r.ConflictType]++
		summaries = append(summaries, fmt.Sprintf("%s: %s (%s)", r.ConflictDescription, r.Resolution, r.Rationale))
	}
	return model.ConflictAnalysis{CountsByType: counts, Summaries: summaries}
}

func recommendationsSummary(recs []string) string {
	if len(recs) == 0 {
		return "No specific recommendations provided."
	}
	top := recs
	if len(top) > maxRecommendationsSummary {
		top = top[:maxRecommendationsSummary]
	}
	lines := make([]string, 0, len(top)+1)
	lines = append(lines, "Key recommendations:")
	for _, r := range top {
		lines = append(lines, "- "+r)
	}
	return strings.Join(lines, "\n")
}
