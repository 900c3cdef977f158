// Package arbitrator implements the Phase 3 decision arbitrator:
// deterministic dimension scoring over candidate recovery solutions,
// binding-constraint enforcement, and the final tie-break.
package arbitrator

import (
	"math"
	"strings"

	"github.com/flightops/skymarshal/pkg/config"
	"github.com/flightops/skymarshal/pkg/model"
)

// violationPhrases flag a candidate solution as a flat binding-constraint
// violation regardless of any positive margin language elsewhere in the
// text.
var violationPhrases = []string{"violates", "cannot proceed", "non-compliant", "exceeds limit"}

// CalculateSafetyScore scores a candidate against its own safety_compliance
// narrative and the aggregated binding constraints it must satisfy. An
// empty constraint set always scores 100; a detected violation phrase
// always scores 0; otherwise the score is derived from the margin language
// used in the compliance text.
//
// RecoverySolution carries no explicit numeric margin fields, so margin
// is always inferred from the compliance narrative's language.
func CalculateSafetyScore(bindingConstraints []string, safetyCompliance string) float64 {
	if len(bindingConstraints) == 0 {
		return 100.0
	}
	lower := strings.ToLower(safetyCompliance)
	for _, p := range violationPhrases {
		if strings.Contains(lower, p) {
			return 0.0
		}
	}
	margin := inferSafetyMargin(lower)
	switch {
	case margin >= 0.20:
		return 100.0
	case margin >= 0.10:
		return 80.0 + ((margin-0.10)/0.10)*20.0
	case margin >= 0.0:
		return 60.0 + (margin/0.10)*20.0
	default:
		return 0.0
	}
}

func inferSafetyMargin(lower string) float64 {
	switch {
	case strings.Contains(lower, "significant margin"):
		return 0.25
	case strings.Contains(lower, "comfortable margin"):
		return 0.15
	case strings.Contains(lower, "minimal margin"):
		return 0.05
	case strings.Contains(lower, "satisfies") || strings.Contains(lower, "compliant"):
		return 0.10
	default:
		return 0.0
	}
}

// CalculateCostScore scores total recovery cost on a banded curve: a
// 75000 total cost lands in the 60-80 band and scores 75.0 exactly.
func CalculateCostScore(totalCost float64) float64 {
	switch {
	case totalCost < 10000:
		return 100.0
	case totalCost < 50000:
		return 80.0 + ((50000-totalCost)/40000)*20.0
	case totalCost < 150000:
		return 60.0 + ((150000-totalCost)/100000)*20.0
	case totalCost < 300000:
		return 40.0 + ((300000-totalCost)/150000)*20.0
	default:
		v := 40.0 - ((totalCost-300000)/300000)*40.0
		if v < 0 {
			v = 0
		}
		return v
	}
}

// CalculatePassengerScore scores passenger impact from affected count,
// delay length, cancellation, and available reprotection options.
func CalculatePassengerScore(impact model.PassengerImpact) float64 {
	var base float64
	switch {
	case impact.Affected < 50:
		base = 100
	case impact.Affected < 150:
		base = 80
	case impact.Affected < 300:
		base = 60
	default:
		base = 40
	}
	score := base - math.Min(30, impact.DelayHours*5)
	if impact.Cancelled {
		score -= 20
	}
	score += math.Min(10, float64(len(impact.ReprotectionOptions))*3)
	return clamp(score, 0, 100)
}

// CalculateNetworkScore scores downstream network disruption: base from
// the downstream-flight count, minus a capped connection-miss penalty.
func CalculateNetworkScore(impact model.NetworkImpact) float64 {
	var base float64
	switch {
	case impact.DownstreamFlights == 0:
		base = 100
	case impact.DownstreamFlights <= 2:
		base = 80
	case impact.DownstreamFlights <= 5:
		base = 60
	default:
		base = 40
	}
	score := base - math.Min(30, float64(impact.ConnectionMisses)*10)
	return clamp(score, 0, 100)
}

// CalculateCompositeScore combines the four dimension scores with the
// configured weights (0.4/0.2/0.2/0.2 by default), rounded to one
// decimal place.
func CalculateCompositeScore(safety, cost, passenger, network float64, w config.ScoringWeights) float64 {
	raw := w.Safety*safety + w.Cost*cost + w.Passenger*passenger + w.Network*network
	return math.Round(raw*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
