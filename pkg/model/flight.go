// Package model defines the data types shared across the disruption
// orchestrator: extracted flight identity, per-agent responses, collations,
// candidate recovery solutions, and the arbitrator's final decision.
package model

import (
	"fmt"
	"regexp"
	"time"
)

var flightNumberPattern = regexp.MustCompile(`^[A-Z]{2}\d{3,4}$`)

// FlightInfo is the structurally-validated output of the flight-info
// extractor. All three fields must be populated before any
// downstream work proceeds.
type FlightInfo struct {
	FlightNumber    string `json:"flight_number" validate:"required"`
	Date            string `json:"date" validate:"required"` // ISO 8601 YYYY-MM-DD
	DisruptionEvent string `json:"disruption_event" validate:"required"`
}

// Validate checks the structural invariants: flight_number
// matches the carrier pattern, date parses as ISO 8601, disruption_event
// is non-empty.
func (f FlightInfo) Validate() error {
	if f.FlightNumber == "" || !flightNumberPattern.MatchString(f.FlightNumber) {
		return fmt.Errorf("flight_number %q does not match carrier pattern (2 letters + 3-4 digits)", f.FlightNumber)
	}
	if _, err := time.Parse("2006-01-02", f.Date); err != nil {
		return fmt.Errorf("date %q is not a valid ISO 8601 date: %w", f.Date, err)
	}
	if f.DisruptionEvent == "" {
		return fmt.Errorf("disruption_event must not be empty")
	}
	return nil
}
