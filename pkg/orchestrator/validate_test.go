package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flightops/skymarshal/pkg/config"
	"github.com/flightops/skymarshal/pkg/model"
)

func TestValidateAgentInputsFlagsMissingFields(t *testing.T) {
	registry := config.NewAgentRegistry(config.BuiltinAgents())
	disruption := model.DisruptionContext{FlightID: "1"} // missing delay_hours, aircraft_id, etc.

	warnings := ValidateAgentInputs(registry, disruption)

	assert.Contains(t, warnings[config.AgentCrewCompliance], "delay_hours")
	assert.Contains(t, warnings[config.AgentMaintenance], "aircraft_id")
	assert.NotContains(t, warnings[config.AgentCrewCompliance], "flight_id")
}

func TestValidateAgentInputsNoWarningsWhenComplete(t *testing.T) {
	registry := config.NewAgentRegistry(config.BuiltinAgents())
	disruption := model.DisruptionContext{
		FlightID: "1", FlightNumber: "EY123", DepartureAirport: "AUH", ArrivalAirport: "JFK",
		ScheduledDeparture: "2026-01-20T10:00:00Z", AircraftID: "A6-ABC", DelayHours: 3,
	}

	warnings := ValidateAgentInputs(registry, disruption)
	assert.Empty(t, warnings)
}

func TestValidateDisruptionPayload(t *testing.T) {
	incomplete := model.DisruptionContext{FlightID: "1"}
	got := ValidateDisruptionPayload(incomplete)
	assert.False(t, got.IsValid)
	assert.Contains(t, got.MissingFields, "disruption_type")

	complete := model.DisruptionContext{
		FlightID: "1", FlightNumber: "EY123", DepartureAirport: "AUH", ArrivalAirport: "JFK",
		ScheduledDeparture: "2026-01-20T10:00:00Z", AircraftID: "A6-ABC", DelayHours: 3, DisruptionType: "mechanical",
	}
	got = ValidateDisruptionPayload(complete)
	assert.True(t, got.IsValid)
	assert.Empty(t, got.MissingFields)
}
