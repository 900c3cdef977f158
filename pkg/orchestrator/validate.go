package orchestrator

import (
	"github.com/flightops/skymarshal/pkg/config"
	"github.com/flightops/skymarshal/pkg/model"
)

// ValidateAgentInputs checks each agent's configured RequiredFields against
// the resolved disruption. Unlike
// ValidateDisruptionPayload, a missing field here never aborts the run: it
// is recorded as a warning attached to that agent's invocation so a
// reviewer can see which recommendations were made with incomplete data.
func ValidateAgentInputs(registry *config.AgentRegistry, disruption model.DisruptionContext) map[config.AgentName][]string {
	warnings := make(map[config.AgentName][]string)
	for _, name := range config.AllAgentNames {
		cfg, err := registry.Get(name)
		if err != nil {
			continue
		}
		var missing []string
		for _, field := range cfg.RequiredFields {
			value, known := disruption.Field(field)
			if !known || value == "" {
				missing = append(missing, field)
			}
		}
		if len(missing) > 0 {
			warnings[name] = missing
		}
	}
	return warnings
}

// requiredPayloadFields is the field set the pipeline as a whole can
// make use of; per-agent subsets are configured on each AgentConfig.
var requiredPayloadFields = []string{
	"flight_id",
	"flight_number",
	"departure_airport",
	"arrival_airport",
	"scheduled_departure",
	"aircraft_id",
	"delay_hours",
	"disruption_type",
}

// PayloadValidation is the top-level result of ValidateDisruptionPayload.
type PayloadValidation struct {
	IsValid         bool     `json:"is_valid"`
	MissingFields   []string `json:"missing_fields"`
	RequiredFields  []string `json:"required_fields"`
}

// ValidateDisruptionPayload checks the disruption context carries every
// field the orchestration pipeline as a whole can make use of, distinct
// from the per-agent ValidateAgentInputs check above. The dispatch layer
// logs a failing validation and proceeds: the context is built from
// free text plus the flight record, so fields like delay_hours are
// legitimately absent when the narrative never stated them, and the
// tool layer surfaces not_found for anything an agent cannot resolve.
func ValidateDisruptionPayload(disruption model.DisruptionContext) PayloadValidation {
	var missing []string
	for _, field := range requiredPayloadFields {
		value, known := disruption.Field(field)
		if !known || value == "" {
			missing = append(missing, field)
		}
	}
	return PayloadValidation{
		IsValid:        len(missing) == 0,
		MissingFields:  missing,
		RequiredFields: requiredPayloadFields,
	}
}
