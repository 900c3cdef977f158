package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/flightops/skymarshal/pkg/config"
)

func allSuccessCollation() Collation {
	responses := make(map[config.AgentName]AgentResponse, len(config.AllAgentNames))
	for _, name := range config.AllAgentNames {
		responses[name] = AgentResponse{AgentName: name, Status: AgentResponseSuccess, Confidence: 0.8}
	}
	return Collation{Phase: PhaseInitial, Responses: responses, Timestamp: time.Now()}
}

func TestCollationSuccessfulAndFailed(t *testing.T) {
	c := allSuccessCollation()
	resp := c.Responses[config.AgentNetwork]
	resp.Status = AgentResponseTimeout
	resp.Confidence = 0
	c.Responses[config.AgentNetwork] = resp

	assert.Len(t, c.Successful(), 6)
	assert.Len(t, c.Failed(), 1)
	assert.Equal(t, map[AgentResponseStatus]int{AgentResponseSuccess: 6, AgentResponseTimeout: 1}, c.CountByStatus())
}

func TestCollationSafetyFailures(t *testing.T) {
	c := allSuccessCollation()
	resp := c.Responses[config.AgentCrewCompliance]
	resp.Status = AgentResponseError
	c.Responses[config.AgentCrewCompliance] = resp

	safety := []config.AgentName{config.AgentCrewCompliance, config.AgentMaintenance, config.AgentRegulatory}
	failed := c.SafetyFailures(safety)
	assert.Equal(t, []config.AgentName{config.AgentCrewCompliance}, failed)
}
