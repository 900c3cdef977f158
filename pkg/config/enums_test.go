package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAgentNameIsValid(t *testing.T) {
	tests := []struct {
		name  string
		agent AgentName
		valid bool
	}{
		{"crew_compliance", AgentCrewCompliance, true},
		{"maintenance", AgentMaintenance, true},
		{"regulatory", AgentRegulatory, true},
		{"network", AgentNetwork, true},
		{"guest_experience", AgentGuestExperience, true},
		{"cargo", AgentCargo, true},
		{"finance", AgentFinance, true},
		{"invalid", AgentName("invalid"), false},
		{"empty", AgentName(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.agent.IsValid())
		})
	}
}

func TestAllAgentNamesHasSeven(t *testing.T) {
	assert.Len(t, AllAgentNames, 7)
}

func TestAgentCategoryIsValid(t *testing.T) {
	tests := []struct {
		name     string
		category AgentCategory
		valid    bool
	}{
		{"safety", AgentCategorySafety, true},
		{"business", AgentCategoryBusiness, true},
		{"invalid", AgentCategory("invalid"), false},
		{"empty", AgentCategory(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.category.IsValid())
		})
	}
}

func TestLLMProviderTypeIsValid(t *testing.T) {
	assert.True(t, LLMProviderTypeAnthropic.IsValid())
	assert.False(t, LLMProviderType("invalid").IsValid())
	assert.False(t, LLMProviderType("").IsValid())
}

func TestRequestStatusIsValid(t *testing.T) {
	tests := []struct {
		name   string
		status RequestStatus
		valid  bool
	}{
		{"processing", RequestStatusProcessing, true},
		{"complete", RequestStatusComplete, true},
		{"error", RequestStatusError, true},
		{"invalid", RequestStatus("invalid"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.status.IsValid())
		})
	}
}
