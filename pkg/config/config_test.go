package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStats(t *testing.T) {
	cfg := &Config{
		AgentRegistry:       NewAgentRegistry(BuiltinAgents()),
		LLMProviderRegistry: NewLLMProviderRegistry(map[string]*LLMProviderConfig{"default": {}}),
	}

	stats := cfg.Stats()
	assert.Equal(t, 7, stats.Agents)
	assert.Equal(t, 1, stats.LLMProviders)
}

func TestConfigGetAgent(t *testing.T) {
	cfg := &Config{AgentRegistry: NewAgentRegistry(BuiltinAgents())}

	agent, err := cfg.GetAgent(AgentCrewCompliance)
	require.NoError(t, err)
	assert.Equal(t, AgentCategorySafety, agent.Category)

	_, err = cfg.GetAgent(AgentName("unknown"))
	assert.ErrorIs(t, err, ErrAgentNotFound)
}
