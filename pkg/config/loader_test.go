package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLLMProvidersYAML = `
llm_providers:
  default:
    type: anthropic
    model: claude-opus-4
    api_key_env: ANTHROPIC_API_KEY
    max_tool_result_tokens: 2000
    max_output_tokens: 4096
`

func writeConfigFiles(t *testing.T, dir string, skymarshalYAML, llmYAML string) {
	t.Helper()
	if skymarshalYAML != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "skymarshal.yaml"), []byte(skymarshalYAML), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "llm-providers.yaml"), []byte(llmYAML), 0o644))
}

func TestInitializeBuiltinAgentsWhenNoOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfigFiles(t, dir, "", testLLMProvidersYAML)

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.AgentRegistry.Len())

	agent, err := cfg.GetAgent(AgentMaintenance)
	require.NoError(t, err)
	assert.Equal(t, AgentCategorySafety, agent.Category)
	assert.Equal(t, []string{"aircraft_id", "flight_id"}, agent.RequiredFields)
}

func TestInitializeMergesUserOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfigFiles(t, dir, `
defaults:
  safety_agent_timeout: 90s
agents:
  finance:
    description: "Overridden finance description"
`, testLLMProvidersYAML)

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 90_000_000_000, int(cfg.Defaults.SafetyAgentTimeout))

	agent, err := cfg.GetAgent(AgentFinance)
	require.NoError(t, err)
	assert.Equal(t, "Overridden finance description", agent.Description)
	// Unrelated fields still come from the built-in default.
	assert.Equal(t, AgentCategoryBusiness, agent.Category)
}

func TestInitializeFailsOnMissingLLMProvidersFile(t *testing.T) {
	dir := t.TempDir()
	_, err := Initialize(context.Background(), dir)
	assert.Error(t, err)
}

func TestInitializeFailsOnBadScoringWeights(t *testing.T) {
	dir := t.TempDir()
	writeConfigFiles(t, dir, `
defaults:
  scoring_weights:
    safety: 0.9
    cost: 0.2
    passenger: 0.2
    network: 0.2
`, testLLMProvidersYAML)

	_, err := Initialize(context.Background(), dir)
	assert.Error(t, err)
}
