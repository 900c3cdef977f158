package agent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/flightops/skymarshal/pkg/config"
	"github.com/flightops/skymarshal/pkg/model"
	"github.com/flightops/skymarshal/pkg/tools"
)

func TestSafeRunClassifiesTimeout(t *testing.T) {
	cfg := testAgentConfig(config.AgentCategorySafety)
	short := 20 * time.Millisecond
	cfg.Timeout = &short

	client := &scriptedClient{toolArgs: []string{`{}`}, delay: 200 * time.Millisecond}
	a := New(config.AgentCrewCompliance, cfg, &config.LLMProviderConfig{MaxOutputTokens: 100}, client, tools.NewRegistry())

	safety := map[config.AgentName]bool{config.AgentCrewCompliance: true}
	resp := SafeRun(context.Background(), a, safety, testDisruption(), model.PhaseInitial, nil)

	assert.Equal(t, model.AgentResponseTimeout, resp.Status)
	assert.True(t, resp.IsSafetyCritical)
	assert.Equal(t, short, resp.TimeoutThreshold)
}

func TestSafeRunSuccessNeverMarksSafetyCritical(t *testing.T) {
	cfg := testAgentConfig(config.AgentCategorySafety)
	client := &scriptedClient{toolArgs: []string{`{"recommendation":"APPROVED","confidence":0.9,"reasoning":"ok"}`}}
	a := New(config.AgentCrewCompliance, cfg, &config.LLMProviderConfig{MaxOutputTokens: 100}, client, tools.NewRegistry())

	safety := map[config.AgentName]bool{config.AgentCrewCompliance: true}
	resp := SafeRun(context.Background(), a, safety, testDisruption(), model.PhaseInitial, nil)

	assert.Equal(t, model.AgentResponseSuccess, resp.Status)
	assert.False(t, resp.IsSafetyCritical)
}

func TestSafeRunBusinessAgentTimeoutIsNotSafetyCritical(t *testing.T) {
	cfg := testAgentConfig(config.AgentCategoryBusiness)
	short := 20 * time.Millisecond
	cfg.Timeout = &short

	client := &scriptedClient{toolArgs: []string{`{}`}, delay: 200 * time.Millisecond}
	a := New(config.AgentFinance, cfg, &config.LLMProviderConfig{MaxOutputTokens: 100}, client, tools.NewRegistry())

	resp := SafeRun(context.Background(), a, map[config.AgentName]bool{}, testDisruption(), model.PhaseInitial, nil)

	assert.Equal(t, model.AgentResponseTimeout, resp.Status)
	assert.False(t, resp.IsSafetyCritical)
}
