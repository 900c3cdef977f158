// Package config provides configuration management for the disruption
// orchestrator: agent definitions, LLM provider settings, and the
// system-wide defaults that govern timeouts and scoring weights.
package config

import (
	"fmt"
	"sync"
	"time"
)

// AgentConfig defines the static configuration for one of the seven
// specialist agents (see pkg/agent for instantiation and execution).
type AgentConfig struct {
	// Category determines whether the agent emits binding constraints
	// (safety) or is purely advisory (business).
	Category AgentCategory `yaml:"category" validate:"required"`

	// Human-readable description, surfaced in audit reports.
	Description string `yaml:"description,omitempty"`

	// AuthorizedTools is the fixed subset of registry tools this agent may call.
	AuthorizedTools []string `yaml:"authorized_tools" validate:"required,min=1"`

	// Timeout bounds a single invocation of this agent (per phase).
	// Defaults to 60s for safety agents, 45s for business agents if unset.
	Timeout *time.Duration `yaml:"timeout,omitempty"`

	// RequiredFields are the disruption-context fields this agent needs
	// to produce a grounded recommendation.
	RequiredFields []string `yaml:"required_fields,omitempty"`

	// CustomInstructions override/extend the agent's built-in system prompt.
	CustomInstructions string `yaml:"custom_instructions,omitempty"`
}

// EffectiveTimeout returns the configured timeout, or the category default.
func (c *AgentConfig) EffectiveTimeout() time.Duration {
	if c.Timeout != nil {
		return *c.Timeout
	}
	if c.Category == AgentCategorySafety {
		return 60 * time.Second
	}
	return 45 * time.Second
}

// AgentRegistry stores agent configurations in memory with thread-safe access.
type AgentRegistry struct {
	agents map[AgentName]*AgentConfig
	mu     sync.RWMutex
}

// NewAgentRegistry creates a new agent registry.
func NewAgentRegistry(agents map[AgentName]*AgentConfig) *AgentRegistry {
	// Defensive copy to prevent external mutation.
	copied := make(map[AgentName]*AgentConfig, len(agents))
	for k, v := range agents {
		copied[k] = v
	}
	return &AgentRegistry{agents: copied}
}

// Get retrieves an agent configuration by name (thread-safe).
func (r *AgentRegistry) Get(name AgentName) (*AgentConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agent, exists := r.agents[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrAgentNotFound, name)
	}
	return agent, nil
}

// GetAll returns all agent configurations (thread-safe, returns a copy).
func (r *AgentRegistry) GetAll() map[AgentName]*AgentConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[AgentName]*AgentConfig, len(r.agents))
	for k, v := range r.agents {
		result[k] = v
	}
	return result
}

// Has checks if an agent exists in the registry (thread-safe).
func (r *AgentRegistry) Has(name AgentName) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.agents[name]
	return exists
}

// Len returns the number of agents in the registry (thread-safe).
func (r *AgentRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}

// SafetyAgents returns the canonical names of all safety-category agents
// present in the registry, in the canonical AllAgentNames order.
func (r *AgentRegistry) SafetyAgents() []AgentName {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []AgentName
	for _, name := range AllAgentNames {
		if cfg, ok := r.agents[name]; ok && cfg.Category == AgentCategorySafety {
			out = append(out, name)
		}
	}
	return out
}
