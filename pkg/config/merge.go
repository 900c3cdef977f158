package config

import (
	"fmt"

	"dario.cat/mergo"
)

// mergeDefaults overlays user-supplied defaults onto the built-in defaults.
// Zero-valued fields in override are left at the built-in value; mergo's
// WithOverride only replaces fields override actually sets.
func mergeDefaults(base *Defaults, override *Defaults) (*Defaults, error) {
	if override == nil {
		return base, nil
	}
	merged := *base
	if err := mergo.Merge(&merged, override, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("failed to merge defaults: %w", err)
	}
	return &merged, nil
}

// mergeAgent overlays a user-supplied agent override onto the built-in
// agent definition, field by field.
func mergeAgent(base *AgentConfig, override *AgentConfig) (*AgentConfig, error) {
	if override == nil {
		return base, nil
	}
	merged := *base
	if err := mergo.Merge(&merged, override, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("failed to merge agent config: %w", err)
	}
	return &merged, nil
}
