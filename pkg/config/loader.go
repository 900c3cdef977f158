package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the complete skymarshal.yaml file structure.
type YAMLConfig struct {
	Agents   map[AgentName]AgentConfig `yaml:"agents"`
	Defaults *Defaults                 `yaml:"defaults"`
}

// LLMProvidersYAMLConfig represents the complete llm-providers.yaml file structure.
type LLMProvidersYAMLConfig struct {
	LLMProviders map[string]LLMProviderConfig `yaml:"llm_providers"`
}

// Initialize loads, validates, and returns ready-to-use configuration.
// This is the primary entry point for configuration loading.
//
// Steps performed:
//  1. Load YAML files from configDir
//  2. Expand environment variables
//  3. Parse YAML into structs
//  4. Merge built-in agent/default configuration with user overrides
//  5. Build in-memory registries
//  6. Validate all configuration
//  7. Return Config ready for use
func Initialize(ctx context.Context, configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)
	log.Info("Initializing configuration")

	cfg, err := load(ctx, configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	stats := cfg.Stats()
	log.Info("Configuration initialized successfully",
		"agents", stats.Agents,
		"llm_providers", stats.LLMProviders)

	return cfg, nil
}

func load(_ context.Context, configDir string) (*Config, error) {
	loader := &configLoader{configDir: configDir}

	yamlCfg, err := loader.loadYAML("skymarshal.yaml")
	if err != nil {
		return nil, NewLoadError("skymarshal.yaml", err)
	}

	llmCfg, err := loader.loadLLMProvidersYAML("llm-providers.yaml")
	if err != nil {
		return nil, NewLoadError("llm-providers.yaml", err)
	}

	defaults, err := mergeDefaults(NewDefaults(), yamlCfg.Defaults)
	if err != nil {
		return nil, err
	}

	builtinAgents := BuiltinAgents()
	mergedAgents := make(map[AgentName]*AgentConfig, len(builtinAgents))
	for name, builtin := range builtinAgents {
		override := yamlCfg.Agents[name]
		merged, err := mergeAgent(builtin, &override)
		if err != nil {
			return nil, err
		}
		if merged.Timeout == nil {
			timeout := defaults.BusinessAgentTimeout
			if merged.Category == AgentCategorySafety {
				timeout = defaults.SafetyAgentTimeout
			}
			merged.Timeout = &timeout
		}
		mergedAgents[name] = merged
	}

	llmProviders := make(map[string]*LLMProviderConfig, len(llmCfg.LLMProviders))
	for name, p := range llmCfg.LLMProviders {
		p := p
		llmProviders[name] = &p
	}

	return &Config{
		configDir:           configDir,
		Defaults:            defaults,
		AgentRegistry:       NewAgentRegistry(mergedAgents),
		LLMProviderRegistry: NewLLMProviderRegistry(llmProviders),
	}, nil
}

type configLoader struct {
	configDir string
}

func (l *configLoader) loadYAML(filename string) (*YAMLConfig, error) {
	path := filepath.Join(l.configDir, filename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Absence is valid: the built-in agent/default set still applies.
			return &YAMLConfig{}, nil
		}
		return nil, err
	}

	expanded := ExpandEnv(data)

	var cfg YAMLConfig
	if err := yaml.Unmarshal(expanded, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidYAML, err)
	}
	return &cfg, nil
}

func (l *configLoader) loadLLMProvidersYAML(filename string) (*LLMProvidersYAMLConfig, error) {
	path := filepath.Join(l.configDir, filename)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	expanded := ExpandEnv(data)

	var cfg LLMProvidersYAMLConfig
	if err := yaml.Unmarshal(expanded, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidYAML, err)
	}
	return &cfg, nil
}

var structValidator = validator.New()

// validateConfig validates every agent and LLM provider configuration.
func validateConfig(cfg *Config) error {
	if cfg.AgentRegistry.Len() != len(AllAgentNames) {
		return NewValidationError("agent_registry", "all", "", fmt.Errorf(
			"%w: expected %d agents, got %d", ErrValidationFailed, len(AllAgentNames), cfg.AgentRegistry.Len()))
	}

	for _, name := range AllAgentNames {
		agentCfg, err := cfg.AgentRegistry.Get(name)
		if err != nil {
			return NewValidationError("agent", string(name), "", err)
		}
		if err := structValidator.Struct(agentCfg); err != nil {
			return NewValidationError("agent", string(name), "", err)
		}
		if !agentCfg.Category.IsValid() {
			return NewValidationError("agent", string(name), "category",
				fmt.Errorf("%w: %s", ErrInvalidValue, agentCfg.Category))
		}
	}

	for name, provider := range cfg.LLMProviderRegistry.GetAll() {
		if err := structValidator.Struct(provider); err != nil {
			return NewValidationError("llm_provider", name, "", err)
		}
		if !provider.Type.IsValid() {
			return NewValidationError("llm_provider", name, "type",
				fmt.Errorf("%w: %s", ErrInvalidValue, provider.Type))
		}
	}

	w := cfg.Defaults.ScoringWeights
	sum := w.Safety + w.Cost + w.Passenger + w.Network
	if sum < 0.999 || sum > 1.001 {
		return NewValidationError("defaults", "scoring_weights", "",
			fmt.Errorf("%w: weights must sum to 1.0, got %.3f", ErrInvalidValue, sum))
	}

	return nil
}
