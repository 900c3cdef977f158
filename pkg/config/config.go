package config

// Config is the umbrella configuration object that encapsulates all
// registries and defaults. This is the primary object returned by
// Initialize() and used throughout the application.
type Config struct {
	configDir string // configuration directory path, for reference

	Defaults            *Defaults
	AgentRegistry       *AgentRegistry
	LLMProviderRegistry *LLMProviderRegistry
}

// ConfigStats contains statistics about loaded configuration.
type ConfigStats struct {
	Agents       int
	LLMProviders int
}

// Stats returns configuration statistics for logging/monitoring.
func (c *Config) Stats() ConfigStats {
	return ConfigStats{
		Agents:       len(c.AgentRegistry.GetAll()),
		LLMProviders: len(c.LLMProviderRegistry.GetAll()),
	}
}

// ConfigDir returns the configuration directory path.
func (c *Config) ConfigDir() string {
	return c.configDir
}

// GetAgent retrieves an agent configuration by name.
func (c *Config) GetAgent(name AgentName) (*AgentConfig, error) {
	return c.AgentRegistry.Get(name)
}

// GetLLMProvider retrieves an LLM provider configuration by name.
func (c *Config) GetLLMProvider(name string) (*LLMProviderConfig, error) {
	return c.LLMProviderRegistry.Get(name)
}
