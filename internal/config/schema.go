package config

// Config holds croplens configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Providers map[string]ProviderCfg `mapstructure:"providers" yaml:"providers"`
	Defaults  DefaultsCfg            `mapstructure:"defaults" yaml:"defaults"`
	Server    ServerCfg              `mapstructure:"server" yaml:"server"`
}

// ProviderCfg configures a multimodal model provider.
type ProviderCfg struct {
	Type    string `mapstructure:"type" yaml:"type"`       // "gemini", "openai"
	Model   string `mapstructure:"model" yaml:"model"`     // Model name
	APIKey  string `mapstructure:"api_key" yaml:"api_key"` // API key (supports ${ENV_VAR} syntax)
	BaseURL string `mapstructure:"base_url" yaml:"base_url,omitempty"`
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies default selections and on-disk inputs.
type DefaultsCfg struct {
	Provider      string `mapstructure:"provider" yaml:"provider"`               // Default provider name
	LibraryRoot   string `mapstructure:"library_root" yaml:"library_root"`       // Reference library root (empty: {home}/reference)
	PromptFile    string `mapstructure:"prompt_file" yaml:"prompt_file"`         // Instruction template (empty: {home}/prompt.txt)
	EnvFile       string `mapstructure:"env_file" yaml:"env_file"`               // Credential file (empty: ./.env)
	PerStageLimit int    `mapstructure:"per_stage_limit" yaml:"per_stage_limit"` // Reference images per growth stage
}

// ServerCfg holds HTTP server settings.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Providers: map[string]ProviderCfg{
			"gemini": {
				Type:    "gemini",
				Model:   "gemini-2.0-flash",
				APIKey:  "${GOOGLE_API_KEY}",
				Enabled: true,
			},
			"openrouter": {
				Type:    "openai",
				Model:   "google/gemini-2.0-flash-001",
				APIKey:  "${OPENROUTER_API_KEY}",
				BaseURL: "https://openrouter.ai/api/v1",
				Enabled: false,
			},
		},
		Defaults: DefaultsCfg{
			Provider:      "gemini",
			PerStageLimit: 2,
		},
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8080",
		},
	}
}

// GetProvider returns a provider config by name.
func (c *Config) GetProvider(name string) (ProviderCfg, bool) {
	cfg, ok := c.Providers[name]
	return cfg, ok
}

// EnabledProviders returns all enabled providers.
func (c *Config) EnabledProviders() map[string]ProviderCfg {
	result := make(map[string]ProviderCfg)
	for name, cfg := range c.Providers {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}
