package providers

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Registry holds references to vision clients by name.
// It supports config-driven instantiation, hot-reload, and thread-safe access.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]VisionClient
	applied map[string]ClientConfig
	logger  *slog.Logger
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]VisionClient),
		applied: make(map[string]ClientConfig),
		logger:  slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Register adds a vision client by name.
func (r *Registry) Register(name string, client VisionClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = client
	if r.logger != nil {
		r.logger.Info("registered vision client", "name", name)
	}
}

// Get returns a vision client by name.
func (r *Registry) Get(name string) (VisionClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[name]
	if !ok {
		return nil, fmt.Errorf("vision client not found: %s", name)
	}
	return client, nil
}

// List returns all registered client names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	return names
}

// Has checks if a vision client is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.clients[name]
	return ok
}

// RegistryConfig defines the clients to instantiate from config.
// This mirrors the config.Config structure for provider setup.
type RegistryConfig struct {
	// Clients maps provider names to their config with resolved API keys.
	Clients map[string]ClientConfig
}

// ClientConfig matches config.ProviderCfg with the API key resolved.
type ClientConfig struct {
	Type    string // "gemini", "openai"
	Model   string
	APIKey  string
	BaseURL string
	Enabled bool
}

// Reload updates the registry based on new configuration.
// Clients that are no longer configured are unregistered; clients with
// changed settings are recreated.
func (r *Registry) Reload(ctx context.Context, cfg RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := make(map[string]bool)

	for name, clientCfg := range cfg.Clients {
		if !clientCfg.Enabled || clientCfg.APIKey == "" {
			continue
		}
		want[name] = true

		if prev, ok := r.applied[name]; ok && prev == clientCfg {
			continue
		}

		client, err := createClient(ctx, clientCfg)
		if err != nil {
			if r.logger != nil {
				r.logger.Error("failed to create vision client", "name", name, "type", clientCfg.Type, "error", err)
			}
			continue
		}
		if client == nil {
			if r.logger != nil {
				r.logger.Warn("unknown vision client type", "name", name, "type", clientCfg.Type)
			}
			continue
		}

		_, existed := r.clients[name]
		r.clients[name] = client
		r.applied[name] = clientCfg
		if r.logger != nil {
			if existed {
				r.logger.Info("updated vision client", "name", name, "type", clientCfg.Type)
			} else {
				r.logger.Info("registered vision client", "name", name, "type", clientCfg.Type)
			}
		}
	}

	for name := range r.clients {
		if !want[name] {
			delete(r.clients, name)
			delete(r.applied, name)
			if r.logger != nil {
				r.logger.Info("unregistered vision client", "name", name)
			}
		}
	}
}

// createClient creates a vision client based on provider type.
func createClient(ctx context.Context, cfg ClientConfig) (VisionClient, error) {
	switch cfg.Type {
	case "gemini":
		return NewGeminiClient(ctx, GeminiConfig{
			APIKey: cfg.APIKey,
			Model:  cfg.Model,
		})
	case "openai":
		return NewOpenAIClient(OpenAIConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		}), nil
	default:
		return nil, nil
	}
}
