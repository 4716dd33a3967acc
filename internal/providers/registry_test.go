package providers

import (
	"context"
	"testing"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	mock := NewMockClient()

	r.Register("mock", mock)

	if !r.Has("mock") {
		t.Error("expected registry to have mock client")
	}

	client, err := r.Get("mock")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if client.Name() != MockClientName {
		t.Errorf("expected name %q, got %q", MockClientName, client.Name())
	}

	if _, err := r.Get("missing"); err == nil {
		t.Error("expected error for unregistered client")
	}
}

func TestRegistryList(t *testing.T) {
	r := NewRegistry()
	r.Register("a", NewMockClient())
	r.Register("b", NewMockClient())

	names := r.List()
	if len(names) != 2 {
		t.Errorf("expected 2 names, got %d", len(names))
	}
}

func TestRegistryReload(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	cfg := RegistryConfig{
		Clients: map[string]ClientConfig{
			"openrouter": {Type: "openai", Model: "gpt-4o-mini", APIKey: "test-key", BaseURL: "https://openrouter.ai/api/v1", Enabled: true},
			"disabled":   {Type: "openai", Model: "gpt-4o-mini", APIKey: "test-key", Enabled: false},
			"keyless":    {Type: "openai", Model: "gpt-4o-mini", Enabled: true},
			"bogus":      {Type: "carrier-pigeon", APIKey: "test-key", Enabled: true},
		},
	}
	r.Reload(ctx, cfg)

	if !r.Has("openrouter") {
		t.Error("expected openrouter to be registered")
	}
	if r.Has("disabled") {
		t.Error("disabled client should not be registered")
	}
	if r.Has("keyless") {
		t.Error("client without API key should not be registered")
	}
	if r.Has("bogus") {
		t.Error("unknown client type should not be registered")
	}

	// Removing a client from config unregisters it.
	r.Reload(ctx, RegistryConfig{Clients: map[string]ClientConfig{}})
	if r.Has("openrouter") {
		t.Error("expected openrouter to be unregistered after reload")
	}
}

func TestRegistryReloadKeepsUnchangedClient(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	cfg := RegistryConfig{
		Clients: map[string]ClientConfig{
			"openrouter": {Type: "openai", Model: "gpt-4o-mini", APIKey: "test-key", Enabled: true},
		},
	}
	r.Reload(ctx, cfg)

	first, err := r.Get("openrouter")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	r.Reload(ctx, cfg)
	second, err := r.Get("openrouter")
	if err != nil {
		t.Fatalf("Get failed after second reload: %v", err)
	}

	if first != second {
		t.Error("unchanged config should not recreate the client")
	}
}
