package endpoints

import (
	"github.com/agrolens/croplens/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&StatusEndpoint{},

		// Analysis
		&AnalyzeEndpoint{},

		// Introspection
		&LibraryEndpoint{},
		&PromptEndpoint{},
		&ConfigEndpoint{},

		// Static files (catch-all, must be last)
		&StaticEndpoint{},
	}
}
