package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/agrolens/croplens/internal/api"
	"github.com/agrolens/croplens/internal/svcctx"
)

// ProviderView is a provider config with its credential redacted.
type ProviderView struct {
	Type    string `json:"type"`
	Model   string `json:"model"`
	BaseURL string `json:"base_url,omitempty"`
	Enabled bool   `json:"enabled"`
	HasKey  bool   `json:"has_key"`
}

// ConfigResponse is the redacted runtime configuration.
type ConfigResponse struct {
	Providers map[string]ProviderView `json:"providers"`
	Provider  string                  `json:"provider"`
	Library   string                  `json:"library_root"`
	PerStage  int                     `json:"per_stage_limit"`
}

// ConfigEndpoint handles GET /api/config. API keys never leave the server;
// only their presence is reported.
type ConfigEndpoint struct{}

var _ api.Endpoint = (*ConfigEndpoint)(nil)

func (e *ConfigEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/config", e.handler
}

func (e *ConfigEndpoint) RequiresInit() bool { return false }

func (e *ConfigEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	mgr := svcctx.ConfigFrom(r.Context())
	if mgr == nil {
		writeError(w, http.StatusServiceUnavailable, "config manager not initialized")
		return
	}
	cfg := mgr.Get()

	resp := ConfigResponse{
		Providers: make(map[string]ProviderView, len(cfg.Providers)),
		Provider:  cfg.Defaults.Provider,
		Library:   cfg.Defaults.LibraryRoot,
		PerStage:  cfg.Defaults.PerStageLimit,
	}
	for name, p := range cfg.Providers {
		resp.Providers[name] = ProviderView{
			Type:    p.Type,
			Model:   p.Model,
			BaseURL: p.BaseURL,
			Enabled: p.Enabled,
			HasKey:  p.APIKey != "",
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *ConfigEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show redacted server configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ConfigResponse
			if err := client.Get(cmd.Context(), "/api/config", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
