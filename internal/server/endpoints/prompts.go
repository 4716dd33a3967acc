package endpoints

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/agrolens/croplens/internal/api"
	"github.com/agrolens/croplens/internal/svcctx"
)

// PromptResponse carries the active instruction template.
type PromptResponse struct {
	Text string `json:"text"`
}

// PromptEndpoint handles GET /api/prompt.
type PromptEndpoint struct{}

var _ api.Endpoint = (*PromptEndpoint)(nil)

func (e *PromptEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/prompt", e.handler
}

func (e *PromptEndpoint) RequiresInit() bool { return false }

func (e *PromptEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	tmpl := svcctx.TemplateFrom(r.Context())
	if tmpl == nil {
		writeError(w, http.StatusServiceUnavailable, "instruction template not loaded")
		return
	}
	writeJSON(w, http.StatusOK, PromptResponse{Text: tmpl.Text()})
}

func (e *PromptEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "prompt",
		Short: "Show the active instruction template",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp PromptResponse
			if err := client.Get(cmd.Context(), "/api/prompt", &resp); err != nil {
				return err
			}
			fmt.Println(resp.Text)
			return nil
		},
	}
}
