package endpoints

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agrolens/croplens/internal/analyzer"
	"github.com/agrolens/croplens/internal/api"
	"github.com/agrolens/croplens/internal/library"
	"github.com/agrolens/croplens/internal/svcctx"
)

// AnalyzeResponse is the result of one analysis.
type AnalyzeResponse struct {
	RequestID   string            `json:"request_id"`
	Crops       []string          `json:"crops"`
	Scores      []*float64        `json:"scores"`
	Stages      []string          `json:"stages"`
	Description string            `json:"description"`
	Cards       []analyzer.Card   `json:"cards"`
	Provider    string            `json:"provider"`
	Model       string            `json:"model"`
	DurationMS  int64             `json:"duration_ms"`
	TotalTokens int               `json:"total_tokens"`
	ParseError  string            `json:"parse_error,omitempty"`
	Skipped     []library.Skipped `json:"skipped,omitempty"`
}

// AnalyzeEndpoint handles POST /api/analyze with a multipart image upload.
// Analysis is synchronous: the response carries the finished result.
type AnalyzeEndpoint struct{}

var _ api.Endpoint = (*AnalyzeEndpoint)(nil)

func (e *AnalyzeEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/analyze", e.handler
}

func (e *AnalyzeEndpoint) RequiresInit() bool { return true }

func (e *AnalyzeEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	const maxMemory = 32 << 20 // 32MB
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no image uploaded (expected multipart field 'image')")
		return
	}
	defer file.Close()

	mimeType, ok := imageMIME(header.Filename)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported image type %s (png, jpg, jpeg accepted)", filepath.Ext(header.Filename)))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read upload: %v", err))
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "uploaded image is empty")
		return
	}

	an := svcctx.AnalyzerFrom(r.Context())
	if an == nil {
		writeError(w, http.StatusServiceUnavailable, "analyzer not initialized")
		return
	}

	analysis, err := an.Analyze(r.Context(), data, mimeType)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toAnalyzeResponse(analysis))
}

func toAnalyzeResponse(a *analyzer.Analysis) AnalyzeResponse {
	return AnalyzeResponse{
		RequestID:   a.Vision.RequestID,
		Crops:       a.Result.Crops,
		Scores:      a.Result.Scores,
		Stages:      a.Result.Stages,
		Description: a.Result.Description,
		Cards:       a.Result.Cards(),
		Provider:    a.Vision.Provider,
		Model:       a.Vision.ModelUsed,
		DurationMS:  a.Vision.ExecutionTime.Milliseconds(),
		TotalTokens: a.Vision.TotalTokens,
		ParseError:  a.ParseError,
		Skipped:     a.Skipped,
	}
}

// imageMIME maps an uploaded filename to its MIME type by extension.
func imageMIME(name string) (string, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png", true
	case ".jpg", ".jpeg":
		return "image/jpeg", true
	default:
		return "", false
	}
}

func (e *AnalyzeEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <image>",
		Short: "Analyze a crop field photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp AnalyzeResponse
			if err := client.PostFile(cmd.Context(), "/api/analyze", "image", args[0], &resp); err != nil {
				return err
			}

			if resp.ParseError != "" {
				fmt.Printf("Warning: %s\n\n", resp.ParseError)
			}
			if len(resp.Cards) == 0 {
				fmt.Println("No crops identified.")
			}
			for _, card := range resp.Cards {
				fmt.Printf("Crop:  %s\n", card.Crop)
				fmt.Printf("Score: %s\n", card.Score)
				fmt.Printf("Stage: %s\n\n", card.Stage)
			}
			fmt.Printf("Description: %s\n", resp.Description)
			fmt.Printf("Provider:    %s (model %s, %dms, %d tokens)\n",
				resp.Provider, resp.Model, resp.DurationMS, resp.TotalTokens)
			return nil
		},
	}
}
