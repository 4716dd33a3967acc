package endpoints

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/agrolens/croplens/internal/api"
	"github.com/agrolens/croplens/internal/library"
	"github.com/agrolens/croplens/internal/svcctx"
)

// StageSummary describes one growth stage directory in the reference library.
type StageSummary struct {
	Crop   string `json:"crop"`
	Stage  string `json:"stage"`
	Images int    `json:"images"`
}

// LibraryResponse summarizes the on-disk reference library.
type LibraryResponse struct {
	Root    string            `json:"root"`
	Stages  []StageSummary    `json:"stages"`
	Skipped []library.Skipped `json:"skipped,omitempty"`
}

// LibraryEndpoint handles GET /api/library. It enumerates the tree without
// reading image bytes; counts reflect what an analysis would see before the
// per-stage cap is applied.
type LibraryEndpoint struct{}

var _ api.Endpoint = (*LibraryEndpoint)(nil)

func (e *LibraryEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/library", e.handler
}

func (e *LibraryEndpoint) RequiresInit() bool { return false }

func (e *LibraryEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	loader := svcctx.LibraryFrom(r.Context())
	if loader == nil {
		writeError(w, http.StatusServiceUnavailable, "reference library not initialized")
		return
	}

	resp := LibraryResponse{Root: loader.Root, Stages: []StageSummary{}}

	crops, err := os.ReadDir(loader.Root)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read reference library: %v", err))
		return
	}

	for _, crop := range crops {
		if !crop.IsDir() {
			continue
		}
		cropPath := filepath.Join(loader.Root, crop.Name())
		stages, err := os.ReadDir(cropPath)
		if err != nil {
			resp.Skipped = append(resp.Skipped, library.Skipped{Path: cropPath, Reason: err.Error()})
			continue
		}
		for _, stage := range stages {
			if !stage.IsDir() {
				continue
			}
			stagePath := filepath.Join(cropPath, stage.Name())
			entries, err := os.ReadDir(stagePath)
			if err != nil {
				resp.Skipped = append(resp.Skipped, library.Skipped{Path: stagePath, Reason: err.Error()})
				continue
			}
			count := 0
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				if _, ok := imageMIME(entry.Name()); ok {
					count++
				}
			}
			resp.Stages = append(resp.Stages, StageSummary{
				Crop:   crop.Name(),
				Stage:  stage.Name(),
				Images: count,
			})
		}
	}

	sort.Slice(resp.Stages, func(i, j int) bool {
		if resp.Stages[i].Crop != resp.Stages[j].Crop {
			return resp.Stages[i].Crop < resp.Stages[j].Crop
		}
		return resp.Stages[i].Stage < resp.Stages[j].Stage
	})

	writeJSON(w, http.StatusOK, resp)
}

func (e *LibraryEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "library",
		Short: "List the crop reference library",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp LibraryResponse
			if err := client.Get(cmd.Context(), "/api/library", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
