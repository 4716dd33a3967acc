// Package analyzer orchestrates one crop analysis: load references, assemble
// the payload, call the model, and normalize the reply.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/agrolens/croplens/internal/library"
	"github.com/agrolens/croplens/internal/prompt"
	"github.com/agrolens/croplens/internal/providers"
)

// Analysis is the full outcome of one request: the normalized result, the raw
// provider response, and any reference images skipped while loading.
type Analysis struct {
	Result  *Result                 `json:"result"`
	Vision  *providers.VisionResult `json:"vision"`
	Skipped []library.Skipped       `json:"skipped,omitempty"`

	// ParseError is set when the reply could not be parsed as JSON. The
	// Result is still populated with defaults so callers can render it.
	ParseError string `json:"parse_error,omitempty"`
}

// Analyzer runs analyses against a configured provider. Analyses are
// serialized: one request is in flight at a time, matching the session-bound
// interaction model this serves.
type Analyzer struct {
	library  *library.Loader
	template *prompt.Template
	registry *providers.Registry
	logger   *slog.Logger

	mu       sync.Mutex
	provider string
	model    string
}

// New creates an analyzer.
func New(lib *library.Loader, tmpl *prompt.Template, reg *providers.Registry, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		library:  lib,
		template: tmpl,
		registry: reg,
		logger:   logger,
	}
}

// SetTarget selects the provider and model used for subsequent analyses.
// Called on startup and again on config reload.
func (a *Analyzer) SetTarget(provider, model string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.provider = provider
	a.model = model
}

// Target returns the currently selected provider and model.
func (a *Analyzer) Target() (provider, model string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.provider, a.model
}

// Analyze runs one full analysis of the given image.
//
// The reference library is re-read from disk on every call, the payload is
// assembled in fixed order, and exactly one remote model call is made. A
// remote failure is returned as an error; a malformed reply is not: the
// returned Analysis carries defaults plus ParseError so the caller can still
// render something useful.
func (a *Analyzer) Analyze(ctx context.Context, image []byte, mimeType string) (*Analysis, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(image) == 0 {
		return nil, fmt.Errorf("no image data provided")
	}

	client, err := a.registry.Get(a.provider)
	if err != nil {
		return nil, fmt.Errorf("no usable vision provider: %w", err)
	}

	refs, skipped, err := a.library.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference library: %w", err)
	}

	requestID := uuid.New().String()
	a.logger.Info("starting analysis",
		"request_id", requestID,
		"provider", a.provider,
		"model", a.model,
		"references", len(refs),
		"skipped", len(skipped))

	parts := prompt.Assemble(a.template.Text(), image, mimeType, refs)

	vision, err := client.Analyze(ctx, &providers.VisionRequest{
		Parts:     parts,
		Model:     a.model,
		RequestID: requestID,
	})
	if err != nil {
		a.logger.Error("model call failed", "request_id", requestID, "error", err)
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	analysis := &Analysis{Vision: vision, Skipped: skipped}

	result, parseErr := Normalize(vision.Text)
	analysis.Result = result
	if parseErr != nil {
		analysis.ParseError = parseErr.Error()
		a.logger.Warn("reply did not parse as JSON", "request_id", requestID, "error", parseErr)
	} else if shapeErr := CheckShape(vision.Text); shapeErr != nil {
		a.logger.Warn("reply shape check failed", "request_id", requestID, "error", shapeErr)
	}

	a.logger.Info("analysis complete",
		"request_id", requestID,
		"crops", len(result.Crops),
		"duration", vision.ExecutionTime,
		"total_tokens", vision.TotalTokens)

	return analysis, nil
}
