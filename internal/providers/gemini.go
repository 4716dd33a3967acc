package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"
)

const (
	GeminiName         = "gemini"
	geminiDefaultModel = "gemini-2.0-flash"
)

// GeminiConfig holds configuration for the Gemini client.
type GeminiConfig struct {
	APIKey     string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client // Optional (tests)
}

// GeminiClient implements VisionClient using the Google Gemini API.
type GeminiClient struct {
	apiKey       string
	defaultModel string
	client       *genai.Client
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.Model == "" {
		cfg.Model = geminiDefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		apiKey:       cfg.APIKey,
		defaultModel: cfg.Model,
		client:       client,
	}, nil
}

// Name returns the client identifier.
func (c *GeminiClient) Name() string {
	return GeminiName
}

// Analyze sends the multimodal payload in a single GenerateContent call.
func (c *GeminiClient) Analyze(ctx context.Context, req *VisionRequest) (*VisionResult, error) {
	start := time.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	result := &VisionResult{
		RequestID: requestID,
		Provider:  GeminiName,
		ModelUsed: model,
	}

	parts := make([]*genai.Part, 0, len(req.Parts))
	for _, p := range req.Parts {
		if p.IsImage() {
			parts = append(parts, genai.NewPartFromBytes(p.Data, p.MIME))
		} else {
			parts = append(parts, genai.NewPartFromText(p.Text))
		}
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	genCfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](Temperature),
		TopP:             genai.Ptr[float32](TopP),
		TopK:             genai.Ptr[float32](TopK),
		MaxOutputTokens:  MaxOutputTokens,
		ResponseMIMEType: ResponseMIMEType,
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, genCfg)
	if err != nil {
		result.Success = false
		result.ErrorType = "remote_error"
		result.ErrorMessage = err.Error()
		result.ExecutionTime = time.Since(start)
		return result, fmt.Errorf("Gemini call failed: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		result.Success = false
		result.ErrorType = "empty_response"
		result.ErrorMessage = "empty or non-text response from model"
		result.ExecutionTime = time.Since(start)
		return result, fmt.Errorf("empty or non-text response from model")
	}

	result.Success = true
	result.Text = text
	result.ExecutionTime = time.Since(start)
	if usage := resp.UsageMetadata; usage != nil {
		result.PromptTokens = int(usage.PromptTokenCount)
		result.CompletionTokens = int(usage.CandidatesTokenCount)
		result.TotalTokens = int(usage.TotalTokenCount)
	}

	return result, nil
}

// Verify interface
var _ VisionClient = (*GeminiClient)(nil)
