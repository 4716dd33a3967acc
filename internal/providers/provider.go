package providers

import (
	"context"
	"time"

	"github.com/agrolens/croplens/internal/prompt"
)

// Fixed sampling configuration for every analysis call. Carried unchanged
// from the original deployment; the parser downstream depends on the model
// replying in plain text.
const (
	Temperature      = 0.5
	TopP             = 0.5
	TopK             = 32
	MaxOutputTokens  = 4096
	ResponseMIMEType = "text/plain"
)

// VisionClient sends one multimodal payload to a remote model and returns its
// raw text reply.
//
// Implementations are pure pass-through adapters: no state, at most one
// remote call per Analyze, and no retry, backoff, or rate limiting. Adding
// any of those is an explicit design decision, not a drop-in fix.
type VisionClient interface {
	// Analyze sends the assembled payload and returns the raw reply text.
	Analyze(ctx context.Context, req *VisionRequest) (*VisionResult, error)

	// Name returns the client identifier (e.g., "gemini").
	Name() string
}

// VisionRequest is one analysis request.
type VisionRequest struct {
	// Parts is the ordered multimodal payload from the prompt assembler.
	Parts []prompt.Part

	// Model selection (uses client default if empty)
	Model string

	// Request tracking
	RequestID string
}

// VisionResult is the complete response from a model call.
type VisionResult struct {
	// Text is the raw reply. Non-empty on success.
	Text string `json:"text"`

	// Token counts (zero when the provider reports no usage)
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	// Timing
	ExecutionTime time.Duration `json:"execution_time"`

	// Provider info
	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`

	// Request tracking
	RequestID string `json:"request_id"`

	// Success/error
	Success      bool   `json:"success"`
	ErrorType    string `json:"error_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}
