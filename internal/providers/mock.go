package providers

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

const MockClientName = "mock"

// MockClient is a VisionClient for testing.
type MockClient struct {
	// Configurable behavior
	Latency      time.Duration
	ShouldFail   bool
	EmptyReply   bool
	ResponseText string

	// State
	requestCount atomic.Int64
	lastRequest  atomic.Pointer[VisionRequest]
}

// NewMockClient creates a new mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		ResponseText: `{"crop_name":["Wheat"],"confidence_score":[0.9],"stage_of_plant_growth":["Flowering"],"description":"mock"}`,
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// Analyze returns the configured response.
func (c *MockClient) Analyze(ctx context.Context, req *VisionRequest) (*VisionResult, error) {
	start := time.Now()
	count := c.requestCount.Add(1)
	c.lastRequest.Store(req)

	result := &VisionResult{
		RequestID: fmt.Sprintf("mock-%d", count),
		Provider:  MockClientName,
		ModelUsed: req.Model,
	}

	if c.Latency > 0 {
		select {
		case <-time.After(c.Latency):
		case <-ctx.Done():
			result.ErrorType = "context_cancelled"
			result.ErrorMessage = ctx.Err().Error()
			result.ExecutionTime = time.Since(start)
			return result, ctx.Err()
		}
	}

	if c.ShouldFail {
		result.ErrorType = "remote_error"
		result.ErrorMessage = "mock client configured to fail"
		result.ExecutionTime = time.Since(start)
		return result, fmt.Errorf("mock client configured to fail")
	}
	if c.EmptyReply {
		result.ErrorType = "empty_response"
		result.ErrorMessage = "empty or non-text response from model"
		result.ExecutionTime = time.Since(start)
		return result, fmt.Errorf("empty or non-text response from model")
	}

	result.Success = true
	result.Text = c.ResponseText
	result.ExecutionTime = time.Since(start)
	return result, nil
}

// RequestCount returns the number of requests made.
func (c *MockClient) RequestCount() int64 {
	return c.requestCount.Load()
}

// LastRequest returns the most recent request, or nil.
func (c *MockClient) LastRequest() *VisionRequest {
	return c.lastRequest.Load()
}

// Reset resets the request counter.
func (c *MockClient) Reset() {
	c.requestCount.Store(0)
	c.lastRequest.Store(nil)
}

// Verify interface
var _ VisionClient = (*MockClient)(nil)
