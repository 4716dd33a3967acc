package providers

import (
	"context"
	"testing"
	"time"

	"github.com/agrolens/croplens/internal/prompt"
)

func TestMockClientSuccess(t *testing.T) {
	mock := NewMockClient()
	mock.ResponseText = `{"crop_name":["Maize"]}`

	req := &VisionRequest{
		Parts: []prompt.Part{prompt.TextPart("instruction")},
		Model: "test-model",
	}
	result, err := mock.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if !result.Success {
		t.Error("expected success")
	}
	if result.Text != `{"crop_name":["Maize"]}` {
		t.Errorf("unexpected text: %q", result.Text)
	}
	if result.ModelUsed != "test-model" {
		t.Errorf("expected model test-model, got %q", result.ModelUsed)
	}
	if mock.RequestCount() != 1 {
		t.Errorf("expected 1 request, got %d", mock.RequestCount())
	}
	if got := mock.LastRequest(); got != req {
		t.Error("LastRequest should return the captured request")
	}
}

func TestMockClientFailure(t *testing.T) {
	mock := NewMockClient()
	mock.ShouldFail = true

	result, err := mock.Analyze(context.Background(), &VisionRequest{})
	if err == nil {
		t.Fatal("expected error")
	}
	if result.Success {
		t.Error("expected failure result")
	}
	if result.ErrorType != "remote_error" {
		t.Errorf("expected remote_error, got %q", result.ErrorType)
	}
}

func TestMockClientEmptyReply(t *testing.T) {
	mock := NewMockClient()
	mock.EmptyReply = true

	result, err := mock.Analyze(context.Background(), &VisionRequest{})
	if err == nil {
		t.Fatal("expected error")
	}
	if result.ErrorType != "empty_response" {
		t.Errorf("expected empty_response, got %q", result.ErrorType)
	}
}

func TestMockClientCancellation(t *testing.T) {
	mock := NewMockClient()
	mock.Latency = 5 * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := mock.Analyze(ctx, &VisionRequest{})
	if err == nil {
		t.Fatal("expected context error")
	}
}
