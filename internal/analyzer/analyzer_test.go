package analyzer

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/agrolens/croplens/internal/library"
	"github.com/agrolens/croplens/internal/prompt"
	"github.com/agrolens/croplens/internal/providers"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// setupAnalyzer builds an analyzer over a small on-disk library and a mock
// vision client.
func setupAnalyzer(t *testing.T, mock *providers.MockClient) *Analyzer {
	t.Helper()

	root := t.TempDir()
	stageDir := filepath.Join(root, "Wheat", "Flowering")
	if err := os.MkdirAll(stageDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(stageDir, "ref.jpg"), []byte("jpeg-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	promptPath := filepath.Join(t.TempDir(), "prompt.txt")
	if err := os.WriteFile(promptPath, []byte("Identify the crop and its growth stage."), 0o644); err != nil {
		t.Fatal(err)
	}
	tmpl, err := prompt.LoadTemplate(promptPath)
	if err != nil {
		t.Fatalf("LoadTemplate failed: %v", err)
	}

	reg := providers.NewRegistry()
	reg.SetLogger(testLogger())
	reg.Register("mock", mock)

	a := New(library.NewLoader(root, testLogger()), tmpl, reg, testLogger())
	a.SetTarget("mock", "test-model")
	return a
}

func TestAnalyzeSuccess(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ResponseText = `{"crop_name":["Wheat"],"confidence_score":[0.93],"stage_of_plant_growth":["Flowering"],"description":"Dense wheat stand."}`
	a := setupAnalyzer(t, mock)

	analysis, err := a.Analyze(context.Background(), []byte("input-image"), "image/jpeg")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if analysis.ParseError != "" {
		t.Errorf("unexpected parse error: %s", analysis.ParseError)
	}
	if len(analysis.Result.Crops) != 1 || analysis.Result.Crops[0] != "Wheat" {
		t.Errorf("unexpected crops: %v", analysis.Result.Crops)
	}
	if analysis.Result.Description != "Dense wheat stand." {
		t.Errorf("unexpected description: %q", analysis.Result.Description)
	}
	if !analysis.Vision.Success {
		t.Error("vision result should be marked successful")
	}

	// The payload must lead with the instruction, then the input image,
	// then the labeled reference.
	req := mock.LastRequest()
	if req == nil {
		t.Fatal("mock captured no request")
	}
	if req.Model != "test-model" {
		t.Errorf("expected model test-model, got %q", req.Model)
	}
	if len(req.Parts) != 6 {
		t.Fatalf("expected 6 payload parts, got %d", len(req.Parts))
	}
	if req.Parts[0].Text != "Identify the crop and its growth stage." {
		t.Errorf("first part should be the instruction, got %q", req.Parts[0].Text)
	}
	if !req.Parts[2].IsImage() || string(req.Parts[2].Data) != "input-image" {
		t.Error("third part should be the input image")
	}
	if req.Parts[4].Text != "Wheat - Flowering:" {
		t.Errorf("reference label mismatch: %q", req.Parts[4].Text)
	}
	if !req.Parts[5].IsImage() {
		t.Error("reference image should follow its label")
	}
}

func TestAnalyzeMalformedReply(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ResponseText = "Sorry, I cannot tell what this is."
	a := setupAnalyzer(t, mock)

	analysis, err := a.Analyze(context.Background(), []byte("input-image"), "image/jpeg")
	if err != nil {
		t.Fatalf("malformed reply must not fail the analysis: %v", err)
	}

	if analysis.ParseError == "" {
		t.Error("expected parse error to be surfaced")
	}
	if len(analysis.Result.Crops) != 0 {
		t.Errorf("expected empty crops, got %v", analysis.Result.Crops)
	}
	if analysis.Result.Description != DefaultDescription {
		t.Errorf("expected default description, got %q", analysis.Result.Description)
	}
}

func TestAnalyzeRemoteFailure(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ShouldFail = true
	a := setupAnalyzer(t, mock)

	if _, err := a.Analyze(context.Background(), []byte("input-image"), "image/jpeg"); err == nil {
		t.Fatal("expected error from failing provider")
	}
	if mock.RequestCount() != 1 {
		t.Errorf("exactly one remote call expected, got %d", mock.RequestCount())
	}
}

func TestAnalyzeRejectsEmptyImage(t *testing.T) {
	mock := providers.NewMockClient()
	a := setupAnalyzer(t, mock)

	if _, err := a.Analyze(context.Background(), nil, "image/jpeg"); err == nil {
		t.Fatal("expected error for empty image")
	}
	if mock.RequestCount() != 0 {
		t.Error("no remote call should be made for empty input")
	}
}

func TestAnalyzeUnknownProvider(t *testing.T) {
	mock := providers.NewMockClient()
	a := setupAnalyzer(t, mock)
	a.SetTarget("missing", "")

	if _, err := a.Analyze(context.Background(), []byte("x"), "image/png"); err == nil {
		t.Fatal("expected error for unregistered provider")
	}
}
