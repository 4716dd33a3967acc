package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

// stubEndpoint is a minimal Endpoint for registry tests.
type stubEndpoint struct {
	method       string
	path         string
	requiresInit bool
	cmd          *cobra.Command
	handler      http.HandlerFunc
}

func (e *stubEndpoint) Route() (string, string, http.HandlerFunc) {
	return e.method, e.path, e.handler
}

func (e *stubEndpoint) RequiresInit() bool { return e.requiresInit }

func (e *stubEndpoint) Command(_ func() string) *cobra.Command { return e.cmd }

func TestRegistryRoutes(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubEndpoint{
		method: "GET", path: "/ping",
		handler: func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("pong"))
		},
	})

	initCalled := false
	reg.Register(&stubEndpoint{
		method: "POST", path: "/guarded", requiresInit: true,
		handler: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
	})

	mux := http.NewServeMux()
	reg.RegisterRoutes(mux, func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			initCalled = true
			next(w, r)
		}
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rec.Body.String() != "pong" {
		t.Errorf("unexpected body: %q", rec.Body.String())
	}
	if initCalled {
		t.Error("init middleware should not wrap endpoints that don't require it")
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/guarded", nil))
	if !initCalled {
		t.Error("init middleware should wrap guarded endpoints")
	}

	// Method is part of the route pattern.
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for wrong method, got %d", rec.Code)
	}
}

func TestRegistryBuildCommands(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubEndpoint{method: "GET", path: "/a", cmd: &cobra.Command{Use: "a"}})
	reg.Register(&stubEndpoint{method: "GET", path: "/b"}) // no CLI surface

	cmd := reg.BuildCommands(func() string { return "http://localhost:8080" })
	if len(cmd.Commands()) != 1 {
		t.Errorf("expected 1 subcommand, got %d", len(cmd.Commands()))
	}
}

func TestOutputFormats(t *testing.T) {
	data := map[string]string{"status": "ok"}

	var buf bytes.Buffer
	if err := OutputTo(&buf, OutputFormatJSON, data); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"status": "ok"`) {
		t.Errorf("unexpected JSON output: %s", buf.String())
	}

	buf.Reset()
	if err := OutputTo(&buf, OutputFormatYAML, data); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "status: ok") {
		t.Errorf("unexpected YAML output: %s", buf.String())
	}
}

func TestClientGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	var resp struct {
		Status string `json:"status"`
	}
	if err := client.Get(context.Background(), "/health", &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "ok" {
		t.Errorf("unexpected status: %q", resp.Status)
	}
}

func TestClientErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad input"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	err := client.Get(context.Background(), "/x", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "bad input") {
		t.Errorf("error should carry server message: %v", err)
	}
}

func TestClientPostFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		w.Write([]byte(`{"filename":"` + header.Filename + `"}`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "field.jpg")
	if err := os.WriteFile(path, []byte("jpeg-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	client := NewClient(srv.URL)
	var resp struct {
		Filename string `json:"filename"`
	}
	if err := client.PostFile(context.Background(), "/api/analyze", "image", path, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Filename != "field.jpg" {
		t.Errorf("unexpected filename: %q", resp.Filename)
	}
}

func TestClientWaitReady(t *testing.T) {
	healthy := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy {
			healthy = true
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if err := client.WaitReady(context.Background(), 5*time.Second); err != nil {
		t.Fatalf("WaitReady failed: %v", err)
	}
}
