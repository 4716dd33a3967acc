// Package server runs the croplens HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/agrolens/croplens/internal/analyzer"
	"github.com/agrolens/croplens/internal/api"
	"github.com/agrolens/croplens/internal/config"
	"github.com/agrolens/croplens/internal/home"
	"github.com/agrolens/croplens/internal/library"
	"github.com/agrolens/croplens/internal/prompt"
	"github.com/agrolens/croplens/internal/providers"
	"github.com/agrolens/croplens/internal/server/endpoints"
	"github.com/agrolens/croplens/internal/svcctx"
)

// Server is the main croplens HTTP server.
type Server struct {
	httpServer *http.Server
	analyzer   *analyzer.Analyzer
	loader     *library.Loader
	template   *prompt.Template
	registry   *providers.Registry
	configMgr  *config.Manager
	home       *home.Dir
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// Home is the croplens home directory
	Home *home.Dir
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
// The instruction template is required; a missing or empty template file is
// a construction error.
func New(ctx context.Context, cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Home == nil {
		return nil, errors.New("home directory is required")
	}
	if cfg.ConfigManager == nil {
		return nil, errors.New("config manager is required")
	}

	appCfg := cfg.ConfigManager.Get()

	promptPath := appCfg.Defaults.PromptFile
	if promptPath == "" {
		promptPath = cfg.Home.PromptPath()
	}
	tmpl, err := prompt.LoadTemplate(promptPath)
	if err != nil {
		return nil, fmt.Errorf("instruction template required to start: %w", err)
	}

	libraryRoot := appCfg.Defaults.LibraryRoot
	if libraryRoot == "" {
		libraryRoot = cfg.Home.ReferencePath()
	}
	loader := library.NewLoader(libraryRoot, cfg.Logger)
	if appCfg.Defaults.PerStageLimit > 0 {
		loader.PerStage = appCfg.Defaults.PerStageLimit
	}

	registry := providers.NewRegistry()
	registry.SetLogger(cfg.Logger)
	registry.Reload(ctx, appCfg.ToRegistryConfig())

	an := analyzer.New(loader, tmpl, registry, cfg.Logger)
	an.SetTarget(targetFor(appCfg))

	// Hot reload: provider set and analysis target track the config file.
	cfg.ConfigManager.OnChange(func(c *config.Config) {
		registry.Reload(context.Background(), c.ToRegistryConfig())
		an.SetTarget(targetFor(c))
		cfg.Logger.Info("provider registry reloaded from config")
	})

	s := &Server{
		analyzer:  an,
		loader:    loader,
		template:  tmpl,
		registry:  registry,
		configMgr: cfg.ConfigManager,
		home:      cfg.Home,
		logger:    cfg.Logger,
	}

	s.services = &svcctx.Services{
		Analyzer:      an,
		Library:       loader,
		Template:      tmpl,
		Registry:      registry,
		ConfigManager: cfg.ConfigManager,
		Home:          cfg.Home,
		Logger:        cfg.Logger,
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All() {
		s.endpointRegistry.Register(ep)
	}

	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:    net.JoinHostPort(cfg.Host, cfg.Port),
		Handler: s.withServices(mux),
		// Analyses block on a remote model call, so the write timeout is
		// generous compared to usual API defaults.
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// targetFor resolves the analysis provider and model from config.
func targetFor(c *config.Config) (provider, model string) {
	provider = c.Defaults.Provider
	if p, ok := c.GetProvider(provider); ok {
		model = p.Model
	}
	return provider, model
}

// Start runs the HTTP server. It blocks until the context is cancelled or an
// error occurs, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Analyzer returns the analyzer.
func (s *Server) Analyzer() *analyzer.Analyzer {
	return s.analyzer
}

// Registry returns the provider registry.
func (s *Server) Registry() *providers.Registry {
	return s.registry
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if s.services != nil {
			ctx = svcctx.WithServices(ctx, s.services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures the analyzer is ready.
// Returns 503 Service Unavailable before initialization completes.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.analyzer == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
