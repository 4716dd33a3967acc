// Package svcctx carries shared services through request contexts so HTTP
// handlers stay free of global state.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/agrolens/croplens/internal/analyzer"
	"github.com/agrolens/croplens/internal/config"
	"github.com/agrolens/croplens/internal/home"
	"github.com/agrolens/croplens/internal/library"
	"github.com/agrolens/croplens/internal/prompt"
	"github.com/agrolens/croplens/internal/providers"
)

type contextKey string

const servicesKey contextKey = "croplens-services"

// Services holds the shared service instances handlers depend on.
type Services struct {
	Analyzer      *analyzer.Analyzer
	Library       *library.Loader
	Template      *prompt.Template
	Registry      *providers.Registry
	ConfigManager *config.Manager
	Home          *home.Dir
	Logger        *slog.Logger
}

// WithServices attaches services to a context.
func WithServices(ctx context.Context, svc *Services) context.Context {
	return context.WithValue(ctx, servicesKey, svc)
}

// From extracts services from a context. Returns nil if absent.
func From(ctx context.Context) *Services {
	svc, _ := ctx.Value(servicesKey).(*Services)
	return svc
}

// AnalyzerFrom extracts the analyzer from a context.
func AnalyzerFrom(ctx context.Context) *analyzer.Analyzer {
	if svc := From(ctx); svc != nil {
		return svc.Analyzer
	}
	return nil
}

// LibraryFrom extracts the reference library loader from a context.
func LibraryFrom(ctx context.Context) *library.Loader {
	if svc := From(ctx); svc != nil {
		return svc.Library
	}
	return nil
}

// TemplateFrom extracts the instruction template from a context.
func TemplateFrom(ctx context.Context) *prompt.Template {
	if svc := From(ctx); svc != nil {
		return svc.Template
	}
	return nil
}

// RegistryFrom extracts the provider registry from a context.
func RegistryFrom(ctx context.Context) *providers.Registry {
	if svc := From(ctx); svc != nil {
		return svc.Registry
	}
	return nil
}

// ConfigFrom extracts the config manager from a context.
func ConfigFrom(ctx context.Context) *config.Manager {
	if svc := From(ctx); svc != nil {
		return svc.ConfigManager
	}
	return nil
}

// HomeFrom extracts the home directory from a context.
func HomeFrom(ctx context.Context) *home.Dir {
	if svc := From(ctx); svc != nil {
		return svc.Home
	}
	return nil
}

// LoggerFrom extracts the logger from a context, falling back to the default.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if svc := From(ctx); svc != nil && svc.Logger != nil {
		return svc.Logger
	}
	return slog.Default()
}
