package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/agrolens/croplens/internal/config"
	"github.com/agrolens/croplens/internal/home"
	"github.com/agrolens/croplens/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the CropLens server",
	Long: `Start the CropLens HTTP server with the embedded web UI.

The server needs three things in the home directory (default ~/.croplens):
  - config.yaml   provider configuration (croplens init creates one)
  - prompt.txt    the instruction template sent with every analysis
  - reference/    the crop reference library: reference/<crop>/<stage>/*.jpg

Examples:
  croplens serve                 # Start on default port 8080
  croplens serve --port 3000     # Start on custom port
  croplens serve --host 0.0.0.0  # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		configMgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		configMgr.WatchConfig()

		cfg := configMgr.Get()

		// The Gemini key may live in a .env file rather than the
		// environment; load it before provider keys are resolved.
		if needsGoogleKey(cfg) {
			envFile := cfg.Defaults.EnvFile
			if envFile == "" {
				envFile = home.EnvFileName
			}
			key, err := config.LoadAPIKey(envFile)
			if err != nil {
				return fmt.Errorf("no usable credential: %w", err)
			}
			os.Setenv(config.GoogleAPIKeyVar, key)
		}

		host := serveHost
		port := servePort
		if host == "" {
			host = cfg.Server.Host
		}
		if port == "" {
			port = cfg.Server.Port
		}

		srv, err := server.New(ctx, server.Config{
			Host:          host,
			Port:          port,
			Home:          h,
			ConfigManager: configMgr,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

// needsGoogleKey reports whether any enabled provider references the Google
// API key and the environment does not already supply it.
func needsGoogleKey(cfg *config.Config) bool {
	if os.Getenv(config.GoogleAPIKeyVar) != "" {
		return false
	}
	ref := "${" + config.GoogleAPIKeyVar + "}"
	for _, p := range cfg.EnabledProviders() {
		if p.APIKey == ref {
			return true
		}
	}
	return false
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default from config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default from config)")

	rootCmd.AddCommand(serveCmd)
}
