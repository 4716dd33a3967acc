package main

import (
	"github.com/spf13/cobra"

	"github.com/agrolens/croplens/internal/api"
	"github.com/agrolens/croplens/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "croplens",
	Short: "Crop field analyzer backed by a multimodal LLM",
	Long: `CropLens identifies crops and their growth stages in field photographs.

An uploaded image is sent to a multimodal LLM together with a labeled
reference library of example crop images. The model's structured reply
(crop names, confidence scores, growth stages, description) is parsed
defensively and rendered as result cards in the embedded web UI.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.croplens/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "croplens home directory (default: ~/.croplens)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
}
