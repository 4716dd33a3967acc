package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agrolens/croplens/internal/config"
	"github.com/agrolens/croplens/internal/home"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the croplens home directory",
	Long: `Create the croplens home directory with a default config file and the
reference library skeleton.

After init, add reference images under reference/<crop>/<stage>/ and write
the instruction template to prompt.txt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		if h.ConfigExists() && !initForce {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", h.ConfigPath())
		}
		if err := config.WriteDefault(h.ConfigPath()); err != nil {
			return err
		}

		// Seed an example instruction template unless one already exists.
		if _, err := os.Stat(h.PromptPath()); os.IsNotExist(err) {
			template := `You are an agronomy assistant. Identify every crop visible in the input
image and its stage of growth, using the labeled example images for
comparison. Reply with a JSON object containing the keys "crop_name",
"confidence_score", "stage_of_plant_growth" (parallel lists), and
"description" (a short paragraph).
`
			if err := os.WriteFile(h.PromptPath(), []byte(template), 0o644); err != nil {
				return err
			}
		}

		fmt.Printf("Initialized croplens home at %s\n", h.Path())
		fmt.Printf("  config:    %s\n", h.ConfigPath())
		fmt.Printf("  prompt:    %s\n", h.PromptPath())
		fmt.Printf("  reference: %s\n", h.ReferencePath())
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing config")
}
