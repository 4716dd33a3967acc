package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the croplens home directory.
	DefaultDirName = ".croplens"

	// ReferenceDirName is the subdirectory holding the crop reference library.
	ReferenceDirName = "reference"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"

	// PromptFileName is the default instruction template file name.
	PromptFileName = "prompt.txt"

	// EnvFileName is the default credential file name.
	EnvFileName = ".env"
)

// Dir represents the croplens home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.croplens).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// ReferencePath returns the path to the reference library root.
// Layout: reference/<crop>/<stage>/*.{png,jpg,jpeg}
func (d *Dir) ReferencePath() string {
	return filepath.Join(d.path, ReferenceDirName)
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// PromptPath returns the path to the default instruction template.
func (d *Dir) PromptPath() string {
	return filepath.Join(d.path, PromptFileName)
}

// EnvPath returns the path to the default credential file.
func (d *Dir) EnvPath() string {
	return filepath.Join(d.path, EnvFileName)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	if err := os.MkdirAll(d.ReferencePath(), 0o755); err != nil {
		return fmt.Errorf("failed to create reference directory: %w", err)
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}
