// Package library loads the on-disk crop reference library.
//
// The library is a two-level directory tree maintained outside this system:
//
//	<root>/<crop>/<stage>/*.{png,jpg,jpeg}
//
// Each crop directory holds one subdirectory per growth stage, and each stage
// holds example photographs used to condition the model via in-context
// demonstration.
package library

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPerStage caps how many example images are loaded per growth stage.
// Every image in the payload costs tokens on the remote call, so the cap
// bounds prompt size at the price of less conditioning context.
const DefaultPerStage = 2

// Example is a labeled reference image. Immutable once loaded; lifetime is a
// single analysis request.
type Example struct {
	Label string // "<crop> - <stage>:"
	Data  []byte
	MIME  string
}

// Skipped records a path the loader could not use and why. Partial results
// are acceptable; skips are surfaced instead of aborting the load.
type Skipped struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Loader enumerates the reference library.
// It performs no caching: every Load re-reads the full tree from disk. That
// is a deliberate simplicity/cost tradeoff carried from the original design.
type Loader struct {
	Root     string
	PerStage int
	Logger   *slog.Logger
}

// NewLoader creates a loader rooted at root.
func NewLoader(root string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{Root: root, PerStage: DefaultPerStage, Logger: logger}
}

// Load walks the two-level tree and returns up to PerStage examples per
// growth stage, labeled "<crop> - <stage>:". Unreadable directories and
// files are skipped with a logged warning and recorded in the returned
// skip list. Order follows directory enumeration; it affects prompt framing
// only, not correctness.
func (l *Loader) Load(ctx context.Context) ([]Example, []Skipped, error) {
	perStage := l.PerStage
	if perStage <= 0 {
		perStage = DefaultPerStage
	}

	crops, err := os.ReadDir(l.Root)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read reference root %s: %w", l.Root, err)
	}

	var examples []Example
	var skipped []Skipped

	for _, crop := range crops {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if !crop.IsDir() {
			continue
		}
		cropPath := filepath.Join(l.Root, crop.Name())

		stages, err := os.ReadDir(cropPath)
		if err != nil {
			skipped = append(skipped, Skipped{Path: cropPath, Reason: err.Error()})
			l.Logger.Warn("skipping unreadable crop directory", "path", cropPath, "error", err)
			continue
		}

		for _, stage := range stages {
			if !stage.IsDir() {
				continue
			}
			stagePath := filepath.Join(cropPath, stage.Name())
			label := fmt.Sprintf("%s - %s:", crop.Name(), stage.Name())

			ex, sk := l.loadStage(stagePath, label, perStage)
			examples = append(examples, ex...)
			skipped = append(skipped, sk...)
		}
	}

	return examples, skipped, nil
}

// loadStage reads up to limit image files from one stage directory.
func (l *Loader) loadStage(dir, label string, limit int) ([]Example, []Skipped) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		l.Logger.Warn("skipping unreadable stage directory", "path", dir, "error", err)
		return nil, []Skipped{{Path: dir, Reason: err.Error()}}
	}

	var examples []Example
	var skipped []Skipped

	for _, entry := range entries {
		if len(examples) >= limit {
			break
		}
		if entry.IsDir() {
			continue
		}
		mime, ok := imageMIME(entry.Name())
		if !ok {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			skipped = append(skipped, Skipped{Path: path, Reason: err.Error()})
			l.Logger.Warn("skipping unreadable reference image", "path", path, "error", err)
			continue
		}

		examples = append(examples, Example{Label: label, Data: data, MIME: mime})
	}

	return examples, skipped
}

// imageMIME maps a file name to its image MIME type by extension.
// Only png/jpg/jpeg are part of the library contract.
func imageMIME(name string) (string, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png", true
	case ".jpg", ".jpeg":
		return "image/jpeg", true
	default:
		return "", false
	}
}
