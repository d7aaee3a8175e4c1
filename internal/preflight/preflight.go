package preflight

import (
	"context"
	"os"
	"path/filepath"

	"absubmit/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	tempDir := cfg.Extractor.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}

	return []Result{
		CheckExtractor(ctx, cfg.Extractor.Path),
		CheckDirectoryAccess("Temp directory", tempDir),
		CheckDirectoryAccess("Library directory", filepath.Dir(cfg.Paths.LibraryDB)),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckAcousticBrainz(ctx, cfg.AcousticBrainz.BaseURL),
	}
}

// Passed reports whether every result passed.
func Passed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
