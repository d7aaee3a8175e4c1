package library

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"absubmit/internal/services"
)

// audioExtensions are the file extensions Import treats as audio. It is
// wider than what the extractor accepts; unsupported formats are filtered
// later with a logged reason.
var audioExtensions = map[string]struct{}{
	"mp3": {}, "ogg": {}, "oga": {}, "flac": {}, "mp4": {}, "m4a": {}, "m4r": {},
	"m4b": {}, "m4p": {}, "aac": {}, "wma": {}, "asf": {}, "mpc": {}, "wv": {},
	"spx": {}, "tta": {}, "3g2": {}, "aif": {}, "aiff": {}, "ape": {},
	"wav": {}, "opus": {}, "dsf": {}, "mka": {},
}

// ImportStats summarises an Import call.
type ImportStats struct {
	Added    int
	Existing int
	Ignored  int
}

// FormatFromPath derives the format tag from a file extension, or "" when
// the file has none.
func FormatFromPath(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Import walks root and adds every audio file. Existing rows keep their
// tags. Hidden files and directories are skipped.
func (s *Store) Import(ctx context.Context, root string) (ImportStats, error) {
	var stats ImportStats
	absRoot, err := filepath.Abs(strings.TrimSpace(root))
	if err != nil {
		return stats, services.Wrap(services.ErrValidation, "library", "import", root, err)
	}

	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		hidden := path != absRoot && strings.HasPrefix(d.Name(), ".")
		if d.IsDir() {
			if hidden {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden || !d.Type().IsRegular() {
			stats.Ignored++
			return nil
		}
		format := FormatFromPath(path)
		if _, ok := audioExtensions[format]; !ok {
			stats.Ignored++
			return nil
		}

		existing, err := s.GetByPath(ctx, path)
		if err != nil {
			return err
		}
		if existing != nil {
			stats.Existing++
			return nil
		}
		if _, err := s.Add(ctx, Item{Path: path, Format: format}); err != nil {
			return fmt.Errorf("add %s: %w", path, err)
		}
		stats.Added++
		return nil
	})
	if walkErr != nil {
		return stats, services.Wrap(services.ErrValidation, "library", "import", absRoot, walkErr)
	}
	return stats, nil
}
