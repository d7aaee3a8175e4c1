package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"absubmit/internal/config"
	"absubmit/internal/extractor"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LibraryDB = filepath.Join(base, "data", "library.db")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Extractor.TempDir = filepath.Join(base, "tmp")
	if err := os.MkdirAll(cfgVal.Extractor.TempDir, 0o755); err != nil {
		t.Fatalf("mkdir temp dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithBaseURL points submissions at the given server (usually httptest).
func WithBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.AcousticBrainz.BaseURL = url
	}
}

// WithExtractorScript writes a stub extractor with the given shell body and
// configures it as the explicit extractor path.
func WithExtractorScript(body string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Extractor.Path = WriteScript(b.t, filepath.Join(b.baseDir, "bin", "extractor"), body)
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, the default extractor is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{extractor.DefaultBinary}
		}
		binDir := filepath.Join(b.baseDir, "path-bin")
		for _, name := range names {
			WriteScript(b.t, filepath.Join(binDir, name), "exit 1\n")
		}
		PrependPath(b.t, binDir)
	}
}

// PrependPath puts dir at the front of PATH for the duration of the test.
func PrependPath(t testing.TB, dir string) {
	t.Helper()
	oldPath := os.Getenv("PATH")
	newPath := dir
	if oldPath != "" {
		newPath = dir + string(os.PathListSeparator) + oldPath
	}
	t.Setenv("PATH", newPath)
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(filepath.Dir(cfg.Paths.LibraryDB))
}
