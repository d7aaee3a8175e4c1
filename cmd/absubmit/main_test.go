package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"absubmit/internal/config"
	"absubmit/internal/extractor"
	"absubmit/internal/library"
	"absubmit/internal/services"
	"absubmit/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\n%s", needle, haystack)
	}
}

func TestFormatsCommandSkipsConfig(t *testing.T) {
	out, _, err := runCLI(t, []string{"formats"}, filepath.Join(t.TempDir(), "missing", "config.toml"))
	if err != nil {
		t.Fatalf("formats: %v", err)
	}
	requireContains(t, out, "mp3\n")
	requireContains(t, out, "aiff\n")
	if strings.Contains(out, "wav") {
		t.Fatalf("wav must not be listed:\n%s", out)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.cfg.Paths.LibraryDB)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestConfigValidateRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[submit]\nworkers = 0\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := runCLI(t, []string{"config", "validate"}, path); err == nil {
		t.Fatal("expected validation failure for workers = 0")
	}
}

func TestLibraryCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	music := filepath.Join(env.baseDir, "music")
	testsupport.WriteFile(t, filepath.Join(music, "a.flac"), 8)
	testsupport.WriteFile(t, filepath.Join(music, "b.mp3"), 8)
	testsupport.WriteFile(t, filepath.Join(music, "notes.txt"), 8)

	out, _, err := runCLI(t, []string{"library", "import", music}, env.configPath)
	if err != nil {
		t.Fatalf("library import: %v", err)
	}
	requireContains(t, out, "Imported 2 new, 0 already present, 1 ignored")

	out, _, err = runCLI(t, []string{"library", "add", filepath.Join(music, "c.ogg"), "--mbid", "abc-123", "--artist", "Artist", "--title", "Song"}, env.configPath)
	if err != nil {
		t.Fatalf("library add: %v", err)
	}
	requireContains(t, out, "Item #3")
	requireContains(t, out, "(ogg)")

	out, _, err = runCLI(t, []string{"library", "set", "1", "mood_acoustic", "0.42"}, env.configPath)
	if err != nil {
		t.Fatalf("library set: %v", err)
	}
	requireContains(t, out, `mood_acoustic = "0.42"`)

	out, _, err = runCLI(t, []string{"library", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("library list: %v", err)
	}
	requireContains(t, out, "a.flac")
	requireContains(t, out, "Artist - Song")
	requireContains(t, out, "abc-123")

	out, _, err = runCLI(t, []string{"library", "list", "format:ogg"}, env.configPath)
	if err != nil {
		t.Fatalf("library list query: %v", err)
	}
	if strings.Contains(out, "a.flac") || !strings.Contains(out, "Artist - Song") {
		t.Fatalf("unexpected filtered list:\n%s", out)
	}

	if _, _, err := runCLI(t, []string{"library", "set", "x", "title", "y"}, env.configPath); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for bad id, got %v", err)
	}
	if _, _, err := runCLI(t, []string{"library", "set", "99", "title", "y"}, env.configPath); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found for missing item, got %v", err)
	}
}

func TestExtractorCommand(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithExtractorScript(testsupport.ExtractorSuccess))

	out, _, err := runCLI(t, []string{"extractor"}, env.configPath)
	if err != nil {
		t.Fatalf("extractor: %v", err)
	}
	fingerprint, err := extractor.Fingerprint(env.cfg.Extractor.Path)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	requireContains(t, out, env.cfg.Extractor.Path)
	requireContains(t, out, fingerprint)
	requireContains(t, out, "config")
}

func TestExtractorCommandSearchesPath(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())

	out, _, err := runCLI(t, []string{"extractor"}, env.configPath)
	if err != nil {
		t.Fatalf("extractor: %v", err)
	}
	requireContains(t, out, extractor.DefaultBinary)
	requireContains(t, out, "PATH")
}

func TestSubmitEndToEnd(t *testing.T) {
	var hits atomic.Int32
	var lastPath atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		lastPath.Store(r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	env := setupCLITestEnv(t,
		testsupport.WithBaseURL(server.URL),
		testsupport.WithExtractorScript(testsupport.ExtractorSuccess),
	)
	store := testsupport.MustOpenStore(t, env.cfg)
	testsupport.AddItem(t, store, library.Item{Path: "/music/song.mp3", Format: "mp3", MBTrackID: "abc-123"})
	testsupport.AddItem(t, store, library.Item{Path: "/music/done.mp3", Format: "mp3", MBTrackID: "def-456", MoodAcoustic: "0.9"})
	testsupport.AddItem(t, store, library.Item{Path: "/music/take.wav", Format: "wav", MBTrackID: "ghi-789"})
	store.Close()

	out, _, err := runCLI(t, []string{"submit"}, env.configPath)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected one submission, got %d", hits.Load())
	}
	if got := lastPath.Load(); got != "/abc-123/low-level" {
		t.Fatalf("unexpected submission path %v", got)
	}
	requireContains(t, out, "Submitted")
	requireContains(t, out, "already analyzed")
	requireContains(t, out, "unsupported format")

	out, _, err = runCLI(t, []string{"submit", "--force", "format:mp3"}, env.configPath)
	if err != nil {
		t.Fatalf("submit --force: %v", err)
	}
	if hits.Load() != 3 {
		t.Fatalf("expected forced run to submit both mp3 items, total hits %d", hits.Load())
	}
	if !testsupport.EmptyDir(t, env.cfg.Extractor.TempDir) {
		t.Fatal("expected no leaked temp files")
	}
}

func TestSubmitFailsWithoutExtractor(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Extractor.Path = filepath.Join(env.baseDir, "missing-extractor")
	writeTestConfig(t, env.configPath, env.cfg)

	_, _, err := runCLI(t, []string{"submit"}, env.configPath)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestSubmitRefusesConcurrentRun(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithExtractorScript(testsupport.ExtractorSuccess))
	lock, err := library.AcquireRunLock(env.cfg.Paths.LibraryDB)
	if err != nil {
		t.Fatalf("AcquireRunLock: %v", err)
	}
	defer lock.Unlock()

	_, _, err = runCLI(t, []string{"submit"}, env.configPath)
	if !errors.Is(err, library.ErrLocked) {
		t.Fatalf("expected lock error, got %v", err)
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestSubmitRejectsZeroWorkers(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithExtractorScript(testsupport.ExtractorSuccess))
	_, _, err := runCLI(t, []string{"submit", "--workers", "0"}, env.configPath)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCheckCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()
	env := setupCLITestEnv(t,
		testsupport.WithBaseURL(server.URL),
		testsupport.WithExtractorScript(testsupport.ExtractorSuccess),
	)

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "Extractor")
	requireContains(t, out, "AcousticBrainz")

	env.cfg.Extractor.Path = filepath.Join(env.baseDir, "missing")
	writeTestConfig(t, env.configPath, env.cfg)
	out, _, err = runCLI(t, []string{"check"}, env.configPath)
	if err == nil {
		t.Fatalf("expected failing check\n%s", out)
	}
	requireContains(t, out, "no")
}
