package extractor_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"absubmit/internal/extractor"
	"absubmit/internal/services"
	"absubmit/internal/testsupport"
)

func newRunner(t *testing.T, body string) (*extractor.Runner, string) {
	t.Helper()
	dir := t.TempDir()
	path := testsupport.WriteScript(t, filepath.Join(dir, "bin", "extractor"), body)
	handle, err := extractor.Resolve(context.Background(), path)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	tempDir := filepath.Join(dir, "tmp")
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	return extractor.NewRunner(handle, extractor.WithTempDir(tempDir)), tempDir
}

func TestRunnerSuccessStampsProvenance(t *testing.T) {
	runner, tempDir := newRunner(t, testsupport.ExtractorSuccess)

	report, err := runner.Run(context.Background(), "/music/song.flac")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got := report.Provenance(); got != runner.Handle().Fingerprint {
		t.Fatalf("provenance = %q, want %q", got, runner.Handle().Fingerprint)
	}

	meta := report["metadata"].(map[string]any)
	version := meta["version"].(map[string]any)
	if version["essentia"] != "2.1-beta2" {
		t.Fatalf("expected existing version fields preserved, got %v", version)
	}
	tags := meta["tags"].(map[string]any)
	if tags["file_name"] != "/music/song.flac" {
		t.Fatalf("expected extractor to receive input path, got %v", tags["file_name"])
	}
	lowlevel := report["lowlevel"].(map[string]any)
	if lowlevel["average_loudness"] != json.Number("0.9312") {
		t.Fatalf("expected numeric value preserved, got %#v", lowlevel["average_loudness"])
	}

	if !testsupport.EmptyDir(t, tempDir) {
		t.Fatal("expected temporary output to be removed")
	}
}

func TestRunnerNonZeroExit(t *testing.T) {
	runner, tempDir := newRunner(t, testsupport.ExtractorFailure)

	report, err := runner.Run(context.Background(), "/music/bad.mp3")
	if err == nil {
		t.Fatal("expected error for failing extractor")
	}
	if report != nil {
		t.Fatalf("expected no report, got %v", report)
	}
	if !errors.Is(err, services.ErrAnalysis) {
		t.Fatalf("expected analysis error, got %v", err)
	}
	if services.IsFatal(err) {
		t.Fatalf("per-file failure must not be fatal: %v", err)
	}
	var exitErr *extractor.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitError, got %T: %v", err, err)
	}
	if exitErr.Code != 3 {
		t.Fatalf("exit code = %d, want 3", exitErr.Code)
	}
	if !strings.Contains(exitErr.Output, "cannot decode input") {
		t.Fatalf("expected captured output, got %q", exitErr.Output)
	}
	if !testsupport.EmptyDir(t, tempDir) {
		t.Fatal("expected temporary output to be removed after failure")
	}
}

func TestRunnerToleratesExtractorRemovingOutput(t *testing.T) {
	runner, tempDir := newRunner(t, testsupport.ExtractorRemovesOutput)

	_, err := runner.Run(context.Background(), "/music/gone.mp3")
	var exitErr *extractor.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitError, got %v", err)
	}
	if strings.Contains(err.Error(), "remove output file") {
		t.Fatalf("missing output file must not surface as a cleanup error: %v", err)
	}
	if !testsupport.EmptyDir(t, tempDir) {
		t.Fatal("expected temp dir to be empty")
	}
}

func TestRunnerMalformedReport(t *testing.T) {
	runner, tempDir := newRunner(t, testsupport.ExtractorMalformed)

	_, err := runner.Run(context.Background(), "/music/garbled.mp3")
	if !errors.Is(err, extractor.ErrMalformedReport) {
		t.Fatalf("expected malformed report error, got %v", err)
	}
	if !errors.Is(err, services.ErrAnalysis) {
		t.Fatalf("expected analysis marker, got %v", err)
	}
	if !testsupport.EmptyDir(t, tempDir) {
		t.Fatal("expected temporary output to be removed")
	}
}

func TestRunnerReportWithoutMetadata(t *testing.T) {
	runner, _ := newRunner(t, testsupport.ExtractorNoMetadata)

	_, err := runner.Run(context.Background(), "/music/odd.mp3")
	if !errors.Is(err, extractor.ErrMalformedReport) {
		t.Fatalf("expected malformed report error, got %v", err)
	}
}

func TestRunnerExtractorVanished(t *testing.T) {
	runner, _ := newRunner(t, testsupport.ExtractorSuccess)
	if err := os.Remove(runner.Handle().Path); err != nil {
		t.Fatalf("remove extractor: %v", err)
	}

	_, err := runner.Run(context.Background(), "/music/song.flac")
	if !errors.Is(err, extractor.ErrExtractorUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
	if !services.IsFatal(err) {
		t.Fatalf("expected start failure to be fatal, got %v", err)
	}
}

func TestRunnerIgnoresCancellationOnceStarted(t *testing.T) {
	runner, _ := newRunner(t, testsupport.ExtractorSuccess)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := runner.Run(ctx, "/music/song.flac"); err != nil {
		t.Fatalf("expected extraction to complete despite cancelled parent, got %v", err)
	}
}

func TestRunnerTimeout(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.WriteScript(t, filepath.Join(dir, "extractor"), "exec sleep 5\n")
	handle, err := extractor.Resolve(context.Background(), path)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	runner := extractor.NewRunner(handle,
		extractor.WithTempDir(dir),
		extractor.WithTimeout(100*time.Millisecond),
	)

	_, err = runner.Run(context.Background(), "/music/slow.flac")
	if err == nil || !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if !errors.Is(err, services.ErrAnalysis) {
		t.Fatalf("expected analysis marker, got %v", err)
	}
}

type recordingExecutor struct {
	binary string
	args   []string
	write  string
}

func (e *recordingExecutor) Run(_ context.Context, binary string, args []string) ([]byte, error) {
	e.binary = binary
	e.args = append([]string(nil), args...)
	if e.write != "" {
		if err := os.WriteFile(args[1], []byte(e.write), 0o644); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func TestRunnerPassesInputAndOutputPaths(t *testing.T) {
	tempDir := t.TempDir()
	exec := &recordingExecutor{write: `{"metadata":{}}`}
	runner := extractor.NewRunner(
		extractor.Handle{Path: "/opt/extractor", Fingerprint: "abc"},
		extractor.WithExecutor(exec),
		extractor.WithTempDir(tempDir),
	)

	report, err := runner.Run(context.Background(), "/music/a.ogg")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if exec.binary != "/opt/extractor" {
		t.Fatalf("binary = %q", exec.binary)
	}
	if len(exec.args) != 2 || exec.args[0] != "/music/a.ogg" {
		t.Fatalf("unexpected args %v", exec.args)
	}
	if filepath.Dir(exec.args[1]) != tempDir || !strings.HasSuffix(exec.args[1], ".json") {
		t.Fatalf("expected output file in temp dir, got %q", exec.args[1])
	}
	if report.Provenance() != "abc" {
		t.Fatalf("expected version object created with provenance, got %v", report)
	}
	if _, err := os.Stat(exec.args[1]); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected output file removed, stat err = %v", err)
	}
}

func TestRunnerRejectsEmptyPath(t *testing.T) {
	runner := extractor.NewRunner(extractor.Handle{Path: "/bin/true"})
	if _, err := runner.Run(context.Background(), "  "); !errors.Is(err, services.ErrAnalysis) {
		t.Fatalf("expected analysis error for empty path, got %v", err)
	}
}
