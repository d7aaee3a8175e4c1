package extractor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"time"

	"absubmit/internal/services"
)

var (
	// ErrExtractorUnavailable marks a failure to start the extractor process
	// at all, as opposed to the process running and failing.
	ErrExtractorUnavailable = errors.New("extractor unavailable")
	// ErrMalformedReport marks extractor output that is not a usable report.
	ErrMalformedReport = errors.New("malformed extractor report")
)

// ExitError reports an extractor process that ran and exited non-zero.
type ExitError struct {
	Command string
	Code    int
	Output  string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Command, e.Code)
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	return exec.CommandContext(ctx, binary, args...).CombinedOutput()
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) RunnerOption {
	return func(r *Runner) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// WithTempDir sets the directory for transient output files. Empty uses
// the system temp dir.
func WithTempDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.tempDir = strings.TrimSpace(dir)
	}
}

// WithTimeout bounds a single extraction. Zero waits indefinitely.
func WithTimeout(timeout time.Duration) RunnerOption {
	return func(r *Runner) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// Runner invokes the extractor for individual files. It holds no mutable
// state and is safe for concurrent use.
type Runner struct {
	handle  Handle
	exec    Executor
	tempDir string
	timeout time.Duration
}

// NewRunner constructs a Runner bound to a resolved extractor.
func NewRunner(handle Handle, opts ...RunnerOption) *Runner {
	r := &Runner{
		handle: handle,
		exec:   commandExecutor{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handle returns the extractor the runner was built with.
func (r *Runner) Handle() Handle {
	return r.handle
}

// Run analyzes filePath and returns the enriched report. The temporary
// output file is removed on every path out of Run. Cancelling ctx does not
// interrupt an extraction that has already started.
func (r *Runner) Run(ctx context.Context, filePath string) (report Report, err error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, services.Wrap(services.ErrAnalysis, "extractor", "run", "empty input path", nil)
	}

	tmp, err := os.CreateTemp(r.tempDir, "absubmit-*.json")
	if err != nil {
		return nil, services.Wrap(services.ErrAnalysis, "extractor", "create output file", "", err)
	}
	outputPath := tmp.Name()
	defer func() {
		if rmErr := removeOutput(outputPath); rmErr != nil {
			report = nil
			err = errors.Join(err, services.Wrap(services.ErrAnalysis, "extractor", "remove output file", outputPath, rmErr))
		}
	}()
	// The extractor writes the file itself.
	if err := tmp.Close(); err != nil {
		return nil, services.Wrap(services.ErrAnalysis, "extractor", "close output file", outputPath, err)
	}

	runCtx := context.WithoutCancel(ctx)
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, r.timeout)
		defer cancel()
	}

	output, runErr := r.exec.Run(runCtx, r.handle.Path, []string{filePath, outputPath})
	if runErr != nil {
		return nil, r.classify(runCtx, runErr, output)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, services.Wrap(services.ErrAnalysis, "extractor", "read report", outputPath, err)
	}
	report, err = ParseReport(data)
	if err != nil {
		return nil, services.Wrap(services.ErrAnalysis, "extractor", "parse report", filePath, err)
	}
	if err := report.SetProvenance(r.handle.Fingerprint); err != nil {
		return nil, services.Wrap(services.ErrAnalysis, "extractor", "stamp report", filePath, err)
	}
	return report, nil
}

func (r *Runner) classify(runCtx context.Context, runErr error, output []byte) error {
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return services.Wrap(services.ErrAnalysis, "extractor", "run",
			fmt.Sprintf("timed out after %s", r.timeout), runErr)
	}
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return services.Wrap(services.ErrAnalysis, "extractor", "run", "", &ExitError{
			Command: r.handle.Path,
			Code:    exitErr.ExitCode(),
			Output:  strings.TrimSpace(string(output)),
		})
	}
	return services.Wrap(services.ErrConfiguration, "extractor", "start", r.handle.Path,
		fmt.Errorf("%w: %w", ErrExtractorUnavailable, runErr))
}

func removeOutput(path string) error {
	err := os.Remove(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
