package extractor

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"absubmit/internal/services"
)

// DefaultBinary is the extractor executable searched for on PATH when no
// explicit path is configured.
const DefaultBinary = "streaming_extractor_music"

// DownloadURL is where users obtain the extractor binary.
const DownloadURL = "https://acousticbrainz.org/download"

const probeTimeout = 30 * time.Second

// Handle identifies the resolved extractor binary. It is created once by
// Resolve and never mutated.
type Handle struct {
	Path        string
	Fingerprint string
}

// ProbeResult is the outcome of invoking a binary to confirm it exists.
type ProbeResult int

const (
	ProbeNotFound ProbeResult = iota
	ProbeFound
)

func (r ProbeResult) String() string {
	if r == ProbeFound {
		return "found"
	}
	return "not found"
}

// Probe runs binary with no arguments. The extractor exits non-zero when
// called without input and output paths, so any process that actually ran
// counts as found; only a failure to start the process means not found. The
// returned error carries the start failure detail for ProbeNotFound.
func Probe(ctx context.Context, binary string) (ProbeResult, error) {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	err := exec.CommandContext(probeCtx, binary).Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return ProbeFound, nil
	case errors.As(err, &exitErr):
		return ProbeFound, nil
	default:
		return ProbeNotFound, err
	}
}

// Resolve locates the extractor and fingerprints it. An explicit path must
// name an existing executable file; otherwise DefaultBinary is probed and
// looked up on PATH. Every failure is marked services.ErrConfiguration.
func Resolve(ctx context.Context, explicitPath string) (Handle, error) {
	path := strings.TrimSpace(explicitPath)
	if path != "" {
		resolved, err := resolveExplicit(path)
		if err != nil {
			return Handle{}, err
		}
		path = resolved
	} else {
		resolved, err := resolveDefault(ctx)
		if err != nil {
			return Handle{}, err
		}
		path = resolved
	}

	fingerprint, err := Fingerprint(path)
	if err != nil {
		return Handle{}, services.Wrap(services.ErrConfiguration, "extractor", "fingerprint", path, err)
	}
	return Handle{Path: path, Fingerprint: fingerprint}, nil
}

func resolveExplicit(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", services.Wrap(services.ErrConfiguration, "extractor", "resolve", "expand home directory", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	absolute, err := filepath.Abs(path)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "extractor", "resolve", path, err)
	}
	info, err := os.Stat(absolute)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "extractor", "resolve",
			fmt.Sprintf("extractor command does not exist: %s", absolute), err)
	}
	if !info.Mode().IsRegular() {
		return "", services.Wrap(services.ErrConfiguration, "extractor", "resolve",
			fmt.Sprintf("extractor command is not a regular file: %s", absolute), nil)
	}
	if err := unix.Access(absolute, unix.X_OK); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "extractor", "resolve",
			fmt.Sprintf("extractor command is not executable: %s", absolute), err)
	}
	return absolute, nil
}

func resolveDefault(ctx context.Context) (string, error) {
	result, probeErr := Probe(ctx, DefaultBinary)
	if result == ProbeNotFound {
		return "", services.Wrap(services.ErrConfiguration, "extractor", "resolve",
			fmt.Sprintf("no extractor command found: install %s from %s", DefaultBinary, DownloadURL), probeErr)
	}
	located, err := exec.LookPath(DefaultBinary)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "extractor", "resolve",
			fmt.Sprintf("locate %s on PATH", DefaultBinary), err)
	}
	absolute, err := filepath.Abs(located)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "extractor", "resolve", located, err)
	}
	return absolute, nil
}

// Fingerprint returns the hex SHA-1 digest of the file at path.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open extractor: %w", err)
	}
	defer f.Close()

	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash extractor: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
