package preflight_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"absubmit/internal/preflight"
	"absubmit/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := preflight.CheckDirectoryAccess("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := preflight.CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := preflight.CheckDirectoryAccess("test", f); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckAcousticBrainz(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	result := preflight.CheckAcousticBrainz(context.Background(), srv.URL+"/api/v1")
	if !result.Passed {
		t.Fatalf("expected any HTTP answer to pass, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "HTTP 404") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckAcousticBrainz_Unreachable(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := listener.Addr().String()
	listener.Close()

	if result := preflight.CheckAcousticBrainz(context.Background(), "http://"+addr); result.Passed {
		t.Fatal("expected failure for closed port")
	}
	if result := preflight.CheckAcousticBrainz(context.Background(), "not a url"); result.Passed {
		t.Fatal("expected failure for invalid url")
	}
}

func TestRunAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	defer srv.Close()

	cfg := testsupport.NewConfig(t,
		testsupport.WithBaseURL(srv.URL),
		testsupport.WithExtractorScript(testsupport.ExtractorSuccess),
	)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure dirs: %v", err)
	}

	results := preflight.RunAll(context.Background(), cfg)
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	if !preflight.Passed(results) {
		t.Fatalf("expected all checks to pass: %+v", results)
	}

	cfg.Extractor.Path = filepath.Join(t.TempDir(), "missing")
	results = preflight.RunAll(context.Background(), cfg)
	if preflight.Passed(results) {
		t.Fatal("expected missing extractor to fail")
	}
	if results[0].Name != "Extractor" || results[0].Passed {
		t.Fatalf("unexpected extractor result %+v", results[0])
	}
}
