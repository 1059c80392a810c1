package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"bd2mods/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckSource(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	ok := CheckSource(context.Background(), srv.Client(), srv.URL+"/costumes", "bd2mods-test")
	if !ok.Passed {
		t.Fatalf("expected pass, got: %s", ok.Detail)
	}
	if gotAgent != "bd2mods-test" {
		t.Fatalf("user agent not forwarded: %q", gotAgent)
	}

	missing := CheckSource(context.Background(), srv.Client(), srv.URL+"/missing", "")
	if missing.Passed || missing.Severity != SeverityWarn {
		t.Fatalf("expected warning for 404, got %#v", missing)
	}
}

func TestRunAllSkipsNetworkByDefault(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	var root string
	cfg := testsupport.NewConfig(t, testsupport.WithLibraryRoot("library", &root), testsupport.WithScraperSources(srv.URL))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := RunAll(context.Background(), cfg, Options{})
	if hits != 0 {
		t.Fatalf("network probe ran without Options.Network")
	}
	if Failed(results) {
		t.Fatalf("expected no blocking failures: %+v", results)
	}
	var sawRoot bool
	for _, r := range results {
		if r.Name == "Library root 1" {
			sawRoot = true
			if r.Passed || r.Severity != SeverityWarn {
				t.Fatalf("missing library root should warn: %#v", r)
			}
		}
	}
	if !sawRoot {
		t.Fatalf("library root check missing: %+v", results)
	}

	results = RunAll(context.Background(), cfg, Options{Network: true, Client: srv.Client()})
	if hits != 1 {
		t.Fatalf("expected one source probe, got %d", hits)
	}
	if Failed(results) {
		t.Fatalf("expected no blocking failures: %+v", results)
	}
}

func TestRunAllFailsOnMissingDataDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	results := RunAll(context.Background(), cfg, Options{})
	if !Failed(results) {
		t.Fatalf("expected data directory failure: %+v", results)
	}
}
