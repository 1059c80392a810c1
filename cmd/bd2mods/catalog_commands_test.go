package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"bd2mods/internal/catalog"
	"bd2mods/internal/services"
	"bd2mods/internal/store"
	"bd2mods/internal/testsupport"
)

func TestCatalogSyncAndList(t *testing.T) {
	env := setupCLITestEnv(t)
	catalogPath := testsupport.WriteCatalogFile(t, env.baseDir, ariaCatalog)

	out, _, err := runCLI(t, []string{"catalog", "sync", "--file", catalogPath}, env.configPath)
	if err != nil {
		t.Fatalf("catalog sync: %v", err)
	}
	requireContains(t, out, "Synced 1 characters and 1 costumes")
	requireContains(t, out, "1 new aliases")

	out, _, err = runCLI(t, []string{"catalog", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog list: %v", err)
	}
	requireContains(t, out, "Aria")
	requireContains(t, out, "1 characters, 1 costumes, 1 aliases")

	out, _, err = runCLI(t, []string{"catalog", "list", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog list --json: %v", err)
	}
	var records []catalog.CharacterRecord
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("decode list output: %v\n%s", err, out)
	}
	if len(records) != 1 || records[0].Slug != "aria" || len(records[0].Costumes) != 1 {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestCatalogSyncUsesBuiltinCatalog(t *testing.T) {
	env := setupCLITestEnv(t)
	builtin, err := catalog.Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}

	out, _, err := runCLI(t, []string{"catalog", "sync", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog sync: %v", err)
	}
	var report catalog.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if report.Characters != len(builtin) {
		t.Fatalf("synced %d characters, want %d", report.Characters, len(builtin))
	}
}

func TestCatalogSyncRejectsMalformedFile(t *testing.T) {
	env := setupCLITestEnv(t)
	catalogPath := testsupport.WriteCatalogFile(t, env.baseDir, `{"characters": [{"slug": "aria",`)

	_, _, err := runCLI(t, []string{"catalog", "sync", "--file", catalogPath}, env.configPath)
	if !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
	withTestStore(t, env.cfg, func(st *store.Store) {
		counts, err := catalog.Summary(context.Background(), st)
		if err != nil {
			t.Fatalf("Summary: %v", err)
		}
		if counts.Characters != 0 {
			t.Fatalf("malformed catalog mutated the store: %+v", counts)
		}
	})
}

func TestCatalogScrapeWritesAndSyncs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
<div class="col-mobile-6"><h4><a href="#">Aria</a></h4>
<ul class="list-group"><li><a href="#">Default</a></li><li><a href="#">Bunny</a></li></ul></div>
<div class="col-mobile-6"><h4><a href="#">Lathel</a></h4>
<ul class="list-group"><li><a href="#">Default</a></li></ul></div>
</body></html>`))
	}))
	defer server.Close()

	env := setupCLITestEnv(t, testsupport.WithScraperSources(server.URL))
	outPath := filepath.Join(env.baseDir, "scraped.json")

	out, _, err := runCLI(t, []string{"catalog", "scrape", "--out", outPath, "--sync"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog scrape: %v", err)
	}
	requireContains(t, out, "primary")
	requireContains(t, out, "Synced 2 characters and 3 costumes")

	records, err := catalog.LoadFile(outPath)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(records) != 2 || records[0].Costumes[1].Slug != "bunny" {
		t.Fatalf("unexpected scraped catalog: %+v", records)
	}
}
