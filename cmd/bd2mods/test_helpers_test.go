package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bd2mods/internal/config"
	"bd2mods/internal/store"
	"bd2mods/internal/testsupport"
)

type cliTestEnv struct {
	cfg         *config.Config
	configPath  string
	libraryRoot string
	baseDir     string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	var root string
	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{testsupport.WithLibraryRoot("library", &root)}, opts...)...)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir library: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("BD2MODS_LIBRARY", "")
	t.Setenv("BD2MODS_CHROME_PATH", "")

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:         cfg,
		configPath:  configPath,
		libraryRoot: root,
		baseDir:     base,
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

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	quoted := make([]string, 0, len(cfg.Library.Roots))
	for _, root := range cfg.Library.Roots {
		quoted = append(quoted, fmt.Sprintf("%q", root))
	}
	sources := make([]string, 0, len(cfg.Scraper.Sources))
	for _, src := range cfg.Scraper.Sources {
		sources = append(sources, fmt.Sprintf("%q", src))
	}
	content := fmt.Sprintf(
		"[paths]\ndata_dir = %q\nlog_dir = %q\n\n[library]\nroots = [%s]\n\n[catalog]\nfile = %q\n\n[scraper]\nsources = [%s]\nrender_enabled = false\n\n[logging]\nlevel = \"warn\"\nretention_days = 0\n",
		cfg.Paths.DataDir,
		cfg.Paths.LogDir,
		strings.Join(quoted, ", "),
		cfg.Catalog.File,
		strings.Join(sources, ", "),
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// withTestStore opens the database between CLI runs; the CLI holds an
// exclusive lock while a command executes.
func withTestStore(t *testing.T, cfg *config.Config, fn func(*store.Store)) {
	t.Helper()
	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer st.Close()
	fn(st)
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

const ariaCatalog = `{"characters":[{"slug":"aria","display_name":"Aria","aliases":["Ari"],"costumes":[{"slug":"default","display_name":"Default"}]}]}`
