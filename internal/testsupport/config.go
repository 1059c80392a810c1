package testsupport

import (
	"path/filepath"
	"testing"

	"bd2mods/internal/config"
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
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Scraper.RenderEnabled = false
	cfgVal.Logging.RetentionDays = 0

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

// WithLibraryRoot adds a library root under the config's temp directory and
// returns its path through dst.
func WithLibraryRoot(name string, dst *string) ConfigOption {
	return func(b *configBuilder) {
		root := filepath.Join(b.baseDir, name)
		b.cfg.Library.Roots = append(b.cfg.Library.Roots, root)
		if dst != nil {
			*dst = root
		}
	}
}

// WithCatalogFile points catalog.file at path.
func WithCatalogFile(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.File = path
	}
}

// WithScraperSources replaces the scraper source list.
func WithScraperSources(sources ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scraper.Sources = append([]string(nil), sources...)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
