package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeLibrary(); err != nil {
		return err
	}
	if err := c.normalizeCatalog(); err != nil {
		return err
	}
	c.normalizeScraper()
	c.normalizeClassifier()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLibrary() error {
	roots := append([]string(nil), c.Library.Roots...)
	if value, ok := os.LookupEnv("BD2MODS_LIBRARY"); ok && strings.TrimSpace(value) != "" {
		roots = append(roots, value)
	}
	seen := make(map[string]struct{}, len(roots))
	normalized := make([]string, 0, len(roots))
	for _, root := range roots {
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}
		expanded, err := expandPath(root)
		if err != nil {
			return fmt.Errorf("library.roots: %w", err)
		}
		if _, ok := seen[expanded]; ok {
			continue
		}
		seen[expanded] = struct{}{}
		normalized = append(normalized, expanded)
	}
	c.Library.Roots = normalized

	var err error
	if strings.TrimSpace(c.Library.GameModsDir) != "" {
		if c.Library.GameModsDir, err = expandPath(strings.TrimSpace(c.Library.GameModsDir)); err != nil {
			return fmt.Errorf("library.game_mods_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeCatalog() error {
	file := strings.TrimSpace(c.Catalog.File)
	if file == "" {
		c.Catalog.File = ""
		return nil
	}
	expanded, err := expandPath(file)
	if err != nil {
		return fmt.Errorf("catalog.file: %w", err)
	}
	c.Catalog.File = expanded
	return nil
}

func (c *Config) normalizeScraper() {
	c.Scraper.Sources = trimNonEmpty(c.Scraper.Sources)
	if len(c.Scraper.Sources) == 0 {
		c.Scraper.Sources = []string{defaultCatalogSource}
	}
	c.Scraper.WaitSelectors = trimNonEmpty(c.Scraper.WaitSelectors)
	if len(c.Scraper.WaitSelectors) == 0 {
		c.Scraper.WaitSelectors = append([]string(nil), defaultWaitSelectors...)
	}
	c.Scraper.ChromePath = strings.TrimSpace(c.Scraper.ChromePath)
	if c.Scraper.ChromePath == "" {
		if value, ok := os.LookupEnv("BD2MODS_CHROME_PATH"); ok {
			c.Scraper.ChromePath = strings.TrimSpace(value)
		}
	}
	if c.Scraper.RenderTimeoutSeconds == 0 {
		c.Scraper.RenderTimeoutSeconds = defaultRenderTimeoutSeconds
	}
	if c.Scraper.HTTPTimeoutSeconds == 0 {
		c.Scraper.HTTPTimeoutSeconds = defaultHTTPTimeoutSeconds
	}
	c.Scraper.UserAgent = strings.TrimSpace(c.Scraper.UserAgent)
	if c.Scraper.UserAgent == "" {
		c.Scraper.UserAgent = defaultUserAgent
	}
}

func (c *Config) normalizeClassifier() {
	c.Classifier.TypeAliases = normalizeAliases(c.Classifier.TypeAliases, true)
	c.Classifier.AuthorAliases = normalizeAliases(c.Classifier.AuthorAliases, false)
}

// normalizeAliases trims entries and drops those without an alias. Type
// values are lowercased since they name enum members; author values keep
// their display casing.
func normalizeAliases(entries []AliasEntry, lowerValue bool) []AliasEntry {
	out := make([]AliasEntry, 0, len(entries))
	for _, entry := range entries {
		entry.Alias = strings.ToLower(strings.TrimSpace(entry.Alias))
		entry.Value = strings.TrimSpace(entry.Value)
		if lowerValue {
			entry.Value = strings.ToLower(entry.Value)
		}
		if entry.Alias == "" {
			continue
		}
		out = append(out, entry)
	}
	return out
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value != "" {
			out = append(out, value)
		}
	}
	return out
}
