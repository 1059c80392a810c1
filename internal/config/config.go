package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Library contains the mod library layout.
type Library struct {
	// Roots are scanned as root/<author>/<mod> trees by rescan.
	Roots       []string `toml:"roots"`
	GameModsDir string   `toml:"game_mods_dir"`
}

// Catalog contains the canonical catalog source.
type Catalog struct {
	// File is a JSON catalog; the embedded catalog is used when empty.
	File string `toml:"file"`
}

// Scraper contains configuration for the catalog scraper.
type Scraper struct {
	Sources              []string `toml:"sources"`
	RenderEnabled        bool     `toml:"render_enabled"`
	ChromePath           string   `toml:"chrome_path"`
	WaitSelectors        []string `toml:"wait_selectors"`
	RenderTimeoutSeconds int      `toml:"render_timeout_seconds"`
	SettleMillis         int      `toml:"settle_millis"`
	HTTPTimeoutSeconds   int      `toml:"http_timeout_seconds"`
	UserAgent            string   `toml:"user_agent"`
}

// AliasEntry maps a folder-name substring onto a canonical value.
type AliasEntry struct {
	Alias string `toml:"alias"`
	Value string `toml:"value"`
}

// Classifier extends the builtin alias tables. Entries are appended after the
// builtins, so builtins keep priority on equal-length ties.
type Classifier struct {
	TypeAliases   []AliasEntry `toml:"type_aliases"`
	AuthorAliases []AliasEntry `toml:"author_aliases"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for bd2mods.
//
// Configuration sections by subsystem:
//   - Paths: database and log directories
//   - Library: mod library roots and install target
//   - Catalog: canonical catalog file
//   - Scraper: catalog scraping sources and timeouts
//   - Classifier: extra mod-type and author aliases
//   - Logging: log format, level, and retention
type Config struct {
	Paths      Paths      `toml:"paths"`
	Library    Library    `toml:"library"`
	Catalog    Catalog    `toml:"catalog"`
	Scraper    Scraper    `toml:"scraper"`
	Classifier Classifier `toml:"classifier"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/bd2mods/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("bd2mods.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the location of the mod database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "mods.db")
}

// LogFilePath returns the location of the application log file.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.Paths.LogDir, "bd2mods.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
