package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// knownModTypes mirrors the classifier's type vocabulary.
var knownModTypes = map[string]struct{}{
	"idle":     {},
	"cutscene": {},
	"date":     {},
	"battle":   {},
	"ui":       {},
	"other":    {},
	"history":  {},
	"minigame": {},
	"swap":     {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateScraper(); err != nil {
		return err
	}
	if err := c.validateClassifier(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateScraper() error {
	for _, source := range c.Scraper.Sources {
		parsed, err := url.Parse(source)
		if err != nil {
			return fmt.Errorf("scraper.sources: %q: %w", source, err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("scraper.sources: %q must be an http(s) URL", source)
		}
		if parsed.Host == "" {
			return fmt.Errorf("scraper.sources: %q is missing a host", source)
		}
	}
	if c.Scraper.RenderTimeoutSeconds < 0 {
		return errors.New("scraper.render_timeout_seconds must be positive")
	}
	if c.Scraper.HTTPTimeoutSeconds < 0 {
		return errors.New("scraper.http_timeout_seconds must be positive")
	}
	if c.Scraper.SettleMillis < 0 {
		return errors.New("scraper.settle_millis must be zero or positive")
	}
	return nil
}

func (c *Config) validateClassifier() error {
	for _, entry := range c.Classifier.TypeAliases {
		if _, ok := knownModTypes[entry.Value]; !ok {
			return fmt.Errorf("classifier.type_aliases: alias %q maps to unknown mod type %q", entry.Alias, entry.Value)
		}
	}
	for _, entry := range c.Classifier.AuthorAliases {
		if strings.TrimSpace(entry.Value) == "" {
			return fmt.Errorf("classifier.author_aliases: alias %q has no author", entry.Alias)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported level %q", c.Logging.Level)
	}
}
