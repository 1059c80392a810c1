package preflight

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"bd2mods/internal/config"
	"bd2mods/internal/deps"
)

// Severity ranks a failed check.
type Severity int

const (
	// SeverityError marks a check whose failure blocks normal operation.
	SeverityError Severity = iota
	// SeverityWarn marks a check whose failure degrades a feature.
	SeverityWarn
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Detail   string
	Severity Severity
}

// Options toggles the optional checks.
type Options struct {
	// Network probes every configured scraper source.
	Network bool
	// Client overrides the HTTP client used for source probes.
	Client *http.Client
}

// RunAll executes every applicable check for cfg.
func RunAll(ctx context.Context, cfg *config.Config, opts Options) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))

	if len(cfg.Library.Roots) == 0 {
		results = append(results, Result{Name: "Library roots", Detail: "none configured", Severity: SeverityWarn})
	}
	for i, root := range cfg.Library.Roots {
		result := CheckDirectoryAccess(fmt.Sprintf("Library root %d", i+1), root)
		result.Severity = SeverityWarn
		results = append(results, result)
	}
	if cfg.Library.GameModsDir != "" {
		result := CheckDirectoryAccess("Game mods directory", cfg.Library.GameModsDir)
		result.Severity = SeverityWarn
		results = append(results, result)
	}

	if cfg.Scraper.RenderEnabled {
		results = append(results, CheckChrome(cfg.Scraper.ChromePath))
	}

	if opts.Network {
		client := opts.Client
		if client == nil {
			timeout := time.Duration(cfg.Scraper.HTTPTimeoutSeconds) * time.Second
			if timeout <= 0 {
				timeout = 10 * time.Second
			}
			client = &http.Client{Timeout: timeout}
		}
		for _, source := range cfg.Scraper.Sources {
			results = append(results, CheckSource(ctx, client, source, cfg.Scraper.UserAgent))
		}
	}
	return results
}

// CheckChrome reports whether a browser is available for rendered scraping.
func CheckChrome(configured string) Result {
	status := deps.ResolveChrome(configured)
	if status.Available {
		return Result{Name: status.Name, Passed: true, Detail: status.Command}
	}
	return Result{
		Name:     status.Name,
		Detail:   status.Detail + " (scrapes fall back to static fetch)",
		Severity: SeverityWarn,
	}
}

// Failed reports whether any check at SeverityError did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed && r.Severity == SeverityError {
			return true
		}
	}
	return false
}
