// Package logging assembles structured slog loggers and formatting helpers used
// across bd2mods.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so long-running operations tag
// every line with their run ID, operation, and scrape source. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
package logging
