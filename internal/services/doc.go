// Package services defines shared utilities consumed by the catalog, scan and
// scraper components.
//
// Key responsibilities:
//   - Context helpers that stamp run correlation identifiers, operation names,
//     and scrape sources for logging.
//   - Structured error markers plus the Wrap helper that sort failures into
//     the filesystem / parse / store / network buckets callers report on.
//
// Use these helpers when wiring new operations so error reporting and
// observability stay uniform across the module.
package services
