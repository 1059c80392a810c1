// Package config loads, normalizes, and validates bd2mods configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// BD2MODS_CHROME_PATH. The Config type centralizes every knob the CLI needs:
// where the mod database lives, which library roots to scan, where the
// canonical catalog comes from, and how the catalog scraper behaves.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
