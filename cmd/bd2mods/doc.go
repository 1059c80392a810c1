// Package main hosts the bd2mods CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once, opens the mod database
// under an exclusive lock for the duration of a command, and hands off to the
// internal packages: catalog sync and scraping, library rescans, the
// dry-run/commit import flow, mod bookkeeping, and the doctor and logs
// diagnostics. Output is a rounded table for people or indented JSON with
// --json.
//
// Keep this package lean: add behavior to the internal packages first, then
// surface it through a command or flag here.
package main
