// Package scan walks mod library folders and records what it finds.
//
// A library is laid out as root/author/mod. Rescan refreshes every mod
// folder under the configured roots in one transaction. DryRun classifies and
// resolves the mods of a single author folder without touching the store, and
// Commit writes a reviewed set of drafts back, deduplicated by canonical
// folder path.
package scan
