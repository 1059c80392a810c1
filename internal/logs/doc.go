// Package logs reads the JSON log file written by the logging package.
//
// Tail returns the last N matching entries or everything after a byte offset,
// with optional follow-mode polling for `bd2mods logs --follow`. Entries can be
// filtered by minimum level, run id, and component, so a single sync or scan
// can be isolated from the rest of the history.
package logs
