// Package store persists the canonical catalog and the mod library in SQLite.
//
// Open applies embedded, versioned migrations and holds an exclusive lock
// file for the lifetime of the Store, since mod management is a
// single-process workload. Mutating operations that must be atomic (catalog
// sync, rescan, commit) run through InTx, which hands the caller a Tx and
// rolls back on any error. Read helpers and one-off edits are available
// directly on Store.
//
// Mods are keyed by folder_path. Callers canonicalize paths before reaching
// this package; the store compares them verbatim.
package store
