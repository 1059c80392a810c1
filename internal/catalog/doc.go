// Package catalog reads canonical character and costume lists and merges
// them into the store.
//
// A catalog document is either a bare JSON array of character records or an
// object wrapping that array under "characters". Sync is idempotent: running
// it twice with the same records leaves the store unchanged, and overlapping
// input only refreshes display names and appends aliases.
package catalog
