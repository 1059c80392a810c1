// Package preflight provides readiness checks for the filesystem paths,
// browser, and catalog sources bd2mods depends on.
//
// The CLI "bd2mods doctor" command runs RunAll and renders each Result as a
// status line. Network checks only run when explicitly requested.
package preflight
