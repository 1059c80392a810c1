// Package textutil folds noisy human-authored names into the ASCII forms the
// catalog and classifiers compare against.
//
// Every comparison in the module goes through the same pipeline: Unicode
// compatibility decomposition with combining marks stripped, transliteration
// of whatever remains outside ASCII, then lowercasing. Normalize produces the
// space-joined token query used for fuzzy matching, Slugify the hyphen-joined
// catalog key, and Sanitize the alphanumeric-only form used by the alias
// classifiers.
package textutil
