// Package classify infers a mod's type and author from its folder name.
//
// Both classifiers sanitize the name (transliterate, lowercase, keep
// alphanumerics) and scan an ordered alias table for the longest alias that
// occurs as a substring. Equal-length matches resolve to the earlier table
// entry, so table order doubles as a priority list.
package classify
