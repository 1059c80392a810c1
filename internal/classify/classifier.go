package classify

import (
	"strings"

	"bd2mods/internal/textutil"
)

// Classifier holds the ordered alias tables consulted by ModType and Author.
type Classifier struct {
	types   []Alias
	authors []Alias
}

// Default classifies with the builtin tables only.
var Default = New(nil, nil)

// New builds a classifier from the builtin tables followed by the extra
// entries. Extra aliases are sanitized the same way folder names are; entries
// that sanitize to nothing are dropped.
func New(extraTypes, extraAuthors []Alias) *Classifier {
	return &Classifier{
		types:   buildTable(TypeAliases, extraTypes),
		authors: buildTable(AuthorAliases, extraAuthors),
	}
}

func buildTable(builtin, extra []Alias) []Alias {
	table := make([]Alias, 0, len(builtin)+len(extra))
	table = append(table, builtin...)
	for _, entry := range extra {
		alias := textutil.Sanitize(entry.Alias)
		if alias == "" || entry.Value == "" {
			continue
		}
		table = append(table, Alias{Alias: alias, Value: entry.Value})
	}
	return table
}

// ModType infers the mod type of a folder name, TypeOther when nothing matches.
func (c *Classifier) ModType(name string) ModType {
	value, ok := longestMatch(c.types, textutil.Sanitize(name))
	if !ok {
		return TypeOther
	}
	return ModType(value)
}

// Author infers the author of a folder name, DefaultAuthor when nothing matches.
func (c *Classifier) Author(name string) string {
	value, ok := longestMatch(c.authors, textutil.Sanitize(name))
	if !ok {
		return DefaultAuthor
	}
	return value
}

// longestMatch returns the value of the longest alias contained in
// sanitized. Only a strictly longer alias replaces the current best.
func longestMatch(table []Alias, sanitized string) (string, bool) {
	if sanitized == "" {
		return "", false
	}
	best := -1
	bestLen := 0
	for i, entry := range table {
		if len(entry.Alias) <= bestLen {
			continue
		}
		if strings.Contains(sanitized, entry.Alias) {
			best = i
			bestLen = len(entry.Alias)
		}
	}
	if best < 0 {
		return "", false
	}
	return table[best].Value, true
}
