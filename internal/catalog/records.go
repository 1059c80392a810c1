package catalog

// CharacterRecord is one canonical character with its costumes.
type CharacterRecord struct {
	Slug        string          `json:"slug"`
	DisplayName string          `json:"display_name"`
	Aliases     []string        `json:"aliases,omitempty"`
	Costumes    []CostumeRecord `json:"costumes,omitempty"`
}

// CostumeRecord is one costume of a character.
type CostumeRecord struct {
	Slug        string   `json:"slug"`
	DisplayName string   `json:"display_name"`
	Aliases     []string `json:"aliases,omitempty"`
}

// Report counts the records a sync processed.
type Report struct {
	Characters int `json:"characters"`
	Costumes   int `json:"costumes"`
	// AliasesAdded counts alias rows that did not exist before.
	AliasesAdded int `json:"aliases_added"`
}
