package store

import (
	"time"

	"bd2mods/internal/classify"
)

// EntityType names the owner kind of an alias row.
type EntityType string

const (
	EntityCharacter EntityType = "character"
	EntityCostume   EntityType = "costume"
)

// Character is a canonical catalog character.
type Character struct {
	ID          int64  `json:"id"`
	Slug        string `json:"slug"`
	DisplayName string `json:"display_name"`
}

// Costume belongs to exactly one character. Slugs are unique per character.
type Costume struct {
	ID          int64  `json:"id"`
	CharacterID int64  `json:"character_id"`
	Slug        string `json:"slug"`
	DisplayName string `json:"display_name"`
}

// Alias is an alternate spelling attached to a character or costume.
type Alias struct {
	EntityType EntityType `json:"entity_type"`
	EntityID   int64      `json:"entity_id"`
	Text       string     `json:"alias_text"`
}

// CatalogCounts summarizes catalog table sizes.
type CatalogCounts struct {
	Characters int `json:"characters"`
	Costumes   int `json:"costumes"`
	Aliases    int `json:"aliases"`
}

// Mod is one installed or installable mod folder, keyed by FolderPath.
type Mod struct {
	ID          int64            `json:"id"`
	CharacterID *int64           `json:"character_id"`
	CostumeID   *int64           `json:"costume_id"`
	Author      string           `json:"author"`
	DownloadURL string           `json:"download_url,omitempty"`
	Installed   bool             `json:"installed"`
	InstalledAt *time.Time       `json:"installed_at,omitempty"`
	TargetPath  string           `json:"target_path,omitempty"`
	ModType     classify.ModType `json:"mod_type"`
	FolderPath  string           `json:"folder_path"`
	DisplayName string           `json:"display_name"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// NewMod describes a manually entered mod.
type NewMod struct {
	DisplayName string
	FolderPath  string
	Author      string
	DownloadURL string
	ModType     classify.ModType
	CharacterID *int64
	CostumeID   *int64
}

// ModFilter narrows ListMods. Zero values match everything; Author and Query
// are substring matches.
type ModFilter struct {
	CharacterID *int64
	CostumeID   *int64
	Author      string
	Query       string
}

// DiscoveredMod is a folder found by a library rescan.
type DiscoveredMod struct {
	FolderPath  string
	DisplayName string
	Author      string
}

// ModUpsert is a reviewed draft being committed.
type ModUpsert struct {
	FolderPath  string
	DisplayName string
	Author      string
	DownloadURL string
	ModType     classify.ModType
	CharacterID *int64
	CostumeID   *int64
}
