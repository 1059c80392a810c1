package catalog

import (
	"context"

	"bd2mods/internal/resolve"
	"bd2mods/internal/store"
)

// Reader is the read side of the store the catalog needs.
type Reader interface {
	Characters(ctx context.Context) ([]store.Character, error)
	Costumes(ctx context.Context) ([]store.Costume, error)
	Aliases(ctx context.Context) ([]store.Alias, error)
}

// LoadSnapshot reads the catalog once and returns an immutable resolver
// snapshot with aliases attached to their entities.
func LoadSnapshot(ctx context.Context, r Reader) (*resolve.Snapshot, error) {
	characters, costumes, aliases, err := readAll(ctx, r)
	if err != nil {
		return nil, err
	}
	charAliases, costumeAliases := groupAliases(aliases)

	charCandidates := make([]resolve.Candidate, 0, len(characters))
	for _, c := range characters {
		charCandidates = append(charCandidates, resolve.Candidate{
			ID:          c.ID,
			Slug:        c.Slug,
			DisplayName: c.DisplayName,
			Aliases:     charAliases[c.ID],
		})
	}
	costumeCandidates := make([]resolve.Candidate, 0, len(costumes))
	for _, c := range costumes {
		costumeCandidates = append(costumeCandidates, resolve.Candidate{
			ID:          c.ID,
			OwnerID:     c.CharacterID,
			Slug:        c.Slug,
			DisplayName: c.DisplayName,
			Aliases:     costumeAliases[c.ID],
		})
	}
	return resolve.NewSnapshot(charCandidates, costumeCandidates), nil
}

// Export rebuilds catalog records from the store, in the document shape
// Parse accepts.
func Export(ctx context.Context, r Reader) ([]CharacterRecord, error) {
	characters, costumes, aliases, err := readAll(ctx, r)
	if err != nil {
		return nil, err
	}
	charAliases, costumeAliases := groupAliases(aliases)

	byCharacter := make(map[int64][]CostumeRecord, len(characters))
	for _, c := range costumes {
		byCharacter[c.CharacterID] = append(byCharacter[c.CharacterID], CostumeRecord{
			Slug:        c.Slug,
			DisplayName: c.DisplayName,
			Aliases:     costumeAliases[c.ID],
		})
	}
	records := make([]CharacterRecord, 0, len(characters))
	for _, c := range characters {
		records = append(records, CharacterRecord{
			Slug:        c.Slug,
			DisplayName: c.DisplayName,
			Aliases:     charAliases[c.ID],
			Costumes:    byCharacter[c.ID],
		})
	}
	return records, nil
}

func readAll(ctx context.Context, r Reader) ([]store.Character, []store.Costume, []store.Alias, error) {
	characters, err := r.Characters(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	costumes, err := r.Costumes(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	aliases, err := r.Aliases(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return characters, costumes, aliases, nil
}

func groupAliases(aliases []store.Alias) (map[int64][]string, map[int64][]string) {
	characters := make(map[int64][]string)
	costumes := make(map[int64][]string)
	for _, a := range aliases {
		switch a.EntityType {
		case store.EntityCharacter:
			characters[a.EntityID] = append(characters[a.EntityID], a.Text)
		case store.EntityCostume:
			costumes[a.EntityID] = append(costumes[a.EntityID], a.Text)
		}
	}
	return characters, costumes
}

// Counter reports catalog table sizes.
type Counter interface {
	CatalogCounts(ctx context.Context) (store.CatalogCounts, error)
}

// Summary returns character, costume, and alias counts.
func Summary(ctx context.Context, c Counter) (store.CatalogCounts, error) {
	return c.CatalogCounts(ctx)
}
