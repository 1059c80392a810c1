package store

import (
	"context"
	"fmt"
	"strings"

	"bd2mods/internal/services"
)

// UpsertCharacter inserts a character by slug or updates its display name.
// The slug of an existing row never changes.
func (t *Tx) UpsertCharacter(ctx context.Context, slug, displayName string) (int64, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return 0, services.Wrap(services.ErrValidation, "store", "upsert_character", "slug is required", nil)
	}
	var id int64
	err := t.tx.QueryRowContext(ctx,
		`INSERT INTO characters (slug, display_name) VALUES (?, ?)
         ON CONFLICT(slug) DO UPDATE SET display_name = excluded.display_name
         RETURNING id`,
		slug, displayName,
	).Scan(&id)
	if err != nil {
		return 0, services.Wrap(services.ErrStore, "store", "upsert_character", fmt.Sprintf("upsert character %q", slug), err)
	}
	return id, nil
}

// UpsertCostume inserts a costume by (character, slug) or updates its
// display name.
func (t *Tx) UpsertCostume(ctx context.Context, characterID int64, slug, displayName string) (int64, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return 0, services.Wrap(services.ErrValidation, "store", "upsert_costume", "slug is required", nil)
	}
	var id int64
	err := t.tx.QueryRowContext(ctx,
		`INSERT INTO costumes (character_id, slug, display_name) VALUES (?, ?, ?)
         ON CONFLICT(character_id, slug) DO UPDATE SET display_name = excluded.display_name
         RETURNING id`,
		characterID, slug, displayName,
	).Scan(&id)
	if err != nil {
		return 0, services.Wrap(services.ErrStore, "store", "upsert_costume", fmt.Sprintf("upsert costume %q of character %d", slug, characterID), err)
	}
	return id, nil
}

// InsertAlias adds an alias unless the same row already exists. It reports
// whether a row was written.
func (t *Tx) InsertAlias(ctx context.Context, entityType EntityType, entityID int64, text string) (bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return false, nil
	}
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO aliases (entity_type, entity_id, alias_text) VALUES (?, ?, ?)
         ON CONFLICT(entity_type, entity_id, alias_text) DO NOTHING`,
		string(entityType), entityID, text,
	)
	if err != nil {
		return false, services.Wrap(services.ErrStore, "store", "insert_alias", fmt.Sprintf("insert %s alias %q", entityType, text), err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, services.Wrap(services.ErrStore, "store", "insert_alias", "rows affected", err)
	}
	return affected > 0, nil
}

// Characters lists every character ordered by id.
func (s *Store) Characters(ctx context.Context) ([]Character, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT id, slug, display_name FROM characters ORDER BY id`)
	if err != nil {
		return nil, services.Wrap(services.ErrStore, "store", "characters", "query characters", err)
	}
	defer rows.Close()

	var out []Character
	for rows.Next() {
		var c Character
		if err := rows.Scan(&c.ID, &c.Slug, &c.DisplayName); err != nil {
			return nil, services.Wrap(services.ErrStore, "store", "characters", "scan character", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Costumes lists every costume ordered by character then id.
func (s *Store) Costumes(ctx context.Context) ([]Costume, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT id, character_id, slug, display_name FROM costumes ORDER BY character_id, id`)
	if err != nil {
		return nil, services.Wrap(services.ErrStore, "store", "costumes", "query costumes", err)
	}
	defer rows.Close()

	var out []Costume
	for rows.Next() {
		var c Costume
		if err := rows.Scan(&c.ID, &c.CharacterID, &c.Slug, &c.DisplayName); err != nil {
			return nil, services.Wrap(services.ErrStore, "store", "costumes", "scan costume", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Aliases lists every alias in insertion order.
func (s *Store) Aliases(ctx context.Context) ([]Alias, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT entity_type, entity_id, alias_text FROM aliases ORDER BY id`)
	if err != nil {
		return nil, services.Wrap(services.ErrStore, "store", "aliases", "query aliases", err)
	}
	defer rows.Close()

	var out []Alias
	for rows.Next() {
		var (
			a          Alias
			entityType string
		)
		if err := rows.Scan(&entityType, &a.EntityID, &a.Text); err != nil {
			return nil, services.Wrap(services.ErrStore, "store", "aliases", "scan alias", err)
		}
		a.EntityType = EntityType(entityType)
		out = append(out, a)
	}
	return out, rows.Err()
}

// CatalogCounts returns the size of each catalog table.
func (s *Store) CatalogCounts(ctx context.Context) (CatalogCounts, error) {
	var counts CatalogCounts
	err := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT
            (SELECT COUNT(1) FROM characters),
            (SELECT COUNT(1) FROM costumes),
            (SELECT COUNT(1) FROM aliases)`,
	).Scan(&counts.Characters, &counts.Costumes, &counts.Aliases)
	if err != nil {
		return CatalogCounts{}, services.Wrap(services.ErrStore, "store", "catalog_counts", "count catalog rows", err)
	}
	return counts, nil
}
