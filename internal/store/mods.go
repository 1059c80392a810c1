package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bd2mods/internal/classify"
	"bd2mods/internal/services"
)

const modColumns = "id, character_id, costume_id, author, download_url, installed, installed_at, target_path, mod_type, folder_path, display_name, created_at, updated_at"

func scanMod(scanner rowScanner) (*Mod, error) {
	var (
		m            Mod
		characterID  sql.NullInt64
		costumeID    sql.NullInt64
		downloadURL  sql.NullString
		installed    int
		installedRaw sql.NullString
		targetPath   sql.NullString
		modType      string
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
	)
	if err := scanner.Scan(
		&m.ID,
		&characterID,
		&costumeID,
		&m.Author,
		&downloadURL,
		&installed,
		&installedRaw,
		&targetPath,
		&modType,
		&m.FolderPath,
		&m.DisplayName,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	m.CharacterID = int64Ptr(characterID)
	m.CostumeID = int64Ptr(costumeID)
	m.DownloadURL = downloadURL.String
	m.Installed = installed != 0
	if ts := parseTime(installedRaw); !ts.IsZero() {
		m.InstalledAt = &ts
	}
	m.TargetPath = targetPath.String
	m.ModType = classify.ModType(modType)
	m.CreatedAt = parseTime(createdRaw)
	m.UpdatedAt = parseTime(updatedRaw)
	return &m, nil
}

// ModExistsByPath reports whether a mod with folderPath is stored.
func (t *Tx) ModExistsByPath(ctx context.Context, folderPath string) (bool, error) {
	return modExists(ctx, t.tx, folderPath)
}

func modExists(ctx context.Context, q queryer, folderPath string) (bool, error) {
	var exists int
	err := q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM mods WHERE folder_path = ?)`, folderPath).Scan(&exists)
	if err != nil {
		return false, services.Wrap(services.ErrStore, "store", "mod_exists", "probe folder path", err)
	}
	return exists != 0, nil
}

// UpsertDiscoveredMod records a folder found by a rescan. New rows get
// TypeOther and no character or costume; existing rows only refresh their
// display name, author, and updated_at.
func (t *Tx) UpsertDiscoveredMod(ctx context.Context, mod DiscoveredMod) error {
	if strings.TrimSpace(mod.FolderPath) == "" {
		return services.Wrap(services.ErrValidation, "store", "upsert_discovered", "folder path is required", nil)
	}
	stamp := formatTime(t.now)
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO mods (author, mod_type, folder_path, display_name, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(folder_path) DO UPDATE SET
            display_name = excluded.display_name,
            author = excluded.author,
            updated_at = excluded.updated_at`,
		authorOrDefault(mod.Author), string(classify.TypeOther), mod.FolderPath, mod.DisplayName, stamp, stamp,
	)
	if err != nil {
		return services.Wrap(services.ErrStore, "store", "upsert_discovered", fmt.Sprintf("upsert %q", mod.FolderPath), err)
	}
	return nil
}

// UpsertMod writes a reviewed draft keyed by folder path. On conflict every
// inferred field is overwritten; install state and created_at are kept.
func (t *Tx) UpsertMod(ctx context.Context, mod ModUpsert) error {
	if strings.TrimSpace(mod.FolderPath) == "" {
		return services.Wrap(services.ErrValidation, "store", "upsert_mod", "folder path is required", nil)
	}
	modType, err := persistedType(mod.ModType)
	if err != nil {
		return err
	}
	if err := checkCostumeOwner(ctx, t.tx, mod.CharacterID, mod.CostumeID); err != nil {
		return err
	}
	stamp := formatTime(t.now)
	_, err = t.tx.ExecContext(ctx,
		`INSERT INTO mods (character_id, costume_id, author, download_url, mod_type, folder_path, display_name, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(folder_path) DO UPDATE SET
            display_name = excluded.display_name,
            author = excluded.author,
            download_url = excluded.download_url,
            character_id = excluded.character_id,
            costume_id = excluded.costume_id,
            mod_type = excluded.mod_type,
            updated_at = excluded.updated_at`,
		nullInt64(mod.CharacterID),
		nullInt64(mod.CostumeID),
		authorOrDefault(mod.Author),
		nullString(mod.DownloadURL),
		string(modType),
		mod.FolderPath,
		mod.DisplayName,
		stamp,
		stamp,
	)
	if err != nil {
		return services.Wrap(services.ErrStore, "store", "upsert_mod", fmt.Sprintf("upsert %q", mod.FolderPath), err)
	}
	return nil
}

// AddMod inserts a manually entered mod. A mod already stored under the same
// folder path is a validation error.
func (s *Store) AddMod(ctx context.Context, mod NewMod) (*Mod, error) {
	if strings.TrimSpace(mod.FolderPath) == "" {
		return nil, services.Wrap(services.ErrValidation, "store", "add_mod", "folder path is required", nil)
	}
	if strings.TrimSpace(mod.DisplayName) == "" {
		return nil, services.Wrap(services.ErrValidation, "store", "add_mod", "display name is required", nil)
	}
	modType, err := persistedType(mod.ModType)
	if err != nil {
		return nil, err
	}

	var id int64
	err = s.InTx(ctx, func(tx *Tx) error {
		exists, err := tx.ModExistsByPath(ctx, mod.FolderPath)
		if err != nil {
			return err
		}
		if exists {
			return services.Wrap(services.ErrValidation, "store", "add_mod", fmt.Sprintf("mod already registered at %q", mod.FolderPath), nil)
		}
		if err := checkCostumeOwner(ctx, tx.tx, mod.CharacterID, mod.CostumeID); err != nil {
			return err
		}
		stamp := formatTime(tx.now)
		err = tx.tx.QueryRowContext(ctx,
			`INSERT INTO mods (character_id, costume_id, author, download_url, mod_type, folder_path, display_name, created_at, updated_at)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
             RETURNING id`,
			nullInt64(mod.CharacterID),
			nullInt64(mod.CostumeID),
			authorOrDefault(mod.Author),
			nullString(mod.DownloadURL),
			string(modType),
			mod.FolderPath,
			mod.DisplayName,
			stamp,
			stamp,
		).Scan(&id)
		if err != nil {
			return services.Wrap(services.ErrStore, "store", "add_mod", "insert mod", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetMod(ctx, id)
}

// GetMod fetches a mod by id.
func (s *Store) GetMod(ctx context.Context, id int64) (*Mod, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+modColumns+` FROM mods WHERE id = ?`, id)
	mod, err := scanMod(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "store", "get_mod", fmt.Sprintf("mod %d not found", id), nil)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrStore, "store", "get_mod", "scan mod", err)
	}
	return mod, nil
}

// GetModByPath fetches a mod by folder path.
func (s *Store) GetModByPath(ctx context.Context, folderPath string) (*Mod, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+modColumns+` FROM mods WHERE folder_path = ?`, folderPath)
	mod, err := scanMod(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "store", "get_mod", fmt.Sprintf("no mod at %q", folderPath), nil)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrStore, "store", "get_mod", "scan mod", err)
	}
	return mod, nil
}

// ListMods returns mods matching filter, most recently updated first.
func (s *Store) ListMods(ctx context.Context, filter ModFilter) ([]Mod, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.CharacterID != nil {
		clauses = append(clauses, "character_id = ?")
		args = append(args, *filter.CharacterID)
	}
	if filter.CostumeID != nil {
		clauses = append(clauses, "costume_id = ?")
		args = append(args, *filter.CostumeID)
	}
	if author := strings.TrimSpace(filter.Author); author != "" {
		clauses = append(clauses, "instr(lower(author), lower(?)) > 0")
		args = append(args, author)
	}
	if query := strings.TrimSpace(filter.Query); query != "" {
		clauses = append(clauses, "(instr(lower(display_name), lower(?)) > 0 OR instr(lower(folder_path), lower(?)) > 0)")
		args = append(args, query, query)
	}

	stmt := `SELECT ` + modColumns + ` FROM mods`
	if len(clauses) > 0 {
		stmt += " WHERE " + strings.Join(clauses, " AND ")
	}
	stmt += " ORDER BY updated_at DESC, id DESC"

	rows, err := s.db.QueryContext(ensureContext(ctx), stmt, args...)
	if err != nil {
		return nil, services.Wrap(services.ErrStore, "store", "list_mods", "query mods", err)
	}
	defer rows.Close()

	var mods []Mod
	for rows.Next() {
		mod, err := scanMod(rows)
		if err != nil {
			return nil, services.Wrap(services.ErrStore, "store", "list_mods", "scan mod", err)
		}
		mods = append(mods, *mod)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrStore, "store", "list_mods", "iterate mods", err)
	}
	return mods, nil
}

// SetInstalled records or clears the install state of a mod. Installing sets
// installed_at and target_path; clearing nulls both.
func (s *Store) SetInstalled(ctx context.Context, id int64, installed bool, targetPath string) (*Mod, error) {
	now := s.now().UTC()
	var (
		installedAt sql.NullString
		target      sql.NullString
		flag        int
	)
	if installed {
		if strings.TrimSpace(targetPath) == "" {
			return nil, services.Wrap(services.ErrValidation, "store", "set_installed", "target path is required when installing", nil)
		}
		installedAt = sql.NullString{String: formatTime(now), Valid: true}
		target = sql.NullString{String: targetPath, Valid: true}
		flag = 1
	}
	res, err := s.execWithRetry(ctx,
		`UPDATE mods SET installed = ?, installed_at = ?, target_path = ?, updated_at = ? WHERE id = ?`,
		flag, installedAt, target, formatTime(now), id,
	)
	if err != nil {
		return nil, services.Wrap(services.ErrStore, "store", "set_installed", "update mod", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, services.Wrap(services.ErrStore, "store", "set_installed", "rows affected", err)
	}
	if affected == 0 {
		return nil, services.Wrap(services.ErrNotFound, "store", "set_installed", fmt.Sprintf("mod %d not found", id), nil)
	}
	return s.GetMod(ctx, id)
}

// PurgeMods deletes mods, optionally limited to one author (exact match), and
// returns how many rows were removed.
func (s *Store) PurgeMods(ctx context.Context, author string) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if author = strings.TrimSpace(author); author != "" {
		res, err = s.execWithRetry(ctx, `DELETE FROM mods WHERE author = ?`, author)
	} else {
		res, err = s.execWithRetry(ctx, `DELETE FROM mods`)
	}
	if err != nil {
		return 0, services.Wrap(services.ErrStore, "store", "purge_mods", "delete mods", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, services.Wrap(services.ErrStore, "store", "purge_mods", "rows affected", err)
	}
	return removed, nil
}

// checkCostumeOwner enforces that a costume only appears alongside the
// character it belongs to.
func checkCostumeOwner(ctx context.Context, q queryer, characterID, costumeID *int64) error {
	if costumeID == nil {
		return nil
	}
	if characterID == nil {
		return services.Wrap(services.ErrValidation, "store", "costume_owner",
			fmt.Sprintf("costume %d set without a character", *costumeID), nil)
	}
	var owner int64
	err := q.QueryRowContext(ctx, `SELECT character_id FROM costumes WHERE id = ?`, *costumeID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return services.Wrap(services.ErrValidation, "store", "costume_owner",
			fmt.Sprintf("costume %d does not exist", *costumeID), nil)
	}
	if err != nil {
		return services.Wrap(services.ErrStore, "store", "costume_owner", "lookup costume", err)
	}
	if owner != *characterID {
		return services.Wrap(services.ErrValidation, "store", "costume_owner",
			fmt.Sprintf("costume %d belongs to character %d, not %d", *costumeID, owner, *characterID), nil)
	}
	return nil
}

func persistedType(t classify.ModType) (classify.ModType, error) {
	if t == "" {
		return classify.TypeOther, nil
	}
	if !t.IsPersisted() {
		return "", services.Wrap(services.ErrValidation, "store", "mod_type",
			fmt.Sprintf("mod type %q cannot be stored; fold it with Persisted first", t), nil)
	}
	return t, nil
}

func authorOrDefault(author string) string {
	if author = strings.TrimSpace(author); author != "" {
		return author
	}
	return classify.DefaultAuthor
}
