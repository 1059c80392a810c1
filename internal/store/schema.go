package store

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"bd2mods/internal/services"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// ErrSchemaTooNew indicates the database was written by a newer release.
var ErrSchemaTooNew = errors.New("database schema is newer than this build")

type migration struct {
	version int
	name    string
	sql     string
}

// loadMigrations returns the embedded migrations ordered by the numeric
// prefix of their file names (NNN_name.sql).
func loadMigrations() ([]migration, error) {
	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	migrations := make([]migration, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".sql")
		prefix, _, _ := strings.Cut(name, "_")
		version, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("migration %s: invalid version prefix: %w", entry.Name(), err)
		}
		data, err := migrationFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		migrations = append(migrations, migration{version: version, name: name, sql: string(data)})
	}
	sort.Slice(migrations, func(i, j int) bool { return migrations[i].version < migrations[j].version })
	return migrations, nil
}

// LatestSchemaVersion is the highest migration version this build knows.
func LatestSchemaVersion() int {
	migrations, err := loadMigrations()
	if err != nil || len(migrations) == 0 {
		return 0
	}
	return migrations[len(migrations)-1].version
}

// applyMigrations brings the schema up to the latest version in a single
// transaction. schema_version holds exactly one row.
func (s *Store) applyMigrations(ctx context.Context) error {
	migrations, err := loadMigrations()
	if err != nil {
		return services.Wrap(services.ErrStore, "store", "migrate", "load migrations", err)
	}
	latest := 0
	if len(migrations) > 0 {
		latest = migrations[len(migrations)-1].version
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return services.Wrap(services.ErrStore, "store", "migrate", "begin migration tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)"); err != nil {
		return services.Wrap(services.ErrStore, "store", "migrate", "ensure schema_version", err)
	}

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM schema_version").Scan(&count); err != nil {
		return services.Wrap(services.ErrStore, "store", "migrate", "read schema version", err)
	}
	current := 0
	if count == 0 {
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (0)"); err != nil {
			return services.Wrap(services.ErrStore, "store", "migrate", "seed schema version", err)
		}
	} else if err := tx.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&current); err != nil {
		return services.Wrap(services.ErrStore, "store", "migrate", "read schema version", err)
	}

	if current > latest {
		return fmt.Errorf("%w: database has version %d, this build supports up to %d", ErrSchemaTooNew, current, latest)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if _, err := tx.ExecContext(ctx, m.sql); err != nil {
			return services.Wrap(services.ErrStore, "store", "migrate", "apply migration "+m.name, err)
		}
		current = m.version
	}
	if _, err := tx.ExecContext(ctx, "UPDATE schema_version SET version = ?", current); err != nil {
		return services.Wrap(services.ErrStore, "store", "migrate", "record schema version", err)
	}

	if err := tx.Commit(); err != nil {
		return services.Wrap(services.ErrStore, "store", "migrate", "commit migrations", err)
	}
	return nil
}

// SchemaVersion reports the version recorded in the database.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ensureContext(ctx), "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return 0, services.Wrap(services.ErrStore, "store", "schema_version", "read schema version", err)
	}
	return version, nil
}
