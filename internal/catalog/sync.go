package catalog

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"bd2mods/internal/logging"
	"bd2mods/internal/services"
	"bd2mods/internal/store"
)

// Synchronizer merges catalog records into the store.
type Synchronizer struct {
	store  *store.Store
	logger *slog.Logger
}

// NewSynchronizer constructs a synchronizer writing to st.
func NewSynchronizer(st *store.Store, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		store:  st,
		logger: logging.NewComponentLogger(logger, "catalog"),
	}
}

// Sync upserts every character, costume, and alias in one transaction.
// Characters are keyed by slug and costumes by (character, slug); only
// display names change on conflict and aliases are insert-if-absent. Any
// failure rolls the whole catalog back.
func (s *Synchronizer) Sync(ctx context.Context, records []CharacterRecord) (Report, error) {
	if _, ok := services.RunIDFromContext(ctx); !ok {
		ctx = services.WithRunID(ctx, uuid.NewString())
	}
	ctx = services.WithOperation(ctx, "catalog_sync")
	logger := logging.WithContext(ctx, s.logger)
	logger.Info("catalog sync started", logging.Int("records", len(records)))

	var report Report
	err := s.store.InTx(ctx, func(tx *store.Tx) error {
		report = Report{}
		for _, record := range records {
			characterID, err := tx.UpsertCharacter(ctx, record.Slug, record.DisplayName)
			if err != nil {
				return err
			}
			report.Characters++
			added, err := insertAliases(ctx, tx, store.EntityCharacter, characterID, record.Aliases)
			if err != nil {
				return err
			}
			report.AliasesAdded += added

			for _, costume := range record.Costumes {
				costumeID, err := tx.UpsertCostume(ctx, characterID, costume.Slug, costume.DisplayName)
				if err != nil {
					return err
				}
				report.Costumes++
				added, err := insertAliases(ctx, tx, store.EntityCostume, costumeID, costume.Aliases)
				if err != nil {
					return err
				}
				report.AliasesAdded += added
			}
		}
		return nil
	})
	if err != nil {
		logging.ErrorWithContext(logger, "catalog sync failed; no changes were applied", "catalog_sync_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the catalog document and database permissions"),
		)
		return Report{}, err
	}

	logger.Info("catalog sync complete",
		logging.String(logging.FieldEventType, "catalog_synced"),
		logging.Int("characters", report.Characters),
		logging.Int("costumes", report.Costumes),
		logging.Int("aliases_added", report.AliasesAdded),
	)
	return report, nil
}

func insertAliases(ctx context.Context, tx *store.Tx, entityType store.EntityType, entityID int64, aliases []string) (int, error) {
	added := 0
	for _, alias := range aliases {
		inserted, err := tx.InsertAlias(ctx, entityType, entityID, alias)
		if err != nil {
			return added, err
		}
		if inserted {
			added++
		}
	}
	return added, nil
}

// SeedBuiltin syncs the embedded catalog when the catalog tables hold no
// characters. It reports whether a sync ran; a populated catalog is left as
// is so user-provided catalogs are never overwritten.
func (s *Synchronizer) SeedBuiltin(ctx context.Context) (Report, bool, error) {
	counts, err := s.store.CatalogCounts(ctx)
	if err != nil {
		return Report{}, false, err
	}
	if counts.Characters > 0 {
		return Report{}, false, nil
	}
	records, err := Builtin()
	if err != nil {
		return Report{}, false, err
	}
	s.logger.Info("catalog is empty; seeding builtin catalog",
		logging.String(logging.FieldEventType, "catalog_seeded"),
		logging.Int("records", len(records)),
	)
	report, err := s.Sync(ctx, records)
	if err != nil {
		return Report{}, false, err
	}
	return report, true, nil
}
