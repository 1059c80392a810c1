package testsupport

import (
	"context"
	"testing"

	"bd2mods/internal/config"
	"bd2mods/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SeededCharacter carries the ids assigned by SeedCharacter.
type SeededCharacter struct {
	ID       int64
	Costumes map[string]int64
}

// SeedCharacter upserts one character and its costumes (slug to display
// name) in a single transaction.
func SeedCharacter(t testing.TB, st *store.Store, slug, displayName string, costumes map[string]string) SeededCharacter {
	t.Helper()

	ctx := context.Background()
	seeded := SeededCharacter{Costumes: make(map[string]int64, len(costumes))}
	err := st.InTx(ctx, func(tx *store.Tx) error {
		id, err := tx.UpsertCharacter(ctx, slug, displayName)
		if err != nil {
			return err
		}
		seeded.ID = id
		for costumeSlug, costumeName := range costumes {
			costumeID, err := tx.UpsertCostume(ctx, id, costumeSlug, costumeName)
			if err != nil {
				return err
			}
			seeded.Costumes[costumeSlug] = costumeID
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed character %s: %v", slug, err)
	}
	return seeded
}
