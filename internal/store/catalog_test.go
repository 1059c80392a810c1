package store_test

import (
	"context"
	"errors"
	"testing"

	"bd2mods/internal/services"
	"bd2mods/internal/store"
	"bd2mods/internal/testsupport"
)

func TestUpsertCharacterUpdatesDisplayNameOnly(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	var first, second int64
	err := st.InTx(ctx, func(tx *store.Tx) error {
		var err error
		if first, err = tx.UpsertCharacter(ctx, "aria", "Aria"); err != nil {
			return err
		}
		second, err = tx.UpsertCharacter(ctx, "aria", "Aria the Bold")
		return err
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}
	if first != second {
		t.Fatalf("expected same id on conflict, got %d and %d", first, second)
	}
	chars, err := st.Characters(ctx)
	if err != nil {
		t.Fatalf("Characters: %v", err)
	}
	if len(chars) != 1 || chars[0].DisplayName != "Aria the Bold" || chars[0].Slug != "aria" {
		t.Fatalf("unexpected characters: %+v", chars)
	}
}

func TestCostumeSlugsAreScopedToCharacter(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	aria := testsupport.SeedCharacter(t, st, "aria", "Aria", map[string]string{"default": "Default"})
	lathel := testsupport.SeedCharacter(t, st, "lathel", "Lathel", map[string]string{"default": "Default"})
	if aria.Costumes["default"] == lathel.Costumes["default"] {
		t.Fatal("expected distinct costume rows per character")
	}

	costumes, err := st.Costumes(context.Background())
	if err != nil {
		t.Fatalf("Costumes: %v", err)
	}
	if len(costumes) != 2 {
		t.Fatalf("expected two costumes, got %+v", costumes)
	}
}

func TestInsertAliasIsInsertIfAbsent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	aria := testsupport.SeedCharacter(t, st, "aria", "Aria", nil)

	var inserted []bool
	err := st.InTx(ctx, func(tx *store.Tx) error {
		for _, text := range []string{"Ari", "Ari", " ", "Aria-chan"} {
			ok, err := tx.InsertAlias(ctx, store.EntityCharacter, aria.ID, text)
			if err != nil {
				return err
			}
			inserted = append(inserted, ok)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}
	want := []bool{true, false, false, true}
	for i := range want {
		if inserted[i] != want[i] {
			t.Fatalf("insert results = %v, want %v", inserted, want)
		}
	}

	aliases, err := st.Aliases(ctx)
	if err != nil {
		t.Fatalf("Aliases: %v", err)
	}
	if len(aliases) != 2 || aliases[0].Text != "Ari" || aliases[0].EntityType != store.EntityCharacter {
		t.Fatalf("unexpected aliases: %+v", aliases)
	}
}

func TestUpsertCharacterRequiresSlug(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	err := st.InTx(ctx, func(tx *store.Tx) error {
		_, err := tx.UpsertCharacter(ctx, "  ", "Nameless")
		return err
	})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
