package catalog_test

import (
	"context"
	"testing"

	"bd2mods/internal/catalog"
	"bd2mods/internal/logging"
	"bd2mods/internal/resolve"
	"bd2mods/internal/store"
	"bd2mods/internal/testsupport"
)

func sampleRecords() []catalog.CharacterRecord {
	return []catalog.CharacterRecord{
		{
			Slug:        "aria",
			DisplayName: "Aria",
			Aliases:     []string{"Ari"},
			Costumes: []catalog.CostumeRecord{
				{Slug: "default", DisplayName: "Default"},
				{Slug: "swimsuit", DisplayName: "Summer", Aliases: []string{"beach"}},
			},
		},
		{
			Slug:        "lathel",
			DisplayName: "Lathel",
			Costumes:    []catalog.CostumeRecord{{Slug: "default", DisplayName: "Default"}},
		},
	}
}

func TestSyncIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	syncer := catalog.NewSynchronizer(st, logging.NewNop())

	first, err := syncer.Sync(ctx, sampleRecords())
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if first.Characters != 2 || first.Costumes != 3 || first.AliasesAdded != 2 {
		t.Fatalf("unexpected first report: %+v", first)
	}
	before, err := catalog.Export(ctx, st)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	second, err := syncer.Sync(ctx, sampleRecords())
	if err != nil {
		t.Fatalf("Sync again: %v", err)
	}
	if second.Characters != first.Characters || second.Costumes != first.Costumes || second.AliasesAdded != 0 {
		t.Fatalf("unexpected second report: %+v", second)
	}

	counts, err := catalog.Summary(ctx, st)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if counts != (store.CatalogCounts{Characters: 2, Costumes: 3, Aliases: 2}) {
		t.Fatalf("unexpected counts after resync: %+v", counts)
	}
	after, err := catalog.Export(ctx, st)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(after) != len(before) || after[0].Costumes[1].Aliases[0] != "beach" {
		t.Fatalf("export changed after resync: %+v vs %+v", before, after)
	}
}

func TestSyncOverlappingInputOnlyUpdatesNames(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	syncer := catalog.NewSynchronizer(st, logging.NewNop())

	if _, err := syncer.Sync(ctx, sampleRecords()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	partial := []catalog.CharacterRecord{{
		Slug:        "aria",
		DisplayName: "Aria Renamed",
		Aliases:     []string{"Ari", "Ariadne"},
	}}
	if _, err := syncer.Sync(ctx, partial); err != nil {
		t.Fatalf("Sync partial: %v", err)
	}

	records, err := catalog.Export(ctx, st)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("characters must never be removed, got %d", len(records))
	}
	if records[0].DisplayName != "Aria Renamed" || len(records[0].Aliases) != 2 {
		t.Fatalf("unexpected aria after partial sync: %+v", records[0])
	}
	if len(records[0].Costumes) != 2 {
		t.Fatalf("costumes must never be removed: %+v", records[0].Costumes)
	}
}

func TestSyncRollsBackOnFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	syncer := catalog.NewSynchronizer(st, logging.NewNop())

	records := sampleRecords()
	records = append(records, catalog.CharacterRecord{Slug: "", DisplayName: "Broken"})
	if _, err := syncer.Sync(ctx, records); err == nil {
		t.Fatal("expected sync failure")
	}
	counts, err := st.CatalogCounts(ctx)
	if err != nil {
		t.Fatalf("CatalogCounts: %v", err)
	}
	if counts != (store.CatalogCounts{}) {
		t.Fatalf("expected no partial catalog, got %+v", counts)
	}
}

func TestLoadSnapshotFeedsResolver(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	if _, err := catalog.NewSynchronizer(st, nil).Sync(ctx, sampleRecords()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	snap, err := catalog.LoadSnapshot(ctx, st)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(snap.Characters) != 2 || len(snap.Costumes) != 3 {
		t.Fatalf("unexpected snapshot sizes: %d/%d", len(snap.Characters), len(snap.Costumes))
	}

	match := resolve.Resolve("ari beach idle", snap)
	if match.CharacterName != "Aria" || match.CostumeName != "Summer" {
		t.Fatalf("expected aliases to drive the match, got %+v", match)
	}
}

func TestSeedBuiltinOnlyWhenEmpty(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	syncer := catalog.NewSynchronizer(st, logging.NewNop())
	builtin, err := catalog.Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}

	report, seeded, err := syncer.SeedBuiltin(ctx)
	if err != nil || !seeded {
		t.Fatalf("SeedBuiltin on empty store: seeded=%v err=%v", seeded, err)
	}
	if report.Characters != len(builtin) {
		t.Fatalf("seeded %d characters, want %d", report.Characters, len(builtin))
	}

	if _, seeded, err := syncer.SeedBuiltin(ctx); err != nil || seeded {
		t.Fatalf("second SeedBuiltin: seeded=%v err=%v", seeded, err)
	}
}

func TestSeedBuiltinLeavesUserCatalog(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	syncer := catalog.NewSynchronizer(st, logging.NewNop())
	if _, err := syncer.Sync(ctx, sampleRecords()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if _, seeded, err := syncer.SeedBuiltin(ctx); err != nil || seeded {
		t.Fatalf("SeedBuiltin over user catalog: seeded=%v err=%v", seeded, err)
	}
	counts, err := catalog.Summary(ctx, st)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if counts.Characters != 2 {
		t.Fatalf("user catalog changed: %+v", counts)
	}
}
