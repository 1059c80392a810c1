package resolve_test

import (
	"testing"

	"bd2mods/internal/resolve"
)

func sampleSnapshot() *resolve.Snapshot {
	return resolve.NewSnapshot(
		[]resolve.Candidate{
			{ID: 1, Slug: "aria", DisplayName: "Aria"},
			{ID: 2, Slug: "lathel", DisplayName: "Lathel", Aliases: []string{"Lath"}},
			{ID: 3, Slug: "justia", DisplayName: "Justia"},
		},
		[]resolve.Candidate{
			{ID: 10, OwnerID: 1, Slug: "default", DisplayName: "Default"},
			{ID: 11, OwnerID: 1, Slug: "swimsuit", DisplayName: "Summer Swimsuit"},
			{ID: 20, OwnerID: 2, Slug: "default", DisplayName: "Default"},
			{ID: 21, OwnerID: 2, Slug: "maid", DisplayName: "Maid"},
		},
	)
}

func TestResolveCharacterAndCostume(t *testing.T) {
	match := resolve.Resolve("Aria_Default_Idle_v2", sampleSnapshot())
	if match.CharacterID == nil || *match.CharacterID != 1 {
		t.Fatalf("expected Aria, got %+v", match)
	}
	if match.CostumeID == nil || *match.CostumeID != 10 {
		t.Fatalf("expected Aria's Default costume, got %+v", match)
	}
	if match.Confidence != 1 {
		t.Fatalf("expected full confidence for exact words, got %v", match.Confidence)
	}
}

func TestResolveRestrictsCostumesToCharacter(t *testing.T) {
	// "maid" belongs to Lathel only; Aria's costumes must not pick it up.
	match := resolve.Resolve("Aria Maid", sampleSnapshot())
	if match.CharacterID == nil || *match.CharacterID != 1 {
		t.Fatalf("expected Aria, got %+v", match)
	}
	if match.CostumeID != nil {
		t.Fatalf("expected no costume, got %d", *match.CostumeID)
	}
	if want := float64(match.CharacterScore) / 100; match.Confidence != want {
		t.Fatalf("character-only confidence = %v, want %v", match.Confidence, want)
	}
}

func TestResolveUsesAliases(t *testing.T) {
	match := resolve.Resolve("lath maid cutscene", sampleSnapshot())
	if match.CharacterID == nil || *match.CharacterID != 2 {
		t.Fatalf("expected Lathel via alias, got %+v", match)
	}
	if match.CostumeID == nil || *match.CostumeID != 21 {
		t.Fatalf("expected Maid costume, got %+v", match)
	}
}

func TestResolveTieKeepsFirstCandidate(t *testing.T) {
	snap := resolve.NewSnapshot([]resolve.Candidate{
		{ID: 7, Slug: "twin", DisplayName: "Twin"},
		{ID: 8, Slug: "twin-b", DisplayName: "Twin"},
	}, nil)
	match := resolve.Resolve("twin idle", snap)
	if match.CharacterID == nil || *match.CharacterID != 7 {
		t.Fatalf("expected first-seen candidate on tie, got %+v", match)
	}
}

func TestResolveNoMatch(t *testing.T) {
	for _, name := range []string{"", "___", "zzzz qqq", "Unrelated Folder"} {
		match := resolve.Resolve(name, sampleSnapshot())
		if match.CharacterID != nil || match.CostumeID != nil || match.Confidence != 0 {
			t.Fatalf("Resolve(%q) = %+v, want zero match", name, match)
		}
	}
	if match := resolve.Resolve("aria", nil); match.CharacterID != nil {
		t.Fatalf("nil snapshot should not match, got %+v", match)
	}
}

func TestResolveConfidenceBounds(t *testing.T) {
	snap := sampleSnapshot()
	names := []string{
		"Aria_Default_Idle_v2", "a", "ar", "lathel lathel lathel", "x aria y default z",
		"Justia", "JUSTIA-swimsuit", "ÁrÍa Défault", "日本語 aria", "d e f a u l t",
	}
	for _, name := range names {
		match := resolve.Resolve(name, snap)
		if match.Confidence < 0 || match.Confidence > 1 {
			t.Fatalf("Resolve(%q) confidence %v out of range", name, match.Confidence)
		}
		if match.CharacterID == nil && match.Confidence != 0 {
			t.Fatalf("Resolve(%q) has confidence without a character", name)
		}
	}
}
