package classify_test

import (
	"testing"

	"bd2mods/internal/classify"
)

func TestModType(t *testing.T) {
	tests := []struct {
		name string
		want classify.ModType
	}{
		{"Aria_Default_Idle_v2", classify.TypeIdle},
		{"Aria Cutscene (cut fix)", classify.TypeCutscene},
		{"Lathel Special Illustration", classify.TypeCutscene},
		{"Lathel Illustration", classify.TypeIdle},
		{"Justia history", classify.TypeHistory},
		{"Date Night", classify.TypeDate},
		{"Battle HUD rework", classify.TypeBattle},
		{"hud only", classify.TypeUI},
		{"Swap pack", classify.TypeSwap},
		{"Minigame", classify.TypeMinigame},
		{"Something Else", classify.TypeOther},
		{"___", classify.TypeOther},
		{"", classify.TypeOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify.Default.ModType(tt.name); got != tt.want {
				t.Fatalf("ModType(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestModTypeLongestAliasWins(t *testing.T) {
	// "cutscene" must beat "cut" even though both occur.
	if got := classify.Default.ModType("xx_cut_cutscene"); got != classify.TypeCutscene {
		t.Fatalf("expected cutscene, got %q", got)
	}
	// "history" (7) beats "story" (5).
	if got := classify.Default.ModType("MyHistory"); got != classify.TypeHistory {
		t.Fatalf("expected history, got %q", got)
	}
}

func TestModTypeTieKeepsTableOrder(t *testing.T) {
	// "loop" and "date" are both four characters; "loop" comes first.
	if got := classify.Default.ModType("date loop"); got != classify.TypeIdle {
		t.Fatalf("expected idle on equal-length tie, got %q", got)
	}
}

func TestAuthor(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"MrMiagi", "MrMiagi"},
		{"mr-miagi mods", "MrMiagi"},
		{"someone", classify.DefaultAuthor},
		{"", classify.DefaultAuthor},
	}
	for _, tt := range tests {
		if got := classify.Default.Author(tt.name); got != tt.want {
			t.Fatalf("Author(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestNewAppendsExtraAliases(t *testing.T) {
	c := classify.New(
		[]classify.Alias{{Alias: "Spine", Value: "idle"}, {Alias: "dat", Value: "ui"}, {Alias: "--", Value: "ui"}},
		[]classify.Alias{{Alias: "Some One", Value: "SomeOne"}},
	)
	if got := c.ModType("aria spine"); got != classify.TypeIdle {
		t.Fatalf("expected extra alias to apply, got %q", got)
	}
	// Builtin "date" is longer than the extra "dat".
	if got := c.ModType("date"); got != classify.TypeDate {
		t.Fatalf("expected builtin to win, got %q", got)
	}
	if got := c.Author("by someone"); got != "SomeOne" {
		t.Fatalf("expected extra author alias, got %q", got)
	}
	if got := classify.Default.ModType("aria spine"); got != classify.TypeOther {
		t.Fatalf("default classifier must not see extras, got %q", got)
	}
}

func TestPersistedFoldsClassificationOnlyTypes(t *testing.T) {
	tests := map[classify.ModType]classify.ModType{
		classify.TypeIdle:     classify.TypeIdle,
		classify.TypeUI:       classify.TypeUI,
		classify.TypeHistory:  classify.TypeOther,
		classify.TypeMinigame: classify.TypeOther,
		classify.TypeSwap:     classify.TypeOther,
	}
	for in, want := range tests {
		if got := in.Persisted(); got != want {
			t.Fatalf("%q.Persisted() = %q, want %q", in, got, want)
		}
	}
}

func TestParseModType(t *testing.T) {
	if got, err := classify.ParseModType(" Cutscene "); err != nil || got != classify.TypeCutscene {
		t.Fatalf("unexpected parse: %q %v", got, err)
	}
	if got, err := classify.ParseModType(""); err != nil || got != classify.TypeOther {
		t.Fatalf("empty should default to other: %q %v", got, err)
	}
	if _, err := classify.ParseModType("wallpaper"); err == nil {
		t.Fatal("expected error for unknown type")
	}
}
