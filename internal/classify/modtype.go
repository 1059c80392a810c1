package classify

import (
	"fmt"
	"strings"
)

// ModType is the kind of asset a mod replaces.
type ModType string

const (
	TypeIdle     ModType = "idle"
	TypeCutscene ModType = "cutscene"
	TypeDate     ModType = "date"
	TypeBattle   ModType = "battle"
	TypeUI       ModType = "ui"
	TypeOther    ModType = "other"

	// Classification-only values. The mod table does not admit them.
	TypeHistory  ModType = "history"
	TypeMinigame ModType = "minigame"
	TypeSwap     ModType = "swap"
)

var persistedTypes = map[ModType]struct{}{
	TypeIdle:     {},
	TypeCutscene: {},
	TypeDate:     {},
	TypeBattle:   {},
	TypeUI:       {},
	TypeOther:    {},
}

var classificationTypes = map[ModType]struct{}{
	TypeHistory:  {},
	TypeMinigame: {},
	TypeSwap:     {},
}

// IsPersisted reports whether t can be stored on a mod record as-is.
func (t ModType) IsPersisted() bool {
	_, ok := persistedTypes[t]
	return ok
}

// Persisted folds classification-only values into TypeOther.
func (t ModType) Persisted() ModType {
	if t.IsPersisted() {
		return t
	}
	return TypeOther
}

func (t ModType) String() string { return string(t) }

// ParseModType validates value against the known vocabulary. Empty input
// yields TypeOther.
func ParseModType(value string) (ModType, error) {
	t := ModType(strings.ToLower(strings.TrimSpace(value)))
	if t == "" {
		return TypeOther, nil
	}
	if _, ok := persistedTypes[t]; ok {
		return t, nil
	}
	if _, ok := classificationTypes[t]; ok {
		return t, nil
	}
	return "", fmt.Errorf("unknown mod type %q", value)
}
