package resolve

import "bd2mods/internal/textutil"

// Candidate is a catalog entity the resolver can match. OwnerID is the
// character id for costumes and zero for characters.
type Candidate struct {
	ID          int64
	OwnerID     int64
	Slug        string
	DisplayName string
	Aliases     []string

	patterns []pattern
}

// Snapshot is an immutable view of the catalog for one scan.
type Snapshot struct {
	Characters []Candidate
	Costumes   []Candidate

	byOwner map[int64][]int
}

// NewSnapshot normalizes every candidate's slug, display name, and aliases
// once and indexes costumes by owner.
func NewSnapshot(characters, costumes []Candidate) *Snapshot {
	snap := &Snapshot{
		Characters: make([]Candidate, len(characters)),
		Costumes:   make([]Candidate, len(costumes)),
		byOwner:    make(map[int64][]int),
	}
	for i, c := range characters {
		c.patterns = candidatePatterns(c)
		snap.Characters[i] = c
	}
	for i, c := range costumes {
		c.patterns = candidatePatterns(c)
		snap.Costumes[i] = c
		snap.byOwner[c.OwnerID] = append(snap.byOwner[c.OwnerID], i)
	}
	return snap
}

func candidatePatterns(c Candidate) []pattern {
	raw := make([]string, 0, 2+len(c.Aliases))
	raw = append(raw, c.Slug, c.DisplayName)
	raw = append(raw, c.Aliases...)
	patterns := make([]pattern, 0, len(raw))
	for _, value := range raw {
		if normalized := textutil.Normalize(value); normalized != "" {
			patterns = append(patterns, newPattern(normalized))
		}
	}
	return patterns
}

// Match is the outcome of resolving one folder name. A zero Match means no
// character scored positively.
type Match struct {
	CharacterID    *int64  `json:"character_id"`
	CostumeID      *int64  `json:"costume_id"`
	CharacterName  string  `json:"character_name,omitempty"`
	CostumeName    string  `json:"costume_name,omitempty"`
	CharacterScore int     `json:"character_score"`
	CostumeScore   int     `json:"costume_score"`
	Confidence     float64 `json:"confidence"`
}

// Resolve matches folderName against snap. The character is the highest
// scorer over all characters; the costume is the highest scorer among that
// character's costumes. Ties keep the first candidate seen.
func Resolve(folderName string, snap *Snapshot) Match {
	if snap == nil {
		return Match{}
	}
	query := textutil.Normalize(folderName)
	if query == "" {
		return Match{}
	}

	charIdx, charScore := -1, 0
	for i := range snap.Characters {
		if score := bestScore(query, snap.Characters[i].patterns); score > charScore {
			charIdx, charScore = i, score
		}
	}
	if charIdx < 0 {
		return Match{}
	}
	character := snap.Characters[charIdx]
	match := Match{
		CharacterID:    int64Ptr(character.ID),
		CharacterName:  character.DisplayName,
		CharacterScore: charScore,
	}

	costumeIdx, costumeScore := -1, 0
	for _, i := range snap.byOwner[character.ID] {
		if score := bestScore(query, snap.Costumes[i].patterns); score > costumeScore {
			costumeIdx, costumeScore = i, score
		}
	}
	if costumeIdx < 0 {
		match.Confidence = clamp(float64(charScore) / MaxScore)
		return match
	}
	costume := snap.Costumes[costumeIdx]
	match.CostumeID = int64Ptr(costume.ID)
	match.CostumeName = costume.DisplayName
	match.CostumeScore = costumeScore
	match.Confidence = clamp(float64(charScore+costumeScore) / (2 * MaxScore))
	return match
}

func bestScore(query string, patterns []pattern) int {
	best := 0
	for _, pattern := range patterns {
		if score := scoreNormalized(query, pattern); score > best {
			best = score
		}
	}
	return best
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}
