package resolve

import (
	"sync"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"

	"bd2mods/internal/textutil"
)

// MaxScore is awarded when pattern aligns inside query as well as it aligns
// against itself.
const MaxScore = 100

var initMatcher sync.Once

// pattern is a normalized candidate name with its self-match score cached.
type pattern struct {
	runes []rune
	best  int
}

func newPattern(normalized string) pattern {
	p := pattern{runes: []rune(normalized)}
	p.best = rawScore(normalized, p.runes)
	return p
}

// Score normalizes query and pattern and returns how well pattern matches
// query as a subsequence, from 0 (not a subsequence) to MaxScore.
func Score(query, candidate string) int {
	return scoreNormalized(textutil.Normalize(query), newPattern(textutil.Normalize(candidate)))
}

// scoreNormalized runs the fzf v2 matcher and rescales its raw score against
// the pattern's own maximum.
func scoreNormalized(query string, p pattern) int {
	if p.best <= 0 || len(query) < len(p.runes) {
		return 0
	}
	raw := rawScore(query, p.runes)
	if raw <= 0 {
		return 0
	}
	return min(raw*MaxScore/p.best, MaxScore)
}

func rawScore(text string, pat []rune) int {
	if len(pat) == 0 || text == "" {
		return 0
	}
	initMatcher.Do(func() { algo.Init("default") })
	chars := util.ToChars([]byte(text))
	result, _ := algo.FuzzyMatchV2(false, false, true, &chars, pat, false, nil)
	if result.Start < 0 {
		return 0
	}
	return result.Score
}
