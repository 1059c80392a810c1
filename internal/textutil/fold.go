package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Transliterate maps s onto an ASCII approximation. Accented Latin letters are
// folded by stripping combining marks; other scripts are transliterated.
func Transliterate(s string) string {
	if s == "" {
		return ""
	}
	// Transformers keep internal state, so the chain is built per call.
	chain := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(chain, s)
	if err != nil {
		folded = s
	}
	if isASCII(folded) {
		return folded
	}
	return unidecode.Unidecode(folded)
}

// Tokens transliterates and lowercases s, then splits it on every
// non-alphanumeric boundary. Empty tokens are dropped.
func Tokens(s string) []string {
	lower := strings.ToLower(Transliterate(s))
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !isAlnum(r)
	})
}

// Normalize returns the tokens of s joined by single spaces.
func Normalize(s string) string {
	return strings.Join(Tokens(s), " ")
}

// Slugify returns the tokens of s joined by hyphens.
func Slugify(s string) string {
	return strings.Join(Tokens(s), "-")
}

// Sanitize returns the transliterated, lowercased alphanumeric runes of s with
// everything else removed.
func Sanitize(s string) string {
	lower := strings.ToLower(Transliterate(s))
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if isAlnum(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
