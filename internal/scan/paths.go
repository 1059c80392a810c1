package scan

import (
	"path/filepath"
	"strings"
)

// Canonicalize resolves symlinks and makes path absolute, using forward
// slashes. Paths that cannot be resolved fall back to CanonicalizeFallback.
func Canonicalize(path string) string {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return CanonicalizeFallback(path)
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return CanonicalizeFallback(path)
	}
	return CanonicalizeFallback(filepath.ToSlash(abs))
}

// CanonicalizeFallback converts backslashes to slashes and strips trailing
// slashes, never shortening the path below one character.
func CanonicalizeFallback(path string) string {
	out := strings.ReplaceAll(path, `\`, "/")
	for len(out) > 1 && strings.HasSuffix(out, "/") {
		out = out[:len(out)-1]
	}
	return out
}
