package testsupport

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = 0x42
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// MakeLibrary creates root/<author>/<mod> directories, each holding a small
// placeholder asset, and returns the mod directory paths sorted.
func MakeLibrary(t testing.TB, root string, layout map[string][]string) []string {
	t.Helper()

	var dirs []string
	for author, mods := range layout {
		authorDir := filepath.Join(root, author)
		if err := os.MkdirAll(authorDir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", authorDir, err)
		}
		for _, mod := range mods {
			modDir := filepath.Join(authorDir, mod)
			WriteFile(t, filepath.Join(modDir, "char.skel"), 16)
			dirs = append(dirs, modDir)
		}
	}
	sort.Strings(dirs)
	return dirs
}

// WriteCatalogFile writes a JSON catalog document into dir and returns its
// path.
func WriteCatalogFile(t testing.TB, dir, contents string) string {
	t.Helper()

	path := filepath.Join(dir, "catalog.json")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write catalog %s: %v", path, err)
	}
	return path
}
