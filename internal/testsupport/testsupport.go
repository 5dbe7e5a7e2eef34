// Package testsupport holds shared fixtures for filesystem-heavy tests.
package testsupport

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// WriteTree materializes entries under root. Keys ending in "/" become
// directories; other keys become files holding their value. Parent
// directories are created as needed.
func WriteTree(t *testing.T, root string, entries map[string]string) {
	t.Helper()
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		full := filepath.Join(root, filepath.FromSlash(strings.TrimSuffix(key, "/")))
		if strings.HasSuffix(key, "/") {
			if err := os.MkdirAll(full, 0o755); err != nil {
				t.Fatalf("mkdir %s: %v", key, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir parent of %s: %v", key, err)
		}
		if err := os.WriteFile(full, []byte(entries[key]), 0o644); err != nil {
			t.Fatalf("write %s: %v", key, err)
		}
	}
}

// ListTree returns every path under root relative to root, sorted, with
// directories suffixed by "/". Useful for before/after snapshot comparisons.
func ListTree(t *testing.T, root string) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			rel += "/"
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
	sort.Strings(out)
	return out
}

// SameTree fails the test when two snapshots differ.
func SameTree(t *testing.T, want, got []string) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("tree mismatch: want %v, got %v", want, got)
	}
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("tree mismatch at %d: want %q, got %q", i, want[i], got[i])
		}
	}
}
