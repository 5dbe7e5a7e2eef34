package conflict

import (
	"os"
	"path/filepath"
	"testing"

	"reorg/internal/testsupport"
)

func TestParsePolicy(t *testing.T) {
	cases := map[string]Policy{
		"":          PolicyAuto,
		"auto":      PolicyAuto,
		"Skip":      PolicySkip,
		"OVERWRITE": PolicyOverwrite,
		" rename ":  PolicyRename,
	}
	for raw, want := range cases {
		got, err := ParsePolicy(raw)
		if err != nil {
			t.Fatalf("ParsePolicy(%q): %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParsePolicy(%q) = %q, want %q", raw, got, want)
		}
	}
	if _, err := ParsePolicy("merge-ish"); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}

func TestResolveFreeDestination(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteTree(t, dir, map[string]string{"a.txt": "a"})

	r := NewResolver(PolicySkip, PolicySkip)
	dec, err := r.Resolve(filepath.Join(dir, "a.txt"), filepath.Join(dir, "free.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if dec.Outcome != OutcomeProceed || dec.Dst != filepath.Join(dir, "free.txt") {
		t.Fatalf("decision = %+v", dec)
	}
}

func TestResolveSkip(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteTree(t, dir, map[string]string{
		"src/a.txt": "new",
		"dst/a.txt": "old",
	})

	r := NewResolver(PolicySkip, PolicySkip)
	dec, err := r.Resolve(filepath.Join(dir, "src", "a.txt"), filepath.Join(dir, "dst", "a.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if dec.Outcome != OutcomeSkip {
		t.Fatalf("decision = %+v", dec)
	}
}

func TestResolveRenameSuffix(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteTree(t, dir, map[string]string{
		"src/a.txt": "new",
		"dst/a.txt": "old",
	})

	r := NewResolver(PolicyRename, PolicyRename)
	src := filepath.Join(dir, "src", "a.txt")
	dst := filepath.Join(dir, "dst", "a.txt")

	dec, err := r.Resolve(src, dst)
	if err != nil {
		t.Fatal(err)
	}
	if dec.Outcome != OutcomeRename || dec.Dst != filepath.Join(dir, "dst", "a_1.txt") {
		t.Fatalf("decision = %+v", dec)
	}

	// A second collision advances the suffix.
	if err := os.WriteFile(filepath.Join(dir, "dst", "a_1.txt"), []byte("taken"), 0o644); err != nil {
		t.Fatal(err)
	}
	dec, err = r.Resolve(src, dst)
	if err != nil {
		t.Fatal(err)
	}
	if dec.Dst != filepath.Join(dir, "dst", "a_2.txt") {
		t.Fatalf("second suffix = %q", dec.Dst)
	}
}

func TestResolveOverwriteFile(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteTree(t, dir, map[string]string{
		"src/a.txt": "new",
		"dst/a.txt": "old",
	})

	r := NewResolver(PolicyOverwrite, PolicyOverwrite)
	dec, err := r.Resolve(filepath.Join(dir, "src", "a.txt"), filepath.Join(dir, "dst", "a.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if dec.Outcome != OutcomeReplace {
		t.Fatalf("decision = %+v", dec)
	}
}

func TestResolveDirectoryMerge(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteTree(t, dir, map[string]string{
		"src/pack/x.txt": "x",
		"dst/pack/y.txt": "y",
	})

	r := NewResolver(PolicyAuto, PolicyAuto)
	dec, err := r.Resolve(filepath.Join(dir, "src", "pack"), filepath.Join(dir, "dst", "pack"))
	if err != nil {
		t.Fatal(err)
	}
	if dec.Outcome != OutcomeMerge {
		t.Fatalf("decision = %+v", dec)
	}
}

func TestResolveAutoFileRenames(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteTree(t, dir, map[string]string{
		"src/a.txt": "new",
		"dst/a.txt": "old",
	})

	r := NewResolver(PolicyAuto, PolicyAuto)
	dec, err := r.Resolve(filepath.Join(dir, "src", "a.txt"), filepath.Join(dir, "dst", "a.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if dec.Outcome != OutcomeRename {
		t.Fatalf("decision = %+v", dec)
	}
}

func TestFreeNameWithoutExtension(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteTree(t, dir, map[string]string{"pack/": ""})

	got, err := FreeName(filepath.Join(dir, "pack"))
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(dir, "pack_1") {
		t.Fatalf("free name = %q", got)
	}
}
