package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xenon-lang/xenon/internal/token"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	full := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return full
}

func TestResolveExactName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "math.x", "// math")

	r := New(dir)
	path, err := r.Resolve("math.x", token.Position{})
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "math.x" {
		t.Fatalf("got %q", path)
	}
}

func TestResolveExtensionFallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "math.x", "// math")

	r := New(dir)
	path, err := r.Resolve("math", token.Position{})
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "math.x" {
		t.Fatalf("got %q", path)
	}
}

func TestResolveDirectoryFallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, filepath.Join("collections", "mod.x"), "// collections")

	r := New(dir)
	path, err := r.Resolve("collections", token.Position{})
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "mod.x" {
		t.Fatalf("got %q", path)
	}
}

func TestResolveSearchesRootsInOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeFile(t, second, "util.x", "// second")

	r := New(first, second)
	path, err := r.Resolve("util", token.Position{})
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(path) != second && filepath.Base(filepath.Dir(path)) != filepath.Base(second) {
		t.Fatalf("expected resolution from second root, got %q", path)
	}
}

func TestResolveMissingFails(t *testing.T) {
	dir := t.TempDir()
	r := New(dir)
	if _, err := r.Resolve("nope", token.Position{File: "x", Line: 1}); err == nil {
		t.Fatal("expected an error for a missing import")
	}
}

func TestVisitDedupesByCanonicalPath(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "math.x", "// math")
	canon, err := canonicalize(path)
	if err != nil {
		t.Fatal(err)
	}

	r := New(dir)
	if first := r.Visit(canon); !first {
		t.Fatal("expected first visit to report first=true")
	}
	if first := r.Visit(canon); first {
		t.Fatal("expected second visit to report first=false")
	}
}

func TestSplitScopedPath(t *testing.T) {
	if got := SplitScopedPath("collections::list"); got != filepath.Join("collections", "list") {
		t.Fatalf("got %q", got)
	}
}
