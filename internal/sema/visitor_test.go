package sema

import (
	"strings"
	"testing"

	"github.com/xenon-lang/xenon/internal/types"
)

func TestMangleSpecializationDisambiguatesOnCollision(t *testing.T) {
	v := &Visitor{}
	args := []types.Type{types.I32T}

	first := v.mangleSpecialization("Box", args)
	if first != "Box<i32>" {
		t.Fatalf("first mangled name = %q, want %q", first, "Box<i32>")
	}

	// A second, unrelated wrapper instantiating under the same structural
	// name (e.g. two distinct "Box<T>" declarations pulled in from separate
	// imported files) must not collide with the first's backend symbol.
	second := v.mangleSpecialization("Box", args)
	if second == first {
		t.Fatalf("expected a disambiguated name on collision, got %q both times", second)
	}
	if !strings.HasPrefix(second, "Box<i32>$") {
		t.Fatalf("expected a uuid-suffixed fallback name, got %q", second)
	}
}
