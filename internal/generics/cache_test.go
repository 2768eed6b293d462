package generics

import (
	"testing"

	"github.com/xenon-lang/xenon/internal/scope"
	"github.com/xenon-lang/xenon/internal/types"
)

func TestInstantiateCachesAcrossCalls(t *testing.T) {
	w := &types.GenericWrapper{Name: "Box", Target: types.WrapsClass, Params: []string{"T"}}
	creates := 0
	create := func(s *scope.Scope) (types.Type, error) {
		creates++
		return &types.Class{Name: "Box<i32>"}, nil
	}

	first, err := Instantiate(w, []types.Type{types.I32T}, create, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Instantiate(w, []types.Type{types.I32T}, create, nil)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatalf("expected the same cached instance both times")
	}
	if creates != 1 {
		t.Fatalf("CreateShell invoked %d times, want 1", creates)
	}
}

func TestInstantiateInsertsBeforeFinishBody(t *testing.T) {
	// Simulates a self-recursive generic: FinishBody re-enters Instantiate
	// with the same args and must observe a cache hit rather than
	// recursing into CreateShell again.
	w := &types.GenericWrapper{Name: "List", Target: types.WrapsClass, Params: []string{"T"}}
	var shellCreated *types.Class

	create := func(s *scope.Scope) (types.Type, error) {
		shellCreated = &types.Class{Name: "List<int>"}
		return shellCreated, nil
	}
	var finish FinishBody
	finish = func(s *scope.Scope, shell types.Type) error {
		again, err := Instantiate(w, []types.Type{types.I32T}, create, finish)
		if err != nil {
			return err
		}
		if again != shellCreated {
			t.Fatalf("recursive self-reference did not hit the cache")
		}
		return nil
	}

	if _, err := Instantiate(w, []types.Type{types.I32T}, create, finish); err != nil {
		t.Fatal(err)
	}
}

func TestInstantiateArityMismatch(t *testing.T) {
	w := &types.GenericWrapper{Name: "Pair", Target: types.WrapsClass, Params: []string{"A", "B"}}
	_, err := Instantiate(w, []types.Type{types.I32T}, func(s *scope.Scope) (types.Type, error) {
		t.Fatal("CreateShell should not run on arity mismatch")
		return nil, nil
	}, nil)
	if err == nil {
		t.Fatalf("expected an arity-mismatch error")
	}
}

func TestGenericArgClassesFindsClassArguments(t *testing.T) {
	foo := &types.Class{Name: "Foo"}
	box := &types.Class{Name: "Box<Foo>", TypeArgs: []types.Type{foo}}
	classes := GenericArgClasses(box)
	if len(classes) != 1 || classes[0] != foo {
		t.Fatalf("expected [Foo], got %v", classes)
	}
}

func TestMangleName(t *testing.T) {
	name := MangleName("Box", []types.Type{types.I32T}, false)
	if name != "Box<i32>" {
		t.Fatalf("got %q, want %q", name, "Box<i32>")
	}
}
