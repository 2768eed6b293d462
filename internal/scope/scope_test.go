package scope

import "testing"

type fakeFunc struct{ name string }

func (fakeFunc) IsCallable() bool { return true }

type fakeClass struct{ name string }

type fakeAlias struct{ target Name }

func (a fakeAlias) AliasTarget() Name { return a.target }

func TestGetNamesNearestFirst(t *testing.T) {
	s := NewStack()
	s.Top().Declare("x", fakeClass{"outer"})
	s.Push()
	s.Top().Declare("x", fakeClass{"inner"})

	na, ok := s.Top().GetNames("x")
	if !ok || len(na) != 1 {
		t.Fatalf("expected exactly the inner binding, got %v", na)
	}
	if na[0].(fakeClass).name != "inner" {
		t.Fatalf("expected inner binding, got %v", na[0])
	}
}

func TestGetNamesNeverUnionsAcrossScopes(t *testing.T) {
	s := NewStack()
	s.Top().Declare("f", fakeFunc{"outer1"})
	s.Push()
	s.Top().Declare("f", fakeFunc{"inner1"})
	s.Top().Declare("f", fakeFunc{"inner2"})

	na, _ := s.Top().GetNames("f")
	if len(na) != 2 {
		t.Fatalf("expected only the inner scope's two bindings, got %d", len(na))
	}
}

func TestNameArrayInvariant(t *testing.T) {
	valid := NameArray{fakeFunc{"a"}, fakeFunc{"b"}, fakeClass{"c"}}
	if !valid.Valid() {
		t.Fatalf("expected valid: only one non-callable among many callables")
	}
	invalid := NameArray{fakeFunc{"a"}, fakeClass{"b"}, fakeClass{"c"}}
	if invalid.Valid() {
		t.Fatalf("expected invalid: two non-callable elements")
	}
}

func TestResolveAliasFlattensChain(t *testing.T) {
	leaf := fakeClass{"Leaf"}
	mid := fakeAlias{leaf}
	top := fakeAlias{mid}
	if got := ResolveAlias(top); got != leaf {
		t.Fatalf("expected alias chain to flatten to leaf, got %v", got)
	}
}

func TestOwnersReverseOrder(t *testing.T) {
	s := New(nil)
	s.RegisterOwner(Owner{Name: "a"})
	s.RegisterOwner(Owner{Name: "b"})
	s.RegisterOwner(Owner{Name: "c"})

	owners := s.Owners()
	want := []string{"c", "b", "a"}
	for i, o := range owners {
		if o.Name != want[i] {
			t.Fatalf("owners[%d] = %q, want %q", i, o.Name, want[i])
		}
	}
}

func TestStackSaveRestore(t *testing.T) {
	s := NewStack()
	mark := s.Save()
	s.Push()
	s.Push()
	if s.Depth() != 3 {
		t.Fatalf("expected depth 3, got %d", s.Depth())
	}
	s.Restore(mark)
	if s.Depth() != 1 {
		t.Fatalf("expected depth restored to 1, got %d", s.Depth())
	}
}

func TestBetweenExcludesTarget(t *testing.T) {
	s := NewStack()
	loopScope := s.Top()
	s.Push() // body scope of the loop
	inner := s.Push()
	_ = inner

	between := s.Between(loopScope)
	if len(between) != 2 {
		t.Fatalf("expected 2 scopes between top and loop scope, got %d", len(between))
	}
}
