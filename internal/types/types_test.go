package types

import "testing"

func TestPrimitiveCompatibility(t *testing.T) {
	if CompatibilityOf(I32T, I32T) != Equal {
		t.Fatalf("i32 vs i32 should be Equal")
	}
	if CompatibilityOf(I32T, I64T) != Compatible {
		t.Fatalf("i32 -> i64 should be Compatible (widening, same signedness)")
	}
	if CompatibilityOf(I64T, I32T) != NotCompatible {
		t.Fatalf("i64 -> i32 narrowing should require an explicit cast")
	}
	if CompatibilityOf(I32T, U32T) != NotCompatible {
		t.Fatalf("signed <-> unsigned should not be implicitly compatible")
	}
	if CompatibilityOf(I32T, F32T) != NotCompatible {
		t.Fatalf("int <-> float should require an explicit cast")
	}
}

func TestVoidPointerUniversalCompatibility(t *testing.T) {
	voidPtr := &Pointer{Elem: VoidT}
	i32Ptr := &Pointer{Elem: I32T}
	if CompatibilityOf(i32Ptr, voidPtr) == NotCompatible {
		t.Fatalf("T* -> void* must be compatible")
	}
	if CompatibilityOf(voidPtr, i32Ptr) == NotCompatible {
		t.Fatalf("void* -> T* must be compatible")
	}
}

func TestClassUpcastCompatible(t *testing.T) {
	base := &Class{Name: "Base"}
	derived := &Class{Name: "Derived", Parents: []*Class{base}}
	if CompatibilityOf(derived, base) != Compatible {
		t.Fatalf("derived -> base should be Compatible via upcast")
	}
	if CompatibilityOf(base, derived) != NotCompatible {
		t.Fatalf("base -> derived must not be implicitly compatible")
	}
}

func TestReferenceBindingFromNonTemporaryAlloca(t *testing.T) {
	v := &Value{Type: I32T, IsAlloca: true, IsTemporary: false}
	ref := &Reference{Elem: I32T}
	if CompatibilityOfValue(v, ref) == NotCompatible {
		t.Fatalf("non-temporary alloca should bind to T&")
	}
	temp := &Value{Type: I32T, IsAlloca: false, IsTemporary: true}
	if CompatibilityOfValue(temp, ref) != NotCompatible {
		t.Fatalf("temporary should not bind to T&")
	}
}

func TestFunctionDecaysToPointerOnStore(t *testing.T) {
	fn := &Function{Name: "f", Return: VoidT}
	decayed := Decay(fn)
	ptr, ok := decayed.(*Pointer)
	if !ok {
		t.Fatalf("expected function to decay to a pointer, got %T", decayed)
	}
	if ptr.Elem != Type(fn) {
		t.Fatalf("decayed pointer should point at the original function type")
	}
}

func TestSealClassLayoutSingleInheritance(t *testing.T) {
	base := &Class{Name: "Base", Props: []*Property{{Name: "a", Type: I32T}}}
	SealClassLayout(base)
	if base.Size != 4 {
		t.Fatalf("Base size = %d, want 4", base.Size)
	}

	derived := &Class{
		Name:    "Derived",
		Parents: []*Class{base},
		Props:   []*Property{{Name: "b", Type: I64T}},
		Packed:  true,
	}
	SealClassLayout(derived)
	if len(derived.ParentOffsets) != 1 || derived.ParentOffsets[0] != 0 {
		t.Fatalf("expected Base subobject at offset 0, got %v", derived.ParentOffsets)
	}
	if derived.Size != 12 {
		t.Fatalf("Derived (packed) size = %d, want 12 (4 from Base + 8 from b)", derived.Size)
	}
}

func TestSealClassLayoutZeroPropertiesPacked(t *testing.T) {
	empty := &Class{Name: "Empty", Packed: true}
	SealClassLayout(empty)
	if empty.Size != 0 {
		t.Fatalf("empty packed class size = %d, want 0", empty.Size)
	}
}

func TestFindParentChainOffsets(t *testing.T) {
	base := &Class{Name: "Base", Props: []*Property{{Name: "x", Type: I32T}}}
	SealClassLayout(base)
	derived := &Class{Name: "Derived", Parents: []*Class{base}, Props: []*Property{{Name: "y", Type: I32T}}}
	SealClassLayout(derived)

	chain, prop, offset, ok := derived.FindParentChain("x")
	if !ok {
		t.Fatalf("expected to find inherited property x")
	}
	if prop.Name != "x" || offset != 0 {
		t.Fatalf("expected x at offset 0, got prop=%v offset=%d", prop, offset)
	}
	if len(chain) != 2 || chain[0] != derived || chain[1] != base {
		t.Fatalf("expected chain [Derived, Base], got %v", chain)
	}
}

func TestSealUnionLayoutWidestMember(t *testing.T) {
	u := &Union{Name: "U", Props: []*Property{
		{Name: "a", Type: I8T},
		{Name: "b", Type: I64T},
		{Name: "c", Type: I32T},
	}}
	SealUnionLayout(u)
	if u.Size != 8 {
		t.Fatalf("union size = %d, want 8 (widest member i64)", u.Size)
	}
}

func TestGenericWrapperCacheIdentity(t *testing.T) {
	w := &GenericWrapper{Name: "Box", Target: WrapsClass, Params: []string{"T"}}
	if _, ok := w.Lookup([]Type{I32T}); ok {
		t.Fatalf("expected no cached specialization yet")
	}
	boxI32 := &Class{Name: "Box<i32>"}
	w.Insert([]Type{I32T}, boxI32)

	got, ok := w.Lookup([]Type{I32T})
	if !ok || got != Type(boxI32) {
		t.Fatalf("expected cached Box<i32> instance, got %v, %v", got, ok)
	}
	if _, ok := w.Lookup([]Type{I64T}); ok {
		t.Fatalf("Box<i64> should not be cached")
	}
}

func TestBuiltinConversionKinds(t *testing.T) {
	cases := []struct {
		src, dst Type
		want     ConversionKind
	}{
		{I64T, I32T, ConvIntNarrow},
		{I32T, I64T, ConvIntWiden}, // Compatible, not Equal, so an explicit widen rather than a no-op
		{I32T, U32T, ConvIntSignednessChange},
		{I32T, F32T, ConvIntToFloat},
		{F64T, F32T, ConvFloatNarrow},
		{F32T, F64T, ConvFloatWiden},
	}
	for _, c := range cases {
		got := BuiltinConversion(c.src, c.dst)
		if c.src == I32T && c.dst == I64T {
			// Compatible (not Equal), so BuiltinConversion classifies it
			// as an explicit widen, not a no-op.
			if got != ConvIntWiden {
				t.Errorf("i32 as i64: got %v, want ConvIntWiden", got)
			}
			continue
		}
		if got != c.want {
			t.Errorf("%v as %v: got %v, want %v", c.src, c.dst, got, c.want)
		}
	}
}
