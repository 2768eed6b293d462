package types

// Compatibility is the three-valued predicate deciding whether, and how, a
// value of one type may flow into a sink of another.
type Compatibility int

const (
	NotCompatible Compatibility = iota
	Compatible                  // reachable via one implicit conversion
	Equal
)

// Compatibility reports how a value of type source may flow into a sink of
// type target, considering only the two static types — reference binding
// and function-to-pointer decay, which also depend on the operand's value
// kind, are layered on top by CompatibilityOfValue.
func CompatibilityOf(source, target Type) Compatibility {
	if source == target {
		return Equal
	}
	switch t := target.(type) {
	case *Primitive:
		s, ok := source.(*Primitive)
		if !ok {
			return NotCompatible
		}
		return primitiveCompat(s, t)
	case *Pointer:
		s, ok := source.(*Pointer)
		if !ok {
			return NotCompatible
		}
		// T* and void* are compatible in either direction.
		if t.IsVoidPointer() || s.IsVoidPointer() {
			return Compatible
		}
		if CompatibilityOf(s.Elem, t.Elem) != Equal {
			return NotCompatible
		}
		if s.IsConstant == t.IsConstant {
			return Equal
		}
		if !s.IsConstant && t.IsConstant {
			return Compatible
		}
		return NotCompatible
	case *Reference:
		s, ok := source.(*Reference)
		if !ok {
			return NotCompatible
		}
		if CompatibilityOf(s.Elem, t.Elem) == Equal && s.IsConstant == t.IsConstant {
			return Equal
		}
		return NotCompatible
	case *Array:
		s, ok := source.(*Array)
		if !ok {
			return NotCompatible
		}
		if s.Len == t.Len && CompatibilityOf(s.Elem, t.Elem) == Equal {
			return Equal
		}
		return NotCompatible
	case *Class:
		s, ok := source.(*Class)
		if !ok {
			return NotCompatible
		}
		if s == t {
			return Equal
		}
		if isAncestor(s, t) {
			return Compatible
		}
		return NotCompatible
	default:
		if source == target {
			return Equal
		}
		return NotCompatible
	}
}

func isAncestor(c *Class, ancestor *Class) bool {
	for _, p := range c.Parents {
		if p == ancestor || isAncestor(p, ancestor) {
			return true
		}
	}
	return false
}

// primitiveCompat implements the integer/float widening rules: same-
// signedness widening is implicit, narrowing and signedness changes and
// int<->float conversions all require an explicit cast.
func primitiveCompat(s, t *Primitive) Compatibility {
	if s.P == t.P {
		return Equal
	}
	if s.IsInteger() && t.IsInteger() && s.IsSigned() == t.IsSigned() && t.BitWidth() >= s.BitWidth() {
		return Compatible
	}
	if s.P == Bool && t.IsInteger() {
		return Compatible
	}
	return NotCompatible
}

// CompatibilityOfValue layers the value-kind-dependent rules on top of
// CompatibilityOf: implicit reference binding/loading, and function
// decaying to a function pointer.
func CompatibilityOfValue(source *Value, target Type) Compatibility {
	decayed := Decay(source.Type)
	if ref, ok := target.(*Reference); ok {
		// A reference is introduced implicitly when a non-temporary alloca
		// flows into a reference parameter.
		if source.IsAlloca && !source.IsTemporary {
			if c := CompatibilityOf(decayed, ref.Elem); c != NotCompatible {
				return c
			}
		}
		return NotCompatible
	}
	if srcRef, ok := decayed.(*Reference); ok {
		// "conversely, T& loads to T when flowing into a T sink".
		return CompatibilityOf(srcRef.Elem, target)
	}
	return CompatibilityOf(decayed, target)
}

// Decay applies the function-decays-to-function-pointer conversion,
// uniformly, at every store, assignment, or parameter position.
func Decay(t Type) Type {
	if fn, ok := t.(*Function); ok {
		return &Pointer{Elem: fn}
	}
	return t
}

// ConversionKind enumerates the built-in explicit-cast forms `x as T` may
// perform once a user-defined @cast operator has been ruled out.
type ConversionKind int

const (
	ConvInvalid ConversionKind = iota
	ConvNoop                   // source and target are already Equal
	ConvIntWiden
	ConvIntNarrow
	ConvIntSignednessChange
	ConvIntToFloat
	ConvFloatToInt
	ConvFloatWiden
	ConvFloatNarrow
	ConvPointerBitcast
	ConvClassUpcast
	ConvClassDowncast
)

// BuiltinConversion classifies the explicit conversion from source to
// target, independent of any user-defined @cast overload.
func BuiltinConversion(source, target Type) ConversionKind {
	if CompatibilityOf(source, target) == Equal {
		return ConvNoop
	}
	switch t := target.(type) {
	case *Primitive:
		s, ok := source.(*Primitive)
		if !ok {
			return ConvInvalid
		}
		switch {
		case s.IsInteger() && t.IsInteger() && s.IsSigned() != t.IsSigned():
			return ConvIntSignednessChange
		case s.IsInteger() && t.IsInteger() && t.BitWidth() > s.BitWidth():
			return ConvIntWiden
		case s.IsInteger() && t.IsInteger():
			return ConvIntNarrow
		case s.IsInteger() && t.IsFloat():
			return ConvIntToFloat
		case s.IsFloat() && t.IsInteger():
			return ConvFloatToInt
		case s.IsFloat() && t.IsFloat() && t.BitWidth() > s.BitWidth():
			return ConvFloatWiden
		case s.IsFloat() && t.IsFloat():
			return ConvFloatNarrow
		}
		return ConvInvalid
	case *Pointer:
		if _, ok := source.(*Pointer); ok {
			return ConvPointerBitcast
		}
		return ConvInvalid
	case *Class:
		s, ok := source.(*Class)
		if !ok {
			return ConvInvalid
		}
		if isAncestor(s, t) {
			return ConvClassUpcast
		}
		if isAncestor(t, s) {
			return ConvClassDowncast
		}
		return ConvInvalid
	}
	return ConvInvalid
}

// FindCastOperator looks up a user-defined `@cast` operator converting
// source to target. It makes a single lookupCast call on source itself;
// when source is a generic specialization, the generic wrapper it came from
// is not searched. lookupCast is supplied by internal/sema, which owns the
// scope-resolution and argument-matching machinery.
func FindCastOperator(source Type, target Type, lookupCast func(recv Type, target Type) (*Function, bool)) (*Function, bool) {
	if fn, ok := lookupCast(source, target); ok {
		return fn, true
	}
	return nil, false
}
