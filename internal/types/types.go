// Package types implements the type and value model: the classification of
// types, the three-valued compatibility/cast predicate, and value kinds
// (constant, variable/alloca, function, global).
//
// Cyclic references (a class referencing methods that reference their
// parent class) need no arena-of-indices indirection here: unlike the
// originating C++ (raw, ownership-tracked pointers), Go structs referring to
// each other through plain pointers are collected by the garbage collector
// regardless of cycles, so *Class <-> *Function back-references are plain
// fields, not index handles.
package types

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Kind is the tag of the Type sum.
type Kind int

const (
	KindPrimitive Kind = iota
	KindPointer
	KindReference
	KindArray
	KindFunction
	KindClass
	KindUnion
	KindEnum
	KindGenericParam
	KindGenericWrapper
)

// Type is the common interface of every type-model variant. Callers
// pattern-match on concrete type via a type switch rather than querying
// Kind and downcasting by hand, though Kind is exposed for quick filtering
// (e.g. "is this any kind of primitive").
type Type interface {
	Kind() Kind
	String() string
}

// PrimitiveKind enumerates the built-in scalar types.
type PrimitiveKind int

const (
	I1 PrimitiveKind = iota
	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	F32
	F64
	Void
	Bool
)

var primitiveNames = map[PrimitiveKind]string{
	I1: "i1", I8: "i8", I16: "i16", I32: "i32", I64: "i64",
	U8: "u8", U16: "u16", U32: "u32", U64: "u64",
	F32: "f32", F64: "f64", Void: "void", Bool: "bool",
}

// Primitive is a built-in scalar type.
type Primitive struct {
	P PrimitiveKind
}

func (*Primitive) Kind() Kind    { return KindPrimitive }
func (p *Primitive) String() string { return primitiveNames[p.P] }

// IsInteger reports whether p is a signed or unsigned integer (including i1).
func (p *Primitive) IsInteger() bool {
	switch p.P {
	case I1, I8, I16, I32, I64, U8, U16, U32, U64:
		return true
	}
	return false
}

// IsSigned reports whether p is a signed integer kind.
func (p *Primitive) IsSigned() bool {
	switch p.P {
	case I1, I8, I16, I32, I64:
		return true
	}
	return false
}

// IsFloat reports whether p is a floating-point kind.
func (p *Primitive) IsFloat() bool { return p.P == F32 || p.P == F64 }

// BitWidth returns the storage width in bits of an integer/float primitive.
func (p *Primitive) BitWidth() int {
	switch p.P {
	case I1:
		return 1
	case I8, U8:
		return 8
	case I16, U16:
		return 16
	case I32, U32, F32:
		return 32
	case I64, U64, F64:
		return 64
	}
	return 0
}

var (
	I1T   = &Primitive{I1}
	I8T   = &Primitive{I8}
	I16T  = &Primitive{I16}
	I32T  = &Primitive{I32}
	I64T  = &Primitive{I64}
	U8T   = &Primitive{U8}
	U16T  = &Primitive{U16}
	U32T  = &Primitive{U32}
	U64T  = &Primitive{U64}
	F32T  = &Primitive{F32}
	F64T  = &Primitive{F64}
	VoidT = &Primitive{Void}
	BoolT = &Primitive{Bool}
)

// Pointer is "T*".
type Pointer struct {
	Elem       Type
	IsConstant bool
}

func (*Pointer) Kind() Kind { return KindPointer }
func (p *Pointer) String() string {
	if p.IsConstant {
		return "const " + p.Elem.String() + "*"
	}
	return p.Elem.String() + "*"
}

// IsVoidPointer reports whether p points at void (universally
// pointer-compatible, including as the type of a null literal).
func (p *Pointer) IsVoidPointer() bool {
	prim, ok := p.Elem.(*Primitive)
	return ok && prim.P == Void
}

// Reference is "T&".
type Reference struct {
	Elem       Type
	IsConstant bool
}

func (*Reference) Kind() Kind { return KindReference }
func (r *Reference) String() string {
	if r.IsConstant {
		return "const " + r.Elem.String() + "&"
	}
	return r.Elem.String() + "&"
}

// Array is "T[N]".
type Array struct {
	Elem       Type
	Len        int64
	IsConstant bool
}

func (*Array) Kind() Kind { return KindArray }
func (a *Array) String() string {
	return fmt.Sprintf("%s[%d]", a.Elem.String(), a.Len)
}

// FunctionArg is one named, typed argument of a Function type.
type FunctionArg struct {
	Name string
	Type Type
}

// Function is a function (or method) signature.
type Function struct {
	Name       string
	Args       []FunctionArg
	Return     Type
	Variadic   bool
	IsMethod   bool
	IsSRet     bool // return is a large aggregate returned via hidden first pointer arg
	IsStatic   bool
	Attrs      map[string]bool // noinline, extern, ...
	TargetGlob string          // target("os-arch-glob") attribute argument, if any

	// Generated is filled in by internal/sema once the IR function has been
	// created; nil until then (during the pending-method phase of class
	// lowering).
	Generated interface{}
}

func (*Function) Kind() Kind      { return KindFunction }
func (*Function) IsCallable() bool { return true }
func (f *Function) String() string {
	s := "fn " + f.Name + "("
	for i, a := range f.Args {
		if i > 0 {
			s += ", "
		}
		s += a.Name + ": " + a.Type.String()
	}
	if f.Variadic {
		if len(f.Args) > 0 {
			s += ", "
		}
		s += "..."
	}
	s += "): " + f.Return.String()
	return s
}

// HumanSize renders n bytes as a human-readable size. No other package of
// this module calls it.
func HumanSize(n uint64) string {
	return humanize.Bytes(n)
}
