package types

import "github.com/xenon-lang/xenon/internal/scope"

// Alias is a non-generic "alias Name = T" binding: a transparent name for
// Target, flattened away by scope.ResolveAlias wherever it is looked up, so
// nothing downstream of name resolution ever sees an *Alias directly.
type Alias struct {
	Name   string
	Target Type
}

func (a *Alias) Kind() Kind               { return a.Target.Kind() }
func (a *Alias) String() string           { return a.Name }
func (a *Alias) AliasTarget() scope.Name  { return a.Target }

// Property is one named, typed class/union member, with an optional default
// constant.
type Property struct {
	Name    string
	Type    Type
	Default any // a constant Value, or nil
	Static  bool
}

// PendingMethod is a method declaration recorded during class-body layout
// (phase 1) whose IR body is generated only after layout is sealed (phase
// 2) — a first-class data structure, not a generation-order side effect.
type PendingMethod struct {
	Name     string
	Static   bool
	Sig      *Function
	Decl     any // the *ast.FunctionDecl body to lower in phase 2
	Resolved *Function
}

// Class is a (non-generic, or already-instantiated) class type.
type Class struct {
	Name    string
	Parents []*Class // ordered, single-inheritance-with-multiple-parents
	Props   []*Property

	StaticScope   *scope.Scope // static methods, nested types, constants
	InstanceScope *scope.Scope // methods and aliases

	Pending   []*PendingMethod
	Generated bool // laid out (never true for a still-generic class)
	Packed    bool

	// IRHandle is the backend's struct-type handle (an ir.StructHandle),
	// set once internal/sema has called Builder.NewStructType/SetStructBody
	// for this class. Opaque here so internal/types stays backend-free.
	IRHandle any

	// ParentOffsets[i] is the byte offset of Parents[i]'s subobject within
	// this class's storage, computed once layout is sealed. Used to build
	// the structural-cast padding chain for parent-property access.
	ParentOffsets []int64
	Size          int64

	// TypeArgs is non-empty when this Class is a generic specialization;
	// it records the concrete arguments it was instantiated with, so
	// internal/sema can find every class appearing as a generic argument to
	// this class and generate those classes' pending methods first.
	TypeArgs []Type
}

func (*Class) Kind() Kind      { return KindClass }
func (c *Class) String() string { return c.Name }

// IsCallable: classes never participate in overload sets.
func (c *Class) IsCallable() bool { return false }

// FindParentChain searches c and its ancestors (depth-first, parent order)
// for a property named name, returning the chain of classes from c down to
// the declaring class (for structural-cast padding) and the property.
func (c *Class) FindParentChain(name string) (chain []*Class, prop *Property, offset int64, ok bool) {
	for _, p := range c.Props {
		if p.Name == name && !p.Static {
			return []*Class{c}, p, 0, true
		}
	}
	for i, parent := range c.Parents {
		if subChain, subProp, subOffset, found := parent.FindParentChain(name); found {
			base := int64(0)
			if i < len(c.ParentOffsets) {
				base = c.ParentOffsets[i]
			}
			return append([]*Class{c}, subChain...), subProp, base + subOffset, true
		}
	}
	return nil, nil, 0, false
}

// Union is a union type: same shape as a class but laid out as the size of
// its widest property.
type Union struct {
	Name        string
	Props       []*Property
	StaticScope *scope.Scope
	Generated   bool
	Size        int64
	IRHandle    any
}

func (*Union) Kind() Kind        { return KindUnion }
func (u *Union) String() string  { return u.Name }
func (u *Union) IsCallable() bool { return false }

// Enumerator is one (name, constant-value) pair of an Enum.
type Enumerator struct {
	Name  string
	Value int64
}

// Enum is an enum type over an underlying integer type.
type Enum struct {
	Name        string
	Underlying  *Primitive
	Members     []Enumerator
	StaticScope *scope.Scope
}

func (*Enum) Kind() Kind        { return KindEnum }
func (e *Enum) String() string  { return e.Name }
func (e *Enum) IsCallable() bool { return false }

// GenericParam is a placeholder bound to a concrete type inside an
// instantiation scope.
type GenericParam struct {
	Name string
}

func (*GenericParam) Kind() Kind       { return KindGenericParam }
func (g *GenericParam) String() string { return g.Name }

// WrapperTarget distinguishes what kind of declaration a GenericWrapper
// defers: Class, Union, Function, or Alias.
type WrapperTarget int

const (
	WrapsClass WrapperTarget = iota
	WrapsUnion
	WrapsFunction
	WrapsAlias
)

// specKey is the cache key for one instantiation: the concrete argument
// tuple, compared by elementwise type identity (pointer identity of the
// already-canonicalized Type values).
type specKey struct {
	args [8]Type // fixed-size to stay comparable as a Go map key; see newSpecKey
	n    int
}

func newSpecKey(args []Type) specKey {
	var k specKey
	k.n = len(args)
	if k.n > len(k.args) {
		// Generic parameter lists this long are not realistic for the
		// language this core targets; fail loudly rather than silently
		// truncate the cache key.
		panic("types: generic argument list exceeds supported arity")
	}
	copy(k.args[:], args)
	return k
}

// GenericWrapper holds the template's syntax subtree, its enclosing-scope
// snapshot, its parameter list, and the cache of already-instantiated
// children keyed by concrete-argument tuple.
type GenericWrapper struct {
	Name       string
	Target     WrapperTarget
	Params     []string
	Template   any          // the ast node to re-visit per instantiation
	Enclosing  *scope.Scope // snapshot to use as the instantiation scope's parent
	Attrs      map[string]bool

	children map[specKey]Type
}

func (*GenericWrapper) Kind() Kind        { return KindGenericWrapper }
func (g *GenericWrapper) String() string  { return g.Name + "<...>" }
func (g *GenericWrapper) IsCallable() bool { return g.Target == WrapsFunction }

// Lookup returns the already-generated specialization for args, if any.
func (g *GenericWrapper) Lookup(args []Type) (Type, bool) {
	if g.children == nil {
		return nil, false
	}
	t, ok := g.children[newSpecKey(args)]
	return t, ok
}

// Insert records a newly generated specialization under args. Inserting the
// same args twice is a programming error — the cache-before-create ordering
// in internal/generics.Instantiate should have prevented it.
func (g *GenericWrapper) Insert(args []Type, result Type) {
	if g.children == nil {
		g.children = make(map[specKey]Type)
	}
	key := newSpecKey(args)
	if _, exists := g.children[key]; exists {
		panic("types: duplicate generic instantiation for identical argument tuple")
	}
	g.children[key] = result
}

// Children returns every specialization generated so far, in no particular
// order, enumerating what exists without needing a specific key.
func (g *GenericWrapper) Children() []Type {
	out := make([]Type, 0, len(g.children))
	for _, t := range g.children {
		out = append(out, t)
	}
	return out
}
