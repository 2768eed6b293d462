// Package scope implements the lexically nested scope chain and
// name-resolution machinery: NameArray overload groups, alias flattening,
// and nearest-first lookup.
//
// A Name is the abstract root of anything resolvable by identifier: a
// type, a value, a namespace, an alias, or a group of overloads. Rather
// than a closed Go sum type, this package keeps Name as `any` and
// recognizes the two properties it actually needs to enforce the NameArray
// invariant structurally, via the callable/alias interfaces below — which
// lets internal/types' Function/GenericWrapper/Alias implement them without
// this package importing internal/types (that import runs the other way,
// since internal/types.Class embeds *Scope for its static/instance scopes).
package scope

// Name is any single binding: a *types.Class, *types.Function, *types.Value,
// an alias, a namespace, or any other resolvable entity.
type Name = any

// callable is implemented by Name values that may legally coexist in a
// multi-element NameArray (functions and generic function wrappers).
type callable interface {
	IsCallable() bool
}

// IsCallable reports whether n may participate in an overload set.
func IsCallable(n Name) bool {
	c, ok := n.(callable)
	return ok && c.IsCallable()
}

// aliasTarget is implemented by Name values that are transparent aliases:
// a lookup resolving to one is immediately re-resolved against its target.
type aliasTarget interface {
	AliasTarget() Name
}

// ResolveAlias follows n through any chain of alias indirections and
// returns the final non-alias Name.
func ResolveAlias(n Name) Name {
	for {
		a, ok := n.(aliasTarget)
		if !ok {
			return n
		}
		n = a.AliasTarget()
	}
}

// NameArray is an ordered group of Names sharing one lookup key: a function
// overload set, or a sequence of shadowed bindings. Invariant: when
// len(NameArray) > 1, every element except possibly one must be callable;
// resolution fails as "multiple instances" otherwise.
type NameArray []Name

// Valid reports whether the NameArray satisfies its invariant.
func (na NameArray) Valid() bool {
	if len(na) <= 1 {
		return true
	}
	nonCallable := 0
	for _, n := range na {
		if !IsCallable(n) {
			nonCallable++
		}
	}
	return nonCallable <= 1
}

// Last returns the most recently appended Name, the one a non-call lookup
// (a type, a scope, an alias) resolves to.
func (na NameArray) Last() Name {
	if len(na) == 0 {
		return nil
	}
	return na[len(na)-1]
}
