// Package ast defines the syntax-tree contract the semantic visitor consumes.
// The grammar and parser that produce these trees are out of scope for this
// module; this package is the interface between that external producer and
// internal/sema.
//
// Each node kind is a plain Go struct; dispatch in internal/sema is done
// with a type switch over the Expr/Stmt/TypeExpr interfaces rather than a
// double-dispatch Accept/Visitor pair.
package ast

import "github.com/xenon-lang/xenon/internal/token"

// Node is the root of every syntax node.
type Node interface {
	Pos() token.Position
}

// Expr is any expression-position node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is any statement-position node.
type Stmt interface {
	Node
	stmtNode()
}

// TypeExpr is any type-position node (array/pointer/reference/name/function).
type TypeExpr interface {
	Node
	typeExprNode()
}

// base embeds a Position and supplies Pos() to every concrete node.
type base struct {
	Position token.Position
}

func (b base) Pos() token.Position { return b.Position }

// Attribute is a parsed declaration attribute: target("os-arch-glob"),
// packed, noinline, extern, each with optional string arguments.
type Attribute struct {
	Name string
	Args []string
}

// HasAttribute reports whether name is present among attrs.
func HasAttribute(attrs []Attribute, name string) bool {
	for _, a := range attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}

// FindAttribute returns the first attribute named name, if any.
func FindAttribute(attrs []Attribute, name string) (Attribute, bool) {
	for _, a := range attrs {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// Body is an ordered block of statements, used for function/method bodies,
// if/while/for bodies, and namespace bodies.
type Body struct {
	base
	Stmts []Stmt
}

// ScopedName is a possibly-qualified identifier: plain ("x"), or qualified
// through the scope-resolution operator ("A::B::name"), recorded as ordered
// path segments.
type ScopedName struct {
	base
	Path []string // len == 1 for an unqualified name
}

func (s *ScopedName) typeExprNode() {}

// Last returns the final path segment (the resolved identifier itself).
func (s *ScopedName) Last() string { return s.Path[len(s.Path)-1] }
