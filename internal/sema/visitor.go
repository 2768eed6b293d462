// Package sema implements the semantic visitor: the single pass that walks
// a syntax tree and simultaneously performs name resolution, type checking,
// generic instantiation, operator-overload resolution, implicit conversion
// insertion, control-flow lowering, class/union/enum layout, method-body
// deferral, destructor emission, inline-assembly lowering, and cross-module
// import with deduplication, emitting IR as a side effect through the
// internal/ir.Builder contract.
package sema

import (
	"fmt"

	"github.com/xenon-lang/xenon/internal/ast"
	"github.com/xenon-lang/xenon/internal/diag"
	"github.com/xenon-lang/xenon/internal/generics"
	"github.com/xenon-lang/xenon/internal/importer"
	coreir "github.com/xenon-lang/xenon/internal/ir"
	"github.com/xenon-lang/xenon/internal/scope"
	"github.com/xenon-lang/xenon/internal/token"
	"github.com/xenon-lang/xenon/internal/types"
)

// Status is what a lowered statement or block leaves behind for its parent
// frame to act on: whether control fell through normally, returned, or
// broke out of the innermost loop.
type Status int

const (
	StatusNone Status = iota
	StatusReturned
	StatusBreaked
	StatusContinued
)

// funcContext tracks the per-function bookkeeping the visitor needs while
// lowering a function body: its distinguished return slot and the single
// exit block every return branches to.
type funcContext struct {
	Func      coreir.Func
	RetType   types.Type
	RetSlot   coreir.Value // alloca holding the return value; nil for void/SRet
	RetBlock  coreir.Block
	IsSRet    bool
	SRetArg   coreir.Value
	ThisValue *types.Value // non-nil inside a non-static method body

	// bodyScope is the function body's own top-level scope; a return from
	// anywhere within the body destructs every scope up to and including it.
	bodyScope *scope.Scope
}

// loopInfo records the two jump targets a loop body needs for break and
// continue, stashed in the body scope's opaque LoopEnd field.
type loopInfo struct {
	ContinueTarget coreir.Block
	EndTarget      coreir.Block

	// bodyScope is the loop body's own scope. A break or continue destructs
	// every scope from the jump up to and including it, on the jump's own
	// edge; the end and continue blocks emit no destructor calls.
	bodyScope *scope.Scope
}

// Visitor is the single semantic pass over one translation unit. It owns
// the IR builder's insertion cursor and the scope stack for the unit's
// lifetime; it is not safe for concurrent use (there is exactly one
// current insertion point).
type Visitor struct {
	B          coreir.Builder
	Stack      *scope.Stack
	Imports    *importer.Resolver
	File       string
	TargetOS   string
	TargetArch string

	// Parser is the external grammar/parser collaborator (out of scope for
	// this module per its own charter): given an imported file's source
	// text and path, it produces the syntax tree lowerImportStmt walks
	// exactly as it would the translation unit's own body. Left nil, an
	// import statement fails with diag.Unimplemented rather than panicking.
	Parser Parser

	// globalCounter disambiguates the synthetic global names this visitor
	// mints for string-literal storage.
	globalCounter int

	// mangledNames records every generic-specialization symbol name already
	// minted by mangleSpecialization, so a second wrapper that happens to
	// produce the same structural name (e.g. two distinct generic classes
	// named the same, pulled in from separate imported translation units)
	// gets disambiguated instead of silently colliding on one backend symbol.
	mangledNames map[string]bool
}

// New creates a Visitor over an already-constructed builder, rooted at a
// fresh global scope, ready to lower one translation unit named file.
func New(b coreir.Builder, imports *importer.Resolver, file, targetOS, targetArch string) *Visitor {
	return &Visitor{
		B:          b,
		Stack:      scope.NewStack(),
		Imports:    imports,
		File:       file,
		TargetOS:   targetOS,
		TargetArch: targetArch,
	}
}

// LowerFile lowers every top-level statement of body in declaration order
// against the root scope.
func (v *Visitor) LowerFile(body *ast.Body) error {
	_, err := v.lowerBody(body, v.Stack.Root())
	return err
}

// attributeApplies reports whether a declaration carrying attrs applies to
// the current (target-os, target-arch) pair: false when a
// target("os-arch-glob") attribute does not match it, true when it matches
// or no such attribute is present.
func (v *Visitor) attributeApplies(attrs []ast.Attribute) bool {
	a, ok := ast.FindAttribute(attrs, "target")
	if !ok || len(a.Args) == 0 {
		return true
	}
	want := v.TargetOS + "-" + v.TargetArch
	return globMatch(a.Args[0], want)
}

// globMatch implements the limited glob grammar target() attributes use:
// '*' matches any run of characters, everything else matches literally.
func globMatch(pattern, s string) bool {
	return globMatchRunes([]rune(pattern), []rune(s))
}

func globMatchRunes(pattern, s []rune) bool {
	for len(pattern) > 0 {
		if pattern[0] == '*' {
			// Consume consecutive '*' cheaply, then try every split point.
			pattern = pattern[1:]
			if len(pattern) == 0 {
				return true
			}
			for i := 0; i <= len(s); i++ {
				if globMatchRunes(pattern, s[i:]) {
					return true
				}
			}
			return false
		}
		if len(s) == 0 || pattern[0] != s[0] {
			return false
		}
		pattern, s = pattern[1:], s[1:]
	}
	return len(s) == 0
}

// ---- shared small helpers -------------------------------------------------

// rvalue returns val's IR value as used in an operand position: loaded if
// it is an alloca, decayed if it names a function.
func (v *Visitor) rvalue(val *types.Value) coreir.Value {
	if val.IsAlloca {
		return v.B.NewLoad(val.Type, val.Ref)
	}
	return val.Ref
}

// newTemp wraps an already-produced IR value as a non-alloca, temporary
// semantic Value.
func newTemp(t types.Type, ref coreir.Value) *types.Value {
	return &types.Value{Type: t, Ref: ref, IsTemporary: true}
}

// declareLocal registers name in sc, and — when its type is a class —
// records it as an owner for destructor emission on scope exit.
func (v *Visitor) declareLocal(sc *scope.Scope, name string, val *types.Value) {
	sc.Declare(name, val)
	if class, ok := val.Type.(*types.Class); ok {
		sc.RegisterOwner(scope.Owner{Name: name, Value: val, Class: class})
	}
}

// nextGlobalName mints a disambiguated global symbol name for a synthetic
// global this visitor creates itself (string-literal backing storage,
// mainly), rather than one named by source.
func (v *Visitor) nextGlobalName(prefix string) string {
	v.globalCounter++
	return fmt.Sprintf("%s.%d", prefix, v.globalCounter)
}

// mangleSpecialization returns wrapperName<args...>'s backend symbol name.
// It first tries generics.MangleName's plain structural form; if that name
// was already minted by some other instantiation (two distinct generic
// wrappers of the same name, typically pulled in from separate imported
// translation units, specialized over the same argument tuple), it falls
// back to the uuid-disambiguated form instead of reusing the same backend
// symbol for two unrelated specializations.
func (v *Visitor) mangleSpecialization(wrapperName string, args []types.Type) string {
	name := generics.MangleName(wrapperName, args, false)
	if v.mangledNames == nil {
		v.mangledNames = make(map[string]bool)
	}
	if v.mangledNames[name] {
		name = generics.MangleName(wrapperName, args, true)
	}
	v.mangledNames[name] = true
	return name
}

// errf is a convenience constructor for a diag.Error at pos.
func errf(kind diag.Kind, pos token.Position, format string, args ...interface{}) error {
	return diag.New(kind, pos, format, args...)
}
