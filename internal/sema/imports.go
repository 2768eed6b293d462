package sema

import (
	"path/filepath"
	"strings"

	"github.com/xenon-lang/xenon/internal/ast"
	"github.com/xenon-lang/xenon/internal/diag"
	"github.com/xenon-lang/xenon/internal/importer"
	"github.com/xenon-lang/xenon/internal/scope"
	"github.com/xenon-lang/xenon/internal/token"
)

// Parser is the external grammar/parser collaborator this core treats as an
// interface boundary, the same way internal/ir.Builder stands in for the
// backend: given an imported file's source text and its canonical path, it
// produces the syntax tree lowerImportStmt walks exactly as it would the
// translation unit's own body.
type Parser interface {
	Parse(source, file string) (*ast.Body, error)
}

// lowerImportStmt resolves n.Path to a canonical file, skips it silently if
// already visited (the import set is a canonical-path set; reentrant
// imports short-circuit without revisiting), and otherwise parses and
// lowers its declarations directly into sc — an import introduces names at
// the point of the import statement, not into a nested namespace of its
// own.
func (v *Visitor) lowerImportStmt(n *ast.ImportStmt, sc *scope.Scope) error {
	canonical, err := v.resolveImportPath(n.Path, n.Pos())
	if err != nil {
		return err
	}
	if !v.Imports.Visit(canonical) {
		return nil
	}

	source, err := importer.ReadSource(canonical)
	if err != nil {
		return errf(diag.ImportFailure, n.Pos(), "cannot read import %q: %v", n.Path, err)
	}
	if v.Parser == nil {
		return errf(diag.Unimplemented, n.Pos(), "import %q: no parser configured", n.Path)
	}
	body, err := v.Parser.Parse(source, canonical)
	if err != nil {
		return errf(diag.ImportFailure, n.Pos(), "cannot parse import %q: %v", n.Path, err)
	}

	// The imported file's own relative imports must resolve against its
	// own directory, not the importing file's — swap File for the
	// duration of its body, restoring on every exit path.
	savedFile := v.File
	v.File = canonical
	_, err = v.lowerBody(body, sc)
	v.File = savedFile
	return err
}

// resolveImportPath implements the two resolution rules the import surface
// states: a "./"-relative path resolves only against the currently-
// lowering file's own directory; any other name is searched across every
// configured include root (each with a ".x" extension / mod.x directory
// fallback) via the shared Resolver, after a scoped name such as
// "foo::bar::baz" is split into filesystem segments.
func (v *Visitor) resolveImportPath(path string, pos token.Position) (string, error) {
	if strings.HasPrefix(path, "./") {
		local := importer.New(filepath.Dir(v.File))
		return local.Resolve(path, pos)
	}
	return v.Imports.Resolve(importer.SplitScopedPath(path), pos)
}
