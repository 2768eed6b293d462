// Package generics implements the generic instantiation cache: given a
// generic wrapper and a concrete-argument tuple, return the
// already-generated specialization or create a new one.
package generics

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/xenon-lang/xenon/internal/scope"
	"github.com/xenon-lang/xenon/internal/types"
)

// CreateShell visits just enough of the template to produce the
// specialization's Type node and register its signature/layout, without
// generating any method bodies yet — "phase 1" of a two-phase
// class/union instantiation. For a generic function or alias, which has
// no separate body-generation phase, CreateShell does the entire job.
type CreateShell func(instScope *scope.Scope) (types.Type, error)

// FinishBody completes lowering (pending methods, and so on) now that the
// shell has already been cached and is visible to recursive self-references.
// May be a no-op for wrapper kinds with nothing left to do after CreateShell.
type FinishBody func(instScope *scope.Scope, shell types.Type) error

// Instantiate implements the instantiation algorithm in four steps:
//  1. look up (wrapper, args) in the cache; return it if present.
//  2. create a fresh scope parented at the wrapper's enclosing-scope
//     snapshot.
//  3. bind each parameter name to its concrete type in that scope.
//  4. invoke CreateShell, insert the result into the cache *before*
//     invoking FinishBody, then return it.
//
// Inserting before FinishBody is what gives recursive templates (a class
// whose method returns List<T> and instantiates List<int> from inside its
// own body) a cache hit instead of infinite recursion: by the time
// FinishBody lowers the method bodies, the specialization they might
// reference is already visible.
func Instantiate(w *types.GenericWrapper, args []types.Type, create CreateShell, finish FinishBody) (types.Type, error) {
	if len(args) != len(w.Params) {
		return nil, fmt.Errorf("generics: %s expects %d type argument(s), got %d", w.Name, len(w.Params), len(args))
	}
	if cached, ok := w.Lookup(args); ok {
		return cached, nil
	}

	instScope := scope.New(w.Enclosing)
	for i, param := range w.Params {
		instScope.Declare(param, args[i])
	}

	shell, err := create(instScope)
	if err != nil {
		return nil, err
	}
	w.Insert(args, shell)

	if finish != nil {
		if err := finish(instScope, shell); err != nil {
			return nil, err
		}
	}
	return shell, nil
}

// GenericArgClasses returns the *types.Class values appearing among t's
// instantiation arguments: before generating t's own pending methods, the
// core must first generate pending methods of every class that was used as
// one of t's generic arguments.
func GenericArgClasses(t types.Type) []*types.Class {
	var args []types.Type
	switch v := t.(type) {
	case *types.Class:
		args = v.TypeArgs
	}
	var out []*types.Class
	for _, a := range args {
		if c, ok := a.(*types.Class); ok {
			out = append(out, c)
		}
	}
	return out
}

// MangleName produces the specialization's display/symbol name, e.g.
// "Box<i32>". On the rare occasion two distinct translation units would
// otherwise instantiate two structurally-identical-looking but distinct
// anonymous generics into colliding names, a short disambiguating suffix
// derived from a fresh UUID is appended.
func MangleName(wrapperName string, args []types.Type, disambiguate bool) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	name := wrapperName + "<" + strings.Join(parts, ", ") + ">"
	if disambiguate {
		name += "$" + uuid.NewString()[:8]
	}
	return name
}
