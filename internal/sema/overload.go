package sema

import (
	"github.com/xenon-lang/xenon/internal/diag"
	"github.com/xenon-lang/xenon/internal/scope"
	"github.com/xenon-lang/xenon/internal/token"
	"github.com/xenon-lang/xenon/internal/types"
)

// resolveOverload picks the best match for args among candidates (a
// NameArray that may mix one non-callable Name with any number of
// *types.Function overloads, per the NameArray invariant). Candidates are
// ranked by arity/variadic fit, then by fewest implicit conversions; two
// candidates tied for best are rejected as ambiguous rather than resolved
// by declaration order.
func resolveOverload(candidates scope.NameArray, args []*types.Value, pos token.Position, what string) (*types.Function, error) {
	var best *types.Function
	bestCost := -1
	ties := 0

	for _, c := range candidates {
		fn, ok := scope.ResolveAlias(c).(*types.Function)
		if !ok {
			continue
		}
		cost, ok := matchCost(fn, args)
		if !ok {
			continue
		}
		switch {
		case best == nil || cost < bestCost:
			best, bestCost, ties = fn, cost, 1
		case cost == bestCost:
			ties++
		}
	}

	if best == nil {
		return nil, errf(diag.NoFunctionMatch, pos, "no overload of %s matches the given %d argument(s)", what, len(args))
	}
	if ties > 1 {
		return nil, errf(diag.MultipleInstances, pos, "call to %s is ambiguous among %d equally-good overloads", what, ties)
	}
	return best, nil
}

// matchCost reports, for a candidate whose arity fits args, the number of
// implicit (non-Equal) conversions the call would require; ok is false when
// the candidate's arity doesn't fit or any argument is not even Compatible.
func matchCost(fn *types.Function, args []*types.Value) (cost int, ok bool) {
	if fn.Variadic {
		if len(args) < len(fn.Args) {
			return 0, false
		}
	} else if len(args) != len(fn.Args) {
		return 0, false
	}

	for i, a := range fn.Args {
		switch types.CompatibilityOfValue(args[i], a.Type) {
		case types.Equal:
		case types.Compatible:
			cost++
		default:
			return 0, false
		}
	}
	// Variadic tail arguments (beyond fn.Args) take no implicit conversion
	// in this core's calling convention — they pass through as-is.
	return cost, true
}
