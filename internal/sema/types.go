package sema

import (
	"github.com/xenon-lang/xenon/internal/ast"
	"github.com/xenon-lang/xenon/internal/diag"
	"github.com/xenon-lang/xenon/internal/scope"
	"github.com/xenon-lang/xenon/internal/token"
	"github.com/xenon-lang/xenon/internal/types"
)

var primitiveByName = map[string]*types.Primitive{
	"i1": types.I1T, "i8": types.I8T, "i16": types.I16T, "i32": types.I32T, "i64": types.I64T,
	"u8": types.U8T, "u16": types.U16T, "u32": types.U32T, "u64": types.U64T,
	"f32": types.F32T, "f64": types.F64T, "void": types.VoidT, "bool": types.BoolT,
}

// resolveType converts a syntax-position type reference into a concrete
// internal/types.Type, instantiating generics on demand.
func (v *Visitor) resolveType(t ast.TypeExpr, sc *scope.Scope) (types.Type, error) {
	switch n := t.(type) {
	case *ast.PointerType:
		elem, err := v.resolveType(n.Elem, sc)
		if err != nil {
			return nil, err
		}
		return &types.Pointer{Elem: elem, IsConstant: n.IsConstant}, nil
	case *ast.ReferenceType:
		elem, err := v.resolveType(n.Elem, sc)
		if err != nil {
			return nil, err
		}
		return &types.Reference{Elem: elem, IsConstant: n.IsConstant}, nil
	case *ast.ArrayType:
		elem, err := v.resolveType(n.Elem, sc)
		if err != nil {
			return nil, err
		}
		length := int64(0)
		if n.Size != nil {
			c, ok := foldConstInt(n.Size)
			if !ok {
				return nil, errf(diag.InvalidType, n.Pos(), "array size must be a constant integer expression")
			}
			length = c
		}
		return &types.Array{Elem: elem, Len: length, IsConstant: n.IsConstant}, nil
	case *ast.FunctionType:
		args := make([]types.FunctionArg, len(n.Params))
		for i, p := range n.Params {
			pt, err := v.resolveType(p, sc)
			if err != nil {
				return nil, err
			}
			args[i] = types.FunctionArg{Type: pt}
		}
		ret, err := v.resolveType(n.Return, sc)
		if err != nil {
			return nil, err
		}
		return &types.Function{Args: args, Return: ret, Variadic: n.Variadic}, nil
	case *ast.NameType:
		return v.resolveNameType(n, sc)
	}
	return nil, errf(diag.InvalidType, t.Pos(), "unrecognized type expression")
}

func (v *Visitor) resolveNameType(n *ast.NameType, sc *scope.Scope) (types.Type, error) {
	if len(n.Path) == 1 {
		if prim, ok := primitiveByName[n.Path[0]]; ok && len(n.TypeArgs) == 0 {
			return prim, nil
		}
	}
	resolveScope := sc
	var last string
	for i, seg := range n.Path {
		if i == len(n.Path)-1 {
			last = seg
			break
		}
		na, ok := resolveScope.GetNames(seg)
		if !ok {
			return nil, errf(diag.UnknownName, n.Pos(), "unknown name %q", seg)
		}
		next, err := scopeFromName(scope.ResolveAlias(na.Last()), n.Pos())
		if err != nil {
			return nil, err
		}
		resolveScope = next
	}

	na, ok := resolveScope.GetNames(last)
	if !ok {
		return nil, errf(diag.UnknownName, n.Pos(), "unknown type %q", last)
	}
	name := scope.ResolveAlias(na.Last())

	if len(n.TypeArgs) == 0 {
		if _, generic := name.(*types.GenericWrapper); generic {
			return nil, errf(diag.InvalidType, n.Pos(), "generic %q used without type arguments", last)
		}
		t, ok := name.(types.Type)
		if !ok {
			return nil, errf(diag.InvalidType, n.Pos(), "%q does not name a type", last)
		}
		return t, nil
	}

	wrapper, ok := name.(*types.GenericWrapper)
	if !ok {
		return nil, errf(diag.NotGeneric, n.Pos(), "%q is not generic", last)
	}
	args := make([]types.Type, len(n.TypeArgs))
	for i, a := range n.TypeArgs {
		at, err := v.resolveType(a, sc)
		if err != nil {
			return nil, err
		}
		args[i] = at
	}
	return v.instantiate(wrapper, args, n.Pos())
}

// scopeFromName converts a resolved Name into the static scope it exposes
// for further scope-resolution (A::B), rejecting names that are not a
// class, union, enum, or namespace.
func scopeFromName(n scope.Name, pos token.Position) (*scope.Scope, error) {
	switch t := n.(type) {
	case *types.Class:
		return t.StaticScope, nil
	case *types.Union:
		return t.StaticScope, nil
	case *types.Enum:
		return t.StaticScope, nil
	case *scope.Scope:
		return t, nil
	}
	return nil, errf(diag.NotClassOrNamespace, pos, "not a class, union, enum, or namespace")
}

// foldConstInt evaluates an array-size expression that must be a compile-
// time integer constant — the only form this core's array-type syntax
// accepts, since array sizes participate in struct layout before any IR
// exists to evaluate a general expression against.
func foldConstInt(e ast.Expr) (int64, bool) {
	lit, ok := e.(*ast.Literal)
	if !ok {
		return 0, false
	}
	switch lit.Kind {
	case ast.LiteralDecimalInt, ast.LiteralHexInt, ast.LiteralBinaryInt:
		return int64(lit.Int), true
	}
	return 0, false
}
