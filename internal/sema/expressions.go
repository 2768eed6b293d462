package sema

import (
	"strings"

	"github.com/xenon-lang/xenon/internal/ast"
	"github.com/xenon-lang/xenon/internal/diag"
	coreir "github.com/xenon-lang/xenon/internal/ir"
	"github.com/xenon-lang/xenon/internal/scope"
	"github.com/xenon-lang/xenon/internal/token"
	"github.com/xenon-lang/xenon/internal/types"
)

func (v *Visitor) lowerExpr(e ast.Expr, sc *scope.Scope) (*types.Value, error) {
	switch n := e.(type) {
	case *ast.Literal:
		return v.lowerLiteral(n, sc)
	case *ast.Name:
		return v.lowerNameExpr(n, sc)
	case *ast.BinaryExpr:
		return v.lowerBinaryExpr(n, sc)
	case *ast.LogicalExpr:
		return v.lowerLogicalExpr(n, sc)
	case *ast.UnaryExpr:
		return v.lowerUnaryExpr(n, sc)
	case *ast.AssignExpr:
		return v.lowerAssignExpr(n, sc)
	case *ast.CastExpr:
		return v.lowerCastExpr(n, sc)
	case *ast.SizeofExpr:
		return v.lowerSizeofExpr(n, sc)
	case *ast.CallExpr:
		return v.lowerCallExpr(n, sc)
	case *ast.PropertyExpr:
		return v.lowerPropertyExpr(n, sc)
	case *ast.ScopeResolveExpr:
		return v.lowerScopeResolveExpr(n, sc)
	case *ast.IndexExpr:
		return v.lowerIndexExpr(n, sc)
	case *ast.InstantiationExpr:
		return v.lowerInstantiationExpr(n, sc)
	}
	return nil, errf(diag.Unimplemented, e.Pos(), "unhandled expression kind %T", e)
}

func (v *Visitor) lowerLiteral(n *ast.Literal, sc *scope.Scope) (*types.Value, error) {
	switch n.Kind {
	case ast.LiteralBool:
		return newTemp(types.BoolT, v.B.ConstBool(n.Bool)), nil
	case ast.LiteralDecimalInt, ast.LiteralHexInt, ast.LiteralBinaryInt:
		return newTemp(types.I32T, v.B.ConstInt(types.I32T, int64(n.Int))), nil
	case ast.LiteralFloat:
		return newTemp(types.F64T, v.B.ConstFloat(types.F64T, n.Flt)), nil
	case ast.LiteralChar:
		return newTemp(types.I8T, v.B.ConstInt(types.I8T, int64(n.Char))), nil
	case ast.LiteralString:
		return v.lowerStringLiteral(n), nil
	case ast.LiteralNull:
		voidPtr := &types.Pointer{Elem: types.VoidT}
		return newTemp(voidPtr, v.B.ConstNull(voidPtr)), nil
	}
	return nil, errf(diag.Unimplemented, n.Pos(), "unhandled literal kind")
}

// lowerStringLiteral backs a string literal with a NUL-terminated global
// byte array and decays it to a u8* value, the form string literals take
// wherever they flow as a plain pointer.
func (v *Visitor) lowerStringLiteral(n *ast.Literal) *types.Value {
	bytes := []byte(n.Str)
	elems := make([]coreir.Value, len(bytes)+1)
	for i, b := range bytes {
		elems[i] = v.B.ConstInt(types.U8T, int64(b))
	}
	elems[len(bytes)] = v.B.ConstInt(types.U8T, 0)

	g := v.B.NewGlobalConstantArray(v.nextGlobalName("str"), types.U8T, elems)
	arrType := &types.Array{Elem: types.U8T, Len: int64(len(elems))}
	ptr := v.B.NewGEP(arrType, g, []int64{0, 0})
	return newTemp(&types.Pointer{Elem: types.U8T}, ptr)
}

// lowerNameExpr resolves a possibly-scoped identifier used in expression
// position into a usable Value.
func (v *Visitor) lowerNameExpr(n *ast.Name, sc *scope.Scope) (*types.Value, error) {
	na, err := v.lookupPath(n.Path, sc, n.Pos())
	if err != nil {
		return nil, err
	}
	return v.valueFromNameArray(na, n.Path[len(n.Path)-1], n.Pos())
}

// lookupPath walks a (possibly scope-qualified) identifier path and returns
// the final segment's NameArray, resolving every non-final segment to a
// static scope (class/union/enum/namespace) along the way.
func (v *Visitor) lookupPath(path []string, sc *scope.Scope, pos token.Position) (scope.NameArray, error) {
	cur := sc
	for i, seg := range path {
		if i == len(path)-1 {
			na, ok := cur.GetNames(seg)
			if !ok {
				return nil, errf(diag.UnknownName, pos, "unknown name %q", seg)
			}
			return na, nil
		}
		na, ok := cur.GetNames(seg)
		if !ok {
			return nil, errf(diag.UnknownName, pos, "unknown name %q", seg)
		}
		next, err := scopeFromName(scope.ResolveAlias(na.Last()), pos)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return nil, errf(diag.UnknownName, pos, "empty name path")
}

// valueFromNameArray converts a resolved binding into a usable Value for a
// non-call expression position: a single *types.Value is returned as-is; a
// single *types.Function decays per the usual function-to-pointer rule
// wherever it's actually used; anything else (an overload set, a type, a
// namespace) cannot stand alone as a value.
func (v *Visitor) valueFromNameArray(na scope.NameArray, what string, pos token.Position) (*types.Value, error) {
	if len(na) != 1 {
		return nil, errf(diag.MultipleInstances, pos, "%q names an overload set and cannot be used without a call", what)
	}
	resolved := scope.ResolveAlias(na.Last())
	switch t := resolved.(type) {
	case *types.Value:
		return t, nil
	case *types.Function:
		return newTemp(t, t.Generated), nil
	}
	return nil, errf(diag.InvalidValue, pos, "%q does not name a value", what)
}

func (v *Visitor) lowerScopeResolveExpr(n *ast.ScopeResolveExpr, sc *scope.Scope) (*types.Value, error) {
	na, err := v.lookupPath(n.Path, sc, n.Pos())
	if err != nil {
		return nil, err
	}
	return v.valueFromNameArray(na, n.Path[len(n.Path)-1], n.Pos())
}

// ---- binary / logical / unary --------------------------------------------

func (v *Visitor) lowerBinaryExpr(n *ast.BinaryExpr, sc *scope.Scope) (*types.Value, error) {
	lhs, err := v.lowerExpr(n.Left, sc)
	if err != nil {
		return nil, err
	}
	rhs, err := v.lowerExpr(n.Right, sc)
	if err != nil {
		return nil, err
	}
	return v.lowerBinary(n.Op, lhs, rhs, sc, n.Pos())
}

// lowerBinary implements operator resolution shared by BinaryExpr and
// compound-assignment desugaring: an instance method named exactly the
// operator symbol is preferred, then a free function of the same name
// visible from sc, then the built-in primitive rule.
func (v *Visitor) lowerBinary(op string, lhs, rhs *types.Value, sc *scope.Scope, pos token.Position) (*types.Value, error) {
	if class, ok := lhs.Type.(*types.Class); ok {
		if fn, ok := lookupMethod(class, op); ok {
			return v.callResolved(fn, lhs, []*types.Value{rhs}, pos)
		}
	}
	if na, ok := sc.GetNames(op); ok {
		if fn, err := resolveOverload(na, []*types.Value{lhs, rhs}, pos, op); err == nil {
			return v.callResolved(fn, nil, []*types.Value{lhs, rhs}, pos)
		}
	}
	return v.lowerBuiltinBinary(op, lhs, rhs, pos)
}

func (v *Visitor) lowerBuiltinBinary(op string, lhs, rhs *types.Value, pos token.Position) (*types.Value, error) {
	lp, lok := lhs.Type.(*types.Primitive)
	rp, rok := rhs.Type.(*types.Primitive)
	if !lok || !rok {
		return nil, errf(diag.InvalidRightValue, pos, "operator %q requires primitive or overloaded operands", op)
	}

	common := lp
	lv, rv := v.rvalue(lhs), v.rvalue(rhs)
	switch {
	case lp.P == rp.P:
	case types.CompatibilityOf(lp, rp) == types.Compatible:
		lv = v.B.NewCast(widenCast(lp, rp), lv, rp)
		common = rp
	case types.CompatibilityOf(rp, lp) == types.Compatible:
		rv = v.B.NewCast(widenCast(rp, lp), rv, lp)
		common = lp
	default:
		return nil, errf(diag.InvalidRightValue, pos, "operand types %s and %s do not match after widening", lhs.Type, rhs.Type)
	}

	if pred, ok := comparisonPredicate(op, common); ok {
		return newTemp(types.BoolT, v.B.NewCmp(pred, lv, rv)), nil
	}
	binop, ok := arithmeticOp(op, common)
	if !ok {
		return nil, errf(diag.Syntax, pos, "unknown operator %q", op)
	}
	return newTemp(common, v.B.NewBinOp(binop, common, lv, rv)), nil
}

func widenCast(from, to *types.Primitive) coreir.CastKind {
	switch {
	case from.IsInteger() && to.IsInteger():
		if to.IsSigned() {
			return coreir.CastIntSExt
		}
		return coreir.CastIntZExt
	case from.IsFloat() && to.IsFloat():
		return coreir.CastFPExt
	case from.P == types.Bool:
		return coreir.CastIntZExt
	}
	return coreir.CastBitcast
}

func comparisonPredicate(op string, t *types.Primitive) (coreir.Predicate, bool) {
	isFloat := t.IsFloat()
	isSigned := t.IsSigned()
	switch op {
	case "==":
		if isFloat {
			return coreir.FOEQ, true
		}
		return coreir.IEQ, true
	case "!=":
		if isFloat {
			return coreir.FONE, true
		}
		return coreir.INE, true
	case "<":
		if isFloat {
			return coreir.FOLT, true
		}
		if isSigned {
			return coreir.SLT, true
		}
		return coreir.ULT, true
	case "<=":
		if isFloat {
			return coreir.FOLE, true
		}
		if isSigned {
			return coreir.SLE, true
		}
		return coreir.ULE, true
	case ">":
		if isFloat {
			return coreir.FOGT, true
		}
		if isSigned {
			return coreir.SGT, true
		}
		return coreir.UGT, true
	case ">=":
		if isFloat {
			return coreir.FOGE, true
		}
		if isSigned {
			return coreir.SGE, true
		}
		return coreir.UGE, true
	}
	return 0, false
}

func arithmeticOp(op string, t *types.Primitive) (coreir.BinOp, bool) {
	isFloat := t.IsFloat()
	isSigned := t.IsSigned()
	switch op {
	case "+":
		if isFloat {
			return coreir.FAdd, true
		}
		return coreir.Add, true
	case "-":
		if isFloat {
			return coreir.FSub, true
		}
		return coreir.Sub, true
	case "*":
		if isFloat {
			return coreir.FMul, true
		}
		return coreir.Mul, true
	case "/":
		if isFloat {
			return coreir.FDiv, true
		}
		if isSigned {
			return coreir.SDiv, true
		}
		return coreir.UDiv, true
	case "%":
		if isFloat {
			return coreir.FRem, true
		}
		if isSigned {
			return coreir.SRem, true
		}
		return coreir.URem, true
	case "&":
		if !isFloat {
			return coreir.And, true
		}
	case "|":
		if !isFloat {
			return coreir.Or, true
		}
	case "^":
		if !isFloat {
			return coreir.Xor, true
		}
	case "<<":
		if !isFloat {
			return coreir.Shl, true
		}
	case ">>":
		if !isFloat {
			if isSigned {
				return coreir.AShr, true
			}
			return coreir.LShr, true
		}
	case ">>>":
		if !isFloat {
			return coreir.LShr, true
		}
	}
	return 0, false
}

func (v *Visitor) lowerLogicalExpr(n *ast.LogicalExpr, sc *scope.Scope) (*types.Value, error) {
	fn := sc.EnclosingFunction().(*funcContext).Func
	isAnd := n.Op == "&&"

	lhs, err := v.lowerExpr(n.Left, sc)
	if err != nil {
		return nil, err
	}
	lhsBool := v.asBool(lhs)

	label := "or"
	if isAnd {
		label = "and"
	}
	rhsBlock := v.B.NewBlock(fn, label+".rhs")
	shortBlock := v.B.NewBlock(fn, label+".short")
	endBlock := v.B.NewBlock(fn, label+".end")

	if isAnd {
		v.B.NewCondBr(lhsBool, rhsBlock, shortBlock)
	} else {
		v.B.NewCondBr(lhsBool, shortBlock, rhsBlock)
	}

	v.B.SetInsertPoint(rhsBlock)
	rhs, err := v.lowerExpr(n.Right, sc)
	if err != nil {
		return nil, err
	}
	rhsBool := v.asBool(rhs)
	rhsPred := v.B.CurrentBlock()
	v.B.NewBr(endBlock)

	v.B.SetInsertPoint(shortBlock)
	shortConst := v.B.ConstBool(!isAnd)
	shortSlot := v.B.NewAlloca(types.BoolT, label+".short.slot")
	v.B.NewStore(shortConst, shortSlot)
	shortLoaded := v.B.NewLoad(types.BoolT, shortSlot)
	shortPred := v.B.CurrentBlock()
	v.B.NewBr(endBlock)

	v.B.SetInsertPoint(endBlock)
	phi := v.B.NewPhi(types.BoolT, []coreir.Incoming{
		{Value: rhsBool, Block: rhsPred},
		{Value: shortLoaded, Block: shortPred},
	})
	return newTemp(types.BoolT, phi), nil
}

// lookupCastOperator is the internal/types.FindCastOperator callback: an
// instance method literally named "@cast" converting recv to target.
func (v *Visitor) lookupCastOperator(recv types.Type, target types.Type) (*types.Function, bool) {
	class, ok := recv.(*types.Class)
	if !ok {
		return nil, false
	}
	fn, ok := lookupMethod(class, "@cast")
	if !ok || fn.Return != target {
		return nil, false
	}
	return fn, true
}

// toBool reduces val to a branch-ready i1: a user-defined @cast to bool
// takes precedence, falling back to a zero/null comparison. Used only by
// unary "!" — if/while/for conditions use the plain zero-comparison form.
func (v *Visitor) toBool(val *types.Value) coreir.Value {
	if fn, ok := types.FindCastOperator(val.Type, types.BoolT, v.lookupCastOperator); ok && fn.Generated != nil {
		return v.B.NewCall(fn.Generated, []coreir.Value{v.addrOf(val)})
	}
	return v.asBool(val)
}

func (v *Visitor) lowerUnaryExpr(n *ast.UnaryExpr, sc *scope.Scope) (*types.Value, error) {
	operand, err := v.lowerExpr(n.Operand, sc)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "+":
		return newTemp(operand.Type, v.rvalue(operand)), nil
	case "-":
		prim, ok := operand.Type.(*types.Primitive)
		if !ok {
			return nil, errf(diag.InvalidValue, n.Pos(), "unary - requires a numeric operand")
		}
		rv := v.rvalue(operand)
		if prim.IsFloat() {
			zero := v.B.ConstFloat(prim, 0)
			return newTemp(prim, v.B.NewBinOp(coreir.FSub, prim, zero, rv)), nil
		}
		zero := v.B.ConstInt(prim, 0)
		return newTemp(prim, v.B.NewBinOp(coreir.Sub, prim, zero, rv)), nil
	case "~":
		prim, ok := operand.Type.(*types.Primitive)
		if !ok || prim.IsFloat() {
			return nil, errf(diag.InvalidValue, n.Pos(), "unary ~ requires an integer operand")
		}
		allOnes := v.B.ConstInt(prim, -1)
		return newTemp(prim, v.B.NewBinOp(coreir.Xor, prim, v.rvalue(operand), allOnes)), nil
	case "!":
		b := v.toBool(operand)
		notB := v.B.NewBinOp(coreir.Xor, types.BoolT, b, v.B.ConstBool(true))
		return newTemp(types.BoolT, notB), nil
	case "&":
		if !operand.IsAlloca {
			return nil, errf(diag.InvalidValue, n.Pos(), "unary & requires an addressable operand")
		}
		return newTemp(&types.Pointer{Elem: operand.Type}, operand.Ref), nil
	case "*":
		return v.lowerDeref(operand, n.Pos())
	}
	return nil, errf(diag.Syntax, n.Pos(), "unknown unary operator %q", n.Op)
}

func (v *Visitor) lowerDeref(operand *types.Value, pos token.Position) (*types.Value, error) {
	switch t := operand.Type.(type) {
	case *types.Pointer:
		return &types.Value{Type: t.Elem, Ref: v.rvalue(operand), IsAlloca: true}, nil
	case *types.Array:
		addr := v.B.NewGEP(t, operand.Ref, []int64{0, 0})
		return &types.Value{Type: t.Elem, Ref: addr, IsAlloca: true}, nil
	case *types.Class:
		if fn, ok := lookupMethod(t, "*"); ok && fn.Generated != nil {
			return v.callResolved(fn, operand, nil, pos)
		}
	}
	return nil, errf(diag.NotPointer, pos, "unary * requires a pointer, array, or overloaded operand")
}

// ---- assignment ------------------------------------------------------------

func (v *Visitor) lowerAssignExpr(n *ast.AssignExpr, sc *scope.Scope) (*types.Value, error) {
	lhs, err := v.lowerExpr(n.Left, sc)
	if err != nil {
		return nil, err
	}
	if !lhs.IsAlloca {
		return nil, errf(diag.InvalidLeftValue, n.Pos(), "left side of assignment is not an lvalue")
	}
	rhs, err := v.lowerExpr(n.Right, sc)
	if err != nil {
		return nil, err
	}

	if n.Op == "=" {
		if types.CompatibilityOfValue(rhs, lhs.Type) == types.NotCompatible {
			return nil, errf(diag.InvalidRightValue, n.Pos(), "cannot assign %s to %s", rhs.Type, lhs.Type)
		}
		stored := v.coerce(rhs, lhs.Type)
		v.B.NewStore(stored, lhs.Ref)
		return newTemp(lhs.Type, stored), nil
	}

	opSym := strings.TrimSuffix(n.Op, "=")
	if class, ok := lhs.Type.(*types.Class); ok {
		if fn, ok := lookupMethod(class, n.Op); ok {
			result, err := v.callResolved(fn, lhs, []*types.Value{rhs}, n.Pos())
			if err != nil {
				return nil, err
			}
			return result, nil
		}
	}
	current := &types.Value{Type: lhs.Type, Ref: v.rvalue(lhs)}
	combined, err := v.lowerBinary(opSym, current, rhs, sc, n.Pos())
	if err != nil {
		return nil, err
	}
	stored := v.coerce(combined, lhs.Type)
	v.B.NewStore(stored, lhs.Ref)
	return newTemp(lhs.Type, stored), nil
}

// ---- cast / sizeof ---------------------------------------------------------

func (v *Visitor) lowerCastExpr(n *ast.CastExpr, sc *scope.Scope) (*types.Value, error) {
	operand, err := v.lowerExpr(n.Operand, sc)
	if err != nil {
		return nil, err
	}
	target, err := v.resolveType(n.Target, sc)
	if err != nil {
		return nil, err
	}

	if fn, ok := types.FindCastOperator(operand.Type, target, v.lookupCastOperator); ok && fn.Generated != nil {
		return v.callResolved(fn, operand, nil, n.Pos())
	}

	kind := types.BuiltinConversion(operand.Type, target)
	rv := v.rvalue(operand)
	switch kind {
	case types.ConvNoop:
		return newTemp(target, rv), nil
	case types.ConvIntWiden:
		sp := operand.Type.(*types.Primitive)
		if sp.IsSigned() {
			return newTemp(target, v.B.NewCast(coreir.CastIntSExt, rv, target)), nil
		}
		return newTemp(target, v.B.NewCast(coreir.CastIntZExt, rv, target)), nil
	case types.ConvIntNarrow, types.ConvIntSignednessChange:
		sp, tp := operand.Type.(*types.Primitive), target.(*types.Primitive)
		switch {
		case sp.BitWidth() == tp.BitWidth():
			return newTemp(target, v.B.NewCast(coreir.CastBitcast, rv, target)), nil
		case sp.BitWidth() > tp.BitWidth():
			return newTemp(target, v.B.NewCast(coreir.CastIntTrunc, rv, target)), nil
		case sp.IsSigned():
			return newTemp(target, v.B.NewCast(coreir.CastIntSExt, rv, target)), nil
		default:
			return newTemp(target, v.B.NewCast(coreir.CastIntZExt, rv, target)), nil
		}
	case types.ConvIntToFloat:
		sp := operand.Type.(*types.Primitive)
		if sp.IsSigned() {
			return newTemp(target, v.B.NewCast(coreir.CastSIToFP, rv, target)), nil
		}
		return newTemp(target, v.B.NewCast(coreir.CastUIToFP, rv, target)), nil
	case types.ConvFloatToInt:
		tp := target.(*types.Primitive)
		if tp.IsSigned() {
			return newTemp(target, v.B.NewCast(coreir.CastFPToSI, rv, target)), nil
		}
		return newTemp(target, v.B.NewCast(coreir.CastFPToUI, rv, target)), nil
	case types.ConvFloatWiden:
		return newTemp(target, v.B.NewCast(coreir.CastFPExt, rv, target)), nil
	case types.ConvFloatNarrow:
		return newTemp(target, v.B.NewCast(coreir.CastFPTrunc, rv, target)), nil
	case types.ConvPointerBitcast:
		return newTemp(target, v.B.NewCast(coreir.CastBitcast, rv, target)), nil
	case types.ConvClassUpcast, types.ConvClassDowncast:
		return newTemp(target, v.B.NewCast(coreir.CastBitcast, rv, target)), nil
	}
	return nil, errf(diag.InvalidType, n.Pos(), "no conversion from %s to %s", operand.Type, target)
}

func (v *Visitor) lowerSizeofExpr(n *ast.SizeofExpr, sc *scope.Scope) (*types.Value, error) {
	var t types.Type
	var err error
	if n.Type != nil {
		t, err = v.resolveType(n.Type, sc)
	} else {
		t, err = v.staticTypeOf(n.Operand, sc)
	}
	if err != nil {
		return nil, err
	}
	return newTemp(types.U64T, v.B.ConstInt(types.U64T, types.SizeOf(t))), nil
}

// staticTypeOf determines an expression's type without emitting its side
// effects, as sizeof(expr) requires. It covers the expression forms that
// commonly appear as a sizeof operand; anything else falls back to full
// lowering (accepting its side effects) since no static-type-only path
// exists for it here.
func (v *Visitor) staticTypeOf(e ast.Expr, sc *scope.Scope) (types.Type, error) {
	switch n := e.(type) {
	case *ast.Literal:
		val, err := v.lowerLiteralTypeOnly(n)
		return val, err
	case *ast.Name:
		na, err := v.lookupPath(n.Path, sc, n.Pos())
		if err != nil {
			return nil, err
		}
		val, err := v.valueFromNameArray(na, n.Path[len(n.Path)-1], n.Pos())
		if err != nil {
			return nil, err
		}
		return val.Type, nil
	case *ast.CastExpr:
		return v.resolveType(n.Target, sc)
	case *ast.UnaryExpr:
		if n.Op == "&" {
			inner, err := v.staticTypeOf(n.Operand, sc)
			if err != nil {
				return nil, err
			}
			return &types.Pointer{Elem: inner}, nil
		}
	}
	val, err := v.lowerExpr(e, sc)
	if err != nil {
		return nil, err
	}
	return val.Type, nil
}

func (v *Visitor) lowerLiteralTypeOnly(n *ast.Literal) (types.Type, error) {
	switch n.Kind {
	case ast.LiteralBool:
		return types.BoolT, nil
	case ast.LiteralDecimalInt, ast.LiteralHexInt, ast.LiteralBinaryInt:
		return types.I32T, nil
	case ast.LiteralFloat:
		return types.F64T, nil
	case ast.LiteralChar:
		return types.I8T, nil
	case ast.LiteralString:
		return &types.Pointer{Elem: types.U8T}, nil
	case ast.LiteralNull:
		return &types.Pointer{Elem: types.VoidT}, nil
	}
	return nil, errf(diag.Unimplemented, n.Pos(), "unhandled literal kind")
}

// ---- calls ------------------------------------------------------------------

func (v *Visitor) lowerCallExpr(n *ast.CallExpr, sc *scope.Scope) (*types.Value, error) {
	args := make([]*types.Value, len(n.Args))
	for i, a := range n.Args {
		val, err := v.lowerExpr(a, sc)
		if err != nil {
			return nil, err
		}
		args[i] = val
	}

	switch callee := n.Callee.(type) {
	case *ast.Name:
		na, err := v.lookupPath(callee.Path, sc, n.Pos())
		if err != nil {
			return nil, err
		}
		fn, err := resolveOverload(na, args, n.Pos(), callee.Path[len(callee.Path)-1])
		if err != nil {
			return nil, err
		}
		return v.callResolved(fn, nil, args, n.Pos())
	case *ast.ScopeResolveExpr:
		na, err := v.lookupPath(callee.Path, sc, n.Pos())
		if err != nil {
			return nil, err
		}
		fn, err := resolveOverload(na, args, n.Pos(), callee.Path[len(callee.Path)-1])
		if err != nil {
			return nil, err
		}
		return v.callResolved(fn, nil, args, n.Pos())
	case *ast.PropertyExpr:
		obj, err := v.lowerExpr(callee.Object, sc)
		if err != nil {
			return nil, err
		}
		recv := obj
		if callee.Arrow {
			ptr, ok := obj.Type.(*types.Pointer)
			if !ok {
				return nil, errf(diag.NotPointer, n.Pos(), "-> requires a pointer operand")
			}
			recv = &types.Value{Type: ptr.Elem, Ref: v.rvalue(obj), IsAlloca: true}
		}
		class, ok := recv.Type.(*types.Class)
		if !ok {
			return nil, errf(diag.NotClassType, n.Pos(), "method call on a non-class value")
		}
		na, ok := memberNames(class, callee.Name)
		if !ok {
			return nil, errf(diag.PropertyNotFound, n.Pos(), "%s has no method %q", class.Name, callee.Name)
		}
		fn, err := resolveOverload(na, args, n.Pos(), callee.Name)
		if err != nil {
			return nil, err
		}
		return v.callResolved(fn, recv, args, n.Pos())
	}
	return nil, errf(diag.Unimplemented, n.Pos(), "unsupported call target")
}

// memberNames finds name's NameArray in class's own instance scope,
// falling back to its parents (depth-first) when class itself doesn't
// declare it — override semantics, not overload-set merging across levels.
func memberNames(class *types.Class, name string) (scope.NameArray, bool) {
	if class.InstanceScope != nil {
		if na, ok := class.InstanceScope.LocalNames(name); ok {
			return na, true
		}
	}
	for _, p := range class.Parents {
		if na, ok := memberNames(p, name); ok {
			return na, true
		}
	}
	return nil, false
}

// callResolved emits the actual IR call for fn, threading the sret
// hidden-pointer argument and the implicit "this" receiver ahead of the
// user-supplied, individually-coerced arguments: [sret?, this?, args...].
func (v *Visitor) callResolved(fn *types.Function, recv *types.Value, args []*types.Value, pos token.Position) (*types.Value, error) {
	if fn.Generated == nil {
		return nil, errf(diag.Unimplemented, pos, "call to %s before its body was generated", fn.Name)
	}

	var callArgs []coreir.Value
	var sretAlloca coreir.Value
	if fn.IsSRet {
		sretAlloca = v.B.NewAlloca(fn.Return, "sret")
		callArgs = append(callArgs, sretAlloca)
	}
	if fn.IsMethod {
		if recv == nil {
			return nil, errf(diag.InvalidValue, pos, "%s requires a receiver", fn.Name)
		}
		callArgs = append(callArgs, v.addrOf(recv))
	}
	for i, a := range args {
		if i < len(fn.Args) {
			if types.CompatibilityOfValue(a, fn.Args[i].Type) == types.NotCompatible {
				return nil, errf(diag.InvalidRightValue, pos, "argument %d to %s: cannot convert %s to %s", i+1, fn.Name, a.Type, fn.Args[i].Type)
			}
			callArgs = append(callArgs, v.coerce(a, fn.Args[i].Type))
			continue
		}
		callArgs = append(callArgs, v.rvalue(a)) // trailing variadic argument
	}

	result := v.B.NewCall(fn.Generated, callArgs)
	switch {
	case fn.IsSRet:
		return &types.Value{Type: fn.Return, Ref: sretAlloca, IsAlloca: true, IsTemporary: true}, nil
	case isVoid(fn.Return):
		return &types.Value{Type: fn.Return, Ref: result}, nil
	default:
		return newTemp(fn.Return, result), nil
	}
}

func isVoid(t types.Type) bool {
	p, ok := t.(*types.Primitive)
	return ok && p.P == types.Void
}

// ---- property / index / instantiation --------------------------------------

func (v *Visitor) lowerPropertyExpr(n *ast.PropertyExpr, sc *scope.Scope) (*types.Value, error) {
	obj, err := v.lowerExpr(n.Object, sc)
	if err != nil {
		return nil, err
	}
	recv := obj
	if n.Arrow {
		ptr, ok := obj.Type.(*types.Pointer)
		if !ok {
			return nil, errf(diag.NotPointer, n.Pos(), "-> requires a pointer operand")
		}
		recv = &types.Value{Type: ptr.Elem, Ref: v.rvalue(obj), IsAlloca: true}
	}

	switch t := recv.Type.(type) {
	case *types.Class:
		chain, prop, _, ok := t.FindParentChain(n.Name)
		if !ok {
			return nil, errf(diag.PropertyNotFound, n.Pos(), "%s has no property %q", t.Name, n.Name)
		}
		path := gepPath(chain, prop)
		addr := v.B.NewGEP(t, recv.Ref, path)
		return &types.Value{Type: prop.Type, Ref: addr, IsAlloca: true}, nil
	case *types.Union:
		for _, p := range t.Props {
			if p.Name == n.Name && !p.Static {
				addr := v.B.NewGEP(t, recv.Ref, []int64{0, 0})
				return &types.Value{Type: p.Type, Ref: addr, IsAlloca: true}, nil
			}
		}
		return nil, errf(diag.PropertyNotFound, n.Pos(), "%s has no property %q", t.Name, n.Name)
	}
	return nil, errf(diag.NotClassType, n.Pos(), "%q is not a class or union value", n.Name)
}

// lowerIndexExpr implements "object[index]" via manual pointer arithmetic:
// the Builder's GEP only takes compile-time indices, so a runtime index
// is applied as base-pointer-as-integer + index*sizeof(elem), cast back.
func (v *Visitor) lowerIndexExpr(n *ast.IndexExpr, sc *scope.Scope) (*types.Value, error) {
	obj, err := v.lowerExpr(n.Object, sc)
	if err != nil {
		return nil, err
	}
	idx, err := v.lowerExpr(n.Index, sc)
	if err != nil {
		return nil, err
	}

	var elemType types.Type
	var basePtr coreir.Value
	switch t := obj.Type.(type) {
	case *types.Array:
		elemType = t.Elem
		basePtr = v.B.NewGEP(t, obj.Ref, []int64{0, 0})
	case *types.Pointer:
		elemType = t.Elem
		basePtr = v.rvalue(obj)
	default:
		return nil, errf(diag.NotPointer, n.Pos(), "index requires an array or pointer operand")
	}

	addrInt := v.B.NewCast(coreir.CastPtrToInt, basePtr, types.I64T)
	idxWide := v.widenToI64(idx)
	elemSize := v.B.ConstInt(types.I64T, types.SizeOf(elemType))
	offset := v.B.NewBinOp(coreir.Mul, types.I64T, idxWide, elemSize)
	resultInt := v.B.NewBinOp(coreir.Add, types.I64T, addrInt, offset)
	addr := v.B.NewCast(coreir.CastIntToPtr, resultInt, &types.Pointer{Elem: elemType})
	return &types.Value{Type: elemType, Ref: addr, IsAlloca: true}, nil
}

func (v *Visitor) widenToI64(val *types.Value) coreir.Value {
	prim, ok := val.Type.(*types.Primitive)
	rv := v.rvalue(val)
	if !ok {
		return rv
	}
	if prim.P == types.I64 || prim.P == types.U64 {
		return rv
	}
	if prim.IsSigned() {
		return v.B.NewCast(coreir.CastIntSExt, rv, types.I64T)
	}
	return v.B.NewCast(coreir.CastIntZExt, rv, types.I64T)
}

func (v *Visitor) lowerInstantiationExpr(n *ast.InstantiationExpr, sc *scope.Scope) (*types.Value, error) {
	t, err := v.resolveType(n.Type, sc)
	if err != nil {
		return nil, err
	}

	alloca := v.B.NewAlloca(t, "inst")
	named := make(map[string]bool, len(n.Names))
	for i, name := range n.Names {
		named[name] = true
		val, err := v.lowerExpr(n.Vals[i], sc)
		if err != nil {
			return nil, err
		}
		var fieldType types.Type
		var addr coreir.Value
		switch ct := t.(type) {
		case *types.Class:
			chain, prop, _, ok := ct.FindParentChain(name)
			if !ok {
				return nil, errf(diag.PropertyNotFound, n.Pos(), "%s has no property %q", ct.Name, name)
			}
			fieldType = prop.Type
			addr = v.B.NewGEP(ct, alloca, gepPath(chain, prop))
		case *types.Union:
			found := false
			for _, p := range ct.Props {
				if p.Name == name && !p.Static {
					fieldType = p.Type
					addr = v.B.NewGEP(ct, alloca, []int64{0, 0})
					found = true
					break
				}
			}
			if !found {
				return nil, errf(diag.PropertyNotFound, n.Pos(), "%s has no property %q", ct.Name, name)
			}
		default:
			return nil, errf(diag.NotClassType, n.Pos(), "%s is not a class or union type", t)
		}
		if types.CompatibilityOfValue(val, fieldType) == types.NotCompatible {
			return nil, errf(diag.InvalidRightValue, n.Pos(), "cannot initialize %q of type %s from %s", name, fieldType, val.Type)
		}
		v.B.NewStore(v.coerce(val, fieldType), addr)
	}

	if ct, ok := t.(*types.Class); ok {
		for _, prop := range ct.Props {
			if prop.Static || named[prop.Name] || prop.Default == nil {
				continue
			}
			addr := v.B.NewGEP(ct, alloca, gepPath([]*types.Class{ct}, prop))
			v.B.NewStore(prop.Default, addr)
		}
	}
	return &types.Value{Type: t, Ref: alloca, IsAlloca: true, IsTemporary: true}, nil
}
