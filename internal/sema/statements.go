package sema

import (
	"github.com/xenon-lang/xenon/internal/ast"
	"github.com/xenon-lang/xenon/internal/diag"
	coreir "github.com/xenon-lang/xenon/internal/ir"
	"github.com/xenon-lang/xenon/internal/scope"
	"github.com/xenon-lang/xenon/internal/types"
)

// lowerBody traverses stmts in declaration order, adopting the status of
// the first statement that is not StatusNone and stopping traversal there.
func (v *Visitor) lowerBody(body *ast.Body, sc *scope.Scope) (Status, error) {
	for _, stmt := range body.Stmts {
		status, err := v.lowerStmt(stmt, sc)
		if err != nil {
			return StatusNone, err
		}
		if status != StatusNone {
			return status, nil
		}
	}
	return StatusNone, nil
}

func (v *Visitor) lowerStmt(stmt ast.Stmt, sc *scope.Scope) (Status, error) {
	switch n := stmt.(type) {
	case *ast.ExprStmt:
		_, err := v.lowerExpr(n.Expr, sc)
		return StatusNone, err
	case *ast.VarDecl:
		return StatusNone, v.lowerVarDecl(n, sc)
	case *ast.ReturnStmt:
		return v.lowerReturn(n, sc)
	case *ast.BreakStmt:
		return v.lowerBreak(n, sc)
	case *ast.ContinueStmt:
		return v.lowerContinue(n, sc)
	case *ast.IfStmt:
		return v.lowerIf(n, sc)
	case *ast.WhileStmt:
		return v.lowerWhile(n, sc)
	case *ast.ForStmt:
		return v.lowerFor(n, sc)
	case *ast.FunctionDecl:
		return StatusNone, v.lowerFunctionDecl(n, sc)
	case *ast.NamespaceStmt:
		return StatusNone, v.lowerNamespace(n, sc)
	case *ast.ClassStmt:
		return StatusNone, v.lowerClassStmt(n, sc)
	case *ast.SpecialClassStmt:
		return StatusNone, v.lowerSpecialClassStmt(n, sc)
	case *ast.UnionStmt:
		return StatusNone, v.lowerUnionStmt(n, sc)
	case *ast.EnumStmt:
		return StatusNone, v.lowerEnumStmt(n, sc)
	case *ast.AliasStmt:
		return StatusNone, v.lowerAliasStmt(n, sc)
	case *ast.ImportStmt:
		return StatusNone, v.lowerImportStmt(n, sc)
	case *ast.AsmStmt:
		return StatusNone, v.lowerAsmStmt(n, sc)
	}
	return StatusNone, errf(diag.Unimplemented, stmt.Pos(), "unhandled statement kind %T", stmt)
}

func (v *Visitor) lowerVarDecl(n *ast.VarDecl, sc *scope.Scope) error {
	var declType types.Type
	var init *types.Value
	var err error

	if n.Type != nil {
		declType, err = v.resolveType(n.Type, sc)
		if err != nil {
			return err
		}
	}
	if n.Init != nil {
		init, err = v.lowerExpr(n.Init, sc)
		if err != nil {
			return err
		}
		if declType == nil {
			declType = types.Decay(init.Type)
		}
	}
	if declType == nil {
		return errf(diag.InvalidType, n.Pos(), "cannot infer type of %q without an initializer", n.Name)
	}

	alloca := v.B.NewAlloca(declType, n.Name)
	if init != nil {
		if types.CompatibilityOfValue(init, declType) == types.NotCompatible {
			return errf(diag.InvalidRightValue, n.Pos(), "cannot initialize %q of type %s from %s", n.Name, declType, init.Type)
		}
		v.B.NewStore(v.coerce(init, declType), alloca)
	}
	v.declareLocal(sc, n.Name, &types.Value{Type: declType, Ref: alloca, IsAlloca: true, CanBeTaken: true})
	return nil
}

// coerce reduces val to the plain rvalue a store/return/parameter slot of
// type target expects, following whichever CompatibilityOfValue path
// applied: an implicit reference load, an implicit reference bind, or a
// direct rvalue read.
func (v *Visitor) coerce(val *types.Value, target types.Type) coreir.Value {
	if srcRef, ok := val.Type.(*types.Reference); ok {
		if _, wantRef := target.(*types.Reference); !wantRef {
			return v.B.NewLoad(srcRef.Elem, v.rvalue(val))
		}
	}
	if _, wantRef := target.(*types.Reference); wantRef && val.IsAlloca && !val.IsTemporary {
		return val.Ref
	}
	return v.rvalue(val)
}

func (v *Visitor) lowerReturn(n *ast.ReturnStmt, sc *scope.Scope) (Status, error) {
	fc, ok := sc.EnclosingFunction().(*funcContext)
	if !ok {
		return StatusNone, errf(diag.ReturnOutsideFunction, n.Pos(), "return outside function")
	}

	if n.Value == nil {
		v.destructUpTo(sc, fc.bodyScope.Parent())
		v.B.NewBr(fc.RetBlock)
		return StatusReturned, nil
	}

	val, err := v.lowerExpr(n.Value, sc)
	if err != nil {
		return StatusNone, err
	}
	if types.CompatibilityOfValue(val, fc.RetType) == types.NotCompatible {
		return StatusNone, errf(diag.ReturnTypeMismatch, n.Pos(), "return value of type %s does not match return type %s", val.Type, fc.RetType)
	}

	switch {
	case fc.IsSRet:
		v.B.NewStore(v.B.NewLoad(val.Type, v.addrOf(val)), fc.SRetArg)
	case fc.RetSlot != nil:
		v.B.NewStore(v.coerce(val, fc.RetType), fc.RetSlot)
	}

	v.destructUpTo(sc, fc.bodyScope.Parent())
	v.B.NewBr(fc.RetBlock)
	return StatusReturned, nil
}

// addrOf returns val's address, materializing a fresh alloca for a
// temporary so an aggregate rvalue can still be loaded back whole by an
// SRet return.
func (v *Visitor) addrOf(val *types.Value) coreir.Value {
	if val.IsAlloca {
		return val.Ref
	}
	tmp := v.B.NewAlloca(val.Type, "sret.tmp")
	v.B.NewStore(val.Ref, tmp)
	return tmp
}

func (v *Visitor) lowerBreak(n *ast.BreakStmt, sc *scope.Scope) (Status, error) {
	li, ok := sc.EnclosingLoopEnd().(*loopInfo)
	if !ok {
		return StatusNone, errf(diag.Syntax, n.Pos(), "break outside loop")
	}
	v.destructUpTo(sc, li.bodyScope.Parent())
	v.B.NewBr(li.EndTarget)
	return StatusBreaked, nil
}

func (v *Visitor) lowerContinue(n *ast.ContinueStmt, sc *scope.Scope) (Status, error) {
	li, ok := sc.EnclosingLoopEnd().(*loopInfo)
	if !ok {
		return StatusNone, errf(diag.Syntax, n.Pos(), "continue outside loop")
	}
	v.destructUpTo(sc, li.bodyScope.Parent())
	v.B.NewBr(li.ContinueTarget)
	return StatusContinued, nil
}

// destructUpTo emits destructor calls for every scope strictly between sc
// and target (target itself excluded), innermost scope's owners first —
// exactly the set of live class-typed bindings a jump from sc to a point
// still inside target leaves behind.
func (v *Visitor) destructUpTo(sc *scope.Scope, target *scope.Scope) {
	for cur := sc; cur != nil && cur != target; cur = cur.Parent() {
		for _, o := range cur.Owners() {
			v.callDestructor(o)
		}
	}
}

func (v *Visitor) callDestructor(o scope.Owner) {
	class, ok := o.Class.(*types.Class)
	if !ok {
		return
	}
	val, ok := o.Value.(*types.Value)
	if !ok {
		return
	}
	dtor, ok := lookupMethod(class, "@dtor")
	if !ok || dtor.Generated == nil {
		return
	}
	v.B.NewCall(dtor.Generated, []coreir.Value{val.Ref})
}

// lookupMethod searches class's instance scope, then its parents in
// declared order, for a method named name.
func lookupMethod(class *types.Class, name string) (*types.Function, bool) {
	if class.InstanceScope != nil {
		if na, ok := class.InstanceScope.LocalNames(name); ok {
			if fn, ok := scope.ResolveAlias(na.Last()).(*types.Function); ok {
				return fn, true
			}
		}
	}
	for _, p := range class.Parents {
		if fn, ok := lookupMethod(p, name); ok {
			return fn, true
		}
	}
	return nil, false
}

func (v *Visitor) lowerIf(n *ast.IfStmt, sc *scope.Scope) (Status, error) {
	cond, err := v.lowerExpr(n.Cond, sc)
	if err != nil {
		return StatusNone, err
	}
	condBool := v.asBool(cond)

	fn := sc.EnclosingFunction().(*funcContext).Func
	thenBlock := v.B.NewBlock(fn, "if.then")
	endBlock := v.B.NewBlock(fn, "if.end")
	elseBlock := endBlock
	if n.Else != nil {
		elseBlock = v.B.NewBlock(fn, "if.else")
	}
	v.B.NewCondBr(condBool, thenBlock, elseBlock)

	v.B.SetInsertPoint(thenBlock)
	thenScope := scope.New(sc)
	thenStatus, err := v.lowerBody(n.Then, thenScope)
	if err != nil {
		return StatusNone, err
	}
	if thenStatus == StatusNone {
		v.destructUpTo(thenScope, sc)
		v.B.NewBr(endBlock)
	}

	elseStatus := StatusNone
	if n.Else != nil {
		v.B.SetInsertPoint(elseBlock)
		elseScope := scope.New(sc)
		elseStatus, err = v.lowerBody(n.Else, elseScope)
		if err != nil {
			return StatusNone, err
		}
		if elseStatus == StatusNone {
			v.destructUpTo(elseScope, sc)
			v.B.NewBr(endBlock)
		}
	}

	v.B.SetInsertPoint(endBlock)

	// Both arms leaving via a non-fallthrough status (return, break or
	// continue) means endBlock has no predecessor; it is still reported as
	// StatusNone so the caller closes it, either with the next statement or
	// with the function body's own implicit trailing branch.
	return StatusNone, nil
}

// asBool reduces val to an i1 suitable for a conditional branch: used
// as-is if already bool, otherwise compared against its type's zero value.
func (v *Visitor) asBool(val *types.Value) coreir.Value {
	if prim, ok := val.Type.(*types.Primitive); ok && prim.P == types.Bool {
		return v.rvalue(val)
	}
	rv := v.rvalue(val)
	zero := v.B.ConstNull(val.Type)
	if prim, ok := val.Type.(*types.Primitive); ok && prim.IsInteger() {
		zero = v.B.ConstInt(val.Type, 0)
	} else if ok && prim.IsFloat() {
		zero = v.B.ConstFloat(val.Type, 0)
	}
	return v.B.NewCmp(predNE(val.Type), rv, zero)
}

func predNE(t types.Type) coreir.Predicate {
	if prim, ok := t.(*types.Primitive); ok && prim.IsFloat() {
		return coreir.FONE
	}
	return coreir.INE
}

func addOpFor(t types.Type) coreir.BinOp {
	if prim, ok := t.(*types.Primitive); ok && prim.IsFloat() {
		return coreir.FAdd
	}
	return coreir.Add
}

func (v *Visitor) lowerWhile(n *ast.WhileStmt, sc *scope.Scope) (Status, error) {
	fn := sc.EnclosingFunction().(*funcContext).Func
	condBlock := v.B.NewBlock(fn, "while.cond")
	bodyBlock := v.B.NewBlock(fn, "while.body")
	endBlock := v.B.NewBlock(fn, "while.end")

	v.B.NewBr(condBlock)
	v.B.SetInsertPoint(condBlock)
	cond, err := v.lowerExpr(n.Cond, sc)
	if err != nil {
		return StatusNone, err
	}
	v.B.NewCondBr(v.asBool(cond), bodyBlock, endBlock)

	v.B.SetInsertPoint(bodyBlock)
	bodyScope := scope.New(sc)
	bodyScope.LoopEnd = &loopInfo{ContinueTarget: condBlock, EndTarget: endBlock, bodyScope: bodyScope}
	status, err := v.lowerBody(n.Body, bodyScope)
	if err != nil {
		return StatusNone, err
	}
	if status == StatusNone {
		v.destructUpTo(bodyScope, sc)
		v.B.NewBr(condBlock)
	}

	v.B.SetInsertPoint(endBlock)
	return StatusNone, nil
}

// lowerFor lowers the range-based "for x in iterable { ... }" form: the
// iterable is evaluated once into a stack slot, begin()/end() are called
// against its address, the loop compares the running iterator against a
// freshly re-evaluated end() each pass, binds the loop variable to the
// iterator's pointee, and advances the iterator by one after the body.
func (v *Visitor) lowerFor(n *ast.ForStmt, sc *scope.Scope) (Status, error) {
	fn := sc.EnclosingFunction().(*funcContext).Func

	iterable, err := v.lowerExpr(n.Iterable, sc)
	if err != nil {
		return StatusNone, err
	}
	srcAlloca := v.B.NewAlloca(iterable.Type, "it-source")
	v.B.NewStore(v.rvalue(iterable), srcAlloca)

	beginFn, ok := v.lookupTypeMethod(iterable.Type, "begin")
	if !ok {
		return StatusNone, errf(diag.InvalidRange, n.Pos(), "type %s has no begin() method", iterable.Type)
	}
	endFn, ok := v.lookupTypeMethod(iterable.Type, "end")
	if !ok {
		return StatusNone, errf(diag.InvalidRange, n.Pos(), "type %s has no end() method", iterable.Type)
	}
	if beginFn.Generated == nil || endFn.Generated == nil {
		return StatusNone, errf(diag.Unimplemented, n.Pos(), "begin()/end() not yet generated for type %s", iterable.Type)
	}

	beginCall := v.B.NewCall(beginFn.Generated, []coreir.Value{srcAlloca})
	iterAlloca := v.B.NewAlloca(beginFn.Return, "iter")
	v.B.NewStore(beginCall, iterAlloca)

	condBlock := v.B.NewBlock(fn, "for.cond")
	bodyBlock := v.B.NewBlock(fn, "for.body")
	incBlock := v.B.NewBlock(fn, "for.inc")
	endBlock := v.B.NewBlock(fn, "for.end")

	v.B.NewBr(condBlock)
	v.B.SetInsertPoint(condBlock)
	iterLoaded := v.B.NewLoad(beginFn.Return, iterAlloca)
	endCall := v.B.NewCall(endFn.Generated, []coreir.Value{srcAlloca})
	cmp := v.B.NewCmp(predNE(beginFn.Return), iterLoaded, endCall)
	v.B.NewCondBr(cmp, bodyBlock, endBlock)

	v.B.SetInsertPoint(bodyBlock)
	bodyScope := scope.New(sc)
	bodyScope.LoopEnd = &loopInfo{ContinueTarget: incBlock, EndTarget: endBlock, bodyScope: bodyScope}
	loopVarType, loopVarRef := v.derefIterator(beginFn.Return, iterLoaded)
	v.declareLocal(bodyScope, n.Var, &types.Value{Type: loopVarType, Ref: loopVarRef, IsAlloca: true})

	status, err := v.lowerBody(n.Body, bodyScope)
	if err != nil {
		return StatusNone, err
	}
	if status == StatusNone {
		v.destructUpTo(bodyScope, sc)
		v.B.NewBr(incBlock)
	}

	v.B.SetInsertPoint(incBlock)
	// Advancing the iterator by a plain "+1" is the built-in pointer/index
	// iterator form; a user-defined "operator++" is a documented extension
	// point this core does not yet model.
	one := v.B.ConstInt(beginFn.Return, 1)
	cur := v.B.NewLoad(beginFn.Return, iterAlloca)
	next := v.B.NewBinOp(addOpFor(beginFn.Return), beginFn.Return, cur, one)
	v.B.NewStore(next, iterAlloca)
	v.B.NewBr(condBlock)

	v.B.SetInsertPoint(endBlock)
	return StatusNone, nil
}

// derefIterator yields the loop variable's type and address. A pointer
// iterator's pointee is the loop variable, and the loaded pointer value is
// already its address; any other iterator type is bound by value through a
// freshly materialized alloca.
func (v *Visitor) derefIterator(iterType types.Type, iterVal coreir.Value) (types.Type, coreir.Value) {
	if ptr, ok := iterType.(*types.Pointer); ok {
		return ptr.Elem, iterVal
	}
	tmp := v.B.NewAlloca(iterType, "iter.val")
	v.B.NewStore(iterVal, tmp)
	return iterType, tmp
}

// lookupTypeMethod resolves name as an instance method of t, the form
// for-loop begin()/end() resolution needs.
func (v *Visitor) lookupTypeMethod(t types.Type, name string) (*types.Function, bool) {
	class, ok := t.(*types.Class)
	if !ok {
		return nil, false
	}
	return lookupMethod(class, name)
}

func (v *Visitor) lowerNamespace(n *ast.NamespaceStmt, sc *scope.Scope) error {
	if !v.attributeApplies(n.Attrs) {
		return nil
	}
	var ns *scope.Scope
	if existing, ok := sc.LocalNames(n.Name); ok {
		ns, _ = scope.ResolveAlias(existing.Last()).(*scope.Scope)
	}
	if ns == nil {
		ns = scope.New(sc)
		sc.Declare(n.Name, ns)
	}
	_, err := v.lowerBody(n.Body, ns)
	return err
}
