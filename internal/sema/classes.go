package sema

import (
	"fmt"

	"github.com/xenon-lang/xenon/internal/ast"
	"github.com/xenon-lang/xenon/internal/diag"
	"github.com/xenon-lang/xenon/internal/generics"
	coreir "github.com/xenon-lang/xenon/internal/ir"
	"github.com/xenon-lang/xenon/internal/scope"
	"github.com/xenon-lang/xenon/internal/token"
	"github.com/xenon-lang/xenon/internal/types"
)

// ---- shared declaration helpers --------------------------------------------

// isAggregate reports whether t is returned via a hidden sret pointer rather
// than in registers: every class/union/array is "large" in that sense here,
// since the type model draws no smaller-aggregate distinction of its own.
func isAggregate(t types.Type) bool {
	switch t.(type) {
	case *types.Class, *types.Union, *types.Array:
		return true
	}
	return false
}

// linkageFor implements the one linkage rule this core draws: main and any
// function attributed extern are externally visible; everything else is
// link-once, so identical generic instantiations across translation units
// collapse into a single definition at link time.
func linkageFor(name string, attrs []ast.Attribute) coreir.Linkage {
	if name == "main" || ast.HasAttribute(attrs, "extern") {
		return coreir.External
	}
	return coreir.LinkOnceODR
}

// overloadSymbolName returns the backend symbol base should be generated
// under: base itself, unchanged, unless declaringScope already holds another
// *types.Function under the same key (an overload) and linkage isn't fixed
// by an external contract (extern, or main's C entry point name) — in which
// case it gets a ".N" disambiguating suffix, N counting the *types.Function
// entries already declared there. Distinct overloads would otherwise emit
// colliding global symbol names, since this core's calling convention
// encodes an overload set as same-name entries in one NameArray rather than
// mangling by argument types.
func overloadSymbolName(base string, declaringScope *scope.Scope, fixed bool) string {
	if fixed {
		return base
	}
	na, ok := declaringScope.LocalNames(base)
	if !ok {
		return base
	}
	count := 0
	for _, n := range na {
		if _, ok := n.(*types.Function); ok {
			count++
		}
	}
	if count == 0 {
		return base
	}
	return fmt.Sprintf("%s.%d", base, count)
}

// attrsToFunctionAttrs projects the subset of a declaration's attributes
// relevant to a Function's own Attrs/TargetGlob fields.
func attrsToFunctionAttrs(attrs []ast.Attribute) (map[string]bool, string) {
	m := make(map[string]bool)
	if ast.HasAttribute(attrs, "noinline") {
		m["noinline"] = true
	}
	if ast.HasAttribute(attrs, "extern") {
		m["extern"] = true
	}
	var targetGlob string
	if a, ok := ast.FindAttribute(attrs, "target"); ok && len(a.Args) > 0 {
		targetGlob = a.Args[0]
	}
	return m, targetGlob
}

// zeroValue produces a type's default-constructed constant: the integer or
// float zero for a scalar, and the backend's generic null representation
// (zero bytes) for anything else — a pointer, or a still-opaque aggregate
// whose own per-field defaults are applied by its constructor, not here.
func (v *Visitor) zeroValue(t types.Type) coreir.Value {
	if prim, ok := t.(*types.Primitive); ok {
		if prim.IsFloat() {
			return v.B.ConstFloat(t, 0)
		}
		if prim.IsInteger() || prim.P == types.Bool {
			return v.B.ConstInt(t, 0)
		}
	}
	return v.B.ConstNull(t)
}

// buildFunctionSig resolves decl's argument and return types into a
// Function signature, without creating the backend function yet — shared by
// free functions, static functions, and class/union methods alike.
func (v *Visitor) buildFunctionSig(decl *ast.FunctionDecl, isMethod, isStatic bool, resolveScope *scope.Scope) (*types.Function, error) {
	args := make([]types.FunctionArg, len(decl.Args))
	for i, a := range decl.Args {
		t, err := v.resolveType(a.Type, resolveScope)
		if err != nil {
			return nil, err
		}
		args[i] = types.FunctionArg{Name: a.Name, Type: t}
	}
	ret := types.Type(types.VoidT)
	if decl.ReturnType != nil {
		t, err := v.resolveType(decl.ReturnType, resolveScope)
		if err != nil {
			return nil, err
		}
		ret = t
	}
	attrs, targetGlob := attrsToFunctionAttrs(decl.Attrs)
	return &types.Function{
		Name:       decl.Name,
		Args:       args,
		Return:     ret,
		Variadic:   decl.Variadic,
		IsMethod:   isMethod,
		IsSRet:     isAggregate(ret),
		IsStatic:   isStatic,
		Attrs:      attrs,
		TargetGlob: targetGlob,
	}, nil
}

// lowerFunctionDecl lowers a free (non-member) function: its signature and
// symbol are created and declared, and its body lowered, immediately, with
// no pending-method deferral. A call inside the body therefore resolves only
// against functions declared before it (or the function itself); a free
// function declared later in the same scope is not yet visible.
func (v *Visitor) lowerFunctionDecl(n *ast.FunctionDecl, sc *scope.Scope) error {
	if !v.attributeApplies(n.Attrs) {
		return nil
	}
	sig, err := v.buildFunctionSig(n, false, false, sc)
	if err != nil {
		return err
	}
	linkage := linkageFor(n.Name, n.Attrs)
	symbol := overloadSymbolName(n.Name, sc, linkage == coreir.External)
	sig.Generated = v.B.NewFunc(symbol, sig, linkage)
	sc.Declare(n.Name, sig)
	if n.Body == nil {
		return nil
	}
	return v.lowerFunctionBody(sig, n.Body, sc, nil)
}

// lowerFunctionBody generates the IR body of an already-signatured function:
// entry block, parameter binding in the [sret?, this?, args...] order
// callResolved emits calls in, a distinguished return slot and exit block,
// and the body statements themselves.
func (v *Visitor) lowerFunctionBody(fn *types.Function, body *ast.Body, parentScope *scope.Scope, thisType types.Type) error {
	cursor := coreir.Save(v.B)
	defer cursor.Restore()

	irFn := fn.Generated
	entry := v.B.NewBlock(irFn, "entry")
	v.B.SetInsertPoint(entry)

	bodyScope := scope.New(parentScope)
	fc := &funcContext{Func: irFn, RetType: fn.Return, IsSRet: fn.IsSRet, bodyScope: bodyScope}
	bodyScope.Function = fc

	idx := 0
	if fn.IsSRet {
		fc.SRetArg = v.B.FuncParam(irFn, idx)
		idx++
	}
	if fn.IsMethod {
		fc.ThisValue = &types.Value{Type: thisType, Ref: v.B.FuncParam(irFn, idx)}
		bodyScope.Declare("this", fc.ThisValue)
		idx++
	}
	for i, arg := range fn.Args {
		param := v.B.FuncParam(irFn, idx+i)
		alloca := v.B.NewAlloca(arg.Type, arg.Name)
		v.B.NewStore(param, alloca)
		v.declareLocal(bodyScope, arg.Name, &types.Value{Type: arg.Type, Ref: alloca, IsAlloca: true})
	}

	retBlock := v.B.NewBlock(irFn, "return")
	fc.RetBlock = retBlock
	if !fn.IsSRet && !isVoid(fn.Return) {
		fc.RetSlot = v.B.NewAlloca(fn.Return, "ret.slot")
	}

	status, err := v.lowerBody(body, bodyScope)
	if err != nil {
		return err
	}
	if status == StatusNone {
		v.destructUpTo(bodyScope, parentScope)
		v.B.NewBr(retBlock)
	}

	v.B.SetInsertPoint(retBlock)
	switch {
	case fn.IsSRet, isVoid(fn.Return):
		v.B.NewRet(nil)
	default:
		v.B.NewRet(v.B.NewLoad(fn.Return, fc.RetSlot))
	}
	return nil
}

// ---- classes ----------------------------------------------------------------

// lowerClassStmt either registers n as a generic template (deferred entirely
// until some reference instantiates it with concrete arguments) or, for a
// non-generic class, builds and seals its layout and generates its methods
// right away.
func (v *Visitor) lowerClassStmt(n *ast.ClassStmt, sc *scope.Scope) error {
	if !v.attributeApplies(n.Attrs) {
		return nil
	}
	if len(n.Generics) > 0 {
		wrapper := &types.GenericWrapper{Name: n.Name, Target: types.WrapsClass, Params: n.Generics, Template: n, Enclosing: sc}
		sc.Declare(n.Name, wrapper)
		return nil
	}

	class, err := v.buildClassShell(n.Name, n.Extends, n.Attrs, sc)
	if err != nil {
		return err
	}
	sc.Declare(n.Name, class)
	return v.lowerClassBody(n.Body, class, sc)
}

// lowerSpecialClassStmt implements an explicit template specialization: it
// resolves n's concrete argument tuple, builds and seals the specialized
// class the same way an ordinary instantiation would, and inserts it
// straight into the wrapper's cache via Insert — bypassing CreateShell/
// FinishBody entirely, since there is no template-driven generation step
// left to run once this body has supplied the specialization directly. A
// later reference that would otherwise trigger ordinary template
// instantiation finds this entry already cached and reuses it.
func (v *Visitor) lowerSpecialClassStmt(n *ast.SpecialClassStmt, sc *scope.Scope) error {
	na, ok := sc.GetNames(n.Name)
	if !ok {
		return errf(diag.UnknownName, n.Pos(), "unknown name %q", n.Name)
	}
	wrapper, ok := scope.ResolveAlias(na.Last()).(*types.GenericWrapper)
	if !ok || wrapper.Target != types.WrapsClass {
		return errf(diag.NotGeneric, n.Pos(), "%q is not a generic class", n.Name)
	}

	args := make([]types.Type, len(n.TypeArgs))
	for i, a := range n.TypeArgs {
		t, err := v.resolveType(a, sc)
		if err != nil {
			return err
		}
		args[i] = t
	}
	if _, exists := wrapper.Lookup(args); exists {
		return errf(diag.MultipleInstances, n.Pos(), "%s is already instantiated for this argument tuple", n.Name)
	}

	instScope := scope.New(wrapper.Enclosing)
	for i, param := range wrapper.Params {
		instScope.Declare(param, args[i])
	}

	class, err := v.buildClassShell(v.mangleSpecialization(n.Name, args), nil, n.Attrs, instScope)
	if err != nil {
		return err
	}
	class.TypeArgs = args
	wrapper.Insert(args, class)
	return v.lowerClassBody(n.Body, class, instScope)
}

// buildClassShell resolves class's parent list against resolveScope and
// allocates its static/instance scopes, but does not yet collect properties
// or pending methods — phase 0 of class lowering, the part a generic
// instantiation's CreateShell must finish before the specialization becomes
// cache-visible to its own recursive references.
func (v *Visitor) buildClassShell(name string, extends []*ast.NameType, attrs []ast.Attribute, resolveScope *scope.Scope) (*types.Class, error) {
	class := &types.Class{
		Name:          name,
		StaticScope:   scope.New(resolveScope),
		InstanceScope: scope.New(resolveScope),
		Packed:        ast.HasAttribute(attrs, "packed"),
	}
	for _, e := range extends {
		t, err := v.resolveNameType(e, resolveScope)
		if err != nil {
			return nil, err
		}
		parent, ok := t.(*types.Class)
		if !ok {
			return nil, errf(diag.NotClass, e.Pos(), "%s does not name a class", t)
		}
		class.Parents = append(class.Parents, parent)
	}
	return class, nil
}

// lowerClassBody runs phase 1 (property/method collection), seals the
// layout, creates the backend struct type, and runs phase 2 (pending-method
// generation) — the full two-phase lowering of one already-shelled class.
func (v *Visitor) lowerClassBody(body *ast.ClassBody, class *types.Class, resolveScope *scope.Scope) error {
	if err := v.layoutClassBody(body, class, resolveScope); err != nil {
		return err
	}
	v.sealClassStruct(class)
	return v.generateClassMethods(class)
}

// sealClassStruct computes class's layout and creates its backend struct
// type — shared by the ordinary lowerClassBody path and a generic
// instantiation's CreateShell, which must stop exactly here and defer
// generateClassMethods to FinishBody.
func (v *Visitor) sealClassStruct(class *types.Class) {
	types.SealClassLayout(class)
	handle := v.B.NewStructType(class.Name, class.Packed)
	v.B.SetStructBody(handle, structFields(class))
	class.IRHandle = handle
}

// layoutClassBody is phase 1: it collects static and instance properties
// (materializing static properties as backend globals immediately, since
// they need no storage layout of their own) and records every method
// signature as a PendingMethod without generating its body — bodies are
// deferred until the layout these bodies' "this" accesses depend on has
// been sealed.
func (v *Visitor) layoutClassBody(body *ast.ClassBody, class *types.Class, resolveScope *scope.Scope) error {
	for _, p := range body.Properties {
		if p.IsStatic {
			prop, err := v.lowerStaticGlobal(p, class.Name, class.StaticScope, resolveScope)
			if err != nil {
				return err
			}
			class.Props = append(class.Props, prop)
			continue
		}
		t, err := v.resolveType(p.Type, resolveScope)
		if err != nil {
			return err
		}
		prop := &types.Property{Name: p.Name, Type: t}
		if p.Default != nil {
			val, err := v.lowerExpr(p.Default, resolveScope)
			if err != nil {
				return err
			}
			prop.Default = v.coerce(val, t)
		}
		class.Props = append(class.Props, prop)
	}

	for _, m := range body.Methods {
		if !v.attributeApplies(m.Decl.Attrs) {
			continue
		}
		sig, err := v.buildFunctionSig(m.Decl, !m.IsStatic, m.IsStatic, resolveScope)
		if err != nil {
			return err
		}
		class.Pending = append(class.Pending, &types.PendingMethod{Name: m.Decl.Name, Static: m.IsStatic, Sig: sig, Decl: m.Decl})
	}

	for _, nested := range body.Nested {
		if _, err := v.lowerStmt(nested, class.StaticScope); err != nil {
			return err
		}
	}
	return nil
}

// lowerStaticGlobal resolves and lowers one static property of a class or
// union into a backend global, declaring it by name into target (the
// owner's static scope) and returning the Property record the owner's Props
// list tracks it under.
func (v *Visitor) lowerStaticGlobal(p *ast.ClassProperty, qualifier string, target *scope.Scope, resolveScope *scope.Scope) (*types.Property, error) {
	t, err := v.resolveType(p.Type, resolveScope)
	if err != nil {
		return nil, err
	}
	var init coreir.Value
	if p.Default != nil {
		val, err := v.lowerExpr(p.Default, resolveScope)
		if err != nil {
			return nil, err
		}
		init = v.coerce(val, t)
	} else {
		init = v.zeroValue(t)
	}
	global := v.B.NewGlobal(qualifier+"::"+p.Name, t, init, false)
	target.Declare(p.Name, &types.Value{Type: t, Ref: global, IsAlloca: true, CanBeTaken: true})
	return &types.Property{Name: p.Name, Type: t, Static: true}, nil
}

// generateClassMethods is phase 2: create every pending method's backend
// symbol (so forward references among sibling methods resolve regardless of
// declaration order), recurse into the classes used as this class's own
// generic arguments (so e.g. Box<Foo>'s methods can call Foo's, already
// generated), and only then lower every pending method's body. class.Pending
// is cleared as soon as it is snapshotted, both as an idempotency guard
// against being reached twice and as the cycle guard a self-referential
// generic body (a method that instantiates the same wrapper again) needs.
func (v *Visitor) generateClassMethods(class *types.Class) error {
	if class.Pending == nil {
		return nil
	}
	pending := class.Pending
	class.Pending = nil

	thisType := &types.Pointer{Elem: class}
	for _, pm := range pending {
		linkage := coreir.LinkOnceODR
		if pm.Sig.Attrs["extern"] {
			linkage = coreir.External
		}
		declaringScope := class.StaticScope
		if !pm.Static {
			declaringScope = class.InstanceScope
		}
		symbol := class.Name + "::" + overloadSymbolName(pm.Name, declaringScope, linkage == coreir.External)
		// The backend function takes the "this" pointer ahead of the declared
		// arguments; pm.Sig itself keeps only the declared ones.
		irSig := pm.Sig
		if !pm.Static {
			withThis := *pm.Sig
			withThis.Args = append([]types.FunctionArg{{Name: "this", Type: thisType}}, pm.Sig.Args...)
			irSig = &withThis
		}
		pm.Sig.Generated = v.B.NewFunc(symbol, irSig, linkage)
		pm.Resolved = pm.Sig
		declaringScope.Declare(pm.Name, pm.Sig)
	}

	for _, argClass := range generics.GenericArgClasses(class) {
		if err := v.generateClassMethods(argClass); err != nil {
			return err
		}
	}

	for _, pm := range pending {
		decl, ok := pm.Decl.(*ast.FunctionDecl)
		if !ok || decl.Body == nil {
			continue
		}
		parentScope := class.StaticScope
		if !pm.Static {
			parentScope = class.InstanceScope
		}
		if err := v.lowerFunctionBody(pm.Sig, decl.Body, parentScope, thisType); err != nil {
			return err
		}
	}
	return nil
}

// ---- unions -------------------------------------------------------------

// lowerUnionStmt either registers n as a generic template or, for a
// non-generic union, builds its shell and lowers its body directly.
func (v *Visitor) lowerUnionStmt(n *ast.UnionStmt, sc *scope.Scope) error {
	if !v.attributeApplies(n.Attrs) {
		return nil
	}
	if len(n.Generics) > 0 {
		wrapper := &types.GenericWrapper{Name: n.Name, Target: types.WrapsUnion, Params: n.Generics, Template: n, Enclosing: sc}
		sc.Declare(n.Name, wrapper)
		return nil
	}
	union := &types.Union{Name: n.Name, StaticScope: scope.New(sc)}
	sc.Declare(n.Name, union)
	return v.lowerUnionBody(n.Body, union, sc)
}

// lowerUnionBody collects a union's properties and methods and seals its
// layout. Unlike Class, Union carries no InstanceScope, Pending queue, or
// TypeArgs field of its own — a deliberately narrower type model, since a
// union's flat, non-inheriting shape gives forward references among its own
// methods no more trouble than an ordinary namespace's. Every method is
// therefore treated as effectively static regardless of its own IsStatic
// (registered into union.StaticScope either way) and the two-phase
// symbol/body split a class needs across separate calls happens here within
// one: every method's symbol is created first, then every body is lowered,
// so sibling methods can still forward-reference each other.
func (v *Visitor) lowerUnionBody(body *ast.ClassBody, union *types.Union, resolveScope *scope.Scope) error {
	for _, p := range body.Properties {
		if p.IsStatic {
			prop, err := v.lowerStaticGlobal(p, union.Name, union.StaticScope, resolveScope)
			if err != nil {
				return err
			}
			union.Props = append(union.Props, prop)
			continue
		}
		t, err := v.resolveType(p.Type, resolveScope)
		if err != nil {
			return err
		}
		union.Props = append(union.Props, &types.Property{Name: p.Name, Type: t})
	}
	for _, nested := range body.Nested {
		if _, err := v.lowerStmt(nested, union.StaticScope); err != nil {
			return err
		}
	}

	types.SealUnionLayout(union)
	handle := v.B.NewStructType(union.Name, false)
	v.B.SetStructBody(handle, unionFields(union))
	union.IRHandle = handle

	methods := body.Methods
	sigs := make([]*types.Function, 0, len(methods))
	for _, m := range methods {
		if !v.attributeApplies(m.Decl.Attrs) {
			sigs = append(sigs, nil)
			continue
		}
		sig, err := v.buildFunctionSig(m.Decl, false, true, resolveScope)
		if err != nil {
			return err
		}
		linkage := linkageFor(m.Decl.Name, m.Decl.Attrs)
		symbol := union.Name + "::" + overloadSymbolName(m.Decl.Name, union.StaticScope, linkage == coreir.External)
		sig.Generated = v.B.NewFunc(symbol, sig, linkage)
		union.StaticScope.Declare(m.Decl.Name, sig)
		sigs = append(sigs, sig)
	}
	for i, m := range methods {
		if sigs[i] == nil || m.Decl.Body == nil {
			continue
		}
		if err := v.lowerFunctionBody(sigs[i], m.Decl.Body, union.StaticScope, nil); err != nil {
			return err
		}
	}
	return nil
}

// ---- enums ----------------------------------------------------------------

// lowerEnumStmt resolves the underlying integer type (defaulting to i32),
// folds each member to a constant (implicit previous+1, or 0 for the first
// member, when no explicit value is written), and declares every member
// name directly into the enum's own static scope as a constant Value of the
// enum type itself.
func (v *Visitor) lowerEnumStmt(n *ast.EnumStmt, sc *scope.Scope) error {
	if !v.attributeApplies(n.Attrs) {
		return nil
	}
	underlying := types.I32T
	if n.Underlying != nil {
		t, err := v.resolveType(n.Underlying, sc)
		if err != nil {
			return err
		}
		prim, ok := t.(*types.Primitive)
		if !ok || !prim.IsInteger() {
			return errf(diag.InvalidType, n.Pos(), "enum underlying type %s must be an integer type", t)
		}
		underlying = prim
	}

	enum := &types.Enum{Name: n.Name, Underlying: underlying, StaticScope: scope.New(sc)}
	var next int64
	for _, m := range n.Members {
		val := next
		if m.Value != nil {
			c, ok := foldConstInt(m.Value)
			if !ok {
				return errf(diag.InvalidType, n.Pos(), "enum member %q value must be a constant integer expression", m.Name)
			}
			val = c
		}
		enum.Members = append(enum.Members, types.Enumerator{Name: m.Name, Value: val})
		enum.StaticScope.Declare(m.Name, &types.Value{Type: enum, Ref: v.B.ConstInt(underlying, val)})
		next = val + 1
	}

	sc.Declare(n.Name, enum)
	return nil
}

// ---- aliases ----------------------------------------------------------------

// lowerAliasStmt implements "alias Name = T": a generic alias is registered
// as a GenericWrapper whose CreateShell (run from within v.instantiate) just
// resolves Target against the instantiation scope and returns it directly,
// with no separate finish phase; a non-generic alias resolves immediately
// and is declared as a transparent types.Alias, flattened away by
// scope.ResolveAlias wherever it is subsequently looked up.
func (v *Visitor) lowerAliasStmt(n *ast.AliasStmt, sc *scope.Scope) error {
	if len(n.Generics) > 0 {
		wrapper := &types.GenericWrapper{Name: n.Name, Target: types.WrapsAlias, Params: n.Generics, Template: n, Enclosing: sc}
		sc.Declare(n.Name, wrapper)
		return nil
	}
	target, err := v.resolveType(n.Target, sc)
	if err != nil {
		return err
	}
	sc.Declare(n.Name, &types.Alias{Name: n.Name, Target: target})
	return nil
}

// ---- generic instantiation --------------------------------------------------

// instantiate drives internal/generics.Instantiate for one (wrapper, args)
// request, supplying the CreateShell/FinishBody closures appropriate to the
// wrapper's target kind. The whole excursion is bracketed by both an IR
// insertion-point save (a class method generated here may itself trigger a
// nested instantiation while the "current" block belongs to some unrelated
// caller) and a scope-stack save — PushScope seats the instantiation scope
// using the wrapper's own enclosing-scope snapshot as its parent, exactly
// the case PushScope's own doc comment calls out, rather than nesting it
// under whatever happens to be lexically current when the reference that
// triggered this instantiation was reached.
func (v *Visitor) instantiate(w *types.GenericWrapper, args []types.Type, pos token.Position) (types.Type, error) {
	cursor := coreir.Save(v.B)
	defer cursor.Restore()
	depth := v.Stack.Save()
	defer v.Stack.Restore(depth)

	create := func(instScope *scope.Scope) (types.Type, error) {
		v.Stack.PushScope(instScope)
		switch w.Target {
		case types.WrapsClass:
			node := w.Template.(*ast.ClassStmt)
			class, err := v.buildClassShell(v.mangleSpecialization(w.Name, args), node.Extends, node.Attrs, instScope)
			if err != nil {
				return nil, err
			}
			class.TypeArgs = args
			if err := v.layoutClassBody(node.Body, class, instScope); err != nil {
				return nil, err
			}
			v.sealClassStruct(class)
			return class, nil
		case types.WrapsUnion:
			node := w.Template.(*ast.UnionStmt)
			union := &types.Union{Name: v.mangleSpecialization(w.Name, args), StaticScope: scope.New(instScope)}
			if err := v.lowerUnionBody(node.Body, union, instScope); err != nil {
				return nil, err
			}
			return union, nil
		case types.WrapsAlias:
			node := w.Template.(*ast.AliasStmt)
			return v.resolveType(node.Target, instScope)
		default:
			return nil, errf(diag.Unimplemented, pos, "generic functions are not part of this grammar")
		}
	}

	finish := func(instScope *scope.Scope, shell types.Type) error {
		class, ok := shell.(*types.Class)
		if !ok {
			return nil
		}
		return v.generateClassMethods(class)
	}

	return generics.Instantiate(w, args, create, finish)
}
