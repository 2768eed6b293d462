// Package llvmir is the concrete internal/ir.Builder backed by
// github.com/llir/llvm — the one backend this module ships, covering the
// full capability surface internal/ir.Builder requires (blocks, insertion
// point, allocas/loads/stores, arithmetic, comparisons, PHI, branches,
// returns, GEP, inline-asm calls, casts, struct/function/global creation,
// size queries).
package llvmir

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	coreir "github.com/xenon-lang/xenon/internal/ir"
	"github.com/xenon-lang/xenon/internal/types"
)

// Builder implements coreir.Builder on top of a single *ir.Module.
type Builder struct {
	Module *ir.Module

	cur *ir.Block
}

// New creates a Builder around a fresh, empty module named moduleName.
func New(moduleName string) *Builder {
	m := ir.NewModule()
	m.SourceFilename = moduleName
	return &Builder{Module: m}
}

// String renders the module as LLVM IR text.
func (b *Builder) String() string { return b.Module.String() }

func asBlock(v coreir.Block) *ir.Block { return v.(*ir.Block) }
func asFunc(v coreir.Func) *ir.Func    { return v.(*ir.Func) }
func asValue(v coreir.Value) value.Value {
	if v == nil {
		return nil
	}
	return v.(value.Value)
}
func asStruct(h coreir.StructHandle) *lltypes.StructType { return h.(*lltypes.StructType) }

// --- blocks / insertion point -------------------------------------------------

func (b *Builder) NewBlock(fn coreir.Func, name string) coreir.Block {
	return asFunc(fn).NewBlock(name)
}

func (b *Builder) SetInsertPoint(blk coreir.Block) { b.cur = asBlock(blk) }

func (b *Builder) CurrentBlock() coreir.Block {
	if b.cur == nil {
		return nil
	}
	return b.cur
}

// --- memory --------------------------------------------------------------

func (b *Builder) NewAlloca(t types.Type, name string) coreir.Value {
	inst := b.cur.NewAlloca(b.llType(t))
	inst.LocalName = name
	return inst
}

func (b *Builder) NewLoad(t types.Type, addr coreir.Value) coreir.Value {
	return b.cur.NewLoad(b.llType(t), asValue(addr))
}

func (b *Builder) NewStore(val, addr coreir.Value) {
	b.cur.NewStore(asValue(val), asValue(addr))
}

func (b *Builder) NewGEP(baseType types.Type, ptr coreir.Value, indices []int64) coreir.Value {
	idxVals := make([]value.Value, len(indices))
	for i, idx := range indices {
		idxVals[i] = constant.NewInt(lltypes.I32, idx)
	}
	return b.cur.NewGetElementPtr(b.llType(baseType), asValue(ptr), idxVals...)
}

// --- arithmetic / comparisons / casts / phi -------------------------------

func (b *Builder) NewBinOp(op coreir.BinOp, t types.Type, lhs, rhs coreir.Value) coreir.Value {
	x, y := asValue(lhs), asValue(rhs)
	switch op {
	case coreir.Add:
		return b.cur.NewAdd(x, y)
	case coreir.Sub:
		return b.cur.NewSub(x, y)
	case coreir.Mul:
		return b.cur.NewMul(x, y)
	case coreir.SDiv:
		return b.cur.NewSDiv(x, y)
	case coreir.UDiv:
		return b.cur.NewUDiv(x, y)
	case coreir.FDiv:
		return b.cur.NewFDiv(x, y)
	case coreir.SRem:
		return b.cur.NewSRem(x, y)
	case coreir.URem:
		return b.cur.NewURem(x, y)
	case coreir.FRem:
		return b.cur.NewFRem(x, y)
	case coreir.FAdd:
		return b.cur.NewFAdd(x, y)
	case coreir.FSub:
		return b.cur.NewFSub(x, y)
	case coreir.FMul:
		return b.cur.NewFMul(x, y)
	case coreir.And:
		return b.cur.NewAnd(x, y)
	case coreir.Or:
		return b.cur.NewOr(x, y)
	case coreir.Xor:
		return b.cur.NewXor(x, y)
	case coreir.Shl:
		return b.cur.NewShl(x, y)
	case coreir.LShr:
		return b.cur.NewLShr(x, y)
	case coreir.AShr:
		return b.cur.NewAShr(x, y)
	}
	panic(fmt.Sprintf("llvmir: unsupported BinOp %v", op))
}

func (b *Builder) NewCmp(pred coreir.Predicate, lhs, rhs coreir.Value) coreir.Value {
	x, y := asValue(lhs), asValue(rhs)
	switch pred {
	case coreir.IEQ:
		return b.cur.NewICmp(enum.IPredEQ, x, y)
	case coreir.INE:
		return b.cur.NewICmp(enum.IPredNE, x, y)
	case coreir.SLT:
		return b.cur.NewICmp(enum.IPredSLT, x, y)
	case coreir.SLE:
		return b.cur.NewICmp(enum.IPredSLE, x, y)
	case coreir.SGT:
		return b.cur.NewICmp(enum.IPredSGT, x, y)
	case coreir.SGE:
		return b.cur.NewICmp(enum.IPredSGE, x, y)
	case coreir.ULT:
		return b.cur.NewICmp(enum.IPredULT, x, y)
	case coreir.ULE:
		return b.cur.NewICmp(enum.IPredULE, x, y)
	case coreir.UGT:
		return b.cur.NewICmp(enum.IPredUGT, x, y)
	case coreir.UGE:
		return b.cur.NewICmp(enum.IPredUGE, x, y)
	case coreir.FOEQ:
		return b.cur.NewFCmp(enum.FPredOEQ, x, y)
	case coreir.FONE:
		return b.cur.NewFCmp(enum.FPredONE, x, y)
	case coreir.FOLT:
		return b.cur.NewFCmp(enum.FPredOLT, x, y)
	case coreir.FOLE:
		return b.cur.NewFCmp(enum.FPredOLE, x, y)
	case coreir.FOGT:
		return b.cur.NewFCmp(enum.FPredOGT, x, y)
	case coreir.FOGE:
		return b.cur.NewFCmp(enum.FPredOGE, x, y)
	}
	panic(fmt.Sprintf("llvmir: unsupported Predicate %v", pred))
}

func (b *Builder) NewCast(kind coreir.CastKind, val coreir.Value, target types.Type) coreir.Value {
	x := asValue(val)
	to := b.llType(target)
	switch kind {
	case coreir.CastIntTrunc:
		return b.cur.NewTrunc(x, to)
	case coreir.CastIntSExt:
		return b.cur.NewSExt(x, to)
	case coreir.CastIntZExt:
		return b.cur.NewZExt(x, to)
	case coreir.CastSIToFP:
		return b.cur.NewSIToFP(x, to)
	case coreir.CastUIToFP:
		return b.cur.NewUIToFP(x, to)
	case coreir.CastFPToSI:
		return b.cur.NewFPToSI(x, to)
	case coreir.CastFPToUI:
		return b.cur.NewFPToUI(x, to)
	case coreir.CastFPTrunc:
		return b.cur.NewFPTrunc(x, to)
	case coreir.CastFPExt:
		return b.cur.NewFPExt(x, to)
	case coreir.CastBitcast:
		return b.cur.NewBitCast(x, to)
	case coreir.CastIntToPtr:
		return b.cur.NewIntToPtr(x, to)
	case coreir.CastPtrToInt:
		return b.cur.NewPtrToInt(x, to)
	}
	panic(fmt.Sprintf("llvmir: unsupported CastKind %v", kind))
}

func (b *Builder) NewPhi(t types.Type, incoming []coreir.Incoming) coreir.Value {
	incs := make([]*ir.Incoming, len(incoming))
	for i, in := range incoming {
		incs[i] = ir.NewIncoming(asValue(in.Value), asBlock(in.Block))
	}
	return b.cur.NewPhi(incs...)
}

// --- control flow ----------------------------------------------------------

func (b *Builder) NewBr(target coreir.Block) { b.cur.NewBr(asBlock(target)) }

func (b *Builder) NewCondBr(cond coreir.Value, then, els coreir.Block) {
	b.cur.NewCondBr(asValue(cond), asBlock(then), asBlock(els))
}

func (b *Builder) NewRet(val coreir.Value) {
	if val == nil {
		b.cur.NewRet(nil)
		return
	}
	b.cur.NewRet(asValue(val))
}

// --- calls / inline assembly -------------------------------------------------

func (b *Builder) NewCall(fn coreir.Value, args []coreir.Value) coreir.Value {
	vals := make([]value.Value, len(args))
	for i, a := range args {
		vals[i] = asValue(a)
	}
	return b.cur.NewCall(asValue(fn), vals...)
}

func (b *Builder) NewInlineAsm(template, constraints string, sideEffect bool, args []coreir.Value, resultTypes []types.Type) coreir.Value {
	vals := make([]value.Value, len(args))
	paramTypes := make([]lltypes.Type, len(args))
	for i, a := range args {
		vals[i] = asValue(a)
		paramTypes[i] = vals[i].Type()
	}
	var retType lltypes.Type = lltypes.Void
	switch len(resultTypes) {
	case 0:
	case 1:
		retType = b.llType(resultTypes[0])
	default:
		fields := make([]lltypes.Type, len(resultTypes))
		for i, rt := range resultTypes {
			fields[i] = b.llType(rt)
		}
		retType = lltypes.NewStruct(fields...)
	}
	fnType := lltypes.NewFunc(retType, paramTypes...)
	asm := ir.NewInlineAsm(lltypes.NewPointer(fnType), template, constraints)
	asm.SideEffect = sideEffect
	return b.cur.NewCall(asm, vals...)
}

// --- types / functions / globals --------------------------------------------

func (b *Builder) NewStructType(name string, packed bool) coreir.StructHandle {
	st := lltypes.NewStruct()
	st.TypeName = name
	st.Packed = packed
	b.Module.TypeDefs = append(b.Module.TypeDefs, st)
	return st
}

func (b *Builder) SetStructBody(h coreir.StructHandle, fields []types.Type) {
	st := asStruct(h)
	fieldTypes := make([]lltypes.Type, len(fields))
	for i, f := range fields {
		fieldTypes[i] = b.llType(f)
	}
	st.Fields = fieldTypes
}

func (b *Builder) NewFunc(name string, sig *types.Function, linkage coreir.Linkage) coreir.Func {
	retType := b.llType(sig.Return)
	var params []*ir.Param
	if sig.IsSRet {
		// Hidden first pointer argument the callee stores its result through.
		params = append(params, ir.NewParam("sret", lltypes.NewPointer(retType)))
		retType = lltypes.Void
	}
	for _, a := range sig.Args {
		params = append(params, ir.NewParam(a.Name, b.llType(a.Type)))
	}
	fn := b.Module.NewFunc(name, retType, params...)
	fn.Sig.Variadic = sig.Variadic
	if linkage == coreir.External {
		fn.Linkage = enum.LinkageExternal
	} else {
		fn.Linkage = enum.LinkageLinkonceODR
	}
	return fn
}

func (b *Builder) FuncParam(fn coreir.Func, i int) coreir.Value {
	return asFunc(fn).Params[i]
}

func (b *Builder) NewGlobal(name string, t types.Type, init coreir.Value, isConstant bool) coreir.Global {
	var g *ir.Global
	if init != nil {
		g = b.Module.NewGlobalDef(name, asValue(init).(constant.Constant))
	} else {
		g = b.Module.NewGlobal(name, b.llType(t))
	}
	g.Immutable = isConstant
	return g
}

func (b *Builder) NewGlobalConstantArray(name string, elemType types.Type, elems []coreir.Value) coreir.Global {
	cs := make([]constant.Constant, len(elems))
	for i, e := range elems {
		cs[i] = asValue(e).(constant.Constant)
	}
	arr := constant.NewArray(lltypes.NewArray(uint64(len(cs)), b.llType(elemType)), cs...)
	g := b.Module.NewGlobalDef(name, arr)
	g.Immutable = true
	return g
}

func (b *Builder) ConstInt(t types.Type, v int64) coreir.Value {
	it, ok := b.llType(t).(*lltypes.IntType)
	if !ok {
		it = lltypes.I32
	}
	return constant.NewInt(it, v)
}

func (b *Builder) ConstFloat(t types.Type, v float64) coreir.Value {
	ft, ok := b.llType(t).(*lltypes.FloatType)
	if !ok {
		ft = lltypes.Double
	}
	return constant.NewFloat(ft, v)
}

func (b *Builder) ConstNull(t types.Type) coreir.Value {
	pt, ok := b.llType(t).(*lltypes.PointerType)
	if !ok {
		pt = lltypes.NewPointer(lltypes.I8)
	}
	return constant.NewNull(pt)
}

func (b *Builder) ConstBool(v bool) coreir.Value {
	if v {
		return constant.True
	}
	return constant.False
}

// SizeOf delegates to internal/types.SizeOf; this backend does not apply
// any alignment/padding beyond what internal/types.SealClassLayout already
// computed; see internal/types.SizeOf's doc comment.
func (b *Builder) SizeOf(t types.Type) int64 { return types.SizeOf(t) }

// llType converts the core type model to an llir/llvm type, consulting a
// class/union's already-created struct handle (internal/sema must have
// called NewStructType/SetStructBody during layout sealing before any
// value of that type can reach here).
func (b *Builder) llType(t types.Type) lltypes.Type {
	switch v := t.(type) {
	case *types.Primitive:
		switch v.P {
		case types.I1, types.Bool:
			return lltypes.I1
		case types.I8, types.U8:
			return lltypes.I8
		case types.I16, types.U16:
			return lltypes.I16
		case types.I32, types.U32:
			return lltypes.I32
		case types.I64, types.U64:
			return lltypes.I64
		case types.F32:
			return lltypes.Float
		case types.F64:
			return lltypes.Double
		case types.Void:
			return lltypes.Void
		}
	case *types.Pointer:
		return lltypes.NewPointer(b.llType(v.Elem))
	case *types.Reference:
		return lltypes.NewPointer(b.llType(v.Elem))
	case *types.Array:
		return lltypes.NewArray(uint64(v.Len), b.llType(v.Elem))
	case *types.Function:
		params := make([]lltypes.Type, len(v.Args))
		for i, a := range v.Args {
			params[i] = b.llType(a.Type)
		}
		return lltypes.NewPointer(lltypes.NewFunc(b.llType(v.Return), params...))
	case *types.Class:
		if v.IRHandle != nil {
			return v.IRHandle.(*lltypes.StructType)
		}
		// Layout not yet sealed: fall back to an opaque byte-array
		// placeholder sized by the structural model so forward references
		// (e.g. a pointer-to-self field) still type-check structurally.
		return lltypes.NewArray(uint64(types.SizeOf(v)), lltypes.I8)
	case *types.Union:
		if v.IRHandle != nil {
			return v.IRHandle.(*lltypes.StructType)
		}
		return lltypes.NewArray(uint64(v.Size), lltypes.I8)
	case *types.Enum:
		return b.llType(v.Underlying)
	}
	panic(fmt.Sprintf("llvmir: unsupported type %v (%T)", t, t))
}
