// Package ir is the external IR-builder contract: the semantic visitor
// (internal/sema) calls only through this interface, never through a
// concrete backend type, so the backend/code generator stays an external
// collaborator reachable only through an interface. internal/ir/llvmir
// supplies the one concrete implementation this module ships, built on
// github.com/llir/llvm.
package ir

import "github.com/xenon-lang/xenon/internal/types"

// Value, Block, Func and Global are opaque backend handles. They are kept
// as `any` rather than a closed Go interface because different backends
// (an LLVM builder, a hypothetical bytecode backend) carry entirely
// different concrete representations; internal/sema never inspects them,
// it only threads them back into further Builder calls.
type Value = any
type Block = any
type Func = any
type Global = any
type StructHandle = any

// BinOp enumerates the arithmetic/bitwise binary operators a Builder must
// support.
type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	SDiv
	UDiv
	FDiv
	SRem
	URem
	FRem
	FAdd
	FSub
	FMul
	And
	Or
	Xor
	Shl
	LShr // logical right shift (unsigned >>)
	AShr // arithmetic right shift (signed >>)
)

// Predicate enumerates integer and floating comparison predicates.
type Predicate int

const (
	IEQ Predicate = iota
	INE
	SLT
	SLE
	SGT
	SGE
	ULT
	ULE
	UGT
	UGE
	FOEQ
	FONE
	FOLT
	FOLE
	FOGT
	FOGE
)

// CastKind enumerates the built-in conversion forms of
// internal/types.ConversionKind, at the IR level.
type CastKind int

const (
	CastIntTrunc CastKind = iota
	CastIntSExt
	CastIntZExt
	CastSIToFP
	CastUIToFP
	CastFPToSI
	CastFPToUI
	CastFPTrunc
	CastFPExt
	CastBitcast
	CastIntToPtr
	CastPtrToInt
)

// Linkage is the subset of linkage kinds this core needs: a function
// marked main or attributed extern has external linkage; others have
// link-once linkage to permit cross-unit deduplication.
type Linkage int

const (
	LinkOnceODR Linkage = iota
	External
)

// Incoming is one (value, predecessor block) pair of a PHI node.
type Incoming struct {
	Value Value
	Block Block
}

// AsmOperand is one constrained operand of an inline-assembly call.
type AsmOperand struct {
	Constraint string
	Value      Value
}

// Builder is the full set of backend capabilities the semantic core
// requires. internal/sema is written entirely against this interface.
type Builder interface {
	// Blocks and insertion point.
	NewBlock(fn Func, name string) Block
	SetInsertPoint(b Block)
	CurrentBlock() Block

	// Memory.
	NewAlloca(t types.Type, name string) Value
	NewLoad(t types.Type, addr Value) Value
	NewStore(val Value, addr Value)
	NewGEP(baseType types.Type, ptr Value, indices []int64) Value

	// Arithmetic, comparisons, casts.
	NewBinOp(op BinOp, t types.Type, lhs, rhs Value) Value
	NewCmp(pred Predicate, lhs, rhs Value) Value
	NewCast(kind CastKind, val Value, target types.Type) Value
	NewPhi(t types.Type, incoming []Incoming) Value

	// Control flow.
	NewBr(target Block)
	NewCondBr(cond Value, then, els Block)
	NewRet(val Value) // val == nil for `ret void`

	// Calls, including inline assembly.
	NewCall(fn Value, args []Value) Value
	NewInlineAsm(template string, constraints string, sideEffect bool, args []Value, resultTypes []types.Type) Value

	// Type/value/function/global construction.
	NewStructType(name string, packed bool) StructHandle
	SetStructBody(h StructHandle, fields []types.Type)
	NewFunc(name string, sig *types.Function, linkage Linkage) Func
	FuncParam(fn Func, i int) Value
	NewGlobal(name string, t types.Type, init Value, isConstant bool) Global
	NewGlobalConstantArray(name string, elemType types.Type, elems []Value) Global

	ConstInt(t types.Type, v int64) Value
	ConstFloat(t types.Type, v float64) Value
	ConstNull(t types.Type) Value
	ConstBool(v bool) Value

	// SizeOf queries the backend's own notion of a type's storage size.
	// internal/types.SizeOf computes the same thing structurally for
	// sizeof/diagnostics, but an adapter is free to consult the backend
	// when the two might disagree (e.g. backend-specific alignment rules).
	SizeOf(t types.Type) int64
}

// Cursor is the scoped save/restore resource for the emitter's insertion
// point: acquired before any out-of-order lowering (method body generation,
// generic instantiation) and released on every exit path including error
// exits. Save the current block before an excursion, defer Restore
// unconditionally.
type Cursor struct {
	b     Builder
	block Block
}

// Save captures the builder's current insertion point.
func Save(b Builder) Cursor {
	return Cursor{b: b, block: b.CurrentBlock()}
}

// Restore returns the builder's insertion point to the one captured by
// Save. Safe to call via defer unconditionally, including after a panic or
// an early error return.
func (c Cursor) Restore() {
	if c.block != nil {
		c.b.SetInsertPoint(c.block)
	}
}
