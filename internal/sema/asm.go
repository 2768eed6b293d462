package sema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xenon-lang/xenon/internal/ast"
	"github.com/xenon-lang/xenon/internal/diag"
	coreir "github.com/xenon-lang/xenon/internal/ir"
	"github.com/xenon-lang/xenon/internal/scope"
	"github.com/xenon-lang/xenon/internal/types"
)

// clobberTail is always appended to an assembly statement's clobber list,
// independent of what the statement itself names.
const clobberTail = "~{dirflag},~{fpsr},~{flags}"

// lowerAsmStmt lowers one inline-assembly statement. Write-only ("=")
// outputs bind a fresh constraint slot; read-write ("+") outputs are
// decomposed into a write-only output plus a synthetic trailing input tied
// back to that output's numeric position, since this core's IR builder
// models tied operands the LLVM way (a bare-digit input constraint
// referencing an earlier output), not as a single combined constraint.
func (v *Visitor) lowerAsmStmt(n *ast.AsmStmt, sc *scope.Scope) error {
	type outSlot struct {
		lvalueAddr coreir.Value
		elemType   types.Type
		constraint string
	}
	var outs []outSlot
	var inputConstraints []string
	var inputValues []coreir.Value

	for _, o := range n.Outputs {
		val, err := v.lowerExpr(o.Value, sc)
		if err != nil {
			return err
		}
		if !val.IsAlloca {
			return errf(diag.InvalidLeftValue, o.Value.Pos(), "assembly output operand must be an lvalue")
		}
		switch {
		case strings.HasPrefix(o.Constraint, "="):
			outs = append(outs, outSlot{lvalueAddr: val.Ref, elemType: val.Type, constraint: o.Constraint})
		case strings.HasPrefix(o.Constraint, "+"):
			tieIndex := len(outs)
			outs = append(outs, outSlot{lvalueAddr: val.Ref, elemType: val.Type, constraint: "=" + strings.TrimPrefix(o.Constraint, "+")})
			inputConstraints = append(inputConstraints, strconv.Itoa(tieIndex))
			inputValues = append(inputValues, v.rvalue(val))
		default:
			return errf(diag.InvalidInputConstraint, o.Value.Pos(), "assembly output constraint %q must start with '=' or '+'", o.Constraint)
		}
	}

	for _, in := range n.Inputs {
		if strings.HasPrefix(in.Constraint, "=") || strings.HasPrefix(in.Constraint, "+") {
			return errf(diag.InvalidInputConstraint, in.Value.Pos(), "assembly input constraint %q must not be a write constraint", in.Constraint)
		}
		val, err := v.lowerExpr(in.Value, sc)
		if err != nil {
			return err
		}
		inputConstraints = append(inputConstraints, in.Constraint)
		inputValues = append(inputValues, v.rvalue(val))
	}

	var parts []string
	for _, o := range outs {
		parts = append(parts, o.constraint)
	}
	parts = append(parts, inputConstraints...)
	for _, c := range n.Clobbers {
		parts = append(parts, fmt.Sprintf("~{%s}", c))
	}
	parts = append(parts, clobberTail)
	constraints := strings.Join(parts, ",")

	resultTypes := make([]types.Type, len(outs))
	for i, o := range outs {
		resultTypes[i] = o.elemType
	}

	result := v.B.NewInlineAsm(n.Template, constraints, true, inputValues, resultTypes)

	switch len(outs) {
	case 0:
		return nil
	case 1:
		v.B.NewStore(result, outs[0].lvalueAddr)
		return nil
	default:
		fields := make([]types.Type, len(outs))
		for i, o := range outs {
			fields[i] = o.elemType
		}
		agg := v.B.NewStructType("", false)
		v.B.SetStructBody(agg, fields)
		props := make([]*types.Property, len(fields))
		for i, f := range fields {
			props[i] = &types.Property{Name: fmt.Sprintf("_%d", i), Type: f}
		}
		aggType := &types.Class{Props: props, Generated: true, IRHandle: agg}
		tmp := v.B.NewAlloca(aggType, "asm.result")
		v.B.NewStore(result, tmp)
		for i, o := range outs {
			field := v.B.NewGEP(aggType, tmp, []int64{0, int64(i)})
			loaded := v.B.NewLoad(o.elemType, field)
			v.B.NewStore(loaded, o.lvalueAddr)
		}
		return nil
	}
}
