package sema

import "github.com/xenon-lang/xenon/internal/types"

// unionFields returns the single-field backend struct body a union is laid
// out as: a byte array exactly as wide as its widest member. Every property
// access addresses this one field at [0, 0] (see lowerPropertyExpr /
// lowerInstantiationExpr) and relies on the load/store call's own type
// argument to reinterpret those bytes as the accessed member's type.
func unionFields(union *types.Union) []types.Type {
	return []types.Type{&types.Array{Elem: types.I8T, Len: union.Size}}
}

// structFields returns class's field list in the exact order its backend
// struct type is built with: each parent's own struct type first (in
// Parents order, as an embedded aggregate field), then each non-static
// property in declaration order. Property GEP addressing and
// SetStructBody both walk this same order so the two never drift apart.
func structFields(class *types.Class) []types.Type {
	fields := make([]types.Type, 0, len(class.Parents)+len(class.Props))
	for _, p := range class.Parents {
		fields = append(fields, p)
	}
	for _, prop := range class.Props {
		if prop.Static {
			continue
		}
		fields = append(fields, prop.Type)
	}
	return fields
}

// gepPath computes the composite GEP index list addressing prop found via
// chain (as returned by Class.FindParentChain): a leading 0 to address the
// pointed-to object itself, then one index per level stepping into the
// named parent subobject, then the field index of prop within its
// declaring class's own field list.
func gepPath(chain []*types.Class, prop *types.Property) []int64 {
	path := []int64{0}
	for i := 0; i+1 < len(chain); i++ {
		cur, next := chain[i], chain[i+1]
		for pi, p := range cur.Parents {
			if p == next {
				path = append(path, int64(pi))
				break
			}
		}
	}
	declaring := chain[len(chain)-1]
	path = append(path, int64(len(declaring.Parents)+propOffset(declaring, prop)))
	return path
}

// propOffset returns prop's position among declaring's own non-static
// properties (i.e. excluding the leading parent-subobject fields).
func propOffset(declaring *types.Class, prop *types.Property) int {
	idx := 0
	for _, p := range declaring.Props {
		if p.Static {
			continue
		}
		if p == prop {
			return idx
		}
		idx++
	}
	return idx
}
