package types

// SizeOf returns the storage size in bytes of t, used for the sizeof
// operator and for index arithmetic. It does not query
// the backend: every size here is derivable structurally from the type
// model, so the result never depends on, or triggers, the side effects of
// any particular expression — there is no expression to have side effects,
// the query never descends into value-producing code.
func SizeOf(t Type) int64 {
	switch v := t.(type) {
	case *Primitive:
		if v.P == Void {
			return 0
		}
		bits := v.BitWidth()
		if bits == 0 {
			return 0
		}
		return int64((bits + 7) / 8)
	case *Pointer, *Reference:
		return 8
	case *Array:
		return v.Len * SizeOf(v.Elem)
	case *Class:
		return v.Size
	case *Union:
		return v.Size
	case *Enum:
		return SizeOf(v.Underlying)
	case *Function:
		return 8 // decays to a function pointer
	default:
		return 0
	}
}

// SealClassLayout computes ParentOffsets and Size for c from its
// already-sealed parents and its own (non-static) properties, in
// declaration order: a class with parents P1..Pk is laid out by prepending
// each parent's layout in order. Must be called exactly once, after phase 1
// (property collection) and before phase 2 (pending-method generation).
func SealClassLayout(c *Class) {
	var offset int64
	c.ParentOffsets = make([]int64, len(c.Parents))
	for i, p := range c.Parents {
		c.ParentOffsets[i] = offset
		offset += p.Size
	}
	for _, prop := range c.Props {
		if prop.Static {
			continue
		}
		offset += SizeOf(prop.Type)
	}
	if c.Packed {
		c.Size = offset
	} else {
		c.Size = alignUp(offset, 8)
	}
	if c.Size == 0 {
		// A class with zero properties and a packed attribute reports a
		// structural size of 0; the backend adapter is free to round up to
		// its own minimum allocation granularity.
		c.Size = 0
	}
	c.Generated = true
}

// SealUnionLayout sets Size to the widest property.
func SealUnionLayout(u *Union) {
	var max int64
	for _, prop := range u.Props {
		if prop.Static {
			continue
		}
		if s := SizeOf(prop.Type); s > max {
			max = s
		}
	}
	u.Size = max
	u.Generated = true
}

func alignUp(n, align int64) int64 {
	if align <= 0 {
		return n
	}
	return (n + align - 1) / align * align
}
