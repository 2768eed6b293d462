package ast

// PointerType is "T*", optionally "const T*" (IsConstant).
type PointerType struct {
	base
	Elem       TypeExpr
	IsConstant bool
}

func (*PointerType) typeExprNode() {}

// ReferenceType is "T&".
type ReferenceType struct {
	base
	Elem       TypeExpr
	IsConstant bool
}

func (*ReferenceType) typeExprNode() {}

// ArrayType is "T[N]"; Size is nil for an unsized array type reference.
type ArrayType struct {
	base
	Elem       TypeExpr
	Size       Expr
	IsConstant bool
}

func (*ArrayType) typeExprNode() {}

// NameType is a named type reference, optionally generic ("Box<i32>").
// Path supports scope-resolution ("A::B::Name").
type NameType struct {
	base
	Path     []string
	TypeArgs []TypeExpr // nil/empty when not a generic instantiation
}

func (*NameType) typeExprNode() {}

// FunctionType is a function-pointer type reference, "fn(i32, f64): bool".
type FunctionType struct {
	base
	Params   []TypeExpr
	Return   TypeExpr
	Variadic bool
}

func (*FunctionType) typeExprNode() {}
