package ast

// LiteralKind distinguishes the kinds of constant literal.
type LiteralKind int

const (
	LiteralBool LiteralKind = iota
	LiteralDecimalInt
	LiteralHexInt
	LiteralBinaryInt
	LiteralFloat
	LiteralString
	LiteralChar
	LiteralNull
)

// Literal is any constant literal. Text carries the original lexeme
// (needed to distinguish 0x1F from 31, and to parse digit groups);
// Bool/Int/Flt/Str/Char carry the decoded value for the kinds that use
// them.
type Literal struct {
	base
	Kind LiteralKind
	Text string
	Bool bool
	Int  uint64
	Flt  float64
	Str  string
	Char rune
}

func (*Literal) exprNode() {}

// Name is a (possibly scoped) identifier reference in expression position.
type Name struct {
	base
	Path []string
}

func (*Name) exprNode() {}

// BinaryExpr is a numeric/bitwise binary operator: + - * / % & | ^ << >> >>>
// and the comparison operators == != < <= > >=.
type BinaryExpr struct {
	base
	Op    string
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// LogicalExpr is && or ||, lowered with short-circuit PHI semantics.
type LogicalExpr struct {
	base
	Op    string // "&&" or "||"
	Left  Expr
	Right Expr
}

func (*LogicalExpr) exprNode() {}

// UnaryExpr is one of - ~ + ! * &.
type UnaryExpr struct {
	base
	Op      string
	Operand Expr
}

func (*UnaryExpr) exprNode() {}

// AssignExpr is "lhs = rhs" or a compound assignment ("lhs += rhs", ...).
// Op is "=" for plain assignment, or the compound symbol ("+=", "-=", ...).
type AssignExpr struct {
	base
	Op    string
	Left  Expr
	Right Expr
}

func (*AssignExpr) exprNode() {}

// CastExpr is "expr as T".
type CastExpr struct {
	base
	Operand Expr
	Target  TypeExpr
}

func (*CastExpr) exprNode() {}

// SizeofExpr is "sizeof T" or "sizeof(expr)"; exactly one of Type/Operand is
// set.
type SizeofExpr struct {
	base
	Type    TypeExpr
	Operand Expr
}

func (*SizeofExpr) exprNode() {}

// CallExpr is "callee(args...)".
type CallExpr struct {
	base
	Callee Expr
	Args   []Expr
}

func (*CallExpr) exprNode() {}

// PropertyExpr is "expr.name" (Arrow=false) or "expr->name" (Arrow=true).
type PropertyExpr struct {
	base
	Object Expr
	Name   string
	Arrow  bool
}

func (*PropertyExpr) exprNode() {}

// ScopeResolveExpr is "A::B::name" in expression position (as opposed to
// type position, where NameType.Path already carries the qualified path).
type ScopeResolveExpr struct {
	base
	Path []string
}

func (*ScopeResolveExpr) exprNode() {}

// IndexExpr is "object[index]".
type IndexExpr struct {
	base
	Object Expr
	Index  Expr
}

func (*IndexExpr) exprNode() {}

// InstantiationExpr is "Ty{p1: v1, p2: v2}" class/union instantiation.
type InstantiationExpr struct {
	base
	Type  TypeExpr
	Names []string
	Vals  []Expr
}

func (*InstantiationExpr) exprNode() {}
