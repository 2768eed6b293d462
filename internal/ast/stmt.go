package ast

// ExprStmt wraps an expression evaluated for its side effect.
type ExprStmt struct {
	base
	Expr Expr
}

func (*ExprStmt) stmtNode() {}

// VarDecl is "let [mut] name[: T] = expr" or "let [mut] name: T" (no
// initializer).
type VarDecl struct {
	base
	Name string
	Type TypeExpr // nil if inferred from Init
	Init Expr     // nil if uninitialized
	Mut  bool
}

func (*VarDecl) stmtNode() {}

// ReturnStmt is "return [expr]"; Value is nil for a void return.
type ReturnStmt struct {
	base
	Value Expr
}

func (*ReturnStmt) stmtNode() {}

// BreakStmt / ContinueStmt target the innermost enclosing loop.
type BreakStmt struct{ base }

func (*BreakStmt) stmtNode() {}

type ContinueStmt struct{ base }

func (*ContinueStmt) stmtNode() {}

// IfStmt is "if cond { Then } [else { Else }]"; Else is nil when absent.
type IfStmt struct {
	base
	Cond Expr
	Then *Body
	Else *Body
}

func (*IfStmt) stmtNode() {}

// WhileStmt is "while cond { Body }".
type WhileStmt struct {
	base
	Cond Expr
	Body *Body
}

func (*WhileStmt) stmtNode() {}

// ForStmt is the range-based "for name in iterable { Body }" form.
type ForStmt struct {
	base
	Var      string
	Iterable Expr
	Body     *Body
}

func (*ForStmt) stmtNode() {}

// FunctionArg is one named, typed function parameter.
type FunctionArg struct {
	Name string
	Type TypeExpr
}

// FunctionDecl is a top-level or namespaced function declaration.
type FunctionDecl struct {
	base
	Name       string
	Args       []FunctionArg
	Variadic   bool // trailing "..." argument present
	ReturnType TypeExpr
	Body       *Body // nil for an extern declaration with no body
	Attrs      []Attribute
}

func (*FunctionDecl) stmtNode() {}

// NamespaceStmt groups declarations under a named namespace.
type NamespaceStmt struct {
	base
	Name  string
	Body  *Body
	Attrs []Attribute
}

func (*NamespaceStmt) stmtNode() {}

// ClassProperty is one instance or static property of a class/union.
type ClassProperty struct {
	base
	Name     string
	Type     TypeExpr
	Default  Expr // nil if no default constant
	IsStatic bool
}

// ClassMethod is a method declaration recorded during layout and generated
// in phase 2, once the class body's storage layout is sealed.
type ClassMethod struct {
	base
	Decl     *FunctionDecl
	IsStatic bool
}

// ClassBody holds the class-body elements grouped by kind: properties,
// methods, and nested types/aliases, each list in declaration order. The
// interleaving of the different kinds in the source is not recorded.
type ClassBody struct {
	base
	Properties []*ClassProperty
	Methods    []*ClassMethod
	Nested     []Stmt // nested ClassStmt / UnionStmt / AliasStmt
}

// ClassStmt is a (possibly generic) class declaration. Generics holds the
// ordered generic-parameter names; empty for a non-generic class.
type ClassStmt struct {
	base
	Name     string
	Generics []string
	Extends  []*NameType // ordered parent classes
	Body     *ClassBody
	Attrs    []Attribute
}

func (*ClassStmt) stmtNode() {}

// SpecialClassStmt is an explicit template specialization: "class Box<i32>
// { ... }" overriding the generic template's body for one concrete argument
// tuple.
type SpecialClassStmt struct {
	base
	Name     string
	TypeArgs []TypeExpr
	Body     *ClassBody
	Attrs    []Attribute
}

func (*SpecialClassStmt) stmtNode() {}

// UnionStmt declares a union type.
type UnionStmt struct {
	base
	Name     string
	Generics []string
	Body     *ClassBody
	Attrs    []Attribute
}

func (*UnionStmt) stmtNode() {}

// EnumMember is one "name[= constant]" enumerator.
type EnumMember struct {
	Name  string
	Value Expr // nil when the value is implicit (previous+1, or 0 if first)
}

// EnumStmt declares an enum type over an underlying integer type.
type EnumStmt struct {
	base
	Name      string
	Underlying TypeExpr // nil defaults to i32
	Members   []EnumMember
	Attrs     []Attribute
}

func (*EnumStmt) stmtNode() {}

// AliasStmt is "alias Name = T" (a type alias, transparently flattened by
// name resolution).
type AliasStmt struct {
	base
	Name     string
	Generics []string
	Target   TypeExpr
}

func (*AliasStmt) stmtNode() {}

// ImportStmt is "import \"path\"".
type ImportStmt struct {
	base
	Path string
}

func (*ImportStmt) stmtNode() {}

// AsmOperand is one inline-assembly operand.
type AsmOperand struct {
	Constraint string // e.g. "r", "=r", "+r"
	Value      Expr
}

// AsmStmt is an inline-assembly statement.
type AsmStmt struct {
	base
	Template string
	Outputs  []AsmOperand
	Inputs   []AsmOperand
	Clobbers []string
}

func (*AsmStmt) stmtNode() {}
