package sema_test

import (
	"os"
	"strings"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"

	"github.com/xenon-lang/xenon/internal/ast"
	"github.com/xenon-lang/xenon/internal/importer"
	"github.com/xenon-lang/xenon/internal/ir/llvmir"
	"github.com/xenon-lang/xenon/internal/sema"
	"github.com/xenon-lang/xenon/internal/token"
	"github.com/xenon-lang/xenon/internal/types"
)

func newVisitor() (*sema.Visitor, *llvmir.Builder) {
	b := llvmir.New("test.x")
	r := importer.New(".")
	return sema.New(b, r, "test.x", "linux", "amd64"), b
}

func mustLower(t *testing.T, body *ast.Body) (*sema.Visitor, *llvmir.Builder) {
	t.Helper()
	v, b := newVisitor()
	if err := v.LowerFile(body); err != nil {
		t.Fatalf("LowerFile: %v", err)
	}
	return v, b
}

func intLit(n uint64) *ast.Literal {
	return &ast.Literal{Kind: ast.LiteralDecimalInt, Int: n}
}

func nameType(path ...string) *ast.NameType {
	return &ast.NameType{Path: path}
}

// "fn main(): i32 { return 0 }" lowers to one external-linkage function main
// returning i32, with a body that branches to a return block loading and
// returning the constant.
func TestScenarioMainReturnsConstant(t *testing.T) {
	body := &ast.Body{Stmts: []ast.Stmt{
		&ast.FunctionDecl{
			Name:       "main",
			ReturnType: nameType("i32"),
			Body:       &ast.Body{Stmts: []ast.Stmt{&ast.ReturnStmt{Value: intLit(0)}}},
		},
	}}
	v, b := mustLower(t, body)

	na, ok := v.Stack.Root().GetNames("main")
	if !ok {
		t.Fatalf("main was not declared at file scope")
	}
	fn, ok := na.Last().(*types.Function)
	if !ok {
		t.Fatalf("main did not resolve to a function, got %T", na.Last())
	}
	if fn.Return != types.I32T {
		t.Fatalf("main's return type = %s, want i32", fn.Return)
	}
	irFn, ok := fn.Generated.(*ir.Func)
	if !ok {
		t.Fatalf("main has no generated IR function")
	}
	if irFn.Linkage != enum.LinkageExternal {
		t.Fatalf("main's linkage = %s, want external", irFn.Linkage)
	}

	out := b.String()
	if !strings.Contains(out, "@main(") {
		t.Fatalf("expected a defined @main(), got:\n%s", out)
	}
	if !strings.Contains(out, "ret i32") {
		t.Fatalf("expected a ret i32 in the lowered body, got:\n%s", out)
	}
}

// "class Box<T> { value: T; fn get(): T { return this.value; } }
// let b = Box<i32>{ value: 7 }; b.get()" produces exactly one specialization
// Box<i32> in the wrapper's cache; the call binds to the instance method
// through an implicit this pointer; the body loads the value field.
func TestScenarioGenericClassInstantiationAndMethodCall(t *testing.T) {
	classDecl := &ast.ClassStmt{
		Name:     "Box",
		Generics: []string{"T"},
		Body: &ast.ClassBody{
			Properties: []*ast.ClassProperty{{Name: "value", Type: nameType("T")}},
			Methods: []*ast.ClassMethod{{
				Decl: &ast.FunctionDecl{
					Name:       "get",
					ReturnType: nameType("T"),
					Body: &ast.Body{Stmts: []ast.Stmt{
						// this is bound as a pointer to the receiving class
						// (see lowerFunctionBody's fc.ThisValue), so field
						// access through it takes the arrow form.
						&ast.ReturnStmt{Value: &ast.PropertyExpr{
							Object: &ast.Name{Path: []string{"this"}},
							Name:   "value",
							Arrow:  true,
						}},
					}},
				},
			}},
		},
	}
	varDecl := &ast.VarDecl{
		Name: "b",
		Init: &ast.InstantiationExpr{
			Type:  &ast.NameType{Path: []string{"Box"}, TypeArgs: []ast.TypeExpr{nameType("i32")}},
			Names: []string{"value"},
			Vals:  []ast.Expr{intLit(7)},
		},
	}
	callStmt := &ast.ExprStmt{Expr: &ast.CallExpr{
		Callee: &ast.PropertyExpr{Object: &ast.Name{Path: []string{"b"}}, Name: "get"},
	}}

	fn := &ast.FunctionDecl{
		Name: "run",
		Body: &ast.Body{Stmts: []ast.Stmt{varDecl, callStmt}},
	}
	body := &ast.Body{Stmts: []ast.Stmt{classDecl, fn}}

	v, b := mustLower(t, body)

	na, ok := v.Stack.Root().GetNames("Box")
	if !ok {
		t.Fatalf("Box was not declared at file scope")
	}
	wrapper, ok := na.Last().(*types.GenericWrapper)
	if !ok {
		t.Fatalf("Box did not resolve to a generic wrapper, got %T", na.Last())
	}
	if got := len(wrapper.Children()); got != 1 {
		t.Fatalf("expected exactly one Box specialization in the cache, got %d", got)
	}
	if _, exists := wrapper.Lookup([]types.Type{types.I32T}); !exists {
		t.Fatalf("expected a cached Box<i32> specialization")
	}

	ir := b.String()
	if !strings.Contains(ir, "call i32") {
		t.Fatalf("expected the lowered body to call the generated get() method, got:\n%s", ir)
	}
}

// "enum E { A, B = 5, C }" yields A=0, B=5, C=6, all reachable through the
// enum's own static scope as E::A, E::B, E::C.
func TestScenarioEnumImplicitAndExplicitValues(t *testing.T) {
	body := &ast.Body{Stmts: []ast.Stmt{
		&ast.EnumStmt{
			Name: "E",
			Members: []ast.EnumMember{
				{Name: "A"},
				{Name: "B", Value: intLit(5)},
				{Name: "C"},
			},
		},
	}}
	v, _ := mustLower(t, body)

	na, ok := v.Stack.Root().GetNames("E")
	if !ok {
		t.Fatalf("E was not declared at file scope")
	}
	enum, ok := na.Last().(*types.Enum)
	if !ok {
		t.Fatalf("E did not resolve to an enum, got %T", na.Last())
	}
	want := map[string]int64{"A": 0, "B": 5, "C": 6}
	if len(enum.Members) != len(want) {
		t.Fatalf("expected %d members, got %d", len(want), len(enum.Members))
	}
	for _, m := range enum.Members {
		if m.Value != want[m.Name] {
			t.Fatalf("E::%s = %d, want %d", m.Name, m.Value, want[m.Name])
		}
		if _, ok := enum.StaticScope.GetNames(m.Name); !ok {
			t.Fatalf("E::%s is not reachable through the enum's static scope", m.Name)
		}
	}
}

// An overload set with fn f(x:i32) and fn f(x:f64), called as f(3),
// binds to the i32 overload (an equal match on an integer literal), not
// the f64 one (an i32 argument does not convert to f64 implicitly).
func TestScenarioOverloadResolutionPrefersEqualMatch(t *testing.T) {
	fInt := &ast.FunctionDecl{
		Name:       "f",
		Args:       []ast.FunctionArg{{Name: "x", Type: nameType("i32")}},
		ReturnType: nameType("i32"),
		Body:       &ast.Body{Stmts: []ast.Stmt{&ast.ReturnStmt{Value: &ast.Name{Path: []string{"x"}}}}},
	}
	fFloat := &ast.FunctionDecl{
		Name:       "f",
		Args:       []ast.FunctionArg{{Name: "x", Type: nameType("f64")}},
		ReturnType: nameType("f64"),
		Body:       &ast.Body{Stmts: []ast.Stmt{&ast.ReturnStmt{Value: &ast.Name{Path: []string{"x"}}}}},
	}
	caller := &ast.FunctionDecl{
		Name:       "run",
		ReturnType: nameType("i32"),
		Body: &ast.Body{Stmts: []ast.Stmt{
			&ast.ReturnStmt{Value: &ast.CallExpr{Callee: &ast.Name{Path: []string{"f"}}, Args: []ast.Expr{intLit(3)}}},
		}},
	}
	body := &ast.Body{Stmts: []ast.Stmt{fInt, fFloat, caller}}

	_, b := mustLower(t, body)

	ir := b.String()
	if strings.Count(ir, "define") != 3 {
		t.Fatalf("expected 3 defined functions (f, f, run), got:\n%s", ir)
	}
	if !strings.Contains(ir, "ret i32") {
		t.Fatalf("run() should return through the i32 overload, got:\n%s", ir)
	}
}

// "let mut x: i32 = 0; asm(\"mov $1, $0\" : \"+r\"(x) : \"r\"(5))" emits
// a constraint string carrying a write constraint, a tie-back input for the
// "+r" operand, and the "r"(5) input, ending in the fixed clobber tail.
func TestScenarioInlineAsmTiedReadWriteOperand(t *testing.T) {
	xDecl := &ast.VarDecl{Name: "x", Type: nameType("i32"), Init: intLit(0), Mut: true}
	asmStmt := &ast.AsmStmt{
		Template: "mov $1, $0",
		Outputs:  []ast.AsmOperand{{Constraint: "+r", Value: &ast.Name{Path: []string{"x"}}}},
		Inputs:   []ast.AsmOperand{{Constraint: "r", Value: intLit(5)}},
	}
	fn := &ast.FunctionDecl{
		Name: "run",
		Body: &ast.Body{Stmts: []ast.Stmt{xDecl, asmStmt}},
	}
	body := &ast.Body{Stmts: []ast.Stmt{fn}}

	_, b := mustLower(t, body)

	ir := b.String()
	if !strings.Contains(ir, "=r,0,r") {
		t.Fatalf("expected constraint string \"=r,0,r,...\" (write, tie-back, read), got:\n%s", ir)
	}
	if !strings.Contains(ir, "~{dirflag},~{fpsr},~{flags}") {
		t.Fatalf("expected the clobber string to end in the fixed clobber tail, got:\n%s", ir)
	}
}

// import "./a" from file /p/b.x resolves to /p/a.x; importing the same
// path twice visits it once; a missing file raises import failure with the
// token's position.
func TestScenarioImportResolutionDedupAndFailure(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(dir+"/a.x", nil, 0o644); err != nil {
		t.Fatal(err)
	}

	r := importer.New(dir)
	pos := token.Position{File: dir + "/b.x", Line: 1, Column: 1}
	path, err := r.Resolve("./a", pos)
	if err != nil {
		t.Fatalf("Resolve(./a): %v", err)
	}
	if !strings.HasSuffix(path, "/a.x") {
		t.Fatalf("expected resolution to .../a.x, got %q", path)
	}
	if first := r.Visit(path); !first {
		t.Fatalf("first Visit of a freshly resolved path should report true")
	}
	if again := r.Visit(path); again {
		t.Fatalf("re-importing the same canonical path should report false")
	}

	if _, err := r.Resolve("./missing", pos); err == nil {
		t.Fatalf("expected an import failure for a missing file")
	}
}
