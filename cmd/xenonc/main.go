// cmd/xenonc is a minimal wiring demonstration: it hand-builds a syntax
// tree (there is no parser in this module; internal/sema.Parser is the
// interface boundary an external grammar would implement), lowers it
// through internal/sema against the github.com/llir/llvm-backed builder in
// internal/ir/llvmir, and prints the resulting module as LLVM IR text.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/xenon-lang/xenon/internal/ast"
	"github.com/xenon-lang/xenon/internal/importer"
	"github.com/xenon-lang/xenon/internal/ir/llvmir"
	"github.com/xenon-lang/xenon/internal/sema"
)

// main builds "fn main(): i32 { return 0 }" by hand and lowers it, since
// this module's charter puts the grammar/parser out of scope.
func main() {
	body := &ast.Body{
		Stmts: []ast.Stmt{
			&ast.FunctionDecl{
				Name:       "main",
				ReturnType: &ast.NameType{Path: []string{"i32"}},
				Body: &ast.Body{
					Stmts: []ast.Stmt{
						&ast.ReturnStmt{
							Value: &ast.Literal{Kind: ast.LiteralDecimalInt, Text: "0", Int: 0},
						},
					},
				},
			},
		},
	}

	builder := llvmir.New("main.x")
	resolver := importer.New(".")
	v := sema.New(builder, resolver, "main.x", "linux", "amd64")

	if err := v.LowerFile(body); err != nil {
		log.Fatalf("xenonc: %v", err)
	}

	printIR(builder.String())
}

// printIR writes out to stdout, wrapped in ANSI dim color when stdout is a
// terminal and left plain otherwise (redirected to a file, piped).
func printIR(out string) {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Print("\x1b[2m")
		fmt.Print(out)
		fmt.Print("\x1b[0m")
		return
	}
	fmt.Print(out)
}
