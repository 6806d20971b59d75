package parser_test

import (
	"testing"

	"github.com/funvibe/umo/internal/ast"
	"github.com/funvibe/umo/internal/parser"
)

const preamble = `use lang::"0.0.1";` + "\n"

func TestParsePreambleOnlyYieldsEmptyProgram(t *testing.T) {
	prog, err := parser.Parse(preamble)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(prog.Funcs) != 0 || len(prog.Stmts) != 0 {
		t.Fatalf("expected empty program, got %+v", prog)
	}
}

func TestParseRejectsMissingPreamble(t *testing.T) {
	if _, err := parser.Parse(`let x = 1;`); err == nil {
		t.Fatalf("expected an error for a missing preamble")
	}
}

func TestParseLetAndThen(t *testing.T) {
	prog, err := parser.Parse(preamble + `let x = 1; then x;`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(prog.Stmts) != 2 {
		t.Fatalf("got %d stmts, want 2", len(prog.Stmts))
	}
	let, ok := prog.Stmts[0].(*ast.Let)
	if !ok || let.Lhs.Name != "x" {
		t.Fatalf("stmt 0: got %#v", prog.Stmts[0])
	}
	if _, ok := let.Init.(*ast.IntegerLiteral); !ok {
		t.Fatalf("let init: got %#v", let.Init)
	}
	tail, ok := prog.Stmts[1].(*ast.ExprStmt)
	if !ok || !tail.UseValue {
		t.Fatalf("stmt 1: got %#v", prog.Stmts[1])
	}
}

func TestParseBinOpPrecedence(t *testing.T) {
	// 1 + 2 < 3 parses as (1 + 2) < 3, not 1 + (2 < 3).
	prog, err := parser.Parse(preamble + `then 1 + 2 < 3;`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	stmt := prog.Stmts[0].(*ast.ExprStmt)
	lt, ok := stmt.Expr.(*ast.BinOp)
	if !ok || lt.Op != ast.Lt {
		t.Fatalf("got %#v, want top-level Lt", stmt.Expr)
	}
	add, ok := lt.Lhs.(*ast.BinOp)
	if !ok || add.Op != ast.Add {
		t.Fatalf("got %#v, want Add on the left of Lt", lt.Lhs)
	}
}

func TestParseCall(t *testing.T) {
	prog, err := parser.Parse(preamble + `then f(x, 1);`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	stmt := prog.Stmts[0].(*ast.ExprStmt)
	call, ok := stmt.Expr.(*ast.Call)
	if !ok {
		t.Fatalf("got %#v, want *ast.Call", stmt.Expr)
	}
	if len(call.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(call.Args))
	}
}

func TestParseAssignment(t *testing.T) {
	prog, err := parser.Parse(preamble + `x = 1 + 1;`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	stmt := prog.Stmts[0].(*ast.ExprStmt)
	assign, ok := stmt.Expr.(*ast.Assign)
	if !ok || assign.Lhs.Name != "x" {
		t.Fatalf("got %#v, want *ast.Assign to x", stmt.Expr)
	}
}

func TestParseIfThenElse(t *testing.T) {
	prog, err := parser.Parse(preamble + `then if x < 1 then 2 else 3;`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	stmt := prog.Stmts[0].(*ast.ExprStmt)
	branch, ok := stmt.Expr.(*ast.Branch)
	if !ok {
		t.Fatalf("got %#v, want *ast.Branch", stmt.Expr)
	}
	if _, ok := branch.Then.(*ast.IntegerLiteral); !ok {
		t.Fatalf("branch.Then: got %#v", branch.Then)
	}
}

func TestParseIfBraceElse(t *testing.T) {
	prog, err := parser.Parse(preamble + `then if x < 1 { then 2; } else { then 3; };`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	stmt := prog.Stmts[0].(*ast.ExprStmt)
	branch, ok := stmt.Expr.(*ast.Branch)
	if !ok {
		t.Fatalf("got %#v, want *ast.Branch", stmt.Expr)
	}
	if _, ok := branch.Then.(*ast.Block); !ok {
		t.Fatalf("branch.Then: got %#v", branch.Then)
	}
}

func TestParseWhileAndDo(t *testing.T) {
	prog, err := parser.Parse(preamble + `then while x < 10 { x = x + 1; };` + `then do { then 1; };`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(prog.Stmts) != 2 {
		t.Fatalf("got %d stmts, want 2", len(prog.Stmts))
	}
	if _, ok := prog.Stmts[0].(*ast.ExprStmt).Expr.(*ast.While); !ok {
		t.Fatalf("stmt 0: got %#v", prog.Stmts[0])
	}
	if _, ok := prog.Stmts[1].(*ast.ExprStmt).Expr.(*ast.Block); !ok {
		t.Fatalf("stmt 1: got %#v", prog.Stmts[1])
	}
}

func TestParseFuncDecl(t *testing.T) {
	prog, err := parser.Parse(preamble + `fn add(a, b) { then a + b; }` + `then add(1, 2);`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(prog.Funcs) != 1 {
		t.Fatalf("got %d funcs, want 1", len(prog.Funcs))
	}
	fn := prog.Funcs[0]
	if fn.Name.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("got %#v", fn)
	}
	if len(prog.Stmts) != 1 {
		t.Fatalf("got %d stmts, want 1", len(prog.Stmts))
	}
}
