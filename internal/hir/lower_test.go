package hir

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/axonlang/langcore/internal/parser"
)

func TestLowerSimpleFunction(t *testing.T) {
	prog, err := parser.Parse(`fn add(a: Int, b: Int) -> Int { a + b; }`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	h := Lower(prog)
	if len(h.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(h.Functions))
	}
	fn := h.Functions[0]
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("unexpected lowered function: %+v", fn)
	}
	if fn.Body.Tail == nil {
		t.Fatalf("expected a tail expression")
	}
	if _, ok := fn.Body.Tail.(*BinOp); !ok {
		t.Fatalf("expected tail BinOp, got %T", fn.Body.Tail)
	}
}

func TestLowerAiQuick(t *testing.T) {
	prog, err := parser.Parse(`fn main() { ai!{ "hello" }; }`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	h := Lower(prog)
	fn := h.Functions[0]
	stmt, ok := fn.Body.Stmts[0].(*ExprStmt)
	if !ok {
		t.Fatalf("expected ExprStmt, got %T", fn.Body.Stmts[0])
	}
	ai, ok := stmt.Expr.(*AIExpr)
	if !ok || ai.Op != OpQuery || ai.Query != "hello" {
		t.Fatalf("unexpected lowered ai expr: %+v", stmt.Expr)
	}
}

func TestLowerIsDeterministic(t *testing.T) {
	src := `fn f(b: Bool) -> Int { if b { 1; } else { 2; } }`
	p1, _ := parser.Parse(src)
	p2, _ := parser.Parse(src)
	h1 := Lower(p1)
	h2 := Lower(p2)
	if diff := cmp.Diff(h1, h2); diff != "" {
		t.Fatalf("lowering the same source twice produced different HIR (-first +second):\n%s", diff)
	}
}
