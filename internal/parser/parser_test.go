package parser

import (
	"testing"

	"github.com/axonlang/langcore/internal/ast"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("parse(%q): %v", src, err)
	}
	return prog
}

func TestParseSimpleFunction(t *testing.T) {
	prog := mustParse(t, `fn add(a: Int, b: Int) -> Int { a + b; }`)
	if len(prog.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(prog.Items))
	}
	fn, ok := prog.Items[0].(*ast.Function)
	if !ok {
		t.Fatalf("expected *ast.Function, got %T", prog.Items[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("unexpected function shape: %+v", fn)
	}
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(fn.Body.Stmts))
	}
}

func TestParseAiModelAndQuery(t *testing.T) {
	src := `
ai_model claude {
  provider: "anthropic"
  model: "claude-3-opus"
}

fn f() {
  let x = ai query { model: claude prompt: "hi" };
}
`
	prog := mustParse(t, src)
	if len(prog.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(prog.Items))
	}
	model, ok := prog.Items[0].(*ast.AiModel)
	if !ok || model.Name != "claude" || model.Provider != "anthropic" {
		t.Fatalf("unexpected ai_model: %+v", prog.Items[0])
	}
	fn := prog.Items[1].(*ast.Function)
	letStmt := fn.Body.Stmts[0].(*ast.LetStmt)
	aiExpr, ok := letStmt.Value.(*ast.AiExpr)
	if !ok || aiExpr.AiKind != ast.AiBlock || aiExpr.Keyword != "query" {
		t.Fatalf("unexpected ai expression: %+v", letStmt.Value)
	}
}

func TestParseAiBangQuick(t *testing.T) {
	prog := mustParse(t, `fn main() { ai!{ "hello" }; }`)
	fn := prog.Items[0].(*ast.Function)
	stmt, ok := fn.Body.Stmts[0].(*ast.AiStmt)
	if !ok {
		t.Fatalf("expected AiStmt, got %T", fn.Body.Stmts[0])
	}
	if stmt.Expr.AiKind != ast.AiQuick || stmt.Expr.Query != "hello" {
		t.Fatalf("unexpected ai! expression: %+v", stmt.Expr)
	}
}

func TestParseIfStatement(t *testing.T) {
	prog := mustParse(t, `fn f(b: Bool) -> Int { if b { 1; } else { 2; } }`)
	fn := prog.Items[0].(*ast.Function)
	ifStmt, ok := fn.Body.Stmts[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected IfStmt, got %T", fn.Body.Stmts[0])
	}
	if ifStmt.Else == nil {
		t.Fatalf("expected else branch")
	}
}

func TestParseRecordVsBlockDisambiguation(t *testing.T) {
	prog := mustParse(t, `fn main() { let p = { x: 1, y: 2 }; let b = { 1; 2 }; }`)
	fn := prog.Items[0].(*ast.Function)
	let1 := fn.Body.Stmts[0].(*ast.LetStmt)
	if _, ok := let1.Value.(*ast.RecordLit); !ok {
		t.Fatalf("expected RecordLit, got %T", let1.Value)
	}
	let2 := fn.Body.Stmts[1].(*ast.LetStmt)
	if _, ok := let2.Value.(*ast.Block); !ok {
		t.Fatalf("expected Block, got %T", let2.Value)
	}
}

func TestParseUndefinedVariableStillParses(t *testing.T) {
	mustParse(t, `fn main() { let x: Int = y; }`)
}

func TestParsePromptInvocation(t *testing.T) {
	prog := mustParse(t, `prompt greet = "Hello, {name}!";

fn main() { let x = greet!(name); }`)
	fn := prog.Items[1].(*ast.Function)
	let := fn.Body.Stmts[0].(*ast.LetStmt)
	ai, ok := let.Value.(*ast.AiExpr)
	if !ok || ai.AiKind != ast.AiPromptInvocation || ai.PromptName != "greet" {
		t.Fatalf("unexpected prompt invocation: %+v", let.Value)
	}
}

func TestParseErrorExpectedFound(t *testing.T) {
	_, err := Parse(`fn (`)
	if err == nil {
		t.Fatalf("expected parse error")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Expected != "identifier" || perr.Found != "(" {
		t.Fatalf("expected identifier/( in parse error, got %v", err)
	}
}

func TestParseWhereContractClause(t *testing.T) {
	src := `fn div(a: Int, b: Int) -> Int where pre: b != 0 { a / b; }`
	prog := mustParse(t, src)
	fn := prog.Items[0].(*ast.Function)
	if len(fn.Contracts) != 1 || fn.Contracts[0].Kind != ast.ContractPre {
		t.Fatalf("unexpected contracts: %+v", fn.Contracts)
	}
}
