package checker

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/axonlang/langcore/internal/parser"
)

func checkSource(t *testing.T, src string) []*Error {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse(%q): %v", src, err)
	}
	return Check(prog)
}

func TestCheckSimpleFunctionOK(t *testing.T) {
	errs := checkSource(t, `fn add(a: Int, b: Int) -> Int { a + b; }`)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestCheckUndefinedVariable(t *testing.T) {
	errs := checkSource(t, `fn main() { let x: Int = y; }`)
	if len(errs) != 1 || errs[0].Kind != UndefinedVariable || errs[0].Name != "y" {
		t.Fatalf("expected one UndefinedVariable(y), got %v", errs)
	}
}

func TestCheckTypeMismatch(t *testing.T) {
	errs := checkSource(t, `fn main() { let x: Int = "hello"; }`)
	if len(errs) != 1 || errs[0].Kind != TypeMismatch {
		t.Fatalf("expected one TypeMismatch, got %v", errs)
	}
	if errs[0].Expected != "Int" || errs[0].Found != "String" {
		t.Fatalf("unexpected mismatch fields: %+v", errs[0])
	}
}

func TestCheckAiModelReference(t *testing.T) {
	src := `
ai_model claude {
  provider: "anthropic"
  model: "claude-3-opus"
}

fn f() {
  let x = ai query { model: claude prompt: "hi" };
}
`
	errs := checkSource(t, src)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestCheckUndefinedAiModel(t *testing.T) {
	src := `
ai_model claude {
  provider: "anthropic"
  model: "claude-3-opus"
}

fn f() {
  let x = ai query { model: ghost prompt: "hi" };
}
`
	errs := checkSource(t, src)
	if len(errs) != 1 || errs[0].Kind != UndefinedAiModel || errs[0].Name != "ghost" {
		t.Fatalf("expected one UndefinedAiModel(ghost), got %v", errs)
	}
}

func TestCheckDuplicateDefinition(t *testing.T) {
	errs := checkSource(t, `fn f() {} fn f() {}`)
	if len(errs) == 0 {
		t.Fatalf("expected duplicate definition errors")
	}
}

func TestCheckNonBoolCondition(t *testing.T) {
	errs := checkSource(t, `fn f() { if 1 { } }`)
	found := false
	for _, e := range errs {
		if e.Kind == NonBoolCondition {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a NonBoolCondition error, got %v", errs)
	}
}

func TestCheckWrongArgCount(t *testing.T) {
	errs := checkSource(t, `fn add(a: Int, b: Int) -> Int { a + b; } fn main() { add(1); }`)
	found := false
	for _, e := range errs {
		if e.Kind == WrongArgCount {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a WrongArgCount error, got %v", errs)
	}
}

// TestCheckDiagnosticShape structurally diffs the accumulated Error
// slice against an expected shape, ignoring position fields — the
// kind/name/expected/found content is what matters for this
// assertion, not the exact column the parser landed on.
func TestCheckDiagnosticShape(t *testing.T) {
	errs := checkSource(t, `fn main() { let x: Int = y; let z: Int = "hi"; }`)

	want := []*Error{
		{Kind: UndefinedVariable, Code: "CHK001", Name: "y"},
		{Kind: TypeMismatch, Code: "CHK006", Expected: "Int", Found: "String"},
	}

	diff := cmp.Diff(want, errs, cmpopts.IgnoreFields(Error{}, "Line", "Column"))
	if diff != "" {
		t.Fatalf("diagnostic shape mismatch (-want +got):\n%s", diff)
	}
}
