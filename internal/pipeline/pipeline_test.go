package pipeline

import "testing"

func TestRunCleanProgram(t *testing.T) {
	res, err := Pipeline{}.Run(`fn add(a: Int, b: Int) -> Int { a + b; }`, "add.lang")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(res.Errs) != 0 {
		t.Fatalf("expected no check errors, got %v", res.Errs)
	}
	if res.HIR == nil || len(res.HIR.Functions) != 1 {
		t.Fatalf("expected one lowered HIR function")
	}
	if res.MIR == nil {
		t.Fatalf("expected MIR output")
	}
	if _, ok := res.MIR.Functions["add"]; !ok {
		t.Fatalf("expected MIR function add")
	}
}

func TestRunStillLowersOnCheckErrors(t *testing.T) {
	res, err := Pipeline{}.Run(`fn f() -> Int { undefinedVar; }`, "bad.lang")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(res.Errs) == 0 {
		t.Fatalf("expected a check error for undefinedVar")
	}
	if res.MIR == nil {
		t.Fatalf("expected lowering to proceed despite check errors")
	}
}

func TestRunParseErrorStopsPipeline(t *testing.T) {
	res, err := Pipeline{}.Run(`fn (`, "broken.lang")
	if err == nil {
		t.Fatalf("expected a parse error")
	}
	if res.AST != nil {
		t.Fatalf("expected no AST on parse failure")
	}
}
