// Package pipeline sequences the four compilation stages — parse,
// check, lower_to_hir, lower_to_mir — behind one call, for callers
// (cmd/langc, tests) that want the whole front-end/middle-end run
// without re-deriving the wiring themselves. It adds no semantics of
// its own: each stage remains independently callable via its own
// package, exactly as spec 6 describes.
package pipeline

import (
	"time"

	"github.com/axonlang/langcore/internal/ast"
	"github.com/axonlang/langcore/internal/checker"
	"github.com/axonlang/langcore/internal/hir"
	"github.com/axonlang/langcore/internal/mir"
	"github.com/axonlang/langcore/internal/parser"
)

// Result collects every stage's output, even when a later stage never
// ran because an earlier one failed outright (parse error). Check
// errors do not stop the pipeline: HIR/MIR lowering proceed on
// whatever AST was produced, matching the checker's own
// never-abort-after-first-error discipline.
type Result struct {
	Path string

	AST  *ast.Program
	Errs []*checker.Error
	HIR  *hir.Program
	MIR  *mir.Program

	Elapsed time.Duration
}

// Pipeline runs the stages in order. Run returns a non-nil error only
// for a fatal parse failure; semantic errors are reported in
// Result.Errs and do not stop lowering.
type Pipeline struct{}

// Run parses, checks, and lowers source (attributed to path for error
// reporting) through HIR and MIR, returning the combined Result.
func (Pipeline) Run(source, path string) (*Result, error) {
	start := time.Now()

	program, err := parser.Parse(source)
	if err != nil {
		return &Result{Path: path, Elapsed: time.Since(start)}, err
	}

	errs := checker.Check(program)
	h := hir.Lower(program)
	m := mir.Lower(h)

	return &Result{
		Path:    path,
		AST:     program,
		Errs:    errs,
		HIR:     h,
		MIR:     m,
		Elapsed: time.Since(start),
	}, nil
}
