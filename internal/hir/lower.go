package hir

import (
	"strconv"

	"github.com/axonlang/langcore/internal/ast"
	"github.com/axonlang/langcore/internal/typeenv"
	"github.com/axonlang/langcore/internal/types"
)

// Lower is the total, pure AST → HIR function (spec 6 "lower_to_hir").
// It tolerates but does not enforce semantic correctness — the checker
// is authoritative; Lower never fails on a syntactically valid
// Program.
func Lower(program *ast.Program) *Program {
	env := typeenv.New()
	collectTypeSignatures(program, env)

	out := &Program{}
	for _, item := range program.Items {
		switch it := item.(type) {
		case *ast.Function:
			out.Functions = append(out.Functions, lowerFunction(it, env))
		case *ast.Struct:
			out.Structs = append(out.Structs, lowerStruct(it, env))
		case *ast.Effect:
			out.Effects = append(out.Effects, lowerEffect(it))
		case *ast.AiModel:
			out.AIModels = append(out.AIModels, &AIModel{Name: it.Name, Provider: it.Provider, Model: it.Model})
		}
	}
	return out
}

// collectTypeSignatures runs a Pass-1-shaped pre-pass solely so that
// named types referenced in signatures resolve during lowering; it
// never reports diagnostics (that is the checker's job).
func collectTypeSignatures(program *ast.Program, env *typeenv.Env) {
	for _, item := range program.Items {
		switch it := item.(type) {
		case *ast.Struct:
			fields := make([]types.RecordField, len(it.Fields))
			for i, f := range it.Fields {
				fields[i] = types.RecordField{Name: f.Name, Type: env.ResolveASTType(f.Type)}
			}
			env.DefineStruct(&typeenv.StructDef{Name: it.Name, Fields: fields})
		case *ast.Effect:
			ops := make(map[string]*types.Ty, len(it.Operations))
			for _, op := range it.Operations {
				params := make([]*types.Ty, len(op.Params))
				for i, p := range op.Params {
					params[i] = env.ResolveASTType(p.Type)
				}
				ops[op.Name] = types.Function(params, env.ResolveASTType(op.ReturnType))
			}
			env.DefineEffect(&typeenv.EffectDef{Name: it.Name, Ops: ops})
		case *ast.AiModel:
			env.DefineAiModel(&typeenv.AiModelDef{Name: it.Name, Provider: it.Provider, Model: it.Model})
		case *ast.Prompt:
			env.DefinePrompt(&typeenv.PromptDef{Name: it.Name, Template: it.Template})
		}
	}
}

func lowerFunction(fn *ast.Function, env *typeenv.Env) *Function {
	params := make([]Param, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = Param{Name: p.Name, Type: env.ResolveASTType(p.Type)}
	}
	return &Function{
		Name:       fn.Name,
		Params:     params,
		ReturnType: env.ResolveASTType(fn.ReturnType),
		Effects:    nil, // reserved for future work, spec 4.4
		Body:       lowerBlock(fn.Body, env),
	}
}

func lowerStruct(st *ast.Struct, env *typeenv.Env) *Struct {
	fields := make([]types.RecordField, len(st.Fields))
	for i, f := range st.Fields {
		fields[i] = types.RecordField{Name: f.Name, Type: env.ResolveASTType(f.Type)}
	}
	return &Struct{Name: st.Name, Fields: fields}
}

func lowerEffect(eff *ast.Effect) *Effect {
	ops := make([]string, len(eff.Operations))
	for i, op := range eff.Operations {
		ops[i] = op.Name
	}
	return &Effect{Name: eff.Name, Ops: ops}
}

// lowerBlock canonicalises an ast.Block into an HIR Block: the AST's
// last ExprStmt (if present and not itself a control-flow statement)
// becomes the block's tail value, matching "HIR function bodies are
// HirBlock{stmts, expr}" from spec 4.4.
func lowerBlock(block *ast.Block, env *typeenv.Env) *Block {
	out := &Block{}
	for i, stmt := range block.Stmts {
		isLast := i == len(block.Stmts)-1
		if isLast {
			if es, ok := stmt.(*ast.ExprStmt); ok {
				out.Tail = lowerExpr(es.Expr, env)
				continue
			}
		}
		out.Stmts = append(out.Stmts, lowerStmt(stmt, env))
	}
	return out
}

func lowerStmt(stmt ast.Stmt, env *typeenv.Env) Stmt {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		var ty *types.Ty
		if s.Type != nil {
			ty = env.ResolveASTType(s.Type)
		}
		return &LetStmt{Name: s.Name, Type: ty, Value: lowerExpr(s.Value, env)}
	case *ast.ExprStmt:
		return &ExprStmt{Expr: lowerExpr(s.Expr, env)}
	case *ast.IfStmt:
		hs := &IfStmt{Cond: lowerExpr(s.Cond, env), Then: lowerBlock(s.Then, env)}
		if s.Else != nil {
			hs.Else = lowerBlock(s.Else, env)
		}
		return hs
	case *ast.ReturnStmt:
		var v Expr
		if s.Value != nil {
			v = lowerExpr(s.Value, env)
		}
		return &ReturnStmt{Value: v}
	case *ast.GoStmt:
		return &GoStmt{Body: lowerBlock(s.Body, env)}
	case *ast.AwaitStmt:
		return &ExprStmt{Expr: lowerExpr(s.Expr, env)}
	case *ast.TryStmt:
		return &ExprStmt{Expr: lowerExpr(s.Expr, env)}
	case *ast.ComptimeStmt:
		return &ExprStmt{Expr: &BlockExpr{Block: lowerBlock(s.Body, env)}}
	case *ast.AiStmt:
		return &ExprStmt{Expr: lowerExpr(s.Expr, env)}
	default:
		return &ExprStmt{Expr: &UnitLit{}}
	}
}

func lowerExpr(expr ast.Expr, env *typeenv.Env) Expr {
	switch e := expr.(type) {
	case *ast.Literal:
		switch e.Kind {
		case ast.LitInt:
			v, _ := strconv.ParseInt(e.Raw, 10, 64)
			return &IntLit{Value: v}
		case ast.LitFloat:
			f, _ := strconv.ParseFloat(e.Raw, 64)
			return &FloatLit{Value: f}
		case ast.LitString:
			return &StringLit{Value: e.Raw}
		case ast.LitBool:
			return &BoolLit{Value: e.Bool}
		}
		return &UnitLit{}
	case *ast.Identifier:
		return &Var{Name: e.Name}
	case *ast.AssignExpr:
		return &Assign{Target: lowerExpr(e.Target, env), Value: lowerExpr(e.Value, env)}
	case *ast.Call:
		args := make([]Expr, len(e.Args))
		for i, a := range e.Args {
			args[i] = lowerExpr(a, env)
		}
		return &Call{Callee: lowerExpr(e.Callee, env), Args: args}
	case *ast.FieldAccess:
		return &FieldAccess{Object: lowerExpr(e.Object, env), Field: e.Field}
	case *ast.BinaryExpr:
		return &BinOp{Op: e.Op, Left: lowerExpr(e.Left, env), Right: lowerExpr(e.Right, env)}
	case *ast.UnaryExpr:
		return &UnOp{Op: e.Op, Operand: lowerExpr(e.Operand, env)}
	case *ast.TryExpr:
		return lowerExpr(e.Inner, env)
	case *ast.RestrictExpr:
		return lowerExpr(e.Inner, env)
	case *ast.Block:
		return &BlockExpr{Block: lowerBlock(e, env)}
	case *ast.Lambda:
		params := make([]Param, len(e.Params))
		for i, p := range e.Params {
			params[i] = Param{Name: p.Name, Type: env.ResolveASTType(p.Type)}
		}
		var body *Block
		switch b := e.Body.(type) {
		case *ast.Block:
			body = lowerBlock(b, env)
		default:
			body = &Block{Tail: lowerExpr(b, env)}
		}
		return &Lambda{Params: params, Body: body}
	case *ast.Match:
		arms := make([]MatchArm, len(e.Arms))
		for i, a := range e.Arms {
			arms[i] = MatchArm{Pattern: lowerPattern(a.Pattern), Body: lowerExpr(a.Body, env)}
		}
		return &Match{Scrutinee: lowerExpr(e.Scrutinee, env), Arms: arms}
	case *ast.ArrayLit:
		elems := make([]Expr, len(e.Elements))
		for i, el := range e.Elements {
			elems[i] = lowerExpr(el, env)
		}
		return &ArrayLit{Elements: elems}
	case *ast.RecordLit:
		fields := make([]RecordField, len(e.Fields))
		for i, f := range e.Fields {
			fields[i] = RecordField{Name: f.Name, Value: lowerExpr(f.Value, env)}
		}
		return &RecordLit{Fields: fields}
	case *ast.RecordUpdate:
		fields := make([]RecordField, 0, len(e.Fields)+1)
		for _, f := range e.Fields {
			fields = append(fields, RecordField{Name: f.Name, Value: lowerExpr(f.Value, env)})
		}
		return &RecordLit{Fields: fields}
	case *ast.AiExpr:
		return lowerAiExpr(e, env)
	default:
		return &UnitLit{}
	}
}

func lowerAiExpr(e *ast.AiExpr, env *typeenv.Env) *AIExpr {
	if e.AiKind == ast.AiPromptInvocation {
		args := make([]Expr, len(e.PromptArgs))
		for i, a := range e.PromptArgs {
			args[i] = lowerExpr(a, env)
		}
		// Prompt invocations desugar to a plain generic call, reserved
		// work per spec 4.4; here represented as an AIExpr so the MIR
		// stage still has a single deferred-op shape to lower from.
		return &AIExpr{Op: OpQuery, PromptName: e.PromptName, Args: args}
	}
	if e.AiKind == ast.AiQuick {
		return &AIExpr{Op: OpQuery, Query: e.Query}
	}

	out := &AIExpr{Op: aiOpFromKeyword(e.Keyword)}
	for _, f := range e.Fields {
		if f.Name == "model" {
			if ident, ok := f.Value.(*ast.Identifier); ok {
				out.Model = ident.Name
				continue
			}
		}
		out.Args = append(out.Args, lowerExpr(f.Value, env))
	}
	return out
}

func aiOpFromKeyword(kw string) AIOp {
	switch kw {
	case "query":
		return OpQuery
	case "verify", "validate":
		return OpVerify
	case "embed":
		return OpEmbed
	case "generate":
		return OpGenerate
	case "classify":
		return OpClassify
	default:
		return OpOther
	}
}

func lowerPattern(p ast.Pattern) Pattern {
	switch pt := p.(type) {
	case *ast.WildcardPattern:
		return &WildcardPattern{}
	case *ast.IdentPattern:
		return &IdentPattern{Name: pt.Name}
	case *ast.LiteralPattern:
		return &LiteralPattern{Value: lowerLiteralOnly(pt.Literal)}
	case *ast.ConstructorPattern:
		args := make([]Pattern, len(pt.Args))
		for i, a := range pt.Args {
			args[i] = lowerPattern(a)
		}
		return &ConstructorPattern{Name: pt.Name, Args: args}
	default:
		return &WildcardPattern{}
	}
}

func lowerLiteralOnly(lit *ast.Literal) Expr {
	return lowerExpr(lit, nil)
}
