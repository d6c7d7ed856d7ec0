// Package checker implements the two-pass semantic analyser from spec
// 4.3: Pass 1 collects every top-level signature into the type
// environment and a stub symbol in the root scope; Pass 2 walks
// function/struct/comptime bodies accumulating diagnostics rather than
// aborting at the first one. Grounded in control shape on
// original_source's checker (itself two-pass over the same item set),
// in Go idiom (typed error list, scope-per-block) on AILANG's
// internal/types checking style.
package checker

import (
	"strconv"

	"github.com/axonlang/langcore/internal/ast"
	"github.com/axonlang/langcore/internal/resolve"
	"github.com/axonlang/langcore/internal/token"
	"github.com/axonlang/langcore/internal/typeenv"
	"github.com/axonlang/langcore/internal/types"
)

// Checker holds the accumulated state of one Check run.
type Checker struct {
	env   *typeenv.Env
	table *resolve.Table
	errs  []*Error

	currentReturn *types.Ty
}

// Check runs both passes over program and returns the accumulated
// diagnostics (empty iff the program is accepted), matching the "check"
// entry point from spec 6.
func Check(program *ast.Program) []*Error {
	c := &Checker{
		env:   typeenv.New(),
		table: resolve.NewTable(),
	}
	c.env.Preload()
	c.collect(program)
	c.checkBodies(program)
	return c.errs
}

func (c *Checker) addErr(e *Error) { c.errs = append(c.errs, e) }

func startOf(n ast.Node) token.Pos { return n.Span().Start }

// ---- Pass 1: collect definitions ----

func (c *Checker) collect(program *ast.Program) {
	root := c.table.Root()
	for _, item := range program.Items {
		switch it := item.(type) {
		case *ast.Function:
			paramTypes := make([]*types.Ty, len(it.Params))
			for i, p := range it.Params {
				paramTypes[i] = c.env.ResolveASTType(p.Type)
			}
			resultTy := c.env.ResolveASTType(it.ReturnType)
			fnTy := types.Function(paramTypes, resultTy)
			if !c.env.DefineFunction(it.Name, fnTy) {
				c.duplicateDefinition(it.Name, it)
			}
			if !c.table.Define(root, &resolve.Symbol{Name: it.Name, Kind: resolve.SymFunction, Type: fnTy, Span: it.Span()}) {
				c.duplicateDefinition(it.Name, it)
			}
		case *ast.Struct:
			fields := make([]types.RecordField, len(it.Fields))
			for i, f := range it.Fields {
				fields[i] = types.RecordField{Name: f.Name, Type: c.env.ResolveASTType(f.Type)}
			}
			if !c.env.DefineStruct(&typeenv.StructDef{Name: it.Name, Fields: fields}) {
				c.duplicateDefinition(it.Name, it)
			}
			sentinel := types.Named(it.Name)
			if !c.table.Define(root, &resolve.Symbol{Name: it.Name, Kind: resolve.SymStruct, Type: sentinel, Span: it.Span()}) {
				c.duplicateDefinition(it.Name, it)
			}
		case *ast.Effect:
			ops := make(map[string]*types.Ty, len(it.Operations))
			for _, op := range it.Operations {
				params := make([]*types.Ty, len(op.Params))
				for i, p := range op.Params {
					params[i] = c.env.ResolveASTType(p.Type)
				}
				ops[op.Name] = types.Function(params, c.env.ResolveASTType(op.ReturnType))
			}
			if !c.env.DefineEffect(&typeenv.EffectDef{Name: it.Name, Ops: ops}) {
				c.duplicateDefinition(it.Name, it)
			}
			sentinel := types.Named(it.Name)
			if !c.table.Define(root, &resolve.Symbol{Name: it.Name, Kind: resolve.SymEffect, Type: sentinel, Span: it.Span()}) {
				c.duplicateDefinition(it.Name, it)
			}
		case *ast.AiModel:
			if !c.env.DefineAiModel(&typeenv.AiModelDef{Name: it.Name, Provider: it.Provider, Model: it.Model}) {
				c.duplicateDefinition(it.Name, it)
			}
			sentinel := types.Named(it.Name)
			if !c.table.Define(root, &resolve.Symbol{Name: it.Name, Kind: resolve.SymAiModel, Type: sentinel, Span: it.Span()}) {
				c.duplicateDefinition(it.Name, it)
			}
		case *ast.Prompt:
			if !c.env.DefinePrompt(&typeenv.PromptDef{Name: it.Name, Template: it.Template}) {
				c.duplicateDefinition(it.Name, it)
			}
			promptTy := types.Function([]*types.Ty{types.Unknown}, types.AI(types.String))
			if !c.table.Define(root, &resolve.Symbol{Name: it.Name, Kind: resolve.SymPrompt, Type: promptTy, Span: it.Span()}) {
				c.duplicateDefinition(it.Name, it)
			}
		case *ast.Import, *ast.Comptime, *ast.Arena:
			// out of scope for signature collection
		}
	}
}

func (c *Checker) duplicateDefinition(name string, n ast.Node) {
	pos := startOf(n)
	e := newError(DuplicateDefinition, pos.Line, pos.Column)
	e.Name = name
	c.addErr(e)
}

// ---- Pass 2: check bodies ----

func (c *Checker) checkBodies(program *ast.Program) {
	root := c.table.Root()
	for _, item := range program.Items {
		switch it := item.(type) {
		case *ast.Function:
			c.checkFunction(it, root)
		case *ast.Struct:
			c.checkStruct(it)
		case *ast.Comptime:
			scope := c.table.Push(root)
			c.checkBlock(it.Body, scope)
		}
	}
}

func (c *Checker) checkFunction(fn *ast.Function, root resolve.ScopeID) {
	scope := c.table.Push(root)
	for _, p := range fn.Params {
		ty := c.env.ResolveASTType(p.Type)
		c.table.Define(scope, &resolve.Symbol{Name: p.Name, Kind: resolve.SymParameter, Type: ty, Span: p.Span(), Mutable: false})
	}
	prevReturn := c.currentReturn
	c.currentReturn = c.env.ResolveASTType(fn.ReturnType)
	c.checkBlock(fn.Body, scope)
	c.currentReturn = prevReturn
}

func (c *Checker) checkStruct(st *ast.Struct) {
	for _, f := range st.Fields {
		ty := c.env.ResolveASTType(f.Type)
		if ty.Kind == types.KError {
			pos := startOf(f)
			e := newError(UndefinedType, pos.Line, pos.Column)
			if nt, ok := f.Type.(*ast.NamedType); ok {
				e.Name = nt.Name
			}
			c.addErr(e)
		}
	}
}

func (c *Checker) checkBlock(block *ast.Block, scope resolve.ScopeID) *types.Ty {
	var last *types.Ty = types.Unit
	for _, stmt := range block.Stmts {
		last = c.checkStmt(stmt, scope)
	}
	return last
}

func (c *Checker) checkStmt(stmt ast.Stmt, scope resolve.ScopeID) *types.Ty {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		inferred := c.checkExpr(s.Value, scope)
		declared := inferred
		if s.Type != nil {
			declared = c.env.ResolveASTType(s.Type)
			if !declared.AssignableFrom(inferred) {
				pos := startOf(s.Value)
				e := newError(TypeMismatch, pos.Line, pos.Column)
				e.Expected, e.Found = declared.String(), inferred.String()
				c.addErr(e)
			}
		}
		sym := &resolve.Symbol{Name: s.Name, Kind: resolve.SymVariable, Type: declared, Span: s.Span(), Mutable: s.Mutable}
		if !c.table.Define(scope, sym) {
			c.duplicateDefinition(s.Name, s)
		}
		return types.Unit
	case *ast.ExprStmt:
		return c.checkExpr(s.Expr, scope)
	case *ast.IfStmt:
		condTy := c.checkExpr(s.Cond, scope)
		if condTy.Kind != types.KBool && condTy.Kind != types.KError && condTy.Kind != types.KUnknown {
			pos := startOf(s.Cond)
			e := newError(NonBoolCondition, pos.Line, pos.Column)
			e.Found = condTy.String()
			c.addErr(e)
		}
		thenScope := c.table.Push(scope)
		c.checkBlock(s.Then, thenScope)
		if s.Else != nil {
			elseScope := c.table.Push(scope)
			c.checkBlock(s.Else, elseScope)
		}
		return types.Unit
	case *ast.ReturnStmt:
		var valTy *types.Ty = types.Unit
		if s.Value != nil {
			valTy = c.checkExpr(s.Value, scope)
		}
		if c.currentReturn != nil && !c.currentReturn.AssignableFrom(valTy) {
			pos := startOf(s)
			e := newError(TypeMismatch, pos.Line, pos.Column)
			e.Expected, e.Found = c.currentReturn.String(), valTy.String()
			c.addErr(e)
		}
		return types.Unit
	case *ast.GoStmt:
		goScope := c.table.Push(scope)
		c.checkBlock(s.Body, goScope)
		return types.Unit
	case *ast.AwaitStmt:
		return c.checkExpr(s.Expr, scope)
	case *ast.TryStmt:
		return c.checkExpr(s.Expr, scope)
	case *ast.ComptimeStmt:
		ctScope := c.table.Push(scope)
		c.checkBlock(s.Body, ctScope)
		return types.Unit
	case *ast.AiStmt:
		return c.checkExpr(s.Expr, scope)
	default:
		return types.Unit
	}
}

func (c *Checker) checkExpr(expr ast.Expr, scope resolve.ScopeID) *types.Ty {
	switch e := expr.(type) {
	case *ast.Literal:
		switch e.Kind {
		case ast.LitInt:
			return types.Int
		case ast.LitFloat:
			return types.Float
		case ast.LitString:
			return types.String
		case ast.LitBool:
			return types.Bool
		}
		return types.Unit
	case *ast.Identifier:
		sym := c.table.Lookup(scope, e.Name)
		if sym == nil {
			if fnTy, ok := c.env.Functions[e.Name]; ok {
				return fnTy
			}
			pos := startOf(e)
			err := newError(UndefinedVariable, pos.Line, pos.Column)
			err.Name = e.Name
			c.addErr(err)
			return types.Error
		}
		return sym.Type
	case *ast.AssignExpr:
		targetTy := c.checkExpr(e.Target, scope)
		if ident, ok := e.Target.(*ast.Identifier); ok {
			sym := c.table.Lookup(scope, ident.Name)
			if sym != nil && !sym.Mutable {
				pos := startOf(e)
				err := newError(ImmutableAssignment, pos.Line, pos.Column)
				err.Name = ident.Name
				c.addErr(err)
			}
		}
		valTy := c.checkExpr(e.Value, scope)
		if targetTy.Kind != types.KError && !targetTy.AssignableFrom(valTy) {
			pos := startOf(e)
			err := newError(TypeMismatch, pos.Line, pos.Column)
			err.Expected, err.Found = targetTy.String(), valTy.String()
			c.addErr(err)
		}
		return types.Unit
	case *ast.Call:
		calleeTy := c.checkExpr(e.Callee, scope)
		argTys := make([]*types.Ty, len(e.Args))
		for i, a := range e.Args {
			argTys[i] = c.checkExpr(a, scope)
		}
		if calleeTy.Kind == types.KError || calleeTy.Kind == types.KUnknown {
			return types.Error
		}
		if calleeTy.Kind != types.KFunction {
			pos := startOf(e.Callee)
			err := newError(Other, pos.Line, pos.Column)
			err.Message = "calling a non-function value"
			c.addErr(err)
			return types.Error
		}
		if len(calleeTy.Params) != len(argTys) {
			pos := startOf(e)
			err := newError(WrongArgCount, pos.Line, pos.Column)
			err.Expected = strconv.Itoa(len(calleeTy.Params))
			err.Found = strconv.Itoa(len(argTys))
			c.addErr(err)
			return calleeTy.Result
		}
		for i, pt := range calleeTy.Params {
			if !pt.AssignableFrom(argTys[i]) {
				pos := startOf(e.Args[i])
				err := newError(TypeMismatch, pos.Line, pos.Column)
				err.Expected, err.Found = pt.String(), argTys[i].String()
				c.addErr(err)
			}
		}
		return calleeTy.Result
	case *ast.FieldAccess:
		objTy := c.checkExpr(e.Object, scope)
		if objTy.Kind == types.KError || objTy.Kind == types.KUnknown {
			return types.Error
		}
		if objTy.Kind == types.KNamed {
			if def, ok := c.env.Structs[objTy.Name]; ok {
				for _, f := range def.Fields {
					if f.Name == e.Field {
						return f.Type
					}
				}
			}
			pos := startOf(e)
			err := newError(Other, pos.Line, pos.Column)
			err.Message = "unknown field " + e.Field
			c.addErr(err)
			return types.Error
		}
		if objTy.Kind == types.KRecord {
			for _, f := range objTy.Fields {
				if f.Name == e.Field {
					return f.Type
				}
			}
		}
		pos := startOf(e)
		err := newError(Other, pos.Line, pos.Column)
		err.Message = "unknown field " + e.Field
		c.addErr(err)
		return types.Error
	case *ast.BinaryExpr:
		return c.checkBinary(e, scope)
	case *ast.UnaryExpr:
		return c.checkUnary(e, scope)
	case *ast.TryExpr:
		return c.checkExpr(e.Inner, scope)
	case *ast.RestrictExpr:
		return c.checkExpr(e.Inner, scope)
	case *ast.Block:
		blockScope := c.table.Push(scope)
		return c.checkBlock(e, blockScope)
	case *ast.Lambda:
		return c.checkLambda(e, scope)
	case *ast.Match:
		return c.checkMatch(e, scope)
	case *ast.ArrayLit:
		if len(e.Elements) == 0 {
			return types.Array(types.Unknown)
		}
		first := c.checkExpr(e.Elements[0], scope)
		for _, el := range e.Elements[1:] {
			elTy := c.checkExpr(el, scope)
			if !first.AssignableFrom(elTy) {
				pos := startOf(el)
				err := newError(TypeMismatch, pos.Line, pos.Column)
				err.Expected, err.Found = first.String(), elTy.String()
				c.addErr(err)
			}
		}
		return types.Array(first)
	case *ast.RecordLit:
		fields := make([]types.RecordField, len(e.Fields))
		for i, f := range e.Fields {
			fields[i] = types.RecordField{Name: f.Name, Type: c.checkExpr(f.Value, scope)}
		}
		return types.Record(fields)
	case *ast.RecordUpdate:
		baseTy := c.checkExpr(e.Base, scope)
		for _, f := range e.Fields {
			c.checkExpr(f.Value, scope)
		}
		return baseTy
	case *ast.AiExpr:
		return c.checkAiExpr(e, scope)
	default:
		return types.Unknown
	}
}

func (c *Checker) checkBinary(e *ast.BinaryExpr, scope resolve.ScopeID) *types.Ty {
	left := c.checkExpr(e.Left, scope)
	right := c.checkExpr(e.Right, scope)
	if left.Kind == types.KError || right.Kind == types.KError {
		return types.Error
	}
	switch e.Op {
	case "+", "-", "*", "/":
		if e.Op == "+" && left.Kind == types.KString && right.Kind == types.KString {
			return types.String
		}
		if left.IsNumeric() && right.IsNumeric() {
			if left.Kind == types.KFloat || right.Kind == types.KFloat {
				return types.Float
			}
			return types.Int
		}
		return c.invalidBinaryOp(e, left, right)
	case "%":
		if left.IsNumeric() && right.IsNumeric() {
			return types.Int
		}
		return c.invalidBinaryOp(e, left, right)
	case "==", "!=":
		if left.AssignableFrom(right) || right.AssignableFrom(left) {
			return types.Bool
		}
		return c.invalidBinaryOp(e, left, right)
	case "<", ">", "<=", ">=":
		if left.IsNumeric() && right.IsNumeric() {
			return types.Bool
		}
		return c.invalidBinaryOp(e, left, right)
	case "&&", "||":
		if left.Kind == types.KBool && right.Kind == types.KBool {
			return types.Bool
		}
		return c.invalidBinaryOp(e, left, right)
	default:
		return c.invalidBinaryOp(e, left, right)
	}
}

func (c *Checker) invalidBinaryOp(e *ast.BinaryExpr, left, right *types.Ty) *types.Ty {
	pos := startOf(e)
	err := newError(InvalidBinaryOp, pos.Line, pos.Column)
	err.Left, err.Op, err.Right = left.String(), e.Op, right.String()
	c.addErr(err)
	return types.Error
}

func (c *Checker) checkUnary(e *ast.UnaryExpr, scope resolve.ScopeID) *types.Ty {
	operand := c.checkExpr(e.Operand, scope)
	switch e.Op {
	case "-":
		if operand.IsNumeric() {
			return operand
		}
	case "!":
		if operand.Kind == types.KBool {
			return types.Bool
		}
	case "&":
		return types.Ref(false, operand)
	case "&mut":
		return types.Ref(true, operand)
	}
	if operand.Kind == types.KError {
		return types.Error
	}
	pos := startOf(e)
	err := newError(Other, pos.Line, pos.Column)
	err.Message = "invalid unary operator " + e.Op + " on " + operand.String()
	c.addErr(err)
	return types.Error
}

func (c *Checker) checkLambda(e *ast.Lambda, scope resolve.ScopeID) *types.Ty {
	lamScope := c.table.Push(scope)
	paramTys := make([]*types.Ty, len(e.Params))
	for i, p := range e.Params {
		ty := c.env.ResolveASTType(p.Type)
		paramTys[i] = ty
		c.table.Define(lamScope, &resolve.Symbol{Name: p.Name, Kind: resolve.SymParameter, Type: ty, Span: p.Span()})
	}
	var result *types.Ty
	switch body := e.Body.(type) {
	case *ast.Block:
		c.checkBlock(body, lamScope)
		result = types.Unit
	default:
		result = c.checkExpr(body, lamScope)
	}
	return types.Function(paramTys, result)
}

func (c *Checker) checkMatch(e *ast.Match, scope resolve.ScopeID) *types.Ty {
	scrutTy := c.checkExpr(e.Scrutinee, scope)
	var result *types.Ty
	for _, arm := range e.Arms {
		armScope := c.table.Push(scope)
		c.bindPattern(arm.Pattern, scrutTy, armScope)
		armTy := c.checkExpr(arm.Body, armScope)
		if result == nil {
			result = armTy
			continue
		}
		if !result.AssignableFrom(armTy) {
			pos := startOf(arm.Body)
			err := newError(TypeMismatch, pos.Line, pos.Column)
			err.Expected, err.Found = result.String(), armTy.String()
			c.addErr(err)
		}
	}
	if result == nil {
		return types.Unit
	}
	return result
}

func (c *Checker) bindPattern(pat ast.Pattern, scrutTy *types.Ty, scope resolve.ScopeID) {
	switch p := pat.(type) {
	case *ast.IdentPattern:
		c.table.Define(scope, &resolve.Symbol{Name: p.Name, Kind: resolve.SymVariable, Type: scrutTy, Span: p.Span()})
	case *ast.ConstructorPattern:
		for _, a := range p.Args {
			c.bindPattern(a, types.Unknown, scope)
		}
	}
}

// checkAiExpr applies the AI result-type table from spec 4.3 and
// resolves the "model" field against the ai_model table when present.
func (c *Checker) checkAiExpr(e *ast.AiExpr, scope resolve.ScopeID) *types.Ty {
	for _, f := range e.Fields {
		// The "model" field names an ai_model definition, not a variable:
		// it resolves against the AI-model table (spec 4.3), never the
		// symbol table, so an unknown model reports UndefinedAiModel
		// alone rather than also cascading an UndefinedVariable.
		if f.Name == "model" {
			if ident, ok := f.Value.(*ast.Identifier); ok {
				if _, ok := c.env.AiModels[ident.Name]; !ok {
					pos := startOf(f.Value)
					err := newError(UndefinedAiModel, pos.Line, pos.Column)
					err.Name = ident.Name
					c.addErr(err)
				}
				continue
			}
		}
		c.checkExpr(f.Value, scope)
	}
	for _, a := range e.PromptArgs {
		c.checkExpr(a, scope)
	}

	if e.AiKind == ast.AiPromptInvocation {
		if _, ok := c.env.Prompts[e.PromptName]; !ok {
			pos := startOf(e)
			err := newError(UndefinedPrompt, pos.Line, pos.Column)
			err.Name = e.PromptName
			c.addErr(err)
			return types.Error
		}
		return types.AI(types.String)
	}

	switch e.Keyword {
	case "query", "generate", "":
		return types.AI(types.String)
	case "verify", "validate":
		return types.AI(types.Bool)
	case "embed":
		return types.AI(types.Array(types.Float))
	case "classify":
		return types.AI(types.String)
	default:
		return types.AI(types.Unknown)
	}
}
