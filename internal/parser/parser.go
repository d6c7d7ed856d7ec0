// Package parser turns a token stream into an AST by recursive descent
// with Pratt-style expression precedence, mirroring the structure of
// AILANG's internal/parser/parser.go (prefix/infix function tables
// keyed by token kind, a single save-and-restore point for the one
// documented ambiguity).
package parser

import (
	"strconv"

	"github.com/axonlang/langcore/internal/ast"
	"github.com/axonlang/langcore/internal/lexer"
	"github.com/axonlang/langcore/internal/token"
)

// Precedence levels, weakest to strongest (spec 4.2.2).
const (
	LOWEST int = iota
	ASSIGNPREC
	OR
	AND
	EQUALS
	COMPARE
	SUM
	PRODUCT
	UNARY
	POSTFIX
)

var precedences = map[token.Kind]int{
	token.ASSIGN:  ASSIGNPREC,
	token.OROR:    OR,
	token.ANDAND:  AND,
	token.EQEQ:    EQUALS,
	token.NEQ:     EQUALS,
	token.LT:      COMPARE,
	token.GT:      COMPARE,
	token.LTE:     COMPARE,
	token.GTE:     COMPARE,
	token.PLUS:    SUM,
	token.MINUS:   SUM,
	token.STAR:    PRODUCT,
	token.SLASH:   PRODUCT,
	token.PERCENT: PRODUCT,
	token.LPAREN:  POSTFIX,
	token.DOT:     POSTFIX,
	token.BANG:    POSTFIX,
}

type prefixParseFn func() ast.Expr
type infixParseFn func(ast.Expr) ast.Expr

// Parser holds the full token list and a cursor; Parse is one-shot and
// stops at the first Error (spec 4.2 "Failure mode").
type Parser struct {
	toks []token.Token
	pos  int

	prefixFns map[token.Kind]prefixParseFn
	infixFns  map[token.Kind]infixParseFn

	err *Error
}

// New builds a Parser over a token stream (normally lexer.Tokenize's
// output).
func New(toks []token.Token) *Parser {
	p := &Parser{toks: toks}
	p.prefixFns = map[token.Kind]prefixParseFn{
		token.IDENT:    p.parseIdentifier,
		token.INT:      p.parseIntLiteral,
		token.FLOAT:    p.parseFloatLiteral,
		token.STRING:   p.parseStringLiteral,
		token.TRUE:     p.parseBoolLiteral,
		token.FALSE:    p.parseBoolLiteral,
		token.LPAREN:   p.parseGroupedOrTuple,
		token.LBRACKET: p.parseArrayLiteral,
		token.LBRACE:   p.parseBlockOrRecordExpr,
		token.PIPE:     p.parseLambda,
		token.MATCH:    p.parseMatchExpr,
		token.MINUS:    p.parseUnary,
		token.BANG:     p.parseUnary,
		token.AMP:      p.parseUnary,
		token.TRY:      p.parseTryExpr,
		token.RESTRICT: p.parseRestrictExpr,
		token.AI:       p.parseAiExpr,
		token.AIBANG:   p.parseAiBangExpr,
	}
	p.infixFns = map[token.Kind]infixParseFn{
		token.PLUS:    p.parseBinary,
		token.MINUS:   p.parseBinary,
		token.STAR:    p.parseBinary,
		token.SLASH:   p.parseBinary,
		token.PERCENT: p.parseBinary,
		token.EQEQ:    p.parseBinary,
		token.NEQ:     p.parseBinary,
		token.LT:      p.parseBinary,
		token.GT:      p.parseBinary,
		token.LTE:     p.parseBinary,
		token.GTE:     p.parseBinary,
		token.ANDAND:  p.parseBinary,
		token.OROR:    p.parseBinary,
		token.LPAREN:  p.parseCall,
		token.DOT:     p.parseFieldAccess,
		token.BANG:    p.parsePromptInvocation,
		token.ASSIGN:  p.parseAssign,
	}
	return p
}

// Parse tokenizes and parses source into a Program, or returns the
// first ParseError encountered (entry point "parse" from spec 6).
func Parse(source string) (*ast.Program, error) {
	toks := lexer.Tokenize(source)
	p := New(toks)
	return p.ParseProgram()
}

// ---- cursor helpers ----

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos]
}

func (p *Parser) peek() token.Token {
	if p.pos+1 >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+1]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) curIs(k token.Kind) bool  { return p.cur().Kind == k }
func (p *Parser) peekIs(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) fail(err *Error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *Parser) expect(k token.Kind) token.Token {
	if p.err != nil {
		return p.cur()
	}
	if p.cur().Kind == token.EOF && k != token.EOF {
		p.fail(unexpectedEOF(p.cur()))
		return p.cur()
	}
	if p.cur().Kind != k {
		p.fail(unexpectedToken(k.String(), p.cur()))
		return p.cur()
	}
	return p.advance()
}

// parseIdent accepts an Ident token, or any keyword in the contextual
// set (spec 4.2.6).
func (p *Parser) parseIdent() token.Token {
	if p.err != nil {
		return p.cur()
	}
	if p.curIs(token.IDENT) || token.IsContextualIdentKind(p.cur().Kind) {
		return p.advance()
	}
	p.fail(unexpectedToken("identifier", p.cur()))
	return p.cur()
}

func span(start token.Pos, end token.Pos) token.Span {
	return token.Span{Start: start, End: end}
}

func (p *Parser) spanFrom(start token.Pos) token.Span {
	// end is the end of the last consumed token
	idx := p.pos - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(p.toks) {
		idx = len(p.toks) - 1
	}
	return span(start, p.toks[idx].Span.End)
}

// ---- program / items ----

func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	for !p.curIs(token.EOF) && p.err == nil {
		item := p.parseItem()
		if p.err != nil {
			return nil, p.err
		}
		if item != nil {
			prog.Items = append(prog.Items, item)
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return prog, nil
}

func (p *Parser) parseItem() ast.Item {
	var mods []ast.Modifier
	for p.curIs(token.HASHBRACKET) {
		mods = append(mods, p.parseAttributeList()...)
		if p.err != nil {
			return nil
		}
	}

	// contextual "async" modifier preceding fn
	if p.curIs(token.IDENT) && p.cur().Literal == "async" && p.peekIs(token.FUNC) {
		p.advance()
		mods = append(mods, ast.Modifier{Name: "async"})
	}

	switch p.cur().Kind {
	case token.FUNC:
		return p.parseFunction(mods)
	case token.STRUCT:
		return p.parseStruct(mods)
	case token.EFFECT:
		return p.parseEffect()
	case token.USE:
		return p.parseImport()
	case token.COMPTIME:
		return p.parseComptimeItem()
	case token.LET:
		return p.parseArenaItem()
	case token.AIMODEL:
		return p.parseAiModelItem()
	case token.PROMPT:
		return p.parsePromptItem()
	default:
		p.fail(unexpectedToken("top-level item", p.cur()))
		return nil
	}
}

// parseAttributeList parses one or more "#[...]" groups starting at the
// current HASHBRACKET and classifies each name into a function- or
// struct-level modifier, or Custom (spec 4.2.1).
func (p *Parser) parseAttributeList() []ast.Modifier {
	var mods []ast.Modifier
	p.expect(token.HASHBRACKET)
	for !p.curIs(token.RBRACKET) && p.err == nil {
		nameTok := p.parseIdent()
		name := nameTok.Literal
		var args []string
		if p.curIs(token.LPAREN) {
			p.advance()
			for !p.curIs(token.RPAREN) && p.err == nil {
				if p.curIs(token.STRING) {
					args = append(args, p.advance().Literal)
				} else {
					args = append(args, p.parseIdent().Literal)
				}
				if p.curIs(token.COMMA) {
					p.advance()
				}
			}
			p.expect(token.RPAREN)
		}
		mods = append(mods, ast.Modifier{Name: name, Args: args})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACKET)
	return mods
}

func (p *Parser) parseFunction(mods []ast.Modifier) ast.Item {
	start := p.cur().Span.Start
	p.expect(token.FUNC)
	name := p.parseIdent().Literal

	var typeParams []string
	if p.curIs(token.LT) {
		p.advance()
		for !p.curIs(token.GT) && p.err == nil {
			typeParams = append(typeParams, p.parseIdent().Literal)
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.GT)
	}

	p.expect(token.LPAREN)
	var params []*ast.Param
	for !p.curIs(token.RPAREN) && p.err == nil {
		pstart := p.cur().Span.Start
		pname := p.parseIdent().Literal
		p.expect(token.COLON)
		ptype := p.parseType()
		params = append(params, &ast.Param{Name: pname, Type: ptype, SpanVal: p.spanFrom(pstart)})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)

	var ret ast.Type
	if p.curIs(token.ARROW) {
		p.advance()
		ret = p.parseType()
	}

	var contracts []*ast.Contract
	if p.curIs(token.WHERE) {
		contracts = p.parseContracts()
	}

	body := p.parseBlock()

	return &ast.Function{
		Name:       name,
		TypeParams: typeParams,
		Params:     params,
		ReturnType: ret,
		Contracts:  contracts,
		Body:       body,
		Modifiers:  mods,
		SpanVal:    p.spanFrom(start),
	}
}

func (p *Parser) parseStruct(mods []ast.Modifier) ast.Item {
	start := p.cur().Span.Start
	p.expect(token.STRUCT)
	name := p.parseIdent().Literal

	var typeParams []string
	if p.curIs(token.LT) {
		p.advance()
		for !p.curIs(token.GT) && p.err == nil {
			typeParams = append(typeParams, p.parseIdent().Literal)
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.GT)
	}

	p.expect(token.LBRACE)
	var fields []*ast.Field
	for !p.curIs(token.RBRACE) && p.err == nil {
		var fieldAttrs []ast.Modifier
		for p.curIs(token.HASHBRACKET) {
			fieldAttrs = append(fieldAttrs, p.parseAttributeList()...)
		}
		fstart := p.cur().Span.Start
		fname := p.parseIdent().Literal
		p.expect(token.COLON)
		ftype := p.parseType()
		fields = append(fields, &ast.Field{Name: fname, Type: ftype, Attributes: fieldAttrs, SpanVal: p.spanFrom(fstart)})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)

	return &ast.Struct{Name: name, TypeParams: typeParams, Fields: fields, Modifiers: mods, SpanVal: p.spanFrom(start)}
}

func (p *Parser) parseEffect() ast.Item {
	start := p.cur().Span.Start
	p.expect(token.EFFECT)
	name := p.parseIdent().Literal
	p.expect(token.LBRACE)
	var ops []*ast.EffectOp
	for !p.curIs(token.RBRACE) && p.err == nil {
		opName := p.parseIdent().Literal
		p.expect(token.LPAREN)
		var params []*ast.Param
		for !p.curIs(token.RPAREN) && p.err == nil {
			pstart := p.cur().Span.Start
			pname := p.parseIdent().Literal
			p.expect(token.COLON)
			ptype := p.parseType()
			params = append(params, &ast.Param{Name: pname, Type: ptype, SpanVal: p.spanFrom(pstart)})
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
		var ret ast.Type
		if p.curIs(token.ARROW) {
			p.advance()
			ret = p.parseType()
		}
		ops = append(ops, &ast.EffectOp{Name: opName, Params: params, ReturnType: ret})
		if p.curIs(token.SEMICOLON) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return &ast.Effect{Name: name, Operations: ops, SpanVal: p.spanFrom(start)}
}

func (p *Parser) parseImport() ast.Item {
	start := p.cur().Span.Start
	p.expect(token.USE)
	pathTok := p.parseIdent()
	path := pathTok.Literal
	for p.curIs(token.COLONCOLON) {
		p.advance()
		path += "::" + p.parseIdent().Literal
	}
	imp := &ast.Import{Path: path}
	if p.curIs(token.IDENT) && p.cur().Literal == "as" {
		p.advance()
		imp.Alias = p.parseIdent().Literal
	}
	if p.curIs(token.LBRACE) {
		p.advance()
		for !p.curIs(token.RBRACE) && p.err == nil {
			imp.Symbols = append(imp.Symbols, p.parseIdent().Literal)
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RBRACE)
	}
	p.expect(token.SEMICOLON)
	imp.SpanVal = p.spanFrom(start)
	return imp
}

func (p *Parser) parseComptimeItem() ast.Item {
	start := p.cur().Span.Start
	p.expect(token.COMPTIME)
	body := p.parseBlock()
	return &ast.Comptime{Body: body, SpanVal: p.spanFrom(start)}
}

// parseArenaItem recognises the narrow top-level arena literal match
// from spec 4.2.1: `let name = Arena :: new ( ) ;`.
func (p *Parser) parseArenaItem() ast.Item {
	start := p.cur().Span.Start
	p.expect(token.LET)
	name := p.parseIdent().Literal
	p.expect(token.ASSIGN)
	if !(p.curIs(token.IDENT) && p.cur().Literal == "Arena") {
		p.fail(unexpectedToken("Arena", p.cur()))
		return nil
	}
	p.advance()
	p.expect(token.COLONCOLON)
	if !(p.curIs(token.IDENT) && p.cur().Literal == "new") {
		p.fail(unexpectedToken("new", p.cur()))
		return nil
	}
	p.advance()
	p.expect(token.LPAREN)
	p.expect(token.RPAREN)
	p.expect(token.SEMICOLON)
	return &ast.Arena{Name: name, SpanVal: p.spanFrom(start)}
}

func (p *Parser) parseAiModelItem() ast.Item {
	start := p.cur().Span.Start
	p.expect(token.AIMODEL)
	name := p.parseIdent().Literal
	p.expect(token.LBRACE)
	m := &ast.AiModel{Name: name}
	for !p.curIs(token.RBRACE) && p.err == nil {
		key := p.parseIdent().Literal
		p.expect(token.COLON)
		switch key {
		case "provider":
			m.Provider = p.expect(token.STRING).Literal
			m.HasProvider = true
		case "model":
			m.Model = p.expect(token.STRING).Literal
			m.HasModel = true
		case "temperature":
			lit := p.cur()
			if lit.Kind != token.FLOAT && lit.Kind != token.INT {
				p.fail(unexpectedToken("number", lit))
				return nil
			}
			p.advance()
			f, _ := strconv.ParseFloat(lit.Literal, 64)
			m.Temperature = f
			m.HasTemp = true
		case "cache":
			b := p.cur()
			if b.Kind != token.TRUE && b.Kind != token.FALSE {
				p.fail(unexpectedToken("bool", b))
				return nil
			}
			p.advance()
			m.Cache = b.Kind == token.TRUE
			m.HasCache = true
		default:
			p.fail(unexpectedToken("ai_model attribute", p.cur()))
			return nil
		}
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	m.SpanVal = p.spanFrom(start)
	return m
}

func (p *Parser) parsePromptItem() ast.Item {
	start := p.cur().Span.Start
	p.expect(token.PROMPT)
	name := p.parseIdent().Literal
	p.expect(token.ASSIGN)
	tmpl := p.expect(token.STRING).Literal
	p.expect(token.SEMICOLON)
	return &ast.Prompt{Name: name, Template: tmpl, SpanVal: p.spanFrom(start)}
}

// ---- contracts ----

func (p *Parser) parseContracts() []*ast.Contract {
	p.expect(token.WHERE)
	var out []*ast.Contract
	for {
		start := p.cur().Span.Start
		var kind ast.ContractKind
		switch p.cur().Kind {
		case token.PRE:
			kind = ast.ContractPre
		case token.POST:
			kind = ast.ContractPost
		case token.INVARIANT:
			kind = ast.ContractInvariant
		case token.AICHECK:
			kind = ast.ContractAiCheck
		case token.AIENSURE:
			kind = ast.ContractAiEnsure
		default:
			p.fail(unexpectedToken("contract clause", p.cur()))
			return out
		}
		p.advance()
		p.expect(token.COLON)
		c := &ast.Contract{Kind: kind}
		if kind == ast.ContractAiCheck || kind == ast.ContractAiEnsure {
			c.Text = p.expect(token.STRING).Literal
		} else {
			c.Expr = p.parseExpression(LOWEST)
		}
		c.SpanVal = p.spanFrom(start)
		out = append(out, c)
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return out
}

// ---- types ----

func (p *Parser) parseType() ast.Type {
	t := p.parseBaseType()
	if p.curIs(token.ARROW) {
		start := t.Span().Start
		p.advance()
		result := p.parseType()
		t = &ast.FuncType{Param: t, Result: result, SpanVal: p.spanFrom(start)}
	}
	if p.curIs(token.WHERE) && p.whereStartsConstraint() {
		start := t.Span().Start
		p.advance()
		var cs []*ast.Contract
		for {
			cstart := p.cur().Span.Start
			var kind ast.ContractKind
			switch p.cur().Kind {
			case token.AICHECK:
				kind = ast.ContractAiCheck
			case token.AIVALID:
				kind = ast.ContractAiCheck
			case token.AIFORMAT:
				kind = ast.ContractAiCheck
			case token.AIINFER:
				kind = ast.ContractAiCheck
			default:
				kind = ast.ContractAiCheck
			}
			p.advance()
			p.expect(token.COLON)
			text := p.expect(token.STRING).Literal
			cs = append(cs, &ast.Contract{Kind: kind, Text: text, SpanVal: p.spanFrom(cstart)})
			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
		t = &ast.ConstrainedType{Base: t, Constraints: cs, SpanVal: p.spanFrom(start)}
	}
	return t
}

// whereStartsConstraint implements the lookahead from spec 4.2.4: a
// trailing where introduces AI constraints only when the following
// keyword is an ai_* constraint keyword or a generic identifier, never
// pre/post/invariant (those belong to function contracts).
func (p *Parser) whereStartsConstraint() bool {
	switch p.peek().Kind {
	case token.PRE, token.POST, token.INVARIANT:
		return false
	case token.AICHECK, token.AIVALID, token.AIFORMAT, token.AIINFER, token.IDENT:
		return true
	default:
		return false
	}
}

func (p *Parser) parseBaseType() ast.Type {
	start := p.cur().Span.Start
	switch p.cur().Kind {
	case token.KWINT:
		p.advance()
		return &ast.PrimitiveType{Kind: ast.PrimInt, SpanVal: p.spanFrom(start)}
	case token.KWFLOAT:
		p.advance()
		return &ast.PrimitiveType{Kind: ast.PrimFloat, SpanVal: p.spanFrom(start)}
	case token.KWSTRING:
		p.advance()
		return &ast.PrimitiveType{Kind: ast.PrimString, SpanVal: p.spanFrom(start)}
	case token.KWBOOL:
		p.advance()
		return &ast.PrimitiveType{Kind: ast.PrimBool, SpanVal: p.spanFrom(start)}
	case token.KWAI:
		p.advance()
		p.expect(token.LT)
		inner := p.parseType()
		p.expect(token.GT)
		return &ast.AIType{Inner: inner, SpanVal: p.spanFrom(start)}
	case token.AMP:
		p.advance()
		mutable := false
		if p.curIs(token.MUT) {
			p.advance()
			mutable = true
		}
		inner := p.parseBaseType()
		return &ast.RefType{Mutable: mutable, Inner: inner, SpanVal: p.spanFrom(start)}
	case token.LBRACKET:
		p.advance()
		elem := p.parseType()
		p.expect(token.RBRACKET)
		return &ast.ArrayType{Element: elem, SpanVal: p.spanFrom(start)}
	case token.LBRACE:
		p.advance()
		var fields []*ast.RecordTypeField
		for !p.curIs(token.RBRACE) && p.err == nil {
			name := p.parseIdent().Literal
			p.expect(token.COLON)
			ftype := p.parseType()
			fields = append(fields, &ast.RecordTypeField{Name: name, Type: ftype})
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RBRACE)
		return &ast.RecordType{Fields: fields, SpanVal: p.spanFrom(start)}
	case token.LPAREN:
		p.advance()
		var elems []ast.Type
		for !p.curIs(token.RPAREN) && p.err == nil {
			elems = append(elems, p.parseType())
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
		return &ast.TupleType{Elements: elems, SpanVal: p.spanFrom(start)}
	case token.IDENT:
		name := p.advance().Literal
		if name == "Effect" && p.curIs(token.LT) {
			p.advance()
			inner := p.parseType()
			p.expect(token.GT)
			return &ast.EffectType{Inner: inner, SpanVal: p.spanFrom(start)}
		}
		return &ast.NamedType{Name: name, SpanVal: p.spanFrom(start)}
	default:
		p.fail(unexpectedToken("type", p.cur()))
		return &ast.NamedType{Name: "<error>", SpanVal: p.spanFrom(start)}
	}
}

// ---- statements / blocks ----

func (p *Parser) parseBlock() *ast.Block {
	start := p.cur().Span.Start
	p.expect(token.LBRACE)
	var stmts []ast.Stmt
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) && p.err == nil {
		stmts = append(stmts, p.parseStatement())
	}
	p.expect(token.RBRACE)
	return &ast.Block{Stmts: stmts, SpanVal: p.spanFrom(start)}
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur().Kind {
	case token.LET:
		return p.parseLetStmt()
	case token.IF:
		return p.parseIfStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	case token.GO:
		return p.parseGoStmt()
	case token.AWAIT:
		return p.parseAwaitStmt()
	case token.TRY:
		if p.peekIs(token.LBRACE) {
			return p.parseTryStmtBlock()
		}
		return p.parseExprStmt()
	case token.COMPTIME:
		return p.parseComptimeStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseLetStmt() ast.Stmt {
	start := p.cur().Span.Start
	p.expect(token.LET)
	mutable := false
	if p.curIs(token.MUT) {
		p.advance()
		mutable = true
	}
	name := p.parseIdent().Literal
	var declType ast.Type
	if p.curIs(token.COLON) {
		p.advance()
		declType = p.parseType()
	}
	p.expect(token.ASSIGN)
	value := p.parseExpression(LOWEST)
	p.expect(token.SEMICOLON)
	return &ast.LetStmt{Name: name, Mutable: mutable, Type: declType, Value: value, SpanVal: p.spanFrom(start)}
}

func (p *Parser) parseIfStmt() ast.Stmt {
	start := p.cur().Span.Start
	p.expect(token.IF)
	cond := p.parseExpression(LOWEST)
	then := p.parseBlock()
	var els *ast.Block
	if p.curIs(token.ELSE) {
		p.advance()
		if p.curIs(token.IF) {
			innerStart := p.cur().Span.Start
			inner := p.parseIfStmt()
			els = &ast.Block{Stmts: []ast.Stmt{inner}, SpanVal: p.spanFrom(innerStart)}
		} else {
			els = p.parseBlock()
		}
	}
	return &ast.IfStmt{Cond: cond, Then: then, Else: els, SpanVal: p.spanFrom(start)}
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	start := p.cur().Span.Start
	p.expect(token.RETURN)
	var value ast.Expr
	if !p.curIs(token.SEMICOLON) {
		value = p.parseExpression(LOWEST)
	}
	p.expect(token.SEMICOLON)
	return &ast.ReturnStmt{Value: value, SpanVal: p.spanFrom(start)}
}

func (p *Parser) parseGoStmt() ast.Stmt {
	start := p.cur().Span.Start
	p.expect(token.GO)
	body := p.parseBlock()
	return &ast.GoStmt{Body: body, SpanVal: p.spanFrom(start)}
}

func (p *Parser) parseAwaitStmt() ast.Stmt {
	start := p.cur().Span.Start
	p.expect(token.AWAIT)
	e := p.parseExpression(LOWEST)
	p.expect(token.SEMICOLON)
	return &ast.AwaitStmt{Expr: e, SpanVal: p.spanFrom(start)}
}

func (p *Parser) parseTryStmtBlock() ast.Stmt {
	start := p.cur().Span.Start
	e := p.parseExpression(LOWEST)
	p.expect(token.SEMICOLON)
	return &ast.TryStmt{Expr: e, SpanVal: p.spanFrom(start)}
}

func (p *Parser) parseComptimeStmt() ast.Stmt {
	start := p.cur().Span.Start
	p.expect(token.COMPTIME)
	body := p.parseBlock()
	return &ast.ComptimeStmt{Body: body, SpanVal: p.spanFrom(start)}
}

func (p *Parser) parseExprStmt() ast.Stmt {
	start := p.cur().Span.Start
	e := p.parseExpression(LOWEST)
	if p.curIs(token.SEMICOLON) {
		p.advance()
	}
	if ai, ok := e.(*ast.AiExpr); ok {
		return &ast.AiStmt{Expr: ai, SpanVal: p.spanFrom(start)}
	}
	return &ast.ExprStmt{Expr: e, SpanVal: p.spanFrom(start)}
}

// ---- expressions (Pratt) ----

func (p *Parser) parseExpression(precedence int) ast.Expr {
	prefix, ok := p.prefixFns[p.cur().Kind]
	if !ok {
		p.fail(unexpectedToken("expression", p.cur()))
		return &ast.Literal{Kind: ast.LitInt, Raw: "0"}
	}
	left := prefix()

	for p.err == nil && !p.curIs(token.SEMICOLON) && precedence < p.curPrecedence() {
		// prompt invocation ("!") only applies when left is a bare identifier
		if p.curIs(token.BANG) {
			if _, isIdent := left.(*ast.Identifier); !isIdent {
				break
			}
		}
		infix, ok := p.infixFns[p.cur().Kind]
		if !ok {
			break
		}
		left = infix(left)
	}
	return left
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur().Kind]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) parseIdentifier() ast.Expr {
	t := p.advance()
	return &ast.Identifier{Name: t.Literal, SpanVal: t.Span}
}

func (p *Parser) parseIntLiteral() ast.Expr {
	t := p.advance()
	if _, err := strconv.ParseInt(t.Literal, 10, 64); err != nil {
		p.fail(invalidLiteral(t.Literal, t))
	}
	return &ast.Literal{Kind: ast.LitInt, Raw: t.Literal, SpanVal: t.Span}
}

func (p *Parser) parseFloatLiteral() ast.Expr {
	t := p.advance()
	if _, err := strconv.ParseFloat(t.Literal, 64); err != nil {
		p.fail(invalidLiteral(t.Literal, t))
	}
	return &ast.Literal{Kind: ast.LitFloat, Raw: t.Literal, SpanVal: t.Span}
}

func (p *Parser) parseStringLiteral() ast.Expr {
	t := p.advance()
	return &ast.Literal{Kind: ast.LitString, Raw: t.Literal, SpanVal: t.Span}
}

func (p *Parser) parseBoolLiteral() ast.Expr {
	t := p.advance()
	return &ast.Literal{Kind: ast.LitBool, Bool: t.Kind == token.TRUE, Raw: t.Literal, SpanVal: t.Span}
}

// parseGroupedOrTuple parses "(" expr ")" or a tuple literal "(" expr ,
// expr ... ")"; an empty "()" is just LPAREN immediately followed by
// RPAREN (the lexer never collapses them into a single token), handled
// by the curIs(RPAREN) check right after consuming the opening paren.
func (p *Parser) parseGroupedOrTuple() ast.Expr {
	start := p.cur().Span.Start
	p.advance() // (
	if p.curIs(token.RPAREN) {
		p.advance()
		return &ast.Literal{Kind: ast.LitInt, Raw: "()", SpanVal: p.spanFrom(start)}
	}
	first := p.parseExpression(LOWEST)
	if p.curIs(token.COMMA) {
		elems := []ast.Expr{first}
		for p.curIs(token.COMMA) {
			p.advance()
			if p.curIs(token.RPAREN) {
				break
			}
			elems = append(elems, p.parseExpression(LOWEST))
		}
		p.expect(token.RPAREN)
		return &ast.ArrayLit{Elements: elems, SpanVal: p.spanFrom(start)}
	}
	p.expect(token.RPAREN)
	return first
}

func (p *Parser) parseArrayLiteral() ast.Expr {
	start := p.cur().Span.Start
	p.advance() // [
	var elems []ast.Expr
	for !p.curIs(token.RBRACKET) && p.err == nil {
		elems = append(elems, p.parseExpression(LOWEST))
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACKET)
	return &ast.ArrayLit{Elements: elems, SpanVal: p.spanFrom(start)}
}

// parseBlockOrRecordExpr implements the disambiguation of spec 4.2.3:
// after consuming "{", peek an identifier followed by ":" to decide
// record-literal vs block; otherwise restore and parse a block. That
// decision looks at two tokens only. When the first token is an
// identifier not followed by ":", a whole expression is parsed
// speculatively to detect the `{ base | field: value }` record-update
// form, and the cursor is rewound past it if no "|" follows.
func (p *Parser) parseBlockOrRecordExpr() ast.Expr {
	start := p.cur().Span.Start
	saved := p.pos
	p.advance() // {

	if p.curIs(token.IDENT) && p.peekIs(token.COLON) {
		return p.parseRecordLiteralBody(start)
	}
	if p.curIs(token.IDENT) && p.cur().Literal != "" {
		// could still be `{ base | field: value }` record update form
		savedInner := p.pos
		maybeBase := p.parseExpression(LOWEST)
		if p.curIs(token.PIPE) {
			p.advance()
			var fields []*ast.RecordField
			for !p.curIs(token.RBRACE) && p.err == nil {
				fname := p.parseIdent().Literal
				p.expect(token.COLON)
				fval := p.parseExpression(LOWEST)
				fields = append(fields, &ast.RecordField{Name: fname, Value: fval})
				if p.curIs(token.COMMA) {
					p.advance()
				}
			}
			p.expect(token.RBRACE)
			return &ast.RecordUpdate{Base: maybeBase, Fields: fields, SpanVal: p.spanFrom(start)}
		}
		// not a record update; rewind fully and parse as a block
		p.pos = savedInner
		p.err = nil
	}

	p.pos = saved
	return p.parseBlock()
}

func (p *Parser) parseRecordLiteralBody(start token.Pos) ast.Expr {
	var fields []*ast.RecordField
	for !p.curIs(token.RBRACE) && p.err == nil {
		name := p.parseIdent().Literal
		p.expect(token.COLON)
		val := p.parseExpression(LOWEST)
		fields = append(fields, &ast.RecordField{Name: name, Value: val})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return &ast.RecordLit{Fields: fields, SpanVal: p.spanFrom(start)}
}

// parseLambda parses "|params| body", where body prefixed by "=>" is an
// expression, otherwise a block (spec 4.2.2).
func (p *Parser) parseLambda() ast.Expr {
	start := p.cur().Span.Start
	p.expect(token.PIPE)
	var params []*ast.Param
	for !p.curIs(token.PIPE) && p.err == nil {
		pstart := p.cur().Span.Start
		name := p.parseIdent().Literal
		var ptype ast.Type
		if p.curIs(token.COLON) {
			p.advance()
			ptype = p.parseType()
		}
		params = append(params, &ast.Param{Name: name, Type: ptype, SpanVal: p.spanFrom(pstart)})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.PIPE)
	var body ast.Expr
	if p.curIs(token.FATARROW) {
		p.advance()
		body = p.parseExpression(LOWEST)
	} else {
		body = p.parseBlock()
	}
	return &ast.Lambda{Params: params, Body: body, SpanVal: p.spanFrom(start)}
}

func (p *Parser) parseMatchExpr() ast.Expr {
	start := p.cur().Span.Start
	p.expect(token.MATCH)
	scrutinee := p.parseExpression(LOWEST)
	p.expect(token.LBRACE)
	var arms []*ast.MatchArm
	for !p.curIs(token.RBRACE) && p.err == nil {
		pat := p.parsePattern()
		p.expect(token.FATARROW)
		body := p.parseExpression(LOWEST)
		arms = append(arms, &ast.MatchArm{Pattern: pat, Body: body})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return &ast.Match{Scrutinee: scrutinee, Arms: arms, SpanVal: p.spanFrom(start)}
}

func (p *Parser) parsePattern() ast.Pattern {
	start := p.cur().Span.Start
	switch p.cur().Kind {
	case token.IDENT:
		if p.cur().Literal == "_" {
			p.advance()
			return &ast.WildcardPattern{SpanVal: p.spanFrom(start)}
		}
		name := p.advance().Literal
		if p.curIs(token.LPAREN) {
			p.advance()
			var args []ast.Pattern
			for !p.curIs(token.RPAREN) && p.err == nil {
				args = append(args, p.parsePattern())
				if p.curIs(token.COMMA) {
					p.advance()
				}
			}
			p.expect(token.RPAREN)
			return &ast.ConstructorPattern{Name: name, Args: args, SpanVal: p.spanFrom(start)}
		}
		return &ast.IdentPattern{Name: name, SpanVal: p.spanFrom(start)}
	case token.INT, token.FLOAT, token.STRING, token.TRUE, token.FALSE:
		lit := p.parseExpression(LOWEST).(*ast.Literal)
		return &ast.LiteralPattern{Literal: lit, SpanVal: p.spanFrom(start)}
	default:
		p.fail(unexpectedToken("pattern", p.cur()))
		return &ast.WildcardPattern{SpanVal: p.spanFrom(start)}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	start := p.cur().Span.Start
	opTok := p.advance()
	op := opTok.Literal
	if opTok.Kind == token.AMP && p.curIs(token.MUT) {
		p.advance()
		op = "&mut"
	}
	operand := p.parseExpression(UNARY)
	return &ast.UnaryExpr{Op: op, Operand: operand, SpanVal: p.spanFrom(start)}
}

func (p *Parser) parseTryExpr() ast.Expr {
	start := p.cur().Span.Start
	p.advance()
	inner := p.parseExpression(UNARY)
	return &ast.TryExpr{Inner: inner, SpanVal: p.spanFrom(start)}
}

func (p *Parser) parseRestrictExpr() ast.Expr {
	start := p.cur().Span.Start
	p.advance()
	inner := p.parseExpression(UNARY)
	return &ast.RestrictExpr{Inner: inner, SpanVal: p.spanFrom(start)}
}

// parseAiExpr parses `ai <keyword> { body }` or `ai <keyword>(args)`.
func (p *Parser) parseAiExpr() ast.Expr {
	start := p.cur().Span.Start
	p.expect(token.AI)
	kwTok := p.cur()
	if !isAiOpKeyword(kwTok.Kind) {
		p.fail(unexpectedToken("ai operation keyword", kwTok))
		return &ast.AiExpr{SpanVal: p.spanFrom(start)}
	}
	p.advance()

	e := &ast.AiExpr{Keyword: kwTok.Literal, SpanVal: token.Span{}}
	if p.curIs(token.LBRACE) {
		e.AiKind = ast.AiBlock
		p.advance()
		for !p.curIs(token.RBRACE) && p.err == nil {
			if p.curIs(token.STRING) {
				e.Query = p.advance().Literal
			} else {
				name := p.parseIdent().Literal
				p.expect(token.COLON)
				val := p.parseExpression(LOWEST)
				e.Fields = append(e.Fields, &ast.RecordField{Name: name, Value: val})
			}
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RBRACE)
	} else if p.curIs(token.LPAREN) {
		e.AiKind = ast.AiCall
		p.advance()
		for !p.curIs(token.RPAREN) && p.err == nil {
			val := p.parseExpression(LOWEST)
			e.Fields = append(e.Fields, &ast.RecordField{Value: val})
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
	} else {
		p.fail(unexpectedToken("{ or (", p.cur()))
	}
	e.SpanVal = p.spanFrom(start)
	return e
}

func isAiOpKeyword(k token.Kind) bool {
	switch k {
	case token.QUERY, token.VERIFY, token.GENERATE, token.EMBED,
		token.CLASSIFY, token.OPTIMIZE, token.TEST, token.INFER,
		token.CONSTRAIN, token.VALIDATE:
		return true
	default:
		return false
	}
}

// parseAiBangExpr parses `ai! { "string" }` (spec 4.2.2, S7).
func (p *Parser) parseAiBangExpr() ast.Expr {
	start := p.cur().Span.Start
	p.expect(token.AIBANG)
	p.expect(token.LBRACE)
	query := p.expect(token.STRING).Literal
	p.expect(token.RBRACE)
	return &ast.AiExpr{AiKind: ast.AiQuick, Query: query, SpanVal: p.spanFrom(start)}
}

// ---- infix / postfix ----

func (p *Parser) parseBinary(left ast.Expr) ast.Expr {
	start := left.Span().Start
	opTok := p.advance()
	precedence := precedences[opTok.Kind]
	right := p.parseExpression(precedence)
	return &ast.BinaryExpr{Left: left, Op: opTok.Literal, Right: right, SpanVal: p.spanFrom(start)}
}

// parseAssign parses a right-associative reassignment `target = value`.
func (p *Parser) parseAssign(target ast.Expr) ast.Expr {
	start := target.Span().Start
	p.expect(token.ASSIGN)
	value := p.parseExpression(LOWEST)
	return &ast.AssignExpr{Target: target, Value: value, SpanVal: p.spanFrom(start)}
}

func (p *Parser) parseCall(callee ast.Expr) ast.Expr {
	start := callee.Span().Start
	p.expect(token.LPAREN)
	var args []ast.Expr
	for !p.curIs(token.RPAREN) && p.err == nil {
		args = append(args, p.parseExpression(LOWEST))
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	return &ast.Call{Callee: callee, Args: args, SpanVal: p.spanFrom(start)}
}

func (p *Parser) parseFieldAccess(object ast.Expr) ast.Expr {
	start := object.Span().Start
	p.expect(token.DOT)
	var field string
	switch p.cur().Kind {
	case token.IDENT:
		field = p.advance().Literal
	case token.INT:
		field = p.advance().Literal
	default:
		field = p.parseIdent().Literal
	}
	return &ast.FieldAccess{Object: object, Field: field, SpanVal: p.spanFrom(start)}
}

// parsePromptInvocation parses the postfix `ident!` optionally followed
// by `(args)` (spec 4.2.2).
func (p *Parser) parsePromptInvocation(left ast.Expr) ast.Expr {
	start := left.Span().Start
	ident := left.(*ast.Identifier)
	p.expect(token.BANG)
	var args []ast.Expr
	if p.curIs(token.LPAREN) {
		p.advance()
		for !p.curIs(token.RPAREN) && p.err == nil {
			args = append(args, p.parseExpression(LOWEST))
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
	}
	return &ast.AiExpr{
		AiKind:     ast.AiPromptInvocation,
		PromptName: ident.Name,
		PromptArgs: args,
		SpanVal:    p.spanFrom(start),
	}
}
