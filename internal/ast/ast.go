// Package ast defines the Language's syntactic tree. Every node carries a
// token.Span; the tree is a pure, unshared structure produced by the
// parser and read (never mutated) by the checker and HIR lowerer.
// Grounded on AILANG's internal/ast/ast.go Node/Expr/Stmt/Type/Pattern
// interface shape, generalized to this spec's AI-first item set.
package ast

import (
	"fmt"
	"strings"

	"github.com/axonlang/langcore/internal/token"
)

// Node is the base interface every AST node implements.
type Node interface {
	Span() token.Span
}

// Expr is any expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is any statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Type is any AST-level type expression.
type Type interface {
	Node
	typeNode()
}

// Item is any top-level declaration.
type Item interface {
	Node
	itemNode()
}

// Program is the ordered sequence of top-level items (spec 3).
type Program struct {
	Items []Item
}

// Function declaration.
type Function struct {
	Name       string
	TypeParams []string
	Params     []*Param
	ReturnType Type // nil if omitted
	Contracts  []*Contract
	Body       *Block
	Modifiers  []Modifier
	SpanVal    token.Span
}

func (f *Function) Span() token.Span { return f.SpanVal }
func (f *Function) itemNode()        {}

type Param struct {
	Name    string
	Type    Type
	SpanVal token.Span
}

func (p *Param) Span() token.Span { return p.SpanVal }

// Modifier is a function- or struct-level attribute recognised from
// #[...] syntax (spec 4.2.1): safe, ai_optimize, ai_test, ai_hint,
// ai_cache, comptime, ai_generate, derive, or an unrecognised Custom.
type Modifier struct {
	Name string
	Args []string // e.g. derive(Eq, Show) or a single string literal arg
}

// Struct declaration.
type Struct struct {
	Name       string
	TypeParams []string
	Fields     []*Field
	Modifiers  []Modifier
	SpanVal    token.Span
}

func (s *Struct) Span() token.Span { return s.SpanVal }
func (s *Struct) itemNode()        {}

type Field struct {
	Name       string
	Type       Type
	Attributes []Modifier // per-field attrs, e.g. ai_validate(expr), ai_embed
	SpanVal    token.Span
}

func (f *Field) Span() token.Span { return f.SpanVal }

// Effect declaration.
type Effect struct {
	Name       string
	Operations []*EffectOp
	SpanVal    token.Span
}

func (e *Effect) Span() token.Span { return e.SpanVal }
func (e *Effect) itemNode()        {}

type EffectOp struct {
	Name       string
	Params     []*Param
	ReturnType Type
}

// Contract declaration (standalone top-level, rare) or clause attached
// to a function's where-clause (spec 4.2.5).
type Contract struct {
	Kind    ContractKind
	Expr    Expr   // for Pre/Post/Invariant
	Text    string // for AiCheck/AiEnsure string literal
	SpanVal token.Span
}

func (c *Contract) Span() token.Span { return c.SpanVal }
func (c *Contract) itemNode()        {}

type ContractKind int

const (
	ContractPre ContractKind = iota
	ContractPost
	ContractInvariant
	ContractAiCheck
	ContractAiEnsure
)

// Import declaration. Resolution itself is out of scope; the AST shape
// exists for a downstream package-manager collaborator (SPEC_FULL 3).
type Import struct {
	Path    string
	Alias   string
	Symbols []string
	SpanVal token.Span
}

func (i *Import) Span() token.Span { return i.SpanVal }
func (i *Import) itemNode()        {}

// Comptime is a top-level comptime block.
type Comptime struct {
	Body    *Block
	SpanVal token.Span
}

func (c *Comptime) Span() token.Span { return c.SpanVal }
func (c *Comptime) itemNode()        {}

// Arena is a top-level `let name = Arena::new();` declaration
// (spec 4.2.1, recognised only by that narrow literal match). The AST
// node is first-class (SPEC_FULL 3) even though recognition stays
// syntactic.
type Arena struct {
	Name    string
	SpanVal token.Span
}

func (a *Arena) Span() token.Span { return a.SpanVal }
func (a *Arena) itemNode()        {}

// AiModel declares provider/model/temperature/cache attributes for use
// in AI expressions (spec 3).
type AiModel struct {
	Name        string
	Provider    string
	HasProvider bool
	Model       string
	HasModel    bool
	Temperature float64
	HasTemp     bool
	Cache       bool
	HasCache    bool
	SpanVal     token.Span
}

func (m *AiModel) Span() token.Span { return m.SpanVal }
func (m *AiModel) itemNode()        {}

// Prompt declares a single named string template.
type Prompt struct {
	Name     string
	Template string
	SpanVal  token.Span
}

func (p *Prompt) Span() token.Span { return p.SpanVal }
func (p *Prompt) itemNode()        {}

// ---- Types ----

type PrimitiveKind int

const (
	PrimInt PrimitiveKind = iota
	PrimFloat
	PrimString
	PrimBool
)

type PrimitiveType struct {
	Kind    PrimitiveKind
	SpanVal token.Span
}

func (t *PrimitiveType) Span() token.Span { return t.SpanVal }
func (t *PrimitiveType) typeNode()         {}

type NamedType struct {
	Name    string
	SpanVal token.Span
}

func (t *NamedType) Span() token.Span { return t.SpanVal }
func (t *NamedType) typeNode()        {}

type FuncType struct {
	Param   Type
	Result  Type
	SpanVal token.Span
}

func (t *FuncType) Span() token.Span { return t.SpanVal }
func (t *FuncType) typeNode()        {}

type ArrayType struct {
	Element Type
	SpanVal token.Span
}

func (t *ArrayType) Span() token.Span { return t.SpanVal }
func (t *ArrayType) typeNode()        {}

type RefType struct {
	Mutable bool
	Inner   Type
	SpanVal token.Span
}

func (t *RefType) Span() token.Span { return t.SpanVal }
func (t *RefType) typeNode()        {}

type TupleType struct {
	Elements []Type
	SpanVal  token.Span
}

func (t *TupleType) Span() token.Span { return t.SpanVal }
func (t *TupleType) typeNode()        {}

type RecordType struct {
	Fields  []*RecordTypeField
	SpanVal token.Span
}

func (t *RecordType) Span() token.Span { return t.SpanVal }
func (t *RecordType) typeNode()        {}

type RecordTypeField struct {
	Name string
	Type Type
}

type AIType struct {
	Inner   Type
	SpanVal token.Span
}

func (t *AIType) Span() token.Span { return t.SpanVal }
func (t *AIType) typeNode()        {}

type EffectType struct {
	Inner   Type
	SpanVal token.Span
}

func (t *EffectType) Span() token.Span { return t.SpanVal }
func (t *EffectType) typeNode()        {}

// ConstrainedType wraps a base type with AI constraints from a trailing
// where-clause (spec 4.2.4).
type ConstrainedType struct {
	Base        Type
	Constraints []*Contract
	SpanVal     token.Span
}

func (t *ConstrainedType) Span() token.Span { return t.SpanVal }
func (t *ConstrainedType) typeNode()        {}

// ---- Expressions ----

type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitString
	LitBool
)

type Literal struct {
	Kind    LiteralKind
	Raw     string
	Bool    bool
	SpanVal token.Span
}

func (l *Literal) Span() token.Span { return l.SpanVal }
func (l *Literal) exprNode()        {}

type Identifier struct {
	Name    string
	SpanVal token.Span
}

func (i *Identifier) Span() token.Span { return i.SpanVal }
func (i *Identifier) exprNode()        {}

type Call struct {
	Callee  Expr
	Args    []Expr
	SpanVal token.Span
}

func (c *Call) Span() token.Span { return c.SpanVal }
func (c *Call) exprNode()        {}

type FieldAccess struct {
	Object  Expr
	Field   string
	SpanVal token.Span
}

func (f *FieldAccess) Span() token.Span { return f.SpanVal }
func (f *FieldAccess) exprNode()        {}

// AssignExpr is a reassignment `target = value` (spec 4.3 checker rule
// "Assignment requires the target to accept the source"); the target
// must already be bound as a mutable variable.
type AssignExpr struct {
	Target  Expr
	Value   Expr
	SpanVal token.Span
}

func (a *AssignExpr) Span() token.Span { return a.SpanVal }
func (a *AssignExpr) exprNode()        {}

type BinaryExpr struct {
	Left    Expr
	Op      string
	Right   Expr
	SpanVal token.Span
}

func (b *BinaryExpr) Span() token.Span { return b.SpanVal }
func (b *BinaryExpr) exprNode()        {}

type UnaryExpr struct {
	Op      string
	Operand Expr
	SpanVal token.Span
}

func (u *UnaryExpr) Span() token.Span { return u.SpanVal }
func (u *UnaryExpr) exprNode()        {}

type TryExpr struct {
	Inner   Expr
	SpanVal token.Span
}

func (t *TryExpr) Span() token.Span { return t.SpanVal }
func (t *TryExpr) exprNode()        {}

type RestrictExpr struct {
	Inner   Expr
	SpanVal token.Span
}

func (r *RestrictExpr) Span() token.Span { return r.SpanVal }
func (r *RestrictExpr) exprNode()        {}

// Block is a brace-delimited sequence of statements with an optional
// tail expression value (disambiguated from a record literal per spec
// 4.2.3).
type Block struct {
	Stmts   []Stmt
	SpanVal token.Span
}

func (b *Block) Span() token.Span { return b.SpanVal }
func (b *Block) exprNode()        {}

type Lambda struct {
	Params  []*Param
	Body    Expr // either an expression body (=> expr) or a *Block
	SpanVal token.Span
}

func (l *Lambda) Span() token.Span { return l.SpanVal }
func (l *Lambda) exprNode()        {}

type MatchArm struct {
	Pattern Pattern
	Body    Expr
}

type Match struct {
	Scrutinee Expr
	Arms      []*MatchArm
	SpanVal   token.Span
}

func (m *Match) Span() token.Span { return m.SpanVal }
func (m *Match) exprNode()        {}

type ArrayLit struct {
	Elements []Expr
	SpanVal  token.Span
}

func (a *ArrayLit) Span() token.Span { return a.SpanVal }
func (a *ArrayLit) exprNode()        {}

type RecordField struct {
	Name  string
	Value Expr
}

// RecordLit is `{ field: value, ... }` — disambiguated from a Block by
// the two-token lookahead in spec 4.2.3.
type RecordLit struct {
	Fields  []*RecordField
	SpanVal token.Span
}

func (r *RecordLit) Span() token.Span { return r.SpanVal }
func (r *RecordLit) exprNode()        {}

// RecordUpdate is the functional update syntax `{ base | field: value }`
// (SPEC_FULL 3 supplement, grounded on AILANG's RecordUpdate).
type RecordUpdate struct {
	Base    Expr
	Fields  []*RecordField
	SpanVal token.Span
}

func (r *RecordUpdate) Span() token.Span { return r.SpanVal }
func (r *RecordUpdate) exprNode()        {}

// AiExprKind distinguishes the four surface forms of AI expression
// described in spec 3.
type AiExprKind int

const (
	AiBlock AiExprKind = iota
	AiCall
	AiQuick
	AiPromptInvocation
)

// AiExpr is the tagged-variant AI expression node. Keyword names the AI
// operation (query/verify/generate/embed/classify/...) for Block/Call
// forms. Fields carries `name: expr` pairs; for Quick forms Query holds
// the bare string. PromptName/PromptArgs are used only for
// AiPromptInvocation.
type AiExpr struct {
	AiKind     AiExprKind
	Keyword    string
	Fields     []*RecordField
	Query      string
	PromptName string
	PromptArgs []Expr
	SpanVal    token.Span
}

func (a *AiExpr) Span() token.Span { return a.SpanVal }
func (a *AiExpr) exprNode()        {}

// ---- Statements ----

type LetStmt struct {
	Name    string
	Mutable bool
	Type    Type // optional
	Value   Expr
	SpanVal token.Span
}

func (l *LetStmt) Span() token.Span { return l.SpanVal }
func (l *LetStmt) stmtNode()        {}

type ExprStmt struct {
	Expr    Expr
	SpanVal token.Span
}

func (e *ExprStmt) Span() token.Span { return e.SpanVal }
func (e *ExprStmt) stmtNode()        {}

type IfStmt struct {
	Cond    Expr
	Then    *Block
	Else    *Block // nil if absent; may itself wrap a single IfStmt as `else if`
	SpanVal token.Span
}

func (i *IfStmt) Span() token.Span { return i.SpanVal }
func (i *IfStmt) stmtNode()        {}

type GoStmt struct {
	Body    *Block
	SpanVal token.Span
}

func (g *GoStmt) Span() token.Span { return g.SpanVal }
func (g *GoStmt) stmtNode()        {}

type ReturnStmt struct {
	Value   Expr // nil if bare `return;`
	SpanVal token.Span
}

func (r *ReturnStmt) Span() token.Span { return r.SpanVal }
func (r *ReturnStmt) stmtNode()        {}

type AwaitStmt struct {
	Expr    Expr
	SpanVal token.Span
}

func (a *AwaitStmt) Span() token.Span { return a.SpanVal }
func (a *AwaitStmt) stmtNode()        {}

type TryStmt struct {
	Expr    Expr
	SpanVal token.Span
}

func (t *TryStmt) Span() token.Span { return t.SpanVal }
func (t *TryStmt) stmtNode()        {}

type ComptimeStmt struct {
	Body    *Block
	SpanVal token.Span
}

func (c *ComptimeStmt) Span() token.Span { return c.SpanVal }
func (c *ComptimeStmt) stmtNode()        {}

type AiStmt struct {
	Expr    *AiExpr
	SpanVal token.Span
}

func (a *AiStmt) Span() token.Span { return a.SpanVal }
func (a *AiStmt) stmtNode()        {}

// ---- Patterns ----

type Pattern interface {
	Node
	patternNode()
}

type WildcardPattern struct {
	SpanVal token.Span
}

func (w *WildcardPattern) Span() token.Span { return w.SpanVal }
func (w *WildcardPattern) patternNode()     {}

type IdentPattern struct {
	Name    string
	SpanVal token.Span
}

func (i *IdentPattern) Span() token.Span { return i.SpanVal }
func (i *IdentPattern) patternNode()     {}

type LiteralPattern struct {
	Literal *Literal
	SpanVal token.Span
}

func (l *LiteralPattern) Span() token.Span { return l.SpanVal }
func (l *LiteralPattern) patternNode()     {}

type ConstructorPattern struct {
	Name    string
	Args    []Pattern
	SpanVal token.Span
}

func (c *ConstructorPattern) Span() token.Span { return c.SpanVal }
func (c *ConstructorPattern) patternNode()     {}

// String renders a compact debug form; used only by diagnostics/tests,
// not by the grammar.
func (f *Function) String() string {
	names := make([]string, len(f.Params))
	for i, p := range f.Params {
		names[i] = p.Name
	}
	return fmt.Sprintf("fn %s(%s)", f.Name, strings.Join(names, ", "))
}
