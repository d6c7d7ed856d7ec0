// Package token defines the lexical token model shared by the lexer and
// parser: source positions, spans, and the closed set of token kinds the
// Language's grammar is built from.
package token

import "fmt"

// Pos is a single point in source text.
type Pos struct {
	Line   int
	Column int
	Offset int // byte offset into the source
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a byte range plus the derived line/column of its start.
// Invariant: Start.Offset <= End.Offset.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// Kind is the closed set of token kinds produced by the lexer.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF

	IDENT
	INT
	FLOAT
	STRING
	TRUE
	FALSE

	// General keywords
	FUNC
	STRUCT
	EFFECT
	USE
	LET
	MUT
	IF
	ELSE
	RETURN
	MATCH
	TRY
	AWAIT
	GO
	WHERE
	PRE
	POST
	INVARIANT
	COMPTIME
	OP
	RESTRICT

	// AI keywords
	AI
	AIBANG // contextual "ai!"
	QUERY
	VERIFY
	GENERATE
	EMBED
	CLASSIFY
	OPTIMIZE
	TEST
	INFER
	CONSTRAIN
	VALIDATE
	PROMPT
	AIMODEL
	AICHECK
	AIVALID
	AIFORMAT
	AIINFER
	AIENSURE

	// Type keywords
	KWINT
	KWSTRING
	KWBOOL
	KWFLOAT
	KWAI

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	ASSIGN
	EQEQ
	NEQ
	LT
	GT
	LTE
	GTE
	ANDAND
	OROR
	BANG
	QUESTION
	ARROW    // ->
	FATARROW // =>
	COLONCOLON
	AMP  // &
	PIPE // |

	// Delimiters
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	COLON
	SEMICOLON
	DOT
	AT
	HASHBRACKET // #[
)

var names = map[Kind]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	IDENT:  "identifier",
	INT:    "integer",
	FLOAT:  "float",
	STRING: "string",
	TRUE:   "true",
	FALSE:  "false",

	FUNC:      "fn",
	STRUCT:    "struct",
	EFFECT:    "effect",
	USE:       "use",
	LET:       "let",
	MUT:       "mut",
	IF:        "if",
	ELSE:      "else",
	RETURN:    "return",
	MATCH:     "match",
	TRY:       "try",
	AWAIT:     "await",
	GO:        "go",
	WHERE:     "where",
	PRE:       "pre",
	POST:      "post",
	INVARIANT: "invariant",
	COMPTIME:  "comptime",
	OP:        "op",
	RESTRICT:  "restrict",

	AI:        "ai",
	AIBANG:    "ai!",
	QUERY:     "query",
	VERIFY:    "verify",
	GENERATE:  "generate",
	EMBED:     "embed",
	CLASSIFY:  "classify",
	OPTIMIZE:  "optimize",
	TEST:      "test",
	INFER:     "infer",
	CONSTRAIN: "constrain",
	VALIDATE:  "validate",
	PROMPT:    "prompt",
	AIMODEL:   "ai_model",
	AICHECK:   "ai_check",
	AIVALID:   "ai_valid",
	AIFORMAT:  "ai_format",
	AIINFER:   "ai_infer",
	AIENSURE:  "ai_ensure",

	KWINT:    "Int",
	KWSTRING: "String",
	KWBOOL:   "Bool",
	KWFLOAT:  "Float",
	KWAI:     "AI",

	PLUS:       "+",
	MINUS:      "-",
	STAR:       "*",
	SLASH:      "/",
	PERCENT:    "%",
	ASSIGN:     "=",
	EQEQ:       "==",
	NEQ:        "!=",
	LT:         "<",
	GT:         ">",
	LTE:        "<=",
	GTE:        ">=",
	ANDAND:     "&&",
	OROR:       "||",
	BANG:       "!",
	QUESTION:   "?",
	ARROW:      "->",
	FATARROW:   "=>",
	COLONCOLON: "::",
	AMP:        "&",
	PIPE:       "|",

	LPAREN:      "(",
	RPAREN:      ")",
	LBRACE:      "{",
	RBRACE:      "}",
	LBRACKET:    "[",
	RBRACKET:    "]",
	COMMA:       ",",
	COLON:       ":",
	SEMICOLON:   ";",
	DOT:         ".",
	AT:          "@",
	HASHBRACKET: "#[",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// keywords maps identifier spellings to their general-keyword Kind.
// AI keywords live in a separate table (aiKeywords) so the lexer and the
// parser's keyword-as-identifier rule (spec 4.2.6) can treat the two
// families differently.
var keywords = map[string]Kind{
	"fn":        FUNC,
	"struct":    STRUCT,
	"effect":    EFFECT,
	"use":       USE,
	"let":       LET,
	"mut":       MUT,
	"if":        IF,
	"else":      ELSE,
	"return":    RETURN,
	"match":     MATCH,
	"try":       TRY,
	"await":     AWAIT,
	"go":        GO,
	"where":     WHERE,
	"pre":       PRE,
	"post":      POST,
	"invariant": INVARIANT,
	"comptime":  COMPTIME,
	"op":        OP,
	"restrict":  RESTRICT,
	"true":      TRUE,
	"false":     FALSE,
}

// aiKeywords is the AI-specific keyword family from spec 3 "Tokens".
var aiKeywords = map[string]Kind{
	"ai":         AI,
	"query":      QUERY,
	"verify":     VERIFY,
	"generate":   GENERATE,
	"embed":      EMBED,
	"classify":   CLASSIFY,
	"optimize":   OPTIMIZE,
	"test":       TEST,
	"infer":      INFER,
	"constrain":  CONSTRAIN,
	"validate":   VALIDATE,
	"prompt":     PROMPT,
	"ai_model":   AIMODEL,
	"ai_check":   AICHECK,
	"ai_valid":   AIVALID,
	"ai_format":  AIFORMAT,
	"ai_infer":   AIINFER,
	"ai_ensure":  AIENSURE,
}

// typeKeywords are identifiers that name primitive types.
var typeKeywords = map[string]Kind{
	"Int":    KWINT,
	"String": KWSTRING,
	"Bool":   KWBOOL,
	"Float":  KWFLOAT,
	"AI":     KWAI,
}

// Lookup classifies an identifier's spelling into its Kind: a general
// keyword, an AI keyword, a primitive type name, or IDENT.
func Lookup(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	if k, ok := aiKeywords[ident]; ok {
		return k
	}
	if k, ok := typeKeywords[ident]; ok {
		return k
	}
	return IDENT
}

// IsAIKeyword reports whether ident names one of the AI keywords.
func IsAIKeyword(ident string) bool {
	_, ok := aiKeywords[ident]
	return ok
}

// contextualIdentKinds is the fixed subset of keywords permitted as
// identifiers in non-top-level positions per spec 4.2.6: AI keywords and
// contract keywords (pre/post/invariant).
var contextualIdentKinds = map[Kind]bool{
	PRE: true, POST: true, INVARIANT: true,
	QUERY: true, VERIFY: true, GENERATE: true, EMBED: true,
	CLASSIFY: true, OPTIMIZE: true, TEST: true, INFER: true,
	CONSTRAIN: true, VALIDATE: true, PROMPT: true, AIMODEL: true,
	AICHECK: true, AIVALID: true, AIFORMAT: true, AIINFER: true,
	AIENSURE: true,
}

// IsContextualIdentKind reports whether a keyword token of this kind may
// be reinterpreted as a plain identifier (spec 4.2.6).
func IsContextualIdentKind(k Kind) bool {
	return contextualIdentKinds[k]
}

// Token is a single lexeme: its kind, source span, and literal text.
type Token struct {
	Kind    Kind
	Span    Span
	Literal string
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Literal, t.Span)
}
