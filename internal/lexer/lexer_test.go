package lexer

import (
	"testing"

	"github.com/axonlang/langcore/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `fn add(a: Int, b: Int) -> Int {
  return a + b;
}

ai_model claude {
  provider: "anthropic"
  model: "claude-3-opus"
}

fn main() {
  let x = ai query { model: claude prompt: "hi" };
  ai!{ "hello" };
}

// line comment
/* block comment */
(* nested-compatible *)
true && false || !true
`

	tests := []struct {
		kind    token.Kind
		literal string
	}{
		{token.FUNC, "fn"},
		{token.IDENT, "add"},
		{token.LPAREN, "("},
		{token.IDENT, "a"},
		{token.COLON, ":"},
		{token.KWINT, "Int"},
		{token.COMMA, ","},
		{token.IDENT, "b"},
		{token.COLON, ":"},
		{token.KWINT, "Int"},
		{token.RPAREN, ")"},
		{token.ARROW, "->"},
		{token.KWINT, "Int"},
		{token.LBRACE, "{"},
		{token.RETURN, "return"},
		{token.IDENT, "a"},
		{token.PLUS, "+"},
		{token.IDENT, "b"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},

		{token.AIMODEL, "ai_model"},
		{token.IDENT, "claude"},
		{token.LBRACE, "{"},
		{token.IDENT, "provider"},
		{token.COLON, ":"},
		{token.STRING, "anthropic"},
		{token.IDENT, "model"},
		{token.COLON, ":"},
		{token.STRING, "claude-3-opus"},
		{token.RBRACE, "}"},

		{token.FUNC, "fn"},
		{token.IDENT, "main"},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.LET, "let"},
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.AI, "ai"},
		{token.QUERY, "query"},
		{token.LBRACE, "{"},
		{token.IDENT, "model"},
		{token.COLON, ":"},
		{token.IDENT, "claude"},
		{token.PROMPT, "prompt"},
		{token.COLON, ":"},
		{token.STRING, "hi"},
		{token.RBRACE, "}"},
		{token.SEMICOLON, ";"},
		{token.AIBANG, "ai!"},
		{token.LBRACE, "{"},
		{token.STRING, "hello"},
		{token.RBRACE, "}"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},

		{token.TRUE, "true"},
		{token.ANDAND, "&&"},
		{token.FALSE, "false"},
		{token.OROR, "||"},
		{token.BANG, "!"},
		{token.TRUE, "true"},

		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Kind != tt.kind {
			t.Fatalf("test[%d] - wrong kind. expected=%s, got=%s (literal %q)", i, tt.kind, tok.Kind, tok.Literal)
		}
		if tok.Literal != tt.literal {
			t.Fatalf("test[%d] - wrong literal. expected=%q, got=%q", i, tt.literal, tok.Literal)
		}
	}
}

func TestTokenizeTotality(t *testing.T) {
	inputs := []string{"", "   ", "let x = 1", "@@@ ###", "\"unterminated"}
	for _, in := range inputs {
		toks := Tokenize(in)
		if len(toks) == 0 {
			t.Fatalf("tokenize(%q) returned no tokens", in)
		}
		last := toks[len(toks)-1]
		if last.Kind != token.EOF {
			t.Fatalf("tokenize(%q) did not end in EOF, got %s", in, last.Kind)
		}
		for i, tk := range toks[:len(toks)-1] {
			if tk.Kind == token.EOF {
				t.Fatalf("tokenize(%q) has EOF before the end at index %d", in, i)
			}
		}
	}
}

func TestSpanMonotonicity(t *testing.T) {
	toks := Tokenize("let x = 1 + 2 * (3 - 4)")
	for i := 0; i+1 < len(toks); i++ {
		if toks[i].Span.End.Offset > toks[i+1].Span.Start.Offset {
			t.Fatalf("span overlap between token %d (%v) and %d (%v)", i, toks[i], i+1, toks[i+1])
		}
	}
}

func TestAiBangContextual(t *testing.T) {
	toks := Tokenize(`ai! { "x" }`)
	if toks[0].Kind != token.AIBANG {
		t.Fatalf("expected AIBANG, got %s", toks[0].Kind)
	}

	toks2 := Tokenize(`ai.foo`)
	if toks2[0].Kind != token.AI {
		t.Fatalf("expected bare AI keyword, got %s", toks2[0].Kind)
	}
}

func TestFieldAccessNotFloat(t *testing.T) {
	toks := Tokenize("a.0")
	kinds := []token.Kind{token.IDENT, token.DOT, token.INT, token.EOF}
	for i, k := range kinds {
		if toks[i].Kind != k {
			t.Fatalf("token %d: expected %s got %s", i, k, toks[i].Kind)
		}
	}
}

func TestFloatLiteral(t *testing.T) {
	toks := Tokenize("3.14")
	if toks[0].Kind != token.FLOAT || toks[0].Literal != "3.14" {
		t.Fatalf("expected float 3.14, got %s %q", toks[0].Kind, toks[0].Literal)
	}
}
