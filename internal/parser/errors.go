package parser

import (
	"fmt"

	"github.com/axonlang/langcore/internal/errcode"
	"github.com/axonlang/langcore/internal/token"
)

// Error is the parser's single fatal diagnostic (spec 7, ParseError).
// The parser stops at the first one; there is no recovery.
type Error struct {
	Code     string
	Expected string
	Found    string
	Line     int
	Column   int
}

func (e *Error) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("%s: unexpected %s at %d:%d", e.Code, e.Found, e.Line, e.Column)
	}
	return fmt.Sprintf("%s: expected %s, found %s at %d:%d", e.Code, e.Expected, e.Found, e.Line, e.Column)
}

func unexpectedToken(expected string, tok token.Token) *Error {
	return &Error{
		Code:     errcode.PAR001,
		Expected: expected,
		Found:    tok.Kind.String(),
		Line:     tok.Span.Start.Line,
		Column:   tok.Span.Start.Column,
	}
}

func unexpectedEOF(tok token.Token) *Error {
	return &Error{
		Code:   errcode.PAR002,
		Found:  "eof",
		Line:   tok.Span.Start.Line,
		Column: tok.Span.Start.Column,
	}
}

func invalidLiteral(text string, tok token.Token) *Error {
	return &Error{
		Code:   errcode.PAR003,
		Found:  text,
		Line:   tok.Span.Start.Line,
		Column: tok.Span.Start.Column,
	}
}
