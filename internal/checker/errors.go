package checker

import (
	"fmt"

	"github.com/axonlang/langcore/internal/errcode"
)

// ErrorKind is the closed CheckError enum from spec 7.
type ErrorKind int

const (
	UndefinedVariable ErrorKind = iota
	UndefinedType
	UndefinedFunction
	UndefinedAiModel
	UndefinedPrompt
	TypeMismatch
	DuplicateDefinition
	ImmutableAssignment
	WrongArgCount
	InvalidBinaryOp
	NonBoolCondition
	Other
)

var kindCodes = map[ErrorKind]string{
	UndefinedVariable:   errcode.CHK001,
	UndefinedType:       errcode.CHK002,
	UndefinedFunction:   errcode.CHK003,
	UndefinedAiModel:    errcode.CHK004,
	UndefinedPrompt:     errcode.CHK005,
	TypeMismatch:        errcode.CHK006,
	DuplicateDefinition: errcode.CHK007,
	ImmutableAssignment: errcode.CHK008,
	WrongArgCount:       errcode.CHK009,
	InvalidBinaryOp:     errcode.CHK010,
	NonBoolCondition:    errcode.CHK011,
	Other:               errcode.CHK012,
}

// Error is a single accumulated diagnostic. Fields are populated
// according to Kind: Name for the Undefined* family, Expected/Found for
// TypeMismatch and WrongArgCount, Left/Op/Right for InvalidBinaryOp,
// Message for Other.
type Error struct {
	Kind     ErrorKind
	Code     string
	Name     string
	Expected string
	Found    string
	Left     string
	Op       string
	Right    string
	Message  string
	Line     int
	Column   int
}

func (e *Error) Error() string {
	switch e.Kind {
	case UndefinedVariable:
		return fmt.Sprintf("%s: undefined variable %q at %d:%d", e.Code, e.Name, e.Line, e.Column)
	case UndefinedType:
		return fmt.Sprintf("%s: undefined type %q at %d:%d", e.Code, e.Name, e.Line, e.Column)
	case UndefinedFunction:
		return fmt.Sprintf("%s: undefined function %q at %d:%d", e.Code, e.Name, e.Line, e.Column)
	case UndefinedAiModel:
		return fmt.Sprintf("%s: undefined ai_model %q at %d:%d", e.Code, e.Name, e.Line, e.Column)
	case UndefinedPrompt:
		return fmt.Sprintf("%s: undefined prompt %q at %d:%d", e.Code, e.Name, e.Line, e.Column)
	case TypeMismatch:
		return fmt.Sprintf("%s: expected %s, found %s at %d:%d", e.Code, e.Expected, e.Found, e.Line, e.Column)
	case DuplicateDefinition:
		return fmt.Sprintf("%s: duplicate definition %q at %d:%d", e.Code, e.Name, e.Line, e.Column)
	case ImmutableAssignment:
		return fmt.Sprintf("%s: cannot assign to immutable %q at %d:%d", e.Code, e.Name, e.Line, e.Column)
	case WrongArgCount:
		return fmt.Sprintf("%s: expected %s arguments, found %s at %d:%d", e.Code, e.Expected, e.Found, e.Line, e.Column)
	case InvalidBinaryOp:
		return fmt.Sprintf("%s: invalid operation %s %s %s at %d:%d", e.Code, e.Left, e.Op, e.Right, e.Line, e.Column)
	case NonBoolCondition:
		return fmt.Sprintf("%s: condition must be Bool, found %s at %d:%d", e.Code, e.Found, e.Line, e.Column)
	default:
		return fmt.Sprintf("%s: %s at %d:%d", e.Code, e.Message, e.Line, e.Column)
	}
}

func newError(kind ErrorKind, line, column int) *Error {
	return &Error{Kind: kind, Code: kindCodes[kind], Line: line, Column: column}
}
