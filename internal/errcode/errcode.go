// Package errcode assigns a stable string code to every diagnostic the
// pipeline can produce, independent of its English message. Grounded on
// AILANG's internal/errors/codes.go, which gives every PAR/MOD/LDR
// diagnostic the same kind of short, greppable code.
package errcode

// Lexer codes.
const (
	LEX001 = "LEX001" // illegal character
	LEX002 = "LEX002" // unterminated string
)

// Parser codes (ParseError variants, spec 7).
const (
	PAR001 = "PAR001" // UnexpectedToken
	PAR002 = "PAR002" // UnexpectedEof
	PAR003 = "PAR003" // InvalidLiteral
)

// Checker codes (CheckError variants, spec 7).
const (
	CHK001 = "CHK001" // UndefinedVariable
	CHK002 = "CHK002" // UndefinedType
	CHK003 = "CHK003" // UndefinedFunction
	CHK004 = "CHK004" // UndefinedAiModel
	CHK005 = "CHK005" // UndefinedPrompt
	CHK006 = "CHK006" // TypeMismatch
	CHK007 = "CHK007" // DuplicateDefinition
	CHK008 = "CHK008" // ImmutableAssignment
	CHK009 = "CHK009" // WrongArgCount
	CHK010 = "CHK010" // InvalidBinaryOp
	CHK011 = "CHK011" // NonBoolCondition
	CHK012 = "CHK012" // Other
)

// MIR codes (MirError variants, spec 7).
const (
	MIR001 = "MIR001" // UndefinedVariable
	MIR002 = "MIR002" // TypeMismatch
	MIR003 = "MIR003" // UnreachableCode
)
