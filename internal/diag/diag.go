// Package diag defines the error values shared by every stage of the
// pipeline. All failures on malformed input are reported as an *Error
// carrying a stable Code plus the Span of the offending source range;
// nothing in the compiler panics on bad input.
package diag

import "fmt"

// Span is a source range: half-open byte offsets plus 1-based
// line/column for both ends. Spans are values and never mutated after
// construction.
type Span struct {
	Start     int
	End       int
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// NewSpan builds a span from byte offsets with default 1:1 line/col.
func NewSpan(start, end int) Span {
	return Span{Start: start, End: end, StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 1}
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.StartLine, s.StartCol)
}

// Code is a stable identifier for a compile error.
type Code string

const (
	// Lexer errors.
	CodeUnexpectedChar           Code = "UnexpectedChar"
	CodeUnterminatedString       Code = "UnterminatedString"
	CodeUnterminatedBlockComment Code = "UnterminatedBlockComment"
	CodeInvalidNumber            Code = "InvalidNumber"

	// Parser errors.
	CodeMissingSemicolon    Code = "MissingSemicolon"
	CodeMissingRParen       Code = "MissingRParen"
	CodeMissingElse         Code = "MissingElse"
	CodeUnknownStructure    Code = "UnknownStructure"
	CodeExpectedLiteral     Code = "ExpectedLiteral"
	CodeExpectedExpr        Code = "ExpectedExpr"
	CodeConditionMustBeBool Code = "ConditionMustBeBool"
	CodeUnknownType         Code = "UnknownType"
	CodeExpectedBlock       Code = "ExpectedBlock"

	// Generator errors.
	CodeReturnValueRequired Code = "ReturnValueRequired"
)

// Error is a compile error value. Both the parser and the generator
// stop at the first Error and hand it to the driver unmodified.
type Error struct {
	Code Code
	Span Span
}

func New(code Code, span Span) *Error {
	return &Error{Code: code, Span: span}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s", e.Code, e.Span)
}
