package lexer

import (
	"fmt"

	"arkts2rust/internal/diag"
)

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenIdent
	TokenNumber
	TokenString
	TokenLet
	TokenConst
	TokenFunction
	TokenIf
	TokenElse
	TokenWhile
	TokenReturn
	TokenTrue
	TokenFalse
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenComma
	TokenDot
	TokenSemicolon
	TokenColon
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenEq
	TokenEqEq
	TokenNot
	TokenNotEq
	TokenLT
	TokenLTE
	TokenGT
	TokenGTE
	TokenAndAnd
	TokenOrOr
)

// Token is read-only input for the parser: a kind, the raw lexeme, and
// the source span it covers.
type Token struct {
	Kind TokenKind
	Text string
	Span diag.Span
}

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "eof"
	case TokenIdent:
		return "ident"
	case TokenNumber:
		return "number"
	case TokenString:
		return "string"
	case TokenLet:
		return "let"
	case TokenConst:
		return "const"
	case TokenFunction:
		return "function"
	case TokenIf:
		return "if"
	case TokenElse:
		return "else"
	case TokenWhile:
		return "while"
	case TokenReturn:
		return "return"
	case TokenTrue:
		return "true"
	case TokenFalse:
		return "false"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenLBrace:
		return "{"
	case TokenRBrace:
		return "}"
	case TokenComma:
		return ","
	case TokenDot:
		return "."
	case TokenSemicolon:
		return ";"
	case TokenColon:
		return ":"
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenStar:
		return "*"
	case TokenSlash:
		return "/"
	case TokenPercent:
		return "%"
	case TokenEq:
		return "="
	case TokenEqEq:
		return "=="
	case TokenNot:
		return "!"
	case TokenNotEq:
		return "!="
	case TokenLT:
		return "<"
	case TokenLTE:
		return "<="
	case TokenGT:
		return ">"
	case TokenGTE:
		return ">="
	case TokenAndAnd:
		return "&&"
	case TokenOrOr:
		return "||"
	default:
		return fmt.Sprintf("token(%d)", int(k))
	}
}

var keywords = map[string]TokenKind{
	"let":      TokenLet,
	"const":    TokenConst,
	"function": TokenFunction,
	"if":       TokenIf,
	"else":     TokenElse,
	"while":    TokenWhile,
	"return":   TokenReturn,
	"true":     TokenTrue,
	"false":    TokenFalse,
}
