// Package lexer turns source text into the flat token stream consumed
// by the parser. Spans count bytes (UTF-8) and carry 1-based line/col
// for reporting.
package lexer

import (
	"strconv"
	"strings"

	"arkts2rust/internal/diag"
)

// Lex scans the whole input. The returned slice always ends with a
// single EOF token; tokens appear in strictly increasing span order.
func Lex(src string) ([]Token, *diag.Error) {
	l := &Lexer{src: src, line: 1, col: 1}
	return l.lexAll()
}

type Lexer struct {
	src  string
	pos  int
	line int
	col  int
}

// mark is a saved scan position: byte offset plus line/col.
type mark struct {
	offset int
	line   int
	col    int
}

func (l *Lexer) lexAll() ([]Token, *diag.Error) {
	var tokens []Token
	for {
		if err := l.skipSpaceAndComments(); err != nil {
			return nil, err
		}
		if l.eof() {
			break
		}
		start := l.mark()
		tok, err := l.scanToken(start)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	end := l.mark()
	tokens = append(tokens, Token{Kind: TokenEOF, Span: l.span(end, end)})
	return tokens, nil
}

func (l *Lexer) scanToken(start mark) (Token, *diag.Error) {
	ch := l.peek()
	switch {
	case isIdentStart(ch):
		text := l.readIdent()
		kind := TokenIdent
		if kw, ok := keywords[text]; ok {
			kind = kw
		}
		return l.token(kind, text, start), nil
	case isDigit(ch):
		return l.scanNumber(start)
	case ch == '"':
		return l.scanString(start)
	}

	l.advance()
	switch ch {
	case '(':
		return l.token(TokenLParen, "(", start), nil
	case ')':
		return l.token(TokenRParen, ")", start), nil
	case '{':
		return l.token(TokenLBrace, "{", start), nil
	case '}':
		return l.token(TokenRBrace, "}", start), nil
	case ',':
		return l.token(TokenComma, ",", start), nil
	case '.':
		return l.token(TokenDot, ".", start), nil
	case ';':
		return l.token(TokenSemicolon, ";", start), nil
	case ':':
		return l.token(TokenColon, ":", start), nil
	case '+':
		return l.token(TokenPlus, "+", start), nil
	case '-':
		return l.token(TokenMinus, "-", start), nil
	case '*':
		return l.token(TokenStar, "*", start), nil
	case '/':
		return l.token(TokenSlash, "/", start), nil
	case '%':
		return l.token(TokenPercent, "%", start), nil
	case '=':
		if l.tryAdvance('=') {
			return l.token(TokenEqEq, "==", start), nil
		}
		return l.token(TokenEq, "=", start), nil
	case '!':
		if l.tryAdvance('=') {
			return l.token(TokenNotEq, "!=", start), nil
		}
		return l.token(TokenNot, "!", start), nil
	case '<':
		if l.tryAdvance('=') {
			return l.token(TokenLTE, "<=", start), nil
		}
		return l.token(TokenLT, "<", start), nil
	case '>':
		if l.tryAdvance('=') {
			return l.token(TokenGTE, ">=", start), nil
		}
		return l.token(TokenGT, ">", start), nil
	case '&':
		// Only "&&" exists in the subset; a lone '&' is illegal.
		if l.tryAdvance('&') {
			return l.token(TokenAndAnd, "&&", start), nil
		}
		return Token{}, l.errAt(diag.CodeUnexpectedChar, start)
	case '|':
		if l.tryAdvance('|') {
			return l.token(TokenOrOr, "||", start), nil
		}
		return Token{}, l.errAt(diag.CodeUnexpectedChar, start)
	default:
		return Token{}, l.errAt(diag.CodeUnexpectedChar, start)
	}
}

func (l *Lexer) scanNumber(start mark) (Token, *diag.Error) {
	for !l.eof() && isDigit(l.peek()) {
		l.advance()
	}
	text := l.src[start.offset:l.pos]
	if _, err := strconv.ParseInt(text, 10, 32); err != nil {
		return Token{}, l.errAt(diag.CodeInvalidNumber, start)
	}
	return l.token(TokenNumber, text, start), nil
}

// scanString reads a double-quoted string. The returned token text is
// the decoded value, not the raw lexeme. Supported escapes: \" \\ \n
// \t \r; any other escaped character stands for itself.
func (l *Lexer) scanString(start mark) (Token, *diag.Error) {
	l.advance() // opening quote
	var out strings.Builder
	for !l.eof() {
		ch := l.peek()
		switch ch {
		case '"':
			l.advance()
			return l.token(TokenString, out.String(), start), nil
		case '\n':
			return Token{}, l.errAt(diag.CodeUnterminatedString, start)
		case '\\':
			l.advance()
			if l.eof() {
				return Token{}, l.errAt(diag.CodeUnterminatedString, start)
			}
			esc := l.peek()
			switch esc {
			case '"':
				out.WriteByte('"')
			case '\\':
				out.WriteByte('\\')
			case 'n':
				out.WriteByte('\n')
			case 't':
				out.WriteByte('\t')
			case 'r':
				out.WriteByte('\r')
			default:
				out.WriteRune(esc)
			}
			l.advance()
		default:
			out.WriteRune(ch)
			l.advance()
		}
	}
	return Token{}, l.errAt(diag.CodeUnterminatedString, start)
}

func (l *Lexer) skipSpaceAndComments() *diag.Error {
	for {
		progressed := false
		for !l.eof() {
			ch := l.peek()
			if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
				l.advance()
				progressed = true
				continue
			}
			break
		}
		if strings.HasPrefix(l.src[l.pos:], "//") {
			for !l.eof() && l.peek() != '\n' {
				l.advance()
			}
			continue
		}
		if strings.HasPrefix(l.src[l.pos:], "/*") {
			start := l.mark()
			l.advance()
			l.advance()
			for !l.eof() && !strings.HasPrefix(l.src[l.pos:], "*/") {
				l.advance()
			}
			if l.eof() {
				return l.errAt(diag.CodeUnterminatedBlockComment, start)
			}
			l.advance()
			l.advance()
			continue
		}
		if !progressed {
			return nil
		}
	}
}

func (l *Lexer) readIdent() string {
	start := l.pos
	for !l.eof() && isIdentContinue(l.peek()) {
		l.advance()
	}
	return l.src[start:l.pos]
}

func (l *Lexer) token(kind TokenKind, text string, start mark) Token {
	return Token{Kind: kind, Text: text, Span: l.span(start, l.mark())}
}

func (l *Lexer) span(start, end mark) diag.Span {
	return diag.Span{
		Start:     start.offset,
		End:       end.offset,
		StartLine: start.line,
		StartCol:  start.col,
		EndLine:   end.line,
		EndCol:    end.col,
	}
}

func (l *Lexer) errAt(code diag.Code, pos mark) *diag.Error {
	return diag.New(code, l.span(pos, pos))
}

func (l *Lexer) mark() mark {
	return mark{offset: l.pos, line: l.line, col: l.col}
}

func (l *Lexer) eof() bool {
	return l.pos >= len(l.src)
}

func (l *Lexer) peek() rune {
	for _, r := range l.src[l.pos:] {
		return r
	}
	return 0
}

func (l *Lexer) advance() {
	ch := l.peek()
	l.pos += len(string(ch))
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *Lexer) tryAdvance(expected rune) bool {
	if !l.eof() && l.peek() == expected {
		l.advance()
		return true
	}
	return false
}

func isIdentStart(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentContinue(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
