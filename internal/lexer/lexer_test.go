package lexer_test

import (
	"testing"

	"arkts2rust/internal/diag"
	"arkts2rust/internal/lexer"
)

// kinds lexes src and returns the token kinds, asserting that the
// stream is terminated by exactly one EOF marker and dropping it.
func kinds(t *testing.T, src string) []lexer.TokenKind {
	t.Helper()
	tokens, err := lexer.Lex(src)
	if err != nil {
		t.Fatalf("lex %q: %v", src, err)
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != lexer.TokenEOF {
		t.Fatalf("token stream not EOF-terminated: %v", tokens)
	}
	out := make([]lexer.TokenKind, 0, len(tokens)-1)
	for _, tok := range tokens[:len(tokens)-1] {
		out = append(out, tok.Kind)
	}
	return out
}

func lexErr(t *testing.T, src string) *diag.Error {
	t.Helper()
	_, err := lexer.Lex(src)
	if err == nil {
		t.Fatalf("lex %q: error expected", src)
	}
	return err
}

func assertKinds(t *testing.T, got, want []lexer.TokenKind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("kind count mismatch: got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("kind %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestKeywordsVsIdents(t *testing.T) {
	got := kinds(t, "let lettuce const constant if iff true truth false falsy while whiled")
	assertKinds(t, got, []lexer.TokenKind{
		lexer.TokenLet, lexer.TokenIdent,
		lexer.TokenConst, lexer.TokenIdent,
		lexer.TokenIf, lexer.TokenIdent,
		lexer.TokenTrue, lexer.TokenIdent,
		lexer.TokenFalse, lexer.TokenIdent,
		lexer.TokenWhile, lexer.TokenIdent,
	})
}

func TestNumbers(t *testing.T) {
	tokens, err := lexer.Lex("0 12 340")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"0", "12", "340"}
	for i, text := range want {
		if tokens[i].Kind != lexer.TokenNumber || tokens[i].Text != text {
			t.Fatalf("token %d: got (%v, %q), want (number, %q)", i, tokens[i].Kind, tokens[i].Text, text)
		}
	}
}

func TestNumberOutOfI32Range(t *testing.T) {
	err := lexErr(t, "9999999999")
	if err.Code != diag.CodeInvalidNumber {
		t.Fatalf("code: got %s, want %s", err.Code, diag.CodeInvalidNumber)
	}
}

func TestStringBasic(t *testing.T) {
	tokens, err := lexer.Lex(`"hello"`)
	if err != nil {
		t.Fatal(err)
	}
	if tokens[0].Kind != lexer.TokenString || tokens[0].Text != "hello" {
		t.Fatalf("got (%v, %q)", tokens[0].Kind, tokens[0].Text)
	}
}

func TestStringEscapes(t *testing.T) {
	tokens, err := lexer.Lex(`"a\"b\\c\n"`)
	if err != nil {
		t.Fatal(err)
	}
	if tokens[0].Text != "a\"b\\c\n" {
		t.Fatalf("decoded string: got %q", tokens[0].Text)
	}
}

func TestPunctuation(t *testing.T) {
	got := kinds(t, "( ) { } , ; : .")
	assertKinds(t, got, []lexer.TokenKind{
		lexer.TokenLParen, lexer.TokenRParen,
		lexer.TokenLBrace, lexer.TokenRBrace,
		lexer.TokenComma, lexer.TokenSemicolon,
		lexer.TokenColon, lexer.TokenDot,
	})
}

func TestSingleCharOperators(t *testing.T) {
	got := kinds(t, "+ - * / % < > ! =")
	assertKinds(t, got, []lexer.TokenKind{
		lexer.TokenPlus, lexer.TokenMinus, lexer.TokenStar,
		lexer.TokenSlash, lexer.TokenPercent, lexer.TokenLT,
		lexer.TokenGT, lexer.TokenNot, lexer.TokenEq,
	})
}

func TestMultiCharOperators(t *testing.T) {
	got := kinds(t, "== != <= >= && ||")
	assertKinds(t, got, []lexer.TokenKind{
		lexer.TokenEqEq, lexer.TokenNotEq, lexer.TokenLTE,
		lexer.TokenGTE, lexer.TokenAndAnd, lexer.TokenOrOr,
	})
}

func TestSkipWhitespaceAndLineComments(t *testing.T) {
	got := kinds(t, "\nlet x // comment\nconst y\n")
	assertKinds(t, got, []lexer.TokenKind{
		lexer.TokenLet, lexer.TokenIdent, lexer.TokenConst, lexer.TokenIdent,
	})
}

func TestSkipBlockComments(t *testing.T) {
	got := kinds(t, "let/* hi */x")
	assertKinds(t, got, []lexer.TokenKind{lexer.TokenLet, lexer.TokenIdent})
}

func TestUnexpectedChar(t *testing.T) {
	err := lexErr(t, "@")
	if err.Code != diag.CodeUnexpectedChar {
		t.Fatalf("code: got %s", err.Code)
	}
	if err.Span.StartLine != 1 || err.Span.StartCol != 1 {
		t.Fatalf("span: got %d:%d", err.Span.StartLine, err.Span.StartCol)
	}
}

func TestLoneAmpersandIsIllegal(t *testing.T) {
	err := lexErr(t, "a & b")
	if err.Code != diag.CodeUnexpectedChar {
		t.Fatalf("code: got %s", err.Code)
	}
	if err.Span.StartCol != 3 {
		t.Fatalf("col: got %d, want 3", err.Span.StartCol)
	}
}

func TestUnterminatedString(t *testing.T) {
	err := lexErr(t, `"abc`)
	if err.Code != diag.CodeUnterminatedString {
		t.Fatalf("code: got %s", err.Code)
	}
	if err.Span.StartLine != 1 || err.Span.StartCol != 1 {
		t.Fatalf("span: got %d:%d", err.Span.StartLine, err.Span.StartCol)
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	err := lexErr(t, "let x /* oops")
	if err.Code != diag.CodeUnterminatedBlockComment {
		t.Fatalf("code: got %s", err.Code)
	}
	if err.Span.StartCol != 7 {
		t.Fatalf("col: got %d, want 7", err.Span.StartCol)
	}
}

func TestSpansAcrossNewlines(t *testing.T) {
	tokens, err := lexer.Lex("let\nx")
	if err != nil {
		t.Fatal(err)
	}
	if tokens[0].Span.StartLine != 1 || tokens[0].Span.StartCol != 1 {
		t.Fatalf("let span: %d:%d", tokens[0].Span.StartLine, tokens[0].Span.StartCol)
	}
	if tokens[1].Span.StartLine != 2 || tokens[1].Span.StartCol != 1 {
		t.Fatalf("x span: %d:%d", tokens[1].Span.StartLine, tokens[1].Span.StartCol)
	}
}

func TestSpanByteOffsets(t *testing.T) {
	tokens, err := lexer.Lex("let x")
	if err != nil {
		t.Fatal(err)
	}
	if tokens[0].Span.Start != 0 || tokens[0].Span.End != 3 {
		t.Fatalf("let offsets: %d..%d", tokens[0].Span.Start, tokens[0].Span.End)
	}
	if tokens[1].Span.Start != 4 || tokens[1].Span.End != 5 {
		t.Fatalf("x offsets: %d..%d", tokens[1].Span.Start, tokens[1].Span.End)
	}
	eof := tokens[len(tokens)-1]
	if eof.Kind != lexer.TokenEOF || eof.Span.Start != 5 || eof.Span.End != 5 {
		t.Fatalf("eof: kind %v offsets %d..%d", eof.Kind, eof.Span.Start, eof.Span.End)
	}
}

func TestConsoleLogTokenSequence(t *testing.T) {
	got := kinds(t, "console.log(1);")
	assertKinds(t, got, []lexer.TokenKind{
		lexer.TokenIdent, lexer.TokenDot, lexer.TokenIdent,
		lexer.TokenLParen, lexer.TokenNumber, lexer.TokenRParen,
		lexer.TokenSemicolon,
	})
}
