// Package compiler wires the pipeline: lex, parse, generate. One call
// owns its token stream, its tree, and its output buffer; the first
// error at any stage aborts the compilation and no text is produced.
package compiler

import (
	"arkts2rust/internal/ast"
	"arkts2rust/internal/lexer"
	"arkts2rust/internal/parser"
)

// Compile translates one source text into Rust source text.
func Compile(src string) (string, error) {
	prog, err := parseProgram(src)
	if err != nil {
		return "", err
	}
	out, genErr := Generate(prog)
	if genErr != nil {
		return "", genErr
	}
	return out, nil
}

// ParseProgram runs the front half of the pipeline only. Useful for
// tools and tests that inspect the tree without lowering it.
func ParseProgram(src string) (*ast.Program, error) {
	return parseProgram(src)
}

func parseProgram(src string) (*ast.Program, error) {
	tokens, lexErr := lexer.Lex(src)
	if lexErr != nil {
		return nil, lexErr
	}
	prog, parseErr := parser.Parse(tokens)
	if parseErr != nil {
		return nil, parseErr
	}
	return prog, nil
}
