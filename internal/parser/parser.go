// Package parser builds a Program from the token stream. One pass,
// recursive descent with precedence climbing for expressions; parsing
// stops at the first structural or policy error.
package parser

import (
	"strconv"

	"arkts2rust/internal/ast"
	"arkts2rust/internal/diag"
	"arkts2rust/internal/lexer"
)

type Parser struct {
	tokens []lexer.Token
	pos    int
}

// Parse consumes a token stream (EOF marker last, per the lexer
// contract) and returns the Program or the first error encountered.
func Parse(tokens []lexer.Token) (*ast.Program, *diag.Error) {
	if len(tokens) == 0 {
		tokens = []lexer.Token{{Kind: lexer.TokenEOF}}
	}
	p := &Parser{tokens: tokens}
	return p.parseProgram()
}

func (p *Parser) parseProgram() (*ast.Program, *diag.Error) {
	prog := &ast.Program{}
	for p.curr().Kind != lexer.TokenEOF {
		if p.curr().Kind == lexer.TokenFunction {
			fn, err := p.parseFuncDecl()
			if err != nil {
				return nil, err
			}
			prog.Funcs = append(prog.Funcs, fn)
			continue
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, stmt)
	}
	return prog, nil
}

func (p *Parser) parseFuncDecl() (*ast.FuncDecl, *diag.Error) {
	start := p.curr().Span
	p.next() // function
	nameTok, err := p.expect(lexer.TokenIdent, diag.CodeUnknownStructure)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLParen, diag.CodeUnknownStructure); err != nil {
		return nil, err
	}
	var params []ast.Param
	if p.curr().Kind != lexer.TokenRParen {
		for {
			paramTok, err := p.expect(lexer.TokenIdent, diag.CodeUnknownStructure)
			if err != nil {
				return nil, err
			}
			var ty *ast.TypeAnn
			if p.curr().Kind == lexer.TokenColon {
				p.next()
				ty, err = p.parseTypeAnn()
				if err != nil {
					return nil, err
				}
			}
			params = append(params, ast.Param{Name: paramTok.Text, Type: ty, Span: p.spanFrom(paramTok.Span)})
			if p.curr().Kind != lexer.TokenComma {
				break
			}
			p.next()
		}
	}
	if _, err := p.expect(lexer.TokenRParen, diag.CodeMissingRParen); err != nil {
		return nil, err
	}
	var ret *ast.TypeAnn
	if p.curr().Kind == lexer.TokenColon {
		p.next()
		ret, err = p.parseTypeAnn()
		if err != nil {
			return nil, err
		}
	}
	if p.curr().Kind != lexer.TokenLBrace {
		return nil, p.errHere(diag.CodeExpectedBlock)
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FuncDecl{Name: nameTok.Text, Params: params, Ret: ret, Body: body, Span: p.spanFrom(start)}, nil
}

func (p *Parser) parseTypeAnn() (*ast.TypeAnn, *diag.Error) {
	tok := p.curr()
	if tok.Kind != lexer.TokenIdent {
		return nil, p.errHere(diag.CodeUnknownType)
	}
	var ty ast.TypeAnn
	switch tok.Text {
	case "number":
		ty = ast.TypeNumber
	case "string":
		ty = ast.TypeString
	case "boolean":
		ty = ast.TypeBoolean
	case "void":
		ty = ast.TypeVoid
	default:
		return nil, p.errHere(diag.CodeUnknownType)
	}
	p.next()
	return &ty, nil
}

func (p *Parser) parseStmt() (ast.Stmt, *diag.Error) {
	switch p.curr().Kind {
	case lexer.TokenLBrace:
		return p.parseBlock()
	case lexer.TokenIf:
		return p.parseIf()
	case lexer.TokenWhile:
		return p.parseWhile()
	case lexer.TokenReturn:
		return p.parseReturn()
	case lexer.TokenLet, lexer.TokenConst:
		return p.parseVarDecl()
	case lexer.TokenIdent:
		if p.peek().Kind == lexer.TokenEq {
			return p.parseAssign()
		}
		return p.parseExprStmt()
	default:
		if canStartExpr(p.curr().Kind) {
			return p.parseExprStmt()
		}
		return nil, p.errHere(diag.CodeUnknownStructure)
	}
}

func (p *Parser) parseVarDecl() (ast.Stmt, *diag.Error) {
	start := p.curr().Span
	mutable := p.curr().Kind == lexer.TokenLet
	p.next()
	nameTok, err := p.expect(lexer.TokenIdent, diag.CodeUnknownStructure)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenEq, diag.CodeUnknownStructure); err != nil {
		return nil, err
	}
	init, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenSemicolon, diag.CodeMissingSemicolon); err != nil {
		return nil, err
	}
	return &ast.VarDeclStmt{Mutable: mutable, Name: nameTok.Text, Init: init, Span: p.spanFrom(start)}, nil
}

func (p *Parser) parseAssign() (ast.Stmt, *diag.Error) {
	nameTok := p.curr()
	p.next() // ident
	p.next() // =
	value, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenSemicolon, diag.CodeMissingSemicolon); err != nil {
		return nil, err
	}
	return &ast.AssignStmt{Name: nameTok.Text, Value: value, Span: p.spanFrom(nameTok.Span)}, nil
}

func (p *Parser) parseExprStmt() (ast.Stmt, *diag.Error) {
	expr, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenSemicolon, diag.CodeMissingSemicolon); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Expr: expr, Span: p.spanFrom(expr.GetSpan())}, nil
}

func (p *Parser) parseReturn() (ast.Stmt, *diag.Error) {
	start := p.curr().Span
	p.next() // return
	var value ast.Expr
	if canStartExpr(p.curr().Kind) {
		var err *diag.Error
		value, err = p.parseExpr(0)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.TokenSemicolon, diag.CodeMissingSemicolon); err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Value: value, Span: p.spanFrom(start)}, nil
}

func (p *Parser) parseBlock() (*ast.BlockStmt, *diag.Error) {
	start := p.curr().Span
	p.next() // {
	var stmts []ast.Stmt
	for p.curr().Kind != lexer.TokenRBrace && p.curr().Kind != lexer.TokenEOF {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.expect(lexer.TokenRBrace, diag.CodeUnknownStructure); err != nil {
		return nil, err
	}
	return &ast.BlockStmt{Stmts: stmts, Span: p.spanFrom(start)}, nil
}

func (p *Parser) parseIf() (ast.Stmt, *diag.Error) {
	start := p.curr().Span
	p.next() // if
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenElse, diag.CodeMissingElse); err != nil {
		return nil, err
	}
	els, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &ast.IfStmt{Cond: cond, Then: then, Else: els, Span: p.spanFrom(start)}, nil
}

func (p *Parser) parseWhile() (ast.Stmt, *diag.Error) {
	start := p.curr().Span
	p.next() // while
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Cond: cond, Body: body, Span: p.spanFrom(start)}, nil
}

// parseCondition parses a parenthesized condition and applies the
// boolean-admissibility policy: the target language only accepts a
// native bool here, so forms that are provably non-boolean are rejected
// now rather than at the target compiler.
func (p *Parser) parseCondition() (ast.Expr, *diag.Error) {
	if _, err := p.expect(lexer.TokenLParen, diag.CodeUnknownStructure); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenRParen, diag.CodeMissingRParen); err != nil {
		return nil, err
	}
	if !conditionLooksBool(cond) {
		return nil, diag.New(diag.CodeConditionMustBeBool, cond.GetSpan())
	}
	return cond, nil
}

// conditionLooksBool is a conservative syntactic classifier, not a type
// check. It rejects only forms that cannot be boolean (non-bool
// literals, arithmetic); identifiers and calls pass because their type
// is unknowable without a type system.
func conditionLooksBool(e ast.Expr) bool {
	switch v := e.(type) {
	case *ast.IntLit:
		return false
	case *ast.StringLit:
		return false
	case *ast.UnaryExpr:
		return v.Op != "-"
	case *ast.BinaryExpr:
		switch v.Op {
		case "+", "-", "*", "/", "%":
			return false
		}
		return true
	default:
		return true
	}
}

func (p *Parser) parseExpr(precedence int) (ast.Expr, *diag.Error) {
	expr, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		prec := binaryPrecedence(p.curr().Kind)
		if prec < precedence {
			break
		}
		op := p.curr().Text
		p.next()
		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		expr = &ast.BinaryExpr{Op: op, Left: expr, Right: right, Span: spanJoin(expr.GetSpan(), right.GetSpan())}
	}
	return expr, nil
}

func (p *Parser) parseUnary() (ast.Expr, *diag.Error) {
	switch p.curr().Kind {
	case lexer.TokenMinus, lexer.TokenNot:
		tok := p.curr()
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: tok.Text, Expr: operand, Span: spanJoin(tok.Span, operand.GetSpan())}, nil
	}
	return p.parseCall()
}

func (p *Parser) parseCall() (ast.Expr, *diag.Error) {
	if p.curr().Kind == lexer.TokenIdent && p.curr().Text == "console" && p.peek().Kind == lexer.TokenDot {
		start := p.curr().Span
		p.next() // console
		p.next() // .
		if p.curr().Kind != lexer.TokenIdent || p.curr().Text != "log" {
			return nil, p.errHere(diag.CodeUnknownStructure)
		}
		p.next()
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		return &ast.CallExpr{Callee: ast.Callee{Kind: ast.CalleeConsoleLog}, Args: args, Span: p.spanFrom(start)}, nil
	}
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if ident, ok := expr.(*ast.IdentExpr); ok && p.curr().Kind == lexer.TokenLParen {
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		callee := ast.Callee{Kind: ast.CalleeIdent, Name: ident.Name}
		return &ast.CallExpr{Callee: callee, Args: args, Span: p.spanFrom(ident.Span)}, nil
	}
	return expr, nil
}

func (p *Parser) parseArgs() ([]ast.Expr, *diag.Error) {
	if _, err := p.expect(lexer.TokenLParen, diag.CodeUnknownStructure); err != nil {
		return nil, err
	}
	var args []ast.Expr
	if p.curr().Kind != lexer.TokenRParen {
		for {
			arg, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.curr().Kind != lexer.TokenComma {
				break
			}
			p.next()
		}
	}
	if _, err := p.expect(lexer.TokenRParen, diag.CodeMissingRParen); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expr, *diag.Error) {
	tok := p.curr()
	switch tok.Kind {
	case lexer.TokenIdent:
		p.next()
		return &ast.IdentExpr{Name: tok.Text, Span: tok.Span}, nil
	case lexer.TokenNumber:
		p.next()
		// Range already validated by the lexer.
		v, _ := strconv.ParseInt(tok.Text, 10, 32)
		return &ast.IntLit{Value: int32(v), Span: tok.Span}, nil
	case lexer.TokenString:
		p.next()
		return &ast.StringLit{Value: tok.Text, Span: tok.Span}, nil
	case lexer.TokenTrue, lexer.TokenFalse:
		p.next()
		return &ast.BoolLit{Value: tok.Kind == lexer.TokenTrue, Span: tok.Span}, nil
	case lexer.TokenLParen:
		p.next()
		inner, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenRParen, diag.CodeMissingRParen); err != nil {
			return nil, err
		}
		return &ast.GroupExpr{Inner: inner, Span: p.spanFrom(tok.Span)}, nil
	default:
		return nil, p.errHere(diag.CodeExpectedExpr)
	}
}

func binaryPrecedence(kind lexer.TokenKind) int {
	switch kind {
	case lexer.TokenOrOr:
		return 1
	case lexer.TokenAndAnd:
		return 2
	case lexer.TokenEqEq, lexer.TokenNotEq:
		return 3
	case lexer.TokenLT, lexer.TokenLTE, lexer.TokenGT, lexer.TokenGTE:
		return 4
	case lexer.TokenPlus, lexer.TokenMinus:
		return 5
	case lexer.TokenStar, lexer.TokenSlash, lexer.TokenPercent:
		return 6
	default:
		return -1
	}
}

func canStartExpr(kind lexer.TokenKind) bool {
	switch kind {
	case lexer.TokenIdent, lexer.TokenNumber, lexer.TokenString,
		lexer.TokenTrue, lexer.TokenFalse, lexer.TokenLParen,
		lexer.TokenMinus, lexer.TokenNot:
		return true
	default:
		return false
	}
}

func (p *Parser) curr() lexer.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peek() lexer.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) next() {
	if p.curr().Kind != lexer.TokenEOF {
		p.pos++
	}
}

func (p *Parser) expect(kind lexer.TokenKind, code diag.Code) (lexer.Token, *diag.Error) {
	if p.curr().Kind != kind {
		return lexer.Token{}, p.errHere(code)
	}
	tok := p.curr()
	p.next()
	return tok, nil
}

// errHere reports an error at the current token. Past end-of-input the
// last real token's span is reused; there is no token left to blame.
func (p *Parser) errHere(code diag.Code) *diag.Error {
	span := p.curr().Span
	if p.curr().Kind == lexer.TokenEOF && p.pos > 0 {
		span = p.tokens[p.pos-1].Span
	}
	return diag.New(code, span)
}

// spanFrom joins a start span with the span of the most recently
// consumed token.
func (p *Parser) spanFrom(start diag.Span) diag.Span {
	if p.pos == 0 {
		return start
	}
	return spanJoin(start, p.tokens[p.pos-1].Span)
}

func spanJoin(start, end diag.Span) diag.Span {
	return diag.Span{
		Start:     start.Start,
		End:       end.End,
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   end.EndLine,
		EndCol:    end.EndCol,
	}
}
