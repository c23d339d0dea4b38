package compiler

import (
	"strconv"
	"strings"

	"arkts2rust/internal/ast"
	"arkts2rust/internal/diag"
)

// Generator lowers a Program to Rust source text. The lowering table is
// fixed: no inference, no call-site analysis; the same node always
// produces the same text. Type errors the source cannot express are
// pushed downstream to rustc.
type Generator struct {
	b rustBuilder
}

// Generate renders the whole program: every function in declaration
// order, then a synthetic fn main wrapping the top-level statements.
// Functions must precede main so rustc resolves names before the entry
// point runs.
func Generate(prog *ast.Program) (string, *diag.Error) {
	g := &Generator{}
	for _, fn := range prog.Funcs {
		if err := g.emitFunc(fn); err != nil {
			return "", err
		}
	}
	g.b.line("fn main() {")
	g.b.indent++
	for _, stmt := range prog.Stmts {
		if err := g.emitStmt(stmt, entryScope()); err != nil {
			return "", err
		}
	}
	g.b.indent--
	g.b.line("}")
	return g.b.String(), nil
}

// scope carries the effective return type of the procedure being
// emitted. The synthetic entry procedure is void but additionally
// lowers value-carrying returns to a discarded binding instead of
// rejecting them.
type scope struct {
	ret   ast.TypeAnn
	entry bool
}

func entryScope() scope {
	return scope{ret: ast.TypeVoid, entry: true}
}

func (g *Generator) emitFunc(fn *ast.FuncDecl) *diag.Error {
	ret := effectiveReturnType(fn)
	var sig strings.Builder
	sig.WriteString("fn ")
	sig.WriteString(fn.Name)
	sig.WriteString("(")
	for i, param := range fn.Params {
		if i > 0 {
			sig.WriteString(", ")
		}
		sig.WriteString(param.Name)
		sig.WriteString(": ")
		sig.WriteString(rustType(paramType(param)))
	}
	sig.WriteString(")")
	if ret != ast.TypeVoid {
		sig.WriteString(" -> ")
		sig.WriteString(rustType(ret))
	}
	sig.WriteString(" {")
	g.b.line(sig.String())
	g.b.indent++
	for _, stmt := range fn.Body.Stmts {
		if err := g.emitStmt(stmt, scope{ret: ret}); err != nil {
			return err
		}
	}
	g.b.indent--
	g.b.line("}")
	return nil
}

func (g *Generator) emitStmt(stmt ast.Stmt, sc scope) *diag.Error {
	switch s := stmt.(type) {
	case *ast.VarDeclStmt:
		kw := "let"
		if s.Mutable {
			kw = "let mut"
		}
		g.b.line(kw + " " + s.Name + " = " + exprString(s.Init) + ";")
		return nil
	case *ast.AssignStmt:
		g.b.line(s.Name + " = " + exprString(s.Value) + ";")
		return nil
	case *ast.ExprStmt:
		g.b.line(exprString(s.Expr) + ";")
		return nil
	case *ast.ReturnStmt:
		return g.emitReturn(s, sc)
	case *ast.BlockStmt:
		g.b.line("{")
		g.b.indent++
		for _, inner := range s.Stmts {
			if err := g.emitStmt(inner, sc); err != nil {
				return err
			}
		}
		g.b.indent--
		g.b.line("}")
		return nil
	case *ast.IfStmt:
		g.b.line("if " + exprString(s.Cond) + " {")
		if err := g.emitBranch(s.Then, sc); err != nil {
			return err
		}
		if s.Else != nil {
			g.b.line("} else {")
			if err := g.emitBranch(s.Else, sc); err != nil {
				return err
			}
		}
		g.b.line("}")
		return nil
	case *ast.WhileStmt:
		g.b.line("while " + exprString(s.Cond) + " {")
		if err := g.emitBranch(s.Body, sc); err != nil {
			return err
		}
		g.b.line("}")
		return nil
	default:
		// The Stmt set is closed; reaching this means a new variant was
		// added without extending the emitter.
		return diag.New(diag.CodeUnknownStructure, stmt.GetSpan())
	}
}

// emitBranch force-wraps an if/while branch in braces. A source block
// contributes its statements directly so braces are not doubled.
func (g *Generator) emitBranch(stmt ast.Stmt, sc scope) *diag.Error {
	g.b.indent++
	defer func() { g.b.indent-- }()
	if block, ok := stmt.(*ast.BlockStmt); ok {
		for _, inner := range block.Stmts {
			if err := g.emitStmt(inner, sc); err != nil {
				return err
			}
		}
		return nil
	}
	return g.emitStmt(stmt, sc)
}

func (g *Generator) emitReturn(s *ast.ReturnStmt, sc scope) *diag.Error {
	if s.Value == nil {
		if !sc.entry && sc.ret != ast.TypeVoid {
			return diag.New(diag.CodeReturnValueRequired, s.Span)
		}
		g.b.line("return;")
		return nil
	}
	if sc.entry {
		// The entry procedure has a fixed void contract: evaluate the
		// expression for its side effects, then return nothing.
		g.b.line("let _ = " + exprString(s.Value) + ";")
		g.b.line("return;")
		return nil
	}
	if sc.ret == ast.TypeVoid {
		return diag.New(diag.CodeReturnValueRequired, s.Span)
	}
	g.b.line("return " + exprString(s.Value) + ";")
	return nil
}

func exprString(e ast.Expr) string {
	switch v := e.(type) {
	case *ast.IntLit:
		return strconv.FormatInt(int64(v.Value), 10) + "i32"
	case *ast.StringLit:
		return `String::from("` + escapeRustString(v.Value) + `")`
	case *ast.BoolLit:
		if v.Value {
			return "true"
		}
		return "false"
	case *ast.IdentExpr:
		return v.Name
	case *ast.UnaryExpr:
		return v.Op + exprString(v.Expr)
	case *ast.BinaryExpr:
		return exprString(v.Left) + " " + v.Op + " " + exprString(v.Right)
	case *ast.GroupExpr:
		return "(" + exprString(v.Inner) + ")"
	case *ast.CallExpr:
		return callString(v)
	default:
		return ""
	}
}

func callString(call *ast.CallExpr) string {
	args := make([]string, len(call.Args))
	for i, arg := range call.Args {
		args[i] = exprString(arg)
	}
	if call.Callee.Kind == ast.CalleeConsoleLog {
		// Debug formatter on purpose: it is total over every lowered
		// type, a Display bound is not.
		if len(args) == 0 {
			return "println!()"
		}
		verbs := strings.TrimSuffix(strings.Repeat("{:?} ", len(args)), " ")
		return `println!("` + verbs + `", ` + strings.Join(args, ", ") + ")"
	}
	return call.Callee.Name + "(" + strings.Join(args, ", ") + ")"
}

var rustStringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
)

func escapeRustString(s string) string {
	return rustStringEscaper.Replace(s)
}

// effectiveReturnType applies the fixed defaulting policy: an explicit
// annotation wins; otherwise void, unless the body contains a
// value-carrying return, then number. Pure function of the node.
func effectiveReturnType(fn *ast.FuncDecl) ast.TypeAnn {
	if fn.Ret != nil {
		return *fn.Ret
	}
	if hasValueReturn(fn.Body.Stmts) {
		return ast.TypeNumber
	}
	return ast.TypeVoid
}

func hasValueReturn(stmts []ast.Stmt) bool {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.ReturnStmt:
			if s.Value != nil {
				return true
			}
		case *ast.BlockStmt:
			if hasValueReturn(s.Stmts) {
				return true
			}
		case *ast.IfStmt:
			if hasValueReturn([]ast.Stmt{s.Then}) {
				return true
			}
			if s.Else != nil && hasValueReturn([]ast.Stmt{s.Else}) {
				return true
			}
		case *ast.WhileStmt:
			if hasValueReturn([]ast.Stmt{s.Body}) {
				return true
			}
		}
	}
	return false
}

func paramType(p ast.Param) ast.TypeAnn {
	if p.Type != nil {
		return *p.Type
	}
	return ast.TypeNumber
}

func rustType(t ast.TypeAnn) string {
	switch t {
	case ast.TypeNumber:
		return "i32"
	case ast.TypeString:
		return "String"
	case ast.TypeBoolean:
		return "bool"
	default:
		// void in a position that still needs a spelled type.
		return "()"
	}
}

type rustBuilder struct {
	sb     strings.Builder
	indent int
}

func (b *rustBuilder) line(s string) {
	b.sb.WriteString(strings.Repeat("    ", b.indent))
	b.sb.WriteString(s)
	b.sb.WriteString("\n")
}

func (b *rustBuilder) String() string {
	return b.sb.String()
}
