// Package ast holds the tree produced by the parser. Nodes are plain
// data: the parser builds them in one pass and the code generator only
// reads them.
package ast

import "arkts2rust/internal/diag"

// Program is the root node. Top-level function declarations and
// top-level statements are siblings; together they partition the whole
// input. Declaration order is preserved in both slices.
type Program struct {
	Funcs []*FuncDecl
	Stmts []Stmt
}

type FuncDecl struct {
	Name   string
	Params []Param
	Ret    *TypeAnn // nil when the source omits the annotation
	Body   *BlockStmt
	Span   diag.Span
}

func (d *FuncDecl) GetSpan() diag.Span { return d.Span }

type Param struct {
	Name string
	Type *TypeAnn // nil when the source omits the annotation
	Span diag.Span
}

// TypeAnn is the closed set of source type annotations.
type TypeAnn int

const (
	TypeNumber TypeAnn = iota
	TypeString
	TypeBoolean
	TypeVoid
)

func (t TypeAnn) String() string {
	switch t {
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeBoolean:
		return "boolean"
	case TypeVoid:
		return "void"
	default:
		return "unknown"
	}
}

type Stmt interface {
	stmtNode()
	GetSpan() diag.Span
}

type VarDeclStmt struct {
	Mutable bool // let vs const
	Name    string
	Init    Expr
	Span    diag.Span
}

func (*VarDeclStmt) stmtNode()            {}
func (s *VarDeclStmt) GetSpan() diag.Span { return s.Span }

type AssignStmt struct {
	Name  string
	Value Expr
	Span  diag.Span
}

func (*AssignStmt) stmtNode()            {}
func (s *AssignStmt) GetSpan() diag.Span { return s.Span }

type ExprStmt struct {
	Expr Expr
	Span diag.Span
}

func (*ExprStmt) stmtNode()            {}
func (s *ExprStmt) GetSpan() diag.Span { return s.Span }

type ReturnStmt struct {
	Value Expr // nil for a bare return
	Span  diag.Span
}

func (*ReturnStmt) stmtNode()            {}
func (s *ReturnStmt) GetSpan() diag.Span { return s.Span }

type BlockStmt struct {
	Stmts []Stmt
	Span  diag.Span
}

func (*BlockStmt) stmtNode()            {}
func (s *BlockStmt) GetSpan() diag.Span { return s.Span }

type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // nil-able in the data model; the grammar requires it
	Span diag.Span
}

func (*IfStmt) stmtNode()            {}
func (s *IfStmt) GetSpan() diag.Span { return s.Span }

type WhileStmt struct {
	Cond Expr
	Body Stmt
	Span diag.Span
}

func (*WhileStmt) stmtNode()            {}
func (s *WhileStmt) GetSpan() diag.Span { return s.Span }

type Expr interface {
	exprNode()
	GetSpan() diag.Span
}

type IntLit struct {
	Value int32
	Span  diag.Span
}

func (*IntLit) exprNode()            {}
func (e *IntLit) GetSpan() diag.Span { return e.Span }

type StringLit struct {
	Value string
	Span  diag.Span
}

func (*StringLit) exprNode()            {}
func (e *StringLit) GetSpan() diag.Span { return e.Span }

type BoolLit struct {
	Value bool
	Span  diag.Span
}

func (*BoolLit) exprNode()            {}
func (e *BoolLit) GetSpan() diag.Span { return e.Span }

type IdentExpr struct {
	Name string
	Span diag.Span
}

func (*IdentExpr) exprNode()            {}
func (e *IdentExpr) GetSpan() diag.Span { return e.Span }

type UnaryExpr struct {
	Op   string // "-" or "!"
	Expr Expr
	Span diag.Span
}

func (*UnaryExpr) exprNode()            {}
func (e *UnaryExpr) GetSpan() diag.Span { return e.Span }

type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
	Span  diag.Span
}

func (*BinaryExpr) exprNode()            {}
func (e *BinaryExpr) GetSpan() diag.Span { return e.Span }

// GroupExpr keeps source parentheses so the generator can reproduce
// them instead of re-deriving precedence.
type GroupExpr struct {
	Inner Expr
	Span  diag.Span
}

func (*GroupExpr) exprNode()            {}
func (e *GroupExpr) GetSpan() diag.Span { return e.Span }

// CalleeKind distinguishes the reserved logging path from a plain
// function-name call.
type CalleeKind int

const (
	CalleeIdent CalleeKind = iota
	CalleeConsoleLog
)

type Callee struct {
	Kind CalleeKind
	Name string // set for CalleeIdent
}

type CallExpr struct {
	Callee Callee
	Args   []Expr
	Span   diag.Span
}

func (*CallExpr) exprNode()            {}
func (e *CallExpr) GetSpan() diag.Span { return e.Span }
