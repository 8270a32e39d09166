// Package ast defines the abstract syntax tree produced by the parser: a
// set of tagged node structs, dispatched on by later stages with a type
// switch rather than a virtual-method hierarchy.
package ast

import "github.com/cinth/cinth/ctype"

// Node is implemented by every AST node. Every node carries the source line
// it started on, for diagnostics.
type Node interface {
	Line() int
}

type base struct{ line int }

func (b base) Line() int { return b.line }

// SetLine stamps a node's source line; used by the parser right after
// constructing a node literal (which can't set an unexported field from
// another package any other way).
func (b *base) SetLine(line int) { b.line = line }

// NewBase returns a base stamped with the given source line; the parser
// itself stamps nodes with SetLine instead.
func NewBase(line int) base { return base{line: line} }

// Program is the AST root: includes, struct decls, function decls and
// top-level var decls, in source order.
type Program struct {
	base
	Children []Node
}

// IncludeLibrary is `#include <name.h>`.
type IncludeLibrary struct {
	base
	Name string
}

// Param is one function-declaration parameter.
type Param struct {
	base
	Type ctype.CType
	Name string
}

// FunctionDecl declares (and defines) a function.
type FunctionDecl struct {
	base
	ReturnType ctype.CType
	Name       string
	Params     []*Param
	Body       *FunctionBody
}

// FunctionBody is a function's top-level block; distinct from CompoundStmt
// because the semantic analyzer treats the two differently (a function body
// does not introduce a second nested scope on top of the parameter scope).
type FunctionBody struct {
	base
	Stmts []Node
}

// VarDecl declares a variable of a given type.
type VarDecl struct {
	base
	Type ctype.CType
	Name string
	// Init is the optional `= assignment_expr` initializer; nil if absent.
	Init Node
}

// StructDecl declares a struct type and its fields, in declaration order.
type StructDecl struct {
	base
	Name       string
	FieldOrder []string
	Fields     map[string]ctype.CType
}

// CompoundStmt is a `{ ... }` block that introduces a new scope.
type CompoundStmt struct {
	base
	Stmts []Node
}

// IfStmt is `if (Cond) Then [else Else]`.
type IfStmt struct {
	base
	Cond Node
	Then Node
	Else Node // nil if absent
}

// WhileStmt is `while (Cond) Body`.
type WhileStmt struct {
	base
	Cond Node
	Body Node
}

// DoWhileStmt is `do Body while (Cond);`.
type DoWhileStmt struct {
	base
	Body Node
	Cond Node
}

// ForStmt is `for (Setup Cond; Inc) Body`; Setup and Cond are
// expression-statements (possibly NoOp), Inc may be nil.
type ForStmt struct {
	base
	Setup Node
	Cond  Node
	Inc   Node
	Body  Node
}

// SwitchStmt is `switch (Expr) { Items... }`.
type SwitchStmt struct {
	base
	Expr  Node
	Items []Node
}

// SwitchCaseLabel is a `case Expr:` label inside a switch.
type SwitchCaseLabel struct {
	base
	Expr Node
}

// SwitchDefaultLabel is the `default:` label inside a switch.
type SwitchDefaultLabel struct {
	base
}

// ReturnStmt is `return [Expr];`.
type ReturnStmt struct {
	base
	Expr Node // nil if bare `return;`
}

// BreakStmt is `break;`.
type BreakStmt struct{ base }

// ContinueStmt is `continue;`.
type ContinueStmt struct{ base }

// Expression is a comma-delimited list of assignment-expressions; its value
// is that of the last child.
type Expression struct {
	base
	Children []Node
}

// AssignOp identifies which assignment/compound-assignment operator an
// Assignment node uses.
type AssignOp int

const (
	Assign AssignOp = iota
	AddAssign
	SubAssign
	MulAssign
	DivAssign
	ModAssign
	AndAssign
	OrAssign
	XorAssign
	ShlAssign
	ShrAssign
)

// Assignment is `Left Op Right`, where Left must be an lvalue.
type Assignment struct {
	base
	Left  Node
	Op    AssignOp
	Right Node
}

// BinOp identifies a binary operator.
type BinOp struct {
	base
	Op    string // "+", "-", "*", "/", "%", "<", ">", "<=", ">=", "==", "!=", "&&", "||", "&", "|", "^", "<<", ">>"
	Left  Node
	Right Node
}

// UnOp is a unary or postfix operator, or a C-style cast (CastTo holds the
// target type and Op is empty).
type UnOp struct {
	base
	Op     string // "&", "*", "++", "--", "-", "+", "!", or "" when CastTo is set
	Expr   Node
	Prefix bool
	CastTo *ctype.CType // non-nil when this UnOp is a cast expression
}

// TerOp is `Cond ? True : False`.
type TerOp struct {
	base
	Cond  Node
	True  Node
	False Node
}

// FunctionCall is `Name(Args...)`.
type FunctionCall struct {
	base
	Name string
	Args []Node
}

// FieldAccess is `Var.Field` (Op==".") or `Var->Field` (Op=="->").
type FieldAccess struct {
	base
	Op    string
	Expr  Node
	Field string
}

// Var is an identifier reference.
type Var struct {
	base
	Name string
}

// NumKind identifies what kind of literal a Num node holds.
type NumKind int

const (
	IntLit NumKind = iota
	CharLit
	RealLit
)

// Num is a numeric literal.
type Num struct {
	base
	Kind  NumKind
	IVal  int64
	FVal  float64
}

// String is a string literal.
type String struct {
	base
	Value string
}

// NoOp is an empty statement/expression (e.g. the missing parts of
// `for (;;)`).
type NoOp struct{ base }
