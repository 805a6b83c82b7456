// Package ast defines the Lox syntax tree node types.
//
// Nodes are immutable once the parser constructs them. Variable-reference-like
// nodes (Variable, Assign, This, Super) carry a NodeID: a stable integer
// identity assigned at construction, distinct per syntactic occurrence. The
// resolver keys its resolution table by NodeID, so two textually identical
// references at different source positions resolve independently.
package ast

import "github.com/loxkit/golox/pkg/lexer"

// NodeID identifies one syntactic occurrence of a resolvable expression.
type NodeID int

// Expr is the interface for all expression nodes.
type Expr interface {
	exprNode() // sealed marker
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	stmtNode() // sealed marker
}

// --- Literal expressions ---

type NumberLiteral struct {
	Value float64
}

func (*NumberLiteral) exprNode() {}

type StringLiteral struct {
	Value string
}

func (*StringLiteral) exprNode() {}

type BoolLiteral struct {
	Value bool
}

func (*BoolLiteral) exprNode() {}

type NilLiteral struct{}

func (*NilLiteral) exprNode() {}

// --- Operator expressions ---

type Unary struct {
	Op    lexer.Token
	Right Expr
}

func (*Unary) exprNode() {}

type Binary struct {
	Left  Expr
	Op    lexer.Token
	Right Expr
}

func (*Binary) exprNode() {}

// Logical is a short-circuit "and"/"or" expression. It is distinct from
// Binary because its right operand may never be evaluated.
type Logical struct {
	Left  Expr
	Op    lexer.Token
	Right Expr
}

func (*Logical) exprNode() {}

type Grouping struct {
	Expression Expr
}

func (*Grouping) exprNode() {}

// --- Variables ---

type Variable struct {
	ID   NodeID
	Name lexer.Token
}

func (*Variable) exprNode() {}

type Assign struct {
	ID    NodeID
	Name  lexer.Token
	Value Expr
}

func (*Assign) exprNode() {}

// --- Calls and properties ---

type Call struct {
	Callee Expr
	Paren  lexer.Token // closing paren, for error reporting
	Args   []Expr
}

func (*Call) exprNode() {}

type Get struct {
	Object Expr
	Name   lexer.Token
}

func (*Get) exprNode() {}

type Set struct {
	Object Expr
	Name   lexer.Token
	Value  Expr
}

func (*Set) exprNode() {}

type This struct {
	ID      NodeID
	Keyword lexer.Token
}

func (*This) exprNode() {}

type Super struct {
	ID      NodeID
	Keyword lexer.Token
	Method  lexer.Token
}

func (*Super) exprNode() {}

// --- Statements ---

type Expression struct {
	Expression Expr
}

func (*Expression) stmtNode() {}

type Print struct {
	Expression Expr
}

func (*Print) stmtNode() {}

type Var struct {
	Name        lexer.Token
	Initializer Expr // nil means default to nil at runtime
}

func (*Var) stmtNode() {}

type Block struct {
	Statements []Stmt
}

func (*Block) stmtNode() {}

type If struct {
	Condition  Expr
	ThenBranch Stmt
	ElseBranch Stmt // optional
}

func (*If) stmtNode() {}

type While struct {
	Condition Expr
	Body      Stmt
}

func (*While) stmtNode() {}

type Function struct {
	Name   lexer.Token
	Params []lexer.Token
	Body   []Stmt
}

func (*Function) stmtNode() {}

type Return struct {
	Keyword lexer.Token
	Value   Expr // optional
}

func (*Return) stmtNode() {}

type Class struct {
	Name       lexer.Token
	Superclass *Variable // optional
	Methods    []*Function
}

func (*Class) stmtNode() {}
