// File: nodes.go
// Title: Lox Expression Nodes
// Description: Defines the closed set of expression node variants produced
//              by the parser. Nodes own their children exclusively and are
//              never modified after construction.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-16
// Modified: 2026-10-16
//
// Change History:
// - 2026-10-16 v0.1.0: Initial implementation

package ast

import (
	"fmt"

	"github.com/msto63/glox/foundation/lox/token"
)

// Kind tags the variant of an expression node
type Kind int

const (
	KindBinary Kind = iota
	KindGrouping
	KindLiteral
	KindUnary
	KindVariable
	KindAssign
)

// String returns the variant name
func (k Kind) String() string {
	switch k {
	case KindBinary:
		return "Binary"
	case KindGrouping:
		return "Grouping"
	case KindLiteral:
		return "Literal"
	case KindUnary:
		return "Unary"
	case KindVariable:
		return "Variable"
	case KindAssign:
		return "Assign"
	default:
		return "Unknown"
	}
}

// Expr is an expression node. The set of implementations is closed; only
// the types in this package satisfy it.
type Expr interface {
	Kind() Kind
	String() string
	exprNode()
}

// Binary is a two-operand infix expression such as a + b
type Binary struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

// Grouping is a parenthesized expression
type Grouping struct {
	Expression Expr
}

// Literal is a number, string, boolean or nil constant
type Literal struct {
	Value any
}

// Unary is a prefix expression such as -a or !a
type Unary struct {
	Operator token.Token
	Right    Expr
}

// Variable is a reference to a named variable
type Variable struct {
	Name token.Token
}

// Assign binds Value to Name
type Assign struct {
	Name  token.Token
	Value Expr
}

func (*Binary) exprNode()   {}
func (*Grouping) exprNode() {}
func (*Literal) exprNode()  {}
func (*Unary) exprNode()    {}
func (*Variable) exprNode() {}
func (*Assign) exprNode()   {}

func (*Binary) Kind() Kind   { return KindBinary }
func (*Grouping) Kind() Kind { return KindGrouping }
func (*Literal) Kind() Kind  { return KindLiteral }
func (*Unary) Kind() Kind    { return KindUnary }
func (*Variable) Kind() Kind { return KindVariable }
func (*Assign) Kind() Kind   { return KindAssign }

// String returns a short description of the node without its children
func (e *Binary) String() string { return fmt.Sprintf("Binary(%s)", e.Operator.Lexeme) }

// String returns a short description of the node without its children
func (e *Grouping) String() string { return "Grouping" }

// String returns a short description of the node
func (e *Literal) String() string {
	if e.Value == nil {
		return "Literal(nil)"
	}
	return fmt.Sprintf("Literal(%v)", e.Value)
}

// String returns a short description of the node without its children
func (e *Unary) String() string { return fmt.Sprintf("Unary(%s)", e.Operator.Lexeme) }

// String returns a short description of the node
func (e *Variable) String() string { return fmt.Sprintf("Variable(%s)", e.Name.Lexeme) }

// String returns a short description of the node without its children
func (e *Assign) String() string { return fmt.Sprintf("Assign(%s)", e.Name.Lexeme) }
