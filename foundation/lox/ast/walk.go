// File: walk.go
// Title: Tree Utilities
// Description: Traversal, depth and structural equality helpers.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-16
// Modified: 2026-10-16

package ast

import "github.com/msto63/glox/foundation/lox/token"

// Children returns the direct sub-expressions of expr in source order
func Children(expr Expr) []Expr {
	switch e := expr.(type) {
	case *Binary:
		return []Expr{e.Left, e.Right}
	case *Grouping:
		return []Expr{e.Expression}
	case *Unary:
		return []Expr{e.Right}
	case *Assign:
		return []Expr{e.Value}
	default:
		return nil
	}
}

// Walk visits expr and its descendants in pre-order. Returning false from
// fn skips the children of the current node.
func Walk(expr Expr, fn func(Expr) bool) {
	if expr == nil || !fn(expr) {
		return
	}
	for _, child := range Children(expr) {
		Walk(child, fn)
	}
}

// Depth returns the height of the tree; a single leaf has depth 1
func Depth(expr Expr) int {
	if expr == nil {
		return 0
	}
	deepest := 0
	for _, child := range Children(expr) {
		if d := Depth(child); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// Count returns the number of nodes in the tree
func Count(expr Expr) int {
	n := 0
	Walk(expr, func(Expr) bool {
		n++
		return true
	})
	return n
}

// Equal reports whether a and b have the same shape, operators, names and
// literal values. Source lines are ignored.
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch x := a.(type) {
	case *Binary:
		y := b.(*Binary)
		return sameOperator(x.Operator, y.Operator) &&
			Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *Grouping:
		return Equal(x.Expression, b.(*Grouping).Expression)
	case *Literal:
		return x.Value == b.(*Literal).Value
	case *Unary:
		y := b.(*Unary)
		return sameOperator(x.Operator, y.Operator) &&
			Equal(x.Right, y.Right)
	case *Variable:
		return x.Name.Lexeme == b.(*Variable).Name.Lexeme
	case *Assign:
		y := b.(*Assign)
		return x.Name.Lexeme == y.Name.Lexeme && Equal(x.Value, y.Value)
	}
	return false
}

func sameOperator(a, b token.Token) bool {
	return a.Kind == b.Kind && a.Lexeme == b.Lexeme
}
