// File: doc.go
// Title: Lox Abstract Syntax Tree Package Documentation
// Description: Package documentation for the expression tree.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-16
// Modified: 2026-10-16

/*
Package ast defines the expression tree built by the Lox parser.

Six node variants exist: Binary, Grouping, Literal, Unary, Variable and
Assign. Tree walkers implement Visitor[R] for their result type and are
invoked through Accept:

	type counter struct{}

	func (counter) VisitLiteralExpr(*ast.Literal) int { return 1 }
	// ... remaining handlers

	n := ast.Accept[int](expr, counter{})

Adding a new walker needs no change to the node definitions.
*/
package ast
