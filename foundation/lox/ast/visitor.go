// File: visitor.go
// Title: Expression Visitor Contract
// Description: Declares the generic visitor interface and the single Accept
//              dispatch used by every tree walker (printer, evaluator).
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-16
// Modified: 2026-10-16
//
// Change History:
// - 2026-10-16 v0.1.0: Initial implementation

package ast

import "fmt"

// Visitor handles each expression variant and produces a result of type R
type Visitor[R any] interface {
	VisitBinaryExpr(expr *Binary) R
	VisitGroupingExpr(expr *Grouping) R
	VisitLiteralExpr(expr *Literal) R
	VisitUnaryExpr(expr *Unary) R
	VisitVariableExpr(expr *Variable) R
	VisitAssignExpr(expr *Assign) R
}

// Accept dispatches expr to the handler of v matching its variant.
// It panics on nil, which a successful parse never produces.
func Accept[R any](expr Expr, v Visitor[R]) R {
	switch e := expr.(type) {
	case *Binary:
		return v.VisitBinaryExpr(e)
	case *Grouping:
		return v.VisitGroupingExpr(e)
	case *Literal:
		return v.VisitLiteralExpr(e)
	case *Unary:
		return v.VisitUnaryExpr(e)
	case *Variable:
		return v.VisitVariableExpr(e)
	case *Assign:
		return v.VisitAssignExpr(e)
	default:
		panic(fmt.Sprintf("ast: unexpected expression %T", expr))
	}
}
