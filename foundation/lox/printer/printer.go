// File: printer.go
// Title: AST Printer
// Description: Renders expression trees in parenthesized prefix form, e.g.
//              (* (- 123) (group 45.67)), and as an indented outline.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-16
// Modified: 2026-10-16
//
// Change History:
// - 2026-10-16 v0.1.0: Initial implementation

package printer

import (
	"fmt"
	"strings"

	"github.com/msto63/glox/foundation/lox/ast"
	"github.com/msto63/glox/foundation/lox/token"
)

// Printer is an ast.Visitor producing the prefix form
type Printer struct{}

// Print renders expr in prefix form. A nil expression prints as "".
func Print(expr ast.Expr) string {
	if expr == nil {
		return ""
	}
	return ast.Accept[string](expr, Printer{})
}

func (p Printer) VisitBinaryExpr(expr *ast.Binary) string {
	return p.parenthesize(expr.Operator.Lexeme, expr.Left, expr.Right)
}

func (p Printer) VisitGroupingExpr(expr *ast.Grouping) string {
	return p.parenthesize("group", expr.Expression)
}

func (p Printer) VisitLiteralExpr(expr *ast.Literal) string {
	return Literal(expr.Value)
}

func (p Printer) VisitUnaryExpr(expr *ast.Unary) string {
	return p.parenthesize(expr.Operator.Lexeme, expr.Right)
}

func (p Printer) VisitVariableExpr(expr *ast.Variable) string {
	return expr.Name.Lexeme
}

func (p Printer) VisitAssignExpr(expr *ast.Assign) string {
	return p.parenthesize("= "+expr.Name.Lexeme, expr.Value)
}

func (p Printer) parenthesize(name string, exprs ...ast.Expr) string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(name)
	for _, e := range exprs {
		b.WriteString(" ")
		b.WriteString(ast.Accept[string](e, p))
	}
	b.WriteString(")")
	return b.String()
}

// Literal renders a literal value: nil as "nil", integral numbers without
// a fraction and strings without quotes.
func Literal(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case float64:
		return token.FormatNumber(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Tree renders expr as an indented outline, one node per line
func Tree(expr ast.Expr) string {
	var b strings.Builder
	writeTree(&b, expr, 0)
	return b.String()
}

func writeTree(b *strings.Builder, expr ast.Expr, depth int) {
	if expr == nil {
		return
	}
	b.WriteString(strings.Repeat("  ", depth))
	if lit, ok := expr.(*ast.Literal); ok {
		b.WriteString("Literal " + Literal(lit.Value))
	} else {
		b.WriteString(expr.String())
	}
	b.WriteString("\n")
	for _, child := range ast.Children(expr) {
		writeTree(b, child, depth+1)
	}
}
