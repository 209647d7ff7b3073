// File: interpreter.go
// Title: Expression Evaluator
// Description: Tree-walking evaluator for Lox expressions. Numbers are
//              float64, strings are Go strings, nil is Go nil. Type errors
//              are returned as *RuntimeError carrying the offending token.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-16
// Modified: 2026-10-16
//
// Change History:
// - 2026-10-16 v0.1.0: Initial implementation

package interpreter

import (
	"strconv"

	mdwlog "github.com/msto63/glox/foundation/core/log"
	"github.com/msto63/glox/foundation/lox/ast"
	"github.com/msto63/glox/foundation/lox/token"
)

// RuntimeError is an evaluation failure at a specific token
type RuntimeError struct {
	Token   token.Token
	Message string
}

// Error returns the message
func (e *RuntimeError) Error() string {
	return e.Message
}

// Line returns the source line of the offending token
func (e *RuntimeError) Line() int {
	return e.Token.Line
}

// Option configures an Interpreter
type Option func(*Interpreter)

// WithLogger sets the logger used for debug output
func WithLogger(logger *mdwlog.Logger) Option {
	return func(i *Interpreter) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// Interpreter evaluates expression trees
type Interpreter struct {
	logger *mdwlog.Logger
}

// New creates an interpreter
func New(opts ...Option) *Interpreter {
	i := &Interpreter{logger: mdwlog.GetDefault()}
	for _, opt := range opts {
		opt(i)
	}
	i.logger = i.logger.WithField("component", "lox-interpreter")
	return i
}

// outcome is the visitor result: a value or the error that stopped evaluation
type outcome struct {
	value any
	err   error
}

func ok(v any) outcome { return outcome{value: v} }

func fail(tok token.Token, message string) outcome {
	return outcome{err: &RuntimeError{Token: tok, Message: message}}
}

// Evaluate computes the value of expr
func (i *Interpreter) Evaluate(expr ast.Expr) (any, error) {
	r := ast.Accept[outcome](expr, i)
	if r.err != nil {
		i.logger.Debug("Evaluation failed", mdwlog.Fields{"error": r.err.Error()})
		return nil, r.err
	}
	return r.value, nil
}

func (i *Interpreter) eval(expr ast.Expr) outcome {
	return ast.Accept[outcome](expr, i)
}

func (i *Interpreter) VisitLiteralExpr(expr *ast.Literal) outcome {
	return ok(expr.Value)
}

func (i *Interpreter) VisitGroupingExpr(expr *ast.Grouping) outcome {
	return i.eval(expr.Expression)
}

func (i *Interpreter) VisitUnaryExpr(expr *ast.Unary) outcome {
	right := i.eval(expr.Right)
	if right.err != nil {
		return right
	}

	switch expr.Operator.Kind {
	case token.Minus:
		n, isNum := right.value.(float64)
		if !isNum {
			return fail(expr.Operator, "Operand must be a number.")
		}
		return ok(-n)
	case token.Bang:
		return ok(!IsTruthy(right.value))
	}

	return fail(expr.Operator, "Unknown unary operator.")
}

func (i *Interpreter) VisitBinaryExpr(expr *ast.Binary) outcome {
	left := i.eval(expr.Left)
	if left.err != nil {
		return left
	}
	right := i.eval(expr.Right)
	if right.err != nil {
		return right
	}

	op := expr.Operator
	switch op.Kind {
	case token.EqualEqual:
		return ok(IsEqual(left.value, right.value))
	case token.BangEqual:
		return ok(!IsEqual(left.value, right.value))
	case token.Plus:
		if a, b, isNum := numbers(left.value, right.value); isNum {
			return ok(a + b)
		}
		if a, isStr := left.value.(string); isStr {
			if b, isStr := right.value.(string); isStr {
				return ok(a + b)
			}
		}
		return fail(op, "Operands must be two numbers or two strings.")
	}

	a, b, isNum := numbers(left.value, right.value)
	if !isNum {
		return fail(op, "Operands must be numbers.")
	}

	switch op.Kind {
	case token.Minus:
		return ok(a - b)
	case token.Star:
		return ok(a * b)
	case token.Slash:
		if b == 0 {
			return fail(op, "Division by zero.")
		}
		return ok(a / b)
	case token.Greater:
		return ok(a > b)
	case token.GreaterEqual:
		return ok(a >= b)
	case token.Less:
		return ok(a < b)
	case token.LessEqual:
		return ok(a <= b)
	}

	return fail(op, "Unknown binary operator.")
}

func (i *Interpreter) VisitVariableExpr(expr *ast.Variable) outcome {
	return fail(expr.Name, "Variables are not supported yet.")
}

func (i *Interpreter) VisitAssignExpr(expr *ast.Assign) outcome {
	return fail(expr.Name, "Variables are not supported yet.")
}

func numbers(a, b any) (float64, float64, bool) {
	x, okA := a.(float64)
	y, okB := b.(float64)
	return x, y, okA && okB
}

// IsTruthy reports Lox truthiness: nil and false are falsey, all else truthy
func IsTruthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	default:
		return true
	}
}

// IsEqual compares two Lox values; nil equals only nil and values of
// different types are never equal.
func IsEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a == b
}

// Stringify renders a value the way print would: integral numbers without
// a fractional part, nil as "nil".
func Stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case float64:
		return token.FormatNumber(v)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return v
	default:
		return "<unknown>"
	}
}
