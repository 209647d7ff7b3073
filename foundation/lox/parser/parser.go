// File: parser.go
// Title: Lox Expression Parser
// Description: Recursive descent parser with one function per precedence
//              level. Failures are returned as errors through every level
//              instead of unwinding the stack; the first syntax error aborts
//              the parse after being reported to the Reporter.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-16
// Modified: 2026-10-16
//
// Change History:
// - 2026-10-16 v0.1.0: Initial implementation
// - 2026-10-16 v0.1.1: Nesting limit for groupings and unary operators

package parser

import (
	"errors"
	"fmt"

	mdwlog "github.com/msto63/glox/foundation/core/log"
	"github.com/msto63/glox/foundation/lox/ast"
	"github.com/msto63/glox/foundation/lox/report"
	"github.com/msto63/glox/foundation/lox/token"
)

// ErrSyntax matches every error returned by Parse
var ErrSyntax = errors.New("syntax error")

// Error describes the syntax error that aborted a parse
type Error struct {
	Token   token.Token
	Message string
}

// Error renders the error in diagnostic form
func (e *Error) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", e.Token.Line, report.Where(e.Token), e.Message)
}

// Unwrap makes errors.Is(err, ErrSyntax) hold
func (e *Error) Unwrap() error {
	return ErrSyntax
}

// DefaultMaxDepth limits nested groupings and unary operators
const DefaultMaxDepth = 255

// Option configures a Parser
type Option func(*Parser)

// WithLogger sets the logger used for debug output
func WithLogger(logger *mdwlog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMaxDepth sets the nesting limit; values below 1 keep the default
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

// Parser turns a token slice into an expression tree
type Parser struct {
	tokens   []token.Token
	current  int
	depth    int
	maxDepth int
	reporter report.Reporter
	logger   *mdwlog.Logger
}

// New creates a parser over tokens. An EOF token is appended when the slice
// does not already end with one; the caller's slice is never modified.
// A nil reporter discards diagnostics.
func New(tokens []token.Token, reporter report.Reporter, opts ...Option) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens[:len(tokens):len(tokens)], token.New(token.EOF, "", nil, line))
	}
	if reporter == nil {
		reporter = report.Discard
	}

	p := &Parser{
		tokens:   tokens,
		maxDepth: DefaultMaxDepth,
		reporter: reporter,
		logger:   mdwlog.GetDefault(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.WithField("component", "lox-parser")

	return p
}

// Parse parses a single expression starting at the current position.
// On failure it returns nil and an error wrapping ErrSyntax; the
// diagnostic has already been reported. Tokens after the expression are
// left unconsumed.
func (p *Parser) Parse() (ast.Expr, error) {
	p.logger.Debug("Starting expression parse", mdwlog.Fields{
		"tokens":   len(p.tokens),
		"position": p.current,
	})

	expr, err := p.expression()
	if err != nil {
		p.logger.Info("Expression parse failed", mdwlog.Fields{
			"error": err.Error(),
		})
		return nil, err
	}

	p.logger.Debug("Expression parse completed", mdwlog.Fields{
		"kind":     expr.Kind().String(),
		"position": p.current,
	})
	return expr, nil
}

// AtEnd reports whether only the EOF token remains
func (p *Parser) AtEnd() bool {
	return p.isAtEnd()
}

// Peek returns the token at the current position
func (p *Parser) Peek() token.Token {
	return p.peek()
}

// Synchronize discards tokens until a likely statement boundary: just past
// a semicolon, in front of a statement keyword, or at EOF. It always
// consumes the current token first.
func (p *Parser) Synchronize() {
	p.advance()

	for !p.isAtEnd() {
		if p.previous().Kind == token.Semicolon {
			return
		}
		if p.peek().Kind.StartsStatement() {
			return
		}
		p.advance()
	}
}

// expression → equality
func (p *Parser) expression() (ast.Expr, error) {
	return p.equality()
}

// equality → comparison ( ( "!=" | "==" ) comparison )*
func (p *Parser) equality() (ast.Expr, error) {
	return p.leftAssociative(p.comparison, token.BangEqual, token.EqualEqual)
}

// comparison → term ( ( ">" | ">=" | "<" | "<=" ) term )*
func (p *Parser) comparison() (ast.Expr, error) {
	return p.leftAssociative(p.term, token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
}

// term → factor ( ( "-" | "+" ) factor )*
func (p *Parser) term() (ast.Expr, error) {
	return p.leftAssociative(p.factor, token.Minus, token.Plus)
}

// factor → unary ( ( "/" | "*" ) unary )*
func (p *Parser) factor() (ast.Expr, error) {
	return p.leftAssociative(p.unary, token.Slash, token.Star)
}

// leftAssociative parses operand ( op operand )* for the given operators
// and folds the operands to the left.
func (p *Parser) leftAssociative(operand func() (ast.Expr, error), operators ...token.Kind) (ast.Expr, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}

	for p.match(operators...) {
		operator := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}

	return expr, nil
}

// unary → ( "!" | "-" ) unary | primary
func (p *Parser) unary() (ast.Expr, error) {
	if p.match(token.Bang, token.Minus) {
		operator := p.previous()
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()

		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Operator: operator, Right: right}, nil
	}

	return p.primary()
}

// primary → NUMBER | STRING | "true" | "false" | "nil" | "(" expression ")"
func (p *Parser) primary() (ast.Expr, error) {
	switch {
	case p.match(token.False):
		return &ast.Literal{Value: false}, nil
	case p.match(token.True):
		return &ast.Literal{Value: true}, nil
	case p.match(token.Nil):
		return &ast.Literal{Value: nil}, nil
	case p.match(token.Number, token.String):
		return &ast.Literal{Value: p.previous().Literal}, nil
	case p.match(token.LeftParen):
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()

		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RightParen, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return &ast.Grouping{Expression: expr}, nil
	}

	return nil, p.error(p.peek(), "Expect expression.")
}

// enter counts one nesting level and fails once the limit is passed
func (p *Parser) enter() error {
	if p.depth >= p.maxDepth {
		return p.error(p.peek(), "Too much nesting.")
	}
	p.depth++
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind token.Kind, message string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token.Token{}, p.error(p.peek(), message)
}

func (p *Parser) check(kind token.Kind) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Kind == kind
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

// previous is only valid after at least one advance
func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) error(tok token.Token, message string) error {
	p.reporter.ErrorAt(tok, message)
	return &Error{Token: tok, Message: message}
}
