// File: lox.go
// Title: Lox Front End Engine
// Description: High-level API tying scanner, parser, printer and evaluator
//              together. A Session owns one diagnostic accumulator and is
//              the unit of isolation: one per script run, interactive
//              prompt or server connection.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-16
// Modified: 2026-10-16
//
// Change History:
// - 2026-10-16 v0.1.0: Initial implementation
// - 2026-10-16 v0.1.1: Nesting and tree depth limits, AllowTrailingTokens

package lox

import (
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	mdwerror "github.com/msto63/glox/foundation/core/error"
	mdwlog "github.com/msto63/glox/foundation/core/log"
	"github.com/msto63/glox/foundation/lox/ast"
	"github.com/msto63/glox/foundation/lox/interpreter"
	"github.com/msto63/glox/foundation/lox/parser"
	"github.com/msto63/glox/foundation/lox/printer"
	"github.com/msto63/glox/foundation/lox/report"
	"github.com/msto63/glox/foundation/lox/scanner"
	"github.com/msto63/glox/foundation/lox/token"
	mdwstringx "github.com/msto63/glox/foundation/utils/stringx"
)

// Exit codes of the command line driver
const (
	ExitOK      = 0
	ExitUsage   = 64
	ExitSyntax  = 65
	ExitRuntime = 70
	ExitIO      = 74
)

// DefaultMaxSourceLength limits accepted source size in bytes
const DefaultMaxSourceLength = 1024 * 1024

// DefaultMaxTreeDepth limits the height of a parsed expression tree
const DefaultMaxTreeDepth = 10000

// Options configures the engine
type Options struct {
	// Logger for engine operations (optional, defaults to the default logger)
	Logger *mdwlog.Logger

	// MaxSourceLength rejects longer sources before scanning (default: 1 MiB)
	MaxSourceLength int

	// MaxNesting limits nested groupings and unary operators
	// (default: parser.DefaultMaxDepth)
	MaxNesting int

	// MaxTreeDepth rejects deeper expression trees, such as very long
	// operator chains (default: DefaultMaxTreeDepth)
	MaxTreeDepth int

	// AllowTrailingTokens accepts tokens left after the expression instead
	// of reporting them as a syntax error
	AllowTrailingTokens bool
}

// Engine coordinates the front end stages
type Engine struct {
	logger  *mdwlog.Logger
	options Options
}

// NewEngine creates an engine. Zero-valued options take their defaults.
func NewEngine(opts ...Options) *Engine {
	options := Options{
		Logger:          mdwlog.GetDefault(),
		MaxSourceLength: DefaultMaxSourceLength,
		MaxNesting:      parser.DefaultMaxDepth,
		MaxTreeDepth:    DefaultMaxTreeDepth,
	}

	if len(opts) > 0 {
		provided := opts[0]
		if provided.Logger != nil {
			options.Logger = provided.Logger
		}
		if provided.MaxSourceLength > 0 {
			options.MaxSourceLength = provided.MaxSourceLength
		}
		if provided.MaxNesting > 0 {
			options.MaxNesting = provided.MaxNesting
		}
		if provided.MaxTreeDepth > 0 {
			options.MaxTreeDepth = provided.MaxTreeDepth
		}
		options.AllowTrailingTokens = provided.AllowTrailingTokens
	}

	return &Engine{
		logger:  options.Logger.WithField("component", "lox-engine"),
		options: options,
	}
}

// Result describes one evaluated source
type Result struct {
	Source      string              `json:"source"`
	Expr        ast.Expr            `json:"-"`
	AST         string              `json:"ast,omitempty"`
	Value       any                 `json:"-"`
	Output      string              `json:"output,omitempty"`
	Diagnostics []report.Diagnostic `json:"diagnostics,omitempty"`
	Runtime     string              `json:"runtime_error,omitempty"`
	ExitCode    int                 `json:"exit_code"`
	Duration    time.Duration       `json:"duration"`
	Err         error               `json:"-"`
}

// OK reports whether the source evaluated without any error
func (r *Result) OK() bool {
	return r.ExitCode == ExitOK
}

// Session runs sources against one diagnostic accumulator
type Session struct {
	id     string
	engine *Engine
	acc    *report.Accumulator
	interp *interpreter.Interpreter
	logger *mdwlog.Logger
}

// NewSession creates a session writing diagnostics to out (nil records only)
func (e *Engine) NewSession(out io.Writer) *Session {
	id := uuid.New().String()
	logger := e.logger.WithCorrelationID(id)
	return &Session{
		id:     id,
		engine: e,
		acc:    report.NewAccumulator(out),
		interp: interpreter.New(interpreter.WithLogger(logger)),
		logger: logger,
	}
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Reporter returns the session's accumulator
func (s *Session) Reporter() *report.Accumulator {
	return s.acc
}

// Reset clears diagnostics and error flags before the next input
func (s *Session) Reset() {
	s.acc.Reset()
}

func (e *Engine) validate(src string) error {
	if len(src) > e.options.MaxSourceLength {
		return mdwerror.New("source exceeds maximum length").
			WithCode(mdwerror.CodeInvalidLength).
			WithOperation("lox.validate").
			WithDetail("length", len(src)).
			WithDetail("max", e.options.MaxSourceLength)
	}
	return nil
}

// Tokens scans src. Lexical errors are reported and a syntax error is
// returned alongside the tokens that were produced.
func (s *Session) Tokens(src string) ([]token.Token, error) {
	if err := s.engine.validate(src); err != nil {
		return nil, err
	}

	tokens := scanner.New(src, s.acc).ScanTokens()
	if s.acc.HadError() {
		return tokens, mdwerror.New("scan failed").WithCode(mdwerror.CodeLoxSyntax).WithOperation("lox.Tokens")
	}
	return tokens, nil
}

// Parse scans and parses src into an expression tree
func (s *Session) Parse(src string) (ast.Expr, error) {
	tokens, err := s.Tokens(src)
	if err != nil {
		return nil, err
	}

	p := parser.New(tokens, s.acc,
		parser.WithLogger(s.logger),
		parser.WithMaxDepth(s.engine.options.MaxNesting))
	expr, err := p.Parse()
	if err != nil {
		return nil, mdwerror.Wrap(err, "parse failed").WithCode(mdwerror.CodeLoxSyntax).WithOperation("lox.Parse")
	}

	if !s.engine.options.AllowTrailingTokens && !p.AtEnd() {
		s.acc.ErrorAt(p.Peek(), "Expect end of expression.")
		return nil, mdwerror.New("unexpected trailing tokens").WithCode(mdwerror.CodeLoxSyntax).WithOperation("lox.Parse")
	}

	depth := ast.Depth(expr)
	if depth > s.engine.options.MaxTreeDepth {
		s.acc.ErrorAt(p.Peek(), "Expression too deep.")
		return nil, mdwerror.New("expression tree too deep").
			WithCode(mdwerror.CodeLoxSyntax).
			WithOperation("lox.Parse").
			WithDetail("depth", depth).
			WithDetail("max", s.engine.options.MaxTreeDepth)
	}

	s.logger.Debug("Expression accepted", mdwlog.Fields{
		"depth": depth,
		"nodes": ast.Count(expr),
	})

	return expr, nil
}

// Run scans, parses and evaluates src
func (s *Session) Run(src string) *Result {
	timer := s.logger.StartTimer("lox_run")
	start := time.Now()

	result := &Result{Source: src}
	defer func() {
		result.Diagnostics = s.acc.Diagnostics()
		result.Duration = time.Since(start)
		fields := mdwlog.Fields{
			"source":    mdwstringx.Truncate(src, 60, "..."),
			"exit_code": result.ExitCode,
		}
		if result.Err != nil {
			fields["error"] = result.Err.Error()
		}
		timer.Stop(fields)
	}()

	expr, err := s.Parse(src)
	if err != nil {
		result.Err = err
		result.ExitCode = exitCode(err)
		return result
	}
	result.Expr = expr
	result.AST = printer.Print(expr)

	value, err := s.interp.Evaluate(expr)
	if err != nil {
		s.acc.RuntimeError(err)
		result.Err = mdwerror.Wrap(err, "evaluation failed").WithCode(mdwerror.CodeLoxRuntime).WithOperation("lox.Run")
		result.Runtime = s.acc.RuntimeMessage()
		result.ExitCode = ExitRuntime
		return result
	}

	result.Value = value
	result.Output = interpreter.Stringify(value)
	return result
}

func exitCode(err error) int {
	var e *mdwerror.Error
	if errors.As(err, &e) {
		return e.Code().ExitCode()
	}
	return ExitSyntax
}

// Run evaluates src in a fresh session that records diagnostics without printing
func (e *Engine) Run(src string) *Result {
	return e.NewSession(nil).Run(src)
}

// Parse parses src in a fresh session; diagnostics are written to out
func (e *Engine) Parse(src string, out io.Writer) (ast.Expr, error) {
	return e.NewSession(out).Parse(src)
}

// Tokens scans src in a fresh session; diagnostics are written to out
func (e *Engine) Tokens(src string, out io.Writer) ([]token.Token, error) {
	return e.NewSession(out).Tokens(src)
}
