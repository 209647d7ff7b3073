package handler

import (
	"errors"
	"math"

	mdwerror "github.com/msto63/glox/foundation/core/error"
	"github.com/msto63/glox/foundation/lox"
	"github.com/msto63/glox/foundation/lox/printer"
	"github.com/msto63/glox/foundation/lox/report"
	"github.com/msto63/glox/foundation/lox/token"
)

// SourceRequest carries Lox source for evaluation, parsing or scanning
type SourceRequest struct {
	Source string `json:"source"`
}

// EvalResponse is the result of evaluating an expression
type EvalResponse struct {
	Session     string              `json:"session,omitempty"`
	Value       string              `json:"value"`
	AST         string              `json:"ast"`
	ExitCode    int                 `json:"exit_code"`
	DurationMs  float64             `json:"duration_ms"`
	Diagnostics []report.Diagnostic `json:"diagnostics,omitempty"`
}

// ParseResponse is the printed form of a parsed expression
type ParseResponse struct {
	AST  string `json:"ast"`
	Tree string `json:"tree"`
}

// TokenInfo is the wire form of a scanned token
type TokenInfo struct {
	Kind    string `json:"kind"`
	Lexeme  string `json:"lexeme"`
	Literal any    `json:"literal,omitempty"`
	Line    int    `json:"line"`
}

// TokensResponse lists scanned tokens
type TokensResponse struct {
	Tokens []TokenInfo `json:"tokens"`
	Count  int         `json:"count"`
}

// ErrorResponse represents an error
type ErrorResponse struct {
	Error       string              `json:"error"`
	Code        string              `json:"code"`
	ExitCode    int                 `json:"exit_code,omitempty"`
	Diagnostics []report.Diagnostic `json:"diagnostics,omitempty"`
}

// Error codes sent to clients
const (
	CodeSyntaxError    = "syntax_error"
	CodeRuntimeError   = "runtime_error"
	CodeInvalidLength  = "invalid_length"
	CodeInvalidRequest = "invalid_request"
	CodeUnknownType    = "unknown_type"
	CodeInternal       = "internal_error"
)

func evalResponse(sessionID string, r *lox.Result) EvalResponse {
	return EvalResponse{
		Session:     sessionID,
		Value:       r.Output,
		AST:         r.AST,
		ExitCode:    r.ExitCode,
		DurationMs:  float64(r.Duration.Microseconds()) / 1000,
		Diagnostics: r.Diagnostics,
	}
}

func tokensResponse(tokens []token.Token) TokensResponse {
	infos := make([]TokenInfo, len(tokens))
	for i, t := range tokens {
		infos[i] = TokenInfo{
			Kind:    t.Kind.String(),
			Lexeme:  t.Lexeme,
			Literal: t.Literal,
			Line:    t.Line,
		}
		// JSON has no encoding for infinite numbers
		if f, ok := t.Literal.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
			infos[i].Literal = token.FormatNumber(f)
		}
	}
	return TokensResponse{Tokens: infos, Count: len(infos)}
}

// failure maps a front end error onto a client error response
func failure(err error, diagnostics []report.Diagnostic, runtimeMessage string) ErrorResponse {
	resp := ErrorResponse{
		Error:       err.Error(),
		Code:        CodeInternal,
		Diagnostics: diagnostics,
	}

	var e *mdwerror.Error
	if !errors.As(err, &e) {
		return resp
	}

	resp.ExitCode = e.Code().ExitCode()
	switch e.Code() {
	case mdwerror.CodeLoxSyntax:
		resp.Code = CodeSyntaxError
		resp.Error = "syntax error"
		if len(diagnostics) > 0 {
			resp.Error = diagnostics[0].String()
		}
	case mdwerror.CodeLoxRuntime:
		resp.Code = CodeRuntimeError
		if runtimeMessage != "" {
			resp.Error = runtimeMessage
		}
	case mdwerror.CodeInvalidLength:
		resp.Code = CodeInvalidLength
		resp.Error = e.Error()
	}
	return resp
}

func parseResponse(s *lox.Session, src string) (ParseResponse, *ErrorResponse) {
	expr, err := s.Parse(src)
	if err != nil {
		resp := failure(err, s.Reporter().Diagnostics(), "")
		return ParseResponse{}, &resp
	}
	return ParseResponse{AST: printer.Print(expr), Tree: printer.Tree(expr)}, nil
}

func scanResponse(s *lox.Session, src string) (TokensResponse, *ErrorResponse) {
	tokens, err := s.Tokens(src)
	if err != nil {
		resp := failure(err, s.Reporter().Diagnostics(), "")
		return TokensResponse{}, &resp
	}
	return tokensResponse(tokens), nil
}

func runResponse(s *lox.Session, src string) (EvalResponse, *ErrorResponse) {
	result := s.Run(src)
	if result.Err != nil {
		resp := failure(result.Err, result.Diagnostics, result.Runtime)
		return EvalResponse{}, &resp
	}
	return evalResponse(s.ID(), result), nil
}
