// File: parser_test.go
// Title: Lox Parser Unit Tests
// Description: Precedence, associativity, grouping, syntax error reporting,
//              nesting limits and synchronization of the expression parser.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-16
// Modified: 2026-10-16
//
// Change History:
// - 2026-10-16 v0.1.0: Initial test suite

package parser

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	mdwlog "github.com/msto63/glox/foundation/core/log"
	"github.com/msto63/glox/foundation/lox/ast"
	"github.com/msto63/glox/foundation/lox/printer"
	"github.com/msto63/glox/foundation/lox/report"
	"github.com/msto63/glox/foundation/lox/scanner"
	"github.com/msto63/glox/foundation/lox/token"
)

func parse(t *testing.T, src string) (ast.Expr, *report.Accumulator, error) {
	t.Helper()
	acc := report.NewAccumulator(nil)
	tokens := scanner.New(src, acc).ScanTokens()
	if acc.HadError() {
		t.Fatalf("scan errors for %q: %v", src, acc.Diagnostics())
	}
	expr, err := New(tokens, acc, WithLogger(mdwlog.Discard())).Parse()
	return expr, acc, err
}

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"precedence", "1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"left associative minus", "1 - 2 - 3", "(- (- 1 2) 3)"},
		{"left associative division", "8 / 4 / 2", "(/ (/ 8 4) 2)"},
		{"grouping retained", "(1 + 2) * 3", "(* (group (+ 1 2)) 3)"},
		{"unary chain", "- - 5", "(- (- 5))"},
		{"not chain", "!!true", "(! (! true))"},
		{"book example", "-123 * (45.67)", "(* (- 123) (group 45.67))"},
		{"comparison below term", "1 + 2 < 4", "(< (+ 1 2) 4)"},
		{"equality lowest", "1 < 2 == true", "(== (< 1 2) true)"},
		{"equality chain", "1 == 2 != false", "(!= (== 1 2) false)"},
		{"literals", `"a" == nil`, "(== a nil)"},
		{"false", "false", "false"},
		{"nested groups", "((1))", "(group (group 1))"},
		{"all comparison ops", "1 > 2 >= 3 < 4 <= 5", "(<= (< (>= (> 1 2) 3) 4) 5)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, acc, err := parse(t, tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if acc.HadError() {
				t.Errorf("unexpected diagnostics: %v", acc.Diagnostics())
			}
			if got := printer.Print(expr); got != tt.expected {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParse_TreeShape(t *testing.T) {
	expr, _, err := parse(t, "1 + 2 * 3")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	root, ok := expr.(*ast.Binary)
	if !ok || root.Operator.Kind != token.Plus {
		t.Fatalf("root = %v, want Binary(+)", expr)
	}
	if lit, ok := root.Left.(*ast.Literal); !ok || lit.Value != 1.0 {
		t.Errorf("left = %v, want Literal(1)", root.Left)
	}
	right, ok := root.Right.(*ast.Binary)
	if !ok || right.Operator.Kind != token.Star {
		t.Fatalf("right = %v, want Binary(*)", root.Right)
	}

	grouped, _, _ := parse(t, "(1 + 2) * 3")
	g := grouped.(*ast.Binary)
	if _, ok := g.Left.(*ast.Grouping); !ok {
		t.Errorf("left = %v, want Grouping", g.Left)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		diagnostic string
	}{
		{"unclosed group", "(1 + 2", "[line 1] Error at end: Expect ')' after expression."},
		{"missing operand", "+", "[line 1] Error at '+': Expect expression."},
		{"empty input", "", "[line 1] Error at end: Expect expression."},
		{"dangling operator", "1 *", "[line 1] Error at end: Expect expression."},
		{"wrong closer", "(1 2)", "[line 1] Error at '2': Expect ')' after expression."},
		{"identifier not primary", "a + 1", "[line 1] Error at 'a': Expect expression."},
		{"error on later line", "1 +\n\n)", "[line 3] Error at ')': Expect expression."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, acc, err := parse(t, tt.input)

			if expr != nil {
				t.Errorf("Parse(%q) returned tree %s, want nil", tt.input, printer.Print(expr))
			}
			if !errors.Is(err, ErrSyntax) {
				t.Fatalf("Parse(%q) error = %v, want ErrSyntax", tt.input, err)
			}

			diags := acc.Diagnostics()
			if len(diags) != 1 {
				t.Fatalf("got %d diagnostics, want exactly 1: %v", len(diags), diags)
			}
			if diags[0].String() != tt.diagnostic {
				t.Errorf("diagnostic = %q, want %q", diags[0].String(), tt.diagnostic)
			}
			if err.Error() != tt.diagnostic {
				t.Errorf("err.Error() = %q, want %q", err.Error(), tt.diagnostic)
			}
		})
	}
}

func TestParse_ErrorDetails(t *testing.T) {
	_, _, err := parse(t, "(1")

	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("error %T is not *Error", err)
	}
	if perr.Token.Kind != token.EOF {
		t.Errorf("error token = %v, want EOF", perr.Token)
	}
	if perr.Message != "Expect ')' after expression." {
		t.Errorf("message = %q", perr.Message)
	}
}

func TestParse_PrintsToSink(t *testing.T) {
	var buf bytes.Buffer
	acc := report.NewAccumulator(&buf)
	tokens := scanner.New("(1", acc).ScanTokens()

	if _, err := New(tokens, acc, WithLogger(mdwlog.Discard())).Parse(); err == nil {
		t.Fatal("expected error")
	}
	if got := buf.String(); got != "[line 1] Error at end: Expect ')' after expression.\n" {
		t.Errorf("sink output = %q", got)
	}
}

func TestParse_TrailingTokensLeftUnconsumed(t *testing.T) {
	acc := report.NewAccumulator(nil)
	tokens := scanner.New("1 2", acc).ScanTokens()
	p := New(tokens, acc, WithLogger(mdwlog.Discard()))

	expr, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if printer.Print(expr) != "1" {
		t.Errorf("Parse() = %s, want 1", printer.Print(expr))
	}
	if p.AtEnd() {
		t.Error("AtEnd() = true, want false with a trailing token")
	}
	if p.Peek().Lexeme != "2" {
		t.Errorf("Peek() = %v, want the trailing number", p.Peek())
	}
}

func TestNew_AppendsEOF(t *testing.T) {
	tokens := []token.Token{
		token.New(token.Number, "1", 1.0, 4),
		token.New(token.Plus, "+", nil, 4),
	}
	original := append([]token.Token(nil), tokens...)

	acc := report.NewAccumulator(nil)
	_, err := New(tokens, acc, WithLogger(mdwlog.Discard())).Parse()

	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("error = %v, want ErrSyntax", err)
	}
	if got := acc.Diagnostics()[0].String(); got != "[line 4] Error at end: Expect expression." {
		t.Errorf("diagnostic = %q", got)
	}
	if len(tokens) != len(original) {
		t.Error("caller's token slice was modified")
	}
}

func TestNew_EmptySlice(t *testing.T) {
	p := New(nil, nil, WithLogger(mdwlog.Discard()))
	if !p.AtEnd() {
		t.Error("parser over no tokens should be at end")
	}
	if _, err := p.Parse(); !errors.Is(err, ErrSyntax) {
		t.Errorf("Parse() error = %v, want ErrSyntax", err)
	}
}

func TestParse_DoesNotMutateTokens(t *testing.T) {
	tokens := scanner.New("-(1 + 2)", nil).ScanTokens()
	snapshot := append([]token.Token(nil), tokens...)

	New(tokens, nil, WithLogger(mdwlog.Discard())).Parse()

	for i := range tokens {
		if tokens[i] != snapshot[i] {
			t.Errorf("token %d changed from %v to %v", i, snapshot[i], tokens[i])
		}
	}
}

func TestParse_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := mdwlog.NewWithConfig(mdwlog.Config{Level: mdwlog.LevelDebug, Format: mdwlog.FormatText, Output: &buf})

	tokens := scanner.New("(", nil).ScanTokens()
	New(tokens, nil, WithLogger(logger)).Parse()

	out := buf.String()
	if !strings.Contains(out, "component=lox-parser") {
		t.Errorf("expected component field in log output: %q", out)
	}
	if !strings.Contains(out, "Expression parse failed") {
		t.Errorf("expected failure entry in log output: %q", out)
	}
}

func TestSynchronize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string // lexeme of the token the parser stops at
	}{
		{"past semicolon", "1 + ; 2", "2"},
		{"before keyword", "1 + var x", "var"},
		{"each statement keyword", ") ) return 1", "return"},
		{"runs to EOF", "1 2 3", ""},
		{"keyword immediately after", "+ print", "print"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := scanner.New(tt.input, nil).ScanTokens()
			p := New(tokens, nil, WithLogger(mdwlog.Discard()))

			p.Synchronize()

			if got := p.Peek().Lexeme; got != tt.expected {
				t.Errorf("stopped at %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSynchronize_StatementKeywords(t *testing.T) {
	for _, kw := range []string{"class", "fun", "var", "for", "if", "while", "print", "return"} {
		tokens := scanner.New("1 2 "+kw+" 3", nil).ScanTokens()
		p := New(tokens, nil, WithLogger(mdwlog.Discard()))
		p.Synchronize()
		if got := p.Peek().Lexeme; got != kw {
			t.Errorf("Synchronize stopped at %q, want %q", got, kw)
		}
	}
}

func TestSynchronize_AtEOF(t *testing.T) {
	p := New(nil, nil, WithLogger(mdwlog.Discard()))
	p.Synchronize()
	if !p.AtEnd() {
		t.Error("Synchronize at EOF should stay at EOF")
	}
}

func TestSynchronize_ThenParse(t *testing.T) {
	acc := report.NewAccumulator(nil)
	tokens := scanner.New("+ ; 1 + 2", acc).ScanTokens()
	p := New(tokens, acc, WithLogger(mdwlog.Discard()))

	if _, err := p.Parse(); err == nil {
		t.Fatal("expected first parse to fail")
	}
	p.Synchronize()

	expr, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse() after Synchronize error = %v", err)
	}
	if got := printer.Print(expr); got != "(+ 1 2)" {
		t.Errorf("Parse() = %s, want (+ 1 2)", got)
	}
}

func TestParse_NestingLimit(t *testing.T) {
	nested := func(open string, n int) string {
		closer := ""
		if open == "(" {
			closer = strings.Repeat(")", n)
		}
		return strings.Repeat(open, n) + "1" + closer
	}

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"groups at limit", nested("(", DefaultMaxDepth), false},
		{"groups past limit", nested("(", DefaultMaxDepth+1), true},
		{"unary at limit", nested("-", DefaultMaxDepth), false},
		{"unary past limit", nested("-", DefaultMaxDepth+1), true},
		{"mixed past limit", nested("-(", DefaultMaxDepth/2+1), true},
		{"far past limit", nested("(", 200000), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, acc, err := parse(t, tt.input)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Parse() error = %v", err)
				}
				if got := ast.Depth(expr); got != DefaultMaxDepth+1 {
					t.Errorf("Depth() = %d, want %d", got, DefaultMaxDepth+1)
				}
				return
			}

			if expr != nil || !errors.Is(err, ErrSyntax) {
				t.Fatalf("Parse() = %v, %v; want nil, ErrSyntax", expr, err)
			}
			diags := acc.Diagnostics()
			if len(diags) != 1 {
				t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
			}
			if diags[0].Message != "Too much nesting." {
				t.Errorf("message = %q, want %q", diags[0].Message, "Too much nesting.")
			}
		})
	}
}

func TestWithMaxDepth(t *testing.T) {
	acc := report.NewAccumulator(nil)
	tokens := scanner.New("((1)) + ((2))", acc).ScanTokens()

	if _, err := New(tokens, acc, WithMaxDepth(2), WithLogger(mdwlog.Discard())).Parse(); err != nil {
		t.Errorf("sibling groups within limit: error = %v", err)
	}

	_, err := New(tokens, acc, WithMaxDepth(1), WithLogger(mdwlog.Discard())).Parse()
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("error = %v, want ErrSyntax", err)
	}
	if got := err.Error(); got != "[line 1] Error at '1': Too much nesting." {
		t.Errorf("err.Error() = %q", got)
	}
}
