// File: report.go
// Title: Diagnostic Reporting
// Description: Defines the error sink used by the scanner and parser and an
//              Accumulator implementation that records diagnostics, prints
//              them in the classic "[line N] Error at 'x': msg" form and
//              tracks whether a syntax or runtime error occurred.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-16
// Modified: 2026-10-16
//
// Change History:
// - 2026-10-16 v0.1.0: Initial implementation

package report

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/msto63/glox/foundation/lox/token"
)

// Reporter receives diagnostics from the front end
type Reporter interface {
	// Error reports a problem located only by line, e.g. an unterminated string
	Error(line int, message string)

	// ErrorAt reports a problem at a specific token
	ErrorAt(tok token.Token, message string)
}

// Diagnostic is a single reported problem
type Diagnostic struct {
	Line    int    `json:"line"`
	Where   string `json:"where,omitempty"`
	Message string `json:"message"`
}

// String renders the diagnostic as "[line N] Error<where>: message"
func (d Diagnostic) String() string {
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

// Where returns the location suffix for an error reported at tok
func Where(tok token.Token) string {
	if tok.Kind == token.EOF {
		return " at end"
	}
	return " at '" + tok.Lexeme + "'"
}

// LineError is implemented by evaluation errors that carry a source line
type LineError interface {
	error
	Line() int
}

// Accumulator records diagnostics and error flags for one run.
// The zero value discards output; use NewAccumulator to print diagnostics.
type Accumulator struct {
	mu              sync.Mutex
	out             io.Writer
	diagnostics     []Diagnostic
	hadError        bool
	hadRuntimeError bool
	runtimeMessage  string
}

// NewAccumulator creates an accumulator that writes each diagnostic to out.
// A nil out only records.
func NewAccumulator(out io.Writer) *Accumulator {
	return &Accumulator{out: out}
}

// Error implements Reporter
func (a *Accumulator) Error(line int, message string) {
	a.add(Diagnostic{Line: line, Message: message})
}

// ErrorAt implements Reporter
func (a *Accumulator) ErrorAt(tok token.Token, message string) {
	a.add(Diagnostic{Line: tok.Line, Where: Where(tok), Message: message})
}

func (a *Accumulator) add(d Diagnostic) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.diagnostics = append(a.diagnostics, d)
	a.hadError = true
	if a.out != nil {
		fmt.Fprintln(a.out, d.String())
	}
}

// RuntimeError records an evaluation failure and prints it as
// "message\n[line N]". Errors without a line print the message alone.
func (a *Accumulator) RuntimeError(err error) {
	if err == nil {
		return
	}

	msg := err.Error()
	var le LineError
	if errors.As(err, &le) {
		msg = fmt.Sprintf("%s\n[line %d]", err.Error(), le.Line())
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.hadRuntimeError = true
	a.runtimeMessage = msg
	if a.out != nil {
		fmt.Fprintln(a.out, msg)
	}
}

// HadError reports whether any syntax diagnostic was recorded since the last Reset
func (a *Accumulator) HadError() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hadError
}

// HadRuntimeError reports whether a runtime error was recorded since the last Reset
func (a *Accumulator) HadRuntimeError() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hadRuntimeError
}

// RuntimeMessage returns the formatted text of the last runtime error
func (a *Accumulator) RuntimeMessage() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.runtimeMessage
}

// Diagnostics returns a copy of the recorded diagnostics in report order
func (a *Accumulator) Diagnostics() []Diagnostic {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]Diagnostic, len(a.diagnostics))
	copy(out, a.diagnostics)
	return out
}

// Reset clears diagnostics and both error flags. The interactive prompt
// calls it before every line.
func (a *Accumulator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.diagnostics = nil
	a.hadError = false
	a.hadRuntimeError = false
	a.runtimeMessage = ""
}

// Discard is a Reporter that drops everything
var Discard Reporter = discard{}

type discard struct{}

func (discard) Error(int, string)           {}
func (discard) ErrorAt(token.Token, string) {}
