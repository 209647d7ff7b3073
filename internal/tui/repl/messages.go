// ============================================================================
// glox - Lox expression front end
// ============================================================================
//
// Package:     repl
// Description: Message types for async operations in the REPL
// Author:      msto63
// Created:     2026-10-16
// License:     MIT
// ============================================================================

package repl

import (
	"time"
)

// Evaluation is one line of the transcript
type Evaluation struct {
	Source      string
	Value       string
	AST         string
	Diagnostics []string
	Runtime     string
	ExitCode    int
	Duration    time.Duration
	Timestamp   time.Time
}

// Failed reports whether the line produced an error
func (e Evaluation) Failed() bool {
	return e.ExitCode != 0
}

// Message types for tea.Cmd async operations

// evalResultMsg is sent when a line has been evaluated
type evalResultMsg struct {
	eval Evaluation
	err  error // history write failure; the evaluation itself is still valid
}

// historyLoadedMsg is sent once stored input history is available
type historyLoadedMsg struct {
	sources []string
	err     error
}
