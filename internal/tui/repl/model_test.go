// ============================================================================
// glox - Lox expression front end
// ============================================================================
//
// Package:     repl
// Description: Tests for the interactive REPL model
// Author:      msto63
// Created:     2026-10-16
// License:     MIT
// ============================================================================

package repl

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/msto63/glox/internal/history"
)

func typeLine(t *testing.T, m Model, line string) (Model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(line)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(Model), cmd
}

// submit enters line and feeds the evaluation result back into the model
func submit(t *testing.T, m Model, line string) Model {
	t.Helper()
	m, cmd := typeLine(t, m, line)
	if cmd == nil {
		t.Fatalf("Enter on %q returned no command", line)
	}
	updated, _ := m.Update(cmd())
	return updated.(Model)
}

func sized(m Model) Model {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

func TestModel_Evaluate(t *testing.T) {
	m := sized(New(DefaultConfig()))

	m = submit(t, m, "(1 + 2) * 3")
	m = submit(t, m, `"a" + "b"`)

	evals := m.Evaluations()
	if len(evals) != 2 {
		t.Fatalf("len(Evaluations()) = %d, want 2", len(evals))
	}
	if evals[0].Value != "9" || evals[0].Failed() {
		t.Errorf("first evaluation = %+v", evals[0])
	}
	if evals[1].Value != "ab" {
		t.Errorf("second value = %q, want ab", evals[1].Value)
	}
	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}
}

func TestModel_ErrorDoesNotCarryOver(t *testing.T) {
	m := sized(New(DefaultConfig()))

	m = submit(t, m, "(1 +")
	m = submit(t, m, "1 / 0")
	m = submit(t, m, "nil == nil")

	evals := m.Evaluations()
	if evals[0].ExitCode != 65 || len(evals[0].Diagnostics) != 1 {
		t.Errorf("syntax line = %+v", evals[0])
	}
	if evals[1].ExitCode != 70 || !strings.HasPrefix(evals[1].Runtime, "Division by zero.") {
		t.Errorf("runtime line = %+v", evals[1])
	}
	if evals[2].Failed() || evals[2].Value != "true" || len(evals[2].Diagnostics) != 0 {
		t.Errorf("clean line after errors = %+v", evals[2])
	}
}

func TestModel_BlankLineIgnored(t *testing.T) {
	m := New(DefaultConfig())
	m, cmd := typeLine(t, m, "   ")
	if cmd != nil {
		t.Error("blank line should not be evaluated")
	}
	if m.busy {
		t.Error("model should not be busy after blank line")
	}
}

func TestModel_HistoryPersistedAndNavigable(t *testing.T) {
	store := history.NewMemoryStore()
	store.Append(context.Background(), &history.Entry{Source: "old"})

	cfg := DefaultConfig()
	cfg.History = store
	m := New(cfg)

	updated, _ := m.Update(m.loadHistory())
	m = sized(updated.(Model))

	m = submit(t, m, "1 + 1")

	n, _ := store.Count(context.Background())
	if n != 2 {
		t.Errorf("store.Count() = %d, want 2", n)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = updated.(Model)
	if got := m.input.Value(); got != "1 + 1" {
		t.Errorf("after Up input = %q, want 1 + 1", got)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = updated.(Model)
	if got := m.input.Value(); got != "old" {
		t.Errorf("after Up Up input = %q, want old", got)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	updated, _ = updated.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)
	if got := m.input.Value(); got != "" {
		t.Errorf("after returning to the new line input = %q, want empty", got)
	}
}

func TestModel_ToggleASTAndClear(t *testing.T) {
	m := sized(New(DefaultConfig()))
	m = submit(t, m, "-1")

	if strings.Contains(m.transcript(), "(- 1)") {
		t.Error("AST should be hidden by default")
	}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	m = updated.(Model)
	if !strings.Contains(m.transcript(), "(- 1)") {
		t.Errorf("transcript should show the AST, got %q", m.transcript())
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m = updated.(Model)
	if len(m.Evaluations()) != 0 {
		t.Error("Ctrl+L should clear the transcript")
	}
}

func TestModel_QuitKeys(t *testing.T) {
	m := New(DefaultConfig())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("Ctrl+C should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Ctrl+C should quit")
	}
}

func TestModel_View(t *testing.T) {
	m := New(DefaultConfig())
	if m.View() != "Starte glox..." {
		t.Errorf("View() before size = %q", m.View())
	}

	m = sized(m)
	m = submit(t, m, "2 * 21")
	view := m.View()
	for _, want := range []string{Logo, "42", "Session"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestNew_Prompt(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   string
	}{
		{"custom", "lox> ", "lox> "},
		{"empty", "", "> "},
		{"blank", "   ", "> "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Prompt = tt.prompt
			if got := New(cfg).input.Prompt; got != tt.want {
				t.Errorf("Prompt = %q, want %q", got, tt.want)
			}
		})
	}
}
