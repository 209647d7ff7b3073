// ============================================================================
// glox - Lox expression front end
// ============================================================================
//
// Package:     repl
// Description: Bubbletea model for the interactive expression REPL
// Author:      msto63
// Created:     2026-10-16
// License:     MIT
// ============================================================================

package repl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/glox/foundation/lox"
	mdwstringx "github.com/msto63/glox/foundation/utils/stringx"
	"github.com/msto63/glox/internal/history"
	"github.com/msto63/glox/pkg/core/version"
)

// Model is the Bubbletea model for the REPL
type Model struct {
	// State
	width   int
	height  int
	ready   bool
	busy    bool
	showAST bool
	err     error

	// Components
	input    textinput.Model
	viewport viewport.Model

	// Evaluation state
	session     *lox.Session
	evaluations []Evaluation
	store       history.Store
	limit       int

	// Input history
	inputHistory []string
	historyIndex int    // -1 while editing a new line
	currentInput string // line being edited before navigating history
}

// Config holds REPL configuration
type Config struct {
	Engine       *lox.Engine
	History      history.Store // nil disables persistence
	HistoryLimit int
	Prompt       string
	ShowAST      bool
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		HistoryLimit: 1000,
		Prompt:       "> ",
	}
}

// New creates a new REPL model
func New(cfg Config) Model {
	engine := cfg.Engine
	if engine == nil {
		engine = lox.NewEngine()
	}
	store := cfg.History
	if store == nil {
		store = history.NewMemoryStore()
	}
	limit := cfg.HistoryLimit
	if limit <= 0 {
		limit = DefaultConfig().HistoryLimit
	}
	prompt := mdwstringx.FirstNonBlank(cfg.Prompt, DefaultConfig().Prompt)

	ti := textinput.New()
	ti.Placeholder = "Ausdruck eingeben, z.B. (1 + 2) * 3"
	ti.Prompt = prompt
	ti.PromptStyle = PromptStyle
	ti.CharLimit = 8000
	ti.Focus()

	return Model{
		input:        ti,
		session:      engine.NewSession(nil),
		store:        store,
		limit:        limit,
		showAST:      cfg.ShowAST,
		historyIndex: -1,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.loadHistory,
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 2
		footerHeight := 7 // input + status bar + help
		viewportHeight := msg.Height - headerHeight - footerHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = viewportHeight
		}
		m.input.Width = msg.Width - 8
		m.updateViewportContent()
		return m, nil

	case historyLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.inputHistory = msg.sources
		return m, nil

	case evalResultMsg:
		m.busy = false
		m.err = msg.err
		m.evaluations = append(m.evaluations, msg.eval)
		m.updateViewportContent()
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyCtrlL:
		m.evaluations = nil
		m.updateViewportContent()
		return m, nil

	case tea.KeyCtrlT:
		m.showAST = !m.showAST
		m.updateViewportContent()
		return m, nil

	case tea.KeyPgUp:
		m.viewport.ViewUp()
		return m, nil

	case tea.KeyPgDown:
		m.viewport.ViewDown()
		return m, nil
	}

	if m.busy {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		source := strings.TrimSpace(m.input.Value())
		if source == "" {
			return m, nil
		}

		if len(m.inputHistory) == 0 || m.inputHistory[len(m.inputHistory)-1] != source {
			m.inputHistory = append(m.inputHistory, source)
			if len(m.inputHistory) > m.limit {
				m.inputHistory = m.inputHistory[len(m.inputHistory)-m.limit:]
			}
		}
		m.historyIndex = -1
		m.currentInput = ""
		m.input.Reset()
		m.busy = true
		return m, m.evaluate(source)

	case tea.KeyUp:
		if len(m.inputHistory) > 0 {
			if m.historyIndex == -1 {
				m.currentInput = m.input.Value()
				m.historyIndex = len(m.inputHistory) - 1
			} else if m.historyIndex > 0 {
				m.historyIndex--
			}
			m.input.SetValue(m.inputHistory[m.historyIndex])
			m.input.CursorEnd()
		}
		return m, nil

	case tea.KeyDown:
		if m.historyIndex != -1 {
			if m.historyIndex < len(m.inputHistory)-1 {
				m.historyIndex++
				m.input.SetValue(m.inputHistory[m.historyIndex])
			} else {
				m.historyIndex = -1
				m.input.SetValue(m.currentInput)
			}
			m.input.CursorEnd()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// evaluate runs source in the session and records it in the history store
func (m Model) evaluate(source string) tea.Cmd {
	session, store := m.session, m.store
	return func() tea.Msg {
		// Errors from one line must not affect the next
		session.Reset()
		result := session.Run(source)

		eval := Evaluation{
			Source:    source,
			Value:     result.Output,
			AST:       result.AST,
			Runtime:   result.Runtime,
			ExitCode:  result.ExitCode,
			Duration:  result.Duration,
			Timestamp: time.Now(),
		}
		for _, d := range result.Diagnostics {
			eval.Diagnostics = append(eval.Diagnostics, d.String())
		}
		if len(eval.Diagnostics) == 0 && result.Runtime == "" && result.Err != nil {
			eval.Diagnostics = []string{result.Err.Error()}
		}

		output := eval.Value
		if eval.Failed() {
			output = strings.Join(append(eval.Diagnostics, eval.Runtime), "\n")
		}
		err := store.Append(context.Background(), &history.Entry{
			SessionID: session.ID(),
			Source:    source,
			Output:    strings.TrimSpace(output),
			ExitCode:  eval.ExitCode,
		})

		return evalResultMsg{eval: eval, err: err}
	}
}

// loadHistory reads previous inputs from the store
func (m Model) loadHistory() tea.Msg {
	entries, err := m.store.Recent(context.Background(), m.limit)
	if err != nil {
		return historyLoadedMsg{err: err}
	}
	sources := make([]string, len(entries))
	for i, e := range entries {
		sources[i] = e.Source
	}
	return historyLoadedMsg{sources: sources}
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Starte glox..."
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(TranscriptPanelStyle.Width(m.width - 2).Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(InputStyle.Width(m.width - 2).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())

	return b.String()
}

func (m Model) renderHeader() string {
	return LogoStyle.Render(Logo) + " " + SubHeaderStyle.Render("Lox expressions v"+version.REPL)
}

func (m Model) renderStatusBar() string {
	left := HelpDescStyle.Render("Session " + shortID(m.session.ID()))

	var right string
	switch {
	case m.err != nil:
		right = StatusErrorStyle.Render("history: " + m.err.Error())
	case len(m.evaluations) > 0:
		last := m.evaluations[len(m.evaluations)-1]
		right = RenderExitCode(last.ExitCode) + HelpDescStyle.Render(fmt.Sprintf(" %d lines", len(m.evaluations)))
	default:
		right = HelpDescStyle.Render("ready")
	}

	space := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if space < 1 {
		space = 1
	}
	return StatusBarStyle.Width(m.width - 2).Render(left + strings.Repeat(" ", space) + right)
}

func (m Model) renderHelpBar() string {
	astHint := "AST an"
	if m.showAST {
		astHint = "AST aus"
	}
	items := []string{
		RenderKeyHint("Enter", "auswerten"),
		RenderKeyHint("↑/↓", "Historie"),
		RenderKeyHint("Ctrl+T", astHint),
		RenderKeyHint("Ctrl+L", "leeren"),
		RenderKeyHint("Ctrl+C", "beenden"),
	}
	return HelpStyle.Render(strings.Join(items, "  "))
}

// updateViewportContent renders the transcript into the viewport
func (m *Model) updateViewportContent() {
	m.viewport.SetContent(m.transcript())
}

func (m Model) transcript() string {
	var content strings.Builder

	if len(m.evaluations) == 0 {
		content.WriteString(SystemMessageStyle.Render("Keine Auswertungen. Ausdruck eingeben und Enter drücken."))
		return content.String()
	}

	for _, e := range m.evaluations {
		content.WriteString(PromptStyle.Render(m.input.Prompt) + SourceStyle.Render(e.Source))
		content.WriteString("\n")

		if m.showAST && e.AST != "" {
			content.WriteString(ASTStyle.Render(e.AST))
			content.WriteString("\n")
		}

		for _, d := range e.Diagnostics {
			content.WriteString(ErrorMessageStyle.Render(d))
			content.WriteString("\n")
		}
		if e.Runtime != "" {
			content.WriteString(ErrorMessageStyle.Render(e.Runtime))
			content.WriteString("\n")
		}
		if !e.Failed() {
			content.WriteString(ValueStyle.Render(e.Value))
			content.WriteString("\n")
		}
	}

	return content.String()
}

// Evaluations returns the transcript
func (m Model) Evaluations() []Evaluation {
	return m.evaluations
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Run starts the REPL TUI
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
