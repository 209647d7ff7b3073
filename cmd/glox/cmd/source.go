package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	mdwerror "github.com/msto63/glox/foundation/core/error"
	"github.com/msto63/glox/foundation/lox"
	mdwstringx "github.com/msto63/glox/foundation/utils/stringx"
	"github.com/msto63/glox/internal/history"
	"github.com/spf13/cobra"
)

var (
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	astStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8")).Italic(true)
)

// readSource returns expr when set, otherwise the content of the file named
// by args[0] ("-" reads standard input)
func readSource(cmd *cobra.Command, args []string, expr string) (string, error) {
	if expr != "" {
		if len(args) > 0 {
			return "", &exitError{code: lox.ExitUsage, msg: "Usage: --expr und Datei schließen sich aus"}
		}
		return expr, nil
	}
	if len(args) == 0 {
		return "", &exitError{code: lox.ExitUsage, msg: "Usage: " + cmd.Use}
	}

	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return "", mdwerror.Wrap(err, "could not read source").
			WithCode(mdwerror.CodeLoxIO).
			WithOperation("cmd.readSource").
			WithDetail("path", args[0])
	}
	return string(data), nil
}

// runSource evaluates src once. Diagnostics go to stderr, the value to stdout.
func runSource(cmd *cobra.Command, engine *lox.Engine, src string, showAST bool) error {
	session := engine.NewSession(cmd.ErrOrStderr())
	result := session.Run(src)

	if result.Err != nil {
		if mdwerror.HasCode(result.Err, mdwerror.CodeInvalidLength) {
			return result.Err
		}
		return exitWith(result.ExitCode)
	}

	out := cmd.OutOrStdout()
	if showAST {
		fmt.Fprintln(out, render(astStyle, result.AST))
	}
	fmt.Fprintln(out, render(valueStyle, result.Output))
	return nil
}

// runPrompt reads one expression per line until EOF. An error on one line
// never affects the next, and the exit code stays 0.
func runPrompt(cmd *cobra.Command, engine *lox.Engine, store history.Store) error {
	session := engine.NewSession(cmd.ErrOrStderr())
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), appConfig.Parser.MaxSourceLength+1)

	for {
		fmt.Fprint(out, appConfig.REPL.Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			if err := scanner.Err(); err != nil {
				return mdwerror.Wrap(err, "could not read input").
					WithCode(mdwerror.CodeLoxIO).
					WithOperation("cmd.runPrompt")
			}
			return nil
		}

		line := scanner.Text()
		if mdwstringx.IsBlank(line) {
			continue
		}

		session.Reset()
		result := session.Run(line)

		output := result.Output
		switch {
		case result.Err == nil:
			fmt.Fprintln(out, render(valueStyle, result.Output))
		case mdwerror.HasCode(result.Err, mdwerror.CodeInvalidLength):
			output = result.Err.Error()
			fmt.Fprintln(cmd.ErrOrStderr(), output)
		default:
			var msgs []string
			for _, d := range result.Diagnostics {
				msgs = append(msgs, d.String())
			}
			if result.Runtime != "" {
				msgs = append(msgs, result.Runtime)
			}
			output = strings.Join(msgs, "\n")
		}

		if store != nil {
			err := store.Append(context.Background(), &history.Entry{
				SessionID: session.ID(),
				Source:    strings.TrimSpace(line),
				Output:    output,
				ExitCode:  result.ExitCode,
			})
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warnung: Historie nicht gespeichert: %v\n", err)
			}
		}
	}
}

func render(style lipgloss.Style, s string) string {
	if !appConfig.REPL.Color {
		return s
	}
	return style.Render(s)
}

// openHistory opens the configured history store, or returns nil when
// history is disabled or unavailable
func openHistory(cmd *cobra.Command) history.Store {
	if !appConfig.REPL.HistoryEnabled {
		return nil
	}

	store, err := history.NewSQLiteStore(history.SQLiteConfig{Path: appConfig.REPL.HistoryPath})
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warnung: Historie deaktiviert: %v\n", err)
		return nil
	}
	return store
}

// closeHistory trims the store to the configured limit and closes it
func closeHistory(cmd *cobra.Command, store history.Store) {
	if _, err := store.Prune(context.Background(), appConfig.REPL.HistoryLimit); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warnung: %v\n", err)
	}
	store.Close()
}
