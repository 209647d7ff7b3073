// ============================================================================
// glox - Lox expression front end
// ============================================================================
//
// Package:     cmd
// Description: CLI command for the interactive REPL
// Author:      msto63
// Created:     2026-10-16
// License:     MIT
// ============================================================================

package cmd

import (
	"github.com/msto63/glox/internal/tui/repl"
	"github.com/spf13/cobra"
)

var (
	replTUI       bool
	replShowAST   bool
	replNoHistory bool
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Startet die interaktive Eingabe",
	Long: `Startet die interaktive Eingabe für Lox-Ausdrücke.

Jede Zeile wird als ein Ausdruck ausgewertet. Fehler einer Zeile
wirken sich nicht auf die nächste aus. Eingaben werden in der
Historie gespeichert, sofern repl.history_enabled gesetzt ist.

Mit --tui startet eine Terminal-UI:

Tastenkürzel:
  Enter       Ausdruck auswerten
  ↑/↓         Historie durchblättern
  Ctrl+T      Syntaxbaum ein-/ausblenden
  Ctrl+L      Ausgabe leeren
  Ctrl+C      Beenden`,
	Args: usageArgs("glox repl", 0),
	RunE: func(cmd *cobra.Command, args []string) error {
		if replNoHistory {
			appConfig.REPL.HistoryEnabled = false
		}

		store := openHistory(cmd)
		if store != nil {
			defer closeHistory(cmd, store)
		}

		if !replTUI {
			return runPrompt(cmd, newEngine(), store)
		}

		cfg := repl.DefaultConfig()
		cfg.Engine = newEngine()
		cfg.HistoryLimit = appConfig.REPL.HistoryLimit
		cfg.Prompt = appConfig.REPL.Prompt
		cfg.ShowAST = replShowAST
		if store != nil {
			cfg.History = store
		}
		return repl.Run(cfg)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().BoolVar(&replTUI, "tui", false, "Terminal-UI statt Zeileneingabe")
	replCmd.Flags().BoolVar(&replShowAST, "ast", false, "Syntaxbaum anzeigen (nur --tui)")
	replCmd.Flags().BoolVar(&replNoHistory, "no-history", false, "Eingaben nicht speichern")
}
