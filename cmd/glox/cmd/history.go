package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mdwerror "github.com/msto63/glox/foundation/core/error"
	mdwstringx "github.com/msto63/glox/foundation/utils/stringx"
	"github.com/msto63/glox/internal/history"
	"github.com/spf13/cobra"
)

var (
	historyLimit  int
	historySearch string
	historyPrune  int
	historyJSON   bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Zeigt gespeicherte REPL-Eingaben",
	Long: `Listet die letzten Eingaben der interaktiven Eingabe auf.

Beispiele:
  glox history                 # letzte 20 Eingaben
  glox history --search "+"    # Eingaben, die "+" enthalten
  glox history --prune 100     # nur die neuesten 100 behalten`,
	Args: usageArgs("glox history", 0),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Anzahl der Einträge")
	historyCmd.Flags().StringVarP(&historySearch, "search", "s", "", "Nur Eingaben mit diesem Text")
	historyCmd.Flags().IntVar(&historyPrune, "prune", -1, "Alle bis auf die neuesten N Einträge löschen")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Ausgabe als JSON")
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.NewSQLiteStore(history.SQLiteConfig{Path: appConfig.REPL.HistoryPath})
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	out := cmd.OutOrStdout()

	if historyPrune >= 0 {
		deleted, err := store.Prune(ctx, historyPrune)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d Einträge gelöscht\n", deleted)
		return nil
	}

	var entries []*history.Entry
	if historySearch != "" {
		entries, err = store.Search(ctx, historySearch, historyLimit)
	} else {
		entries, err = store.Recent(ctx, historyLimit)
	}
	if err != nil {
		return err
	}

	if historyJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return mdwerror.Wrap(err, "failed to encode history").WithCode(mdwerror.CodeLoxIO)
		}
		return nil
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "Keine Einträge")
		return nil
	}

	for _, e := range entries {
		status := "ok"
		if e.ExitCode != 0 {
			status = fmt.Sprintf("%d", e.ExitCode)
		}
		fmt.Fprintf(out, "%s  %-3s  %-40s  %s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			status,
			mdwstringx.Truncate(e.Source, 40, "..."),
			mdwstringx.FirstLine(e.Output, " ..."),
		)
	}
	return nil
}
