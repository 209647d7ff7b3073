package cmd

import (
	"fmt"

	"github.com/msto63/glox/foundation/lox"
	"github.com/spf13/cobra"
)

var tokensExpr string

var tokensCmd = &cobra.Command{
	Use:   "tokens [file]",
	Short: "Gibt die Tokens einer Quelle aus",
	Long: `Scannt die Quelle und gibt jedes Token als "ART lexem literal" aus.
Bei lexikalischen Fehlern werden die erzeugten Tokens trotzdem
ausgegeben und der Exit-Code ist 65.`,
	Args: usageArgs("glox tokens [file]", 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readSource(cmd, args, tokensExpr)
		if err != nil {
			return err
		}

		tokens, scanErr := newEngine().Tokens(src, cmd.ErrOrStderr())
		for _, t := range tokens {
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
		}
		if scanErr != nil {
			if tokens == nil {
				return scanErr
			}
			return exitWith(lox.ExitSyntax)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)
	tokensCmd.Flags().StringVarP(&tokensExpr, "expr", "e", "", "Ausdruck statt Datei")
}
