package cmd

import (
	"github.com/spf13/cobra"
)

var (
	runExpr    string
	runShowAST bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Wertet einen Ausdruck aus einer Datei oder von --expr aus",
	Long: `Wertet genau einen Lox-Ausdruck aus und gibt den Wert aus.

Beispiele:
  glox run expr.lox
  glox run -e "(1 + 2) * 3"
  echo '"a" + "b"' | glox run -`,
	Args: usageArgs("glox run [file]", 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readSource(cmd, args, runExpr)
		if err != nil {
			return err
		}
		return runSource(cmd, newEngine(), src, runShowAST)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runExpr, "expr", "e", "", "Ausdruck statt Datei")
	runCmd.Flags().BoolVar(&runShowAST, "ast", false, "Syntaxbaum vor dem Wert ausgeben")
}
