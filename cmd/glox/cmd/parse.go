package cmd

import (
	"fmt"

	mdwerror "github.com/msto63/glox/foundation/core/error"
	"github.com/msto63/glox/foundation/lox"
	"github.com/msto63/glox/foundation/lox/printer"
	"github.com/spf13/cobra"
)

var (
	parseExpr string
	parseTree bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Gibt den Syntaxbaum eines Ausdrucks aus",
	Long: `Parst genau einen Ausdruck und gibt ihn in Klammerschreibweise aus,
z.B. "(* (- 123) (group 45.67))". Mit --tree wird der Baum eingerückt
ausgegeben.`,
	Args: usageArgs("glox parse [file]", 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readSource(cmd, args, parseExpr)
		if err != nil {
			return err
		}

		expr, err := newEngine().Parse(src, cmd.ErrOrStderr())
		if err != nil {
			if mdwerror.HasCode(err, mdwerror.CodeInvalidLength) {
				return err
			}
			return exitWith(lox.ExitSyntax)
		}

		if parseTree {
			fmt.Fprint(cmd.OutOrStdout(), printer.Tree(expr))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), printer.Print(expr))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseExpr, "expr", "e", "", "Ausdruck statt Datei")
	parseCmd.Flags().BoolVar(&parseTree, "tree", false, "Eingerückte Baumdarstellung")
}
