package cmd

import (
	"fmt"
	"runtime"

	"github.com/msto63/glox/pkg/core/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Zeigt die Version an",
	Args:  usageArgs("glox version", 0),
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "glox v%s\n", version.Platform)
		fmt.Fprintf(out, "  Parser:     v%s\n", version.Parser)
		fmt.Fprintf(out, "  Server:     v%s\n", version.Server)
		fmt.Fprintf(out, "  REPL:       v%s\n", version.REPL)
		fmt.Fprintf(out, "  Git Commit: %s\n", version.GitCommit)
		fmt.Fprintf(out, "  Build Date: %s\n", version.BuildDate)
		fmt.Fprintf(out, "  Go Version: %s\n", runtime.Version())
		fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
