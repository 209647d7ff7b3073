package main

import (
	"fmt"
	"os"

	"github.com/msto63/glox/cmd/glox/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(cmd.ExitCode(err))
	}
}
