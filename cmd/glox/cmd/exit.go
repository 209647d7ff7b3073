package cmd

import (
	"errors"

	mdwerror "github.com/msto63/glox/foundation/core/error"
	"github.com/msto63/glox/foundation/lox"
	"github.com/spf13/cobra"
)

// exitError carries a process exit code. An empty message means the
// diagnostics were already printed.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string {
	return e.msg
}

func exitWith(code int) error {
	return &exitError{code: code}
}

// ExitCode maps an error returned by Execute to the process exit code
func ExitCode(err error) int {
	if err == nil {
		return lox.ExitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}

	var me *mdwerror.Error
	if errors.As(err, &me) {
		return me.Code().ExitCode()
	}

	return 1
}

// usageArgs accepts at most n positional arguments and reports misuse
// with exit code 64
func usageArgs(usage string, n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > n {
			return &exitError{code: lox.ExitUsage, msg: "Usage: " + usage}
		}
		return nil
	}
}
