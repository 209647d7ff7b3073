// File: doc.go
// Title: Lox Front End Package Documentation
// Description: Package documentation for the engine facade.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-16
// Modified: 2026-10-16

/*
Package lox is the entry point to the Lox expression front end.

The subpackages implement the individual stages:

	token        token kinds and the Token value
	scanner      source text to tokens
	ast          expression nodes and the Visitor contract
	parser       tokens to an expression tree
	report       diagnostic sink and accumulator
	printer      prefix-form tree printer
	interpreter  expression evaluator

An Engine holds configuration; a Session holds the diagnostic state of one
script, prompt or connection:

	engine := lox.NewEngine(lox.Options{MaxSourceLength: 64 * 1024})
	session := engine.NewSession(os.Stderr)
	result := session.Run("1 + 2 * 3")
	fmt.Println(result.Output) // 7

Result.ExitCode follows the classic sysexits convention: 65 for syntax
errors, 70 for runtime errors.
*/
package lox
