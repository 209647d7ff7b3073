// File: doc.go
// Title: Lox Parser Package Documentation
// Description: Package documentation for the expression parser.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-16
// Modified: 2026-10-16

/*
Package parser builds expression trees from Lox tokens.

Grammar, lowest precedence first; every binary level is left associative:

	expression → equality
	equality   → comparison ( ( "!=" | "==" ) comparison )*
	comparison → term ( ( ">" | ">=" | "<" | "<=" ) term )*
	term       → factor ( ( "-" | "+" ) factor )*
	factor     → unary ( ( "/" | "*" ) unary )*
	unary      → ( "!" | "-" ) unary | primary
	primary    → NUMBER | STRING | "true" | "false" | "nil"
	           | "(" expression ")"

Usage:

	acc := report.NewAccumulator(os.Stderr)
	tokens := scanner.New(src, acc).ScanTokens()
	expr, err := parser.New(tokens, acc).Parse()
	if errors.Is(err, parser.ErrSyntax) {
	    // diagnostic already printed by acc
	}

A failed parse never returns a partial tree.
*/
package parser
