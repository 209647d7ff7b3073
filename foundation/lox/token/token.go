// File: token.go
// Title: Lox Lexical Tokens
// Description: Defines the token kinds of the Lox language and the immutable
//              Token value produced by the scanner and consumed by the parser.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-16
// Modified: 2026-10-16
//
// Change History:
// - 2026-10-16 v0.1.0: Initial implementation
// - 2026-10-16 v0.1.1: Number literals always carry a fraction in token dumps

package token

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the lexical category of a token
type Kind int

const (
	// Single-character tokens
	LeftParen Kind = iota
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star

	// One or two character tokens
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// Literals
	Identifier
	String
	Number

	// Keywords
	And
	Class
	Else
	False
	Fun
	For
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While

	EOF
)

var kindNames = [...]string{
	LeftParen:    "LEFT_PAREN",
	RightParen:   "RIGHT_PAREN",
	LeftBrace:    "LEFT_BRACE",
	RightBrace:   "RIGHT_BRACE",
	Comma:        "COMMA",
	Dot:          "DOT",
	Minus:        "MINUS",
	Plus:         "PLUS",
	Semicolon:    "SEMICOLON",
	Slash:        "SLASH",
	Star:         "STAR",
	Bang:         "BANG",
	BangEqual:    "BANG_EQUAL",
	Equal:        "EQUAL",
	EqualEqual:   "EQUAL_EQUAL",
	Greater:      "GREATER",
	GreaterEqual: "GREATER_EQUAL",
	Less:         "LESS",
	LessEqual:    "LESS_EQUAL",
	Identifier:   "IDENTIFIER",
	String:       "STRING",
	Number:       "NUMBER",
	And:          "AND",
	Class:        "CLASS",
	Else:         "ELSE",
	False:        "FALSE",
	Fun:          "FUN",
	For:          "FOR",
	If:           "IF",
	Nil:          "NIL",
	Or:           "OR",
	Print:        "PRINT",
	Return:       "RETURN",
	Super:        "SUPER",
	This:         "THIS",
	True:         "TRUE",
	Var:          "VAR",
	While:        "WHILE",
	EOF:          "EOF",
}

// String returns the upper-case name of the kind, e.g. LEFT_PAREN
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

var keywords = map[string]Kind{
	"and":    And,
	"class":  Class,
	"else":   Else,
	"false":  False,
	"for":    For,
	"fun":    Fun,
	"if":     If,
	"nil":    Nil,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  Super,
	"this":   This,
	"true":   True,
	"var":    Var,
	"while":  While,
}

// Keyword returns the keyword kind for text, if text is a reserved word
func Keyword(text string) (Kind, bool) {
	k, ok := keywords[text]
	return k, ok
}

// StartsStatement reports whether a token of this kind begins a statement.
// The parser resynchronizes in front of these after an error.
func (k Kind) StartsStatement() bool {
	switch k {
	case Class, Fun, Var, For, If, While, Print, Return:
		return true
	}
	return false
}

// Token is a single lexeme with its kind, literal value and source line.
// Literal holds a float64, string, bool or nil.
type Token struct {
	Kind    Kind
	Lexeme  string
	Literal any
	Line    int
}

// New creates a token
func New(kind Kind, lexeme string, literal any, line int) Token {
	return Token{Kind: kind, Lexeme: lexeme, Literal: literal, Line: line}
}

// String renders the token as "KIND lexeme literal"
func (t Token) String() string {
	return fmt.Sprintf("%s %s %s", t.Kind, t.Lexeme, literalString(t.Literal))
}

func literalString(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case float64:
		return numberString(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// FormatNumber renders a number value: integral values without a fraction
// and non-finite values as "Infinity", "-Infinity" or "NaN".
func FormatNumber(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case math.IsNaN(v):
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// numberString always shows a fraction ("1.0"); magnitudes outside
// [1e-3, 1e7) use exponent notation ("1.0E7", "2.5E-4").
func numberString(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return FormatNumber(v)
	}

	if abs := math.Abs(v); abs == 0 || (abs >= 1e-3 && abs < 1e7) {
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(v, 'E', -1, 64), "E")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	e, _ := strconv.Atoi(exp)
	return mantissa + "E" + strconv.Itoa(e)
}
