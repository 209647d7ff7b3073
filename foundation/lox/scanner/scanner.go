// File: scanner.go
// Title: Lox Scanner
// Description: Converts Lox source text into a token slice. Lexical errors
//              are reported to the Reporter by line and scanning continues,
//              so a single pass surfaces every bad character.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-16
// Modified: 2026-10-16
//
// Change History:
// - 2026-10-16 v0.1.0: Initial implementation
// - 2026-10-16 v0.1.1: Out-of-range number literals become Infinity

package scanner

import (
	"errors"
	"strconv"
	"unicode/utf8"

	"github.com/msto63/glox/foundation/lox/report"
	"github.com/msto63/glox/foundation/lox/token"
)

// Scanner splits source text into tokens
type Scanner struct {
	source   string
	reporter report.Reporter
	tokens   []token.Token

	start   int // first byte of the lexeme being scanned
	current int // byte being considered
	line    int
}

// New creates a scanner over source. A nil reporter discards errors.
func New(source string, reporter report.Reporter) *Scanner {
	if reporter == nil {
		reporter = report.Discard
	}
	return &Scanner{
		source:   source,
		reporter: reporter,
		line:     1,
	}
}

// ScanTokens scans the whole source. The result always ends with an EOF
// token carrying the last line number.
func (s *Scanner) ScanTokens() []token.Token {
	for !s.isAtEnd() {
		s.start = s.current
		s.scanToken()
	}

	s.tokens = append(s.tokens, token.New(token.EOF, "", nil, s.line))
	return s.tokens
}

func (s *Scanner) scanToken() {
	c := s.advance()
	switch c {
	case '(':
		s.addToken(token.LeftParen)
	case ')':
		s.addToken(token.RightParen)
	case '{':
		s.addToken(token.LeftBrace)
	case '}':
		s.addToken(token.RightBrace)
	case ',':
		s.addToken(token.Comma)
	case '.':
		s.addToken(token.Dot)
	case '-':
		s.addToken(token.Minus)
	case '+':
		s.addToken(token.Plus)
	case ';':
		s.addToken(token.Semicolon)
	case '*':
		s.addToken(token.Star)
	case '!':
		s.addToken(s.choose('=', token.BangEqual, token.Bang))
	case '=':
		s.addToken(s.choose('=', token.EqualEqual, token.Equal))
	case '<':
		s.addToken(s.choose('=', token.LessEqual, token.Less))
	case '>':
		s.addToken(s.choose('=', token.GreaterEqual, token.Greater))
	case '/':
		if s.match('/') {
			// comment runs to end of line
			for s.peek() != '\n' && !s.isAtEnd() {
				s.advance()
			}
		} else {
			s.addToken(token.Slash)
		}
	case ' ', '\r', '\t':
	case '\n':
		s.line++
	case '"':
		s.scanString()
	default:
		switch {
		case isDigit(c):
			s.scanNumber()
		case isAlpha(c):
			s.scanIdentifier()
		default:
			// consume the rest of a multi-byte character so it is reported once
			if c >= utf8.RuneSelf {
				_, size := utf8.DecodeRuneInString(s.source[s.start:])
				s.current = s.start + size
			}
			s.reporter.Error(s.line, "Unexpected character.")
		}
	}
}

func (s *Scanner) scanString() {
	for s.peek() != '"' && !s.isAtEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}

	if s.isAtEnd() {
		s.reporter.Error(s.line, "Unterminated string.")
		return
	}

	s.advance() // closing quote
	s.addLiteral(token.String, s.source[s.start+1:s.current-1])
}

func (s *Scanner) scanNumber() {
	for isDigit(s.peek()) {
		s.advance()
	}

	// fractional part needs a digit after the dot
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}

	// out of range literals keep the nearest value, +Inf for huge ones
	value, err := strconv.ParseFloat(s.source[s.start:s.current], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		s.reporter.Error(s.line, "Invalid number.")
		return
	}
	s.addLiteral(token.Number, value)
}

func (s *Scanner) scanIdentifier() {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}

	text := s.source[s.start:s.current]
	kind, ok := token.Keyword(text)
	if !ok {
		kind = token.Identifier
	}

	s.addToken(kind)
}

func (s *Scanner) choose(expected byte, matched, otherwise token.Kind) token.Kind {
	if s.match(expected) {
		return matched
	}
	return otherwise
}

func (s *Scanner) match(expected byte) bool {
	if s.isAtEnd() || s.source[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) advance() byte {
	c := s.source[s.current]
	s.current++
	return c
}

func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return 0
	}
	return s.source[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.source) {
		return 0
	}
	return s.source[s.current+1]
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

func (s *Scanner) addToken(kind token.Kind) {
	s.addLiteral(kind, nil)
}

func (s *Scanner) addLiteral(kind token.Kind, literal any) {
	s.tokens = append(s.tokens, token.New(kind, s.source[s.start:s.current], literal, s.line))
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
