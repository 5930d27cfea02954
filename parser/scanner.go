// Package parser implements a hand-written, streaming recursive-descent
// parser for HCL: primitive lexing (whitespace/comments/identifiers/
// numbers/strings), the template sub-language, the expression grammar, and
// the body/block structure grammar, all operating directly on the input
// byte slice rather than through a separate token stream, so that the
// handful of two-byte lookahead disambiguations HCL requires (`//` vs `/`,
// `..` vs `.`, `==` vs `=`) can be resolved with simple byte peeks.
package parser

import (
	"fmt"

	"github.com/openllb/hclgo/ast"
)

// ParseError is returned for any lexical or grammatical failure. Parsing
// errors are fatal to the parse: no partial tree is ever returned.
type ParseError struct {
	Message string
	Context string // e.g. "identifier", "number", "escape sequence"
	Span    ast.Span
}

func (e *ParseError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s (in %s)", e.Message, e.Context)
	}
	return e.Message
}

func errorf(pos int, context, format string, a ...interface{}) *ParseError {
	return &ParseError{
		Message: fmt.Sprintf(format, a...),
		Context: context,
		Span:    ast.NewSpan(pos, pos+1),
	}
}

// scanner is a byte cursor over an input buffer. All parsing state lives
// here; a scanner is single-use and never shared across goroutines, so
// concurrent parses of disjoint inputs need no synchronization.
type scanner struct {
	input []byte
	pos   int
}

func newScanner(input []byte) *scanner {
	return &scanner{input: input}
}

func (s *scanner) eof() bool { return s.pos >= len(s.input) }

// peek returns the byte at the cursor, or 0 at EOF.
func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.input[s.pos]
}

// peekAt returns the byte n bytes ahead of the cursor, or 0 past EOF.
func (s *scanner) peekAt(n int) byte {
	if s.pos+n >= len(s.input) {
		return 0
	}
	return s.input[s.pos+n]
}

// peekStr reports whether the bytes starting at the cursor equal lit.
func (s *scanner) peekStr(lit string) bool {
	if s.pos+len(lit) > len(s.input) {
		return false
	}
	return string(s.input[s.pos:s.pos+len(lit)]) == lit
}

func (s *scanner) advance() byte {
	b := s.peek()
	s.pos++
	return b
}

func (s *scanner) span(start int) ast.Span { return ast.NewSpan(start, s.pos) }

// sp consumes horizontal whitespace plus inline `/* */` comments only. It
// never consumes a newline, `#`, or `//` comment.
func (s *scanner) sp() ast.RawString {
	start := s.pos
	for {
		switch {
		case s.peek() == ' ' || s.peek() == '\t':
			s.pos++
		case s.peek() == '\\' && s.peekAt(1) == '\n':
			// line continuation inside expressions
			s.pos += 2
		case s.peek() == '/' && s.peekAt(1) == '*':
			if err := s.skipBlockComment(); err != nil {
				// unterminated block comment; stop here, caller will
				// hit EOF/unexpected-char downstream.
				return ast.NewRawString(start, s.pos)
			}
		default:
			return ast.NewRawString(start, s.pos)
		}
	}
}

// ws consumes all whitespace (including newlines) plus any comment form
// (`#`, `//`, `/* */`).
func (s *scanner) ws() ast.RawString {
	start := s.pos
	for {
		switch {
		case s.peek() == ' ' || s.peek() == '\t' || s.peek() == '\n' || s.peek() == '\r':
			s.pos++
		case s.peek() == '#':
			s.skipLineComment()
		case s.peek() == '/' && s.peekAt(1) == '/':
			s.skipLineComment()
		case s.peek() == '/' && s.peekAt(1) == '*':
			if err := s.skipBlockComment(); err != nil {
				return ast.NewRawString(start, s.pos)
			}
		default:
			return ast.NewRawString(start, s.pos)
		}
	}
}

func (s *scanner) skipLineComment() {
	for !s.eof() && s.peek() != '\n' {
		s.pos++
	}
	if s.peek() == '\n' {
		s.pos++
	}
}

func (s *scanner) skipBlockComment() error {
	start := s.pos
	s.pos += 2 // consume `/*`
	for {
		if s.eof() {
			return errorf(start, "comment", "unterminated block comment")
		}
		if s.peek() == '*' && s.peekAt(1) == '/' {
			s.pos += 2
			return nil
		}
		s.pos++
	}
}

// isDigit reports whether b is an ASCII decimal digit.
func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// scanIdentBytes scans [A-Za-z_][A-Za-z0-9_-]* starting at the cursor and
// returns its text, without validating it further (keywords are recognised
// by higher layers, not here).
func (s *scanner) scanIdentBytes() (string, bool) {
	if !ast.IsIdentifierStart(s.peek()) {
		return "", false
	}
	start := s.pos
	s.pos++
	for ast.IsIdentifierByte(s.peek()) {
		s.pos++
	}
	return string(s.input[start:s.pos]), true
}

// scanIdent scans an identifier and fails with context "identifier" if
// none is present.
func (s *scanner) scanIdent() (ast.Decorated[ast.Identifier], error) {
	start := s.pos
	text, ok := s.scanIdentBytes()
	if !ok {
		return ast.Decorated[ast.Identifier]{}, errorf(s.pos, "identifier", "expected identifier")
	}
	return ast.NewDecorated(ast.Identifier(text), s.span(start)), nil
}

// scanNumber scans digits, an optional `.`-fraction, and an optional
// `[eE][+-]?digits` exponent, returning the raw text and whether the
// number is a float (has a fraction or exponent).
func (s *scanner) scanNumber() (raw string, isFloat bool, ok bool) {
	if !isDigit(s.peek()) {
		return "", false, false
	}
	start := s.pos
	for isDigit(s.peek()) {
		s.pos++
	}
	if s.peek() == '.' && isDigit(s.peekAt(1)) {
		isFloat = true
		s.pos++
		for isDigit(s.peek()) {
			s.pos++
		}
	}
	if s.peek() == 'e' || s.peek() == 'E' {
		save := s.pos
		s.pos++
		if s.peek() == '+' || s.peek() == '-' {
			s.pos++
		}
		if isDigit(s.peek()) {
			isFloat = true
			for isDigit(s.peek()) {
				s.pos++
			}
		} else {
			s.pos = save
		}
	}
	return string(s.input[start:s.pos]), isFloat, true
}
