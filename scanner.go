// Copyright (C) 2025 M. Lowell. All Rights Reserved.

package jparse

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go4.org/mem"
)

// Token is the type of a lexical token in the JSON grammar.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid Token = iota // invalid token
	LBrace               // left brace "{"
	RBrace               // right brace "}"
	LSquare              // left square bracket "["
	RSquare              // right square bracket "]"
	Comma                // comma ","
	Colon                // colon ":"
	Integer              // number: integer with no fraction or exponent
	Number               // number with fraction and/or exponent
	String               // quoted string
	True                 // constant: true
	False                // constant: false
	Null                 // constant: null

	BlockComment // comment: /* ... */
	LineComment  // comment: // ... <LF>

	// Do not modify the order of these constants without updating the
	// self-delimiting token check below.
)

var tokenStr = [...]string{
	Invalid: "invalid token",
	LBrace:  `"{"`,
	RBrace:  `"}"`,
	LSquare: `"["`,
	RSquare: `"]"`,
	Comma:   `","`,
	Colon:   `":"`,
	Integer: "integer",
	Number:  "number",
	String:  "string",
	True:    "true",
	False:   "false",
	Null:    "null",

	BlockComment: "block comment",
	LineComment:  "line comment",
}

func (t Token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[v]
}

// A Scanner reads lexical tokens from a complete in-memory JSON text.  Each
// call to Next advances the scanner to the next token, or reports an error.
//
// The scanner validates tokens fully as it reads them: literal keywords must
// be spelled exactly, numbers must satisfy the whole numeric grammar, and
// string escapes, including surrogate pairs, must be well formed. A failure
// records the exact byte offset of the offending character, and terminates
// the scan.
type Scanner struct {
	input    string
	comments bool // allow comment tokens
	tok      Token
	err      error

	pos, end int // start and end offsets of current token
	last     int // size in bytes of last-read input rune
}

// NewScanner constructs a lexical scanner that reads from input.
func NewScanner(input string) *Scanner { return &Scanner{input: input} }

// AllowComments configures the scanner to report (true) or reject (false)
// comment tokens. Comments are a non-standard extension of the JSON grammar.
// If enabled, C++ style block comments (/* ... */) and line comments (// ...)
// are recognized and emitted as tokens.
func (s *Scanner) AllowComments(ok bool) { s.comments = ok }

// Next advances s to the next token of the input. It returns false when the
// input is exhausted or an error occurs; use Err to distinguish the cases.
func (s *Scanner) Next() bool {
	s.tok = Invalid
	s.pos = s.end

	for {
		ch, ok := s.rune()
		if !ok {
			return false // end of input, Err() == nil
		}

		// Discard whitespace.
		if isSpace(ch) {
			s.pos = s.end
			continue
		}

		// Handle punctuation.
		if t, ok := selfDelim(ch); ok {
			s.tok = t
			return true
		}

		// Handle numbers.
		if isNumStart(ch) {
			return s.scanNumber(ch)
		}

		// Handle string values.
		if ch == '"' {
			return s.scanString()
		}

		// Handle comments, if enabled.
		if ch == '/' && s.comments {
			return s.scanComment()
		}

		// Handle constants: true, false, null
		switch ch {
		case 't':
			return s.scanName("true", True)
		case 'f':
			return s.scanName("false", False)
		case 'n':
			return s.scanName("null", Null)
		}
		return s.failf(s.pos, UnexpectedChar, "unexpected %q", ch)
	}
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the error that stopped the scan, or nil if the input was fully
// consumed without error.
func (s *Scanner) Err() error { return s.err }

// Text returns the undecoded text of the current token. The returned value
// is a view of the input, so it remains valid after further calls to Next.
func (s *Scanner) Text() string { return s.input[s.pos:s.end] }

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.pos, End: s.end} }

// Location returns the complete location of the current token.
func (s *Scanner) Location() Location {
	return Location{
		Span:  s.Span(),
		First: LineColAt(s.input, s.pos),
		Last:  LineColAt(s.input, s.end),
	}
}

// scanString consumes a string whose opening quote has already been read.
// The token text includes both quotation marks and all escapes undecoded.
func (s *Scanner) scanString() bool {
	for {
		ch, ok := s.rune()
		if !ok {
			return s.failf(s.end, UnexpectedEOF, "unterminated string")
		}
		switch {
		case ch == '"':
			s.tok = String
			return true
		case ch == '\\':
			if !s.scanEscape() {
				return false
			}
		case ch < ' ':
			return s.failf(s.end-s.last, UnexpectedChar, "unescaped control %q in string", ch)
		}
	}
}

// scanEscape validates a single escape sequence whose backslash has already
// been consumed.
func (s *Scanner) scanEscape() bool {
	start := s.end - 1 // offset of the backslash
	ch, ok := s.rune()
	if !ok {
		return s.failf(s.end, UnexpectedEOF, "truncated escape sequence")
	}
	switch ch {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		return true
	case 'u':
		return s.scanUnicodeEscape(start)
	}
	return s.failf(s.end-s.last, InvalidEscape, "invalid %q after escape", ch)
}

// Surrogate range bounds, per RFC 8259 §7 and the UTF-16 encoding rules.
const (
	surrMin    = 0xD800
	surrLowMin = 0xDC00
	surrMax    = 0xDFFF
)

// scanUnicodeEscape validates the hex payload of a \u escape beginning at
// start. A high surrogate must be immediately followed by a second escape
// carrying its low half; anything else is an error.
func (s *Scanner) scanUnicodeEscape(start int) bool {
	v, ok := s.hex4()
	if !ok {
		return false
	}
	if v < surrMin || v > surrMax {
		return true
	}
	if v >= surrLowMin {
		return s.failf(start, InvalidUnicodeEscape, "unpaired low surrogate \\u%04X", v)
	}
	pairAt := s.end
	if !strings.HasPrefix(s.input[s.end:], `\u`) {
		return s.failf(start, InvalidUnicodeEscape, "unpaired high surrogate \\u%04X", v)
	}
	s.rune() // backslash
	s.rune() // 'u'
	w, ok := s.hex4()
	if !ok {
		return false
	}
	if w < surrLowMin || w > surrMax {
		return s.failf(pairAt, InvalidUnicodeEscape, "invalid low surrogate \\u%04X", w)
	}
	return true
}

// hex4 reads exactly 4 hexadecimal digits and returns their value.
func (s *Scanner) hex4() (int, bool) {
	var v int
	for i := 0; i < 4; i++ {
		ch, ok := s.rune()
		if !ok {
			return 0, s.failf(s.end, UnexpectedEOF, "truncated Unicode escape")
		}
		d := hexValue(ch)
		if d < 0 {
			return 0, s.failf(s.end-s.last, InvalidUnicodeEscape, "not a hex digit: %q", ch)
		}
		v = v<<4 | d
	}
	return v, true
}

// scanNumber consumes a number whose first rune has already been read.  The
// whole numeric grammar is validated before the token is accepted; conversion
// to a value happens later, in the parser.
func (s *Scanner) scanNumber(first rune) bool {
	if first == '-' {
		// A bare sign with no digits is a number-format violation even at
		// end of input.
		if s.digits() == 0 {
			return s.failf(s.end, InvalidNumber, "number has no digits")
		}
	} else {
		s.digits() // first is already a digit
	}

	// Extra leading zeroes are disallowed: 0.12 is OK, 01.2 is not.
	if hasExtraLeadingZeroes(s.input[s.pos:s.end]) {
		return s.failf(s.pos, InvalidNumber, "extra leading zeroes")
	}

	tok := Integer
	if s.peek('.') {
		s.rune()
		if s.digits() == 0 {
			if s.atEOF() {
				return s.failf(s.end, UnexpectedEOF, "truncated number")
			}
			return s.failf(s.end, InvalidNumber, "no digits after decimal point")
		}
		tok = Number
	}
	if s.peek('e') || s.peek('E') {
		s.rune()
		if s.peek('+') || s.peek('-') {
			s.rune()
		}
		if s.digits() == 0 {
			if s.atEOF() {
				return s.failf(s.end, UnexpectedEOF, "truncated number")
			}
			return s.failf(s.end, InvalidNumber, "missing exponent digits")
		}
		tok = Number
	}
	s.tok = tok
	return true
}

// scanComment consumes a comment whose leading "/" has already been read.
func (s *Scanner) scanComment() bool {
	ch, ok := s.rune()
	if !ok {
		return s.failf(s.end, UnexpectedEOF, "unterminated comment")
	}
	switch ch {
	case '/': // line comment, to LF or end of input
		if i := strings.IndexByte(s.input[s.end:], '\n'); i < 0 {
			s.end = len(s.input)
		} else {
			s.end += i + 1 // include the terminating newline
		}
		s.last = 0
		s.tok = LineComment
		return true

	case '*': // block comment
		i := strings.Index(s.input[s.end:], "*/")
		if i < 0 {
			return s.failf(len(s.input), UnexpectedEOF, "unterminated block comment")
		}
		s.end += i + 2
		s.last = 0
		s.tok = BlockComment
		return true
	}
	s.unrune()
	return s.failf(s.end, UnexpectedChar, "invalid %q in comment", ch)
}

// scanName consumes a run of keyword runes and checks it spells want exactly.
// Partial matches are not tolerated: "tru" and "nul1" both fail.
func (s *Scanner) scanName(want string, tok Token) bool {
	for {
		ch, ok := s.rune()
		if !ok {
			break
		}
		if !isNameRune(ch) {
			s.unrune()
			break
		}
	}
	got := s.input[s.pos:s.end]
	if mem.S(got).Equal(mem.S(want)) {
		s.tok = tok
		return true
	}
	if s.atEOF() && strings.HasPrefix(want, got) {
		return s.failf(s.end, UnexpectedEOF, "truncated constant %q", got)
	}

	// Point at the first character deviating from the keyword.
	n := s.pos
	for i := 0; i < len(got) && i < len(want) && got[i] == want[i]; i++ {
		n++
	}
	return s.failf(n, UnexpectedChar, "unknown constant %q", got)
}

func (s *Scanner) rune() (rune, bool) {
	if s.end >= len(s.input) {
		s.last = 0
		return 0, false
	}
	ch, nb := utf8.DecodeRuneInString(s.input[s.end:])
	s.last = nb
	s.end += nb
	return ch, true
}

func (s *Scanner) unrune() {
	s.end -= s.last
	s.last = 0
}

func (s *Scanner) atEOF() bool { return s.end >= len(s.input) }

// peek reports whether the next input byte is b, without consuming it.
func (s *Scanner) peek(b byte) bool {
	return s.end < len(s.input) && s.input[s.end] == b
}

// digits consumes a run of decimal digits and reports how many were seen.
// The first non-digit, if any, is left unconsumed.
func (s *Scanner) digits() int {
	var n int
	for {
		ch, ok := s.rune()
		if !ok {
			return n
		}
		if !isDigit(ch) {
			s.unrune()
			return n
		}
		n++
	}
}

func (s *Scanner) failf(offset int, kind ErrKind, msg string, args ...any) bool {
	s.err = &ParseError{
		Kind:    kind,
		Offset:  offset,
		Pos:     LineColAt(s.input, offset),
		Message: fmt.Sprintf(msg, args...),
	}
	return false
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}

func isNumStart(ch rune) bool { return ch == '-' || isDigit(ch) }
func isDigit(ch rune) bool    { return '0' <= ch && ch <= '9' }
func isNameRune(ch rune) bool { return ch >= 'a' && ch <= 'z' }

func hexValue(ch rune) int {
	switch {
	case '0' <= ch && ch <= '9':
		return int(ch - '0')
	case 'a' <= ch && ch <= 'f':
		return int(ch-'a') + 10
	case 'A' <= ch && ch <= 'F':
		return int(ch-'A') + 10
	}
	return -1
}

// hasExtraLeadingZeroes reports whether the representation of an integer in
// buf has redundant leading zeroes, disallowed by the spec.
//
// OK: 0, 0.1, -1.0, -0.1 are all OK.
// Bad: -01, 01.2, -01.0, 00.1.
func hasExtraLeadingZeroes(buf string) bool {
	if buf[0] == '-' {
		buf = buf[1:] // skip leading sign
	}
	if buf[0] == '0' {
		// A leading zero is OK if it's the only digit.
		return len(buf) > 1
	}
	return false
}

var self = [...]Token{LBrace, RBrace, LSquare, RSquare, Comma, Colon}

func selfDelim(ch rune) (Token, bool) {
	i := strings.IndexRune("{}[],:", ch)
	if i >= 0 {
		return self[i], true
	}
	return Invalid, false
}
