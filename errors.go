// Copyright (C) 2025 M. Lowell. All Rights Reserved.

package jparse

import "fmt"

// ErrKind enumerates the ways scanning or parsing JSON input can fail.
type ErrKind int

// Constants defining the valid ErrKind values.
const (
	UnexpectedEOF        ErrKind = 1 + iota // input ended inside an incomplete construct
	UnexpectedChar                          // the grammar forbids this character here
	InvalidEscape                           // unrecognized character after a backslash
	InvalidUnicodeEscape                    // malformed \uXXXX escape or unpaired surrogate
	InvalidNumber                           // numeric lexeme fails the number grammar
	TrailingContent                         // non-whitespace input after the top-level value
	DepthExceeded                           // container nesting exceeds the configured limit
)

var kindStr = [...]string{
	UnexpectedEOF:        "unexpected end of input",
	UnexpectedChar:       "unexpected character",
	InvalidEscape:        "invalid escape sequence",
	InvalidUnicodeEscape: "invalid Unicode escape",
	InvalidNumber:        "invalid number format",
	TrailingContent:      "trailing content",
	DepthExceeded:        "depth exceeded",
}

func (k ErrKind) String() string {
	if k < 1 || int(k) >= len(kindStr) {
		return fmt.Sprintf("ErrKind(%d)", int(k))
	}
	return kindStr[k]
}

// ParseError is the concrete type of all errors reported by the scanner and
// the parser. It records what went wrong and exactly where. The first error
// detected aborts the parse and is returned to the caller verbatim.
type ParseError struct {
	Kind    ErrKind // the category of failure
	Offset  int     // byte offset of the offending character
	Pos     LineCol // line and column derived from Offset
	Message string  // human-readable description

	err error
}

// Error satisfies the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("at %s (offset %d): %s", e.Pos, e.Offset, e.Message)
}

// Unwrap supports error wrapping.
func (e *ParseError) Unwrap() error { return e.err }
