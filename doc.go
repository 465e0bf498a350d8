// Copyright (C) 2025 M. Lowell. All Rights Reserved.

// Package jparse implements a JSON lexical scanner with exact source
// positions, and the error taxonomy shared by the scanner and the tree
// parser in the ast subpackage.
//
// # Scanning
//
// The Scanner type implements a lexical scanner over a complete in-memory
// JSON text. Call Next to iterate over the stream; Next advances to the next
// input token and reports whether one is available:
//
//	s := jparse.NewScanner(input)
//	for s.Next() {
//	   log.Printf("Next token: %v", s.Token())
//	}
//	if s.Err() != nil {
//	   log.Fatalf("Scanning failed: %v", s.Err())
//	}
//
// Next returns false at the end of the input with a nil Err. Otherwise Err
// has concrete type [*ParseError], carrying the failure kind and the byte
// offset (with derived line and column) of the offending character.
//
// # Parsing
//
// The ast subpackage builds value trees on top of the scanner:
//
//	v, err := ast.Parse(`{"name": "John Doe", "age": 30}`)
//
// # Errors
//
// Every failure is reported as a [*ParseError]. The Kind field is a closed
// set of conditions ([UnexpectedEOF], [UnexpectedChar], [InvalidEscape],
// [InvalidUnicodeEscape], [InvalidNumber], [TrailingContent],
// [DepthExceeded]) that callers can match independently of the message text.
// The first violation detected aborts the parse; nothing is recovered or
// coerced.
package jparse
