// Copyright (C) 2025 M. Lowell. All Rights Reserved.

package jparse

import (
	"fmt"
	"strings"
)

// A Span describes a contiguous span of a source input.
type Span struct {
	Pos int // the start offset, 0-based
	End int // the end offset, 0-based (noninclusive)
}

// A LineCol describes the line number and column offset of a location in
// source text.
type LineCol struct {
	Line   int // line number, 1-based
	Column int // byte offset of column in line, 0-based
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }

// A Location describes the complete location of a range of source text,
// including line and column offsets.
type Location struct {
	Span
	First, Last LineCol
}

func (loc Location) String() string {
	if loc.First.Line == loc.Last.Line {
		return fmt.Sprintf("%d:%d-%d", loc.First.Line, loc.First.Column, loc.Last.Column)
	}
	return fmt.Sprintf("%s-%s", loc.First, loc.Last)
}

// LineColAt derives the line and column of the given byte offset in input.
// Offsets outside the input are clamped to its bounds.
func LineColAt(input string, offset int) LineCol {
	if offset > len(input) {
		offset = len(input)
	} else if offset < 0 {
		offset = 0
	}
	prefix := input[:offset]
	return LineCol{
		Line:   strings.Count(prefix, "\n") + 1,
		Column: offset - (strings.LastIndexByte(prefix, '\n') + 1),
	}
}
