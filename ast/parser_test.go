// Copyright (C) 2025 M. Lowell. All Rights Reserved.

package ast_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mlowell/jparse"
	"github.com/mlowell/jparse/ast"
)

// flatten reduces a value tree to plain data for comparison: objects become
// ordered [][2]any key/value pairs (duplicates preserved), arrays []any, and
// leaves their decoded values.
func flatten(v ast.Value) any {
	switch t := v.(type) {
	case *ast.Object:
		out := make([][2]any, len(t.Members))
		for i, m := range t.Members {
			out[i] = [2]any{m.Key, flatten(m.Value)}
		}
		return out
	case *ast.Array:
		out := make([]any, len(t.Values))
		for i, e := range t.Values {
			out[i] = flatten(e)
		}
		return out
	case ast.String:
		return t.Value()
	case ast.Number:
		return t.Float64()
	case ast.Bool:
		return t.Value()
	default:
		return nil
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  any
	}{
		{`null`, nil},
		{`true`, true},
		{`false`, false},
		{`0`, 0.0},
		{`-15.75`, -15.75},
		{`"hello"`, "hello"},
		{`""`, ""},
		{`[]`, []any{}},
		{`{}`, [][2]any{}},
		{`[1, "two", false, null]`, []any{1.0, "two", false, nil}},
		{`{"a": 1, "b": [true]}`, [][2]any{{"a", 1.0}, {"b", []any{true}}}},
		{`{"deep": {"er": {"est": []}}}`,
			[][2]any{{"deep", [][2]any{{"er", [][2]any{{"est", []any{}}}}}}}},
		{"\n\t [true,\r\n  false ] \n", []any{true, false}},
	}
	for _, tc := range tests {
		v, err := ast.Parse(tc.input)
		if err != nil {
			t.Errorf("Parse %#q: unexpected error: %v", tc.input, err)
			continue
		}
		if diff := cmp.Diff(flatten(v), tc.want); diff != "" {
			t.Errorf("Parse %#q: (-got, +want)\n%s", tc.input, diff)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input  string
		kind   jparse.ErrKind
		offset int
	}{
		// Empty or blank input has no value at all.
		{``, jparse.UnexpectedEOF, 0},
		{`   `, jparse.UnexpectedEOF, 3},

		// A member must have a value after its colon.
		{`{"a":}`, jparse.UnexpectedChar, 5},

		// Trailing commas are rejected; the error points at the bracket.
		{`[1,2,]`, jparse.UnexpectedChar, 5},
		{`{"a":1,}`, jparse.UnexpectedChar, 7},

		// Exactly one top-level value is allowed.
		{`null true`, jparse.TrailingContent, 5},
		{`{} {}`, jparse.TrailingContent, 3},
		{`1 2`, jparse.TrailingContent, 2},

		// Incomplete containers run off the end of the input.
		{`{"a":1`, jparse.UnexpectedEOF, 6},
		{`[1,2`, jparse.UnexpectedEOF, 4},
		{`{`, jparse.UnexpectedEOF, 1},

		// Object keys must be strings, members comma-separated.
		{`{1: 2}`, jparse.UnexpectedChar, 1},
		{`[1 2]`, jparse.UnexpectedChar, 3},
		{`{"a" 1}`, jparse.UnexpectedChar, 5},

		// Malformed numbers surface from the scanner with their position.
		{`01`, jparse.InvalidNumber, 0},
		{`[-]`, jparse.InvalidNumber, 2},
		{`1e999`, jparse.InvalidNumber, 0},
	}
	for _, tc := range tests {
		v, err := ast.Parse(tc.input)
		if err == nil {
			t.Errorf("Parse %#q: got %+v, wanted error", tc.input, v)
			continue
		}
		var perr *jparse.ParseError
		if !errors.As(err, &perr) {
			t.Errorf("Parse %#q: error %v is not a *jparse.ParseError", tc.input, err)
			continue
		}
		if perr.Kind != tc.kind || perr.Offset != tc.offset {
			t.Errorf("Parse %#q: got %v at offset %d, want %v at offset %d",
				tc.input, perr.Kind, perr.Offset, tc.kind, tc.offset)
		}
		if want := jparse.LineColAt(tc.input, tc.offset); perr.Pos != want {
			t.Errorf("Parse %#q: got position %v, want %v", tc.input, perr.Pos, want)
		}
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{`0`, 0},
		{`-0`, math.Copysign(0, -1)},
		{`30`, 30},
		{`-3.14`, -3.14},
		{`1.5e-3`, 0.0015},
		{`3e10`, 3e10},
		{`2E+2`, 200},
	}
	for _, tc := range tests {
		v, err := ast.Parse(tc.input)
		if err != nil {
			t.Errorf("Parse %#q: unexpected error: %v", tc.input, err)
			continue
		}
		num, ok := v.(ast.Number)
		if !ok {
			t.Errorf("Parse %#q: got %T, want ast.Number", tc.input, v)
			continue
		}
		got := num.Float64()
		if got != tc.want || math.Signbit(got) != math.Signbit(tc.want) {
			t.Errorf("Parse %#q: got %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{`"\u0041"`, "A"},
		{`"a\tb\nc"`, "a\tb\nc"},
		{`"q\\\/\"e"`, `q\/"e`},
		{`"\uD83D\uDE00"`, "😀"}, // surrogate pair
	}
	for _, tc := range tests {
		v, err := ast.Parse(tc.input)
		if err != nil {
			t.Errorf("Parse %#q: unexpected error: %v", tc.input, err)
			continue
		}
		s, ok := v.(ast.String)
		if !ok {
			t.Errorf("Parse %#q: got %T, want ast.String", tc.input, v)
			continue
		}
		if got := s.Value(); got != tc.want {
			t.Errorf("Parse %#q: got %q, want %q", tc.input, got, tc.want)
		}
	}

	// An unpaired surrogate is an error at the offset of its backslash.
	v, err := ast.Parse(`"\uD800"`)
	if err == nil {
		t.Fatalf(`Parse "\\uD800": got %+v, wanted error`, v)
	}
	var perr *jparse.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Error %v is not a *jparse.ParseError", err)
	}
	if perr.Kind != jparse.InvalidUnicodeEscape || perr.Offset != 1 {
		t.Errorf("Got %v at offset %d, want %v at offset 1",
			perr.Kind, perr.Offset, jparse.InvalidUnicodeEscape)
	}
}

func TestDuplicateKeys(t *testing.T) {
	obj := ast.MustParse(`{"a": 1, "b": 2, "a": 3}`).(*ast.Object)
	if len(obj.Members) != 3 {
		t.Fatalf("Got %d members, want 3", len(obj.Members))
	}
	m := obj.Find("a")
	if m == nil {
		t.Fatal(`Key "a" not found`)
	}
	if got := m.Value.(ast.Number).Float64(); got != 1 {
		t.Errorf(`Find("a"): got %v, want first occurrence 1`, got)
	}
}

func TestParserReuse(t *testing.T) {
	p := ast.NewParser(`{"a": [1, 2], "b": "c"}`)

	v1, err := p.Parse()
	if err != nil {
		t.Fatalf("First parse: unexpected error: %v", err)
	}
	v2, err := p.Parse()
	if err != nil {
		t.Fatalf("Second parse: unexpected error: %v", err)
	}
	if diff := cmp.Diff(flatten(v1), flatten(v2)); diff != "" {
		t.Errorf("Parses disagree: (-first, +second)\n%s", diff)
	}
}

func TestMaxDepth(t *testing.T) {
	p := ast.NewParser(`[[[{"a": 1}]]]`)
	p.SetMaxDepth(4)
	if _, err := p.Parse(); err != nil {
		t.Errorf("Depth 4 of 4: unexpected error: %v", err)
	}
	p.SetMaxDepth(3)
	checkDepthError(t, p, 3)

	// At most maxDepth nested containers fit on the value stack.
	deep := strings.Repeat("[", 1000) + strings.Repeat("]", 1000)
	if _, err := ast.Parse(deep); err != nil {
		t.Errorf("Depth 1000: unexpected error: %v", err)
	}
	checkDepthError(t, ast.NewParser(strings.Repeat("[", 1001)), 1000)
}

func checkDepthError(t *testing.T, p *ast.Parser, wantOffset int) {
	t.Helper()
	v, err := p.Parse()
	if err == nil {
		t.Fatalf("Parse: got %+v, wanted error", v)
	}
	var perr *jparse.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Error %v is not a *jparse.ParseError", err)
	}
	if perr.Kind != jparse.DepthExceeded || perr.Offset != wantOffset {
		t.Errorf("Got %v at offset %d, want %v at offset %d",
			perr.Kind, perr.Offset, jparse.DepthExceeded, wantOffset)
	}
}

func TestRelaxedOptions(t *testing.T) {
	t.Run("TrailingCommas", func(t *testing.T) {
		p := ast.NewParser(`{"a": [1, 2,],}`)
		if v, err := p.Parse(); err == nil {
			t.Errorf("Default parse: got %+v, wanted error", v)
		}
		p.AllowTrailingCommas(true)
		v, err := p.Parse()
		if err != nil {
			t.Fatalf("Relaxed parse: unexpected error: %v", err)
		}
		want := [][2]any{{"a", []any{1.0, 2.0}}}
		if diff := cmp.Diff(flatten(v), want); diff != "" {
			t.Errorf("Relaxed parse: (-got, +want)\n%s", diff)
		}
	})

	t.Run("Comments", func(t *testing.T) {
		const input = `[1, // one
  /* and */ 2]`
		p := ast.NewParser(input)
		if v, err := p.Parse(); err == nil {
			t.Errorf("Default parse: got %+v, wanted error", v)
		}
		p.AllowComments(true)
		v, err := p.Parse()
		if err != nil {
			t.Fatalf("Relaxed parse: unexpected error: %v", err)
		}
		if diff := cmp.Diff(flatten(v), []any{1.0, 2.0}); diff != "" {
			t.Errorf("Relaxed parse: (-got, +want)\n%s", diff)
		}
	})
}
