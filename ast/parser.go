// Copyright (C) 2025 M. Lowell. All Rights Reserved.

package ast

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/mlowell/jparse"
)

// DefaultMaxDepth is the container nesting limit applied to new parsers.
// Nesting depth maps directly onto call-stack depth, so the limit bounds
// stack usage on adversarial input.
const DefaultMaxDepth = 1000

// A Parser builds a value tree from a complete in-memory JSON text.
//
// A Parser may be reused: each call to Parse rescans the input from the
// beginning and performs a complete, independent parse.
type Parser struct {
	input    string
	maxDepth int
	comments bool
	tcomma   bool

	sc    *jparse.Scanner
	depth int
}

// NewParser constructs a parser positioned at the start of input.
func NewParser(input string) *Parser {
	return &Parser{input: input, maxDepth: DefaultMaxDepth}
}

// SetMaxDepth sets the maximum container nesting depth the parser will
// accept before reporting a [jparse.DepthExceeded] error. Values less than 1
// restore [DefaultMaxDepth].
func (p *Parser) SetMaxDepth(n int) {
	if n < 1 {
		n = DefaultMaxDepth
	}
	p.maxDepth = n
}

// AllowComments configures the parser to skip (true) or reject (false)
// C++ style comments in the input. Comments are a non-standard extension of
// the JSON grammar and are rejected by default.
func (p *Parser) AllowComments(ok bool) { p.comments = ok }

// AllowTrailingCommas configures the parser to allow (true) or reject
// (false) a comma before the closing bracket of an object or array. The
// grammar forbids trailing commas, and they are rejected by default.
func (p *Parser) AllowTrailingCommas(ok bool) { p.tcomma = ok }

// Parse parses the input and returns the root of its value tree. The input
// must comprise exactly one JSON value, optionally surrounded by
// insignificant whitespace; anything else is reported as a
// [*jparse.ParseError] carrying the position of the first violation. No
// partial tree is returned on failure.
func (p *Parser) Parse() (_ Value, err error) {
	defer p.recoverParseError(&err)

	p.sc = jparse.NewScanner(p.input)
	p.sc.AllowComments(p.comments)
	p.depth = 0

	if !p.nextToken() {
		p.failf(len(p.input), jparse.UnexpectedEOF, "no value found")
	}
	v := p.parseValue()
	if p.nextToken() {
		p.failf(p.sc.Span().Pos, jparse.TrailingContent, "extra %v after value", p.sc.Token())
	}
	return v, nil
}

// Parse parses input and returns the root of its value tree. It is
// shorthand for constructing a Parser and invoking its Parse method.
func Parse(input string) (Value, error) { return NewParser(input).Parse() }

// MustParse is like Parse, but panics on error. It is intended for static
// fixtures whose validity is known.
func MustParse(input string) Value {
	v, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return v
}

// parseValue consumes a single value of any type.
// Precondition: the scanner is positioned on the first token of the value.
func (p *Parser) parseValue() Value {
	pos := p.sc.Span().Pos
	switch tok := p.sc.Token(); tok {
	case jparse.LBrace:
		return p.parseObject(pos)
	case jparse.LSquare:
		return p.parseArray(pos)
	case jparse.String:
		return p.parseString()
	case jparse.Integer, jparse.Number:
		return p.parseNumber()
	case jparse.True, jparse.False:
		return Bool{datum: p.datum(), value: tok == jparse.True}
	case jparse.Null:
		return Null{datum: p.datum()}
	default:
		p.failf(pos, jparse.UnexpectedChar, "unexpected %v", tok)
		panic("unreachable")
	}
}

// parseObject consumes an object whose open brace is the current token.
func (p *Parser) parseObject(pos int) *Object {
	p.push(pos)
	defer p.pop()

	obj := &Object{pos: pos}
	if tok := p.advance(jparse.RBrace, jparse.String); tok == jparse.RBrace {
		obj.end = p.sc.Span().End
		return obj // empty object
	}
	for {
		obj.Members = append(obj.Members, p.parseMember())

		// Check whether we have more members (",") or are done ("}").
		if tok := p.advance(jparse.RBrace, jparse.Comma); tok == jparse.RBrace {
			break
		}
		if p.tcomma {
			// If trailing commas are allowed and the next token is a close
			// brace, consider this a valid end of the object. Otherwise it
			// must be the key of a subsequent member.
			if next := p.advance(jparse.String, jparse.RBrace); next == jparse.RBrace {
				break
			}
		} else {
			p.advance(jparse.String) // advance to next key
		}
	}
	obj.end = p.sc.Span().End
	return obj
}

// parseMember consumes a single "key": value member whose key is the current
// token.
func (p *Parser) parseMember() *Member {
	key := p.parseString()
	m := &Member{pos: key.pos, Key: key.Value()}
	p.advance(jparse.Colon)
	p.advance()
	m.Value = p.parseValue()
	m.end = m.Value.Span().End
	return m
}

// parseArray consumes an array whose open bracket is the current token.
func (p *Parser) parseArray(pos int) *Array {
	p.push(pos)
	defer p.pop()

	arr := &Array{pos: pos}
	if tok := p.advance(); tok == jparse.RSquare {
		arr.end = p.sc.Span().End
		return arr // empty array
	}
	for {
		arr.Values = append(arr.Values, p.parseValue())

		if tok := p.advance(jparse.RSquare, jparse.Comma); tok == jparse.RSquare {
			break
		}

		// If trailing commas are allowed and the next token is a close
		// bracket, consider this a valid end of the array; otherwise the
		// token begins the next element.
		if next := p.advance(); p.tcomma && next == jparse.RSquare {
			break
		}
	}
	arr.end = p.sc.Span().End
	return arr
}

func (p *Parser) parseString() String {
	d := p.datum()
	dec, err := jparse.Unquote(d.text)
	if err != nil {
		// Unreachable in practice: the scanner fully validates escapes.
		p.failf(d.pos, jparse.InvalidEscape, "decode string: %v", err)
	}
	return String{datum: d, value: dec}
}

func (p *Parser) parseNumber() Number {
	d := p.datum()
	v, err := strconv.ParseFloat(d.text, 64)
	if err != nil {
		// The lexeme already satisfies the number grammar, so the only
		// failure left is range overflow (e.g. 1e999), rejected to keep
		// Number finite.
		p.failf(d.pos, jparse.InvalidNumber, "number %s out of range", d.text)
	}
	return Number{datum: d, value: v}
}

// datum captures the position and raw text of the current token.
func (p *Parser) datum() datum {
	sp := p.sc.Span()
	return datum{pos: sp.Pos, end: sp.End, text: p.sc.Text()}
}

// nextToken advances the scanner to the next non-comment token. It reports
// false at the end of the input, and panics with the scanner's *ParseError
// if scanning fails.
func (p *Parser) nextToken() bool {
	for p.sc.Next() {
		if tok := p.sc.Token(); tok == jparse.LineComment || tok == jparse.BlockComment {
			continue
		}
		return true
	}
	if err := p.sc.Err(); err != nil {
		panic(err.(*jparse.ParseError))
	}
	return false
}

// advance moves to the next token of the input. If token types are given,
// any other token is an error. Reaching the end of the input is always an
// error here: advance is only called while a construct is incomplete.
func (p *Parser) advance(tokens ...jparse.Token) jparse.Token {
	if !p.nextToken() {
		p.failf(len(p.input), jparse.UnexpectedEOF, "%s", tokLabel(tokens, "end of input"))
	}
	tok := p.sc.Token()
	if len(tokens) != 0 && !slices.Contains(tokens, tok) {
		p.failf(p.sc.Span().Pos, jparse.UnexpectedChar, "%s", tokLabel(tokens, tok))
	}
	return tok
}

// push records entry into a container whose opening bracket is at pos,
// enforcing the nesting limit.
func (p *Parser) push(pos int) {
	p.depth++
	if p.depth > p.maxDepth {
		p.failf(pos, jparse.DepthExceeded, "nesting exceeds %d levels", p.maxDepth)
	}
}

func (p *Parser) pop() { p.depth-- }

// failf aborts the parse with a positioned error. It does not return.
func (p *Parser) failf(offset int, kind jparse.ErrKind, msg string, args ...any) {
	panic(&jparse.ParseError{
		Kind:    kind,
		Offset:  offset,
		Pos:     jparse.LineColAt(p.input, offset),
		Message: fmt.Sprintf(msg, args...),
	})
}

func (p *Parser) recoverParseError(errp *error) {
	if v := recover(); v != nil {
		if perr, ok := v.(*jparse.ParseError); ok {
			*errp = perr
			return
		}
		panic(v)
	}
}

// tokLabel makes a human-readable summary string for the given token types.
func tokLabel(tokens []jparse.Token, got any) string {
	if len(tokens) == 0 {
		return fmt.Sprintf("unexpected %v", got)
	}
	var exp string
	if len(tokens) == 1 {
		exp = tokens[0].String()
	} else {
		last := len(tokens) - 1
		ss := make([]string, len(tokens)-1)
		for i, tok := range tokens[:last] {
			ss[i] = tok.String()
		}
		exp = strings.Join(ss, ", ") + " or " + tokens[last].String()
	}
	return fmt.Sprintf("expected %s, got %v", exp, got)
}
