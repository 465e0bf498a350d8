// Copyright (C) 2025 M. Lowell. All Rights Reserved.

// Package ast defines a value tree for JSON documents, and a recursive
// descent parser that constructs trees from JSON source.
package ast

import (
	"github.com/mlowell/jparse"
)

// A Value is an arbitrary JSON value. The concrete type of a Value is one of
// Null, Bool, Number, String, *Array, or *Object; callers recover the typed
// payload with a type switch or assertion.
type Value interface{ Span() jparse.Span }

// A Datum is a Value with a source text representation.
type Datum interface {
	Value
	Text() string
}

func newSpan(pos, end int) jparse.Span { return jparse.Span{Pos: pos, End: end} }

// An Object is a collection of key-value members. Members preserve the order
// in which the keys occurred in the source, and duplicate keys are retained.
type Object struct {
	pos, end int

	Members []*Member
}

// Span satisfies the Value interface.
func (o *Object) Span() jparse.Span { return newSpan(o.pos, o.end) }

// Find returns the first member of o with the given key, or nil.
func (o *Object) Find(key string) *Member {
	for _, m := range o.Members {
		if m.Key == key {
			return m
		}
	}
	return nil
}

// A Member is a single key-value pair belonging to an Object. Key is the
// decoded (unescaped) text of the member key.
type Member struct {
	pos, end int

	Key   string
	Value Value
}

// Span satisfies the Value interface.
func (m *Member) Span() jparse.Span { return newSpan(m.pos, m.end) }

// An Array is a sequence of values.
type Array struct {
	pos, end int

	Values []Value
}

// Span satisfies the Value interface.
func (a *Array) Span() jparse.Span { return newSpan(a.pos, a.end) }

type datum struct {
	pos, end int
	text     string
}

// Span satisfies the Value interface.
func (d datum) Span() jparse.Span { return newSpan(d.pos, d.end) }

// Text satisfies the Datum interface. It reports the raw source lexeme of
// the value, undecoded.
func (d datum) Text() string { return d.text }

// A Number is a numeric value. All JSON numbers, integer or fractional, are
// represented as float64; the value is always finite.
type Number struct {
	datum
	value float64
}

// Float64 returns the numeric value.
func (n Number) Float64() float64 { return n.value }

// A Bool is a Boolean constant, true or false.
type Bool struct {
	datum
	value bool
}

// Value returns the truth value.
func (b Bool) Value() bool { return b.value }

// A String is a string value. Its contents are fully unescaped: escape
// sequences, including surrogate pairs, were resolved when the tree was
// built.
type String struct {
	datum
	value string
}

// Value returns the decoded text of the string.
func (s String) Value() string { return s.value }

// Null represents the null constant.
type Null struct{ datum }
