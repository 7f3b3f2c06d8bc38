// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ast defines the shape of a parsed module that the lowering
// pipeline consumes. It stands in for the surface-syntax parser: nothing
// in this package tokenizes or parses source text, it only names the tree
// a parser is assumed to already have produced.
//
// The shape is modeled on the parsed-module contract in
// original_source/libeir_syntax_erl/src/parser.rs, renamed to idiomatic Go
// rather than transliterated.
package ast

import "fmt"

// Span locates a piece of surface syntax for diagnostics. It stands in for
// a codemap/diagnostics subsystem's span type; passes propagate it across
// rewrites so every generated op and value can be traced back to source.
type Span struct {
	File        string
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

func (s Span) String() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.StartLine, s.StartColumn)
}

// Module is the parsed surface AST for one module: a name, attributes, and
// the function clauses declared in it, grouped by (name, arity).
type Module struct {
	Name       string
	Attributes []Attribute
	Functions  []*FunctionGroup
	Span       Span
}

// Attribute is one atom-keyed, literal-valued module attribute, e.g.
// -export([foo/1]). or -behaviour(gen_server).
type Attribute struct {
	Name  string
	Value Literal
	Span  Span
}

// FunctionGroup collects the clauses sharing one (Name, Arity); Erlang
// functions are defined by one or more clauses tried in order.
type FunctionGroup struct {
	Name    string
	Arity   int
	Exported bool
	Clauses []*Clause
	Span    Span
}

// Clause is one function clause: a pattern per formal parameter, an
// optional guard, and a body (a non-empty sequence of expressions whose
// last value is the clause's result).
type Clause struct {
	Params []Pattern
	Guard  Expr // nil if absent
	Body   []Expr
	Span   Span
}

// Literal is a constant value as it appears in surface syntax.
type Literal struct {
	Kind LiteralKind
	// Atom/Int/Float/String/Char store their textual or numeric form in
	// Text; Tuple and List literals recurse into Elems.
	Text  string
	Elems []Literal
}

// LiteralKind enumerates the closed set of literal shapes the surface
// grammar produces.
type LiteralKind int

const (
	LitAtom LiteralKind = iota
	LitInt
	LitFloat
	LitString
	LitChar
	LitNil // the empty list, []
	LitTuple
	LitList // a literal, fully-constant cons list
)
