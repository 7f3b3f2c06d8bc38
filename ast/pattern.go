// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ast

// Pattern is the closed set of pattern shapes a clause head, a case arm, or
// a receive clause can match against. Every PatternVar introduces a fresh
// binding (see hir's scope tracker); it never tests equality against an
// outer variable of the same name, even when the names collide.
type Pattern interface {
	patternSpan() Span
}

// PatternVar binds Name to whatever value is matched here.
type PatternVar struct {
	Name string
	Span Span
}

// PatternWildcard matches anything and binds nothing (Erlang's `_`).
type PatternWildcard struct {
	Span Span
}

// PatternLiteral matches a literal constant exactly.
type PatternLiteral struct {
	Value Literal
	Span  Span
}

// PatternTuple matches a fixed-arity tuple, one sub-pattern per element.
type PatternTuple struct {
	Elems []Pattern
	Span  Span
}

// PatternCons matches a non-empty list as (Head, Tail).
type PatternCons struct {
	Head, Tail Pattern
	Span       Span
}

// PatternBind names a sub-pattern and also binds the whole matched value to
// Name (Erlang's `Name = Pattern`).
type PatternBind struct {
	Name    string
	Pattern Pattern
	Span    Span
}

func (p *PatternVar) patternSpan() Span     { return p.Span }
func (p *PatternWildcard) patternSpan() Span { return p.Span }
func (p *PatternLiteral) patternSpan() Span { return p.Span }
func (p *PatternTuple) patternSpan() Span   { return p.Span }
func (p *PatternCons) patternSpan() Span    { return p.Span }
func (p *PatternBind) patternSpan() Span    { return p.Span }

// PatternSpan returns p's source span.
func PatternSpan(p Pattern) Span { return p.patternSpan() }
