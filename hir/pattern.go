// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hir

import "github.com/eirlang/eirgo/ast"

// Pattern mirrors ast.Pattern's shapes, with every bound name already
// resolved to a fresh SSAVar.
type Pattern interface {
	patternSpan() ast.Span
}

// PatternVar binds Var to whatever value is matched here.
type PatternVar struct {
	Var  SSAVar
	Span ast.Span
}

// PatternWildcard matches anything and binds nothing.
type PatternWildcard struct {
	Span ast.Span
}

// PatternLiteral matches a literal constant exactly.
type PatternLiteral struct {
	Value ast.Literal
	Span  ast.Span
}

// PatternTuple matches a fixed-arity tuple, one sub-pattern per element.
type PatternTuple struct {
	Elems []Pattern
	Span  ast.Span
}

// PatternCons matches a non-empty list as (Head, Tail).
type PatternCons struct {
	Head, Tail Pattern
	Span       ast.Span
}

// PatternBind binds Var to the whole matched value in addition to
// matching Pattern against it.
type PatternBind struct {
	Var     SSAVar
	Pattern Pattern
	Span    ast.Span
}

func (p *PatternVar) patternSpan() ast.Span      { return p.Span }
func (p *PatternWildcard) patternSpan() ast.Span { return p.Span }
func (p *PatternLiteral) patternSpan() ast.Span  { return p.Span }
func (p *PatternTuple) patternSpan() ast.Span    { return p.Span }
func (p *PatternCons) patternSpan() ast.Span     { return p.Span }
func (p *PatternBind) patternSpan() ast.Span     { return p.Span }

// PatternSpan returns p's source span.
func PatternSpan(p Pattern) ast.Span { return p.patternSpan() }

// PatternVars returns the SSAVars p binds, left to right. Lambda extraction
// uses it to find a pattern's binding occurrences when computing which of
// them are free in an enclosing closure; lowering uses it to bind a case
// or receive arm block's formal arguments in matching order.
func PatternVars(p Pattern) []SSAVar { return patternVars(p) }

// patternVars returns the SSAVars p binds, left to right.
func patternVars(p Pattern) []SSAVar {
	switch n := p.(type) {
	case *PatternVar:
		return []SSAVar{n.Var}
	case *PatternWildcard, *PatternLiteral:
		return nil
	case *PatternTuple:
		var out []SSAVar
		for _, e := range n.Elems {
			out = append(out, patternVars(e)...)
		}
		return out
	case *PatternCons:
		out := patternVars(n.Head)
		return append(out, patternVars(n.Tail)...)
	case *PatternBind:
		out := []SSAVar{n.Var}
		return append(out, patternVars(n.Pattern)...)
	default:
		panic("hir: unhandled pattern kind")
	}
}
