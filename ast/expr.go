// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ast

// Expr is the closed set of surface expression shapes the lowering
// pipeline must handle. Control-flow constructs (If, Case, Receive,
// TryCatch) become multi-successor ops; calls pass explicit return and
// exception continuations; Fun literals become closures.
type Expr interface {
	exprSpan() Span
}

// Var references a previously bound variable. One left unresolved after
// scope assignment is a source defect, not an invariant violation.
type Var struct {
	Name string
	Span Span
}

// LiteralExpr is a literal constant used as an expression.
type LiteralExpr struct {
	Value Literal
	Span  Span
}

// TupleExpr constructs a tuple from its element expressions.
type TupleExpr struct {
	Elems []Expr
	Span  Span
}

// ConsExpr constructs a non-empty list cell.
type ConsExpr struct {
	Head, Tail Expr
	Span       Span
}

// Let binds the result of Value to Pattern and evaluates Body with that
// binding in scope (Erlang's implicit `Pattern = Value, Body`).
type Let struct {
	Pattern Pattern
	Value   Expr
	Body    Expr
	Span    Span
}

// Begin sequences a list of expressions, evaluating each for effect and
// yielding the value of the last.
type Begin struct {
	Exprs []Expr
	Span  Span
}

// CallKind distinguishes how a callee is named.
type CallKind int

const (
	CallLocal  CallKind = iota // name/arity in the same module
	CallRemote                 // module:name/arity
	CallValue                  // a callable value, e.g. a closure or Fun-typed var
)

// Call invokes a function. Module is only meaningful when Kind ==
// CallRemote; Callee is only meaningful when Kind == CallValue.
type Call struct {
	Kind   CallKind
	Module Expr
	Name   string
	Callee Expr
	Args   []Expr
	Span   Span
}

// CaseArm is one arm of a Case expression: a pattern, an optional guard,
// and a body.
type CaseArm struct {
	Pattern Pattern
	Guard   Expr // nil if absent
	Body    Expr
	Span    Span
}

// Case pattern-matches Subject against each arm in order.
type Case struct {
	Subject Expr
	Arms    []CaseArm
	Span    Span
}

// If evaluates Cond and branches to Then or Else.
type If struct {
	Cond, Then, Else Expr
	Span             Span
}

// ShortCircuitOp is andalso/orelse: Right is only evaluated when Left's
// truth value doesn't already determine the result.
type ShortCircuitOp int

const (
	AndAlso ShortCircuitOp = iota
	OrElse
)

// ShortCircuit is a short-circuiting boolean operator.
type ShortCircuit struct {
	Op          ShortCircuitOp
	Left, Right Expr
	Span        Span
}

// ReceiveClause is one arm of a Receive expression.
type ReceiveClause struct {
	Pattern Pattern
	Guard   Expr // nil if absent
	Body    Expr
	Span    Span
}

// Receive matches the next message in the process mailbox against Clauses.
// Timeout, if non-nil, bounds how long to wait before evaluating
// TimeoutBody instead.
type Receive struct {
	Clauses     []ReceiveClause
	Timeout     Expr
	TimeoutBody Expr
	Span        Span
}

// CatchClause is one arm of a TryCatch's catch section, matching on the
// raised Class (throw/error/exit) and a pattern for the reason.
type CatchClause struct {
	Class   Pattern
	Reason  Pattern
	Guard   Expr // nil if absent
	Body    Expr
	Span    Span
}

// TryCatch evaluates Body; on a normal return it pattern-matches the
// result against OkArms (if present). On an exception it pattern-matches
// against CatchArms. After either path, After (if present) always runs.
type TryCatch struct {
	Body      Expr
	OkArms    []CaseArm
	CatchArms []CatchClause
	After     Expr // nil if absent
	Span      Span
}

// Fun is a closure literal: it may reference a local function (Name,
// Arity) or carry its own Clauses directly (an anonymous fun).
type Fun struct {
	Name    string // "" for an anonymous fun
	Arity   int
	Clauses []*Clause
	Span    Span
}

func (e *Var) exprSpan() Span          { return e.Span }
func (e *LiteralExpr) exprSpan() Span  { return e.Span }
func (e *TupleExpr) exprSpan() Span    { return e.Span }
func (e *ConsExpr) exprSpan() Span     { return e.Span }
func (e *Let) exprSpan() Span          { return e.Span }
func (e *Begin) exprSpan() Span        { return e.Span }
func (e *Call) exprSpan() Span         { return e.Span }
func (e *Case) exprSpan() Span         { return e.Span }
func (e *If) exprSpan() Span           { return e.Span }
func (e *ShortCircuit) exprSpan() Span { return e.Span }
func (e *Receive) exprSpan() Span      { return e.Span }
func (e *TryCatch) exprSpan() Span     { return e.Span }
func (e *Fun) exprSpan() Span          { return e.Span }

// ExprSpan returns e's source span.
func ExprSpan(e Expr) Span { return e.exprSpan() }
