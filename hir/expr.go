// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hir

import (
	"github.com/eirlang/eirgo/ast"
	"github.com/eirlang/eirgo/ir"
)

// Expr mirrors ast.Expr's shapes, with every variable occurrence already
// resolved to an SSAVar, plus two forms ast.Expr has no equivalent of:
// Closure (a capturing fun literal, before extraction) and MakeClosure
// (what lambda extraction rewrites it to).
type Expr interface {
	exprSpan() ast.Span
}

// VarRef references a resolved binding.
type VarRef struct {
	Var  SSAVar
	Span ast.Span
}

// Literal is a constant value used as an expression.
type Literal struct {
	Value ast.Literal
	Span  ast.Span
}

// Tuple constructs a tuple from its element expressions.
type Tuple struct {
	Elems []Expr
	Span  ast.Span
}

// Cons constructs a non-empty list cell.
type Cons struct {
	Head, Tail Expr
	Span       ast.Span
}

// Let binds the result of Value to Pattern and evaluates Body with it in
// scope.
type Let struct {
	Pattern Pattern
	Value   Expr
	Body    Expr
	Span    ast.Span
}

// Begin sequences a list of expressions for effect, yielding the value of
// the last.
type Begin struct {
	Exprs []Expr
	Span  ast.Span
}

// CallKind distinguishes how a callee is named; numerically aligned with
// ast.CallKind.
type CallKind int

const (
	CallLocal CallKind = iota
	CallRemote
	CallValue
)

// Call invokes a function. Module is only meaningful when Kind ==
// CallRemote; Callee is only meaningful when Kind == CallValue.
type Call struct {
	Kind   CallKind
	Module Expr
	Name   string
	Callee Expr
	Args   []Expr
	Span   ast.Span
}

// CaseArm is one arm of a Case: a pattern, an optional guard, and a body.
type CaseArm struct {
	Pattern Pattern
	Guard   Expr
	Body    Expr
	Span    ast.Span
}

// Case pattern-matches Subject against each arm in order.
type Case struct {
	Subject Expr
	Arms    []CaseArm
	Span    ast.Span
}

// If evaluates Cond and branches to Then or Else.
type If struct {
	Cond, Then, Else Expr
	Span             ast.Span
}

// ShortCircuitOp is andalso/orelse.
type ShortCircuitOp int

const (
	AndAlso ShortCircuitOp = iota
	OrElse
)

// ShortCircuit is a short-circuiting boolean operator.
type ShortCircuit struct {
	Op          ShortCircuitOp
	Left, Right Expr
	Span        ast.Span
}

// ReceiveClause is one arm of a Receive.
type ReceiveClause struct {
	Pattern Pattern
	Guard   Expr
	Body    Expr
	Span    ast.Span
}

// Receive matches the next mailbox message against Clauses, falling back
// to TimeoutBody if Timeout elapses first.
type Receive struct {
	Clauses     []ReceiveClause
	Timeout     Expr
	TimeoutBody Expr
	Span        ast.Span
}

// CatchClause is one arm of a TryCatch's catch section.
type CatchClause struct {
	Class   Pattern
	Reason  Pattern
	Guard   Expr
	Body    Expr
	Span    ast.Span
}

// TryCatch evaluates Body, dispatching a normal result to OkArms and an
// exception to CatchArms; After, if present, always runs afterward.
type TryCatch struct {
	Body      Expr
	OkArms    []CaseArm
	CatchArms []CatchClause
	After     Expr
	Span      ast.Span
}

// NamedFunRef references a module-local named function as a value
// (Erlang's `fun Name/Arity`), as opposed to a capturing closure literal.
// It never needs lambda extraction: it carries no captures.
type NamedFunRef struct {
	Name  string
	Arity int
	Span  ast.Span
}

// Closure is a capturing fun literal prior to lambda extraction: Params
// are the closure's own formal arguments (already fresh SSAVars; a
// multi-clause fun's per-clause patterns are compiled into a Case dispatch
// inside Body over a tuple of Params). Lambda extraction replaces every
// Closure with a MakeClosure once it has computed the free variables of
// Body that Params does not already bind.
type Closure struct {
	Params []SSAVar
	Body   Expr
	Span   ast.Span
}

// MakeClosure is what lambda extraction rewrites a Closure into: Ident
// names a synthesized top-level function (see lambda.go) whose leading
// parameters are Captures, in order, followed by the original Closure's
// own Params. EnvIdx is the index, within the module's LambdaEnvs, of the
// environment this closure's function was lifted into — shared by every
// other function lifted out of the same enclosing scope group.
type MakeClosure struct {
	Ident    ir.FunctionIdent
	Captures []SSAVar
	EnvIdx   int
	Span     ast.Span
}

func (e *VarRef) exprSpan() ast.Span      { return e.Span }
func (e *Literal) exprSpan() ast.Span     { return e.Span }
func (e *Tuple) exprSpan() ast.Span       { return e.Span }
func (e *Cons) exprSpan() ast.Span        { return e.Span }
func (e *Let) exprSpan() ast.Span         { return e.Span }
func (e *Begin) exprSpan() ast.Span       { return e.Span }
func (e *Call) exprSpan() ast.Span        { return e.Span }
func (e *Case) exprSpan() ast.Span        { return e.Span }
func (e *If) exprSpan() ast.Span          { return e.Span }
func (e *ShortCircuit) exprSpan() ast.Span { return e.Span }
func (e *Receive) exprSpan() ast.Span     { return e.Span }
func (e *TryCatch) exprSpan() ast.Span    { return e.Span }
func (e *NamedFunRef) exprSpan() ast.Span { return e.Span }
func (e *Closure) exprSpan() ast.Span     { return e.Span }
func (e *MakeClosure) exprSpan() ast.Span { return e.Span }

// ExprSpan returns e's source span.
func ExprSpan(e Expr) ast.Span { return e.exprSpan() }
