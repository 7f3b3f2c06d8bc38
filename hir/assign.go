// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hir

import (
	"golang.org/x/xerrors"

	"github.com/eirlang/eirgo/ast"
)

// UnboundVariableError reports a surface Var with no binding visible at its
// scope. A parser is expected to reject this earlier in a mature pipeline;
// here it surfaces as an ordinary error rather than a panic, since nothing
// upstream of this package currently checks it.
type UnboundVariableError struct {
	Name string
	Span ast.Span
}

func (e *UnboundVariableError) Error() string {
	return xerrors.Errorf("hir: unbound variable %q at %s", e.Name, e.Span).Error()
}

// AssignFunctionGroup resolves one top-level function's clauses to a single
// HIR expression: arity fresh parameters and a Case dispatching over a
// tuple of them, one arm per clause, tried in order exactly as Erlang
// clause selection does. It shares assignClauses with anonymous fun
// literals (see AssignExpr's handling of *ast.Fun) so multi-clause
// dispatch is built exactly once.
func AssignFunctionGroup(fg *ast.FunctionGroup) ([]SSAVar, Expr, error) {
	return assignClauses(NewAssigner(), fg.Arity, fg.Clauses)
}

// assignClauses lowers a set of same-arity clauses, tried in order, into
// arity fresh parameters plus a Case expression over a tuple of them. a is
// used as-is (not reset), so a Fun literal's clauses resolve free
// identifiers against whatever outer scopes are already pushed onto a —
// exactly the lookup lambda extraction later needs to treat as captures.
func assignClauses(a *Assigner, arity int, clauses []*ast.Clause) ([]SSAVar, Expr, error) {
	params := make([]SSAVar, arity)
	for i := range params {
		params[i] = a.Fresh()
	}
	subject := make([]Expr, arity)
	for i, v := range params {
		subject[i] = &VarRef{Var: v}
	}

	var span ast.Span
	arms := make([]CaseArm, 0, len(clauses))
	for _, c := range clauses {
		if len(c.Params) != arity {
			return nil, nil, xerrors.Errorf("hir: clause at %s has %d params, want %d", c.Span, len(c.Params), arity)
		}
		a.Push()
		elemPats := make([]Pattern, arity)
		for i, p := range c.Params {
			pat, err := AssignPattern(a, p)
			if err != nil {
				a.Pop()
				return nil, nil, err
			}
			elemPats[i] = pat
		}
		guard, err := assignExprOpt(a, c.Guard)
		if err != nil {
			a.Pop()
			return nil, nil, err
		}
		body, err := assignBody(a, c.Body)
		if err != nil {
			a.Pop()
			return nil, nil, err
		}
		a.Pop()

		arms = append(arms, CaseArm{
			Pattern: &PatternTuple{Elems: elemPats, Span: c.Span},
			Guard:   guard,
			Body:    body,
			Span:    c.Span,
		})
		span = c.Span
	}

	body := Expr(&Case{
		Subject: &Tuple{Elems: subject, Span: span},
		Arms:    arms,
		Span:    span,
	})
	return params, body, nil
}

// assignBody lowers a clause or begin body (a non-empty expression
// sequence whose last value is the result) into a single Expr, wrapping in
// Begin only when there's more than one expression.
func assignBody(a *Assigner, body []ast.Expr) (Expr, error) {
	exprs := make([]Expr, len(body))
	for i, e := range body {
		le, err := AssignExpr(a, e)
		if err != nil {
			return nil, err
		}
		exprs[i] = le
	}
	if len(exprs) == 1 {
		return exprs[0], nil
	}
	return &Begin{Exprs: exprs, Span: ExprSpan(exprs[len(exprs)-1])}, nil
}

// assignExprOpt is AssignExpr, except a nil e (an absent guard or absent
// try/after clause) resolves to a nil Expr and no error.
func assignExprOpt(a *Assigner, e ast.Expr) (Expr, error) {
	if e == nil {
		return nil, nil
	}
	return AssignExpr(a, e)
}

// AssignExpr resolves every variable occurrence in e against a's current
// scope stack, returning the corresponding HIR expression.
func AssignExpr(a *Assigner, e ast.Expr) (Expr, error) {
	switch n := e.(type) {
	case *ast.Var:
		v, ok := a.Lookup(n.Name)
		if !ok {
			return nil, &UnboundVariableError{Name: n.Name, Span: n.Span}
		}
		return &VarRef{Var: v, Span: n.Span}, nil

	case *ast.LiteralExpr:
		return &Literal{Value: n.Value, Span: n.Span}, nil

	case *ast.TupleExpr:
		elems, err := assignExprList(a, n.Elems)
		if err != nil {
			return nil, err
		}
		return &Tuple{Elems: elems, Span: n.Span}, nil

	case *ast.ConsExpr:
		head, err := AssignExpr(a, n.Head)
		if err != nil {
			return nil, err
		}
		tail, err := AssignExpr(a, n.Tail)
		if err != nil {
			return nil, err
		}
		return &Cons{Head: head, Tail: tail, Span: n.Span}, nil

	case *ast.Let:
		value, err := AssignExpr(a, n.Value)
		if err != nil {
			return nil, err
		}
		a.Push()
		defer a.Pop()
		pat, err := AssignPattern(a, n.Pattern)
		if err != nil {
			return nil, err
		}
		body, err := AssignExpr(a, n.Body)
		if err != nil {
			return nil, err
		}
		return &Let{Pattern: pat, Value: value, Body: body, Span: n.Span}, nil

	case *ast.Begin:
		exprs, err := assignExprList(a, n.Exprs)
		if err != nil {
			return nil, err
		}
		return &Begin{Exprs: exprs, Span: n.Span}, nil

	case *ast.Call:
		var module, callee Expr
		var err error
		if n.Kind == ast.CallRemote {
			if module, err = AssignExpr(a, n.Module); err != nil {
				return nil, err
			}
		}
		if n.Kind == ast.CallValue {
			if callee, err = AssignExpr(a, n.Callee); err != nil {
				return nil, err
			}
		}
		args, err := assignExprList(a, n.Args)
		if err != nil {
			return nil, err
		}
		return &Call{
			Kind:   CallKind(n.Kind),
			Module: module,
			Name:   n.Name,
			Callee: callee,
			Args:   args,
			Span:   n.Span,
		}, nil

	case *ast.Case:
		subject, err := AssignExpr(a, n.Subject)
		if err != nil {
			return nil, err
		}
		arms, err := assignCaseArms(a, n.Arms)
		if err != nil {
			return nil, err
		}
		return &Case{Subject: subject, Arms: arms, Span: n.Span}, nil

	case *ast.If:
		cond, err := AssignExpr(a, n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := AssignExpr(a, n.Then)
		if err != nil {
			return nil, err
		}
		els, err := AssignExpr(a, n.Else)
		if err != nil {
			return nil, err
		}
		return &If{Cond: cond, Then: then, Else: els, Span: n.Span}, nil

	case *ast.ShortCircuit:
		left, err := AssignExpr(a, n.Left)
		if err != nil {
			return nil, err
		}
		right, err := AssignExpr(a, n.Right)
		if err != nil {
			return nil, err
		}
		return &ShortCircuit{Op: ShortCircuitOp(n.Op), Left: left, Right: right, Span: n.Span}, nil

	case *ast.Receive:
		clauses := make([]ReceiveClause, len(n.Clauses))
		for i, c := range n.Clauses {
			a.Push()
			pat, err := AssignPattern(a, c.Pattern)
			if err != nil {
				a.Pop()
				return nil, err
			}
			guard, err := assignExprOpt(a, c.Guard)
			if err != nil {
				a.Pop()
				return nil, err
			}
			body, err := AssignExpr(a, c.Body)
			a.Pop()
			if err != nil {
				return nil, err
			}
			clauses[i] = ReceiveClause{Pattern: pat, Guard: guard, Body: body, Span: c.Span}
		}
		timeout, err := assignExprOpt(a, n.Timeout)
		if err != nil {
			return nil, err
		}
		timeoutBody, err := assignExprOpt(a, n.TimeoutBody)
		if err != nil {
			return nil, err
		}
		return &Receive{Clauses: clauses, Timeout: timeout, TimeoutBody: timeoutBody, Span: n.Span}, nil

	case *ast.TryCatch:
		body, err := AssignExpr(a, n.Body)
		if err != nil {
			return nil, err
		}
		okArms, err := assignCaseArms(a, n.OkArms)
		if err != nil {
			return nil, err
		}
		catchArms := make([]CatchClause, len(n.CatchArms))
		for i, c := range n.CatchArms {
			a.Push()
			class, err := AssignPattern(a, c.Class)
			if err != nil {
				a.Pop()
				return nil, err
			}
			reason, err := AssignPattern(a, c.Reason)
			if err != nil {
				a.Pop()
				return nil, err
			}
			guard, err := assignExprOpt(a, c.Guard)
			if err != nil {
				a.Pop()
				return nil, err
			}
			cbody, err := AssignExpr(a, c.Body)
			a.Pop()
			if err != nil {
				return nil, err
			}
			catchArms[i] = CatchClause{Class: class, Reason: reason, Guard: guard, Body: cbody, Span: c.Span}
		}
		after, err := assignExprOpt(a, n.After)
		if err != nil {
			return nil, err
		}
		return &TryCatch{Body: body, OkArms: okArms, CatchArms: catchArms, After: after, Span: n.Span}, nil

	case *ast.Fun:
		if n.Clauses == nil {
			return &NamedFunRef{Name: n.Name, Arity: n.Arity, Span: n.Span}, nil
		}
		params, body, err := assignClauses(a, n.Arity, n.Clauses)
		if err != nil {
			return nil, err
		}
		return &Closure{Params: params, Body: body, Span: n.Span}, nil

	default:
		return nil, xerrors.Errorf("hir: unhandled expression kind %T at %s", n, ast.ExprSpan(e))
	}
}

func assignExprList(a *Assigner, in []ast.Expr) ([]Expr, error) {
	out := make([]Expr, len(in))
	for i, e := range in {
		le, err := AssignExpr(a, e)
		if err != nil {
			return nil, err
		}
		out[i] = le
	}
	return out, nil
}

func assignCaseArms(a *Assigner, in []ast.CaseArm) ([]CaseArm, error) {
	out := make([]CaseArm, len(in))
	for i, c := range in {
		a.Push()
		pat, err := AssignPattern(a, c.Pattern)
		if err != nil {
			a.Pop()
			return nil, err
		}
		guard, err := assignExprOpt(a, c.Guard)
		if err != nil {
			a.Pop()
			return nil, err
		}
		body, err := AssignExpr(a, c.Body)
		a.Pop()
		if err != nil {
			return nil, err
		}
		out[i] = CaseArm{Pattern: pat, Guard: guard, Body: body, Span: c.Span}
	}
	return out, nil
}

// AssignPattern resolves p, binding every PatternVar/PatternBind name to a
// fresh SSAVar in a's innermost scope.
func AssignPattern(a *Assigner, p ast.Pattern) (Pattern, error) {
	switch n := p.(type) {
	case *ast.PatternVar:
		return &PatternVar{Var: a.Bind(n.Name), Span: n.Span}, nil

	case *ast.PatternWildcard:
		return &PatternWildcard{Span: n.Span}, nil

	case *ast.PatternLiteral:
		return &PatternLiteral{Value: n.Value, Span: n.Span}, nil

	case *ast.PatternTuple:
		elems := make([]Pattern, len(n.Elems))
		for i, e := range n.Elems {
			pe, err := AssignPattern(a, e)
			if err != nil {
				return nil, err
			}
			elems[i] = pe
		}
		return &PatternTuple{Elems: elems, Span: n.Span}, nil

	case *ast.PatternCons:
		head, err := AssignPattern(a, n.Head)
		if err != nil {
			return nil, err
		}
		tail, err := AssignPattern(a, n.Tail)
		if err != nil {
			return nil, err
		}
		return &PatternCons{Head: head, Tail: tail, Span: n.Span}, nil

	case *ast.PatternBind:
		v := a.Bind(n.Name)
		inner, err := AssignPattern(a, n.Pattern)
		if err != nil {
			return nil, err
		}
		return &PatternBind{Var: v, Pattern: inner, Span: n.Span}, nil

	default:
		return nil, xerrors.Errorf("hir: unhandled pattern kind %T at %s", n, ast.PatternSpan(p))
	}
}
