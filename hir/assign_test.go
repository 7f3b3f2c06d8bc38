// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hir

import (
	"testing"

	"github.com/eirlang/eirgo/ast"
)

// TestAssignFunctionGroupSingleClauseNoGuard checks a single-clause
// function lowers to a Case over one tuple-pattern arm matching its
// parameters directly.
func TestAssignFunctionGroupSingleClauseNoGuard(t *testing.T) {
	fg := &ast.FunctionGroup{
		Name: "id", Arity: 1,
		Clauses: []*ast.Clause{{
			Params: []ast.Pattern{&ast.PatternVar{Name: "X"}},
			Body:   []ast.Expr{&ast.Var{Name: "X"}},
		}},
	}
	params, body, err := AssignFunctionGroup(fg)
	if err != nil {
		t.Fatalf("AssignFunctionGroup: %v", err)
	}
	if len(params) != 1 {
		t.Fatalf("len(params) = %d, want 1", len(params))
	}
	c, ok := body.(*Case)
	if !ok {
		t.Fatalf("body = %T, want *Case", body)
	}
	if len(c.Arms) != 1 {
		t.Fatalf("len(Arms) = %d, want 1", len(c.Arms))
	}
	ref, ok := c.Arms[0].Body.(*VarRef)
	if !ok || ref.Var != params[0] {
		t.Fatalf("arm body = %+v, want VarRef to the clause's own param", c.Arms[0].Body)
	}
}

// TestAssignFunctionGroupArityMismatchErrors checks a clause whose
// parameter count disagrees with the group's declared arity is rejected
// rather than silently truncated or panicking.
func TestAssignFunctionGroupArityMismatchErrors(t *testing.T) {
	fg := &ast.FunctionGroup{
		Name: "bad", Arity: 2,
		Clauses: []*ast.Clause{{
			Params: []ast.Pattern{&ast.PatternVar{Name: "X"}},
			Body:   []ast.Expr{&ast.Var{Name: "X"}},
		}},
	}
	if _, _, err := AssignFunctionGroup(fg); err == nil {
		t.Fatalf("AssignFunctionGroup succeeded, want an arity-mismatch error")
	}
}

// TestAssignExprUnboundVariableErrors checks a free reference with no
// enclosing binding reports *UnboundVariableError rather than panicking
// or silently resolving to a zero-value SSAVar.
func TestAssignExprUnboundVariableErrors(t *testing.T) {
	a := NewAssigner()
	_, err := AssignExpr(a, &ast.Var{Name: "Nope"})
	if err == nil {
		t.Fatalf("AssignExpr succeeded, want unbound-variable error")
	}
	var unbound *UnboundVariableError
	if e, ok := err.(*UnboundVariableError); ok {
		unbound = e
	}
	if unbound == nil || unbound.Name != "Nope" {
		t.Fatalf("err = %v, want *UnboundVariableError{Name: \"Nope\"}", err)
	}
}

// TestAssignExprLetShadowsWithFreshVar checks `let X = 1 in let X = 2 in
// X` resolves the inner X to a distinct SSAVar than the outer binding,
// and that the outer binding is restored once the inner scope pops.
func TestAssignExprLetShadowsWithFreshVar(t *testing.T) {
	a := NewAssigner()
	e := &ast.Let{
		Pattern: &ast.PatternVar{Name: "X"},
		Value:   &ast.LiteralExpr{Value: ast.Literal{Kind: ast.LitInt, Text: "1"}},
		Body: &ast.Let{
			Pattern: &ast.PatternVar{Name: "X"},
			Value:   &ast.LiteralExpr{Value: ast.Literal{Kind: ast.LitInt, Text: "2"}},
			Body:    &ast.Var{Name: "X"},
		},
	}
	got, err := AssignExpr(a, e)
	if err != nil {
		t.Fatalf("AssignExpr: %v", err)
	}
	outerLet, ok := got.(*Let)
	if !ok {
		t.Fatalf("got = %T, want *Let", got)
	}
	innerLet, ok := outerLet.Body.(*Let)
	if !ok {
		t.Fatalf("outer.Body = %T, want *Let", outerLet.Body)
	}
	ref, ok := innerLet.Body.(*VarRef)
	if !ok {
		t.Fatalf("inner.Body = %T, want *VarRef", innerLet.Body)
	}
	outerVar, ok := outerLet.Pattern.(*PatternVar)
	if !ok {
		t.Fatalf("outer.Pattern = %T, want *PatternVar", outerLet.Pattern)
	}
	innerVar, ok := innerLet.Pattern.(*PatternVar)
	if !ok {
		t.Fatalf("inner.Pattern = %T, want *PatternVar", innerLet.Pattern)
	}
	if ref.Var != innerVar.Var {
		t.Fatalf("inner X resolves to %d, want the inner binding %d", ref.Var, innerVar.Var)
	}
	if innerVar.Var == outerVar.Var {
		t.Fatalf("inner binding reused the outer SSAVar %d, want a fresh one", outerVar.Var)
	}
}

// TestAssignExprFunNoClausesIsNamedFunRef checks `fun Name/Arity` (no
// clause list) lowers to a NamedFunRef rather than a Closure.
func TestAssignExprFunNoClausesIsNamedFunRef(t *testing.T) {
	a := NewAssigner()
	got, err := AssignExpr(a, &ast.Fun{Name: "helper", Arity: 2})
	if err != nil {
		t.Fatalf("AssignExpr: %v", err)
	}
	ref, ok := got.(*NamedFunRef)
	if !ok || ref.Name != "helper" || ref.Arity != 2 {
		t.Fatalf("got = %+v, want NamedFunRef{helper, 2}", got)
	}
}

// TestAssignerBindShadowsWithoutOverwritingOuter checks Bind always
// allocates a fresh SSAVar for a re-bound name, and that Pop restores
// visibility of the shadowed outer binding.
func TestAssignerBindShadowsWithoutOverwritingOuter(t *testing.T) {
	a := NewAssigner()
	outer := a.Bind("X")
	a.Push()
	inner := a.Bind("X")
	if inner == outer {
		t.Fatalf("inner bind reused outer SSAVar %d", outer)
	}
	if got, ok := a.Lookup("X"); !ok || got != inner {
		t.Fatalf("Lookup(X) inside inner scope = %d, want %d", got, inner)
	}
	a.Pop()
	if got, ok := a.Lookup("X"); !ok || got != outer {
		t.Fatalf("Lookup(X) after pop = %d, want restored outer %d", got, outer)
	}
}

func TestAssignerPopTopLevelPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("Pop of the top-level scope did not panic")
		}
	}()
	NewAssigner().Pop()
}
