// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hir

import (
	"testing"

	"github.com/eirlang/eirgo/ast"
	"github.com/eirlang/eirgo/ir"
)

// TestBuildModuleAssignsEachFunctionIndependently checks BuildModule
// resolves every function group to its own Function, with a fresh
// Assigner per group (so SSAVar numbering restarts rather than
// continuing across functions) and LambdaEnvIdx left unset.
func TestBuildModuleAssignsEachFunctionIndependently(t *testing.T) {
	m := &ast.Module{
		Name: "m",
		Functions: []*ast.FunctionGroup{
			{
				Name: "foo", Arity: 1, Exported: true,
				Clauses: []*ast.Clause{{
					Params: []ast.Pattern{&ast.PatternVar{Name: "X"}},
					Body:   []ast.Expr{&ast.Var{Name: "X"}},
				}},
			},
			{
				Name: "bar", Arity: 0,
				Clauses: []*ast.Clause{{
					Body: []ast.Expr{&ast.LiteralExpr{Value: ast.Literal{Kind: ast.LitInt, Text: "1"}}},
				}},
			},
		},
	}
	out, err := BuildModule(m)
	if err != nil {
		t.Fatalf("BuildModule: %v", err)
	}
	if len(out.Functions) != 2 {
		t.Fatalf("len(Functions) = %d, want 2", len(out.Functions))
	}

	foo, bar := out.Functions[0], out.Functions[1]
	if foo.Ident != (ir.FunctionIdent{Module: "m", Name: "foo", Arity: 1}) {
		t.Fatalf("foo.Ident = %v", foo.Ident)
	}
	if !foo.Exported {
		t.Fatalf("foo.Exported = false, want true")
	}
	if bar.Exported {
		t.Fatalf("bar.Exported = true, want false")
	}
	if foo.LambdaEnvIdx != -1 || bar.LambdaEnvIdx != -1 {
		t.Fatalf("LambdaEnvIdx = %d, %d, want -1, -1 before lambda extraction", foo.LambdaEnvIdx, bar.LambdaEnvIdx)
	}
	if len(foo.Params) != 1 {
		t.Fatalf("foo.Params = %v, want one fresh param", foo.Params)
	}
	if len(bar.Params) != 0 {
		t.Fatalf("bar.Params = %v, want none", bar.Params)
	}
}

// TestBuildModulePropagatesAssignError checks a clause-body error (an
// unbound variable) aborts BuildModule rather than silently dropping the
// offending function.
func TestBuildModulePropagatesAssignError(t *testing.T) {
	m := &ast.Module{
		Name: "m",
		Functions: []*ast.FunctionGroup{{
			Name: "bad", Arity: 0,
			Clauses: []*ast.Clause{{Body: []ast.Expr{&ast.Var{Name: "Nope"}}}},
		}},
	}
	if _, err := BuildModule(m); err == nil {
		t.Fatalf("BuildModule succeeded, want an unbound-variable error")
	}
}
