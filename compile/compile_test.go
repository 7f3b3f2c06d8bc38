// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"testing"

	"github.com/eirlang/eirgo/ast"
	"github.com/eirlang/eirgo/ir"
)

func intLit(text string) ast.Literal { return ast.Literal{Kind: ast.LitInt, Text: text} }

// TestCompileConstantFunction covers S1 end to end through Compile.
func TestCompileConstantFunction(t *testing.T) {
	m := &ast.Module{
		Name: "m",
		Functions: []*ast.FunctionGroup{{
			Name: "foo", Arity: 0, Exported: true,
			Clauses: []*ast.Clause{{Body: []ast.Expr{&ast.LiteralExpr{Value: intLit("42")}}}},
		}},
	}
	result, err := Compile(m, 0)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(result.Module.Functions) != 1 {
		t.Fatalf("len(Functions) = %d, want 1", len(result.Module.Functions))
	}
	def := result.Module.Functions[0]
	if def.Visibility != Public {
		t.Fatalf("Visibility = %s, want public", def.Visibility)
	}
	entry := def.Graph.Entry()
	op := def.Graph.Op(entry)
	if op == nil || op.Tag != ir.OpTailCall {
		t.Fatalf("entry op = %+v, want tail_call", op)
	}
}

// TestCompilePrivateFunctionNotExported checks a clause without an export
// attribute is marked Private.
func TestCompilePrivateFunctionNotExported(t *testing.T) {
	m := &ast.Module{
		Name: "m",
		Functions: []*ast.FunctionGroup{{
			Name: "helper", Arity: 0, Exported: false,
			Clauses: []*ast.Clause{{Body: []ast.Expr{&ast.LiteralExpr{Value: intLit("1")}}}},
		}},
	}
	result, err := Compile(m, 0)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if result.Module.Functions[0].Visibility != Private {
		t.Fatalf("Visibility = %s, want private", result.Module.Functions[0].Visibility)
	}
}

// TestCompileLiftsLambdaAndMarksVisibility exercises lambda extraction
// flowing all the way through to a Lambda-visibility FunctionDef sharing a
// LambdaEnv with the module.
func TestCompileLiftsLambdaAndMarksVisibility(t *testing.T) {
	m := &ast.Module{
		Name: "m",
		Functions: []*ast.FunctionGroup{{
			Name: "host", Arity: 1, Exported: true,
			Clauses: []*ast.Clause{{
				Params: []ast.Pattern{&ast.PatternVar{Name: "A"}},
				Body: []ast.Expr{
					&ast.Fun{Clauses: []*ast.Clause{{
						Params: []ast.Pattern{&ast.PatternVar{Name: "B"}},
						Body:   []ast.Expr{&ast.Var{Name: "B"}},
					}}},
				},
			}},
		}},
	}
	result, err := Compile(m, 0)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(result.Module.Functions) != 2 {
		t.Fatalf("len(Functions) = %d, want 2 (host + lifted lambda)", len(result.Module.Functions))
	}
	lambdaDef := result.Module.Functions[1]
	if lambdaDef.Visibility != Lambda {
		t.Fatalf("Visibility = %s, want lambda", lambdaDef.Visibility)
	}
	if lambdaDef.LambdaEnvIdx < 0 || lambdaDef.LambdaEnvIdx >= len(result.Module.LambdaEnvs) {
		t.Fatalf("LambdaEnvIdx = %d out of range (%d envs)", lambdaDef.LambdaEnvIdx, len(result.Module.LambdaEnvs))
	}
}

// TestCompileCaseDispatchedTailCallPromotesToTailCall covers a recursive
// function whose self-call sits directly in tail position inside a case
// arm — the accumulator-style recursion shape spec.md §8 scenario S6
// describes — through the full pipeline (lower, optimize, validate twice).
// The arm's body hands its result straight to the function's own return
// continuation with no intervening forwarding block reified, so
// PromoteTailCalls must recognize that return continuation as already
// being the function's own and promote the call directly, with no
// returning call left anywhere in the function, per S6's "after CPS
// conversion the recursive call is a tail call (no returning-call op
// anywhere in the function)".
func TestCompileCaseDispatchedTailCallPromotesToTailCall(t *testing.T) {
	m := &ast.Module{
		Name: "m",
		Functions: []*ast.FunctionGroup{{
			Name: "loop", Arity: 1, Exported: true,
			Clauses: []*ast.Clause{{
				Params: []ast.Pattern{&ast.PatternVar{Name: "N"}},
				Body: []ast.Expr{&ast.Case{
					Subject: &ast.Var{Name: "N"},
					Arms: []ast.CaseArm{
						{Pattern: &ast.PatternLiteral{Value: intLit("0")}, Body: &ast.LiteralExpr{Value: intLit("0")}},
						{Pattern: &ast.PatternWildcard{}, Body: &ast.Call{
							Kind: ast.CallLocal,
							Name: "loop",
							Args: []ast.Expr{&ast.Var{Name: "N"}},
						}},
					},
				}},
			}},
		}},
	}
	result, err := Compile(m, 0)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	graph := result.Module.Functions[0].Graph
	for _, b := range graph.DFS() {
		if op := graph.Op(b); op != nil && op.Tag == ir.OpCall {
			t.Fatalf("block %v still has a returning call, want the recursive call promoted to a tail call", b)
		}
	}
}

func TestCompileRejectsUnboundVariable(t *testing.T) {
	m := &ast.Module{
		Name: "m",
		Functions: []*ast.FunctionGroup{{
			Name: "bad", Arity: 0,
			Clauses: []*ast.Clause{{Body: []ast.Expr{&ast.Var{Name: "Nope"}}}},
		}},
	}
	_, err := Compile(m, 0)
	if err == nil {
		t.Fatalf("Compile succeeded, want unbound-variable error")
	}
	var ce *CompileError
	if e, ok := err.(*CompileError); ok {
		ce = e
	}
	if ce == nil || ce.Kind != SourceDefect {
		t.Fatalf("err = %v, want *CompileError with Kind SourceDefect", err)
	}
}
