// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hir

import (
	"github.com/eirlang/eirgo/ast"
	"github.com/eirlang/eirgo/ir"
)

// Function is one top-level function's HIR: its identity, its formal
// parameters (already-resolved SSAVars — see AssignFunctionGroup), and its
// body. A Function gains a LambdaEnvIdx only once lambda extraction has
// lifted it out of an enclosing closure; -1 means it was never a closure.
type Function struct {
	Ident        ir.FunctionIdent
	Exported     bool
	Params       []SSAVar
	Body         Expr
	LambdaEnvIdx int
	Span         ast.Span
}

// LambdaEnv records, for one group of closures lifted out of the same
// enclosing scope, the union of SSAVars captured by any of them and the
// identifiers of every lifted function sharing the environment. See
// lambda.go for how "enclosing scope group" is resolved.
type LambdaEnv struct {
	Captures  []SSAVar
	Functions []ir.FunctionIdent
}

// Module is a whole compilation unit's HIR: SSA-assigned and, once
// ExtractLambdas has run, closure-free (every Closure has been rewritten to
// a MakeClosure and lifted out to its own Function in Functions).
type Module struct {
	Name       string
	Attributes []ast.Attribute
	Functions  []*Function
	LambdaEnvs []LambdaEnv
}

// BuildModule resolves every function clause group in m to a single HIR
// expression per (name, arity), assigning a fresh SSAVar to every binding
// occurrence. It does not extract lambdas; call ExtractLambdas on the
// result to do that.
func BuildModule(m *ast.Module) (*Module, error) {
	out := &Module{Name: m.Name, Attributes: m.Attributes}
	for _, fg := range m.Functions {
		params, body, err := AssignFunctionGroup(fg)
		if err != nil {
			return nil, err
		}
		out.Functions = append(out.Functions, &Function{
			Ident:        ir.FunctionIdent{Module: m.Name, Name: fg.Name, Arity: fg.Arity},
			Exported:     fg.Exported,
			Params:       params,
			Body:         body,
			LambdaEnvIdx: -1,
			Span:         fg.Span,
		})
	}
	return out, nil
}
