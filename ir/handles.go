// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ir implements the low-level, continuation-passing-style function
// graph: dense block/value handles, the function graph's read-side API and
// its invariants, the mutation builder, and (in the ir/passes subpackage)
// the optimization and validation passes.
//
// Grounded on golang.org/x/tools/go/ssa's Function/BasicBlock/builder and
// sanity.go, generalized from a pointer-linked graph of Go-types-bound
// Instructions to the dense-handle, arena-backed block/value graph the
// original eir sources (cranelift_entity + pooled_entity_set) describe.
package ir

import "fmt"

// Block identifies a basic block within one function.
type Block uint32

// Value identifies a value within one function. Every value has exactly
// one kind: Arg, BlockRef, Constant, or Alias — see ValueKind.
type Value uint32

// FuncRef names another function by (module, name, arity), interned
// per-function so that inter-function references stay localized and
// handle-valid within the owning function alone.
type FuncRef uint32

// Const is a handle into a function's ConstantContainer.
type Const uint32

// PatternClause is a handle into a function's PatternContainer.
type PatternClause uint32

// FunctionIdent names a function by its module, name and arity.
type FunctionIdent struct {
	Module string
	Name   string
	Arity  int
}

func (id FunctionIdent) String() string {
	return fmt.Sprintf("%s:%s/%d", id.Module, id.Name, id.Arity)
}

// Dialect is a well-formedness level of the function graph. Transitions
// are one-way: High -> Normal -> CPS.
type Dialect uint8

const (
	// High allows all operations, including the unresolved Case op.
	High Dialect = iota
	// Normal is High minus the Case op: pattern matches have been
	// compiled to a decision tree. (Compiling Case away is a documented
	// gap — see DESIGN.md — so code reaches this dialect only by a
	// route other than an actual pattern-compile pass, e.g. a function
	// with no Case op to begin with.)
	Normal
	// CPS is Normal minus returning calls: every call is a tail call.
	CPS
)

func (d Dialect) String() string {
	switch d {
	case High:
		return "High"
	case Normal:
		return "Normal"
	case CPS:
		return "CPS"
	default:
		return fmt.Sprintf("Dialect(%d)", uint8(d))
	}
}
