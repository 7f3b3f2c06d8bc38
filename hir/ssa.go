// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hir implements the tree-shaped, name-resolved expression IR
// sitting between the surface AST and the block-graph lowering in
// package lower: SSA/scope assignment (this file and scope.go), the
// expression and pattern trees themselves (expr.go, pattern.go), free
// variable analysis (freevars.go) and lambda extraction (lambda.go).
package hir

import "fmt"

// SSAVar is a fresh, globally-unique identifier assigned to one binding
// occurrence of a source variable. Two occurrences of the same surface
// name in different scopes, or after shadowing, get distinct SSAVars;
// every reference resolves to exactly one.
type SSAVar uint32

func (v SSAVar) String() string { return fmt.Sprintf("v%d", uint32(v)) }
