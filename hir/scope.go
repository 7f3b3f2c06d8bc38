// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hir

// Assigner tracks the stack of lexical scopes active while walking a
// surface AST and hands out fresh SSAVars for every binding occurrence.
//
// Grounded on go/ssa.Function's lookup/addNamedLocal machinery
// generalized from a single flat object-to-Value map (Go has no block
// shadowing of the same kind) to an explicit stack of frames, so that a
// PatternVar always introduces a fresh binding — even when its name
// collides with one already visible — rather than being tested for
// equality against the outer binding of the same name.
type Assigner struct {
	next   SSAVar
	scopes []map[string]SSAVar
}

// NewAssigner returns an Assigner with one empty top-level scope.
func NewAssigner() *Assigner {
	return &Assigner{scopes: []map[string]SSAVar{{}}}
}

// Push opens a new, nested scope.
func (a *Assigner) Push() {
	a.scopes = append(a.scopes, map[string]SSAVar{})
}

// Pop closes the innermost scope. It panics if called with only the
// top-level scope remaining.
func (a *Assigner) Pop() {
	if len(a.scopes) == 1 {
		panic("hir: Pop of top-level scope")
	}
	a.scopes = a.scopes[:len(a.scopes)-1]
}

// Fresh allocates a new SSAVar not bound to any name.
func (a *Assigner) Fresh() SSAVar {
	v := a.next
	a.next++
	return v
}

// Bind allocates a fresh SSAVar for name and binds it in the innermost
// scope, shadowing (not overwriting — the outer binding is unaffected
// once this scope is popped) any outer binding of the same name.
func (a *Assigner) Bind(name string) SSAVar {
	v := a.Fresh()
	a.scopes[len(a.scopes)-1][name] = v
	return v
}

// Lookup resolves name against the scope stack, innermost first.
func (a *Assigner) Lookup(name string) (SSAVar, bool) {
	for i := len(a.scopes) - 1; i >= 0; i-- {
		if v, ok := a.scopes[i][name]; ok {
			return v, true
		}
	}
	return 0, false
}
