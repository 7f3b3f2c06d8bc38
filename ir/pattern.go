// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import (
	"github.com/eirlang/eirgo/ast"
	"github.com/eirlang/eirgo/internal/pool"
)

// PatternClauseData is one arm of a Case op: the surface pattern it
// dispatches on and the variable names it binds, left to right, if it
// matches.
//
// Compiling a chain of these into a decision tree (so that Case can be
// lowered away entirely and a function can progress past the High
// dialect) is not implemented — see DESIGN.md. This container stores the
// clause shape a decision-tree compiler would consume.
type PatternClauseData struct {
	Pattern  ast.Pattern
	Bindings []string
}

// PatternContainer owns the pattern clauses a function's Case ops
// reference.
type PatternContainer struct {
	clauses pool.Dense[PatternClause, PatternClauseData]
}

// Intern adds a clause and returns its handle. Clauses are not deduplicated:
// two syntactically identical clauses at different call sites are distinct
// arms.
func (p *PatternContainer) Intern(data PatternClauseData) PatternClause {
	return p.clauses.Push(data)
}

// Get returns the data for handle h.
func (p *PatternContainer) Get(h PatternClause) PatternClauseData { return p.clauses.Get(h) }
