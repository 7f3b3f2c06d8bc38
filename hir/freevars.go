// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hir

// freeVars returns the SSAVars referenced in e that are not bound anywhere
// within e itself, in first-occurrence order. Because SSA assignment gives
// every binder a globally unique SSAVar (ssa.go), a variable bound
// somewhere in e can never denote an outer binding elsewhere in the
// program; so it is enough to collect every binder that appears anywhere
// in e before checking references against that set, with no need for the
// frame-stack discipline scope.go uses during name resolution itself.
//
// A nested MakeClosure (one lambda extraction has already rewritten, in a
// bottom-up walk — see lambda.go) contributes its own Captures as uses:
// whatever it captures must itself be supplied from the scope enclosing
// it, exactly like any other variable reference.
func freeVars(e Expr) []SSAVar {
	bound := map[SSAVar]bool{}
	collectBound(e, bound)

	seen := map[SSAVar]bool{}
	var order []SSAVar
	use := func(v SSAVar) {
		if bound[v] || seen[v] {
			return
		}
		seen[v] = true
		order = append(order, v)
	}
	collectUses(e, use)
	return order
}

func collectBound(e Expr, bound map[SSAVar]bool) {
	bindPattern := func(p Pattern) {
		for _, v := range patternVars(p) {
			bound[v] = true
		}
	}
	walkExpr(e, func(n Expr) {
		switch x := n.(type) {
		case *Let:
			bindPattern(x.Pattern)
		case *Case:
			for _, a := range x.Arms {
				bindPattern(a.Pattern)
			}
		case *Receive:
			for _, c := range x.Clauses {
				bindPattern(c.Pattern)
			}
		case *TryCatch:
			for _, a := range x.OkArms {
				bindPattern(a.Pattern)
			}
			for _, c := range x.CatchArms {
				bindPattern(c.Class)
				bindPattern(c.Reason)
			}
		case *Closure:
			for _, v := range x.Params {
				bound[v] = true
			}
		}
	})
}

func collectUses(e Expr, use func(SSAVar)) {
	walkExpr(e, func(n Expr) {
		switch x := n.(type) {
		case *VarRef:
			use(x.Var)
		case *MakeClosure:
			for _, v := range x.Captures {
				use(v)
			}
		}
	})
}

// walkExpr calls visit on e and every Expr reachable from it (guards,
// subexpressions, clause bodies), but does not descend into a Closure's
// own Params — those are binders of the closure, visited via collectBound,
// never uses of the enclosing scope.
func walkExpr(e Expr, visit func(Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch n := e.(type) {
	case *VarRef, *Literal, *NamedFunRef, *MakeClosure:
		// leaves: MakeClosure's Captures are handled by collectUses
		// directly, not by recursing into subexpressions (it has none).
	case *Tuple:
		walkExprList(n.Elems, visit)
	case *Cons:
		walkExpr(n.Head, visit)
		walkExpr(n.Tail, visit)
	case *Let:
		walkExpr(n.Value, visit)
		walkExpr(n.Body, visit)
	case *Begin:
		walkExprList(n.Exprs, visit)
	case *Call:
		walkExpr(n.Module, visit)
		walkExpr(n.Callee, visit)
		walkExprList(n.Args, visit)
	case *Case:
		walkExpr(n.Subject, visit)
		for _, a := range n.Arms {
			walkExpr(a.Guard, visit)
			walkExpr(a.Body, visit)
		}
	case *If:
		walkExpr(n.Cond, visit)
		walkExpr(n.Then, visit)
		walkExpr(n.Else, visit)
	case *ShortCircuit:
		walkExpr(n.Left, visit)
		walkExpr(n.Right, visit)
	case *Receive:
		for _, c := range n.Clauses {
			walkExpr(c.Guard, visit)
			walkExpr(c.Body, visit)
		}
		walkExpr(n.Timeout, visit)
		walkExpr(n.TimeoutBody, visit)
	case *TryCatch:
		walkExpr(n.Body, visit)
		for _, a := range n.OkArms {
			walkExpr(a.Guard, visit)
			walkExpr(a.Body, visit)
		}
		for _, c := range n.CatchArms {
			walkExpr(c.Guard, visit)
			walkExpr(c.Body, visit)
		}
		walkExpr(n.After, visit)
	case *Closure:
		walkExpr(n.Body, visit)
	default:
		panic("hir: unhandled expression kind in walkExpr")
	}
}

func walkExprList(in []Expr, visit func(Expr)) {
	for _, e := range in {
		walkExpr(e, visit)
	}
}
