// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package passes

import (
	"bytes"
	"io"
	"testing"

	"github.com/eirlang/eirgo/ast"
	"github.com/eirlang/eirgo/ir"
)

func ident(name string, arity int) ir.FunctionIdent {
	return ir.FunctionIdent{Module: "m", Name: name, Arity: arity}
}

func TestValidateAcceptsWellFormedFunction(t *testing.T) {
	f := ir.NewFunction(ident("id", 1), ast.Span{})
	b := ir.NewBuilder(f)
	entry, _ := b.BlockInsert(ast.Span{})
	if err := b.SetEntry(entry); err != nil {
		t.Fatalf("SetEntry: %v", err)
	}
	ret := b.BlockArgInsert(entry, ast.Span{})
	x := b.BlockArgInsert(entry, ast.Span{})
	b.OpTailCallFlow(entry, ret, []ir.Value{x})

	var buf bytes.Buffer
	if err := Validate(f, &buf); err != nil {
		t.Fatalf("Validate() = %v, diagnostics:\n%s", err, buf.String())
	}
}

func TestValidateRejectsUnreachablePredecessorlessBlock(t *testing.T) {
	f := ir.NewFunction(ident("m", 0), ast.Span{})
	b := ir.NewBuilder(f)
	entry, _ := b.BlockInsert(ast.Span{})
	if err := b.SetEntry(entry); err != nil {
		t.Fatalf("SetEntry: %v", err)
	}
	ret := b.BlockArgInsert(entry, ast.Span{})
	b.OpTailCallFlow(entry, ret, nil)

	// An orphan block, reachable from nothing, should not itself be
	// flagged (it's simply unreachable, not a dangling predecessor), but
	// a block with a predecessor edge that is not reciprocated should be.
	_, _ = b.BlockInsert(ast.Span{})

	var buf bytes.Buffer
	if err := Validate(f, &buf); err != nil {
		t.Fatalf("Validate() with a merely-unreachable extra block = %v", err)
	}
}

func TestValidateRejectsCaseUnderNormalDialect(t *testing.T) {
	f := ir.NewFunction(ident("m", 1), ast.Span{})
	b := ir.NewBuilder(f)
	entry, _ := b.BlockInsert(ast.Span{})
	if err := b.SetEntry(entry); err != nil {
		t.Fatalf("SetEntry: %v", err)
	}
	subject := b.BlockArgInsert(entry, ast.Span{})
	arm, armVal := b.BlockInsert(ast.Span{})
	b.OpTailCallFlow(arm, subject, nil)
	clause := f.Patterns.Intern(ir.PatternClauseData{Pattern: &ast.PatternWildcard{}})
	b.OpCase(entry, subject, []ir.PatternClause{clause}, []ir.Value{armVal})

	var buf bytes.Buffer
	if err := Validate(f, &buf); err != nil {
		t.Fatalf("Validate() under High with a case op = %v", err)
	}

	f2 := ir.NewFunction(ident("m", 1), ast.Span{})
	b2 := ir.NewBuilder(f2)
	entry2, _ := b2.BlockInsert(ast.Span{})
	if err := b2.SetEntry(entry2); err != nil {
		t.Fatalf("SetEntry: %v", err)
	}
	subject2 := b2.BlockArgInsert(entry2, ast.Span{})
	arm2, armVal2 := b2.BlockInsert(ast.Span{})
	b2.OpTailCallFlow(arm2, subject2, nil)
	clause2 := f2.Patterns.Intern(ir.PatternClauseData{Pattern: &ast.PatternWildcard{}})
	b2.OpCase(entry2, subject2, []ir.PatternClause{clause2}, []ir.Value{armVal2})
	// Force the dialect tag to Normal without actually compiling the
	// case away, to exercise the validator's dialect check directly.
	f2.SetDialectUnchecked(ir.Normal)

	var buf2 bytes.Buffer
	if err := Validate(f2, &buf2); err == nil {
		t.Fatalf("Validate() accepted a case op under Normal dialect")
	}
}

// buildBranch builds fun(X) -> if true -> a(X); false -> b(X) end end and
// returns the function plus the blocks for a clean run of SimplifyBranches.
func buildBranch(t *testing.T, condText string) (*ir.Function, *ir.Builder, ir.Block, ir.Block, ir.Block) {
	t.Helper()
	f := ir.NewFunction(ident("branch", 1), ast.Span{})
	b := ir.NewBuilder(f)

	entry, _ := b.BlockInsert(ast.Span{})
	if err := b.SetEntry(entry); err != nil {
		t.Fatalf("SetEntry: %v", err)
	}
	x := b.BlockArgInsert(entry, ast.Span{})

	thenBlk, thenVal := b.BlockInsert(ast.Span{})
	elseBlk, elseVal := b.BlockInsert(ast.Span{})
	b.OpTailCallFlow(thenBlk, x, nil)
	b.OpTailCallFlow(elseBlk, x, nil)

	condConst := f.Constants.Intern(ast.Literal{Kind: ast.LitAtom, Text: condText})
	cond := b.ConstantValue(condConst, ast.Span{})
	b.OpIf(entry, cond, thenVal, elseVal)

	return f, b, entry, thenBlk, elseBlk
}

func TestSimplifyBranchesFoldsStaticCondition(t *testing.T) {
	f, b, entry, thenBlk, elseBlk := buildBranch(t, "true")

	n := SimplifyBranches(f, b)
	if n != 1 {
		t.Fatalf("SimplifyBranches() = %d, want 1", n)
	}
	succs := f.Successors(entry)
	if len(succs) != 1 || succs[0] != thenBlk {
		t.Fatalf("Successors(entry) = %v, want [%d]", succs, thenBlk)
	}
	if len(f.Predecessors(elseBlk)) != 0 {
		t.Fatalf("Predecessors(elseBlk) = %v, want none after folding to true", f.Predecessors(elseBlk))
	}
}

func TestSimplifyBranchesLeavesDynamicConditionAlone(t *testing.T) {
	f := ir.NewFunction(ident("branch", 1), ast.Span{})
	b := ir.NewBuilder(f)
	entry, _ := b.BlockInsert(ast.Span{})
	if err := b.SetEntry(entry); err != nil {
		t.Fatalf("SetEntry: %v", err)
	}
	x := b.BlockArgInsert(entry, ast.Span{})
	cond := b.BlockArgInsert(entry, ast.Span{})
	thenBlk, thenVal := b.BlockInsert(ast.Span{})
	elseBlk, elseVal := b.BlockInsert(ast.Span{})
	b.OpTailCallFlow(thenBlk, x, nil)
	b.OpTailCallFlow(elseBlk, x, nil)
	b.OpIf(entry, cond, thenVal, elseVal)

	if n := SimplifyBranches(f, b); n != 0 {
		t.Fatalf("SimplifyBranches() on a dynamic condition = %d, want 0", n)
	}
}

func TestPropagateAtomicsSkipsChainedPassThroughBlocks(t *testing.T) {
	f := ir.NewFunction(ident("chain", 1), ast.Span{})
	b := ir.NewBuilder(f)

	entry, _ := b.BlockInsert(ast.Span{})
	if err := b.SetEntry(entry); err != nil {
		t.Fatalf("SetEntry: %v", err)
	}
	ret := b.BlockArgInsert(entry, ast.Span{})
	x := b.BlockArgInsert(entry, ast.Span{})

	finalBlk, finalVal := b.BlockInsert(ast.Span{})
	finalArg := b.BlockArgInsert(finalBlk, ast.Span{})
	b.OpTailCallFlow(finalBlk, ret, []ir.Value{finalArg})

	// mid does nothing but forward its single argument straight to
	// finalBlk: a trivial pass-through, eligible for folding.
	mid, midVal := b.BlockInsert(ast.Span{})
	midArg := b.BlockArgInsert(mid, ast.Span{})
	b.OpTailCallFlow(mid, finalVal, []ir.Value{midArg})

	b.OpTailCallFlow(entry, midVal, []ir.Value{x}) // entry routes through mid

	n := PropagateAtomics(f, b)
	if n == 0 {
		t.Fatalf("PropagateAtomics() = 0, want at least 1 rewrite")
	}
	reads := f.Reads(entry)
	if reads[0] != finalVal {
		t.Fatalf("entry's callee = %v, want finalVal %v (mid skipped)", reads[0], finalVal)
	}
	if len(f.Predecessors(mid)) != 0 {
		t.Fatalf("Predecessors(mid) = %v, want none after entry was redirected around it", f.Predecessors(mid))
	}
}

// TestPromoteTailCallsEliminatesReturningCall covers the literal shape
// spec.md §4.7 describes: the return continuation names a block whose
// entire body forwards its own argument, unchanged, to the enclosing
// function's own return continuation. loop/2 is the function's own
// declared arity, so the self-call's real argument list (list, acc) has
// to match it — otherwise the post-promotion Validate below would trip
// the very arity check this test exists to exercise.
func TestPromoteTailCallsEliminatesReturningCall(t *testing.T) {
	f := ir.NewFunction(ident("loop", 2), ast.Span{})
	b := ir.NewBuilder(f)

	entry, _ := b.BlockInsert(ast.Span{})
	if err := b.SetEntry(entry); err != nil {
		t.Fatalf("SetEntry: %v", err)
	}
	outerRet := b.BlockArgInsert(entry, ast.Span{})
	outerExc := b.BlockArgInsert(entry, ast.Span{})
	list := b.BlockArgInsert(entry, ast.Span{})
	acc := b.BlockArgInsert(entry, ast.Span{})

	fwd, fwdVal := b.BlockInsert(ast.Span{})
	fwdArg := b.BlockArgInsert(fwd, ast.Span{})
	b.OpTailCallFlow(fwd, outerRet, []ir.Value{fwdArg})

	selfRef := f.Constants.InternFuncRef(b.InternFuncRef(ident("loop", 2)))
	callee := b.ConstantValue(selfRef, ast.Span{})
	b.OpCallFlow(entry, fwdVal, outerExc, callee, []ir.Value{list, acc})

	if op := f.Op(entry); op.Tag != ir.OpCall {
		t.Fatalf("precondition: entry op = %s, want call", op.Tag)
	}

	n := PromoteTailCalls(f, b)
	if n != 1 {
		t.Fatalf("PromoteTailCalls() = %d, want 1", n)
	}
	op := f.Op(entry)
	if op.Tag != ir.OpTailCall {
		t.Fatalf("entry op after promotion = %s, want tail_call", op.Tag)
	}
	reads := f.Reads(entry)
	if reads[0] != callee || reads[1] != outerRet || reads[2] != outerExc {
		t.Fatalf("reads after promotion = %v, want [callee outerRet outerExc ...]", reads)
	}
	if err := Validate(f, io.Discard); err != nil {
		t.Fatalf("Validate() after promotion = %v, want nil", err)
	}
}

// TestPromoteTailCallsDirectReturnContinuationArgument covers the shape
// lower.go actually produces for a call sitting directly in tail position
// of a function body (the body of an unguarded case arm, an if branch,
// ...): cont and exc are threaded straight through from the entry block's
// own arguments with no forwarding block ever reified, so the call's
// retCont is already an Arg, not a BlockRef. This is spec.md §8 scenario
// S6's construction (an accumulator-style recursive function whose
// self-call sits in tail position): after promotion no returning call may
// remain anywhere in the function.
func TestPromoteTailCallsDirectReturnContinuationArgument(t *testing.T) {
	f := ir.NewFunction(ident("loop", 2), ast.Span{})
	b := ir.NewBuilder(f)

	entry, _ := b.BlockInsert(ast.Span{})
	if err := b.SetEntry(entry); err != nil {
		t.Fatalf("SetEntry: %v", err)
	}
	ret := b.BlockArgInsert(entry, ast.Span{})
	exc := b.BlockArgInsert(entry, ast.Span{})
	list := b.BlockArgInsert(entry, ast.Span{})
	acc := b.BlockArgInsert(entry, ast.Span{})

	selfRef := f.Constants.InternFuncRef(b.InternFuncRef(ident("loop", 2)))
	callee := b.ConstantValue(selfRef, ast.Span{})
	b.OpCallFlow(entry, ret, exc, callee, []ir.Value{list, acc})

	n := PromoteTailCalls(f, b)
	if n != 1 {
		t.Fatalf("PromoteTailCalls() = %d, want 1", n)
	}
	op := f.Op(entry)
	if op.Tag != ir.OpTailCall {
		t.Fatalf("entry op after promotion = %s, want tail_call", op.Tag)
	}
	reads := f.Reads(entry)
	if reads[0] != callee || reads[1] != ret || reads[2] != exc || reads[3] != list || reads[4] != acc {
		t.Fatalf("reads after promotion = %v, want [callee ret exc list acc]", reads)
	}
	for i := 0; i < f.NumBlocks(); i++ {
		if op := f.Op(ir.Block(i)); op != nil && op.Tag == ir.OpCall {
			t.Fatalf("block %d still has a returning call after promotion", i)
		}
	}
	if err := Validate(f, io.Discard); err != nil {
		t.Fatalf("Validate() after promotion = %v, want nil", err)
	}
}
