// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import (
	"golang.org/x/xerrors"

	"github.com/eirlang/eirgo/ast"
	"github.com/eirlang/eirgo/internal/pool"
)

// Builder is the exclusive mutation interface onto a Function: it creates
// blocks, appends arguments, assigns or rewrites operations, and updates
// predecessor/successor sets atomically so that the graph's invariants
// hold after every call returns.
//
// Grounded on go/ssa's *Function builder methods (NewBasicBlock, emit,
// the second build pass that wires Preds/Succs) generalized to the
// handle-based block/value graph and to rewrites in place, which go/ssa's
// single-assignment instruction stream never needs to perform.
type Builder struct {
	f *Function
}

// NewBuilder returns a Builder with exclusive access to f.
func NewBuilder(f *Function) *Builder { return &Builder{f: f} }

// BlockInsert creates a new, op-less block and returns it along with its
// Block-kind self-reference value, ready to be used as a call target, an
// If/Case arm, or a MakeClosure continuation.
func (b *Builder) BlockInsert(span ast.Span) (Block, Value) {
	blk := b.f.blocks.Push(blockData{span: span})
	self := b.f.values.Push(valueData{kind: BlockRefKind(blk), span: span})
	b.f.blockValues[blk] = self
	return blk, self
}

// BlockValue returns blk's self-reference value.
func (b *Builder) BlockValue(blk Block) Value { return b.f.blockValues[blk] }

// SetEntry marks blk as the function's entry block. It may be called only
// once.
func (b *Builder) SetEntry(blk Block) error {
	if b.f.hasEntry {
		return xerrors.Errorf("ir: entry block already set for %s", b.f.Ident)
	}
	b.f.entry = blk
	b.f.hasEntry = true
	return nil
}

// BlockArgInsert appends a new formal argument to blk and returns its
// value.
func (b *Builder) BlockArgInsert(blk Block, span ast.Span) Value {
	v := b.f.values.Push(valueData{kind: ArgKind(blk), span: span})
	bd := b.f.blocks.Ptr(blk)
	if bd.args == (pool.ListHandle{}) {
		bd.args = b.f.valueList.Append(v)
	} else {
		bd.args = b.f.valueList.Push(bd.args, v)
	}
	return v
}

// ConstantValue materializes a fresh value referencing constant c.
func (b *Builder) ConstantValue(c Const, span ast.Span) Value {
	return b.f.values.Push(valueData{kind: ConstantKindOf(c), span: span})
}

// AliasValue materializes a fresh value standing in for target. Used by
// atomic propagation to redirect reads without mutating every block that
// held the original value.
func (b *Builder) AliasValue(target Value, span ast.Span) Value {
	return b.f.values.Push(valueData{kind: AliasKind(target), span: span})
}

// InternFuncRef interns ident as a per-function FuncRef handle.
func (b *Builder) InternFuncRef(ident FunctionIdent) FuncRef {
	return b.f.funcRefs.Push(ident)
}

// OpCallFlow assigns blk a returning call: callee invoked with args,
// returning to returnCont or raising to exceptionCont.
func (b *Builder) OpCallFlow(blk Block, returnCont, exceptionCont, callee Value, args []Value) {
	reads := make([]Value, 0, 3+len(args))
	reads = append(reads, returnCont, exceptionCont, callee)
	reads = append(reads, args...)
	b.setOp(blk, Op{Tag: OpCall}, reads)
}

// OpTailCallFlow assigns blk a tail call: callee invoked with args, never
// returning to blk's caller.
func (b *Builder) OpTailCallFlow(blk Block, callee Value, args []Value) {
	reads := make([]Value, 0, 1+len(args))
	reads = append(reads, callee)
	reads = append(reads, args...)
	b.setOp(blk, Op{Tag: OpTailCall}, reads)
}

// OpIf assigns blk a boolean branch over thenTarget/elseTarget, which must
// be Block-kind values (typically from BlockInsert or BlockValue).
func (b *Builder) OpIf(blk Block, cond, thenTarget, elseTarget Value) {
	b.setOp(blk, Op{Tag: OpIf}, []Value{cond, thenTarget, elseTarget})
}

// OpCase assigns blk a pattern dispatch over subject: clauses[i] is tried
// against targets[i], in order. len(clauses) must equal len(targets).
func (b *Builder) OpCase(blk Block, subject Value, clauses []PatternClause, targets []Value) {
	reads := make([]Value, 0, 1+len(targets))
	reads = append(reads, subject)
	reads = append(reads, targets...)
	cs := make([]PatternClause, len(clauses))
	copy(cs, clauses)
	b.setOp(blk, Op{Tag: OpCase, Clauses: cs}, reads)
}

// OpReceive assigns blk a mailbox wait: clauses[i] is tried against the next
// message, dispatching to targets[i] on a match; timeoutTarget is invoked
// instead once timeout elapses with nothing matched. len(clauses) must
// equal len(targets).
func (b *Builder) OpReceive(blk Block, timeout Value, timeoutTarget Value, clauses []PatternClause, targets []Value) {
	reads := make([]Value, 0, 2+len(targets))
	reads = append(reads, timeout, timeoutTarget)
	reads = append(reads, targets...)
	cs := make([]PatternClause, len(clauses))
	copy(cs, clauses)
	b.setOp(blk, Op{Tag: OpReceive, Clauses: cs}, reads)
}

// OpMakeClosure assigns blk a closure materialization: fref captures the
// values in captures under lambdaEnv, then invokes cont with the closure
// value.
func (b *Builder) OpMakeClosure(blk Block, cont Value, fref FuncRef, lambdaEnv int, captures []Value) {
	reads := make([]Value, 0, 1+len(captures))
	reads = append(reads, cont)
	reads = append(reads, captures...)
	b.setOp(blk, Op{Tag: OpMakeClosure, FuncRef: fref, LambdaEnv: lambdaEnv}, reads)
}

// OpPrimOp assigns blk a value-constructing primitive over operands, then
// invokes cont with the result.
func (b *Builder) OpPrimOp(blk Block, cont Value, prim PrimitiveOp, operands []Value) {
	reads := make([]Value, 0, 1+len(operands))
	reads = append(reads, cont)
	reads = append(reads, operands...)
	b.setOp(blk, Op{Tag: OpPrimOp, Primitive: prim}, reads)
}

// Rewrite replaces blk's op and reads wholesale, used by ir/passes to
// mutate an already-built block (e.g. promoting a call to a tail call).
// Predecessor/successor edges are recomputed from the new reads exactly as
// they would be for a fresh assignment.
func (b *Builder) Rewrite(blk Block, op Op, reads []Value) {
	b.setOp(blk, op, reads)
}

// PromoteDialect advances the function's dialect level. Transitions are
// one-way and must be monotonic; promoting to Normal or beyond
// additionally requires that no block still carries a Case op.
func (b *Builder) PromoteDialect(d Dialect) error {
	if d < b.f.dialect {
		return xerrors.Errorf("ir: cannot demote dialect from %s to %s", b.f.dialect, d)
	}
	if d >= Normal && b.f.dialect < Normal {
		for i := 0; i < b.f.blocks.Len(); i++ {
			if op := b.f.blocks.Get(Block(i)).op; op != nil && op.Tag == OpCase {
				return xerrors.Errorf("ir: cannot promote %s to %s: block %d still has a case op", b.f.Ident, d, i)
			}
		}
	}
	b.f.dialect = d
	return nil
}

// setOp assigns op and reads to blk, diffing the old and new sets of
// Block-kind reads so predecessor/successor sets reflect exactly the
// targets in the new read list, with no stale edges left over from a
// rewrite.
func (b *Builder) setOp(blk Block, op Op, reads []Value) {
	f := b.f
	bd := f.blocks.Ptr(blk)

	oldTargets := f.blockReadTargets(bd.reads)

	bd.reads = f.valueList.Append(reads...)
	opCopy := op
	bd.op = &opCopy

	newTargets := f.blockReadTargets(bd.reads)

	for _, t := range oldTargets {
		if !containsBlock(newTargets, t) {
			f.removePred(t, blk)
		}
	}
	for _, t := range newTargets {
		if containsBlock(oldTargets, t) {
			continue
		}
		f.blockSets.Insert(&f.blocks.Ptr(blk).succs, t)
		f.blockSets.Insert(&f.blocks.Ptr(t).preds, blk)
	}
}

// blockReadTargets returns the Block-kind values among reads, in order.
func (f *Function) blockReadTargets(reads pool.ListHandle) []Block {
	var out []Block
	for _, v := range f.valueList.Slice(reads) {
		if t, ok := f.ValueKind(v).IsBlockRef(); ok {
			out = append(out, t)
		}
	}
	return out
}

func containsBlock(s []Block, b Block) bool {
	for _, x := range s {
		if x == b {
			return true
		}
	}
	return false
}

// removePred drops pred from of's predecessor set. BitSetPool has no
// delete, so the set is rebuilt from its surviving members, preserving
// their relative insertion order.
func (f *Function) removePred(of, pred Block) {
	bd := f.blocks.Ptr(of)
	var fresh pool.BitSet[Block]
	for _, p := range f.blockSets.Members(bd.preds) {
		if p == pred {
			continue
		}
		f.blockSets.Insert(&fresh, p)
	}
	bd.preds = fresh
}
