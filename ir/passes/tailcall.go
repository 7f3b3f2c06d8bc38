// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package passes

import "github.com/eirlang/eirgo/ir"

// PromoteTailCalls rewrites a returning call into a tail call whenever its
// return continuation does nothing but forward the call's result, verbatim
// and unchanged, to some other value — typically the enclosing function's
// own return continuation, the shape produced by an accumulator-style
// recursive function whose last action is to call itself and hand the
// result straight back up. It returns the number of calls promoted.
//
// The most common instance of this shape carries no forwarding block at
// all: lower.go threads a function's own return and exception continuation
// arguments straight through every tail position (a case arm's body, an
// if's branch, ...) with no block reified to receive them, so a call
// sitting there already reads the function's own return-continuation
// argument directly as its retCont. That is already the final destination
// of the call's result, so it promotes with no further lookup. The other
// instance is the one the spec prose describes literally: retCont names a
// block whose entire body is itself a pass-through tail call forwarding
// its own argument, unchanged, to some further target — forwardTarget
// walks that chain.
//
// The call's own exception continuation and arguments are carried over
// unchanged; only the return continuation slot is replaced by the value
// the call should ultimately hand its result to, and the op's tag changes
// from a returning call to a tail call. Any forwarding block this bypasses
// is left in place — unreachable, since nothing references it afterward —
// for a later dead-block sweep rather than being torn down here.
func PromoteTailCalls(fn *ir.Function, b *ir.Builder) int {
	promoted := 0
	for i := 0; i < fn.NumBlocks(); i++ {
		blk := ir.Block(i)
		op := fn.Op(blk)
		if op == nil || op.Tag != ir.OpCall {
			continue
		}
		reads := fn.Reads(blk)
		if len(reads) < 3 {
			continue
		}
		retCont, excCont, callee := reads[0], reads[1], reads[2]
		args := reads[3:]

		target, ok := tailTarget(fn, blk, retCont)
		if !ok {
			continue
		}

		newReads := make([]ir.Value, 0, 3+len(args))
		newReads = append(newReads, callee, target, excCont)
		newReads = append(newReads, args...)
		b.Rewrite(blk, ir.Op{Tag: ir.OpTailCall}, newReads)
		promoted++
	}
	return promoted
}

// tailTarget reports the value a call in blk, with return continuation
// retCont, should ultimately hand its result to once promoted to a tail
// call. An Arg-kind retCont is already that value: it is a continuation
// threaded in from outside this block with no further computation
// attached, so there's nothing to forward through. A BlockRef-kind
// retCont may name a pass-through block; forwardTarget resolves it.
// Anything else (a Constant or Alias standing where a continuation is
// expected) is not a recognized shape and is left alone.
func tailTarget(fn *ir.Function, callBlk ir.Block, retCont ir.Value) (ir.Value, bool) {
	switch k := fn.ValueKind(retCont); k.Tag {
	case ir.ValueArg:
		return retCont, true
	case ir.ValueBlockRef:
		if k.Block == callBlk {
			return 0, false
		}
		return forwardTarget(fn, k.Block)
	default:
		return 0, false
	}
}

// forwardTarget reports the value blk's op forwards to, if blk's op is a
// tail call that passes exactly its own arguments, in order, to some
// target — i.e. blk performs no computation of its own.
func forwardTarget(fn *ir.Function, blk ir.Block) (ir.Value, bool) {
	op := fn.Op(blk)
	if op == nil || op.Tag != ir.OpTailCall {
		return 0, false
	}
	reads := fn.Reads(blk)
	if len(reads) == 0 {
		return 0, false
	}
	callee, args := reads[0], reads[1:]
	params := fn.Args(blk)
	if len(args) != len(params) {
		return 0, false
	}
	for i, a := range args {
		if a != params[i] {
			return 0, false
		}
	}
	return callee, true
}
