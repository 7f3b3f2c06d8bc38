// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package passes

import "github.com/eirlang/eirgo/ir"

// PropagateAtomics rewrites every block whose op is a tail call directly
// to a block argument with no observable effect between entry and that
// call — i.e. a trivial pass-through block — so that readers of the
// target block no longer have to chase through it: reads naming the
// pass-through block are rewritten in place to name its own single tail
// call's callee instead. It returns the number of reads rewritten.
//
// This is a restricted form of copy propagation: only tail calls whose
// callee is itself a Block-kind value (so the "copy" is block-to-block,
// not an arbitrary alias chain) are folded, and only blocks with no
// arguments beyond the one implicit forwarding value are eligible, so
// that no argument-binding information is lost by skipping over them.
func PropagateAtomics(fn *ir.Function, b *ir.Builder) int {
	rewrites := 0
	target := make(map[ir.Block]ir.Block)

	for i := 0; i < fn.NumBlocks(); i++ {
		blk := ir.Block(i)
		if dst, ok := trivialForward(fn, blk); ok {
			target[blk] = dst
		}
	}
	if len(target) == 0 {
		return 0
	}

	// Follow chains of trivial forwards to their ultimate destination.
	resolve := func(blk ir.Block) ir.Block {
		seen := map[ir.Block]bool{}
		cur := blk
		for {
			next, ok := target[cur]
			if !ok || seen[cur] {
				return cur
			}
			seen[cur] = true
			cur = next
		}
	}

	for i := 0; i < fn.NumBlocks(); i++ {
		blk := ir.Block(i)
		reads := fn.Reads(blk)
		if len(reads) == 0 {
			continue
		}
		changed := false
		newReads := make([]ir.Value, len(reads))
		for j, v := range reads {
			if t, ok := fn.ValueKind(v).IsBlockRef(); ok {
				if r := resolve(t); r != t {
					newReads[j] = b.BlockValue(r)
					changed = true
					rewrites++
					continue
				}
			}
			newReads[j] = v
		}
		if changed {
			op := *fn.Op(blk)
			b.Rewrite(blk, op, newReads)
		}
	}
	return rewrites
}

// trivialForward reports whether blk does nothing but tail-call a
// Block-kind callee with exactly its own arguments, in order — i.e. it is
// safe to skip entirely.
func trivialForward(fn *ir.Function, blk ir.Block) (ir.Block, bool) {
	op := fn.Op(blk)
	if op == nil || op.Tag != ir.OpTailCall {
		return 0, false
	}
	reads := fn.Reads(blk)
	if len(reads) == 0 {
		return 0, false
	}
	callee, args := reads[0], reads[1:]
	dst, ok := fn.ValueKind(callee).IsBlockRef()
	if !ok || dst == blk {
		return 0, false
	}
	params := fn.Args(blk)
	if len(args) != len(params) {
		return 0, false
	}
	for i, a := range args {
		if a != params[i] {
			return 0, false
		}
	}
	return dst, true
}
