// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package passes

import "github.com/eirlang/eirgo/ir"

// SimplifyBranches rewrites an If op whose condition is a statically known
// boolean constant into an unconditional tail call to the corresponding
// arm, dropping the other arm as a successor entirely. It returns the
// number of branches simplified.
func SimplifyBranches(fn *ir.Function, b *ir.Builder) int {
	simplified := 0
	for i := 0; i < fn.NumBlocks(); i++ {
		blk := ir.Block(i)
		op := fn.Op(blk)
		if op == nil || op.Tag != ir.OpIf {
			continue
		}
		reads := fn.Reads(blk)
		if len(reads) != 3 {
			continue
		}
		cond, thenTarget, elseTarget := reads[0], reads[1], reads[2]

		taken, ok := staticBool(fn, cond)
		if !ok {
			continue
		}
		chosen := elseTarget
		if taken {
			chosen = thenTarget
		}
		b.Rewrite(blk, ir.Op{Tag: ir.OpTailCall}, []ir.Value{chosen})
		simplified++
	}
	return simplified
}

// staticBool reports whether v is a constant atom naming true or false.
func staticBool(fn *ir.Function, v ir.Value) (value bool, known bool) {
	c, ok := fn.ValueKind(v).IsConstant()
	if !ok {
		return false, false
	}
	data := fn.Constants.Get(c)
	if data.Kind != ir.ConstAtom {
		return false, false
	}
	switch data.Text {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}
