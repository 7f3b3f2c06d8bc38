// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import (
	"github.com/eirlang/eirgo/ast"
	"github.com/eirlang/eirgo/internal/pool"
)

type blockData struct {
	args  pool.ListHandle // Value list: this block's formal arguments
	op    *Op             // nil while the block is still under construction
	reads pool.ListHandle // Value list: op's operands, in op-specific order
	preds pool.BitSet[Block]
	succs pool.BitSet[Block]
	span  ast.Span
}

type valueData struct {
	kind ValueKind
	span ast.Span
}

// Function is one function's graph: its blocks, values, interned
// constants, patterns, and function references, plus the arenas the
// pooled collections share.
//
// Grounded on go/ssa.Function's fields (Blocks, Locals, consts via
// Prog.canon) generalized from a pointer-linked instruction list to the
// dense-handle block/value graph described by libeir_ir::FunctionData.
type Function struct {
	Ident FunctionIdent
	Span  ast.Span

	dialect Dialect

	blocks   pool.Dense[Block, blockData]
	values   pool.Dense[Value, valueData]
	funcRefs pool.Dense[FuncRef, FunctionIdent]

	entry    Block
	hasEntry bool

	valueList   pool.List[Value]
	clauseList  pool.List[PatternClause]
	blockSets   pool.BitSetPool[Block]
	blockValues map[Block]Value

	Constants ConstantContainer
	Patterns  PatternContainer
}

// NewFunction creates an empty function graph for ident.
func NewFunction(ident FunctionIdent, span ast.Span) *Function {
	return &Function{
		Ident:       ident,
		Span:        span,
		dialect:     High,
		blockValues: make(map[Block]Value),
	}
}

// Dialect returns the function's current well-formedness level.
func (f *Function) Dialect() Dialect { return f.dialect }

// SetDialectUnchecked sets the function's dialect tag directly, skipping
// the one-way and Case-op guards Builder.PromoteDialect enforces. It
// exists for tests that need to exercise Validate's dialect-specific
// rules independently of whatever pass would ordinarily have earned the
// transition.
func (f *Function) SetDialectUnchecked(d Dialect) { f.dialect = d }

// Entry returns the function's entry block. It panics if no block has been
// marked as the entry yet.
func (f *Function) Entry() Block {
	if !f.hasEntry {
		panic("ir: function has no entry block")
	}
	return f.entry
}

// HasEntry reports whether an entry block has been set.
func (f *Function) HasEntry() bool { return f.hasEntry }

// NumBlocks returns the number of blocks created so far.
func (f *Function) NumBlocks() int { return f.blocks.Len() }

// Args returns b's formal arguments, in declaration order.
func (f *Function) Args(b Block) []Value { return f.valueList.Slice(f.blocks.Get(b).args) }

// Reads returns the op assigned to b's operand list, in the order defined
// by that op's kind. It is empty if b has no op yet.
func (f *Function) Reads(b Block) []Value {
	return f.valueList.Slice(f.blocks.Get(b).reads)
}

// Op returns the op assigned to b, or nil if b is still under construction.
func (f *Function) Op(b Block) *Op { return f.blocks.Get(b).op }

// Span returns the source span recorded for block b.
func (f *Function) BlockSpan(b Block) ast.Span { return f.blocks.Get(b).span }

// ValueKind returns the kind of value v.
func (f *Function) ValueKind(v Value) ValueKind { return f.values.Get(v).kind }

// ValueSpan returns the source span recorded for value v.
func (f *Function) ValueSpan(v Value) ast.Span { return f.values.Get(v).span }

// FuncRefIdent returns the identity ref names.
func (f *Function) FuncRefIdent(ref FuncRef) FunctionIdent { return f.funcRefs.Get(ref) }

// Successors returns the blocks b's op's reads directly reference, in
// insertion order.
func (f *Function) Successors(b Block) []Block { return f.blockSets.Members(f.blocks.Get(b).succs) }

// Predecessors returns the blocks whose op reads reference b, in the order
// those edges were added.
func (f *Function) Predecessors(b Block) []Block {
	return f.blockSets.Members(f.blocks.Get(b).preds)
}

// IsSuccessor reports whether s is a successor of b.
func (f *Function) IsSuccessor(b, s Block) bool {
	return f.blockSets.Contains(f.blocks.Get(b).succs, s)
}

// SelfValue returns b's Block-kind self-reference value, created when b
// was inserted.
func (f *Function) SelfValue(b Block) Value { return f.blockValues[b] }

// DFS returns the blocks reachable from the entry, in pre-order, visiting
// each block's successors in the deterministic order Successors returns.
func (f *Function) DFS() []Block {
	var visited pool.BitSetPool[Block]
	var seen pool.BitSet[Block]
	var order []Block
	var visit func(Block)
	visit = func(b Block) {
		if !visited.Insert(&seen, b) {
			return
		}
		order = append(order, b)
		for _, s := range f.Successors(b) {
			visit(s)
		}
	}
	if f.hasEntry {
		visit(f.entry)
	}
	return order
}

// PostOrderDFS returns the same reachable set as DFS, in post-order.
func (f *Function) PostOrderDFS() []Block {
	var visited pool.BitSetPool[Block]
	var seen pool.BitSet[Block]
	var order []Block
	var visit func(Block)
	visit = func(b Block) {
		if !visited.Insert(&seen, b) {
			return
		}
		for _, s := range f.Successors(b) {
			visit(s)
		}
		order = append(order, b)
	}
	if f.hasEntry {
		visit(f.entry)
	}
	return order
}
