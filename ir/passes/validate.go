// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package passes implements the function-graph optimization and
// validation passes: Validate, PropagateAtomics, SimplifyBranches, and
// PromoteTailCalls, run in that order (with a second Validate at the end)
// by the compile package's pipeline.
package passes

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/xerrors"

	"github.com/eirlang/eirgo/ir"
)

// checker accumulates diagnostics while walking one function, mirroring
// go/ssa/sanity.go's sanity struct: errorf marks the function invalid,
// warnf records a non-fatal diagnostic.
type checker struct {
	reporter io.Writer
	f        *ir.Function
	block    ir.Block
	inBlock  bool
	insane   bool
}

func (c *checker) diagnostic(prefix, format string, args ...any) {
	fmt.Fprintf(c.reporter, "%s: function %s", prefix, c.f.Ident)
	if c.inBlock {
		fmt.Fprintf(c.reporter, ", block %d", c.block)
	}
	io.WriteString(c.reporter, ": ")
	fmt.Fprintf(c.reporter, format, args...)
	io.WriteString(c.reporter, "\n")
}

func (c *checker) errorf(format string, args ...any) {
	c.insane = true
	c.diagnostic("error", format, args...)
}

// Validate checks fn's invariants, writing diagnostics to reporter (or
// os.Stderr if nil), and returns a non-nil error describing the first
// class of problem found if any invariant is violated.
//
// Checked: every block's successors/predecessors agree as inverses of
// each other; no Alias value is reachable from a live read list; the
// entry block has no predecessors and takes no arguments beyond the
// convention the caller established; every reachable non-entry block has
// at least one predecessor; a Case op appears only under the High
// dialect; a returning Call op does not appear under the CPS dialect;
// and, where the callee resolves to a statically known function
// reference, the call's argument count matches that function's arity.
func Validate(fn *ir.Function, reporter io.Writer) error {
	if reporter == nil {
		reporter = os.Stderr
	}
	c := &checker{reporter: reporter, f: fn}

	if !fn.HasEntry() {
		c.errorf("function has no entry block")
		return c.result()
	}
	if len(fn.Predecessors(fn.Entry())) != 0 {
		c.errorf("entry block has predecessors")
	}

	reachable := make(map[ir.Block]bool)
	for _, b := range fn.DFS() {
		reachable[b] = true
	}
	if len(reachable) == 0 {
		c.errorf("entry block unreachable from itself")
	}

	for i := 0; i < fn.NumBlocks(); i++ {
		b := ir.Block(i)
		c.block = b
		c.inBlock = true
		c.checkBlock(b, reachable[b])
	}
	c.inBlock = false

	return c.result()
}

func (c *checker) checkBlock(b ir.Block, reachable bool) {
	fn := c.f

	if reachable && b != fn.Entry() && len(fn.Predecessors(b)) == 0 {
		c.errorf("reachable block has no predecessors")
	}

	for _, s := range fn.Successors(b) {
		if !containsBlock(fn.Predecessors(s), b) {
			c.errorf("block is a successor of itself's target %d but missing from its predecessor set", s)
		}
	}
	for _, p := range fn.Predecessors(b) {
		if !containsBlock(fn.Successors(p), b) {
			c.errorf("block lists %d as a predecessor but is missing from that block's successor set", p)
		}
	}

	for _, v := range fn.Reads(b) {
		if target, ok := fn.ValueKind(v).IsAlias(); ok {
			c.errorf("read list references alias value (standing for value %d); aliases must be resolved before validation", target)
		}
	}

	op := fn.Op(b)
	if op == nil {
		return
	}
	switch op.Tag {
	case ir.OpCase:
		if fn.Dialect() != ir.High {
			c.errorf("case op present under dialect %s, which allows only High", fn.Dialect())
		}
		reads := fn.Reads(b)
		if len(reads) < 1 || len(reads)-1 != len(op.Clauses) {
			c.errorf("case op has %d clauses but %d arm targets", len(op.Clauses), max(0, len(reads)-1))
		}
	case ir.OpReceive:
		if fn.Dialect() != ir.High {
			c.errorf("receive op present under dialect %s, which allows only High", fn.Dialect())
		}
		reads := fn.Reads(b)
		if len(reads) < 2 || len(reads)-2 != len(op.Clauses) {
			c.errorf("receive op has %d clauses but %d arm targets", len(op.Clauses), max(0, len(reads)-2))
		}
	case ir.OpCall:
		if fn.Dialect() == ir.CPS {
			c.errorf("returning call op present under CPS dialect, which allows only tail calls")
		}
		c.checkCallArity(fn.Reads(b)[2:])
	case ir.OpTailCall:
		c.checkTailCallArity(fn.Reads(b))
	}
}

// checkCallArity checks reads = [callee, args...] against the callee's
// statically known arity, when the callee resolves to a FunRef constant.
func (c *checker) checkCallArity(reads []ir.Value) {
	if len(reads) == 0 {
		return
	}
	callee, args := reads[0], reads[1:]
	constHandle, ok := c.f.ValueKind(callee).IsConstant()
	if !ok {
		return
	}
	data := c.f.Constants.Get(constHandle)
	if data.Kind != ir.ConstFunRef {
		return
	}
	ident := c.f.FuncRefIdent(data.Ref)
	if ident.Arity != len(args) {
		c.errorf("call to %s passes %d argument(s), want %d", ident, len(args), ident.Arity)
	}
}

// checkTailCallArity checks a tail call's reads = [callee, args...]. When
// callee resolves to a FunRef constant, this is a genuine call to another
// function — produced only by PromoteTailCalls, since lowering itself
// never targets a FunRef this way — and the calling convention documented
// in lower.go's package comment threads the callee's own return and
// exception continuations as the leading two entries of args, ahead of
// its declared parameters; those two are stripped before comparing the
// remainder against the callee's arity. A callee that isn't a FunRef
// constant is an ordinary continuation invocation (a Block or Arg value),
// which carries no such leading continuations, so no arity check applies.
func (c *checker) checkTailCallArity(reads []ir.Value) {
	if len(reads) == 0 {
		return
	}
	callee, args := reads[0], reads[1:]
	constHandle, ok := c.f.ValueKind(callee).IsConstant()
	if !ok {
		return
	}
	data := c.f.Constants.Get(constHandle)
	if data.Kind != ir.ConstFunRef {
		return
	}
	ident := c.f.FuncRefIdent(data.Ref)
	if len(args) < 2 {
		c.errorf("tail call to %s is missing its leading return/exception continuation arguments", ident)
		return
	}
	if realArgs := len(args) - 2; ident.Arity != realArgs {
		c.errorf("call to %s passes %d argument(s), want %d", ident, realArgs, ident.Arity)
	}
}

func (c *checker) result() error {
	if !c.insane {
		return nil
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "function %s failed validation", c.f.Ident)
	return xerrors.Errorf("%s: %w", buf.String(), errInvalid)
}

var errInvalid = xerrors.New("ir/passes: invariant violation")

func containsBlock(s []ir.Block, b ir.Block) bool {
	for _, x := range s {
		if x == b {
			return true
		}
	}
	return false
}
