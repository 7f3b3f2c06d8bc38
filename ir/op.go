// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

// OpTag is the closed set of block operations. Every block under
// construction carries at most one op; an unset op marks a block still
// being built.
//
// Unlike go/ssa, which gives every instruction kind its own struct
// implementing a shared Instruction interface, operations here are a
// single tagged struct: the operand values they read all live uniformly
// in the block's read list (see Function.Reads), so an op only needs to
// carry the metadata that isn't itself a value — which pattern clauses a
// Case dispatches on, which function and closure environment a
// MakeClosure instantiates, which primitive a PrimOp computes.
type OpTag uint8

const (
	// OpCall is a returning call. Reads are
	// [returnCont, exceptionCont, callee, args...].
	OpCall OpTag = iota
	// OpTailCall is a non-returning call. Reads are [callee, args...].
	OpTailCall
	// OpIf branches on a boolean. Reads are [cond, thenTarget, elseTarget].
	OpIf
	// OpCase dispatches on the first clause (in Clauses) matching the
	// subject. Reads are [subject, arm0Target, arm1Target, ...], one arm
	// per entry in Clauses, in the same order. Only valid in the High
	// dialect.
	OpCase
	// OpMakeClosure packages FuncRef as a closure over LambdaEnv, capturing
	// the free variables in reads[1:], then invokes the continuation in
	// reads[0] with the closure value.
	OpMakeClosure
	// OpPrimOp computes Primitive over the operands in reads[1:] and
	// invokes the continuation in reads[0] with the result.
	OpPrimOp
	// OpReceive waits for the next process mailbox message. Reads are
	// [timeout, timeoutTarget, arm0Target, arm1Target, ...]: timeout is a
	// constant (an integer millisecond count or the atom infinity);
	// timeoutTarget is invoked if no arm matches before it elapses;
	// otherwise the first entry in Clauses whose pattern matches the
	// message selects its parallel arm target, exactly like OpCase. Only
	// valid in the High dialect, for the same reason OpCase is: matching
	// is not yet compiled to a decision tree.
	OpReceive
)

func (t OpTag) String() string {
	switch t {
	case OpCall:
		return "call"
	case OpTailCall:
		return "tail_call"
	case OpIf:
		return "if"
	case OpCase:
		return "case"
	case OpMakeClosure:
		return "make_closure"
	case OpPrimOp:
		return "prim_op"
	case OpReceive:
		return "receive"
	default:
		return "unknown_op"
	}
}

// PrimitiveOp is the closed set of value-constructing primitives available
// to OpPrimOp.
type PrimitiveOp uint8

const (
	// PrimMakeTuple builds a tuple from its operands.
	PrimMakeTuple PrimitiveOp = iota
	// PrimMakeCons builds a non-empty list cell from (head, tail).
	PrimMakeCons
)

func (p PrimitiveOp) String() string {
	switch p {
	case PrimMakeTuple:
		return "make_tuple"
	case PrimMakeCons:
		return "make_cons"
	default:
		return "unknown_prim"
	}
}

// Op is the operation a block performs, plus whatever metadata its kind
// needs beyond the block's ordinary read list.
type Op struct {
	Tag OpTag

	// Primitive is valid iff Tag == OpPrimOp.
	Primitive PrimitiveOp

	// FuncRef and LambdaEnv are valid iff Tag == OpMakeClosure.
	FuncRef   FuncRef
	LambdaEnv int

	// Clauses is valid iff Tag == OpCase or Tag == OpReceive: one entry per
	// arm, parallel to the arm targets in Reads (Reads[1:] for OpCase,
	// Reads[2:] for OpReceive, which has a leading timeout/timeoutTarget
	// pair before its arm targets).
	Clauses []PatternClause
}
