// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

// ValueTag is the closed set of value kinds. Unlike go/ssa's Value, which
// is an open interface implemented by every instruction that defines a
// result, values here never carry a result of their own: the only ways to
// introduce one are a block argument, a reference to a block, an interned
// constant, or an alias of another value. A computed result becomes
// visible only as the bound argument of whatever block receives it.
type ValueTag uint8

const (
	// ValueArg is the Nth argument of some block, bound when control
	// reaches that block.
	ValueArg ValueTag = iota
	// ValueBlockRef names a block directly, e.g. as a call target or an
	// If/Case arm. A value of this kind is what makes a block a
	// successor of the block that reads it.
	ValueBlockRef
	// ValueConstant names an entry in the function's constant
	// container.
	ValueConstant
	// ValueAlias stands for another value, recorded by atomic
	// propagation; one must never be reachable from a live read list
	// after passes finish (ir/passes enforces this).
	ValueAlias
)

// ValueKind is the full, closed description of one value. Exactly one of
// the payload fields is meaningful, selected by Tag.
type ValueKind struct {
	Tag      ValueTag
	Block    Block // valid iff Tag is ValueArg or ValueBlockRef
	Constant Const // valid iff Tag is ValueConstant
	Alias    Value // valid iff Tag is ValueAlias
}

// ArgKind builds the kind for the Nth argument of block b. The argument
// index itself is recovered positionally from Function.Args, not stored
// here.
func ArgKind(b Block) ValueKind { return ValueKind{Tag: ValueArg, Block: b} }

// BlockRefKind builds the kind for a value that names block b.
func BlockRefKind(b Block) ValueKind { return ValueKind{Tag: ValueBlockRef, Block: b} }

// ConstantKindOf builds the kind for a value referencing constant c.
func ConstantKindOf(c Const) ValueKind { return ValueKind{Tag: ValueConstant, Constant: c} }

// AliasKind builds the kind for a value standing in for target.
func AliasKind(target Value) ValueKind { return ValueKind{Tag: ValueAlias, Alias: target} }

// IsBlockRef reports whether k names a block, and returns it.
func (k ValueKind) IsBlockRef() (Block, bool) {
	if k.Tag == ValueBlockRef {
		return k.Block, true
	}
	return 0, false
}

// IsConstant reports whether k names a constant, and returns it.
func (k ValueKind) IsConstant() (Const, bool) {
	if k.Tag == ValueConstant {
		return k.Constant, true
	}
	return 0, false
}

// IsAlias reports whether k stands in for another value, and returns it.
func (k ValueKind) IsAlias() (Value, bool) {
	if k.Tag == ValueAlias {
		return k.Alias, true
	}
	return 0, false
}
