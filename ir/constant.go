// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import (
	"strconv"

	"github.com/eirlang/eirgo/ast"
	"github.com/eirlang/eirgo/internal/pool"
)

// ConstantKind is the closed set of constant shapes a function's constant
// container can hold. It mirrors ast.LiteralKind plus FunRef, a constant
// naming another function directly (Erlang's `fun Name/Arity`).
type ConstantKind int

const (
	ConstAtom ConstantKind = iota
	ConstInt
	ConstFloat
	ConstString
	ConstChar
	ConstNil
	ConstTuple
	ConstList
	ConstFunRef
)

// ConstantData is the recursively-interned representation of one constant.
type ConstantData struct {
	Kind  ConstantKind
	Text  string  // textual form, for atoms/numbers/strings/chars
	Elems []Const // element constants, for Tuple and List
	Ref   FuncRef // valid iff Kind == ConstFunRef
}

// ConstantContainer interns the constant literals a function's ops
// reference, deduplicating by canonical textual form so that two equal
// literals share one Const handle (grounded in go/ssa's canonizer, which
// shares types.Type and *types.Tuple instances the same way).
type ConstantContainer struct {
	consts pool.Dense[Const, ConstantData]
	byKey  map[string]Const
}

// Intern returns the Const handle for lit, reusing an existing handle for
// an equal literal if one was already interned.
func (c *ConstantContainer) Intern(lit ast.Literal) Const {
	data := c.literalData(lit)
	return c.internData(data)
}

// InternFuncRef returns the Const handle naming ref as a function value.
func (c *ConstantContainer) InternFuncRef(ref FuncRef) Const {
	return c.internData(ConstantData{Kind: ConstFunRef, Ref: ref})
}

// Get returns the data for handle h.
func (c *ConstantContainer) Get(h Const) ConstantData { return c.consts.Get(h) }

func (c *ConstantContainer) literalData(lit ast.Literal) ConstantData {
	data := ConstantData{Text: lit.Text}
	switch lit.Kind {
	case ast.LitAtom:
		data.Kind = ConstAtom
	case ast.LitInt:
		data.Kind = ConstInt
	case ast.LitFloat:
		data.Kind = ConstFloat
	case ast.LitString:
		data.Kind = ConstString
	case ast.LitChar:
		data.Kind = ConstChar
	case ast.LitNil:
		data.Kind = ConstNil
	case ast.LitTuple:
		data.Kind = ConstTuple
		data.Elems = make([]Const, len(lit.Elems))
		for i, e := range lit.Elems {
			data.Elems[i] = c.Intern(e)
		}
	case ast.LitList:
		data.Kind = ConstList
		data.Elems = make([]Const, len(lit.Elems))
		for i, e := range lit.Elems {
			data.Elems[i] = c.Intern(e)
		}
	}
	return data
}

func (c *ConstantContainer) internData(data ConstantData) Const {
	key := data.key()
	if c.byKey == nil {
		c.byKey = make(map[string]Const)
	}
	if h, ok := c.byKey[key]; ok {
		return h
	}
	h := c.consts.Push(data)
	c.byKey[key] = h
	return h
}

func (d ConstantData) key() string {
	s := strconv.Itoa(int(d.Kind)) + ":" + d.Text
	if d.Kind == ConstFunRef {
		s += strconv.Itoa(int(d.Ref))
	}
	for _, e := range d.Elems {
		s += "," + strconv.Itoa(int(e))
	}
	return s
}
