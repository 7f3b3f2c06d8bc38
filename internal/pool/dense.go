// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pool implements the arena-backed storage primitives the rest of
// the module builds on: a dense primary map keyed by a typed integer
// handle, an interned list pool, and a pooled, insertion-ordered bit-set.
// None of the three ever deletes an entry; handles are valid for the
// lifetime of the pool that produced them.
package pool

// Handle is any dense, zero-based integer handle type. Block, Value,
// FuncRef, Const and PatternClause in package ir all satisfy it.
type Handle interface {
	~uint32
}

// Dense is an arena-backed primary map keyed by a dense handle H, storing
// one T per handle. Push is the only way to add an entry; handles are
// never recycled or removed, mirroring go/ssa's Function.Blocks slice
// (indexed by BasicBlock.Index) and the original source's
// cranelift_entity::PrimaryMap.
type Dense[H Handle, T any] struct {
	items []T
}

// Push appends v and returns the handle that now refers to it.
func (d *Dense[H, T]) Push(v T) H {
	h := H(len(d.items))
	d.items = append(d.items, v)
	return h
}

// Len returns the number of entries pushed so far.
func (d *Dense[H, T]) Len() int { return len(d.items) }

// Get returns the value at h.
func (d *Dense[H, T]) Get(h H) T { return d.items[h] }

// Set overwrites the value at h.
func (d *Dense[H, T]) Set(h H, v T) { d.items[h] = v }

// Ptr returns a pointer to the entry at h, for in-place mutation.
func (d *Dense[H, T]) Ptr(h H) *T { return &d.items[h] }

// All returns the backing slice in handle order, 0..Len()-1. Callers must
// not retain it across further Push calls.
func (d *Dense[H, T]) All() []T { return d.items }
