// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pool

// List is an interned list pool: many small, ordered sequences of T share
// one backing arena. A handle is just an (offset, length) pair, so it is
// cheap to copy and store inline in other structures (e.g. a block's
// argument list). Modeled on cranelift_entity's ListPool/EntityList, which
// the original eir sources use for exactly this purpose (block argument
// and read lists).
type List[T any] struct {
	arena []T
}

// ListHandle names a slice of a List's arena. The zero value is the empty
// list.
type ListHandle struct {
	offset uint32
	length uint32
}

// Len reports the number of elements referred to by h.
func (h ListHandle) Len() int { return int(h.length) }

// Slice returns the elements referred to by h, in order. The returned
// slice aliases the pool's arena and is invalidated by any subsequent
// Append/Push on the same pool that must grow the arena.
func (p *List[T]) Slice(h ListHandle) []T {
	return p.arena[h.offset : h.offset+h.length : h.offset+h.length]
}

// At returns the i'th element of h.
func (p *List[T]) At(h ListHandle, i int) T {
	return p.arena[int(h.offset)+i]
}

// Append creates a new list containing items and returns its handle.
func (p *List[T]) Append(items ...T) ListHandle {
	off := uint32(len(p.arena))
	p.arena = append(p.arena, items...)
	return ListHandle{offset: off, length: uint32(len(items))}
}

// Push grows h by one element, appending v to the sequence it names, and
// returns the updated handle. If h currently occupies the tail of the
// arena the growth happens in place; otherwise the sequence is copied to
// the tail first. Callers must always use the handle Push returns and
// discard the old one, exactly as cranelift_entity::EntityList::push
// requires callers to keep using the same pool for a given list.
func (p *List[T]) Push(h ListHandle, v T) ListHandle {
	end := h.offset + h.length
	if int(end) == len(p.arena) {
		p.arena = append(p.arena, v)
		return ListHandle{offset: h.offset, length: h.length + 1}
	}
	newOff := uint32(len(p.arena))
	p.arena = append(p.arena, p.arena[h.offset:end]...)
	p.arena = append(p.arena, v)
	return ListHandle{offset: newOff, length: h.length + 1}
}
