// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pool

// BitSetPool is a pooled set-of-handles implementation shared by many
// individual sets (e.g. one per block, for its predecessor and successor
// sets). Unlike a plain bitmap, iteration order is insertion order, not
// numeric order, so that successor/predecessor iteration is deterministic
// and reflects the order edges were actually added rather than handle
// value. Membership testing is still O(1) via a bit arena; a parallel
// List[H] records the order members were inserted in.
//
// Modeled on libeir_util::pooled_entity_set::PooledEntitySet /
// EntitySetPool for the shared-arena-of-bits idea, composed with an
// order-tracking List so that successor/predecessor iteration matches the
// spec's ordering guarantee exactly.
type BitSetPool[H Handle] struct {
	bits  []uint64
	order List[H]
}

// BitSet is a handle into a BitSetPool: a bit-membership range plus an
// order-list handle. The zero value is the empty set.
type BitSet[H Handle] struct {
	bitsOff   uint32
	bitsWords uint32
	order     ListHandle
}

// Len returns the number of members of s.
func (s BitSet[H]) Len() int { return s.order.Len() }

// Contains reports whether h is a member of s.
func (p *BitSetPool[H]) Contains(s BitSet[H], h H) bool {
	w := uint32(h) / 64
	if w >= s.bitsWords {
		return false
	}
	bit := uint64(1) << (uint32(h) % 64)
	return p.bits[s.bitsOff+w]&bit != 0
}

// Members returns the members of s in insertion order. The returned slice
// aliases pool storage and is invalidated by further Insert calls on any
// set backed by the same pool.
func (p *BitSetPool[H]) Members(s BitSet[H]) []H {
	return p.order.Slice(s.order)
}

// Insert adds h to s, growing s's storage if needed, and reports whether h
// was not already present.
func (p *BitSetPool[H]) Insert(s *BitSet[H], h H) bool {
	if p.Contains(*s, h) {
		return false
	}
	p.growBits(s, uint32(h)/64+1)
	w := uint32(h) / 64
	bit := uint64(1) << (uint32(h) % 64)
	p.bits[s.bitsOff+w] |= bit

	if s.order == (ListHandle{}) {
		s.order = p.order.Append(h)
	} else {
		s.order = p.order.Push(s.order, h)
	}
	return true
}

// growBits ensures s has at least neededWords of bit storage, relocating
// to the tail of the shared arena if it must grow.
func (p *BitSetPool[H]) growBits(s *BitSet[H], neededWords uint32) {
	if neededWords <= s.bitsWords {
		return
	}
	newOff := uint32(len(p.bits))
	p.bits = append(p.bits, make([]uint64, neededWords)...)
	copy(p.bits[newOff:], p.bits[s.bitsOff:s.bitsOff+s.bitsWords])
	s.bitsOff = newOff
	s.bitsWords = neededWords
}
