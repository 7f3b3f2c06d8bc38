// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pool

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type handle uint32

func TestDense(t *testing.T) {
	var d Dense[handle, string]
	h0 := d.Push("a")
	h1 := d.Push("b")
	if h0 != 0 || h1 != 1 {
		t.Fatalf("got handles %d, %d; want 0, 1", h0, h1)
	}
	if got := d.Get(h1); got != "b" {
		t.Fatalf("Get(h1) = %q, want b", got)
	}
	*d.Ptr(h0) = "aa"
	if got := d.Get(h0); got != "aa" {
		t.Fatalf("Get(h0) after Ptr mutation = %q, want aa", got)
	}
	if d.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", d.Len())
	}
}

func TestListAppendAndPush(t *testing.T) {
	var p List[int]
	h := p.Append(1, 2, 3)
	if got := p.Slice(h); cmp.Diff([]int{1, 2, 3}, got) != "" {
		t.Fatalf("Slice(h) = %v, want [1 2 3]", got)
	}

	// Push at the tail grows in place.
	h = p.Push(h, 4)
	if got := p.Slice(h); cmp.Diff([]int{1, 2, 3, 4}, got) != "" {
		t.Fatalf("Slice(h) after Push = %v, want [1 2 3 4]", got)
	}

	// Interleaving another list's Append in between forces Push to
	// relocate when it is no longer at the tail.
	other := p.Append(9, 9)
	h = p.Push(h, 5)
	if got := p.Slice(h); cmp.Diff([]int{1, 2, 3, 4, 5}, got) != "" {
		t.Fatalf("Slice(h) after relocating Push = %v, want [1 2 3 4 5]", got)
	}
	if got := p.Slice(other); cmp.Diff([]int{9, 9}, got) != "" {
		t.Fatalf("other list corrupted by relocation: %v", got)
	}
}

func TestBitSetInsertionOrderAndMembership(t *testing.T) {
	var bp BitSetPool[handle]
	var s BitSet[handle]

	order := []handle{5, 1, 3, 1, 64, 0}
	for _, h := range order {
		bp.Insert(&s, h)
	}

	want := []handle{5, 1, 3, 64, 0} // 1 deduped on its second insertion
	if got := bp.Members(s); cmp.Diff(want, got) != "" {
		t.Fatalf("Members() = %v, want %v", got, want)
	}
	if s.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", s.Len(), len(want))
	}
	for _, h := range want {
		if !bp.Contains(s, h) {
			t.Fatalf("Contains(%d) = false, want true", h)
		}
	}
	if bp.Contains(s, 2) {
		t.Fatalf("Contains(2) = true, want false")
	}

	// A second, independent set sharing the same pool must not see the
	// first set's members.
	var s2 BitSet[handle]
	bp.Insert(&s2, 7)
	if bp.Contains(s, 7) {
		t.Fatalf("s unexpectedly contains 7 inserted into s2")
	}
	if !bp.Contains(s2, 7) {
		t.Fatalf("s2 does not contain 7 after Insert")
	}
	if bp.Contains(s2, 5) {
		t.Fatalf("s2 unexpectedly contains 5 from s")
	}
}

func TestBitSetInsertReturnsWhetherNew(t *testing.T) {
	var bp BitSetPool[handle]
	var s BitSet[handle]
	if !bp.Insert(&s, 10) {
		t.Fatalf("first Insert(10) = false, want true")
	}
	if bp.Insert(&s, 10) {
		t.Fatalf("second Insert(10) = true, want false")
	}
}
