// Copyright 2024 The EFL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package efl

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestAllocZeroReturnsNil(t *testing.T) {
	h := newTestHeap(t)
	require.Nil(t, h.Alloc(0))
}

func TestFreeNilIsNoOp(t *testing.T) {
	h := newTestHeap(t)
	h.Free(nil) // must not panic
}

func TestAllocBasic(t *testing.T) {
	h := newTestHeap(t)

	p := h.Alloc(24)
	require.NotNil(t, p)
	require.Zero(t, uintptr(p)%alignment)
	require.Equal(t, uintptr(32), blockSize(p))
	require.True(t, blockAlloc(p))

	code, err := h.Check()
	require.NoError(t, err)
	require.Zero(t, code)
}

func TestAllocFreeReuse(t *testing.T) {
	h := newTestHeap(t)

	first := h.Alloc(24)
	require.NotNil(t, first)
	_ = h.Alloc(40)
	h.Free(first)
	third := h.Alloc(24)

	require.Equal(t, first, third, "LIFO + first-fit should reuse the freed block")
}

func TestFreeCoalescesNeighbors(t *testing.T) {
	h := newTestHeap(t)

	a := h.Alloc(100)
	b := h.Alloc(100)
	require.NotNil(t, a)
	require.NotNil(t, b)

	h.Free(a)
	h.Free(b)

	// Exactly one free-list entry should remain reachable from the head:
	// the coalesced a+b block, which has also absorbed the free tail
	// residue extendHeap left after b.
	seen := 0
	for bp := h.freeHead; !blockAlloc(bp); bp = getNextFree(bp) {
		seen++
		require.Less(t, seen, 10, "free list should not be unbounded")
	}
	require.Equal(t, 1, seen)

	// No free block should have a free physical neighbor (P7).
	for bp := h.freeHead; !blockAlloc(bp); bp = getNextFree(bp) {
		require.True(t, blockAlloc(prevBlk(bp)) || prevBlk(bp) == bp, "prev neighbor must be allocated")
		require.True(t, blockAlloc(nextBlk(bp)), "next neighbor must be allocated")
	}
}

func TestReallocShrinkInPlace(t *testing.T) {
	h := newTestHeap(t)

	p := h.Alloc(100)
	require.NotNil(t, p)
	writePattern(p, 100, 0x11)

	q := h.Realloc(p, 50)
	require.Equal(t, p, q)
	checkPattern(t, q, 50, 0x11)
}

func TestReallocGrowMoves(t *testing.T) {
	h := newTestHeap(t)

	p := h.Alloc(50)
	require.NotNil(t, p)
	writePattern(p, 50, 0x22)

	q := h.Realloc(p, 10000)
	require.NotNil(t, q)
	require.NotEqual(t, p, q)
	checkPattern(t, q, 50, 0x22)
}

func TestReallocNullEquivalence(t *testing.T) {
	h := newTestHeap(t)

	p := h.Realloc(nil, 16)
	require.NotNil(t, p)

	q := h.Realloc(p, 0)
	require.Nil(t, q)
}

func TestNoOverlap(t *testing.T) {
	h := newTestHeap(t)

	type live struct {
		p unsafe.Pointer
		n uintptr
	}
	var all []live
	for i := 0; i < 64; i++ {
		n := uintptr(8 + i*7)
		p := h.Alloc(n)
		require.NotNil(t, p)
		all = append(all, live{p, n})
	}

	for i := range all {
		for j := range all {
			if i == j {
				continue
			}
			lo1, hi1 := uintptr(all[i].p), uintptr(all[i].p)+all[i].n
			lo2, hi2 := uintptr(all[j].p), uintptr(all[j].p)+all[j].n
			overlap := lo1 < hi2 && lo2 < hi1
			require.False(t, overlap, "allocations %d and %d overlap", i, j)
		}
	}
}

func TestCheckDetectsBadPrologue(t *testing.T) {
	h := newTestHeap(t)
	storeWord(hdrp(h.prologue), pack(minBlock, false)) // corrupt: clear alloc bit

	code, err := h.Check()
	require.Equal(t, -1, code)
	require.Error(t, err)
	var ce *CheckError
	require.ErrorAs(t, err, &ce)
}
