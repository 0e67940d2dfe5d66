// Copyright 2024 The EFL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package efl

import "unsafe"

// coalesce merges bp, which is free-tagged but not yet in the free list,
// with any free physical neighbors, then inserts the (possibly merged)
// result at the head of the free list. It implements spec.md §4.4's
// four-case boundary-tag logic.
//
// When bp is the first block after the prologue, prevBlk(bp) reads the
// prologue's own footer, which is always allocated — this naturally
// produces the "previous allocated" case without a special case in code.
func (h *Heap) coalesce(bp unsafe.Pointer) unsafe.Pointer {
	prevAlloc := blockAlloc(prevBlk(bp))
	nextAlloc := blockAlloc(nextBlk(bp))
	size := blockSize(bp)

	switch {
	case prevAlloc && nextAlloc:
		// Case 1: both neighbors allocated, nothing to merge.

	case prevAlloc && !nextAlloc:
		// Case 2: next block free, absorb it.
		next := nextBlk(bp)
		size += blockSize(next)
		h.unlink(next)
		setTags(bp, size, false)

	case !prevAlloc && nextAlloc:
		// Case 3: previous block free, absorb bp into it.
		prev := prevBlk(bp)
		size += blockSize(prev)
		h.unlink(prev)
		bp = prev
		setTags(bp, size, false)

	default:
		// Case 4: both neighbors free, merge all three.
		prev := prevBlk(bp)
		next := nextBlk(bp)
		size += blockSize(prev) + blockSize(next)
		h.unlink(prev)
		h.unlink(next)
		bp = prev
		setTags(bp, size, false)
	}

	h.insertFront(bp)
	return bp
}
