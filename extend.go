// Copyright 2024 The EFL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package efl

import (
	"fmt"
	"unsafe"
)

// extendHeap asks the substrate for more room, words 4-byte words worth (or
// minBlock, whichever is larger, rounded to an even word count so payloads
// stay 8-byte aligned), stamps a new free block and epilogue over it, and
// coalesces the result with whatever was at the old tail. Returns the block
// pointer of the (possibly merged) new free space.
func (h *Heap) extendHeap(words uintptr) (unsafe.Pointer, error) {
	size := words * wordSize
	if words%2 != 0 {
		size += wordSize
	}
	if size < minBlock {
		size = minBlock
	}

	raw, err := h.sub.Grow(size)
	if err != nil {
		return nil, fmt.Errorf("efl: extending heap by %d bytes: %w", size, err)
	}

	// raw is exactly the old high water mark, which by construction equals
	// the physical successor of whatever block used to end the heap — its
	// header slot (hdrp(raw)) is the previous epilogue header, now
	// overwritten in place. See Init for why this always lines up.
	bp := raw
	setTags(bp, size, false)
	storeWord(hdrp(nextBlk(bp)), pack(0, true)) // new epilogue

	return h.coalesce(bp), nil
}
