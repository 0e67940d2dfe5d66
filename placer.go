// Copyright 2024 The EFL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package efl

import "unsafe"

// place carves a request of size bytes out of the free block bp, whose
// physical size is assumed >= size. If the residue left over is at least
// minBlock it is split off, coalesced (in case the following physical block
// happens to be free too) and reinserted into the free list; otherwise the
// whole block is handed to the caller, absorbing the residue. Either way bp
// is removed from the free list before returning.
func (h *Heap) place(bp unsafe.Pointer, size uintptr) {
	total := blockSize(bp)

	if total-size >= minBlock {
		setTags(bp, size, true)
		h.unlink(bp)
		rest := nextBlk(bp)
		setTags(rest, total-size, false)
		h.coalesce(rest)
		return
	}

	setTags(bp, total, true)
	h.unlink(bp)
}
