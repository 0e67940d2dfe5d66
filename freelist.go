// Copyright 2024 The EFL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package efl

import "unsafe"

// insertFront inserts bp at the head of the free list. bp's tags must
// already be written as free before calling this.
func (h *Heap) insertFront(bp unsafe.Pointer) {
	setNextFree(bp, h.freeHead)
	setPrevFree(h.freeHead, bp)
	setPrevFree(bp, nil)
	h.freeHead = bp
}

// unlink removes bp from the free list. The dereference of getNextFree(bp)
// relies on the sentinel (prologue) block at the list's logical tail always
// being present, per spec.md §4.5.
func (h *Heap) unlink(bp unsafe.Pointer) {
	if prev := getPrevFree(bp); prev != nil {
		setNextFree(prev, getNextFree(bp))
	} else {
		h.freeHead = getNextFree(bp)
	}
	setPrevFree(getNextFree(bp), getPrevFree(bp))
}
