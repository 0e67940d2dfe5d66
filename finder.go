// Copyright 2024 The EFL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package efl

import "unsafe"

// findFit walks the free list head to tail looking for the first block
// whose size is at least size. Traversal terminates the moment it reaches a
// block whose header has the allocated bit set — the prologue, which always
// ends the list as its sentinel, per spec.md §4.2. Returns nil if no block
// fits.
func (h *Heap) findFit(size uintptr) unsafe.Pointer {
	for bp := h.freeHead; !blockAlloc(bp); bp = getNextFree(bp) {
		if blockSize(bp) >= size {
			return bp
		}
	}
	return nil
}
