// Copyright 2024 The EFL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package efl

import (
	"fmt"
	"unsafe"
)

// CheckError reports a specific heap-consistency violation found by
// (*Heap).Check. It implements error so callers can either inspect it
// structurally or just log its message, per spec.md §4.8/§7.4.
type CheckError struct {
	// Reason is a short, human-readable description of the violation.
	Reason string
	// Block is the offending block pointer, if the violation is
	// block-local (nil for heap-wide violations such as a bad prologue).
	Block unsafe.Pointer
}

func (e *CheckError) Error() string {
	if e.Block == nil {
		return fmt.Sprintf("efl: heap inconsistent: %s", e.Reason)
	}
	return fmt.Sprintf("efl: heap inconsistent at block %p: %s", e.Block, e.Reason)
}

// Check validates the prologue, then every block on the free list, against
// the invariants of spec.md §3: alignment, header/footer agreement, and
// free-list link pointers inside [lo, hi). It then walks the physical block
// chain from the prologue to the epilogue and cross-checks the number of
// allocated blocks found against h.allocs, the running count Alloc/Free/
// Realloc maintain — the same cross-check mm_check performs against its own
// bookkeeping in the original. It is diagnostic only — returns (0, nil) or
// (-1, err) — and is never required for the allocator surface's own
// correctness.
func (h *Heap) Check() (int, error) {
	if blockSize(h.prologue) != minBlock || !blockAlloc(h.prologue) {
		err := &CheckError{Reason: "bad prologue header"}
		return -1, err
	}
	if err := h.checkBlock(h.prologue); err != nil {
		return -1, err
	}

	for bp := h.freeHead; !blockAlloc(bp); bp = getNextFree(bp) {
		if err := h.checkBlock(bp); err != nil {
			return -1, err
		}
	}

	walked := 0
	for bp := h.prologue; ; bp = nextBlk(bp) {
		if size := blockSize(bp); size == 0 {
			break // epilogue
		}
		if bp != h.prologue && blockAlloc(bp) {
			walked++
		}
	}
	if walked != h.allocs {
		return -1, &CheckError{Reason: fmt.Sprintf("allocation count mismatch: walked %d, tracked %d", walked, h.allocs)}
	}

	return 0, nil
}

func (h *Heap) checkBlock(bp unsafe.Pointer) error {
	lo := uintptr(h.sub.Lo())
	hi := uintptr(h.sub.Hi())

	if uintptr(bp)%alignment != 0 {
		return &CheckError{Reason: "block pointer is not 8-byte aligned", Block: bp}
	}

	if loadWord(hdrp(bp)) != loadWord(ftrp(bp)) {
		return &CheckError{Reason: "header and footer disagree", Block: bp}
	}

	if !blockAlloc(bp) {
		if next := uintptr(getNextFree(bp)); next < lo || next > hi {
			return &CheckError{Reason: "next free pointer out of bounds", Block: bp}
		}
		if prev := uintptr(getPrevFree(bp)); prev != 0 && (prev < lo || prev > hi) {
			return &CheckError{Reason: "previous free pointer out of bounds", Block: bp}
		}
	}

	return nil
}
