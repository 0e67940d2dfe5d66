// Copyright 2024 The EFL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package efl

import (
	"fmt"
	"os"
	"unsafe"
)

// trace gates debug tracing of the allocator surface, in the style of the
// teacher's package-level debug flag. Flip to true locally when chasing a
// bug; never enabled in committed code.
const trace = false

// Heap is a boundary-tagged, explicit-free-list allocator over a Substrate.
// Its zero value is not ready for use — call New, then Init.
//
// A Heap is not safe for concurrent use.
type Heap struct {
	sub Substrate

	prologue unsafe.Pointer // block pointer to the prologue; doubles as the free-list sentinel
	freeHead unsafe.Pointer // head of the free list

	allocs int     // live allocation count
	frees  int     // cumulative free count
	peak   uintptr // peak value of sub.Hi()-sub.Lo(), for diagnostics
}

// New creates a Heap over the given Substrate. The Heap is not usable until
// Init succeeds.
func New(sub Substrate) *Heap {
	return &Heap{sub: sub}
}

// Init acquires the initial heap space, stamps the prologue and epilogue,
// and performs the first heap extension. Returns an error on failure
// (mirroring spec.md §6's init() -> 0/-1 contract, but idiomatically).
func (h *Heap) Init() (err error) {
	if trace {
		defer func() { fmt.Fprintf(os.Stderr, "Init() %v\n", err) }()
	}

	// One word of leading pad, then a minBlock-sized prologue (header,
	// zeroed link slots, footer), then a zero-size epilogue header. This is
	// exactly the byte count the layout needs (2W + M); requesting more
	// would leave committed-but-unaccounted slack between the epilogue
	// header and the substrate's break, which extendHeap's "raw aliases
	// the previous epilogue header" assumption (spec.md §4.7) depends on
	// not existing.
	base, err := h.sub.Grow(2*wordSize + minBlock)
	if err != nil {
		return fmt.Errorf("efl: initializing heap: %w", err)
	}

	storeWord(base, 0) // leading pad
	prologueHdr := unsafe.Pointer(uintptr(base) + wordSize)
	bp := unsafe.Pointer(uintptr(prologueHdr) + wordSize)
	setTags(bp, minBlock, true)
	setPrevFree(bp, nil)
	setNextFree(bp, nil)
	storeWord(hdrp(nextBlk(bp)), pack(0, true)) // epilogue

	h.prologue = bp
	h.freeHead = bp

	if _, err := h.extendHeap(chunkWords); err != nil {
		return err
	}
	return nil
}

// Alloc returns a pointer to at least size bytes of payload, or nil if size
// is zero or the heap cannot be extended to satisfy the request.
func (h *Heap) Alloc(size uintptr) (r unsafe.Pointer) {
	if trace {
		defer func() { fmt.Fprintf(os.Stderr, "Alloc(%#x) %p\n", size, r) }()
	}

	if size == 0 {
		return nil
	}

	adjusted := adjustedSize(size)

	if bp := h.findFit(adjusted); bp != nil {
		h.place(bp, adjusted)
		h.allocs++
		h.trackResident()
		return bp
	}

	grow := adjusted
	if chunkBytes := uintptr(chunkWords) * wordSize; grow < chunkBytes {
		grow = chunkBytes
	}
	bp, err := h.extendHeap(grow / wordSize)
	if err != nil {
		return nil
	}

	h.place(bp, adjusted)
	h.allocs++
	h.trackResident()
	return bp
}

// Free releases the allocation at p. Freeing nil is a no-op. Freeing a
// pointer not obtained from Alloc/Realloc is undefined behavior, per
// spec.md §7.
func (h *Heap) Free(p unsafe.Pointer) {
	if trace {
		defer func() { fmt.Fprintf(os.Stderr, "Free(%p)\n", p) }()
	}

	if p == nil {
		return
	}

	size := blockSize(p)
	setTags(p, size, false)
	h.coalesce(p)
	h.allocs--
	h.frees++
}

// Realloc resizes the allocation at p to size bytes, per spec.md §4.1. A nil
// p behaves like Alloc; a zero size frees p and returns nil.
func (h *Heap) Realloc(p unsafe.Pointer, size uintptr) (r unsafe.Pointer) {
	if trace {
		defer func() { fmt.Fprintf(os.Stderr, "Realloc(%p, %#x) %p\n", p, size, r) }()
	}

	if size == 0 {
		h.Free(p)
		return nil
	}
	if p == nil {
		return h.Alloc(size)
	}

	adjusted := adjustedSize(size)
	old := blockSize(p)

	if old == adjusted {
		return p
	}

	if adjusted <= old {
		if old-adjusted < minBlock {
			return p
		}
		setTags(p, adjusted, true)
		tail := nextBlk(p)
		setTags(tail, old-adjusted, false)
		h.coalesce(tail)
		return p
	}

	newp := h.Alloc(size)
	if newp == nil {
		return nil
	}

	n := size
	if usable := old - overhead; usable < n {
		n = usable
	}
	copyBytes(newp, p, n)
	h.Free(p)
	return newp
}

// adjustedSize computes the actual block size needed for a size-byte
// request: payload aligned to 8 bytes, plus room for both boundary tags,
// floored at minBlock so the block stays freeable.
func adjustedSize(size uintptr) uintptr {
	a := align8(size) + dword
	if a < minBlock {
		a = minBlock
	}
	return a
}

func copyBytes(dst, src unsafe.Pointer, n uintptr) {
	d := unsafe.Slice((*byte)(dst), n)
	s := unsafe.Slice((*byte)(src), n)
	copy(d, s)
}

func (h *Heap) trackResident() {
	if r := uintptr(h.sub.Hi()) - uintptr(h.sub.Lo()); r > h.peak {
		h.peak = r
	}
}

// Stats reports the live allocation count, the cumulative free count, and
// the peak resident heap size (sub.Hi()-sub.Lo(), at its high-water mark).
// Diagnostic only — Check cross-checks allocs against an independent
// physical block walk.
func (h *Heap) Stats() (allocs, frees int, peak uintptr) {
	return h.allocs, h.frees, h.peak
}
