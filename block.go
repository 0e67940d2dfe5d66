// Copyright 2024 The EFL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package efl

import "unsafe"

const (
	wordSize   = 4                  // W: header/footer word size
	dword      = 8                  // D: double word, also the link-slot size
	overhead   = 2 * wordSize       // header + footer
	minBlock   = 2*dword + overhead // M: two link slots plus header/footer
	alignment  = dword              // payload alignment
	chunkWords = 16                 // CHUNK, in words, used by Init/alloc to extend the heap
)

// align8 rounds n up to the nearest multiple of 8.
func align8(n uintptr) uintptr { return (n + 7) &^ 7 }

// pack combines a block size and an allocated bit into a single boundary-tag
// word. size is assumed to already be a multiple of 8, so its low 3 bits are
// free to carry the allocated flag.
func pack(size uintptr, allocated bool) uint32 {
	w := uint32(size)
	if allocated {
		w |= 1
	}
	return w
}

func tagSize(word uint32) uintptr { return uintptr(word &^ 7) }
func tagAlloc(word uint32) bool   { return word&1 != 0 }

func loadWord(p unsafe.Pointer) uint32  { return *(*uint32)(p) }
func storeWord(p unsafe.Pointer, v uint32) { *(*uint32)(p) = v }

func loadPtr(p unsafe.Pointer) unsafe.Pointer  { return *(*unsafe.Pointer)(p) }
func storePtr(p unsafe.Pointer, v unsafe.Pointer) { *(*unsafe.Pointer)(p) = v }

// hdrp returns the address of bp's header: one word before the block
// (payload) pointer.
func hdrp(bp unsafe.Pointer) unsafe.Pointer {
	return unsafe.Pointer(uintptr(bp) - wordSize)
}

// blockSize reads the size recorded in bp's header.
func blockSize(bp unsafe.Pointer) uintptr { return tagSize(loadWord(hdrp(bp))) }

// blockAlloc reports whether bp's header marks the block allocated.
func blockAlloc(bp unsafe.Pointer) bool { return tagAlloc(loadWord(hdrp(bp))) }

// ftrp returns the address of bp's footer.
func ftrp(bp unsafe.Pointer) unsafe.Pointer {
	return unsafe.Pointer(uintptr(bp) + blockSize(bp) - dword)
}

// nextBlk returns the block pointer of bp's physical successor.
func nextBlk(bp unsafe.Pointer) unsafe.Pointer {
	return unsafe.Pointer(uintptr(bp) + blockSize(bp))
}

// prevFooter returns the address of the physical predecessor's footer.
func prevFooter(bp unsafe.Pointer) unsafe.Pointer {
	return unsafe.Pointer(uintptr(bp) - dword)
}

// prevBlk returns the block pointer of bp's physical predecessor, computed
// from the predecessor's footer. Safe to call even when bp is the first
// block after the prologue, since the tiling invariant guarantees a valid
// footer (the prologue's own) sits there.
func prevBlk(bp unsafe.Pointer) unsafe.Pointer {
	sz := tagSize(loadWord(prevFooter(bp)))
	return unsafe.Pointer(uintptr(bp) - sz)
}

// setTags writes the same (size, allocated) word into both bp's header and
// footer.
func setTags(bp unsafe.Pointer, size uintptr, allocated bool) {
	w := pack(size, allocated)
	storeWord(hdrp(bp), w)
	storeWord(ftrp(bp), w)
}

// The free-list links are stored in the first two D-sized words of a free
// block's payload area: prevFree at offset 0, nextFree at offset D.

func prevFreeSlot(bp unsafe.Pointer) unsafe.Pointer { return bp }
func nextFreeSlot(bp unsafe.Pointer) unsafe.Pointer {
	return unsafe.Pointer(uintptr(bp) + dword)
}

func getPrevFree(bp unsafe.Pointer) unsafe.Pointer { return loadPtr(prevFreeSlot(bp)) }
func getNextFree(bp unsafe.Pointer) unsafe.Pointer { return loadPtr(nextFreeSlot(bp)) }

func setPrevFree(bp, v unsafe.Pointer) { storePtr(prevFreeSlot(bp), v) }
func setNextFree(bp, v unsafe.Pointer) { storePtr(nextFreeSlot(bp), v) }
