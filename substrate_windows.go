// Copyright 2011 Evan Shaw. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE-MMAP-GO file.

// Modifications (c) 2024 The EFL Authors.

package efl

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// reserve reserves (but does not commit) size bytes of address space via
// VirtualAlloc(MEM_RESERVE). Stdlib syscall exports no VirtualAlloc/VirtualFree
// on windows (only VirtualLock/VirtualUnlock), unlike the teacher's own
// mmap_windows.go, which gets by with CreateFileMapping/MapViewOfFile because
// it maps everything read-write up front with no separate reserve step; this
// substrate needs the reserve/commit split to keep the base address fixed
// across Grow calls, so it reaches for x/sys/windows instead.
func reserve(size uintptr) (unsafe.Pointer, error) {
	addr, err := windows.VirtualAlloc(0, size, windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if addr == 0 {
		return nil, err
	}
	return unsafe.Pointer(addr), nil
}

// commit upgrades size bytes starting at addr from reserved to committed via
// VirtualAlloc(MEM_COMMIT).
func commit(addr unsafe.Pointer, size uintptr) error {
	got, err := windows.VirtualAlloc(uintptr(addr), size, windows.MEM_COMMIT, windows.PAGE_READWRITE)
	if got == 0 {
		return err
	}
	return nil
}

// release frees the entire reservation.
func release(addr unsafe.Pointer, size uintptr) error {
	return windows.VirtualFree(uintptr(addr), 0, windows.MEM_RELEASE)
}
