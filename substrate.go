// Copyright 2024 The EFL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package efl

import (
	"fmt"
	"unsafe"
)

// DefaultReservation is the size, in bytes, of the virtual address range a
// MemSubstrate reserves up front. The heap never grows past this without
// returning an out-of-memory error from Grow.
const DefaultReservation = 1 << 30 // 1 GiB of address space, committed lazily

// Substrate is the "sbrk-like" primitive the allocator core is built on: the
// ability to extend a heap by a byte count, and to read its current bounds.
// It is the only collaborator the core depends on; spec.md §6 and §1 keep it
// out of the core's scope deliberately so it can be swapped (e.g. for a test
// double backed by a plain Go slice).
type Substrate interface {
	// Grow extends the heap by exactly n bytes and returns the address of
	// the first new byte (the previous high water mark), or an error if
	// the substrate cannot satisfy the request.
	Grow(n uintptr) (unsafe.Pointer, error)

	// Lo returns the heap's current inclusive low bound.
	Lo() unsafe.Pointer

	// Hi returns the heap's current exclusive high bound.
	Hi() unsafe.Pointer
}

// SubstrateOptions configures a MemSubstrate.
type SubstrateOptions struct {
	// Reservation is the size, in bytes, of the virtual address range to
	// reserve up front. Zero selects DefaultReservation.
	Reservation uintptr
}

// MemSubstrate is the default Substrate: a single large virtual memory
// reservation, grown by committing more of it on demand. It never moves the
// base address, so block pointers handed out by the allocator stay valid
// until Close releases the reservation, matching spec.md §5 ("the allocator
// never releases pages to the substrate").
type MemSubstrate struct {
	base      unsafe.Pointer
	reserved  uintptr
	committed uintptr
}

// NewSubstrate reserves a fresh virtual address range and returns a
// MemSubstrate ready to be grown from zero bytes committed.
func NewSubstrate(opts SubstrateOptions) (*MemSubstrate, error) {
	reservation := opts.Reservation
	if reservation == 0 {
		reservation = DefaultReservation
	}
	reservation = align8(reservation)

	base, err := reserve(reservation)
	if err != nil {
		return nil, fmt.Errorf("efl: reserving %d bytes of address space: %w", reservation, err)
	}

	return &MemSubstrate{base: base, reserved: reservation}, nil
}

func (s *MemSubstrate) Lo() unsafe.Pointer { return s.base }

func (s *MemSubstrate) Hi() unsafe.Pointer {
	return unsafe.Pointer(uintptr(s.base) + s.committed)
}

// Grow commits n additional bytes at the current break and returns the
// address of the first byte of the newly committed range. n must already be
// 8-byte aligned; callers (extendHeap) are responsible for rounding.
func (s *MemSubstrate) Grow(n uintptr) (unsafe.Pointer, error) {
	if n == 0 {
		return s.Hi(), nil
	}
	if s.committed+n > s.reserved {
		return nil, fmt.Errorf("efl: out of memory: heap reservation of %d bytes exhausted", s.reserved)
	}

	old := s.Hi()
	if err := commit(unsafe.Pointer(uintptr(s.base)+s.committed), n); err != nil {
		return nil, fmt.Errorf("efl: committing %d bytes: %w", n, err)
	}
	s.committed += n
	return old, nil
}

// Close releases the reserved address range. Not required for correctness;
// provided for tests and long-running hosts that create many Heaps.
func (s *MemSubstrate) Close() error {
	if s.base == nil {
		return nil
	}
	err := release(s.base, s.reserved)
	s.base = nil
	s.reserved = 0
	s.committed = 0
	return err
}
