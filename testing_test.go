// Copyright 2024 The EFL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package efl

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// newTestHeap builds a Heap over a fresh MemSubstrate reserved just for one
// test, so tests never share address space or bookkeeping.
func newTestHeap(t *testing.T) *Heap {
	t.Helper()
	sub, err := NewSubstrate(SubstrateOptions{Reservation: 64 << 20})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sub.Close() })

	h := New(sub)
	require.NoError(t, h.Init())
	return h
}

func writePattern(p unsafe.Pointer, n int, seed byte) {
	b := unsafe.Slice((*byte)(p), n)
	for i := range b {
		b[i] = seed + byte(i)
	}
}

func checkPattern(t *testing.T, p unsafe.Pointer, n int, seed byte) {
	t.Helper()
	b := unsafe.Slice((*byte)(p), n)
	for i, g := range b {
		if e := seed + byte(i); g != e {
			t.Fatalf("byte %d: got %#02x want %#02x", i, g, e)
		}
	}
}
