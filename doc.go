// Copyright 2024 The EFL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package efl implements a dynamic memory allocator over a contiguous,
// monotonically-growable heap region.
//
// The heap is boundary-tagged: every block carries a header and footer word
// encoding (size, allocated) so that either physical neighbor can be
// inspected in O(1) without walking the whole heap. Free blocks are threaded
// through an explicit doubly-linked free list (the links live in what would
// otherwise be payload bytes), searched first-fit and coalesced immediately
// on free. This is the classic explicit-free-list design taught alongside
// boundary tags; see the "Dynamic Memory Allocation" chapter of any systems
// textbook for the algorithm this package implements directly.
//
// A Heap is not safe for concurrent use; callers needing concurrency must
// add their own locking.
package efl
