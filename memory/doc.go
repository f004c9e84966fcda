// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package memory implements the backend-agnostic GPU memory allocator.
//
// Allocation translates a caller-facing MemoryUsage into a mask of backend
// memory-type indices, then suballocates a byte range from a best-fit
// free-list pool scoped to that memory type. Heaps are chunked: once an
// existing heap of a memory type cannot satisfy a request, a new heap is
// created and appended to that type's pool.
//
//	Allocator
//	  -> pools[memoryTypeIndex] []Heap
//	       -> Heap.free []freeRange (sorted, non-overlapping)
//
// Unlike a buddy allocator, heap ranges are not rounded to a power of two;
// the free list tracks exact byte ranges and merges adjacent ranges on
// release, so fragmentation is bounded by actual usage rather than
// block-size rounding.
package memory
