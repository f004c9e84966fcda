package memory

import "sync"

func alignUp(offset, alignment uint64) uint64 {
	if alignment <= 1 {
		return offset
	}
	rem := offset % alignment
	if rem == 0 {
		return offset
	}
	return offset + (alignment - rem)
}

// freeRange is a contiguous unused byte span within a Heap.
type freeRange struct {
	offset uint64
	length uint64
}

// Heap owns a single backend memory allocation of fixed size, typed by
// memory-type index, and exposes a best-fit free list of byte ranges.
// All allocations within a heap are non-overlapping; free ranges merge on
// release.
type Heap struct {
	mu              sync.Mutex
	memoryTypeIndex uint32
	size            uint64
	free            []freeRange // sorted by offset, ascending
}

func newHeap(memoryTypeIndex uint32, size uint64) *Heap {
	return &Heap{
		memoryTypeIndex: memoryTypeIndex,
		size:            size,
		free:            []freeRange{{offset: 0, length: size}},
	}
}

// Size returns the heap's total byte size.
func (h *Heap) Size() uint64 {
	return h.size
}

// MemoryTypeIndex returns the backend memory-type index this heap was
// created with.
func (h *Heap) MemoryTypeIndex() uint32 {
	return h.memoryTypeIndex
}

// allocate scans the free list for the smallest range that can host an
// aligned allocation of size, splitting it on hit. Returns ok=false if no
// range fits.
func (h *Heap) allocate(size, alignment uint64) (Allocation, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	best := -1
	var bestAligned uint64
	for i, r := range h.free {
		aligned := alignUp(r.offset, alignment)
		if aligned+size > r.offset+r.length {
			continue
		}
		if best == -1 || r.length < h.free[best].length {
			best = i
			bestAligned = aligned
		}
	}
	if best == -1 {
		return Allocation{}, false
	}

	r := h.free[best]
	consumed := (bestAligned + size) - r.offset
	remainderOffset := r.offset + consumed
	remainderLength := r.length - consumed

	if remainderLength == 0 {
		h.free = append(h.free[:best], h.free[best+1:]...)
	} else {
		h.free[best] = freeRange{offset: remainderOffset, length: remainderLength}
	}

	return Allocation{
		heap:          h,
		offset:        r.offset,
		alignedOffset: bestAligned,
		length:        consumed,
		requestedSize: size,
	}, true
}

// release returns an allocation's byte range to the free list, merging
// with adjacent free ranges on either side.
func (h *Heap) release(offset, length uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Find insertion point (free list stays sorted by offset).
	idx := 0
	for idx < len(h.free) && h.free[idx].offset < offset {
		idx++
	}

	merged := freeRange{offset: offset, length: length}

	// Merge with the following range if adjacent.
	if idx < len(h.free) && merged.offset+merged.length == h.free[idx].offset {
		merged.length += h.free[idx].length
		h.free = append(h.free[:idx], h.free[idx+1:]...)
	}

	// Merge with the preceding range if adjacent.
	if idx > 0 && h.free[idx-1].offset+h.free[idx-1].length == merged.offset {
		merged.offset = h.free[idx-1].offset
		merged.length += h.free[idx-1].length
		idx--
		h.free = append(h.free[:idx], h.free[idx+1:]...)
	}

	h.free = append(h.free, freeRange{})
	copy(h.free[idx+1:], h.free[idx:])
	h.free[idx] = merged
}

// isEmpty reports whether the heap's entire range is free.
func (h *Heap) isEmpty() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.free) == 1 && h.free[0].offset == 0 && h.free[0].length == h.size
}

// FreeRanges returns a snapshot of the current free list, for invariant
// checking in tests.
func (h *Heap) FreeRanges() []struct{ Offset, Length uint64 } {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]struct{ Offset, Length uint64 }, len(h.free))
	for i, r := range h.free {
		out[i] = struct{ Offset, Length uint64 }{r.offset, r.length}
	}
	return out
}

// Allocation is a byte range suballocated from a Heap. Its zero value is
// not valid; obtain one from Allocator.Allocate.
type Allocation struct {
	heap          *Heap
	offset        uint64
	alignedOffset uint64
	length        uint64
	requestedSize uint64
}

// Heap returns the heap this allocation was suballocated from.
func (a *Allocation) Heap() *Heap { return a.heap }

// Offset returns the raw (possibly unaligned) start of the consumed range.
func (a *Allocation) Offset() uint64 { return a.offset }

// AlignedOffset returns the usable, alignment-satisfying offset.
func (a *Allocation) AlignedOffset() uint64 { return a.alignedOffset }

// Length returns the total span consumed from the heap, including any
// alignment padding.
func (a *Allocation) Length() uint64 { return a.length }

// Size returns the originally requested byte size (excludes padding).
func (a *Allocation) Size() uint64 { return a.requestedSize }
