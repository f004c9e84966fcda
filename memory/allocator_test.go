package memory

import "testing"

func singleTypeProps(t MemoryTypeInfo) DeviceMemoryProperties {
	return DeviceMemoryProperties{Types: []MemoryTypeInfo{t}}
}

func gpuType() MemoryTypeInfo {
	return MemoryTypeInfo{Kind: MemoryKindVRAM, IsCPUAccessible: false, IsCached: false, IsCoherent: false}
}

// TestChunkSplitMerge covers concrete scenario 1: heap size 1024;
// allocate (256, align 1) -> offset 0, (256, align 1) -> offset 256; free
// first; allocate (128, align 256) -> offset 0; after freeing both
// allocations the free list is a single range (0, 1024).
func TestChunkSplitMerge(t *testing.T) {
	a := NewAllocator(singleTypeProps(gpuType()), 1024)

	reqA := ResourceHeapInfo{Size: 256, Alignment: 1, MemoryTypeMask: 0xFFFFFFFF}
	allocA, err := a.Allocate(UsageGPUMemory, reqA)
	if err != nil {
		t.Fatalf("allocate A: %v", err)
	}
	if allocA.AlignedOffset() != 0 {
		t.Fatalf("A offset = %d, want 0", allocA.AlignedOffset())
	}

	allocB, err := a.Allocate(UsageGPUMemory, reqA)
	if err != nil {
		t.Fatalf("allocate B: %v", err)
	}
	if allocB.AlignedOffset() != 256 {
		t.Fatalf("B offset = %d, want 256", allocB.AlignedOffset())
	}

	a.Free(allocA)

	reqC := ResourceHeapInfo{Size: 128, Alignment: 256, MemoryTypeMask: 0xFFFFFFFF}
	allocC, err := a.Allocate(UsageGPUMemory, reqC)
	if err != nil {
		t.Fatalf("allocate C: %v", err)
	}
	if allocC.AlignedOffset() != 0 {
		t.Fatalf("C offset = %d, want 0", allocC.AlignedOffset())
	}

	a.Free(allocC)
	a.Free(allocB)

	heap := allocB.Heap()
	ranges := heap.FreeRanges()
	if len(ranges) != 1 || ranges[0].Offset != 0 || ranges[0].Length != 1024 {
		t.Fatalf("free list = %+v, want single range (0, 1024)", ranges)
	}
}

// TestAlignmentRespect covers concrete scenario 2: allocating size=100
// with alignment=256 from a free range starting at offset 50 consumes
// the padding too; the aligned offset is 256 and the consumed range is
// 100 + (256-50) = 306 bytes long.
func TestAlignmentRespect(t *testing.T) {
	h := newHeap(0, 1024)
	// Carve the heap down to a single free range starting at offset 50.
	h.free = []freeRange{{offset: 50, length: 1024 - 50}}

	alloc, ok := h.allocate(100, 256)
	if !ok {
		t.Fatal("allocate failed")
	}
	if alloc.AlignedOffset() != 256 {
		t.Fatalf("aligned offset = %d, want 256", alloc.AlignedOffset())
	}
	wantConsumed := uint64(100 + (256 - 50))
	if alloc.Length() != wantConsumed {
		t.Fatalf("consumed length = %d, want %d", alloc.Length(), wantConsumed)
	}
	if alloc.Offset() != 50 {
		t.Fatalf("offset = %d, want 50", alloc.Offset())
	}

	ranges := h.FreeRanges()
	if len(ranges) != 1 {
		t.Fatalf("free list = %+v, want 1 range", ranges)
	}
	wantRemainderOffset := uint64(50) + wantConsumed
	if ranges[0].Offset != wantRemainderOffset {
		t.Fatalf("remainder offset = %d, want %d", ranges[0].Offset, wantRemainderOffset)
	}
}

// TestAllocationSoundness verifies that after a sequence of allocations
// and frees, the union of live + free ranges exactly partitions the heap
// with no overlap, for every heap created.
func TestAllocationSoundness(t *testing.T) {
	a := NewAllocator(singleTypeProps(gpuType()), 2048)

	var live []*Allocation
	sizes := []uint64{64, 128, 32, 256, 16, 512}
	for _, s := range sizes {
		alloc, err := a.Allocate(UsageGPUMemory, ResourceHeapInfo{Size: s, Alignment: 16, MemoryTypeMask: 0xFFFFFFFF})
		if err != nil {
			t.Fatalf("allocate %d: %v", s, err)
		}
		live = append(live, alloc)
	}

	// Free every other allocation to create fragmentation.
	for i := 0; i < len(live); i += 2 {
		a.Free(live[i])
	}
	var stillLive []*Allocation
	for i := 1; i < len(live); i += 2 {
		stillLive = append(stillLive, live[i])
	}

	h := live[0].Heap()
	assertPartition(t, h, stillLive)
}

func assertPartition(t *testing.T, h *Heap, allocs []*Allocation) {
	t.Helper()
	type span struct{ start, end uint64 }
	var spans []span
	for _, a := range allocs {
		if a.Heap() != h {
			continue
		}
		spans = append(spans, span{a.Offset(), a.Offset() + a.Length()})
	}
	for _, r := range h.FreeRanges() {
		spans = append(spans, span{r.Offset, r.Offset + r.Length})
	}
	// Sort by start (simple insertion sort, small N in tests).
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j-1].start > spans[j].start; j-- {
			spans[j-1], spans[j] = spans[j], spans[j-1]
		}
	}
	var cursor uint64
	for _, s := range spans {
		if s.start < cursor {
			t.Fatalf("overlapping span at %d (cursor %d)", s.start, cursor)
		}
		cursor = s.end
	}
	if cursor != h.Size() {
		t.Fatalf("spans cover [0, %d), want [0, %d)", cursor, h.Size())
	}
}

func TestCleanupUnusedRetainsOneEmptyHeapPerType(t *testing.T) {
	a := NewAllocator(singleTypeProps(gpuType()), 256)

	// First allocation fills the only heap; force a second heap to be created.
	req := ResourceHeapInfo{Size: 256, Alignment: 1, MemoryTypeMask: 0xFFFFFFFF}
	allocA, _ := a.Allocate(UsageGPUMemory, req)
	allocB, _ := a.Allocate(UsageGPUMemory, req)

	a.Free(allocA)
	a.Free(allocB)

	p := a.pools[0]
	if len(p.heaps) != 2 {
		t.Fatalf("expected 2 heaps before cleanup, got %d", len(p.heaps))
	}

	a.CleanupUnused()
	if len(p.heaps) != 1 {
		t.Fatalf("expected 1 retained empty heap after cleanup, got %d", len(p.heaps))
	}
}

func TestOutOfMemoryWhenNoMemoryTypeMatches(t *testing.T) {
	a := NewAllocator(DeviceMemoryProperties{}, 256)
	_, err := a.Allocate(UsageGPUMemory, ResourceHeapInfo{Size: 16, Alignment: 1, MemoryTypeMask: 0xFFFFFFFF})
	if err != ErrOutOfMemory {
		t.Fatalf("err = %v, want ErrOutOfMemory", err)
	}
}
