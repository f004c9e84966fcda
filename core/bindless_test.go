package core

import (
	"testing"

	"github.com/embergfx/enginecore/hal"
	"github.com/embergfx/enginecore/hal/noop"
)

func view() hal.TextureView { return &noop.Resource{} }

// TestBindlessReuse covers concrete scenario 5: insert T1..T5 -> slots
// [0,1,2,3,4]; free slot 2; insert T6 -> slot 2; insert T7 -> slot 5.
func TestBindlessReuse(t *testing.T) {
	h := NewBindlessDescriptorHeap(nil, nil)

	var slots []uint32
	for i := 0; i < 5; i++ {
		slots = append(slots, h.Insert(view()))
	}
	for i, want := range []uint32{0, 1, 2, 3, 4} {
		if slots[i] != want {
			t.Fatalf("slot %d = %d, want %d", i, slots[i], want)
		}
	}

	h.Free(2)

	if got := h.Insert(view()); got != 2 {
		t.Fatalf("insert after free = %d, want 2", got)
	}
	if got := h.Insert(view()); got != 5 {
		t.Fatalf("insert after reuse = %d, want 5", got)
	}
}

// TestBindlessReuseSmallestOfMultipleFrees covers that freeing several
// slots out of order reuses the smallest one first, not the
// most-recently-freed one: insert T1..T4 -> slots [0,1,2,3]; free 1,
// then free 3; next insert must return 1, not 3.
func TestBindlessReuseSmallestOfMultipleFrees(t *testing.T) {
	h := NewBindlessDescriptorHeap(nil, nil)

	for i := 0; i < 4; i++ {
		h.Insert(view())
	}

	h.Free(1)
	h.Free(3)

	if got := h.Insert(view()); got != 1 {
		t.Fatalf("insert after freeing 1 then 3 = %d, want 1", got)
	}
	if got := h.Insert(view()); got != 3 {
		t.Fatalf("insert after reusing 1 = %d, want 3", got)
	}
	if got := h.Insert(view()); got != 4 {
		t.Fatalf("insert after free list drained = %d, want 4", got)
	}
}

// TestBindlessHighWaterMark covers the bindless slot reuse invariant:
// repeatedly inserting and immediately freeing textures never grows the
// high-water mark past the number live at once. With n slots held, 50
// insert/free rounds of one more texture take exactly one extra slot.
func TestBindlessHighWaterMark(t *testing.T) {
	h := NewBindlessDescriptorHeap(nil, nil)
	const n = 8

	for i := 0; i < n; i++ {
		h.Insert(view())
	}
	if got := h.InUse(); got != n {
		t.Fatalf("InUse after %d inserts = %d, want %d", n, got, n)
	}

	for round := 0; round < 50; round++ {
		slot := h.Insert(view())
		h.Free(slot)
	}
	if got := h.InUse(); got != n+1 {
		t.Fatalf("InUse high-water mark = %d, want %d", got, n+1)
	}
}

// TestBindlessFreeNoop covers freeing an already-free or out-of-range
// slot being a no-op rather than corrupting the free list.
func TestBindlessFreeNoop(t *testing.T) {
	h := NewBindlessDescriptorHeap(nil, nil)
	h.Insert(view())

	h.Free(99) // out of range
	h.Free(0)
	h.Free(0) // already free

	if got := h.InUse(); got != 1 {
		t.Fatalf("InUse = %d, want 1", got)
	}
}
