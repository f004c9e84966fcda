package core

import (
	"container/heap"
	"sync"

	"github.com/embergfx/enginecore/hal"
)

// slotHeap is a min-heap of free slot indices, so the smallest freed
// slot is always reused next.
type slotHeap []uint32

func (h slotHeap) Len() int            { return len(h) }
func (h slotHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h slotHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *slotHeap) Push(x interface{}) { *h = append(*h, x.(uint32)) }
func (h *slotHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// BindlessTextureCount is the fixed slot count of the bindless sampled-
// image descriptor array.
const BindlessTextureCount uint32 = 500_000

// BindlessDescriptorHeap is one large descriptor array of sampled-image
// slots, indexed directly by shaders via update-after-bind / partially-
// bound descriptor indexing. Backends that cannot support this must
// advertise SupportsBindless() = false; callers fall back to
// per-material binding in that case.
type BindlessDescriptorHeap struct {
	device hal.Device
	set    hal.BindGroup

	mu       sync.Mutex
	slots    []hal.TextureView // sparse; nil where unoccupied
	freeList slotHeap          // min-heap: smallest free slot is reused first
	next     uint32
}

// NewBindlessDescriptorHeap creates a heap bound to the given backend
// bind group, which must have been created with BindlessTextureCount
// sampled-image slots and update-after-bind flags.
func NewBindlessDescriptorHeap(device hal.Device, set hal.BindGroup) *BindlessDescriptorHeap {
	return &BindlessDescriptorHeap{
		device: device,
		set:    set,
		slots:  make([]hal.TextureView, 0, 1024),
	}
}

// Insert reserves a slot for view and returns its index. The smallest
// freed slot is reused before any new slot is appended.
func (h *BindlessDescriptorHeap) Insert(view hal.TextureView) uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.freeList) > 0 {
		slot := heap.Pop(&h.freeList).(uint32)
		h.slots[slot] = view
		return slot
	}

	slot := h.next
	h.next++
	h.slots = append(h.slots, view)
	return slot
}

// Free releases slot for future reuse. Freeing an already-free or
// out-of-range slot is a no-op.
func (h *BindlessDescriptorHeap) Free(slot uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if int(slot) >= len(h.slots) || h.slots[slot] == nil {
		return
	}
	h.slots[slot] = nil
	heap.Push(&h.freeList, slot)
}

// DescriptorSetHandle returns the backend-opaque bindless set, bound at
// a fixed frequency for the lifetime of the device.
func (h *BindlessDescriptorHeap) DescriptorSetHandle() hal.BindGroup {
	return h.set
}

// InUse reports the current high-water mark of allocated slots,
// including freed-but-not-reused ones.
func (h *BindlessDescriptorHeap) InUse() uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.next
}
