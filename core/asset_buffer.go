package core

import (
	"sync"

	"github.com/embergfx/enginecore/hal"
	"github.com/embergfx/enginecore/memory"
	"github.com/embergfx/enginecore/types"
)

// Asset arena sizes. A new arena is sized SmallArenaSize unless the
// request itself is larger, in which case it is sized to fit the
// request (rounded up to BigArenaSize where that still fits).
const (
	BigArenaSize   uint64 = 256 << 20
	SmallArenaSize uint64 = 64 << 20
)

// AssetSlice is a persistent range within an asset arena, valid until
// explicitly dropped via AssetBuffer.DropSlice.
type AssetSlice struct {
	arena         *assetArena
	offset        uint64
	alignedOffset uint64
	length        uint64
}

// Buffer returns the backend buffer this slice lives in.
func (s AssetSlice) Buffer() hal.Buffer { return s.arena.backend }

// Offset returns the slice's aligned byte offset.
func (s AssetSlice) Offset() uint64 { return s.alignedOffset }

type assetFreeRange struct {
	offset uint64
	length uint64
}

type quarantined struct {
	retiredFrame uint64
	r            assetFreeRange
}

type assetArena struct {
	backend hal.Buffer
	alloc   *memory.Allocation
	size    uint64
	free    []assetFreeRange
	pending []quarantined
}

// AssetBuffer is a persistent, GPU-only suballocation arena for
// long-lived mesh/index data. Unlike TransientBufferAllocator, slices
// survive across frames until explicitly dropped; dropped ranges are
// quarantined until prerenderedFrames+1 frames have completed, so no
// in-flight command buffer can still reference them.
type AssetBuffer struct {
	device            hal.Device
	allocator         *memory.Allocator
	prerenderedFrames uint64

	mu     sync.Mutex
	arenas []*assetArena
}

// NewAssetBuffer creates an asset arena manager. prerenderedFrames is the
// number of frames the GPU may run behind the CPU (the frame-pacing
// window); quarantined ranges wait this many frames plus one before
// reuse.
func NewAssetBuffer(device hal.Device, allocator *memory.Allocator, prerenderedFrames uint64) *AssetBuffer {
	return &AssetBuffer{device: device, allocator: allocator, prerenderedFrames: prerenderedFrames}
}

// GetSlice first-fit scans existing arenas for a free range of at least
// length bytes once aligned, splitting the winning range on hit. If none
// fits, a new arena is created, sized SmallArenaSize unless length alone
// demands more.
func (a *AssetBuffer) GetSlice(length, alignment uint64) (AssetSlice, error) {
	if alignment == 0 {
		alignment = DefaultBufferAlignment
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for _, arena := range a.arenas {
		if slice, ok := arena.allocate(length, alignment); ok {
			return slice, nil
		}
	}

	arenaSize := SmallArenaSize
	if length > arenaSize {
		arenaSize = BigArenaSize
	}
	if length > arenaSize {
		arenaSize = length
	}

	arena, err := a.newArena(arenaSize)
	if err != nil {
		return AssetSlice{}, err
	}
	a.arenas = append(a.arenas, arena)

	slice, ok := arena.allocate(length, alignment)
	if !ok {
		return AssetSlice{}, &CreateBufferError{Kind: CreateBufferHAL, Label: "asset-arena"}
	}
	return slice, nil
}

func (a *AssetBuffer) newArena(size uint64) (*assetArena, error) {
	backend, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "asset-arena",
		Size:  size,
		Usage: types.BufferUsageVertex | types.BufferUsageIndex | types.BufferUsageStorage | types.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, &CreateBufferError{Kind: CreateBufferHAL, Label: "asset-arena", Cause: err}
	}

	alloc, err := a.allocator.Allocate(memory.UsageGPUMemory, memory.ResourceHeapInfo{
		Size:                size,
		Alignment:           DefaultBufferAlignment,
		MemoryTypeMask:      ^memory.MemoryTypeMask(0),
		DedicatedPreference: memory.DedicatedNone,
	})
	if err != nil {
		a.device.DestroyBuffer(backend)
		return nil, &CreateBufferError{Kind: CreateBufferHAL, Label: "asset-arena", Cause: err}
	}

	return &assetArena{
		backend: backend,
		alloc:   alloc,
		size:    size,
		free:    []assetFreeRange{{offset: 0, length: size}},
	}, nil
}

func (arena *assetArena) allocate(length, alignment uint64) (AssetSlice, bool) {
	for i, r := range arena.free {
		aligned := alignUp(r.offset, alignment)
		if aligned+length > r.offset+r.length {
			continue
		}
		consumed := (aligned + length) - r.offset
		remainderOffset := r.offset + consumed
		remainderLength := r.length - consumed

		if remainderLength == 0 {
			arena.free = append(arena.free[:i], arena.free[i+1:]...)
		} else {
			arena.free[i] = assetFreeRange{offset: remainderOffset, length: remainderLength}
		}

		return AssetSlice{arena: arena, offset: r.offset, alignedOffset: aligned, length: consumed}, true
	}
	return AssetSlice{}, false
}

// DropSlice retires a slice. Its range is not immediately reusable; call
// BumpFrame once per completed frame to age it out of quarantine.
func (a *AssetBuffer) DropSlice(slice AssetSlice, currentFrame uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	slice.arena.pending = append(slice.arena.pending, quarantined{
		retiredFrame: currentFrame,
		r:            assetFreeRange{offset: slice.offset, length: slice.length},
	})
}

// BumpFrame ages quarantined ranges by the now-completed frame counter.
// Any range retired at or before completedFrame - (prerenderedFrames+1)
// is merged back into its arena's free list, coalescing with adjacent
// free ranges.
func (a *AssetBuffer) BumpFrame(completedFrame uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	window := a.prerenderedFrames + 1
	for _, arena := range a.arenas {
		kept := arena.pending[:0]
		for _, q := range arena.pending {
			if completedFrame < q.retiredFrame+window {
				kept = append(kept, q)
				continue
			}
			arena.release(q.r)
		}
		arena.pending = kept
	}
}

func (arena *assetArena) release(r assetFreeRange) {
	idx := 0
	for idx < len(arena.free) && arena.free[idx].offset < r.offset {
		idx++
	}
	arena.free = append(arena.free, assetFreeRange{})
	copy(arena.free[idx+1:], arena.free[idx:])
	arena.free[idx] = r

	if idx+1 < len(arena.free) && arena.free[idx].offset+arena.free[idx].length == arena.free[idx+1].offset {
		arena.free[idx].length += arena.free[idx+1].length
		arena.free = append(arena.free[:idx+1], arena.free[idx+2:]...)
	}
	if idx > 0 && arena.free[idx-1].offset+arena.free[idx-1].length == arena.free[idx].offset {
		arena.free[idx-1].length += arena.free[idx].length
		arena.free = append(arena.free[:idx], arena.free[idx+1:]...)
	}
}

// Destroy releases every arena's backend buffer and allocation. Call
// only once all slices have been dropped and aged out of quarantine.
func (a *AssetBuffer) Destroy() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, arena := range a.arenas {
		a.device.DestroyBuffer(arena.backend)
		a.allocator.Free(arena.alloc)
	}
	a.arenas = nil
}
