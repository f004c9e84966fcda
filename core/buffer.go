package core

import (
	"github.com/embergfx/enginecore/hal"
	"github.com/embergfx/enginecore/memory"
	"github.com/embergfx/enginecore/types"
)

// DefaultBufferAlignment is used when a buffer descriptor does not imply
// a stricter alignment requirement.
const DefaultBufferAlignment uint64 = 256

// Buffer is an owned GPU buffer: a backend handle plus the allocation
// that backs it, if any. A dedicated buffer has a nil Allocation; its
// memory lifetime is the backend handle's lifetime.
type Buffer struct {
	name       string
	size       uint64
	usage      types.BufferUsage
	handle     *Snatchable[hal.Buffer]
	allocation *memory.Allocation
}

// Name returns the buffer's debug label.
func (b *Buffer) Name() string { return b.name }

// Size returns the buffer's size in bytes.
func (b *Buffer) Size() uint64 { return b.size }

// Usage returns the buffer's usage flags.
func (b *Buffer) Usage() types.BufferUsage { return b.usage }

// Handle returns the backend buffer, or nil if it has already been
// snatched for destruction.
func (b *Buffer) Handle(guard *SnatchGuard) hal.Buffer {
	v := b.handle.Get(guard)
	if v == nil {
		return nil
	}
	return *v
}

// Map returns the host-visible byte range [offset, offset+length) for
// CPU access, or ok=false for a GPU-only buffer, an out-of-range
// request, or a buffer already destroyed. The caller must serialize
// concurrent Map calls against the same buffer.
func (b *Buffer) Map(guard *SnatchGuard, offset, length uint64, invalidate bool) (data []byte, ok bool) {
	handle := b.handle.Get(guard)
	if handle == nil {
		return nil, false
	}
	return (*handle).Map(offset, length, invalidate)
}

// Unmap finalizes writes made through a previous Map call.
func (b *Buffer) Unmap(guard *SnatchGuard, offset, length uint64, flush bool) {
	handle := b.handle.Get(guard)
	if handle == nil {
		return
	}
	(*handle).Unmap(offset, length, flush)
}

// BufferAllocator creates and destroys Buffers against a device,
// choosing between a dedicated heap and a suballocation from the shared
// memory allocator per DedicatedPreference.
type BufferAllocator struct {
	device     hal.Device
	allocator  *memory.Allocator
	destroyer  *DeferredDestroyer
	snatchLock *SnatchLock
}

// NewBufferAllocator creates a BufferAllocator wired to device, allocator
// for memory suballocation, destroyer for deferred teardown, and
// snatchLock for safe concurrent Buffer destruction.
func NewBufferAllocator(device hal.Device, allocator *memory.Allocator, destroyer *DeferredDestroyer, snatchLock *SnatchLock) *BufferAllocator {
	return &BufferAllocator{device: device, allocator: allocator, destroyer: destroyer, snatchLock: snatchLock}
}

// CreateBuffer creates a buffer with the given usage and size, requesting
// memUsage memory and dedicated allocation preference.
//
// When dedicated requires or prefers a dedicated heap, the buffer skips
// the shared allocator; its Allocation is nil and its memory lifetime
// tracks the backend handle directly. Otherwise the buffer is
// suballocated via the memory allocator.
func (a *BufferAllocator) CreateBuffer(name string, size uint64, usage types.BufferUsage, memUsage memory.MemoryUsage, dedicated memory.DedicatedPreference) (*Buffer, error) {
	if size == 0 {
		return nil, &CreateBufferError{Kind: CreateBufferZeroSize, Label: name}
	}
	if usage == 0 {
		return nil, &CreateBufferError{Kind: CreateBufferEmptyUsage, Label: name}
	}

	backend, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: name,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return nil, &CreateBufferError{Kind: CreateBufferHAL, Label: name, Cause: err}
	}

	var alloc *memory.Allocation
	if dedicated == memory.DedicatedNone {
		alloc, err = a.allocator.Allocate(memUsage, memory.ResourceHeapInfo{
			Size:                size,
			Alignment:           DefaultBufferAlignment,
			MemoryTypeMask:      ^memory.MemoryTypeMask(0),
			DedicatedPreference: dedicated,
		})
		if err != nil {
			a.device.DestroyBuffer(backend)
			return nil, &CreateBufferError{Kind: CreateBufferHAL, Label: name, Cause: err}
		}
	}

	return &Buffer{
		name:       name,
		size:       size,
		usage:      usage,
		handle:     NewSnatchable(backend),
		allocation: alloc,
	}, nil
}

// DestroyBuffer enqueues b's backend handle and allocation for deferred
// destruction once the current frame completes.
func (a *BufferAllocator) DestroyBuffer(b *Buffer) {
	guard := a.snatchLock.Write()
	defer guard.Release()

	handle := b.handle.Snatch(guard)
	if handle == nil {
		return
	}
	a.destroyer.DestroyBuffer(*handle)
	if b.allocation != nil {
		a.destroyer.DestroyAllocation(b.allocation)
	}
}
