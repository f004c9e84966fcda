package core

import (
	"sort"
	"sync"

	"github.com/embergfx/enginecore/hal"
	"github.com/embergfx/enginecore/memory"
	"github.com/embergfx/enginecore/types"
)

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

// TransientBufferSize is the default size of a freshly allocated
// transient buffer when no existing buffer has room.
const TransientBufferSize uint64 = 16 << 10 // 16 KiB

// ReorderThreshold is the remaining-space floor below which a transient
// buffer is moved to the end of its bucket, so future scans skip
// near-exhausted buffers quickly.
const ReorderThreshold uint64 = 128

// TransientSlice is a view into a live range of a transient buffer, valid
// until the next Reset.
type TransientSlice struct {
	Buffer hal.Buffer
	Offset uint64
	Size   uint64
}

type transientBuffer struct {
	size    uint64
	offset  uint64
	backend hal.Buffer
	alloc   *memory.Allocation
}

type transientKey struct {
	usage       memory.MemoryUsage
	bufferUsage types.BufferUsage
}

// TransientBufferAllocator is a per-key bump allocator for scratch
// uploads that live only for the current frame. Buffers are never freed
// individually; Reset rewinds every bucket's cursor to 0 for reuse next
// frame.
type TransientBufferAllocator struct {
	device    hal.Device
	allocator *memory.Allocator

	mu      sync.Mutex
	buckets map[transientKey][]*transientBuffer
}

// NewTransientBufferAllocator creates a transient allocator over device
// and allocator.
func NewTransientBufferAllocator(device hal.Device, allocator *memory.Allocator) *TransientBufferAllocator {
	return &TransientBufferAllocator{
		device:    device,
		allocator: allocator,
		buckets:   make(map[transientKey][]*transientBuffer),
	}
}

// GetSlice returns a size-byte slice aligned to alignment (0 means the
// default 256 B) from the bucket for (usage, bufferUsage), growing the
// bucket with a fresh buffer if none has room.
func (t *TransientBufferAllocator) GetSlice(size, alignment uint64, usage memory.MemoryUsage, bufferUsage types.BufferUsage) (TransientSlice, error) {
	if alignment == 0 {
		alignment = DefaultBufferAlignment
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	key := transientKey{usage, bufferUsage}
	bucket := t.buckets[key]

	for i, b := range bucket {
		aligned := alignUp(b.offset, alignment)
		if b.size-aligned < size {
			continue
		}
		b.offset = aligned + size
		if b.size-b.offset < ReorderThreshold && i != len(bucket)-1 {
			bucket = append(bucket[:i], bucket[i+1:]...)
			bucket = append(bucket, b)
			t.buckets[key] = bucket
		}
		return TransientSlice{Buffer: b.backend, Offset: aligned, Size: size}, nil
	}

	bufSize := TransientBufferSize
	if size > bufSize {
		bufSize = size
	}

	backend, err := t.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "transient",
		Size:  bufSize,
		Usage: bufferUsage,
	})
	if err != nil {
		return TransientSlice{}, &CreateBufferError{Kind: CreateBufferHAL, Label: "transient", Cause: err}
	}

	alloc, err := t.allocator.Allocate(usage, memory.ResourceHeapInfo{
		Size:                bufSize,
		Alignment:           alignment,
		MemoryTypeMask:      ^memory.MemoryTypeMask(0),
		DedicatedPreference: memory.DedicatedNone,
	})
	if err != nil {
		t.device.DestroyBuffer(backend)
		return TransientSlice{}, &CreateBufferError{Kind: CreateBufferHAL, Label: "transient", Cause: err}
	}

	nb := &transientBuffer{size: bufSize, offset: size, backend: backend, alloc: alloc}
	t.buckets[key] = append(bucket, nb)

	return TransientSlice{Buffer: backend, Offset: 0, Size: size}, nil
}

// Reset rewinds every bucket's cursor to 0 and sorts each bucket by
// ascending buffer size, so future small requests tend to land in small
// buffers rather than fragmenting the largest one.
func (t *TransientBufferAllocator) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, bucket := range t.buckets {
		for _, b := range bucket {
			b.offset = 0
		}
		sort.Slice(bucket, func(i, j int) bool { return bucket[i].size < bucket[j].size })
	}
}

// Destroy releases every backend buffer and allocation across all
// buckets. The allocator must not be used afterward.
func (t *TransientBufferAllocator) Destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key, bucket := range t.buckets {
		for _, b := range bucket {
			t.device.DestroyBuffer(b.backend)
			t.allocator.Free(b.alloc)
		}
		delete(t.buckets, key)
	}
}
