package core

import (
	"testing"

	"github.com/embergfx/enginecore/hal/noop"
	"github.com/embergfx/enginecore/memory"
	"github.com/embergfx/enginecore/types"
)

func gpuMemoryProps() memory.DeviceMemoryProperties {
	return memory.DeviceMemoryProperties{Types: []memory.MemoryTypeInfo{
		{Kind: memory.MemoryKindVRAM, IsCPUAccessible: false, IsCached: false, IsCoherent: false},
	}}
}

// TestTransientReset covers the transient reset invariant: after Reset,
// the next GetSlice of a size at or below an existing buffer's size
// never allocates a new buffer.
func TestTransientReset(t *testing.T) {
	device := &noop.Device{}
	allocator := memory.NewAllocator(gpuMemoryProps(), memory.DefaultChunkSize)

	ta := NewTransientBufferAllocator(device, allocator)
	t.Cleanup(ta.Destroy)

	slice1, err := ta.GetSlice(4096, 256, memory.UsageGPUMemory, types.BufferUsageUniform)
	if err != nil {
		t.Fatalf("GetSlice 1: %v", err)
	}

	bucket := ta.buckets[transientKey{memory.UsageGPUMemory, types.BufferUsageUniform}]
	if len(bucket) != 1 {
		t.Fatalf("expected one buffer in bucket, got %d", len(bucket))
	}
	firstBackend := bucket[0].backend

	ta.Reset()
	if bucket[0].offset != 0 {
		t.Fatalf("offset after reset = %d, want 0", bucket[0].offset)
	}

	slice2, err := ta.GetSlice(1024, 256, memory.UsageGPUMemory, types.BufferUsageUniform)
	if err != nil {
		t.Fatalf("GetSlice 2: %v", err)
	}
	if slice2.Buffer != firstBackend {
		t.Fatal("GetSlice after Reset allocated a new buffer instead of reusing the existing one")
	}
	if slice2.Offset != 0 {
		t.Fatalf("slice2 offset = %d, want 0", slice2.Offset)
	}

	_ = slice1
}

// TestTransientBucketReorder covers a buffer being moved to the end of
// its bucket once serving a request drops its remaining space below
// ReorderThreshold, so future scans skip it in favor of buffers with
// more room.
func TestTransientBucketReorder(t *testing.T) {
	device := &noop.Device{}
	allocator := memory.NewAllocator(gpuMemoryProps(), memory.DefaultChunkSize)

	ta := NewTransientBufferAllocator(device, allocator)
	t.Cleanup(ta.Destroy)

	key := transientKey{memory.UsageGPUMemory, types.BufferUsageUniform}

	// Buffer A: leaves 10 bytes free, already under ReorderThreshold, but
	// a solitary bucket entry has nothing to reorder against yet.
	if _, err := ta.GetSlice(TransientBufferSize-10, 1, memory.UsageGPUMemory, types.BufferUsageUniform); err != nil {
		t.Fatalf("GetSlice A: %v", err)
	}
	// Buffer B: A no longer has room for a full-size request, so this
	// allocates a second buffer; bucket is now [A, B].
	if _, err := ta.GetSlice(TransientBufferSize, 1, memory.UsageGPUMemory, types.BufferUsageUniform); err != nil {
		t.Fatalf("GetSlice B: %v", err)
	}

	bucket := ta.buckets[key]
	if len(bucket) != 2 {
		t.Fatalf("expected 2 buffers in bucket, got %d", len(bucket))
	}
	bufferA := bucket[0]

	// A small request fits in A's remaining 10 bytes; serving it leaves A
	// still under ReorderThreshold, so it moves to the end: [B, A].
	if _, err := ta.GetSlice(5, 1, memory.UsageGPUMemory, types.BufferUsageUniform); err != nil {
		t.Fatalf("GetSlice C: %v", err)
	}

	bucket = ta.buckets[key]
	if len(bucket) != 2 {
		t.Fatalf("expected 2 buffers in bucket, got %d", len(bucket))
	}
	if bucket[1] != bufferA {
		t.Fatal("expected buffer A to have moved to the end of the bucket")
	}
}
