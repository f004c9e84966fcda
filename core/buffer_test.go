package core

import (
	"bytes"
	"testing"

	"github.com/embergfx/enginecore/hal"
	"github.com/embergfx/enginecore/hal/noop"
	"github.com/embergfx/enginecore/memory"
	"github.com/embergfx/enginecore/types"
)

func testAllocator() *memory.Allocator {
	props := memory.DeviceMemoryProperties{Types: []memory.MemoryTypeInfo{
		{Kind: memory.MemoryKindVRAM, IsCPUAccessible: false, IsCached: false, IsCoherent: false},
	}}
	return memory.NewAllocator(props, 1<<20)
}

// TestCreateBufferValidation covers the zero-size and empty-usage
// rejection paths, which never reach the backend.
func TestCreateBufferValidation(t *testing.T) {
	device := &noop.Device{}
	a := NewBufferAllocator(device, testAllocator(), NewDeferredDestroyer(device, testAllocator()), NewSnatchLock())

	if _, err := a.CreateBuffer("empty", 0, types.BufferUsageUniform, memory.UsageGPUMemory, memory.DedicatedNone); err == nil {
		t.Fatal("expected an error for a zero-size buffer")
	}
	if _, err := a.CreateBuffer("no-usage", 256, 0, memory.UsageGPUMemory, memory.DedicatedNone); err == nil {
		t.Fatal("expected an error for a buffer with no usage flags")
	}
}

// TestBufferRoundTripMap covers a CPU-visible buffer's map/write/unmap/
// remap cycle returning byte-exact data.
func TestBufferRoundTripMap(t *testing.T) {
	device := &noop.Device{}
	backend, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label:            "staging",
		Size:             64,
		Usage:            types.BufferUsageMapWrite,
		MappedAtCreation: true,
	})
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}

	b := &Buffer{name: "staging", size: 64, usage: types.BufferUsageMapWrite, handle: NewSnatchable(backend)}
	lock := NewSnatchLock()
	guard := lock.Read()
	defer guard.Release()

	data, ok := b.Map(guard, 0, 64, false)
	if !ok {
		t.Fatal("Map on a mapped-at-creation buffer should succeed")
	}
	want := bytes.Repeat([]byte{0xAB}, 64)
	copy(data, want)
	b.Unmap(guard, 0, 64, true)

	data2, ok := b.Map(guard, 0, 64, false)
	if !ok {
		t.Fatal("remap should succeed")
	}
	if !bytes.Equal(data2, want) {
		t.Fatalf("round-tripped data = %x, want %x", data2, want)
	}
}

// TestBufferMapAfterSnatch covers Map returning ok=false once the
// backend handle has been snatched for destruction.
func TestBufferMapAfterSnatch(t *testing.T) {
	backend := &noop.Buffer{}
	b := &Buffer{name: "gone", size: 16, handle: NewSnatchable[hal.Buffer](backend)}
	lock := NewSnatchLock()

	wguard := lock.Write()
	b.handle.Snatch(wguard)
	wguard.Release()

	rguard := lock.Read()
	defer rguard.Release()
	if _, ok := b.Map(rguard, 0, 16, false); ok {
		t.Fatal("Map should fail once the handle has been snatched")
	}
}
