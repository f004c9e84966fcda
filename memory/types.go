package memory

// MemoryKind distinguishes device-local from host memory.
type MemoryKind uint8

const (
	// MemoryKindVRAM is memory local to the GPU device.
	MemoryKindVRAM MemoryKind = iota
	// MemoryKindRAM is host (system) memory.
	MemoryKindRAM
)

// MemoryTypeInfo describes one backend-exposed memory type. A device
// exposes an ordered sequence of these; each is addressable by index in
// [0, 31].
type MemoryTypeInfo struct {
	Kind            MemoryKind
	IsCPUAccessible bool
	IsCached        bool
	IsCoherent      bool
}

// MemoryTypeMask is a 32-bit bitset over memory-type indices.
type MemoryTypeMask uint32

// DeviceMemoryProperties enumerates the memory types a device exposes.
type DeviceMemoryProperties struct {
	Types []MemoryTypeInfo
	// UMA marks a unified-memory-architecture device, relaxing the
	// kind/cpu-accessible exactness requirement at ForceCoherent strictness.
	UMA bool
}

// MemoryUsage is the caller-facing vocabulary for an allocation's intended
// access pattern, distinct from backend memory types.
type MemoryUsage uint8

const (
	// UsageGPUMemory wants fast device-local memory with no CPU access.
	UsageGPUMemory MemoryUsage = iota
	// UsageMainMemoryCached wants host memory optimized for CPU reads (readback).
	UsageMainMemoryCached
	// UsageMainMemoryWriteCombined wants host memory optimized for CPU writes (upload).
	UsageMainMemoryWriteCombined
	// UsageMappableGPUMemory wants device-local memory that is also CPU-mappable.
	UsageMappableGPUMemory
)

// DedicatedPreference controls whether a resource wants its own heap.
type DedicatedPreference uint8

const (
	// DedicatedNone suballocates from a shared pool.
	DedicatedNone DedicatedPreference = iota
	// DedicatedPrefer uses a dedicated allocation, as DedicatedRequire
	// does; there is no fallback to pooled memory.
	DedicatedPrefer
	// DedicatedRequire always uses a dedicated allocation.
	DedicatedRequire
)

// ResourceHeapInfo is requested by a buffer/texture creation.
type ResourceHeapInfo struct {
	Size                uint64
	Alignment           uint64
	MemoryTypeMask      MemoryTypeMask
	DedicatedPreference DedicatedPreference
}

func desiredProfile(usage MemoryUsage) (kind MemoryKind, cpuAccessible, cached bool) {
	switch usage {
	case UsageGPUMemory:
		return MemoryKindVRAM, false, false
	case UsageMainMemoryCached:
		return MemoryKindRAM, true, true
	case UsageMainMemoryWriteCombined:
		return MemoryKindRAM, true, false
	case UsageMappableGPUMemory:
		return MemoryKindVRAM, true, false
	default:
		return MemoryKindVRAM, false, false
	}
}
