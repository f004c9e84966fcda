package memory

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
)

// DefaultChunkSize is the default heap size a pool grows by when no
// existing heap can satisfy a request.
const DefaultChunkSize uint64 = 256 << 20 // 256 MiB

// ErrOutOfMemory is returned when no memory type (at any strictness
// level) can satisfy an allocation request. It is the only failure kind
// Allocate reports; callers decide whether to retry or propagate.
var ErrOutOfMemory = errors.New("memory: out of memory")

// Strictness controls how exactly a MemoryUsage must match a backend
// memory type during candidate-mask derivation.
type Strictness uint8

const (
	// StrictnessForceCoherent requires an exact kind/cpu-accessible/cached
	// match and, if CPU-accessible, coherent memory.
	StrictnessForceCoherent Strictness = iota
	// StrictnessNormal is ForceCoherent without the coherent requirement.
	StrictnessNormal
	// StrictnessFallback relaxes the cached/cpu-accessible match direction.
	StrictnessFallback
)

// pool holds the chunked heaps for a single memory-type index.
type pool struct {
	mu    sync.Mutex
	heaps []*Heap
}

// Allocator translates (MemoryUsage, ResourceHeapInfo) requests into
// concrete Allocations, suballocated from per-memory-type chunked heaps.
type Allocator struct {
	props     DeviceMemoryProperties
	chunkSize uint64
	pools     map[uint32]*pool
}

// NewAllocator creates an allocator over the given device memory
// properties. chunkSize of 0 uses DefaultChunkSize.
func NewAllocator(props DeviceMemoryProperties, chunkSize uint64) *Allocator {
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	}
	return &Allocator{
		props:     props,
		chunkSize: chunkSize,
		pools:     make(map[uint32]*pool),
	}
}

// nopHandler silently discards all log records, matching the HAL
// package's default-silent logging convention.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger used by the memory allocator. By
// default the allocator produces no log output. Pass nil to restore
// silence.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

func logger() *slog.Logger {
	return loggerPtr.Load()
}

// Allocate satisfies a request by trying each strictness level in order,
// and within a level each candidate memory-type index ascending.
// UsageGPUMemory skips StrictnessForceCoherent since device-local memory
// is never required to be host-coherent.
func (a *Allocator) Allocate(usage MemoryUsage, info ResourceHeapInfo) (*Allocation, error) {
	levels := []Strictness{StrictnessForceCoherent, StrictnessNormal, StrictnessFallback}
	if usage == UsageGPUMemory {
		levels = levels[1:]
	}

	for _, level := range levels {
		mask := a.findMemoryTypeMask(usage, level) & info.MemoryTypeMask
		for idx := uint32(0); idx < uint32(len(a.props.Types)); idx++ {
			if mask&(1<<idx) == 0 {
				continue
			}
			if alloc, ok := a.allocateByMemoryType(idx, info.Size, info.Alignment); ok {
				return &alloc, nil
			}
		}
	}

	logger().Error("memory: allocation failed at all strictness levels",
		"size", info.Size, "alignment", info.Alignment, "usage", usage)
	return nil, ErrOutOfMemory
}

// allocateByMemoryType tries every existing heap of the given type, then
// grows the pool with a fresh heap sized max(chunkSize, size) on miss.
func (a *Allocator) allocateByMemoryType(idx uint32, size, alignment uint64) (Allocation, bool) {
	p := a.poolFor(idx)
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, h := range p.heaps {
		if alloc, ok := h.allocate(size, alignment); ok {
			return alloc, true
		}
	}

	heapSize := a.chunkSize
	if size > heapSize {
		heapSize = size
	}
	h := newHeap(idx, heapSize)
	p.heaps = append(p.heaps, h)

	alloc, ok := h.allocate(size, alignment)
	return alloc, ok
}

func (a *Allocator) poolFor(idx uint32) *pool {
	if p, ok := a.pools[idx]; ok {
		return p
	}
	p := &pool{}
	a.pools[idx] = p
	return p
}

// Free returns an allocation's range to its owning heap's free list.
func (a *Allocator) Free(alloc *Allocation) {
	if alloc == nil || alloc.heap == nil {
		return
	}
	alloc.heap.release(alloc.offset, alloc.length)
}

// CleanupUnused drops every heap whose free list is a single range
// spanning the whole heap (i.e. it holds no live allocations), retaining
// at most one empty heap per memory type to amortize allocation churn.
func (a *Allocator) CleanupUnused() {
	for _, p := range a.pools {
		p.mu.Lock()
		kept := p.heaps[:0]
		keptEmpty := false
		for _, h := range p.heaps {
			if h.isEmpty() {
				if keptEmpty {
					continue // drop: already retained one empty heap for this type
				}
				keptEmpty = true
			}
			kept = append(kept, h)
		}
		p.heaps = kept
		p.mu.Unlock()
	}
}

// findMemoryTypeMask derives the candidate memory-type mask for usage at
// the given strictness, per the matching policy:
//
//   - ForceCoherent: exact match on cached/cpu-accessible (unless the
//     device is UMA)/kind; coherent required when cpu-accessible.
//   - Normal: as ForceCoherent, without the coherent requirement.
//   - Fallback: kind must still match; cached and cpu-accessible
//     requirements are relaxed to accept a superset of the desired
//     profile (a cached type satisfies a write-combined request, a
//     cpu-accessible type satisfies any request needing host access).
func (a *Allocator) findMemoryTypeMask(usage MemoryUsage, strictness Strictness) MemoryTypeMask {
	wantKind, wantCPU, wantCached := desiredProfile(usage)

	var mask MemoryTypeMask
	for i, t := range a.props.Types {
		ok := false
		switch strictness {
		case StrictnessForceCoherent, StrictnessNormal:
			kindOK := t.Kind == wantKind || a.props.UMA
			cpuOK := t.IsCPUAccessible == wantCPU || a.props.UMA
			cachedOK := t.IsCached == wantCached
			coherentOK := strictness == StrictnessNormal || !wantCPU || t.IsCoherent
			ok = kindOK && cpuOK && cachedOK && coherentOK
		case StrictnessFallback:
			kindOK := t.Kind == wantKind
			cpuOK := !wantCPU || t.IsCPUAccessible
			ok = kindOK && cpuOK
		}
		if ok {
			mask |= 1 << uint(i)
		}
	}
	return mask
}
