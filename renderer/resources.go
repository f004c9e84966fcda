package renderer

import (
	"sync"

	"github.com/embergfx/enginecore/core"
	"github.com/embergfx/enginecore/hal"
	"github.com/embergfx/enginecore/types"
)

// History selects which physical instance of a historied entry an
// access targets.
type History uint8

const (
	// Current selects the instance written this frame.
	Current History = iota
	// Past selects the instance written the previous frame (the entry's
	// previous final state).
	Past
)

// SyncStage is a bitmask of GPU pipeline stages a resource access
// participates in.
type SyncStage uint32

// SyncNone performs no synchronization; used for entries accessed only
// outside of barrier-tracked passes.
const SyncNone SyncStage = 0

const (
	// SyncVertex is the vertex shader stage.
	SyncVertex SyncStage = 1 << iota
	// SyncFragment is the fragment shader stage.
	SyncFragment
	// SyncCompute is the compute shader stage.
	SyncCompute
	// SyncTransfer is a copy/blit operation.
	SyncTransfer
	// SyncColorAttachment is color-attachment read/write.
	SyncColorAttachment
	// SyncDepthStencilAttachment is depth/stencil-attachment read/write.
	SyncDepthStencilAttachment
	// SyncResolve is an MSAA resolve operation.
	SyncResolve
)

// AccessFlags is a bitmask of memory access kinds a resource access
// performs.
type AccessFlags uint32

const (
	AccessRead AccessFlags = 1 << iota
	AccessWrite
)

func isWrite(a AccessFlags) bool { return a&AccessWrite != 0 }

type recordedState struct {
	valid        bool
	bufferUsage  types.BufferUsage
	textureUsage types.TextureUsage
	sync         SyncStage
	access       AccessFlags
}

type bufferEntry struct {
	instances []hal.Buffer
	depth     int // history depth: len(instances) == depth+1
	current   int
	// state[0] is Current's last state, state[1] is Past's (Current's
	// final state, carried over when BumpFrame rotates forward).
	state [2]recordedState
}

type textureEntry struct {
	instances []hal.Texture
	views     map[hal.Texture]hal.TextureView
	depth     int
	current   int
	rng       hal.TextureRange
	state     [2]recordedState
}

// historyIndex returns the physical instance index for h, per
// Current => current_index, Past => (current_index + depth) mod (depth+1).
func historyIndex(current, depth int, h History) int {
	if h == Current || depth == 0 {
		return current
	}
	return (current + depth) % (depth + 1)
}

// RendererResources is the named registry of buffers and textures a
// render graph's passes access by name. It is internally synchronized
// by a single mutex covering all entries.
type RendererResources struct {
	mu       sync.Mutex
	buffers  map[string]*bufferEntry
	textures map[string]*textureEntry
}

// New creates an empty registry.
func New() *RendererResources {
	return &RendererResources{
		buffers:  make(map[string]*bufferEntry),
		textures: make(map[string]*textureEntry),
	}
}

// CreateBuffer registers name with depth+1 physical instances. Calling
// this again for an existing name replaces its instances and resets
// recorded state.
func (r *RendererResources) CreateBuffer(name string, instances []hal.Buffer, depth int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buffers[name] = &bufferEntry{instances: instances, depth: depth}
}

// CreateTexture registers name with depth+1 physical instances, each
// covering the given subresource range.
func (r *RendererResources) CreateTexture(name string, instances []hal.Texture, rng hal.TextureRange, depth int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.textures[name] = &textureEntry{
		instances: instances,
		views:     make(map[hal.Texture]hal.TextureView),
		rng:       rng,
		depth:     depth,
	}
}

// AccessBuffer records a (sync, access) access of name's buffer instance
// selected by h and returns the live buffer plus a barrier if the new
// state differs from, or writes against, the previously recorded state.
func (r *RendererResources) AccessBuffer(name string, sync SyncStage, access AccessFlags, usage types.BufferUsage, h History) (hal.Buffer, *hal.BufferBarrier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.buffers[name]
	if !ok {
		return nil, nil, &core.ResourceLookupError{Name: name, Kind: core.ResourceNotFound}
	}
	if h == Past && e.depth == 0 {
		return nil, nil, &core.ResourceLookupError{Name: name, Kind: core.ResourceNoHistory}
	}

	slot := 0
	if h == Past {
		slot = 1
	}
	idx := historyIndex(e.current, e.depth, h)
	buf := e.instances[idx]

	prev := e.state[slot]
	next := recordedState{valid: true, bufferUsage: usage, sync: sync, access: access}

	var barrier *hal.BufferBarrier
	if !prev.valid || prev.bufferUsage != usage || isWrite(prev.access) || isWrite(access) {
		old := types.BufferUsage(0)
		if prev.valid {
			old = prev.bufferUsage
		}
		barrier = &hal.BufferBarrier{
			Buffer: buf,
			Usage:  hal.BufferUsageTransition{OldUsage: old, NewUsage: usage},
		}
	}
	e.state[slot] = next

	return buf, barrier, nil
}

// AccessView records an access of name's texture instance selected by h,
// with an explicit target usage. discardContents declares the prior
// contents unused, so the barrier's old usage reads as a fresh
// transition rather than a preserving one.
func (r *RendererResources) AccessView(name string, sync SyncStage, access AccessFlags, usage types.TextureUsage, discardContents bool, viewInfo hal.TextureViewDescriptor, h History, device hal.Device) (hal.TextureView, *hal.TextureBarrier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.textures[name]
	if !ok {
		return nil, nil, &core.ResourceLookupError{Name: name, Kind: core.ResourceNotFound}
	}
	if h == Past && e.depth == 0 {
		return nil, nil, &core.ResourceLookupError{Name: name, Kind: core.ResourceNoHistory}
	}

	slot := 0
	if h == Past {
		slot = 1
	}
	idx := historyIndex(e.current, e.depth, h)
	tex := e.instances[idx]

	view, ok := e.views[tex]
	if !ok {
		var err error
		view, err = device.CreateTextureView(tex, &viewInfo)
		if err != nil {
			return nil, nil, &core.BackendError{Op: "CreateTextureView", Cause: err}
		}
		e.views[tex] = view
	}

	prev := e.state[slot]
	next := recordedState{valid: true, textureUsage: usage, sync: sync, access: access}

	var barrier *hal.TextureBarrier
	if discardContents || !prev.valid || prev.textureUsage != usage || isWrite(prev.access) || isWrite(access) {
		old := types.TextureUsage(0)
		if prev.valid && !discardContents {
			old = prev.textureUsage
		}
		barrier = &hal.TextureBarrier{
			Texture: tex,
			Range:   e.rng,
			Usage:   hal.TextureUsageTransition{OldUsage: old, NewUsage: usage},
		}
	}
	e.state[slot] = next

	return view, barrier, nil
}

// AccessStorageView accesses name as a read-write storage image.
func (r *RendererResources) AccessStorageView(name string, sync SyncStage, access AccessFlags, discardContents bool, viewInfo hal.TextureViewDescriptor, h History, device hal.Device) (hal.TextureView, *hal.TextureBarrier, error) {
	return r.AccessView(name, sync, access, types.TextureUsageStorageBinding, discardContents, viewInfo, h, device)
}

// AccessSamplingView accesses name as a sampled (read-only) image.
func (r *RendererResources) AccessSamplingView(name string, sync SyncStage, viewInfo hal.TextureViewDescriptor, h History, device hal.Device) (hal.TextureView, *hal.TextureBarrier, error) {
	return r.AccessView(name, sync, AccessRead, types.TextureUsageTextureBinding, false, viewInfo, h, device)
}

// AccessDepthStencilView accesses name as a depth/stencil attachment.
func (r *RendererResources) AccessDepthStencilView(name string, sync SyncStage, access AccessFlags, discardContents bool, viewInfo hal.TextureViewDescriptor, h History, device hal.Device) (hal.TextureView, *hal.TextureBarrier, error) {
	return r.AccessView(name, sync, access, types.TextureUsageRenderAttachment, discardContents, viewInfo, h, device)
}

// BumpFrame advances the rotation index of every historied entry,
// carries Current's last recorded state over as Past's (the instance
// that was Current becomes Past), and clears Current's recorded state,
// since Current instances are considered discardable at the frame
// boundary.
func (r *RendererResources) BumpFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.buffers {
		if e.depth > 0 {
			e.current = (e.current + 1) % (e.depth + 1)
			e.state[1] = e.state[0]
		}
		e.state[0] = recordedState{}
	}
	for _, e := range r.textures {
		if e.depth > 0 {
			e.current = (e.current + 1) % (e.depth + 1)
			e.state[1] = e.state[0]
		}
		e.state[0] = recordedState{}
	}
}
