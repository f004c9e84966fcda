package core

import (
	"sync"

	"github.com/embergfx/enginecore/hal"
	"github.com/embergfx/enginecore/memory"
)

// deferredEntry pairs a resource with the frame counter it was retired
// on. It is only safe to actually destroy the resource once the GPU has
// completed that frame.
type deferredEntry[T any] struct {
	frame    uint64
	resource T
}

// DeferredDestroyer defers resource destruction by a frame counter,
// releasing resources once the GPU signals completion of that frame.
// One mutex covers all typed queues; destruction is rare enough per
// frame that a single lock is not a contention point.
type DeferredDestroyer struct {
	device hal.Device

	mu                     sync.Mutex
	buffers                []deferredEntry[hal.Buffer]
	textures               []deferredEntry[hal.Texture]
	views                  []deferredEntry[hal.TextureView]
	samplers               []deferredEntry[hal.Sampler]
	fences                 []deferredEntry[hal.Fence]
	allocations            []deferredEntry[*memory.Allocation]
	pipelines              []deferredEntry[hal.RenderPipeline]
	querySets              []deferredEntry[hal.QuerySet]
	accelerationStructures []deferredEntry[hal.AccelerationStructure]

	allocator    *memory.Allocator
	currentFrame uint64
}

// NewDeferredDestroyer creates a destroyer bound to device for resource
// teardown and allocator for allocation release.
func NewDeferredDestroyer(device hal.Device, allocator *memory.Allocator) *DeferredDestroyer {
	return &DeferredDestroyer{device: device, allocator: allocator}
}

// SetCounter records the current frame number. Called by
// GraphicsContext.BeginFrame; everything destroyed afterward is stamped
// with this value.
func (d *DeferredDestroyer) SetCounter(frame uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.currentFrame = frame
}

// DestroyBuffer enqueues a buffer for destruction once the current frame
// completes on the GPU.
func (d *DeferredDestroyer) DestroyBuffer(b hal.Buffer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buffers = append(d.buffers, deferredEntry[hal.Buffer]{d.currentFrame, b})
}

// DestroyTexture enqueues a texture for deferred destruction.
func (d *DeferredDestroyer) DestroyTexture(t hal.Texture) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.textures = append(d.textures, deferredEntry[hal.Texture]{d.currentFrame, t})
}

// DestroyTextureView enqueues a texture view for deferred destruction.
func (d *DeferredDestroyer) DestroyTextureView(v hal.TextureView) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.views = append(d.views, deferredEntry[hal.TextureView]{d.currentFrame, v})
}

// DestroySampler enqueues a sampler for deferred destruction.
func (d *DeferredDestroyer) DestroySampler(s hal.Sampler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.samplers = append(d.samplers, deferredEntry[hal.Sampler]{d.currentFrame, s})
}

// DestroyFence enqueues a fence for deferred destruction.
func (d *DeferredDestroyer) DestroyFence(f hal.Fence) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fences = append(d.fences, deferredEntry[hal.Fence]{d.currentFrame, f})
}

// DestroyAllocation enqueues a memory allocation for deferred release.
func (d *DeferredDestroyer) DestroyAllocation(a *memory.Allocation) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.allocations = append(d.allocations, deferredEntry[*memory.Allocation]{d.currentFrame, a})
}

// DestroyRenderPipeline enqueues a render pipeline for deferred destruction.
func (d *DeferredDestroyer) DestroyRenderPipeline(p hal.RenderPipeline) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pipelines = append(d.pipelines, deferredEntry[hal.RenderPipeline]{d.currentFrame, p})
}

// DestroyQuerySet enqueues a query set for deferred destruction.
func (d *DeferredDestroyer) DestroyQuerySet(q hal.QuerySet) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.querySets = append(d.querySets, deferredEntry[hal.QuerySet]{d.currentFrame, q})
}

// DestroyAccelerationStructure enqueues an acceleration structure for
// deferred destruction. Its backing buffer is not implied and must be
// released separately via DestroyBuffer.
func (d *DeferredDestroyer) DestroyAccelerationStructure(a hal.AccelerationStructure) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.accelerationStructures = append(d.accelerationStructures, deferredEntry[hal.AccelerationStructure]{d.currentFrame, a})
}

// DestroyUnused retires every entry stamped with a frame at or before
// completedFrame; later entries are retained for a future call.
func (d *DeferredDestroyer) DestroyUnused(completedFrame uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.buffers = retire(d.buffers, completedFrame, func(b hal.Buffer) { d.device.DestroyBuffer(b) })
	d.textures = retire(d.textures, completedFrame, func(t hal.Texture) { d.device.DestroyTexture(t) })
	d.views = retire(d.views, completedFrame, func(v hal.TextureView) { d.device.DestroyTextureView(v) })
	d.samplers = retire(d.samplers, completedFrame, func(s hal.Sampler) { d.device.DestroySampler(s) })
	d.fences = retire(d.fences, completedFrame, func(f hal.Fence) { d.device.DestroyFence(f) })
	d.pipelines = retire(d.pipelines, completedFrame, func(p hal.RenderPipeline) { d.device.DestroyRenderPipeline(p) })
	d.querySets = retire(d.querySets, completedFrame, func(q hal.QuerySet) { d.device.DestroyQuerySet(q) })
	d.accelerationStructures = retire(d.accelerationStructures, completedFrame, func(a hal.AccelerationStructure) {
		d.device.DestroyAccelerationStructure(a)
	})
	d.allocations = retire(d.allocations, completedFrame, func(a *memory.Allocation) {
		if d.allocator != nil {
			d.allocator.Free(a)
		}
	})
}

func retire[T any](entries []deferredEntry[T], completedFrame uint64, destroy func(T)) []deferredEntry[T] {
	kept := entries[:0]
	for _, e := range entries {
		if e.frame <= completedFrame {
			destroy(e.resource)
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// Drained reports whether every typed queue is empty, i.e. it is safe to
// tear down the owning device. Call this at shutdown after draining all
// frames; a non-drained destroyer means the device would be destroyed
// with live resources.
func (d *DeferredDestroyer) Drained() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.buffers) == 0 && len(d.textures) == 0 && len(d.views) == 0 &&
		len(d.samplers) == 0 && len(d.fences) == 0 && len(d.allocations) == 0 &&
		len(d.pipelines) == 0 && len(d.querySets) == 0 && len(d.accelerationStructures) == 0
}

// Close asserts the destroyer is fully drained and returns
// ErrDestroyerNotDrained otherwise.
func (d *DeferredDestroyer) Close() error {
	if !d.Drained() {
		return ErrDestroyerNotDrained
	}
	return nil
}
