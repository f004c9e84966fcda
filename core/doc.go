// Package core implements the GPU resource and frame orchestration layer
// on top of the backend-abstract hal package.
//
// It owns everything a frame needs that isn't backend-specific: the
// best-fit memory allocator wiring, deferred destruction tied to frame
// completion, transient and asset buffer suballocation, the bindless
// descriptor heap, per-thread command recording through GraphicsContext,
// queue submission with timeline-fence pacing, and swapchain
// acquire/present bookkeeping.
//
// Architecture:
//
//	types/   → backend-agnostic data structures
//	hal/     → backend trait surface (adapter/device/queue/swapchain/...)
//	memory/  → best-fit GPU heap allocator
//	core/    → this package: frame orchestration atop hal + memory
//	renderer/→ named resource registry with history rotation
//	graph/   → render passes and the frame loop
//
// Resources (Buffer, TimelineFence) are shared by reference and
// immutable post-creation except via explicit Map/Unmap; there is no
// generational-ID indirection layer, since the engine has no FFI or
// cross-process resource-sharing surface to protect against.
package core
