// Package hal provides the hardware abstraction layer the rest of this
// engine's GPU resource and frame orchestration core is built on: a
// backend-agnostic set of interfaces (Backend, Instance, Adapter,
// Device, Queue, CommandEncoder, the pass encoders) that the Vulkan,
// Metal, DX12, GLES, and no-op backends each implement so the
// orchestration layer in core/, renderer/, and graph/ never branches on
// backend identity.
//
// # Architecture
//
// A caller walks the same five-step sequence regardless of backend:
//
//  1. Backend - selects and registers a concrete backend implementation
//  2. Instance - enumerates adapters and creates surfaces
//  3. Adapter - a physical GPU, queried for supported types.Features
//  4. Device - creates resources and records commands
//  5. Queue - submits recorded commands and presents frames
//
// # Design principles
//
// The HAL favors portability over safety: it trusts its caller rather
// than validating GPU state on every call. Concretely:
//
//   - Descriptor validation (bad formats, out-of-range sizes) is the
//     caller's job, not the HAL's
//   - Only conditions a backend cannot recover from (out-of-memory,
//     device-lost, surface-outdated) surface as typed errors
//   - The frame orchestration core (graph.FrameLoop, core.DeferredDestroyer,
//     core.PipelineLayoutCache) is what enforces correct usage; the HAL
//     itself does not
//
// # Typed GPU resources
//
// Every GPU resource this HAL creates (buffers, textures, pipelines,
// bind groups, query sets, and acceleration structures) implements the
// Resource interface (a Destroy method). core.DeferredDestroyer is what
// actually calls Destroy, queued per resource kind until a frame's GPU
// work has retired; see core/deferred_destroyer.go.
//
// # Backend registration and selection
//
// Backends self-register via RegisterBackend from their own init, so
// importing hal/allbackends (or a single hal/<backend> package) is
// enough to make a backend available:
//
//	backend, err := hal.SelectBestBackend()
//	if err != nil {
//		return fmt.Errorf("no usable backend: %w", err)
//	}
//
// SelectBackendSupporting additionally filters by required
// types.Features, which ray traced passes (graph/passes) and the
// bindless descriptor path (core.BindlessManager) both depend on.
//
// # Thread safety
//
// Backend registration (RegisterBackend, GetBackend,
// SelectBackendSupporting) is safe for concurrent use. Device, Queue,
// and encoder methods are not, unless the concrete backend states
// otherwise; callers serialize access themselves (core.Queue wraps a
// mutex around submission for exactly this reason).
//
// # Ray tracing and queries as specializations, not new pipeline types
//
// Rather than add a distinct ray tracing pipeline and dedicated
// shader-binding-table encoder, this HAL models ray tracing as a
// specialized compute dispatch: ComputePassEncoder.TraceRays runs
// against an AccelerationStructure bound like any other resource.
// Occlusion and timestamp queries follow the same minimal-surface
// approach via QuerySet and CommandEncoder.WriteTimestamp/ResolveQuerySet.
package hal
