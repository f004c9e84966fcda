// Package graph implements render passes and the per-frame orchestration
// loop that drives them against a GraphicsContext, Queue, and Swapchain.
//
// A render path is not inferred from declared dependencies; it is
// constructed imperatively as an ordered slice of RenderPass values.
// Correctness of synchronization instead comes from every pass
// expressing its resource use through renderer.RendererResources, whose
// access methods derive barriers by construction.
package graph
