// Package renderer implements RendererResources, the named registry of
// textures and buffers a render graph accesses by name. Each entry
// tracks the usage state it was last accessed with and emits a barrier
// whenever a new access needs a different state, so passes never
// hand-derive synchronization: they express intent through the registry
// and barriers fall out by construction.
//
// Entries may declare a history depth H, giving H+1 physical instances
// rotated per frame; a Past access reads last frame's instance while a
// Current access reads this frame's, letting a pass read its own
// previous output (e.g. TAA history) without aliasing the buffer it is
// about to write.
package renderer
