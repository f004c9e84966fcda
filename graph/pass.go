package graph

import (
	"github.com/embergfx/enginecore/hal"
	"github.com/embergfx/enginecore/renderer"
)

// PassParams carries per-frame inputs a pass needs to record itself:
// the frame index, output dimensions, and anything the containing
// render path threads through (camera data, light lists, and so on, out
// of scope here).
type PassParams struct {
	Frame  uint64
	Width  uint32
	Height uint32
}

// RenderPass is one step of a render path. Its constructor (not part of
// this interface; each concrete pass type provides its own) declares
// the resources it owns via RendererResources.CreateTexture/CreateBuffer
// and retains any pipeline handles it needs. Execute records the pass's
// work, accessing its inputs and outputs exclusively through resources
// so barriers are derived automatically.
type RenderPass interface {
	// Name identifies the pass for logging and debugging.
	Name() string

	// Execute records the pass's commands into enc, reading/writing its
	// declared resources through resources.
	Execute(enc hal.CommandEncoder, resources *renderer.RendererResources, params PassParams) error
}
