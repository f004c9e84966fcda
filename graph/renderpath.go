package graph

import (
	"github.com/embergfx/enginecore/core"
	"github.com/embergfx/enginecore/renderer"
)

// RenderPath selects which ordered list of passes a FrameLoop executes
// each frame, so a caller can switch between the full gpu-driven path
// and a minimal path without restructuring FrameLoop itself.
type RenderPath interface {
	// Name identifies the path for logging.
	Name() string

	// Passes returns the ordered pass list this path executes.
	Passes() []RenderPass
}

// ModernRenderPath is the gpu-driven render path: a fixed, externally
// constructed list of passes run in order every frame.
type ModernRenderPath struct {
	passes []RenderPass
}

// NewModernRenderPath wraps passes as the modern render path.
func NewModernRenderPath(passes []RenderPass) *ModernRenderPath {
	return &ModernRenderPath{passes: passes}
}

func (p *ModernRenderPath) Name() string        { return "modern" }
func (p *ModernRenderPath) Passes() []RenderPass { return p.passes }

// NoOpRenderPath records no passes at all: RunFrame still acquires,
// submits, and presents a backbuffer, but the backbuffer's contents are
// whatever the backend's default clear leaves them. Used for
// swapchain-only smoke tests that want to exercise frame pacing and
// presentation without a real pass list.
type NoOpRenderPath struct{}

func (NoOpRenderPath) Name() string        { return "noop" }
func (NoOpRenderPath) Passes() []RenderPass { return nil }

// NewFrameLoopForPath wires a FrameLoop to execute path's passes,
// otherwise identical to NewFrameLoop.
func NewFrameLoopForPath(context *core.GraphicsContext, queue *core.Queue, swapchain *core.Swapchain, fence *core.TimelineFence, resources *renderer.RendererResources, recorderID string, path RenderPath) *FrameLoop {
	return NewFrameLoop(context, queue, swapchain, fence, resources, recorderID, path.Passes())
}
