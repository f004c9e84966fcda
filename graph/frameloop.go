package graph

import (
	"errors"
	"log/slog"

	"github.com/embergfx/enginecore/core"
	"github.com/embergfx/enginecore/hal"
	"github.com/embergfx/enginecore/renderer"
)

// FrameLoop drives one render path (a fixed, imperatively ordered list
// of passes) against a device each frame.
type FrameLoop struct {
	context    *core.GraphicsContext
	queue      *core.Queue
	swapchain  *core.Swapchain
	fence      *core.TimelineFence
	resources  *renderer.RendererResources
	passes     []RenderPass
	recorderID string
}

// NewFrameLoop wires a frame loop over context/queue/swapchain/fence,
// executing passes in order every frame. recorderID identifies this
// loop's command-recording slot with the GraphicsContext (stable across
// frames); pass separate values for loops recording from distinct
// goroutines.
func NewFrameLoop(context *core.GraphicsContext, queue *core.Queue, swapchain *core.Swapchain, fence *core.TimelineFence, resources *renderer.RendererResources, recorderID string, passes []RenderPass) *FrameLoop {
	return &FrameLoop{
		context:    context,
		queue:      queue,
		swapchain:  swapchain,
		fence:      fence,
		resources:  resources,
		passes:     passes,
		recorderID: recorderID,
	}
}

// RunFrame executes one frame: begin_frame, resource bump, backbuffer
// acquire, pass recording, submit, and present. It records no
// backbuffer transition to a present layout. A skipped frame (stale swapchain) returns core.ErrFrameSkipped
// after triggering recreation; callers should retry on the next tick.
func (f *FrameLoop) RunFrame(width, height uint32, acquireFence hal.Fence) error {
	if err := f.context.BeginFrame(); err != nil {
		return err
	}
	f.resources.BumpFrame()

	backbuffer, err := f.swapchain.NextBackbuffer(acquireFence)
	if err != nil {
		var sce *core.SwapchainError
		if errors.As(err, &sce) && sce.Kind == core.SwapchainOutOfDate {
			if recreateErr := f.swapchain.Recreate(width, height); recreateErr != nil {
				return recreateErr
			}
			slog.Default().Debug("frame skipped: swapchain recreated", "width", width, "height", height)
			return core.ErrFrameSkipped
		}
		return err
	}

	enc, err := f.context.GetEncoder(f.recorderID, core.QueueTypeGraphics)
	if err != nil {
		return err
	}

	frame := f.context.CurrentFrame()
	params := PassParams{Frame: frame, Width: width, Height: height}
	for _, pass := range f.passes {
		if err := pass.Execute(enc, f.resources, params); err != nil {
			enc.DiscardEncoding()
			return err
		}
	}

	// No explicit present-layout transition: this HAL's Queue.Present
	// performs whatever backend-side transition presentation requires.

	cb, err := f.context.FinishCommandBuffer(f.recorderID)
	if err != nil {
		return err
	}

	err = f.queue.Submit([]core.Submission{{
		CommandBuffers: []hal.CommandBuffer{cb},
		SignalFence:    f.fence,
		SignalValue:    frame,
		ReleaseSurface: f.swapchain.Surface(),
		ReleaseTexture: backbuffer.Texture,
	}})
	if err != nil {
		return err
	}

	return f.queue.Present(f.swapchain.Surface())
}
