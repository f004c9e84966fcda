package graph

import (
	"testing"

	"github.com/embergfx/enginecore/core"
	"github.com/embergfx/enginecore/hal"
	"github.com/embergfx/enginecore/hal/noop"
	"github.com/embergfx/enginecore/renderer"
)

// TestNoOpRenderPathRunsNoPasses covers the smoke-test render path:
// RunFrame succeeds and presents, but no pass executes.
func TestNoOpRenderPathRunsNoPasses(t *testing.T) {
	device := &noop.Device{}
	destroyer := core.NewDeferredDestroyer(device, nil)
	fence, err := core.NewTimelineFence(device)
	if err != nil {
		t.Fatalf("NewTimelineFence: %v", err)
	}
	ctx := core.NewGraphicsContext(device, destroyer, fence, 1)
	queue := core.NewQueue(&noop.Queue{}, core.QueueTypeGraphics)
	sc, err := core.NewSwapchain(device, &noop.Surface{}, hal.SurfaceConfiguration{Width: 320, Height: 240})
	if err != nil {
		t.Fatalf("NewSwapchain: %v", err)
	}
	resources := renderer.New()

	loop := NewFrameLoopForPath(ctx, queue, sc, fence, resources, "main", NoOpRenderPath{})
	if err := loop.RunFrame(320, 240, nil); err != nil {
		t.Fatalf("RunFrame: %v", err)
	}
}

// TestModernRenderPathPreservesOrder covers that ModernRenderPath
// exposes its passes unmodified, in construction order.
func TestModernRenderPathPreservesOrder(t *testing.T) {
	var log []string
	passes := []RenderPass{
		&recordingPass{name: "geometry", log: &log},
		&recordingPass{name: "lighting", log: &log},
	}
	path := NewModernRenderPath(passes)

	if path.Name() != "modern" {
		t.Fatalf("Name() = %q, want modern", path.Name())
	}
	got := path.Passes()
	if len(got) != 2 || got[0].Name() != "geometry" || got[1].Name() != "lighting" {
		t.Fatalf("Passes() = %v, want [geometry lighting]", got)
	}
}
