package core

import (
	"testing"

	"github.com/embergfx/enginecore/hal"
	"github.com/embergfx/enginecore/hal/noop"
)

// flakySurface reports the surface as outdated until reconfigured, then
// acquires normally, modeling a resize between frames.
type flakySurface struct {
	noop.Surface
	outdated       bool
	reconfigureCnt int
}

func (s *flakySurface) Configure(device hal.Device, config *hal.SurfaceConfiguration) error {
	s.reconfigureCnt++
	s.outdated = false
	return s.Surface.Configure(device, config)
}

func (s *flakySurface) AcquireTexture(fence hal.Fence) (*hal.AcquiredSurfaceTexture, error) {
	if s.outdated {
		return nil, hal.ErrSurfaceOutdated
	}
	return s.Surface.AcquireTexture(fence)
}

// TestSwapchainRecreateOnOutOfDate covers concrete scenario 4: after
// next_backbuffer returns OutOfDate, calling recreate then
// next_backbuffer succeeds, and the view cache is empty and repopulates
// lazily.
func TestSwapchainRecreateOnOutOfDate(t *testing.T) {
	device := &noop.Device{}
	surface := &flakySurface{}

	sc, err := NewSwapchain(device, surface, hal.SurfaceConfiguration{Width: 800, Height: 600})
	if err != nil {
		t.Fatalf("NewSwapchain: %v", err)
	}
	surface.outdated = true

	_, err = sc.NextBackbuffer(nil)
	if !IsSwapchainError(err, SwapchainOutOfDate) {
		t.Fatalf("err = %v, want SwapchainOutOfDate", err)
	}

	if err := sc.Recreate(1280, 720); err != nil {
		t.Fatalf("Recreate: %v", err)
	}
	if len(sc.views) != 0 {
		t.Fatalf("view cache after Recreate = %d entries, want 0", len(sc.views))
	}

	backbuffer, err := sc.NextBackbuffer(nil)
	if err != nil {
		t.Fatalf("NextBackbuffer after Recreate: %v", err)
	}
	if backbuffer.View == nil {
		t.Fatal("expected a lazily created backbuffer view")
	}
	if len(sc.views) != 1 {
		t.Fatalf("view cache after first access = %d entries, want 1", len(sc.views))
	}
}
