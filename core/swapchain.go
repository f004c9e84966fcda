package core

import (
	"errors"
	"sync"

	"github.com/embergfx/enginecore/hal"
)

// Backbuffer pairs an acquired surface texture with its lazily-built
// default view.
type Backbuffer struct {
	Texture    hal.SurfaceTexture
	View       hal.TextureView
	Suboptimal bool
}

// Swapchain wraps a platform surface, caching each backbuffer's default
// view by identity so it is only created once per backbuffer.
type Swapchain struct {
	device hal.Device
	config hal.SurfaceConfiguration

	mu      sync.Mutex
	surface hal.Surface
	views   map[hal.SurfaceTexture]hal.TextureView
}

// NewSwapchain configures surface with config and wraps it.
func NewSwapchain(device hal.Device, surface hal.Surface, config hal.SurfaceConfiguration) (*Swapchain, error) {
	if err := surface.Configure(device, &config); err != nil {
		return nil, &SwapchainError{Kind: SwapchainOther, Cause: err}
	}
	return &Swapchain{
		device:  device,
		config:  config,
		surface: surface,
		views:   make(map[hal.SurfaceTexture]hal.TextureView),
	}, nil
}

// NextBackbuffer acquires the next surface texture, building its default
// view on first use. acquireFence is signaled by the backend once the
// backbuffer is actually available to render into.
func (s *Swapchain) NextBackbuffer(acquireFence hal.Fence) (Backbuffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acquired, err := s.surface.AcquireTexture(acquireFence)
	if err != nil {
		switch {
		case errors.Is(err, hal.ErrSurfaceOutdated):
			return Backbuffer{}, &SwapchainError{Kind: SwapchainOutOfDate, Cause: err}
		case errors.Is(err, hal.ErrSurfaceLost):
			return Backbuffer{}, &SwapchainError{Kind: SwapchainSurfaceLost, Cause: err}
		default:
			return Backbuffer{}, &SwapchainError{Kind: SwapchainOther, Cause: err}
		}
	}

	view, ok := s.views[acquired.Texture]
	if !ok {
		view, err = s.device.CreateTextureView(acquired.Texture, &hal.TextureViewDescriptor{
			Label:  "backbuffer-view",
			Format: s.config.Format,
		})
		if err != nil {
			s.surface.DiscardTexture(acquired.Texture)
			return Backbuffer{}, &SwapchainError{Kind: SwapchainOther, Cause: err}
		}
		s.views[acquired.Texture] = view
	}

	return Backbuffer{Texture: acquired.Texture, View: view, Suboptimal: acquired.Suboptimal}, nil
}

// Recreate reconfigures the existing surface at the new size, resetting
// the view cache; prior backbuffer identities are no longer valid.
func (s *Swapchain) Recreate(width, height uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.config.Width = width
	s.config.Height = height
	if err := s.surface.Configure(s.device, &s.config); err != nil {
		return &SwapchainError{Kind: SwapchainOther, Cause: err}
	}
	for tex, view := range s.views {
		s.device.DestroyTextureView(view)
		delete(s.views, tex)
	}
	return nil
}

// RecreateOnSurface replaces the underlying surface entirely (e.g. after
// a window handle change) and resets the view cache.
func (s *Swapchain) RecreateOnSurface(surface hal.Surface, width, height uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for tex, view := range s.views {
		s.device.DestroyTextureView(view)
		delete(s.views, tex)
	}

	s.config.Width = width
	s.config.Height = height
	if err := surface.Configure(s.device, &s.config); err != nil {
		return &SwapchainError{Kind: SwapchainOther, Cause: err}
	}
	s.surface = surface
	return nil
}

// Surface returns the underlying platform surface, for use as a
// Submission's ReleaseSurface.
func (s *Swapchain) Surface() hal.Surface {
	return s.surface
}

// Destroy unconfigures the surface and destroys cached views.
func (s *Swapchain) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for tex, view := range s.views {
		s.device.DestroyTextureView(view)
		delete(s.views, tex)
	}
	s.surface.Unconfigure(s.device)
}
