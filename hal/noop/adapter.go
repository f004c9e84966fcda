package noop

import (
	"github.com/embergfx/enginecore/hal"
	"github.com/embergfx/enginecore/types"
)

// Adapter implements hal.Adapter for the noop backend.
type Adapter struct{}

// Open opens a noop logical device. Features and limits are ignored;
// the noop backend accepts any request.
func (a *Adapter) Open(_ types.Features, _ types.Limits) (hal.OpenDevice, error) {
	return hal.OpenDevice{
		Device: &Device{},
		Queue:  &Queue{},
	}, nil
}

// TextureFormatCapabilities reports every format as sampleable and
// nothing more.
func (a *Adapter) TextureFormatCapabilities(_ types.TextureFormat) hal.TextureFormatCapabilities {
	return hal.TextureFormatCapabilities{
		Flags: hal.TextureFormatCapabilitySampled,
	}
}

// SurfaceCapabilities reports a minimal set of formats and modes compatible
// with any noop surface.
func (a *Adapter) SurfaceCapabilities(_ hal.Surface) *hal.SurfaceCapabilities {
	return &hal.SurfaceCapabilities{
		Formats:      []types.TextureFormat{types.TextureFormatRGBA8Unorm},
		PresentModes: []types.PresentMode{types.PresentModeFifo, types.PresentModeImmediate},
		AlphaModes:   []types.CompositeAlphaMode{types.CompositeAlphaModeOpaque},
	}
}

// Destroy is a no-op.
func (a *Adapter) Destroy() {}
