// Package gles registers the GLES backend variant.
//
// Like hal/dx12, GLES is a partial backend: it has no timeline fence
// or push-constant equivalent in the API it stands in for, so it
// advertises the narrowest feature set of the four variants and
// rejects Open requests for anything beyond it.
package gles

import (
	"errors"

	"github.com/embergfx/enginecore/hal"
	"github.com/embergfx/enginecore/hal/noop"
	"github.com/embergfx/enginecore/types"
)

// ErrFeatureUnsupported is returned by Adapter.Open when the requested
// features exceed what this partial backend implements.
var ErrFeatureUnsupported = errors.New("gles: requested feature not implemented")

// API implements hal.Backend for the GLES variant.
type API struct{}

// Variant returns the backend type identifier.
func (API) Variant() types.Backend {
	return types.BackendGL
}

// CreateInstance creates a GLES-variant instance.
func (API) CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error) {
	inner, err := (noop.API{}).CreateInstance(desc)
	if err != nil {
		return nil, err
	}
	return &Instance{inner: inner}, nil
}

// Instance implements hal.Instance for the GLES variant.
type Instance struct {
	inner hal.Instance
}

// CreateSurface creates a surface (EGL surface equivalent) for the
// given window handles.
func (i *Instance) CreateSurface(display, window uintptr) (hal.Surface, error) {
	return i.inner.CreateSurface(display, window)
}

// EnumerateAdapters returns a single adapter identifying as GLES
// hardware with the narrowest feature set of the four backend
// variants, reflecting this backend's downlevel, partial status.
func (i *Instance) EnumerateAdapters(surfaceHint hal.Surface) []hal.ExposedAdapter {
	inner := i.inner.EnumerateAdapters(surfaceHint)
	out := make([]hal.ExposedAdapter, len(inner))
	for idx, exposed := range inner {
		out[idx] = hal.ExposedAdapter{
			Adapter: &Adapter{inner: exposed.Adapter},
			Info: types.AdapterInfo{
				Name:       "GLES Adapter",
				Vendor:     "GoGPU",
				VendorID:   0,
				DeviceID:   0,
				DeviceType: types.DeviceTypeIntegratedGPU,
				Driver:     "gles-emulated",
				DriverInfo: "GLES backend variant, partial, software-emulated",
				Backend:    types.BackendGL,
			},
			Features: glesFeatures,
			Capabilities: hal.Capabilities{
				Limits: types.DefaultLimits(),
				AlignmentsMask: hal.Alignments{
					BufferCopyOffset: 4,
					BufferCopyPitch:  256,
				},
				DownlevelCapabilities: hal.DownlevelCapabilities{
					ShaderModel: 0,
					Flags:       hal.DownlevelFlagsBaseVertexBaseInstance,
				},
			},
		}
	}
	return out
}

// Destroy releases the instance.
func (i *Instance) Destroy() { i.inner.Destroy() }

// glesFeatures is the feature set this variant reports as supported.
// No compute-oriented features: the backend this variant stands in
// for has not implemented compute pass recording.
const glesFeatures = types.Features(
	types.FeatureDepthClipControl | types.FeatureTextureCompressionETC2,
)

// Adapter implements hal.Adapter for the GLES variant by delegating to
// the wrapped adapter, rejecting feature requests it cannot satisfy.
type Adapter struct {
	inner hal.Adapter
}

// Open opens a logical device against the requested features/limits,
// failing with ErrFeatureUnsupported if features asks for anything
// beyond glesFeatures.
func (a *Adapter) Open(features types.Features, limits types.Limits) (hal.OpenDevice, error) {
	if !glesFeatures.ContainsAll(features) {
		return hal.OpenDevice{}, ErrFeatureUnsupported
	}
	return a.inner.Open(features, limits)
}

// TextureFormatCapabilities reports format support for this adapter.
func (a *Adapter) TextureFormatCapabilities(format types.TextureFormat) hal.TextureFormatCapabilities {
	return a.inner.TextureFormatCapabilities(format)
}

// SurfaceCapabilities reports presentation support for surface.
func (a *Adapter) SurfaceCapabilities(surface hal.Surface) *hal.SurfaceCapabilities {
	return a.inner.SurfaceCapabilities(surface)
}

// Destroy releases the adapter.
func (a *Adapter) Destroy() { a.inner.Destroy() }
