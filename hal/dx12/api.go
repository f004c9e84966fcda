// Package dx12 registers the DX12 backend variant.
//
// Unlike hal/vulkan and hal/metal, DX12 is explicitly a partial
// backend: it delegates to the noop backend's in-memory implementation
// for everything it does support, but Adapter.Open rejects feature
// requests outside its advertised set instead of silently accepting
// them, mirroring the todo!() gaps the backend this variant stands in
// for is known to have.
package dx12

import (
	"errors"

	"github.com/embergfx/enginecore/hal"
	"github.com/embergfx/enginecore/hal/noop"
	"github.com/embergfx/enginecore/types"
)

// ErrFeatureUnsupported is returned by Adapter.Open when the requested
// features exceed what this partial backend implements.
var ErrFeatureUnsupported = errors.New("dx12: requested feature not implemented")

// API implements hal.Backend for the DX12 variant.
type API struct{}

// Variant returns the backend type identifier.
func (API) Variant() types.Backend {
	return types.BackendDX12
}

// CreateInstance creates a DX12-variant instance.
func (API) CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error) {
	inner, err := (noop.API{}).CreateInstance(desc)
	if err != nil {
		return nil, err
	}
	return &Instance{inner: inner}, nil
}

// Instance implements hal.Instance for the DX12 variant.
type Instance struct {
	inner hal.Instance
}

// CreateSurface creates a surface (DXGI swap chain equivalent) for the
// given window handles.
func (i *Instance) CreateSurface(display, window uintptr) (hal.Surface, error) {
	return i.inner.CreateSurface(display, window)
}

// EnumerateAdapters returns a single adapter identifying as DX12
// hardware with a feature set narrower than hal/vulkan's, reflecting
// this backend's partial status.
func (i *Instance) EnumerateAdapters(surfaceHint hal.Surface) []hal.ExposedAdapter {
	inner := i.inner.EnumerateAdapters(surfaceHint)
	out := make([]hal.ExposedAdapter, len(inner))
	for idx, exposed := range inner {
		out[idx] = hal.ExposedAdapter{
			Adapter: &Adapter{inner: exposed.Adapter},
			Info: types.AdapterInfo{
				Name:       "DX12 Adapter",
				Vendor:     "GoGPU",
				VendorID:   0,
				DeviceID:   0,
				DeviceType: types.DeviceTypeDiscreteGPU,
				Driver:     "dx12-emulated",
				DriverInfo: "DX12 backend variant, partial, software-emulated",
				Backend:    types.BackendDX12,
			},
			Features: dx12Features,
			Capabilities: hal.Capabilities{
				Limits: types.DefaultLimits(),
				AlignmentsMask: hal.Alignments{
					BufferCopyOffset: 4,
					BufferCopyPitch:  256,
				},
				DownlevelCapabilities: hal.DownlevelCapabilities{
					ShaderModel: 51,
					Flags: hal.DownlevelFlagsComputeShaders |
						hal.DownlevelFlagsFragmentWritableStorage |
						hal.DownlevelFlagsBaseVertexBaseInstance,
				},
			},
		}
	}
	return out
}

// Destroy releases the instance.
func (i *Instance) Destroy() { i.inner.Destroy() }

// dx12Features is the feature set this variant reports as supported.
// Multi-draw-indirect-count, subgroup operations, and push constants
// are not among them: the backend this variant stands in for has not
// implemented the shader-model 6.x paths those need.
const dx12Features = types.Features(
	types.FeatureDepthClipControl |
		types.FeatureTextureCompressionBC |
		types.FeatureIndirectFirstInstance |
		types.FeatureTimestampQuery,
)

// Adapter implements hal.Adapter for the DX12 variant by delegating to
// the wrapped adapter, rejecting feature requests it cannot satisfy.
type Adapter struct {
	inner hal.Adapter
}

// Open opens a logical device against the requested features/limits,
// failing with ErrFeatureUnsupported if features asks for anything
// beyond dx12Features.
func (a *Adapter) Open(features types.Features, limits types.Limits) (hal.OpenDevice, error) {
	if !dx12Features.ContainsAll(features) {
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
