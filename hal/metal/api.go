// Package metal registers the Metal backend variant.
//
// Like hal/vulkan, it has no native Metal bindings in this tree: it
// delegates to the noop backend's in-memory implementation while
// advertising itself as types.BackendMetal. It is treated as reference
// semantics alongside hal/vulkan, with a feature set shaped around
// Apple Silicon's unified memory and half-float support rather than
// Vulkan's discrete-GPU assumptions.
package metal

import (
	"github.com/embergfx/enginecore/hal"
	"github.com/embergfx/enginecore/hal/noop"
	"github.com/embergfx/enginecore/types"
)

// API implements hal.Backend for the Metal variant.
type API struct{}

// Variant returns the backend type identifier.
func (API) Variant() types.Backend {
	return types.BackendMetal
}

// CreateInstance creates a Metal-variant instance.
func (API) CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error) {
	inner, err := (noop.API{}).CreateInstance(desc)
	if err != nil {
		return nil, err
	}
	return &Instance{inner: inner}, nil
}

// Instance implements hal.Instance for the Metal variant.
type Instance struct {
	inner hal.Instance
}

// CreateSurface creates a surface (CAMetalLayer equivalent) for the
// given window handles.
func (i *Instance) CreateSurface(display, window uintptr) (hal.Surface, error) {
	return i.inner.CreateSurface(display, window)
}

// EnumerateAdapters returns a single adapter identifying as integrated
// Apple Silicon hardware with unified memory.
func (i *Instance) EnumerateAdapters(surfaceHint hal.Surface) []hal.ExposedAdapter {
	inner := i.inner.EnumerateAdapters(surfaceHint)
	out := make([]hal.ExposedAdapter, len(inner))
	for idx, exposed := range inner {
		out[idx] = hal.ExposedAdapter{
			Adapter: &Adapter{inner: exposed.Adapter},
			Info: types.AdapterInfo{
				Name:       "Metal Adapter",
				Vendor:     "Apple",
				VendorID:   0,
				DeviceID:   0,
				DeviceType: types.DeviceTypeIntegratedGPU,
				Driver:     "metal-emulated",
				DriverInfo: "Metal backend variant, software-emulated",
				Backend:    types.BackendMetal,
			},
			Features: metalFeatures,
			Capabilities: hal.Capabilities{
				Limits: types.DefaultLimits(),
				AlignmentsMask: hal.Alignments{
					BufferCopyOffset: 4,
					BufferCopyPitch:  1,
				},
				DownlevelCapabilities: hal.DownlevelCapabilities{
					ShaderModel: 60,
					Flags: hal.DownlevelFlagsComputeShaders |
						hal.DownlevelFlagsFragmentWritableStorage |
						hal.DownlevelFlagsIndirectFirstInstance |
						hal.DownlevelFlagsBaseVertexBaseInstance |
						hal.DownlevelFlagsReadOnlyDepthStencil |
						hal.DownlevelFlagsAnisotropicFiltering,
				},
			},
		}
	}
	return out
}

// Destroy releases the instance.
func (i *Instance) Destroy() { i.inner.Destroy() }

// metalFeatures is the feature set this variant reports as supported.
const metalFeatures = types.Features(
	types.FeatureDepthClipControl |
		types.FeatureTextureCompressionASTC |
		types.FeatureIndirectFirstInstance |
		types.FeaturePushConstants |
		types.FeatureShaderF16 |
		types.FeatureRG11B10UfloatRenderable |
		types.FeatureTimestampQuery |
		types.FeatureRayTracingAccelerationStructure,
)

// Adapter implements hal.Adapter for the Metal variant by delegating
// to the wrapped adapter.
type Adapter struct {
	inner hal.Adapter
}

// Open opens a logical device against the requested features/limits.
func (a *Adapter) Open(features types.Features, limits types.Limits) (hal.OpenDevice, error) {
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
