// Package vulkan registers the Vulkan backend variant.
//
// It has no native Vulkan bindings in this tree: it delegates adapter,
// device, and queue behavior to the noop backend's in-memory
// implementation while advertising itself as types.BackendVulkan with a
// feature/capability set representative of a real Vulkan driver. Per
// the reference semantics called out for this backend, it is the most
// complete of the non-native backends; hal/dx12 and hal/gles report a
// narrower feature set to reflect their partial status.
package vulkan

import (
	"github.com/embergfx/enginecore/hal"
	"github.com/embergfx/enginecore/hal/noop"
	"github.com/embergfx/enginecore/types"
)

// API implements hal.Backend for the Vulkan variant.
type API struct{}

// Variant returns the backend type identifier.
func (API) Variant() types.Backend {
	return types.BackendVulkan
}

// CreateInstance creates a Vulkan-variant instance.
func (API) CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error) {
	inner, err := (noop.API{}).CreateInstance(desc)
	if err != nil {
		return nil, err
	}
	return &Instance{inner: inner}, nil
}

// Instance implements hal.Instance for the Vulkan variant.
type Instance struct {
	inner hal.Instance
}

// CreateSurface creates a surface for the given window handles.
func (i *Instance) CreateSurface(display, window uintptr) (hal.Surface, error) {
	return i.inner.CreateSurface(display, window)
}

// EnumerateAdapters returns a single adapter identifying as a Vulkan
// device with a feature and limits set representative of desktop
// Vulkan 1.2 hardware.
func (i *Instance) EnumerateAdapters(surfaceHint hal.Surface) []hal.ExposedAdapter {
	inner := i.inner.EnumerateAdapters(surfaceHint)
	out := make([]hal.ExposedAdapter, len(inner))
	for idx, exposed := range inner {
		out[idx] = hal.ExposedAdapter{
			Adapter: &Adapter{inner: exposed.Adapter},
			Info: types.AdapterInfo{
				Name:       "Vulkan Adapter",
				Vendor:     "GoGPU",
				VendorID:   0,
				DeviceID:   0,
				DeviceType: types.DeviceTypeDiscreteGPU,
				Driver:     "vulkan-emulated",
				DriverInfo: "Vulkan backend variant, software-emulated",
				Backend:    types.BackendVulkan,
			},
			Features: vulkanFeatures,
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

// vulkanFeatures is the feature set this variant reports as supported.
const vulkanFeatures = types.Features(
	types.FeatureDepthClipControl |
		types.FeatureDepth32FloatStencil8 |
		types.FeatureTextureCompressionBC |
		types.FeatureIndirectFirstInstance |
		types.FeaturePushConstants |
		types.FeatureTimestampQuery |
		types.FeatureMultiDrawIndirect |
		types.FeatureMultiDrawIndirectCount |
		types.FeatureSubgroupOperations |
		types.FeatureRayTracingAccelerationStructure,
)

// Adapter implements hal.Adapter for the Vulkan variant by delegating
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
