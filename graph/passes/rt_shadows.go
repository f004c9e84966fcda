package passes

import (
	"log/slog"

	"github.com/embergfx/enginecore/asset"
	"github.com/embergfx/enginecore/core"
	"github.com/embergfx/enginecore/graph"
	"github.com/embergfx/enginecore/hal"
	"github.com/embergfx/enginecore/renderer"
	"github.com/embergfx/enginecore/types"
)

// RTShadowsTextureName is the named storage texture ray traced
// shadows are written into, one visibility term per pixel.
const RTShadowsTextureName = "RTShadow"

// RTShadowsPass traces one shadow ray per pixel against a top-level
// acceleration structure, grounded on original_source's modern
// rt_shadows pass. Unlike the original's dedicated ray generation /
// closest-hit / miss shader pipeline, this HAL models ray tracing as
// a compute dispatch (ComputePassEncoder.TraceRays) over a single
// shader, so construction loads one compute shader rather than three.
type RTShadowsPass struct {
	device hal.Device
	setup  *computeSetup
	accel  hal.AccelerationStructure
	logger *slog.Logger
}

// NewRTShadowsPass loads the ray traced shadow shader and declares its
// output texture in resources.
func NewRTShadowsPass(device hal.Device, layouts *core.PipelineLayoutCache, assets asset.Manager, resources *renderer.RendererResources, width, height uint32) (*RTShadowsPass, error) {
	setup, err := newComputeSetup(device, layouts, assets, "rt-shadows", "rt_shadows.comp", []types.BindGroupLayoutEntry{
		{
			Binding:               0,
			Visibility:            types.ShaderStageCompute,
			AccelerationStructure: &types.AccelerationStructureBindingLayout{},
		},
		{
			Binding:    1,
			Visibility: types.ShaderStageCompute,
			Storage:    &types.StorageTextureBindingLayout{Access: types.StorageTextureAccessWriteOnly, Format: types.TextureFormatRGBA8Unorm, ViewDimension: types.TextureViewDimension2D},
		},
		{
			Binding:    2,
			Visibility: types.ShaderStageCompute,
			Texture:    &types.TextureBindingLayout{SampleType: types.TextureSampleTypeDepth, ViewDimension: types.TextureViewDimension2D},
		},
	})
	if err != nil {
		return nil, err
	}

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         RTShadowsTextureName,
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     types.TextureDimension2D,
		Format:        types.TextureFormatRGBA8Unorm,
		Usage:         types.TextureUsageStorageBinding | types.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, err
	}
	resources.CreateTexture(RTShadowsTextureName, []hal.Texture{tex}, hal.TextureRange{ArrayLayerCount: 1, MipLevelCount: 1}, 0)

	return &RTShadowsPass{device: device, setup: setup, logger: hal.PassLogger("rt-shadows")}, nil
}

// SetAccelerationStructure records the top-level acceleration
// structure this pass traces against. Must be called with a built
// structure before the first Execute of a given frame.
func (p *RTShadowsPass) SetAccelerationStructure(accel hal.AccelerationStructure) {
	p.logger.Debug("acceleration structure bound")
	p.accel = accel
}

// Name identifies this pass for logging and debugging.
func (p *RTShadowsPass) Name() string { return "rt-shadows" }

// Execute traces one shadow ray per output pixel against the bound
// acceleration structure. Returns an error if no acceleration
// structure has been set via SetAccelerationStructure.
func (p *RTShadowsPass) Execute(enc hal.CommandEncoder, resources *renderer.RendererResources, params graph.PassParams) error {
	if p.accel == nil {
		return &core.ResourceLookupError{Name: RTShadowsTextureName, Kind: core.ResourceNotFound}
	}

	_, barrier, err := resources.AccessStorageView(RTShadowsTextureName, renderer.SyncCompute, renderer.AccessWrite, true, hal.TextureViewDescriptor{}, renderer.Current, p.device)
	if err != nil {
		return err
	}
	if barrier != nil {
		enc.TransitionTextures([]hal.TextureBarrier{*barrier})
	}

	bg, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "rt-shadows",
		Layout: p.setup.BindGroupLayout,
		Entries: []types.BindGroupEntry{
			{Binding: 0, Resource: types.AccelerationStructureBinding{AccelerationStructure: 0}},
			{Binding: 1, Resource: types.TextureViewBinding{TextureView: 0}},
			{Binding: 2, Resource: types.TextureViewBinding{TextureView: 0}},
		},
	})
	if err != nil {
		return err
	}
	defer p.device.DestroyBindGroup(bg)

	pass := enc.BeginComputePass(&hal.ComputePassDescriptor{Label: "rt-shadows"})
	pass.SetPipeline(p.setup.Pipeline)
	pass.SetBindGroup(0, bg, nil)
	if err := pass.TraceRays(params.Width, params.Height, 1); err != nil {
		pass.End()
		return err
	}
	pass.End()

	return nil
}
