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

// PathTracingTargetName is the named storage texture the path tracer
// accumulates its output into.
const PathTracingTargetName = "PathTracingTarget"

// PathTracingPass replaces the clustered-forward lighting pipeline
// with a single full-screen ray traced integrator, grounded on
// original_source's path_tracer pass: one compute dispatch per frame
// against a top-level acceleration structure, one ray (or a small
// fixed sample count) per pixel.
type PathTracingPass struct {
	device hal.Device
	setup  *computeSetup
	accel  hal.AccelerationStructure
	logger *slog.Logger
}

// NewPathTracingPass loads the path tracing compute shader and
// declares its accumulation target in resources.
func NewPathTracingPass(device hal.Device, layouts *core.PipelineLayoutCache, assets asset.Manager, resources *renderer.RendererResources, width, height uint32) (*PathTracingPass, error) {
	setup, err := newComputeSetup(device, layouts, assets, "path-tracer", "path_tracer.comp", []types.BindGroupLayoutEntry{
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
	})
	if err != nil {
		return nil, err
	}

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         PathTracingTargetName,
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
	resources.CreateTexture(PathTracingTargetName, []hal.Texture{tex}, hal.TextureRange{ArrayLayerCount: 1, MipLevelCount: 1}, 0)

	return &PathTracingPass{device: device, setup: setup, logger: hal.PassLogger("path-tracer")}, nil
}

// SetAccelerationStructure records the top-level acceleration
// structure this pass traces against. Must be called with a built
// structure before the first Execute of a given frame.
func (p *PathTracingPass) SetAccelerationStructure(accel hal.AccelerationStructure) {
	p.logger.Debug("acceleration structure bound")
	p.accel = accel
}

// Name identifies this pass for logging and debugging.
func (p *PathTracingPass) Name() string { return "path-tracer" }

// Execute dispatches the path tracer over the full output resolution.
// Returns an error if no acceleration structure has been set via
// SetAccelerationStructure.
func (p *PathTracingPass) Execute(enc hal.CommandEncoder, resources *renderer.RendererResources, params graph.PassParams) error {
	if p.accel == nil {
		return &core.ResourceLookupError{Name: PathTracingTargetName, Kind: core.ResourceNotFound}
	}

	_, barrier, err := resources.AccessStorageView(PathTracingTargetName, renderer.SyncCompute, renderer.AccessWrite, true, hal.TextureViewDescriptor{}, renderer.Current, p.device)
	if err != nil {
		return err
	}
	if barrier != nil {
		enc.TransitionTextures([]hal.TextureBarrier{*barrier})
	}

	bg, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "path-tracer",
		Layout: p.setup.BindGroupLayout,
		Entries: []types.BindGroupEntry{
			{Binding: 0, Resource: types.AccelerationStructureBinding{AccelerationStructure: 0}},
			{Binding: 1, Resource: types.TextureViewBinding{TextureView: 0}},
		},
	})
	if err != nil {
		return err
	}
	defer p.device.DestroyBindGroup(bg)

	pass := enc.BeginComputePass(&hal.ComputePassDescriptor{Label: "path-tracer"})
	pass.SetPipeline(p.setup.Pipeline)
	pass.SetBindGroup(0, bg, nil)
	if err := pass.TraceRays(params.Width, params.Height, 1); err != nil {
		pass.End()
		return err
	}
	pass.End()

	return nil
}
