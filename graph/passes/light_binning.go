package passes

import (
	"github.com/embergfx/enginecore/asset"
	"github.com/embergfx/enginecore/core"
	"github.com/embergfx/enginecore/graph"
	"github.com/embergfx/enginecore/hal"
	"github.com/embergfx/enginecore/renderer"
	"github.com/embergfx/enginecore/types"
)

// LightBinsBufferName is the named storage buffer holding one light
// index per cluster slot, consumed by the shading pass.
const LightBinsBufferName = "LightBins"

// LightBinningPass walks ClusteringPass's per-cluster light index
// ranges and writes a flattened list of light indices per cluster,
// grounded on original_source's light_binning compute pass.
type LightBinningPass struct {
	device hal.Device
	setup  *computeSetup
}

// NewLightBinningPass loads the light binning compute shader and
// declares its output buffer in resources. It must run after
// ClusteringPass in a render path's pass list.
func NewLightBinningPass(device hal.Device, layouts *core.PipelineLayoutCache, assets asset.Manager, resources *renderer.RendererResources) (*LightBinningPass, error) {
	setup, err := newComputeSetup(device, layouts, assets, "light-binning", "light_binning.comp", []types.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: types.ShaderStageCompute,
			Buffer:     &types.BufferBindingLayout{Type: types.BufferBindingTypeReadOnlyStorage},
		},
		storageBufferEntry(1),
	})
	if err != nil {
		return nil, err
	}

	clusterCount := uint64(ClusterGridX * ClusterGridY * ClusterGridZ)
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: LightBinsBufferName,
		Size:  clusterCount * 4, // one uint32 light index per cluster
		Usage: types.BufferUsageStorage | types.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	resources.CreateBuffer(LightBinsBufferName, []hal.Buffer{buf}, 0)

	return &LightBinningPass{device: device, setup: setup}, nil
}

// Name identifies this pass for logging and debugging.
func (p *LightBinningPass) Name() string { return "light-binning" }

// Execute reads the cluster assignment buffer and writes the flattened
// per-cluster light bin buffer.
func (p *LightBinningPass) Execute(enc hal.CommandEncoder, resources *renderer.RendererResources, params graph.PassParams) error {
	_, clusterBarrier, err := resources.AccessBuffer(ClusteringBufferName, renderer.SyncCompute, renderer.AccessRead, types.BufferUsageStorage, renderer.Current)
	if err != nil {
		return err
	}
	_, binsBarrier, err := resources.AccessBuffer(LightBinsBufferName, renderer.SyncCompute, renderer.AccessWrite, types.BufferUsageStorage, renderer.Current)
	if err != nil {
		return err
	}

	var barriers []hal.BufferBarrier
	if clusterBarrier != nil {
		barriers = append(barriers, *clusterBarrier)
	}
	if binsBarrier != nil {
		barriers = append(barriers, *binsBarrier)
	}
	if len(barriers) > 0 {
		enc.TransitionBuffers(barriers)
	}

	bg, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "light-binning",
		Layout: p.setup.BindGroupLayout,
		Entries: []types.BindGroupEntry{
			bufferBindGroupEntry(0, uint64(ClusterGridX*ClusterGridY*ClusterGridZ*clusterEntryStride)),
			bufferBindGroupEntry(1, uint64(ClusterGridX*ClusterGridY*ClusterGridZ*4)),
		},
	})
	if err != nil {
		return err
	}
	defer p.device.DestroyBindGroup(bg)

	pass := enc.BeginComputePass(&hal.ComputePassDescriptor{Label: "light-binning"})
	pass.SetPipeline(p.setup.Pipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.Dispatch(ClusterGridX, ClusterGridY, ClusterGridZ)
	pass.End()

	return nil
}
