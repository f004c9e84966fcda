package passes

import (
	"github.com/embergfx/enginecore/asset"
	"github.com/embergfx/enginecore/core"
	"github.com/embergfx/enginecore/graph"
	"github.com/embergfx/enginecore/hal"
	"github.com/embergfx/enginecore/renderer"
	"github.com/embergfx/enginecore/types"
)

// ClusterGridX, ClusterGridY and ClusterGridZ are the view-frustum
// subdivision clustering assigns
// lights into, matching the original renderer's 16x9x24 cluster grid.
const (
	ClusterGridX = 16
	ClusterGridY = 9
	ClusterGridZ = 24
)

// clusterEntryStride is the byte size of one cluster's light-index
// range record (first index, count, 8 bytes padding).
const clusterEntryStride = 16

// ClusteringBufferName is the named storage buffer clustering writes
// per-cluster light index ranges into, read back by LightBinningPass.
const ClusteringBufferName = "ClusterAssignments"

// ClusteringPass partitions the view frustum into a fixed grid of
// light clusters with a single compute dispatch, grounded on
// original_source's clustering pass: one compute shader invocation per
// cluster writes that cluster's light index range into a named storage
// buffer downstream passes read through RendererResources.
type ClusteringPass struct {
	device hal.Device
	setup  *computeSetup
}

// NewClusteringPass loads the clustering compute shader and declares
// its output buffer in resources.
func NewClusteringPass(device hal.Device, layouts *core.PipelineLayoutCache, assets asset.Manager, resources *renderer.RendererResources) (*ClusteringPass, error) {
	setup, err := newComputeSetup(device, layouts, assets, "clustering", "clustering.comp", []types.BindGroupLayoutEntry{
		storageBufferEntry(0),
	})
	if err != nil {
		return nil, err
	}

	clusterCount := uint64(ClusterGridX * ClusterGridY * ClusterGridZ)
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: ClusteringBufferName,
		Size:  clusterCount * clusterEntryStride,
		Usage: types.BufferUsageStorage | types.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	resources.CreateBuffer(ClusteringBufferName, []hal.Buffer{buf}, 0)

	return &ClusteringPass{device: device, setup: setup}, nil
}

// Name identifies this pass for logging and debugging.
func (p *ClusteringPass) Name() string { return "clustering" }

// Execute dispatches one compute invocation per cluster, writing the
// full cluster grid's light assignment buffer every frame.
func (p *ClusteringPass) Execute(enc hal.CommandEncoder, resources *renderer.RendererResources, params graph.PassParams) error {
	_, barrier, err := resources.AccessBuffer(ClusteringBufferName, renderer.SyncCompute, renderer.AccessWrite, types.BufferUsageStorage, renderer.Current)
	if err != nil {
		return err
	}
	if barrier != nil {
		enc.TransitionBuffers([]hal.BufferBarrier{*barrier})
	}

	bg, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "clustering",
		Layout: p.setup.BindGroupLayout,
		Entries: []types.BindGroupEntry{
			bufferBindGroupEntry(0, uint64(ClusterGridX*ClusterGridY*ClusterGridZ*clusterEntryStride)),
		},
	})
	if err != nil {
		return err
	}
	defer p.device.DestroyBindGroup(bg)

	pass := enc.BeginComputePass(&hal.ComputePassDescriptor{Label: "clustering"})
	pass.SetPipeline(p.setup.Pipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.Dispatch(ClusterGridX, ClusterGridY, ClusterGridZ)
	pass.End()

	return nil
}
