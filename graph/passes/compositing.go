package passes

import (
	"encoding/binary"
	"math"

	"github.com/embergfx/enginecore/asset"
	"github.com/embergfx/enginecore/core"
	"github.com/embergfx/enginecore/graph"
	"github.com/embergfx/enginecore/hal"
	"github.com/embergfx/enginecore/renderer"
	"github.com/embergfx/enginecore/types"
)

// CompositionTextureName is the named storage texture the compositing
// pass blends its inputs into, the final image before presentation.
const CompositionTextureName = "Composition"

// compositingGamma and compositingExposure are the tonemapping
// constants the original renderer's compositing pass applies.
const (
	compositingGamma    = 2.2
	compositingExposure = 0.01
)

// CompositingPass blends the sharpened color buffer with a secondary
// (e.g. reflections) buffer and applies gamma/exposure tonemapping,
// grounded on original_source's compositing pass.
type CompositingPass struct {
	device        hal.Device
	setup         *computeSetup
	setupBuffer   hal.Buffer
	colorName     string
	secondaryName string
}

// NewCompositingPass loads the compositing compute shader, declares
// the composition output texture and uploads the fixed gamma/exposure
// constants. colorName and secondaryName are the two sampled inputs
// this pass blends (the sharpened frame and a reflections buffer).
func NewCompositingPass(device hal.Device, queue hal.Queue, layouts *core.PipelineLayoutCache, assets asset.Manager, resources *renderer.RendererResources, colorName, secondaryName string, width, height uint32) (*CompositingPass, error) {
	setup, err := newComputeSetup(device, layouts, assets, "compositing", "compositing.comp", []types.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: types.ShaderStageCompute,
			Storage:    &types.StorageTextureBindingLayout{Access: types.StorageTextureAccessWriteOnly, Format: types.TextureFormatRGBA8Unorm, ViewDimension: types.TextureViewDimension2D},
		},
		{
			Binding:    1,
			Visibility: types.ShaderStageCompute,
			Texture:    &types.TextureBindingLayout{SampleType: types.TextureSampleTypeFloat, ViewDimension: types.TextureViewDimension2D},
		},
		{
			Binding:    2,
			Visibility: types.ShaderStageCompute,
			Texture:    &types.TextureBindingLayout{SampleType: types.TextureSampleTypeFloat, ViewDimension: types.TextureViewDimension2D},
		},
		{
			Binding:    3,
			Visibility: types.ShaderStageCompute,
			Buffer:     &types.BufferBindingLayout{Type: types.BufferBindingTypeUniform},
		},
	})
	if err != nil {
		return nil, err
	}

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         CompositionTextureName,
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
	resources.CreateTexture(CompositionTextureName, []hal.Texture{tex}, hal.TextureRange{ArrayLayerCount: 1, MipLevelCount: 1}, 0)

	setupBuf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "compositing-setup",
		Size:  8,
		Usage: types.BufferUsageUniform | types.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	var bits [8]byte
	binary.LittleEndian.PutUint32(bits[0:4], math.Float32bits(compositingGamma))
	binary.LittleEndian.PutUint32(bits[4:8], math.Float32bits(compositingExposure))
	queue.WriteBuffer(setupBuf, 0, bits[:])

	return &CompositingPass{
		device:        device,
		setup:         setup,
		setupBuffer:   setupBuf,
		colorName:     colorName,
		secondaryName: secondaryName,
	}, nil
}

// Name identifies this pass for logging and debugging.
func (p *CompositingPass) Name() string { return "compositing" }

// Execute samples the color and secondary inputs and writes the final
// composited, tonemapped image.
func (p *CompositingPass) Execute(enc hal.CommandEncoder, resources *renderer.RendererResources, params graph.PassParams) error {
	_, colorBarrier, err := resources.AccessSamplingView(p.colorName, renderer.SyncCompute, hal.TextureViewDescriptor{}, renderer.Current, p.device)
	if err != nil {
		return err
	}
	_, secondaryBarrier, err := resources.AccessSamplingView(p.secondaryName, renderer.SyncCompute, hal.TextureViewDescriptor{}, renderer.Current, p.device)
	if err != nil {
		return err
	}
	_, outBarrier, err := resources.AccessStorageView(CompositionTextureName, renderer.SyncCompute, renderer.AccessWrite, true, hal.TextureViewDescriptor{}, renderer.Current, p.device)
	if err != nil {
		return err
	}

	var barriers []hal.TextureBarrier
	for _, b := range []*hal.TextureBarrier{colorBarrier, secondaryBarrier, outBarrier} {
		if b != nil {
			barriers = append(barriers, *b)
		}
	}
	if len(barriers) > 0 {
		enc.TransitionTextures(barriers)
	}

	bg, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "compositing",
		Layout: p.setup.BindGroupLayout,
		Entries: []types.BindGroupEntry{
			{Binding: 0, Resource: types.TextureViewBinding{TextureView: 0}},
			{Binding: 1, Resource: types.TextureViewBinding{TextureView: 0}},
			{Binding: 2, Resource: types.TextureViewBinding{TextureView: 0}},
			{Binding: 3, Resource: types.BufferBinding{Buffer: 0, Offset: 0, Size: 8}},
		},
	})
	if err != nil {
		return err
	}
	defer p.device.DestroyBindGroup(bg)

	x, y := dispatchGroups2D(params.Width, params.Height, 8)

	pass := enc.BeginComputePass(&hal.ComputePassDescriptor{Label: "compositing"})
	pass.SetPipeline(p.setup.Pipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.Dispatch(x, y, 1)
	pass.End()

	return nil
}
