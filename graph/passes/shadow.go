package passes

import (
	"fmt"

	"github.com/embergfx/enginecore/asset"
	"github.com/embergfx/enginecore/core"
	"github.com/embergfx/enginecore/graph"
	"github.com/embergfx/enginecore/hal"
	"github.com/embergfx/enginecore/renderer"
	"github.com/embergfx/enginecore/types"
)

// ShadowMapName is the named depth texture the shadow pass renders
// the light's depth-only view into.
const ShadowMapName = "ShadowMap"

// shadowMapSize is the resolution of the shadow map, matching the
// original renderer's fixed 4096x4096 directional shadow map.
const shadowMapSize = 4096

// ShadowPass renders scene geometry from a light's point of view into
// a depth-only shadow map, grounded on original_source's shadow_map
// pass: a single-attachment depth/stencil render pass with no
// fragment stage, writing depth only.
type ShadowPass struct {
	device   hal.Device
	pipeline hal.RenderPipeline
}

// NewShadowPass loads the shadow map vertex shader and builds a
// depth-only render pipeline plus the shadow map's backing texture.
func NewShadowPass(device hal.Device, layouts *core.PipelineLayoutCache, assets asset.Manager, resources *renderer.RendererResources) (*ShadowPass, error) {
	shader, err := assets.Shader("shadow_map.vert")
	if err != nil {
		return nil, fmt.Errorf("passes: shadow: load shader: %w", err)
	}

	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "shadow_map.vert",
		Source: hal.ShaderSource{SPIRV: spirvWords(shader.Bytecode)},
	})
	if err != nil {
		return nil, fmt.Errorf("passes: shadow: create shader module: %w", err)
	}

	layout, err := layouts.Get(&hal.PipelineLayoutDescriptor{Label: "shadow"})
	if err != nil {
		return nil, fmt.Errorf("passes: shadow: pipeline layout: %w", err)
	}

	pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "shadow-map",
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     module,
			EntryPoint: shader.EntryPoint,
			Buffers: []types.VertexBufferLayout{
				{
					ArrayStride: 12, // float32 x3 position
					StepMode:    types.VertexStepModeVertex,
					Attributes: []types.VertexAttribute{
						{Format: types.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
					},
				},
			},
		},
		Primitive: types.PrimitiveState{
			Topology:  types.PrimitiveTopologyTriangleList,
			FrontFace: types.FrontFaceCCW,
			CullMode:  types.CullModeBack,
		},
		DepthStencil: &hal.DepthStencilState{
			Format:            types.TextureFormatDepth24Plus,
			DepthWriteEnabled: true,
			DepthCompare:      types.CompareFunctionLess,
		},
		Multisample: types.MultisampleState{Count: 1, Mask: ^uint64(0)},
	})
	if err != nil {
		return nil, fmt.Errorf("passes: shadow: create render pipeline: %w", err)
	}

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         ShadowMapName,
		Size:          hal.Extent3D{Width: shadowMapSize, Height: shadowMapSize, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     types.TextureDimension2D,
		Format:        types.TextureFormatDepth24Plus,
		Usage:         types.TextureUsageRenderAttachment | types.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, fmt.Errorf("passes: shadow: create shadow map texture: %w", err)
	}
	resources.CreateTexture(ShadowMapName, []hal.Texture{tex}, hal.TextureRange{ArrayLayerCount: 1, MipLevelCount: 1, Aspect: types.TextureAspectDepthOnly}, 0)

	return &ShadowPass{device: device, pipeline: pipeline}, nil
}

// Name identifies this pass for logging and debugging.
func (p *ShadowPass) Name() string { return "shadow" }

// Execute clears and re-renders the shadow map's depth buffer. It
// draws no geometry directly; a future scene-submission stage would
// record draw calls between SetPipeline and End, matching how the
// original renderer issues its shadow casters.
func (p *ShadowPass) Execute(enc hal.CommandEncoder, resources *renderer.RendererResources, params graph.PassParams) error {
	view, barrier, err := resources.AccessDepthStencilView(ShadowMapName, renderer.SyncDepthStencilAttachment, renderer.AccessWrite, true, hal.TextureViewDescriptor{
		Aspect: types.TextureAspectDepthOnly,
	}, renderer.Current, p.device)
	if err != nil {
		return err
	}
	if barrier != nil {
		enc.TransitionTextures([]hal.TextureBarrier{*barrier})
	}

	pass := enc.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "shadow-map",
		DepthStencilAttachment: &hal.RenderPassDepthStencilAttachment{
			View:              view,
			DepthLoadOp:       types.LoadOpClear,
			DepthStoreOp:      types.StoreOpStore,
			DepthClearValue:   1.0,
			StencilReadOnly:   true,
			DepthReadOnly:     false,
		},
	})
	pass.SetPipeline(p.pipeline)
	pass.End()

	return nil
}
