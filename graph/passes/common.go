// Package passes implements the render graph's concrete pass list: the
// clustered-forward lighting pipeline (clustering, light binning),
// post-processing (sharpen, compositing), shadowing (shadow maps, ray
// traced shadows) and path tracing. Each pass is constructed once
// against a device and asset manager, then driven every frame by
// graph.FrameLoop through the graph.RenderPass interface.
package passes

import (
	"encoding/binary"
	"fmt"

	"github.com/embergfx/enginecore/asset"
	"github.com/embergfx/enginecore/core"
	"github.com/embergfx/enginecore/hal"
	"github.com/embergfx/enginecore/types"
)

// spirvWords reinterprets a packed shader's raw bytecode as the
// little-endian uint32 words hal.ShaderSource.SPIRV expects.
func spirvWords(bytecode []byte) []uint32 {
	words := make([]uint32, len(bytecode)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(bytecode[i*4:])
	}
	return words
}

// computeSetup bundles the handles a compute pass retains between
// construction and Execute.
type computeSetup struct {
	BindGroupLayout hal.BindGroupLayout
	Pipeline        hal.ComputePipeline
}

// newComputeSetup loads shaderName from assets and builds a single-
// bind-group compute pipeline over entries, deduplicating the pipeline
// layout through layouts.
func newComputeSetup(device hal.Device, layouts *core.PipelineLayoutCache, assets asset.Manager, label, shaderName string, entries []types.BindGroupLayoutEntry) (*computeSetup, error) {
	logger := hal.PassLogger(label)

	shader, err := assets.Shader(shaderName)
	if err != nil {
		return nil, fmt.Errorf("passes: %s: load shader %q: %w", label, shaderName, err)
	}

	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  shaderName,
		Source: hal.ShaderSource{SPIRV: spirvWords(shader.Bytecode)},
	})
	if err != nil {
		return nil, fmt.Errorf("passes: %s: create shader module: %w", label, err)
	}

	bgLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   label,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("passes: %s: create bind group layout: %w", label, err)
	}

	layout, err := layouts.Get(&hal.PipelineLayoutDescriptor{
		Label:            label,
		BindGroupLayouts: []hal.BindGroupLayout{bgLayout},
	})
	if err != nil {
		return nil, fmt.Errorf("passes: %s: pipeline layout: %w", label, err)
	}

	pipeline, err := device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  label,
		Layout: layout,
		Compute: hal.ComputeState{
			Module:     module,
			EntryPoint: shader.EntryPoint,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("passes: %s: create compute pipeline: %w", label, err)
	}

	logger.Debug("compute pass constructed", "shader", shaderName, "entry_point", shader.EntryPoint, "bindings", len(entries))

	return &computeSetup{BindGroupLayout: bgLayout, Pipeline: pipeline}, nil
}

// storageBufferEntry builds a single read-write storage buffer binding
// layout entry, visible to compute shaders only.
func storageBufferEntry(binding uint32) types.BindGroupLayoutEntry {
	return types.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: types.ShaderStageCompute,
		Buffer:     &types.BufferBindingLayout{Type: types.BufferBindingTypeStorage},
	}
}

// bufferBindGroupEntry binds a storage/uniform buffer at binding. The
// noop backend resolves bindings structurally rather than by handle
// value, so Buffer is always the zero handle here, matching the
// convention already used by hal/noop's own bind group tests.
func bufferBindGroupEntry(binding uint32, size uint64) types.BindGroupEntry {
	return types.BindGroupEntry{
		Binding:  binding,
		Resource: types.BufferBinding{Buffer: 0, Offset: 0, Size: size},
	}
}

// dispatchGroups2D rounds width/height up to whole groupSize x groupSize
// workgroups, matching the 8-wide compute groups the original passes
// dispatch in.
func dispatchGroups2D(width, height, groupSize uint32) (x, y uint32) {
	return (width + groupSize - 1) / groupSize, (height + groupSize - 1) / groupSize
}
