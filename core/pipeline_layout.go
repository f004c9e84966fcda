package core

import (
	"fmt"
	"sync"

	"github.com/embergfx/enginecore/hal"
	"github.com/embergfx/enginecore/types"
)

// MaxBindGroupLayouts and MaxPushConstantRanges bound a pipeline layout
// key, matching the descriptor sets a single pipeline may realistically
// bind.
const (
	MaxBindGroupLayouts   = 4
	MaxPushConstantRanges = 3
)

type pushConstantRangeKey struct {
	stages types.ShaderStages
	start  uint32
	end    uint32
}

// pipelineLayoutKey is a fixed-size, comparable structural key so two
// equivalent PipelineLayoutDescriptors hash and compare equal without
// any slice-aware equality helper. bindGroupLayouts holds the same
// hal.BindGroupLayout resource references the descriptor carries: this
// core owns resources directly rather than through an ID table, so
// identity comparison on the interface value itself is the structural
// key.
type pipelineLayoutKey struct {
	bindGroupLayouts [MaxBindGroupLayouts]hal.BindGroupLayout
	pushConstants    [MaxPushConstantRanges]pushConstantRangeKey
}

func newPipelineLayoutKey(desc *hal.PipelineLayoutDescriptor) (pipelineLayoutKey, error) {
	var key pipelineLayoutKey
	if len(desc.BindGroupLayouts) > MaxBindGroupLayouts {
		return key, fmt.Errorf("core: pipeline layout has %d bind group layouts, max %d", len(desc.BindGroupLayouts), MaxBindGroupLayouts)
	}
	if len(desc.PushConstantRanges) > MaxPushConstantRanges {
		return key, fmt.Errorf("core: pipeline layout has %d push constant ranges, max %d", len(desc.PushConstantRanges), MaxPushConstantRanges)
	}
	copy(key.bindGroupLayouts[:], desc.BindGroupLayouts)
	for i, r := range desc.PushConstantRanges {
		key.pushConstants[i] = pushConstantRangeKey{stages: r.Stages, start: r.Range.Start, end: r.Range.End}
	}
	return key, nil
}

// PipelineLayoutCache deduplicates pipeline layouts by structural
// equality, so two passes requesting the same bind-group-layout and
// push-constant-range combination share one backend object.
type PipelineLayoutCache struct {
	device hal.Device

	mu      sync.Mutex
	layouts map[pipelineLayoutKey]hal.PipelineLayout
}

// NewPipelineLayoutCache creates an empty cache bound to device.
func NewPipelineLayoutCache(device hal.Device) *PipelineLayoutCache {
	return &PipelineLayoutCache{device: device, layouts: make(map[pipelineLayoutKey]hal.PipelineLayout)}
}

// Get returns the cached layout for desc, creating and caching one on
// first request.
func (c *PipelineLayoutCache) Get(desc *hal.PipelineLayoutDescriptor) (hal.PipelineLayout, error) {
	key, err := newPipelineLayoutKey(desc)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if layout, ok := c.layouts[key]; ok {
		return layout, nil
	}

	layout, err := c.device.CreatePipelineLayout(desc)
	if err != nil {
		return nil, &BackendError{Op: "CreatePipelineLayout", Cause: err}
	}
	c.layouts[key] = layout
	return layout, nil
}

// Destroy destroys every cached pipeline layout.
func (c *PipelineLayoutCache) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, layout := range c.layouts {
		layout.Destroy()
		delete(c.layouts, key)
	}
}
