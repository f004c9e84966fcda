package asset

import "github.com/embergfx/enginecore/types"

// Vec3 is a 3-component float vector, used only for bounding box
// extents here; the render core has no other use for a math package.
type Vec3 struct {
	X, Y, Z float32
}

// BoundingBox is an axis-aligned bounding box in model space.
type BoundingBox struct {
	Min Vec3
	Max Vec3
}

// MipLevel holds the bytes for one mip level of one array layer of a
// texture, already decoded to a format the HAL's texture upload path
// accepts.
type MipLevel struct {
	Width  uint32
	Height uint32
	Bytes  []byte
}

// TextureInfo describes a texture's dimensions and pixel format,
// independent of the bytes backing any particular mip/layer.
type TextureInfo struct {
	Width         uint32
	Height        uint32
	DepthOrLayers uint32
	MipCount      uint32
	Format        types.TextureFormat
}

// TextureData is a fully decoded texture: its format/dimension info
// plus per-mip, per-layer byte data. Layers[i][m] is layer i, mip m.
type TextureData struct {
	Info   TextureInfo
	Layers [][]MipLevel
}

// MeshPart names a contiguous index (or vertex, if Indices is absent)
// range within a MeshData drawn as one primitive batch.
type MeshPart struct {
	Start uint32
	Count uint32
}

// MeshData is a decoded mesh: raw vertex bytes in the source's native
// layout, optional index bytes, and the part list materials are bound
// per-part against.
type MeshData struct {
	Vertices    []byte
	Indices     []byte // nil if the mesh is unindexed
	Parts       []MeshPart
	VertexCount uint32
	Bounds      BoundingBox
}

// MaterialPropertyKind discriminates the value stored in a
// MaterialProperty.
type MaterialPropertyKind uint8

const (
	MaterialPropertyTexturePath MaterialPropertyKind = iota
	MaterialPropertyFloat
	MaterialPropertyVec4
)

// MaterialProperty is one named shader parameter a MaterialData binds,
// tagged by kind since only one of its fields is meaningful at a time.
type MaterialProperty struct {
	Kind        MaterialPropertyKind
	TexturePath string
	Float       float32
	Vec4        [4]float32
}

// MaterialData is a decoded material: the shader it selects plus the
// named properties that parameterize it.
type MaterialData struct {
	ShaderName string
	Properties map[string]MaterialProperty
}

// ModelData associates a mesh with the materials bound to its parts,
// by path rather than by loaded handle so the asset manager controls
// load order and caching.
type ModelData struct {
	MeshPath      string
	MaterialPaths []string
}

// BindingKind classifies one shader binding slot's resource kind, as
// reflected from compiled bytecode.
type BindingKind uint8

const (
	BindingSampledImage BindingKind = iota
	BindingStorageImage
	BindingUniformBuffer
	BindingStorageBuffer
	BindingSampler
	BindingAccelerationStructure
)

// BindingInfo is the reflected metadata for one binding slot.
type BindingInfo struct {
	Set       uint32
	Slot      uint32
	Kind      BindingKind
	ArraySize uint32
	Stages    types.ShaderStages
}

// PackedShader is a pre-compiled shader blob plus its binding
// reflection, consumed directly by pipeline creation and never
// interpreted further by the render core.
type PackedShader struct {
	EntryPoint string
	Stage      types.ShaderStage
	Bytecode   []byte
	Bindings   []BindingInfo
}
