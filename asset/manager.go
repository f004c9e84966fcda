package asset

// Manager yields decoded asset data by path, caching as it sees fit.
// The render core depends only on this interface; it never decodes a
// source file format itself.
type Manager interface {
	// Texture decodes (or returns a cached decode of) the texture at path.
	Texture(path string) (TextureData, error)

	// Mesh decodes (or returns a cached decode of) the mesh at path.
	Mesh(path string) (MeshData, error)

	// Material decodes (or returns a cached decode of) the material at path.
	Material(path string) (MaterialData, error)

	// Model decodes (or returns a cached decode of) the model at path,
	// referencing a mesh and its materials by path without loading them.
	Model(path string) (ModelData, error)

	// Shader returns the pre-compiled shader named name.
	Shader(name string) (PackedShader, error)
}

// Loader decodes one source file format into the asset types Manager
// hands to the render core. Concrete formats (BSP, VTF, VMT, MDL/VVD/
// VTX, glTF) each register a Loader; none ship in this package.
type Loader interface {
	// Extensions lists the file extensions this loader claims, without
	// the leading dot (e.g. "vtf", "glb").
	Extensions() []string
}

// TextureLoader decodes texture files.
type TextureLoader interface {
	Loader
	LoadTexture(path string) (TextureData, error)
}

// MeshLoader decodes mesh/model files.
type MeshLoader interface {
	Loader
	LoadMesh(path string) (MeshData, error)
}

// MaterialLoader decodes material description files.
type MaterialLoader interface {
	Loader
	LoadMaterial(path string) (MaterialData, error)
}

// ModelLoader decodes model description files that reference a mesh
// and its materials.
type ModelLoader interface {
	Loader
	LoadModel(path string) (ModelData, error)
}
