package graph

import "strings"

// ResourceKind classifies a RenderGraphResource declared by a pass
// constructor.
type ResourceKind uint8

const (
	// ResourceTexture is a named texture resource.
	ResourceTexture ResourceKind = iota
	// ResourceBuffer is a named buffer resource.
	ResourceBuffer
	// ResourceData is a plain CPU-side value passed between passes,
	// not backed by a GPU resource.
	ResourceData
)

// RenderGraphResource names a resource a pass constructor declares,
// typed by kind, with an optional history flag for ping-pong rotation.
type RenderGraphResource struct {
	Name       string
	Kind       ResourceKind
	HasHistory bool
}

// NameInterner deduplicates resource name strings across pass
// construction, so passes that repeatedly reference the same logical
// resource (e.g. "SceneColor") share one string allocation rather than
// re-allocating it per access call.
type NameInterner struct {
	names map[string]string
}

// NewNameInterner creates an empty interner.
func NewNameInterner() *NameInterner {
	return &NameInterner{names: make(map[string]string)}
}

// Intern returns the canonical string for parts joined together,
// returning a previously interned value if one exists.
func (n *NameInterner) Intern(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p)
	}
	joined := b.String()
	if existing, ok := n.names[joined]; ok {
		return existing
	}
	n.names[joined] = joined
	return joined
}
