package renderer

import (
	"testing"

	"github.com/embergfx/enginecore/hal"
	"github.com/embergfx/enginecore/hal/noop"
)

// TestAccessViewCachesByInstance covers that AccessView creates a
// texture view once per physical instance and reuses it on subsequent
// accesses of the same instance, rather than re-creating views every
// call.
func TestAccessViewCachesByInstance(t *testing.T) {
	device := &noop.Device{}
	inst := &taggedTexture{tag: "A"}

	r := New()
	r.CreateTexture("GBuffer", []hal.Texture{inst}, hal.TextureRange{}, 0)

	desc := hal.TextureViewDescriptor{Label: "gbuffer-view"}

	v1, barrier1, err := r.AccessSamplingView("GBuffer", SyncFragment, desc, Current, device)
	if err != nil {
		t.Fatalf("first access: %v", err)
	}
	if barrier1 == nil {
		t.Fatal("first access of a fresh entry should emit a barrier")
	}

	v2, barrier2, err := r.AccessSamplingView("GBuffer", SyncFragment, desc, Current, device)
	if err != nil {
		t.Fatalf("second access: %v", err)
	}
	if v1 != v2 {
		t.Fatal("accessing the same physical instance twice should reuse the cached view")
	}
	if barrier2 != nil {
		t.Fatal("repeated read-only access with the same usage should not re-emit a barrier")
	}
}

// TestAccessStorageViewThenDepthStencilViewTransitions covers that
// switching a texture's declared usage between calls (storage image,
// then depth/stencil attachment) always emits a transition barrier,
// even though both accesses target the same physical instance and
// reuse the same cached view.
func TestAccessStorageViewThenDepthStencilViewTransitions(t *testing.T) {
	device := &noop.Device{}
	inst := &taggedTexture{tag: "A"}

	r := New()
	r.CreateTexture("Depth", []hal.Texture{inst}, hal.TextureRange{}, 0)
	desc := hal.TextureViewDescriptor{Label: "depth-view"}

	storageView, _, err := r.AccessStorageView("Depth", SyncCompute, AccessWrite, false, desc, Current, device)
	if err != nil {
		t.Fatalf("storage access: %v", err)
	}

	dsView, barrier, err := r.AccessDepthStencilView("Depth", SyncDepthStencilAttachment, AccessWrite, false, desc, Current, device)
	if err != nil {
		t.Fatalf("depth/stencil access: %v", err)
	}
	if barrier == nil {
		t.Fatal("switching declared usage should emit a transition barrier")
	}
	if storageView != dsView {
		t.Fatal("same physical instance should resolve to the same cached view across usage changes")
	}
}

// TestAccessViewDiscardContentsAlwaysBarriers covers that
// discardContents forces a barrier even when the usage is unchanged
// from the previous access, and that the emitted barrier's old usage
// reads as zero (fresh transition) rather than the prior usage.
func TestAccessViewDiscardContentsAlwaysBarriers(t *testing.T) {
	device := &noop.Device{}
	inst := &taggedTexture{tag: "A"}

	r := New()
	r.CreateTexture("Color", []hal.Texture{inst}, hal.TextureRange{}, 0)
	desc := hal.TextureViewDescriptor{Label: "color-view"}

	_, _, err := r.AccessView(
		"Color", SyncColorAttachment, AccessWrite,
		0, false, desc, Current, device,
	)
	if err != nil {
		t.Fatalf("first access: %v", err)
	}

	_, barrier, err := r.AccessView(
		"Color", SyncColorAttachment, AccessWrite,
		0, true, desc, Current, device,
	)
	if err != nil {
		t.Fatalf("discard access: %v", err)
	}
	if barrier == nil {
		t.Fatal("discardContents=true should always emit a barrier")
	}
	if barrier.Usage.OldUsage != 0 {
		t.Fatalf("discarded barrier old usage = %v, want 0 (fresh transition)", barrier.Usage.OldUsage)
	}
}

// taggedTexture distinguishes physical texture instances by identity,
// mirroring taggedBuffer's role for buffer history tests.
type taggedTexture struct {
	noop.Resource
	tag string
}
