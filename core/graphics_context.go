package core

import (
	"sync"
	"time"

	"github.com/embergfx/enginecore/hal"
)

// QueueType selects which queue a command buffer targets.
type QueueType uint8

const (
	// QueueTypeGraphics targets the graphics queue.
	QueueTypeGraphics QueueType = iota
	// QueueTypeCompute targets an async compute queue.
	QueueTypeCompute
	// QueueTypeTransfer targets a dedicated transfer queue.
	QueueTypeTransfer
)

// frameSlot holds one recorder's command encoder for one in-flight
// frame. Command buffers handed out this slot are tracked so the
// encoder can be reset (not reallocated) once the slot is reused.
type frameSlot struct {
	encoder  hal.CommandEncoder
	recorded []hal.CommandBuffer
}

// recorderContext is the per-recorder state: prerenderedFrames+1 frame
// slots rotated by current_frame % len(slots).
type recorderContext struct {
	slots []*frameSlot
}

// GraphicsContext coordinates frame pacing and command-buffer recording
// for one device. It owns the DeferredDestroyer and the timeline fence
// that marks frame completion.
type GraphicsContext struct {
	device            hal.Device
	destroyer         *DeferredDestroyer
	fence             *TimelineFence
	prerenderedFrames uint64

	mu           sync.Mutex
	currentFrame uint64
	recorders    map[string]*recorderContext
}

// NewGraphicsContext creates a GraphicsContext over device, sharing
// destroyer and fence ownership with the caller. prerenderedFrames
// bounds how many frames the GPU may lag the CPU (2 is typical).
func NewGraphicsContext(device hal.Device, destroyer *DeferredDestroyer, fence *TimelineFence, prerenderedFrames uint64) *GraphicsContext {
	return &GraphicsContext{
		device:            device,
		destroyer:         destroyer,
		fence:             fence,
		prerenderedFrames: prerenderedFrames,
		recorders:         make(map[string]*recorderContext),
	}
}

// CurrentFrame returns the most recently begun frame counter.
func (g *GraphicsContext) CurrentFrame() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentFrame
}

// BeginFrame advances the frame counter and, once enough frames have
// elapsed to fill the prerendered window, awaits the timeline fence for
// the now-recyclable frame and releases resources retired on or before
// it.
func (g *GraphicsContext) BeginFrame() error {
	g.mu.Lock()
	g.currentFrame++
	frame := g.currentFrame
	g.mu.Unlock()

	g.destroyer.SetCounter(frame)

	if frame > g.prerenderedFrames {
		recycled := frame - g.prerenderedFrames
		if _, err := g.fence.AwaitValue(recycled, 0); err != nil {
			return err
		}
		g.destroyer.DestroyUnused(recycled)
	}
	return nil
}

// GetEncoder returns a command encoder from recorderKey's frame-slot
// pool, ready for recording via BeginEncoding's contract. recorderKey
// identifies the calling recording thread or worker (stable across
// frames); its slot rotates through prerenderedFrames+1 command
// encoders, reset rather than freed on reuse. Call FinishCommandBuffer
// with the same recorderKey once recording is complete.
func (g *GraphicsContext) GetEncoder(recorderKey string, queueType QueueType) (hal.CommandEncoder, error) {
	g.mu.Lock()
	frame := g.currentFrame
	rc, ok := g.recorders[recorderKey]
	if !ok {
		rc = &recorderContext{slots: make([]*frameSlot, g.prerenderedFrames+1)}
		g.recorders[recorderKey] = rc
	}
	g.mu.Unlock()

	idx := frame % (g.prerenderedFrames + 1)
	slot := rc.slots[idx]

	if slot != nil {
		if len(slot.recorded) > 0 {
			slot.encoder.ResetAll(slot.recorded)
			slot.recorded = slot.recorded[:0]
		}
	} else {
		enc, err := g.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: recorderKey})
		if err != nil {
			return nil, &BackendError{Op: "CreateCommandEncoder", Cause: err}
		}
		slot = &frameSlot{encoder: enc}
		rc.slots[idx] = slot
	}

	if err := slot.encoder.BeginEncoding(recorderKey); err != nil {
		return nil, &BackendError{Op: "BeginEncoding", Cause: err}
	}
	return slot.encoder, nil
}

// FinishCommandBuffer ends recording on recorderKey's current encoder
// and returns the resulting command buffer, remembering it so the slot
// can be reset on its next reuse.
func (g *GraphicsContext) FinishCommandBuffer(recorderKey string) (hal.CommandBuffer, error) {
	g.mu.Lock()
	frame := g.currentFrame
	rc, ok := g.recorders[recorderKey]
	g.mu.Unlock()
	if !ok {
		return nil, &BackendError{Op: "FinishCommandBuffer", Cause: ErrFrameSkipped}
	}

	idx := frame % (g.prerenderedFrames + 1)
	slot := rc.slots[idx]
	cb, err := slot.encoder.EndEncoding()
	if err != nil {
		return nil, &BackendError{Op: "EndEncoding", Cause: err}
	}
	slot.recorded = append(slot.recorded, cb)
	return cb, nil
}

// AwaitIdle blocks until the most recently begun frame has completed on
// the GPU, used during shutdown before tearing down the device.
func (g *GraphicsContext) AwaitIdle(timeout time.Duration) error {
	g.mu.Lock()
	frame := g.currentFrame
	g.mu.Unlock()
	if frame == 0 {
		return nil
	}
	_, err := g.fence.AwaitValue(frame, timeout)
	return err
}

// Close awaits the most recently submitted frame and asserts the
// destroyer is fully drained.
func (g *GraphicsContext) Close() error {
	if err := g.AwaitIdle(0); err != nil {
		return err
	}
	return g.destroyer.Close()
}
