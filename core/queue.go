package core

import (
	"sync"

	"github.com/embergfx/enginecore/hal"
)

// Submission is an ordered batch of command buffers submitted together,
// optionally signaling a timeline fence value and releasing a swapchain
// texture for presentation once the GPU has scheduled the batch.
type Submission struct {
	CommandBuffers []hal.CommandBuffer
	SignalFence    *TimelineFence
	SignalValue    uint64
	ReleaseSurface hal.Surface
	ReleaseTexture hal.SurfaceTexture
}

// presentState tracks the release/present handshake for one swapchain:
// the drawable must present exactly once, only after the command buffer
// releasing it has been scheduled.
type presentState struct {
	released bool
	called   bool
	texture  hal.SurfaceTexture
}

// Queue wraps a backend hal.Queue, serializing submissions and
// coordinating deferred present calls against swapchain releases.
type Queue struct {
	backend   hal.Queue
	queueType QueueType

	mu       sync.Mutex
	presents map[hal.Surface]*presentState
}

// NewQueue wraps backend as a queue of the given type.
func NewQueue(backend hal.Queue, queueType QueueType) *Queue {
	return &Queue{backend: backend, queueType: queueType, presents: make(map[hal.Surface]*presentState)}
}

// Type returns the queue's type.
func (q *Queue) Type() QueueType { return q.queueType }

// Submit issues each submission in order under the queue's mutex. A
// submission's command buffers become un-recordable once submitted; the
// caller must not reuse them except via the owning GraphicsContext's
// slot-reset path. On success, SignalFence (if set) records SignalValue
// as its new target, and a pending ReleaseSurface is marked released so
// a concurrent Present call can proceed.
func (q *Queue) Submit(submissions []Submission) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, s := range submissions {
		var fence hal.Fence
		var value uint64
		if s.SignalFence != nil {
			fence = s.SignalFence.Handle()
			value = s.SignalValue
		}

		if err := q.backend.Submit(s.CommandBuffers, fence, value); err != nil {
			return &BackendError{Op: "Submit", Cause: err}
		}

		if s.SignalFence != nil {
			s.SignalFence.recordSignal(s.SignalValue)
		}

		if s.ReleaseSurface != nil {
			ps := q.presents[s.ReleaseSurface]
			if ps == nil {
				ps = &presentState{}
				q.presents[s.ReleaseSurface] = ps
			}
			ps.texture = s.ReleaseTexture
			ps.released = true
			if ps.called {
				if err := q.presentLocked(s.ReleaseSurface, ps); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Present schedules presentation of surface's most recently released
// drawable. If the releasing submission has not yet been scheduled,
// Present is deferred until Submit observes the release.
func (q *Queue) Present(surface hal.Surface) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	ps := q.presents[surface]
	if ps == nil {
		ps = &presentState{}
		q.presents[surface] = ps
	}
	ps.called = true
	if ps.released {
		return q.presentLocked(surface, ps)
	}
	return nil
}

func (q *Queue) presentLocked(surface hal.Surface, ps *presentState) error {
	if err := q.backend.Present(surface, ps.texture); err != nil {
		return &SwapchainError{Kind: SwapchainOther, Cause: err}
	}
	delete(q.presents, surface)
	return nil
}

// WriteBuffer writes data to buffer at offset, outside of a command
// buffer recording.
func (q *Queue) WriteBuffer(buffer hal.Buffer, offset uint64, data []byte) {
	q.backend.WriteBuffer(buffer, offset, data)
}
