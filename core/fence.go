package core

import (
	"sync/atomic"
	"time"

	"github.com/embergfx/enginecore/hal"
)

// TimelineFence wraps a hal.Fence with a CPU-visible monotonic counter.
// The value only ever increases; AwaitValue blocks until the backend
// signals at least that value.
type TimelineFence struct {
	device hal.Device
	fence  hal.Fence

	signaled atomic.Uint64 // highest value a submission has asked the backend to signal
}

// NewTimelineFence creates a fence on device.
func NewTimelineFence(device hal.Device) (*TimelineFence, error) {
	f, err := device.CreateFence()
	if err != nil {
		return nil, &BackendError{Op: "CreateFence", Cause: err}
	}
	return &TimelineFence{device: device, fence: f}, nil
}

// Handle returns the underlying hal.Fence for use in submissions.
func (f *TimelineFence) Handle() hal.Fence { return f.fence }

// recordSignal is called by Queue.Submit with the value a submission
// asked the backend to signal. It only ever moves the recorded value
// forward, matching the fence-monotonicity invariant.
func (f *TimelineFence) recordSignal(value uint64) {
	for {
		cur := f.signaled.Load()
		if value <= cur {
			return
		}
		if f.signaled.CompareAndSwap(cur, value) {
			return
		}
	}
}

// SignalTarget returns the highest value any submission has asked this
// fence to reach. It is not a guarantee the GPU has completed that work;
// use AwaitValue to block until completion.
func (f *TimelineFence) SignalTarget() uint64 {
	return f.signaled.Load()
}

// AwaitValue blocks until the fence reaches value, or until timeout
// elapses (0 means wait indefinitely). Returns false on timeout.
func (f *TimelineFence) AwaitValue(value uint64, timeout time.Duration) (bool, error) {
	reached, err := f.device.Wait(f.fence, value, timeout)
	if err != nil {
		return false, &BackendError{Op: "Wait", Cause: err}
	}
	return reached, nil
}

// Destroy releases the backend fence.
func (f *TimelineFence) Destroy() {
	f.device.DestroyFence(f.fence)
}
