// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

//go:build linux

package thread

import "golang.org/x/sys/unix"

// raisePriority nudges the calling OS thread to a higher scheduling
// priority, reducing the odds of the render thread being preempted
// mid-frame by background work on the same core. Best-effort: a
// non-privileged process may not be allowed to raise priority, and that
// failure is not fatal to rendering, so the error is discarded.
func raisePriority() {
	_ = unix.Setpriority(unix.PRIO_PROCESS, unix.Gettid(), -5)
}
