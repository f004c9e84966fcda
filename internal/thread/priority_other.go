// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

//go:build !linux

package thread

// raisePriority is a no-op on platforms without a wired scheduling API.
func raisePriority() {}
