// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package allbackends imports all HAL backend implementations.
//
// Import this package for side effects to register all available backends:
//
//	import (
//		_ "github.com/embergfx/enginecore/hal/allbackends"
//	)
//
// This will register:
//   - Vulkan backend (Windows, Linux, macOS)
//   - Metal backend (macOS, iOS)
//   - DX12 backend (Windows)
//   - OpenGL ES backend (Windows, Linux)
//   - No-op backend (all platforms, for testing)
//
// After importing, use hal.GetBackend or hal.SelectBestBackend to access backends.
//
// Build constraints control which backends are registered:
//   - linux (but not android): Vulkan and OpenGL ES
//   - darwin: Metal and Vulkan
//   - windows: Vulkan, DX12 and OpenGL ES
//   - every platform: no-op
//
// Example usage:
//
//	import (
//		_ "github.com/embergfx/enginecore/hal/allbackends"
//		"github.com/embergfx/enginecore/hal"
//	)
//
//	func main() {
//		backend, err := hal.SelectBestBackend()
//		if err != nil {
//			log.Fatal(err)
//		}
//		instance, err := backend.CreateInstance(nil)
//		if err != nil {
//			log.Fatal(err)
//		}
//		for _, a := range instance.EnumerateAdapters(nil) {
//			fmt.Println(a.Info.Name)
//		}
//	}
package allbackends
