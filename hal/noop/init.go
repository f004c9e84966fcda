package noop

import "github.com/embergfx/enginecore/hal"

// init registers the noop backend with the HAL registry.
func init() {
	hal.RegisterBackend(API{})
}
