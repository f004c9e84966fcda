package gles

import "github.com/embergfx/enginecore/hal"

func init() {
	hal.RegisterBackend(API{})
}
