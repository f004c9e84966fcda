package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for the core package.
var (
	// ErrOutOfMemory is returned by any allocation path when no memory
	// type could satisfy the request. Callers retry at lower strictness
	// or propagate.
	ErrOutOfMemory = errors.New("core: out of memory")

	// ErrDeviceLost is returned when the GPU device is unrecoverably
	// lost (driver crash, GPU reset).
	ErrDeviceLost = errors.New("core: device lost")

	// ErrFrameSkipped is returned by the frame loop when a frame could
	// not acquire a backbuffer and was dropped entirely.
	ErrFrameSkipped = errors.New("core: frame skipped")

	// ErrDestroyerNotDrained is raised by DeferredDestroyer.Close when
	// any typed queue still holds resources; it indicates the device
	// was about to be torn down with live resources.
	ErrDestroyerNotDrained = errors.New("core: deferred destroyer not drained")
)

// SwapchainErrorKind classifies a swapchain acquire/present failure.
type SwapchainErrorKind int

const (
	// SwapchainOutOfDate means the swapchain no longer matches the
	// surface and must be recreated before further use.
	SwapchainOutOfDate SwapchainErrorKind = iota
	// SwapchainSuboptimal means presentation still works but is no
	// longer optimal; recreation is recommended, not required.
	SwapchainSuboptimal
	// SwapchainSurfaceLost means the underlying platform surface is
	// gone; the caller must re-query it before recreating.
	SwapchainSurfaceLost
	// SwapchainOther covers backend-specific failures with no recovery
	// contract beyond propagation.
	SwapchainOther
)

func (k SwapchainErrorKind) String() string {
	switch k {
	case SwapchainOutOfDate:
		return "out of date"
	case SwapchainSuboptimal:
		return "suboptimal"
	case SwapchainSurfaceLost:
		return "surface lost"
	default:
		return "other"
	}
}

// SwapchainError reports a failure to acquire or present a backbuffer.
type SwapchainError struct {
	Kind  SwapchainErrorKind
	Cause error
}

func (e *SwapchainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("swapchain: %s: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("swapchain: %s", e.Kind)
}

func (e *SwapchainError) Unwrap() error { return e.Cause }

// IsSwapchainError reports whether err is a *SwapchainError, optionally
// of a specific kind (pass -1 to match any kind).
func IsSwapchainError(err error, kind SwapchainErrorKind) bool {
	var se *SwapchainError
	if !errors.As(err, &se) {
		return false
	}
	return kind == -1 || se.Kind == kind
}

// ResourceLookupErrorKind classifies a named render-graph resource
// access failure. These are always programming errors.
type ResourceLookupErrorKind int

const (
	// ResourceNotFound means no resource was registered under the name.
	ResourceNotFound ResourceLookupErrorKind = iota
	// ResourceWrongKind means the name resolved to a resource of a
	// different kind than requested (e.g. a buffer accessed as a texture).
	ResourceWrongKind
	// ResourceNoHistory means a Past access was requested on a resource
	// registered with history depth 0.
	ResourceNoHistory
)

func (k ResourceLookupErrorKind) String() string {
	switch k {
	case ResourceNotFound:
		return "not found"
	case ResourceWrongKind:
		return "wrong kind"
	case ResourceNoHistory:
		return "no history"
	default:
		return "unknown"
	}
}

// ResourceLookupError reports a named render-graph resource-access
// failure, per ResourceLookupErrorKind.
type ResourceLookupError struct {
	Name string
	Kind ResourceLookupErrorKind
}

func (e *ResourceLookupError) Error() string {
	return fmt.Sprintf("resource %q: %s", e.Name, e.Kind)
}

// IsResourceLookupError reports whether err is a *ResourceLookupError.
func IsResourceLookupError(err error) bool {
	var rle *ResourceLookupError
	return errors.As(err, &rle)
}

// BackendError wraps an unrecoverable backend failure (typically device
// loss) surfaced from a hal call. The frame loop terminates on this.
type BackendError struct {
	Op    string
	Cause error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend: %s: %v", e.Op, e.Cause)
}

func (e *BackendError) Unwrap() error { return e.Cause }

// IsBackendError reports whether err is a *BackendError.
func IsBackendError(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}

// CreateBufferErrorKind classifies a buffer-creation validation failure.
type CreateBufferErrorKind int

const (
	// CreateBufferZeroSize indicates a zero-size request.
	CreateBufferZeroSize CreateBufferErrorKind = iota
	// CreateBufferEmptyUsage indicates no usage flags were specified.
	CreateBufferEmptyUsage
	// CreateBufferHAL indicates the HAL backend rejected buffer creation.
	CreateBufferHAL
)

// CreateBufferError reports a failure to create a Buffer.
type CreateBufferError struct {
	Kind  CreateBufferErrorKind
	Label string
	Cause error
}

func (e *CreateBufferError) Error() string {
	label := e.Label
	if label == "" {
		label = "<unnamed>"
	}
	switch e.Kind {
	case CreateBufferZeroSize:
		return fmt.Sprintf("buffer %q: size must be greater than 0", label)
	case CreateBufferEmptyUsage:
		return fmt.Sprintf("buffer %q: usage must not be empty", label)
	case CreateBufferHAL:
		return fmt.Sprintf("buffer %q: hal error: %v", label, e.Cause)
	default:
		return fmt.Sprintf("buffer %q: unknown error", label)
	}
}

func (e *CreateBufferError) Unwrap() error { return e.Cause }

// IsCreateBufferError reports whether err is a *CreateBufferError.
func IsCreateBufferError(err error) bool {
	var cbe *CreateBufferError
	return errors.As(err, &cbe)
}
