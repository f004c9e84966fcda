package hal

import (
	"sync"

	"github.com/embergfx/enginecore/types"
)

var (
	// backendsMu protects the backends map.
	backendsMu sync.RWMutex

	// backends stores registered backend implementations.
	backends = make(map[types.Backend]Backend)
)

// RegisterBackend registers a backend implementation.
// This is typically called from init() functions in backend packages.
// Registering the same backend type multiple times will replace the previous registration.
func RegisterBackend(backend Backend) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[backend.Variant()] = backend
}

// GetBackend returns a registered backend by type.
// Returns (nil, false) if the backend is not registered.
func GetBackend(variant types.Backend) (Backend, bool) {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	b, ok := backends[variant]
	return b, ok
}

// AvailableBackends returns all registered backend types.
// The order is non-deterministic.
func AvailableBackends() []types.Backend {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	result := make([]types.Backend, 0, len(backends))
	for v := range backends {
		result = append(result, v)
	}
	return result
}

// SelectBackendSupporting walks SelectBestBackend's priority order and
// returns the first registered backend whose best adapter reports
// every feature in required. Used by callers that need a concrete
// capability, not just "any backend at all" the way SelectBestBackend
// does: graph/passes' ray traced passes require
// types.FeatureRayTracingAccelerationStructure, which only hal/vulkan
// and hal/metal currently advertise.
//
// Opens and immediately destroys a throwaway instance per candidate
// backend to read adapter features, since AvailableBackends/GetBackend
// expose no feature query of their own.
func SelectBackendSupporting(required types.Features) (Backend, error) {
	for _, variant := range []types.Backend{
		types.BackendVulkan,
		types.BackendMetal,
		types.BackendDX12,
		types.BackendGL,
		types.BackendEmpty,
	} {
		backend, ok := GetBackend(variant)
		if !ok {
			continue
		}

		instance, err := backend.CreateInstance(nil)
		if err != nil {
			continue
		}
		adapters := instance.EnumerateAdapters(nil)
		supported := false
		for _, a := range adapters {
			if a.Features.ContainsAll(required) {
				supported = true
				break
			}
		}
		instance.Destroy()

		if supported {
			return backend, nil
		}
	}

	return nil, ErrBackendNotFound
}
