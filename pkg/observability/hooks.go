// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about layout mutations and interactive grabs.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    restore := observability.SetLayoutHooks(&myLayoutHooks{})
//	    defer restore()
//	    // ... run application
//	}
//
// Registration returns a restore function so scoped consumers (tests, a
// debug session) can guarantee the previous hooks come back.
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnNodeInserted(nodeID, parentID)
package observability

import (
	"sync"

	"github.com/kweisel/tessera/pkg/geo"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from tree mutations and geometry propagation.
type LayoutHooks interface {
	// OnNodeInserted records a node entering a container.
	OnNodeInserted(nodeID, parentID uint64)

	// OnNodeRemoved records a node leaving the tree.
	OnNodeRemoved(nodeID uint64)

	// OnGeometryApplied records a geometry being pushed to a node.
	OnGeometryApplied(nodeID uint64, g geo.Rect)
}

// =============================================================================
// Grab Hooks
// =============================================================================

// GrabHooks receives events from the interactive grab state machine.
type GrabHooks interface {
	// OnGrabStart records a move or resize grab activating on a node.
	OnGrabStart(kind string, nodeID uint64, pointer geo.Point)

	// OnGrabMotion records a pointer motion consumed by an active grab.
	OnGrabMotion(kind string, nodeID uint64, pointer geo.Point)

	// OnGrabEnd records a grab releasing its capture.
	OnGrabEnd(kind string, nodeID uint64)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnNodeInserted(uint64, uint64)      {}
func (NoopLayoutHooks) OnNodeRemoved(uint64)               {}
func (NoopLayoutHooks) OnGeometryApplied(uint64, geo.Rect) {}

// NoopGrabHooks is a no-op implementation of GrabHooks.
type NoopGrabHooks struct{}

func (NoopGrabHooks) OnGrabStart(string, uint64, geo.Point)  {}
func (NoopGrabHooks) OnGrabMotion(string, uint64, geo.Point) {}
func (NoopGrabHooks) OnGrabEnd(string, uint64)               {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	grabHooks   GrabHooks   = NoopGrabHooks{}
	hooksMu     sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks and returns a function that
// restores the previously registered hooks. Nil leaves the registry
// unchanged.
func SetLayoutHooks(h LayoutHooks) (restore func()) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	prev := layoutHooks
	if h != nil {
		layoutHooks = h
	}
	return func() {
		hooksMu.Lock()
		defer hooksMu.Unlock()
		layoutHooks = prev
	}
}

// SetGrabHooks registers custom grab hooks and returns a function that
// restores the previously registered hooks. Nil leaves the registry
// unchanged.
func SetGrabHooks(h GrabHooks) (restore func()) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	prev := grabHooks
	if h != nil {
		grabHooks = h
	}
	return func() {
		hooksMu.Lock()
		defer hooksMu.Unlock()
		grabHooks = prev
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Grab returns the registered grab hooks.
func Grab() GrabHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return grabHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	grabHooks = NoopGrabHooks{}
}
