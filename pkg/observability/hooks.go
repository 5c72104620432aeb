// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about conversions and about CSR files being loaded.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetConvertHooks(&myConvertHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Convert().OnParseStart(ctx, runID, input)
//	// ... parse ...
//	observability.Convert().OnParseComplete(ctx, runID, input, n, m, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Convert Hooks
// =============================================================================

// ConvertHooks receives events from text-to-CSR conversions.
// runID identifies one conversion across all of its events.
type ConvertHooks interface {
	// Parse events
	OnParseStart(ctx context.Context, runID, input string)
	OnParseComplete(ctx context.Context, runID, input string, vertices, edges uint64, duration time.Duration, err error)

	// Encode events cover building the CSR arrays and writing the file.
	OnEncodeStart(ctx context.Context, runID, output string, vertices, edges uint64)
	OnEncodeComplete(ctx context.Context, runID, output string, sizeBytes uint64, duration time.Duration, err error)
}

// =============================================================================
// Decode Hooks
// =============================================================================

// DecodeHooks receives events when CSR files are loaded.
type DecodeHooks interface {
	// OnDecode records a completed (or failed) load of path.
	OnDecode(ctx context.Context, path string, sizeBytes uint64, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopConvertHooks is a no-op implementation of ConvertHooks.
type NoopConvertHooks struct{}

func (NoopConvertHooks) OnParseStart(context.Context, string, string) {}
func (NoopConvertHooks) OnParseComplete(context.Context, string, string, uint64, uint64, time.Duration, error) {
}
func (NoopConvertHooks) OnEncodeStart(context.Context, string, string, uint64, uint64) {}
func (NoopConvertHooks) OnEncodeComplete(context.Context, string, string, uint64, time.Duration, error) {
}

// NoopDecodeHooks is a no-op implementation of DecodeHooks.
type NoopDecodeHooks struct{}

func (NoopDecodeHooks) OnDecode(context.Context, string, uint64, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	convertHooks ConvertHooks = NoopConvertHooks{}
	decodeHooks  DecodeHooks  = NoopDecodeHooks{}
	hooksMu      sync.RWMutex
)

// SetConvertHooks registers custom conversion hooks.
// This should be called once at application startup before any conversion.
func SetConvertHooks(h ConvertHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		convertHooks = h
	}
}

// SetDecodeHooks registers custom decode hooks.
func SetDecodeHooks(h DecodeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		decodeHooks = h
	}
}

// Convert returns the registered conversion hooks.
func Convert() ConvertHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return convertHooks
}

// Decode returns the registered decode hooks.
func Decode() DecodeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return decodeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	convertHooks = NoopConvertHooks{}
	decodeHooks = NoopDecodeHooks{}
}
