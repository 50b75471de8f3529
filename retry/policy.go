// Package retry contains the main [Policy] interface and several
// implementations, governing how a buffer's worker retries a failed
// collaborator call within one update cycle.
package retry

import (
	"context"
)

// Policy defines the retry behaviour of a buffer's worker.
//
// Implementations are not considered thread-safe; each derived instance is
// used by a single worker for a single update cycle.
type Policy interface {
	// Attempt checks if another attempt should be made.
	//
	// This method blocks until an attempt can be made or the context is
	// cancelled. It internally handles waiting between attempts based on the
	// policy configuration. Returns true if an attempt should be made, false
	// if no attempts remain.
	Attempt(ctx context.Context) bool
	// Derive returns a new Policy instance for a single update cycle.
	//
	// The returned policy maintains its own internal state for tracking
	// attempts.
	Derive() Policy
}
