// Package cache provides the TTL key/value store consulted by
// read-heavy dashboard accessors before they hit the backend.
package cache

import (
	"context"
	"time"
)

// DefaultTTL applies when Set receives a non-positive ttl.
const DefaultTTL = 5 * time.Minute

// Store is a TTL cache. Entries expire lazily: an expired entry is
// removed and treated as absent on the read that discovers it.
// Overlapping writers of the same key get last-write-wins semantics.
type Store interface {
	// Set stores data under key. A non-positive ttl means DefaultTTL.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Get returns the data for key and whether it was present and live.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Invalidate removes key. Removing an absent key is not an error.
	Invalidate(ctx context.Context, key string) error

	// InvalidatePattern compiles expr as a regular expression and
	// removes every matching key, returning the number removed.
	// Safe to call on an empty store.
	InvalidatePattern(ctx context.Context, expr string) (int, error)

	// Clear removes every entry.
	Clear(ctx context.Context) error
}
