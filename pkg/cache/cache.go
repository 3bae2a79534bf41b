// Package cache stores rendered diagram artifacts keyed by the content
// of their definition. Rendering a diagram is deterministic, so a
// cached artifact is valid until its definition or render options
// change, which the key captures.
package cache

import (
	"context"
	"time"
)

// Default time-to-live for cached artifacts.
const TTLArtifact = 30 * 24 * time.Hour

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the cached data and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under the key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes the key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// ArtifactKeyOpts are the render options that affect artifact bytes
// and therefore belong in the cache key.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Refinement int     `json:"refinement"`
	Scale      float64 `json:"scale"`
}

// Keyer builds cache keys. Splitting this from Cache lets callers
// share one store across key schemes.
type Keyer interface {
	// ArtifactKey keys a rendered artifact by the hash of the diagram
	// definition document and the render options.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the options into the key so any change to them
// misses cleanly.
type DefaultKeyer struct{}

func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", docHash, opts)
}
