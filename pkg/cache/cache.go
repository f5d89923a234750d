// Package cache stores rendered chart artifacts.
//
// A [Cache] maps string keys to byte slices with an optional TTL. Keys are
// produced by a [Keyer] from content hashes of the input data and the render
// options, so identical requests share an entry regardless of where the data
// came from.
//
// Backends:
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: shared cache for multi-instance servers
//   - [NullCache]: caching disabled
//
// [Compressed] wraps any backend and stores entries lz4-compressed.
package cache

import (
	"context"
	"time"
)

// Default lifetimes for cached entries.
const (
	TTLArtifact  = 24 * time.Hour
	TTLHierarchy = 7 * 24 * time.Hour
)

// Cache is a byte store keyed by string.
type Cache interface {
	// Get returns the stored value. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// ArtifactKeyOpts holds the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Kind    string    `json:"kind"`
	Format  string    `json:"format"`
	Color   string    `json:"color,omitempty"`
	Seed    uint64    `json:"seed,omitempty"`
	Stops   []float64 `json:"stops,omitempty"`
	Palette []string  `json:"palette,omitempty"`
	Scale   float64   `json:"scale,omitempty"`

	// Styles is a hash of the gate styles a violin chart was drawn with.
	Styles string `json:"styles,omitempty"`

	// Endpoints holds the interaction URLs embedded in the SVG.
	Endpoints []string `json:"endpoints,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey keys a rendered chart by input hash and options.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string

	// HierarchyKey keys a gate hierarchy diagram.
	HierarchyKey(schemaHash, format string) string
}

// DefaultKeyer produces "artifact:<sha256>" and "hierarchy:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", inputHash, opts)
}

func (DefaultKeyer) HierarchyKey(schemaHash, format string) string {
	return hashKey("hierarchy", schemaHash, format)
}
