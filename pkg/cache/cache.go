// Package cache provides caching of simplification results.
//
// A run is fully determined by its input network and options, so the
// pipeline stores the simplified network and report under a key derived
// from both. Re-running the same input with the same options skips the
// simplification entirely. Rendered SVG and PNG images are cached the same
// way, one entry per format.
//
// # Implementations
//
//   - [FileCache]: JSON entries under a directory, used by the CLI
//   - [NullCache]: stores nothing, used with --no-cache and in tests
//
// # Keys
//
// A [Keyer] builds keys from content hashes (see [Hash]) and options.
// [ScopedKeyer] prefixes another keyer to separate namespaces.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key and whether it was found. A missing or
	// expired entry is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// SimplifyKey identifies the result of simplifying a network.
	SimplifyKey(networkHash string, opts SimplifyKeyOpts) string

	// RenderKey identifies a rendered image of a network.
	RenderKey(networkHash string, opts RenderKeyOpts) string
}

// SimplifyKeyOpts are the options that change a simplification result.
type SimplifyKeyOpts struct {
	NodeFilter      string `json:"node_filter"`
	StopFilter      string `json:"stop_filter"`
	ConnectorFilter string `json:"connector_filter"`
	Rules           string `json:"rules"`
}

// RenderKeyOpts are the options that change a rendered image.
type RenderKeyOpts struct {
	Format     string  `json:"format"`
	Geographic bool    `json:"geographic"`
	Scale      float64 `json:"scale"`
	Detailed   bool    `json:"detailed"`
	Highlight  []int   `json:"highlight,omitempty"` // sorted node numbers
}

// Entry kinds. A key names its kind in the segment before the digest.
const (
	KindSimplify = "simplify"
	KindRender   = "render"
)

// KindOf returns the kind segment of a key built by a [Keyer], or "" for
// keys without one.
func KindOf(key string) string {
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}

// DefaultKeyer builds "kind:digest" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SimplifyKey digests the network hash together with the options.
func (DefaultKeyer) SimplifyKey(networkHash string, opts SimplifyKeyOpts) string {
	return digest(KindSimplify, networkHash, opts)
}

// RenderKey digests the network hash together with the options.
func (DefaultKeyer) RenderKey(networkHash string, opts RenderKeyOpts) string {
	return digest(KindRender, networkHash, opts)
}

// Hash returns the hex SHA-256 of data. The pipeline hashes the canonical
// JSON encoding of a network, so equal networks share a hash.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func digest(kind, networkHash string, opts any) string {
	h := sha256.New()
	h.Write([]byte(networkHash))
	h.Write([]byte{0})
	_ = json.NewEncoder(h).Encode(opts)
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}

// NullCache stores nothing. The CLI uses it for --no-cache.
type NullCache struct{}

// NewNullCache returns a cache that always misses.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
