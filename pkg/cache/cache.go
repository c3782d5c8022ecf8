// Package cache provides caching for pipeline stages.
//
// The cache stores byte blobs keyed by content hashes: parsed graphs,
// computed layouts, and rendered artifacts. Implementations:
//   - FileCache: file-based storage for CLI usage
//   - RedisCache: Redis-backed storage for the preview service
//   - NullCache: no-op cache for disabling caching
//
// Keys are generated by a Keyer so CLI and preview service produce
// identical keys for identical inputs and share cached results.
package cache

import (
	"context"
	"time"
)

// Default TTLs per cached value kind.
const (
	// TTLSource is how long fetched diagram sources stay cached.
	TTLSource = time.Hour

	// TTLGraph is how long parsed graphs stay cached.
	TTLGraph = 24 * time.Hour

	// TTLLayout is how long computed layouts stay cached. Layouts are
	// deterministic in their inputs, so a long TTL is safe.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact is how long rendered artifacts stay cached.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the interface for cache backends.
// All implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. Returns (nil, false, nil) on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A TTL of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// GraphKeyOpts are the parse options that affect the resulting graph.
type GraphKeyOpts struct {
	// Direction is the direction override applied after parsing, if any.
	Direction string
}

// LayoutKeyOpts are the layout options that affect node placement.
// Every style knob participates so a changed knob never serves a stale
// layout.
type LayoutKeyOpts struct {
	Direction    string
	Ordering     string
	Passes       int
	Compact      bool
	MinWidth     float64
	MinHeight    float64
	CharWidth    float64
	CharHeight   float64
	NodePaddingX float64
	NodePaddingY float64
	NodeGap      float64
	LayerGap     float64
}

// ArtifactKeyOpts are the render options that affect output bytes.
type ArtifactKeyOpts struct {
	Format     string
	Scale      float64
	Padding    float64
	FontFamily string
	FontSize   float64
	GroupBoxes bool
	MaxWidth   int
	MaxHeight  int
}

// Keyer generates cache keys for the pipeline stages.
// Using an interface allows key scoping (see ScopedKeyer) without
// touching the stage logic.
type Keyer interface {
	// SourceKey generates a key for fetched diagram sources.
	SourceKey(namespace, key string) string

	// GraphKey generates a key for parsed graphs.
	GraphKey(sourceHash string, opts GraphKeyOpts) string

	// LayoutKey generates a key for computed layouts.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for rendered artifacts.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key generation strategy.
// Keys are deterministic hashes of the inputs, so CLI and preview
// service share cache entries for identical requests.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// SourceKey generates a key for source caching.
// Format: "source:{namespace}:{key}"
func (k *DefaultKeyer) SourceKey(namespace, key string) string {
	return "source:" + namespace + ":" + key
}

// GraphKey generates a key for parsed graph caching.
func (k *DefaultKeyer) GraphKey(sourceHash string, opts GraphKeyOpts) string {
	return hashKey("graph", sourceHash, opts)
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
