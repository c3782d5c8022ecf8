package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowdraw/pkg/cache"
	"github.com/matzehuels/flowdraw/pkg/flow"
	"github.com/matzehuels/flowdraw/pkg/graph"
	"github.com/matzehuels/flowdraw/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and preview service use this to avoid duplicating caching
// logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Parse
	parseStart := time.Now()
	g, parseHit, err := r.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Graph = g
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.CacheInfo.ParseHit = parseHit

	// Compute graph hash for cache keys and preview responses
	if graphData, err := graph.MarshalGraph(g); err == nil {
		result.GraphHash = cache.Hash(graphData)
	}

	r.Logger.Info("parsed diagram",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.GenerateLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"layers", layerCount(l),
		"size", fmt.Sprintf("%.0fx%.0f", l.Width, l.Height),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, g, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ParseWithCacheInfo parses the source with caching and returns cache hit info.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, opts Options) (*flow.Graph, bool, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	sourceName := opts.Source
	if opts.Text != "" {
		sourceName = "inline"
	}
	observability.Pipeline().OnParseStart(ctx, sourceName)
	start := time.Now()

	// Read the source first; its content hash is the cache key. Local
	// reads are cheap and URL fetches have their own response cache, so
	// re-reading on a graph cache hit costs little.
	text, name, err := readSource(ctx, opts)
	if err != nil {
		observability.Pipeline().OnParseComplete(ctx, sourceName, 0, time.Since(start), err)
		return nil, false, err
	}
	cacheKey := r.Keyer.GraphKey(cache.Hash([]byte(text)), opts.GraphKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "graph")
			g, err := graph.ReadGraph(bytes.NewReader(data))
			if err == nil {
				applyDirection(g, opts)
				observability.Pipeline().OnParseComplete(ctx, sourceName, g.NodeCount(), time.Since(start), nil)
				return g, true, nil // Cache hit
			}
		} else {
			observability.Cache().OnCacheMiss(ctx, "graph")
		}
	}

	// Parse
	g, err := parseText(text, name, opts)
	if err != nil {
		observability.Pipeline().OnParseComplete(ctx, sourceName, 0, time.Since(start), err)
		return nil, false, err
	}

	// Cache the result
	if data, err := graph.MarshalGraph(g); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLGraph); err == nil {
			observability.Cache().OnCacheSet(ctx, "graph", len(data))
		}
	}

	observability.Pipeline().OnParseComplete(ctx, sourceName, g.NodeCount(), time.Since(start), nil)
	return g, false, nil // Cache miss
}

// Parse is a convenience wrapper that calls ParseWithCacheInfo and discards the cache hit info.
func (r *Runner) Parse(ctx context.Context, opts Options) (*flow.Graph, error) {
	g, _, err := r.ParseWithCacheInfo(ctx, opts)
	return g, err
}

// GenerateLayoutWithCacheInfo computes a layout with caching and returns cache hit info.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, g *flow.Graph, opts Options) (graph.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, false, err
	}
	r.applyLogger(&opts)

	observability.Pipeline().OnLayoutStart(ctx, g.Direction.String(), g.NodeCount())
	start := time.Now()

	// Compute cache key
	graphData, _ := graph.MarshalGraph(g)
	graphHash := cache.Hash(graphData)
	cacheKey := r.Keyer.LayoutKey(graphHash, opts.LayoutKeyOpts())

	// Try cache first
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "layout")
		cached, err := graph.UnmarshalLayout(data)
		if err == nil {
			observability.Pipeline().OnLayoutComplete(ctx, g.Direction.String(), time.Since(start), nil)
			return cached, true, nil // Cache hit
		}
		// If deserialization fails, fall through to recompute
	} else {
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	// Generate layout
	l, err := GenerateLayout(g, opts)
	if err != nil {
		observability.Pipeline().OnLayoutComplete(ctx, g.Direction.String(), time.Since(start), err)
		return graph.Layout{}, false, err
	}

	// Cache the result
	if data, err := graph.MarshalLayout(l); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	observability.Pipeline().OnLayoutComplete(ctx, g.Direction.String(), time.Since(start), nil)
	return l, false, nil // Cache miss
}

// GenerateLayout is a convenience wrapper that calls GenerateLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) GenerateLayout(ctx context.Context, g *flow.Graph, opts Options) (graph.Layout, error) {
	l, _, err := r.GenerateLayoutWithCacheInfo(ctx, g, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, g *flow.Graph, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	// Compute cache key from layout data
	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		} else {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
		return artifacts, true, nil // All artifacts from cache
	}

	// Render all formats
	rendered, err := Render(ctx, l, g, opts)
	if err != nil {
		observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l graph.Layout, g *flow.Graph, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, g, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// layerCount reports how many layers a layout occupies.
func layerCount(l graph.Layout) int {
	maxLayer := -1
	for _, n := range l.Nodes {
		maxLayer = max(maxLayer, n.Layer)
	}
	return maxLayer + 1
}
