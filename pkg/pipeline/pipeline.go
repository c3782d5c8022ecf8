// Package pipeline provides the core rendering pipeline for flowdraw.
//
// This package implements the complete parse → layout → render pipeline
// shared by the CLI and the preview service. Centralizing it keeps the
// two entry points behaving identically and caching through the same keys.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Read flowchart source (file, stdin, URL) into a graph
//  2. Layout: Compute deterministic node positions and edge routes
//  3. Render: Generate output in various formats (ASCII, SVG, PNG, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:  "flow.mmd",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Parse only
//	g, err := runner.Parse(ctx, parseOpts)
//
//	// Layout with an existing graph
//	l, err := runner.GenerateLayout(ctx, g, layoutOpts)
//
//	// Render with an existing layout
//	artifacts, err := runner.Render(ctx, l, g, renderOpts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowdraw/pkg/cache"
	"github.com/matzehuels/flowdraw/pkg/flow"
	"github.com/matzehuels/flowdraw/pkg/graph"
	"github.com/matzehuels/flowdraw/pkg/layout"
	"github.com/matzehuels/flowdraw/pkg/source"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Preview Service
// =============================================================================

const (
	// DefaultScale is the default SVG unit-to-pixel scale.
	DefaultScale = 1.0
)

// Format constants for output formats.
const (
	FormatASCII = "ascii"
	FormatSVG   = "svg"
	FormatPNG   = "png"
	FormatDOT   = "dot"
	FormatJSON  = "json"
)

// DefaultFormat is the output format used when none is requested.
const DefaultFormat = FormatASCII

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatASCII: true,
	FormatSVG:   true,
	FormatPNG:   true,
	FormatDOT:   true,
	FormatJSON:  true,
}

// ValidOrderings is the set of supported crossing-reduction strategies.
var ValidOrderings = map[string]bool{
	layout.OrderingBarycenter: true,
	layout.OrderingExhaustive: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the rendering pipeline.
// This struct supports JSON serialization for preview service requests.
type Options struct {
	// Parse options. Source names a file, "-" for stdin, or an http(s)
	// URL. Text carries inline source and takes precedence over Source.
	Source  string `json:"source,omitempty"`
	Text    string `json:"text,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`

	// Layout options. Direction, when set, overrides the direction
	// declared in the source ("TB", "BT", "LR", "RL").
	Direction string       `json:"direction,omitempty"`
	Style     layout.Style `json:"style"`

	// Render options
	Formats        []string `json:"formats,omitempty"`
	Scale          float64  `json:"scale,omitempty"`
	Padding        float64  `json:"padding,omitempty"`
	FontFamily     string   `json:"font_family,omitempty"`
	FontSize       float64  `json:"font_size,omitempty"`
	HideGroupBoxes bool     `json:"hide_group_boxes,omitempty"`

	// MaxWidth and MaxHeight bound the ASCII render grid.
	MaxWidth  int `json:"max_width,omitempty"`
	MaxHeight int `json:"max_height,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger    `json:"-"`
	Reader *source.Reader `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the parsed flowchart graph.
	Graph *flow.Graph

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Layout contains the computed layout (positions, routes, extent).
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ParseHit  bool // Whether the parsed graph came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: ascii, svg, png, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateDirection checks that a direction keyword is valid.
// An empty direction is valid and means "use the source's direction".
func ValidateDirection(direction string) error {
	if direction == "" {
		return nil
	}
	if _, ok := flow.ParseDirection(direction); !ok {
		return fmt.Errorf("invalid direction: %q (must be one of: TB, BT, LR, RL)", direction)
	}
	return nil
}

// ValidateOrdering checks that an ordering strategy is valid.
func ValidateOrdering(ordering string) error {
	if ordering == "" {
		return nil
	}
	if !ValidOrderings[ordering] {
		return fmt.Errorf("invalid ordering: %q (must be one of: barycenter, exhaustive)", ordering)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks required fields for parsing.
func (o *Options) ValidateForParse() error {
	if o.Source == "" && o.Text == "" {
		return fmt.Errorf("source or text is required")
	}
	if err := ValidateDirection(o.Direction); err != nil {
		return err
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	o.Style.ApplyDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateDirection(o.Direction); err != nil {
		return err
	}
	return ValidateOrdering(o.Style.Ordering)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// GraphKeyOpts returns cache key options for the parse stage.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		Direction: o.Direction,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Direction:    o.Direction,
		Ordering:     o.Style.Ordering,
		Passes:       o.Style.Passes,
		Compact:      o.Style.Compact,
		MinWidth:     o.Style.MinWidth,
		MinHeight:    o.Style.MinHeight,
		CharWidth:    o.Style.CharWidth,
		CharHeight:   o.Style.CharHeight,
		NodePaddingX: o.Style.NodePaddingX,
		NodePaddingY: o.Style.NodePaddingY,
		NodeGap:      o.Style.NodeGap,
		LayerGap:     o.Style.LayerGap,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Scale:      o.Scale,
		Padding:    o.Padding,
		FontFamily: o.FontFamily,
		FontSize:   o.FontSize,
		GroupBoxes: !o.HideGroupBoxes,
		MaxWidth:   o.MaxWidth,
		MaxHeight:  o.MaxHeight,
	}
}
