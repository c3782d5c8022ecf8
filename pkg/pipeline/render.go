package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/flowdraw/pkg/flow"
	"github.com/matzehuels/flowdraw/pkg/graph"
	"github.com/matzehuels/flowdraw/pkg/render/ascii"
	"github.com/matzehuels/flowdraw/pkg/render/dot"
	"github.com/matzehuels/flowdraw/pkg/render/svg"
)

// Render generates output artifacts in the requested formats.
//
// The ascii, svg, and json formats render from the computed layout. The
// dot and png formats go through Graphviz and need the parsed graph g;
// requesting them with a nil graph is an error.
func Render(ctx context.Context, l graph.Layout, g *flow.Graph, opts Options) (map[string][]byte, error) {
	internal, err := l.ToLayout()
	if err != nil {
		return nil, fmt.Errorf("convert layout: %w", err)
	}

	// DOT is shared between the dot and png formats; build it once.
	var dotText string
	for _, format := range opts.Formats {
		if format == FormatDOT || format == FormatPNG {
			if g == nil {
				return nil, fmt.Errorf("format %s needs the parsed graph", format)
			}
			dotText = dot.ToDOT(g)
			break
		}
	}

	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatASCII:
			data = []byte(ascii.Render(internal, ascii.Options{
				MaxWidth:  opts.MaxWidth,
				MaxHeight: opts.MaxHeight,
			}))
		case FormatSVG:
			data = svg.Render(internal, buildSVGOptions(opts)...)
		case FormatPNG:
			data, err = dot.RenderPNG(ctx, dotText)
		case FormatDOT:
			data = []byte(dotText)
		case FormatJSON:
			data, err = graph.MarshalLayout(l)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// RenderFromLayoutData renders output from serialized layout data.
// This is useful when the layout was computed elsewhere (e.g., cached).
func RenderFromLayoutData(ctx context.Context, layoutData []byte, g *flow.Graph, opts Options) (map[string][]byte, error) {
	parsed, err := graph.UnmarshalLayout(layoutData)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return Render(ctx, parsed, g, opts)
}

// buildSVGOptions translates pipeline options into SVG render options.
func buildSVGOptions(opts Options) []svg.Option {
	var svgOpts []svg.Option

	if opts.Scale > 0 && opts.Scale != 1 {
		svgOpts = append(svgOpts, svg.WithScale(opts.Scale))
	}
	if opts.Padding > 0 {
		svgOpts = append(svgOpts, svg.WithPadding(opts.Padding))
	}
	if opts.FontFamily != "" || opts.FontSize > 0 {
		family := opts.FontFamily
		if family == "" {
			family = svg.DefaultFontFamily
		}
		size := opts.FontSize
		if size == 0 {
			size = svg.DefaultFontSize
		}
		svgOpts = append(svgOpts, svg.WithFont(family, size))
	}
	if opts.HideGroupBoxes {
		svgOpts = append(svgOpts, svg.WithoutGroupBoxes())
	}

	return svgOpts
}
