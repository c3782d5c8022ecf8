// Package render groups the diagram renderers.
//
// # Overview
//
// The subpackages turn a computed layout (or a parsed graph) into output
// artifacts:
//
//   - [ascii]: text-grid rendering for terminals
//   - [svg]: native SVG rendering from the layout engine's coordinates
//   - [dot]: DOT export plus Graphviz-based SVG/PNG rasterization
//
// # Native vs Graphviz
//
// The ascii and svg renderers draw the engine's own layout: positioned
// nodes, routed orthogonal edges, group boxes. The dot renderer instead
// hands the abstract graph to Graphviz, which computes its own layout.
// Comparing the two paths is a useful check on the native engine.
//
//	l, _ := layout.Flowchart(g, layout.DefaultStyle())
//	art := ascii.Render(l, ascii.Options{})
//	img := svg.Render(l)
//
//	d := dot.ToDOT(g)
//	png, err := dot.RenderPNG(ctx, d)
//
// [ascii]: github.com/matzehuels/flowdraw/pkg/render/ascii
// [svg]: github.com/matzehuels/flowdraw/pkg/render/svg
// [dot]: github.com/matzehuels/flowdraw/pkg/render/dot
package render
