// Package svg renders layouts as standalone SVG documents.
//
// The writer emits plain SVG by hand: node shapes picked from the
// declared outline, edge polylines with dash patterns per stroke style,
// an arrowhead marker for directed edges, and dashed group rectangles
// when the graph declares subgraphs. No SVG library is involved; the
// document is small and the element set fixed.
package svg

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/flowdraw/pkg/flow"
	"github.com/matzehuels/flowdraw/pkg/layout"
)

// Rendering defaults; overridable through options.
const (
	DefaultPadding    = 24.0
	DefaultFontFamily = "monospace"
	DefaultFontSize   = 12.0

	nodeFill    = "#f6f8fa"
	nodeStroke  = "#24292f"
	edgeStroke  = "#57606a"
	groupStroke = "#8250df"
)

// Option adjusts the SVG writer.
type Option func(*config)

type config struct {
	scale      float64
	padding    float64
	fontFamily string
	fontSize   float64
	groupBoxes bool
}

// WithScale multiplies all layout coordinates. Values at or below zero
// are ignored.
func WithScale(scale float64) Option {
	return func(c *config) {
		if scale > 0 {
			c.scale = scale
		}
	}
}

// WithPadding sets the uniform margin around the diagram.
func WithPadding(padding float64) Option {
	return func(c *config) {
		if padding >= 0 {
			c.padding = padding
		}
	}
}

// WithFont overrides the label font.
func WithFont(family string, size float64) Option {
	return func(c *config) {
		if family != "" {
			c.fontFamily = family
		}
		if size > 0 {
			c.fontSize = size
		}
	}
}

// WithoutGroupBoxes suppresses subgraph outlines.
func WithoutGroupBoxes() Option {
	return func(c *config) { c.groupBoxes = false }
}

// Render writes the layout as a complete SVG document.
func Render(g *layout.Graph, opts ...Option) []byte {
	cfg := config{
		scale:      1,
		padding:    DefaultPadding,
		fontFamily: DefaultFontFamily,
		fontSize:   DefaultFontSize,
		groupBoxes: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	w, h := layout.SuggestCanvasSize(g, cfg.scale, cfg.padding)
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n", w, h, w, h)
	buf.WriteString("<defs>\n")
	fmt.Fprintf(&buf, `<marker id="arrow" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="7" markerHeight="7" orient="auto-start-reverse"><path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/></marker>`+"\n", edgeStroke)
	buf.WriteString("</defs>\n")
	fmt.Fprintf(&buf, `<rect width="%d" height="%d" fill="white"/>`+"\n", w, h)

	// Offset every coordinate by the padding so the extent hugs the
	// margin on all sides.
	tx := func(v float64) float64 { return v*cfg.scale + cfg.padding }

	if cfg.groupBoxes && len(g.Subgraphs) > 0 {
		writeGroups(&buf, g, cfg, tx)
	}
	for _, e := range g.Edges {
		writeEdge(&buf, e, cfg, tx)
	}
	for _, n := range g.Nodes {
		writeNode(&buf, n, cfg, tx)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writeGroups(buf *bytes.Buffer, g *layout.Graph, cfg config, tx func(float64) float64) {
	for _, b := range layout.SubgraphBounds(g, 2*DefaultFontSize/cfg.scale) {
		x, y := tx(b.MinX), tx(b.MinY)
		fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="%s" stroke-dasharray="6,3" rx="4"/>`+"\n",
			x, y, b.Width()*cfg.scale, b.Height()*cfg.scale, groupStroke)
		fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-family="%s" font-size="%.1f" fill="%s">%s</text>`+"\n",
			x+4, y-4, cfg.fontFamily, cfg.fontSize, groupStroke, html.EscapeString(b.Label))
	}
}

func writeEdge(buf *bytes.Buffer, e layout.Edge, cfg config, tx func(float64) float64) {
	if len(e.Route) < 2 {
		return
	}
	var points bytes.Buffer
	for i, p := range e.Route {
		if i > 0 {
			points.WriteByte(' ')
		}
		fmt.Fprintf(&points, "%.1f,%.1f", tx(p.X), tx(p.Y))
	}

	width := 1.5
	dash := ""
	switch e.Style {
	case flow.EdgeDotted:
		dash = ` stroke-dasharray="4,4"`
	case flow.EdgeThick:
		width = 3
	}
	marker := ""
	if e.Arrow == flow.ArrowForward {
		marker = ` marker-end="url(#arrow)"`
	}
	fmt.Fprintf(buf, `<polyline points="%s" fill="none" stroke="%s" stroke-width="%.1f"%s%s/>`+"\n",
		points.String(), edgeStroke, width, dash, marker)

	if e.Label != "" {
		mid := e.Route[len(e.Route)/2]
		if len(e.Route)%2 == 0 {
			prev := e.Route[len(e.Route)/2-1]
			mid = layout.Point{X: (mid.X + prev.X) / 2, Y: (mid.Y + prev.Y) / 2}
		}
		fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-family="%s" font-size="%.1f" fill="%s" text-anchor="middle">%s</text>`+"\n",
			tx(mid.X), tx(mid.Y)-4, cfg.fontFamily, cfg.fontSize, edgeStroke, html.EscapeString(e.Label))
	}
}

func writeNode(buf *bytes.Buffer, n layout.Node, cfg config, tx func(float64) float64) {
	cx, cy := tx(n.X), tx(n.Y)
	w, h := n.Width*cfg.scale, n.Height*cfg.scale
	stroke := fmt.Sprintf(`fill="%s" stroke="%s" stroke-width="1.5"`, nodeFill, nodeStroke)

	switch n.Shape {
	case flow.ShapeRound:
		fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" %s/>`+"\n",
			cx-w/2, cy-h/2, w, h, h/3, stroke)
	case flow.ShapeCircle:
		r := w / 2
		if h/2 > r {
			r = h / 2
		}
		fmt.Fprintf(buf, `<circle cx="%.1f" cy="%.1f" r="%.1f" %s/>`+"\n", cx, cy, r, stroke)
	case flow.ShapeDiamond:
		fmt.Fprintf(buf, `<polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f %.1f,%.1f" %s/>`+"\n",
			cx, cy-h/2, cx+w/2, cy, cx, cy+h/2, cx-w/2, cy, stroke)
	case flow.ShapeHexagon:
		inset := w / 5
		fmt.Fprintf(buf, `<polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f %.1f,%.1f %.1f,%.1f %.1f,%.1f" %s/>`+"\n",
			cx-w/2+inset, cy-h/2, cx+w/2-inset, cy-h/2, cx+w/2, cy,
			cx+w/2-inset, cy+h/2, cx-w/2+inset, cy+h/2, cx-w/2, cy, stroke)
	default:
		fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" %s/>`+"\n",
			cx-w/2, cy-h/2, w, h, stroke)
	}

	fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-family="%s" font-size="%.1f" fill="%s" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
		cx, cy, cfg.fontFamily, cfg.fontSize, nodeStroke, html.EscapeString(n.Label))
}
