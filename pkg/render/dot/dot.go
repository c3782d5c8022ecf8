// Package dot exports flowchart graphs as Graphviz DOT and rasterizes
// them through the embedded Graphviz engine. Unlike the native renderers,
// the DOT path delegates all layout decisions to Graphviz; it exists for
// interop with the wider Graphviz toolchain.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/flowdraw/pkg/flow"
)

// ToDOT converts a flowchart graph to Graphviz DOT. Node shapes, edge
// styles and subgraph clusters map to their closest Graphviz equivalents.
// The resulting string can be rendered with [RenderSVG] or [RenderPNG],
// or fed to any external Graphviz install.
func ToDOT(g *flow.Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", g.Direction)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	clustered := make(map[string]bool)
	for i, sg := range g.Subgraphs {
		writeCluster(&buf, g, sg, fmt.Sprintf("%d", i), "  ", clustered)
	}
	for _, n := range g.Nodes() {
		if !clustered[n.ID] {
			writeNode(&buf, "  ", n)
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q%s;\n", e.From, e.To, edgeAttrs(e))
	}
	buf.WriteString("}\n")
	return buf.String()
}

func writeCluster(buf *bytes.Buffer, g *flow.Graph, sg flow.Subgraph, id, indent string, clustered map[string]bool) {
	fmt.Fprintf(buf, "%ssubgraph \"cluster_%s\" {\n", indent, id)
	fmt.Fprintf(buf, "%s  label=%q;\n", indent, sg.DisplayTitle())
	for _, nodeID := range sg.Nodes {
		n, ok := g.Node(nodeID)
		if !ok || clustered[nodeID] {
			continue
		}
		clustered[nodeID] = true
		writeNode(buf, indent+"  ", n)
	}
	for i, child := range sg.Children {
		writeCluster(buf, g, child, fmt.Sprintf("%s_%d", id, i), indent+"  ", clustered)
	}
	fmt.Fprintf(buf, "%s}\n", indent)
}

func writeNode(buf *bytes.Buffer, indent string, n flow.Node) {
	fmt.Fprintf(buf, "%s%q [%s];\n", indent, n.ID, strings.Join(nodeAttrs(n), ", "))
}

func nodeAttrs(n flow.Node) []string {
	attrs := []string{fmt.Sprintf("label=%q", n.DisplayLabel())}
	switch n.Shape {
	case flow.ShapeRound:
		attrs = append(attrs, "shape=box", "style=rounded")
	case flow.ShapeCircle:
		attrs = append(attrs, "shape=circle")
	case flow.ShapeDiamond:
		attrs = append(attrs, "shape=diamond")
	case flow.ShapeHexagon:
		attrs = append(attrs, "shape=hexagon")
	default:
		attrs = append(attrs, "shape=box")
	}
	return attrs
}

func edgeAttrs(e flow.Edge) string {
	var attrs []string
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	switch e.Style {
	case flow.EdgeDotted:
		attrs = append(attrs, "style=dashed")
	case flow.EdgeThick:
		attrs = append(attrs, "penwidth=2.5")
	}
	if e.Arrow == flow.ArrowNone {
		attrs = append(attrs, "arrowhead=none")
	}
	if len(attrs) == 0 {
		return ""
	}
	return " [" + strings.Join(attrs, ", ") + "]"
}

// RenderSVG renders a DOT graph to SVG through the embedded Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG through the embedded Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
