package graph

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/flowdraw/pkg/flow"
)

// Arrow keywords used on the wire.
const (
	ArrowForward = "forward"
	ArrowNone    = ""
)

// Graph is the canonical serialization format for flowchart graphs.
// Used for API responses, storage, caching, and cross-tool compatibility.
//
// The format is designed for round-trip fidelity: import → export →
// re-import produces an identical graph, declaration order included.
type Graph struct {
	Direction string     `json:"direction,omitempty" bson:"direction,omitempty"`
	Nodes     []Node     `json:"nodes" bson:"nodes"`
	Edges     []Edge     `json:"edges" bson:"edges"`
	Subgraphs []Subgraph `json:"subgraphs,omitempty" bson:"subgraphs,omitempty"`
}

// Node is a serialized flowchart node. Width and Height are optional size
// hints; zero means the layout engine estimates from the label.
type Node struct {
	ID     string  `json:"id" bson:"id"`
	Label  string  `json:"label,omitempty" bson:"label,omitempty"`
	Shape  string  `json:"shape,omitempty" bson:"shape,omitempty"`
	Width  float64 `json:"width,omitempty" bson:"width,omitempty"`
	Height float64 `json:"height,omitempty" bson:"height,omitempty"`
}

// Edge is a serialized directed connection.
type Edge struct {
	From  string `json:"from" bson:"from"`
	To    string `json:"to" bson:"to"`
	Label string `json:"label,omitempty" bson:"label,omitempty"`
	Style string `json:"style,omitempty" bson:"style,omitempty"`
	Arrow string `json:"arrow,omitempty" bson:"arrow,omitempty"`
}

// Subgraph is a serialized node grouping, possibly nested.
type Subgraph struct {
	ID       string     `json:"id" bson:"id"`
	Title    string     `json:"title,omitempty" bson:"title,omitempty"`
	Nodes    []string   `json:"nodes,omitempty" bson:"nodes,omitempty"`
	Children []Subgraph `json:"children,omitempty" bson:"children,omitempty"`
}

// FromFlow converts an internal graph to its serialization format,
// preserving declaration order.
func FromFlow(g *flow.Graph) Graph {
	out := Graph{
		Direction: g.Direction.String(),
		Nodes:     make([]Node, 0, g.NodeCount()),
		Edges:     make([]Edge, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		sn := Node{ID: n.ID, Label: n.Label, Width: n.Width, Height: n.Height}
		if n.Shape != flow.ShapePlain {
			sn.Shape = n.Shape.String()
		}
		out.Nodes = append(out.Nodes, sn)
	}
	for _, e := range g.Edges() {
		se := Edge{From: e.From, To: e.To, Label: e.Label}
		if e.Style != flow.EdgeSolid {
			se.Style = e.Style.String()
		}
		if e.Arrow == flow.ArrowForward {
			se.Arrow = ArrowForward
		}
		out.Edges = append(out.Edges, se)
	}
	out.Subgraphs = subgraphsFromFlow(g.Subgraphs)
	return out
}

// ToFlow converts a serialized graph back to the internal representation.
// Unknown direction, shape, style, or arrow keywords fail; so do
// structural problems like duplicate node IDs or dangling edges.
func ToFlow(sg Graph) (*flow.Graph, error) {
	dir := flow.DirectionTB
	if sg.Direction != "" {
		var ok bool
		if dir, ok = flow.ParseDirection(sg.Direction); !ok {
			return nil, fmt.Errorf("unknown direction %q", sg.Direction)
		}
	}
	g := flow.New(dir)

	for _, n := range sg.Nodes {
		shape := flow.ShapePlain
		if n.Shape != "" {
			var ok bool
			if shape, ok = flow.ParseShape(n.Shape); !ok {
				return nil, fmt.Errorf("node %s: unknown shape %q", n.ID, n.Shape)
			}
		}
		if err := g.AddNode(flow.Node{ID: n.ID, Label: n.Label, Shape: shape, Width: n.Width, Height: n.Height}); err != nil {
			return nil, fmt.Errorf("add node %s: %w", n.ID, err)
		}
	}

	for _, e := range sg.Edges {
		style, err := parseEdgeStyle(e.Style)
		if err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
		arrow, err := parseArrow(e.Arrow)
		if err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
		if err := g.AddEdge(flow.Edge{From: e.From, To: e.To, Label: e.Label, Style: style, Arrow: arrow}); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", e.From, e.To, err)
		}
	}

	g.Subgraphs = subgraphsToFlow(sg.Subgraphs)
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func parseEdgeStyle(s string) (flow.EdgeStyle, error) {
	switch s {
	case "", "solid":
		return flow.EdgeSolid, nil
	case "dotted":
		return flow.EdgeDotted, nil
	case "thick":
		return flow.EdgeThick, nil
	}
	return flow.EdgeSolid, fmt.Errorf("unknown edge style %q", s)
}

func parseArrow(s string) (flow.EdgeArrow, error) {
	switch s {
	case ArrowNone, "none":
		return flow.ArrowNone, nil
	case ArrowForward:
		return flow.ArrowForward, nil
	}
	return flow.ArrowNone, fmt.Errorf("unknown arrow %q", s)
}

func subgraphsFromFlow(src []flow.Subgraph) []Subgraph {
	if len(src) == 0 {
		return nil
	}
	out := make([]Subgraph, len(src))
	for i, sg := range src {
		out[i] = Subgraph{
			ID:       sg.ID,
			Title:    sg.Title,
			Nodes:    append([]string(nil), sg.Nodes...),
			Children: subgraphsFromFlow(sg.Children),
		}
	}
	return out
}

func subgraphsToFlow(src []Subgraph) []flow.Subgraph {
	if len(src) == 0 {
		return nil
	}
	out := make([]flow.Subgraph, len(src))
	for i, sg := range src {
		out[i] = flow.Subgraph{
			ID:       sg.ID,
			Title:    sg.Title,
			Nodes:    append([]string(nil), sg.Nodes...),
			Children: subgraphsToFlow(sg.Children),
		}
	}
	return out
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}
