package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/flowdraw/pkg/flow"
	"github.com/matzehuels/flowdraw/pkg/layout"
)

// Layout is the serialization format for computed layouts: positioned
// nodes, routed edges, group structure, and the occupied extent. It is
// what the JSON output format emits and what layout caches and stores
// persist.
type Layout struct {
	Direction string  `json:"direction" bson:"direction"`
	Width     float64 `json:"width" bson:"width"`
	Height    float64 `json:"height" bson:"height"`

	Nodes     []PlacedNode `json:"nodes" bson:"nodes"`
	Edges     []RoutedEdge `json:"edges" bson:"edges"`
	Subgraphs []Subgraph   `json:"subgraphs,omitempty" bson:"subgraphs,omitempty"`
}

// PlacedNode is a node with its computed center position and grid slot.
type PlacedNode struct {
	ID     string  `json:"id" bson:"id"`
	Label  string  `json:"label,omitempty" bson:"label,omitempty"`
	Shape  string  `json:"shape,omitempty" bson:"shape,omitempty"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
	Layer  int     `json:"layer" bson:"layer"`
	Order  int     `json:"order" bson:"order"`
}

// RoutedEdge is an edge with its computed polyline.
type RoutedEdge struct {
	From     string  `json:"from" bson:"from"`
	To       string  `json:"to" bson:"to"`
	Label    string  `json:"label,omitempty" bson:"label,omitempty"`
	Style    string  `json:"style,omitempty" bson:"style,omitempty"`
	Arrow    string  `json:"arrow,omitempty" bson:"arrow,omitempty"`
	Reversed bool    `json:"reversed,omitempty" bson:"reversed,omitempty"`
	Cross    bool    `json:"cross,omitempty" bson:"cross,omitempty"`
	Route    []Point `json:"route" bson:"route"`
}

// Point is one route waypoint.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// FromLayout converts an internal layout to its serialization format.
func FromLayout(l *layout.Graph) Layout {
	out := Layout{
		Direction: l.Direction.String(),
		Width:     l.Width,
		Height:    l.Height,
		Nodes:     make([]PlacedNode, 0, len(l.Nodes)),
		Edges:     make([]RoutedEdge, 0, len(l.Edges)),
	}
	for _, n := range l.Nodes {
		pn := PlacedNode{
			ID: n.ID, Label: n.Label,
			X: n.X, Y: n.Y, Width: n.Width, Height: n.Height,
			Layer: n.Layer, Order: n.Order,
		}
		if n.Shape != flow.ShapePlain {
			pn.Shape = n.Shape.String()
		}
		out.Nodes = append(out.Nodes, pn)
	}
	for _, e := range l.Edges {
		re := RoutedEdge{
			From: e.From, To: e.To, Label: e.Label,
			Reversed: e.Reversed, Cross: e.Cross,
			Route: make([]Point, len(e.Route)),
		}
		if e.Style != flow.EdgeSolid {
			re.Style = e.Style.String()
		}
		if e.Arrow == flow.ArrowForward {
			re.Arrow = ArrowForward
		}
		for i, p := range e.Route {
			re.Route[i] = Point{X: p.X, Y: p.Y}
		}
		out.Edges = append(out.Edges, re)
	}
	for _, sg := range l.Subgraphs {
		out.Subgraphs = append(out.Subgraphs, layoutSubgraph(sg))
	}
	return out
}

func layoutSubgraph(sg layout.Subgraph) Subgraph {
	out := Subgraph{ID: sg.ID, Title: sg.Title, Nodes: append([]string(nil), sg.Nodes...)}
	for _, child := range sg.Children {
		out.Children = append(out.Children, layoutSubgraph(child))
	}
	return out
}

// ToLayout converts a serialized layout back to the internal form, for
// rendering cached or stored layouts without recomputing positions.
func (l Layout) ToLayout() (*layout.Graph, error) {
	dir, ok := flow.ParseDirection(l.Direction)
	if !ok {
		return nil, fmt.Errorf("unknown direction %q", l.Direction)
	}
	out := &layout.Graph{
		Direction: dir,
		Width:     l.Width,
		Height:    l.Height,
		Nodes:     make([]layout.Node, 0, len(l.Nodes)),
		Edges:     make([]layout.Edge, 0, len(l.Edges)),
	}
	for _, n := range l.Nodes {
		shape := flow.ShapePlain
		if n.Shape != "" {
			if shape, ok = flow.ParseShape(n.Shape); !ok {
				return nil, fmt.Errorf("node %s: unknown shape %q", n.ID, n.Shape)
			}
		}
		out.Nodes = append(out.Nodes, layout.Node{
			ID: n.ID, Label: n.Label, Shape: shape,
			X: n.X, Y: n.Y, Width: n.Width, Height: n.Height,
			Layer: n.Layer, Order: n.Order,
		})
	}
	for _, e := range l.Edges {
		style, err := parseEdgeStyle(e.Style)
		if err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
		arrow, err := parseArrow(e.Arrow)
		if err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
		le := layout.Edge{
			From: e.From, To: e.To, Label: e.Label,
			Style: style, Arrow: arrow,
			Reversed: e.Reversed, Cross: e.Cross,
			Route: make([]layout.Point, len(e.Route)),
		}
		for i, p := range e.Route {
			le.Route[i] = layout.Point{X: p.X, Y: p.Y}
		}
		out.Edges = append(out.Edges, le)
	}
	out.Subgraphs = subgraphsToLayout(l.Subgraphs)
	return out, nil
}

func subgraphsToLayout(src []Subgraph) []layout.Subgraph {
	if len(src) == 0 {
		return nil
	}
	out := make([]layout.Subgraph, len(src))
	for i, sg := range src {
		out[i] = layout.Subgraph{
			ID:       sg.ID,
			Title:    sg.Title,
			Nodes:    append([]string(nil), sg.Nodes...),
			Children: subgraphsToLayout(sg.Children),
		}
	}
	return out
}

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
