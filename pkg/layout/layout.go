package layout

import (
	"errors"
	"fmt"

	"github.com/matzehuels/flowdraw/pkg/flow"
)

// ErrUnknownOrdering is returned by [Flowchart] when the style names an
// ordering strategy that does not exist.
var ErrUnknownOrdering = errors.New("unknown ordering strategy")

// Point is a coordinate in abstract layout units.
type Point struct {
	X float64
	Y float64
}

// Node is a positioned node. X and Y are the center of the node box.
// Layer is the assigned rank along the flow axis and Order the position
// within that layer.
type Node struct {
	ID     string
	Label  string
	Shape  flow.NodeShape
	X      float64
	Y      float64
	Width  float64
	Height float64
	Layer  int
	Order  int
}

// Edge is a routed edge. From and To name the semantic endpoints as
// declared, regardless of any flipping applied during cycle breaking;
// Reversed records that the edge was flipped for ranking. The route runs
// from the source's exit port through every intermediate dummy position to
// the target's entry port, in that order.
type Edge struct {
	From     string
	To       string
	Label    string
	Style    flow.EdgeStyle
	Arrow    flow.EdgeArrow
	Reversed bool
	Cross    bool
	Route    []Point
}

// Subgraph mirrors the declared grouping structure so renderers can draw
// group outlines without going back to the input graph.
type Subgraph struct {
	ID       string
	Title    string
	Nodes    []string
	Children []Subgraph
}

// Graph is the result of a layout computation. Width and Height describe
// the occupied extent; all coordinates fall inside [0, Width] x [0, Height].
//
// Nodes contains only declared nodes. Synthetic dummy nodes introduced
// during normalization never appear here; their positions survive as
// intermediate route points on the edges that spawned them.
type Graph struct {
	Direction flow.Direction
	Nodes     []Node
	Edges     []Edge
	Subgraphs []Subgraph
	Width     float64
	Height    float64
}

// Node returns the positioned node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Flowchart computes a layout for the given graph. The input graph is not
// modified. Invalid input (dangling edge endpoints, negative size hints,
// unknown ordering names) fails with an error; violated internal
// invariants panic, because they indicate a bug in the engine rather than
// bad input.
func Flowchart(g *flow.Graph, style Style) (*Graph, error) {
	style.ApplyDefaults()
	if style.Ordering != OrderingBarycenter && style.Ordering != OrderingExhaustive {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOrdering, style.Ordering)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("validate graph: %w", err)
	}
	if g.NodeCount() == 0 {
		return &Graph{Direction: g.Direction}, nil
	}

	var out *Graph
	if g.HasSubgraphs() {
		out = layoutGrouped(g, style)
	} else {
		out = layoutFlat(g, style)
		out.Subgraphs = convertSubgraphs(g.Subgraphs)
	}

	// BT and RL are computed in TB respectively LR space and mirrored
	// along the flow axis as a final step, routes included.
	if g.Direction.Reversed() {
		mirror(out)
	}
	return out, nil
}

// layoutFlat runs the layered pipeline on a graph without groups.
func layoutFlat(g *flow.Graph, style Style) *Graph {
	st := newState(g, style)
	st.breakCycles()
	st.adjustPortSizes()
	st.assignRanks()
	st.insertDummies()
	st.buildLayers()
	st.reduceCrossings()
	if style.Ordering == OrderingExhaustive {
		st.orderExhaustive()
	}
	st.assignCoordinates()
	st.expandLayerGaps()
	if style.Compact {
		st.compact()
	}
	st.checkPlacement()
	return st.assemble()
}

// mirror flips the layout along the flow axis in place.
func mirror(g *Graph) {
	if g.Direction.Horizontal() {
		for i := range g.Nodes {
			g.Nodes[i].X = g.Width - g.Nodes[i].X
		}
		for i := range g.Edges {
			for j := range g.Edges[i].Route {
				g.Edges[i].Route[j].X = g.Width - g.Edges[i].Route[j].X
			}
		}
		return
	}
	for i := range g.Nodes {
		g.Nodes[i].Y = g.Height - g.Nodes[i].Y
	}
	for i := range g.Edges {
		for j := range g.Edges[i].Route {
			g.Edges[i].Route[j].Y = g.Height - g.Edges[i].Route[j].Y
		}
	}
}

func convertSubgraphs(src []flow.Subgraph) []Subgraph {
	if len(src) == 0 {
		return nil
	}
	out := make([]Subgraph, len(src))
	for i, sg := range src {
		out[i] = Subgraph{
			ID:       sg.ID,
			Title:    sg.Title,
			Nodes:    append([]string(nil), sg.Nodes...),
			Children: convertSubgraphs(sg.Children),
		}
	}
	return out
}
