package flow

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrEmptyNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with
	// the same ID was already declared. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] and
	// [Graph.Validate] when an edge's From endpoint is not a declared node.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] and
	// [Graph.Validate] when an edge's To endpoint is not a declared node.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrInvalidNodeSize is returned by [Graph.Validate] when a node
	// carries a negative width or height hint. Zero means "estimate from
	// the label"; negative sizes are never valid.
	ErrInvalidNodeSize = errors.New("node size must not be negative")
)

// Direction is the main flow axis of a diagram.
type Direction int

const (
	// DirectionTB flows top to bottom (the default).
	DirectionTB Direction = iota
	// DirectionBT flows bottom to top.
	DirectionBT
	// DirectionLR flows left to right.
	DirectionLR
	// DirectionRL flows right to left.
	DirectionRL
)

// Horizontal reports whether the flow axis is horizontal (LR or RL).
func (d Direction) Horizontal() bool { return d == DirectionLR || d == DirectionRL }

// Reversed reports whether the flow runs against the natural axis
// direction (BT or RL). Reversed directions mirror the layout along the
// flow axis.
func (d Direction) Reversed() bool { return d == DirectionBT || d == DirectionRL }

// String returns the canonical two-letter direction keyword.
func (d Direction) String() string {
	switch d {
	case DirectionBT:
		return "BT"
	case DirectionLR:
		return "LR"
	case DirectionRL:
		return "RL"
	default:
		return "TB"
	}
}

// ParseDirection maps a direction keyword to a Direction. The legacy
// keyword "TD" is accepted as an alias for "TB". The second return value
// reports whether the keyword was recognized.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "TB", "TD":
		return DirectionTB, true
	case "BT":
		return DirectionBT, true
	case "LR":
		return DirectionLR, true
	case "RL":
		return DirectionRL, true
	}
	return DirectionTB, false
}

// NodeShape is the visual outline of a node.
type NodeShape int

const (
	// ShapePlain is a bare node without a declared outline.
	ShapePlain NodeShape = iota
	// ShapeBracket is a rectangle, declared as [text].
	ShapeBracket
	// ShapeRound is a rounded rectangle, declared as (text).
	ShapeRound
	// ShapeCircle is a circle, declared as ((text)).
	ShapeCircle
	// ShapeDiamond is a decision diamond, declared as {text}.
	ShapeDiamond
	// ShapeHexagon is a hexagon, declared as {{text}}.
	ShapeHexagon
)

var shapeNames = map[NodeShape]string{
	ShapePlain:   "plain",
	ShapeBracket: "bracket",
	ShapeRound:   "round",
	ShapeCircle:  "circle",
	ShapeDiamond: "diamond",
	ShapeHexagon: "hexagon",
}

// String returns the lowercase shape name used in serialized graphs.
func (s NodeShape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return "plain"
}

// ParseShape maps a serialized shape name back to a NodeShape. Unknown
// names map to ShapePlain with ok=false.
func ParseShape(s string) (NodeShape, bool) {
	for shape, name := range shapeNames {
		if name == s {
			return shape, true
		}
	}
	return ShapePlain, false
}

// EdgeStyle is the stroke style of an edge.
type EdgeStyle int

const (
	// EdgeSolid is a plain stroke, declared as --> or --.
	EdgeSolid EdgeStyle = iota
	// EdgeDotted is a dashed stroke, declared as -.-> or -.-.
	EdgeDotted
	// EdgeThick is a heavy stroke, declared as ==> or ===.
	EdgeThick
)

// String returns the lowercase style name used in serialized graphs.
func (s EdgeStyle) String() string {
	switch s {
	case EdgeDotted:
		return "dotted"
	case EdgeThick:
		return "thick"
	default:
		return "solid"
	}
}

// EdgeArrow is the arrowhead kind of an edge.
type EdgeArrow int

const (
	// ArrowNone draws no arrowhead.
	ArrowNone EdgeArrow = iota
	// ArrowForward draws an arrowhead at the target end.
	ArrowForward
)

// Node is a declared vertex of a flowchart.
//
// Width and Height are optional size hints in abstract units. Zero means
// the layout engine estimates the size from the display label; negative
// values fail validation.
type Node struct {
	ID     string
	Label  string
	Shape  NodeShape
	Width  float64
	Height float64
}

// DisplayLabel returns the node's label, falling back to its ID when no
// label was declared.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a directed connection between two declared nodes. From and To
// always name the semantic source and target as written in the diagram,
// regardless of any direction flipping applied during layout.
type Edge struct {
	From  string
	To    string
	Label string
	Style EdgeStyle
	Arrow EdgeArrow
}

// Subgraph is a named group of node IDs, possibly nested. Members are
// recorded in first-mention order without duplicates.
type Subgraph struct {
	ID       string
	Title    string
	Nodes    []string
	Children []Subgraph
}

// AddNode records a member node ID, ignoring duplicates.
func (s *Subgraph) AddNode(id string) {
	for _, existing := range s.Nodes {
		if existing == id {
			return
		}
	}
	s.Nodes = append(s.Nodes, id)
}

// DisplayTitle returns the subgraph's title, falling back to its ID.
func (s Subgraph) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return s.ID
}

// Graph is the abstract flowchart handed to the layout engine: declared
// nodes and edges in declaration order, a flow direction, and optional
// subgraph groupings.
//
// Declaration order is significant. The layout pipeline traverses nodes
// and edges in the order they were added, which makes layout output
// reproducible for identical input.
//
// The zero value is not usable - use [New].
type Graph struct {
	Direction Direction
	Subgraphs []Subgraph

	nodes []Node
	edges []Edge
	byID  map[string]int
}

// New creates an empty graph flowing in the given direction.
func New(dir Direction) *Graph {
	return &Graph{
		Direction: dir,
		byID:      map[string]int{},
	}
}

// AddNode declares a node. It fails with ErrEmptyNodeID for empty IDs and
// ErrDuplicateNodeID when the ID was already declared.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrEmptyNodeID
	}
	if _, exists := g.byID[n.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
	}
	g.byID[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	return nil
}

// UpsertNode declares a node if unknown, or refreshes its label and shape
// when a later declaration carries an explicit label. Bare references
// (empty label) never overwrite an earlier declaration.
func (g *Graph) UpsertNode(id, label string, shape NodeShape) {
	if idx, exists := g.byID[id]; exists {
		if label != "" {
			g.nodes[idx].Label = label
			g.nodes[idx].Shape = shape
		}
		return
	}
	g.byID[id] = len(g.nodes)
	g.nodes = append(g.nodes, Node{ID: id, Label: label, Shape: shape})
}

// AddEdge declares a directed edge. Both endpoints must already be
// declared nodes.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.byID[e.From]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSourceNode, e.From)
	}
	if _, ok := g.byID[e.To]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTargetNode, e.To)
	}
	g.edges = append(g.edges, e)
	return nil
}

// Node returns the declared node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	idx, ok := g.byID[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[idx], true
}

// SetNodeSize records explicit size hints for a declared node.
func (g *Graph) SetNodeSize(id string, width, height float64) bool {
	idx, ok := g.byID[id]
	if !ok {
		return false
	}
	g.nodes[idx].Width = width
	g.nodes[idx].Height = height
	return true
}

// Nodes returns the declared nodes in declaration order. The slice is
// shared with the graph; callers must not modify it.
func (g *Graph) Nodes() []Node { return g.nodes }

// Edges returns the declared edges in declaration order. The slice is
// shared with the graph; callers must not modify it.
func (g *Graph) Edges() []Edge { return g.edges }

// NodeIDs returns all node IDs in declaration order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, len(g.nodes))
	for i, n := range g.nodes {
		ids[i] = n.ID
	}
	return ids
}

// NodeCount returns the number of declared nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of declared edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// HasSubgraphs reports whether any subgraph actually contains members.
// Empty subgraph declarations do not switch the layout into grouped mode.
func (g *Graph) HasSubgraphs() bool {
	for _, sg := range g.Subgraphs {
		if subgraphHasNodes(sg) {
			return true
		}
	}
	return false
}

func subgraphHasNodes(sg Subgraph) bool {
	if len(sg.Nodes) > 0 {
		return true
	}
	for _, child := range sg.Children {
		if subgraphHasNodes(child) {
			return true
		}
	}
	return false
}

// Validate checks structural integrity: every edge endpoint must name a
// declared node and no node may carry a negative size hint. Graphs built
// through AddNode/AddEdge are valid by construction; Validate exists for
// graphs assembled from deserialized data.
func (g *Graph) Validate() error {
	for _, e := range g.edges {
		if _, ok := g.byID[e.From]; !ok {
			return fmt.Errorf("%w: edge %s->%s", ErrUnknownSourceNode, e.From, e.To)
		}
		if _, ok := g.byID[e.To]; !ok {
			return fmt.Errorf("%w: edge %s->%s", ErrUnknownTargetNode, e.From, e.To)
		}
	}
	for _, n := range g.nodes {
		if n.Width < 0 || n.Height < 0 {
			return fmt.Errorf("%w: node %s", ErrInvalidNodeSize, n.ID)
		}
	}
	return nil
}

// Clone returns a deep copy of the graph. The copy shares no state with
// the original and can be mutated freely.
func (g *Graph) Clone() *Graph {
	c := New(g.Direction)
	c.nodes = make([]Node, len(g.nodes))
	copy(c.nodes, g.nodes)
	c.edges = make([]Edge, len(g.edges))
	copy(c.edges, g.edges)
	for id, idx := range g.byID {
		c.byID[id] = idx
	}
	c.Subgraphs = cloneSubgraphs(g.Subgraphs)
	return c
}

func cloneSubgraphs(src []Subgraph) []Subgraph {
	if src == nil {
		return nil
	}
	out := make([]Subgraph, len(src))
	for i, sg := range src {
		out[i] = Subgraph{ID: sg.ID, Title: sg.Title}
		out[i].Nodes = append([]string(nil), sg.Nodes...)
		out[i].Children = cloneSubgraphs(sg.Children)
	}
	return out
}
