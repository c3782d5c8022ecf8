package layout

import (
	"math"
	"unicode/utf8"

	"github.com/matzehuels/flowdraw/pkg/flow"
)

// workNode is a node during layout: declared nodes first in declaration
// order, synthetic dummy nodes appended during normalization.
type workNode struct {
	id     string
	label  string
	shape  flow.NodeShape
	width  float64
	height float64
	layer  int
	order  int
	x      float64
	y      float64
	dummy  bool
	edge   int // owning edge index for dummy nodes, -1 otherwise
}

// edgeMeta is an edge during layout. from and to are the declared
// endpoints as node indexes; reversed means the cycle breaker flipped the
// edge, so ranking and normalization treat to as the source.
type edgeMeta struct {
	from     int
	to       int
	label    string
	style    flow.EdgeStyle
	arrow    flow.EdgeArrow
	reversed bool
}

func (e edgeMeta) selfLoop() bool { return e.from == e.to }

// src and dst are the logical endpoints after cycle breaking.
func (e edgeMeta) src() int {
	if e.reversed {
		return e.to
	}
	return e.from
}

func (e edgeMeta) dst() int {
	if e.reversed {
		return e.from
	}
	return e.to
}

// edgeChain records the node sequence an edge occupies after
// normalization: logical source, intermediate dummies in ascending layer
// order, logical target.
type edgeChain struct {
	edge  int
	nodes []int
}

// unitEdge connects nodes on adjacent layers; from is always on the lower
// layer. Unit edges drive crossing reduction and compaction.
type unitEdge struct {
	from int
	to   int
}

// layoutState carries one layout computation through the pipeline phases.
// It is built fresh per call and never shared.
type layoutState struct {
	style  Style
	dir    flow.Direction
	nodes  []workNode
	edges  []edgeMeta
	chains []edgeChain
	units  []unitEdge
	layers [][]int
}

func newState(g *flow.Graph, style Style) *layoutState {
	st := &layoutState{style: style, dir: g.Direction}
	index := make(map[string]int, g.NodeCount())
	for _, n := range g.Nodes() {
		w, h := n.Width, n.Height
		if w == 0 || h == 0 {
			ew, eh := EstimateNodeSize(n.DisplayLabel(), style)
			if w == 0 {
				w = ew
			}
			if h == 0 {
				h = eh
			}
		}
		index[n.ID] = len(st.nodes)
		st.nodes = append(st.nodes, workNode{
			id:     n.ID,
			label:  n.DisplayLabel(),
			shape:  n.Shape,
			width:  w,
			height: h,
			edge:   -1,
		})
	}
	for _, e := range g.Edges() {
		st.edges = append(st.edges, edgeMeta{
			from:  index[e.From],
			to:    index[e.To],
			label: e.Label,
			style: e.Style,
			arrow: e.Arrow,
		})
	}
	return st
}

// EstimateNodeSize returns the box size for a node labeled with the given
// text: one line of glyphs plus padding, clamped to the style minimums.
func EstimateNodeSize(label string, style Style) (w, h float64) {
	style.ApplyDefaults()
	w = float64(utf8.RuneCountInString(label))*style.CharWidth + 2*style.NodePaddingX
	if w < style.MinWidth {
		w = style.MinWidth
	}
	h = style.CharHeight + 2*style.NodePaddingY
	if h < style.MinHeight {
		h = style.MinHeight
	}
	return w, h
}

// adjustPortSizes widens nodes with many distinct edge endpoints so port
// offsets have room to spread without leaving the node boundary.
func (st *layoutState) adjustPortSizes() {
	out := make([]int, len(st.nodes))
	in := make([]int, len(st.nodes))
	for _, e := range st.edges {
		if e.selfLoop() {
			continue
		}
		out[e.from]++
		in[e.to]++
	}
	for i := range st.nodes {
		ports := max(out[i], in[i])
		if ports <= 1 {
			continue
		}
		n := &st.nodes[i]
		if st.dir.Horizontal() {
			spacing := math.Max(st.style.CharHeight, 10) * 1.2
			need := float64(ports-1)*spacing + 2*st.style.NodePaddingY + st.style.CharHeight
			if n.height < need {
				n.height = need
			}
		} else {
			spacing := math.Max(st.style.CharWidth, 6) * 2
			need := float64(ports-1)*spacing + 2*st.style.NodePaddingX + st.style.CharWidth
			if n.width < need {
				n.width = need
			}
		}
	}
}

// cross and main address the two layout axes independently of direction:
// main runs along the flow, cross across it.

func (st *layoutState) cross(idx int) float64 {
	if st.dir.Horizontal() {
		return st.nodes[idx].y
	}
	return st.nodes[idx].x
}

func (st *layoutState) crossHalf(idx int) float64 {
	if st.dir.Horizontal() {
		return st.nodes[idx].height / 2
	}
	return st.nodes[idx].width / 2
}

func (st *layoutState) setCross(idx int, v float64) {
	if st.dir.Horizontal() {
		st.nodes[idx].y = v
	} else {
		st.nodes[idx].x = v
	}
}

func (st *layoutState) main(idx int) float64 {
	if st.dir.Horizontal() {
		return st.nodes[idx].x
	}
	return st.nodes[idx].y
}

func (st *layoutState) mainHalf(idx int) float64 {
	if st.dir.Horizontal() {
		return st.nodes[idx].width / 2
	}
	return st.nodes[idx].height / 2
}

func (st *layoutState) shiftMain(idx int, by float64) {
	if st.dir.Horizontal() {
		st.nodes[idx].x += by
	} else {
		st.nodes[idx].y += by
	}
}

// unitOutCounts returns how many unit edges leave each node toward the
// next layer. Used for lane-aware layer gaps.
func (st *layoutState) unitOutCounts() []int {
	out := make([]int, len(st.nodes))
	for _, u := range st.units {
		out[u.from]++
	}
	return out
}

// assemble builds the public result from the placed state.
func (st *layoutState) assemble() *Graph {
	routes := st.routeEdges()
	out := &Graph{Direction: st.dir}
	for _, n := range st.nodes {
		if n.dummy {
			continue
		}
		out.Nodes = append(out.Nodes, Node{
			ID:     n.id,
			Label:  n.label,
			Shape:  n.shape,
			X:      n.x,
			Y:      n.y,
			Width:  n.width,
			Height: n.height,
			Layer:  n.layer,
			Order:  n.order,
		})
	}
	for i, e := range st.edges {
		out.Edges = append(out.Edges, Edge{
			From:     st.nodes[e.from].id,
			To:       st.nodes[e.to].id,
			Label:    e.label,
			Style:    e.style,
			Arrow:    e.arrow,
			Reversed: e.reversed,
			Route:    routes[i],
		})
	}
	out.Width, out.Height = extent(out.Nodes, out.Edges)
	return out
}

// extent returns the occupied width and height: the maximum reach of any
// node box or route point. The origin is always (0, 0).
func extent(nodes []Node, edges []Edge) (w, h float64) {
	for _, n := range nodes {
		w = math.Max(w, n.X+n.Width/2)
		h = math.Max(h, n.Y+n.Height/2)
	}
	for _, e := range edges {
		for _, p := range e.Route {
			w = math.Max(w, p.X)
			h = math.Max(h, p.Y)
		}
	}
	return w, h
}
