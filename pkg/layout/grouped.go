package layout

import (
	"fmt"
	"math"

	"github.com/matzehuels/flowdraw/pkg/flow"
)

// group is one top-level cluster during grouped layout. Declared
// subgraphs become groups with padding and a title strip; nodes outside
// every subgraph become virtual single-node groups without either.
type group struct {
	id      string
	virtual bool
	members []string
	layout  *Graph
	left    float64
	top     float64
	width   float64
	height  float64
}

// layoutGrouped lays out a graph whose subgraphs carry members. Every
// top-level group is laid out independently with the flat pipeline, the
// groups line up across the flow axis, and edges connecting different
// groups are routed through bands outside the group boxes.
func layoutGrouped(g *flow.Graph, style Style) *Graph {
	groups := collectGroups(g)
	padX := 2 * style.NodePaddingX
	padY := 2 * style.NodePaddingY
	titleH := style.CharHeight + 2*style.NodePaddingY

	for i := range groups {
		gr := &groups[i]
		gr.layout = layoutFlat(subgraphGraph(g, gr.members), style)
		gr.width = gr.layout.Width
		gr.height = gr.layout.Height
		if !gr.virtual {
			gr.width += 2 * padX
			gr.height += 2*padY + titleH
		}
	}

	// Groups line up across the flow axis: a horizontal row for vertical
	// flow, a vertical column for horizontal flow.
	pos := 0.0
	for i := range groups {
		gr := &groups[i]
		if g.Direction.Horizontal() {
			gr.top = pos
			pos += gr.height + 2*style.NodeGap
		} else {
			gr.left = pos
			pos += gr.width + 2*style.NodeGap
		}
	}

	out := &Graph{Direction: g.Direction}
	groupOf := make(map[string]int)
	for gi, gr := range groups {
		dx, dy := gr.left, gr.top
		if !gr.virtual {
			dx += padX
			dy += padY + titleH
		}
		for _, n := range gr.layout.Nodes {
			n.X += dx
			n.Y += dy
			out.Nodes = append(out.Nodes, n)
			groupOf[n.ID] = gi
		}
		for _, e := range gr.layout.Edges {
			for j := range e.Route {
				e.Route[j].X += dx
				e.Route[j].Y += dy
			}
			out.Edges = append(out.Edges, e)
		}
	}

	crossEdges, shift := routeCrossEdges(g, out, groupOf, style)
	out.Edges = append(out.Edges, crossEdges...)
	out.Subgraphs = convertSubgraphs(g.Subgraphs)
	out.Width, out.Height = extent(out.Nodes, out.Edges)

	// Group boxes reach beyond their member nodes by padding and title
	// strip; the extent has to cover them too.
	for _, gr := range groups {
		right, bottom := gr.left+gr.width, gr.top+gr.height
		if g.Direction.Horizontal() {
			right += shift
		} else {
			bottom += shift
		}
		out.Width = math.Max(out.Width, right)
		out.Height = math.Max(out.Height, bottom)
	}
	return out
}

// routeCrossEdges routes edges whose endpoints live in different groups.
// Each distinct (from, to, label) triple claims one band outside the group
// boxes; the route leaves the source face nearest the bands, runs along
// the band, and drops into the target. The whole layout shifts afterwards
// so band coordinates stay non-negative. The applied shift is returned so
// the caller can shift the group boxes the same way.
func routeCrossEdges(g *flow.Graph, out *Graph, groupOf map[string]int, style Style) ([]Edge, float64) {
	horizontal := g.Direction.Horizontal()
	bandGap := math.Max(style.CharHeight+2*style.NodePaddingY, 24)
	if horizontal {
		bandGap = math.Max(style.CharWidth+2*style.NodePaddingX, 24)
	}

	nodeAt := make(map[string]Node, len(out.Nodes))
	for _, n := range out.Nodes {
		nodeAt[n.ID] = n
	}

	bands := make(map[[3]string]int)
	var edges []Edge
	for _, e := range g.Edges() {
		if groupOf[e.From] == groupOf[e.To] {
			continue
		}
		key := [3]string{e.From, e.To, e.Label}
		band, ok := bands[key]
		if !ok {
			band = len(bands)
			bands[key] = band
		}

		from, to := nodeAt[e.From], nodeAt[e.To]
		bandPos := -bandGap * float64(band+1)
		var route []Point
		if horizontal {
			route = []Point{
				{X: from.X - from.Width/2, Y: from.Y},
				{X: bandPos, Y: from.Y},
				{X: bandPos, Y: to.Y},
				{X: to.X - to.Width/2, Y: to.Y},
			}
		} else {
			route = []Point{
				{X: from.X, Y: from.Y - from.Height/2},
				{X: from.X, Y: bandPos},
				{X: to.X, Y: bandPos},
				{X: to.X, Y: to.Y - to.Height/2},
			}
		}
		edges = append(edges, Edge{
			From:  e.From,
			To:    e.To,
			Label: e.Label,
			Style: e.Style,
			Arrow: e.Arrow,
			Cross: true,
			Route: route,
		})
	}
	if len(bands) == 0 {
		return nil, 0
	}

	// Bands occupy negative coordinates; push everything back into the
	// positive quadrant.
	shift := bandGap*float64(len(bands)) + bandGap/2
	shiftMain := func(p *Point) {
		if horizontal {
			p.X += shift
		} else {
			p.Y += shift
		}
	}
	for i := range out.Nodes {
		if horizontal {
			out.Nodes[i].X += shift
		} else {
			out.Nodes[i].Y += shift
		}
	}
	for i := range out.Edges {
		for j := range out.Edges[i].Route {
			shiftMain(&out.Edges[i].Route[j])
		}
	}
	for i := range edges {
		for j := range edges[i].Route {
			shiftMain(&edges[i].Route[j])
		}
	}
	return edges, shift
}

// collectGroups resolves top-level subgraphs to member lists. Membership
// is first claim wins: a node listed in two subgraphs belongs to the one
// declared first, and nested members roll up into their top-level group.
func collectGroups(g *flow.Graph) []group {
	claimed := make(map[string]bool)
	var groups []group
	for _, sg := range g.Subgraphs {
		var members []string
		collectMembers(g, sg, claimed, &members)
		if len(members) == 0 {
			continue
		}
		groups = append(groups, group{id: sg.ID, members: members})
	}
	for _, n := range g.Nodes() {
		if !claimed[n.ID] {
			claimed[n.ID] = true
			groups = append(groups, group{
				id:      "__group_" + n.ID,
				virtual: true,
				members: []string{n.ID},
			})
		}
	}
	return groups
}

func collectMembers(g *flow.Graph, sg flow.Subgraph, claimed map[string]bool, members *[]string) {
	for _, id := range sg.Nodes {
		if _, ok := g.Node(id); !ok {
			continue
		}
		if claimed[id] {
			continue
		}
		claimed[id] = true
		*members = append(*members, id)
	}
	for _, child := range sg.Children {
		collectMembers(g, child, claimed, members)
	}
}

// subgraphGraph builds the standalone graph of one group: its member
// nodes in claim order plus every declared edge with both endpoints
// inside the group.
func subgraphGraph(g *flow.Graph, members []string) *flow.Graph {
	sub := flow.New(g.Direction)
	inside := make(map[string]bool, len(members))
	for _, id := range members {
		n, _ := g.Node(id)
		if err := sub.AddNode(n); err != nil {
			panic(fmt.Sprintf("layout: grouped: add member %s: %v", id, err))
		}
		inside[id] = true
	}
	for _, e := range g.Edges() {
		if inside[e.From] && inside[e.To] {
			if err := sub.AddEdge(e); err != nil {
				panic(fmt.Sprintf("layout: grouped: add edge %s->%s: %v", e.From, e.To, err))
			}
		}
	}
	return sub
}
