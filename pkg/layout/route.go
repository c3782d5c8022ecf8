package layout

import (
	"math"
	"sort"
)

// pointTolerance collapses route points closer than this to their
// predecessor. Chains produce coincident points when a port sits exactly
// on a dummy column.
const pointTolerance = 0.01

// routeEdges produces one polyline per edge, in edge declaration order.
// The route runs from the declared source to the declared target even for
// reversed edges: the stored chain is traversed backwards in that case.
func (st *layoutState) routeEdges() [][]Point {
	start, end := st.portOffsets()
	routes := make([][]Point, len(st.edges))
	for i, e := range st.edges {
		if e.selfLoop() {
			routes[i] = st.routeSelfLoop(e.from)
			continue
		}
		routes[i] = st.routeChain(i, start[i], end[i])
	}
	return routes
}

// routeChain emits the waypoints of one edge: source exit port, every
// dummy center in travel order, target entry port.
func (st *layoutState) routeChain(ei int, startOff, endOff float64) []Point {
	seq := st.chainFromSource(ei)
	pts := make([]Point, 0, len(seq))
	for k, idx := range seq {
		n := st.nodes[idx]
		switch k {
		case 0:
			pts = appendPoint(pts, st.portPoint(n, st.nodes[seq[1]], startOff))
		case len(seq) - 1:
			pts = appendPoint(pts, st.portPoint(n, st.nodes[seq[k-1]], endOff))
		default:
			pts = appendPoint(pts, Point{X: n.x, Y: n.y})
		}
	}
	return pts
}

// chainFromSource returns the chain's node sequence starting at the
// declared source. Chains are stored from the logical source, so reversed
// edges read backwards.
func (st *layoutState) chainFromSource(ei int) []int {
	nodes := st.chains[ei].nodes
	if !st.edges[ei].reversed {
		return nodes
	}
	rev := make([]int, len(nodes))
	for i, idx := range nodes {
		rev[len(nodes)-1-i] = idx
	}
	return rev
}

// portPoint returns the boundary point of n on the side facing toward,
// shifted along the cross axis by the port offset.
func (st *layoutState) portPoint(n, toward workNode, off float64) Point {
	if st.dir.Horizontal() {
		x := n.x + n.width/2
		if toward.x < n.x {
			x = n.x - n.width/2
		}
		return Point{X: x, Y: n.y + off}
	}
	y := n.y + n.height/2
	if toward.y < n.y {
		y = n.y - n.height/2
	}
	return Point{X: n.x + off, Y: y}
}

// portOffsets computes per-edge cross-axis offsets at the source exit and
// target entry. A node's edges spread evenly across its face, ordered by
// where each edge heads next, so parallel edges leave through distinct
// ports instead of stacking on the center. Self-loops keep the center.
func (st *layoutState) portOffsets() (start, end []float64) {
	start = make([]float64, len(st.edges))
	end = make([]float64, len(st.edges))

	outgoing := make(map[int][]int)
	incoming := make(map[int][]int)
	for i, e := range st.edges {
		if e.selfLoop() {
			continue
		}
		outgoing[e.from] = append(outgoing[e.from], i)
		incoming[e.to] = append(incoming[e.to], i)
	}

	for node, edges := range outgoing {
		st.spreadPorts(edges, start, st.maxPortOffset(node), func(ei int) float64 {
			seq := st.chainFromSource(ei)
			return st.cross(seq[1])
		})
	}
	for node, edges := range incoming {
		st.spreadPorts(edges, end, st.maxPortOffset(node), func(ei int) float64 {
			seq := st.chainFromSource(ei)
			return st.cross(seq[len(seq)-2])
		})
	}
	return start, end
}

// maxPortOffset bounds how far a port may sit from the node center while
// staying clear of the padded label area.
func (st *layoutState) maxPortOffset(node int) float64 {
	n := st.nodes[node]
	if st.dir.Horizontal() {
		return math.Max(n.height/2-st.style.NodePaddingY, st.style.CharHeight)
	}
	return math.Max(n.width/2-st.style.NodePaddingX, st.style.CharWidth)
}

// spreadPorts distributes the given edges across [-maxOff, +maxOff],
// ordered by key with the edge index as tie-break. A single edge keeps the
// center.
func (st *layoutState) spreadPorts(edges []int, out []float64, maxOff float64, key func(int) float64) {
	if len(edges) < 2 {
		return
	}
	sort.SliceStable(edges, func(i, j int) bool {
		ki, kj := key(edges[i]), key(edges[j])
		if ki != kj {
			return ki < kj
		}
		return edges[i] < edges[j]
	})
	step := 2 * maxOff / float64(len(edges)-1)
	for i, ei := range edges {
		out[ei] = -maxOff + float64(i)*step
	}
}

// routeSelfLoop draws a rectangular detour beside the node: out the right
// face and back for vertical flow, below the node for horizontal flow.
func (st *layoutState) routeSelfLoop(node int) []Point {
	n := st.nodes[node]
	if st.dir.Horizontal() {
		span := math.Max(1.5*st.style.CharWidth, 2*st.style.NodePaddingX)
		depth := math.Max(st.style.NodeGap, 2*st.style.CharHeight)
		bottom := n.y + n.height/2
		return []Point{
			{X: n.x - span/2, Y: bottom},
			{X: n.x - span/2, Y: bottom + depth},
			{X: n.x + span/2, Y: bottom + depth},
			{X: n.x + span/2, Y: bottom},
		}
	}
	span := math.Max(1.5*st.style.CharHeight, 2*st.style.NodePaddingY)
	depth := math.Max(st.style.NodeGap, 3*st.style.CharWidth)
	right := n.x + n.width/2
	return []Point{
		{X: right, Y: n.y + span/2},
		{X: right + depth, Y: n.y + span/2},
		{X: right + depth, Y: n.y - span/2},
		{X: right, Y: n.y - span/2},
	}
}

func appendPoint(pts []Point, p Point) []Point {
	if len(pts) > 0 {
		last := pts[len(pts)-1]
		if math.Abs(last.X-p.X) < pointTolerance && math.Abs(last.Y-p.Y) < pointTolerance {
			return pts
		}
	}
	return append(pts, p)
}
