package layout

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/flowdraw/pkg/flow"
)

// buildGraph declares nodes and edges in order; edges are "from>to" pairs.
func buildGraph(t *testing.T, dir flow.Direction, nodes []string, edges [][2]string) *flow.Graph {
	t.Helper()
	g := flow.New(dir)
	for _, id := range nodes {
		if err := g.AddNode(flow.Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%s) error = %v", id, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(flow.Edge{From: e[0], To: e[1], Arrow: flow.ArrowForward}); err != nil {
			t.Fatalf("AddEdge(%s->%s) error = %v", e[0], e[1], err)
		}
	}
	return g
}

func mustLayout(t *testing.T, g *flow.Graph) *Graph {
	t.Helper()
	out, err := Flowchart(g, DefaultStyle())
	if err != nil {
		t.Fatalf("Flowchart() error = %v", err)
	}
	return out
}

func TestFlowchart_EmptyGraph(t *testing.T) {
	out := mustLayout(t, flow.New(flow.DirectionTB))
	if len(out.Nodes) != 0 || len(out.Edges) != 0 {
		t.Errorf("empty graph produced %d nodes, %d edges", len(out.Nodes), len(out.Edges))
	}
	if out.Width != 0 || out.Height != 0 {
		t.Errorf("empty graph extent = %gx%g, want 0x0", out.Width, out.Height)
	}
}

func TestFlowchart_SingleNode(t *testing.T) {
	out := mustLayout(t, buildGraph(t, flow.DirectionTB, []string{"a"}, nil))
	if len(out.Nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(out.Nodes))
	}
	n := out.Nodes[0]
	if n.Layer != 0 || n.Order != 0 {
		t.Errorf("node placed at layer %d order %d, want 0/0", n.Layer, n.Order)
	}
	if n.X != n.Width/2 || n.Y != n.Height/2 {
		t.Errorf("node center = (%g, %g), want box corner at origin", n.X, n.Y)
	}
	if out.Width != n.Width || out.Height != n.Height {
		t.Errorf("extent = %gx%g, want %gx%g", out.Width, out.Height, n.Width, n.Height)
	}
}

func TestFlowchart_UnknownOrdering(t *testing.T) {
	style := DefaultStyle()
	style.Ordering = "genetic"
	_, err := Flowchart(flow.New(flow.DirectionTB), style)
	if !errors.Is(err, ErrUnknownOrdering) {
		t.Errorf("Flowchart() error = %v, want ErrUnknownOrdering", err)
	}
}

func TestFlowchart_LayersFollowEdges(t *testing.T) {
	out := mustLayout(t, buildGraph(t, flow.DirectionTB,
		[]string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"a", "d"}, {"d", "c"}},
	))
	layers := map[string]int{}
	for _, n := range out.Nodes {
		layers[n.ID] = n.Layer
	}
	want := map[string]int{"a": 0, "b": 1, "d": 1, "c": 2}
	if !reflect.DeepEqual(layers, want) {
		t.Errorf("layers = %v, want %v", layers, want)
	}
}

// Longest-path layering: a node with both a short and a long path from the
// root sits below the longest one.
func TestFlowchart_LongestPathWins(t *testing.T) {
	out := mustLayout(t, buildGraph(t, flow.DirectionTB,
		[]string{"a", "b", "c"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"a", "c"}},
	))
	n, _ := out.Node("c")
	if n.Layer != 2 {
		t.Errorf("c placed at layer %d, want 2", n.Layer)
	}
}

func TestFlowchart_CycleBreaking(t *testing.T) {
	out := mustLayout(t, buildGraph(t, flow.DirectionTB,
		[]string{"a", "b", "c"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}},
	))

	layers := map[string]int{}
	for _, n := range out.Nodes {
		layers[n.ID] = n.Layer
	}
	reversed := 0
	for _, e := range out.Edges {
		if e.Reversed {
			reversed++
			// Declared endpoints survive flipping.
			if e.From != "c" || e.To != "a" {
				t.Errorf("reversed edge = %s->%s, want c->a", e.From, e.To)
			}
			continue
		}
		if layers[e.To] <= layers[e.From] {
			t.Errorf("edge %s->%s not monotonic: layers %d -> %d", e.From, e.To, layers[e.From], layers[e.To])
		}
	}
	if reversed != 1 {
		t.Errorf("reversed %d edges, want 1", reversed)
	}
}

func TestFlowchart_SelfLoop(t *testing.T) {
	out := mustLayout(t, buildGraph(t, flow.DirectionTB,
		[]string{"a", "b"},
		[][2]string{{"a", "a"}, {"a", "b"}},
	))
	var loop Edge
	for _, e := range out.Edges {
		if e.From == "a" && e.To == "a" {
			loop = e
		}
	}
	if !loop.Reversed {
		t.Error("self-loop not marked reversed")
	}
	if len(loop.Route) != 4 {
		t.Fatalf("self-loop route has %d points, want 4", len(loop.Route))
	}
	n, _ := out.Node("a")
	for i, p := range loop.Route {
		if p.X < n.X+n.Width/2-pointTolerance {
			t.Errorf("self-loop point %d at x=%g, want right of node edge %g", i, p.X, n.X+n.Width/2)
		}
	}
}

// An edge spanning k layers routes through k-1 dummy positions: waypoints
// are the two ports plus one point per intermediate layer.
func TestFlowchart_DummyWaypoints(t *testing.T) {
	out := mustLayout(t, buildGraph(t, flow.DirectionTB,
		[]string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"a", "d"}},
	))
	for _, e := range out.Edges {
		want := 2
		if e.From == "a" && e.To == "d" {
			want = 4 // spans three layers, two dummies
		}
		if len(e.Route) != want {
			t.Errorf("route %s->%s has %d points, want %d", e.From, e.To, len(e.Route), want)
		}
	}
	// Dummy nodes never leak into the node list.
	if len(out.Nodes) != 4 {
		t.Errorf("got %d nodes, want 4", len(out.Nodes))
	}
}

// A reversed edge spanning several layers is normalized along its flipped
// direction and still gets its dummy waypoints.
func TestFlowchart_ReversedLongEdge(t *testing.T) {
	out := mustLayout(t, buildGraph(t, flow.DirectionTB,
		[]string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "a"}},
	))
	for _, e := range out.Edges {
		if e.From != "d" || e.To != "a" {
			continue
		}
		if !e.Reversed {
			t.Fatal("back edge d->a not reversed")
		}
		if len(e.Route) != 4 {
			t.Errorf("reversed edge route has %d points, want 4", len(e.Route))
		}
		// The route still starts at the declared source.
		d, _ := out.Node("d")
		if math.Abs(e.Route[0].X-d.X) > d.Width {
			t.Errorf("route starts at x=%g, far from declared source %g", e.Route[0].X, d.X)
		}
	}
}

func TestFlowchart_Deterministic(t *testing.T) {
	build := func() *flow.Graph {
		return buildGraph(t, flow.DirectionLR,
			[]string{"a", "b", "c", "d", "e"},
			[][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}, {"d", "e"}, {"a", "e"}},
		)
	}
	first := mustLayout(t, build())
	second := mustLayout(t, build())
	if !reflect.DeepEqual(first, second) {
		t.Error("identical input produced different layouts")
	}
}

func TestFlowchart_DenseOrders(t *testing.T) {
	out := mustLayout(t, buildGraph(t, flow.DirectionTB,
		[]string{"a", "b", "c", "d", "e", "f"},
		[][2]string{{"a", "c"}, {"a", "d"}, {"b", "d"}, {"b", "e"}, {"c", "f"}, {"d", "f"}},
	))
	byLayer := map[int][]int{}
	for _, n := range out.Nodes {
		byLayer[n.Layer] = append(byLayer[n.Layer], n.Order)
	}
	for layer, orders := range byLayer {
		seen := make([]bool, len(orders))
		for _, o := range orders {
			if o < 0 || o >= len(orders) || seen[o] {
				t.Fatalf("layer %d orders %v not dense", layer, orders)
			}
			seen[o] = true
		}
	}
}

// Nodes within a layer keep at least the configured gap and never overlap.
func TestFlowchart_NoOverlapWithinLayer(t *testing.T) {
	for _, compact := range []bool{false, true} {
		style := DefaultStyle()
		style.Compact = compact
		g := buildGraph(t, flow.DirectionTB,
			[]string{"a", "b", "c", "d", "e", "f", "g"},
			[][2]string{{"a", "c"}, {"a", "d"}, {"b", "e"}, {"b", "f"}, {"c", "g"}, {"f", "g"}},
		)
		out, err := Flowchart(g, style)
		if err != nil {
			t.Fatalf("Flowchart(compact=%v) error = %v", compact, err)
		}
		byLayer := map[int][]Node{}
		for _, n := range out.Nodes {
			byLayer[n.Layer] = append(byLayer[n.Layer], n)
		}
		for layer, nodes := range byLayer {
			for i := range nodes {
				for j := i + 1; j < len(nodes); j++ {
					a, b := nodes[i], nodes[j]
					gap := math.Abs(a.X-b.X) - a.Width/2 - b.Width/2
					if gap < style.NodeGap-pointTolerance {
						t.Errorf("compact=%v layer %d: %s and %s gap = %g, want >= %g",
							compact, layer, a.ID, b.ID, gap, style.NodeGap)
					}
				}
			}
		}
	}
}

// Barycenter ordering untangles the classic two-edge crossing.
func TestFlowchart_CrossingReduction(t *testing.T) {
	out := mustLayout(t, buildGraph(t, flow.DirectionTB,
		[]string{"a", "b", "x", "y"},
		[][2]string{{"a", "y"}, {"b", "x"}},
	))
	x, _ := out.Node("x")
	y, _ := out.Node("y")
	a, _ := out.Node("a")
	b, _ := out.Node("b")
	if (a.Order < b.Order) != (y.Order < x.Order) {
		t.Errorf("crossing survived: a=%d b=%d x=%d y=%d", a.Order, b.Order, x.Order, y.Order)
	}
}

func TestFlowchart_ExhaustiveOrdering(t *testing.T) {
	style := DefaultStyle()
	style.Ordering = OrderingExhaustive
	g := buildGraph(t, flow.DirectionTB,
		[]string{"a", "b", "c", "x", "y", "z"},
		[][2]string{{"a", "z"}, {"b", "y"}, {"c", "x"}, {"a", "x"}},
	)
	out, err := Flowchart(g, style)
	if err != nil {
		t.Fatalf("Flowchart() error = %v", err)
	}
	// The exhaustive pass may only improve on the barycenter result.
	baseline := mustLayout(t, buildGraph(t, flow.DirectionTB,
		[]string{"a", "b", "c", "x", "y", "z"},
		[][2]string{{"a", "z"}, {"b", "y"}, {"c", "x"}, {"a", "x"}},
	))
	if got, base := countLayoutCrossings(out), countLayoutCrossings(baseline); got > base {
		t.Errorf("exhaustive ordering has %d crossings, barycenter %d", got, base)
	}
}

// countLayoutCrossings counts crossings between adjacent layers of a
// finished layout, using only single-layer edges.
func countLayoutCrossings(g *Graph) int {
	pos := map[string]Node{}
	for _, n := range g.Nodes {
		pos[n.ID] = n
	}
	var pairs [][2]int
	for _, e := range g.Edges {
		from, to := pos[e.From], pos[e.To]
		if to.Layer-from.Layer == 1 {
			pairs = append(pairs, [2]int{from.Order, to.Order})
		}
	}
	return countPairCrossings(pairs)
}

func TestFlowchart_MirroredDirections(t *testing.T) {
	nodes := []string{"a", "b", "c", "d"}
	edges := [][2]string{{"a", "b"}, {"b", "c"}, {"b", "d"}}

	tb := mustLayout(t, buildGraph(t, flow.DirectionTB, nodes, edges))
	bt := mustLayout(t, buildGraph(t, flow.DirectionBT, nodes, edges))
	if tb.Width != bt.Width || tb.Height != bt.Height {
		t.Fatalf("TB extent %gx%g, BT extent %gx%g", tb.Width, tb.Height, bt.Width, bt.Height)
	}
	for _, n := range tb.Nodes {
		m, ok := bt.Node(n.ID)
		if !ok {
			t.Fatalf("node %s missing from BT layout", n.ID)
		}
		if m.X != n.X || math.Abs(m.Y-(tb.Height-n.Y)) > pointTolerance {
			t.Errorf("node %s: TB (%g, %g), BT (%g, %g), want vertical mirror", n.ID, n.X, n.Y, m.X, m.Y)
		}
	}

	lr := mustLayout(t, buildGraph(t, flow.DirectionLR, nodes, edges))
	rl := mustLayout(t, buildGraph(t, flow.DirectionRL, nodes, edges))
	for _, n := range lr.Nodes {
		m, _ := rl.Node(n.ID)
		if m.Y != n.Y || math.Abs(m.X-(lr.Width-n.X)) > pointTolerance {
			t.Errorf("node %s: LR (%g, %g), RL (%g, %g), want horizontal mirror", n.ID, n.X, n.Y, m.X, m.Y)
		}
	}
}

func TestFlowchart_HorizontalAxis(t *testing.T) {
	out := mustLayout(t, buildGraph(t, flow.DirectionLR,
		[]string{"a", "b"}, [][2]string{{"a", "b"}},
	))
	a, _ := out.Node("a")
	b, _ := out.Node("b")
	if b.X <= a.X {
		t.Errorf("LR flow: b.X = %g not right of a.X = %g", b.X, a.X)
	}
	if a.Layer != 0 || b.Layer != 1 {
		t.Errorf("layers = %d, %d, want 0, 1", a.Layer, b.Layer)
	}
}

// Two independent equal-length chains give the barycenter sweeps no
// crossings to remove; the ordering must settle instead of flip-flopping
// between sweeps, so any pass budget yields the same orders.
func TestFlowchart_OrderingStableAcrossPassBudgets(t *testing.T) {
	build := func() *flow.Graph {
		return buildGraph(t, flow.DirectionTB,
			[]string{"a1", "a2", "a3", "b1", "b2", "b3"},
			[][2]string{{"a1", "a2"}, {"a2", "a3"}, {"b1", "b2"}, {"b2", "b3"}},
		)
	}
	orders := func(passes int) map[string]int {
		style := DefaultStyle()
		style.Passes = passes
		out, err := Flowchart(build(), style)
		if err != nil {
			t.Fatalf("Flowchart(passes=%d) error = %v", passes, err)
		}
		m := map[string]int{}
		for _, n := range out.Nodes {
			m[n.ID] = n.Order
		}
		return m
	}

	base := orders(DefaultPasses)
	for _, passes := range []int{DefaultPasses + 1, 50, 101} {
		if got := orders(passes); !reflect.DeepEqual(got, base) {
			t.Errorf("passes=%d orders = %v, want %v (passes=%d)", passes, got, base, DefaultPasses)
		}
	}
}

func TestFlowchart_DisconnectedComponents(t *testing.T) {
	out := mustLayout(t, buildGraph(t, flow.DirectionTB,
		[]string{"a", "b", "x", "y"},
		[][2]string{{"a", "b"}, {"x", "y"}},
	))
	// Both roots share layer 0; components interleave on the shared grid.
	a, _ := out.Node("a")
	x, _ := out.Node("x")
	if a.Layer != 0 || x.Layer != 0 {
		t.Errorf("root layers = %d, %d, want 0, 0", a.Layer, x.Layer)
	}
	if a.X == x.X {
		t.Error("disconnected roots share a position")
	}
}

func TestFlowchart_SizeHintsRespected(t *testing.T) {
	g := buildGraph(t, flow.DirectionTB, []string{"a", "b"}, [][2]string{{"a", "b"}})
	g.SetNodeSize("a", 200, 80)
	out := mustLayout(t, g)
	a, _ := out.Node("a")
	if a.Width != 200 || a.Height != 80 {
		t.Errorf("explicit size = %gx%g, want 200x80", a.Width, a.Height)
	}
}

func TestFlowchart_InvalidGraph(t *testing.T) {
	g := buildGraph(t, flow.DirectionTB, []string{"a"}, nil)
	g.SetNodeSize("a", -1, 10)
	if _, err := Flowchart(g, DefaultStyle()); !errors.Is(err, flow.ErrInvalidNodeSize) {
		t.Errorf("Flowchart() error = %v, want ErrInvalidNodeSize", err)
	}
}

func TestEstimateNodeSize(t *testing.T) {
	style := DefaultStyle()
	w, h := EstimateNodeSize("x", style)
	if w != style.MinWidth || h != style.MinHeight {
		t.Errorf("tiny label size = %gx%g, want minimums %gx%g", w, h, style.MinWidth, style.MinHeight)
	}
	long := "a considerably longer node label"
	w, _ = EstimateNodeSize(long, style)
	want := float64(len(long))*style.CharWidth + 2*style.NodePaddingX
	if w != want {
		t.Errorf("long label width = %g, want %g", w, want)
	}
}

func TestCountPairCrossings(t *testing.T) {
	tests := []struct {
		name  string
		pairs [][2]int
		want  int
	}{
		{"empty", nil, 0},
		{"parallel", [][2]int{{0, 0}, {1, 1}}, 0},
		{"single crossing", [][2]int{{0, 1}, {1, 0}}, 1},
		{"shared endpoint", [][2]int{{0, 0}, {1, 0}}, 0},
		{"triple inversion", [][2]int{{0, 2}, {1, 1}, {2, 0}}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs := append([][2]int(nil), tt.pairs...)
			if got := countPairCrossings(pairs); got != tt.want {
				t.Errorf("countPairCrossings() = %d, want %d", got, tt.want)
			}
		})
	}
}
