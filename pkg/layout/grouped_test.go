package layout

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/flowdraw/pkg/flow"
)

func groupedFixture(t *testing.T, dir flow.Direction) *flow.Graph {
	t.Helper()
	g := buildGraph(t, dir,
		[]string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"c", "d"}, {"b", "c"}},
	)
	g.Subgraphs = []flow.Subgraph{
		{ID: "left", Title: "Left Side", Nodes: []string{"a", "b"}},
		{ID: "right", Nodes: []string{"c", "d"}},
	}
	return g
}

func TestFlowchart_Grouped(t *testing.T) {
	out := mustLayout(t, groupedFixture(t, flow.DirectionTB))

	if len(out.Nodes) != 4 {
		t.Fatalf("got %d nodes, want 4", len(out.Nodes))
	}
	for _, n := range out.Nodes {
		if n.X-n.Width/2 < -pointTolerance || n.Y-n.Height/2 < -pointTolerance {
			t.Errorf("node %s box leaves the positive quadrant at (%g, %g)", n.ID, n.X, n.Y)
		}
	}

	var cross, intra int
	for _, e := range out.Edges {
		if e.Cross {
			cross++
			if e.From != "b" || e.To != "c" {
				t.Errorf("cross edge = %s->%s, want b->c", e.From, e.To)
			}
			if len(e.Route) != 4 {
				t.Errorf("cross edge route has %d points, want 4", len(e.Route))
			}
			for i, p := range e.Route {
				if p.X < -pointTolerance || p.Y < -pointTolerance {
					t.Errorf("cross route point %d = (%g, %g) negative", i, p.X, p.Y)
				}
			}
		} else {
			intra++
		}
	}
	if cross != 1 || intra != 2 {
		t.Errorf("got %d cross and %d intra edges, want 1 and 2", cross, intra)
	}

	// Groups line up left to right for vertical flow.
	a, _ := out.Node("a")
	c, _ := out.Node("c")
	if c.X <= a.X {
		t.Errorf("second group not right of first: a.X=%g, c.X=%g", a.X, c.X)
	}
}

func TestFlowchart_GroupedDeterministic(t *testing.T) {
	first := mustLayout(t, groupedFixture(t, flow.DirectionLR))
	second := mustLayout(t, groupedFixture(t, flow.DirectionLR))
	if !reflect.DeepEqual(first, second) {
		t.Error("identical grouped input produced different layouts")
	}
}

// A node claimed by two subgraphs belongs to the first; empty subgraph
// declarations do not force grouped mode.
func TestCollectGroups_FirstClaimWins(t *testing.T) {
	g := buildGraph(t, flow.DirectionTB, []string{"a", "b"}, nil)
	g.Subgraphs = []flow.Subgraph{
		{ID: "one", Nodes: []string{"a"}},
		{ID: "two", Nodes: []string{"a", "b"}},
	}
	groups := collectGroups(g)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if !reflect.DeepEqual(groups[0].members, []string{"a"}) {
		t.Errorf("group one members = %v, want [a]", groups[0].members)
	}
	if !reflect.DeepEqual(groups[1].members, []string{"b"}) {
		t.Errorf("group two members = %v, want [b]", groups[1].members)
	}
}

func TestSubgraphBounds(t *testing.T) {
	out := mustLayout(t, groupedFixture(t, flow.DirectionTB))
	bounds := SubgraphBounds(out, 10)
	if len(bounds) != 2 {
		t.Fatalf("got %d bounds, want 2", len(bounds))
	}
	if bounds[0].Path != "left" || bounds[0].Label != "Left Side" {
		t.Errorf("bounds[0] = %q/%q, want left/Left Side", bounds[0].Path, bounds[0].Label)
	}
	if bounds[1].Label != "right" {
		t.Errorf("untitled subgraph label = %q, want ID fallback", bounds[1].Label)
	}

	for _, b := range bounds {
		if b.Width() <= 0 || b.Height() <= 0 {
			t.Errorf("bounds %s degenerate: %gx%g", b.Path, b.Width(), b.Height())
		}
	}
	a, _ := out.Node("a")
	left := bounds[0]
	if a.X-a.Width/2 < left.MinX || a.X+a.Width/2 > left.MaxX {
		t.Errorf("node a outside its group bounds")
	}
	if left.MinX > a.X-a.Width/2-10+pointTolerance {
		t.Errorf("bounds padding not applied: node edge %g, bounds min %g", a.X-a.Width/2, left.MinX)
	}
}

func TestSubgraphBounds_Nested(t *testing.T) {
	g := buildGraph(t, flow.DirectionTB, []string{"a", "b"}, [][2]string{{"a", "b"}})
	g.Subgraphs = []flow.Subgraph{{
		ID:    "outer",
		Nodes: []string{"a"},
		Children: []flow.Subgraph{
			{ID: "inner", Nodes: []string{"b"}},
		},
	}}
	out := mustLayout(t, g)
	bounds := SubgraphBounds(out, 5)
	if len(bounds) != 2 {
		t.Fatalf("got %d bounds, want 2", len(bounds))
	}
	if bounds[1].Path != "outer/inner" {
		t.Errorf("nested path = %q, want outer/inner", bounds[1].Path)
	}
	// The outer rectangle covers the inner one.
	outer, inner := bounds[0], bounds[1]
	if inner.MinX < outer.MinX || inner.MaxX > outer.MaxX || inner.MinY < outer.MinY || inner.MaxY > outer.MaxY {
		t.Error("outer bounds do not contain nested member bounds")
	}
}

func TestSuggestCanvasSize(t *testing.T) {
	out := mustLayout(t, buildGraph(t, flow.DirectionTB, []string{"a"}, nil))
	w, h := SuggestCanvasSize(out, 2, 16)
	wantW := int(math.Ceil(out.Width*2 + 32))
	wantH := int(math.Ceil(out.Height*2 + 32))
	if w != wantW || h != wantH {
		t.Errorf("SuggestCanvasSize() = %dx%d, want %dx%d", w, h, wantW, wantH)
	}

	empty := &Graph{}
	if w, h := SuggestCanvasSize(empty, 1, 4); w != 9 || h != 9 {
		t.Errorf("empty canvas = %dx%d, want 9x9", w, h)
	}
}
