package graph

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/flowdraw/pkg/flow"
	"github.com/matzehuels/flowdraw/pkg/layout"
)

func testFlowGraph(t *testing.T) *flow.Graph {
	t.Helper()
	g := flow.New(flow.DirectionLR)
	if err := g.AddNode(flow.Node{ID: "a", Label: "Alpha", Shape: flow.ShapeRound}); err != nil {
		t.Fatalf("AddNode() error = %v", err)
	}
	if err := g.AddNode(flow.Node{ID: "b", Width: 100, Height: 50}); err != nil {
		t.Fatalf("AddNode() error = %v", err)
	}
	if err := g.AddEdge(flow.Edge{From: "a", To: "b", Label: "next", Style: flow.EdgeThick, Arrow: flow.ArrowForward}); err != nil {
		t.Fatalf("AddEdge() error = %v", err)
	}
	g.Subgraphs = []flow.Subgraph{{ID: "grp", Title: "Group", Nodes: []string{"a"}}}
	return g
}

func TestGraph_RoundTrip(t *testing.T) {
	g := testFlowGraph(t)

	data, err := MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph() error = %v", err)
	}
	back, err := ReadGraph(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadGraph() error = %v", err)
	}

	if back.Direction != flow.DirectionLR {
		t.Errorf("direction = %v, want LR", back.Direction)
	}
	if !reflect.DeepEqual(back.Nodes(), g.Nodes()) {
		t.Errorf("nodes = %+v, want %+v", back.Nodes(), g.Nodes())
	}
	if !reflect.DeepEqual(back.Edges(), g.Edges()) {
		t.Errorf("edges = %+v, want %+v", back.Edges(), g.Edges())
	}
	if !reflect.DeepEqual(back.Subgraphs, g.Subgraphs) {
		t.Errorf("subgraphs = %+v, want %+v", back.Subgraphs, g.Subgraphs)
	}

	// Defaults stay off the wire.
	doc := string(data)
	if strings.Contains(doc, `"shape": "plain"`) || strings.Contains(doc, `"style": "solid"`) {
		t.Errorf("default keywords serialized:\n%s", doc)
	}
}

func TestGraph_FileRoundTrip(t *testing.T) {
	g := testFlowGraph(t)
	path := filepath.Join(t.TempDir(), "flow.json")

	if err := WriteGraphFile(g, path); err != nil {
		t.Fatalf("WriteGraphFile() error = %v", err)
	}
	back, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile() error = %v", err)
	}
	if back.NodeCount() != 2 || back.EdgeCount() != 1 {
		t.Errorf("read back %d nodes, %d edges", back.NodeCount(), back.EdgeCount())
	}
}

func TestToFlow_Invalid(t *testing.T) {
	tests := []struct {
		name string
		g    Graph
	}{
		{"bad direction", Graph{Direction: "XX"}},
		{"bad shape", Graph{Nodes: []Node{{ID: "a", Shape: "star"}}}},
		{"bad style", Graph{
			Nodes: []Node{{ID: "a"}, {ID: "b"}},
			Edges: []Edge{{From: "a", To: "b", Style: "wavy"}},
		}},
		{"bad arrow", Graph{
			Nodes: []Node{{ID: "a"}, {ID: "b"}},
			Edges: []Edge{{From: "a", To: "b", Arrow: "both"}},
		}},
		{"dangling edge", Graph{
			Nodes: []Node{{ID: "a"}},
			Edges: []Edge{{From: "a", To: "ghost"}},
		}},
		{"duplicate node", Graph{Nodes: []Node{{ID: "a"}, {ID: "a"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ToFlow(tt.g); err == nil {
				t.Error("ToFlow() succeeded, want error")
			}
		})
	}
}

func TestLayout_RoundTrip(t *testing.T) {
	lay, err := layout.Flowchart(testFlowGraph(t), layout.DefaultStyle())
	if err != nil {
		t.Fatalf("Flowchart() error = %v", err)
	}
	ser := FromLayout(lay)

	if ser.Direction != "LR" {
		t.Errorf("direction = %q, want LR", ser.Direction)
	}
	if len(ser.Nodes) != 2 || len(ser.Edges) != 1 {
		t.Fatalf("serialized %d nodes, %d edges", len(ser.Nodes), len(ser.Edges))
	}
	if len(ser.Edges[0].Route) != len(lay.Edges[0].Route) {
		t.Errorf("route length = %d, want %d", len(ser.Edges[0].Route), len(lay.Edges[0].Route))
	}

	data, err := MarshalLayout(ser)
	if err != nil {
		t.Fatalf("MarshalLayout() error = %v", err)
	}
	back, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout() error = %v", err)
	}
	if !reflect.DeepEqual(back, ser) {
		t.Errorf("layout round trip diverged:\n got %+v\nwant %+v", back, ser)
	}
}

func TestLayout_FileRoundTrip(t *testing.T) {
	lay, err := layout.Flowchart(testFlowGraph(t), layout.DefaultStyle())
	if err != nil {
		t.Fatalf("Flowchart() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteLayoutFile(FromLayout(lay), path); err != nil {
		t.Fatalf("WriteLayoutFile() error = %v", err)
	}
	back, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile() error = %v", err)
	}
	if back.Width != lay.Width || back.Height != lay.Height {
		t.Errorf("extent = %gx%g, want %gx%g", back.Width, back.Height, lay.Width, lay.Height)
	}
}
