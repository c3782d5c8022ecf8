package svg

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/flowdraw/pkg/flow"
	"github.com/matzehuels/flowdraw/pkg/layout"
)

func fixture(t *testing.T) *layout.Graph {
	t.Helper()
	g := flow.New(flow.DirectionTB)
	_ = g.AddNode(flow.Node{ID: "in", Label: "Input", Shape: flow.ShapeRound})
	_ = g.AddNode(flow.Node{ID: "check", Label: "Valid?", Shape: flow.ShapeDiamond})
	_ = g.AddNode(flow.Node{ID: "out", Label: "Output <ok>"})
	_ = g.AddEdge(flow.Edge{From: "in", To: "check", Arrow: flow.ArrowForward})
	_ = g.AddEdge(flow.Edge{From: "check", To: "out", Label: "yes", Style: flow.EdgeDotted, Arrow: flow.ArrowForward})
	lay, err := layout.Flowchart(g, layout.DefaultStyle())
	if err != nil {
		t.Fatalf("Flowchart() error = %v", err)
	}
	return lay
}

func TestRender_Document(t *testing.T) {
	out := Render(fixture(t))
	doc := string(out)

	if !strings.HasPrefix(doc, "<svg xmlns=") {
		t.Errorf("output does not start with an svg element:\n%.100s", doc)
	}
	if !strings.HasSuffix(strings.TrimSpace(doc), "</svg>") {
		t.Error("output not closed")
	}
	for _, want := range []string{
		`rx=`,                     // rounded input node
		`<polygon`,                // diamond
		`marker-end="url(#arrow)`, // directed edges
		`stroke-dasharray="4,4"`,  // dotted edge
		`>yes</text>`,             // edge label
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRender_EscapesLabels(t *testing.T) {
	doc := string(Render(fixture(t)))
	if strings.Contains(doc, "Output <ok>") {
		t.Error("raw label angle brackets leaked into markup")
	}
	if !strings.Contains(doc, "Output &lt;ok&gt;") {
		t.Error("label not entity-escaped")
	}
}

func TestRender_Options(t *testing.T) {
	lay := fixture(t)
	plain := Render(lay)
	scaled := Render(lay, WithScale(2), WithPadding(0), WithFont("sans-serif", 16))

	if bytes.Equal(plain, scaled) {
		t.Error("options had no effect")
	}
	if !strings.Contains(string(scaled), `font-family="sans-serif"`) {
		t.Error("font option not applied")
	}
}

func TestRender_GroupBoxes(t *testing.T) {
	g := flow.New(flow.DirectionTB)
	_ = g.AddNode(flow.Node{ID: "a", Label: "A"})
	_ = g.AddNode(flow.Node{ID: "b", Label: "B"})
	_ = g.AddEdge(flow.Edge{From: "a", To: "b"})
	g.Subgraphs = []flow.Subgraph{{ID: "grp", Title: "Group", Nodes: []string{"a", "b"}}}
	lay, err := layout.Flowchart(g, layout.DefaultStyle())
	if err != nil {
		t.Fatalf("Flowchart() error = %v", err)
	}

	with := string(Render(lay))
	if !strings.Contains(with, ">Group</text>") {
		t.Error("group title missing")
	}
	without := string(Render(lay, WithoutGroupBoxes()))
	if strings.Contains(without, ">Group</text>") {
		t.Error("WithoutGroupBoxes still rendered the group")
	}
}

func TestRender_Deterministic(t *testing.T) {
	lay := fixture(t)
	if !bytes.Equal(Render(lay), Render(lay)) {
		t.Error("identical layout rendered differently")
	}
}
