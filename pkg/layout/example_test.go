package layout_test

import (
	"fmt"

	"github.com/matzehuels/flowdraw/pkg/flow"
	"github.com/matzehuels/flowdraw/pkg/layout"
)

func ExampleFlowchart() {
	g := flow.New(flow.DirectionTB)
	_ = g.AddNode(flow.Node{ID: "start", Label: "Start"})
	_ = g.AddNode(flow.Node{ID: "work", Label: "Work"})
	_ = g.AddNode(flow.Node{ID: "done", Label: "Done"})
	_ = g.AddEdge(flow.Edge{From: "start", To: "work", Arrow: flow.ArrowForward})
	_ = g.AddEdge(flow.Edge{From: "work", To: "done", Arrow: flow.ArrowForward})

	out, err := layout.Flowchart(g, layout.DefaultStyle())
	if err != nil {
		fmt.Println("layout failed:", err)
		return
	}
	for _, n := range out.Nodes {
		fmt.Printf("%s: layer %d\n", n.ID, n.Layer)
	}
	fmt.Println("edges routed:", len(out.Edges))
	// Output:
	// start: layer 0
	// work: layer 1
	// done: layer 2
	// edges routed: 2
}

func ExampleEstimateNodeSize() {
	w, h := layout.EstimateNodeSize("Checkout", layout.DefaultStyle())
	fmt.Printf("%.0fx%.0f\n", w, h)
	// Output:
	// 80x40
}
