package flow_test

import (
	"fmt"

	"github.com/matzehuels/flowdraw/pkg/flow"
)

func ExampleGraph() {
	// Build a small request-handling flowchart by hand.
	g := flow.New(flow.DirectionTB)
	_ = g.AddNode(flow.Node{ID: "req", Label: "Request", Shape: flow.ShapeRound})
	_ = g.AddNode(flow.Node{ID: "check", Label: "Valid?", Shape: flow.ShapeDiamond})
	_ = g.AddNode(flow.Node{ID: "ok", Label: "Handle"})
	_ = g.AddEdge(flow.Edge{From: "req", To: "check", Arrow: flow.ArrowForward})
	_ = g.AddEdge(flow.Edge{From: "check", To: "ok", Label: "yes", Arrow: flow.ArrowForward})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Direction:", g.Direction)
	// Output:
	// Nodes: 3
	// Edges: 2
	// Direction: TB
}

func ExampleGraph_UpsertNode() {
	// Parsers mention nodes before their full declaration appears.
	g := flow.New(flow.DirectionLR)
	g.UpsertNode("db", "", flow.ShapePlain)
	g.UpsertNode("db", "Database", flow.ShapeCircle)

	n, _ := g.Node("db")
	fmt.Println(n.DisplayLabel(), n.Shape)
	// Output:
	// Database circle
}
