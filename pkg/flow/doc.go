// Package flow defines the abstract flowchart model consumed by the
// layout engine and produced by the parser.
//
// # Overview
//
// A [Graph] holds declared nodes and directed edges in declaration order,
// a flow [Direction], and optional [Subgraph] groupings. Declaration order
// is part of the contract: the layout pipeline traverses nodes and edges
// in the order they appear here, which is what makes layouts reproducible.
//
// # Basic Usage
//
// Build a graph with [New], declare nodes with [Graph.AddNode], and
// connect them with [Graph.AddEdge]:
//
//	g := flow.New(flow.DirectionTB)
//	g.AddNode(flow.Node{ID: "start", Label: "Start", Shape: flow.ShapeRound})
//	g.AddNode(flow.Node{ID: "work", Label: "Do work"})
//	g.AddEdge(flow.Edge{From: "start", To: "work", Arrow: flow.ArrowForward})
//
// The parser in the parse subpackage produces graphs from flowchart
// source text using [Graph.UpsertNode], which tolerates nodes being
// mentioned before they are fully declared.
//
// # Validation
//
// [Graph.AddNode] and [Graph.AddEdge] fail fast on duplicate IDs and
// unknown endpoints. [Graph.Validate] re-checks a fully assembled graph,
// which matters for graphs decoded from JSON rather than built through
// the constructor API.
package flow
