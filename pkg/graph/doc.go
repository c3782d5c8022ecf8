// Package graph provides serialization types for flowchart graphs and
// layouts.
//
// This package defines the canonical wire format for flowdraw's graph
// data, used for JSON files, API responses, caching, and storage. The
// types carry both json and bson tags so the same structures serve files
// and MongoDB documents.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Graph], [Layout]: serialization types (this package)
//   - pkg/flow.Graph: internal graph representation
//   - pkg/layout.Graph: internal layout (positions, routes)
//
// Use [FromFlow]/[ToFlow] and [FromLayout] to convert between them.
//
// # Graph Serialization
//
// Graphs use a node-link JSON format with optional groups:
//
//	{
//	  "direction": "TB",
//	  "nodes": [{"id": "a", "label": "Start"}, {"id": "b"}],
//	  "edges": [{"from": "a", "to": "b", "arrow": "forward"}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("flow.json")     // File → flow.Graph
//	graph.WriteGraphFile(g, "out.json")          // flow.Graph → File
//	data, _ := graph.MarshalGraph(g)             // flow.Graph → []byte
//
// # Ordering
//
// Declaration order is significant for layout reproducibility, so
// conversions preserve it instead of sorting. Serializing the same graph
// always yields identical bytes.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
