// Package io provides JSON import and export for flowchart graphs.
//
// # Overview
//
// This package enables serialization of abstract flowcharts to and from
// the canonical JSON format defined in pkg/graph. The format is designed
// for:
//
//   - Integration with external tools that produce or consume graph data
//   - Caching of parsed diagrams for faster re-rendering
//   - Round-trip preservation: import, render, export, re-import identically
//
// # JSON Format
//
// The format has two required top-level arrays plus optional direction
// and subgraphs:
//
//	{
//	  "direction": "TB",
//	  "nodes": [
//	    {"id": "start", "label": "Start", "shape": "round"},
//	    {"id": "done"}
//	  ],
//	  "edges": [
//	    {"from": "start", "to": "done", "arrow": "forward"}
//	  ]
//	}
//
// # Import
//
// Use [ImportJSON] to read a graph from a file path, or [ReadJSON] to
// read from any io.Reader:
//
//	g, err := io.ImportJSON("flow.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Both functions validate the JSON structure and graph constraints (no
// duplicate node IDs, no dangling edges). Errors are wrapped with context
// about which node or edge caused the problem.
//
// # Export
//
// Use [ExportJSON] to write a graph to a file, or [WriteJSON] to write to
// any io.Writer. Declaration order is preserved, so exporting the same
// graph always yields identical bytes.
//
// # Concurrency
//
// All functions are safe to call concurrently with other readers of the
// same graph, but not with concurrent modifications. [ReadJSON] and
// [ImportJSON] create independent graph instances.
//
// # Layout Export
//
// This package exports the logical graph structure only. For computed
// positions and routes, serialize a [graph.Layout] instead.
//
// [graph.Layout]: github.com/matzehuels/flowdraw/pkg/graph.Layout
package io
