package io

import (
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/flowdraw/pkg/flow"
	"github.com/matzehuels/flowdraw/pkg/graph"
)

// WriteJSON encodes a flowchart graph as JSON and writes it to w.
// The output includes direction, nodes, edges, and subgraphs in
// declaration order and can be re-imported with [ReadJSON].
func WriteJSON(g *flow.Graph, w io.Writer) error {
	return graph.WriteGraph(g, w)
}

// ExportJSON writes a flowchart graph to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(g *flow.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
