package io

import (
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/flowdraw/pkg/flow"
	"github.com/matzehuels/flowdraw/pkg/graph"
)

// ReadJSON decodes a JSON graph from r into a flowchart graph.
//
// ReadJSON returns an error if:
//   - The JSON is malformed or invalid
//   - A node has a duplicate or empty ID
//   - An edge references an unknown node ID
//   - A direction, shape, style, or arrow keyword is unknown
//
// Errors are wrapped with context describing which node or edge caused
// the problem. The returned graph is independent of r and can be modified
// safely after ReadJSON returns. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*flow.Graph, error) {
	return graph.ReadGraph(r)
}

// ImportJSON reads a JSON file at path and returns the decoded graph.
//
// ImportJSON opens the file, decodes it using [ReadJSON], and closes the
// file. Errors wrap the underlying cause with the file path for context.
func ImportJSON(path string) (*flow.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
