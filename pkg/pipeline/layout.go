package pipeline

import (
	"github.com/matzehuels/flowdraw/pkg/flow"
	"github.com/matzehuels/flowdraw/pkg/graph"
	"github.com/matzehuels/flowdraw/pkg/layout"
)

// GenerateLayout computes a serializable layout for a parsed graph.
// The result carries positioned nodes, routed edges, and the occupied
// extent, and round-trips through JSON for caching and the layout
// output format.
func GenerateLayout(g *flow.Graph, opts Options) (graph.Layout, error) {
	l, err := layout.Flowchart(g, opts.Style)
	if err != nil {
		return graph.Layout{}, err
	}
	return graph.FromLayout(l), nil
}
