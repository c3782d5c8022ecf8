package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/flowdraw/pkg/flow"
	"github.com/matzehuels/flowdraw/pkg/flow/parse"
	"github.com/matzehuels/flowdraw/pkg/source"
)

// Parse reads and parses flowchart source into a graph.
// Inline text (opts.Text) takes precedence over opts.Source; otherwise
// the source spec is resolved as a path, stdin, or URL.
func Parse(ctx context.Context, opts Options) (*flow.Graph, error) {
	text, name, err := readSource(ctx, opts)
	if err != nil {
		return nil, err
	}

	return parseText(text, name, opts)
}

// parseText parses source text, naming the origin in errors.
func parseText(text, name string, opts Options) (*flow.Graph, error) {
	g, err := parse.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	applyDirection(g, opts)
	return g, nil
}

// readSource resolves the source text and a display name for errors.
func readSource(ctx context.Context, opts Options) (string, string, error) {
	if opts.Text != "" {
		return opts.Text, "inline", nil
	}
	r := opts.Reader
	if r == nil {
		r = &source.Reader{}
	}
	return r.Read(ctx, opts.Source)
}

// applyDirection overrides the parsed direction when requested.
// The override is validated by ValidateForParse before this runs.
func applyDirection(g *flow.Graph, opts Options) {
	if opts.Direction == "" {
		return
	}
	if dir, ok := flow.ParseDirection(opts.Direction); ok {
		g.Direction = dir
	}
}
