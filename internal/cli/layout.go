package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowdraw/pkg/flow"
	"github.com/matzehuels/flowdraw/pkg/graph"
	pkgio "github.com/matzehuels/flowdraw/pkg/io"
	"github.com/matzehuels/flowdraw/pkg/pipeline"
)

// layoutCommand creates the layout command for computing diagram layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout <diagram-or-graph.json>",
		Short: "Compute a diagram layout",
		Long: `Compute a diagram layout.

The input is either flowchart source (file, "-" for stdin, URL) or a
graph.json file produced by 'flowdraw parse'. The output is a
layout.json file (same format as 'render -f json') with positioned
nodes and routed edges.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	cmd.Flags().StringVarP(&opts.Direction, "direction", "d", "", "override flow direction: TB, BT, LR, RL")
	cmd.Flags().StringVar(&opts.Style.Ordering, "ordering", "", "ordering strategy: barycenter (default), exhaustive")
	cmd.Flags().IntVar(&opts.Style.Passes, "passes", 0, "crossing-reduction sweep budget")
	cmd.Flags().BoolVar(&opts.Style.Compact, "compact", false, "pull nodes toward neighbors after placement")

	return cmd
}

// runLayout loads or parses the input, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	opts, err := c.pipelineOptions(opts)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, err := c.loadGraph(ctx, runner, input, &opts)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	l, cacheHit, err := runner.GenerateLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	path := outputPath(output, input, ".layout.json")
	if err := graph.WriteLayoutFile(l, path); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}

	printSuccess("Layout complete")
	printFile(path)
	printStats(g.NodeCount(), g.EdgeCount(), cacheHit)
	printNewline()
	printNextStep("Render", "flowdraw render "+input+" -f svg")

	return nil
}

// loadGraph reads a graph.json file or parses flowchart source,
// depending on the input name.
func (c *CLI) loadGraph(ctx context.Context, runner *pipeline.Runner, input string, opts *pipeline.Options) (*flow.Graph, error) {
	if strings.HasSuffix(input, ".json") {
		g, err := pkgio.ImportJSON(input)
		if err != nil {
			return nil, fmt.Errorf("load graph %s: %w", input, err)
		}
		if opts.Direction != "" {
			if dir, ok := flow.ParseDirection(opts.Direction); ok {
				g.Direction = dir
			}
		}
		return g, nil
	}

	opts.Source = input
	g, err := runner.Parse(ctx, *opts)
	if err != nil {
		return nil, err
	}
	return g, nil
}
