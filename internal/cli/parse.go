package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/flowdraw/pkg/io"
	"github.com/matzehuels/flowdraw/pkg/pipeline"
)

// parseCommand creates the parse command for converting flowchart source
// into a graph.json file.
func (c *CLI) parseCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "parse <diagram>",
		Short: "Parse flowchart source into a graph.json file",
		Long: `Parse flowchart source into a graph.json file.

The diagram argument is a file path, "-" for stdin, or an http(s) URL.
The output is a graph.json file consumable by 'flowdraw layout' and other
tools.

Examples:
  flowdraw parse flow.mmd                      # writes flow.graph.json
  flowdraw parse flow.mmd -o graph.json        # explicit output
  cat flow.mmd | flowdraw parse - -o graph.json
  flowdraw parse https://example.com/flow.mmd`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Source = args[0]
			return c.runParse(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.graph.json, '-' for stdout)")
	cmd.Flags().StringVarP(&opts.Direction, "direction", "d", "", "override flow direction: TB, BT, LR, RL")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runParse parses the source and writes the resulting graph as JSON.
func (c *CLI) runParse(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	opts, err := c.pipelineOptions(opts)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	g, cacheHit, err := runner.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Parsed %d nodes and %d edges", g.NodeCount(), g.EdgeCount()))

	if output == "-" {
		return pkgio.WriteJSON(g, os.Stdout)
	}

	path := outputPath(output, opts.Source, ".graph.json")
	if err := pkgio.ExportJSON(g, path); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}

	printSuccess("Parse complete")
	printFile(path)
	printStats(g.NodeCount(), g.EdgeCount(), cacheHit)
	printNewline()
	printNextStep("Layout", "flowdraw layout "+path)

	return nil
}

// nopCloser wraps an io.Writer with a no-op Close method so os.Stdout
// can stand in for a file.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path, or stdout when
// the path is empty or "-".
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
