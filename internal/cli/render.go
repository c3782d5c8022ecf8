package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowdraw/pkg/pipeline"
)

// renderCommand creates the render command for producing diagram artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render <diagram>",
		Short: "Render a diagram to ascii, svg, png, dot, or json",
		Long: `Render a diagram to one or more output formats.

The diagram argument is a file path, "-" for stdin, or an http(s) URL.
With no flags the diagram renders as ASCII art on stdout. File outputs
derive their names from the input (flow.mmd -> flow.svg); pass -o to
override, or use it as the base path when rendering multiple formats.

Examples:
  flowdraw render flow.mmd                     # ASCII art on stdout
  flowdraw render flow.mmd -f svg              # writes flow.svg
  flowdraw render flow.mmd -f svg,png          # writes flow.svg and flow.png
  flowdraw render flow.mmd -f json -o out.json # layout JSON
  flowdraw render flow.mmd -d LR --ordering exhaustive`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Source = args[0]
			if formatsStr != "" {
				opts.Formats = parseFormats(formatsStr)
			}
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple formats)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): ascii (default), svg, png, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass cache")

	cmd.Flags().StringVarP(&opts.Direction, "direction", "d", "", "override flow direction: TB, BT, LR, RL")
	cmd.Flags().StringVar(&opts.Style.Ordering, "ordering", "", "ordering strategy: barycenter (default), exhaustive")
	cmd.Flags().IntVar(&opts.Style.Passes, "passes", 0, "crossing-reduction sweep budget")
	cmd.Flags().BoolVar(&opts.Style.Compact, "compact", false, "pull nodes toward neighbors after placement")

	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "SVG unit-to-pixel scale")
	cmd.Flags().Float64Var(&opts.Padding, "padding", 0, "SVG canvas padding")
	cmd.Flags().StringVar(&opts.FontFamily, "font-family", "", "SVG font family")
	cmd.Flags().Float64Var(&opts.FontSize, "font-size", 0, "SVG font size")
	cmd.Flags().BoolVar(&opts.HideGroupBoxes, "no-group-boxes", false, "hide subgraph group boxes in SVG output")
	cmd.Flags().IntVar(&opts.MaxWidth, "max-width", 0, "ASCII grid width limit in characters")
	cmd.Flags().IntVar(&opts.MaxHeight, "max-height", 0, "ASCII grid height limit in rows")

	return cmd
}

// runRender executes the full pipeline and writes each artifact.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	opts, err := c.pipelineOptions(opts)
	if err != nil {
		return err
	}
	// Resolve defaults now: the output paths below depend on the final
	// format list.
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering diagram...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	// A lone ASCII render without -o goes straight to the terminal.
	if len(opts.Formats) == 1 && opts.Formats[0] == pipeline.FormatASCII && output == "" {
		os.Stdout.Write(result.Artifacts[pipeline.FormatASCII])
		return nil
	}

	cacheHit := result.CacheInfo.ParseHit && result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit
	printSuccess("Render complete")
	for _, format := range opts.Formats {
		path := artifactPath(output, opts.Source, format, len(opts.Formats) > 1)
		if err := writeArtifact(result.Artifacts[format], path); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		if path != "" && path != "-" {
			printFile(path)
		}
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, cacheHit)

	return nil
}

// artifactPath names the output file for one format. With multiple
// formats the explicit output acts as a base path.
func artifactPath(output, input, format string, multi bool) string {
	if output != "" && !multi {
		return output
	}
	base := output
	if base == "" {
		base = outputPath("", input, "")
	}
	return base + "." + format
}

// writeArtifact writes data to path, or stdout for "-".
func writeArtifact(data []byte, path string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = out.Write(data)
	return err
}
