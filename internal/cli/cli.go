// Package cli implements the flowdraw command-line interface.
//
// This package provides commands for parsing flowchart sources, computing
// layouts, rendering diagrams in multiple formats, serving the local
// preview site, and managing the result cache. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - parse: Parse flowchart source into a graph.json file
//   - layout: Compute a layout from a diagram or graph.json
//   - render: Render a diagram to ascii, svg, png, dot, or json
//   - preview: Serve the local HTTP preview site
//   - browse: Browse random diagrams in the terminal
//   - cache: Manage the result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// also travels on the command context so helpers can retrieve it with
// loggerFromContext.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowdraw/pkg/buildinfo"
	"github.com/matzehuels/flowdraw/pkg/cache"
	"github.com/matzehuels/flowdraw/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "flowdraw"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is the --config flag value; empty means look for
	// flowdraw.toml in the working directory.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Flowdraw renders flowchart diagrams from text",
		Long:         `Flowdraw is a CLI tool for turning flowchart text into layered diagrams, rendered as ASCII art, SVG, PNG, DOT, or layout JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./flowdraw.toml if present)")

	root.AddCommand(c.parseCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/flowdraw/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// outputPath derives an output file path: the explicit output if given,
// otherwise the input base name with a new extension. Stdin and URL
// inputs fall back to a generic base name.
func outputPath(output, input, ext string) string {
	if output != "" {
		return output
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if input == "-" || strings.Contains(input, "://") {
		base = "diagram"
	}
	return base + ext
}
