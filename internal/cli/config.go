package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/flowdraw/pkg/layout"
	"github.com/matzehuels/flowdraw/pkg/pipeline"
)

// defaultConfigFile is the config file looked up in the working
// directory when --config is not given.
const defaultConfigFile = "flowdraw.toml"

// Config holds file-based defaults for the render pipeline. Every field
// is optional; command-line flags override config values, which override
// built-in defaults.
//
// Example flowdraw.toml:
//
//	direction = "LR"
//	format = "svg"
//
//	[style]
//	node_gap = 32.0
//	layer_gap = 56.0
//	ordering = "exhaustive"
//
//	[render]
//	scale = 2.0
//	padding = 16.0
//	font_family = "Menlo"
//	font_size = 13.0
type Config struct {
	Direction string       `toml:"direction"`
	Format    string       `toml:"format"`
	Style     layout.Style `toml:"style"`
	Render    RenderConfig `toml:"render"`
}

// RenderConfig holds renderer defaults.
type RenderConfig struct {
	Scale          float64 `toml:"scale"`
	Padding        float64 `toml:"padding"`
	FontFamily     string  `toml:"font_family"`
	FontSize       float64 `toml:"font_size"`
	HideGroupBoxes bool    `toml:"hide_group_boxes"`
	MaxWidth       int     `toml:"max_width"`
	MaxHeight      int     `toml:"max_height"`
}

// loadConfig reads the TOML config file. An explicit path that does not
// exist is an error; the implicit ./flowdraw.toml is optional.
func (c *CLI) loadConfig() (Config, error) {
	path := c.configPath
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	var cfg Config
	if _, err := os.Stat(path); err != nil {
		if explicit {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
		return Config{}, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	c.Logger.Debug("loaded config", "path", path)
	return cfg, nil
}

// apply copies config values into opts where opts still has the zero
// value. Callers fill opts from flags first, so flag values win and
// pipeline defaults cover whatever remains.
func (cfg Config) apply(opts *pipeline.Options) {
	if opts.Direction == "" {
		opts.Direction = cfg.Direction
	}
	if len(opts.Formats) == 0 && cfg.Format != "" {
		opts.Formats = parseFormats(cfg.Format)
	}

	applyStyle(&opts.Style, cfg.Style)

	if opts.Scale == 0 {
		opts.Scale = cfg.Render.Scale
	}
	if opts.Padding == 0 {
		opts.Padding = cfg.Render.Padding
	}
	if opts.FontFamily == "" {
		opts.FontFamily = cfg.Render.FontFamily
	}
	if opts.FontSize == 0 {
		opts.FontSize = cfg.Render.FontSize
	}
	if !opts.HideGroupBoxes {
		opts.HideGroupBoxes = cfg.Render.HideGroupBoxes
	}
	if opts.MaxWidth == 0 {
		opts.MaxWidth = cfg.Render.MaxWidth
	}
	if opts.MaxHeight == 0 {
		opts.MaxHeight = cfg.Render.MaxHeight
	}
}

// applyStyle fills zero fields of dst from src. Style.ApplyDefaults
// later fills anything both left unset.
func applyStyle(dst *layout.Style, src layout.Style) {
	if dst.MinWidth == 0 {
		dst.MinWidth = src.MinWidth
	}
	if dst.MinHeight == 0 {
		dst.MinHeight = src.MinHeight
	}
	if dst.CharWidth == 0 {
		dst.CharWidth = src.CharWidth
	}
	if dst.CharHeight == 0 {
		dst.CharHeight = src.CharHeight
	}
	if dst.NodePaddingX == 0 {
		dst.NodePaddingX = src.NodePaddingX
	}
	if dst.NodePaddingY == 0 {
		dst.NodePaddingY = src.NodePaddingY
	}
	if dst.NodeGap == 0 {
		dst.NodeGap = src.NodeGap
	}
	if dst.LayerGap == 0 {
		dst.LayerGap = src.LayerGap
	}
	if dst.Passes == 0 {
		dst.Passes = src.Passes
	}
	if !dst.Compact {
		dst.Compact = src.Compact
	}
	if dst.Ordering == "" {
		dst.Ordering = src.Ordering
	}
}

// pipelineOptions loads the config and merges it under the flag-set
// options. Shared by the parse, layout, and render commands.
func (c *CLI) pipelineOptions(opts pipeline.Options) (pipeline.Options, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return pipeline.Options{}, err
	}
	cfg.apply(&opts)
	opts.Logger = c.Logger
	return opts, nil
}
