package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/flowdraw/pkg/pipeline"
)

const testConfig = `direction = "LR"
format = "svg"

[style]
node_gap = 32.0
ordering = "exhaustive"

[render]
scale = 2.0
font_family = "Menlo"
`

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowdraw.toml")
	if err := os.WriteFile(path, []byte(testConfig), 0644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	c.configPath = path

	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig error: %v", err)
	}
	if cfg.Direction != "LR" {
		t.Errorf("Direction = %q, want LR", cfg.Direction)
	}
	if cfg.Format != "svg" {
		t.Errorf("Format = %q, want svg", cfg.Format)
	}
	if cfg.Style.NodeGap != 32 {
		t.Errorf("Style.NodeGap = %v, want 32", cfg.Style.NodeGap)
	}
	if cfg.Style.Ordering != "exhaustive" {
		t.Errorf("Style.Ordering = %q, want exhaustive", cfg.Style.Ordering)
	}
	if cfg.Render.Scale != 2 {
		t.Errorf("Render.Scale = %v, want 2", cfg.Render.Scale)
	}
	if cfg.Render.FontFamily != "Menlo" {
		t.Errorf("Render.FontFamily = %q, want Menlo", cfg.Render.FontFamily)
	}
}

func TestLoadConfig_ExplicitMissing(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.configPath = filepath.Join(t.TempDir(), "nope.toml")

	if _, err := c.loadConfig(); err == nil {
		t.Error("explicit missing config file should fail")
	}
}

func TestLoadConfig_ImplicitMissing(t *testing.T) {
	c := New(io.Discard, LogInfo)

	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("implicit missing config should not fail: %v", err)
	}
	if cfg.Direction != "" {
		t.Errorf("missing config should be zero, got %+v", cfg)
	}
}

func TestConfigApply_FlagsWin(t *testing.T) {
	cfg := Config{
		Direction: "LR",
		Format:    "svg",
		Render:    RenderConfig{Scale: 2, FontFamily: "Menlo"},
	}
	cfg.Style.NodeGap = 32

	// Flags already set direction and scale; config fills the rest.
	opts := pipeline.Options{Direction: "BT", Scale: 3}
	cfg.apply(&opts)

	if opts.Direction != "BT" {
		t.Errorf("Direction = %q, flag value should win", opts.Direction)
	}
	if opts.Scale != 3 {
		t.Errorf("Scale = %v, flag value should win", opts.Scale)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != "svg" {
		t.Errorf("Formats = %v, want [svg] from config", opts.Formats)
	}
	if opts.Style.NodeGap != 32 {
		t.Errorf("Style.NodeGap = %v, want 32 from config", opts.Style.NodeGap)
	}
	if opts.FontFamily != "Menlo" {
		t.Errorf("FontFamily = %q, want Menlo from config", opts.FontFamily)
	}
}

func TestConfigApply_EmptyConfigKeepsDefaults(t *testing.T) {
	var cfg Config
	opts := pipeline.Options{Text: testDiagram}
	cfg.apply(&opts)

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults error: %v", err)
	}
	if opts.Formats[0] != pipeline.FormatASCII {
		t.Errorf("Formats = %v, want pipeline default", opts.Formats)
	}
}

func TestRenderCommand_UsesConfigFile(t *testing.T) {
	input := writeDiagram(t)
	dir := t.TempDir()
	configPath := filepath.Join(dir, "flowdraw.toml")
	if err := os.WriteFile(configPath, []byte("format = \"dot\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "out.dot")

	root := testCLI().RootCommand()
	root.SetArgs([]string{"render", input, "--config", configPath, "-o", output, "--no-cache"})
	if err := root.Execute(); err != nil {
		t.Fatalf("render command error: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(data) == 0 || string(data[:7]) != "digraph" {
		t.Error("config format=dot should produce DOT output")
	}
}
