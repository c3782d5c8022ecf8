package pipeline

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowdraw/pkg/cache"
	"github.com/matzehuels/flowdraw/pkg/flow"
)

const sampleSource = `flowchart TB
  start(Start) --> work[Do Work]
  work --> done(Done)
`

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestOptions_ValidateAndSetDefaults(t *testing.T) {
	var empty Options
	if err := empty.ValidateAndSetDefaults(); err == nil {
		t.Error("empty options should fail validation")
	}

	opts := Options{Text: sampleSource}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults error: %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatASCII {
		t.Errorf("Formats = %v, want [ascii]", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, DefaultScale)
	}
	if opts.Style.Passes == 0 {
		t.Error("style defaults not applied")
	}
	if opts.Logger == nil {
		t.Error("logger default not applied")
	}

	// Idempotent: explicit settings survive re-validation
	opts.Formats = []string{FormatSVG}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second ValidateAndSetDefaults error: %v", err)
	}
	if opts.Formats[0] != FormatSVG {
		t.Error("re-validation should not reset explicit settings")
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"ascii", false},
		{"svg", false},
		{"png", false},
		{"dot", false},
		{"json", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "ascii"}); err != nil {
		t.Errorf("valid formats rejected: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "bogus"}); err == nil {
		t.Error("invalid format accepted")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("empty formats rejected: %v", err)
	}
}

func TestValidateDirection(t *testing.T) {
	for _, d := range []string{"", "TB", "BT", "LR", "RL"} {
		if err := ValidateDirection(d); err != nil {
			t.Errorf("ValidateDirection(%q) = %v", d, err)
		}
	}
	if err := ValidateDirection("NE"); err == nil {
		t.Error("ValidateDirection(NE) should fail")
	}
}

func TestValidateOrdering(t *testing.T) {
	for _, o := range []string{"", "barycenter", "exhaustive"} {
		if err := ValidateOrdering(o); err != nil {
			t.Errorf("ValidateOrdering(%q) = %v", o, err)
		}
	}
	if err := ValidateOrdering("random"); err == nil {
		t.Error("ValidateOrdering(random) should fail")
	}
}

func TestParse_InlineText(t *testing.T) {
	opts := Options{Text: sampleSource, Logger: discardLogger()}
	g, err := Parse(context.Background(), opts)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if g.NodeCount() != 3 {
		t.Errorf("NodeCount = %d, want 3", g.NodeCount())
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount = %d, want 2", g.EdgeCount())
	}
	if g.Direction != flow.DirectionTB {
		t.Errorf("Direction = %v, want TB", g.Direction)
	}
}

func TestParse_DirectionOverride(t *testing.T) {
	opts := Options{Text: sampleSource, Direction: "LR", Logger: discardLogger()}
	g, err := Parse(context.Background(), opts)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if g.Direction != flow.DirectionLR {
		t.Errorf("Direction = %v, want LR", g.Direction)
	}
}

func TestParse_ErrorNamesSource(t *testing.T) {
	opts := Options{Text: "not a flowchart", Logger: discardLogger()}
	_, err := Parse(context.Background(), opts)
	if err == nil {
		t.Fatal("Parse should fail on invalid source")
	}
	if !strings.Contains(err.Error(), "inline") {
		t.Errorf("error should name the source: %v", err)
	}
}

func TestGenerateLayout(t *testing.T) {
	opts := Options{Text: sampleSource, Logger: discardLogger()}
	if err := opts.ValidateForLayout(); err != nil {
		t.Fatal(err)
	}
	g, err := Parse(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}

	l, err := GenerateLayout(g, opts)
	if err != nil {
		t.Fatalf("GenerateLayout error: %v", err)
	}
	if len(l.Nodes) != 3 {
		t.Errorf("layout nodes = %d, want 3", len(l.Nodes))
	}
	if len(l.Edges) != 2 {
		t.Errorf("layout edges = %d, want 2", len(l.Edges))
	}
	if l.Width <= 0 || l.Height <= 0 {
		t.Errorf("layout size = %vx%v", l.Width, l.Height)
	}
	if l.Direction != "TB" {
		t.Errorf("layout direction = %q, want TB", l.Direction)
	}
}

func TestRender_Formats(t *testing.T) {
	ctx := context.Background()
	opts := Options{
		Text:    sampleSource,
		Formats: []string{FormatASCII, FormatSVG, FormatDOT, FormatJSON},
		Logger:  discardLogger(),
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	g, err := Parse(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	l, err := GenerateLayout(g, opts)
	if err != nil {
		t.Fatal(err)
	}

	artifacts, err := Render(ctx, l, g, opts)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if len(artifacts) != 4 {
		t.Fatalf("artifacts = %d, want 4", len(artifacts))
	}

	if !strings.Contains(string(artifacts[FormatASCII]), "Start") {
		t.Error("ascii output should contain node labels")
	}
	if !strings.HasPrefix(string(artifacts[FormatSVG]), "<svg") {
		t.Error("svg output should start with <svg")
	}
	if !strings.Contains(string(artifacts[FormatDOT]), "digraph") {
		t.Error("dot output should contain digraph")
	}
	if !strings.Contains(string(artifacts[FormatJSON]), `"direction"`) {
		t.Error("json output should contain layout fields")
	}
}

func TestRender_DOTNeedsGraph(t *testing.T) {
	ctx := context.Background()
	opts := Options{Text: sampleSource, Formats: []string{FormatDOT}, Logger: discardLogger()}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	g, err := Parse(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	l, err := GenerateLayout(g, opts)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Render(ctx, l, nil, opts); err == nil {
		t.Error("dot format without graph should fail")
	}
}

func TestRunner_Execute(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(c, nil, discardLogger())
	defer runner.Close()

	opts := Options{Text: sampleSource, Formats: []string{FormatASCII, FormatJSON}}

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if result.Stats.NodeCount != 3 || result.Stats.EdgeCount != 2 {
		t.Errorf("stats = %+v", result.Stats)
	}
	if result.GraphHash == "" {
		t.Error("GraphHash should be set")
	}
	if len(result.Artifacts) != 2 {
		t.Errorf("artifacts = %d, want 2", len(result.Artifacts))
	}
	if result.CacheInfo.ParseHit || result.CacheInfo.LayoutHit || result.CacheInfo.RenderHit {
		t.Errorf("first run should not hit cache: %+v", result.CacheInfo)
	}

	// Second run hits every stage
	second, err := runner.Execute(ctx, Options{Text: sampleSource, Formats: []string{FormatASCII, FormatJSON}})
	if err != nil {
		t.Fatalf("second Execute error: %v", err)
	}
	if !second.CacheInfo.ParseHit || !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit cache: %+v", second.CacheInfo)
	}
	if string(second.Artifacts[FormatASCII]) != string(result.Artifacts[FormatASCII]) {
		t.Error("cached artifact should match rendered artifact")
	}

	// Refresh bypasses the parse cache
	third, err := runner.Execute(ctx, Options{Text: sampleSource, Formats: []string{FormatASCII}, Refresh: true})
	if err != nil {
		t.Fatalf("refresh Execute error: %v", err)
	}
	if third.CacheInfo.ParseHit {
		t.Error("refresh run should not hit the parse cache")
	}
}

func TestRunner_NilDependencies(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	if runner.Cache == nil || runner.Keyer == nil || runner.Logger == nil {
		t.Error("NewRunner should fill nil dependencies")
	}

	result, err := runner.Execute(context.Background(), Options{Text: sampleSource, Logger: discardLogger()})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if result.CacheInfo.ParseHit {
		t.Error("null cache should never hit")
	}
}

func TestRunner_ExecuteInvalidOptions(t *testing.T) {
	runner := NewRunner(nil, nil, discardLogger())
	defer runner.Close()

	if _, err := runner.Execute(context.Background(), Options{}); err == nil {
		t.Error("Execute without source should fail")
	}
	if _, err := runner.Execute(context.Background(), Options{Text: sampleSource, Formats: []string{"pdf"}}); err == nil {
		t.Error("Execute with invalid format should fail")
	}
}
