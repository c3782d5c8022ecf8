package layout

// Default style values. Sizes are abstract units; renderers decide what a
// unit means (pixels, half a character cell, ...).
const (
	DefaultMinWidth     = 60.0
	DefaultMinHeight    = 40.0
	DefaultCharWidth    = 7.0
	DefaultCharHeight   = 14.0
	DefaultNodePaddingX = 12.0
	DefaultNodePaddingY = 8.0
	DefaultNodeGap      = 24.0
	DefaultLayerGap     = 40.0
	DefaultPasses       = 6
)

// Ordering strategy names accepted by [Style.Ordering].
const (
	OrderingBarycenter = "barycenter"
	OrderingExhaustive = "exhaustive"
)

// exhaustiveMaxLayer bounds the layer width the exhaustive orderer will
// attempt. 8! = 40320 permutations per layer is the largest search that
// stays snappy.
const exhaustiveMaxLayer = 8

// Style holds the tunable knobs of the layout engine.
//
// The zero value is not usable directly - call [Style.ApplyDefaults] or
// start from [DefaultStyle]. ApplyDefaults only fills zero fields, so a
// partially populated Style (for example decoded from a config file)
// keeps its explicit settings.
type Style struct {
	// MinWidth and MinHeight are the smallest node box sizes used when
	// estimating sizes from labels.
	MinWidth  float64 `json:"min_width" toml:"min_width"`
	MinHeight float64 `json:"min_height" toml:"min_height"`

	// CharWidth and CharHeight approximate label glyph extents for size
	// estimation.
	CharWidth  float64 `json:"char_width" toml:"char_width"`
	CharHeight float64 `json:"char_height" toml:"char_height"`

	// NodePaddingX and NodePaddingY pad label text inside the node box.
	NodePaddingX float64 `json:"node_padding_x" toml:"node_padding_x"`
	NodePaddingY float64 `json:"node_padding_y" toml:"node_padding_y"`

	// NodeGap separates neighboring nodes within a layer.
	NodeGap float64 `json:"node_gap" toml:"node_gap"`

	// LayerGap separates consecutive layers. The effective gap may grow
	// when many edge lanes cross it, bounded at four times this value.
	LayerGap float64 `json:"layer_gap" toml:"layer_gap"`

	// Passes is the crossing-reduction sweep budget.
	Passes int `json:"passes" toml:"passes"`

	// Compact enables the cross-axis compaction pass that pulls nodes
	// toward their neighbors after initial placement.
	Compact bool `json:"compact" toml:"compact"`

	// Ordering selects the crossing-reduction strategy: barycenter
	// (default) or exhaustive for small layers.
	Ordering string `json:"ordering,omitempty" toml:"ordering"`
}

// DefaultStyle returns the style used when the caller supplies nothing.
func DefaultStyle() Style {
	s := Style{}
	s.ApplyDefaults()
	return s
}

// ApplyDefaults fills zero-valued fields with defaults. It is idempotent
// and never overwrites explicit settings.
func (s *Style) ApplyDefaults() {
	if s.MinWidth == 0 {
		s.MinWidth = DefaultMinWidth
	}
	if s.MinHeight == 0 {
		s.MinHeight = DefaultMinHeight
	}
	if s.CharWidth == 0 {
		s.CharWidth = DefaultCharWidth
	}
	if s.CharHeight == 0 {
		s.CharHeight = DefaultCharHeight
	}
	if s.NodePaddingX == 0 {
		s.NodePaddingX = DefaultNodePaddingX
	}
	if s.NodePaddingY == 0 {
		s.NodePaddingY = DefaultNodePaddingY
	}
	if s.NodeGap == 0 {
		s.NodeGap = DefaultNodeGap
	}
	if s.LayerGap == 0 {
		s.LayerGap = DefaultLayerGap
	}
	if s.Passes == 0 {
		s.Passes = DefaultPasses
	}
	if s.Ordering == "" {
		s.Ordering = OrderingBarycenter
	}
}
