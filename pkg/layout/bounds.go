package layout

import "math"

// Bounds is an axis-aligned rectangle around a subgraph's positioned
// members. Path identifies the subgraph by its slash-joined ID chain from
// the root, Label is its display title.
type Bounds struct {
	Path  string
	Label string
	MinX  float64
	MinY  float64
	MaxX  float64
	MaxY  float64
}

// Width returns the horizontal extent of the rectangle.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent of the rectangle.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// SubgraphBounds returns one padded rectangle per declared subgraph,
// nested subgraphs included, in declaration order (parents before
// children). Subgraphs without any positioned member are skipped.
func SubgraphBounds(g *Graph, padding float64) []Bounds {
	nodeAt := make(map[string]Node, len(g.Nodes))
	for _, n := range g.Nodes {
		nodeAt[n.ID] = n
	}
	var out []Bounds
	for _, sg := range g.Subgraphs {
		collectBounds(sg, "", nodeAt, padding, &out)
	}
	return out
}

func collectBounds(sg Subgraph, parent string, nodeAt map[string]Node, padding float64, out *[]Bounds) {
	path := sg.ID
	if parent != "" {
		path = parent + "/" + sg.ID
	}

	b := Bounds{
		Path:  path,
		Label: sg.Title,
		MinX:  math.Inf(1),
		MinY:  math.Inf(1),
		MaxX:  math.Inf(-1),
		MaxY:  math.Inf(-1),
	}
	if b.Label == "" {
		b.Label = sg.ID
	}
	found := memberBounds(sg, nodeAt, &b)
	if found {
		b.MinX -= padding
		b.MinY -= padding
		b.MaxX += padding
		b.MaxY += padding
		*out = append(*out, b)
	}

	for _, child := range sg.Children {
		collectBounds(child, path, nodeAt, padding, out)
	}
}

// memberBounds grows b to cover every positioned member of sg and its
// descendants, reporting whether any member was found.
func memberBounds(sg Subgraph, nodeAt map[string]Node, b *Bounds) bool {
	found := false
	for _, id := range sg.Nodes {
		n, ok := nodeAt[id]
		if !ok {
			continue
		}
		found = true
		b.MinX = math.Min(b.MinX, n.X-n.Width/2)
		b.MinY = math.Min(b.MinY, n.Y-n.Height/2)
		b.MaxX = math.Max(b.MaxX, n.X+n.Width/2)
		b.MaxY = math.Max(b.MaxY, n.Y+n.Height/2)
	}
	for _, child := range sg.Children {
		if memberBounds(child, nodeAt, b) {
			found = true
		}
	}
	return found
}

// SuggestCanvasSize returns integer raster dimensions for the layout at
// the given scale with uniform padding on every side. Degenerate layouts
// still produce a drawable canvas.
func SuggestCanvasSize(g *Graph, scale, padding float64) (w, h int) {
	w = int(math.Ceil(math.Max(g.Width, 1)*scale + 2*padding))
	h = int(math.Ceil(math.Max(g.Height, 1)*scale + 2*padding))
	return w, h
}
