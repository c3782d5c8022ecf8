// Package ascii renders layouts as plain-text diagrams for terminals.
//
// The layout's abstract coordinates are scaled down onto a character grid,
// edges are drawn first as axis-aligned runs of '-' and '|' with '+' at
// corners, and nodes are drawn on top as three-row boxes so they always
// win against edge strokes passing underneath.
package ascii

import (
	"math"
	"strings"

	"github.com/matzehuels/flowdraw/pkg/flow"
	"github.com/matzehuels/flowdraw/pkg/layout"
)

// Default grid bounds: a conservative fit for a regular terminal.
const (
	DefaultMaxWidth  = 120
	DefaultMaxHeight = 40
)

// Options bound the character grid. Larger layouts are scaled down to
// fit; scaling never goes below 1:1.
type Options struct {
	MaxWidth  int
	MaxHeight int
}

func (o *Options) applyDefaults() {
	if o.MaxWidth <= 0 {
		o.MaxWidth = DefaultMaxWidth
	}
	if o.MaxHeight <= 0 {
		o.MaxHeight = DefaultMaxHeight
	}
}

// Render draws the layout as a multi-line string. Rows are joined with
// newlines and trailing spaces are trimmed; the result carries no final
// newline.
func Render(g *layout.Graph, opts Options) string {
	opts.applyDefaults()
	if len(g.Nodes) == 0 {
		return ""
	}

	scale := math.Max(g.Width/float64(opts.MaxWidth), g.Height/float64(opts.MaxHeight))
	scale = math.Max(scale, 1)

	grid := newGrid(
		int(math.Ceil(g.Width/scale))+2,
		int(math.Ceil(g.Height/scale))+2,
	)

	for _, e := range g.Edges {
		drawRoute(grid, e, scale)
	}
	for _, n := range g.Nodes {
		drawNode(grid, n, scale)
	}
	return grid.String()
}

type grid struct {
	w, h  int
	cells [][]byte
}

func newGrid(w, h int) *grid {
	cells := make([][]byte, h)
	for i := range cells {
		row := make([]byte, w)
		for j := range row {
			row[j] = ' '
		}
		cells[i] = row
	}
	return &grid{w: w, h: h, cells: cells}
}

// set places ch, merging with what is already there: a horizontal and a
// vertical stroke meeting become a junction, and junctions stick.
func (g *grid) set(x, y int, ch byte) {
	if x < 0 || x >= g.w || y < 0 || y >= g.h {
		return
	}
	cur := g.cells[y][x]
	switch {
	case cur == '+':
		ch = '+'
	case (cur == '-' && ch == '|') || (cur == '|' && ch == '-'):
		ch = '+'
	}
	g.cells[y][x] = ch
}

// place writes ch unconditionally; node boxes overwrite edges.
func (g *grid) place(x, y int, ch byte) {
	if x < 0 || x >= g.w || y < 0 || y >= g.h {
		return
	}
	g.cells[y][x] = ch
}

func (g *grid) String() string {
	rows := make([]string, g.h)
	for i, row := range g.cells {
		rows[i] = strings.TrimRight(string(row), " ")
	}
	return strings.TrimRight(strings.Join(rows, "\n"), "\n")
}

func cell(v, scale float64) int {
	return int(math.Round(v / scale))
}

// drawRoute draws each route segment as a vertical run followed by a
// horizontal run with a junction at the corner. An arrowhead lands on the
// final point when the edge wants one.
func drawRoute(g *grid, e layout.Edge, scale float64) {
	if len(e.Route) < 2 {
		return
	}
	for i := 0; i+1 < len(e.Route); i++ {
		x1, y1 := cell(e.Route[i].X, scale), cell(e.Route[i].Y, scale)
		x2, y2 := cell(e.Route[i+1].X, scale), cell(e.Route[i+1].Y, scale)
		drawSegment(g, x1, y1, x2, y2)
	}
	if e.Arrow == flow.ArrowForward {
		last := e.Route[len(e.Route)-1]
		prev := e.Route[len(e.Route)-2]
		g.place(cell(last.X, scale), cell(last.Y, scale), arrowChar(prev, last))
	}
}

func drawSegment(g *grid, x1, y1, x2, y2 int) {
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		g.set(x1, y, '|')
	}
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		g.set(x, y2, '-')
	}
	if x1 != x2 && y1 != y2 {
		g.set(x1, y2, '+')
	}
}

func arrowChar(from, to layout.Point) byte {
	dx, dy := to.X-from.X, to.Y-from.Y
	if math.Abs(dx) >= math.Abs(dy) {
		if dx >= 0 {
			return '>'
		}
		return '<'
	}
	if dy >= 0 {
		return 'v'
	}
	return '^'
}

// drawNode draws a three-row box centered on the node position with the
// label inside, truncated when the box cannot fit the grid.
func drawNode(g *grid, n layout.Node, scale float64) {
	label := n.Label
	boxW := len(label) + 2
	if boxW > g.w {
		boxW = g.w
		if boxW > 2 {
			label = label[:boxW-2]
		}
	}
	if boxW < 3 {
		boxW = 3
	}

	cx, cy := cell(n.X, scale), cell(n.Y, scale)
	left := cx - boxW/2
	for row := -1; row <= 1; row++ {
		for col := 0; col < boxW; col++ {
			ch := byte(' ')
			switch {
			case row != 0 && (col == 0 || col == boxW-1):
				ch = '+'
			case row != 0:
				ch = '-'
			case col == 0 || col == boxW-1:
				ch = '|'
			case col-1 < len(label):
				ch = label[col-1]
			}
			g.place(left+col, cy+row, ch)
		}
	}
}
