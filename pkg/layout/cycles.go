package layout

// breakCycles marks a minimal set of edges as reversed so the logical
// graph becomes acyclic. A depth-first search in declaration order colors
// nodes white/gray/black; an edge into a gray node closes a cycle through
// the active stack and gets flipped. Self-loops are always reversed.
//
// Only the reversed flag changes; declared endpoints stay untouched so
// renderers can still draw arrowheads on the semantic target.
func (st *layoutState) breakCycles() {
	const (
		white = iota
		gray
		black
	)

	outgoing := make([][]int, len(st.nodes))
	for i, e := range st.edges {
		if e.selfLoop() {
			st.edges[i].reversed = true
			continue
		}
		outgoing[e.from] = append(outgoing[e.from], i)
	}

	color := make([]int, len(st.nodes))
	var visit func(node int)
	visit = func(node int) {
		color[node] = gray
		for _, ei := range outgoing[node] {
			switch to := st.edges[ei].to; color[to] {
			case white:
				visit(to)
			case gray:
				st.edges[ei].reversed = true
			}
		}
		color[node] = black
	}
	for i := range st.nodes {
		if color[i] == white {
			visit(i)
		}
	}
}
