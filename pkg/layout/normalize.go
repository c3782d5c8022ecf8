package layout

import "fmt"

// insertDummies subdivides every edge spanning more than one layer with
// one synthetic node per intermediate layer, following the logical
// direction, so that afterwards every connection steps exactly one layer.
// An edge from layer a to layer b gains max(0, |b-a|-1) dummies.
//
// Each edge records its chain (logical source, dummies, logical target)
// for routing, and every single-layer step becomes a unit edge for
// crossing reduction. Self-loops stay unexpanded; they are routed as a
// local detour later.
func (st *layoutState) insertDummies() {
	st.chains = make([]edgeChain, len(st.edges))
	dummies := 0
	for i, e := range st.edges {
		if e.selfLoop() {
			st.chains[i] = edgeChain{edge: i, nodes: []int{e.from, e.to}}
			continue
		}
		src, dst := e.src(), e.dst()
		lo, hi := st.nodes[src].layer, st.nodes[dst].layer
		if hi <= lo {
			panic(fmt.Sprintf("layout: normalize: edge %s->%s spans layers %d->%d, not monotonic after ranking",
				st.nodes[src].id, st.nodes[dst].id, lo, hi))
		}

		chain := make([]int, 0, hi-lo+1)
		chain = append(chain, src)
		prev := src
		for layer := lo + 1; layer < hi; layer++ {
			d := len(st.nodes)
			st.nodes = append(st.nodes, workNode{
				id:     fmt.Sprintf("__dummy%d", dummies),
				width:  1,
				height: 1,
				layer:  layer,
				dummy:  true,
				edge:   i,
			})
			dummies++
			st.units = append(st.units, unitEdge{from: prev, to: d})
			chain = append(chain, d)
			prev = d
		}
		st.units = append(st.units, unitEdge{from: prev, to: dst})
		chain = append(chain, dst)
		st.chains[i] = edgeChain{edge: i, nodes: chain}
	}
}
