package layout

import "sort"

// buildLayers groups node indexes by layer in declaration order (dummies
// after declared nodes, in creation order) and assigns initial positions.
func (st *layoutState) buildLayers() {
	maxLayer := 0
	for i := range st.nodes {
		if st.nodes[i].layer > maxLayer {
			maxLayer = st.nodes[i].layer
		}
	}
	st.layers = make([][]int, maxLayer+1)
	for i := range st.nodes {
		l := st.nodes[i].layer
		st.nodes[i].order = len(st.layers[l])
		st.layers[l] = append(st.layers[l], i)
	}
}

// reduceCrossings reorders nodes within layers to reduce edge crossings
// using iterative barycenter sweeps. Even passes sweep downward ordering
// each layer by the mean position of its upper neighbors; odd passes sweep
// upward against lower neighbors. The pass budget comes from the style;
// sweeps stop early once a downward and an upward pass in a row leave
// every layer unchanged.
//
// Sorting is stable and a node without neighbors keeps its position as its
// own barycenter, so the result is deterministic for identical input.
func (st *layoutState) reduceCrossings() {
	if len(st.layers) < 2 {
		return
	}
	up := make([][]int, len(st.nodes))
	down := make([][]int, len(st.nodes))
	for _, u := range st.units {
		up[u.to] = append(up[u.to], u.from)
		down[u.from] = append(down[u.from], u.to)
	}

	settled := 0
	for pass := 0; pass < st.style.Passes; pass++ {
		changed := false
		if pass%2 == 0 {
			for l := 1; l < len(st.layers); l++ {
				if st.reorderLayer(l, up) {
					changed = true
				}
			}
		} else {
			for l := len(st.layers) - 2; l >= 0; l-- {
				if st.reorderLayer(l, down) {
					changed = true
				}
			}
		}
		if changed {
			settled = 0
		} else if settled++; settled == 2 {
			break
		}
	}
}

// reorderLayer sorts one layer by neighbor barycenter and reports whether
// the order changed.
func (st *layoutState) reorderLayer(l int, neighbors [][]int) bool {
	layer := st.layers[l]
	if len(layer) < 2 {
		return false
	}

	type entry struct {
		idx  int
		bary float64
	}
	entries := make([]entry, len(layer))
	for pos, idx := range layer {
		bary := float64(pos)
		if ns := neighbors[idx]; len(ns) > 0 {
			sum := 0.0
			for _, n := range ns {
				sum += float64(st.nodes[n].order)
			}
			bary = sum / float64(len(ns))
		}
		entries[pos] = entry{idx: idx, bary: bary}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].bary < entries[j].bary })

	changed := false
	for pos, e := range entries {
		if layer[pos] != e.idx {
			changed = true
		}
		layer[pos] = e.idx
		st.nodes[e.idx].order = pos
	}
	return changed
}

// orderExhaustive refines the barycenter result by trying every
// permutation of each small layer against its fixed neighbor layers and
// keeping the first strict improvement in crossings. Layers wider than
// exhaustiveMaxLayer are left as the barycenter placed them.
func (st *layoutState) orderExhaustive() {
	for l := range st.layers {
		layer := st.layers[l]
		if len(layer) < 2 || len(layer) > exhaustiveMaxLayer {
			continue
		}

		best := append([]int(nil), layer...)
		bestCost := st.crossingsAround(l)
		perm := append([]int(nil), layer...)
		forEachPermutation(perm, func(p []int) {
			for pos, idx := range p {
				st.nodes[idx].order = pos
			}
			if cost := st.crossingsAround(l); cost < bestCost {
				bestCost = cost
				copy(best, p)
			}
		})

		copy(layer, best)
		for pos, idx := range layer {
			st.nodes[idx].order = pos
		}
	}
}

// crossingsAround counts crossings between the given layer and its
// neighbor layers, using the current order fields.
func (st *layoutState) crossingsAround(l int) int {
	total := 0
	if l > 0 {
		total += st.crossingsBetween(l - 1)
	}
	if l+1 < len(st.layers) {
		total += st.crossingsBetween(l)
	}
	return total
}

// crossingsBetween counts crossings among unit edges leaving the given
// layer for the one below it.
func (st *layoutState) crossingsBetween(upper int) int {
	var pairs [][2]int
	for _, u := range st.units {
		if st.nodes[u.from].layer == upper {
			pairs = append(pairs, [2]int{st.nodes[u.from].order, st.nodes[u.to].order})
		}
	}
	return countPairCrossings(pairs)
}

// forEachPermutation visits every permutation of items in a deterministic
// order. The callback must not retain the slice.
func forEachPermutation(items []int, fn func([]int)) {
	var recurse func(k int)
	recurse = func(k int) {
		if k == len(items) {
			fn(items)
			return
		}
		for i := k; i < len(items); i++ {
			items[k], items[i] = items[i], items[k]
			recurse(k + 1)
			items[k], items[i] = items[i], items[k]
		}
	}
	recurse(0)
}
