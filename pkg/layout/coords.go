package layout

import (
	"fmt"
	"math"
)

// assignCoordinates turns (layer, order) into center coordinates. Vertical
// directions stack layers downward and place nodes left to right within a
// layer; horizontal directions transpose the roles. Reversed directions
// (BT, RL) are handled by mirroring the finished layout, not here.
//
// Within a layer, nodes sit side by side separated by NodeGap and centered
// on the layer's thickest node. Layer separation starts at LayerGap and
// grows with the number of outgoing edge lanes, bounded at four times the
// configured gap.
func (st *layoutState) assignCoordinates() {
	out := st.unitOutCounts()
	main := 0.0
	for l, layer := range st.layers {
		thickness := 0.0
		for _, idx := range layer {
			thickness = math.Max(thickness, 2*st.mainHalf(idx))
		}
		cross := 0.0
		for _, idx := range layer {
			n := &st.nodes[idx]
			if st.dir.Horizontal() {
				n.y = cross + n.height/2
				n.x = main + thickness/2
				cross += n.height + st.style.NodeGap
			} else {
				n.x = cross + n.width/2
				n.y = main + thickness/2
				cross += n.width + st.style.NodeGap
			}
		}
		main += thickness + st.layerGap(l, out)
	}
}

// layerGap returns the gap below the given layer. Layers that fan out
// multiple edge lanes get extra room so the lanes can separate.
func (st *layoutState) layerGap(layer int, out []int) float64 {
	maxLanes := 0
	for _, idx := range st.layers[layer] {
		if out[idx] > maxLanes {
			maxLanes = out[idx]
		}
	}
	gap := st.style.LayerGap
	if maxLanes > 1 {
		gap += float64(maxLanes-1) * st.laneSize() * 0.6
	}
	return math.Min(gap, 4*st.style.LayerGap)
}

// laneSize is the room one edge lane needs between layers, thick enough
// for an edge label.
func (st *layoutState) laneSize() float64 {
	if st.dir.Horizontal() {
		return math.Max(st.style.CharWidth+st.style.NodePaddingX, 10) * 1.5
	}
	return math.Max(st.style.CharHeight+2*st.style.NodePaddingY, 18)
}

// expandLayerGaps widens gaps that turned out too tight for their lanes
// after placement, shifting all later layers by the accumulated deficit.
func (st *layoutState) expandLayerGaps() {
	if len(st.layers) < 2 {
		return
	}
	out := st.unitOutCounts()
	lane := st.laneSize()

	shift := make([]float64, len(st.layers))
	total := 0.0
	for l := 0; l+1 < len(st.layers); l++ {
		maxLanes := 0
		for _, idx := range st.layers[l] {
			if out[idx] > maxLanes {
				maxLanes = out[idx]
			}
		}
		if maxLanes > 1 {
			required := st.style.LayerGap + float64(maxLanes-1)*lane*0.7
			bottom := math.Inf(-1)
			for _, idx := range st.layers[l] {
				bottom = math.Max(bottom, st.main(idx)+st.mainHalf(idx))
			}
			top := math.Inf(1)
			for _, idx := range st.layers[l+1] {
				top = math.Min(top, st.main(idx)-st.mainHalf(idx))
			}
			if gap := top - bottom; gap < required {
				total += required - gap
			}
		}
		shift[l+1] = total
	}
	for l, by := range shift {
		if by == 0 {
			continue
		}
		for _, idx := range st.layers[l] {
			st.shiftMain(idx, by)
		}
	}
}

// compact pulls nodes toward the barycenter of their unit-edge neighbors
// on the cross axis. Movement is clamped so within-layer order and the
// minimum node gap survive; two sweeps are enough to settle straight runs
// through dummy chains without chasing convergence.
func (st *layoutState) compact() {
	neighbors := make([][]int, len(st.nodes))
	for _, u := range st.units {
		neighbors[u.from] = append(neighbors[u.from], u.to)
		neighbors[u.to] = append(neighbors[u.to], u.from)
	}

	for sweep := 0; sweep < 2; sweep++ {
		for _, layer := range st.layers {
			for pos, idx := range layer {
				ns := neighbors[idx]
				if len(ns) == 0 {
					continue
				}
				sum := 0.0
				for _, n := range ns {
					sum += st.cross(n)
				}
				desired := sum / float64(len(ns))

				lo, hi := math.Inf(-1), math.Inf(1)
				if pos > 0 {
					prev := layer[pos-1]
					lo = st.cross(prev) + st.crossHalf(prev) + st.style.NodeGap + st.crossHalf(idx)
				}
				if pos+1 < len(layer) {
					next := layer[pos+1]
					hi = st.cross(next) - st.crossHalf(next) - st.style.NodeGap - st.crossHalf(idx)
				}
				if lo > hi {
					continue
				}
				st.setCross(idx, math.Min(math.Max(desired, lo), hi))
			}
		}
	}

	// Compaction may pull the leftmost column below zero; shift the whole
	// layout back to the origin.
	minEdge := math.Inf(1)
	for i := range st.nodes {
		minEdge = math.Min(minEdge, st.cross(i)-st.crossHalf(i))
	}
	if minEdge < 0 {
		for i := range st.nodes {
			st.setCross(i, st.cross(i)-minEdge)
		}
	}
}

// checkPlacement verifies the placement invariants before routing: dense
// orders per layer and strictly increasing cross coordinates. A violation
// is a bug in an earlier phase.
func (st *layoutState) checkPlacement() {
	for l, layer := range st.layers {
		prev := math.Inf(-1)
		for pos, idx := range layer {
			if st.nodes[idx].order != pos {
				panic(fmt.Sprintf("layout: place: layer %d order not dense at position %d", l, pos))
			}
			if c := st.cross(idx); c <= prev {
				panic(fmt.Sprintf("layout: place: layer %d positions not increasing at %s", l, st.nodes[idx].id))
			} else {
				prev = c
			}
		}
	}
}
