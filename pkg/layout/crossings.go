package layout

import "sort"

// countPairCrossings counts edge crossings between two adjacent layers.
// Each pair holds one edge's endpoint positions (upper, lower). Two edges
// cross exactly when their endpoint orders invert, so after sorting by
// (upper, lower) the crossing count equals the number of inversions in the
// lower sequence. A Fenwick tree counts those in O(E log E) instead of the
// naive O(E^2) pairwise scan.
//
// Edges sharing an endpoint never count as crossing.
func countPairCrossings(pairs [][2]int) int {
	if len(pairs) < 2 {
		return 0
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})

	maxLower := 0
	for _, p := range pairs {
		if p[1] > maxLower {
			maxLower = p[1]
		}
	}

	// One-based Fenwick tree over lower positions.
	tree := make([]int, maxLower+2)
	add := func(pos int) {
		for i := pos + 1; i < len(tree); i += i & (-i) {
			tree[i]++
		}
	}
	prefix := func(pos int) int {
		sum := 0
		for i := pos + 1; i > 0; i -= i & (-i) {
			sum += tree[i]
		}
		return sum
	}

	crossings, seen := 0, 0
	for _, p := range pairs {
		// Previously inserted edges start further left but end further
		// right: each one crosses the current edge.
		crossings += seen - prefix(p[1])
		add(p[1])
		seen++
	}
	return crossings
}
