package layout

import "fmt"

// assignRanks computes longest-path layers over the logical graph.
//
// # Algorithm
//
// Kahn's topological traversal: nodes with no incoming logical edges start
// at layer 0, every logical edge pushes its target to at least one layer
// below its source. Reversed edges participate with flipped endpoints;
// self-loops are ignored. The result is the longest path from any source,
// so every logical edge spans at least one layer downward.
//
// # Cycles
//
// Cycle breaking runs first, so the logical graph is acyclic. A node left
// unvisited here means the breaker failed, which is a bug - we panic
// rather than produce a half-ranked layout.
func (st *layoutState) assignRanks() {
	n := len(st.nodes)
	indegree := make([]int, n)
	outgoing := make([][]int, n)
	for _, e := range st.edges {
		if e.selfLoop() {
			continue
		}
		outgoing[e.src()] = append(outgoing[e.src()], e.dst())
		indegree[e.dst()]++
	}

	layer := make([]int, n)
	queue := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if indegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	visited := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		visited++
		for _, next := range outgoing[cur] {
			if l := layer[cur] + 1; l > layer[next] {
				layer[next] = l
			}
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	if visited != n {
		panic(fmt.Sprintf("layout: rank: %d of %d nodes unreachable, cycle survived breaking", n-visited, n))
	}

	for i := range st.nodes {
		st.nodes[i].layer = layer[i]
	}
}
