package preview

import (
	"fmt"
	"strings"
)

// labelPool holds the node labels random diagrams draw from. Labels
// ending in "?" become decision diamonds.
var labelPool = []string{
	"request", "response", "cache?", "miss", "hit",
	"retry", "ok", "fail", "event",
}

// rng is a small linear congruential generator. Diagrams generated from
// the same seed are identical, which keeps tests deterministic and makes
// a preview page reproducible from its seed alone.
type rng struct {
	state uint64
}

func newRNG(seed uint64) *rng {
	return &rng{state: seed}
}

func (r *rng) next() uint64 {
	r.state = r.state*6364136223846793005 + 1
	return r.state
}

// intn returns a value in [0, n). Uses the high bits, the low bits of an
// LCG cycle too quickly.
func (r *rng) intn(n int) int {
	return int((r.next() >> 33) % uint64(n))
}

// RandomSource generates flowchart source text from a seed. The result
// has 4-10 nodes in a chain with occasional skip edges, labels drawn
// from a small pool, and a direction sampled from TB and LR.
func RandomSource(seed uint64) string {
	r := newRNG(seed)

	direction := "TB"
	if r.intn(2) == 1 {
		direction = "LR"
	}

	count := 4 + r.intn(7)

	var b strings.Builder
	fmt.Fprintf(&b, "flowchart %s\n", direction)

	// Node declarations. Roughly one in four gets a shaped bracket,
	// everything else stays a plain rectangle.
	labels := make([]string, count)
	for i := range count {
		labels[i] = labelPool[r.intn(len(labelPool))]
		id := fmt.Sprintf("n%d", i)
		switch {
		case strings.HasSuffix(labels[i], "?"):
			fmt.Fprintf(&b, "  %s{%s}\n", id, labels[i])
		case r.intn(4) == 0:
			fmt.Fprintf(&b, "  %s(%s)\n", id, labels[i])
		default:
			fmt.Fprintf(&b, "  %s[%s]\n", id, labels[i])
		}
	}

	// Chain edges keep the graph connected.
	for i := range count - 1 {
		fmt.Fprintf(&b, "  n%d --> n%d\n", i, i+1)
	}

	// Occasional skip edges add crossings and branching.
	for i := range count - 2 {
		if r.intn(4) == 0 {
			target := i + 2 + r.intn(count-i-2)
			fmt.Fprintf(&b, "  n%d --> n%d\n", i, target)
		}
	}

	return b.String()
}
