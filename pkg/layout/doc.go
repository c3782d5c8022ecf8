// Package layout computes deterministic 2-D layouts for flowchart graphs.
//
// The engine implements the classic layered (Sugiyama-style) pipeline:
//
//  1. Cycle breaking: depth-first search marks back-edges as reversed so the
//     remaining logical graph is acyclic. Original edge endpoints are never
//     mutated; the reversed flag is carried through to the output so
//     renderers can still draw the arrowhead on the semantic target.
//  2. Rank assignment: longest-path layering via topological (Kahn) order.
//  3. Normalization: edges spanning more than one layer are subdivided with
//     synthetic dummy nodes, one per intermediate layer.
//  4. Crossing reduction: iterative barycenter reordering within layers,
//     alternating downward and upward sweeps for a bounded pass count.
//  5. Coordinate assignment: (layer, order) becomes (x, y) using node sizes
//     and padding from [Style]; reversed directions (BT, RL) mirror the
//     result along the flow axis.
//  6. Edge routing: one polyline per original edge through the dummy
//     positions, with entry/exit ports chosen by direction and relative
//     rank.
//
// All phases are deterministic: traversal follows declaration order, sorts
// are stable, and the pass count is fixed, so identical input always
// produces identical output. The whole computation is a single synchronous
// call that owns its state exclusively; independent calls may run
// concurrently.
//
// Graphs with member-carrying subgraphs are laid out in grouped mode: each
// top-level group is laid out independently, groups are arranged side by
// side, and cross-group edges are routed through bands outside the groups.
//
// Coordinates are node centers in abstract units. Renderers decide what a
// unit means.
package layout
