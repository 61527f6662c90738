// Package layout assigns 2-D positions to the nodes of an address graph.
//
// # Strategies
//
//   - [TopDown]: breadth-first levels from a root, one row per level
//   - [Vertical]: a single column in node order
//   - [Circle]: a ring, filling only nodes that have no position yet
//   - [PlaceAround]: appends new nodes on a ring around a center node
//   - [PlaceBelow]: positions listed nodes in a row under a center node
//
// Every function is pure: it returns a new [graph.Graph] and never modifies
// its input. Edges are shared with the input unchanged. Functions that take
// a center node return the input graph as-is when the center is missing.
//
// Coordinates are in screen orientation: y grows downwards, so level 0 of
// [TopDown] is the top row.
package layout
