// Package explorer drives incremental exploration of an address graph.
//
// A [Controller] owns no state of its own. Everything the presentation layer
// shows (the graph, per-address pagination, the expanded set, the
// user-arranged flag and the selected node) lives in a [Store] that applies
// each change as one atomic replace of the whole [State]. Readers always see
// a complete prior or next value.
//
// # Operations
//
//   - [Controller.Submit]: reset everything, then fetch page 0 of the new
//     seed into a fresh graph
//   - [Controller.ExpandIfNeeded]: first fetch for an address, merged into the graph
//   - [Controller.LoadMore]: next page for an address that has a cursor
//   - [Controller.MoveNode], [Controller.Relayout], [Controller.Select], [Controller.Clear]
//   - [Controller.View]: the graph laid out for display plus status flags
//
// Operations block until their fetch completes; callers run them on their
// own goroutine. Expand and load-more for the same address are not
// serialized: when both are in flight their results apply in completion
// order. Merging is idempotent so this never corrupts the graph.
//
// Failures of expand and load-more are reported through [Result] and the
// activity log only; they never set the error status of the view. Only the
// initial load does.
package explorer
