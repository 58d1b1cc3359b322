// Package engine implements the run engine: the per-frame
// sequence of advancing the in-flight ring, pre-processing every node,
// conditionally rebuilding, and dispatching each node's barrier batch and
// process hook in topological order.
package engine
