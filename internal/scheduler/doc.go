// Package scheduler computes the build-time topological order over a
// render graph's zero-delay subgraph, resolving each node's output
// descriptors from its already-resolved producers along the way.
package scheduler
