// Package graphcore holds the render-graph core's shared vocabulary: the
// Node contract, connector/descriptor types, the GPU collaborator
// interfaces, and the typed error kind. It exists so
// internal/scheduler, internal/alloc, internal/barrier, internal/engine,
// internal/ring, and internal/profiler can all depend on one definition of
// these types without importing the public rendergraph package, which
// itself depends on them.
//
// The root rendergraph package re-exports everything here as type aliases;
// callers should use rendergraph, not graphcore, directly.
package graphcore
