// Package config defines the format-agnostic graph configuration model
// (nodes, connections, ring size) that a declarative loader such as
// internal/hclgraph produces and internal/app wires into a
// rendergraph.Graph.
package config
