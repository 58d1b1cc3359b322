// Package hclgraph is the declarative loader for graph files: it resolves
// a path to one or more .hcl files, decodes each into the format-agnostic
// config.Model, and, given a Registry of node factories, applies the
// result onto a builder.Graph.
//
// This is additive to the programmatic Graph.AddNode/ConnectImage API; a
// caller may build a graph purely in Go and never touch this package.
package hclgraph
