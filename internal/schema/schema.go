// Package schema defines the HCL block structures a declarative graph file
// is decoded into: node instances, the connections between their
// inputs/outputs, and the in-flight ring size.
package schema

import "github.com/hashicorp/hcl/v2"

// ArgsBody is the raw, undecoded content of a node's `arguments` block;
// each node type interprets its own arguments body.
type ArgsBody struct {
	Body hcl.Body `hcl:",remain"`
}

// NodeBlock represents a `node "<type>" "<name>" { ... }` block: one
// instance of a registered node type.
type NodeBlock struct {
	Type      string    `hcl:"type,label"`
	Name      string    `hcl:"name,label"`
	Arguments *ArgsBody `hcl:"arguments,block"`
}

// ConnectBlock represents a `connect { ... }` block, the declarative form
// of Graph.ConnectImage / Graph.ConnectBuffer.
type ConnectBlock struct {
	From       string `hcl:"from"`
	FromOutput int    `hcl:"from_output,optional"`
	To         string `hcl:"to"`
	ToInput    int    `hcl:"to_input,optional"`
	Kind       string `hcl:"kind,optional"` // "image" (default) or "buffer"
}

// RingBlock represents the top-level `ring { size = N }` block.
type RingBlock struct {
	Size int `hcl:"size"`
}

// GraphFile is the top-level structure of a single declarative graph file.
type GraphFile struct {
	Nodes       []*NodeBlock    `hcl:"node,block"`
	Connections []*ConnectBlock `hcl:"connect,block"`
	Ring        *RingBlock      `hcl:"ring,block"`
	Body        hcl.Body        `hcl:",remain"`
}
