package config

import "github.com/hashicorp/hcl/v2"

// Model is the unified, format-agnostic representation of a declarative
// graph file: the node instances to build, the connections between them,
// and the ring size, independent of whatever surface syntax produced it.
type Model struct {
	Nodes       []NodeInstance
	Connections []Connection
	RingSize    int
}

// NodeInstance is one node to construct from a registered factory, with
// its raw, format-specific arguments body still attached for the factory
// to decode.
type NodeInstance struct {
	Type      string
	Name      string
	Arguments hcl.Body
}

// Connection is the format-agnostic form of a `connect` block.
type Connection struct {
	From       string
	FromOutput int
	To         string
	ToInput    int
	Buffer     bool
}
