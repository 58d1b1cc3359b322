package hclgraph

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"

	"github.com/rgcore/rendergraph/internal/builder"
	"github.com/rgcore/rendergraph/internal/config"
	"github.com/rgcore/rendergraph/internal/graphcore"
)

// Factory constructs a node instance from its decoded arguments body: a
// named, data-driven way to instantiate a Go type from declarative config.
type Factory func(ctx context.Context, name string, args hcl.Body, evalCtx *hcl.EvalContext) (graphcore.Node, error)

// Registry maps a node `type` label to the Factory that constructs it.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a Factory under typ, overwriting any existing entry.
func (r *Registry) Register(typ string, f Factory) {
	r.factories[typ] = f
}

// Apply constructs every model.Nodes entry via its registered
// Factory, adds it to g, then replays every connection. evalCtx is passed
// through to each Factory for argument expression evaluation; it may be
// nil for graphs with no cross-node variable references.
func Apply(ctx context.Context, model *config.Model, reg *Registry, g *builder.Graph, evalCtx *hcl.EvalContext) error {
	for _, n := range model.Nodes {
		f, ok := reg.factories[n.Type]
		if !ok {
			return &graphcore.Error{Kind: graphcore.KindArgument, Node: n.Name, Msg: fmt.Sprintf("no node factory registered for type %q", n.Type)}
		}
		node, err := f(ctx, n.Name, n.Arguments, evalCtx)
		if err != nil {
			return &graphcore.Error{Kind: graphcore.KindArgument, Node: n.Name, Msg: "construct node", Err: err}
		}
		if err := g.AddNode(n.Name, node); err != nil {
			return err
		}
	}

	for _, c := range model.Connections {
		var err error
		if c.Buffer {
			err = g.ConnectBuffer(c.From, c.FromOutput, c.To, c.ToInput)
		} else {
			err = g.ConnectImage(c.From, c.FromOutput, c.To, c.ToInput)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
