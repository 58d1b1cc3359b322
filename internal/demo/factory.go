package demo

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"

	"github.com/rgcore/rendergraph/internal/graphcore"
	"github.com/rgcore/rendergraph/internal/hclgraph"
)

type sourceArgs struct {
	Width  uint32 `hcl:"width"`
	Height uint32 `hcl:"height"`
}

type passArgs struct {
	Delay int `hcl:"delay,optional"`
}

type sinkArgs struct {
	Delay int `hcl:"delay,optional"`
}

// Register adds the "source", "pass", and "sink" node types to reg, so a
// declarative graph file can build the same demo pipeline cmd/rgdemo builds
// programmatically by default.
func Register(reg *hclgraph.Registry) {
	reg.Register("source", func(ctx context.Context, name string, args hcl.Body, evalCtx *hcl.EvalContext) (graphcore.Node, error) {
		var a sourceArgs
		if args != nil {
			if diags := gohcl.DecodeBody(args, evalCtx, &a); diags.HasErrors() {
				return nil, fmt.Errorf("decode source %q arguments: %s", name, diags.Error())
			}
		}
		if a.Width == 0 || a.Height == 0 {
			return nil, fmt.Errorf("source %q requires non-zero width and height", name)
		}
		return NewSource(name, a.Width, a.Height), nil
	})

	reg.Register("pass", func(ctx context.Context, name string, args hcl.Body, evalCtx *hcl.EvalContext) (graphcore.Node, error) {
		var a passArgs
		if args != nil {
			if diags := gohcl.DecodeBody(args, evalCtx, &a); diags.HasErrors() {
				return nil, fmt.Errorf("decode pass %q arguments: %s", name, diags.Error())
			}
		}
		return NewPass(name, a.Delay), nil
	})

	reg.Register("sink", func(ctx context.Context, name string, args hcl.Body, evalCtx *hcl.EvalContext) (graphcore.Node, error) {
		var a sinkArgs
		if args != nil {
			if diags := gohcl.DecodeBody(args, evalCtx, &a); diags.HasErrors() {
				return nil, fmt.Errorf("decode sink %q arguments: %s", name, diags.Error())
			}
		}
		return NewSink(name, a.Delay), nil
	})
}
