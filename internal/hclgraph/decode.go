package hclgraph

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/rgcore/rendergraph/internal/config"
	"github.com/rgcore/rendergraph/internal/ctxlog"
	"github.com/rgcore/rendergraph/internal/schema"
)

// DecodeFile parses and decodes a single graph file into a schema.GraphFile.
func DecodeFile(ctx context.Context, filePath string) (*schema.GraphFile, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("decoding graph file", "path", filePath)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %s", filePath, diags.Error())
	}

	var gf schema.GraphFile
	if diags := gohcl.DecodeBody(file.Body, nil, &gf); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %s", filePath, diags.Error())
	}
	return &gf, nil
}

// Load resolves path to its .hcl files, decodes each, and merges the
// results into a single format-agnostic config.Model.
func Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := ResolveGraphPath(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve graph path %q: %w", path, err)
	}
	if len(files) == 0 {
		logger.Warn("no .hcl files found", "path", path)
		return &config.Model{RingSize: 2}, nil
	}

	model := &config.Model{RingSize: 2}
	for _, f := range files {
		gf, err := DecodeFile(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("failed to load graph file %q: %w", f, err)
		}
		for _, n := range gf.Nodes {
			var body = n.Arguments
			inst := config.NodeInstance{Type: n.Type, Name: n.Name}
			if body != nil {
				inst.Arguments = body.Body
			}
			model.Nodes = append(model.Nodes, inst)
		}
		for _, c := range gf.Connections {
			model.Connections = append(model.Connections, config.Connection{
				From: c.From, FromOutput: c.FromOutput,
				To: c.To, ToInput: c.ToInput,
				Buffer: c.Kind == "buffer",
			})
		}
		if gf.Ring != nil {
			model.RingSize = gf.Ring.Size
		}
	}

	logger.Debug("finished loading graph files", "files", len(files), "nodes", len(model.Nodes), "connections", len(model.Connections))
	return model, nil
}
