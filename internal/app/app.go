package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/rgcore/rendergraph"
	"github.com/rgcore/rendergraph/internal/ctxlog"
	"github.com/rgcore/rendergraph/internal/demo"
	"github.com/rgcore/rendergraph/internal/gpufake"
	"github.com/rgcore/rendergraph/internal/hclgraph"
)

const maxTimestampsPerSlot = 64

// App encapsulates the demo harness's dependencies, configuration, and
// lifecycle: a fake GPU backend, the graph built against it, and the
// profiler report printer.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config

	device *gpufake.Device
	queue  *gpufake.Queue
	graph  *rendergraph.Graph

	httpServer *http.Server
}

// NewApp builds a gpufake-backed graph per cfg: loaded from cfg.GraphPath if
// set, or the built-in source -> pass -> sink pipeline otherwise, then runs
// the build sequence once before returning.
func NewApp(ctx context.Context, outW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("logger configured", "level", cfg.LogLevel, "format", cfg.LogFormat)

	device := gpufake.NewDevice()
	queue := gpufake.NewQueue()
	allocator := gpufake.NewAllocator()

	pools := make([]rendergraph.CommandPool, cfg.RingSize)
	queryPools := make([]rendergraph.QueryPool, cfg.RingSize)
	for i := 0; i < cfg.RingSize; i++ {
		pools[i] = gpufake.NewCommandPool()
		queryPools[i] = gpufake.NewQueryPool(maxTimestampsPerSlot)
	}

	graph, err := rendergraph.NewGraph(device, queue, allocator, allocator, pools, queryPools, maxTimestampsPerSlot)
	if err != nil {
		return nil, fmt.Errorf("construct graph: %w", err)
	}

	if cfg.GraphPath != "" {
		if err := loadDeclarativeGraph(ctx, graph, cfg.GraphPath); err != nil {
			return nil, fmt.Errorf("load graph file %q: %w", cfg.GraphPath, err)
		}
		logger.Debug("graph loaded from file", "path", cfg.GraphPath)
	} else {
		if err := buildDefaultPipeline(graph); err != nil {
			return nil, fmt.Errorf("build default pipeline: %w", err)
		}
		logger.Debug("built-in source -> pass -> sink pipeline registered")
	}

	buildCmd, err := pools[0].Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin build command buffer: %w", err)
	}
	if err := graph.Build(ctx, buildCmd); err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		device: device,
		queue:  queue,
		graph:  graph,
	}, nil
}

// loadDeclarativeGraph loads path via internal/hclgraph against the demo
// node registry and applies it to g. Node arguments may reference the
// "ring_size" variable, bound to the file's own ring size (its ring block,
// or 2 when absent). That value does not size g's in-flight ring, which was
// built from cfg.RingSize before the file is loaded.
func loadDeclarativeGraph(ctx context.Context, g *rendergraph.Graph, path string) error {
	model, err := hclgraph.Load(ctx, path)
	if err != nil {
		return err
	}
	reg := hclgraph.NewRegistry()
	demo.Register(reg)
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"ring_size": cty.NumberIntVal(int64(model.RingSize)),
		},
	}
	return hclgraph.Apply(ctx, model, reg, g, evalCtx)
}

// buildDefaultPipeline registers a minimal source -> pass -> sink linear
// pipeline as the graph to run when no declarative graph file is given.
func buildDefaultPipeline(g *rendergraph.Graph) error {
	if err := g.AddNode("A", demo.NewSource("A", 256, 256)); err != nil {
		return err
	}
	if err := g.AddNode("B", demo.NewPass("B", 0)); err != nil {
		return err
	}
	if err := g.AddNode("C", demo.NewSink("C", 0)); err != nil {
		return err
	}
	if err := g.ConnectImage("A", 0, "B", 0); err != nil {
		return err
	}
	return g.ConnectImage("B", 0, "C", 0)
}
