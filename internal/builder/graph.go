package builder

import (
	"context"
	"fmt"
	"sync"

	"github.com/rgcore/rendergraph/internal/alloc"
	"github.com/rgcore/rendergraph/internal/barrier"
	"github.com/rgcore/rendergraph/internal/ctxlog"
	"github.com/rgcore/rendergraph/internal/graphcore"
	"github.com/rgcore/rendergraph/internal/ring"
	"github.com/rgcore/rendergraph/internal/scheduler"
)

// Graph is the render graph builder and run orchestrator: it owns node and
// connection registration and drives the build sequence that
// produces a scheduler.Plan, allocates resources, and plans barriers.
type Graph struct {
	mu sync.Mutex

	order []string
	nodes map[string]graphcore.Node
	edges []scheduler.Edge

	device     graphcore.Device
	queue      graphcore.Queue
	persistent graphcore.PersistentAllocator
	aliasing   graphcore.AliasingAllocator

	ring *ring.Ring

	built bool
	sched *scheduler.Plan
	res   *alloc.Resources
	bplan *barrier.GraphPlan

	rs graphcore.RunState
}

// New constructs an empty Graph. pools and queryPools must have the same
// length, the in-flight ring size R; maxTimestampsPerSlot
// bounds how many profiler CmdStart/CmdEnd pairs one frame may record per
// slot.
func New(
	device graphcore.Device,
	queue graphcore.Queue,
	persistent graphcore.PersistentAllocator,
	aliasing graphcore.AliasingAllocator,
	pools []graphcore.CommandPool,
	queryPools []graphcore.QueryPool,
	maxTimestampsPerSlot uint32,
) (*Graph, error) {
	if len(pools) == 0 {
		return nil, &graphcore.Error{Kind: graphcore.KindArgument, Msg: "ring requires at least one in-flight slot"}
	}
	if len(pools) != len(queryPools) {
		return nil, &graphcore.Error{Kind: graphcore.KindArgument, Msg: "command pool count must match query pool count"}
	}
	return &Graph{
		nodes:      make(map[string]graphcore.Node),
		device:     device,
		queue:      queue,
		persistent: persistent,
		aliasing:   aliasing,
		ring:       ring.New(pools, queryPools, maxTimestampsPerSlot),
	}, nil
}

// AddNode registers a node under name. Re-adding a name fails with
// argument-error; a node added after a build is picked up by the next Build.
func (g *Graph) AddNode(name string, n graphcore.Node) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.nodes[name]; exists {
		return &graphcore.Error{Kind: graphcore.KindArgument, Node: name, Msg: "node already registered"}
	}
	g.nodes[name] = n
	g.order = append(g.order, name)
	return nil
}

// ConnectImage buffers an image connection until Build runs.
func (g *Graph) ConnectImage(srcNode string, srcOutput int, dstNode string, dstInput int) error {
	return g.connect(graphcore.KindImage, srcNode, srcOutput, dstNode, dstInput)
}

// ConnectBuffer buffers a buffer connection until Build runs.
func (g *Graph) ConnectBuffer(srcNode string, srcOutput int, dstNode string, dstInput int) error {
	return g.connect(graphcore.KindBuffer, srcNode, srcOutput, dstNode, dstInput)
}

func (g *Graph) connect(kind graphcore.ConnectorKind, srcNode string, srcOutput int, dstNode string, dstInput int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[srcNode]; !ok {
		return &graphcore.Error{Kind: graphcore.KindArgument, Node: srcNode, Msg: "unknown source node"}
	}
	if _, ok := g.nodes[dstNode]; !ok {
		return &graphcore.Error{Kind: graphcore.KindArgument, Node: dstNode, Msg: "unknown destination node"}
	}
	for _, ed := range g.edges {
		if ed.DstNode == dstNode && ed.DstInput == dstInput {
			return &graphcore.Error{Kind: graphcore.KindArgument, Node: dstNode,
				Msg: fmt.Sprintf("input %d already has a connected sink", dstInput)}
		}
	}
	// kind selects ConnectImage vs ConnectBuffer at the call site; it carries
	// no information the resolved descriptors don't already have, so
	// compatibility is checked against those once Build resolves them.
	_ = kind
	g.edges = append(g.edges, scheduler.Edge{SrcNode: srcNode, SrcOutput: srcOutput, DstNode: dstNode, DstInput: dstInput})
	return nil
}

// Ring exposes the in-flight ring so the run engine (and tests) can drive
// it; it is not part of the public node-authoring surface.
func (g *Graph) Ring() *ring.Ring { return g.ring }

// Plan exposes the last successful build's scheduler plan, resources, and
// barrier plan.
func (g *Graph) Plan() (*scheduler.Plan, *alloc.Resources, *barrier.GraphPlan, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sched, g.res, g.bplan, g.built
}

// Nodes exposes the registered nodes in registration order.
func (g *Graph) Nodes() (order []string, nodes map[string]graphcore.Node) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.order...), g.nodes
}

// RunState returns the Graph's reusable per-frame RunState.
func (g *Graph) RunState() *graphcore.RunState { return &g.rs }

// Build runs the scheduler, allocator driver, and barrier planner, then
// invokes each node's Build hook with its per-slot resource tables, in
// topological order. buildCmd is the command buffer node Build hooks may
// record one-time setup work into.
func (g *Graph) Build(ctx context.Context, buildCmd graphcore.CommandBuffer) error {
	log := ctxlog.FromContext(ctx)

	g.mu.Lock()
	order := append([]string(nil), g.order...)
	nodes := g.nodes
	edges := append([]scheduler.Edge(nil), g.edges...)
	device, queue := g.device, g.queue
	persistent, aliasing := g.persistent, g.aliasing
	g.mu.Unlock()

	// Step 1: wait for quiescence.
	if queue != nil {
		if err := queue.WaitIdle(ctx); err != nil {
			return &graphcore.Error{Kind: graphcore.KindAllocation, Msg: "wait for queue quiescence", Err: err}
		}
	} else if device != nil {
		if err := device.WaitIdle(ctx); err != nil {
			return &graphcore.Error{Kind: graphcore.KindAllocation, Msg: "wait for device quiescence", Err: err}
		}
	}

	entries := make([]scheduler.NodeEntry, len(order))
	for i, name := range order {
		entries[i] = scheduler.NodeEntry{Name: name, Node: nodes[name]}
	}

	sched, err := scheduler.Schedule(ctx, entries, edges)
	if err != nil {
		return err
	}

	if err := validateEdgeDescriptors(sched, edges); err != nil {
		return err
	}

	if err := validateDistinctDelays(sched, edges); err != nil {
		return err
	}

	res, err := alloc.Allocate(ctx, sched, edges, persistent, aliasing)
	if err != nil {
		return err
	}

	bplan, err := barrier.Plan(ctx, sched, res)
	if err != nil {
		return err
	}

	for _, name := range sched.Order {
		np := bplan.Nodes[name]
		if err := nodes[name].Build(ctx, buildCmd, np.Tables); err != nil {
			return &graphcore.Error{Kind: graphcore.KindAllocation, Node: name, Msg: "node build hook", Err: err}
		}
	}

	g.mu.Lock()
	g.sched, g.res, g.bplan = sched, res, bplan
	g.built = true
	g.mu.Unlock()

	g.ring.ResetOnBuild()
	log.Info("graph build finished", "nodes", len(order), "edges", len(edges))
	return nil
}

// validateEdgeDescriptors checks every edge's source output and destination
// input indices against the resolved descriptor counts, and the two sides'
// connector kinds against each other, regardless of delay: the scheduler
// only resolves a zero-delay edge's source output while iterating, so a
// feedback edge's indices and kind agreement are otherwise never checked
// anywhere and would surface downstream as an index-out-of-range panic or a
// silently dropped connection instead of a clean error.
func validateEdgeDescriptors(sched *scheduler.Plan, edges []scheduler.Edge) error {
	for _, ed := range edges {
		srcOuts := sched.Outputs[ed.SrcNode]
		if ed.SrcOutput < 0 || ed.SrcOutput >= len(srcOuts) {
			return &graphcore.Error{Kind: graphcore.KindValidation, Node: ed.SrcNode,
				Msg: fmt.Sprintf("output index %d exceeds %d declared outputs", ed.SrcOutput, len(srcOuts))}
		}
		dstIns := sched.Inputs[ed.DstNode]
		if ed.DstInput < 0 || ed.DstInput >= len(dstIns) {
			return &graphcore.Error{Kind: graphcore.KindValidation, Node: ed.DstNode,
				Msg: fmt.Sprintf("input index %d exceeds %d declared inputs", ed.DstInput, len(dstIns))}
		}
		out, in := srcOuts[ed.SrcOutput], dstIns[ed.DstInput]
		if !graphcore.Compatible(out, in) {
			return &graphcore.Error{Kind: graphcore.KindConnector, Node: ed.SrcNode,
				Msg: fmt.Sprintf("output %q is %s, but %s.%s is %s", out.Name, out.Kind, ed.DstNode, in.Name, in.Kind)}
		}
	}
	return nil
}

// validateDistinctDelays enforces that image sinks reading the same
// (srcNode, srcOutput) carry pairwise-distinct delays: no two concurrent
// layout demands on one physical backing.
func validateDistinctDelays(sched *scheduler.Plan, edges []scheduler.Edge) error {
	type key struct {
		node string
		idx  int
	}
	seen := make(map[key]map[int]bool)
	for _, ed := range edges {
		outs := sched.Outputs[ed.SrcNode]
		if ed.SrcOutput >= len(outs) || outs[ed.SrcOutput].Kind != graphcore.KindImage {
			continue
		}
		dstIn := sched.Inputs[ed.DstNode][ed.DstInput]
		k := key{ed.SrcNode, ed.SrcOutput}
		if seen[k] == nil {
			seen[k] = make(map[int]bool)
		}
		if seen[k][dstIn.Delay] {
			return &graphcore.Error{Kind: graphcore.KindValidation, Node: ed.SrcNode,
				Msg: fmt.Sprintf("output %d has two sinks with the same delay %d", ed.SrcOutput, dstIn.Delay)}
		}
		seen[k][dstIn.Delay] = true
	}
	return nil
}
