package scheduler

import (
	"context"
	"fmt"

	"github.com/rgcore/rendergraph/internal/ctxlog"
	"github.com/rgcore/rendergraph/internal/graphcore"
)

// Edge is a directed connection (src_node, src_output_idx) -> (dst_node,
// dst_input_idx) buffered by the graph builder until build time.
type Edge struct {
	SrcNode   string
	SrcOutput int
	DstNode   string
	DstInput  int
}

// NodeEntry pairs a node with the name it was registered under.
type NodeEntry struct {
	Name string
	Node graphcore.Node
}

// Plan is the scheduler's output: a flat topological order plus every
// node's resolved input and output descriptors, and the edge each
// connected input resolves to.
type Plan struct {
	Order   []string
	Inputs  map[string][]graphcore.InputDescriptor
	Outputs map[string][]graphcore.OutputDescriptor
	// InEdges[node][inputIdx] is the edge feeding that input, present for
	// every connected input. A delayed input with no entry is legal.
	InEdges map[string]map[int]Edge
}

// placeholderFeedback is handed to DescribeOutputs in place of a delayed
// input's real producer descriptor, since the producer may not have run
// yet (or, for a self-loop, is the very node being resolved).
func placeholderFeedback(kind graphcore.ConnectorKind) graphcore.OutputDescriptor {
	return graphcore.OutputDescriptor{Kind: kind}
}

// Schedule runs the algorithm's validate/seed/iterate/terminate steps;
// waiting for device/queue quiescence beforehand is the caller's
// responsibility before invoking Schedule. entries must be in
// registration order; that order is the tie-break for nodes that become
// ready simultaneously.
func Schedule(ctx context.Context, entries []NodeEntry, edges []Edge) (*Plan, error) {
	log := ctxlog.FromContext(ctx)

	byName := make(map[string]graphcore.Node, len(entries))
	order := make([]string, len(entries))
	for i, e := range entries {
		byName[e.Name] = e.Node
		order[i] = e.Name
	}

	inputs := make(map[string][]graphcore.InputDescriptor, len(entries))
	for _, e := range entries {
		descs, err := e.Node.DescribeInputs(ctx)
		if err != nil {
			return nil, &graphcore.Error{Kind: graphcore.KindValidation, Node: e.Name, Msg: "describe inputs", Err: err}
		}
		inputs[e.Name] = descs
	}

	inEdgeByDst := make(map[string]map[int]Edge, len(entries))
	for _, name := range order {
		inEdgeByDst[name] = make(map[int]Edge)
	}
	for _, ed := range edges {
		if _, ok := byName[ed.SrcNode]; !ok {
			return nil, &graphcore.Error{Kind: graphcore.KindValidation, Node: ed.SrcNode, Msg: "connection references unknown source node"}
		}
		if _, ok := byName[ed.DstNode]; !ok {
			return nil, &graphcore.Error{Kind: graphcore.KindValidation, Node: ed.DstNode, Msg: "connection references unknown destination node"}
		}
		inEdgeByDst[ed.DstNode][ed.DstInput] = ed
	}

	// Step 2: validate. Every non-delayed input must be connected;
	// self-loops must carry delay >= 1.
	for _, name := range order {
		for idx, in := range inputs[name] {
			ed, connected := inEdgeByDst[name][idx]
			if !connected {
				if in.Delay == 0 {
					return nil, &graphcore.Error{Kind: graphcore.KindValidation, Node: name,
						Msg: fmt.Sprintf("input %q is not connected and has delay 0", in.Name)}
				}
				continue
			}
			if ed.SrcNode == name && in.Delay == 0 {
				return nil, &graphcore.Error{Kind: graphcore.KindValidation, Node: name,
					Msg: fmt.Sprintf("input %q is a self-loop with delay 0", in.Name)}
			}
		}
	}

	// zeroDelayPreds[n] is the set of distinct nodes feeding n via a
	// zero-delay edge; depCount[n] counts how many remain unvisited.
	zeroDelayPreds := make(map[string]map[string]bool, len(entries))
	for _, name := range order {
		zeroDelayPreds[name] = make(map[string]bool)
	}
	for _, name := range order {
		for idx, in := range inputs[name] {
			if in.Delay != 0 {
				continue
			}
			if ed, ok := inEdgeByDst[name][idx]; ok {
				zeroDelayPreds[name][ed.SrcNode] = true
			}
		}
	}
	depCount := make(map[string]int, len(entries))
	for _, name := range order {
		depCount[name] = len(zeroDelayPreds[name])
	}

	// Step 3: seed.
	var queue []string
	visited := make(map[string]bool, len(entries))
	for _, name := range order {
		if depCount[name] == 0 {
			queue = append(queue, name)
		}
	}

	outputs := make(map[string][]graphcore.OutputDescriptor, len(entries))

	// Step 4: iterate.
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if visited[name] {
			continue
		}
		visited[name] = true

		connected := make([]graphcore.OutputDescriptor, len(inputs[name]))
		for idx, in := range inputs[name] {
			ed, ok := inEdgeByDst[name][idx]
			if !ok || in.Delay > 0 {
				connected[idx] = placeholderFeedback(in.Kind)
				continue
			}
			srcOuts, ok := outputs[ed.SrcNode]
			if !ok || ed.SrcOutput >= len(srcOuts) {
				return nil, &graphcore.Error{Kind: graphcore.KindValidation, Node: name,
					Msg: fmt.Sprintf("input %q's source output is not yet resolved", in.Name)}
			}
			connected[idx] = srcOuts[ed.SrcOutput]
		}

		outs, err := byName[name].DescribeOutputs(ctx, connected)
		if err != nil {
			return nil, &graphcore.Error{Kind: graphcore.KindValidation, Node: name, Msg: "describe outputs", Err: err}
		}
		outputs[name] = outs

		// Newly-ready successors are appended in registration order, the
		// deterministic tie-break for simultaneous readiness.
		var readyNow []string
		for _, succ := range order {
			if visited[succ] || succ == name || !zeroDelayPreds[succ][name] {
				continue
			}
			depCount[succ]--
			if depCount[succ] == 0 {
				readyNow = append(readyNow, succ)
			}
		}
		queue = append(queue, readyNow...)
		log.Debug("scheduler visited node", "node", name)
	}

	// Step 5: terminate.
	if len(visited) < len(entries) {
		var stuck []string
		for _, name := range order {
			if !visited[name] {
				stuck = append(stuck, name)
			}
		}
		return nil, &graphcore.Error{Kind: graphcore.KindValidation,
			Msg: fmt.Sprintf("zero-delay subgraph is disconnected or cyclic; unreached nodes: %v", stuck)}
	}

	return &Plan{
		Order:   append([]string(nil), order...),
		Inputs:  inputs,
		Outputs: outputs,
		InEdges: inEdgeByDst,
	}, nil
}

// LCM returns the least common multiple of nums, used by the barrier
// planner to size a node's resource-set slot array.
func LCM(nums []int) int {
	if len(nums) == 0 {
		return 1
	}
	result := nums[0]
	for _, n := range nums[1:] {
		result = lcmPair(result, n)
	}
	if result == 0 {
		return 1
	}
	return result
}

func lcmPair(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return a / gcdPair(a, b) * b
}

func gcdPair(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}
