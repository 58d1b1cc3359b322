// Package barrier implements the build-time barrier planner: for every
// node it computes the resource-set width N as the lcm of the
// copy counts touched by that node's neighbourhood, then precomputes, for
// each slot, the concrete resource bindings and the barrier batch that
// must be submitted before the node runs in that slot.
package barrier

import (
	"context"

	"github.com/rgcore/rendergraph/internal/alloc"
	"github.com/rgcore/rendergraph/internal/graphcore"
	"github.com/rgcore/rendergraph/internal/scheduler"
)

// Batch is the merged set of image and buffer barriers to submit before a
// node's command recording for one slot.
type Batch struct {
	Images  []graphcore.ImageBarrier
	Buffers []graphcore.BufferBarrier
}

// NodePlan is one node's complete precomputed slot table and the matching
// barrier batch for each slot.
type NodePlan struct {
	Tables  graphcore.SlotTables
	Batches []Batch
}

// GraphPlan is every node's NodePlan, keyed by name.
type GraphPlan struct {
	Nodes map[string]NodePlan
}

// Plan computes barriers for every node in sched. The cross-node state
// evolution it simulates follows a local-lcm semantics: physical resource
// state is advanced by replaying global
// iterations 0..globalN-1 in topological order and recording each node's
// outcome the first time a given slot index recurs, rather than
// reconciling the rare case where two producers with different N observe
// the same shared copy in inconsistent states.
func Plan(ctx context.Context, sched *scheduler.Plan, res *alloc.Resources) (*GraphPlan, error) {
	nodeN := make(map[string]int, len(sched.Order))
	for _, name := range sched.Order {
		nodeN[name] = nForNode(name, sched, res)
	}

	globalN := 1
	for _, n := range nodeN {
		globalN = scheduler.LCM([]int{globalN, n})
	}

	plans := make(map[string]NodePlan, len(sched.Order))
	done := make(map[string]map[int]bool, len(sched.Order))
	for _, name := range sched.Order {
		n := nodeN[name]
		plans[name] = NodePlan{
			Tables:  graphcore.SlotTables{N: n, Slots: make([]graphcore.SlotBindings, n), Status: statusForNode(name, sched, res)},
			Batches: make([]Batch, n),
		}
		done[name] = make(map[int]bool, n)
	}

	for i := 0; i < globalN; i++ {
		for _, name := range sched.Order {
			n := nodeN[name]
			s := i % n
			if done[name][s] {
				continue
			}
			done[name][s] = true

			bindings, batch := planSlot(name, i, s, sched, res)
			np := plans[name]
			np.Tables.Slots[s] = bindings
			np.Batches[s] = batch
			plans[name] = np
		}
	}

	return &GraphPlan{Nodes: plans}, nil
}

// nForNode computes N = lcm of the copy counts of every distinct source
// feeding one of this node's inputs, plus the copy counts of its own
// outputs.
func nForNode(name string, sched *scheduler.Plan, res *alloc.Resources) int {
	counts := []int{1}
	for idx := range sched.Inputs[name] {
		ed, ok := sched.InEdges[name][idx]
		if !ok {
			continue
		}
		srcOuts := res.Outputs[ed.SrcNode]
		if ed.SrcOutput < len(srcOuts) {
			counts = append(counts, srcOuts[ed.SrcOutput].CopyCount)
		}
	}
	for _, out := range res.Outputs[name] {
		counts = append(counts, out.CopyCount)
	}
	return scheduler.LCM(counts)
}

// statusForNode unions the StatusFlags of every output this node produces
// with those of every output feeding one of its inputs: a node must learn
// about a fresh backing whether it is the producer or a consumer, since
// either side's bound descriptor set could reference the old handle.
func statusForNode(name string, sched *scheduler.Plan, res *alloc.Resources) graphcore.StatusFlags {
	var status graphcore.StatusFlags
	for _, out := range res.Outputs[name] {
		status |= out.Status
	}
	for idx := range sched.Inputs[name] {
		ed, ok := sched.InEdges[name][idx]
		if !ok {
			continue
		}
		srcOuts := res.Outputs[ed.SrcNode]
		if ed.SrcOutput < len(srcOuts) {
			status |= srcOuts[ed.SrcOutput].Status
		}
	}
	return status
}

func planSlot(name string, iteration, slot int, sched *scheduler.Plan, res *alloc.Resources) (graphcore.SlotBindings, Batch) {
	bindings := graphcore.SlotBindings{Index: slot}
	var batch Batch

	for idx, in := range sched.Inputs[name] {
		ed, connected := sched.InEdges[name][idx]
		if !connected {
			continue
		}
		srcOut := res.Outputs[ed.SrcNode][ed.SrcOutput]
		k := srcOut.CopyCount
		physIdx := ((iteration+k-in.Delay)%k + k) % k
		state := srcOut.States[physIdx]

		switch in.Kind {
		case graphcore.KindImage:
			img := srcOut.Images[physIdx]
			bindings.InputImages = append(bindings.InputImages, img)
			if state.LastUsedAsOutput {
				batch.Images = append(batch.Images, graphcore.ImageBarrier{
					Image:     img,
					SrcStage:  state.CurrentStage,
					DstStage:  in.Stages,
					SrcAccess: state.CurrentAccess,
					DstAccess: in.Access,
					OldLayout: state.CurrentLayout,
					NewLayout: in.RequiredLayout,
				})
				state.CurrentStage = in.Stages
				state.CurrentAccess = in.Access
				state.CurrentLayout = in.RequiredLayout
				state.LastUsedAsOutput = false
			} else if state.CurrentLayout != in.RequiredLayout {
				batch.Images = append(batch.Images, graphcore.ImageBarrier{
					Image:     img,
					SrcStage:  in.Stages,
					DstStage:  in.Stages,
					SrcAccess: in.Access,
					DstAccess: in.Access,
					OldLayout: state.CurrentLayout,
					NewLayout: in.RequiredLayout,
				})
				state.CurrentLayout = in.RequiredLayout
			}
		case graphcore.KindBuffer:
			buf := srcOut.Buffers[physIdx]
			bindings.InputBuffers = append(bindings.InputBuffers, buf)
			if state.LastUsedAsOutput {
				batch.Buffers = append(batch.Buffers, graphcore.BufferBarrier{
					Buffer:    buf,
					SrcStage:  state.CurrentStage,
					DstStage:  in.Stages,
					SrcAccess: state.CurrentAccess,
					DstAccess: in.Access,
				})
				state.CurrentStage = in.Stages
				state.CurrentAccess = in.Access
				state.LastUsedAsOutput = false
			}
		}
	}

	for _, out := range res.Outputs[name] {
		k := out.CopyCount
		physIdx := iteration % k
		state := out.States[physIdx]

		switch out.Desc.Kind {
		case graphcore.KindImage:
			img := out.Images[physIdx]
			bindings.OutputImages = append(bindings.OutputImages, img)
			oldLayout := state.CurrentLayout
			if !out.Desc.Persistent {
				oldLayout = graphcore.LayoutUndefined
			}
			batch.Images = append(batch.Images, graphcore.ImageBarrier{
				Image:     img,
				SrcStage:  state.CurrentStage,
				DstStage:  out.Desc.ProducerStages,
				SrcAccess: state.CurrentAccess,
				DstAccess: out.Desc.ProducerAccess,
				OldLayout: oldLayout,
				NewLayout: producerLayout(out.Desc),
			})
			state.CurrentStage = out.Desc.ProducerStages
			state.CurrentAccess = out.Desc.ProducerAccess
			state.CurrentLayout = producerLayout(out.Desc)
			state.LastUsedAsOutput = true
		case graphcore.KindBuffer:
			buf := out.Buffers[physIdx]
			bindings.OutputBuffers = append(bindings.OutputBuffers, buf)
			batch.Buffers = append(batch.Buffers, graphcore.BufferBarrier{
				Buffer:    buf,
				SrcStage:  state.CurrentStage,
				DstStage:  out.Desc.ProducerStages,
				SrcAccess: state.CurrentAccess,
				DstAccess: out.Desc.ProducerAccess,
			})
			state.CurrentStage = out.Desc.ProducerStages
			state.CurrentAccess = out.Desc.ProducerAccess
			state.LastUsedAsOutput = true
		}
	}

	return bindings, batch
}

// producerLayout derives the layout a producer writes an image in from its
// declared access pattern; the core has no separate "output required
// layout" field, only one on inputs, so this infers the conventional
// layout for each producer access kind.
func producerLayout(out graphcore.OutputDescriptor) graphcore.ImageLayout {
	switch {
	case out.ProducerAccess&graphcore.AccessColorAttachmentWrite != 0:
		return graphcore.LayoutColorAttachmentOptimal
	case out.ProducerAccess&graphcore.AccessTransferWrite != 0:
		return graphcore.LayoutTransferDstOptimal
	case out.ProducerAccess&graphcore.AccessShaderWrite != 0:
		return graphcore.LayoutGeneral
	default:
		return graphcore.LayoutGeneral
	}
}
