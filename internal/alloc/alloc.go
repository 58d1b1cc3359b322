// Package alloc is the allocator driver: for every output in a
// scheduled graph it computes the copy count required by that output's
// sinks and instantiates the physical backings through the persistent or
// aliasing allocator collaborator, seeding each copy's mutable
// current-state fields for the barrier planner to evolve.
package alloc

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/rgcore/rendergraph/internal/graphcore"
	"github.com/rgcore/rendergraph/internal/scheduler"
)

// State is one physical copy's mutable synchronization state. Only the
// barrier planner mutates these fields, and only during build-time
// precomputation; at run time they are read-only.
type State struct {
	CurrentStage     graphcore.PipelineStage
	CurrentAccess    graphcore.AccessFlags
	CurrentLayout    graphcore.ImageLayout
	LastUsedAsOutput bool
}

// Output is one node output's full set of physical copies, one per
// max_delay+1.
type Output struct {
	Desc      graphcore.OutputDescriptor
	CopyCount int
	Images    []graphcore.Image
	Buffers   []graphcore.Buffer
	States    []*State
	// Status is StatusNeedsDescriptorUpdate whenever this call allocated a
	// fresh backing, which today is every call: Allocate never reuses a
	// handle across builds, even for a persistent output.
	Status graphcore.StatusFlags
}

// Resources is every node's allocated outputs, keyed by node name then
// output index.
type Resources struct {
	Outputs map[string][]Output
}

// Allocate runs the allocator driver over a scheduled plan.
func Allocate(ctx context.Context, plan *scheduler.Plan, edges []scheduler.Edge, persistent graphcore.PersistentAllocator, aliasing graphcore.AliasingAllocator) (*Resources, error) {
	res := &Resources{Outputs: make(map[string][]Output, len(plan.Order))}

	for _, node := range plan.Order {
		outs := plan.Outputs[node]
		allocated := make([]Output, len(outs))

		// Every output of a node backs a physically distinct resource, so
		// their allocator calls carry no ordering dependency on each other;
		// fan them out and let the allocator collaborator serialize if it
		// needs to.
		g, gctx := errgroup.WithContext(ctx)
		for idx, out := range outs {
			idx, out := idx, out
			maxDelay := 0
			imageUsage := out.Image.Usage
			bufferUsage := out.Buffer.Usage
			for _, ed := range edges {
				if ed.SrcNode != node || ed.SrcOutput != idx {
					continue
				}
				dstIn := plan.Inputs[ed.DstNode][ed.DstInput]
				if out.Persistent && dstIn.Delay > 0 {
					return nil, &graphcore.Error{Kind: graphcore.KindPersistence, Node: node,
						Msg: fmt.Sprintf("output %q is persistent but sink %q.%s reads it with delay %d", out.Name, ed.DstNode, dstIn.Name, dstIn.Delay)}
				}
				if dstIn.Delay > maxDelay {
					maxDelay = dstIn.Delay
				}
				// Union every sink's declared usage into the producer's
				// own, so the resource this output allocates is never
				// missing a bit one of its sinks needs it to have.
				imageUsage |= dstIn.ImageUsage
				bufferUsage |= dstIn.BufferUsage
			}
			copyCount := maxDelay + 1

			var allocator graphcore.PersistentAllocator = aliasing
			if out.Persistent {
				allocator = persistent
			}

			g.Go(func() error {
				o := Output{Desc: out, CopyCount: copyCount, Status: graphcore.StatusNeedsDescriptorUpdate}
				switch out.Kind {
				case graphcore.KindImage:
					imgInfo := out.Image
					imgInfo.Usage = imageUsage
					o.Images = make([]graphcore.Image, copyCount)
					o.States = make([]*State, copyCount)
					for c := 0; c < copyCount; c++ {
						img, err := allocator.CreateImage(gctx, imgInfo, debugName(node, out, c, copyCount))
						if err != nil {
							return &graphcore.Error{Kind: graphcore.KindAllocation, Node: node, Msg: "create image", Err: err}
						}
						o.Images[c] = img
						o.States[c] = &State{CurrentStage: graphcore.StageTopOfPipe, CurrentLayout: graphcore.LayoutUndefined}
					}
				case graphcore.KindBuffer:
					o.Buffers = make([]graphcore.Buffer, copyCount)
					o.States = make([]*State, copyCount)
					for c := 0; c < copyCount; c++ {
						buf, err := allocator.CreateBuffer(gctx, out.Buffer.Size, bufferUsage, debugName(node, out, c, copyCount))
						if err != nil {
							return &graphcore.Error{Kind: graphcore.KindAllocation, Node: node, Msg: "create buffer", Err: err}
						}
						o.Buffers[c] = buf
						o.States[c] = &State{CurrentStage: graphcore.StageTopOfPipe}
					}
				}
				allocated[idx] = o
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		res.Outputs[node] = allocated
	}

	return res, nil
}

func debugName(node string, out graphcore.OutputDescriptor, copy, count int) string {
	base := out.DebugName
	if base == "" {
		base = fmt.Sprintf("%s.%s", node, out.Name)
	}
	if count == 1 {
		return base
	}
	return fmt.Sprintf("%s[%d]", base, copy)
}
