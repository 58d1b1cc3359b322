package engine

import (
	"context"
	"time"

	"github.com/rgcore/rendergraph/internal/builder"
	"github.com/rgcore/rendergraph/internal/ctxlog"
	"github.com/rgcore/rendergraph/internal/graphcore"
)

// RunFrame executes one frame against g. cmd is the primary
// command buffer the caller will submit once RunFrame returns
// successfully; on error, the caller must discard whatever was recorded
// into cmd rather than submit it.
//
// After a successful submission, the caller must invoke every callback
// returned by g.RunState().Callbacks(), in order; RunSubmitCallbacks
// does this.
func RunFrame(ctx context.Context, g *builder.Graph, cmd graphcore.CommandBuffer) error {
	log := ctxlog.FromContext(ctx)
	rs := g.RunState()

	// A node's Process hook may have called RequestReconnect last frame;
	// capture that before Reset clears it.
	rebuildRequested := rs.Reconnect()
	rs.Reset()

	iteration, inFlightIndex, delta, elapsed, elapsedSinceConnect := g.Ring().Advance()
	applyTiming(rs, iteration, inFlightIndex, delta, elapsed, elapsedSinceConnect, g.Ring().Size())

	order, nodes := g.Nodes()
	statuses := make(map[string]*graphcore.PreStatus, len(order))
	for _, name := range order {
		st := &graphcore.PreStatus{}
		if pp, ok := nodes[name].(graphcore.PreProcessor); ok {
			if err := pp.PreProcess(ctx, st); err != nil {
				return &graphcore.Error{Kind: graphcore.KindValidation, Node: name, Msg: "pre-process", Err: err}
			}
		}
		statuses[name] = st
		if st.RequestRebuild {
			rebuildRequested = true
		}
	}

	if rebuildRequested {
		log.Info("run engine executing rebuild before this frame's nodes")
		if err := g.Build(ctx, cmd); err != nil {
			return err
		}
		iteration, inFlightIndex, delta, elapsed, elapsedSinceConnect = g.Ring().Advance()
		applyTiming(rs, iteration, inFlightIndex, delta, elapsed, elapsedSinceConnect, g.Ring().Size())
	}

	sched, _, bplan, built := g.Plan()
	if !built {
		return &graphcore.Error{Kind: graphcore.KindValidation, Msg: "graph has never been built"}
	}

	slot := g.Ring().Slot(rs.InFlightIndex)
	rs.Profiler = slot.Profiler

	for _, name := range sched.Order {
		np := bplan.Nodes[name]
		localSlot := int(rs.Iteration % uint64(np.Tables.N))
		batch := np.Batches[localSlot]

		cmd.PipelineBarrier(ctx, batch.Images, batch.Buffers)
		if statuses[name].SkipRun {
			continue
		}
		if err := nodes[name].Process(ctx, cmd, rs, np.Tables.Slots[localSlot]); err != nil {
			return &graphcore.Error{Kind: graphcore.KindValidation, Node: name, Msg: "process", Err: err}
		}
	}

	return nil
}

func applyTiming(rs *graphcore.RunState, iteration uint64, inFlightIndex int, delta, elapsed, elapsedSinceConnect time.Duration, ringSize int) {
	rs.Iteration = iteration
	rs.InFlightIndex = inFlightIndex
	rs.RingSize = ringSize
	rs.TimeDelta = delta
	rs.Elapsed = elapsed
	rs.ElapsedSinceConnect = elapsedSinceConnect
}

// RunSubmitCallbacks invokes every callback registered via
// RunState.AddSubmitCallback this frame, in FIFO registration order.
// Call it after the caller submits cmd to the queue.
func RunSubmitCallbacks(ctx context.Context, rs *graphcore.RunState) {
	for _, cb := range rs.Callbacks() {
		cb(ctx)
	}
}
