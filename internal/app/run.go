package app

import (
	"context"
	"fmt"

	"github.com/rgcore/rendergraph"
	"github.com/rgcore/rendergraph/internal/ctxlog"
)

// Run drives cfg.Frames frames through the graph, submitting each frame's
// command buffer to the fake queue and running its submit callbacks, then
// prints a final profiler report.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("run started", "frames", a.config.Frames, "ring_size", a.config.RingSize)

	if a.config.HealthcheckPort > 0 {
		go a.startHealthcheckServer(a.config.HealthcheckPort)
		defer a.closeHealthcheckServer(ctx)
	}

	rs := a.graph.RunState()
	ringSize := a.config.RingSize
	idx := 0

	for frame := 0; frame < a.config.Frames; frame++ {
		slot := a.graph.Ring().Slot(idx)
		if err := slot.Pool.Reset(ctx); err != nil {
			return fmt.Errorf("reset command pool for slot %d: %w", idx, err)
		}
		cmd, err := slot.Pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin command buffer for slot %d: %w", idx, err)
		}

		if err := rendergraph.RunFrame(ctx, a.graph, cmd); err != nil {
			return fmt.Errorf("run frame %d: %w", frame, err)
		}
		if err := a.queue.Submit(ctx, cmd, rs.Waits(), rs.Signals()); err != nil {
			return fmt.Errorf("submit frame %d: %w", frame, err)
		}
		rendergraph.RunSubmitCallbacks(ctx, rs)

		a.logger.Debug("frame complete", "frame", frame, "iteration", rs.Iteration, "in_flight_index", rs.InFlightIndex)
		idx = int((rs.Iteration + 1) % uint64(ringSize))
	}

	printReport(a.outW, a.collectAllSlots(ctx, ringSize))

	a.logger.Debug("run finished")
	return nil
}

// collectAllSlots merges the profiler report of every ring slot, since each
// slot's Timer only accumulates the frames that landed in that slot.
func (a *App) collectAllSlots(ctx context.Context, ringSize int) rendergraph.Report {
	var merged rendergraph.Report
	for i := 0; i < ringSize; i++ {
		report, err := a.graph.Ring().Slot(i).Profiler.Collect(ctx, true)
		if err != nil {
			a.logger.Warn("profiler collect failed", "slot", i, "error", err)
			continue
		}
		merged.CPU = append(merged.CPU, report.CPU...)
		merged.GPU = append(merged.GPU, report.GPU...)
	}
	return merged
}
