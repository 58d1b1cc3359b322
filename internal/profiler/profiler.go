// Package profiler implements the hierarchical CPU/GPU section timer a ring
// slot owns, satisfying the graphcore.Profiler collaborator
// interface. Sections are keyed by (depth, name), and accumulate
// sum/sum-of-squares/count so Collect can report mean and standard
// deviation without retaining raw samples.
package profiler

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rgcore/rendergraph/internal/ctxlog"
	"github.com/rgcore/rendergraph/internal/graphcore"
)

type cpuSection struct {
	name          string
	depth         int
	start         time.Time
	sumNanos      float64
	sumSqNanos    float64
	count         uint64
}

type gpuSection struct {
	name             string
	depth            int
	startIdx, endIdx uint32
	sumNanos         float64
	sumSqNanos       float64
	count            uint64
}

type pendingTimestamp struct {
	sectionIdx int
	isEnd      bool
}

// Timer is the concrete graphcore.Profiler implementation owned by one
// in-flight ring slot.
type Timer struct {
	pool graphcore.QueryPool

	cpuSections   []cpuSection
	cpuKeyToIdx   map[string]int
	cpuDepth      int

	gpuSections   []gpuSection
	gpuKeyToIdx   map[string]int
	gpuDepth      int
	pending       []pendingTimestamp
	nextTSIdx     uint32
	maxTimestamps uint32
	resetCalled   bool
}

// New constructs a Timer backed by pool, which must have room for at least
// maxTimestamps timestamp writes (two per CmdStart/CmdEnd pair) per frame.
func New(pool graphcore.QueryPool, maxTimestamps uint32) *Timer {
	return &Timer{
		pool:          pool,
		cpuKeyToIdx:   make(map[string]int),
		gpuKeyToIdx:   make(map[string]int),
		maxTimestamps: maxTimestamps,
	}
}

func sectionKey(depth int, name string) string {
	return fmt.Sprintf("%d$%s", depth, name)
}

func (t *Timer) Start(name string) int {
	key := sectionKey(t.cpuDepth, name)
	idx, ok := t.cpuKeyToIdx[key]
	if !ok {
		idx = len(t.cpuSections)
		t.cpuKeyToIdx[key] = idx
		t.cpuSections = append(t.cpuSections, cpuSection{name: name, depth: t.cpuDepth})
	}
	t.cpuSections[idx].start = time.Now()
	t.cpuDepth++
	return idx
}

func (t *Timer) End(id int) {
	if id < 0 || id >= len(t.cpuSections) {
		return
	}
	sec := &t.cpuSections[id]
	d := time.Since(sec.start)
	ns := float64(d.Nanoseconds())
	sec.sumNanos += ns
	sec.sumSqNanos += ns * ns
	sec.count++
	t.cpuDepth--
}

func (t *Timer) CmdStart(ctx context.Context, cmd graphcore.CommandBuffer, name string, stage graphcore.PipelineStage) int {
	key := sectionKey(t.gpuDepth, name)
	idx, ok := t.gpuKeyToIdx[key]
	if !ok {
		idx = len(t.gpuSections)
		t.gpuKeyToIdx[key] = idx
		t.gpuSections = append(t.gpuSections, gpuSection{name: name, depth: t.gpuDepth})
	}
	t.gpuSections[idx].startIdx = t.nextTSIdx
	cmd.WriteTimestamp(ctx, stage, t.pool, t.nextTSIdx)
	t.pending = append(t.pending, pendingTimestamp{sectionIdx: idx, isEnd: false})
	t.nextTSIdx++
	t.gpuDepth++
	return idx
}

func (t *Timer) CmdEnd(ctx context.Context, cmd graphcore.CommandBuffer, id int, stage graphcore.PipelineStage) {
	if id < 0 || id >= len(t.gpuSections) {
		return
	}
	t.gpuSections[id].endIdx = t.nextTSIdx
	cmd.WriteTimestamp(ctx, stage, t.pool, t.nextTSIdx)
	t.pending = append(t.pending, pendingTimestamp{sectionIdx: id, isEnd: true})
	t.nextTSIdx++
	t.gpuDepth--
}

func (t *Timer) Reset(ctx context.Context, cmd graphcore.CommandBuffer, clear bool) {
	t.pool.Reset(ctx, cmd, 0, t.maxTimestamps)
	t.pending = t.pending[:0]
	t.nextTSIdx = 0
	t.resetCalled = true

	if clear {
		t.cpuSections = t.cpuSections[:0]
		t.gpuSections = t.gpuSections[:0]
		t.cpuKeyToIdx = make(map[string]int)
		t.gpuKeyToIdx = make(map[string]int)
	}
}

// Collect resolves pending GPU timestamps into section statistics. A
// failure to read the query results is logged and returned as a
// profiler-error, as are results still unavailable when wait is true; both
// come with the report as it stood, and the pending batch is retained so a
// later Collect can retry.
func (t *Timer) Collect(ctx context.Context, wait bool) (graphcore.Report, error) {
	if len(t.pending) == 0 {
		return t.report(), nil
	}

	ticks, ok, err := t.pool.Results(ctx, 0, uint32(len(t.pending)))
	if err != nil {
		gerr := &graphcore.Error{Kind: graphcore.KindProfiler, Msg: "collect query results", Err: err}
		ctxlog.FromContext(ctx).Warn("profiler collect failed; profiling disabled for this frame", "error", gerr)
		return t.report(), gerr
	}
	if !ok {
		if wait {
			gerr := &graphcore.Error{Kind: graphcore.KindProfiler, Msg: "query results unavailable despite wait"}
			return t.report(), gerr
		}
		// Results not ready yet; keep pending for a later Collect.
		return t.report(), nil
	}

	period := t.pool.TimestampPeriodNanos()
	for i, pend := range t.pending {
		tick := ticks[i]
		sec := &t.gpuSections[pend.sectionIdx]
		if pend.isEnd {
			startTick := t.startTickOf(pend.sectionIdx, ticks)
			ns := float64(tick-startTick) * period
			sec.sumNanos += ns
			sec.sumSqNanos += ns * ns
			sec.count++
		}
	}
	t.pending = t.pending[:0]
	t.resetCalled = false
	return t.report(), nil
}

// startTickOf finds the raw start tick for the section a CmdEnd resolves,
// by scanning the pending batch for its matching CmdStart entry.
func (t *Timer) startTickOf(sectionIdx int, ticks []uint64) uint64 {
	for i, pend := range t.pending {
		if pend.sectionIdx == sectionIdx && !pend.isEnd {
			return ticks[i]
		}
	}
	return 0
}

func (t *Timer) report() graphcore.Report {
	rep := graphcore.Report{
		CPU: make([]graphcore.SectionStats, len(t.cpuSections)),
		GPU: make([]graphcore.SectionStats, len(t.gpuSections)),
	}
	for i, s := range t.cpuSections {
		rep.CPU[i] = statsOf(s.name, s.depth, s.count, s.sumNanos, s.sumSqNanos)
	}
	for i, s := range t.gpuSections {
		rep.GPU[i] = statsOf(s.name, s.depth, s.count, s.sumNanos, s.sumSqNanos)
	}
	return rep
}

func statsOf(name string, depth int, count uint64, sumNanos, sumSqNanos float64) graphcore.SectionStats {
	if count == 0 {
		return graphcore.SectionStats{Name: name, Depth: depth}
	}
	mean := sumNanos / float64(count)
	variance := sumSqNanos/float64(count) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return graphcore.SectionStats{
		Name:        name,
		Depth:       depth,
		Count:       count,
		MeanNanos:   mean,
		StdDevNanos: math.Sqrt(variance),
	}
}
