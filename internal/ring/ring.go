// Package ring implements the fixed R-slot in-flight ring: each slot
// owns a command pool, a wait/signal semaphore pair, a profiler,
// and the wall-clock bookkeeping the run engine advances every frame.
package ring

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rgcore/rendergraph/internal/graphcore"
	"github.com/rgcore/rendergraph/internal/profiler"
)

// Slot is one in-flight ring slot's per-frame CPU-side state.
type Slot struct {
	Pool     graphcore.CommandPool
	Profiler *profiler.Timer

	Signal graphcore.SemaphoreSignal
	Wait   graphcore.SemaphoreWait

	lastStamp time.Time
}

// Ring is the fixed-size collection of in-flight slots the run engine
// cycles through, one per iteration modulo Size().
type Ring struct {
	slots              []*Slot
	iteration          uint64
	startedAt          time.Time
	connectedAt        time.Time
	lastIterationStamp time.Time
}

// New constructs a Ring with one Slot per pool/queryPool/timestamp-budget
// triple; len(pools) is the ring size R.
func New(pools []graphcore.CommandPool, queryPools []graphcore.QueryPool, maxTimestampsPerSlot uint32) *Ring {
	slots := make([]*Slot, len(pools))
	for i := range pools {
		slots[i] = &Slot{
			Pool:     pools[i],
			Profiler: profiler.New(queryPools[i], maxTimestampsPerSlot),
		}
	}
	now := time.Now()
	return &Ring{slots: slots, startedAt: now, connectedAt: now, lastIterationStamp: now}
}

// Size returns R, the number of in-flight slots.
func (r *Ring) Size() int { return len(r.slots) }

// Slot returns the slot for the given in-flight index.
func (r *Ring) Slot(inFlightIndex int) *Slot { return r.slots[inFlightIndex] }

// Advance returns the current iteration (then increments the counter), its
// in-flight index, and the elapsed timings for the run engine to seed a
// fresh RunState. elapsed counts from the ring's construction;
// elapsedSinceConnect counts from the last successful build.
func (r *Ring) Advance() (iteration uint64, inFlightIndex int, delta, elapsed, elapsedSinceConnect time.Duration) {
	now := time.Now()
	delta = now.Sub(r.lastIterationStamp)
	r.lastIterationStamp = now

	iteration = r.iteration
	r.iteration++

	inFlightIndex = int(iteration % uint64(len(r.slots)))
	elapsed = now.Sub(r.startedAt)
	elapsedSinceConnect = now.Sub(r.connectedAt)
	return
}

// ResetOnBuild zeroes the iteration counter and the connect-relative clock,
// the run engine's obligation after a successful (re)build: iteration
// resets to 0 after each successful build, and elapsed_since_connect
// resets likewise.
func (r *Ring) ResetOnBuild() {
	r.iteration = 0
	now := time.Now()
	r.connectedAt = now
	r.lastIterationStamp = now
}

// AwaitReuse blocks until the slot's previous occupant has signaled
// completion, honoring the ring's core invariant that slot i's prior
// occupant has finished before reuse. Binary semaphores have no
// portable CPU-side wait, so only a timeline signal is awaited here;
// binary-semaphore reuse safety is the caller's (queue's) responsibility.
func (r *Ring) AwaitReuse(ctx context.Context, inFlightIndex int) error {
	s := r.slots[inFlightIndex]
	if s.Signal.Timeline == nil {
		return nil
	}
	return s.Signal.Timeline.Wait(ctx, s.Signal.Value)
}

// DrainAll awaits every slot's previous occupant concurrently, the form of
// quiescence the run engine's caller needs before tearing down or rebuilding
// the ring itself (as opposed to Build's single queue/device WaitIdle).
func (r *Ring) DrainAll(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := range r.slots {
		i := i
		g.Go(func() error { return r.AwaitReuse(gctx, i) })
	}
	return g.Wait()
}
