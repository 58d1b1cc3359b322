// Package gpufake implements every collaborator interface the render
// graph core requires against plain Go memory instead of a real
// GPU API. It exists so the core, the demo in cmd/rgdemo, and tests can
// run without a Vulkan/D3D12/Metal backend: submissions complete
// synchronously and timestamp writes are a monotonic in-process counter.
package gpufake

import (
	"context"
	"fmt"
	"sync"

	"github.com/rgcore/rendergraph/internal/graphcore"
)

// Image is an in-memory stand-in for a physical image resource.
type Image struct {
	name    string
	w, h, d uint32
	format  graphcore.Format
	usage   graphcore.ImageUsage
}

func (i *Image) Extent() (width, height, depth uint32) { return i.w, i.h, i.d }
func (i *Image) Format() graphcore.Format              { return i.format }
func (i *Image) Usage() graphcore.ImageUsage           { return i.usage }
func (i *Image) String() string                        { return i.name }

// Buffer is an in-memory stand-in for a physical buffer resource.
type Buffer struct {
	name  string
	size  uint64
	usage graphcore.BufferUsage
}

func (b *Buffer) Size() uint64                 { return b.size }
func (b *Buffer) Usage() graphcore.BufferUsage { return b.usage }
func (b *Buffer) String() string               { return b.name }

// Allocator implements both graphcore.PersistentAllocator and
// graphcore.AliasingAllocator; the fake backend makes no distinction
// between the two since it never actually aliases memory.
type Allocator struct {
	mu      sync.Mutex
	images  []*Image
	buffers []*Buffer
}

// NewAllocator returns an Allocator usable as either the persistent or
// the aliasing collaborator.
func NewAllocator() *Allocator {
	return &Allocator{}
}

func (a *Allocator) CreateImage(ctx context.Context, info graphcore.ImageCreateInfo, name string) (graphcore.Image, error) {
	img := &Image{name: name, w: info.Width, h: info.Height, d: info.Depth, format: info.Format, usage: info.Usage}
	a.mu.Lock()
	a.images = append(a.images, img)
	a.mu.Unlock()
	return img, nil
}

func (a *Allocator) CreateBuffer(ctx context.Context, size uint64, usage graphcore.BufferUsage, name string) (graphcore.Buffer, error) {
	buf := &Buffer{name: name, size: size, usage: usage}
	a.mu.Lock()
	a.buffers = append(a.buffers, buf)
	a.mu.Unlock()
	return buf, nil
}

// QueryPool is an in-memory timestamp query pool. Every WriteTimestamp
// call resolves immediately against a monotonic counter, so Results is
// always ok=true.
type QueryPool struct {
	mu     sync.Mutex
	ticks  []uint64
	period float64
	clock  uint64
}

// NewQueryPool returns a QueryPool with room for capacity timestamps.
func NewQueryPool(capacity uint32) *QueryPool {
	return &QueryPool{ticks: make([]uint64, capacity), period: 1.0}
}

func (q *QueryPool) Reset(ctx context.Context, cmd graphcore.CommandBuffer, first, count uint32) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := first; i < first+count && int(i) < len(q.ticks); i++ {
		q.ticks[i] = 0
	}
}

func (q *QueryPool) Results(ctx context.Context, first, count uint32) ([]uint64, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if int(first+count) > len(q.ticks) {
		return nil, false, fmt.Errorf("query range [%d,%d) exceeds pool capacity %d", first, first+count, len(q.ticks))
	}
	out := make([]uint64, count)
	copy(out, q.ticks[first:first+count])
	return out, true, nil
}

func (q *QueryPool) TimestampPeriodNanos() float64 { return q.period }

func (q *QueryPool) write(index uint32) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.clock++
	if int(index) < len(q.ticks) {
		q.ticks[index] = q.clock
	}
}

// CommandBuffer records the barrier batches and timestamp writes nodes and
// the run engine submit into it, for tests to inspect; WriteTimestamp also
// forwards to the target QueryPool immediately.
type CommandBuffer struct {
	mu             sync.Mutex
	ImageBarriers  [][]graphcore.ImageBarrier
	BufferBarriers [][]graphcore.BufferBarrier
}

func (c *CommandBuffer) PipelineBarrier(ctx context.Context, images []graphcore.ImageBarrier, buffers []graphcore.BufferBarrier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(images) > 0 {
		c.ImageBarriers = append(c.ImageBarriers, images)
	}
	if len(buffers) > 0 {
		c.BufferBarriers = append(c.BufferBarriers, buffers)
	}
}

func (c *CommandBuffer) WriteTimestamp(ctx context.Context, stage graphcore.PipelineStage, pool graphcore.QueryPool, index uint32) {
	if qp, ok := pool.(*QueryPool); ok {
		qp.write(index)
	}
}

// CommandPool hands out fresh CommandBuffers; the fake backend never
// actually recycles GPU-side command buffer memory.
type CommandPool struct{}

func NewCommandPool() *CommandPool { return &CommandPool{} }

func (p *CommandPool) Reset(ctx context.Context) error { return nil }

func (p *CommandPool) Begin(ctx context.Context) (graphcore.CommandBuffer, error) {
	return &CommandBuffer{}, nil
}

// TimelineSemaphore is an in-memory monotonically-increasing semaphore.
// Wait never blocks: the fake queue signals synchronously during Submit,
// so by the time a caller awaits a value, it has already been reached.
type TimelineSemaphore struct {
	mu    sync.Mutex
	value uint64
}

func NewTimelineSemaphore() *TimelineSemaphore { return &TimelineSemaphore{} }

func (s *TimelineSemaphore) Wait(ctx context.Context, value uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.value < value {
		return fmt.Errorf("timeline semaphore value %d never reached %d", s.value, value)
	}
	return nil
}

func (s *TimelineSemaphore) Signal(ctx context.Context, value uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value > s.value {
		s.value = value
	}
	return nil
}

func (s *TimelineSemaphore) Value(ctx context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, nil
}

// Queue submits command buffers synchronously: Submit signals every
// semaphore before returning, since the fake backend performs no
// asynchronous work.
type Queue struct{}

func NewQueue() *Queue { return &Queue{} }

func (q *Queue) Submit(ctx context.Context, cmd graphcore.CommandBuffer, waits []graphcore.SemaphoreWait, signals []graphcore.SemaphoreSignal) error {
	for _, w := range waits {
		if w.Timeline != nil {
			if err := w.Timeline.Wait(ctx, w.Value); err != nil {
				return err
			}
		}
	}
	for _, s := range signals {
		if s.Timeline != nil {
			if err := s.Timeline.Signal(ctx, s.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

func (q *Queue) WaitIdle(ctx context.Context) error { return nil }

// Device owns nothing the fake backend needs to wait on beyond its queue.
type Device struct{}

func NewDevice() *Device { return &Device{} }

func (d *Device) WaitIdle(ctx context.Context) error { return nil }
