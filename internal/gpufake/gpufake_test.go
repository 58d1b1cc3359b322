package gpufake

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rgcore/rendergraph/internal/graphcore"
)

func TestAllocator_CreateImageRecordsExtentAndFormat(t *testing.T) {
	a := NewAllocator()
	img, err := a.CreateImage(context.Background(), graphcore.ImageCreateInfo{Width: 4, Height: 5, Depth: 1, Format: 7}, "test")
	require.NoError(t, err)
	w, h, d := img.Extent()
	require.Equal(t, uint32(4), w)
	require.Equal(t, uint32(5), h)
	require.Equal(t, uint32(1), d)
	require.Equal(t, graphcore.Format(7), img.Format())
}

func TestAllocator_CreateBufferRecordsSize(t *testing.T) {
	a := NewAllocator()
	buf, err := a.CreateBuffer(context.Background(), 1024, graphcore.BufferUsageStorage, "test")
	require.NoError(t, err)
	require.Equal(t, uint64(1024), buf.Size())
}

func TestQueryPool_ResetClearsTicksInRange(t *testing.T) {
	pool := NewQueryPool(4)
	pool.write(0)
	pool.write(1)
	pool.Reset(context.Background(), nil, 0, 4)

	ticks, ok, err := pool.Results(context.Background(), 0, 4)
	require.NoError(t, err)
	require.True(t, ok)
	for _, tick := range ticks {
		require.Zero(t, tick)
	}
}

func TestQueryPool_ResultsOutOfRangeFails(t *testing.T) {
	pool := NewQueryPool(2)
	_, _, err := pool.Results(context.Background(), 0, 4)
	require.Error(t, err)
}

func TestCommandBuffer_WriteTimestampForwardsToQueryPool(t *testing.T) {
	pool := NewQueryPool(2)
	cmdPool := NewCommandPool()
	cmd, err := cmdPool.Begin(context.Background())
	require.NoError(t, err)

	cmd.WriteTimestamp(context.Background(), graphcore.StageComputeShader, pool, 0)
	ticks, ok, err := pool.Results(context.Background(), 0, 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotZero(t, ticks[0])
}

func TestCommandBuffer_PipelineBarrierRecordsOnlyNonEmptyBatches(t *testing.T) {
	cmdPool := NewCommandPool()
	cmd, err := cmdPool.Begin(context.Background())
	require.NoError(t, err)
	fake := cmd.(*CommandBuffer)

	fake.PipelineBarrier(context.Background(), nil, nil)
	require.Empty(t, fake.ImageBarriers)

	fake.PipelineBarrier(context.Background(), []graphcore.ImageBarrier{{}}, nil)
	require.Len(t, fake.ImageBarriers, 1)
}

func TestTimelineSemaphore_WaitFailsBeforeSignal(t *testing.T) {
	sem := NewTimelineSemaphore()
	require.Error(t, sem.Wait(context.Background(), 1))
	require.NoError(t, sem.Signal(context.Background(), 1))
	require.NoError(t, sem.Wait(context.Background(), 1))
}

func TestTimelineSemaphore_SignalIsMonotonic(t *testing.T) {
	sem := NewTimelineSemaphore()
	require.NoError(t, sem.Signal(context.Background(), 5))
	require.NoError(t, sem.Signal(context.Background(), 2))

	v, err := sem.Value(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(5), v)
}

func TestQueue_SubmitSignalsTimelineSemaphores(t *testing.T) {
	q := NewQueue()
	sem := NewTimelineSemaphore()
	signals := []graphcore.SemaphoreSignal{{Timeline: sem, Value: 7}}

	require.NoError(t, q.Submit(context.Background(), nil, nil, signals))
	v, err := sem.Value(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(7), v)
}

func TestQueue_SubmitFailsIfWaitUnsatisfied(t *testing.T) {
	q := NewQueue()
	sem := NewTimelineSemaphore()
	waits := []graphcore.SemaphoreWait{{Timeline: sem, Value: 1}}

	err := q.Submit(context.Background(), nil, waits, nil)
	require.Error(t, err)
}

func TestDeviceAndQueue_WaitIdleAlwaysSucceeds(t *testing.T) {
	require.NoError(t, NewDevice().WaitIdle(context.Background()))
	require.NoError(t, NewQueue().WaitIdle(context.Background()))
}
