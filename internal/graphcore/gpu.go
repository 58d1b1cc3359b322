package graphcore

import "context"

// This file declares the collaborator contracts the core consumes.
// The core never implements these itself; callers supply a concrete GPU API
// wrapper (or internal/gpufake for tests and the demo).

// PipelineStage is a bitmask of GPU pipeline stages, modeled after
// VkPipelineStageFlagBits2.
type PipelineStage uint32

const (
	StageTopOfPipe PipelineStage = 1 << iota
	StageTransfer
	StageComputeShader
	StageFragmentShader
	StageColorAttachmentOutput
	StageBottomOfPipe
)

// AccessFlags is a bitmask of memory access types, modeled after
// VkAccessFlagBits2.
type AccessFlags uint32

const (
	AccessNone         AccessFlags = 0
	AccessTransferRead AccessFlags = 1 << iota
	AccessTransferWrite
	AccessShaderRead
	AccessShaderWrite
	AccessColorAttachmentWrite
)

// ImageLayout mirrors the subset of VkImageLayout the core reasons about.
type ImageLayout int

const (
	LayoutUndefined ImageLayout = iota
	LayoutGeneral
	LayoutShaderReadOnlyOptimal
	LayoutTransferSrcOptimal
	LayoutTransferDstOptimal
	LayoutColorAttachmentOptimal
)

// Format is an opaque pixel format token; the core never interprets it, only
// forwards it to the allocator.
type Format int

// ImageUsage is a bitmask describing how an image will be used, forwarded to
// the allocator's CreateImage.
type ImageUsage uint32

const (
	ImageUsageSampled ImageUsage = 1 << iota
	ImageUsageStorage
	ImageUsageTransferSrc
	ImageUsageTransferDst
	ImageUsageColorAttachment
)

// BufferUsage is a bitmask describing how a buffer will be used, forwarded
// to the allocator's CreateBuffer.
type BufferUsage uint32

const (
	BufferUsageStorage BufferUsage = 1 << iota
	BufferUsageUniform
	BufferUsageTransferSrc
	BufferUsageTransferDst
)

// ImageCreateInfo describes the physical backing for an image output.
type ImageCreateInfo struct {
	Width, Height, Depth uint32
	Format               Format
	Usage                ImageUsage
}

// BufferCreateInfo describes the physical backing for a buffer output.
type BufferCreateInfo struct {
	Size  uint64
	Usage BufferUsage
}

// Image is an opaque handle to a physical image resource owned by an
// allocator.
type Image interface {
	Extent() (width, height, depth uint32)
	Format() Format
}

// Buffer is an opaque handle to a physical buffer resource owned by an
// allocator.
type Buffer interface {
	Size() uint64
}

// PersistentAllocator constructs resources that are never aliased in memory
// and whose contents survive graph rebuilds.
type PersistentAllocator interface {
	CreateImage(ctx context.Context, info ImageCreateInfo, name string) (Image, error)
	CreateBuffer(ctx context.Context, size uint64, usage BufferUsage, name string) (Buffer, error)
}

// AliasingAllocator has the same surface as PersistentAllocator but may
// overlap the memory of resources whose lifetimes do not intersect within a
// single resource-set slot.
type AliasingAllocator interface {
	CreateImage(ctx context.Context, info ImageCreateInfo, name string) (Image, error)
	CreateBuffer(ctx context.Context, size uint64, usage BufferUsage, name string) (Buffer, error)
}

// ImageBarrier is one entry of a pipeline-barrier batch transitioning an
// image's layout and/or access.
type ImageBarrier struct {
	Image                Image
	SrcStage, DstStage   PipelineStage
	SrcAccess, DstAccess AccessFlags
	OldLayout, NewLayout ImageLayout
}

// BufferBarrier is one entry of a pipeline-barrier batch transitioning a
// buffer's access.
type BufferBarrier struct {
	Buffer               Buffer
	SrcStage, DstStage   PipelineStage
	SrcAccess, DstAccess AccessFlags
}

// QueryPool is a GPU timestamp query pool used by the profiler.
type QueryPool interface {
	Reset(ctx context.Context, cmd CommandBuffer, first, count uint32)
	// Results returns raw timestamp ticks for [first, first+count). ok is
	// false if results are not yet available (frame not yet completed).
	Results(ctx context.Context, first, count uint32) (ticks []uint64, ok bool, err error)
	TimestampPeriodNanos() float64
}

// CommandBuffer records barrier batches and timestamp writes; node Process
// hooks record their own GPU work into the same command buffer.
type CommandBuffer interface {
	PipelineBarrier(ctx context.Context, images []ImageBarrier, buffers []BufferBarrier)
	WriteTimestamp(ctx context.Context, stage PipelineStage, pool QueryPool, index uint32)
}

// CommandPool hands out one primary CommandBuffer per in-flight ring slot.
type CommandPool interface {
	Reset(ctx context.Context) error
	Begin(ctx context.Context) (CommandBuffer, error)
}

// SemaphoreWait is one entry of a queue submission's wait vector.
type SemaphoreWait struct {
	Binary   BinarySemaphore
	Timeline TimelineSemaphore
	Value    uint64 // meaningful only when Timeline != nil
	Stage    PipelineStage
}

// SemaphoreSignal is one entry of a queue submission's signal vector.
type SemaphoreSignal struct {
	Binary   BinarySemaphore
	Timeline TimelineSemaphore
	Value    uint64 // meaningful only when Timeline != nil
}

// BinarySemaphore is a single-use GPU/GPU or GPU/CPU synchronization
// primitive.
type BinarySemaphore interface{}

// TimelineSemaphore is a monotonically-increasing value-carrying semaphore.
type TimelineSemaphore interface {
	Wait(ctx context.Context, value uint64) error
	Signal(ctx context.Context, value uint64) error
	Value(ctx context.Context) (uint64, error)
}

// Queue submits command buffers and can be waited on for idleness.
type Queue interface {
	Submit(ctx context.Context, cmd CommandBuffer, waits []SemaphoreWait, signals []SemaphoreSignal) error
	WaitIdle(ctx context.Context) error
}

// Device owns the queue(s) used by the graph and can be waited on in full.
type Device interface {
	WaitIdle(ctx context.Context) error
}
