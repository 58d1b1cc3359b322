package rendergraph

import "github.com/rgcore/rendergraph/internal/graphcore"

// This file re-exports the shared vocabulary defined in internal/graphcore
// so external callers never need to import an internal package. See
// graphcore's doc comment for why the split exists.

type (
	Kind  = graphcore.Kind
	Error = graphcore.Error

	ConnectorKind    = graphcore.ConnectorKind
	InputDescriptor  = graphcore.InputDescriptor
	OutputDescriptor = graphcore.OutputDescriptor

	PipelineStage = graphcore.PipelineStage
	AccessFlags   = graphcore.AccessFlags
	ImageLayout   = graphcore.ImageLayout
	Format        = graphcore.Format
	ImageUsage    = graphcore.ImageUsage
	BufferUsage   = graphcore.BufferUsage

	ImageCreateInfo  = graphcore.ImageCreateInfo
	BufferCreateInfo = graphcore.BufferCreateInfo

	Image  = graphcore.Image
	Buffer = graphcore.Buffer

	PersistentAllocator = graphcore.PersistentAllocator
	AliasingAllocator   = graphcore.AliasingAllocator

	ImageBarrier  = graphcore.ImageBarrier
	BufferBarrier = graphcore.BufferBarrier

	QueryPool     = graphcore.QueryPool
	CommandBuffer = graphcore.CommandBuffer
	CommandPool   = graphcore.CommandPool

	SemaphoreWait     = graphcore.SemaphoreWait
	SemaphoreSignal   = graphcore.SemaphoreSignal
	BinarySemaphore   = graphcore.BinarySemaphore
	TimelineSemaphore = graphcore.TimelineSemaphore

	Queue  = graphcore.Queue
	Device = graphcore.Device

	Node         = graphcore.Node
	PreProcessor = graphcore.PreProcessor
	PreStatus    = graphcore.PreStatus

	SubmitCallback = graphcore.SubmitCallback
	StatusFlags    = graphcore.StatusFlags
	SlotTables     = graphcore.SlotTables
	SlotBindings   = graphcore.SlotBindings

	RunState = graphcore.RunState

	Profiler     = graphcore.Profiler
	Report       = graphcore.Report
	SectionStats = graphcore.SectionStats
)

const (
	KindConnector   = graphcore.KindConnector
	KindArgument    = graphcore.KindArgument
	KindValidation  = graphcore.KindValidation
	KindAllocation  = graphcore.KindAllocation
	KindPersistence = graphcore.KindPersistence
	KindProfiler    = graphcore.KindProfiler

	KindImage  = graphcore.KindImage
	KindBuffer = graphcore.KindBuffer

	StageTopOfPipe             = graphcore.StageTopOfPipe
	StageTransfer              = graphcore.StageTransfer
	StageComputeShader         = graphcore.StageComputeShader
	StageFragmentShader        = graphcore.StageFragmentShader
	StageColorAttachmentOutput = graphcore.StageColorAttachmentOutput
	StageBottomOfPipe          = graphcore.StageBottomOfPipe

	AccessNone                 = graphcore.AccessNone
	AccessTransferRead         = graphcore.AccessTransferRead
	AccessTransferWrite        = graphcore.AccessTransferWrite
	AccessShaderRead           = graphcore.AccessShaderRead
	AccessShaderWrite          = graphcore.AccessShaderWrite
	AccessColorAttachmentWrite = graphcore.AccessColorAttachmentWrite

	LayoutUndefined              = graphcore.LayoutUndefined
	LayoutGeneral                = graphcore.LayoutGeneral
	LayoutShaderReadOnlyOptimal  = graphcore.LayoutShaderReadOnlyOptimal
	LayoutTransferSrcOptimal     = graphcore.LayoutTransferSrcOptimal
	LayoutTransferDstOptimal     = graphcore.LayoutTransferDstOptimal
	LayoutColorAttachmentOptimal = graphcore.LayoutColorAttachmentOptimal

	ImageUsageSampled         = graphcore.ImageUsageSampled
	ImageUsageStorage         = graphcore.ImageUsageStorage
	ImageUsageTransferSrc     = graphcore.ImageUsageTransferSrc
	ImageUsageTransferDst     = graphcore.ImageUsageTransferDst
	ImageUsageColorAttachment = graphcore.ImageUsageColorAttachment

	BufferUsageStorage     = graphcore.BufferUsageStorage
	BufferUsageUniform     = graphcore.BufferUsageUniform
	BufferUsageTransferSrc = graphcore.BufferUsageTransferSrc
	BufferUsageTransferDst = graphcore.BufferUsageTransferDst

	StatusNeedsDescriptorUpdate = graphcore.StatusNeedsDescriptorUpdate
)

// Connector factory presets.
var (
	ComputeRead         = graphcore.ComputeRead
	ComputeWrite        = graphcore.ComputeWrite
	TransferSrc         = graphcore.TransferSrc
	TransferWrite       = graphcore.TransferWrite
	ComputeReadBuffer   = graphcore.ComputeReadBuffer
	ComputeWriteBuffer  = graphcore.ComputeWriteBuffer
	TransferSrcBuffer   = graphcore.TransferSrcBuffer
	TransferWriteBuffer = graphcore.TransferWriteBuffer
)

// Compatible reports whether an output can feed an input.
var Compatible = graphcore.Compatible
