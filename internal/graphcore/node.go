package graphcore

import "context"

// PreStatus is mutated by a node's optional PreProcess hook to influence
// the current frame.
type PreStatus struct {
	// RequestRebuild, when set true, causes the run engine to execute the
	// build sequence before any node's Process runs this frame.
	RequestRebuild bool
	// SkipRun, when set true, causes the engine to skip this node's
	// Process call for the current frame (barriers are still submitted).
	SkipRun bool
}

// Node is a unit of work in the render graph. Implementations own no graph
// resources; all physical backings are owned by the graph and handed to the
// node through Build and Process.
type Node interface {
	// Name returns the node's unique name within its graph.
	Name() string

	// DescribeInputs returns the node's input descriptors. Called once per
	// build, before DescribeOutputs on any node.
	DescribeInputs(ctx context.Context) ([]InputDescriptor, error)

	// DescribeOutputs returns the node's output descriptors given the
	// already-resolved output descriptors of whatever is connected to each
	// of its inputs (delayed / feedback inputs, and unconnected ones,
	// receive a placeholder descriptor carrying only the input's Kind
	// instead; see scheduler.Schedule). This enables format/extent
	// inference from producers.
	DescribeOutputs(ctx context.Context, connectedInputs []OutputDescriptor) ([]OutputDescriptor, error)

	// Build is invoked once per (re)connect with the complete per-slot
	// resource tables for this node.
	Build(ctx context.Context, cmd CommandBuffer, slots SlotTables) error

	// Process performs one iteration's work for this node.
	Process(ctx context.Context, cmd CommandBuffer, rs *RunState, bindings SlotBindings) error
}

// PreProcessor is an optional hook a Node may implement to influence frame
// control flow before any node's Process runs.
type PreProcessor interface {
	PreProcess(ctx context.Context, status *PreStatus) error
}

// SubmitCallback is invoked by the caller after it submits the frame's
// command buffer to the queue. Registration order is FIFO.
type SubmitCallback func(ctx context.Context)

// StatusFlags is a bitmask of signals the core raises about a node's
// resources as of the build that produced its SlotTables.
type StatusFlags uint32

const (
	// StatusNeedsDescriptorUpdate means at least one image or buffer bound
	// into this node's slot tables was freshly allocated by this build: any
	// descriptor set an outer layer bound against the old handle is stale
	// and must be rewritten before the node runs again.
	StatusNeedsDescriptorUpdate StatusFlags = 1 << iota
)

// SlotTables is the complete set of precomputed per-slot resource bindings
// for one node, handed to Build so the node can prepare descriptor sets or
// other per-slot CPU-side state up front.
type SlotTables struct {
	// N is the number of resource-set slots for this node (lcm of the copy
	// counts of all its input sources and its own outputs).
	N int
	// Slots[s] is the binding tuple for resource-set index s.
	Slots []SlotBindings
	// Status is the union of every input source's and own output's status
	// as of this build; see StatusFlags.
	Status StatusFlags
}

// SlotBindings is the concrete resource binding tuple for one resource-set
// slot of one node.
type SlotBindings struct {
	Index         int
	InputImages   []Image
	InputBuffers  []Buffer
	OutputImages  []Image
	OutputBuffers []Buffer
}
