package rendergraph

import (
	"github.com/rgcore/rendergraph/internal/builder"
	"github.com/rgcore/rendergraph/internal/engine"
)

// Graph is the render graph builder and run orchestrator: register nodes
// and connections, call Build to schedule/allocate/plan barriers, then
// call RunFrame once per frame.
type Graph = builder.Graph

// NewGraph constructs an empty Graph backed by the given collaborators and
// an R-slot in-flight ring, one CommandPool/QueryPool pair per slot.
var NewGraph = builder.New

// RunFrame executes one frame against g: advances the
// in-flight ring, pre-processes every node, conditionally rebuilds, then
// dispatches each node's barrier batch and Process hook in topological
// order. Once RunFrame returns successfully, the caller submits cmd to
// its queue with g.RunState().Waits()/Signals(), then calls
// RunSubmitCallbacks.
var RunFrame = engine.RunFrame

// RunSubmitCallbacks invokes every callback registered this frame via
// RunState.AddSubmitCallback, in FIFO order. Call it
// after submitting the frame's command buffer to the queue.
var RunSubmitCallbacks = engine.RunSubmitCallbacks
