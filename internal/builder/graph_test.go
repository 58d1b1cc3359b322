package builder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rgcore/rendergraph/internal/gpufake"
	"github.com/rgcore/rendergraph/internal/graphcore"
)

// recordingNode is a graphcore.Node whose descriptors are fixed at
// construction and whose Build/Process hooks record that they ran, so
// end-to-end tests can assert the whole build/run sequence without a real
// GPU backend.
type recordingNode struct {
	name    string
	inputs  []graphcore.InputDescriptor
	outputs []graphcore.OutputDescriptor

	builds    int
	processes int
	lastSlot  graphcore.SlotBindings
}

func (n *recordingNode) Name() string { return n.name }
func (n *recordingNode) DescribeInputs(ctx context.Context) ([]graphcore.InputDescriptor, error) {
	return n.inputs, nil
}
func (n *recordingNode) DescribeOutputs(ctx context.Context, connected []graphcore.OutputDescriptor) ([]graphcore.OutputDescriptor, error) {
	return n.outputs, nil
}
func (n *recordingNode) Build(ctx context.Context, cmd graphcore.CommandBuffer, slots graphcore.SlotTables) error {
	n.builds++
	return nil
}
func (n *recordingNode) Process(ctx context.Context, cmd graphcore.CommandBuffer, rs *graphcore.RunState, bindings graphcore.SlotBindings) error {
	n.processes++
	n.lastSlot = bindings
	return nil
}

func imageOutput(name string) graphcore.OutputDescriptor {
	return graphcore.OutputDescriptor{
		Name:           name,
		Kind:           graphcore.KindImage,
		Image:          graphcore.ImageCreateInfo{Width: 4, Height: 4},
		ProducerStages: graphcore.StageColorAttachmentOutput,
		ProducerAccess: graphcore.AccessColorAttachmentWrite,
	}
}

func newTestGraph(t *testing.T, ringSize int) *Graph {
	t.Helper()
	pools := make([]graphcore.CommandPool, ringSize)
	queryPools := make([]graphcore.QueryPool, ringSize)
	for i := 0; i < ringSize; i++ {
		pools[i] = gpufake.NewCommandPool()
		queryPools[i] = gpufake.NewQueryPool(16)
	}
	al := gpufake.NewAllocator()
	g, err := New(gpufake.NewDevice(), gpufake.NewQueue(), al, al, pools, queryPools, 16)
	require.NoError(t, err)
	return g
}

func TestGraph_LinearPipelineBuildsAndRuns(t *testing.T) {
	// Linear pipeline: A -> B -> C, all delay 0.
	a := &recordingNode{name: "A", outputs: []graphcore.OutputDescriptor{imageOutput("out")}}
	b := &recordingNode{
		name:    "B",
		inputs:  []graphcore.InputDescriptor{{Name: "in", Kind: graphcore.KindImage, Delay: 0, Stages: graphcore.StageFragmentShader, Access: graphcore.AccessShaderRead}},
		outputs: []graphcore.OutputDescriptor{imageOutput("out")},
	}
	c := &recordingNode{
		name:   "C",
		inputs: []graphcore.InputDescriptor{{Name: "in", Kind: graphcore.KindImage, Delay: 0, Stages: graphcore.StageFragmentShader, Access: graphcore.AccessShaderRead}},
	}

	g := newTestGraph(t, 2)
	require.NoError(t, g.AddNode("A", a))
	require.NoError(t, g.AddNode("B", b))
	require.NoError(t, g.AddNode("C", c))
	require.NoError(t, g.ConnectImage("A", 0, "B", 0))
	require.NoError(t, g.ConnectImage("B", 0, "C", 0))

	cmd, err := g.Ring().Slot(0).Pool.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, g.Build(context.Background(), cmd))

	require.Equal(t, 1, a.builds)
	require.Equal(t, 1, b.builds)
	require.Equal(t, 1, c.builds)

	sched, res, bplan, built := g.Plan()
	require.True(t, built)
	require.Equal(t, []string{"A", "B", "C"}, sched.Order)
	require.Equal(t, 1, res.Outputs["A"][0].CopyCount)
	require.Equal(t, 1, bplan.Nodes["A"].Tables.N)
}

func TestGraph_DuplicateNodeNameFails(t *testing.T) {
	g := newTestGraph(t, 1)
	require.NoError(t, g.AddNode("A", &recordingNode{name: "A"}))
	err := g.AddNode("A", &recordingNode{name: "A"})
	require.Error(t, err)
	var gerr *graphcore.Error
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, graphcore.KindArgument, gerr.Kind)
}

func TestGraph_ConnectUnknownNodeFails(t *testing.T) {
	g := newTestGraph(t, 1)
	require.NoError(t, g.AddNode("A", &recordingNode{name: "A"}))
	err := g.ConnectImage("A", 0, "ghost", 0)
	require.Error(t, err)
}

func TestGraph_SecondSinkOnSameInputFails(t *testing.T) {
	g := newTestGraph(t, 1)
	require.NoError(t, g.AddNode("A", &recordingNode{name: "A"}))
	require.NoError(t, g.AddNode("B", &recordingNode{name: "B"}))
	require.NoError(t, g.AddNode("C", &recordingNode{name: "C"}))
	require.NoError(t, g.ConnectImage("A", 0, "B", 0))
	err := g.ConnectImage("C", 0, "B", 0)
	require.Error(t, err)
}

func TestGraph_DistinctDelaysOnSameOutputRequired(t *testing.T) {
	// Two sinks reading the same output with the same delay
	// must fail validation at build time.
	a := &recordingNode{name: "A", outputs: []graphcore.OutputDescriptor{imageOutput("out")}}
	b := &recordingNode{
		name:   "B",
		inputs: []graphcore.InputDescriptor{{Name: "in", Kind: graphcore.KindImage, Delay: 0}},
	}
	c := &recordingNode{
		name:   "C",
		inputs: []graphcore.InputDescriptor{{Name: "in", Kind: graphcore.KindImage, Delay: 0}},
	}

	g := newTestGraph(t, 1)
	require.NoError(t, g.AddNode("A", a))
	require.NoError(t, g.AddNode("B", b))
	require.NoError(t, g.AddNode("C", c))
	require.NoError(t, g.ConnectImage("A", 0, "B", 0))
	require.NoError(t, g.ConnectImage("A", 0, "C", 0))

	cmd, err := g.Ring().Slot(0).Pool.Begin(context.Background())
	require.NoError(t, err)
	err = g.Build(context.Background(), cmd)
	require.Error(t, err)
	var gerr *graphcore.Error
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, graphcore.KindValidation, gerr.Kind)
}

func bufferOutput(name string) graphcore.OutputDescriptor {
	return graphcore.OutputDescriptor{
		Name:           name,
		Kind:           graphcore.KindBuffer,
		Buffer:         graphcore.BufferCreateInfo{Size: 256},
		ProducerStages: graphcore.StageComputeShader,
		ProducerAccess: graphcore.AccessShaderWrite,
	}
}

func TestGraph_MismatchedConnectorKindFailsAtBuild(t *testing.T) {
	// A declares a buffer output but is wired up via ConnectImage; the
	// mismatch must fail cleanly at build time rather than panic deep in
	// the allocator or barrier planner.
	a := &recordingNode{name: "A", outputs: []graphcore.OutputDescriptor{bufferOutput("out")}}
	b := &recordingNode{
		name:   "B",
		inputs: []graphcore.InputDescriptor{{Name: "in", Kind: graphcore.KindImage, Delay: 0, Stages: graphcore.StageFragmentShader, Access: graphcore.AccessShaderRead}},
	}

	g := newTestGraph(t, 1)
	require.NoError(t, g.AddNode("A", a))
	require.NoError(t, g.AddNode("B", b))
	require.NoError(t, g.ConnectImage("A", 0, "B", 0))

	cmd, err := g.Ring().Slot(0).Pool.Begin(context.Background())
	require.NoError(t, err)

	require.NotPanics(t, func() {
		err = g.Build(context.Background(), cmd)
	})
	require.Error(t, err)
	var gerr *graphcore.Error
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, graphcore.KindConnector, gerr.Kind)
}

func TestGraph_FeedbackEdgeOutputIndexOutOfRangeFails(t *testing.T) {
	// A feeds back into itself with delay 1, but the connection names an
	// output index A never declares. The scheduler only range-checks
	// zero-delay edges while iterating, so this must be caught separately.
	a := &recordingNode{
		name:    "A",
		inputs:  []graphcore.InputDescriptor{{Name: "prev", Kind: graphcore.KindImage, Delay: 1}},
		outputs: []graphcore.OutputDescriptor{imageOutput("out")},
	}

	g := newTestGraph(t, 1)
	require.NoError(t, g.AddNode("A", a))
	require.NoError(t, g.ConnectImage("A", 3, "A", 0))

	cmd, err := g.Ring().Slot(0).Pool.Begin(context.Background())
	require.NoError(t, err)
	err = g.Build(context.Background(), cmd)
	require.Error(t, err)
	var gerr *graphcore.Error
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, graphcore.KindValidation, gerr.Kind)
}

func TestGraph_ZeroSlotsRejected(t *testing.T) {
	al := gpufake.NewAllocator()
	_, err := New(gpufake.NewDevice(), gpufake.NewQueue(), al, al, nil, nil, 16)
	require.Error(t, err)
}

func TestGraph_BuildPropagatesQueueQuiescenceFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	queue := NewMockQueue(ctrl)
	queue.EXPECT().WaitIdle(gomock.Any()).Return(errors.New("device lost"))

	al := gpufake.NewAllocator()
	g, err := New(
		gpufake.NewDevice(), queue, al, al,
		[]graphcore.CommandPool{gpufake.NewCommandPool()},
		[]graphcore.QueryPool{gpufake.NewQueryPool(8)},
		8,
	)
	require.NoError(t, err)
	require.NoError(t, g.AddNode("A", &recordingNode{name: "A", outputs: []graphcore.OutputDescriptor{imageOutput("out")}}))

	cmd, err := g.Ring().Slot(0).Pool.Begin(context.Background())
	require.NoError(t, err)
	err = g.Build(context.Background(), cmd)
	require.Error(t, err)
	var gerr *graphcore.Error
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, graphcore.KindAllocation, gerr.Kind)
}

func TestGraph_MismatchedPoolCountsRejected(t *testing.T) {
	al := gpufake.NewAllocator()
	pools := []graphcore.CommandPool{gpufake.NewCommandPool()}
	queryPools := []graphcore.QueryPool{gpufake.NewQueryPool(8), gpufake.NewQueryPool(8)}
	_, err := New(gpufake.NewDevice(), gpufake.NewQueue(), al, al, pools, queryPools, 16)
	require.Error(t, err)
}
