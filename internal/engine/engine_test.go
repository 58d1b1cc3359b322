package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rgcore/rendergraph/internal/builder"
	"github.com/rgcore/rendergraph/internal/gpufake"
	"github.com/rgcore/rendergraph/internal/graphcore"
)

type countingNode struct {
	name    string
	inputs  []graphcore.InputDescriptor
	outputs []graphcore.OutputDescriptor

	processed   int
	rebuildOnce bool
	requested   bool
}

func (n *countingNode) Name() string { return n.name }
func (n *countingNode) DescribeInputs(ctx context.Context) ([]graphcore.InputDescriptor, error) {
	return n.inputs, nil
}
func (n *countingNode) DescribeOutputs(ctx context.Context, connected []graphcore.OutputDescriptor) ([]graphcore.OutputDescriptor, error) {
	return n.outputs, nil
}
func (n *countingNode) Build(ctx context.Context, cmd graphcore.CommandBuffer, slots graphcore.SlotTables) error {
	return nil
}
func (n *countingNode) Process(ctx context.Context, cmd graphcore.CommandBuffer, rs *graphcore.RunState, bindings graphcore.SlotBindings) error {
	n.processed++
	if n.rebuildOnce && !n.requested {
		n.requested = true
		rs.RequestReconnect()
	}
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

func newTestGraph(t *testing.T, ringSize int) *builder.Graph {
	t.Helper()
	pools := make([]graphcore.CommandPool, ringSize)
	queryPools := make([]graphcore.QueryPool, ringSize)
	for i := 0; i < ringSize; i++ {
		pools[i] = gpufake.NewCommandPool()
		queryPools[i] = gpufake.NewQueryPool(16)
	}
	al := gpufake.NewAllocator()
	g, err := builder.New(gpufake.NewDevice(), gpufake.NewQueue(), al, al, pools, queryPools, 16)
	require.NoError(t, err)
	return g
}

func beginCmd(t *testing.T, g *builder.Graph, slot int) graphcore.CommandBuffer {
	t.Helper()
	cmd, err := g.Ring().Slot(slot).Pool.Begin(context.Background())
	require.NoError(t, err)
	return cmd
}

func TestRunFrame_LinearPipelineRunsEveryNodeEachFrame(t *testing.T) {
	a := &countingNode{name: "A", outputs: []graphcore.OutputDescriptor{imageOutput("out")}}
	b := &countingNode{
		name:   "B",
		inputs: []graphcore.InputDescriptor{{Name: "in", Kind: graphcore.KindImage, Delay: 0, Stages: graphcore.StageFragmentShader, Access: graphcore.AccessShaderRead}},
	}

	g := newTestGraph(t, 2)
	require.NoError(t, g.AddNode("A", a))
	require.NoError(t, g.AddNode("B", b))
	require.NoError(t, g.ConnectImage("A", 0, "B", 0))
	require.NoError(t, g.Build(context.Background(), beginCmd(t, g, 0)))

	for frame := 0; frame < 4; frame++ {
		rs := g.RunState()
		idx := int((rs.Iteration + 1) % 2)
		if frame == 0 {
			idx = 0
		}
		cmd := beginCmd(t, g, idx)
		require.NoError(t, RunFrame(context.Background(), g, cmd))
	}

	require.Equal(t, 4, a.processed)
	require.Equal(t, 4, b.processed)
}

func TestRunFrame_RequestReconnectTriggersRebuildNextCall(t *testing.T) {
	a := &countingNode{name: "A", outputs: []graphcore.OutputDescriptor{imageOutput("out")}, rebuildOnce: true}

	g := newTestGraph(t, 1)
	require.NoError(t, g.AddNode("A", a))
	require.NoError(t, g.Build(context.Background(), beginCmd(t, g, 0)))

	require.NoError(t, RunFrame(context.Background(), g, beginCmd(t, g, 0)))
	require.True(t, g.RunState().Reconnect(), "a node calling RequestReconnect should be visible until Reset")

	// The second RunFrame call observes the pending reconnect request,
	// rebuilds, and still processes the node for this frame.
	require.NoError(t, RunFrame(context.Background(), g, beginCmd(t, g, 0)))
	require.Equal(t, 2, a.processed)
}

func TestRunFrame_FeedbackNodeAdvancesThroughDelayedSlots(t *testing.T) {
	// A self-feeding node with delay 1 must still process every frame
	// even though its feedback input lags one iteration.
	b := &countingNode{
		name:    "B",
		outputs: []graphcore.OutputDescriptor{imageOutput("out")},
		inputs:  []graphcore.InputDescriptor{{Name: "fb", Kind: graphcore.KindImage, Delay: 1, Stages: graphcore.StageFragmentShader, Access: graphcore.AccessShaderRead}},
	}

	g := newTestGraph(t, 2)
	require.NoError(t, g.AddNode("B", b))
	require.NoError(t, g.ConnectImage("B", 0, "B", 0))
	require.NoError(t, g.Build(context.Background(), beginCmd(t, g, 0)))

	for frame := 0; frame < 5; frame++ {
		rs := g.RunState()
		idx := int((rs.Iteration + 1) % 2)
		if frame == 0 {
			idx = 0
		}
		require.NoError(t, RunFrame(context.Background(), g, beginCmd(t, g, idx)))
	}

	require.Equal(t, 5, b.processed)
}

func TestRunFrame_BeforeAnyBuildFails(t *testing.T) {
	g := newTestGraph(t, 1)
	require.NoError(t, g.AddNode("A", &countingNode{name: "A"}))
	err := RunFrame(context.Background(), g, beginCmd(t, g, 0))
	require.Error(t, err)
}
