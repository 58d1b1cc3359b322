// Package demo provides a minimal set of graphcore.Node implementations —
// a source, a pass-through, and a sink — used by cmd/rgdemo and by
// internal/app's default graph to exercise the engine end to end without a
// declarative graph file. The shape is a simple linear pipeline
// (A -> B -> C, all delay 0).
package demo

import (
	"context"
	"fmt"

	"github.com/rgcore/rendergraph/internal/ctxlog"
	"github.com/rgcore/rendergraph/internal/graphcore"
)

// Source has no inputs and one compute-written image output of a fixed
// extent.
type Source struct {
	name string
	w, h uint32
	n    int
}

// NewSource returns a Source node producing a w x h storage image named
// "out".
func NewSource(name string, w, h uint32) *Source {
	return &Source{name: name, w: w, h: h}
}

func (s *Source) Name() string { return s.name }

func (s *Source) DescribeInputs(ctx context.Context) ([]graphcore.InputDescriptor, error) {
	return nil, nil
}

func (s *Source) DescribeOutputs(ctx context.Context, connected []graphcore.OutputDescriptor) ([]graphcore.OutputDescriptor, error) {
	return []graphcore.OutputDescriptor{
		graphcore.ComputeWrite("out", graphcore.ImageCreateInfo{Width: s.w, Height: s.h, Depth: 1}, false),
	}, nil
}

func (s *Source) Build(ctx context.Context, cmd graphcore.CommandBuffer, slots graphcore.SlotTables) error {
	s.n = slots.N
	ctxlog.FromContext(ctx).Debug("demo source built", "node", s.name, "slots", slots.N, "needsDescriptorUpdate", slots.Status&graphcore.StatusNeedsDescriptorUpdate != 0)
	return nil
}

func (s *Source) Process(ctx context.Context, cmd graphcore.CommandBuffer, rs *graphcore.RunState, bindings graphcore.SlotBindings) error {
	if rs.Profiler != nil {
		id := rs.Profiler.Start(s.name)
		defer rs.Profiler.End(id)
	}
	ctxlog.FromContext(ctx).Debug("demo source process", "node", s.name, "iteration", rs.Iteration, "slot", bindings.Index)
	return nil
}

// Pass has one image input read by a compute shader and one output of the
// same extent as whatever feeds it, written by a compute shader. It models
// a middle stage in a linear or feedback pipeline.
type Pass struct {
	name  string
	delay int
}

// NewPass returns a Pass node reading its input with the given delay (0 for
// a same-iteration read, >=1 for a feedback edge).
func NewPass(name string, delay int) *Pass {
	return &Pass{name: name, delay: delay}
}

func (p *Pass) Name() string { return p.name }

func (p *Pass) DescribeInputs(ctx context.Context) ([]graphcore.InputDescriptor, error) {
	return []graphcore.InputDescriptor{graphcore.ComputeRead("in", p.delay)}, nil
}

func (p *Pass) DescribeOutputs(ctx context.Context, connected []graphcore.OutputDescriptor) ([]graphcore.OutputDescriptor, error) {
	if len(connected) != 1 || connected[0].Kind != graphcore.KindImage {
		return nil, fmt.Errorf("pass %q requires a single connected image input", p.name)
	}
	return []graphcore.OutputDescriptor{
		graphcore.ComputeWrite("out", connected[0].Image, false),
	}, nil
}

func (p *Pass) Build(ctx context.Context, cmd graphcore.CommandBuffer, slots graphcore.SlotTables) error {
	ctxlog.FromContext(ctx).Debug("demo pass built", "node", p.name, "slots", slots.N, "needsDescriptorUpdate", slots.Status&graphcore.StatusNeedsDescriptorUpdate != 0)
	return nil
}

func (p *Pass) Process(ctx context.Context, cmd graphcore.CommandBuffer, rs *graphcore.RunState, bindings graphcore.SlotBindings) error {
	if rs.Profiler != nil {
		id := rs.Profiler.Start(p.name)
		defer rs.Profiler.End(id)
	}
	ctxlog.FromContext(ctx).Debug("demo pass process", "node", p.name, "iteration", rs.Iteration, "slot", bindings.Index)
	return nil
}

// Sink has one image input read by a transfer and no outputs; it models
// the terminal stage of a linear pipeline.
type Sink struct {
	name  string
	delay int
}

// NewSink returns a Sink node reading its input with the given delay.
func NewSink(name string, delay int) *Sink {
	return &Sink{name: name, delay: delay}
}

func (s *Sink) Name() string { return s.name }

func (s *Sink) DescribeInputs(ctx context.Context) ([]graphcore.InputDescriptor, error) {
	return []graphcore.InputDescriptor{graphcore.TransferSrc("in", s.delay)}, nil
}

func (s *Sink) DescribeOutputs(ctx context.Context, connected []graphcore.OutputDescriptor) ([]graphcore.OutputDescriptor, error) {
	return nil, nil
}

func (s *Sink) Build(ctx context.Context, cmd graphcore.CommandBuffer, slots graphcore.SlotTables) error {
	ctxlog.FromContext(ctx).Debug("demo sink built", "node", s.name, "slots", slots.N, "needsDescriptorUpdate", slots.Status&graphcore.StatusNeedsDescriptorUpdate != 0)
	return nil
}

func (s *Sink) Process(ctx context.Context, cmd graphcore.CommandBuffer, rs *graphcore.RunState, bindings graphcore.SlotBindings) error {
	if rs.Profiler != nil {
		id := rs.Profiler.Start(s.name)
		defer rs.Profiler.End(id)
	}
	ctxlog.FromContext(ctx).Debug("demo sink process", "node", s.name, "iteration", rs.Iteration, "slot", bindings.Index)
	return nil
}
