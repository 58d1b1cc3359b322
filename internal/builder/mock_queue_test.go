package builder

import (
	"context"
	"reflect"

	"go.uber.org/mock/gomock"

	"github.com/rgcore/rendergraph/internal/graphcore"
)

// MockQueue is a hand-maintained stand-in for what `mockgen` would generate
// for graphcore.Queue; it exists so Build's quiescence-wait error path can
// be exercised without teaching gpufake.Queue to fail on command.
type MockQueue struct {
	ctrl     *gomock.Controller
	recorder *MockQueueMockRecorder
}

type MockQueueMockRecorder struct {
	mock *MockQueue
}

func NewMockQueue(ctrl *gomock.Controller) *MockQueue {
	m := &MockQueue{ctrl: ctrl}
	m.recorder = &MockQueueMockRecorder{m}
	return m
}

func (m *MockQueue) EXPECT() *MockQueueMockRecorder {
	return m.recorder
}

func (m *MockQueue) Submit(ctx context.Context, cmd graphcore.CommandBuffer, waits []graphcore.SemaphoreWait, signals []graphcore.SemaphoreSignal) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Submit", ctx, cmd, waits, signals)
	err, _ := ret[0].(error)
	return err
}

func (mr *MockQueueMockRecorder) Submit(ctx, cmd, waits, signals interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Submit", reflect.TypeOf((*MockQueue)(nil).Submit), ctx, cmd, waits, signals)
}

func (m *MockQueue) WaitIdle(ctx context.Context) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "WaitIdle", ctx)
	err, _ := ret[0].(error)
	return err
}

func (mr *MockQueueMockRecorder) WaitIdle(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "WaitIdle", reflect.TypeOf((*MockQueue)(nil).WaitIdle), ctx)
}
