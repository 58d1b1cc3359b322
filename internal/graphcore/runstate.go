package graphcore

import "time"

// RunState is the surface a Node's Process hook (and the caller) uses to
// read frame context and register work for after submission.
type RunState struct {
	Iteration           uint64
	InFlightIndex       int
	RingSize            int
	Profiler            Profiler
	TimeDelta           time.Duration
	Elapsed             time.Duration
	ElapsedSinceConnect time.Duration

	waits       []SemaphoreWait
	signals     []SemaphoreSignal
	callbacks   []SubmitCallback
	reconnect   bool
}

// AddWaitSemaphore registers a semaphore the caller's queue submission must
// wait on before the frame's command buffer begins execution.
func (rs *RunState) AddWaitSemaphore(w SemaphoreWait) {
	rs.waits = append(rs.waits, w)
}

// AddSignalSemaphore registers a semaphore the caller's queue submission
// must signal once the frame's command buffer completes.
func (rs *RunState) AddSignalSemaphore(s SemaphoreSignal) {
	rs.signals = append(rs.signals, s)
}

// AddSubmitCallback registers a callback to run after the caller submits
// the frame's command buffer to the queue. Callbacks run in FIFO order of
// registration.
func (rs *RunState) AddSubmitCallback(cb SubmitCallback) {
	rs.callbacks = append(rs.callbacks, cb)
}

// RequestReconnect asks the run engine to rebuild the graph before the next
// frame runs, equivalent to a node setting PreStatus.RequestRebuild.
func (rs *RunState) RequestReconnect() {
	rs.reconnect = true
}

// Waits returns the semaphores registered this frame via AddWaitSemaphore.
func (rs *RunState) Waits() []SemaphoreWait { return rs.waits }

// Signals returns the semaphores registered this frame via AddSignalSemaphore.
func (rs *RunState) Signals() []SemaphoreSignal { return rs.signals }

// Callbacks returns the submit callbacks registered this frame, in FIFO
// registration order.
func (rs *RunState) Callbacks() []SubmitCallback { return rs.callbacks }

// Reset clears a frame's registered waits, signals, and callbacks, and its
// reconnect request, so the same RunState can be reused for the next
// frame. The run engine calls this once per frame, before PreProcess.
func (rs *RunState) Reset() {
	rs.waits = rs.waits[:0]
	rs.signals = rs.signals[:0]
	rs.callbacks = rs.callbacks[:0]
	rs.reconnect = false
}

// Reconnect reports whether any node (or the caller, via
// RequestReconnect) asked for a rebuild before the next frame.
func (rs *RunState) Reconnect() bool { return rs.reconnect }
