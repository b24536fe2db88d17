package pipeline

import "sync"

// ControlCommand is an out-of-band control signal delivered to stage
// listeners. The orchestration core does not interpret commands beyond
// CommandShutdown; their semantics belong to the surrounding system.
type ControlCommand string

// CommandShutdown is broadcast by Pipeline.Shutdown to ask every stage to
// stop voluntarily.
const CommandShutdown ControlCommand = "shutdown"

// ReadySignal is the one-shot handshake a stage uses to report that its
// initialization succeeded or failed. A stage must call exactly one of
// Ready or Fail before doing substantial work; additional calls are ignored.
type ReadySignal struct {
	once *sync.Once
	ch   chan<- error
}

// newReadySignal returns the write half handed to the stage and the read
// half the builder waits on. The channel is buffered so the stage never
// blocks on the handshake.
func newReadySignal() (ReadySignal, chan error) {
	ch := make(chan error, 1)
	return ReadySignal{once: &sync.Once{}, ch: ch}, ch
}

// Ready reports successful initialization.
func (s ReadySignal) Ready() {
	s.signal(nil)
}

// Fail reports failed initialization with the given reason.
func (s ReadySignal) Fail(err error) {
	s.signal(err)
}

func (s ReadySignal) signal(err error) {
	if s.once == nil {
		return
	}
	s.once.Do(func() {
		s.ch <- err
	})
}

// Task is a generic pipeline stage without declared input or output queues.
// Run executes on a dedicated goroutine; it must signal readiness exactly
// once and return when its work is done. A non-nil return value is reported
// as the stage's failure reason.
type Task interface {
	Run(clock Clock, ready ReadySignal, control <-chan ControlCommand) error
}

// SourceTask is a producing stage. The builder creates its bounded output
// queue with the capacity declared by QueueSize and closes nothing on the
// stage's behalf: the source should close out when it is done producing.
type SourceTask[O any] interface {
	// QueueSize declares the capacity of the stage's output queue. Values
	// below one fall back to the configured default.
	QueueSize() int

	Run(clock Clock, ready ReadySignal, control <-chan ControlCommand, out chan<- O) error
}

// TransformTask is an intermediate stage consuming one payload type and
// producing another. It owns closing out once in is drained.
type TransformTask[I, O any] interface {
	QueueSize() int

	Run(clock Clock, ready ReadySignal, control <-chan ControlCommand, in <-chan I, out chan<- O) error
}

// SinkTask is a terminal consuming stage.
type SinkTask[I any] interface {
	Run(clock Clock, ready ReadySignal, control <-chan ControlCommand, in <-chan I) error
}

// TaskFunc adapts a plain function to the Task interface.
type TaskFunc func(clock Clock, ready ReadySignal, control <-chan ControlCommand) error

// Run implements Task.
func (f TaskFunc) Run(clock Clock, ready ReadySignal, control <-chan ControlCommand) error {
	return f(clock, ready, control)
}
