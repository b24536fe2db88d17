package pipeline

// Path is the fluent chaining helper for strictly linear
// source -> ... -> sink pipelines. It carries the previous stage's bounded
// output queue so the next registration consumes it as input, and threads
// the payload type through the chain so mismatched producer/consumer types
// are rejected at compile time. Path has no concurrency semantics of its
// own.
type Path[O any] struct {
	builder *Builder
	next    <-chan O
}

// Source registers a producing stage, creates its bounded output queue
// sized by the stage's declared capacity, and returns a Path exposing that
// queue as the next stage's input.
func Source[O any](b *Builder, name string, task SourceTask[O]) (*Path[O], error) {
	out := make(chan O, b.queueCap(task.QueueSize()))

	err := b.spawnStage(name, "source", func(clock Clock, ready ReadySignal, control <-chan ControlCommand) error {
		return task.Run(clock, ready, control, out)
	})
	if err != nil {
		return nil, err
	}

	return &Path[O]{builder: b, next: out}, nil
}

// SpawnSource registers a producing stage without chaining and returns the
// read end of its bounded output queue for the caller to wire elsewhere.
func SpawnSource[O any](b *Builder, name string, task SourceTask[O]) (<-chan O, error) {
	p, err := Source(b, name, task)
	if err != nil {
		return nil, err
	}
	return p.next, nil
}

// Via registers a transform stage consuming the path's payload type and
// producing a new one, and continues the chain with the transform's bounded
// output queue.
func Via[I, O any](p *Path[I], name string, task TransformTask[I, O]) (*Path[O], error) {
	b := p.builder
	in := p.next
	out := make(chan O, b.queueCap(task.QueueSize()))

	err := b.spawnStage(name, "transform", func(clock Clock, ready ReadySignal, control <-chan ControlCommand) error {
		return task.Run(clock, ready, control, in, out)
	})
	if err != nil {
		return nil, err
	}

	return &Path[O]{builder: b, next: out}, nil
}

// Sink registers a terminal consuming stage and ends the chain, returning
// the builder so the caller can register further stages or Build.
func (p *Path[I]) Sink(name string, task SinkTask[I]) (*Builder, error) {
	b := p.builder
	in := p.next

	err := b.spawnStage(name, "sink", func(clock Clock, ready ReadySignal, control <-chan ControlCommand) error {
		return task.Run(clock, ready, control, in)
	})
	if err != nil {
		return nil, err
	}

	return b, nil
}

// Builder returns the underlying pipeline builder.
func (p *Path[O]) Builder() *Builder {
	return p.builder
}
