package pipeline

import (
	"log/slog"
	"runtime/debug"

	"github.com/tphakala/mediaflow/internal/errors"
)

// spawnStage performs the registration bookkeeping shared by all stage
// kinds and launches the stage goroutine. The control listener is created
// atomically with the registration, and the logging context is captured
// before the goroutine starts so stage diagnostics stay attributable to
// this pipeline and stage.
func (b *Builder) spawnStage(name, kind string, run func(Clock, ReadySignal, <-chan ControlCommand) error) error {
	b.mu.Lock()
	if b.built {
		b.mu.Unlock()
		return errors.Newf("cannot register stage %q: pipeline already built", name).
			Component(ComponentPipeline).
			Category(errors.CategoryState).
			Context("stage", name).
			Build()
	}
	if _, dup := b.names[name]; dup {
		b.mu.Unlock()
		return &DuplicateStageError{Stage: name}
	}
	b.names[name] = struct{}{}

	control := b.control.AddListener(name)
	readySignal, readyCh := newReadySignal()
	done := make(chan error, 1)

	b.regs = append(b.regs, &registration{
		name:  name,
		ready: readyCh,
		done:  done,
	})
	b.mu.Unlock()

	clockView := b.clock.View(name)
	logger := b.logger.With("task", name)

	GetMetrics().RecordStageRegistered(b.id, kind)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		GetMetrics().UpdateStagesRunning(b.id, int(b.running.Add(1)))
		defer func() {
			GetMetrics().UpdateStagesRunning(b.id, int(b.running.Add(-1)))
		}()

		result := runContained(logger, name, clockView, readySignal, control, run)

		// The stage can no longer signal readiness; a close without a
		// buffered value tells Build the stage died before its handshake.
		close(readyCh)

		outcome := "success"
		switch {
		case errors.IsCategory(result, errors.CategoryStagePanic):
			outcome = "panic"
		case result != nil:
			outcome = "failure"
		}
		GetMetrics().RecordStageCompletion(b.id, name, outcome)

		done <- result
		close(done)
	}()

	return nil
}

// runContained executes the stage's run logic inside a panic-containment
// boundary: any panic is recovered and converted into a descriptive failure
// value instead of terminating the process.
func runContained(logger *slog.Logger, name string, clock Clock, ready ReadySignal, control <-chan ControlCommand, run func(Clock, ReadySignal, <-chan ControlCommand) error) (result error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("task panicked", "panic", r, "stack", string(debug.Stack()))
			result = errors.Newf("panicked: %v", r).
				Component(ComponentPipeline).
				Category(errors.CategoryStagePanic).
				Context("stage", name).
				Build()
		}
	}()

	logger.Info("launching task")
	result = run(clock, ready, control)
	logger.Info("task done")
	return result
}
