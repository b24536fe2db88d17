package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/tphakala/mediaflow/internal/conf"
	"github.com/tphakala/mediaflow/internal/errors"
	"github.com/tphakala/mediaflow/internal/logging"
)

// registration tracks one named stage between Register and Build.
type registration struct {
	name  string
	ready <-chan error // readiness handshake, closed when the stage goroutine ends
	done  <-chan error // completion signal, exactly one value then closed
}

// Builder accumulates named stage registrations and drives the two-phase
// launch protocol. Stages spawn immediately on registration; Build then
// waits for every readiness handshake before declaring the pipeline live.
// A Builder is single-use: after Build it accepts no further registrations.
type Builder struct {
	id      string
	clock   Clock
	control *ControlBroadcast
	logger  *slog.Logger
	wg      *sync.WaitGroup
	running atomic.Int32

	mu    sync.Mutex
	regs  []*registration
	names map[string]struct{}
	built bool

	readyTimeout     time.Duration
	graceDelay       time.Duration
	defaultQueueSize int
}

// NewBuilder creates a pipeline builder around the shared clock. Every
// registered stage receives a stage-local view derived from it.
// Orchestration tunables default to the configured pipeline settings.
func NewBuilder(clock Clock) *Builder {
	settings := conf.Setting().Pipeline

	id := uuid.New().String()
	logger := logging.ForService("pipeline")
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("pipeline_id", id)

	return &Builder{
		id:               id,
		clock:            clock,
		control:          newControlBroadcast(id, logger),
		logger:           logger,
		wg:               &sync.WaitGroup{},
		names:            make(map[string]struct{}),
		readyTimeout:     settings.ReadyTimeout,
		graceDelay:       settings.GraceDelay,
		defaultQueueSize: settings.DefaultQueueSize,
	}
}

// ID returns the pipeline run identifier used in log attribution.
func (b *Builder) ID() string {
	return b.id
}

// WithReadyTimeout overrides the per-stage readiness handshake timeout.
func (b *Builder) WithReadyTimeout(d time.Duration) *Builder {
	b.readyTimeout = d
	return b
}

// WithGraceDelay overrides the settle delay applied after every stage has
// signaled readiness. The delay gives just-started consumers a chance to
// begin reading before upstream queues accept writes; it is a heuristic,
// not a correctness guarantee.
func (b *Builder) WithGraceDelay(d time.Duration) *Builder {
	b.graceDelay = d
	return b
}

// WithDefaultQueueSize overrides the queue capacity used for stages that do
// not declare one.
func (b *Builder) WithDefaultQueueSize(n int) *Builder {
	if n > 0 {
		b.defaultQueueSize = n
	}
	return b
}

// Register adds a generic stage without declared input or output queues and
// spawns its goroutine immediately. Registration does not wait for the
// stage to finish initializing. Returns a *DuplicateStageError if the name
// is already taken.
func (b *Builder) Register(name string, task Task) error {
	return b.spawnStage(name, "task", task.Run)
}

// queueCap resolves a stage-declared queue capacity.
func (b *Builder) queueCap(n int) int {
	if n < 1 {
		return b.defaultQueueSize
	}
	return n
}

// stageResult is what completion forwarders hand to the supervisor.
type stageResult struct {
	name string
	err  error
	ok   bool // false when the completion signal closed without a value
}

// Build runs the launch protocol: it waits for every stage's readiness
// handshake in registration order, bounded per stage by the ready timeout,
// sleeps the grace delay, then spawns the supervisor that races all
// completion signals. It returns the live Pipeline and a single-shot
// completion channel that yields the pipeline-level outcome (nil for
// success) decided by whichever stage terminates first.
//
// On a handshake failure Build returns a *TaskLaunchError naming the
// offending stage without waiting on the remaining stages, and without
// tearing down stages that already launched; those goroutines keep running.
func (b *Builder) Build(ctx context.Context) (*Pipeline, <-chan error, error) {
	b.mu.Lock()
	if b.built {
		b.mu.Unlock()
		return nil, nil, errors.New(errors.NewStd("pipeline already built")).
			Component(ComponentPipeline).
			Category(errors.CategoryState).
			Build()
	}
	b.built = true
	regs := b.regs
	b.mu.Unlock()

	if len(regs) == 0 {
		return nil, nil, ErrEmptyPipeline
	}

	for _, reg := range regs {
		start := time.Now()
		timeout := time.NewTimer(b.readyTimeout)

		select {
		case err, ok := <-reg.ready:
			timeout.Stop()
			if !ok {
				GetMetrics().RecordLaunchFailure(b.id, reg.name, "exited")
				return nil, nil, &TaskLaunchError{
					Stage:  reg.name,
					Reason: "stage exited before signaling readiness",
				}
			}
			if err != nil {
				GetMetrics().RecordLaunchFailure(b.id, reg.name, "failed")
				return nil, nil, &TaskLaunchError{
					Stage:  reg.name,
					Reason: err.Error(),
					Err:    err,
				}
			}
			GetMetrics().RecordReadinessDuration(b.id, reg.name, time.Since(start))
		case <-timeout.C:
			GetMetrics().RecordLaunchFailure(b.id, reg.name, "timeout")
			return nil, nil, &TaskLaunchError{
				Stage:  reg.name,
				Reason: fmt.Sprintf("timed out after %v waiting for readiness", b.readyTimeout),
			}
		case <-ctx.Done():
			timeout.Stop()
			GetMetrics().RecordLaunchFailure(b.id, reg.name, "canceled")
			return nil, nil, &TaskLaunchError{
				Stage:  reg.name,
				Reason: ctx.Err().Error(),
				Err:    ctx.Err(),
			}
		}
	}

	// Give just-started consumers a moment to reach their first read before
	// upstream stages start writing. Heuristic, see WithGraceDelay.
	if b.graceDelay > 0 {
		time.Sleep(b.graceDelay)
	}

	completion := make(chan error, 1)
	firstCh := make(chan stageResult, len(regs))

	// One forwarder per stage relays its completion signal; the supervisor
	// takes whichever arrives first. The channel is buffered to capacity so
	// the remaining forwarders finish without a reader.
	for _, reg := range regs {
		go func(reg *registration) {
			err, ok := <-reg.done
			firstCh <- stageResult{name: reg.name, err: err, ok: ok}
		}(reg)
	}

	go b.supervise(firstCh, completion)

	b.logger.Info("pipeline live", "stages", len(regs))

	return &Pipeline{
		id:      b.id,
		clock:   b.clock,
		control: b.control,
		wg:      b.wg,
		logger:  b.logger,
	}, completion, nil
}

// supervise performs the completion race: the first stage to terminate, for
// any reason, decides the pipeline outcome. Normal end-of-stream completion
// and abnormal termination are treated identically.
func (b *Builder) supervise(firstCh <-chan stageResult, completion chan<- error) {
	first := <-firstCh

	var result error
	switch {
	case !first.ok:
		result = stageFailureUnknown(first.name)
	case first.err != nil:
		result = stageFailure(first.name, first.err)
	}

	if result != nil {
		b.logger.Error("pipeline failed", "task", first.name, "error", result)
		GetMetrics().RecordPipelineOutcome(b.id, "failure")
	} else {
		b.logger.Info("pipeline completed", "task", first.name)
		GetMetrics().RecordPipelineOutcome(b.id, "success")
	}

	completion <- result
	close(completion)
}
