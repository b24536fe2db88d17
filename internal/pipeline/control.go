package pipeline

import (
	"log/slog"
	"sync"

	"github.com/tphakala/mediaflow/internal/errors"
)

// controlQueueSize is the listener buffer capacity. Buffered listeners keep
// a stalled stage from blocking Broadcast for its siblings.
const controlQueueSize = 16

// ControlBroadcast maps stage names to control listeners. Listeners are
// added one per stage at registration time; after Build the registry is
// effectively read-only and only delivery methods are used.
type ControlBroadcast struct {
	mu         sync.RWMutex
	pipelineID string
	listeners  map[string]chan ControlCommand
	logger     *slog.Logger
}

// newControlBroadcast creates an empty broadcast registry for one pipeline.
func newControlBroadcast(pipelineID string, logger *slog.Logger) *ControlBroadcast {
	return &ControlBroadcast{
		pipelineID: pipelineID,
		listeners:  make(map[string]chan ControlCommand),
		logger:     logger,
	}
}

// AddListener registers a listener for the named stage and returns the
// receiving half handed to the stage's run logic. Called exactly once per
// stage, atomically with registration.
func (cb *ControlBroadcast) AddListener(name string) <-chan ControlCommand {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	ch := make(chan ControlCommand, controlQueueSize)
	cb.listeners[name] = ch
	return ch
}

// Broadcast delivers a command to every registered listener. Delivery is
// non-blocking: a listener whose buffer is full is skipped with a warning,
// so one stalled stage cannot wedge the broadcaster.
func (cb *ControlBroadcast) Broadcast(cmd ControlCommand) {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	for name, ch := range cb.listeners {
		select {
		case ch <- cmd:
			GetMetrics().RecordControlCommand(cb.pipelineID, string(cmd))
		default:
			cb.logger.Warn("control listener full, dropping command",
				"task", name, "command", string(cmd))
		}
	}
}

// Send delivers a command to a single named stage.
func (cb *ControlBroadcast) Send(name string, cmd ControlCommand) error {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	ch, ok := cb.listeners[name]
	if !ok {
		return errors.Newf("no stage named %q in pipeline", name).
			Component(ComponentPipeline).
			Category(errors.CategoryNotFound).
			Context("stage", name).
			Build()
	}

	select {
	case ch <- cmd:
		GetMetrics().RecordControlCommand(cb.pipelineID, string(cmd))
		return nil
	default:
		return errors.Newf("control listener for stage %q is full", name).
			Component(ComponentPipeline).
			Category(errors.CategoryControl).
			Context("stage", name).
			Build()
	}
}

// Names returns the registered stage names.
func (cb *ControlBroadcast) Names() []string {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	names := make([]string, 0, len(cb.listeners))
	for name := range cb.listeners {
		names = append(names, name)
	}
	return names
}
