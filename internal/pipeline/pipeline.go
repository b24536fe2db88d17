package pipeline

import (
	"log/slog"
	"sync"
)

// Pipeline is the built artifact returned by a successful Build. It is the
// caller's handle for post-launch operations: broadcasting control
// commands, requesting shutdown, and waiting for stage goroutines to end.
// Stage goroutines are not joined automatically; the caller arranges for
// stages to terminate (typically via Shutdown) and then calls Wait.
type Pipeline struct {
	id      string
	clock   Clock
	control *ControlBroadcast
	wg      *sync.WaitGroup
	logger  *slog.Logger

	mu         sync.Mutex
	isShutdown bool
}

// ID returns the pipeline run identifier.
func (p *Pipeline) ID() string {
	return p.id
}

// Clock returns the shared pipeline clock.
func (p *Pipeline) Clock() Clock {
	return p.clock
}

// Stages returns the names of all registered stages.
func (p *Pipeline) Stages() []string {
	return p.control.Names()
}

// Broadcast delivers a control command to every stage listener.
func (p *Pipeline) Broadcast(cmd ControlCommand) {
	p.control.Broadcast(cmd)
}

// Send delivers a control command to a single named stage.
func (p *Pipeline) Send(stage string, cmd ControlCommand) error {
	return p.control.Send(stage, cmd)
}

// Shutdown broadcasts CommandShutdown to every stage and marks the
// pipeline as shut down. Stages observe the command voluntarily; Shutdown
// does not force-terminate anything. Safe to call more than once.
func (p *Pipeline) Shutdown() {
	p.mu.Lock()
	if p.isShutdown {
		p.mu.Unlock()
		return
	}
	p.isShutdown = true
	p.mu.Unlock()

	p.logger.Info("broadcasting shutdown")
	p.control.Broadcast(CommandShutdown)
}

// IsShutdown reports whether Shutdown has been called.
func (p *Pipeline) IsShutdown() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isShutdown
}

// Wait blocks until every stage goroutine has returned.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}
