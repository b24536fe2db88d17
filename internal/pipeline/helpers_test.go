package pipeline

import (
	"sync"
	"time"
)

// fakeStage is a scriptable Task for orchestration tests.
type fakeStage struct {
	skipReady bool          // never signal readiness
	readyErr  error         // signal a failed handshake
	block     chan struct{} // when set, wait for close before finishing
	delay     time.Duration // sleep before finishing
	panicWith any           // panic after the handshake
	runErr    error         // returned as the stage failure

	exited *sync.WaitGroup // optional, Done when Run returns
}

func (s *fakeStage) Run(clock Clock, ready ReadySignal, control <-chan ControlCommand) error {
	if s.exited != nil {
		defer s.exited.Done()
	}

	if !s.skipReady {
		if s.readyErr != nil {
			ready.Fail(s.readyErr)
			return s.readyErr
		}
		ready.Ready()
	}

	if s.block != nil {
		<-s.block
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.panicWith != nil {
		panic(s.panicWith)
	}
	return s.runErr
}

// drainStage signals readiness and waits for shutdown.
type drainStage struct {
	exited *sync.WaitGroup
}

func (s *drainStage) Run(clock Clock, ready ReadySignal, control <-chan ControlCommand) error {
	if s.exited != nil {
		defer s.exited.Done()
	}
	ready.Ready()
	for cmd := range control {
		if cmd == CommandShutdown {
			return nil
		}
	}
	return nil
}
