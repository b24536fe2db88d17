package stages

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/tphakala/mediaflow/internal/pipeline"
)

// Counter is a SinkTask draining frames and keeping running totals. It is
// the terminal stage of the demo pipeline and reports progress at a fixed
// frame interval.
type Counter struct {
	// ReportEvery logs a progress line every N frames. Zero disables
	// progress logging.
	ReportEvery uint64

	frames  atomic.Uint64
	samples atomic.Uint64
	logger  *slog.Logger
}

// NewCounter returns a counting sink.
func NewCounter(reportEvery uint64) *Counter {
	return &Counter{
		ReportEvery: reportEvery,
		logger:      stageLogger("counter"),
	}
}

// Frames returns the number of frames consumed so far.
func (c *Counter) Frames() uint64 { return c.frames.Load() }

// Samples returns the number of samples consumed so far.
func (c *Counter) Samples() uint64 { return c.samples.Load() }

// Run implements pipeline.SinkTask. The sink exits when its input closes
// or on shutdown; frames already queued are dropped on shutdown.
func (c *Counter) Run(clock pipeline.Clock, ready pipeline.ReadySignal, control <-chan pipeline.ControlCommand, in <-chan Frame) error {
	ready.Ready()

	log := c.logger
	if log == nil {
		log = stageLogger("counter")
	}
	start := clock.Now()

	for {
		select {
		case frame, ok := <-in:
			if !ok {
				log.Info("counter finished",
					"frames", c.frames.Load(),
					"samples", c.samples.Load(),
					"elapsed", clock.Now().Sub(start).Round(time.Millisecond))
				return nil
			}
			n := c.frames.Add(1)
			c.samples.Add(uint64(len(frame.Samples)))
			if c.ReportEvery > 0 && n%c.ReportEvery == 0 {
				log.Info("frames consumed",
					"frames", n,
					"latest_seq", frame.Seq)
			}
		case cmd := <-control:
			if cmd == pipeline.CommandShutdown {
				return nil
			}
		}
	}
}
