package stages

import (
	"log/slog"
	"math"
	"time"

	"github.com/tphakala/mediaflow/internal/errors"
	"github.com/tphakala/mediaflow/internal/logging"
	"github.com/tphakala/mediaflow/internal/pipeline"
)

// Generator is a SourceTask producing sine frames at a fixed interval. It
// paces itself with the stage clock view so simulated clocks drive it
// deterministically in tests, and stops on shutdown, on reaching MaxFrames,
// or when its output queue is closed by nobody (it owns closing out).
type Generator struct {
	// FrameSize is the number of samples per frame. Must be positive.
	FrameSize int

	// Interval is the pacing between frames. Zero means produce as fast as
	// the downstream queue accepts.
	Interval time.Duration

	// Frequency is the sine frequency in cycles per frame. Defaults to one.
	Frequency float64

	// MaxFrames bounds production; zero means unbounded.
	MaxFrames uint64

	// Queue is the declared output queue capacity.
	Queue int

	logger *slog.Logger
}

// NewGenerator returns a generator with the given frame size and pacing.
func NewGenerator(frameSize int, interval time.Duration) *Generator {
	return &Generator{
		FrameSize: frameSize,
		Interval:  interval,
		Frequency: 1,
		logger:    stageLogger("generator"),
	}
}

// QueueSize implements pipeline.SourceTask.
func (g *Generator) QueueSize() int { return g.Queue }

// Run implements pipeline.SourceTask.
func (g *Generator) Run(clock pipeline.Clock, ready pipeline.ReadySignal, control <-chan pipeline.ControlCommand, out chan<- Frame) error {
	if g.FrameSize <= 0 {
		err := errors.Newf("generator: frame size must be positive, got %d", g.FrameSize).
			Category(errors.CategoryValidation).
			Context("frame_size", g.FrameSize).
			Build()
		ready.Fail(err)
		return err
	}
	ready.Ready()
	defer close(out)

	log := g.logger
	if log == nil {
		log = stageLogger("generator")
	}

	var ticker *time.Ticker
	var tick <-chan time.Time
	if g.Interval > 0 {
		ticker = time.NewTicker(g.Interval)
		tick = ticker.C
		defer ticker.Stop()
	}

	freq := g.Frequency
	if freq == 0 {
		freq = 1
	}

	var seq uint64
	for g.MaxFrames == 0 || seq < g.MaxFrames {
		if tick != nil {
			select {
			case <-tick:
			case cmd := <-control:
				if cmd == pipeline.CommandShutdown {
					log.Debug("generator stopping on shutdown", "frames", seq)
					return nil
				}
			}
		} else {
			select {
			case cmd := <-control:
				if cmd == pipeline.CommandShutdown {
					log.Debug("generator stopping on shutdown", "frames", seq)
					return nil
				}
			default:
			}
		}

		frame := Frame{
			Seq:       seq,
			Samples:   make([]float32, g.FrameSize),
			Timestamp: clock.Now(),
		}
		for i := range frame.Samples {
			frame.Samples[i] = float32(math.Sin(2 * math.Pi * freq * float64(i) / float64(g.FrameSize)))
		}

		select {
		case out <- frame:
			seq++
		case cmd := <-control:
			if cmd == pipeline.CommandShutdown {
				log.Debug("generator stopping on shutdown", "frames", seq)
				return nil
			}
		}
	}

	log.Debug("generator finished", "frames", seq)
	return nil
}

func stageLogger(stage string) *slog.Logger {
	log := logging.ForService("stages")
	if log == nil {
		log = slog.Default()
	}
	return log.With("stage", stage)
}
