package stages

import (
	"log/slog"
	"sync/atomic"

	"github.com/tphakala/mediaflow/internal/errors"
	"github.com/tphakala/mediaflow/internal/pipeline"
)

// maxGain bounds the configurable amplification factor.
const maxGain = 10.0

// Gain is a TransformTask scaling every sample by a factor. The factor can
// be adjusted while the pipeline runs via SetGain.
type Gain struct {
	// Queue is the declared output queue capacity.
	Queue int

	gain   atomic.Value // float64
	logger *slog.Logger
}

// NewGain returns a gain transform with the given initial factor. Factors
// outside [0, maxGain] are rejected.
func NewGain(factor float64) (*Gain, error) {
	g := &Gain{logger: stageLogger("gain")}
	if err := g.SetGain(factor); err != nil {
		return nil, err
	}
	return g, nil
}

// SetGain replaces the amplification factor.
func (g *Gain) SetGain(factor float64) error {
	if factor < 0 || factor > maxGain {
		return errors.Newf("gain: factor %.2f out of range [0, %.0f]", factor, maxGain).
			Category(errors.CategoryValidation).
			Context("factor", factor).
			Build()
	}
	g.gain.Store(factor)
	return nil
}

// Factor returns the current amplification factor.
func (g *Gain) Factor() float64 {
	f, _ := g.gain.Load().(float64)
	return f
}

// QueueSize implements pipeline.TransformTask.
func (g *Gain) QueueSize() int { return g.Queue }

// Run implements pipeline.TransformTask. Frames are scaled in place and
// forwarded; the transform exits when its input closes or on shutdown.
func (g *Gain) Run(clock pipeline.Clock, ready pipeline.ReadySignal, control <-chan pipeline.ControlCommand, in <-chan Frame, out chan<- Frame) error {
	ready.Ready()
	defer close(out)

	for {
		select {
		case frame, ok := <-in:
			if !ok {
				return nil
			}
			factor := float32(g.Factor())
			for i := range frame.Samples {
				frame.Samples[i] *= factor
			}
			select {
			case out <- frame:
			case cmd := <-control:
				if cmd == pipeline.CommandShutdown {
					return nil
				}
			}
		case cmd := <-control:
			if cmd == pipeline.CommandShutdown {
				return nil
			}
		}
	}
}
