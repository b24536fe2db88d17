package stages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/mediaflow/internal/pipeline"
)

func TestCounterTotalsFramesAndSamples(t *testing.T) {
	t.Parallel()

	in := make(chan Frame, 3)
	in <- Frame{Samples: make([]float32, 4)}
	in <- Frame{Samples: make([]float32, 4)}
	in <- Frame{Samples: make([]float32, 2)}
	close(in)

	c := NewCounter(0)
	control := make(chan pipeline.ControlCommand, 1)

	require.NoError(t, c.Run(pipeline.NewSystemClock(), pipeline.ReadySignal{}, control, in))

	assert.Equal(t, uint64(3), c.Frames())
	assert.Equal(t, uint64(10), c.Samples())
}

func TestCounterStopsOnShutdown(t *testing.T) {
	t.Parallel()

	in := make(chan Frame) // never fed, never closed
	c := NewCounter(0)
	control := make(chan pipeline.ControlCommand, 1)
	control <- pipeline.CommandShutdown

	done := make(chan error, 1)
	go func() {
		done <- c.Run(pipeline.NewSystemClock(), pipeline.ReadySignal{}, control, in)
	}()

	require.NoError(t, <-done)
	assert.Equal(t, uint64(0), c.Frames())
}
