package stages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/mediaflow/internal/errors"
	"github.com/tphakala/mediaflow/internal/pipeline"
)

func TestGeneratorProducesBoundedStream(t *testing.T) {
	t.Parallel()

	gen := NewGenerator(8, 0)
	gen.MaxFrames = 3

	out := make(chan Frame, 3)
	control := make(chan pipeline.ControlCommand, 1)

	err := gen.Run(pipeline.NewSystemClock(), pipeline.ReadySignal{}, control, out)
	require.NoError(t, err)

	var frames []Frame
	for frame := range out {
		frames = append(frames, frame)
	}
	require.Len(t, frames, 3)
	for i, frame := range frames {
		assert.Equal(t, uint64(i), frame.Seq)
		assert.Len(t, frame.Samples, 8)
		assert.False(t, frame.Timestamp.IsZero())
	}
}

func TestGeneratorRejectsInvalidFrameSize(t *testing.T) {
	t.Parallel()

	gen := NewGenerator(0, 0)
	out := make(chan Frame, 1)
	control := make(chan pipeline.ControlCommand, 1)

	err := gen.Run(pipeline.NewSystemClock(), pipeline.ReadySignal{}, control, out)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestGeneratorStopsOnShutdown(t *testing.T) {
	t.Parallel()

	gen := NewGenerator(4, 0)

	out := make(chan Frame) // unbuffered, never read
	control := make(chan pipeline.ControlCommand, 1)
	control <- pipeline.CommandShutdown

	done := make(chan error, 1)
	go func() {
		done <- gen.Run(pipeline.NewSystemClock(), pipeline.ReadySignal{}, control, out)
	}()

	require.NoError(t, <-done)
	_, open := <-out
	assert.False(t, open, "generator should close its output on exit")
}
