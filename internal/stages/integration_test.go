package stages_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/mediaflow/internal/pipeline"
	"github.com/tphakala/mediaflow/internal/stages"
)

// buildChain wires generator -> gain -> counter on a fresh builder.
func buildChain(t *testing.T, gen *stages.Generator, counter *stages.Counter) *pipeline.Builder {
	t.Helper()

	b := pipeline.NewBuilder(pipeline.NewSystemClock())

	gain, err := stages.NewGain(1.5)
	require.NoError(t, err)

	path, err := pipeline.Source(b, "generator", gen)
	require.NoError(t, err)
	framePath, err := pipeline.Via(path, "gain", gain)
	require.NoError(t, err)
	_, err = framePath.Sink("counter", counter)
	require.NoError(t, err)

	return b
}

func TestFullPipelineRunsToCompletion(t *testing.T) {
	t.Parallel()

	gen := stages.NewGenerator(16, 0)
	gen.MaxFrames = 10
	counter := stages.NewCounter(0)

	b := buildChain(t, gen, counter)
	p, completion, err := b.Build(context.Background())
	require.NoError(t, err)

	select {
	case res := <-completion:
		assert.NoError(t, res, "bounded pipeline should complete cleanly")
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline never completed")
	}

	p.Wait()
	assert.Equal(t, uint64(10), counter.Frames())
	assert.Equal(t, uint64(160), counter.Samples())
}

func TestFullPipelineShutdown(t *testing.T) {
	t.Parallel()

	gen := stages.NewGenerator(16, time.Millisecond) // unbounded
	counter := stages.NewCounter(0)

	b := buildChain(t, gen, counter)
	p, completion, err := b.Build(context.Background())
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	p.Shutdown()

	select {
	case res := <-completion:
		assert.NoError(t, res, "voluntary shutdown is a clean completion")
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline never completed after shutdown")
	}
	p.Wait()
}
