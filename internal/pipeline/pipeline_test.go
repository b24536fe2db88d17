package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownBroadcastStopsStages(t *testing.T) {
	t.Parallel()

	b := NewBuilder(NewSystemClock()).WithGraceDelay(0)

	var exited sync.WaitGroup
	exited.Add(2)
	require.NoError(t, b.Register("ingest", &drainStage{exited: &exited}))
	require.NoError(t, b.Register("render", &drainStage{exited: &exited}))

	p, completion, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.False(t, p.IsShutdown())

	p.Shutdown()
	assert.True(t, p.IsShutdown())

	// Shutdown is idempotent.
	p.Shutdown()

	select {
	case res := <-completion:
		assert.NoError(t, res)
	case <-time.After(2 * time.Second):
		t.Fatal("stages did not observe the shutdown command")
	}

	exited.Wait()
	p.Wait()
}

func TestPipelineClockShared(t *testing.T) {
	t.Parallel()

	clock := NewSystemClock()
	b := NewBuilder(clock).WithGraceDelay(0)

	var exited sync.WaitGroup
	exited.Add(1)
	require.NoError(t, b.Register("only", &fakeStage{exited: &exited}))

	p, completion, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.Same(t, clock, p.Clock())
	assert.NotEmpty(t, p.ID())

	<-completion
	exited.Wait()
	p.Wait()
}
