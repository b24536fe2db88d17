package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSucceedsWhenAllStagesReady(t *testing.T) {
	t.Parallel()

	b := NewBuilder(NewSystemClock()).WithGraceDelay(0)

	var exited sync.WaitGroup
	release := make(chan struct{})
	for _, name := range []string{"source", "transform", "sink"} {
		exited.Add(1)
		require.NoError(t, b.Register(name, &fakeStage{block: release, exited: &exited}))
	}

	p, completion, err := b.Build(context.Background())
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.ElementsMatch(t, []string{"source", "transform", "sink"}, p.Stages())

	// No stage has terminated yet, so the completion future must be pending.
	select {
	case res := <-completion:
		t.Fatalf("completion resolved early: %v", res)
	default:
	}

	close(release)
	select {
	case res := <-completion:
		assert.NoError(t, res)
	case <-time.After(2 * time.Second):
		t.Fatal("completion future never resolved")
	}

	exited.Wait()
	p.Wait()
}

func TestBuildEmptyPipeline(t *testing.T) {
	t.Parallel()

	b := NewBuilder(NewSystemClock())
	p, completion, err := b.Build(context.Background())

	require.ErrorIs(t, err, ErrEmptyPipeline)
	assert.Nil(t, p)
	assert.Nil(t, completion)
}

func TestBuildReadinessTimeout(t *testing.T) {
	t.Parallel()

	b := NewBuilder(NewSystemClock()).WithReadyTimeout(100 * time.Millisecond)

	var exited sync.WaitGroup
	release := make(chan struct{})
	exited.Add(3)
	require.NoError(t, b.Register("a", &fakeStage{block: release, exited: &exited}))
	require.NoError(t, b.Register("b", &fakeStage{skipReady: true, block: release, exited: &exited}))
	require.NoError(t, b.Register("c", &fakeStage{block: release, exited: &exited}))

	_, _, err := b.Build(context.Background())

	var launchErr *TaskLaunchError
	require.ErrorAs(t, err, &launchErr)
	assert.Equal(t, "b", launchErr.Stage)
	assert.Contains(t, launchErr.Reason, "timed out")

	// Already-spawned stages are left running on launch failure; stop them
	// so the test does not leak goroutines.
	close(release)
	exited.Wait()
}

func TestBuildStageReportsLaunchFailure(t *testing.T) {
	t.Parallel()

	b := NewBuilder(NewSystemClock())

	var exited sync.WaitGroup
	exited.Add(1)
	boom := assert.AnError
	require.NoError(t, b.Register("decoder", &fakeStage{readyErr: boom, exited: &exited}))

	_, _, err := b.Build(context.Background())

	var launchErr *TaskLaunchError
	require.ErrorAs(t, err, &launchErr)
	assert.Equal(t, "decoder", launchErr.Stage)
	assert.ErrorIs(t, err, boom)

	exited.Wait()
}

func TestBuildStageDiesBeforeSignaling(t *testing.T) {
	t.Parallel()

	b := NewBuilder(NewSystemClock()).WithReadyTimeout(2 * time.Second)

	var exited sync.WaitGroup
	exited.Add(1)
	require.NoError(t, b.Register("mute", &fakeStage{skipReady: true, exited: &exited}))
	exited.Wait()

	_, _, err := b.Build(context.Background())

	var launchErr *TaskLaunchError
	require.ErrorAs(t, err, &launchErr)
	assert.Equal(t, "mute", launchErr.Stage)
	assert.Contains(t, launchErr.Reason, "exited before signaling readiness")
}

func TestBuildCanceledContext(t *testing.T) {
	t.Parallel()

	b := NewBuilder(NewSystemClock()).WithReadyTimeout(5 * time.Second)

	var exited sync.WaitGroup
	release := make(chan struct{})
	exited.Add(1)
	require.NoError(t, b.Register("slow", &fakeStage{skipReady: true, block: release, exited: &exited}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := b.Build(ctx)

	var launchErr *TaskLaunchError
	require.ErrorAs(t, err, &launchErr)
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	exited.Wait()
}

func TestRegisterDuplicateNameRejectedImmediately(t *testing.T) {
	t.Parallel()

	b := NewBuilder(NewSystemClock())

	var exited sync.WaitGroup
	release := make(chan struct{})
	exited.Add(1)
	require.NoError(t, b.Register("demuxer", &fakeStage{block: release, exited: &exited}))

	err := b.Register("demuxer", &fakeStage{})

	var dupErr *DuplicateStageError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "demuxer", dupErr.Stage)

	close(release)
	exited.Wait()
}

func TestRegisterAfterBuildRejected(t *testing.T) {
	t.Parallel()

	b := NewBuilder(NewSystemClock()).WithGraceDelay(0)

	var exited sync.WaitGroup
	exited.Add(1)
	require.NoError(t, b.Register("only", &fakeStage{exited: &exited}))

	_, completion, err := b.Build(context.Background())
	require.NoError(t, err)

	err = b.Register("late", &fakeStage{})
	assert.Error(t, err)

	<-completion
	exited.Wait()
}

func TestBuildTwiceRejected(t *testing.T) {
	t.Parallel()

	b := NewBuilder(NewSystemClock()).WithGraceDelay(0)

	var exited sync.WaitGroup
	exited.Add(1)
	require.NoError(t, b.Register("only", &fakeStage{exited: &exited}))

	_, completion, err := b.Build(context.Background())
	require.NoError(t, err)

	_, _, err = b.Build(context.Background())
	assert.Error(t, err)

	<-completion
	exited.Wait()
}
