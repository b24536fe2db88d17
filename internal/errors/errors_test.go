package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorBuilder(t *testing.T) {
	t.Parallel()

	base := NewStd("stage refused to start")
	err := New(base).
		Component("pipeline").
		Category(CategoryStageLaunch).
		Context("stage", "decoder").
		Build()

	require.NotNil(t, err)
	assert.Equal(t, "stage refused to start", err.Error())
	assert.Equal(t, "pipeline", err.GetComponent())
	assert.Equal(t, string(CategoryStageLaunch), err.GetCategory())
	assert.Equal(t, "decoder", err.GetContext()["stage"])
	assert.False(t, err.GetTimestamp().IsZero())
}

func TestErrorUnwrap(t *testing.T) {
	t.Parallel()

	base := NewStd("underlying")
	err := New(fmt.Errorf("wrapped: %w", base)).Build()

	assert.True(t, Is(err, base))
	assert.Equal(t, "wrapped: underlying", err.GetMessage())
}

func TestCategoryMatching(t *testing.T) {
	t.Parallel()

	err := New(NewStd("boom")).Category(CategoryStagePanic).Build()

	assert.True(t, IsCategory(err, CategoryStagePanic))
	assert.False(t, IsCategory(err, CategoryTimeout))
	assert.False(t, IsNotFound(err))
}

func TestDefaultCategory(t *testing.T) {
	t.Parallel()

	err := New(NewStd("plain")).Build()
	assert.Equal(t, CategoryGeneric, err.Category)
}

func TestPriorityValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		priority string
		want     string
	}{
		{"valid_critical", PriorityCritical, PriorityCritical},
		{"valid_low", PriorityLow, PriorityLow},
		{"invalid_falls_back_to_medium", "urgent", PriorityMedium},
		{"empty_stays_empty", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := New(NewStd("x")).Priority(tt.priority).Build()
			assert.Equal(t, tt.want, err.GetPriority())
		})
	}
}

func TestStageContext(t *testing.T) {
	t.Parallel()

	err := New(NewStd("x")).StageContext("run-1", "muxer").Build()
	ctx := err.GetContext()
	assert.Equal(t, "run-1", ctx["pipeline_id"])
	assert.Equal(t, "muxer", ctx["stage"])
}
