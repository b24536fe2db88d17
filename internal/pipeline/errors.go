package pipeline

import (
	"fmt"

	"github.com/tphakala/mediaflow/internal/errors"
)

// Component identifier for pipeline errors
const ComponentPipeline = "pipeline"

// ErrEmptyPipeline is returned by Build when no stages were registered.
var ErrEmptyPipeline = errors.New(errors.NewStd("pipeline has no registered stages")).
	Component(ComponentPipeline).
	Category(errors.CategoryValidation).
	Context("operation", "build").
	Build()

// DuplicateStageError is returned by registration when a stage name is
// already taken within the builder. Stage names must be unique.
type DuplicateStageError struct {
	Stage string
}

// Error implements the error interface
func (e *DuplicateStageError) Error() string {
	return fmt.Sprintf("a stage named %q has already been added to the pipeline", e.Stage)
}

// TaskLaunchError is returned by Build when a stage fails its readiness
// handshake: it timed out, reported an explicit failure, or its goroutine
// ended before signaling.
type TaskLaunchError struct {
	Stage  string
	Reason string
	Err    error // underlying failure reported by the stage, if any
}

// Error implements the error interface
func (e *TaskLaunchError) Error() string {
	return fmt.Sprintf("launching stage %q failed: %s", e.Stage, e.Reason)
}

// Unwrap exposes the stage-reported failure for errors.Is/As chains.
func (e *TaskLaunchError) Unwrap() error {
	return e.Err
}

// stageFailure formats the pipeline-level outcome for a stage that reported
// an explicit failure.
func stageFailure(stage string, reason error) error {
	return errors.Newf("stage %q failed: %v", stage, reason).
		Component(ComponentPipeline).
		Category(errors.CategoryStageRun).
		Context("stage", stage).
		Build()
}

// stageFailureUnknown formats the pipeline-level outcome for a stage whose
// completion signal closed without a value.
func stageFailureUnknown(stage string) error {
	return errors.Newf("stage %q failed: reason unknown", stage).
		Component(ComponentPipeline).
		Category(errors.CategoryStageRun).
		Context("stage", stage).
		Build()
}
