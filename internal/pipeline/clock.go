package pipeline

import "time"

// Clock is the capability stages use for time. The builder derives a
// stage-scoped view for every registration, so implementations may hand out
// per-stage state (offsets, rate adjustment) without stages sharing mutable
// views. Implementations must be safe for concurrent use from multiple
// stage goroutines.
type Clock interface {
	// Now returns the current pipeline time.
	Now() time.Time

	// View derives a stage-local view of this clock. The returned clock is
	// what the named stage's run logic receives.
	View(stage string) Clock
}

// SystemClock is a Clock backed by the wall clock. All stage views share
// the same underlying time source.
type SystemClock struct{}

// NewSystemClock returns a wall-clock backed Clock.
func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

// Now implements Clock.
func (c *SystemClock) Now() time.Time {
	return time.Now()
}

// View implements Clock. The system clock has no per-stage state, so every
// view is the clock itself.
func (c *SystemClock) View(stage string) Clock {
	return c
}
