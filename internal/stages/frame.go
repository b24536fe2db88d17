package stages

import "time"

// Frame is the payload flowing between media stages: one fixed-size block
// of mono float32 samples stamped with the pipeline clock.
type Frame struct {
	// Seq is the frame's position in the stream, starting at zero.
	Seq uint64

	// Samples holds the frame's PCM samples. Stages downstream may modify
	// the slice in place; a frame is owned by whichever stage currently
	// holds it.
	Samples []float32

	// Timestamp is the pipeline clock reading when the frame was produced.
	Timestamp time.Time
}
